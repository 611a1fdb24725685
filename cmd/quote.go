package cmd

import (
	"fmt"

	"github.com/bnema/wallet-resources/internal/application"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type quoteOutput struct {
	Model        string  `json:"model"`
	MsToRent     float64 `json:"ms"`
	Fee          string  `json:"fee"`
	ShiftedRatio float64 `json:"shifted_ratio"`
}

func newQuoteCmd(app *app) *cobra.Command {
	var ms float64
	var asJSON bool

	cmd := &cobra.Command{
		Use:       "quote <powerup|powerup-spot|rex>",
		Short:     "Price a CPU rental from the current market state",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(application.QuoteModelPowerUp), string(application.QuoteModelPowerUpSpot), string(application.QuoteModelREX)},
		RunE: func(cmd *cobra.Command, args []string) error {
			model := application.QuoteModel(args[0])
			if !model.Valid() {
				return fmt.Errorf("unknown quote model %q", args[0])
			}
			if ms < 0 {
				return fmt.Errorf("--ms must not be negative: %v", ms)
			}

			resources := app.service.Resources()
			err := runFetchSpinner(cmd.Context(), cmd.ErrOrStderr(), "Fetching", resources.RefreshSteps())
			if err != nil {
				app.logger.Warn("market refresh incomplete", zap.Error(err))
			}

			quote, quoteErr := app.service.Quote(model, ms)
			if quoteErr != nil {
				if err != nil {
					return fmt.Errorf("quote %s: %w", model, err)
				}
				return fmt.Errorf("quote %s: %w", model, quoteErr)
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), quoteOutput{
					Model:        string(quote.Model),
					MsToRent:     quote.MsToRent,
					Fee:          quote.Fee.String(),
					ShiftedRatio: quote.ShiftedRatio,
				})
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s: %s for %g ms (shifted ratio %.2f%%)\n",
				quote.Model, quote.Fee, quote.MsToRent, quote.ShiftedRatio)
			return err
		},
	}

	cmd.Flags().Float64Var(&ms, "ms", 1, "Milliseconds of CPU to rent")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}
