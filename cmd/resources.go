package cmd

import (
	"fmt"
	"time"

	statusadapter "github.com/bnema/wallet-resources/internal/adapters/render/status"
	"github.com/bnema/wallet-resources/internal/application"
	"github.com/bnema/wallet-resources/internal/domain"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newResourcesCmd(app *app) *cobra.Command {
	var account string
	var asJSON bool
	var staleAfter time.Duration

	cmd := &cobra.Command{
		Use:     "resources",
		Aliases: []string{"status"},
		Short:   "Fetch and display resource markets, account state and token balances",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			err := runFetchSpinner(cmd.Context(), cmd.ErrOrStderr(), "Fetching", app.service.RefreshSteps())
			status := app.service.Status(cmd.Context(), domain.AccountName(account))
			if err != nil {
				if !status.Aggregates.PowerUp.Ready {
					return fmt.Errorf("refresh resource markets: %w", err)
				}
				app.logger.Warn("partial refresh", zap.Error(err))
			}

			return writeStatusOutput(cmd, app, status, staleAfter, asJSON)
		},
	}

	cmd.Flags().StringVar(&account, "account", "", "Also show the resource state of this account")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")
	cmd.Flags().DurationVar(&staleAfter, "stale-after", time.Minute, "Mark market snapshots older than this as stale")

	return cmd
}

func writeStatusOutput(cmd *cobra.Command, app *app, status application.Status, staleAfter time.Duration, asJSON bool) error {
	if asJSON {
		return writeJSON(cmd.OutOrStdout(), newStatusOutput(status))
	}

	rendered, err := app.statusRenderer(status, statusadapter.RenderOptions{
		Now:        app.now(),
		StaleAfter: staleAfter,
	})
	if err != nil {
		return fmt.Errorf("render status: %w", err)
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
	return err
}

type statusOutput struct {
	ChainID    domain.ChainID         `json:"chain_id"`
	Aggregates application.Aggregates `json:"aggregates"`
	Account    *accountOutput         `json:"account,omitempty"`
	Tokens     []domain.Token         `json:"tokens"`
	Balances   []domain.Balance       `json:"balances,omitempty"`
}

func newStatusOutput(status application.Status) statusOutput {
	out := statusOutput{
		ChainID:    status.ChainID,
		Aggregates: status.Aggregates,
		Tokens:     status.Tokens,
		Balances:   status.Balances,
	}
	if status.Account != nil {
		account := newAccountOutput(*status.Account)
		out.Account = &account
	}
	return out
}
