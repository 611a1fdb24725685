package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/bnema/wallet-resources/internal/application"
	"github.com/bnema/wallet-resources/internal/domain"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type accountOutput struct {
	Account domain.Account `json:"account"`
	Stale   bool           `json:"stale"`
	Updated time.Time      `json:"updated"`
	Error   string         `json:"error,omitempty"`
}

func newAccountCmd(app *app) *cobra.Command {
	var refresh bool
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "account <name>",
		Short: "Show the cached resource state of an account",
		Long:  "Show an account from the local cache, fetching it from the chain when it is missing, older than cache.max_age, or when --refresh is set.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp := app.service.Account(cmd.Context(), domain.AccountName(args[0]), refresh)
			if resp.Error != nil && resp.Updated.IsZero() {
				return fmt.Errorf("load account %s: %w", args[0], resp.Error)
			}
			if resp.Error != nil {
				app.logger.Warn("serving cached account after refresh failure",
					zap.String("account", args[0]), zap.Error(resp.Error))
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), newAccountOutput(resp))
			}
			return writeAccountText(cmd.OutOrStdout(), resp)
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "Fetch from the chain even when the cached copy is fresh")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}

func newAccountOutput(resp application.AccountResponse) accountOutput {
	out := accountOutput{Account: resp.Account, Stale: resp.Stale, Updated: resp.Updated}
	if resp.Error != nil {
		out.Error = resp.Error.Error()
	}
	return out
}

func writeAccountText(w io.Writer, resp application.AccountResponse) error {
	account := resp.Account

	header := string(account.Name)
	if resp.Stale {
		header += " [stale]"
	}
	lines := []string{
		header,
		fmt.Sprintf("  liquid:\t%s", orNA(account.CoreLiquidBalance.String())),
		fmt.Sprintf("  cpu:\t%d / %d us\t(weight %d)", account.CPULimit.Used, account.CPULimit.Max, account.CPUWeight),
		fmt.Sprintf("  net:\t%d / %d bytes\t(weight %d)", account.NetLimit.Used, account.NetLimit.Max, account.NetWeight),
		fmt.Sprintf("  ram:\t%d / %d bytes", account.RAMUsage, account.RAMQuota),
		fmt.Sprintf("  updated:\t%s", resp.Updated.Format(time.RFC3339)),
	}
	if resp.Error != nil {
		lines = append(lines, fmt.Sprintf("  refresh failed:\t%v", resp.Error))
	}

	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func orNA(value string) string {
	if value == "" {
		return "n/a"
	}
	return value
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
