package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func Execute() error {
	return newRootCmd().ExecuteContext(context.Background())
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{viper: viper.New()}
	app := &app{}

	rootCmd := &cobra.Command{
		Use:           "wr",
		Short:         "Wallet resources (wr): EOSIO resource prices and account state",
		Long:          "wr tracks the PowerUp and REX resource markets of an EOSIO chain, prices CPU rentals, and keeps a cache of account resource state.",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if !needsApp(cmd) {
				return nil
			}

			wired, err := wireApp(cmd.Context(), opts)
			if err != nil {
				return err
			}
			*app = *wired
			return nil
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			return app.Close()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", "", "Config file (default: $XDG_CONFIG_HOME/wr/config.toml)")
	flags.StringVar(&opts.envFile, "env-file", "", "Env file loaded before reading WR_* variables (default: .env)")
	flags.String("chain-url", "", "Chain API endpoint, e.g. https://eos.greymass.com")
	flags.String("cache-backend", "", "Account cache backend: toml, memory, redis or tiered")
	flags.String("log-level", "", "Log level: debug, info, warn or error")

	_ = opts.viper.BindPFlag("chain.url", flags.Lookup("chain-url"))
	_ = opts.viper.BindPFlag("cache.backend", flags.Lookup("cache-backend"))
	_ = opts.viper.BindPFlag("log.level", flags.Lookup("log-level"))

	rootCmd.AddCommand(
		newVersionCmd(),
		newAccountCmd(app),
		newQuoteCmd(app),
		newResourcesCmd(app),
		newServeCmd(app),
	)

	return rootCmd
}

const skipWireAnnotation = "wr.skip-wire"

func needsApp(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[skipWireAnnotation] == "true" {
			return false
		}
		switch c.Name() {
		case "help", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd, "completion":
			return false
		}
	}
	return true
}
