package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "tb",
		Short:         "Tinderbot CLI (tb): call the Tinder API and run the like-all bot",
		Long:          "tb (Tinderbot CLI) authenticates against the Tinder API with facebook credentials, exposes its endpoints as commands, and runs a bot that collects recommendations and likes each of them.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	rootCmd.PersistentFlags().BoolVar(&app.flags.insecure, "insecure", false, "Skip TLS certificate validation")
	rootCmd.PersistentFlags().StringVar(&app.flags.logLevel, "log-level", "", "Log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().BoolVar(&app.flags.logJSON, "log-json", false, "Emit logs as JSON")
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		return app.configureLogging(cmd)
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newConfigCmd(app),
		newAuthCmd(app),
		newRecsCmd(app),
		newLikeCmd(app),
		newPassCmd(app),
		newUserCmd(app),
		newProfileCmd(app),
		newReportCmd(app),
		newMessageCmd(app),
		newLocationCmd(app),
		newUpdatesCmd(app),
		newRunCmd(app),
	)

	return rootCmd
}
