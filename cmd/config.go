package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/bnema/tinderbot-cli/internal/domain"
)

func newConfigCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the settings file",
	}

	cmd.AddCommand(newConfigInitCmd(app), newConfigShowCmd(app))

	return cmd
}

func newConfigInitCmd(app *app) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a settings file with default values",
		RunE: func(cmd *cobra.Command, _ []string) error {
			exists, err := app.settings.Exists()
			if err != nil {
				return err
			}
			if exists && !force {
				return fmt.Errorf("settings file %s already exists (use --force to overwrite)", app.settings.Path())
			}

			if err := app.settings.Save(cmd.Context(), domain.DefaultSettings()); err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", app.settings.Path())
			return err
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing settings file")

	return cmd
}

func newConfigShowCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective settings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings, err := app.loadSettings(cmd.Context())
			if err != nil {
				return err
			}

			return writeSettings(cmd.OutOrStdout(), app, settings)
		},
	}
}

// writeSettings never prints secret values, only where they live.
func writeSettings(w io.Writer, app *app, settings domain.Settings) error {
	rows := []struct {
		key   string
		value any
	}{
		{"file", app.settings.Path()},
		{"secrets", app.secretsRootDir},
		{"api.base_url", settings.API.BaseURL},
		{"api.user_agent", settings.API.UserAgent},
		{"api.insecure_skip_verify", settings.API.InsecureSkipVerify},
		{"api.timeout", durationOrNone(settings.API.Timeout)},
		{"account.facebook_id", int64(settings.Account.FacebookID)},
		{"account.secret_ref", valueOrNone(settings.Account.SecretRef)},
		{"bot.min_candidates", settings.Bot.MinCandidates},
		{"bot.max_attempts", settings.Bot.MaxAttempts},
		{"bot.interval", durationOrNone(settings.Bot.Interval)},
		{"bot.deadline", durationOrNone(settings.Bot.Deadline)},
		{"logs.level", settings.Logs.Level},
		{"logs.json", settings.Logs.JSON},
	}

	for _, row := range rows {
		if _, err := fmt.Fprintf(w, "%-26s %v\n", row.key, row.value); err != nil {
			return err
		}
	}

	return nil
}

func durationOrNone(d time.Duration) string {
	if d <= 0 {
		return "none"
	}
	return d.String()
}

func valueOrNone(v string) string {
	if v == "" {
		return "none"
	}
	return v
}
