package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/tinderbot-cli/internal/application"
	"github.com/bnema/tinderbot-cli/internal/domain"
)

func newAuthCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage facebook credentials",
	}

	cmd.AddCommand(
		newAuthSetCmd(app),
		newAuthRemoveCmd(app),
		newAuthStatusCmd(app),
		newAuthCheckCmd(app),
	)

	return cmd
}

func newAuthSetCmd(app *app) *cobra.Command {
	var facebookID int64
	var token string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Store the facebook id and token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.credentials.SetCredentials(cmd.Context(), application.SetCredentialsCommand{
				FacebookID:    domain.FacebookID(facebookID),
				FacebookToken: token,
			}); err != nil {
				return err
			}

			_, err := fmt.Fprintf(cmd.OutOrStdout(), "stored credentials for facebook id %d\n", facebookID)
			return err
		},
	}

	cmd.Flags().Int64Var(&facebookID, "facebook-id", 0, "Facebook user ID")
	cmd.Flags().StringVar(&token, "token", "", "Facebook access token")
	_ = cmd.MarkFlagRequired("facebook-id")
	_ = cmd.MarkFlagRequired("token")

	return cmd
}

func newAuthRemoveCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "remove",
		Short: "Forget the stored credentials",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.credentials.RemoveCredentials(cmd.Context())
		},
	}
}

func newAuthStatusCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show where credentials come from without contacting the API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			status, err := app.credentials.Status(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !status.Configured() {
				_, err = fmt.Fprintln(out, "credentials: not configured (run `tb auth set`)")
				return err
			}

			_, err = fmt.Fprintf(out, "facebook id: %d\ntoken source: %s\nsecret ref: %s\n",
				status.FacebookID, status.TokenSource, valueOrNone(status.SecretRef))
			return err
		},
	}
}

func newAuthCheckCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Exchange the credentials for a session token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, _, err := app.client(cmd.Context())
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "authenticated as facebook id %d\n", client.Session().Credentials.FacebookID)
			return err
		},
	}
}
