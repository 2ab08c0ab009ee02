package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bnema/tinderbot-cli/internal/adapters/tinder"
	"github.com/bnema/tinderbot-cli/internal/domain"
)

// callFunc performs one API call with an authenticated client.
type callFunc func(ctx context.Context, client *tinder.Client) (domain.Payload, error)

func runCall(cmd *cobra.Command, app *app, call callFunc) error {
	client, _, err := app.client(cmd.Context())
	if err != nil {
		return err
	}

	payload, err := call(cmd.Context(), client)
	if err != nil {
		return err
	}

	return writePayload(cmd, payload)
}

func writePayload(cmd *cobra.Command, payload domain.Payload) error {
	rendered, err := payload.Indent()
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
	return err
}

func newRecsCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "recs",
		Short: "List recommended candidates",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, _, err := app.client(cmd.Context())
			if err != nil {
				return err
			}

			if asJSON {
				payload, err := client.Recommendations(cmd.Context())
				if err != nil {
					return err
				}
				return writePayload(cmd, payload)
			}

			candidates, err := client.Candidates(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(candidates) == 0 {
				_, err = fmt.Fprintln(out, "no recommendations")
				return err
			}
			for _, candidate := range candidates {
				if _, err := fmt.Fprintf(out, "%s\t%s\n", candidate.ID, candidate.Name); err != nil {
					return err
				}
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the raw recommendations payload")

	return cmd
}

func newLikeCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "like <user-id>",
		Short: "Like a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCall(cmd, app, func(ctx context.Context, client *tinder.Client) (domain.Payload, error) {
				return client.Like(ctx, domain.CandidateID(args[0]))
			})
		},
	}
}

func newPassCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "pass <user-id>",
		Short: "Pass on a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCall(cmd, app, func(ctx context.Context, client *tinder.Client) (domain.Payload, error) {
				return client.Pass(ctx, domain.CandidateID(args[0]))
			})
		},
	}
}

func newUserCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "user <user-id>",
		Short: "Fetch a user's public profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCall(cmd, app, func(ctx context.Context, client *tinder.Client) (domain.Payload, error) {
				return client.User(ctx, domain.CandidateID(args[0]))
			})
		},
	}
}

func newProfileCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Read or update your discovery profile",
	}

	cmd.AddCommand(newProfileShowCmd(app), newProfileSetCmd(app))

	return cmd
}

func newProfileShowCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print your profile",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCall(cmd, app, func(ctx context.Context, client *tinder.Client) (domain.Payload, error) {
				return client.Profile(ctx)
			})
		},
	}
}

func newProfileSetCmd(app *app) *cobra.Command {
	var gender string
	var filter domain.ProfileFilter

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Update gender, age range and distance filters",
		RunE: func(cmd *cobra.Command, _ []string) error {
			parsed, err := domain.ParseGender(gender)
			if err != nil {
				return err
			}
			filter.Gender = parsed
			if err := filter.Validate(); err != nil {
				return err
			}

			return runCall(cmd, app, func(ctx context.Context, client *tinder.Client) (domain.Payload, error) {
				return client.UpdateProfile(ctx, filter)
			})
		},
	}

	cmd.Flags().StringVar(&gender, "gender", "", "Gender (male|female|0|1)")
	cmd.Flags().IntVar(&filter.AgeMin, "age-min", 18, "Minimum age")
	cmd.Flags().IntVar(&filter.AgeMax, "age-max", 0, "Maximum age")
	cmd.Flags().IntVar(&filter.DistanceMiles, "distance", 0, "Distance filter in miles")
	_ = cmd.MarkFlagRequired("gender")
	_ = cmd.MarkFlagRequired("age-max")
	_ = cmd.MarkFlagRequired("distance")

	return cmd
}

func newReportCmd(app *app) *cobra.Command {
	var cause string

	cmd := &cobra.Command{
		Use:   "report <user-id>",
		Short: "Report a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := domain.ParseReportCause(cause)
			if err != nil {
				return err
			}

			return runCall(cmd, app, func(ctx context.Context, client *tinder.Client) (domain.Payload, error) {
				return client.ReportUser(ctx, domain.CandidateID(args[0]), parsed)
			})
		},
	}

	cmd.Flags().StringVar(&cause, "cause", "", "Report cause (spam|offensive)")
	_ = cmd.MarkFlagRequired("cause")

	return cmd
}

func newMessageCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "message <match-id> <text...>",
		Short: "Send a message to a match",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args[1:], " ")
			if strings.TrimSpace(text) == "" {
				return fmt.Errorf("%w: message text is empty", domain.ErrInvalidInput)
			}

			return runCall(cmd, app, func(ctx context.Context, client *tinder.Client) (domain.Payload, error) {
				return client.SendMessage(ctx, domain.CandidateID(args[0]), text)
			})
		},
	}
}

func newLocationCmd(app *app) *cobra.Command {
	var location domain.Location

	cmd := &cobra.Command{
		Use:   "location",
		Short: "Update your location",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := location.Validate(); err != nil {
				return err
			}

			return runCall(cmd, app, func(ctx context.Context, client *tinder.Client) (domain.Payload, error) {
				return client.UpdateLocation(ctx, location)
			})
		},
	}

	cmd.Flags().Float64Var(&location.Lat, "lat", 0, "Latitude")
	cmd.Flags().Float64Var(&location.Lon, "lon", 0, "Longitude")
	_ = cmd.MarkFlagRequired("lat")
	_ = cmd.MarkFlagRequired("lon")

	return cmd
}

func newUpdatesCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "updates",
		Short: "Fetch matches, messages and blocks since the last poll",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCall(cmd, app, func(ctx context.Context, client *tinder.Client) (domain.Payload, error) {
				return client.Updates(ctx)
			})
		},
	}
}
