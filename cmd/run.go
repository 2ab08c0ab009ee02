package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/bnema/tinderbot-cli/internal/adapters/render/summary"
	"github.com/bnema/tinderbot-cli/internal/application"
	"github.com/bnema/tinderbot-cli/internal/domain"
)

type runFlags struct {
	minCandidates int
	maxAttempts   int
	interval      time.Duration
	deadline      time.Duration
	maxRows       int
	asJSON        bool
}

func newRunCmd(app *app) *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Collect recommendations and like every candidate",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBot(cmd, app, flags)
		},
	}

	defaults := domain.DefaultSettings().Bot
	cmd.Flags().IntVar(&flags.minCandidates, "min", defaults.MinCandidates, "Minimum pool size before liking")
	cmd.Flags().IntVar(&flags.maxAttempts, "max-attempts", defaults.MaxAttempts, "Maximum recommendation fetches (0 = unbounded, needs --deadline)")
	cmd.Flags().DurationVar(&flags.interval, "interval", defaults.Interval, "Delay between fetches")
	cmd.Flags().DurationVar(&flags.deadline, "deadline", defaults.Deadline, "Overall polling deadline (0 = none)")
	cmd.Flags().IntVar(&flags.maxRows, "max-rows", 20, "Maximum candidates listed in the summary (0 = all)")
	cmd.Flags().BoolVar(&flags.asJSON, "json", false, "Render JSON output")

	return cmd
}

func runBot(cmd *cobra.Command, app *app, flags runFlags) error {
	client, settings, err := app.client(cmd.Context())
	if err != nil {
		return err
	}

	policy := application.PollPolicyFromSettings(settings.Bot)
	if cmd.Flags().Changed("min") {
		policy.MinCandidates = flags.minCandidates
	}
	if cmd.Flags().Changed("max-attempts") {
		policy.MaxAttempts = flags.maxAttempts
	}
	if cmd.Flags().Changed("interval") {
		policy.Interval = flags.interval
	}
	if cmd.Flags().Changed("deadline") {
		policy.Deadline = flags.deadline
	}

	run := func(ctx context.Context, onProgress func(application.Progress)) (application.Report, error) {
		bot, err := application.NewBot(client, policy, app.logger, application.WithProgress(onProgress))
		if err != nil {
			return application.Report{}, err
		}
		return bot.Run(ctx)
	}

	if err := policy.Validate(); err != nil {
		return err
	}

	var report application.Report
	if flags.asJSON {
		report, err = run(cmd.Context(), nil)
	} else {
		release := app.holdLogs(cmd.ErrOrStderr())
		report, err = runWithProgress(cmd.Context(), cmd.ErrOrStderr(), policy.MinCandidates, run)
		if releaseErr := release(); releaseErr != nil && err == nil {
			err = releaseErr
		}
	}

	if writeErr := writeRunOutput(cmd, app, report, policy, flags); writeErr != nil {
		return writeErr
	}

	return err
}

type runResultOutput struct {
	ID      domain.CandidateID `json:"id"`
	Name    string             `json:"name,omitempty"`
	Status  int                `json:"status,omitempty"`
	Matched bool               `json:"matched"`
	Error   string             `json:"error,omitempty"`
}

type runOutput struct {
	Attempts int               `json:"attempts"`
	PoolSize int               `json:"pool_size"`
	Liked    int               `json:"liked"`
	Failed   int               `json:"failed"`
	Matches  int               `json:"matches"`
	Results  []runResultOutput `json:"results"`
}

func newRunOutput(report application.Report) runOutput {
	out := runOutput{
		Attempts: report.Attempts,
		PoolSize: report.PoolSize,
		Liked:    report.Liked(),
		Failed:   report.Failed(),
		Matches:  report.Matches(),
	}

	out.Results = lo.Map(report.Results, func(result application.LikeResult, _ int) runResultOutput {
		row := runResultOutput{
			ID:      result.Candidate.ID,
			Name:    result.Candidate.Name,
			Status:  result.Payload.StatusCode,
			Matched: result.Matched(),
		}
		if result.Err != nil {
			row.Error = result.Err.Error()
		}
		return row
	})

	return out
}

func writeRunOutput(cmd *cobra.Command, app *app, report application.Report, policy application.PollPolicy, flags runFlags) error {
	if flags.asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(newRunOutput(report))
	}

	rendered, err := app.summaryRender(report, summary.RenderOptions{
		Target:  policy.MinCandidates,
		MaxRows: flags.maxRows,
	})
	if err != nil {
		return fmt.Errorf("render summary: %w", err)
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
	return err
}
