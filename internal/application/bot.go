package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/bnema/tinderbot-cli/internal/domain"
	"github.com/bnema/tinderbot-cli/internal/ports"
)

var (
	ErrPollExhausted = errors.New("candidate polling exhausted before reaching minimum")
	ErrInvalidPolicy = fmt.Errorf("%w: poll policy", domain.ErrInvalidInput)
)

// PollPolicy bounds candidate collection. At least one of MaxAttempts and
// Deadline must be positive.
type PollPolicy struct {
	MinCandidates int
	MaxAttempts   int
	Interval      time.Duration
	Deadline      time.Duration
}

func DefaultPollPolicy() PollPolicy {
	return PollPolicyFromSettings(domain.DefaultSettings().Bot)
}

func PollPolicyFromSettings(settings domain.BotSettings) PollPolicy {
	return PollPolicy{
		MinCandidates: settings.MinCandidates,
		MaxAttempts:   settings.MaxAttempts,
		Interval:      settings.Interval,
		Deadline:      settings.Deadline,
	}
}

func (p PollPolicy) Validate() error {
	if p.MinCandidates < 1 {
		return fmt.Errorf("%w: minimum candidates must be at least 1", ErrInvalidPolicy)
	}
	if p.MaxAttempts < 0 || p.Deadline < 0 || p.Interval < 0 {
		return fmt.Errorf("%w: attempts, deadline and interval must not be negative", ErrInvalidPolicy)
	}
	if p.MaxAttempts == 0 && p.Deadline == 0 {
		return fmt.Errorf("%w: set max attempts or a deadline", ErrInvalidPolicy)
	}

	return nil
}

type Bot struct {
	api      ports.MatchmakingAPI
	policy   PollPolicy
	logger   logrus.FieldLogger
	clock    ports.Clock
	sleep    func(context.Context, time.Duration) error
	progress func(Progress)
}

type Phase string

const (
	PhaseCollecting Phase = "collecting"
	PhaseLiking     Phase = "liking"
)

// Progress is reported after every fetch and every like.
type Progress struct {
	Phase   Phase
	Attempt int
	Pool    int
	Target  int
	Done    int
	Total   int
	Failed  int
}

type BotOption func(*Bot)

// WithProgress registers fn to receive progress updates on the goroutine
// calling Run.
func WithProgress(fn func(Progress)) BotOption {
	return func(b *Bot) {
		if fn != nil {
			b.progress = fn
		}
	}
}

func WithClock(clock ports.Clock) BotOption {
	return func(b *Bot) {
		if clock != nil {
			b.clock = clock
		}
	}
}

// WithSleep replaces the wait between polling attempts.
func WithSleep(sleep func(context.Context, time.Duration) error) BotOption {
	return func(b *Bot) {
		if sleep != nil {
			b.sleep = sleep
		}
	}
}

func NewBot(api ports.MatchmakingAPI, policy PollPolicy, logger logrus.FieldLogger, opts ...BotOption) (*Bot, error) {
	if api == nil {
		return nil, errors.New("matchmaking api is required")
	}
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	bot := &Bot{
		api:      api,
		policy:   policy,
		logger:   logger,
		clock:    ports.SystemClock{},
		sleep:    sleepContext,
		progress: func(Progress) {},
	}
	for _, opt := range opts {
		opt(bot)
	}

	return bot, nil
}

type PollResult struct {
	Pool     *domain.CandidatePool
	Attempts int
}

// Collect fetches candidates until the pool reaches the policy minimum. It
// stops on the first fetch error and never fetches again once the minimum is
// met. On exhaustion the partial pool is returned with ErrPollExhausted. A
// deadline also bounds in-flight fetches and waits.
func (b *Bot) Collect(ctx context.Context) (PollResult, error) {
	result := PollResult{Pool: domain.NewCandidatePool()}
	start := b.clock.Now()

	pollCtx := ctx
	if b.policy.Deadline > 0 {
		var cancel context.CancelFunc
		pollCtx, cancel = context.WithTimeout(ctx, b.policy.Deadline)
		defer cancel()
	}

	for {
		if err := pollCtx.Err(); err != nil {
			return result, b.pollInterrupted(ctx, pollCtx, result, err)
		}

		result.Attempts++
		candidates, err := b.api.Candidates(pollCtx)
		if err != nil {
			if deadlineReached(ctx, pollCtx) {
				return result, b.deadlineExhausted(result)
			}
			return result, fmt.Errorf("fetch candidates (attempt %d): %w", result.Attempts, err)
		}

		added := result.Pool.Merge(candidates)
		b.logger.WithFields(logrus.Fields{
			"attempt":  result.Attempts,
			"received": len(candidates),
			"added":    added,
			"pool":     result.Pool.Len(),
			"target":   b.policy.MinCandidates,
		}).Debug("polled recommendations")
		b.progress(Progress{
			Phase:   PhaseCollecting,
			Attempt: result.Attempts,
			Pool:    result.Pool.Len(),
			Target:  b.policy.MinCandidates,
		})

		if result.Pool.Len() >= b.policy.MinCandidates {
			return result, nil
		}

		if b.policy.MaxAttempts > 0 && result.Attempts >= b.policy.MaxAttempts {
			return result, fmt.Errorf("%w: %d of %d candidates after %d attempts", ErrPollExhausted, result.Pool.Len(), b.policy.MinCandidates, result.Attempts)
		}
		if b.policy.Deadline > 0 {
			elapsed := b.clock.Now().Sub(start)
			if elapsed+b.policy.Interval >= b.policy.Deadline {
				return result, b.deadlineExhausted(result)
			}
		}

		if b.policy.Interval > 0 {
			if err := b.sleep(pollCtx, b.policy.Interval); err != nil {
				return result, b.pollInterrupted(ctx, pollCtx, result, err)
			}
		}
	}
}

func (b *Bot) pollInterrupted(ctx, pollCtx context.Context, result PollResult, err error) error {
	if deadlineReached(ctx, pollCtx) {
		return b.deadlineExhausted(result)
	}
	return err
}

func (b *Bot) deadlineExhausted(result PollResult) error {
	return fmt.Errorf("%w: %d of %d candidates within %s (%d attempts)", ErrPollExhausted, result.Pool.Len(), b.policy.MinCandidates, b.policy.Deadline, result.Attempts)
}

// deadlineReached reports whether pollCtx ended because of the poll deadline
// rather than the caller's context.
func deadlineReached(ctx, pollCtx context.Context) bool {
	return ctx.Err() == nil && errors.Is(pollCtx.Err(), context.DeadlineExceeded)
}

type LikeResult struct {
	Candidate domain.Candidate
	Payload   domain.Payload
	Err       error
}

// Matched reports whether the service answered the like with a match.
func (r LikeResult) Matched() bool {
	if r.Err != nil {
		return false
	}
	match, ok := r.Payload.Field("match")
	if !ok || match == nil {
		return false
	}
	if flag, isBool := match.(bool); isBool {
		return flag
	}
	return true
}

// LikeAll likes every pooled candidate once, in pool order. A failed like is
// logged and recorded; the remaining candidates are still processed. Only
// context cancellation stops the pass early.
func (b *Bot) LikeAll(ctx context.Context, pool *domain.CandidatePool) ([]LikeResult, error) {
	candidates := pool.Candidates()
	results := make([]LikeResult, 0, len(candidates))
	failed := 0

	for _, candidate := range candidates {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		payload, err := b.api.Like(ctx, candidate.ID)
		result := LikeResult{Candidate: candidate, Payload: payload, Err: err}
		results = append(results, result)
		if err != nil {
			failed++
		}
		b.progress(Progress{
			Phase:  PhaseLiking,
			Pool:   len(candidates),
			Target: b.policy.MinCandidates,
			Done:   len(results),
			Total:  len(candidates),
			Failed: failed,
		})

		entry := b.logger.WithFields(logrus.Fields{
			"candidate": string(candidate.ID),
			"name":      candidate.Name,
		})
		if err != nil {
			entry.WithError(err).Warn("like failed, continuing")
			continue
		}
		entry.WithFields(logrus.Fields{
			"status":  payload.StatusCode,
			"matched": result.Matched(),
		}).Info("liked")
	}

	return results, nil
}

type Report struct {
	Attempts int
	PoolSize int
	Results  []LikeResult
}

func (r Report) Liked() int {
	return lo.CountBy(r.Results, func(result LikeResult) bool { return result.Err == nil })
}

func (r Report) Failed() int {
	return len(r.Results) - r.Liked()
}

func (r Report) Matches() int {
	return lo.CountBy(r.Results, LikeResult.Matched)
}

// Run collects candidates then likes each of them. Nothing is liked when
// collection fails.
func (b *Bot) Run(ctx context.Context) (Report, error) {
	poll, err := b.Collect(ctx)
	report := Report{Attempts: poll.Attempts, PoolSize: poll.Pool.Len()}
	if err != nil {
		return report, err
	}

	results, err := b.LikeAll(ctx, poll.Pool)
	report.Results = results
	if err != nil {
		return report, fmt.Errorf("like candidates: %w", err)
	}

	b.logger.WithFields(logrus.Fields{
		"attempts": report.Attempts,
		"pool":     report.PoolSize,
		"liked":    report.Liked(),
		"failed":   report.Failed(),
	}).Info("run complete")

	return report, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	select {
	case <-ctx.Done():
		timer.Stop()
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
