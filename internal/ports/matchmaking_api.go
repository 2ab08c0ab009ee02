package ports

import (
	"context"

	"github.com/bnema/tinderbot-cli/internal/domain"
)

// MatchmakingAPI is the remote surface the automation loop drives.
type MatchmakingAPI interface {
	Candidates(ctx context.Context) ([]domain.Candidate, error)
	Like(ctx context.Context, id domain.CandidateID) (domain.Payload, error)
}
