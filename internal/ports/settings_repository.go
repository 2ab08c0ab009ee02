package ports

import (
	"context"

	"github.com/bnema/tinderbot-cli/internal/domain"
)

type SettingsRepository interface {
	Load(ctx context.Context) (domain.Settings, error)
	// LoadStored returns the persisted settings without environment
	// overrides. Read-modify-write callers use it before Save.
	LoadStored(ctx context.Context) (domain.Settings, error)
	Save(ctx context.Context, settings domain.Settings) error
}
