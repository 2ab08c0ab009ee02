package application

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/bnema/tinderbot-cli/internal/domain"
	"github.com/bnema/tinderbot-cli/internal/ports"
)

// FacebookTokenEnv overrides the stored facebook token when set.
const FacebookTokenEnv = "TB_FACEBOOK_TOKEN"

// SecretKeyFor is where the facebook token of an account lives in the
// secret store.
func SecretKeyFor(id domain.FacebookID) string {
	return fmt.Sprintf("tinder/%d/facebook_token", id)
}

// CredentialService resolves and stores the identity-provider credentials
// exchanged for a session token. The session token itself is never stored.
type CredentialService struct {
	settings  ports.SettingsRepository
	store     ports.SecretStore
	lookupEnv func(string) (string, bool)
}

func NewCredentialService(settings ports.SettingsRepository, store ports.SecretStore) *CredentialService {
	return &CredentialService{
		settings:  settings,
		store:     store,
		lookupEnv: os.LookupEnv,
	}
}

func (s *CredentialService) Resolve(ctx context.Context) (domain.Credentials, error) {
	settings, err := s.settings.Load(ctx)
	if err != nil {
		return domain.Credentials{}, fmt.Errorf("load settings: %w", err)
	}

	creds := domain.Credentials{FacebookID: settings.Account.FacebookID}
	if creds.FacebookID <= 0 {
		return domain.Credentials{}, fmt.Errorf("%w: facebook id is not configured (run `tb auth set`)", domain.ErrCredentialsMissing)
	}

	if token, ok := s.lookupEnv(FacebookTokenEnv); ok && strings.TrimSpace(token) != "" {
		creds.FacebookToken = token
		return creds, nil
	}

	if settings.Account.SecretRef == "" {
		return domain.Credentials{}, fmt.Errorf("%w: no facebook token stored for %d", domain.ErrCredentialsMissing, creds.FacebookID)
	}

	token, err := s.store.Get(ctx, settings.Account.SecretRef)
	if err != nil {
		if errors.Is(err, domain.ErrSecretNotFound) {
			return domain.Credentials{}, fmt.Errorf("%w: %w", domain.ErrCredentialsMissing, err)
		}
		return domain.Credentials{}, fmt.Errorf("read facebook token: %w", err)
	}
	creds.FacebookToken = token

	if err := creds.Validate(); err != nil {
		return domain.Credentials{}, err
	}

	return creds, nil
}

func (s *CredentialService) SetCredentials(ctx context.Context, cmd SetCredentialsCommand) error {
	creds := domain.Credentials{FacebookID: cmd.FacebookID, FacebookToken: cmd.FacebookToken}
	if err := creds.Validate(); err != nil {
		return err
	}

	settings, err := s.settings.LoadStored(ctx)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	original := settings
	previousRef := settings.Account.SecretRef
	secretKey := SecretKeyFor(cmd.FacebookID)

	if err := s.store.Put(ctx, secretKey, cmd.FacebookToken); err != nil {
		return fmt.Errorf("store facebook token: %w", err)
	}

	settings.Account.FacebookID = cmd.FacebookID
	settings.Account.SecretRef = secretKey

	if err := s.settings.Save(ctx, settings); err != nil {
		if previousRef == secretKey {
			return fmt.Errorf("save account settings: %w", err)
		}
		if rollbackErr := s.store.Delete(ctx, secretKey); rollbackErr != nil {
			return fmt.Errorf("save account settings and rollback stored token: %w", errors.Join(err, rollbackErr))
		}

		return fmt.Errorf("save account settings: %w", err)
	}

	if previousRef == "" || previousRef == secretKey {
		return nil
	}

	if err := s.store.Delete(ctx, previousRef); err != nil && !errors.Is(err, domain.ErrSecretNotFound) {
		var rollbackErr error
		if restoreErr := s.settings.Save(ctx, original); restoreErr != nil {
			rollbackErr = errors.Join(rollbackErr, restoreErr)
		}
		if newSecretDeleteErr := s.store.Delete(ctx, secretKey); newSecretDeleteErr != nil {
			rollbackErr = errors.Join(rollbackErr, newSecretDeleteErr)
		}
		if rollbackErr != nil {
			return fmt.Errorf("delete previous facebook token and rollback update: %w", errors.Join(err, rollbackErr))
		}
		return fmt.Errorf("delete previous facebook token: %w", err)
	}

	return nil
}

func (s *CredentialService) RemoveCredentials(ctx context.Context) error {
	settings, err := s.settings.LoadStored(ctx)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	original := settings
	secretRef := settings.Account.SecretRef

	settings.Account = domain.AccountSettings{}

	if err := s.settings.Save(ctx, settings); err != nil {
		return fmt.Errorf("save account settings: %w", err)
	}

	if secretRef == "" {
		return nil
	}

	if err := s.store.Delete(ctx, secretRef); err != nil && !errors.Is(err, domain.ErrSecretNotFound) {
		if restoreErr := s.settings.Save(ctx, original); restoreErr != nil {
			return fmt.Errorf("delete facebook token and restore settings: %w", errors.Join(err, restoreErr))
		}
		return fmt.Errorf("delete facebook token: %w", err)
	}

	return nil
}

// Status describes where credentials would come from without reading the
// token value.
func (s *CredentialService) Status(ctx context.Context) (CredentialStatus, error) {
	settings, err := s.settings.Load(ctx)
	if err != nil {
		return CredentialStatus{}, fmt.Errorf("load settings: %w", err)
	}

	status := CredentialStatus{
		FacebookID:  settings.Account.FacebookID,
		SecretRef:   settings.Account.SecretRef,
		TokenSource: TokenSourceNone,
	}

	if token, ok := s.lookupEnv(FacebookTokenEnv); ok && strings.TrimSpace(token) != "" {
		status.TokenSource = TokenSourceEnv
	} else if status.SecretRef != "" {
		status.TokenSource = TokenSourceSecretStore
	}

	return status, nil
}
