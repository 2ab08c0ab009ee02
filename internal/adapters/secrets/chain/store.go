package chain

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	filestore "github.com/bnema/tinderbot-cli/internal/adapters/secrets/file"
	passstore "github.com/bnema/tinderbot-cli/internal/adapters/secrets/pass"
	"github.com/bnema/tinderbot-cli/internal/domain"
	"github.com/bnema/tinderbot-cli/internal/logging"
	"github.com/bnema/tinderbot-cli/internal/ports"
)

type Store struct {
	primary  ports.SecretStore
	fallback ports.SecretStore
	logger   logrus.FieldLogger
}

var _ ports.SecretStore = (*Store)(nil)

var (
	errNilPrimaryStore  = errors.New("primary secret store is nil")
	errNilFallbackStore = errors.New("fallback secret store is nil")
)

func NewStore(primary ports.SecretStore, fallback ports.SecretStore) *Store {
	store, err := NewStoreChecked(primary, fallback)
	if err != nil {
		panic(err)
	}

	return store
}

func NewStoreChecked(primary ports.SecretStore, fallback ports.SecretStore) (*Store, error) {
	if primary == nil {
		return nil, errNilPrimaryStore
	}
	if fallback == nil {
		return nil, errNilFallbackStore
	}

	return &Store{primary: primary, fallback: fallback, logger: logging.Discard()}, nil
}

func NewPassFirstWithFileFallback(fileRoot string, logger logrus.FieldLogger) (*Store, error) {
	store, err := NewStoreChecked(passstore.NewStore(), filestore.NewStore(fileRoot))
	if err != nil {
		return nil, err
	}
	if logger != nil {
		store.logger = logger
	}

	return store, nil
}

func (s *Store) Put(ctx context.Context, key string, value string) error {
	err := s.primary.Put(ctx, key, value)
	if err == nil {
		return nil
	}
	if shouldSkipFallback(err) {
		return err
	}

	s.logger.WithError(err).WithField("key", key).Debug("primary secret store put failed, using fallback")

	fallbackErr := s.fallback.Put(ctx, key, value)
	if fallbackErr == nil {
		return nil
	}

	return fmt.Errorf("primary backend put failed: %w; fallback backend put failed: %w", err, fallbackErr)
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	value, err := s.primary.Get(ctx, key)
	if err == nil {
		return value, nil
	}
	if shouldSkipFallback(err) {
		return "", err
	}

	s.logger.WithError(err).WithField("key", key).Debug("primary secret store get failed, using fallback")

	fallbackValue, fallbackErr := s.fallback.Get(ctx, key)
	if fallbackErr == nil {
		return fallbackValue, nil
	}

	return "", fmt.Errorf("primary backend get failed: %w; fallback backend get failed: %w", err, fallbackErr)
}

// Delete removes the key from both backends, since a Put may have landed in
// the fallback while the primary was unavailable. Missing entries are not
// errors.
func (s *Store) Delete(ctx context.Context, key string) error {
	err := s.primary.Delete(ctx, key)
	if shouldSkipFallback(err) {
		return err
	}

	fallbackErr := s.fallback.Delete(ctx, key)
	if shouldSkipFallback(fallbackErr) {
		return fallbackErr
	}

	err = ignoreAbsent(err)
	fallbackErr = ignoreAbsent(fallbackErr)

	switch {
	case err == nil && fallbackErr == nil:
		return nil
	case fallbackErr == nil:
		return fmt.Errorf("primary backend delete failed: %w", err)
	case err == nil:
		return fmt.Errorf("fallback backend delete failed: %w", fallbackErr)
	default:
		return fmt.Errorf("primary backend delete failed: %w; fallback backend delete failed: %w", err, fallbackErr)
	}
}

func ignoreAbsent(err error) error {
	if errors.Is(err, domain.ErrSecretNotFound) || errors.Is(err, passstore.ErrUnavailable) {
		return nil
	}
	return err
}

func shouldSkipFallback(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
