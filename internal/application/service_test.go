package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bnema/tinderbot-cli/internal/domain"
	"github.com/bnema/tinderbot-cli/internal/ports/mocks"
)

func newTestCredentialService(t *testing.T, env map[string]string) (*CredentialService, *mocks.MockSettingsRepository, *mocks.MockSecretStore) {
	t.Helper()

	repo := mocks.NewMockSettingsRepository(t)
	store := mocks.NewMockSecretStore(t)
	service := NewCredentialService(repo, store)
	service.lookupEnv = func(key string) (string, bool) {
		value, ok := env[key]
		return value, ok
	}

	return service, repo, store
}

func settingsWithAccount(id domain.FacebookID, ref string) domain.Settings {
	settings := domain.DefaultSettings()
	settings.Account = domain.AccountSettings{FacebookID: id, SecretRef: ref}
	return settings
}

func TestCredentialServiceResolveReadsSecretStore(t *testing.T) {
	service, repo, store := newTestCredentialService(t, nil)

	repo.EXPECT().Load(mockAnyContext()).Return(settingsWithAccount(42, "tinder/42/facebook_token"), nil)
	store.EXPECT().Get(mockAnyContext(), "tinder/42/facebook_token").Return("fb-token", nil)

	creds, err := service.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.Credentials{FacebookID: 42, FacebookToken: "fb-token"}, creds)
}

func TestCredentialServiceResolvePrefersEnvironmentToken(t *testing.T) {
	service, repo, _ := newTestCredentialService(t, map[string]string{FacebookTokenEnv: "env-token"})

	repo.EXPECT().Load(mockAnyContext()).Return(settingsWithAccount(42, "tinder/42/facebook_token"), nil)

	creds, err := service.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "env-token", creds.FacebookToken)
}

func TestCredentialServiceResolveMissingPieces(t *testing.T) {
	t.Run("no facebook id", func(t *testing.T) {
		service, repo, _ := newTestCredentialService(t, map[string]string{FacebookTokenEnv: "env-token"})
		repo.EXPECT().Load(mockAnyContext()).Return(domain.DefaultSettings(), nil)

		_, err := service.Resolve(context.Background())
		require.ErrorIs(t, err, domain.ErrCredentialsMissing)
	})

	t.Run("no secret ref", func(t *testing.T) {
		service, repo, _ := newTestCredentialService(t, nil)
		repo.EXPECT().Load(mockAnyContext()).Return(settingsWithAccount(42, ""), nil)

		_, err := service.Resolve(context.Background())
		require.ErrorIs(t, err, domain.ErrCredentialsMissing)
	})

	t.Run("secret gone", func(t *testing.T) {
		service, repo, store := newTestCredentialService(t, nil)
		repo.EXPECT().Load(mockAnyContext()).Return(settingsWithAccount(42, "tinder/42/facebook_token"), nil)
		store.EXPECT().Get(mockAnyContext(), "tinder/42/facebook_token").Return("", domain.ErrSecretNotFound)

		_, err := service.Resolve(context.Background())
		require.ErrorIs(t, err, domain.ErrCredentialsMissing)
		assert.ErrorIs(t, err, domain.ErrSecretNotFound)
	})
}

func TestCredentialServiceResolvePropagatesStoreFailure(t *testing.T) {
	service, repo, store := newTestCredentialService(t, nil)
	storeErr := errors.New("pass: gpg agent unavailable")

	repo.EXPECT().Load(mockAnyContext()).Return(settingsWithAccount(42, "tinder/42/facebook_token"), nil)
	store.EXPECT().Get(mockAnyContext(), "tinder/42/facebook_token").Return("", storeErr)

	_, err := service.Resolve(context.Background())
	require.ErrorIs(t, err, storeErr)
	assert.NotErrorIs(t, err, domain.ErrCredentialsMissing)
}

func TestCredentialServiceSetCredentialsSuccess(t *testing.T) {
	service, repo, store := newTestCredentialService(t, nil)

	repo.EXPECT().LoadStored(mockAnyContext()).Return(domain.DefaultSettings(), nil)
	store.EXPECT().Put(mockAnyContext(), "tinder/42/facebook_token", "fb-token").Return(nil)
	repo.EXPECT().Save(mockAnyContext(), settingsWithAccount(42, "tinder/42/facebook_token")).Return(nil)

	err := service.SetCredentials(context.Background(), SetCredentialsCommand{FacebookID: 42, FacebookToken: "fb-token"})
	require.NoError(t, err)
}

func TestCredentialServiceSetCredentialsRejectsInvalidInput(t *testing.T) {
	service, _, _ := newTestCredentialService(t, nil)

	err := service.SetCredentials(context.Background(), SetCredentialsCommand{FacebookID: 42})
	require.ErrorIs(t, err, domain.ErrCredentialsMissing)
}

func TestCredentialServiceSetCredentialsRotationDeletesPreviousSecret(t *testing.T) {
	service, repo, store := newTestCredentialService(t, nil)

	repo.EXPECT().LoadStored(mockAnyContext()).Return(settingsWithAccount(7, "tinder/7/facebook_token"), nil)
	store.EXPECT().Put(mockAnyContext(), "tinder/42/facebook_token", "fb-token").Return(nil)
	repo.EXPECT().Save(mockAnyContext(), settingsWithAccount(42, "tinder/42/facebook_token")).Return(nil)
	store.EXPECT().Delete(mockAnyContext(), "tinder/7/facebook_token").Return(nil)

	err := service.SetCredentials(context.Background(), SetCredentialsCommand{FacebookID: 42, FacebookToken: "fb-token"})
	require.NoError(t, err)
}

func TestCredentialServiceSetCredentialsSameRefDoesNotDelete(t *testing.T) {
	service, repo, store := newTestCredentialService(t, nil)

	repo.EXPECT().LoadStored(mockAnyContext()).Return(settingsWithAccount(42, "tinder/42/facebook_token"), nil)
	store.EXPECT().Put(mockAnyContext(), "tinder/42/facebook_token", "new-token").Return(nil)
	repo.EXPECT().Save(mockAnyContext(), settingsWithAccount(42, "tinder/42/facebook_token")).Return(nil)

	err := service.SetCredentials(context.Background(), SetCredentialsCommand{FacebookID: 42, FacebookToken: "new-token"})
	require.NoError(t, err)
}

func TestCredentialServiceSetCredentialsFailsWhenPutFails(t *testing.T) {
	service, repo, store := newTestCredentialService(t, nil)
	putErr := errors.New("store unavailable")

	repo.EXPECT().LoadStored(mockAnyContext()).Return(domain.DefaultSettings(), nil)
	store.EXPECT().Put(mockAnyContext(), "tinder/42/facebook_token", "fb-token").Return(putErr)

	err := service.SetCredentials(context.Background(), SetCredentialsCommand{FacebookID: 42, FacebookToken: "fb-token"})
	require.ErrorIs(t, err, putErr)
}

func TestCredentialServiceSetCredentialsCompensatesWhenSaveFails(t *testing.T) {
	service, repo, store := newTestCredentialService(t, nil)
	saveErr := errors.New("disk full")

	repo.EXPECT().LoadStored(mockAnyContext()).Return(domain.DefaultSettings(), nil)
	store.EXPECT().Put(mockAnyContext(), "tinder/42/facebook_token", "fb-token").Return(nil)
	repo.EXPECT().Save(mockAnyContext(), mock.Anything).Return(saveErr)
	store.EXPECT().Delete(mockAnyContext(), "tinder/42/facebook_token").Return(nil)

	err := service.SetCredentials(context.Background(), SetCredentialsCommand{FacebookID: 42, FacebookToken: "fb-token"})
	require.ErrorIs(t, err, saveErr)
}

func TestCredentialServiceSetCredentialsReportsRollbackFailure(t *testing.T) {
	service, repo, store := newTestCredentialService(t, nil)
	saveErr := errors.New("disk full")
	rollbackErr := errors.New("delete failed")

	repo.EXPECT().LoadStored(mockAnyContext()).Return(domain.DefaultSettings(), nil)
	store.EXPECT().Put(mockAnyContext(), "tinder/42/facebook_token", "fb-token").Return(nil)
	repo.EXPECT().Save(mockAnyContext(), mock.Anything).Return(saveErr)
	store.EXPECT().Delete(mockAnyContext(), "tinder/42/facebook_token").Return(rollbackErr)

	err := service.SetCredentials(context.Background(), SetCredentialsCommand{FacebookID: 42, FacebookToken: "fb-token"})
	require.ErrorIs(t, err, saveErr)
	assert.ErrorIs(t, err, rollbackErr)
}

func TestCredentialServiceSetCredentialsRestoresWhenPreviousDeleteFails(t *testing.T) {
	service, repo, store := newTestCredentialService(t, nil)
	deleteErr := errors.New("delete old secret failed")
	original := settingsWithAccount(7, "tinder/7/facebook_token")

	repo.EXPECT().LoadStored(mockAnyContext()).Return(original, nil)
	store.EXPECT().Put(mockAnyContext(), "tinder/42/facebook_token", "fb-token").Return(nil)
	repo.EXPECT().Save(mockAnyContext(), settingsWithAccount(42, "tinder/42/facebook_token")).Return(nil).Once()
	store.EXPECT().Delete(mockAnyContext(), "tinder/7/facebook_token").Return(deleteErr)
	repo.EXPECT().Save(mockAnyContext(), original).Return(nil).Once()
	store.EXPECT().Delete(mockAnyContext(), "tinder/42/facebook_token").Return(nil)

	err := service.SetCredentials(context.Background(), SetCredentialsCommand{FacebookID: 42, FacebookToken: "fb-token"})
	require.ErrorIs(t, err, deleteErr)
}

func TestCredentialServiceRemoveCredentials(t *testing.T) {
	service, repo, store := newTestCredentialService(t, nil)

	repo.EXPECT().LoadStored(mockAnyContext()).Return(settingsWithAccount(42, "tinder/42/facebook_token"), nil)
	repo.EXPECT().Save(mockAnyContext(), domain.DefaultSettings()).Return(nil)
	store.EXPECT().Delete(mockAnyContext(), "tinder/42/facebook_token").Return(nil)

	require.NoError(t, service.RemoveCredentials(context.Background()))
}

func TestCredentialServiceRemoveCredentialsToleratesMissingSecret(t *testing.T) {
	service, repo, store := newTestCredentialService(t, nil)

	repo.EXPECT().LoadStored(mockAnyContext()).Return(settingsWithAccount(42, "tinder/42/facebook_token"), nil)
	repo.EXPECT().Save(mockAnyContext(), domain.DefaultSettings()).Return(nil)
	store.EXPECT().Delete(mockAnyContext(), "tinder/42/facebook_token").Return(domain.ErrSecretNotFound)

	require.NoError(t, service.RemoveCredentials(context.Background()))
}

func TestCredentialServiceRemoveCredentialsRestoresOnDeleteFailure(t *testing.T) {
	service, repo, store := newTestCredentialService(t, nil)
	deleteErr := errors.New("pass rm failed")
	original := settingsWithAccount(42, "tinder/42/facebook_token")

	repo.EXPECT().LoadStored(mockAnyContext()).Return(original, nil)
	repo.EXPECT().Save(mockAnyContext(), domain.DefaultSettings()).Return(nil).Once()
	store.EXPECT().Delete(mockAnyContext(), "tinder/42/facebook_token").Return(deleteErr)
	repo.EXPECT().Save(mockAnyContext(), original).Return(nil).Once()

	err := service.RemoveCredentials(context.Background())
	require.ErrorIs(t, err, deleteErr)
}

func TestCredentialServiceStatus(t *testing.T) {
	service, repo, _ := newTestCredentialService(t, nil)
	repo.EXPECT().Load(mockAnyContext()).Return(settingsWithAccount(42, "tinder/42/facebook_token"), nil).Once()

	status, err := service.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, TokenSourceSecretStore, status.TokenSource)
	assert.True(t, status.Configured())

	repo.EXPECT().Load(mockAnyContext()).Return(domain.DefaultSettings(), nil).Once()
	status, err = service.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, TokenSourceNone, status.TokenSource)
	assert.False(t, status.Configured())
}

func TestSecretKeyFor(t *testing.T) {
	assert.Equal(t, "tinder/1234/facebook_token", SecretKeyFor(1234))
}

func mockAnyContext() interface{} {
	return mock.Anything
}
