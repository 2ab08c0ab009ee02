package toml

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/tinderbot-cli/internal/domain"
)

func newTestRepository(t *testing.T, settingsPath string) *Repository {
	t.Helper()

	config := viper.New()
	config.Set("config.path", settingsPath)

	repo, err := NewRepository(config)
	require.NoError(t, err)
	return repo
}

func TestRepositoryRoundTrip(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t, filepath.Join(t.TempDir(), "config.toml"))

	settings := domain.Settings{
		API: domain.APISettings{
			BaseURL:            "https://tinder.example.test",
			UserAgent:          "tb/1.0",
			InsecureSkipVerify: true,
			Timeout:            15 * time.Second,
		},
		Account: domain.AccountSettings{FacebookID: 1234567890, SecretRef: "tinder/1234567890/facebook_token"},
		Bot: domain.BotSettings{
			MinCandidates: 20,
			MaxAttempts:   8,
			Interval:      1500 * time.Millisecond,
			Deadline:      2 * time.Minute,
		},
		Logs: domain.LogSettings{Level: "debug", JSON: true},
	}

	require.NoError(t, repo.Save(context.Background(), settings))

	got, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, settings, got)
}

func TestRepositoryMissingFileReturnsDefaults(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t, filepath.Join(t.TempDir(), "missing", "config.toml"))

	exists, err := repo.Exists()
	require.NoError(t, err)
	assert.False(t, exists)

	got, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSettings(), got)
}

func TestRepositoryPartialFileKeepsDefaults(t *testing.T) {
	t.Parallel()

	settingsPath := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(settingsPath, []byte(strings.Join([]string{
		"version = 1",
		"",
		"[bot]",
		"min_candidates = 7",
		"",
	}, "\n")), 0o600))

	repo := newTestRepository(t, settingsPath)

	got, err := repo.Load(context.Background())
	require.NoError(t, err)

	want := domain.DefaultSettings()
	want.Bot.MinCandidates = 7
	assert.Equal(t, want, got)
}

func TestRepositoryEnvironmentOverridesFile(t *testing.T) {
	settingsPath := filepath.Join(t.TempDir(), "config.toml")
	repo := newTestRepository(t, settingsPath)

	settings := domain.DefaultSettings()
	settings.Account.FacebookID = 1
	require.NoError(t, repo.Save(context.Background(), settings))

	t.Setenv("TB_ACCOUNT_FACEBOOK_ID", "99")
	t.Setenv("TB_API_BASE_URL", "http://127.0.0.1:9999")
	t.Setenv("TB_BOT_INTERVAL", "250ms")

	got, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.FacebookID(99), got.Account.FacebookID)
	assert.Equal(t, "http://127.0.0.1:9999", got.API.BaseURL)
	assert.Equal(t, 250*time.Millisecond, got.Bot.Interval)
}

func TestRepositoryLoadStoredIgnoresEnvironment(t *testing.T) {
	settingsPath := filepath.Join(t.TempDir(), "config.toml")
	repo := newTestRepository(t, settingsPath)

	settings := domain.DefaultSettings()
	settings.Account.FacebookID = 1
	settings.Bot.Deadline = time.Minute
	require.NoError(t, repo.Save(context.Background(), settings))

	t.Setenv("TB_API_INSECURE_SKIP_VERIFY", "true")
	t.Setenv("TB_BOT_MAX_ATTEMPTS", "0")
	t.Setenv("TB_ACCOUNT_FACEBOOK_ID", "99")

	loaded, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.True(t, loaded.API.InsecureSkipVerify)

	stored, err := repo.LoadStored(context.Background())
	require.NoError(t, err)
	assert.Equal(t, settings, stored)

	stored.Account.SecretRef = "tinder/1/facebook_token"
	require.NoError(t, repo.Save(context.Background(), stored))

	data, err := os.ReadFile(settingsPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "insecure_skip_verify = false")
	assert.Contains(t, string(data), "max_attempts = 10")
	assert.Contains(t, string(data), "facebook_id = 1\n")
}

func TestRepositoryLoadStoredMissingFileReturnsDefaults(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t, filepath.Join(t.TempDir(), "missing.toml"))

	got, err := repo.LoadStored(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSettings(), got)
}

func TestRepositoryLoadStoredRejectsBadDuration(t *testing.T) {
	t.Parallel()

	settingsPath := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(settingsPath, []byte("version = 1\n[bot]\ninterval = \"soon\"\n"), 0o600))

	repo := newTestRepository(t, settingsPath)
	_, err := repo.LoadStored(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bot.interval")
}

func TestRepositoryConfigPathFromEnvironment(t *testing.T) {
	settingsPath := filepath.Join(t.TempDir(), "elsewhere.toml")
	t.Setenv("TB_CONFIG_PATH", settingsPath)

	repo, err := NewRepository(viper.New())
	require.NoError(t, err)
	assert.Equal(t, settingsPath, repo.Path())
}

func TestRepositorySaveCreatesDefaultPathAndEnforcesPermissions(t *testing.T) {
	homeDir := t.TempDir()
	t.Setenv("HOME", homeDir)

	repo, err := NewRepository(viper.New())
	require.NoError(t, err)

	require.NoError(t, repo.Save(context.Background(), domain.DefaultSettings()))

	settingsPath := filepath.Join(homeDir, ".tinderbot", "config.toml")
	assert.Equal(t, settingsPath, repo.Path())
	info, err := os.Stat(settingsPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	exists, err := repo.Exists()
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestRepositoryMalformedTOMLReturnsError(t *testing.T) {
	t.Parallel()

	settingsPath := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(settingsPath, []byte("[bot\nmin_candidates = "), 0o600))

	repo := newTestRepository(t, settingsPath)

	_, err := repo.Load(context.Background())
	require.Error(t, err)
	assert.ErrorContains(t, err, "decode settings file")
}

func TestRepositorySaveCanceledContextReturnsContextError(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t, filepath.Join(t.TempDir(), "config.toml"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := repo.Save(ctx, domain.DefaultSettings())
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestRepositoryConcurrentSavesAcrossInstancesLeaveValidFile(t *testing.T) {
	t.Parallel()

	settingsPath := filepath.Join(t.TempDir(), "config.toml")
	repoA := newTestRepository(t, settingsPath)
	repoB := newTestRepository(t, settingsPath)

	const perRepoWrites = 50
	start := make(chan struct{})
	errCh := make(chan error, perRepoWrites*2)
	var wg sync.WaitGroup
	wg.Add(2)

	write := func(repo *Repository, id domain.FacebookID) {
		defer wg.Done()
		<-start
		for i := 0; i < perRepoWrites; i++ {
			settings := domain.DefaultSettings()
			settings.Account.FacebookID = id
			errCh <- repo.Save(context.Background(), settings)
		}
	}

	go write(repoA, 1)
	go write(repoB, 2)

	close(start)
	wg.Wait()
	close(errCh)

	for err := range errCh {
		require.NoError(t, err)
	}

	got, err := repoA.Load(context.Background())
	require.NoError(t, err)
	assert.Contains(t, []domain.FacebookID{1, 2}, got.Account.FacebookID)

	leftovers, err := filepath.Glob(filepath.Join(filepath.Dir(settingsPath), ".config-*.toml.tmp"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestRepositorySaveSerializedTOMLIncludesVersion(t *testing.T) {
	t.Parallel()

	settingsPath := filepath.Join(t.TempDir(), "config.toml")
	repo := newTestRepository(t, settingsPath)

	require.NoError(t, repo.Save(context.Background(), domain.DefaultSettings()))

	data, err := os.ReadFile(settingsPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "version = 1")
	assert.Regexp(t, `interval = ['"]2s['"]`, string(data))
	assert.NotContains(t, string(data), "facebook_id")
}

func TestRepositoryFutureSchemaVersionReturnsError(t *testing.T) {
	t.Parallel()

	settingsPath := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(settingsPath, []byte(strings.Join([]string{
		"version = 999",
		"",
	}, "\n")), 0o600))

	repo := newTestRepository(t, settingsPath)

	_, err := repo.Load(context.Background())
	require.Error(t, err)
	assert.ErrorContains(t, err, "unsupported settings schema version")
}
