package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bnema/tinderbot-cli/internal/adapters/render/summary"
	tomlrepo "github.com/bnema/tinderbot-cli/internal/adapters/repo/toml"
	chainstore "github.com/bnema/tinderbot-cli/internal/adapters/secrets/chain"
	"github.com/bnema/tinderbot-cli/internal/adapters/tinder"
	"github.com/bnema/tinderbot-cli/internal/application"
	"github.com/bnema/tinderbot-cli/internal/domain"
	"github.com/bnema/tinderbot-cli/internal/logging"
	"github.com/bnema/tinderbot-cli/internal/ports"
)

type app struct {
	settings       *tomlrepo.Repository
	secretStore    ports.SecretStore
	credentials    *application.CredentialService
	logger         *logrus.Logger
	summaryRender  func(application.Report, summary.RenderOptions) (string, error)
	newClient      func(context.Context, tinder.Config, domain.Credentials) (*tinder.Client, error)
	flags          globalFlags
	secretsRootDir string
}

// globalFlags override the settings file for a single invocation.
type globalFlags struct {
	insecure bool
	logLevel string
	logJSON  bool
}

func wireApp() (*app, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	repo, err := tomlrepo.NewRepository(viper.New())
	if err != nil {
		return nil, fmt.Errorf("wire settings repository: %w", err)
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	logger := logging.New(domain.DefaultSettings().Logs, os.Stderr)
	secretsRoot := envOrDefault("TB_SECRETS_DIR", filepath.Join(homeDir, ".tinderbot", "secrets"))

	secretStore, err := chainstore.NewPassFirstWithFileFallback(secretsRoot, logger)
	if err != nil {
		return nil, fmt.Errorf("wire secret store chain: %w", err)
	}

	return &app{
		settings:       repo,
		secretStore:    secretStore,
		credentials:    application.NewCredentialService(repo, secretStore),
		logger:         logger,
		summaryRender:  summary.Render,
		newClient:      tinder.New,
		secretsRootDir: secretsRoot,
	}, nil
}

// loadSettings reads the settings file and applies the global flags.
func (a *app) loadSettings(ctx context.Context) (domain.Settings, error) {
	settings, err := a.settings.Load(ctx)
	if err != nil {
		return domain.Settings{}, fmt.Errorf("load settings: %w", err)
	}

	if a.flags.insecure {
		settings.API.InsecureSkipVerify = true
	}
	if a.flags.logLevel != "" {
		settings.Logs.Level = a.flags.logLevel
	}
	if a.flags.logJSON {
		settings.Logs.JSON = true
	}

	return settings, nil
}

func (a *app) configureLogging(cmd *cobra.Command) error {
	settings, err := a.loadSettings(cmd.Context())
	if err != nil {
		return err
	}

	logging.Configure(a.logger, settings.Logs, cmd.ErrOrStderr())
	return nil
}

// client resolves credentials and authenticates against the API.
func (a *app) client(ctx context.Context) (*tinder.Client, domain.Settings, error) {
	settings, err := a.loadSettings(ctx)
	if err != nil {
		return nil, domain.Settings{}, err
	}

	creds, err := a.credentials.Resolve(ctx)
	if err != nil {
		return nil, domain.Settings{}, err
	}

	client, err := a.newClient(ctx, tinder.ConfigFromSettings(settings.API, a.logger), creds)
	if err != nil {
		return nil, domain.Settings{}, err
	}

	return client, settings, nil
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
