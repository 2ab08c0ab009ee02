package toml

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"github.com/bnema/tinderbot-cli/internal/domain"
	"github.com/bnema/tinderbot-cli/internal/ports"
)

const (
	configType         = "toml"
	envPrefix          = "TB"
	configPathKey      = "config.path"
	settingsFileMode   = 0o600
	settingsDirMode    = 0o700
	settingsConfigDir  = ".tinderbot"
	settingsConfigFile = "config.toml"
	tempFilePattern    = ".config-*.toml.tmp"
)

// Settings keys, also reachable as TB_<KEY> environment variables with dots
// replaced by underscores.
const (
	KeyAPIBaseURL            = "api.base_url"
	KeyAPIUserAgent          = "api.user_agent"
	KeyAPIInsecureSkipVerify = "api.insecure_skip_verify"
	KeyAPITimeout            = "api.timeout"
	KeyAccountFacebookID     = "account.facebook_id"
	KeyAccountSecretRef      = "account.secret_ref"
	KeyBotMinCandidates      = "bot.min_candidates"
	KeyBotMaxAttempts        = "bot.max_attempts"
	KeyBotInterval           = "bot.interval"
	KeyBotDeadline           = "bot.deadline"
	KeyLogsLevel             = "logs.level"
	KeyLogsJSON              = "logs.json"
)

type Repository struct {
	cfg          *viper.Viper
	settingsPath string
	mu           *sync.RWMutex
}

var (
	lockRegistryMu sync.Mutex
	pathLockMap    = map[string]*sync.RWMutex{}
)

var _ ports.SettingsRepository = (*Repository)(nil)

func NewRepository(cfg *viper.Viper) (*Repository, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	cfg.SetEnvPrefix(envPrefix)
	cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	cfg.AutomaticEnv()
	cfg.SetDefault(configPathKey, filepath.Join(homeDir, settingsConfigDir, settingsConfigFile))
	setDefaults(cfg, domain.DefaultSettings())

	settingsPath := cfg.GetString(configPathKey)
	if settingsPath == "" {
		return nil, errors.New("settings path is empty")
	}
	settingsPath, err = normalizeSettingsPath(settingsPath)
	if err != nil {
		return nil, err
	}

	cfg.SetConfigFile(settingsPath)
	cfg.SetConfigType(configType)

	return &Repository{cfg: cfg, settingsPath: settingsPath, mu: lockForPath(settingsPath)}, nil
}

func setDefaults(cfg *viper.Viper, defaults domain.Settings) {
	cfg.SetDefault(KeyAPIBaseURL, defaults.API.BaseURL)
	cfg.SetDefault(KeyAPIUserAgent, defaults.API.UserAgent)
	cfg.SetDefault(KeyAPIInsecureSkipVerify, defaults.API.InsecureSkipVerify)
	cfg.SetDefault(KeyAPITimeout, defaults.API.Timeout)
	cfg.SetDefault(KeyAccountFacebookID, int64(defaults.Account.FacebookID))
	cfg.SetDefault(KeyAccountSecretRef, defaults.Account.SecretRef)
	cfg.SetDefault(KeyBotMinCandidates, defaults.Bot.MinCandidates)
	cfg.SetDefault(KeyBotMaxAttempts, defaults.Bot.MaxAttempts)
	cfg.SetDefault(KeyBotInterval, defaults.Bot.Interval)
	cfg.SetDefault(KeyBotDeadline, defaults.Bot.Deadline)
	cfg.SetDefault(KeyLogsLevel, defaults.Logs.Level)
	cfg.SetDefault(KeyLogsJSON, defaults.Logs.JSON)
}

// Path is the settings file location.
func (r *Repository) Path() string {
	return r.settingsPath
}

func (r *Repository) Exists() (bool, error) {
	_, err := os.Stat(r.settingsPath)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("stat settings file: %w", err)
}

// Load returns file values layered over defaults, with TB_* environment
// variables taking precedence. A missing file yields the defaults.
func (r *Repository) Load(ctx context.Context) (domain.Settings, error) {
	if err := ctx.Err(); err != nil {
		return domain.Settings{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.cfg.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.Is(err, os.ErrNotExist) && !errors.As(err, &configNotFound) {
			return domain.Settings{}, fmt.Errorf("decode settings file: %w", err)
		}
	}

	if err := validateVersion(r.cfg.GetInt("version")); err != nil {
		return domain.Settings{}, err
	}

	return domain.Settings{
		API: domain.APISettings{
			BaseURL:            r.cfg.GetString(KeyAPIBaseURL),
			UserAgent:          r.cfg.GetString(KeyAPIUserAgent),
			InsecureSkipVerify: r.cfg.GetBool(KeyAPIInsecureSkipVerify),
			Timeout:            r.cfg.GetDuration(KeyAPITimeout),
		},
		Account: domain.AccountSettings{
			FacebookID: domain.FacebookID(r.cfg.GetInt64(KeyAccountFacebookID)),
			SecretRef:  r.cfg.GetString(KeyAccountSecretRef),
		},
		Bot: domain.BotSettings{
			MinCandidates: r.cfg.GetInt(KeyBotMinCandidates),
			MaxAttempts:   r.cfg.GetInt(KeyBotMaxAttempts),
			Interval:      r.cfg.GetDuration(KeyBotInterval),
			Deadline:      r.cfg.GetDuration(KeyBotDeadline),
		},
		Logs: domain.LogSettings{
			Level: r.cfg.GetString(KeyLogsLevel),
			JSON:  r.cfg.GetBool(KeyLogsJSON),
		},
	}, nil
}

// LoadStored decodes the settings file alone, layered over defaults. TB_*
// environment variables are ignored so that a Save after it never persists a
// temporary override.
func (r *Repository) LoadStored(ctx context.Context) (domain.Settings, error) {
	if err := ctx.Err(); err != nil {
		return domain.Settings{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	file := toSchema(domain.DefaultSettings())

	data, err := os.ReadFile(r.settingsPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fromSchema(file)
		}
		return domain.Settings{}, fmt.Errorf("read settings file: %w", err)
	}

	if err := toml.Unmarshal(data, &file); err != nil {
		return domain.Settings{}, fmt.Errorf("decode settings file: %w", err)
	}
	if err := validateVersion(file.Version); err != nil {
		return domain.Settings{}, err
	}

	return fromSchema(file)
}

func (r *Repository) Save(ctx context.Context, settings domain.Settings) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	file := toSchema(settings)
	file.applyDefaults()

	if err := ctx.Err(); err != nil {
		return err
	}

	return r.writeSchema(file)
}

func normalizeSettingsPath(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve settings path: %w", err)
	}

	return filepath.Clean(absPath), nil
}

func lockForPath(path string) *sync.RWMutex {
	lockRegistryMu.Lock()
	defer lockRegistryMu.Unlock()

	if mu, ok := pathLockMap[path]; ok {
		return mu
	}

	mu := &sync.RWMutex{}
	pathLockMap[path] = mu
	return mu
}

func (r *Repository) writeSchema(file fileSchema) error {
	if err := os.MkdirAll(filepath.Dir(r.settingsPath), settingsDirMode); err != nil {
		return fmt.Errorf("create settings directory: %w", err)
	}

	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode settings file: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(r.settingsPath), tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp settings file: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp settings file: %w", err)
	}

	if err := tempFile.Chmod(settingsFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp settings file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp settings file: %w", err)
	}

	if err := os.Rename(tempName, r.settingsPath); err != nil {
		return fmt.Errorf("replace settings file: %w", err)
	}

	cleanup = false

	if err := os.Chmod(r.settingsPath, settingsFileMode); err != nil {
		return fmt.Errorf("chmod settings file: %w", err)
	}

	return nil
}
