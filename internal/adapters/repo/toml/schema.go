package toml

import (
	"fmt"
	"time"

	"github.com/bnema/tinderbot-cli/internal/domain"
)

const currentSchemaVersion = 1

type fileSchema struct {
	Version int           `toml:"version"`
	API     apiSchema     `toml:"api"`
	Account accountSchema `toml:"account"`
	Bot     botSchema     `toml:"bot"`
	Logs    logsSchema    `toml:"logs"`
}

func (s *fileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
}

func validateVersion(version int) error {
	if version > currentSchemaVersion {
		return fmt.Errorf("unsupported settings schema version %d (current %d)", version, currentSchemaVersion)
	}

	return nil
}

type apiSchema struct {
	BaseURL            string `toml:"base_url"`
	UserAgent          string `toml:"user_agent"`
	InsecureSkipVerify bool   `toml:"insecure_skip_verify"`
	Timeout            string `toml:"timeout,omitempty"`
}

type accountSchema struct {
	FacebookID int64  `toml:"facebook_id,omitempty"`
	SecretRef  string `toml:"secret_ref,omitempty"`
}

// Durations are stored as Go duration strings ("2s") so the file stays
// hand-editable.
type botSchema struct {
	MinCandidates int    `toml:"min_candidates"`
	MaxAttempts   int    `toml:"max_attempts"`
	Interval      string `toml:"interval"`
	Deadline      string `toml:"deadline,omitempty"`
}

type logsSchema struct {
	Level string `toml:"level"`
	JSON  bool   `toml:"json"`
}

func toSchema(settings domain.Settings) fileSchema {
	return fileSchema{
		Version: currentSchemaVersion,
		API: apiSchema{
			BaseURL:            settings.API.BaseURL,
			UserAgent:          settings.API.UserAgent,
			InsecureSkipVerify: settings.API.InsecureSkipVerify,
			Timeout:            formatDuration(settings.API.Timeout),
		},
		Account: accountSchema{
			FacebookID: int64(settings.Account.FacebookID),
			SecretRef:  settings.Account.SecretRef,
		},
		Bot: botSchema{
			MinCandidates: settings.Bot.MinCandidates,
			MaxAttempts:   settings.Bot.MaxAttempts,
			Interval:      formatDuration(settings.Bot.Interval),
			Deadline:      formatDuration(settings.Bot.Deadline),
		},
		Logs: logsSchema{
			Level: settings.Logs.Level,
			JSON:  settings.Logs.JSON,
		},
	}
}

func fromSchema(file fileSchema) (domain.Settings, error) {
	timeout, err := parseDuration("api.timeout", file.API.Timeout)
	if err != nil {
		return domain.Settings{}, err
	}
	interval, err := parseDuration("bot.interval", file.Bot.Interval)
	if err != nil {
		return domain.Settings{}, err
	}
	deadline, err := parseDuration("bot.deadline", file.Bot.Deadline)
	if err != nil {
		return domain.Settings{}, err
	}

	return domain.Settings{
		API: domain.APISettings{
			BaseURL:            file.API.BaseURL,
			UserAgent:          file.API.UserAgent,
			InsecureSkipVerify: file.API.InsecureSkipVerify,
			Timeout:            timeout,
		},
		Account: domain.AccountSettings{
			FacebookID: domain.FacebookID(file.Account.FacebookID),
			SecretRef:  file.Account.SecretRef,
		},
		Bot: domain.BotSettings{
			MinCandidates: file.Bot.MinCandidates,
			MaxAttempts:   file.Bot.MaxAttempts,
			Interval:      interval,
			Deadline:      deadline,
		},
		Logs: domain.LogSettings{
			Level: file.Logs.Level,
			JSON:  file.Logs.JSON,
		},
	}, nil
}

func parseDuration(key, raw string) (time.Duration, error) {
	if raw == "" {
		return 0, nil
	}

	value, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("decode settings file: %s: %w", key, err)
	}

	return value, nil
}

func formatDuration(value time.Duration) string {
	if value <= 0 {
		return ""
	}

	return value.String()
}
