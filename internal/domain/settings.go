package domain

import "time"

const (
	DefaultAPIBaseURL   = "https://api.gotinder.com"
	DefaultAPIUserAgent = "Tinder/4.0.9 (iPhone; iOS 8.0.2; Scale/2.00)"
)

type Settings struct {
	API     APISettings
	Account AccountSettings
	Bot     BotSettings
	Logs    LogSettings
}

type APISettings struct {
	BaseURL   string
	UserAgent string
	// InsecureSkipVerify disables TLS certificate validation. Opt-in only.
	InsecureSkipVerify bool
	Timeout            time.Duration
}

type AccountSettings struct {
	FacebookID FacebookID
	// SecretRef points to the secret-store entry holding the facebook token.
	SecretRef string
}

type BotSettings struct {
	MinCandidates int
	MaxAttempts   int
	Interval      time.Duration
	Deadline      time.Duration
}

type LogSettings struct {
	Level string
	JSON  bool
}

func DefaultSettings() Settings {
	return Settings{
		API: APISettings{
			BaseURL:   DefaultAPIBaseURL,
			UserAgent: DefaultAPIUserAgent,
		},
		Bot: BotSettings{
			MinCandidates: 1,
			MaxAttempts:   10,
			Interval:      2 * time.Second,
		},
		Logs: LogSettings{Level: "info"},
	}
}
