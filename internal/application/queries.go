package application

import "github.com/bnema/tinderbot-cli/internal/domain"

type TokenSource string

const (
	TokenSourceNone        TokenSource = "none"
	TokenSourceEnv         TokenSource = "env"
	TokenSourceSecretStore TokenSource = "secret-store"
)

type CredentialStatus struct {
	FacebookID  domain.FacebookID
	SecretRef   string
	TokenSource TokenSource
}

func (s CredentialStatus) Configured() bool {
	return s.FacebookID > 0 && s.TokenSource != TokenSourceNone
}
