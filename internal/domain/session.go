package domain

import (
	"fmt"
	"strings"
)

type FacebookID int64

// Credentials are the identity-provider inputs exchanged for a session token.
type Credentials struct {
	FacebookID    FacebookID
	FacebookToken string
}

func (c Credentials) Validate() error {
	if c.FacebookID <= 0 {
		return fmt.Errorf("%w: facebook id must be positive", ErrCredentialsMissing)
	}
	if strings.TrimSpace(c.FacebookToken) == "" {
		return fmt.Errorf("%w: facebook token is empty", ErrCredentialsMissing)
	}

	return nil
}

type Session struct {
	Credentials Credentials
	Token       string
}

func NewSession(creds Credentials, token string) (Session, error) {
	if strings.TrimSpace(token) == "" {
		return Session{}, fmt.Errorf("%w: session token is empty", ErrAuthentication)
	}

	return Session{Credentials: creds, Token: token}, nil
}
