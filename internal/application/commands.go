package application

import "github.com/bnema/tinderbot-cli/internal/domain"

type SetCredentialsCommand struct {
	FacebookID    domain.FacebookID
	FacebookToken string
}
