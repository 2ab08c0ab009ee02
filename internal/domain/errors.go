package domain

import "errors"

var (
	ErrTransport          = errors.New("transport error")
	ErrDecode             = errors.New("decode error")
	ErrAuthentication     = errors.New("authentication failed")
	ErrUnexpectedPayload  = errors.New("unexpected response payload")
	ErrCredentialsMissing = errors.New("credentials missing")
	ErrSecretNotFound     = errors.New("secret not found")
	ErrInvalidInput       = errors.New("invalid input")
)
