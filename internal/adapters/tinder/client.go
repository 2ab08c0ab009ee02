// Package tinder is a thin client for the Tinder HTTP API. Responses are
// returned as decoded JSON payloads; the client does not model their shape
// beyond what the bot needs to find candidate ids.
package tinder

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"

	"github.com/bnema/tinderbot-cli/internal/domain"
	"github.com/bnema/tinderbot-cli/internal/logging"
	"github.com/bnema/tinderbot-cli/internal/ports"
)

var _ ports.MatchmakingAPI = (*Client)(nil)

// Config is fixed for the lifetime of a Client.
type Config struct {
	BaseURL   string
	UserAgent string
	// InsecureSkipVerify turns off TLS certificate validation.
	InsecureSkipVerify bool
	// Timeout bounds a single request. Zero keeps the transport default.
	Timeout time.Duration
	// HTTPClient replaces the underlying transport when set.
	HTTPClient *http.Client
	Logger     logrus.FieldLogger
}

// ConfigFromSettings maps persisted API settings onto a client config.
func ConfigFromSettings(settings domain.APISettings, logger logrus.FieldLogger) Config {
	return Config{
		BaseURL:            settings.BaseURL,
		UserAgent:          settings.UserAgent,
		InsecureSkipVerify: settings.InsecureSkipVerify,
		Timeout:            settings.Timeout,
		Logger:             logger,
	}
}

type Client struct {
	http    *resty.Client
	session domain.Session
	logger  logrus.FieldLogger
}

type authRequest struct {
	FacebookToken string            `json:"facebook_token"`
	FacebookID    domain.FacebookID `json:"facebook_id"`
}

// New exchanges the facebook credentials for a session token. No client is
// returned unless the exchange yields a non-empty token.
func New(ctx context.Context, cfg Config, creds domain.Credentials) (*Client, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}

	httpClient, err := newRestyClient(cfg)
	if err != nil {
		return nil, err
	}

	c := &Client{http: httpClient, logger: loggerOrDiscard(cfg.Logger)}
	if cfg.InsecureSkipVerify {
		c.logger.Warn("TLS certificate validation is disabled")
	}

	payload, err := c.do(ctx, KindWrite, "/auth", nil, authRequest{
		FacebookToken: creds.FacebookToken,
		FacebookID:    creds.FacebookID,
	})
	if err != nil {
		return nil, fmt.Errorf("authenticate: %w", err)
	}

	token, _ := payload.Field("token")
	tokenText, _ := token.(string)
	session, err := domain.NewSession(creds, tokenText)
	if err != nil {
		return nil, fmt.Errorf("authenticate: status %d: %w", payload.StatusCode, err)
	}

	c.session = session
	c.logger.WithField("facebook_id", int64(creds.FacebookID)).Debug("authenticated")

	return c, nil
}

// Session returns the authenticated session.
func (c *Client) Session() domain.Session {
	return c.session
}

func newRestyClient(cfg Config) (*resty.Client, error) {
	baseURL, err := normalizeBaseURL(cfg.BaseURL)
	if err != nil {
		return nil, err
	}

	var client *resty.Client
	if cfg.HTTPClient != nil {
		client = resty.NewWithClient(cfg.HTTPClient)
	} else {
		client = resty.New()
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = domain.DefaultAPIUserAgent
	}

	client.
		SetBaseURL(baseURL).
		SetHeader("User-Agent", userAgent).
		SetLogger(loggerOrDiscard(cfg.Logger))

	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}
	if cfg.InsecureSkipVerify {
		client.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true}) //nolint:gosec // opt-in via --insecure
	}

	return client, nil
}

func normalizeBaseURL(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		raw = domain.DefaultAPIBaseURL
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: parse api base url: %v", domain.ErrInvalidInput, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", fmt.Errorf("%w: api base url must use http or https", domain.ErrInvalidInput)
	}
	if parsed.Host == "" {
		return "", fmt.Errorf("%w: api base url host is required", domain.ErrInvalidInput)
	}

	return strings.TrimRight(parsed.String(), "/"), nil
}

func loggerOrDiscard(logger logrus.FieldLogger) logrus.FieldLogger {
	if logger != nil {
		return logger
	}
	return logging.Discard()
}
