package tinder

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/bnema/tinderbot-cli/internal/domain"
)

// RequestKind selects the HTTP shape of a call.
type RequestKind int

const (
	// KindRead is a GET without a body.
	KindRead RequestKind = iota
	// KindWrite is a POST carrying a JSON body.
	KindWrite
	// KindEmptyWrite is a POST without a body.
	KindEmptyWrite
)

func (k RequestKind) Method() string {
	if k == KindRead {
		return http.MethodGet
	}
	return http.MethodPost
}

func (k RequestKind) String() string {
	switch k {
	case KindRead:
		return "read"
	case KindWrite:
		return "write"
	case KindEmptyWrite:
		return "empty-write"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// do sends one request and decodes the body as JSON whatever the status.
// Path parameters are escaped by resty.
func (c *Client) do(ctx context.Context, kind RequestKind, path string, pathParams map[string]string, body any) (domain.Payload, error) {
	req := c.http.R().SetContext(ctx)

	if c.session.Token != "" {
		req.SetHeader("X-Auth-Token", c.session.Token)
	}
	if len(pathParams) > 0 {
		req.SetPathParams(pathParams)
	}

	switch kind {
	case KindRead, KindEmptyWrite:
	case KindWrite:
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	default:
		return domain.Payload{}, fmt.Errorf("%w: unsupported request kind %s", domain.ErrInvalidInput, kind)
	}

	method := kind.Method()
	resp, err := req.Execute(method, path)
	if err != nil {
		return domain.Payload{}, fmt.Errorf("%w: %s %s: %w", domain.ErrTransport, method, path, err)
	}

	c.logger.WithFields(logrus.Fields{
		"method": method,
		"path":   path,
		"status": resp.StatusCode(),
	}).Debug("api call")

	payload, err := domain.NewPayload(resp.StatusCode(), resp.Body())
	if err != nil {
		return domain.Payload{}, fmt.Errorf("%s %s: status %d: %w", method, path, resp.StatusCode(), err)
	}

	return payload, nil
}
