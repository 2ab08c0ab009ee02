package tinder

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/bnema/tinderbot-cli/internal/domain"
)

const (
	pathRecommendations = "/user/recs"
	pathProfile         = "/profile"
	pathReport          = "/report/{id}"
	pathMatchMessage    = "/user/matches/{id}"
	pathPing            = "/user/ping"
	pathUpdates         = "/updates"
	pathLike            = "/like/{id}"
	pathPass            = "/pass/{id}"
	pathUser            = "/user/{id}"
)

func (c *Client) Recommendations(ctx context.Context) (domain.Payload, error) {
	return c.do(ctx, KindRead, pathRecommendations, nil, nil)
}

type recommendationsEnvelope struct {
	Results *[]json.RawMessage `json:"results"`
}

type recommendationHeader struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

// Candidates fetches recommendations and extracts one candidate per result.
// A payload without a results array, or a result without an id, is reported
// as domain.ErrUnexpectedPayload.
func (c *Client) Candidates(ctx context.Context) ([]domain.Candidate, error) {
	payload, err := c.Recommendations(ctx)
	if err != nil {
		return nil, err
	}

	return candidatesFromPayload(payload)
}

func candidatesFromPayload(payload domain.Payload) ([]domain.Candidate, error) {
	var envelope recommendationsEnvelope
	if err := json.Unmarshal(payload.Raw, &envelope); err != nil || envelope.Results == nil {
		return nil, fmt.Errorf("%w: recommendations without results (status %d)", domain.ErrUnexpectedPayload, payload.StatusCode)
	}

	candidates := make([]domain.Candidate, 0, len(*envelope.Results))
	for i, raw := range *envelope.Results {
		var header recommendationHeader
		if err := json.Unmarshal(raw, &header); err != nil {
			return nil, fmt.Errorf("%w: result %d is not an object", domain.ErrUnexpectedPayload, i)
		}
		if strings.TrimSpace(header.ID) == "" {
			return nil, fmt.Errorf("%w: result %d has no _id", domain.ErrUnexpectedPayload, i)
		}
		candidates = append(candidates, domain.Candidate{
			ID:   domain.CandidateID(header.ID),
			Name: header.Name,
			Raw:  raw,
		})
	}

	return candidates, nil
}

type profileUpdate struct {
	Gender         domain.Gender `json:"gender"`
	AgeFilterMin   int           `json:"age_filter_min"`
	AgeFilterMax   int           `json:"age_filter_max"`
	DistanceFilter int           `json:"distance_filter"`
}

func (c *Client) UpdateProfile(ctx context.Context, filter domain.ProfileFilter) (domain.Payload, error) {
	if err := filter.Validate(); err != nil {
		return domain.Payload{}, err
	}

	return c.do(ctx, KindWrite, pathProfile, nil, profileUpdate{
		Gender:         filter.Gender,
		AgeFilterMin:   filter.AgeMin,
		AgeFilterMax:   filter.AgeMax,
		DistanceFilter: filter.DistanceMiles,
	})
}

// Profile returns the authenticated user's own profile.
func (c *Client) Profile(ctx context.Context) (domain.Payload, error) {
	return c.do(ctx, KindRead, pathProfile, nil, nil)
}

type reportBody struct {
	Cause domain.ReportCause `json:"cause"`
}

func (c *Client) ReportUser(ctx context.Context, id domain.CandidateID, cause domain.ReportCause) (domain.Payload, error) {
	params, err := idParams(id)
	if err != nil {
		return domain.Payload{}, err
	}

	return c.do(ctx, KindWrite, pathReport, params, reportBody{Cause: cause})
}

type messageBody struct {
	Message string `json:"message"`
}

// SendMessage posts text to a match. Messaging a non-match yields an error
// payload from the service, not a Go error.
func (c *Client) SendMessage(ctx context.Context, id domain.CandidateID, text string) (domain.Payload, error) {
	params, err := idParams(id)
	if err != nil {
		return domain.Payload{}, err
	}

	return c.do(ctx, KindWrite, pathMatchMessage, params, messageBody{Message: text})
}

type pingBody struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func (c *Client) UpdateLocation(ctx context.Context, location domain.Location) (domain.Payload, error) {
	if err := location.Validate(); err != nil {
		return domain.Payload{}, err
	}

	return c.do(ctx, KindWrite, pathPing, nil, pingBody{Lat: location.Lat, Lon: location.Lon})
}

// Updates returns matches and messages since the last call.
func (c *Client) Updates(ctx context.Context) (domain.Payload, error) {
	return c.do(ctx, KindEmptyWrite, pathUpdates, nil, nil)
}

func (c *Client) Like(ctx context.Context, id domain.CandidateID) (domain.Payload, error) {
	params, err := idParams(id)
	if err != nil {
		return domain.Payload{}, err
	}

	return c.do(ctx, KindRead, pathLike, params, nil)
}

func (c *Client) Pass(ctx context.Context, id domain.CandidateID) (domain.Payload, error) {
	params, err := idParams(id)
	if err != nil {
		return domain.Payload{}, err
	}

	return c.do(ctx, KindRead, pathPass, params, nil)
}

// User fetches another user's public profile.
func (c *Client) User(ctx context.Context, id domain.CandidateID) (domain.Payload, error) {
	params, err := idParams(id)
	if err != nil {
		return domain.Payload{}, err
	}

	return c.do(ctx, KindRead, pathUser, params, nil)
}

func idParams(id domain.CandidateID) (map[string]string, error) {
	trimmed := strings.TrimSpace(string(id))
	if trimmed == "" {
		return nil, fmt.Errorf("%w: user id is required", domain.ErrInvalidInput)
	}
	return map[string]string{"id": trimmed}, nil
}
