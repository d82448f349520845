package scheduleapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const defaultTimeout = 3 * time.Second

// Client talks to the rostering service over HTTP. Every call is bounded by
// the client timeout; a timed-out or failed call surfaces as ErrUnavailable
// so Start can fail retryable instead of silently proceeding.
type Client struct {
	BaseURL    string
	AuthToken  string
	HTTPClient *http.Client
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		BaseURL:    baseURL,
		AuthToken:  token,
		HTTPClient: &http.Client{Timeout: defaultTimeout},
	}
}

type scheduleDTO struct {
	Days       []int  `json:"days"`
	ShiftStart string `json:"shiftStart"`
	ShiftEnd   string `json:"shiftEnd"`
}

type scheduleEnvelope struct {
	Data *scheduleDTO `json:"data"`
}

func (c *Client) buildURL(path string, query map[string]string) string {
	u, _ := url.Parse(c.BaseURL + path)
	q := u.Query()
	for k, v := range query {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

func (c *Client) GetSchedule(ctx context.Context, employeeID uint) (*Schedule, error) {
	fullURL := c.buildURL(fmt.Sprintf("/employees/%d/schedule", employeeID), nil)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, err
	}
	if c.AuthToken != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.AuthToken))
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: GET %s status %d: %s", ErrUnavailable, fullURL, resp.StatusCode, string(b))
	}

	var envelope scheduleEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrUnavailable, err)
	}
	if envelope.Data == nil {
		return nil, ErrNotFound
	}

	return fromDTO(envelope.Data), nil
}

func fromDTO(dto *scheduleDTO) *Schedule {
	days := make(map[time.Weekday]bool, len(dto.Days))
	for _, d := range dto.Days {
		if d >= 0 && d <= 6 {
			days[time.Weekday(d)] = true
		}
	}
	return &Schedule{
		WorkingDays: days,
		ShiftStart:  dto.ShiftStart,
		ShiftEnd:    dto.ShiftEnd,
	}
}

// IsUnavailable reports whether err is a retryable schedule source failure.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}
