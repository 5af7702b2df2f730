// Package booking talks to the scheduling provider that holds the team's
// booked appointments.
package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"salespulse_backend/platform/config"
	"salespulse_backend/platform/logger"
)

// Client is an HTTP client for the booking provider's REST API.
type Client struct {
	baseURL      string
	token        string
	organization string
	http         *http.Client
	log          *logger.Logger
}

// Event is one scheduled event as the provider reports it. Times are UTC.
type Event struct {
	URI       string
	Name      string
	StartTime time.Time
	EndTime   time.Time
	Status    string
}

// Provider event statuses.
const (
	StatusActive   = "active"
	StatusCanceled = "canceled"
)

type eventsResponse struct {
	Collection []struct {
		URI       string    `json:"uri"`
		Name      string    `json:"name"`
		Status    string    `json:"status"`
		StartTime time.Time `json:"start_time"`
		EndTime   time.Time `json:"end_time"`
	} `json:"collection"`
	Pagination struct {
		NextPageToken string `json:"next_page_token"`
	} `json:"pagination"`
}

type inviteesResponse struct {
	Collection []struct {
		Name   string `json:"name"`
		Status string `json:"status"`
	} `json:"collection"`
}

// NewClient creates a booking client. Returns nil when no token is
// configured, which callers treat as the collaborator being absent.
func NewClient(cfg config.BookingConfig, log *logger.Logger) *Client {
	if cfg.GetBookingToken() == "" {
		return nil
	}

	return &Client{
		baseURL:      strings.TrimRight(cfg.GetBookingBaseURL(), "/"),
		token:        cfg.GetBookingToken(),
		organization: cfg.GetBookingOrganization(),
		http:         &http.Client{Timeout: 15 * time.Second},
		log:          log,
	}
}

// ListEvents retrieves every scheduled event for one provider user in the
// given UTC window, following pagination to the end. Both active and
// canceled events are returned; the pipeline needs canceled ones to count
// bookings correctly.
func (c *Client) ListEvents(ctx context.Context, userURI string, from, to time.Time) ([]Event, error) {
	if c == nil {
		return nil, nil
	}

	var events []Event
	pageToken := ""

	for {
		page, next, err := c.listEventsPage(ctx, userURI, from, to, pageToken)
		if err != nil {
			return nil, err
		}
		events = append(events, page...)

		if next == "" {
			break
		}
		pageToken = next
	}

	return events, nil
}

func (c *Client) listEventsPage(ctx context.Context, userURI string, from, to time.Time, pageToken string) ([]Event, string, error) {
	q := url.Values{}
	q.Set("user", userURI)
	q.Set("organization", c.organization)
	q.Set("min_start_time", from.UTC().Format(time.RFC3339))
	q.Set("max_start_time", to.UTC().Format(time.RFC3339))
	q.Set("count", "100")
	if pageToken != "" {
		q.Set("page_token", pageToken)
	}

	var parsed eventsResponse
	if err := c.get(ctx, "/scheduled_events?"+q.Encode(), &parsed); err != nil {
		return nil, "", err
	}

	events := make([]Event, 0, len(parsed.Collection))
	for _, e := range parsed.Collection {
		events = append(events, Event{
			URI:       e.URI,
			Name:      e.Name,
			StartTime: e.StartTime,
			EndTime:   e.EndTime,
			Status:    e.Status,
		})
	}

	return events, parsed.Pagination.NextPageToken, nil
}

// InviteeName resolves the display name of an event's first invitee. An
// event without invitees yields an empty string, which the pipeline treats
// as an unknown identity.
func (c *Client) InviteeName(ctx context.Context, eventURI string) (string, error) {
	if c == nil {
		return "", nil
	}

	// Event URIs are absolute; invitees hang off the event resource path.
	path := eventURI
	if strings.HasPrefix(eventURI, c.baseURL) {
		path = strings.TrimPrefix(eventURI, c.baseURL)
	}

	var parsed inviteesResponse
	if err := c.get(ctx, path+"/invitees", &parsed); err != nil {
		return "", err
	}

	if len(parsed.Collection) == 0 {
		return "", nil
	}
	return strings.TrimSpace(parsed.Collection[0].Name), nil
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("booking request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("booking service returned %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode booking response: %w", err)
	}
	return nil
}
