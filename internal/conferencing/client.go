// Package conferencing talks to the meeting provider that holds recorded
// sessions and their transcripts.
package conferencing

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"salespulse_backend/internal/analysis/domain"
	"salespulse_backend/platform/apperr"
	"salespulse_backend/platform/config"
	"salespulse_backend/platform/logger"
)

// Client is an HTTP client for the conferencing provider's REST API.
// All API calls share one rate limiter because the provider throttles
// per-account, not per-endpoint.
type Client struct {
	baseURL      string
	authURL      string
	accountID    string
	clientID     string
	clientSecret string
	http         *http.Client
	limiter      *rate.Limiter
	log          *logger.Logger

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

type recordingFile struct {
	FileType    string `json:"file_type"`
	DownloadURL string `json:"download_url"`
}

type meeting struct {
	UUID           string          `json:"uuid"`
	Topic          string          `json:"topic"`
	StartTime      time.Time       `json:"start_time"`
	RecordingFiles []recordingFile `json:"recording_files"`
}

type recordingsResponse struct {
	Meetings      []meeting `json:"meetings"`
	NextPageToken string    `json:"next_page_token"`
}

// NewClient creates a conferencing client. Returns nil when credentials are
// not configured, which callers treat as the collaborator being absent.
func NewClient(cfg config.ConferencingConfig, log *logger.Logger) *Client {
	if cfg.GetConferencingClientID() == "" || cfg.GetConferencingClientSecret() == "" {
		return nil
	}

	limit := cfg.GetConferencingRateLimit()
	if limit <= 0 {
		limit = 2
	}

	return &Client{
		baseURL:      strings.TrimRight(cfg.GetConferencingBaseURL(), "/"),
		authURL:      cfg.GetConferencingAuthURL(),
		accountID:    cfg.GetConferencingAccountID(),
		clientID:     cfg.GetConferencingClientID(),
		clientSecret: cfg.GetConferencingClientSecret(),
		http:         &http.Client{Timeout: 30 * time.Second},
		limiter:      rate.NewLimiter(rate.Limit(limit), 1),
		log:          log,
	}
}

// ListRecordings retrieves the recorded sessions of one provider user that
// started on the given business day. Provider timestamps are UTC; each
// session's start time is normalized to the business timezone and sessions
// landing on a neighboring calendar day after conversion are dropped.
func (c *Client) ListRecordings(ctx context.Context, rep, userEmail string, day time.Time, loc *time.Location) ([]domain.RecordedSession, error) {
	if c == nil {
		return nil, nil
	}

	// The listing endpoint filters by whole UTC dates, so the query spans an
	// extra day on each side to survive the timezone shift.
	from := day.AddDate(0, 0, -1).Format("2006-01-02")
	to := day.AddDate(0, 0, 1).Format("2006-01-02")

	var sessions []domain.RecordedSession
	pageToken := ""

	for {
		q := url.Values{}
		q.Set("from", from)
		q.Set("to", to)
		q.Set("page_size", "100")
		if pageToken != "" {
			q.Set("next_page_token", pageToken)
		}

		var parsed recordingsResponse
		path := fmt.Sprintf("/users/%s/recordings?%s", url.PathEscape(userEmail), q.Encode())
		if err := c.get(ctx, path, &parsed); err != nil {
			return nil, err
		}

		for _, m := range parsed.Meetings {
			localStart := m.StartTime.In(loc)
			if localStart.Year() != day.Year() || localStart.YearDay() != day.YearDay() {
				continue
			}

			raw, err := json.Marshal(m.RecordingFiles)
			if err != nil {
				return nil, fmt.Errorf("marshal recording files: %w", err)
			}

			sessions = append(sessions, domain.RecordedSession{
				Rep:           rep,
				ID:            m.UUID,
				Topic:         m.Topic,
				StartTime:     localStart,
				HasRecordings: len(m.RecordingFiles) > 0,
				Raw:           raw,
			})
		}

		if parsed.NextPageToken == "" {
			break
		}
		pageToken = parsed.NextPageToken
	}

	return sessions, nil
}

// FetchTranscript downloads the transcript text of a recorded session.
// Satisfies the reconciler's TranscriptFetcher interface.
func (c *Client) FetchTranscript(ctx context.Context, session domain.RecordedSession) (string, error) {
	if c == nil {
		return "", apperr.Unavailable("conferencing collaborator not configured")
	}

	var files []recordingFile
	if err := json.Unmarshal(session.Raw, &files); err != nil {
		return "", fmt.Errorf("decode recording files for session %s: %w", session.ID, err)
	}

	downloadURL := ""
	for _, f := range files {
		if strings.EqualFold(f.FileType, "TRANSCRIPT") {
			downloadURL = f.DownloadURL
			break
		}
	}
	if downloadURL == "" {
		return "", apperr.New(apperr.KindNotFound, fmt.Sprintf("session %s has no transcript file", session.ID))
	}

	token, err := c.token(ctx)
	if err != nil {
		return "", err
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, downloadURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("transcript download failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		return "", fmt.Errorf("transcript download returned %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read transcript: %w", err)
	}

	return string(data), nil
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	token, err := c.token(ctx)
	if err != nil {
		return err
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("conferencing request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("conferencing service returned %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode conferencing response: %w", err)
	}
	return nil
}

// token returns a cached OAuth access token, refreshing it shortly before
// expiry. The provider issues account-scoped tokens via the client
// credentials grant.
func (c *Client) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && time.Now().Before(c.tokenExpiry) {
		return c.accessToken, nil
	}

	form := url.Values{}
	form.Set("grant_type", "account_credentials")
	form.Set("account_id", c.accountID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.authURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(c.clientID, c.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("conferencing token request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		data, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("conferencing token endpoint returned %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	var parsed tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}
	if parsed.AccessToken == "" {
		return "", apperr.Unavailable("conferencing token endpoint returned an empty token")
	}

	c.accessToken = parsed.AccessToken
	// Refresh a minute early so in-flight calls never race an expired token.
	c.tokenExpiry = time.Now().Add(time.Duration(parsed.ExpiresIn)*time.Second - time.Minute)

	return c.accessToken, nil
}
