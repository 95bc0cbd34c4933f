// internal/app/store/calendar/calendar.go
package calendar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// Syncer is the external-calendar collaborator boundary. Implementations
// are best-effort by contract: the lifecycle controller logs and
// swallows every error it sees here, so failures never fail the primary
// event operation.
type Syncer interface {
	// CreateEvent mirrors an event into the remote calendar and returns
	// the correlation id to store on the event document.
	CreateEvent(ctx context.Context, title, description string, date time.Time) (string, error)
	// DeleteEvent removes the remote copy by correlation id.
	DeleteEvent(ctx context.Context, calendarEventID string) error
}

// Client talks to a remote calendar provider's HTTP API using a static
// bearer token.
type Client struct {
	baseURL string
	http    *http.Client
	log     *zap.Logger
}

// New creates a calendar client. token is the provider access token for
// the console's service identity.
func New(baseURL, token string, timeout time.Duration, logger *zap.Logger) *Client {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	hc := oauth2.NewClient(context.Background(), ts)
	hc.Timeout = timeout
	return &Client{
		baseURL: baseURL,
		http:    hc,
		log:     logger,
	}
}

type remoteEvent struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Date        time.Time `json:"date"`
}

// CreateEvent creates the remote copy. The correlation id is minted
// locally so a response-parsing failure cannot orphan the remote event.
func (c *Client) CreateEvent(ctx context.Context, title, description string, date time.Time) (string, error) {
	id := uuid.NewString()
	body, err := json.Marshal(remoteEvent{
		ID:          id,
		Title:       title,
		Description: description,
		Date:        date,
	})
	if err != nil {
		return "", fmt.Errorf("calendar: encode event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/events", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("calendar: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("calendar: create event: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("calendar: create event: unexpected status %d", resp.StatusCode)
	}
	return id, nil
}

// DeleteEvent deletes the remote copy. A 404 is success: the remote
// event is already gone.
func (c *Client) DeleteEvent(ctx context.Context, calendarEventID string) error {
	path := c.baseURL + "/events/" + url.PathEscape(calendarEventID)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, path, nil)
	if err != nil {
		return fmt.Errorf("calendar: build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("calendar: delete event: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		c.log.Debug("calendar event already absent", zap.String("calendar_event_id", calendarEventID))
		return nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("calendar: delete event: unexpected status %d", resp.StatusCode)
	}
	return nil
}
