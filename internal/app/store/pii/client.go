// internal/app/store/pii/client.go
package pii

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/dalemusser/clinichub/internal/domain/models"
	"go.uber.org/zap"
)

// ErrNotFound is returned when the PII store has no record for a case
// identifier. Callers in the enrichment path treat it the same as a
// transient failure: the record is rendered without a patient.
var ErrNotFound = errors.New("patient not found")

// DefaultTimeout bounds each PII call when the caller's context carries
// no earlier deadline.
const DefaultTimeout = 5 * time.Second

// Client is the gateway to the relational PII store's HTTP API. It is
// the only component allowed to see person-identifying fields.
type Client struct {
	baseURL string
	http    *http.Client
	log     *zap.Logger
}

// New creates a PII client for the API at baseURL.
func New(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		log:     logger,
	}
}

type patientEnvelope struct {
	Patient models.Patient `json:"patient"`
}

type patientsEnvelope struct {
	Patients []models.Patient `json:"patients"`
}

type nextCaseIDEnvelope struct {
	NextID int `json:"nextId"`
}

// Get fetches the PII record for a case identifier.
// Returns ErrNotFound on 404.
func (c *Client) Get(ctx context.Context, caseID string) (*models.Patient, error) {
	var env patientEnvelope
	err := c.do(ctx, http.MethodGet, "/api/patients/"+url.PathEscape(caseID), nil, &env)
	if err != nil {
		return nil, err
	}
	env.Patient.CaseID = caseID
	return &env.Patient, nil
}

// Search runs a free-text patient search.
func (c *Client) Search(ctx context.Context, q string) ([]models.Patient, error) {
	var env patientsEnvelope
	path := "/api/patients/search?q=" + url.QueryEscape(q)
	if err := c.do(ctx, http.MethodGet, path, nil, &env); err != nil {
		return nil, err
	}
	return env.Patients, nil
}

// Create writes a new PII record. The case document must already exist;
// a failure here leaves the case in the documented inconsistency window
// and must be surfaced to the caller.
func (c *Client) Create(ctx context.Context, p models.Patient) error {
	return c.do(ctx, http.MethodPost, "/api/patients", p, nil)
}

// Batch fetches PII records for many case identifiers in one call,
// returning a map keyed by case id. Absent ids are simply missing from
// the map.
func (c *Client) Batch(ctx context.Context, caseIDs []string) (map[string]models.Patient, error) {
	body := struct {
		CaseIDs []string `json:"case_ids"`
	}{CaseIDs: caseIDs}

	out := make(map[string]models.Patient)
	if err := c.do(ctx, http.MethodPost, "/api/patients/batch", body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// NextCaseID asks the PII store for the next sequential case number.
// Callers fall back to timestamp+random allocation when this fails.
func (c *Client) NextCaseID(ctx context.Context) (int, error) {
	var env nextCaseIDEnvelope
	if err := c.do(ctx, http.MethodGet, "/api/patients/next-case-id", nil, &env); err != nil {
		return 0, err
	}
	return env.NextID, nil
}

func (c *Client) do(ctx context.Context, method, path string, params, res any) error {
	var body io.Reader
	if params != nil {
		buf, err := json.Marshal(params)
		if err != nil {
			return fmt.Errorf("pii: encode request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("pii: build request: %w", err)
	}
	if params != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("pii: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		c.log.Warn("pii store returned error status",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode))
		return fmt.Errorf("pii: %s %s: unexpected status %d", method, path, resp.StatusCode)
	}

	if res == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(res); err != nil {
		return fmt.Errorf("pii: decode response: %w", err)
	}
	return nil
}
