package board

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/xavierca1/clinica-crm/internal/entity"
)

// TokenSource yields the bearer token of the current staff session. An empty
// token means the request goes out unauthenticated and fails like any other.
type TokenSource func() string

// TransitionClient is what the controller needs from the reconciliation layer.
type TransitionClient interface {
	SubmitTransition(ctx context.Context, recordID int64, target entity.Status, outcome entity.AttendanceStatus) error
}

// Client reconciles optimistic board moves against the CRM API.
type Client struct {
	baseURL string
	token   TokenSource
	http    *http.Client
}

func NewClient(baseURL string, token TokenSource) *Client {
	if token == nil {
		token = func() string { return "" }
	}
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

type transitionRequest struct {
	Status           entity.Status           `json:"status"`
	AttendanceStatus entity.AttendanceStatus `json:"attendance_status,omitempty"`
}

type apiError struct {
	Error string `json:"error"`
}

// SubmitTransition sends the authoritative PATCH for one record. A 2xx with an
// empty or non-JSON body counts as success; on failure the server's error
// message is surfaced when it sent one.
func (c *Client) SubmitTransition(ctx context.Context, recordID int64, target entity.Status, outcome entity.AttendanceStatus) error {
	url := fmt.Sprintf("%s/api/patients/%d/status", c.baseURL, recordID)

	jsonBody, err := json.Marshal(transitionRequest{Status: target, AttendanceStatus: outcome})
	if err != nil {
		return fmt.Errorf("marshal transition: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if tok := c.token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("could not reach the server: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		// body may be {} or empty; nothing to read out of it
		io.Copy(io.Discard, resp.Body)
		return nil
	}

	var apiErr apiError
	body, _ := io.ReadAll(resp.Body)
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error != "" {
		return fmt.Errorf("could not update: %s", apiErr.Error)
	}
	return fmt.Errorf("could not update record %d (status %d)", recordID, resp.StatusCode)
}
