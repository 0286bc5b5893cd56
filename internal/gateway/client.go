package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client wraps every outbound call to the remote CodeChella backend.
// One method per backend operation; authenticated calls attach the
// bearer token the session carries.
type Client struct {
	BaseURL string
	HTTP    *http.Client

	// LoginTimeout bounds each of the three login attempts (15s default)
	LoginTimeout time.Duration

	// PollFallback is the fixed interval used when an SSE stream for the
	// pending-requests topic degrades to polling (5s default)
	PollFallback time.Duration
}

// NewClient builds a gateway client for the given backend origin
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:      baseURL,
		HTTP:         &http.Client{Timeout: 30 * time.Second},
		LoginTimeout: 15 * time.Second,
		PollFallback: 5 * time.Second,
	}
}

// APIError is a backend failure with the human-readable message
// extracted from the response body when one was present.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend returned %d: %s", e.Status, e.Message)
}

// buildHeaders sets Content-Type, the bearer token and any extras
func buildHeaders(req *http.Request, token string, extra map[string]string) {
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range extra {
		req.Header.Set(k, v)
	}
}

// errorFromResponse extracts "message" or "error" from the body,
// falling back to a generic message when nothing parses.
func errorFromResponse(res *http.Response, fallback string) *APIError {
	msg := fallback
	body, _ := io.ReadAll(res.Body)
	if len(body) > 0 {
		var parsed struct {
			Message string `json:"message"`
			Error   string `json:"error"`
		}
		if err := json.Unmarshal(body, &parsed); err == nil {
			if parsed.Message != "" {
				msg = parsed.Message
			} else if parsed.Error != "" {
				msg = parsed.Error
			}
		}
	}
	return &APIError{Status: res.StatusCode, Message: msg}
}

// doJSON issues a request with an optional JSON body and decodes the
// response into out (when out is non-nil and the body is non-empty).
func (c *Client) doJSON(ctx context.Context, method, path, token string, extra map[string]string, in, out interface{}, fallbackMsg string) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	buildHeaders(req, token, extra)

	res, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return errorFromResponse(res, fallbackMsg)
	}

	if out == nil {
		io.Copy(io.Discard, res.Body)
		return nil
	}

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return err
	}
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, out)
}
