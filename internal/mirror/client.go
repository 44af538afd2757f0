package mirror

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
)

// Sentinel errors for common HTTP error classes.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
)

// Collections mirrored to the remote document store.
const (
	CollectionEvents = "events"
	CollectionGuests = "guests"
	CollectionTasks  = "tasks"
	CollectionUsers  = "users"
)

// Client is an HTTP client for the remote document mirror.
type Client struct {
	BaseURL  string
	Token    string
	DeviceID string
	HTTP     *http.Client
}

// New creates a new mirror client.
func New(baseURL, token, deviceID string) *Client {
	return &Client{
		BaseURL:  baseURL,
		Token:    token,
		DeviceID: deviceID,
		HTTP:     &http.Client{Timeout: 30 * time.Second},
	}
}

// Document is a keyed document returned by the mirror.
type Document struct {
	ID        string                 `json:"id"`
	Fields    map[string]interface{} `json:"fields"`
	UpdatedAt string                 `json:"updated_at,omitempty"`
}

// Merge writes only the supplied fields of a document, leaving others
// untouched. The document is created if it does not exist.
func (c *Client) Merge(ctx context.Context, collection, id string, fields map[string]interface{}) error {
	path := fmt.Sprintf("/v1/collections/%s/docs/%s", url.PathEscape(collection), url.PathEscape(id))
	return c.do(ctx, "PATCH", path, map[string]interface{}{"fields": fields}, nil)
}

// Delete removes a document. A missing document is treated as success:
// the delete already happened as far as the mirror is concerned.
func (c *Client) Delete(ctx context.Context, collection, id string) error {
	path := fmt.Sprintf("/v1/collections/%s/docs/%s", url.PathEscape(collection), url.PathEscape(id))
	err := c.do(ctx, "DELETE", path, nil, nil)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}

// Get fetches a single document.
func (c *Client) Get(ctx context.Context, collection, id string) (*Document, error) {
	path := fmt.Sprintf("/v1/collections/%s/docs/%s", url.PathEscape(collection), url.PathEscape(id))
	var doc Document
	if err := c.do(ctx, "GET", path, nil, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// QueryByField fetches all documents whose field equals the given value (one shot).
func (c *Client) QueryByField(ctx context.Context, collection, field, value string) ([]Document, error) {
	params := url.Values{}
	params.Set("field", field)
	params.Set("value", value)

	path := fmt.Sprintf("/v1/collections/%s/query?%s", url.PathEscape(collection), params.Encode())
	var docs []Document
	if err := c.do(ctx, "GET", path, nil, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// --- HTTP helpers ---

// apiError is the standard error body from the mirror.
type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *apiError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return e.Code
}

func (c *Client) do(ctx context.Context, method, path string, body, result any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	if c.DeviceID != "" {
		req.Header.Set("X-Device-ID", c.DeviceID)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var apiErr apiError
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Code != "" {
			switch resp.StatusCode {
			case http.StatusUnauthorized:
				return fmt.Errorf("%w: %s", ErrUnauthorized, apiErr.Message)
			case http.StatusForbidden:
				return fmt.Errorf("%w: %s", ErrForbidden, apiErr.Message)
			case http.StatusNotFound:
				return fmt.Errorf("%w: %s", ErrNotFound, apiErr.Message)
			default:
				return &apiErr
			}
		}
		switch resp.StatusCode {
		case http.StatusUnauthorized:
			return ErrUnauthorized
		case http.StatusForbidden:
			return ErrForbidden
		case http.StatusNotFound:
			return ErrNotFound
		}
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(respBody))
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}

	return nil
}
