// Package client provides the HTTP gateway to the SOP backend and the
// file-upload service.
//
// The gateway is pure request/response: one network call per operation, no
// retries, no caching, no batching. Callers own consistency; the document
// store layers its write-then-refetch policy on top of these primitives.
//
// Two remote services are wrapped:
//   - [Client]: the JSON REST API holding the document collection
//     (GET/POST /sops, PUT/DELETE /sops/{id}, POST /sops/import, POST /seed).
//   - [Uploader]: the Cloudinary-shaped upload endpoint that stores raw
//     files and returns delivery URLs.
//
// Failures map onto a small taxonomy: [FetchError] for non-success statuses
// with no usable body, [ValidationError] when the backend supplied an
// {"error": ...} message, and [UploadError] for the upload endpoint.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sopnote/sopnote/pkg/models"
)

// Client provides strongly-typed access to the SOP backend REST API.
// It is safe for concurrent use by multiple goroutines.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a gateway client for the backend at baseURL. The baseURL should
// include protocol, host, and any API prefix (e.g. "https://host/api") with
// no trailing slash.
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// doRequest performs an HTTP request with a JSON body and proper headers.
func (c *Client) doRequest(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.httpClient.Do(req)
}

// decodeResponse decodes the JSON response into target, mapping non-success
// statuses to a FetchError tagged with op.
func decodeResponse(resp *http.Response, op string, target any) error {
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return &FetchError{Op: op, StatusCode: resp.StatusCode}
	}

	if target != nil && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
			return fmt.Errorf("%s: failed to decode response: %w", op, err)
		}
	}
	return nil
}

// ListDocuments fetches the entire document collection.
func (c *Client) ListDocuments(ctx context.Context) ([]models.Document, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/sops", nil)
	if err != nil {
		return nil, err
	}

	var docs []models.Document
	if err := decodeResponse(resp, "list sops", &docs); err != nil {
		return nil, err
	}
	for i := range docs {
		docs[i].Normalize()
	}
	return docs, nil
}

// CreateDocument creates a new document. A non-success status surfaces the
// server-provided message as a ValidationError so per-field messages can be
// shown inline.
func (c *Client) CreateDocument(ctx context.Context, doc models.Document) (*models.Document, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/sops", doc)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, &ValidationError{
			Message:    errorMessage(resp.Body, "failed to create SOP"),
			StatusCode: resp.StatusCode,
		}
	}

	var created models.Document
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return nil, fmt.Errorf("create sop: failed to decode response: %w", err)
	}
	created.Normalize()
	return &created, nil
}

// UpdateDocument overwrites the document with the given id wholesale. There
// is no patch protocol: the caller sends the full tree on every save.
func (c *Client) UpdateDocument(ctx context.Context, id string, doc models.Document) (*models.Document, error) {
	resp, err := c.doRequest(ctx, http.MethodPut, "/sops/"+id, doc)
	if err != nil {
		return nil, err
	}

	var updated models.Document
	if err := decodeResponse(resp, "update sop", &updated); err != nil {
		return nil, err
	}
	updated.Normalize()
	return &updated, nil
}

// DeleteDocument deletes the document with the given id, cascading to all of
// its steps, sub-heads, and questions.
func (c *Client) DeleteDocument(ctx context.Context, id string) error {
	resp, err := c.doRequest(ctx, http.MethodDelete, "/sops/"+id, nil)
	if err != nil {
		return err
	}
	return decodeResponse(resp, "delete sop", nil)
}

// ImportDocuments replaces the entire remote collection with docs.
func (c *Client) ImportDocuments(ctx context.Context, docs []models.Document) error {
	resp, err := c.doRequest(ctx, http.MethodPost, "/sops/import", docs)
	if err != nil {
		return err
	}
	return decodeResponse(resp, "import sops", nil)
}

// Seed populates the remote collection with the backend's sample data.
func (c *Client) Seed(ctx context.Context) error {
	resp, err := c.doRequest(ctx, http.MethodPost, "/seed", nil)
	if err != nil {
		return err
	}
	return decodeResponse(resp, "seed", nil)
}

// errorMessage extracts the {"error": ...} message from an error body,
// falling back to a fixed message when the body is unusable.
func errorMessage(body io.Reader, fallback string) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(body).Decode(&payload); err == nil && payload.Error != "" {
		return payload.Error
	}
	return fallback
}
