package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// Default endpoints for the hosted upload service. Both are overridable so
// tests can point the uploader at an in-process fake.
const (
	DefaultUploadAPIBase  = "https://api.cloudinary.com/v1_1"
	DefaultDeliveryBase   = "https://res.cloudinary.com"
	attachmentDisposition = "fl_attachment"
)

// UploadConfig identifies the upload backend. CloudName and UploadPreset
// come from the deployment environment; when either is missing the backend
// is considered unconfigured and uploads must be rejected locally, before
// any network call.
type UploadConfig struct {
	// APIBase is the upload API root, DefaultUploadAPIBase when empty.
	APIBase string
	// DeliveryBase is the delivery URL root used to build download
	// variants, DefaultDeliveryBase when empty.
	DeliveryBase string
	// CloudName is the account identifier segment of both URL spaces.
	CloudName string
	// UploadPreset is the unsigned upload preset name.
	UploadPreset string
}

// Configured reports whether the upload backend is usable.
func (c UploadConfig) Configured() bool {
	return c.CloudName != "" && c.UploadPreset != ""
}

func (c UploadConfig) apiBase() string {
	if c.APIBase != "" {
		return c.APIBase
	}
	return DefaultUploadAPIBase
}

func (c UploadConfig) deliveryBase() string {
	if c.DeliveryBase != "" {
		return c.DeliveryBase
	}
	return DefaultDeliveryBase
}

// UploadResult is the subset of the upload endpoint's response the
// application consumes, plus the derived download variant.
type UploadResult struct {
	// URL is the inline delivery URL (the endpoint's secure_url). Always
	// safe to open or embed.
	URL string
	// DownloadURL always causes a browser to save to disk. For images it
	// equals URL; for raw files it is the attachment-disposition variant
	// of the delivery URL.
	DownloadURL string
	// PublicID is the endpoint-assigned identifier of the stored file.
	PublicID string
}

// uploadResponse mirrors the endpoint's JSON body.
type uploadResponse struct {
	SecureURL        string `json:"secure_url"`
	PublicID         string `json:"public_id"`
	OriginalFilename string `json:"original_filename"`
}

// Uploader talks to the upload service. Image files and other files are
// routed to different endpoint paths because the service treats them as
// different resource types; that routing also decides how the download URL
// variant is built.
type Uploader struct {
	config     UploadConfig
	httpClient *http.Client
}

// NewUploader creates an uploader for the given backend configuration.
func NewUploader(config UploadConfig) *Uploader {
	return &Uploader{
		config: config,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Configured reports whether the underlying backend is configured.
func (u *Uploader) Configured() bool {
	return u.config.Configured()
}

// IsImageMime reports whether a mime type denotes an image.
func IsImageMime(mimeType string) bool {
	return strings.HasPrefix(strings.ToLower(mimeType), "image/")
}

// Upload sends one file to the upload service and returns its delivery URLs.
// The endpoint path is chosen by mime type: images go to /image/upload,
// everything else to /raw/upload. Raw files are served inline by default,
// which is wrong for a "Download" action, so their DownloadURL requests the
// attachment-disposition variant instead.
func (u *Uploader) Upload(ctx context.Context, data []byte, mimeType, filename string) (*UploadResult, error) {
	isImage := IsImageMime(mimeType)

	resource := "raw"
	if isImage {
		resource = "image"
	}
	endpoint := fmt.Sprintf("%s/%s/%s/upload", u.config.apiBase(), u.config.CloudName, resource)

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	part, err := form.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to build upload form: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, fmt.Errorf("failed to build upload form: %w", err)
	}
	if err := form.WriteField("upload_preset", u.config.UploadPreset); err != nil {
		return nil, fmt.Errorf("failed to build upload form: %w", err)
	}
	if err := form.Close(); err != nil {
		return nil, fmt.Errorf("failed to build upload form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to create upload request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := u.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return nil, &UploadError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(body))}
	}

	var payload uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("upload: failed to decode response: %w", err)
	}

	result := &UploadResult{
		URL:         payload.SecureURL,
		DownloadURL: payload.SecureURL,
		PublicID:    payload.PublicID,
	}
	if !isImage && payload.PublicID != "" {
		result.DownloadURL = u.RawDownloadURL(payload.PublicID)
	}
	return result, nil
}

// RawDownloadURL builds the attachment-disposition delivery URL for a raw
// (non-image) file. Requesting this variant forces save-to-disk instead of
// inline display.
func (u *Uploader) RawDownloadURL(publicID string) string {
	return fmt.Sprintf("%s/%s/raw/upload/%s/%s",
		u.config.deliveryBase(), u.config.CloudName, attachmentDisposition, publicID)
}
