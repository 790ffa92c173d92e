package client_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sopnote/sopnote/internal/fakesop"
	"github.com/sopnote/sopnote/pkg/client"
)

func newTestUploader(t *testing.T) (*client.Uploader, *fakesop.Server) {
	t.Helper()
	backend := fakesop.New()
	ts := httptest.NewServer(backend.Router())
	t.Cleanup(ts.Close)
	return client.NewUploader(client.UploadConfig{
		APIBase:      ts.URL,
		DeliveryBase: "https://res.fake-cdn.test",
		CloudName:    "democloud",
		UploadPreset: "unsigned",
	}), backend
}

func TestUploadImageRoutesToImageEndpoint(t *testing.T) {
	u, backend := newTestUploader(t)

	res, err := u.Upload(context.Background(), []byte("png-bytes"), "image/png", "photo.png")
	require.NoError(t, err)
	assert.Equal(t, 1, backend.UploadCount("image"))
	assert.Equal(t, 0, backend.UploadCount("raw"))
	assert.NotEmpty(t, res.URL)
	assert.NotEmpty(t, res.PublicID)
	// Images are already safe to download inline; no special variant.
	assert.Equal(t, res.URL, res.DownloadURL)
}

func TestUploadRawFileGetsAttachmentVariant(t *testing.T) {
	u, backend := newTestUploader(t)

	res, err := u.Upload(context.Background(), []byte("doc-bytes"), "application/msword", "report.docx")
	require.NoError(t, err)
	assert.Equal(t, 1, backend.UploadCount("raw"))
	assert.NotEqual(t, res.URL, res.DownloadURL)
	assert.Equal(t,
		"https://res.fake-cdn.test/democloud/raw/upload/fl_attachment/"+res.PublicID,
		res.DownloadURL)
}

func TestUploadEmptyMimeRoutesToRaw(t *testing.T) {
	u, backend := newTestUploader(t)

	_, err := u.Upload(context.Background(), []byte("bytes"), "", "unknown.bin")
	require.NoError(t, err)
	assert.Equal(t, 1, backend.UploadCount("raw"))
}

func TestUploadError(t *testing.T) {
	u, backend := newTestUploader(t)
	backend.FailNext(fakesop.OpUpload, http.StatusUnauthorized, `{"error":"invalid preset"}`)

	_, err := u.Upload(context.Background(), []byte("bytes"), "image/png", "x.png")
	var uerr *client.UploadError
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, http.StatusUnauthorized, uerr.StatusCode)
	assert.True(t, strings.Contains(uerr.Error(), "invalid preset"))
}

func TestIsImageMime(t *testing.T) {
	assert.True(t, client.IsImageMime("image/png"))
	assert.True(t, client.IsImageMime("IMAGE/JPEG"))
	assert.False(t, client.IsImageMime("application/pdf"))
	assert.False(t, client.IsImageMime(""))
}

func TestConfigured(t *testing.T) {
	assert.False(t, client.UploadConfig{}.Configured())
	assert.False(t, client.UploadConfig{CloudName: "c"}.Configured())
	assert.False(t, client.UploadConfig{UploadPreset: "p"}.Configured())
	assert.True(t, client.UploadConfig{CloudName: "c", UploadPreset: "p"}.Configured())
}
