package attach_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sopnote/sopnote/internal/fakesop"
	"github.com/sopnote/sopnote/pkg/attach"
	"github.com/sopnote/sopnote/pkg/client"
	"github.com/sopnote/sopnote/pkg/models"
)

func newUploadFixture(t *testing.T) (*attach.Service, *fakesop.Server) {
	t.Helper()
	backend := fakesop.New()
	ts := httptest.NewServer(backend.Router())
	t.Cleanup(ts.Close)
	svc := attach.NewService(client.UploadConfig{
		APIBase:      ts.URL,
		DeliveryBase: "https://res.fake-cdn.test",
		CloudName:    "demo",
		UploadPreset: "unsigned",
	})
	return svc, backend
}

func TestUploadUnconfiguredFailsLocally(t *testing.T) {
	svc := attach.NewService(client.UploadConfig{
		// No network endpoint at all: a configuration failure must never
		// reach the wire.
		APIBase: "http://127.0.0.1:0",
	})
	_, err := svc.Upload(context.Background(), attach.File{Name: "a.png", MimeType: "image/png", Data: []byte("x")})

	var cerr *attach.ConfigurationError
	require.ErrorAs(t, err, &cerr)
}

func TestUploadImage(t *testing.T) {
	svc, backend := newUploadFixture(t)

	att, err := svc.Upload(context.Background(), attach.File{
		Name:     "diagram.png",
		MimeType: "image/png",
		Data:     []byte("png-bytes"),
	})
	require.NoError(t, err)

	assert.Equal(t, models.AttachmentTypeImage, att.Type)
	assert.Equal(t, "diagram.png", att.Filename)
	assert.Equal(t, "image/png", att.MimeType)
	assert.NotEmpty(t, att.PublicID)
	// Images download from their inline URL.
	assert.Equal(t, att.URL, att.DownloadURL)
	assert.Equal(t, 1, backend.UploadCount("image"))
	assert.Equal(t, 0, backend.UploadCount("raw"))
}

func TestUploadDocumentGetsDownloadVariant(t *testing.T) {
	svc, backend := newUploadFixture(t)

	att, err := svc.Upload(context.Background(), attach.File{
		Name:     "report.docx",
		MimeType: "application/msword",
		Data:     []byte("doc-bytes"),
	})
	require.NoError(t, err)

	assert.Equal(t, models.AttachmentTypeFile, att.Type)
	assert.NotEqual(t, att.URL, att.DownloadURL)
	assert.Contains(t, att.DownloadURL, "fl_attachment")
	assert.False(t, attach.IsImage(att))
	assert.Equal(t, 1, backend.UploadCount("raw"))
}

func TestUploadAllOrderAndIsolation(t *testing.T) {
	svc, backend := newUploadFixture(t)

	// Fail exactly the first upload request the backend sees; the other
	// files in the batch must still complete.
	backend.FailNext(fakesop.OpUpload, http.StatusInternalServerError, "storage unavailable")

	files := []attach.File{
		{Name: "one.png", MimeType: "image/png", Data: []byte("1")},
		{Name: "two.pdf", MimeType: "application/pdf", Data: []byte("2")},
		{Name: "three.jpg", MimeType: "image/jpeg", Data: []byte("3")},
	}

	var mu sync.Mutex
	transitions := map[string][]attach.Status{}
	results := svc.UploadAll(context.Background(), files, func(_ int, name string, st attach.Status) {
		mu.Lock()
		defer mu.Unlock()
		transitions[name] = append(transitions[name], st)
	})

	require.Len(t, results, 3)
	failed := 0
	for i, res := range results {
		assert.Equal(t, i, res.Index)
		assert.Equal(t, files[i].Name, res.Filename)
		switch res.Status {
		case attach.StatusDone:
			assert.NoError(t, res.Err)
			assert.NotEmpty(t, res.Attachment.URL)
		case attach.StatusError:
			failed++
			var uerr *client.UploadError
			assert.ErrorAs(t, res.Err, &uerr)
		default:
			t.Fatalf("unexpected status %q for %s", res.Status, res.Filename)
		}
	}
	assert.Equal(t, 1, failed, "exactly one file hits the armed failure")

	for name, seq := range transitions {
		require.Len(t, seq, 2, "file %s reports start and end", name)
		assert.Equal(t, attach.StatusUploading, seq[0])
	}
}

func TestUploadAllUnconfigured(t *testing.T) {
	svc := attach.NewService(client.UploadConfig{})
	results := svc.UploadAll(context.Background(), []attach.File{
		{Name: "a.png", MimeType: "image/png"},
		{Name: "b.pdf", MimeType: "application/pdf"},
	}, nil)

	require.Len(t, results, 2)
	for _, res := range results {
		assert.Equal(t, attach.StatusError, res.Status)
		var cerr *attach.ConfigurationError
		assert.ErrorAs(t, res.Err, &cerr)
	}
}
