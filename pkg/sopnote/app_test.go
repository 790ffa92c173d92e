package sopnote_test

import (
	"bytes"
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sopnote/sopnote/internal/fakesop"
	"github.com/sopnote/sopnote/pkg/client"
	"github.com/sopnote/sopnote/pkg/models"
	"github.com/sopnote/sopnote/pkg/sopnote"
)

func newAppFixture(t *testing.T) (*sopnote.App, *fakesop.Server, *bytes.Buffer) {
	t.Helper()
	backend := fakesop.New()
	ts := httptest.NewServer(backend.Router())
	t.Cleanup(ts.Close)

	app, err := sopnote.New(&sopnote.Config{APIBase: ts.URL})
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	out := bytes.NewBuffer(nil)
	app.SetOutput(out)
	return app, backend, out
}

func TestCreateAndList(t *testing.T) {
	app, backend, out := newAppFixture(t)
	ctx := context.Background()

	require.NoError(t, app.Create(ctx, "Onboarding"))

	// The store was refetched after the write.
	docs := app.Store().Documents()
	require.Len(t, docs, 1)
	assert.Equal(t, "Onboarding", docs[0].Name)
	assert.Empty(t, docs[0].Steps)

	remote := backend.Documents()
	require.Len(t, remote, 1)
	assert.Equal(t, remote[0].ID+"\n", out.String())

	out.Reset()
	require.NoError(t, app.List(ctx))
	assert.Contains(t, out.String(), "Onboarding")
	assert.Contains(t, out.String(), "0 steps")
}

func TestCreateValidationFailureNotified(t *testing.T) {
	app, _, _ := newAppFixture(t)

	err := app.Create(context.Background(), "")
	require.Error(t, err)

	notes := app.Notifier().Flush()
	require.Len(t, notes, 1)
	assert.Equal(t, sopnote.LevelError, notes[0].Level)
	assert.Equal(t, "validation", notes[0].Kind)
	assert.Contains(t, notes[0].Message, "name is required")

	// Flush clears the batch.
	assert.Empty(t, app.Notifier().Flush())
}

func TestCreateEmptyNameRejectedBeforeNetwork(t *testing.T) {
	// No backend at all: a create with a missing name must fail on the
	// local presence check, never on the wire.
	app, err := sopnote.New(&sopnote.Config{APIBase: "http://127.0.0.1:0"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	err = app.Create(context.Background(), "")
	var verr *client.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Message, "name is required")
}

func TestShowText(t *testing.T) {
	app, backend, out := newAppFixture(t)
	backend.SetDocuments(fakesop.SeedDocuments())

	docs := backend.Documents()
	require.NotEmpty(t, docs)
	require.NoError(t, app.Show(context.Background(), docs[0].ID, false))

	assert.Contains(t, out.String(), docs[0].Name)
	assert.Contains(t, out.String(), docs[0].Steps[0].StepHead.Text)
}

func TestShowByLocationHash(t *testing.T) {
	app, backend, out := newAppFixture(t)
	backend.SetDocuments(fakesop.SeedDocuments())

	docs := backend.Documents()
	require.NotEmpty(t, docs)
	require.NoError(t, app.Show(context.Background(), "#/sop/"+docs[0].ID, false))
	assert.Contains(t, out.String(), docs[0].Name)

	err := app.Show(context.Background(), "#/admin", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no SOP at")
}

func TestShowMissing(t *testing.T) {
	app, _, _ := newAppFixture(t)
	err := app.Show(context.Background(), "sop-nope", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestExportImportRoundTrip(t *testing.T) {
	app, backend, _ := newAppFixture(t)
	backend.SetDocuments(fakesop.SeedDocuments())
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "backup.json")
	require.NoError(t, app.Export(ctx, path))

	// Wipe the backend, then restore it from the file.
	backend.SetDocuments(nil)
	require.NoError(t, app.Import(ctx, path))

	restored := backend.Documents()
	assert.Equal(t, fakesop.SeedDocuments(), restored)
}

func TestImportMalformedFileLeavesRemoteUntouched(t *testing.T) {
	app, backend, _ := newAppFixture(t)
	backend.SetDocuments(fakesop.SeedDocuments())
	before := backend.Documents()

	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("{not valid"), 0644))

	err := app.Import(context.Background(), path)
	var perr *sopnote.ParseError
	require.ErrorAs(t, err, &perr)

	assert.Equal(t, before, backend.Documents())

	notes := app.Notifier().Flush()
	require.Len(t, notes, 1)
	assert.Equal(t, "parse", notes[0].Kind)
}

func TestSeed(t *testing.T) {
	app, backend, _ := newAppFixture(t)
	require.NoError(t, app.Seed(context.Background()))
	assert.NotEmpty(t, backend.Documents())
	assert.NotEmpty(t, app.Store().Documents())
}

func TestDelete(t *testing.T) {
	app, backend, _ := newAppFixture(t)
	backend.SetDocuments([]models.Document{{ID: "sop-1", Name: "Doomed"}})
	ctx := context.Background()

	require.NoError(t, app.Delete(ctx, "sop-1"))
	assert.Empty(t, backend.Documents())

	// Deleting again surfaces the backend's 404.
	require.Error(t, app.Delete(ctx, "sop-1"))
}

func TestMainEndToEnd(t *testing.T) {
	backend := fakesop.New()
	ts := httptest.NewServer(backend.Router())
	t.Cleanup(ts.Close)

	ctx := context.Background()
	require.NoError(t, sopnote.Main(ctx, []string{"-api-url", ts.URL, "seed"}))
	require.NoError(t, sopnote.Main(ctx, []string{"-api-url", ts.URL, "create", "From Main"}))

	docs := backend.Documents()
	names := make([]string, 0, len(docs))
	for _, doc := range docs {
		names = append(names, doc.Name)
	}
	assert.Contains(t, names, "From Main")
	assert.Greater(t, len(names), 1, "seeded SOPs survive the later create")
}
