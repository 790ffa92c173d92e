package sopnote

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sopnote/sopnote/internal/fakesop"
	"github.com/sopnote/sopnote/pkg/attach"
	"github.com/sopnote/sopnote/pkg/client"
	"github.com/sopnote/sopnote/pkg/edit"
	"github.com/sopnote/sopnote/pkg/models"
)

// List refreshes the store and prints one line per SOP.
func (a *App) List(ctx context.Context) error {
	if err := a.store.Refresh(ctx); err != nil {
		a.notifier.Failure(err)
		return err
	}
	docs := a.store.Documents()
	if len(docs) == 0 {
		fmt.Fprintln(a.out, "no SOPs")
		return nil
	}
	for _, doc := range docs {
		fmt.Fprintf(a.out, "%s\t%s\t%d steps\n", doc.ID, doc.Name, len(doc.Steps))
	}
	return nil
}

// Show refreshes the store and renders one SOP's tree, as plain text or as
// an HTML page with markdown subtext rendered. The target is either a SOP
// id or a location hash such as "#/sop/sop-42".
func (a *App) Show(ctx context.Context, target string, html bool) error {
	id := target
	if strings.HasPrefix(target, "#") {
		route := ParseRoute(target)
		if route.Page != PageView && route.Page != PageEdit {
			return fmt.Errorf("no SOP at %s", target)
		}
		id = route.SOPID
	}
	if err := a.store.Refresh(ctx); err != nil {
		a.notifier.Failure(err)
		return err
	}
	doc, ok := a.store.Get(id)
	if !ok {
		err := fmt.Errorf("SOP %s not found", id)
		a.notifier.Failure(err)
		return err
	}
	if html {
		page, err := RenderHTML(doc)
		if err != nil {
			return err
		}
		fmt.Fprint(a.out, page)
		return nil
	}
	RenderText(a.out, doc)
	return nil
}

// Create creates a new empty SOP with the given name. Presence checks run
// locally first so an obviously invalid document never costs a round trip;
// the backend's own validation stays authoritative for everything that
// passes.
func (a *App) Create(ctx context.Context, name string) error {
	doc := models.Document{ID: models.NewDocumentID(), Name: name, Steps: []models.Step{}}
	if err := doc.Validate(); err != nil {
		verr := &client.ValidationError{Message: err.Error(), StatusCode: http.StatusBadRequest}
		a.notifier.Failure(verr)
		return verr
	}
	result := a.store.Create(ctx, doc)
	if !result.Success {
		a.notifier.Failure(result.Err)
		return result.Err
	}
	a.notifier.Success(fmt.Sprintf("created SOP %q", name))
	fmt.Fprintln(a.out, result.Document.ID)
	return nil
}

// Edit opens an edit session on one SOP, applies the scripted operations
// in order, and saves the whole working copy. Any operation failing aborts
// without saving, leaving the remote SOP untouched.
func (a *App) Edit(ctx context.Context, id string, ops []string) error {
	if err := a.store.Refresh(ctx); err != nil {
		a.notifier.Failure(err)
		return err
	}
	session, err := edit.Begin(a.store, id)
	if err != nil {
		a.notifier.Failure(err)
		return err
	}
	if err := applyOps(session, ops); err != nil {
		return err
	}
	if err := session.Save(ctx); err != nil {
		a.notifier.Failure(err)
		return err
	}
	a.notifier.Success(fmt.Sprintf("saved SOP %s", id))
	return nil
}

// Upload sends local files to the storage backend concurrently and
// attaches the successful results to the block at blockPath, in input
// order. Individual file failures are reported but do not abort the rest;
// nothing is saved when every file fails.
func (a *App) Upload(ctx context.Context, id, blockPath string, files []string) error {
	p, err := parsePath(blockPath)
	if err != nil {
		return err
	}
	if err := a.store.Refresh(ctx); err != nil {
		a.notifier.Failure(err)
		return err
	}
	session, err := edit.Begin(a.store, id)
	if err != nil {
		a.notifier.Failure(err)
		return err
	}

	batch := make([]attach.File, 0, len(files))
	for _, name := range files {
		data, err := os.ReadFile(name)
		if err != nil {
			return err
		}
		batch = append(batch, attach.File{
			Name:     filepath.Base(name),
			MimeType: mime.TypeByExtension(filepath.Ext(name)),
			Data:     data,
		})
	}

	results := a.attach.UploadAll(ctx, batch, func(_ int, name string, st attach.Status) {
		a.log.Logger.Debug().Str("file", name).Str("status", string(st)).Msg("upload progress")
	})

	attached := 0
	for _, res := range results {
		if res.Status != attach.StatusDone {
			a.notifier.Failure(res.Err)
			fmt.Fprintf(a.out, "%s: %v\n", res.Filename, res.Err)
			continue
		}
		if err := session.AddAttachment(p, res.Attachment); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "%s: %s\n", res.Filename, res.Attachment.URL)
		attached++
	}
	if attached == 0 {
		return fmt.Errorf("no files uploaded; SOP %s left unchanged", id)
	}

	if err := session.Save(ctx); err != nil {
		a.notifier.Failure(err)
		return err
	}
	a.notifier.Success(fmt.Sprintf("attached %d files to SOP %s", attached, id))
	return nil
}

// Delete removes a SOP by id.
func (a *App) Delete(ctx context.Context, id string) error {
	if err := a.store.Delete(ctx, id); err != nil {
		a.notifier.Failure(err)
		return err
	}
	a.notifier.Success(fmt.Sprintf("deleted SOP %s", id))
	return nil
}

// Export refreshes the store and writes the whole collection to a JSON
// file.
func (a *App) Export(ctx context.Context, path string) error {
	if err := a.store.Refresh(ctx); err != nil {
		a.notifier.Failure(err)
		return err
	}
	docs := a.store.Documents()
	if err := writeCollection(path, docs); err != nil {
		return err
	}
	a.notifier.Success(fmt.Sprintf("exported %d SOPs to %s", len(docs), path))
	return nil
}

// Import replaces the remote collection with the contents of a JSON file.
// A file that fails to parse leaves the remote collection untouched.
func (a *App) Import(ctx context.Context, path string) error {
	docs, err := readCollection(path)
	if err != nil {
		a.notifier.Failure(err)
		return err
	}
	if err := a.store.Import(ctx, docs); err != nil {
		a.notifier.Failure(err)
		return err
	}
	a.notifier.Success(fmt.Sprintf("imported %d SOPs from %s", len(docs), path))
	return nil
}

// Seed asks the backend to load its sample data set.
func (a *App) Seed(ctx context.Context) error {
	if err := a.store.Seed(ctx); err != nil {
		a.notifier.Failure(err)
		return err
	}
	a.notifier.Success("seeded sample data")
	return nil
}

// ServeFake runs the in-process fake backend until the context is
// canceled, pre-loaded with its sample collection.
func (a *App) ServeFake(ctx context.Context, addr string) error {
	backend := fakesop.New()
	backend.SetDocuments(fakesop.SeedDocuments())

	server := &http.Server{
		Addr:              addr,
		Handler:           backend.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()
	fmt.Fprintf(a.out, "fake SOP backend listening on %s\n", addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
