// Package store holds the process-wide cache of the SOP collection.
//
// The store is an explicitly owned object: it is constructed once at
// application start and injected into consumers, never reached through an
// ambient singleton. Its consistency policy is write-then-refetch: every
// successful mutation is followed by a full re-read of the authoritative
// collection instead of an optimistic local patch. That trades an extra
// round trip per mutation for never diverging from the server.
//
// The cache is only ever replaced wholesale under the lock, never mutated
// in place, so readers can't observe partial writes. Overlapping mutations
// are not serialized: two rapid calls both complete and both
// refetch, and whichever refetch resolves last wins. That weak-consistency
// window is accepted under the single-editor assumption.
package store

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/sopnote/sopnote/pkg/client"
	"github.com/sopnote/sopnote/pkg/models"
)

// Store caches the document collection fetched through the gateway.
// It is safe for concurrent use.
type Store struct {
	client *client.Client
	log    zerolog.Logger

	mu      sync.RWMutex
	docs    []models.Document
	loading bool
	lastErr string
}

// New creates a store backed by the given gateway client. The cache starts
// empty; call Refresh to populate it.
func New(c *client.Client, log zerolog.Logger) *Store {
	return &Store{
		client: c,
		log:    log,
		docs:   []models.Document{},
	}
}

// CreateResult is the structured outcome of Create, so validation messages
// can be shown inline next to the offending field rather than as a
// process-wide error.
type CreateResult struct {
	Success  bool
	Document *models.Document
	// Err carries the typed gateway error on failure, usually a
	// client.ValidationError whose message is shown inline.
	Err error
}

// Refresh re-reads the full collection through the gateway. On success the
// cache is replaced wholesale; on failure the cache is left unchanged and
// the error is recorded. The loading flag is cleared on every exit path.
func (s *Store) Refresh(ctx context.Context) error {
	s.mu.Lock()
	s.loading = true
	s.lastErr = ""
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
	}()

	docs, err := s.client.ListDocuments(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("refresh failed")
		s.recordErr(err)
		return err
	}

	s.mu.Lock()
	s.docs = docs
	s.mu.Unlock()
	s.log.Debug().Int("documents", len(docs)).Msg("collection refreshed")
	return nil
}

// Create sends a new document to the backend and, only if that succeeds,
// refetches the collection. Unlike the other mutations it reports failure
// through a structured result carrying the server's validation message.
func (s *Store) Create(ctx context.Context, doc models.Document) CreateResult {
	created, err := s.client.CreateDocument(ctx, doc)
	if err != nil {
		s.log.Warn().Err(err).Str("name", doc.Name).Msg("create rejected")
		return CreateResult{Success: false, Err: err}
	}

	// Write confirmed; the refresh outcome is recorded separately and does
	// not retract the successful create.
	_ = s.Refresh(ctx)
	s.log.Info().Str("id", created.ID).Str("name", created.Name).Msg("sop created")
	return CreateResult{Success: true, Document: created}
}

// Update overwrites one document wholesale and refetches on success. On
// gateway failure the cache is untouched, the error is recorded for pollers
// of Err, and the same error is returned to the caller.
func (s *Store) Update(ctx context.Context, id string, doc models.Document) error {
	if _, err := s.client.UpdateDocument(ctx, id, doc); err != nil {
		s.log.Error().Err(err).Str("id", id).Msg("update failed")
		s.recordErr(err)
		return err
	}
	_ = s.Refresh(ctx)
	s.log.Info().Str("id", id).Msg("sop updated")
	return nil
}

// Delete removes one document (cascading remotely to all of its
// descendants) and refetches on success.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.client.DeleteDocument(ctx, id); err != nil {
		s.log.Error().Err(err).Str("id", id).Msg("delete failed")
		s.recordErr(err)
		return err
	}
	_ = s.Refresh(ctx)
	s.log.Info().Str("id", id).Msg("sop deleted")
	return nil
}

// Import replaces the entire remote collection and refetches on success.
func (s *Store) Import(ctx context.Context, docs []models.Document) error {
	if err := s.client.ImportDocuments(ctx, docs); err != nil {
		s.log.Error().Err(err).Msg("import failed")
		s.recordErr(err)
		return err
	}
	_ = s.Refresh(ctx)
	s.log.Info().Int("documents", len(docs)).Msg("collection imported")
	return nil
}

// Seed populates the remote collection with sample data and refetches on
// success.
func (s *Store) Seed(ctx context.Context) error {
	if err := s.client.Seed(ctx); err != nil {
		s.log.Error().Err(err).Msg("seed failed")
		s.recordErr(err)
		return err
	}
	_ = s.Refresh(ctx)
	s.log.Info().Msg("collection seeded")
	return nil
}

// Documents returns a deep-copied snapshot of the cached collection.
func (s *Store) Documents() []models.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.CloneAll(s.docs)
}

// Get returns a deep copy of one cached document by id.
func (s *Store) Get(id string) (models.Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, d := range s.docs {
		if d.ID == id {
			return d.Clone(), true
		}
	}
	return models.Document{}, false
}

// Loading reports whether a refresh is in flight.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Err returns the most recent recorded failure message, or "" when the last
// operation succeeded. Errors are non-fatal: the cache always reflects the
// last confirmed state and the triggering action can simply be retried.
func (s *Store) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

func (s *Store) recordErr(err error) {
	s.mu.Lock()
	s.lastErr = err.Error()
	s.mu.Unlock()
}
