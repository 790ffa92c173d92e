// Package fakesop provides an in-process fake of the SOP backend and the
// file-upload service for testing purposes.
//
// We don't currently ship this as a standalone binary by default, but the
// serve-fake command exposes it for local development. Tests typically wrap
// [Server.Router] in an httptest server.
//
// To exercise error paths, stub failures can be armed per operation with
// [Server.FailNext]: the next request for that operation is answered with
// the configured status and body instead of the normal behavior.
package fakesop

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/sopnote/sopnote/pkg/models"
)

// Op names an operation for failure arming.
type Op string

const (
	OpList   Op = "list"
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
	OpImport Op = "import"
	OpSeed   Op = "seed"
	OpUpload Op = "upload"
)

// stubFailure is a one-shot canned error response for a single operation.
type stubFailure struct {
	status int
	body   string
}

// Server is an in-memory SOP backend. The zero value is not usable; create
// instances with New. All methods are safe for concurrent use.
type Server struct {
	mu       sync.Mutex
	docs     []models.Document
	failures map[Op]stubFailure

	// uploads counts accepted files per resource type, for assertions.
	uploads map[string]int
}

// New creates an empty fake backend.
func New() *Server {
	return &Server{
		docs:     []models.Document{},
		failures: make(map[Op]stubFailure),
		uploads:  make(map[string]int),
	}
}

// FailNext arms a one-shot failure for op. The next matching request is
// answered with the given status and raw body; subsequent requests behave
// normally again.
func (s *Server) FailNext(op Op, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[op] = stubFailure{status: status, body: body}
}

// Documents returns a deep copy of the current collection.
func (s *Server) Documents() []models.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.CloneAll(s.docs)
}

// SetDocuments replaces the collection, for test setup.
func (s *Server) SetDocuments(docs []models.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs = models.CloneAll(docs)
}

// UploadCount reports how many files were accepted for the given resource
// type ("image" or "raw").
func (s *Server) UploadCount(resource string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.uploads[resource]
}

// Router builds the HTTP routing table: the SOP REST API plus the
// Cloudinary-shaped upload endpoints.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/sops", s.handleList).Methods(http.MethodGet)
	r.HandleFunc("/sops", s.handleCreate).Methods(http.MethodPost)
	r.HandleFunc("/sops/import", s.handleImport).Methods(http.MethodPost)
	r.HandleFunc("/sops/{id}", s.handleUpdate).Methods(http.MethodPut)
	r.HandleFunc("/sops/{id}", s.handleDelete).Methods(http.MethodDelete)
	r.HandleFunc("/seed", s.handleSeed).Methods(http.MethodPost)
	r.HandleFunc("/{cloud}/image/upload", s.handleUpload("image")).Methods(http.MethodPost)
	r.HandleFunc("/{cloud}/raw/upload", s.handleUpload("raw")).Methods(http.MethodPost)
	return r
}

// consumeFailure pops an armed failure for op and writes it, reporting
// whether the request was intercepted.
func (s *Server) consumeFailure(w http.ResponseWriter, op Op) bool {
	s.mu.Lock()
	failure, ok := s.failures[op]
	if ok {
		delete(s.failures, op)
	}
	s.mu.Unlock()
	if !ok {
		return false
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(failure.status)
	_, _ = w.Write([]byte(failure.body))
	return true
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	if s.consumeFailure(w, OpList) {
		return
	}
	s.mu.Lock()
	docs := models.CloneAll(s.docs)
	s.mu.Unlock()
	respondJSON(w, http.StatusOK, docs)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	if s.consumeFailure(w, OpCreate) {
		return
	}

	var doc models.Document
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if doc.Name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}
	if doc.ID == "" {
		doc.ID = models.NewDocumentID()
	}
	doc.Normalize()

	s.mu.Lock()
	s.docs = append(s.docs, doc)
	s.mu.Unlock()

	respondJSON(w, http.StatusCreated, doc)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	if s.consumeFailure(w, OpUpdate) {
		return
	}

	id := mux.Vars(r)["id"]
	var doc models.Document
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	doc.ID = id
	doc.Normalize()

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.docs {
		if s.docs[i].ID == id {
			s.docs[i] = doc
			respondJSON(w, http.StatusOK, doc)
			return
		}
	}
	respondError(w, http.StatusNotFound, "SOP not found")
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if s.consumeFailure(w, OpDelete) {
		return
	}

	id := mux.Vars(r)["id"]
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.docs {
		if s.docs[i].ID == id {
			s.docs = append(s.docs[:i], s.docs[i+1:]...)
			respondJSON(w, http.StatusOK, map[string]string{"deleted": id})
			return
		}
	}
	respondError(w, http.StatusNotFound, "SOP not found")
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	if s.consumeFailure(w, OpImport) {
		return
	}

	var docs []models.Document
	if err := json.NewDecoder(r.Body).Decode(&docs); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	for i := range docs {
		docs[i].Normalize()
	}

	s.mu.Lock()
	s.docs = docs
	s.mu.Unlock()

	respondJSON(w, http.StatusOK, map[string]int{"imported": len(docs)})
}

func (s *Server) handleSeed(w http.ResponseWriter, r *http.Request) {
	if s.consumeFailure(w, OpSeed) {
		return
	}

	docs := SeedDocuments()
	s.mu.Lock()
	s.docs = docs
	s.mu.Unlock()

	respondJSON(w, http.StatusOK, map[string]int{"seeded": len(docs)})
}

// handleUpload accepts a multipart upload the way the hosted service does:
// a "file" part plus an "upload_preset" field, answered with secure_url,
// public_id, and original_filename.
func (s *Server) handleUpload(resource string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.consumeFailure(w, OpUpload) {
			return
		}

		cloud := mux.Vars(r)["cloud"]
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			respondError(w, http.StatusBadRequest, "invalid multipart form")
			return
		}
		if r.FormValue("upload_preset") == "" {
			respondError(w, http.StatusBadRequest, "upload_preset is required")
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			respondError(w, http.StatusBadRequest, "file is required")
			return
		}
		defer file.Close()

		publicID := uuid.NewString()
		s.mu.Lock()
		s.uploads[resource]++
		s.mu.Unlock()

		respondJSON(w, http.StatusOK, map[string]string{
			"secure_url":        fmt.Sprintf("https://%s.fake-cdn.test/%s/%s/%s", cloud, resource, publicID, header.Filename),
			"public_id":         publicID,
			"original_filename": header.Filename,
		})
	}
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	response, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_, _ = w.Write(response)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
