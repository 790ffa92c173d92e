package attach

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/sopnote/sopnote/pkg/client"
	"github.com/sopnote/sopnote/pkg/models"
)

// ConfigurationError indicates the upload backend is missing its account
// identifiers; the request was rejected locally without a network call.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string {
	return e.Message
}

// File is one file handed to the service for upload.
type File struct {
	Name     string
	MimeType string
	Data     []byte
}

// Status tracks one file's position within a batch upload.
type Status string

const (
	StatusUploading Status = "uploading"
	StatusDone      Status = "done"
	StatusError     Status = "error"
)

// Result reports one file's outcome. Attachment is valid only when Status
// is StatusDone.
type Result struct {
	Index      int
	Filename   string
	Status     Status
	Attachment models.Attachment
	Err        error
}

// ProgressFunc receives per-file status transitions during a batch upload.
// It may be called concurrently from multiple upload goroutines.
type ProgressFunc func(index int, filename string, status Status)

// Service uploads files and builds Attachment records from the results.
type Service struct {
	uploader *client.Uploader
}

// NewService builds a Service over the given backend configuration.
func NewService(config client.UploadConfig) *Service {
	return &Service{uploader: client.NewUploader(config)}
}

// Upload sends one file to the storage backend and returns its attachment
// record. When the backend is unconfigured it fails locally with a
// ConfigurationError before any network traffic.
func (s *Service) Upload(ctx context.Context, file File) (models.Attachment, error) {
	if !s.uploader.Configured() {
		return models.Attachment{}, &ConfigurationError{
			Message: "upload backend is not configured: cloud name and upload preset are required",
		}
	}

	result, err := s.uploader.Upload(ctx, file.Data, file.MimeType, file.Name)
	if err != nil {
		return models.Attachment{}, err
	}

	attType := models.AttachmentTypeFile
	if client.IsImageMime(file.MimeType) {
		attType = models.AttachmentTypeImage
	}
	return models.Attachment{
		URL:         result.URL,
		DownloadURL: result.DownloadURL,
		Filename:    file.Name,
		Type:        attType,
		PublicID:    result.PublicID,
		MimeType:    file.MimeType,
	}, nil
}

// UploadAll uploads a batch of files concurrently and returns one result
// per file, in input order. A failed file does not abort the rest; its
// result carries the error instead. The progress callback, when non-nil,
// observes each file entering StatusUploading and leaving with StatusDone
// or StatusError.
func (s *Service) UploadAll(ctx context.Context, files []File, progress ProgressFunc) []Result {
	results := make([]Result, len(files))

	if !s.uploader.Configured() {
		for i, f := range files {
			results[i] = Result{
				Index:    i,
				Filename: f.Name,
				Status:   StatusError,
				Err: &ConfigurationError{
					Message: "upload backend is not configured: cloud name and upload preset are required",
				},
			}
		}
		return results
	}

	var mu sync.Mutex
	report := func(i int, name string, st Status) {
		if progress == nil {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		progress(i, name, st)
	}

	// A plain group, not WithContext: one file's failure must not cancel
	// the others.
	var g errgroup.Group
	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			report(i, f.Name, StatusUploading)
			att, err := s.Upload(ctx, f)
			if err != nil {
				results[i] = Result{Index: i, Filename: f.Name, Status: StatusError, Err: err}
				report(i, f.Name, StatusError)
				return nil
			}
			results[i] = Result{Index: i, Filename: f.Name, Status: StatusDone, Attachment: att}
			report(i, f.Name, StatusDone)
			return nil
		})
	}
	_ = g.Wait()
	return results
}
