// Package sopnote is the application layer of the SOP builder: it wires the
// gateway client, the document store, and the upload service together,
// parses command line arguments into commands, and renders the results.
package sopnote

import (
	"io"
	"os"

	"github.com/sopnote/sopnote/pkg/attach"
	"github.com/sopnote/sopnote/pkg/client"
	"github.com/sopnote/sopnote/pkg/logger"
	"github.com/sopnote/sopnote/pkg/store"
)

// Config holds application configuration. Values come from the environment
// with flag overrides; a production deployment would add TLS settings and
// auth, neither of which the backend currently speaks.
type Config struct {
	// APIBase is the root URL of the SOP REST backend.
	APIBase string
	// CloudName and UploadPreset identify the upload backend. Both empty
	// is a valid configuration in which uploads are rejected locally.
	CloudName    string
	UploadPreset string
	// UploadAPIBase overrides the upload API root, mainly to point the
	// uploader at an in-process fake. Empty uses the hosted service.
	UploadAPIBase string
	// LogPath redirects the structured log to a file; empty logs to
	// stdout would interleave with command output, so the default is
	// discard.
	LogPath string
}

// App holds the wired application state for one invocation.
type App struct {
	config   *Config
	log      *logger.Log
	store    *store.Store
	attach   *attach.Service
	notifier *Notifier

	// out receives command output; swapped for a buffer in tests.
	out io.Writer
}

// New creates an application instance from the configuration.
func New(config *Config) (*App, error) {
	build := logger.New()
	if config.LogPath != "" {
		build.ToPath(config.LogPath)
	} else {
		build.ToWriter(io.Discard)
	}
	log, err := build.Make()
	if err != nil {
		return nil, err
	}

	st := store.New(client.New(config.APIBase), log.Logger)
	app := &App{
		config: config,
		log:    log,
		store:  st,
		attach: attach.NewService(client.UploadConfig{
			APIBase:      config.UploadAPIBase,
			CloudName:    config.CloudName,
			UploadPreset: config.UploadPreset,
		}),
		notifier: NewNotifier(log.Logger),
		out:      os.Stdout,
	}
	return app, nil
}

// Close releases the application's resources.
func (a *App) Close() error {
	return a.log.Close()
}

// Store returns the underlying document store, useful for tests.
func (a *App) Store() *store.Store {
	return a.store
}

// Notifier returns the application's notification sink.
func (a *App) Notifier() *Notifier {
	return a.notifier
}

// SetOutput redirects command output, useful for tests.
func (a *App) SetOutput(w io.Writer) {
	a.out = w
}

// getEnv retrieves an environment variable with a fallback default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
