package sopnote

import (
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/sopnote/sopnote/pkg/attach"
	"github.com/sopnote/sopnote/pkg/client"
	"github.com/sopnote/sopnote/pkg/edit"
)

// Level is the severity of a notification.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notification is one transient action result shown to the user.
type Notification struct {
	Level   Level
	Kind    string
	Message string
}

// Notifier accumulates transient action results. Every notification also
// goes to the structured log; Flush returns and clears the pending batch,
// which is what a toast/banner surface would drain on each render.
type Notifier struct {
	mu      sync.Mutex
	log     zerolog.Logger
	pending []Notification
}

// NewNotifier creates an empty notifier logging through log.
func NewNotifier(log zerolog.Logger) *Notifier {
	return &Notifier{log: log}
}

// Success records a successful action result.
func (n *Notifier) Success(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.log.Info().Msg(message)
	n.pending = append(n.pending, Notification{Level: LevelSuccess, Kind: "ok", Message: message})
}

// Failure records a failed action result, classified by the error's type.
func (n *Notifier) Failure(err error) {
	kind := classifyError(err)
	n.mu.Lock()
	defer n.mu.Unlock()
	n.log.Error().Str("kind", kind).Msg(err.Error())
	n.pending = append(n.pending, Notification{Level: LevelError, Kind: kind, Message: err.Error()})
}

// Flush returns the pending notifications and clears them.
func (n *Notifier) Flush() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := n.pending
	n.pending = nil
	return out
}

// classifyError maps an error to its taxonomy name for display.
func classifyError(err error) string {
	var (
		fetchErr    *client.FetchError
		validErr    *client.ValidationError
		uploadErr   *client.UploadError
		parseErr    *ParseError
		configErr   *attach.ConfigurationError
		notFoundErr *edit.NotFoundError
	)
	switch {
	case errors.As(err, &validErr):
		return "validation"
	case errors.As(err, &fetchErr):
		return "fetch"
	case errors.As(err, &uploadErr):
		return "upload"
	case errors.As(err, &parseErr):
		return "parse"
	case errors.As(err, &configErr):
		return "configuration"
	case errors.As(err, &notFoundErr):
		return "not_found"
	}
	return "unknown"
}
