package models

import (
	"fmt"
	"sync"
	"time"
)

// ID prefixes distinguish the node kinds in generated identifiers. The wire
// format is "<prefix>-<unix-millis>", matching what the backend accepts for
// client-generated IDs.
const (
	documentIDPrefix = "sop"
	stepIDPrefix     = "s"
	subHeadIDPrefix  = "sb"
	questionIDPrefix = "q"
)

var (
	idMu     sync.Mutex
	lastIDMs int64
)

// newID returns "<prefix>-<unix-millis>". Two calls within the same
// millisecond still produce distinct IDs: the timestamp is bumped
// monotonically so a burst of structural edits in one batch can never
// collide.
func newID(prefix string) string {
	idMu.Lock()
	defer idMu.Unlock()

	now := time.Now().UnixMilli()
	if now <= lastIDMs {
		now = lastIDMs + 1
	}
	lastIDMs = now
	return fmt.Sprintf("%s-%d", prefix, now)
}

// NewDocumentID generates an identifier for a new top-level document.
func NewDocumentID() string { return newID(documentIDPrefix) }

// NewStepID generates an identifier for a new step.
func NewStepID() string { return newID(stepIDPrefix) }

// NewSubHeadID generates an identifier for a new sub-head.
func NewSubHeadID() string { return newID(subHeadIDPrefix) }

// NewQuestionID generates an identifier for a new question.
func NewQuestionID() string { return newID(questionIDPrefix) }
