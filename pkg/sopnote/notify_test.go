package sopnote_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sopnote/sopnote/pkg/attach"
	"github.com/sopnote/sopnote/pkg/client"
	"github.com/sopnote/sopnote/pkg/edit"
	"github.com/sopnote/sopnote/pkg/sopnote"
)

func TestNotifierClassification(t *testing.T) {
	n := sopnote.NewNotifier(zerolog.Nop())

	n.Success("saved")
	n.Failure(&client.ValidationError{Message: "name is required", StatusCode: 400})
	n.Failure(&client.FetchError{Op: "list SOPs", StatusCode: 502})
	n.Failure(&client.UploadError{StatusCode: 500, Message: "storage down"})
	n.Failure(&sopnote.ParseError{Path: "x.json", Message: "bad token"})
	n.Failure(&attach.ConfigurationError{Message: "not configured"})
	n.Failure(&edit.NotFoundError{ID: "sop-9"})
	n.Failure(errors.New("something else"))

	notes := n.Flush()
	require.Len(t, notes, 8)
	assert.Equal(t, sopnote.LevelSuccess, notes[0].Level)

	kinds := make([]string, 0, len(notes))
	for _, note := range notes {
		kinds = append(kinds, note.Kind)
	}
	assert.Equal(t, []string{"ok", "validation", "fetch", "upload", "parse", "configuration", "not_found", "unknown"}, kinds)

	assert.Empty(t, n.Flush())
}

func TestNotifierLogsFailures(t *testing.T) {
	buff := bytes.NewBuffer(nil)
	n := sopnote.NewNotifier(zerolog.New(buff))

	n.Failure(&client.FetchError{Op: "list SOPs", StatusCode: 502})
	assert.Contains(t, buff.String(), "fetch")
	assert.Contains(t, buff.String(), "502")
}
