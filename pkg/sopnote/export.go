package sopnote

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sopnote/sopnote/pkg/models"
)

// ParseError indicates a user-selected import file did not contain a valid
// SOP collection. It is raised before any network call, so remote state is
// never disturbed by a bad file.
type ParseError struct {
	Path    string
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s: %s", e.Path, e.Message)
}

const exportFilePermission = 0644

// writeCollection serializes a collection to a JSON file in the array
// shape the import endpoint accepts.
func writeCollection(path string, docs []models.Document) error {
	data, err := json.MarshalIndent(docs, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, exportFilePermission)
}

// readCollection parses a JSON file into a collection, classifying any
// malformed content as a ParseError.
func readCollection(path string) ([]models.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var docs []models.Document
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, &ParseError{Path: path, Message: err.Error()}
	}
	for i := range docs {
		docs[i].Normalize()
	}
	return docs, nil
}
