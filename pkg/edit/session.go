// Package edit implements the staging model for SOP documents: a session
// takes a deep copy of one document out of the store, applies localized
// mutations addressed by positional path, and commits the whole tree back
// in a single save.
//
// The working copy is exclusively owned by its session. Nothing the session
// does is visible to the store or the backend until Save succeeds, and
// discarding the session without saving leaves both untouched. There is no
// diffing on save: the full document overwrites the remote copy regardless
// of how small the edit was, an accepted cost of having no merge/patch
// protocol.
//
// A session is not safe for concurrent use; it models a single user's edit
// screen.
package edit

import (
	"context"

	"github.com/sopnote/sopnote/pkg/models"
	"github.com/sopnote/sopnote/pkg/store"
)

// Default titles for freshly inserted nodes, as the edit screen shows them.
const (
	defaultStepTitle     = "New Step"
	defaultSubHeadTitle  = "New Sub"
	defaultQuestionTitle = "New Q"
)

// State describes where an edit session is in its lifecycle.
type State string

const (
	// StateEditing accepts mutations.
	StateEditing State = "editing"
	// StateSaving is the window while Save is in flight.
	StateSaving State = "saving"
	// StateSaved is terminal; the working copy has been committed.
	StateSaved State = "saved"
	// StateSaveFailed is re-entered into StateEditing by the next
	// mutation; the working copy is intact and can be saved again.
	StateSaveFailed State = "save_failed"
)

// Session owns one document's working copy for the duration of an edit.
type Session struct {
	store *store.Store
	doc   models.Document
	state State
}

// Begin starts an edit session for the document with the given id, taking a
// deep, independent copy of the store's cached value. It returns a
// NotFoundError when the id is absent from the cache.
func Begin(st *store.Store, id string) (*Session, error) {
	doc, ok := st.Get(id)
	if !ok {
		return nil, &NotFoundError{ID: id}
	}
	doc.Normalize()
	return &Session{store: st, doc: doc, state: StateEditing}, nil
}

// State returns the session's lifecycle state.
func (s *Session) State() State {
	return s.state
}

// Document returns a deep copy of the current working copy, for rendering.
func (s *Session) Document() models.Document {
	return s.doc.Clone()
}

// editable gates mutations: editing continues after a failed save but not
// during or after a successful one.
func (s *Session) editable() error {
	switch s.state {
	case StateSaving, StateSaved:
		return ErrSessionClosed
	case StateSaveFailed:
		s.state = StateEditing
	}
	return nil
}

// SetName replaces the document's name.
func (s *Session) SetName(name string) error {
	if err := s.editable(); err != nil {
		return err
	}
	s.doc.Name = name
	return nil
}

// AddStep appends a new step with a generated id, the default title, and
// empty subtext, link, attachments, and sub-heads. It returns the new
// step's id.
func (s *Session) AddStep() (string, error) {
	if err := s.editable(); err != nil {
		return "", err
	}
	step := models.Step{
		ID:       models.NewStepID(),
		StepHead: models.ContentBlock{Text: defaultStepTitle, Attachments: []models.Attachment{}},
		SubHeads: []models.SubHead{},
	}
	s.doc.Steps = append(s.doc.Steps, step)
	return step.ID, nil
}

// DeleteStep removes the step at index i. All of its sub-heads and
// questions are discarded with it; confirmation is a UI concern, not this
// layer's.
func (s *Session) DeleteStep(i int) error {
	if err := s.editable(); err != nil {
		return err
	}
	if i < 0 || i >= len(s.doc.Steps) {
		return &PathError{Path: StepPath(i)}
	}
	s.doc.Steps = append(s.doc.Steps[:i], s.doc.Steps[i+1:]...)
	return nil
}

// AddSubHead appends a new sub-head to step i and returns its id.
func (s *Session) AddSubHead(i int) (string, error) {
	if err := s.editable(); err != nil {
		return "", err
	}
	if i < 0 || i >= len(s.doc.Steps) {
		return "", &PathError{Path: StepPath(i)}
	}
	sub := models.SubHead{
		ID:          models.NewSubHeadID(),
		SubHeadName: models.ContentBlock{Text: defaultSubHeadTitle, Attachments: []models.Attachment{}},
		Questions:   []models.Question{},
	}
	s.doc.Steps[i].SubHeads = append(s.doc.Steps[i].SubHeads, sub)
	return sub.ID, nil
}

// DeleteSubHead removes sub-head j from step i, cascading to its questions.
func (s *Session) DeleteSubHead(i, j int) error {
	if err := s.editable(); err != nil {
		return err
	}
	if i < 0 || i >= len(s.doc.Steps) || j < 0 || j >= len(s.doc.Steps[i].SubHeads) {
		return &PathError{Path: SubHeadPath(i, j)}
	}
	subs := s.doc.Steps[i].SubHeads
	s.doc.Steps[i].SubHeads = append(subs[:j], subs[j+1:]...)
	return nil
}

// AddQuestion appends a new question to sub-head j of step i and returns
// its id.
func (s *Session) AddQuestion(i, j int) (string, error) {
	if err := s.editable(); err != nil {
		return "", err
	}
	if i < 0 || i >= len(s.doc.Steps) || j < 0 || j >= len(s.doc.Steps[i].SubHeads) {
		return "", &PathError{Path: SubHeadPath(i, j)}
	}
	q := models.Question{
		ID:           models.NewQuestionID(),
		ContentBlock: models.ContentBlock{Text: defaultQuestionTitle, Attachments: []models.Attachment{}},
	}
	sub := &s.doc.Steps[i].SubHeads[j]
	sub.Questions = append(sub.Questions, q)
	return q.ID, nil
}

// DeleteQuestion removes question k from sub-head j of step i.
func (s *Session) DeleteQuestion(i, j, k int) error {
	if err := s.editable(); err != nil {
		return err
	}
	if i < 0 || i >= len(s.doc.Steps) ||
		j < 0 || j >= len(s.doc.Steps[i].SubHeads) ||
		k < 0 || k >= len(s.doc.Steps[i].SubHeads[j].Questions) {
		return &PathError{Path: QuestionPath(i, j, k)}
	}
	qs := s.doc.Steps[i].SubHeads[j].Questions
	s.doc.Steps[i].SubHeads[j].Questions = append(qs[:k], qs[k+1:]...)
	return nil
}

// resolveBlock returns the content block addressed by p in the current
// working copy.
func (s *Session) resolveBlock(p Path) (*models.ContentBlock, error) {
	if p.Step < 0 || p.Step >= len(s.doc.Steps) {
		return nil, &PathError{Path: p}
	}
	step := &s.doc.Steps[p.Step]
	if p.SubHead < 0 {
		return &step.StepHead, nil
	}
	if p.SubHead >= len(step.SubHeads) {
		return nil, &PathError{Path: p}
	}
	sub := &step.SubHeads[p.SubHead]
	if p.Question < 0 {
		return &sub.SubHeadName, nil
	}
	if p.Question >= len(sub.Questions) {
		return nil, &PathError{Path: p}
	}
	return &sub.Questions[p.Question].ContentBlock, nil
}

// UpdateText replaces the title text of the block at p. Empty string is a
// valid value, distinct from absent.
func (s *Session) UpdateText(p Path, text string) error {
	if err := s.editable(); err != nil {
		return err
	}
	block, err := s.resolveBlock(p)
	if err != nil {
		return err
	}
	block.Text = text
	return nil
}

// UpdateSubtext replaces the markdown subtext of the block at p.
func (s *Session) UpdateSubtext(p Path, subtext string) error {
	if err := s.editable(); err != nil {
		return err
	}
	block, err := s.resolveBlock(p)
	if err != nil {
		return err
	}
	block.Subtext = subtext
	return nil
}

// UpdateLink replaces the link of the block at p.
func (s *Session) UpdateLink(p Path, link string) error {
	if err := s.editable(); err != nil {
		return err
	}
	block, err := s.resolveBlock(p)
	if err != nil {
		return err
	}
	block.Link = link
	return nil
}

// AddAttachment appends an attachment to the block at p, lazily
// initializing the sequence if absent.
func (s *Session) AddAttachment(p Path, att models.Attachment) error {
	if err := s.editable(); err != nil {
		return err
	}
	block, err := s.resolveBlock(p)
	if err != nil {
		return err
	}
	block.Attachments = append(block.Attachments, att)
	return nil
}

// RemoveAttachment removes the attachment at position idx from the block
// at p. The remote file is not deleted and becomes orphaned; there is no
// delete credential on the client side.
func (s *Session) RemoveAttachment(p Path, idx int) error {
	if err := s.editable(); err != nil {
		return err
	}
	block, err := s.resolveBlock(p)
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(block.Attachments) {
		return &PathError{Path: p}
	}
	block.Attachments = append(block.Attachments[:idx], block.Attachments[idx+1:]...)
	return nil
}

// Save commits the entire working copy through the store's update
// operation. On success the session is closed; on failure it remains
// editable with the working copy intact, and the error is also recorded on
// the store for pollers.
func (s *Session) Save(ctx context.Context) error {
	if s.state == StateSaved || s.state == StateSaving {
		return ErrSessionClosed
	}
	s.state = StateSaving
	if err := s.store.Update(ctx, s.doc.ID, s.doc); err != nil {
		s.state = StateSaveFailed
		return err
	}
	s.state = StateSaved
	return nil
}
