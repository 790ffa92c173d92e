// Package models defines the SOP document tree shared by the gateway client,
// the document store, and the edit model.
//
// The hierarchy is Document → Step → SubHead → Question. Step heads, sub-head
// names, and questions all carry the same editable payload, so that payload is
// a single [ContentBlock] type rather than three structurally identical
// shapes. Order within every slice is meaningful and preserved: display order
// is array order.
//
// All identifiers are opaque strings, unique within their parent collection.
// The package never talks to the network; serialization is plain JSON matching
// the backend's wire shape.
package models

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// AttachmentType tags an attachment as an inline-displayable image or a
// generic file. The tag is advisory: display code re-derives the kind from
// the mime type and filename because legacy records can be mislabeled.
type AttachmentType string

const (
	AttachmentTypeImage AttachmentType = "image"
	AttachmentTypeFile  AttachmentType = "file"
)

// Attachment is the metadata record describing a previously uploaded file
// associated with a ContentBlock.
//
// URL is always safe to open inline or embed. DownloadURL, when set, is a
// content-disposition variant that forces a browser to save to disk; for
// images it equals URL.
type Attachment struct {
	URL         string         `json:"url"`
	DownloadURL string         `json:"downloadUrl,omitempty"`
	Filename    string         `json:"filename"`
	Type        AttachmentType `json:"type"`
	PublicID    string         `json:"publicId,omitempty"`
	MimeType    string         `json:"mimeType"`
}

// ContentBlock is the common editable payload shared by step heads, sub-head
// names, and questions: a title, an optional markdown-formatted subtext, an
// optional link, and an ordered attachment list.
//
// Empty strings are valid field values and distinct from absent: clearing a
// subtext is an edit, not a deletion of the field.
type ContentBlock struct {
	Text        string       `json:"text"`
	Subtext     string       `json:"subtext,omitempty"`
	Link        string       `json:"link,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

// Question is a leaf node of the tree. It is a ContentBlock with its own
// identity; the embedded fields marshal inline so the wire shape is
// {id, text, subtext, link, attachments}.
type Question struct {
	ID string `json:"id"`
	ContentBlock
}

// SubHead groups questions under a named heading within a step.
type SubHead struct {
	ID          string       `json:"id"`
	SubHeadName ContentBlock `json:"subHeadName"`
	Questions   []Question   `json:"questions"`
}

// Step is a top-level section of a document.
type Step struct {
	ID       string       `json:"id"`
	StepHead ContentBlock `json:"stepHead"`
	SubHeads []SubHead    `json:"subHeads"`
}

// Document is the root aggregate: one standard operating procedure owning an
// ordered sequence of steps and, transitively, every node beneath them.
// Deleting a document cascades to all descendants.
type Document struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Steps []Step `json:"steps"`
}

// Validate performs the presence checks required before a document is sent
// to the backend, with the same messages the backend uses so a local
// rejection reads identically to a remote one. Anything beyond presence is
// left to the server.
func (d Document) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.ID, validation.Required.Error("id is required")),
		validation.Field(&d.Name, validation.Required.Error("name is required")),
	)
}

// Normalize replaces absent child sequences with empty ones, recursively.
// Absence and empty are equivalent for rendering and editing, so the rest of
// the codebase only ever deals with non-nil slices after a document passes
// through here.
func (d *Document) Normalize() {
	if d.Steps == nil {
		d.Steps = []Step{}
	}
	for i := range d.Steps {
		step := &d.Steps[i]
		step.StepHead.normalize()
		if step.SubHeads == nil {
			step.SubHeads = []SubHead{}
		}
		for j := range step.SubHeads {
			sub := &step.SubHeads[j]
			sub.SubHeadName.normalize()
			if sub.Questions == nil {
				sub.Questions = []Question{}
			}
			for k := range sub.Questions {
				sub.Questions[k].normalize()
			}
		}
	}
}

func (b *ContentBlock) normalize() {
	if b.Attachments == nil {
		b.Attachments = []Attachment{}
	}
}
