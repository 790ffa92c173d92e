package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuestionWireShape(t *testing.T) {
	q := Question{
		ID: "q-1",
		ContentBlock: ContentBlock{
			Text:    "What is the escalation path?",
			Subtext: "See the **runbook**",
			Link:    "https://example.com/runbook",
			Attachments: []Attachment{
				{URL: "https://cdn.example.com/a.png", Filename: "a.png", Type: AttachmentTypeImage, MimeType: "image/png"},
			},
		},
	}

	data, err := json.Marshal(q)
	require.NoError(t, err)

	// The content block fields must marshal inline, not nested under a key.
	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "q-1", raw["id"])
	assert.Equal(t, "What is the escalation path?", raw["text"])
	assert.Equal(t, "See the **runbook**", raw["subtext"])
	assert.Equal(t, "https://example.com/runbook", raw["link"])
	assert.Len(t, raw["attachments"], 1)

	var back Question
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, q, back)
}

func TestDocumentWireShape(t *testing.T) {
	raw := `{
		"id": "sop-1700000000000",
		"name": "Onboarding",
		"steps": [{
			"id": "s-1",
			"stepHead": {"text": "Collect paperwork", "subtext": "", "link": ""},
			"subHeads": [{
				"id": "sb-1",
				"subHeadName": {"text": "Identity"},
				"questions": [{"id": "q-1", "text": "Passport sighted?"}]
			}]
		}]
	}`

	var doc Document
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	assert.Equal(t, "sop-1700000000000", doc.ID)
	assert.Equal(t, "Onboarding", doc.Name)
	require.Len(t, doc.Steps, 1)
	assert.Equal(t, "Collect paperwork", doc.Steps[0].StepHead.Text)
	require.Len(t, doc.Steps[0].SubHeads, 1)
	assert.Equal(t, "Identity", doc.Steps[0].SubHeads[0].SubHeadName.Text)
	require.Len(t, doc.Steps[0].SubHeads[0].Questions, 1)
	assert.Equal(t, "Passport sighted?", doc.Steps[0].SubHeads[0].Questions[0].Text)
}

func TestValidate(t *testing.T) {
	valid := Document{ID: "sop-1", Name: "Onboarding"}
	assert.NoError(t, valid.Validate())

	missingName := Document{ID: "sop-1"}
	assert.Error(t, missingName.Validate())

	missingID := Document{Name: "Onboarding"}
	assert.Error(t, missingID.Validate())
}

func TestNormalize(t *testing.T) {
	doc := Document{
		ID:   "sop-1",
		Name: "Onboarding",
		Steps: []Step{
			{ID: "s-1", SubHeads: []SubHead{
				{ID: "sb-1", Questions: []Question{{ID: "q-1"}}},
				{ID: "sb-2"},
			}},
			{ID: "s-2"},
		},
	}

	doc.Normalize()

	assert.NotNil(t, doc.Steps)
	for _, s := range doc.Steps {
		assert.NotNil(t, s.SubHeads)
		assert.NotNil(t, s.StepHead.Attachments)
		for _, sh := range s.SubHeads {
			assert.NotNil(t, sh.Questions)
			assert.NotNil(t, sh.SubHeadName.Attachments)
			for _, q := range sh.Questions {
				assert.NotNil(t, q.Attachments)
			}
		}
	}
}

func TestNormalizeEmptyDocument(t *testing.T) {
	doc := Document{ID: "sop-1", Name: "Empty"}
	doc.Normalize()
	assert.NotNil(t, doc.Steps)
	assert.Len(t, doc.Steps, 0)
}
