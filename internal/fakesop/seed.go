package fakesop

import "github.com/sopnote/sopnote/pkg/models"

// SeedDocuments returns the sample collection installed by POST /seed.
// The shapes mirror what a freshly seeded production backend serves.
func SeedDocuments() []models.Document {
	docs := []models.Document{
		{
			ID:   "sop-1700000000001",
			Name: "Employee Onboarding",
			Steps: []models.Step{
				{
					ID: "s-1700000000002",
					StepHead: models.ContentBlock{
						Text:    "Prepare accounts",
						Subtext: "Everything the new hire needs **before day one**.",
					},
					SubHeads: []models.SubHead{
						{
							ID:          "sb-1700000000003",
							SubHeadName: models.ContentBlock{Text: "Email and SSO"},
							Questions: []models.Question{
								{
									ID:           "q-1700000000004",
									ContentBlock: models.ContentBlock{Text: "Mailbox created?"},
								},
								{
									ID:           "q-1700000000005",
									ContentBlock: models.ContentBlock{Text: "Added to the team group?"},
								},
							},
						},
					},
				},
				{
					ID:       "s-1700000000006",
					StepHead: models.ContentBlock{Text: "First-day walkthrough"},
				},
			},
		},
		{
			ID:   "sop-1700000000007",
			Name: "Incident Response",
			Steps: []models.Step{
				{
					ID: "s-1700000000008",
					StepHead: models.ContentBlock{
						Text: "Triage",
						Link: "https://status.example.com",
					},
				},
			},
		},
	}
	for i := range docs {
		docs[i].Normalize()
	}
	return docs
}
