package models

// Clone returns a deep, fully independent copy of the document. Mutating the
// copy, including appends and removals anywhere in the tree, never touches
// the original. Edit sessions rely on this to stage changes without
// disturbing the store's cached value.
func (d Document) Clone() Document {
	out := d
	if d.Steps != nil {
		out.Steps = make([]Step, len(d.Steps))
		for i, s := range d.Steps {
			out.Steps[i] = s.clone()
		}
	}
	return out
}

func (s Step) clone() Step {
	out := s
	out.StepHead = s.StepHead.clone()
	if s.SubHeads != nil {
		out.SubHeads = make([]SubHead, len(s.SubHeads))
		for i, sh := range s.SubHeads {
			out.SubHeads[i] = sh.clone()
		}
	}
	return out
}

func (sh SubHead) clone() SubHead {
	out := sh
	out.SubHeadName = sh.SubHeadName.clone()
	if sh.Questions != nil {
		out.Questions = make([]Question, len(sh.Questions))
		for i, q := range sh.Questions {
			out.Questions[i] = q.clone()
		}
	}
	return out
}

func (q Question) clone() Question {
	out := q
	out.ContentBlock = q.ContentBlock.clone()
	return out
}

func (b ContentBlock) clone() ContentBlock {
	out := b
	if b.Attachments != nil {
		out.Attachments = make([]Attachment, len(b.Attachments))
		copy(out.Attachments, b.Attachments)
	}
	return out
}

// CloneAll deep-copies a whole collection. The store hands out snapshots
// through this so callers can never alias its cache.
func CloneAll(docs []Document) []Document {
	if docs == nil {
		return nil
	}
	out := make([]Document, len(docs))
	for i, d := range docs {
		out[i] = d.Clone()
	}
	return out
}
