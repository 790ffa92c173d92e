package edit

import "fmt"

// Path addresses one content block in the working copy by position:
// a step, a sub-head within a step, or a question within a sub-head.
// Unused levels are -1.
//
// Indices refer to the working copy as it is right now. Every mutation is
// applied immediately and synchronously, so a path computed from the
// current copy is always valid at the moment it is used; paths must never
// be queued for later application.
type Path struct {
	Step     int
	SubHead  int
	Question int
}

// StepPath addresses the head block of the step at index i.
func StepPath(i int) Path { return Path{Step: i, SubHead: -1, Question: -1} }

// SubHeadPath addresses the name block of sub-head j within step i.
func SubHeadPath(i, j int) Path { return Path{Step: i, SubHead: j, Question: -1} }

// QuestionPath addresses question k within sub-head j of step i.
func QuestionPath(i, j, k int) Path { return Path{Step: i, SubHead: j, Question: k} }

func (p Path) String() string {
	switch {
	case p.SubHead < 0:
		return fmt.Sprintf("(%d)", p.Step)
	case p.Question < 0:
		return fmt.Sprintf("(%d,%d)", p.Step, p.SubHead)
	default:
		return fmt.Sprintf("(%d,%d,%d)", p.Step, p.SubHead, p.Question)
	}
}
