package sopnote

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sopnote/sopnote/pkg/edit"
)

// parsePath turns a dotted index string into a positional path: "0"
// addresses a step head, "0.1" a sub-head name, "0.1.2" a question.
func parsePath(s string) (edit.Path, error) {
	parts := strings.Split(s, ".")
	if len(parts) > 3 {
		return edit.Path{}, fmt.Errorf("invalid path %q: at most three levels", s)
	}
	idx := make([]int, len(parts))
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return edit.Path{}, fmt.Errorf("invalid path %q", s)
		}
		idx[i] = n
	}
	switch len(idx) {
	case 1:
		return edit.StepPath(idx[0]), nil
	case 2:
		return edit.SubHeadPath(idx[0], idx[1]), nil
	default:
		return edit.QuestionPath(idx[0], idx[1], idx[2]), nil
	}
}

// deleteAt removes the node addressed by p, dispatching on path depth.
func deleteAt(session *edit.Session, p edit.Path) error {
	switch {
	case p.SubHead < 0:
		return session.DeleteStep(p.Step)
	case p.Question < 0:
		return session.DeleteSubHead(p.Step, p.SubHead)
	default:
		return session.DeleteQuestion(p.Step, p.SubHead, p.Question)
	}
}

// applyOps interprets the edit subcommand's operation list against a
// session. Operations apply immediately and in order, so a path always
// refers to the tree as the preceding operations left it:
//
//	name <text>              rename the SOP
//	add-step                 append a step
//	add-sub <i>              append a sub-head to step i
//	add-q <i.j>              append a question to sub-head i.j
//	del <path>               delete the node at path, cascading
//	text <path> <value>      set the title text of the block at path
//	subtext <path> <value>   set the markdown subtext
//	link <path> <value>      set the link
//	rm-att <path> <index>    remove an attachment by position
func applyOps(session *edit.Session, ops []string) error {
	i := 0
	arg := func(op string) (string, error) {
		if i >= len(ops) {
			return "", fmt.Errorf("%s requires an argument", op)
		}
		v := ops[i]
		i++
		return v, nil
	}
	pathArg := func(op string, depth int) (edit.Path, error) {
		raw, err := arg(op)
		if err != nil {
			return edit.Path{}, err
		}
		p, err := parsePath(raw)
		if err != nil {
			return edit.Path{}, err
		}
		if depth > 0 && len(strings.Split(raw, ".")) != depth {
			return edit.Path{}, fmt.Errorf("%s wants a %d-level path, got %q", op, depth, raw)
		}
		return p, nil
	}

	for i < len(ops) {
		op := ops[i]
		i++

		var err error
		switch op {
		case "name":
			var v string
			if v, err = arg(op); err == nil {
				err = session.SetName(v)
			}
		case "add-step":
			_, err = session.AddStep()
		case "add-sub":
			var p edit.Path
			if p, err = pathArg(op, 1); err == nil {
				_, err = session.AddSubHead(p.Step)
			}
		case "add-q":
			var p edit.Path
			if p, err = pathArg(op, 2); err == nil {
				_, err = session.AddQuestion(p.Step, p.SubHead)
			}
		case "del":
			var p edit.Path
			if p, err = pathArg(op, 0); err == nil {
				err = deleteAt(session, p)
			}
		case "text", "subtext", "link":
			var p edit.Path
			var v string
			if p, err = pathArg(op, 0); err == nil {
				if v, err = arg(op); err == nil {
					switch op {
					case "text":
						err = session.UpdateText(p, v)
					case "subtext":
						err = session.UpdateSubtext(p, v)
					default:
						err = session.UpdateLink(p, v)
					}
				}
			}
		case "rm-att":
			var p edit.Path
			var raw string
			if p, err = pathArg(op, 0); err == nil {
				if raw, err = arg(op); err == nil {
					var idx int
					if idx, err = strconv.Atoi(raw); err != nil {
						err = fmt.Errorf("rm-att wants a numeric index, got %q", raw)
					} else {
						err = session.RemoveAttachment(p, idx)
					}
				}
			}
		default:
			return fmt.Errorf("unknown edit operation %q", op)
		}
		if err != nil {
			return fmt.Errorf("edit operation %s: %w", op, err)
		}
	}
	return nil
}
