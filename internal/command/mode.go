package command

import "fmt"

// ModeKind is the editor's Vim-style sub-state.
type ModeKind int

const (
	Normal ModeKind = iota
	Insert
	Visual
	OperatorPending
)

// Mode is the active editor mode. Op is only set for OperatorPending.
type Mode struct {
	Kind ModeKind
	Op   Operator
}

var (
	NormalMode = Mode{Kind: Normal}
	InsertMode = Mode{Kind: Insert}
	VisualMode = Mode{Kind: Visual}
)

// OperatorMode returns the operator-pending mode for op.
func OperatorMode(op Operator) Mode {
	return Mode{Kind: OperatorPending, Op: op}
}

func (m Mode) String() string {
	switch m.Kind {
	case Insert:
		return "INSERT"
	case Visual:
		return "VISUAL"
	case OperatorPending:
		return fmt.Sprintf("OPERATOR(%c)", m.Op)
	default:
		return "NORMAL"
	}
}

// Hint is a short description of what the mode expects next.
func (m Mode) Hint() string {
	switch m.Kind {
	case Insert:
		return "type to edit, esc to leave"
	case Visual:
		return "move to extend, y/d/c to apply"
	case OperatorPending:
		return "move cursor to apply operator"
	default:
		return "i to insert, v to select"
	}
}
