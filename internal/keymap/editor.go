package keymap

import "github.com/nhath/lazydata/internal/command"

// motionKeys are the keys that complete an operator or extend a selection.
var motionKeys = map[string]command.Motion{
	"h":     command.MotionBack,
	"left":  command.MotionBack,
	"l":     command.MotionForward,
	"right": command.MotionForward,
	"k":     command.MotionUp,
	"up":    command.MotionUp,
	"j":     command.MotionDown,
	"down":  command.MotionDown,
	"w":     command.MotionWordForward,
	"e":     command.MotionWordEnd,
	"b":     command.MotionWordBack,
	"^":     command.MotionHead,
	"0":     command.MotionHead,
	"$":     command.MotionEnd,
	"G":     command.MotionBottom,
}

func noOp() command.Command { return command.New(command.NoOp) }

func resolveEditor(s State, ev KeyEvent) (State, command.Command, bool) {
	if s.Pending != "" {
		return resolvePending(s, ev)
	}

	switch s.Mode.Kind {
	case command.Insert:
		return resolveInsert(s, ev)
	case command.Visual:
		return resolveVisual(s, ev)
	case command.OperatorPending:
		// operator mode always carries its key; restore it if lost
		s.Pending = string(s.Mode.Op)
		return resolvePending(s, ev)
	default:
		return resolveNormal(s, ev)
	}
}

// resolvePending completes a two-key sequence. The buffer is consumed by
// this call whatever the outcome.
func resolvePending(s State, ev KeyEvent) (State, command.Command, bool) {
	pending := s.Pending
	s.Pending = ""
	operator := s.Mode.Kind == command.OperatorPending

	if pending == "g" {
		if ev.Key != "g" {
			if operator {
				s.Mode = command.NormalMode
			}
			return s, noOp(), true
		}
		if operator {
			op := s.Mode.Op
			s.Mode = command.NormalMode
			return s, command.PerformOperator(op, command.MotionTop), true
		}
		return s, command.MoveCursor(command.MotionTop), true
	}

	op := command.Operator([]rune(pending)[0])
	switch {
	case ev.Key == pending:
		s.Mode = command.NormalMode
		if op == command.OpChange {
			s.Mode = command.InsertMode
		}
		return s, command.LineOperator(op), true
	case ev.Key == "g":
		// dgg: keep the operator in the mode and buffer the g
		s.Mode = command.OperatorMode(op)
		s.Pending = "g"
		return s, command.Command{}, false
	}

	s.Mode = command.NormalMode
	if m, ok := motionKeys[ev.Key]; ok {
		return s, command.PerformOperator(op, m), true
	}
	return s, noOp(), true
}

func resolveNormal(s State, ev KeyEvent) (State, command.Command, bool) {
	if m, ok := motionKeys[ev.Key]; ok {
		return s, command.MoveCursor(m), true
	}

	switch ev.Key {
	case "g":
		s.Pending = "g"
		return s, command.Command{}, false
	case "y", "d", "c":
		op := command.Operator([]rune(ev.Key)[0])
		s.Pending = ev.Key
		s.Mode = command.OperatorMode(op)
		return s, command.SetMode(s.Mode), true

	case "i":
		s.Mode = command.InsertMode
		return s, command.SetMode(s.Mode), true
	case "a":
		s.Mode = command.InsertMode
		return s, command.MoveCursor(command.MotionForward), true
	case "A":
		s.Mode = command.InsertMode
		return s, command.MoveCursor(command.MotionEnd), true
	case "I":
		s.Mode = command.InsertMode
		return s, command.MoveCursor(command.MotionHead), true
	case "o":
		s.Mode = command.InsertMode
		return s, command.New(command.EditorOpenLineBelow), true
	case "O":
		s.Mode = command.InsertMode
		return s, command.New(command.EditorOpenLineAbove), true
	case "v", "V":
		s.Mode = command.VisualMode
		return s, command.New(command.EditorStartSelection), true

	case "D":
		return s, command.New(command.EditorDeleteLineByEnd), true
	case "C":
		s.Mode = command.InsertMode
		return s, command.New(command.EditorDeleteLineByEnd), true
	case "x":
		return s, command.New(command.EditorDeleteNextChar), true
	case "p":
		return s, command.New(command.EditorPaste), true
	case "u":
		return s, command.New(command.EditorUndo), true
	case "ctrl+r":
		return s, command.New(command.EditorRedo), true

	case "ctrl+e":
		return s, command.EditorScrollRows(1), true
	case "ctrl+y":
		return s, command.EditorScrollRows(-1), true
	case "ctrl+d":
		return s, command.EditorScrollBy(command.ScrollHalfPageDown), true
	case "ctrl+u":
		return s, command.EditorScrollBy(command.ScrollHalfPageUp), true
	case "ctrl+f", "pgdown":
		return s, command.EditorScrollBy(command.ScrollPageDown), true
	case "ctrl+b", "pgup":
		return s, command.EditorScrollBy(command.ScrollPageUp), true
	}
	return s, noOp(), true
}

func resolveInsert(s State, ev KeyEvent) (State, command.Command, bool) {
	switch ev.Key {
	case "esc", "ctrl+c":
		s.Mode = command.NormalMode
		return s, command.SetMode(s.Mode), true
	case "backspace":
		return s, command.New(command.EditorBackspace), true
	case "delete":
		return s, command.New(command.EditorDelete), true
	case "enter":
		return s, command.New(command.EditorEnter), true
	case "left":
		return s, command.MoveCursor(command.MotionBack), true
	case "right":
		return s, command.MoveCursor(command.MotionForward), true
	case "up":
		return s, command.MoveCursor(command.MotionUp), true
	case "down":
		return s, command.MoveCursor(command.MotionDown), true
	case "home":
		return s, command.MoveCursor(command.MotionHead), true
	case "end":
		return s, command.MoveCursor(command.MotionEnd), true
	case "pgup":
		return s, command.EditorScrollBy(command.ScrollPageUp), true
	case "pgdown":
		return s, command.EditorScrollBy(command.ScrollPageDown), true
	}
	if r, ok := ev.Rune(); ok {
		return s, command.InputChar(r), true
	}
	return s, noOp(), true
}

func resolveVisual(s State, ev KeyEvent) (State, command.Command, bool) {
	if m, ok := motionKeys[ev.Key]; ok {
		return s, command.MoveCursor(m), true
	}

	switch ev.Key {
	case "g":
		s.Pending = "g"
		return s, command.Command{}, false
	case "y":
		s.Mode = command.NormalMode
		return s, command.New(command.EditorCopySelection), true
	case "d":
		s.Mode = command.NormalMode
		return s, command.New(command.EditorCutSelection), true
	case "c":
		s.Mode = command.InsertMode
		return s, command.New(command.EditorCutSelection), true
	case "esc", "v":
		s.Mode = command.NormalMode
		return s, command.New(command.EditorCancelSelection), true
	}
	return s, noOp(), true
}
