package editor

import (
	"log"
	"strings"

	"github.com/alecthomas/chroma/v2"

	"github.com/nhath/lazydata/internal/command"
)

const maxUndo = 100

// Clipboard receives yanked text in addition to the register.
type Clipboard interface {
	WriteAll(text string) error
}

type snapshot struct {
	buf    buffer
	cursor Position
}

// Editor holds the query buffer and everything the editor commands mutate.
type Editor struct {
	buf    buffer
	cursor Position

	// goal is the column vertical motions try to return to.
	goal   int
	scroll int
	height int

	mode   command.Mode
	anchor *Position

	register     string
	registerLine bool

	undo []snapshot
	redo []snapshot

	// insertUnit is set once the current Insert session has a snapshot, so
	// a whole session undoes in one step.
	insertUnit bool

	clipboard Clipboard
	style     *chroma.Style
}

// New returns an empty editor in Normal mode. styleName is a chroma style;
// unknown names fall back to monokai.
func New(styleName string, cb Clipboard) *Editor {
	return &Editor{
		buf:       newBuffer(""),
		height:    10,
		mode:      command.NormalMode,
		clipboard: cb,
		style:     resolveStyle(styleName),
	}
}

// SetContent replaces the buffer. The previous content can be restored
// with undo.
func (e *Editor) SetContent(s string) {
	e.checkpoint()
	e.buf = newBuffer(s)
	e.anchor = nil
	e.cursor = Position{}
	e.scroll = 0
}

func (e *Editor) Content() string { return e.buf.String() }

// Query is the text to execute: the whole buffer, trimmed.
func (e *Editor) Query() string { return strings.TrimSpace(e.Content()) }

func (e *Editor) Cursor() Position { return e.cursor }

func (e *Editor) Mode() command.Mode { return e.mode }

func (e *Editor) Register() string { return e.register }

func (e *Editor) Scroll() int { return e.scroll }

// Selection returns the inclusive selection bounds in buffer order.
func (e *Editor) Selection() (Position, Position, bool) {
	if e.anchor == nil {
		return Position{}, Position{}, false
	}
	from, to := order(*e.anchor, e.cursor)
	return from, to, true
}

// SetHeight sets the number of visible lines used for scrolling.
func (e *Editor) SetHeight(h int) {
	if h < 1 {
		h = 1
	}
	e.height = h
	e.ensureVisible()
}

// SetMode keeps the editor in step with the resolver's mode. The
// selection survives mode changes; the selection commands clear it.
func (e *Editor) SetMode(m command.Mode) {
	if m.Kind == command.Insert && e.mode.Kind != command.Insert {
		e.insertUnit = false
	}
	e.mode = m
	e.clamp()
}

// Apply executes one editor command. Commands of other categories are
// ignored.
func (e *Editor) Apply(cmd command.Command) {
	switch cmd.Kind {
	case command.EditorInputChar:
		e.edit()
		e.cursor = e.buf.insert(e.cursor, string(cmd.Char))
	case command.EditorEnter:
		e.edit()
		e.cursor = e.buf.insert(e.cursor, "\n")
	case command.EditorBackspace:
		e.backspace()
	case command.EditorDelete:
		e.deleteForward()
	case command.EditorDeleteNextChar:
		if e.buf.lineLen(e.cursor.Row) > 0 {
			e.edit()
			end := Position{e.cursor.Row, e.cursor.Col + 1}
			e.yank(e.buf.remove(e.cursor, end), false)
		}
	case command.EditorDeleteLineByEnd:
		if e.cursor.Col < e.buf.lineLen(e.cursor.Row) {
			e.edit()
			end := Position{e.cursor.Row, e.buf.lineLen(e.cursor.Row)}
			e.yank(e.buf.remove(e.cursor, end), false)
		}
	case command.EditorMoveCursor:
		e.cursor = e.target(cmd.Motion)
		if cmd.Motion != command.MotionUp && cmd.Motion != command.MotionDown {
			e.goal = e.cursor.Col
		}
	case command.EditorSetMode:
		e.SetMode(cmd.Mode)
	case command.EditorStartSelection:
		a := e.cursor
		e.anchor = &a
	case command.EditorCancelSelection:
		e.anchor = nil
	case command.EditorCopySelection:
		if from, to, ok := e.Selection(); ok {
			e.yank(e.buf.text(from, e.after(to)), false)
			e.cursor = from
		}
		e.anchor = nil
	case command.EditorCutSelection:
		if from, to, ok := e.Selection(); ok {
			e.edit()
			e.yank(e.buf.remove(from, e.after(to)), false)
			e.cursor = from
		}
		e.anchor = nil
	case command.EditorPerformPendingOperator:
		e.operate(cmd.Operator, cmd.Motion)
	case command.EditorLineOperator:
		e.lineOperate(cmd.Operator)
	case command.EditorOpenLineBelow:
		e.edit()
		end := Position{e.cursor.Row, e.buf.lineLen(e.cursor.Row)}
		e.cursor = e.buf.insert(end, "\n")
	case command.EditorOpenLineAbove:
		e.edit()
		e.buf.insert(Position{e.cursor.Row, 0}, "\n")
		e.cursor = Position{e.cursor.Row, 0}
	case command.EditorPaste:
		e.paste()
	case command.EditorUndo:
		e.restore(&e.undo, &e.redo)
	case command.EditorRedo:
		e.restore(&e.redo, &e.undo)
	case command.EditorScrollRelative:
		e.scrollBy(cmd.Amount)
		return
	case command.EditorScroll:
		e.page(cmd.Scroll)
	default:
		return
	}
	e.clamp()
	e.ensureVisible()
}

// edit records an undo snapshot before a mutation. In Insert mode only the
// first mutation of the session is recorded.
func (e *Editor) edit() {
	if e.mode.Kind == command.Insert {
		if e.insertUnit {
			return
		}
		e.insertUnit = true
	}
	e.checkpoint()
}

func (e *Editor) checkpoint() {
	e.undo = append(e.undo, snapshot{buf: e.buf.clone(), cursor: e.cursor})
	if len(e.undo) > maxUndo {
		e.undo = e.undo[len(e.undo)-maxUndo:]
	}
	e.redo = nil
}

func (e *Editor) restore(from, to *[]snapshot) {
	if len(*from) == 0 {
		return
	}
	last := (*from)[len(*from)-1]
	*from = (*from)[:len(*from)-1]
	*to = append(*to, snapshot{buf: e.buf.clone(), cursor: e.cursor})
	e.buf = last.buf
	e.cursor = last.cursor
	e.anchor = nil
	e.insertUnit = false
}

func (e *Editor) backspace() {
	p, ok := e.buf.prev(e.cursor)
	if !ok {
		return
	}
	e.edit()
	e.buf.remove(p, e.cursor)
	e.cursor = p
}

func (e *Editor) deleteForward() {
	n, ok := e.buf.next(e.cursor)
	if !ok {
		return
	}
	e.edit()
	e.buf.remove(e.cursor, n)
}

// after returns the position following p, for turning an inclusive end
// into an exclusive one.
func (e *Editor) after(p Position) Position {
	if p.Col < e.buf.lineLen(p.Row) {
		return Position{p.Row, p.Col + 1}
	}
	n, _ := e.buf.next(p)
	return n
}

func (e *Editor) yank(text string, linewise bool) {
	if text == "" {
		return
	}
	e.register = text
	e.registerLine = linewise
	if e.clipboard == nil {
		return
	}
	if err := e.clipboard.WriteAll(text); err != nil {
		log.Printf("editor: clipboard write failed: %v", err)
	}
}

func (e *Editor) paste() {
	if e.register == "" {
		return
	}
	e.edit()
	if e.registerLine {
		end := Position{e.cursor.Row, e.buf.lineLen(e.cursor.Row)}
		e.buf.insert(end, "\n"+strings.TrimSuffix(e.register, "\n"))
		e.cursor = Position{e.cursor.Row + 1, 0}
		return
	}
	at := e.cursor
	if e.mode.Kind != command.Insert && at.Col < e.buf.lineLen(at.Row) {
		at.Col++
	}
	end := e.buf.insert(at, e.register)
	e.cursor = end
	if e.mode.Kind != command.Insert && end.Col > 0 {
		e.cursor.Col = end.Col - 1
	}
}

// maxCol is the last column the cursor may occupy in the current mode.
func (e *Editor) maxCol(row int) int {
	n := e.buf.lineLen(row)
	if e.mode.Kind == command.Insert {
		return n
	}
	if n == 0 {
		return 0
	}
	return n - 1
}

func (e *Editor) clamp() {
	last := len(e.buf.lines) - 1
	e.cursor.Row = max(0, min(e.cursor.Row, last))
	e.cursor.Col = max(0, min(e.cursor.Col, e.maxCol(e.cursor.Row)))
}

func (e *Editor) ensureVisible() {
	if e.cursor.Row < e.scroll {
		e.scroll = e.cursor.Row
	}
	if e.cursor.Row >= e.scroll+e.height {
		e.scroll = e.cursor.Row - e.height + 1
	}
}

func (e *Editor) scrollBy(n int) {
	last := len(e.buf.lines) - 1
	e.scroll = max(0, min(e.scroll+n, last))
	if e.cursor.Row < e.scroll {
		e.cursor.Row = e.scroll
	}
	if e.cursor.Row >= e.scroll+e.height {
		e.cursor.Row = e.scroll + e.height - 1
	}
	e.clamp()
}

func (e *Editor) page(s command.Scroll) {
	n := e.height
	switch s {
	case command.ScrollHalfPageDown:
		n = max(1, e.height/2)
	case command.ScrollHalfPageUp:
		n = -max(1, e.height/2)
	case command.ScrollPageUp:
		n = -e.height
	}
	last := len(e.buf.lines) - 1
	e.cursor.Row = max(0, min(e.cursor.Row+n, last))
	e.scroll = max(0, min(e.scroll+n, last))
}
