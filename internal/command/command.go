// Package command defines the closed set of user intents produced by the
// key resolver and consumed by the UI router.
package command

import "fmt"

// Kind identifies a command. The set is closed: every key event resolves to
// at most one of these.
type Kind int

const (
	NoOp Kind = iota

	// Global
	Quit
	ToggleFocus
	ExecuteQuery
	ShowHelp
	CloseHelp
	HelpScrollUp
	HelpScrollDown

	// Data table
	TablePreviousTab
	TableNextTab
	TableNextRow
	TablePreviousRow
	TableNextHistoryRow
	TablePreviousHistoryRow
	TableScrollRight
	TableScrollLeft
	TableNextColor
	TablePreviousColor
	TableNextPage
	TablePreviousPage
	TableJumpToFirstRow
	TableJumpToLastRow
	TableNextColumn
	TablePreviousColumn
	TableColumnWidthIncrease
	TableColumnWidthDecrease
	TableCopySelectedCell
	TableCopySelectedRow
	TableCopyQueryToEditor
	TableRunSelectedHistoryQuery
	TableSetTabIndex

	// Sidebar
	SidebarToggleSelected
	SidebarKeyLeft
	SidebarKeyRight
	SidebarKeyDown
	SidebarKeyUp
	SidebarDeselect
	SidebarSelectFirst
	SidebarSelectLast
	SidebarScrollDown
	SidebarScrollUp

	// Editor
	EditorInputChar
	EditorBackspace
	EditorDelete
	EditorEnter
	EditorMoveCursor
	EditorDeleteLineByEnd
	EditorCancelSelection
	EditorPaste
	EditorUndo
	EditorRedo
	EditorDeleteNextChar
	EditorSetMode
	EditorScrollRelative
	EditorScroll
	EditorStartSelection
	EditorCopySelection
	EditorCutSelection
	EditorPerformPendingOperator
	EditorOpenLineBelow
	EditorOpenLineAbove
	EditorLineOperator

	kindCount
)

// Category groups commands by the component that owns them.
type Category int

const (
	CategoryGlobal Category = iota
	CategoryTable
	CategorySidebar
	CategoryEditor
)

func (c Category) String() string {
	switch c {
	case CategoryTable:
		return "Data Table"
	case CategorySidebar:
		return "Sidebar"
	case CategoryEditor:
		return "Editor"
	default:
		return "Global"
	}
}

// Category reports which component a command of this kind is routed to.
func (k Kind) Category() Category {
	switch {
	case k >= TablePreviousTab && k <= TableSetTabIndex:
		return CategoryTable
	case k >= SidebarToggleSelected && k <= SidebarScrollUp:
		return CategorySidebar
	case k >= EditorInputChar && k <= EditorLineOperator:
		return CategoryEditor
	default:
		return CategoryGlobal
	}
}

var kindNames = [kindCount]string{
	NoOp:                         "NoOp",
	Quit:                         "Quit",
	ToggleFocus:                  "ToggleFocus",
	ExecuteQuery:                 "ExecuteQuery",
	ShowHelp:                     "ShowHelp",
	CloseHelp:                    "CloseHelp",
	HelpScrollUp:                 "HelpScrollUp",
	HelpScrollDown:               "HelpScrollDown",
	TablePreviousTab:             "TablePreviousTab",
	TableNextTab:                 "TableNextTab",
	TableNextRow:                 "TableNextRow",
	TablePreviousRow:             "TablePreviousRow",
	TableNextHistoryRow:          "TableNextHistoryRow",
	TablePreviousHistoryRow:      "TablePreviousHistoryRow",
	TableScrollRight:             "TableScrollRight",
	TableScrollLeft:              "TableScrollLeft",
	TableNextColor:               "TableNextColor",
	TablePreviousColor:           "TablePreviousColor",
	TableNextPage:                "TableNextPage",
	TablePreviousPage:            "TablePreviousPage",
	TableJumpToFirstRow:          "TableJumpToFirstRow",
	TableJumpToLastRow:           "TableJumpToLastRow",
	TableNextColumn:              "TableNextColumn",
	TablePreviousColumn:          "TablePreviousColumn",
	TableColumnWidthIncrease:     "TableColumnWidthIncrease",
	TableColumnWidthDecrease:     "TableColumnWidthDecrease",
	TableCopySelectedCell:        "TableCopySelectedCell",
	TableCopySelectedRow:         "TableCopySelectedRow",
	TableCopyQueryToEditor:       "TableCopyQueryToEditor",
	TableRunSelectedHistoryQuery: "TableRunSelectedHistoryQuery",
	TableSetTabIndex:             "TableSetTabIndex",
	SidebarToggleSelected:        "SidebarToggleSelected",
	SidebarKeyLeft:               "SidebarKeyLeft",
	SidebarKeyRight:              "SidebarKeyRight",
	SidebarKeyDown:               "SidebarKeyDown",
	SidebarKeyUp:                 "SidebarKeyUp",
	SidebarDeselect:              "SidebarDeselect",
	SidebarSelectFirst:           "SidebarSelectFirst",
	SidebarSelectLast:            "SidebarSelectLast",
	SidebarScrollDown:            "SidebarScrollDown",
	SidebarScrollUp:              "SidebarScrollUp",
	EditorInputChar:              "EditorInputChar",
	EditorBackspace:              "EditorBackspace",
	EditorDelete:                 "EditorDelete",
	EditorEnter:                  "EditorEnter",
	EditorMoveCursor:             "EditorMoveCursor",
	EditorDeleteLineByEnd:        "EditorDeleteLineByEnd",
	EditorCancelSelection:        "EditorCancelSelection",
	EditorPaste:                  "EditorPaste",
	EditorUndo:                   "EditorUndo",
	EditorRedo:                   "EditorRedo",
	EditorDeleteNextChar:         "EditorDeleteNextChar",
	EditorSetMode:                "EditorSetMode",
	EditorScrollRelative:         "EditorScrollRelative",
	EditorScroll:                 "EditorScroll",
	EditorStartSelection:         "EditorStartSelection",
	EditorCopySelection:          "EditorCopySelection",
	EditorCutSelection:           "EditorCutSelection",
	EditorPerformPendingOperator: "EditorPerformPendingOperator",
	EditorOpenLineBelow:          "EditorOpenLineBelow",
	EditorOpenLineAbove:          "EditorOpenLineAbove",
	EditorLineOperator:           "EditorLineOperator",
}

func (k Kind) String() string {
	if k < 0 || k >= kindCount {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Motion is a cursor movement inside the editor.
type Motion int

const (
	MotionNone Motion = iota
	MotionBack
	MotionForward
	MotionUp
	MotionDown
	MotionWordForward
	MotionWordEnd
	MotionWordBack
	MotionHead
	MotionEnd
	MotionTop
	MotionBottom
)

func (m Motion) String() string {
	switch m {
	case MotionBack:
		return "back"
	case MotionForward:
		return "forward"
	case MotionUp:
		return "up"
	case MotionDown:
		return "down"
	case MotionWordForward:
		return "word-forward"
	case MotionWordEnd:
		return "word-end"
	case MotionWordBack:
		return "word-back"
	case MotionHead:
		return "head"
	case MotionEnd:
		return "end"
	case MotionTop:
		return "top"
	case MotionBottom:
		return "bottom"
	default:
		return "none"
	}
}

// Scroll is a viewport scroll amount for the editor.
type Scroll int

const (
	ScrollHalfPageDown Scroll = iota
	ScrollHalfPageUp
	ScrollPageDown
	ScrollPageUp
)

// Operator is a pending editor operator key.
type Operator rune

const (
	OpNone   Operator = 0
	OpYank   Operator = 'y'
	OpDelete Operator = 'd'
	OpChange Operator = 'c'
)

// IsOperator reports whether r is one of the operator keys.
func IsOperator(r rune) bool {
	switch Operator(r) {
	case OpYank, OpDelete, OpChange:
		return true
	}
	return false
}

// Command is an immutable resolved intent. Only the payload fields relevant
// to Kind are set.
type Command struct {
	Kind     Kind
	Char     rune
	Index    int
	Amount   int
	Motion   Motion
	Mode     Mode
	Operator Operator
	Scroll   Scroll
}

// New returns a command without payload.
func New(k Kind) Command { return Command{Kind: k} }

func InputChar(r rune) Command { return Command{Kind: EditorInputChar, Char: r} }

func MoveCursor(m Motion) Command { return Command{Kind: EditorMoveCursor, Motion: m} }

func SetMode(m Mode) Command { return Command{Kind: EditorSetMode, Mode: m} }

func SetTabIndex(i int) Command { return Command{Kind: TableSetTabIndex, Index: i} }

func SidebarScroll(down bool, n int) Command {
	if down {
		return Command{Kind: SidebarScrollDown, Amount: n}
	}
	return Command{Kind: SidebarScrollUp, Amount: n}
}

func EditorScrollBy(s Scroll) Command { return Command{Kind: EditorScroll, Scroll: s} }

func EditorScrollRows(rows int) Command { return Command{Kind: EditorScrollRelative, Amount: rows} }

// PerformOperator applies op over the span covered by motion m.
func PerformOperator(op Operator, m Motion) Command {
	return Command{Kind: EditorPerformPendingOperator, Operator: op, Motion: m}
}

// LineOperator applies op to the whole current line (yy, dd, cc).
func LineOperator(op Operator) Command {
	return Command{Kind: EditorLineOperator, Operator: op}
}

func (c Command) String() string {
	switch c.Kind {
	case EditorInputChar:
		return fmt.Sprintf("%s(%q)", c.Kind, c.Char)
	case EditorMoveCursor:
		return fmt.Sprintf("%s(%s)", c.Kind, c.Motion)
	case EditorSetMode:
		return fmt.Sprintf("%s(%s)", c.Kind, c.Mode)
	case TableSetTabIndex:
		return fmt.Sprintf("%s(%d)", c.Kind, c.Index)
	case SidebarScrollDown, SidebarScrollUp, EditorScrollRelative:
		return fmt.Sprintf("%s(%d)", c.Kind, c.Amount)
	case EditorPerformPendingOperator:
		return fmt.Sprintf("%s(%c,%s)", c.Kind, c.Operator, c.Motion)
	case EditorLineOperator:
		return fmt.Sprintf("%s(%c)", c.Kind, c.Operator)
	}
	return c.Kind.String()
}
