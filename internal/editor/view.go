package editor

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/nhath/lazydata/internal/command"
)

var (
	lineNumberStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#4C566A"))
	currentNumStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#EBCB8B"))
	blockCursor     = lipgloss.NewStyle().Reverse(true)
	barCursor       = lipgloss.NewStyle().Foreground(lipgloss.Color("#88C0D0"))
	selectionStyle  = lipgloss.NewStyle().Background(lipgloss.Color("#434C5E"))
	plainStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#D8DEE9"))
	placeholder     = lipgloss.NewStyle().Foreground(lipgloss.Color("#4C566A")).Italic(true)
)

func resolveStyle(name string) *chroma.Style {
	if s, ok := styles.Registry[name]; ok {
		return s
	}
	if s := styles.Get("monokai"); s != nil {
		return s
	}
	return styles.Fallback
}

var sqlLexer = func() chroma.Lexer {
	l := lexers.Get("sql")
	if l == nil {
		l = lexers.Fallback
	}
	return chroma.Coalesce(l)
}()

// highlight renders one line of SQL with terminal colours.
func (e *Editor) highlight(line string) string {
	if line == "" {
		return ""
	}
	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}
	it, err := sqlLexer.Tokenise(nil, line)
	if err != nil {
		return plainStyle.Render(line)
	}
	var buf bytes.Buffer
	if err := formatter.Format(&buf, e.style, it); err != nil {
		return plainStyle.Render(line)
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

func (e *Editor) gutterWidth() int {
	return len(fmt.Sprint(len(e.buf.lines))) + 1
}

// View renders the visible window of the buffer. The cursor is only drawn
// when focused: a block in Normal and Visual, a bar in Insert.
func (e *Editor) View(width, height int, focused bool) string {
	if height < 1 || width < 1 {
		return ""
	}
	e.SetHeight(height)

	gutter := e.gutterWidth()
	textWidth := max(1, width-gutter-1)

	if !focused && len(e.buf.lines) == 1 && e.buf.lineLen(0) == 0 {
		return placeholder.Render(runewidth.Truncate("Type a query, press i to edit and f5 to run", width, ""))
	}

	out := make([]string, 0, height)
	for row := e.scroll; row < len(e.buf.lines) && len(out) < height; row++ {
		num := fmt.Sprintf("%*d ", gutter, row+1)
		if row == e.cursor.Row {
			num = currentNumStyle.Render(num)
		} else {
			num = lineNumberStyle.Render(num)
		}
		out = append(out, num+e.renderLine(row, textWidth, focused))
	}
	return strings.Join(out, "\n")
}

func (e *Editor) renderLine(row, width int, focused bool) string {
	line := e.buf.lines[row]
	from, to, selecting := e.Selection()
	touched := selecting && row >= from.Row && row <= to.Row
	hasCursor := focused && row == e.cursor.Row

	if !touched && !hasCursor {
		return e.highlight(runewidth.Truncate(string(line), width, ""))
	}

	var sb strings.Builder
	used := 0
	for col := 0; col <= len(line); col++ {
		r := ' '
		if col < len(line) {
			r = line[col]
		}
		w := runewidth.RuneWidth(r)
		if used+w > width {
			break
		}
		p := Position{row, col}
		inSel := touched && !p.before(from) && !to.before(p) && col < len(line)

		switch {
		case hasCursor && col == e.cursor.Col && e.mode.Kind == command.Insert:
			sb.WriteString(barCursor.Render("▏"))
			if col < len(line) {
				sb.WriteString(plainStyle.Render(string(r)))
			}
		case hasCursor && col == e.cursor.Col:
			sb.WriteString(blockCursor.Render(string(r)))
		case inSel:
			sb.WriteString(selectionStyle.Render(string(r)))
		case col < len(line):
			sb.WriteString(plainStyle.Render(string(r)))
		}
		used += w
	}
	return sb.String()
}
