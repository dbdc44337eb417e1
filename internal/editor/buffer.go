// Package editor is the modal SQL editor: a rune buffer with a cursor,
// visual selection, yank register and undo history, driven entirely by
// resolved editor commands.
package editor

import (
	"strings"
	"unicode"
)

// Position is a cursor location. Col counts runes.
type Position struct {
	Row, Col int
}

func (p Position) before(q Position) bool {
	return p.Row < q.Row || (p.Row == q.Row && p.Col < q.Col)
}

func order(a, b Position) (Position, Position) {
	if b.before(a) {
		return b, a
	}
	return a, b
}

type buffer struct {
	lines [][]rune
}

func newBuffer(text string) buffer {
	parts := strings.Split(text, "\n")
	b := buffer{lines: make([][]rune, len(parts))}
	for i, p := range parts {
		b.lines[i] = []rune(p)
	}
	return b
}

func (b buffer) String() string {
	parts := make([]string, len(b.lines))
	for i, l := range b.lines {
		parts[i] = string(l)
	}
	return strings.Join(parts, "\n")
}

func (b buffer) clone() buffer {
	c := buffer{lines: make([][]rune, len(b.lines))}
	for i, l := range b.lines {
		c.lines[i] = append([]rune(nil), l...)
	}
	return c
}

func (b buffer) lineLen(row int) int { return len(b.lines[row]) }

// text returns the runes in [from, to).
func (b buffer) text(from, to Position) string {
	if !from.before(to) {
		return ""
	}
	if from.Row == to.Row {
		return string(b.lines[from.Row][from.Col:to.Col])
	}
	var sb strings.Builder
	sb.WriteString(string(b.lines[from.Row][from.Col:]))
	for r := from.Row + 1; r < to.Row; r++ {
		sb.WriteByte('\n')
		sb.WriteString(string(b.lines[r]))
	}
	sb.WriteByte('\n')
	sb.WriteString(string(b.lines[to.Row][:to.Col]))
	return sb.String()
}

// remove deletes [from, to) and returns the removed text.
func (b *buffer) remove(from, to Position) string {
	removed := b.text(from, to)
	if removed == "" {
		return ""
	}
	head := b.lines[from.Row][:from.Col:from.Col]
	joined := append(head, b.lines[to.Row][to.Col:]...)
	b.lines = append(b.lines[:from.Row+1], b.lines[to.Row+1:]...)
	b.lines[from.Row] = joined
	return removed
}

// insert places s at p and returns the position just after it.
func (b *buffer) insert(p Position, s string) Position {
	parts := strings.Split(s, "\n")
	line := b.lines[p.Row]
	tail := append([]rune(nil), line[p.Col:]...)
	head := append(line[:p.Col:p.Col], []rune(parts[0])...)

	if len(parts) == 1 {
		b.lines[p.Row] = append(head, tail...)
		return Position{p.Row, len(head)}
	}

	newLines := make([][]rune, 0, len(parts)-1)
	for _, part := range parts[1:] {
		newLines = append(newLines, []rune(part))
	}
	last := len(newLines) - 1
	end := Position{p.Row + len(parts) - 1, len(newLines[last])}
	newLines[last] = append(newLines[last], tail...)

	b.lines[p.Row] = head
	rest := append(newLines, b.lines[p.Row+1:]...)
	b.lines = append(b.lines[:p.Row+1], rest...)
	return end
}

// runeAt returns the rune at p, or '\n' past the end of a line.
func (b buffer) runeAt(p Position) rune {
	if p.Col >= len(b.lines[p.Row]) {
		return '\n'
	}
	return b.lines[p.Row][p.Col]
}

// next steps one rune forward, treating the line break as a rune.
func (b buffer) next(p Position) (Position, bool) {
	if p.Col < len(b.lines[p.Row]) {
		return Position{p.Row, p.Col + 1}, true
	}
	if p.Row+1 < len(b.lines) {
		return Position{p.Row + 1, 0}, true
	}
	return p, false
}

func (b buffer) prev(p Position) (Position, bool) {
	if p.Col > 0 {
		return Position{p.Row, p.Col - 1}, true
	}
	if p.Row > 0 {
		return Position{p.Row - 1, len(b.lines[p.Row-1])}, true
	}
	return p, false
}

type runeClass int

const (
	classSpace runeClass = iota
	classWord
	classPunct
)

func classOf(r rune) runeClass {
	switch {
	case unicode.IsSpace(r):
		return classSpace
	case r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r):
		return classWord
	}
	return classPunct
}

// wordForward finds the start of the next word, or the end of the buffer.
func (b buffer) wordForward(p Position) Position {
	start := classOf(b.runeAt(p))
	q, ok := p, true
	for ok && start != classSpace && classOf(b.runeAt(q)) == start {
		q, ok = b.next(q)
	}
	for ok && classOf(b.runeAt(q)) == classSpace {
		// an empty line counts as a word
		if q.Col == 0 && len(b.lines[q.Row]) == 0 && q != p {
			return q
		}
		q, ok = b.next(q)
	}
	return q
}

// wordEnd finds the last rune of the current or next word.
func (b buffer) wordEnd(p Position) Position {
	q, ok := b.next(p)
	for ok && classOf(b.runeAt(q)) == classSpace {
		q, ok = b.next(q)
	}
	if !ok {
		return p
	}
	c := classOf(b.runeAt(q))
	for {
		n, ok := b.next(q)
		if !ok || classOf(b.runeAt(n)) != c {
			return q
		}
		q = n
	}
}

// wordBack finds the start of the current or previous word.
func (b buffer) wordBack(p Position) Position {
	q, ok := b.prev(p)
	for ok && classOf(b.runeAt(q)) == classSpace {
		q, ok = b.prev(q)
	}
	if !ok {
		return Position{}
	}
	c := classOf(b.runeAt(q))
	for {
		n, ok := b.prev(q)
		if !ok || classOf(b.runeAt(n)) != c {
			return q
		}
		q = n
	}
}

// firstNonBlank is the column of the first non-space rune on row.
func (b buffer) firstNonBlank(row int) int {
	for i, r := range b.lines[row] {
		if !unicode.IsSpace(r) {
			return i
		}
	}
	return 0
}
