package editor

import "github.com/nhath/lazydata/internal/command"

// target is where motion m takes the cursor, without moving it.
func (e *Editor) target(m command.Motion) Position {
	p := e.cursor
	last := len(e.buf.lines) - 1
	switch m {
	case command.MotionBack:
		if p.Col > 0 {
			p.Col--
		}
	case command.MotionForward:
		if p.Col < e.maxCol(p.Row) {
			p.Col++
		}
	case command.MotionUp:
		if p.Row > 0 {
			p.Row--
			p.Col = min(e.goal, e.maxCol(p.Row))
		}
	case command.MotionDown:
		if p.Row < last {
			p.Row++
			p.Col = min(e.goal, e.maxCol(p.Row))
		}
	case command.MotionWordForward:
		p = e.buf.wordForward(p)
	case command.MotionWordEnd:
		p = e.buf.wordEnd(p)
	case command.MotionWordBack:
		p = e.buf.wordBack(p)
	case command.MotionHead:
		p.Col = 0
	case command.MotionEnd:
		p.Col = e.maxCol(p.Row)
	case command.MotionTop:
		p = Position{0, e.buf.firstNonBlank(0)}
	case command.MotionBottom:
		p = Position{last, e.buf.firstNonBlank(last)}
	}
	return p
}

func linewise(m command.Motion) bool {
	switch m {
	case command.MotionUp, command.MotionDown, command.MotionTop, command.MotionBottom:
		return true
	}
	return false
}

func inclusive(m command.Motion) bool {
	return m == command.MotionWordEnd || m == command.MotionEnd
}

// operate applies op over the span between the cursor and the target of
// m. Change deletes the span like delete.
func (e *Editor) operate(op command.Operator, m command.Motion) {
	if op == command.OpNone || m == command.MotionNone {
		return
	}
	t := e.target(m)

	if linewise(m) {
		first, last := min(e.cursor.Row, t.Row), max(e.cursor.Row, t.Row)
		e.lines(op, first, last)
		return
	}

	from, to := order(e.cursor, t)
	if m == command.MotionForward && t == e.cursor && e.buf.lineLen(e.cursor.Row) > 0 {
		// l on the last character still covers it
		to = e.after(to)
	}
	if m == command.MotionWordForward && to.Row > from.Row {
		// w never carries an operator past the end of the line
		to = Position{from.Row, e.buf.lineLen(from.Row)}
	}
	if inclusive(m) {
		to = e.after(to)
	}
	if !from.before(to) {
		return
	}

	if op == command.OpYank {
		e.yank(e.buf.text(from, to), false)
		e.cursor = from
		return
	}
	e.edit()
	e.yank(e.buf.remove(from, to), false)
	e.cursor = from
}

// lineOperate is the doubled-operator form: yy, dd and cc.
func (e *Editor) lineOperate(op command.Operator) {
	if op == command.OpChange {
		row := e.cursor.Row
		e.edit()
		end := Position{row, e.buf.lineLen(row)}
		e.yank(e.buf.remove(Position{row, 0}, end), false)
		e.cursor = Position{row, 0}
		return
	}
	e.lines(op, e.cursor.Row, e.cursor.Row)
}

// lines yanks or deletes the whole rows first..last.
func (e *Editor) lines(op command.Operator, first, last int) {
	text := e.buf.text(Position{first, 0}, Position{last, e.buf.lineLen(last)}) + "\n"
	if op == command.OpYank {
		e.yank(text, true)
		e.cursor.Row = first
		return
	}

	e.edit()
	e.yank(text, true)
	if first == 0 && last == len(e.buf.lines)-1 {
		e.buf = newBuffer("")
		e.cursor = Position{}
		return
	}
	e.buf.lines = append(e.buf.lines[:first], e.buf.lines[last+1:]...)
	row := min(first, len(e.buf.lines)-1)
	e.cursor = Position{row, e.buf.firstNonBlank(row)}
}
