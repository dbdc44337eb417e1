package resulttable

// Tabs is a fixed list of titles with one active index.
type Tabs struct {
	Titles []string
	Index  int
}

func NewTabs(titles ...string) Tabs {
	return Tabs{Titles: titles}
}

// Next wraps past the last tab.
func (t *Tabs) Next() {
	if len(t.Titles) > 0 {
		t.Index = (t.Index + 1) % len(t.Titles)
	}
}

// Previous wraps before the first tab.
func (t *Tabs) Previous() {
	if n := len(t.Titles); n > 0 {
		t.Index = (t.Index + n - 1) % n
	}
}

// SetIndex ignores out-of-range indexes.
func (t *Tabs) SetIndex(i int) {
	if i >= 0 && i < len(t.Titles) {
		t.Index = i
	}
}
