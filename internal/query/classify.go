// Package query classifies statements and runs them through a backend
// executor, recording statistics and history for every attempt.
package query

import (
	"strings"
	"unicode"
)

// Kind is the coarse statement category.
type Kind int

const (
	Unknown Kind = iota
	Select
	Insert
	Update
	Delete
)

func (k Kind) String() string {
	switch k {
	case Select:
		return "SELECT"
	case Insert:
		return "INSERT"
	case Update:
		return "UPDATE"
	case Delete:
		return "DELETE"
	}
	return "UNKNOWN"
}

// Mutating reports whether the statement returns an affected-row count
// rather than rows.
func (k Kind) Mutating() bool {
	return k == Insert || k == Update || k == Delete
}

var leadingKeywords = map[string]Kind{
	"SELECT": Select,
	"INSERT": Insert,
	"UPDATE": Update,
	"DELETE": Delete,
}

// Classify looks only at the first keyword, ignoring case and leading
// whitespace.
func Classify(sql string) Kind {
	return leadingKeywords[strings.ToUpper(firstWord(sql))]
}

func firstWord(sql string) string {
	sql = strings.TrimLeftFunc(sql, unicode.IsSpace)
	end := strings.IndexFunc(sql, func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	if end < 0 {
		return sql
	}
	return sql[:end]
}
