package db

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// CellKind is the variant held by a CellValue.
type CellKind int

const (
	CellNull CellKind = iota
	CellText
	CellInt
	CellUint
	CellFloat
	CellBool
	CellTimestamp
	CellBinary
	CellUUID
	CellStructured
)

// CellValue is one result cell in a backend-neutral form.
type CellValue struct {
	Kind       CellKind
	Text       string
	Int        int64
	Uint       uint64
	Float      float64
	Bool       bool
	Time       time.Time
	Bytes      []byte
	UUID       uuid.UUID
	Structured any
}

func Null() CellValue { return CellValue{Kind: CellNull} }
func Text(s string) CellValue { return CellValue{Kind: CellText, Text: s} }
func Int(i int64) CellValue { return CellValue{Kind: CellInt, Int: i} }
func Uint(u uint64) CellValue { return CellValue{Kind: CellUint, Uint: u} }
func Float(f float64) CellValue { return CellValue{Kind: CellFloat, Float: f} }
func Bool(b bool) CellValue { return CellValue{Kind: CellBool, Bool: b} }
func Timestamp(t time.Time) CellValue { return CellValue{Kind: CellTimestamp, Time: t} }
func Binary(b []byte) CellValue { return CellValue{Kind: CellBinary, Bytes: b} }
func UUID(u uuid.UUID) CellValue { return CellValue{Kind: CellUUID, UUID: u} }
func Structured(v any) CellValue { return CellValue{Kind: CellStructured, Structured: v} }

// binaryTypes are column types whose []byte values are raw bytes, not text.
var binaryTypes = map[string]bool{
	"BYTEA": true, "BLOB": true, "TINYBLOB": true, "MEDIUMBLOB": true, "LONGBLOB": true,
	"BINARY": true, "VARBINARY": true, "BIT": true, "GEOMETRY": true,
}

// NewCellValue converts a driver value into a CellValue. typeName is the
// database type reported for the column (may be empty). Typed extractions
// are tried in a fixed order; a value nothing recognises becomes empty text.
func NewCellValue(v any, typeName string) CellValue {
	typeName = strings.ToUpper(typeName)

	switch val := v.(type) {
	case nil:
		return Null()
	case string:
		return fromString(val, typeName)
	case int:
		return Int(int64(val))
	case int8:
		return Int(int64(val))
	case int16:
		return Int(int64(val))
	case int32:
		return Int(int64(val))
	case int64:
		return Int(val)
	case uint:
		return Uint(uint64(val))
	case uint8:
		return Uint(uint64(val))
	case uint16:
		return Uint(uint64(val))
	case uint32:
		return Uint(uint64(val))
	case uint64:
		return Uint(val)
	case float32:
		return Float(float64(val))
	case float64:
		return Float(val)
	case bool:
		return Bool(val)
	case uuid.UUID:
		return UUID(val)
	case [16]byte:
		return UUID(uuid.UUID(val))
	case time.Time:
		return Timestamp(val)
	case json.RawMessage:
		return fromJSON(val)
	case []byte:
		return fromBytes(val, typeName)
	case map[string]any, []any:
		return Structured(val)
	case fmt.Stringer:
		return Text(val.String())
	}
	return Text("")
}

func fromString(s, typeName string) CellValue {
	switch typeName {
	case "UUID":
		if u, err := uuid.Parse(s); err == nil {
			return UUID(u)
		}
	case "JSON", "JSONB":
		return fromJSON([]byte(s))
	}
	return Text(s)
}

func fromJSON(b []byte) CellValue {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return Text(string(b))
	}
	return Structured(v)
}

func fromBytes(b []byte, typeName string) CellValue {
	switch {
	case typeName == "UUID" && len(b) == 16:
		u, _ := uuid.FromBytes(b)
		return UUID(u)
	case typeName == "UUID":
		if u, err := uuid.ParseBytes(b); err == nil {
			return UUID(u)
		}
	case typeName == "JSON" || typeName == "JSONB":
		return fromJSON(b)
	case binaryTypes[typeName]:
		return Binary(append([]byte(nil), b...))
	case typeName == "" && !utf8.Valid(b):
		return Binary(append([]byte(nil), b...))
	}
	return Text(string(b))
}

// Display renders the cell as text. It is the only coercion from cell to
// string used by the table, clipboard and history preview.
func (c CellValue) Display() string {
	switch c.Kind {
	case CellNull:
		return "NULL"
	case CellText:
		return c.Text
	case CellInt:
		return strconv.FormatInt(c.Int, 10)
	case CellUint:
		return strconv.FormatUint(c.Uint, 10)
	case CellFloat:
		return strconv.FormatFloat(c.Float, 'f', -1, 64)
	case CellBool:
		return strconv.FormatBool(c.Bool)
	case CellTimestamp:
		return formatTime(c.Time)
	case CellBinary:
		return hex.EncodeToString(c.Bytes)
	case CellUUID:
		return c.UUID.String()
	case CellStructured:
		b, err := json.Marshal(c.Structured)
		if err != nil {
			return ""
		}
		return string(b)
	}
	return ""
}

func (c CellValue) String() string { return c.Display() }

func formatTime(t time.Time) string {
	layout := "2006-01-02 15:04:05"
	if t.Nanosecond() != 0 {
		layout += ".999999999"
	}
	if t.Location() != time.UTC {
		layout += " -07:00"
	}
	return t.Format(layout)
}
