package db

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNewCellValue(t *testing.T) {
	id := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	tests := []struct {
		name     string
		value    any
		typeName string
		kind     CellKind
		display  string
	}{
		{"nil", nil, "", CellNull, "NULL"},
		{"string", "hello", "TEXT", CellText, "hello"},
		{"int32", int32(-7), "INT4", CellInt, "-7"},
		{"int64", int64(42), "", CellInt, "42"},
		{"uint8", uint8(200), "", CellUint, "200"},
		{"float", 1.5, "FLOAT8", CellFloat, "1.5"},
		{"bool", true, "BOOL", CellBool, "true"},
		{"uuid value", id, "UUID", CellUUID, id.String()},
		{"uuid array", [16]byte(id), "UUID", CellUUID, id.String()},
		{"uuid text", id.String(), "uuid", CellUUID, id.String()},
		{"uuid raw bytes", id[:], "UUID", CellUUID, id.String()},
		{"json bytes", []byte(`{"a":1}`), "JSONB", CellStructured, `{"a":1}`},
		{"json string", `[1,2]`, "JSON", CellStructured, `[1,2]`},
		{"invalid json", []byte(`{nope`), "JSON", CellText, `{nope`},
		{"bytea", []byte{0xde, 0xad}, "BYTEA", CellBinary, "dead"},
		{"varchar bytes", []byte("abc"), "VARCHAR", CellText, "abc"},
		{"untyped invalid utf8", []byte{0xff, 0xfe}, "", CellBinary, "fffe"},
		{"map", map[string]any{"k": "v"}, "", CellStructured, `{"k":"v"}`},
		{"unknown", struct{}{}, "", CellText, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewCellValue(tt.value, tt.typeName)
			if got.Kind != tt.kind {
				t.Fatalf("kind = %v, want %v", got.Kind, tt.kind)
			}
			if got.Display() != tt.display {
				t.Errorf("Display() = %q, want %q", got.Display(), tt.display)
			}
		})
	}
}

func TestTimestampDisplay(t *testing.T) {
	tests := []struct {
		name string
		t    time.Time
		want string
	}{
		{"utc", time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC), "2024-03-01 12:30:00"},
		{"fraction", time.Date(2024, 3, 1, 12, 30, 0, 500000000, time.UTC), "2024-03-01 12:30:00.5"},
		{"offset", time.Date(2024, 3, 1, 12, 30, 0, 0, time.FixedZone("X", 2*3600)), "2024-03-01 12:30:00 +02:00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Timestamp(tt.t).Display(); got != tt.want {
				t.Errorf("Display() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBinaryIsCopied(t *testing.T) {
	src := []byte{1, 2, 3}
	c := NewCellValue(src, "BLOB")
	src[0] = 9
	if c.Display() != "010203" {
		t.Errorf("cell shares driver buffer: %q", c.Display())
	}
}

func TestStructuredDisplayIsJSON(t *testing.T) {
	c := Structured([]any{"a", nil, 1.0})
	var back []any
	if err := json.Unmarshal([]byte(c.Display()), &back); err != nil {
		t.Fatalf("display is not json: %v", err)
	}
	if len(back) != 3 || back[1] != nil {
		t.Errorf("round trip = %v", back)
	}
}

func TestErrorWrapping(t *testing.T) {
	base := errors.New("boom")
	if WrapQueryError(nil) != nil || WrapConnectionError(nil) != nil {
		t.Fatal("wrapping nil must stay nil")
	}

	var qe *QueryError
	if err := WrapQueryError(base); !errors.As(err, &qe) || !errors.Is(err, base) {
		t.Errorf("query error does not unwrap: %v", err)
	}
	var ce *ConnectionError
	if err := WrapConnectionError(base); !errors.As(err, &ce) || !errors.Is(err, base) {
		t.Errorf("connection error does not unwrap: %v", err)
	}
}

func TestParseDriverType(t *testing.T) {
	for in, want := range map[string]DriverType{
		"postgres": Postgres, "PG": Postgres, "postgresql": Postgres,
		"mysql": MySQL, "mariadb": MySQL,
		"sqlite": SQLite, " sqlite3 ": SQLite,
	} {
		got, err := ParseDriverType(in)
		if err != nil || got != want {
			t.Errorf("ParseDriverType(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseDriverType("oracle"); err == nil {
		t.Error("expected error for unknown type")
	}
}

func TestHumanBytes(t *testing.T) {
	for n, want := range map[int64]string{
		0:       "0 bytes",
		1023:    "1023 bytes",
		1024:    "1.0 kB",
		1536:    "1.5 kB",
		1 << 20: "1.0 MB",
	} {
		if got := humanBytes(n); got != want {
			t.Errorf("humanBytes(%d) = %q, want %q", n, got, want)
		}
	}
}
