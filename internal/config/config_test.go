package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nhath/lazydata/internal/db"
)

func withTestKey(t *testing.T) {
	t.Helper()
	key := []byte("0123456789abcdef0123456789abcdef")
	prev := masterKey
	masterKey = func() ([]byte, error) { return key, nil }
	t.Cleanup(func() { masterKey = prev })
}

func TestLoadCreatesDefaults(t *testing.T) {
	withTestKey(t)
	path := filepath.Join(t.TempDir(), "lazydata", "config.toml")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HistoryRetentionDays != 90 || cfg.EditorStyle != "nord" {
		t.Errorf("defaults = %+v", cfg)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("mode = %v, want 0600", perm)
	}
}

func TestLoadBackfillsMissingSections(t *testing.T) {
	withTestKey(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("default_connection = \"dev\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DefaultConnection != "dev" {
		t.Errorf("default connection = %q", cfg.DefaultConnection)
	}
	if cfg.Theme.Accent == "" || cfg.HistoryRetentionDays != 90 {
		t.Errorf("sections not back-filled: %+v", cfg)
	}
	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "theme_colors") {
		t.Errorf("back-filled config not saved:\n%s", data)
	}
}

func TestPasswordsEncryptedAtRest(t *testing.T) {
	withTestKey(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if err := cfg.AddConnection(Connection{
		Name: "dev", Type: "postgres", Host: "localhost", Port: 5432,
		User: "app", Password: "s3cret", SSHHost: "bastion", SSHPassword: "jump",
	}); err != nil {
		t.Fatalf("AddConnection: %v", err)
	}

	raw, _ := os.ReadFile(path)
	if strings.Contains(string(raw), "s3cret") || strings.Contains(string(raw), "jump") {
		t.Fatalf("password stored in clear text:\n%s", raw)
	}

	again, err := Load(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	conn, err := again.GetConnection("dev")
	if err != nil {
		t.Fatalf("GetConnection: %v", err)
	}
	if conn.Password != "s3cret" || conn.SSHPassword != "jump" {
		t.Errorf("passwords after reload = %q, %q", conn.Password, conn.SSHPassword)
	}
}

func TestAddRemoveConnection(t *testing.T) {
	withTestKey(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	local := Connection{Name: "local", Type: "sqlite", Host: "/tmp/app.db"}
	if err := cfg.AddConnection(local); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := cfg.AddConnection(local); err == nil {
		t.Error("duplicate name accepted")
	}
	if err := cfg.AddConnection(Connection{Name: "bad", Type: "oracle", Host: "x"}); err == nil {
		t.Error("unknown type accepted")
	}

	cfg.DefaultConnection = "local"
	if err := cfg.RemoveConnection("local"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if cfg.DefaultConnection != "" || len(cfg.Connections) != 0 {
		t.Errorf("after remove = %+v", cfg)
	}
	if err := cfg.RemoveConnection("local"); err == nil {
		t.Error("removing a missing connection succeeded")
	}
}

func TestResolve(t *testing.T) {
	cfg := DefaultConfig()
	if _, err := cfg.Resolve(""); err == nil {
		t.Error("resolve with no connections succeeded")
	}

	cfg.Connections = []Connection{{Name: "a"}}
	if c, err := cfg.Resolve(""); err != nil || c.Name != "a" {
		t.Errorf("single connection = %v, %v", c, err)
	}

	cfg.Connections = append(cfg.Connections, Connection{Name: "b"})
	if _, err := cfg.Resolve(""); err == nil {
		t.Error("ambiguous resolve succeeded")
	}
	cfg.DefaultConnection = "b"
	if c, _ := cfg.Resolve(""); c == nil || c.Name != "b" {
		t.Errorf("default = %v", c)
	}
	if c, _ := cfg.Resolve("a"); c == nil || c.Name != "a" {
		t.Errorf("explicit = %v", c)
	}
}

func TestParams(t *testing.T) {
	sqlite := Connection{Name: "f", Type: "sqlite", Host: "/data/app.db"}
	if p := sqlite.Params(); p.Database != "/data/app.db" || p.SSHConfig != nil {
		t.Errorf("sqlite params = %+v", p)
	}

	pg := Connection{Name: "p", Type: "pg", Host: "db", Port: 5433, User: "u", Password: "pw",
		Database: "app", SSHHost: "jump", SSHUser: "me", SSHKeyPath: "~/.ssh/id"}
	p := pg.Params()
	if p.Host != "db" || p.Port != 5433 || p.Password != "pw" || p.Database != "app" {
		t.Errorf("pg params = %+v", p)
	}
	if p.SSHConfig == nil || p.SSHConfig.Host != "jump" || p.SSHConfig.KeyPath != "~/.ssh/id" {
		t.Errorf("ssh = %+v", p.SSHConfig)
	}
	if typ, _ := pg.DriverType(); typ != db.Postgres {
		t.Errorf("type = %v", typ)
	}
}

func TestParseURL(t *testing.T) {
	tests := []struct {
		raw  string
		want Connection
	}{
		{"postgres://app:pw@db.local:6543/shop", Connection{Type: "postgres", Host: "db.local", Port: 6543, User: "app", Password: "pw", Database: "shop"}},
		{"mysql://root@127.0.0.1/mysql", Connection{Type: "mysql", Host: "127.0.0.1", User: "root", Database: "mysql"}},
		{"sqlite:///tmp/x.db", Connection{Type: "sqlite", Host: "/tmp/x.db"}},
		{"file:test.db", Connection{Type: "sqlite", Host: "test.db"}},
		{"plain.db", Connection{Type: "sqlite", Host: "plain.db"}},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseURL("n", tt.raw)
			if err != nil {
				t.Fatalf("ParseURL: %v", err)
			}
			tt.want.Name = "n"
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestEncryptDecrypt(t *testing.T) {
	key := []byte("0123456789abcdef0123456789abcdef")
	enc, err := Encrypt("hello", key)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if got, err := Decrypt(enc, key); err != nil || got != "hello" {
		t.Errorf("Decrypt = %q, %v", got, err)
	}
	if _, err := Decrypt(enc, []byte("fedcba9876543210fedcba9876543210")); err == nil {
		t.Error("wrong key decrypted")
	}
	if _, err := Decrypt("00", key); err == nil {
		t.Error("short ciphertext decrypted")
	}
}

func TestLoadInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("not = [valid"), 0o600); err != nil {
		t.Fatal(err)
	}
	_, err := Load(path)
	var pe *PersistenceError
	if !errors.As(err, &pe) {
		t.Errorf("err = %v, want PersistenceError", err)
	}
}
