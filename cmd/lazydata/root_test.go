package main

import (
	"bytes"
	"strings"
	"testing"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootFlags(t *testing.T) {
	cmd := newRootCmd()
	for _, name := range []string{"debug", "config", "connection"} {
		if cmd.Flags().Lookup(name) == nil {
			t.Errorf("missing --%s", name)
		}
	}
	if f := cmd.Flags().ShorthandLookup("c"); f == nil || f.Name != "connection" {
		t.Error("-c should be --connection")
	}
}

func TestConnectionsSubcommands(t *testing.T) {
	cmd := newRootCmd()
	for _, path := range [][]string{
		{"connections", "list"},
		{"connections", "add"},
		{"connections", "remove"},
		{"conn", "rm"},
	} {
		found, _, err := cmd.Find(path)
		if err != nil || found == cmd {
			t.Errorf("%v not found: %v", path, err)
		}
	}
}

func TestConnectionsArgValidation(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"remove needs a name", []string{"connections", "remove"}, "accepts 1 arg"},
		{"add needs --name", []string{"connections", "add", "--type", "sqlite"}, `"name" not set`},
		{"url excludes type", []string{"connections", "add", "--name", "x", "--url", "sqlite://a.db", "--type", "sqlite"}, "none of the others"},
		{"list takes no args", []string{"connections", "list", "extra"}, "unknown command"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want it to mention %q", err, tt.want)
			}
		})
	}
}
