package cli

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/log"
)

func TestRootCommandSubcommands(t *testing.T) {
	c := New(&bytes.Buffer{}, log.InfoLevel)
	root := c.RootCommand()

	want := map[string]bool{
		"search":     false,
		"install":    false,
		"installed":  false,
		"cache":      false,
		"completion": false,
	}
	for _, sub := range root.Commands() {
		if _, ok := want[sub.Name()]; ok {
			want[sub.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("root command missing subcommand %q", name)
		}
	}
}

func TestRootCommandFlags(t *testing.T) {
	c := New(&bytes.Buffer{}, log.InfoLevel)
	root := c.RootCommand()

	if root.PersistentFlags().Lookup("config") == nil {
		t.Error("root command missing --config flag")
	}
	if root.PersistentFlags().Lookup("verbose") == nil {
		t.Error("root command missing --verbose flag")
	}
}

func TestSetLogLevel(t *testing.T) {
	c := New(&bytes.Buffer{}, log.InfoLevel)
	c.SetLogLevel(log.DebugLevel)

	if c.Logger.GetLevel() != log.DebugLevel {
		t.Errorf("log level = %v, want %v", c.Logger.GetLevel(), log.DebugLevel)
	}
}

func TestFormatDownloads(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "0"},
		{412, "412"},
		{1_000, "1k"},
		{833_219, "833k"},
		{1_000_000, "1.0M"},
		{12_400_000, "12.4M"},
	}
	for _, tt := range tests {
		if got := formatDownloads(tt.n); got != tt.want {
			t.Errorf("formatDownloads(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate short = %q", got)
	}
	if got := truncate("a very long description", 10); len([]rune(got)) != 10 {
		t.Errorf("truncate long = %q, want 10 runes", got)
	}
}

func TestIndexPath(t *testing.T) {
	got := indexPath("/games/skyfall")
	if got != "/games/skyfall/.modsmith.db" {
		t.Errorf("indexPath = %q", got)
	}
}
