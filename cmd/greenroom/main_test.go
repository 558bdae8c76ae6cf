package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConfigInitWritesSample(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")

	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"config", "init", "--path", target})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("config init failed: %v", err)
	}
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("sample config not written: %v", err)
	}
	if !strings.Contains(out.String(), "Wrote sample configuration") {
		t.Fatalf("unexpected output: %s", out.String())
	}

	// Re-running without --overwrite refuses to clobber the file.
	cmd = newRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"config", "init", "--path", target})
	if err := cmd.Execute(); err == nil {
		t.Fatal("expected error when config already exists")
	}
}

func TestEpisodeLifecycleThroughCLI(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.toml")
	content := `
[paths]
data_dir = "` + filepath.Join(dir, "data") + `"
log_dir = "` + filepath.Join(dir, "logs") + `"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	run := func(args ...string) string {
		t.Helper()
		cmd := newRootCommand()
		var out bytes.Buffer
		cmd.SetOut(&out)
		cmd.SetErr(&out)
		cmd.SetArgs(append([]string{"-c", configPath}, args...))
		if err := cmd.Execute(); err != nil {
			t.Fatalf("command %v failed: %v\n%s", args, err, out.String())
		}
		return out.String()
	}

	run("team", "add-user", "--name", "Producer", "--role", "producer")
	run("team", "add-user", "--name", "Arranger", "--role", "music_arranger")
	run("team", "add-member", "--program", "morning-show", "--user", "2", "--role", "music_arranger")

	out := run("episode", "add", "--program", "morning-show", "--number", "1", "--title", "Pilot", "--air-date", "2025-06-01")
	if !strings.Contains(out, "registered") {
		t.Fatalf("unexpected episode add output: %s", out)
	}

	out = run("episode", "list")
	if !strings.Contains(out, "morning-show") || !strings.Contains(out, "Pilot") {
		t.Fatalf("episode list missing entry: %s", out)
	}

	run("task", "create", "--episode", "1", "--kind", "music_arrangement", "--user", "2")
	run("task", "submit", "1", "--user", "2")
	run("task", "approve", "1", "--user", "1")

	out = run("status", "1")
	if !strings.Contains(out, "creative_work") {
		t.Fatalf("status should show the advanced stage: %s", out)
	}

	out = run("deadlines", "1")
	if !strings.Contains(out, "editor") {
		t.Fatalf("deadlines output missing editor row: %s", out)
	}

	out = run("outbox", "drain")
	if !strings.Contains(out, "Delivered") {
		t.Fatalf("unexpected outbox output: %s", out)
	}
}

func TestRenderTablePadsShortRows(t *testing.T) {
	out := renderTable(
		[]string{"A", "B"},
		[][]string{{"1"}},
		[]columnAlignment{alignRight, alignLeft},
	)
	if !strings.Contains(out, "A") || !strings.Contains(out, "1") {
		t.Fatalf("unexpected table output: %s", out)
	}
}
