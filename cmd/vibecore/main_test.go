package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunCLIHelp(t *testing.T) {
	if err := runCLI([]string{"vibecore", "help"}); err != nil {
		t.Fatalf("runCLI help failed: %v", err)
	}
}

func TestRunCLIInvalidCommand(t *testing.T) {
	err := runCLI([]string{"vibecore", "unknown"})
	if err == nil {
		t.Fatalf("expected invalid command error")
	}
	if !strings.Contains(err.Error(), "invalid command") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRunCLIWithoutCommand(t *testing.T) {
	err := runCLI([]string{"vibecore"})
	if err == nil {
		t.Fatalf("expected invalid command error")
	}
	if !strings.Contains(err.Error(), "invalid command") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestEvalCommandPrintsResult(t *testing.T) {
	var out bytes.Buffer
	if err := evalCommand([]string{"[1, 2, 3].map(&:to_f)"}, &out); err != nil {
		t.Fatalf("evalCommand failed: %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != "[1.0, 2.0, 3.0]  # float64, len 3" {
		t.Fatalf("unexpected stdout: %q", got)
	}
}

func TestEvalCommandJoinsArguments(t *testing.T) {
	var out bytes.Buffer
	if err := evalCommand([]string{"1", "+", "2"}, &out); err != nil {
		t.Fatalf("evalCommand failed: %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != "3" {
		t.Fatalf("unexpected stdout: %q", got)
	}
}

func TestEvalCommandUsesConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.toml")
	if err := os.WriteFile(path, []byte("small_map_capacity = 2\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	var out bytes.Buffer
	if err := evalCommand([]string{"-config", path, "{a: 1, b: 2, c: 3}"}, &out); err != nil {
		t.Fatalf("evalCommand failed: %v", err)
	}
	if got := out.String(); !strings.Contains(got, "# table, size 3") {
		t.Fatalf("config not applied: %q", got)
	}
}

func TestEvalCommandErrors(t *testing.T) {
	if err := evalCommand(nil, new(bytes.Buffer)); err == nil || !strings.Contains(err.Error(), "expression required") {
		t.Fatalf("expected missing expression error, got %v", err)
	}
	err := evalCommand([]string{"[1][3] = 1"}, new(bytes.Buffer))
	if err == nil || !strings.Contains(err.Error(), "evaluation failed") {
		t.Fatalf("expected evaluation error, got %v", err)
	}
	missing := filepath.Join(t.TempDir(), "missing.yaml")
	if err := evalCommand([]string{"-config", missing, "1"}, new(bytes.Buffer)); err == nil {
		t.Fatalf("expected config load error")
	}
}

func TestLoadConfigDebugInstallsLogger(t *testing.T) {
	var logs bytes.Buffer
	cfg, err := loadConfig(&commonFlags{debug: true}, &logs)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	wb := NewWorkbench(cfg)
	if _, err := wb.Eval("a = [1]; a.push(nil)"); err != nil {
		t.Fatalf("eval: %v", err)
	}
	if !strings.Contains(logs.String(), "storage transition") || !strings.Contains(logs.String(), "to=boxed") {
		t.Fatalf("expected transition debug logs, got %q", logs.String())
	}
}
