package main

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func buildBinary(t *testing.T) string {
	t.Helper()
	bin := "test_labwatch.exe"
	cmd := exec.Command("go", "build", "-o", bin, ".")
	if err := cmd.Run(); err != nil {
		t.Fatalf("failed to build binary: %v", err)
	}
	t.Cleanup(func() { os.Remove(bin) })
	return "./" + bin
}

func TestMainVersionFlag(t *testing.T) {
	bin := buildBinary(t)

	output, err := exec.Command(bin, "--version").Output()
	if err != nil {
		t.Fatalf("failed to run version command: %v", err)
	}
	if !strings.Contains(string(output), "labwatch version") {
		t.Errorf("expected version output to contain 'labwatch version', got: %s", output)
	}
}

func TestMainHelp(t *testing.T) {
	bin := buildBinary(t)

	output, err := exec.Command(bin, "--help").Output()
	if err != nil {
		t.Fatalf("failed to run help command: %v", err)
	}

	outputStr := string(output)
	for _, want := range []string{
		"labwatch - Monitor reachability of external lab endpoints",
		"Usage:",
		"Options:",
		"Environment Variables:",
	} {
		if !strings.Contains(outputStr, want) {
			t.Errorf("expected help output to contain %q, got: %s", want, outputStr)
		}
	}
}

func TestMainInvalidEndpoint(t *testing.T) {
	bin := buildBinary(t)

	snapshot := filepath.Join(t.TempDir(), "logs.json")
	output, err := exec.Command(bin,
		"--endpoints", "ftp://example.com",
		"--telemetry-snapshot-path", snapshot).CombinedOutput()
	if err == nil {
		t.Fatal("expected error for unsupported endpoint scheme, but command succeeded")
	}
	if !strings.Contains(string(output), "labwatch:") {
		t.Errorf("expected error output, got: %s", output)
	}
}
