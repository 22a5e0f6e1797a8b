package testutil

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// GoldenUpdateEnv, when set, rewrites golden files instead of comparing.
const GoldenUpdateEnv = "TODO_GOLDEN_UPDATE"

// uuidPattern matches the server-assigned ids the fake server hands out.
var uuidPattern = regexp.MustCompile(`[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}`)

// ScrubIDs replaces every UUID in s with "<id>".
func ScrubIDs(s string) string {
	return uuidPattern.ReplaceAllString(s, "<id>")
}

// Golden compares output against testdata/<name>.golden.
func Golden(t *testing.T, name string, got []byte) {
	t.Helper()

	goldenPath := filepath.Join("testdata", name+".golden")

	if os.Getenv(GoldenUpdateEnv) != "" {
		if err := os.MkdirAll("testdata", 0755); err != nil {
			t.Fatalf("failed to create testdata dir: %v", err)
		}
		if err := os.WriteFile(goldenPath, got, 0644); err != nil {
			t.Fatalf("failed to update golden file: %v", err)
		}
		return
	}

	want, err := os.ReadFile(goldenPath)
	if err != nil {
		t.Fatalf("failed to read golden file %s (set %s=1 to create it): %v\nGot:\n%s", goldenPath, GoldenUpdateEnv, err, got)
	}

	if diff := cmp.Diff(string(want), string(got)); diff != "" {
		t.Errorf("output mismatch for %s (-want +got):\n%s", name, diff)
	}
}

// GoldenString is like Golden but takes a string.
func GoldenString(t *testing.T, name string, got string) {
	t.Helper()
	Golden(t, name, []byte(got))
}

// GoldenScrubbed is GoldenString with server ids masked.
func GoldenScrubbed(t *testing.T, name string, got string) {
	t.Helper()
	GoldenString(t, name, ScrubIDs(got))
}
