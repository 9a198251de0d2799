package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"shadow/internal/core/errors"
)

func TestReplaceBetweenMarkers(t *testing.T) {
	content := strings.Join([]string{
		"# Docs",
		"<!-- shadow:deps:start -->",
		"old",
		"<!-- shadow:deps:end -->",
	}, "\n")
	got, err := ReplaceBetweenMarkers(content, "deps", "new-line")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "<!-- shadow:deps:start -->\nnew-line\n<!-- shadow:deps:end -->") {
		t.Fatalf("unexpected marker replacement result: %s", got)
	}
	if strings.Contains(got, "old") {
		t.Fatalf("expected old block to be replaced: %s", got)
	}
}

func TestReplaceBetweenMarkers_Errors(t *testing.T) {
	if _, err := ReplaceBetweenMarkers("no markers here", "deps", "content"); !errors.IsCode(err, errors.CodeValidationError) {
		t.Fatalf("expected VALIDATION_ERROR for missing markers, got %v", err)
	}
	if _, err := ReplaceBetweenMarkers("x", " ", "content"); err == nil {
		t.Fatal("expected error for empty marker")
	}
	reversed := "<!-- shadow:deps:end -->\n<!-- shadow:deps:start -->\n"
	if _, err := ReplaceBetweenMarkers(reversed, "deps", "content"); err == nil {
		t.Fatal("expected error for reversed markers")
	}
}

func TestInjectDiagram(t *testing.T) {
	path := filepath.Join(t.TempDir(), "README.md")
	initial := "<!-- shadow:deps:start -->\nold\n<!-- shadow:deps:end -->\n"
	if err := os.WriteFile(path, []byte(initial), 0644); err != nil {
		t.Fatal(err)
	}
	if err := InjectDiagram(path, "deps", "```mermaid\nflowchart LR\n```"); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "flowchart LR") {
		t.Fatalf("expected updated markdown diagram, got: %s", string(data))
	}
}

func TestInjectDiagram_MissingFile(t *testing.T) {
	err := InjectDiagram(filepath.Join(t.TempDir(), "absent.md"), "deps", "x")
	if !errors.IsCode(err, errors.CodeIOFailure) {
		t.Fatalf("expected IO_FAILURE, got %v", err)
	}
}

func TestReplaceBetweenMarkers_KeepsCRLF(t *testing.T) {
	content := "a\r\n" + MarkerStart("g") + "\r\nold\r\n" + MarkerEnd("g") + "\r\n"
	got, err := ReplaceBetweenMarkers(content, "g", "new\n")
	if err != nil {
		t.Fatal(err)
	}
	want := "a\r\n" + MarkerStart("g") + "\r\nnew\r\n" + MarkerEnd("g") + "\r\n"
	if got != want {
		t.Errorf("want %q, got %q", want, got)
	}
}
