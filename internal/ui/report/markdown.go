package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"shadow/internal/core/errors"
)

// MarkerStart and MarkerEnd delimit a generated block inside a markdown file.
func MarkerStart(name string) string {
	return fmt.Sprintf("<!-- shadow:%s:start -->", name)
}

func MarkerEnd(name string) string {
	return fmt.Sprintf("<!-- shadow:%s:end -->", name)
}

// InjectDiagram replaces the block between the named markers in a markdown
// file. The file is rewritten through a temp file in the same directory.
func InjectDiagram(filePath, marker, diagram string) error {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return errors.IOFailure(filePath, err)
	}

	next, err := ReplaceBetweenMarkers(string(content), marker, diagram)
	if err != nil {
		return errors.AddContext(err, errors.CtxPath, filePath)
	}

	tmp, err := os.CreateTemp(filepath.Dir(filePath), ".shadow-inject-*.tmp")
	if err != nil {
		return errors.IOFailure(filePath, err)
	}
	tmpName := tmp.Name()

	_, writeErr := tmp.WriteString(next)
	if closeErr := tmp.Close(); writeErr == nil {
		writeErr = closeErr
	}
	if writeErr == nil {
		writeErr = os.Rename(tmpName, filePath)
	}
	if writeErr != nil {
		_ = os.Remove(tmpName)
		return errors.IOFailure(filePath, writeErr)
	}
	return nil
}

// ReplaceBetweenMarkers swaps the text between one start marker and one end
// marker, keeping the markers and the file's line ending style.
func ReplaceBetweenMarkers(content, marker, replacement string) (string, error) {
	marker = strings.TrimSpace(marker)
	if marker == "" {
		return "", errors.New(errors.CodeValidationError, "markdown marker must not be empty")
	}

	start, end := MarkerStart(marker), MarkerEnd(marker)
	if strings.Count(content, start) != 1 || strings.Count(content, end) != 1 {
		return "", errors.New(errors.CodeValidationError,
			fmt.Sprintf("markers for %q must each appear exactly once", marker))
	}
	startIdx := strings.Index(content, start)
	endIdx := strings.Index(content, end)
	if endIdx < startIdx {
		return "", errors.New(errors.CodeValidationError,
			fmt.Sprintf("end marker for %q precedes its start marker", marker))
	}

	newline := "\n"
	if strings.Contains(content, "\r\n") {
		newline = "\r\n"
	}
	body := strings.TrimRight(replacement, "\r\n")
	return content[:startIdx+len(start)] + newline + body + newline + content[endIdx:], nil
}
