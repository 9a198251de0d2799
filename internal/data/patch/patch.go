// # internal/data/patch/patch.go
package patch

import (
	"strings"

	"shadow/internal/core/errors"

	"github.com/sourcegraph/go-diff/diff"
)

const devNull = "/dev/null"

// FileStat summarizes one file section of a unified diff.
type FileStat struct {
	OldPath      string `json:"old_path,omitempty" yaml:"old_path,omitempty"`
	NewPath      string `json:"new_path,omitempty" yaml:"new_path,omitempty"`
	LinesAdded   int    `json:"lines_added" yaml:"lines_added"`
	LinesRemoved int    `json:"lines_removed" yaml:"lines_removed"`
}

// Path is the post-change path, or the old one for deletions.
func (f FileStat) Path() string {
	if f.NewPath != "" {
		return f.NewPath
	}
	return f.OldPath
}

// Parse reads a unified (optionally git-style) multi-file diff.
func Parse(patchText string) ([]FileStat, error) {
	fileDiffs, err := diff.NewMultiFileDiffReader(strings.NewReader(patchText)).ReadAllFiles()
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeValidationError, "malformed patch")
	}

	stats := make([]FileStat, 0, len(fileDiffs))
	for _, fd := range fileDiffs {
		st := FileStat{
			OldPath: cleanName(fd.OrigName, "a/"),
			NewPath: cleanName(fd.NewName, "b/"),
		}
		if st.OldPath == "" && st.NewPath == "" {
			continue
		}
		for _, hunk := range fd.Hunks {
			for _, line := range strings.Split(string(hunk.Body), "\n") {
				switch {
				case strings.HasPrefix(line, "+"):
					st.LinesAdded++
				case strings.HasPrefix(line, "-"):
					st.LinesRemoved++
				}
			}
		}
		stats = append(stats, st)
	}
	return stats, nil
}

// ChangedFiles lists every path the patch touches in first-seen order. Both
// sides of a rename are reported.
func ChangedFiles(patchText string) ([]string, error) {
	stats, err := Parse(patchText)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	out := make([]string, 0, len(stats))
	add := func(p string) {
		if p == "" {
			return
		}
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	for _, st := range stats {
		add(st.OldPath)
		add(st.NewPath)
	}
	return out, nil
}

func cleanName(name, gitPrefix string) string {
	name = strings.TrimSpace(name)
	if name == "" || name == devNull {
		return ""
	}
	// Timestamps trail the name in plain `diff -u` headers.
	if before, _, ok := strings.Cut(name, "\t"); ok {
		name = before
	}
	return strings.TrimPrefix(name, gitPrefix)
}
