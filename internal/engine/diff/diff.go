package diff

import (
	"fmt"

	"shadow/internal/engine/parser"
	"shadow/internal/shared/observability"
)

type ChangeType string

const (
	Added    ChangeType = "Added"
	Removed  ChangeType = "Removed"
	Modified ChangeType = "Modified"
)

type LineRange struct {
	Start int `json:"start" yaml:"start"`
	End   int `json:"end" yaml:"end"`
}

type Change struct {
	Type       ChangeType      `json:"change_type" yaml:"change_type"`
	Kind       parser.NodeKind `json:"kind" yaml:"kind"`
	Name       string          `json:"name" yaml:"name"`
	Lines      LineRange       `json:"line_range" yaml:"line_range"`
	OldContent string          `json:"old_content,omitempty" yaml:"old_content,omitempty"`
	NewContent string          `json:"new_content,omitempty" yaml:"new_content,omitempty"`
}

type FileDiff struct {
	FilePath string   `json:"file_path" yaml:"file_path"`
	Changes  []Change `json:"changes" yaml:"changes"`
}

type Engine struct {
	registry *parser.Registry
}

func NewEngine(registry *parser.Registry) *Engine {
	return &Engine{registry: registry}
}

// Compute scans both versions of path and diffs the resulting trees. An
// unsupported extension fails this call only.
func (e *Engine) Compute(path, oldContent, newContent string) (FileDiff, error) {
	oldTree, err := e.registry.Parse(path, []byte(oldContent))
	if err != nil {
		return FileDiff{}, err
	}
	newTree, err := e.registry.Parse(path, []byte(newContent))
	if err != nil {
		return FileDiff{}, err
	}

	changes := Diff(oldTree, newTree)
	for _, c := range changes {
		observability.DiffChangesTotal.WithLabelValues(string(c.Type)).Inc()
	}
	return FileDiff{FilePath: path, Changes: changes}, nil
}

// Diff matches the direct children of old and new by name and recurses into
// every matched pair. Unnamed children are ignored. When siblings share a
// name the last one wins.
//
// Removed changes come first in old-tree order, then Added and Modified
// changes in new-tree order, each followed by the changes of its subtree.
func Diff(oldNode, newNode *parser.Node) []Change {
	changes := make([]Change, 0)
	oldChildren := indexChildren(oldNode)
	newChildren := indexChildren(newNode)

	for _, name := range oldChildren.order {
		if _, ok := newChildren.byName[name]; ok {
			continue
		}
		oldChild := oldChildren.byName[name]
		changes = append(changes, Change{
			Type:       Removed,
			Kind:       oldChild.Kind,
			Name:       name,
			Lines:      LineRange{Start: oldChild.StartLine, End: oldChild.EndLine},
			OldContent: summary(oldChild),
		})
	}

	for _, name := range newChildren.order {
		newChild := newChildren.byName[name]
		oldChild, ok := oldChildren.byName[name]
		if !ok {
			changes = append(changes, Change{
				Type:       Added,
				Kind:       newChild.Kind,
				Name:       name,
				Lines:      LineRange{Start: newChild.StartLine, End: newChild.EndLine},
				NewContent: summary(newChild),
			})
			continue
		}

		if nodesDiffer(oldChild, newChild) {
			changes = append(changes, Change{
				Type:       Modified,
				Kind:       newChild.Kind,
				Name:       name,
				Lines:      LineRange{Start: newChild.StartLine, End: newChild.EndLine},
				OldContent: summary(oldChild),
				NewContent: summary(newChild),
			})
		}
		changes = append(changes, Diff(oldChild, newChild)...)
	}

	return changes
}

type nameIndex struct {
	order  []string
	byName map[string]*parser.Node
}

func indexChildren(n *parser.Node) nameIndex {
	idx := nameIndex{byName: make(map[string]*parser.Node)}
	if n == nil {
		return idx
	}
	for _, child := range n.Children {
		if !child.HasName() {
			continue
		}
		if _, seen := idx.byName[child.Name]; !seen {
			idx.order = append(idx.order, child.Name)
		}
		idx.byName[child.Name] = child
	}
	return idx
}

// Only kind and direct child count are compared; body edits are invisible.
func nodesDiffer(oldNode, newNode *parser.Node) bool {
	return oldNode.Kind != newNode.Kind || len(oldNode.Children) != len(newNode.Children)
}

func summary(n *parser.Node) string {
	return fmt.Sprintf("%s %s", n.Kind, n.Name)
}
