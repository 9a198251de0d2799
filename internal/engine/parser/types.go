// # internal/engine/parser/types.go
package parser

type NodeKind string

const (
	KindProgram  NodeKind = "Program"
	KindFunction NodeKind = "FunctionDeclaration"
	KindClass    NodeKind = "ClassDeclaration"
	KindImport   NodeKind = "ImportDeclaration"
)

// Node is a labeled line span. Children are owned by their parent and the
// tree is built fresh on every scan.
type Node struct {
	Kind      NodeKind `json:"kind" yaml:"kind"`
	Name      string   `json:"name,omitempty" yaml:"name,omitempty"` // empty only for the Program root
	StartLine int      `json:"start_line" yaml:"start_line"`
	EndLine   int      `json:"end_line" yaml:"end_line"`
	Children  []*Node  `json:"children,omitempty" yaml:"children,omitempty"`
}

func (n *Node) HasName() bool {
	return n != nil && n.Name != ""
}

func newProgram(lineCount int) *Node {
	return &Node{
		Kind:      KindProgram,
		StartLine: 1,
		EndLine:   lineCount,
	}
}

func newLeaf(kind NodeKind, name string, line int) *Node {
	return &Node{
		Kind:      kind,
		Name:      name,
		StartLine: line,
		EndLine:   line,
	}
}
