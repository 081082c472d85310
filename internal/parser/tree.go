package parser

import (
	"fmt"
	"strings"

	"github.com/startasm-lang/startasm/internal/ast"
)

// NodeKind tags parse tree nodes.
type NodeKind int

const (
	NodeRoot NodeKind = iota
	NodeInstruction
	NodeOperand
)

func (k NodeKind) String() string {
	switch k {
	case NodeRoot:
		return "root"
	case NodeInstruction:
		return "instruction"
	case NodeOperand:
		return "operand"
	default:
		return fmt.Sprintf("NodeKind(%d)", int(k))
	}
}

// Node is a parse tree node. Instruction nodes carry the folded mnemonic in
// Value; operand nodes carry the operand text and its lexical kind.
type Node struct {
	Kind     NodeKind
	Value    string
	Operand  ast.OperandKind
	Line     int
	Column   int
	Children []*Node
}

func (n *Node) String() string {
	if n.Kind != NodeInstruction {
		return n.Value
	}
	parts := make([]string, 0, len(n.Children)+1)
	parts = append(parts, n.Value)
	for _, c := range n.Children {
		parts = append(parts, c.Value)
	}
	return strings.Join(parts, " ")
}

// Tree is the parse tree of one source file. The root's children are the
// instruction lines in source order.
type Tree struct {
	Path string
	root *Node
}

// Root returns the root node, or nil once the tree was released.
func (t *Tree) Root() *Node { return t.root }

// Instructions returns the number of instruction lines.
func (t *Tree) Instructions() int {
	if t.root == nil {
		return 0
	}
	return len(t.root.Children)
}
