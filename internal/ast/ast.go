// Package ast defines the Abstract Syntax Tree (AST) for StartASM programs.
//
// The tree has three node variants: a single RootNode whose children are the
// program's instructions in source order, InstructionNodes, and OperandNodes.
// Every node exclusively owns its children. Child lists are guarded per node,
// so producers may insert into different nodes concurrently without contention.
// Once the tree has been built, passes only read it and traverse it through
// the Visitor protocol defined in visitor.go.
package ast

import (
	"fmt"
	"strings"
	"sync"
)

// Node is the base interface for all AST nodes.
type Node interface {
	// Type returns the variant tag of the node.
	Type() NodeType
	// Value returns the source text the node was built from.
	Value() string
	// InsertChild appends child and returns it, or returns nil for a nil child.
	InsertChild(child Node) Node
	// ChildAt returns the child at index, or nil when index is out of range.
	ChildAt(index int) Node
	// NumChildren returns the current number of children.
	NumChildren() int
	// Children returns a snapshot of the child list.
	Children() []Node
	// ReserveChildren is a capacity hint with no observable effect.
	ReserveChildren(n int)
	// Accept implements double dispatch for AST traversal.
	Accept(visitor Visitor)
	// Structured returns the tree-shaped record of the node and its subtree.
	Structured() *Structured
	// String returns a human-readable representation of the node.
	String() string
}

// base holds the state shared by every node variant.
type base struct {
	mu       sync.Mutex
	value    string
	children []Node
}

func (b *base) Value() string { return b.value }

func (b *base) InsertChild(child Node) Node {
	if isNil(child) {
		return nil
	}
	b.mu.Lock()
	b.children = append(b.children, child)
	b.mu.Unlock()
	return child
}

func (b *base) ChildAt(index int) Node {
	b.mu.Lock()
	defer b.mu.Unlock()
	if index < 0 || index >= len(b.children) {
		return nil
	}
	return b.children[index]
}

func (b *base) NumChildren() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.children)
}

func (b *base) Children() []Node {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Node, len(b.children))
	copy(out, b.children)
	return out
}

func (b *base) ReserveChildren(n int) {
	if n <= 0 {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if cap(b.children)-len(b.children) >= n {
		return
	}
	grown := make([]Node, len(b.children), len(b.children)+n)
	copy(grown, b.children)
	b.children = grown
}

// isNil catches typed nil pointers hidden in a Node interface.
func isNil(n Node) bool {
	switch v := n.(type) {
	case nil:
		return true
	case *RootNode:
		return v == nil
	case *InstructionNode:
		return v == nil
	case *OperandNode:
		return v == nil
	}
	return false
}

// ===== Variants =====

// RootNode is the single entry point of a tree. Its children are the
// program's instructions in source order.
type RootNode struct {
	base
}

// NewRootNode creates an empty root.
func NewRootNode() *RootNode { return &RootNode{} }

func (r *RootNode) Type() NodeType { return NodeRoot }
func (r *RootNode) String() string {
	var parts []string
	for _, c := range r.Children() {
		parts = append(parts, c.String())
	}
	return strings.Join(parts, "\n")
}

// Instructions returns the instruction children of the root in order.
func (r *RootNode) Instructions() []*InstructionNode {
	children := r.Children()
	out := make([]*InstructionNode, 0, len(children))
	for _, c := range children {
		if in, ok := c.(*InstructionNode); ok {
			out = append(out, in)
		}
	}
	return out
}

// InstructionNode is one line of the program.
type InstructionNode struct {
	base
	Kind  InstructionKind
	Arity Arity
	Line  int // 1-based source line
}

// NewInstructionNode creates an instruction node for mnemonic text.
func NewInstructionNode(value string, kind InstructionKind, arity Arity, line int) *InstructionNode {
	return &InstructionNode{base: base{value: value}, Kind: kind, Arity: arity, Line: line}
}

func (n *InstructionNode) Type() NodeType { return NodeInstruction }
func (n *InstructionNode) String() string {
	var ops []string
	for _, c := range n.Children() {
		ops = append(ops, c.String())
	}
	if len(ops) == 0 {
		return n.value
	}
	return fmt.Sprintf("%s %s", n.value, strings.Join(ops, " "))
}

// Operand returns the operand at position pos, or nil.
func (n *InstructionNode) Operand(pos int) *OperandNode {
	op, _ := n.ChildAt(pos).(*OperandNode)
	return op
}

// Operands returns the operand children in declaration order.
func (n *InstructionNode) Operands() []*OperandNode {
	children := n.Children()
	out := make([]*OperandNode, 0, len(children))
	for _, c := range children {
		if op, ok := c.(*OperandNode); ok {
			out = append(out, op)
		}
	}
	return out
}

// OperandNode is a single operand of an instruction.
type OperandNode struct {
	base
	Kind     OperandKind
	Line     int // 1-based source line
	Position int // 0-based index within the instruction's operands
}

// NewOperandNode creates an operand node.
func NewOperandNode(value string, kind OperandKind, line, pos int) *OperandNode {
	return &OperandNode{base: base{value: value}, Kind: kind, Line: line, Position: pos}
}

func (n *OperandNode) Type() NodeType { return NodeOperand }
func (n *OperandNode) String() string  { return n.value }
