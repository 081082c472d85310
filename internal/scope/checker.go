// Package scope checks that every address an AST refers to exists: label
// references must name a declared label and memory addresses must fall
// inside the memory of the machine.
package scope

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/startasm-lang/startasm/internal/ast"
	"github.com/startasm-lang/startasm/internal/lexer"
)

// MemorySize is the number of addressable memory cells.
const MemorySize = 256

// Error is an out-of-scope address.
type Error struct {
	Line    int
	Address string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("Address scope check failed at line %d: %s", e.Line, e.Message)
}

// Checker runs the address scope check.
type Checker struct {
	memorySize int64
}

// NewChecker creates a checker for a machine with MemorySize cells.
func NewChecker() *Checker { return &Checker{memorySize: MemorySize} }

// CheckAddressScopes walks root and returns every scope error joined, in
// line order. lines is the source text quoted in messages.
func (c *Checker) CheckAddressScopes(root *ast.RootNode, lines []string) error {
	if root == nil {
		return nil
	}
	v := &visitor{
		memorySize: c.memorySize,
		labels:     declaredLabels(root),
		lines:      lines,
	}
	ast.Walk(root, v)

	if len(v.errs) == 0 {
		return nil
	}
	sort.SliceStable(v.errs, func(i, j int) bool { return v.errs[i].Line < v.errs[j].Line })
	errs := make([]error, len(v.errs))
	for i, e := range v.errs {
		errs[i] = e
	}
	return errors.Join(errs...)
}

func declaredLabels(root *ast.RootNode) map[string]bool {
	labels := make(map[string]bool)
	for _, in := range root.Instructions() {
		if in.Kind != ast.InstructionLabel {
			continue
		}
		if op := in.Operand(0); op != nil && op.Kind == ast.OperandInstructionAddress {
			labels[op.Value()] = true
		}
	}
	return labels
}

// visitor only reads the tree; errs is the one shared mutable field.
type visitor struct {
	ast.BaseVisitor
	memorySize int64
	labels     map[string]bool
	lines      []string

	mu   sync.Mutex
	errs []*Error
}

func (v *visitor) ParallelSafe() bool { return true }

func (v *visitor) report(n *ast.OperandNode, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if n.Line >= 1 && n.Line <= len(v.lines) {
		msg += fmt.Sprintf(" in %q", v.lines[n.Line-1])
	}
	v.mu.Lock()
	v.errs = append(v.errs, &Error{Line: n.Line, Address: n.Value(), Message: msg})
	v.mu.Unlock()
}

func (v *visitor) VisitInstructionAddressOperand(n *ast.OperandNode) {
	if !v.labels[n.Value()] {
		v.report(n, "label %s is never declared", n.Value())
	}
}

func (v *visitor) VisitMemoryAddressOperand(n *ast.OperandNode) {
	addr, err := lexer.ParseMemoryAddress(n.Value())
	if err != nil {
		v.report(n, "%v", err)
		return
	}
	if addr >= v.memorySize {
		v.report(n, "memory address %s is out of range [0, %d)", n.Value(), v.memorySize)
	}
}
