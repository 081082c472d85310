// Package semantic checks that every instruction of an AST names a known
// mnemonic and carries operands of the kinds its signature accepts.
package semantic

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/startasm-lang/startasm/internal/ast"
	"github.com/startasm-lang/startasm/internal/lexer"
)

// Error is one semantic finding.
type Error struct {
	Line    int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("Semantic analysis failed at line %d: %s", e.Line, e.Message)
}

// Analyzer runs semantic analysis.
type Analyzer struct{}

// NewAnalyzer creates an analyzer.
func NewAnalyzer() *Analyzer { return &Analyzer{} }

// AnalyzeSemantics returns every finding under root joined, in line order.
func (a *Analyzer) AnalyzeSemantics(root *ast.RootNode, lines []string) error {
	if root == nil {
		return nil
	}
	v := &visitor{lines: lines}
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

type visitor struct {
	ast.BaseVisitor
	lines []string

	mu   sync.Mutex
	errs []*Error
}

func (v *visitor) ParallelSafe() bool { return true }

func (v *visitor) report(line int, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if line >= 1 && line <= len(v.lines) {
		msg += fmt.Sprintf(" in %q", strings.TrimSpace(v.lines[line-1]))
	}
	v.mu.Lock()
	v.errs = append(v.errs, &Error{Line: line, Message: msg})
	v.mu.Unlock()
}

func (v *visitor) check(n *ast.InstructionNode) {
	ops := n.Operands()
	forms := signatures[n.Kind]

	var match form
	counts := make([]string, 0, len(forms))
	for _, f := range forms {
		counts = append(counts, strconv.Itoa(len(f)))
		if len(f) == len(ops) {
			match = f
			break
		}
	}
	if match == nil {
		v.report(n.Line, "%s expects %s operands, got %d", n.Kind, strings.Join(counts, " or "), len(ops))
		return
	}

	for i, op := range ops {
		if op.Kind == ast.OperandUnknown {
			continue
		}
		if !match[i].has(op.Kind) {
			v.report(n.Line, "operand %d of %s must be %s, got %s %s", i+1, n.Kind, match[i], op.Kind, op.Value())
			continue
		}
		if err := checkLiteral(op); err != nil {
			v.report(n.Line, "%v", err)
		}
	}
}

// checkLiteral rejects literals that classify correctly but cannot be
// represented.
func checkLiteral(op *ast.OperandNode) error {
	switch op.Kind {
	case ast.OperandInteger:
		if _, err := strconv.ParseInt(op.Value(), 10, 32); err != nil {
			return fmt.Errorf("integer %s does not fit in 32 bits", op.Value())
		}
	case ast.OperandCharacter:
		if s, err := lexer.Unquote(op.Value()); err != nil || len(s) != 1 {
			return fmt.Errorf("character %s is malformed", op.Value())
		}
	case ast.OperandString:
		if strings.HasPrefix(op.Value(), `"`) {
			if _, err := lexer.Unquote(op.Value()); err != nil {
				return fmt.Errorf("string %s is malformed: %v", op.Value(), err)
			}
		}
	}
	return nil
}

func (v *visitor) VisitUnknownInstruction(n *ast.InstructionNode) {
	v.report(n.Line, "unknown instruction %q", n.Value())
}

func (v *visitor) VisitUnknownOperand(n *ast.OperandNode) {
	v.report(n.Line, "unrecognized operand %q", n.Value())
}

func (v *visitor) VisitMove(n *ast.InstructionNode)     { v.check(n) }
func (v *visitor) VisitLoad(n *ast.InstructionNode)     { v.check(n) }
func (v *visitor) VisitStore(n *ast.InstructionNode)    { v.check(n) }
func (v *visitor) VisitCreate(n *ast.InstructionNode)   { v.check(n) }
func (v *visitor) VisitCast(n *ast.InstructionNode)     { v.check(n) }
func (v *visitor) VisitAdd(n *ast.InstructionNode)      { v.check(n) }
func (v *visitor) VisitSub(n *ast.InstructionNode)      { v.check(n) }
func (v *visitor) VisitMultiply(n *ast.InstructionNode) { v.check(n) }
func (v *visitor) VisitDivide(n *ast.InstructionNode)   { v.check(n) }
func (v *visitor) VisitOr(n *ast.InstructionNode)       { v.check(n) }
func (v *visitor) VisitAnd(n *ast.InstructionNode)      { v.check(n) }
func (v *visitor) VisitNot(n *ast.InstructionNode)      { v.check(n) }
func (v *visitor) VisitShift(n *ast.InstructionNode)    { v.check(n) }
func (v *visitor) VisitCompare(n *ast.InstructionNode)  { v.check(n) }
func (v *visitor) VisitJump(n *ast.InstructionNode)     { v.check(n) }
func (v *visitor) VisitCall(n *ast.InstructionNode)     { v.check(n) }
func (v *visitor) VisitPush(n *ast.InstructionNode)     { v.check(n) }
func (v *visitor) VisitPop(n *ast.InstructionNode)      { v.check(n) }
func (v *visitor) VisitReturn(n *ast.InstructionNode)   { v.check(n) }
func (v *visitor) VisitStop(n *ast.InstructionNode)     { v.check(n) }
func (v *visitor) VisitInput(n *ast.InstructionNode)    { v.check(n) }
func (v *visitor) VisitOutput(n *ast.InstructionNode)   { v.check(n) }
func (v *visitor) VisitPrint(n *ast.InstructionNode)    { v.check(n) }
func (v *visitor) VisitLabel(n *ast.InstructionNode)    { v.check(n) }
func (v *visitor) VisitComment(n *ast.InstructionNode)  { v.check(n) }

var _ ast.UnknownVisitor = (*visitor)(nil)
