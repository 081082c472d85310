// Package printer renders an AST as an indented tree.
package printer

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/list"

	"github.com/startasm-lang/startasm/internal/ast"
)

// PrintTree writes the tree under root to w.
func PrintTree(w io.Writer, root *ast.RootNode) error {
	s := Sprint(root)
	if s == "" {
		return nil
	}
	_, err := fmt.Fprintln(w, s)
	return err
}

// Sprint renders the tree under root.
func Sprint(root *ast.RootNode) string {
	if root == nil {
		return ""
	}
	p := &treePrinter{l: list.NewWriter()}
	p.l.SetStyle(list.StyleConnectedLight)
	ast.Walk(root, p)
	return p.l.Render()
}

// treePrinter is a sequential visitor. Operands are visited before their
// instruction, so they are held until the instruction item is written.
type treePrinter struct {
	ast.BaseVisitor
	l       list.Writer
	pending []string
}

func (p *treePrinter) VisitRoot(r *ast.RootNode) {
	p.l.AppendItem(fmt.Sprintf("%s (%d instructions)", ast.NodeRoot, r.NumChildren()))
	p.l.Indent()
}

func (p *treePrinter) operand(n *ast.OperandNode) {
	p.pending = append(p.pending, fmt.Sprintf("%s %s", n.Kind, n.Value()))
}

func (p *treePrinter) instruction(n *ast.InstructionNode) {
	p.l.AppendItem(fmt.Sprintf("%d: %s (%s)", n.Line, n.Value(), n.Arity))
	if len(p.pending) > 0 {
		p.l.Indent()
		for _, s := range p.pending {
			p.l.AppendItem(s)
		}
		p.l.UnIndent()
		p.pending = p.pending[:0]
	}
}

func (p *treePrinter) VisitUnknownInstruction(n *ast.InstructionNode) { p.instruction(n) }
func (p *treePrinter) VisitUnknownOperand(n *ast.OperandNode)         { p.operand(n) }

func (p *treePrinter) VisitMove(n *ast.InstructionNode)     { p.instruction(n) }
func (p *treePrinter) VisitLoad(n *ast.InstructionNode)     { p.instruction(n) }
func (p *treePrinter) VisitStore(n *ast.InstructionNode)    { p.instruction(n) }
func (p *treePrinter) VisitCreate(n *ast.InstructionNode)   { p.instruction(n) }
func (p *treePrinter) VisitCast(n *ast.InstructionNode)     { p.instruction(n) }
func (p *treePrinter) VisitAdd(n *ast.InstructionNode)      { p.instruction(n) }
func (p *treePrinter) VisitSub(n *ast.InstructionNode)      { p.instruction(n) }
func (p *treePrinter) VisitMultiply(n *ast.InstructionNode) { p.instruction(n) }
func (p *treePrinter) VisitDivide(n *ast.InstructionNode)   { p.instruction(n) }
func (p *treePrinter) VisitOr(n *ast.InstructionNode)       { p.instruction(n) }
func (p *treePrinter) VisitAnd(n *ast.InstructionNode)      { p.instruction(n) }
func (p *treePrinter) VisitNot(n *ast.InstructionNode)      { p.instruction(n) }
func (p *treePrinter) VisitShift(n *ast.InstructionNode)    { p.instruction(n) }
func (p *treePrinter) VisitCompare(n *ast.InstructionNode)  { p.instruction(n) }
func (p *treePrinter) VisitJump(n *ast.InstructionNode)     { p.instruction(n) }
func (p *treePrinter) VisitCall(n *ast.InstructionNode)     { p.instruction(n) }
func (p *treePrinter) VisitPush(n *ast.InstructionNode)     { p.instruction(n) }
func (p *treePrinter) VisitPop(n *ast.InstructionNode)      { p.instruction(n) }
func (p *treePrinter) VisitReturn(n *ast.InstructionNode)   { p.instruction(n) }
func (p *treePrinter) VisitStop(n *ast.InstructionNode)     { p.instruction(n) }
func (p *treePrinter) VisitInput(n *ast.InstructionNode)    { p.instruction(n) }
func (p *treePrinter) VisitOutput(n *ast.InstructionNode)   { p.instruction(n) }
func (p *treePrinter) VisitPrint(n *ast.InstructionNode)    { p.instruction(n) }
func (p *treePrinter) VisitLabel(n *ast.InstructionNode)    { p.instruction(n) }
func (p *treePrinter) VisitComment(n *ast.InstructionNode)  { p.instruction(n) }

func (p *treePrinter) VisitRegisterOperand(n *ast.OperandNode)           { p.operand(n) }
func (p *treePrinter) VisitInstructionAddressOperand(n *ast.OperandNode) { p.operand(n) }
func (p *treePrinter) VisitMemoryAddressOperand(n *ast.OperandNode)      { p.operand(n) }
func (p *treePrinter) VisitIntegerOperand(n *ast.OperandNode)            { p.operand(n) }
func (p *treePrinter) VisitFloatOperand(n *ast.OperandNode)              { p.operand(n) }
func (p *treePrinter) VisitBooleanOperand(n *ast.OperandNode)            { p.operand(n) }
func (p *treePrinter) VisitCharacterOperand(n *ast.OperandNode)          { p.operand(n) }
func (p *treePrinter) VisitStringOperand(n *ast.OperandNode)             { p.operand(n) }
func (p *treePrinter) VisitNewlineOperand(n *ast.OperandNode)            { p.operand(n) }
func (p *treePrinter) VisitTypeConditionOperand(n *ast.OperandNode)      { p.operand(n) }
func (p *treePrinter) VisitShiftConditionOperand(n *ast.OperandNode)     { p.operand(n) }
func (p *treePrinter) VisitJumpConditionOperand(n *ast.OperandNode)      { p.operand(n) }
