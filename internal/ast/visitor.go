// Package ast - Visitor pattern implementation for AST traversal.
// Passes (printer, scope checker, semantic analyzer, code generator) traverse
// the same tree through double dispatch without modifying the node types.
package ast

import (
	"runtime"
	"sync"
)

// Visitor has one method per dispatch target: the root, every instruction
// kind and every operand kind.
type Visitor interface {
	// ParallelSafe selects the traversal discipline at the root. Visitors
	// returning true get their top-level instruction subtrees visited
	// concurrently and must tolerate concurrent calls.
	ParallelSafe() bool

	VisitRoot(node *RootNode)

	// Instruction visitors.
	VisitMove(node *InstructionNode)
	VisitLoad(node *InstructionNode)
	VisitStore(node *InstructionNode)
	VisitCreate(node *InstructionNode)
	VisitCast(node *InstructionNode)
	VisitAdd(node *InstructionNode)
	VisitSub(node *InstructionNode)
	VisitMultiply(node *InstructionNode)
	VisitDivide(node *InstructionNode)
	VisitOr(node *InstructionNode)
	VisitAnd(node *InstructionNode)
	VisitNot(node *InstructionNode)
	VisitShift(node *InstructionNode)
	VisitCompare(node *InstructionNode)
	VisitJump(node *InstructionNode)
	VisitCall(node *InstructionNode)
	VisitPush(node *InstructionNode)
	VisitPop(node *InstructionNode)
	VisitReturn(node *InstructionNode)
	VisitStop(node *InstructionNode)
	VisitInput(node *InstructionNode)
	VisitOutput(node *InstructionNode)
	VisitPrint(node *InstructionNode)
	VisitLabel(node *InstructionNode)
	VisitComment(node *InstructionNode)

	// Operand visitors.
	VisitRegisterOperand(node *OperandNode)
	VisitInstructionAddressOperand(node *OperandNode)
	VisitMemoryAddressOperand(node *OperandNode)
	VisitIntegerOperand(node *OperandNode)
	VisitFloatOperand(node *OperandNode)
	VisitBooleanOperand(node *OperandNode)
	VisitCharacterOperand(node *OperandNode)
	VisitStringOperand(node *OperandNode)
	VisitNewlineOperand(node *OperandNode)
	VisitTypeConditionOperand(node *OperandNode)
	VisitShiftConditionOperand(node *OperandNode)
	VisitJumpConditionOperand(node *OperandNode)
}

// UnknownVisitor is implemented by visitors that want to observe nodes whose
// kind is the None or Unknown sentinel. Other visitors skip such nodes.
type UnknownVisitor interface {
	VisitUnknownInstruction(node *InstructionNode)
	VisitUnknownOperand(node *OperandNode)
}

// BaseVisitor provides a no-op implementation of the Visitor interface.
// Concrete visitors embed it and override only the methods they need.
type BaseVisitor struct{}

func (BaseVisitor) ParallelSafe() bool                          { return false }
func (BaseVisitor) VisitRoot(*RootNode)                         {}
func (BaseVisitor) VisitMove(*InstructionNode)                  {}
func (BaseVisitor) VisitLoad(*InstructionNode)                  {}
func (BaseVisitor) VisitStore(*InstructionNode)                 {}
func (BaseVisitor) VisitCreate(*InstructionNode)                {}
func (BaseVisitor) VisitCast(*InstructionNode)                  {}
func (BaseVisitor) VisitAdd(*InstructionNode)                   {}
func (BaseVisitor) VisitSub(*InstructionNode)                   {}
func (BaseVisitor) VisitMultiply(*InstructionNode)              {}
func (BaseVisitor) VisitDivide(*InstructionNode)                {}
func (BaseVisitor) VisitOr(*InstructionNode)                    {}
func (BaseVisitor) VisitAnd(*InstructionNode)                   {}
func (BaseVisitor) VisitNot(*InstructionNode)                   {}
func (BaseVisitor) VisitShift(*InstructionNode)                 {}
func (BaseVisitor) VisitCompare(*InstructionNode)               {}
func (BaseVisitor) VisitJump(*InstructionNode)                  {}
func (BaseVisitor) VisitCall(*InstructionNode)                  {}
func (BaseVisitor) VisitPush(*InstructionNode)                  {}
func (BaseVisitor) VisitPop(*InstructionNode)                   {}
func (BaseVisitor) VisitReturn(*InstructionNode)                {}
func (BaseVisitor) VisitStop(*InstructionNode)                  {}
func (BaseVisitor) VisitInput(*InstructionNode)                 {}
func (BaseVisitor) VisitOutput(*InstructionNode)                {}
func (BaseVisitor) VisitPrint(*InstructionNode)                 {}
func (BaseVisitor) VisitLabel(*InstructionNode)                 {}
func (BaseVisitor) VisitComment(*InstructionNode)               {}
func (BaseVisitor) VisitRegisterOperand(*OperandNode)           {}
func (BaseVisitor) VisitInstructionAddressOperand(*OperandNode) {}
func (BaseVisitor) VisitMemoryAddressOperand(*OperandNode)      {}
func (BaseVisitor) VisitIntegerOperand(*OperandNode)            {}
func (BaseVisitor) VisitFloatOperand(*OperandNode)              {}
func (BaseVisitor) VisitBooleanOperand(*OperandNode)            {}
func (BaseVisitor) VisitCharacterOperand(*OperandNode)          {}
func (BaseVisitor) VisitStringOperand(*OperandNode)             {}
func (BaseVisitor) VisitNewlineOperand(*OperandNode)            {}
func (BaseVisitor) VisitTypeConditionOperand(*OperandNode)      {}
func (BaseVisitor) VisitShiftConditionOperand(*OperandNode)     {}
func (BaseVisitor) VisitJumpConditionOperand(*OperandNode)      {}

// Walk traverses the tree rooted at node. The discipline at the root is
// chosen by visitor.ParallelSafe.
func Walk(node Node, visitor Visitor) {
	if isNil(node) || visitor == nil {
		return
	}
	node.Accept(visitor)
}

// Accept visits the root, then its instruction subtrees. Subtrees are visited
// in order, or fanned out over a bounded pool of workers when the visitor is
// parallel safe. Recursion inside a subtree is always sequential.
func (r *RootNode) Accept(visitor Visitor) {
	visitor.VisitRoot(r)
	children := r.Children()
	if !visitor.ParallelSafe() || len(children) < 2 {
		for _, child := range children {
			child.Accept(visitor)
		}
		return
	}

	workers := min(runtime.GOMAXPROCS(0), len(children))
	jobs := make(chan Node)
	var wg sync.WaitGroup
	wg.Add(workers)
	for range workers {
		go func() {
			defer wg.Done()
			for child := range jobs {
				child.Accept(visitor)
			}
		}()
	}
	for _, child := range children {
		jobs <- child
	}
	close(jobs)
	wg.Wait()
}

// Accept visits the operands left to right, then dispatches on the
// instruction kind, so the instruction method sees its operands already visited.
func (n *InstructionNode) Accept(visitor Visitor) {
	for _, child := range n.Children() {
		child.Accept(visitor)
	}

	switch n.Kind {
	case InstructionMove:
		visitor.VisitMove(n)
	case InstructionLoad:
		visitor.VisitLoad(n)
	case InstructionStore:
		visitor.VisitStore(n)
	case InstructionCreate:
		visitor.VisitCreate(n)
	case InstructionCast:
		visitor.VisitCast(n)
	case InstructionAdd:
		visitor.VisitAdd(n)
	case InstructionSub:
		visitor.VisitSub(n)
	case InstructionMultiply:
		visitor.VisitMultiply(n)
	case InstructionDivide:
		visitor.VisitDivide(n)
	case InstructionOr:
		visitor.VisitOr(n)
	case InstructionAnd:
		visitor.VisitAnd(n)
	case InstructionNot:
		visitor.VisitNot(n)
	case InstructionShift:
		visitor.VisitShift(n)
	case InstructionCompare:
		visitor.VisitCompare(n)
	case InstructionJump:
		visitor.VisitJump(n)
	case InstructionCall:
		visitor.VisitCall(n)
	case InstructionPush:
		visitor.VisitPush(n)
	case InstructionPop:
		visitor.VisitPop(n)
	case InstructionReturn:
		visitor.VisitReturn(n)
	case InstructionStop:
		visitor.VisitStop(n)
	case InstructionInput:
		visitor.VisitInput(n)
	case InstructionOutput:
		visitor.VisitOutput(n)
	case InstructionPrint:
		visitor.VisitPrint(n)
	case InstructionLabel:
		visitor.VisitLabel(n)
	case InstructionComment:
		visitor.VisitComment(n)
	default:
		if uv, ok := visitor.(UnknownVisitor); ok {
			uv.VisitUnknownInstruction(n)
		}
	}
}

// Accept dispatches on the operand kind, then visits any children.
func (n *OperandNode) Accept(visitor Visitor) {
	switch n.Kind {
	case OperandRegister:
		visitor.VisitRegisterOperand(n)
	case OperandInstructionAddress:
		visitor.VisitInstructionAddressOperand(n)
	case OperandMemoryAddress:
		visitor.VisitMemoryAddressOperand(n)
	case OperandInteger:
		visitor.VisitIntegerOperand(n)
	case OperandFloat:
		visitor.VisitFloatOperand(n)
	case OperandBoolean:
		visitor.VisitBooleanOperand(n)
	case OperandCharacter:
		visitor.VisitCharacterOperand(n)
	case OperandString:
		visitor.VisitStringOperand(n)
	case OperandNewline:
		visitor.VisitNewlineOperand(n)
	case OperandTypeCondition:
		visitor.VisitTypeConditionOperand(n)
	case OperandShiftCondition:
		visitor.VisitShiftConditionOperand(n)
	case OperandJumpCondition:
		visitor.VisitJumpConditionOperand(n)
	default:
		if uv, ok := visitor.(UnknownVisitor); ok {
			uv.VisitUnknownOperand(n)
		}
	}

	for _, child := range n.Children() {
		child.Accept(visitor)
	}
}
