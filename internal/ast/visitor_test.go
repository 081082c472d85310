package ast

import (
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// recordingVisitor logs every dispatch target it receives.
type recordingVisitor struct {
	BaseVisitor
	mu    sync.Mutex
	trace []string
}

func (v *recordingVisitor) add(s string) {
	v.mu.Lock()
	v.trace = append(v.trace, s)
	v.mu.Unlock()
}

func (v *recordingVisitor) VisitRoot(*RootNode)                { v.add("root") }
func (v *recordingVisitor) VisitMove(*InstructionNode)         { v.add("move") }
func (v *recordingVisitor) VisitLoad(*InstructionNode)         { v.add("load") }
func (v *recordingVisitor) VisitStore(*InstructionNode)        { v.add("store") }
func (v *recordingVisitor) VisitCreate(*InstructionNode)       { v.add("create") }
func (v *recordingVisitor) VisitCast(*InstructionNode)         { v.add("cast") }
func (v *recordingVisitor) VisitAdd(*InstructionNode)          { v.add("add") }
func (v *recordingVisitor) VisitSub(*InstructionNode)          { v.add("sub") }
func (v *recordingVisitor) VisitMultiply(*InstructionNode)     { v.add("multiply") }
func (v *recordingVisitor) VisitDivide(*InstructionNode)       { v.add("divide") }
func (v *recordingVisitor) VisitOr(*InstructionNode)           { v.add("or") }
func (v *recordingVisitor) VisitAnd(*InstructionNode)          { v.add("and") }
func (v *recordingVisitor) VisitNot(*InstructionNode)          { v.add("not") }
func (v *recordingVisitor) VisitShift(*InstructionNode)        { v.add("shift") }
func (v *recordingVisitor) VisitCompare(*InstructionNode)      { v.add("compare") }
func (v *recordingVisitor) VisitJump(*InstructionNode)         { v.add("jump") }
func (v *recordingVisitor) VisitCall(*InstructionNode)         { v.add("call") }
func (v *recordingVisitor) VisitPush(*InstructionNode)         { v.add("push") }
func (v *recordingVisitor) VisitPop(*InstructionNode)          { v.add("pop") }
func (v *recordingVisitor) VisitReturn(*InstructionNode)       { v.add("return") }
func (v *recordingVisitor) VisitStop(*InstructionNode)         { v.add("stop") }
func (v *recordingVisitor) VisitInput(*InstructionNode)        { v.add("input") }
func (v *recordingVisitor) VisitOutput(*InstructionNode)       { v.add("output") }
func (v *recordingVisitor) VisitPrint(*InstructionNode)        { v.add("print") }
func (v *recordingVisitor) VisitLabel(*InstructionNode)        { v.add("label") }
func (v *recordingVisitor) VisitComment(*InstructionNode)      { v.add("comment") }
func (v *recordingVisitor) VisitRegisterOperand(*OperandNode)  { v.add("register") }
func (v *recordingVisitor) VisitIntegerOperand(*OperandNode)   { v.add("integer") }
func (v *recordingVisitor) VisitFloatOperand(*OperandNode)     { v.add("float") }
func (v *recordingVisitor) VisitBooleanOperand(*OperandNode)   { v.add("boolean") }
func (v *recordingVisitor) VisitCharacterOperand(*OperandNode) { v.add("character") }
func (v *recordingVisitor) VisitStringOperand(*OperandNode)    { v.add("string") }
func (v *recordingVisitor) VisitNewlineOperand(*OperandNode)   { v.add("newline") }
func (v *recordingVisitor) VisitInstructionAddressOperand(*OperandNode) {
	v.add("instruction-address")
}
func (v *recordingVisitor) VisitMemoryAddressOperand(*OperandNode) { v.add("memory-address") }
func (v *recordingVisitor) VisitTypeConditionOperand(*OperandNode) { v.add("type-condition") }
func (v *recordingVisitor) VisitShiftConditionOperand(*OperandNode) {
	v.add("shift-condition")
}
func (v *recordingVisitor) VisitJumpConditionOperand(*OperandNode) { v.add("jump-condition") }

func TestVisitorDispatchesEveryKind(t *testing.T) {
	for kind := InstructionKind(0); kind < InstructionNone; kind++ {
		v := &recordingVisitor{}
		NewInstructionNode(kind.String(), kind, Nullary, 1).Accept(v)
		if len(v.trace) != 1 || v.trace[0] != kind.String() {
			t.Errorf("%s dispatched to %v", kind, v.trace)
		}
	}

	for kind := OperandRegister; kind < OperandUnknown; kind++ {
		v := &recordingVisitor{}
		NewOperandNode("x", kind, 1, 0).Accept(v)
		if len(v.trace) != 1 || v.trace[0] != kind.String() {
			t.Errorf("%s dispatched to %v", kind, v.trace)
		}
	}
}

func TestInstructionAcceptIsPostOrder(t *testing.T) {
	in := NewInstructionNode("create", InstructionCreate, Binary, 1)
	in.InsertChild(NewOperandNode("3", OperandInteger, 1, 0))
	in.InsertChild(NewOperandNode("r0", OperandRegister, 1, 1))

	root := NewRootNode()
	root.InsertChild(in)
	root.InsertChild(NewInstructionNode("stop", InstructionStop, Nullary, 2))

	v := &recordingVisitor{}
	Walk(root, v)

	want := []string{"root", "integer", "register", "create", "stop"}
	if len(v.trace) != len(want) {
		t.Fatalf("Got trace %v, want %v", v.trace, want)
	}
	for i := range want {
		if v.trace[i] != want[i] {
			t.Errorf("trace[%d] = %s, want %s", i, v.trace[i], want[i])
		}
	}
}

type unknownCounter struct {
	BaseVisitor
	instructions, operands int
}

func (u *unknownCounter) VisitUnknownInstruction(*InstructionNode) { u.instructions++ }
func (u *unknownCounter) VisitUnknownOperand(*OperandNode)         { u.operands++ }

func TestSentinelKinds(t *testing.T) {
	in := NewInstructionNode("bogus", InstructionNone, Unary, 1)
	in.InsertChild(NewOperandNode("??", OperandUnknown, 1, 0))

	u := &unknownCounter{}
	in.Accept(u)
	if u.instructions != 1 || u.operands != 1 {
		t.Errorf("Expected one unknown of each, got %d instructions and %d operands", u.instructions, u.operands)
	}

	// Visitors without the optional interface ignore sentinels.
	v := &recordingVisitor{}
	in.Accept(v)
	if len(v.trace) != 0 {
		t.Errorf("Expected no dispatch, got %v", v.trace)
	}
}

type parallelCounter struct {
	BaseVisitor
	roots, stops atomic.Int64
}

func (p *parallelCounter) ParallelSafe() bool         { return true }
func (p *parallelCounter) VisitRoot(*RootNode)        { p.roots.Add(1) }
func (p *parallelCounter) VisitStop(*InstructionNode) { p.stops.Add(1) }

func TestParallelRootFanOut(t *testing.T) {
	const n = 500
	root := NewRootNode()
	for i := 0; i < n; i++ {
		root.InsertChild(NewInstructionNode("stop", InstructionStop, Nullary, i+1))
	}

	p := &parallelCounter{}
	Walk(root, p)

	if p.roots.Load() != 1 {
		t.Errorf("Root visited %d times", p.roots.Load())
	}
	if p.stops.Load() != n {
		t.Errorf("Expected %d instruction visits, got %d", n, p.stops.Load())
	}
}

type concurrencyGauge struct {
	BaseVisitor
	active, peak atomic.Int64
}

func (g *concurrencyGauge) ParallelSafe() bool { return true }
func (g *concurrencyGauge) VisitStop(*InstructionNode) {
	n := g.active.Add(1)
	for {
		p := g.peak.Load()
		if n <= p || g.peak.CompareAndSwap(p, n) {
			break
		}
	}
	time.Sleep(time.Millisecond)
	g.active.Add(-1)
}

func TestParallelRootFanOutIsBounded(t *testing.T) {
	root := NewRootNode()
	for i := 0; i < 64; i++ {
		root.InsertChild(NewInstructionNode("stop", InstructionStop, Nullary, i+1))
	}

	g := &concurrencyGauge{}
	Walk(root, g)

	if g.active.Load() != 0 {
		t.Errorf("Walk returned with %d visits still running", g.active.Load())
	}
	if limit := int64(runtime.GOMAXPROCS(0)); g.peak.Load() > limit {
		t.Errorf("Peak concurrency %d exceeds GOMAXPROCS %d", g.peak.Load(), limit)
	}
}

func TestSequentialVisitOrder(t *testing.T) {
	root := NewRootNode()
	kinds := []InstructionKind{InstructionComment, InstructionLabel, InstructionPush, InstructionPop, InstructionStop}
	for i, k := range kinds {
		root.InsertChild(NewInstructionNode(k.String(), k, Nullary, i+1))
	}

	v := &recordingVisitor{}
	Walk(root, v)

	if len(v.trace) != len(kinds)+1 {
		t.Fatalf("Unexpected trace %v", v.trace)
	}
	for i, k := range kinds {
		if v.trace[i+1] != k.String() {
			t.Errorf("Visit %d: got %s, want %s", i, v.trace[i+1], k)
		}
	}
}

func TestWalkNil(t *testing.T) {
	Walk(nil, &recordingVisitor{})
	var root *RootNode
	Walk(root, &recordingVisitor{})
}
