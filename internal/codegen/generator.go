// Package codegen lowers a validated StartASM AST into LLVM IR.
//
// A Generator is a sequential ast.Visitor. Operand visits push onto a local
// evaluation context, and the instruction visit that follows consumes the
// context positionally and emits IR through a lir.Builder. The first error
// stops all further work for the run; no IR is emitted for the failing
// instruction or any later one.
package codegen

import (
	"log/slog"

	"github.com/startasm-lang/startasm/internal/ast"
	"github.com/startasm-lang/startasm/internal/cli"
	"github.com/startasm-lang/startasm/internal/lexer"
	"github.com/startasm-lang/startasm/internal/lir"
)

// Generator is the code generation visitor. It is not safe for concurrent
// use; each Generate call starts from a fresh state.
type Generator struct {
	logger     *slog.Logger
	moduleName string

	st *state
}

// Option configures a Generator.
type Option func(*Generator)

// WithLogger sets the logger used for trace output.
func WithLogger(l *slog.Logger) Option {
	return func(g *Generator) {
		if l != nil {
			g.logger = l
		}
	}
}

// WithModuleName overrides the LLVM module name.
func WithModuleName(name string) Option {
	return func(g *Generator) { g.moduleName = name }
}

// New creates a Generator.
func New(opts ...Option) *Generator {
	g := &Generator{
		logger:     cli.Discard(),
		moduleName: lir.DefaultModuleName,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate lowers the program under root. numLines is the number of source
// lines and only sizes internal buffers. On failure the returned error is
// an *Error wrapping ErrGeneration and the returned module holds the IR
// emitted before the failing instruction.
func (g *Generator) Generate(root *ast.RootNode, numLines int) (*lir.Module, error) {
	g.st = newState(g.moduleName, numLines)
	if root == nil {
		return g.st.mod, g.finish()
	}

	ast.Walk(root, g)
	if !g.st.proceed {
		return g.st.mod, g.st.errs[0]
	}
	return g.st.mod, g.finish()
}

func (g *Generator) finish() error {
	st := g.st
	st.mod.Close()
	if st.badReturn != nil {
		st.mod.Place(st.badReturn)
	}
	// Labels that were referenced but never placed trap.
	for _, l := range st.labelOrder {
		if !l.placed {
			st.mod.Place(l.block)
			l.block.NewUnreachable()
			l.placed = true
		}
	}
	for _, sw := range st.returns {
		for i, site := range st.callSites {
			sw.Cases = append(sw.Cases, newCase(i, site))
		}
	}
	return st.mod.Finalize()
}

// Errors returns the errors recorded by the last run.
func (g *Generator) Errors() []*Error {
	if g.st == nil {
		return nil
	}
	out := make([]*Error, len(g.st.errs))
	copy(out, g.st.errs)
	return out
}

// Binding reports the binding of register reg ("r0".."r9") after the last run.
func (g *Generator) Binding(reg string) (Binding, bool) {
	idx, ok := parseRegister(reg)
	if !ok || g.st == nil {
		return Binding{}, false
	}
	return g.st.regs[idx], true
}

func (g *Generator) trace(in *ast.InstructionNode) {
	cli.Trace(g.logger, "lowering instruction",
		"line", in.Line, "instruction", in.Kind.String(), "ops", g.st.mod.NumOps())
}

// ===== ast.Visitor =====

func (g *Generator) ParallelSafe() bool { return false }

func (g *Generator) VisitRoot(*ast.RootNode) {}

func (g *Generator) push(e entry) {
	if !g.st.proceed {
		return
	}
	g.st.local = append(g.st.local, e)
}

func (g *Generator) VisitRegisterOperand(n *ast.OperandNode) {
	if !g.st.proceed {
		return
	}
	idx, ok := parseRegister(n.Value())
	if !ok {
		g.st.fail(invalidOperand(n.Line, "%q is not a register", n.Value()))
		return
	}
	g.push(entry{kind: n.Kind, text: n.Value(), node: n, reg: idx, bind: g.st.regs[idx]})
}

func (g *Generator) VisitInstructionAddressOperand(n *ast.OperandNode) {
	if !g.st.proceed {
		return
	}
	g.push(entry{kind: n.Kind, text: n.Value(), node: n, reg: -1, label: g.st.label(n.Value())})
}

func (g *Generator) VisitMemoryAddressOperand(n *ast.OperandNode) {
	if !g.st.proceed {
		return
	}
	addr, err := lexer.ParseMemoryAddress(n.Value())
	if err != nil {
		g.st.fail(invalidOperand(n.Line, "%v", err))
		return
	}
	g.push(entry{kind: n.Kind, text: n.Value(), node: n, reg: -1, addr: addr})
}

func (g *Generator) visitLiteral(n *ast.OperandNode) {
	if !g.st.proceed {
		return
	}
	v, err := literalValue(n.Kind, n.Value())
	if err != nil {
		g.st.fail(invalidOperand(n.Line, "%v", err))
		return
	}
	g.push(entry{kind: n.Kind, text: n.Value(), node: n, reg: -1, value: v})
}

func (g *Generator) VisitIntegerOperand(n *ast.OperandNode)   { g.visitLiteral(n) }
func (g *Generator) VisitFloatOperand(n *ast.OperandNode)     { g.visitLiteral(n) }
func (g *Generator) VisitBooleanOperand(n *ast.OperandNode)   { g.visitLiteral(n) }
func (g *Generator) VisitCharacterOperand(n *ast.OperandNode) { g.visitLiteral(n) }

// Text-only operands carry no value.
func (g *Generator) visitText(n *ast.OperandNode) {
	g.push(entry{kind: n.Kind, text: n.Value(), node: n, reg: -1})
}

func (g *Generator) VisitStringOperand(n *ast.OperandNode)         { g.visitText(n) }
func (g *Generator) VisitNewlineOperand(n *ast.OperandNode)        { g.visitText(n) }
func (g *Generator) VisitTypeConditionOperand(n *ast.OperandNode)  { g.visitText(n) }
func (g *Generator) VisitShiftConditionOperand(n *ast.OperandNode) { g.visitText(n) }
func (g *Generator) VisitJumpConditionOperand(n *ast.OperandNode)  { g.visitText(n) }

func (g *Generator) VisitUnknownOperand(n *ast.OperandNode) {
	if !g.st.proceed {
		return
	}
	g.st.fail(invalidOperand(n.Line, "unrecognized operand %q", n.Value()))
}

func (g *Generator) VisitUnknownInstruction(n *ast.InstructionNode) {
	if !g.st.proceed {
		return
	}
	g.st.fail(unsupported(n.Value(), n.Line))
}

// lower runs fn for one instruction and clears the local context.
func (g *Generator) lower(in *ast.InstructionNode, fn func(*lowering) *Error) {
	st := g.st
	if !st.proceed {
		return
	}
	defer func() { st.local = st.local[:0] }()
	g.trace(in)

	l := &lowering{st: st, in: in, b: st.mod.At(in.Line, in.Kind.String())}
	if err := fn(l); err != nil {
		st.fail(err)
	}
}

func (g *Generator) VisitMove(n *ast.InstructionNode)     { g.lower(n, (*lowering).move) }
func (g *Generator) VisitLoad(n *ast.InstructionNode)     { g.lower(n, (*lowering).load) }
func (g *Generator) VisitStore(n *ast.InstructionNode)    { g.lower(n, (*lowering).store) }
func (g *Generator) VisitCreate(n *ast.InstructionNode)   { g.lower(n, (*lowering).create) }
func (g *Generator) VisitCast(n *ast.InstructionNode)     { g.lower(n, (*lowering).cast) }
func (g *Generator) VisitAdd(n *ast.InstructionNode)      { g.lower(n, arithmetic(lir.BinAdd)) }
func (g *Generator) VisitSub(n *ast.InstructionNode)      { g.lower(n, arithmetic(lir.BinSub)) }
func (g *Generator) VisitMultiply(n *ast.InstructionNode) { g.lower(n, arithmetic(lir.BinMul)) }
func (g *Generator) VisitDivide(n *ast.InstructionNode)   { g.lower(n, arithmetic(lir.BinDiv)) }
func (g *Generator) VisitOr(n *ast.InstructionNode)       { g.lower(n, arithmetic(lir.BinOr)) }
func (g *Generator) VisitAnd(n *ast.InstructionNode)      { g.lower(n, arithmetic(lir.BinAnd)) }
func (g *Generator) VisitNot(n *ast.InstructionNode)      { g.lower(n, (*lowering).not) }
func (g *Generator) VisitShift(n *ast.InstructionNode)    { g.lower(n, (*lowering).shift) }
func (g *Generator) VisitCompare(n *ast.InstructionNode)  { g.lower(n, (*lowering).compare) }
func (g *Generator) VisitJump(n *ast.InstructionNode)     { g.lower(n, (*lowering).jump) }
func (g *Generator) VisitCall(n *ast.InstructionNode)     { g.lower(n, (*lowering).call) }
func (g *Generator) VisitPush(n *ast.InstructionNode)     { g.lower(n, (*lowering).push) }
func (g *Generator) VisitPop(n *ast.InstructionNode)      { g.lower(n, (*lowering).pop) }
func (g *Generator) VisitReturn(n *ast.InstructionNode)   { g.lower(n, (*lowering).ret) }
func (g *Generator) VisitStop(n *ast.InstructionNode)     { g.lower(n, (*lowering).stop) }
func (g *Generator) VisitInput(n *ast.InstructionNode)    { g.lower(n, (*lowering).input) }
func (g *Generator) VisitOutput(n *ast.InstructionNode)   { g.lower(n, (*lowering).output) }
func (g *Generator) VisitPrint(n *ast.InstructionNode)    { g.lower(n, (*lowering).print) }
func (g *Generator) VisitLabel(n *ast.InstructionNode)    { g.lower(n, (*lowering).label) }
func (g *Generator) VisitComment(n *ast.InstructionNode)  { g.lower(n, (*lowering).comment) }

var _ ast.Visitor = (*Generator)(nil)
var _ ast.UnknownVisitor = (*Generator)(nil)
