// Package lir defines the low-level IR emitted by code generation.
// A Module wraps an LLVM module with a single i32 @main() function and keeps
// an ordered, append-only record of every observable operation it emits.
package lir

import (
	"fmt"
	"strings"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
)

// DefaultModuleName is the name given to modules created by NewModule("").
const DefaultModuleName = "StartASM_module"

// OpKind classifies one entry of the IR sequence.
type OpKind int

const (
	OpStore OpKind = iota
	OpLoad
	OpBranch
	OpCondBranch
	OpCall
	OpReturn
	OpHalt
	OpPush
	OpPop
	OpLabel
	OpCompare
	OpInput
	OpOutput
	OpPrint
)

var opNames = [...]string{
	OpStore:      "store",
	OpLoad:       "load",
	OpBranch:     "br",
	OpCondBranch: "condbr",
	OpCall:       "call",
	OpReturn:     "return",
	OpHalt:       "halt",
	OpPush:       "push",
	OpPop:        "pop",
	OpLabel:      "label",
	OpCompare:    "compare",
	OpInput:      "input",
	OpOutput:     "output",
	OpPrint:      "print",
}

func (k OpKind) String() string {
	if k >= 0 && int(k) < len(opNames) {
		return opNames[k]
	}
	return fmt.Sprintf("OpKind(%d)", int(k))
}

// Inst is anything that renders as a line of LLVM IR.
type Inst interface{ LLString() string }

// Op is one entry of the IR sequence.
type Op struct {
	Kind     OpKind
	Line     int    // source line of the instruction that emitted it
	Mnemonic string // mnemonic of that instruction
	Inst     Inst
}

func (o Op) String() string {
	if o.Inst == nil {
		return o.Kind.String()
	}
	return strings.TrimSpace(o.Inst.LLString())
}

// Module bundles the LLVM module, its main function and the op record.
type Module struct {
	Name  string
	IR    *ir.Module
	Main  *ir.Func
	Entry *ir.Block

	body    *ir.Block
	current *ir.Block
	ops     []Op

	runtime map[string]*ir.Func
	globals map[string]*ir.Global
	strs    map[string]constant.Constant
	stacks  map[string]*Stack
	traps   []*ir.Block
	nstr    int
}

// NewModule creates a module with an empty main function. The capacity hint
// sizes the op record.
func NewModule(name string, capacity int) *Module {
	if name == "" {
		name = DefaultModuleName
	}
	if capacity < 0 {
		capacity = 0
	}
	m := &Module{
		Name:    name,
		IR:      ir.NewModule(),
		ops:     make([]Op, 0, capacity),
		runtime: make(map[string]*ir.Func),
		globals: make(map[string]*ir.Global),
		strs:    make(map[string]constant.Constant),
		stacks:  make(map[string]*Stack),
	}
	m.IR.SourceFilename = name
	m.Main = m.IR.NewFunc("main", types.I32)
	m.Entry = m.Main.NewBlock("entry")
	m.body = m.Main.NewBlock("body")
	m.current = m.body
	return m
}

// Ops returns the IR sequence in emission order.
func (m *Module) Ops() []Op {
	out := make([]Op, len(m.ops))
	copy(out, m.ops)
	return out
}

// NumOps returns the length of the IR sequence.
func (m *Module) NumOps() int { return len(m.ops) }

func (m *Module) record(kind OpKind, line int, mnemonic string, inst Inst) {
	m.ops = append(m.ops, Op{Kind: kind, Line: line, Mnemonic: mnemonic, Inst: inst})
}

// Current returns the block that receives the next instruction. A new
// unnamed block is opened when the current one is already terminated.
func (m *Module) Current() *ir.Block {
	if m.current.Term != nil {
		m.current = m.Main.NewBlock("")
	}
	return m.current
}

// Terminated reports whether the current block already ends in a terminator.
func (m *Module) Terminated() bool { return m.current.Term != nil }

// NewBlock creates a block that is not yet part of main. Place it later.
func (m *Module) NewBlock(name string) *ir.Block {
	b := ir.NewBlock(name)
	b.Parent = m.Main
	return b
}

// Place appends a detached block to main and makes it current.
func (m *Module) Place(b *ir.Block) {
	m.Main.Blocks = append(m.Main.Blocks, b)
	m.current = b
}

// Alloca reserves a named storage cell in the entry block.
func (m *Module) Alloca(name string, elem types.Type) *ir.InstAlloca {
	a := m.Entry.NewAlloca(elem)
	a.SetName(name)
	return a
}

// Global returns the zero-initialized global called name, defining it on first use.
func (m *Module) Global(name string, elem types.Type) *ir.Global {
	if g, ok := m.globals[name]; ok {
		return g
	}
	g := m.IR.NewGlobalDef(name, constant.NewZeroInitializer(elem))
	m.globals[name] = g
	return g
}

// CString returns a pointer to the first byte of a NUL-terminated private
// constant holding s. Identical strings share one constant.
func (m *Module) CString(s string) constant.Constant {
	if c, ok := m.strs[s]; ok {
		return c
	}
	data := constant.NewCharArrayFromString(s + "\x00")
	g := m.IR.NewGlobalDef(fmt.Sprintf(".str.%d", m.nstr), data)
	g.Immutable = true
	m.nstr++
	zero := constant.NewInt(types.I64, 0)
	c := constant.NewGetElementPtr(data.Typ, g, zero, zero)
	m.strs[s] = c
	return c
}

// Runtime returns the external function called name, declaring it on first use.
func (m *Module) Runtime(name string, ret types.Type, params ...types.Type) *ir.Func {
	if f, ok := m.runtime[name]; ok {
		return f
	}
	ps := make([]*ir.Param, len(params))
	for i, p := range params {
		ps[i] = ir.NewParam("", p)
	}
	f := m.IR.NewFunc(name, ret, ps...)
	m.runtime[name] = f
	return f
}

// Close ends the current block with ret i32 0 when it is still open.
func (m *Module) Close() {
	if m.current.Term == nil {
		m.current.NewRet(constant.NewInt(types.I32, 0))
	}
}

// Finalize wires the entry block to the body, closes the current block with
// ret i32 0 when it is still open, appends the stack trap blocks and
// numbers unnamed values.
func (m *Module) Finalize() error {
	if m.Entry.Term == nil {
		m.Entry.NewBr(m.body)
	}
	m.Close()
	m.Main.Blocks = append(m.Main.Blocks, m.traps...)
	m.traps = nil
	for _, b := range m.Main.Blocks {
		if b.Term == nil {
			return fmt.Errorf("block %q has no terminator", b.Ident())
		}
	}
	return m.Main.AssignIDs()
}

// Text renders the module as LLVM IR assembly.
func (m *Module) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "; ModuleID = '%s'\n", m.Name)
	b.WriteString(m.IR.String())
	return b.String()
}
