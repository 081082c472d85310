package codegen

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"github.com/startasm-lang/startasm/internal/ast"
	"github.com/startasm-lang/startasm/internal/lexer"
	"github.com/startasm-lang/startasm/internal/lir"
)

// NumRegisters is the size of the register file, r0 through r9.
const NumRegisters = 10

// StackSize is the number of i32 slots in the data and return-address stacks.
const StackSize = 1024

// Binding records what code generation knows about a register.
type Binding struct {
	// Value is the last value assigned in the current block. It is nil
	// when the register was never assigned, or when the value has to be
	// reloaded from Cell because a new block started.
	Value value.Value
	// Cell is the i32 storage slot of the register. Values of every type
	// are stored as their bit pattern and read back as Type. Nil when unbound.
	Cell *ir.InstAlloca
	Type types.Type
}

// Bound reports whether the register has ever been assigned.
func (b Binding) Bound() bool { return b.Cell != nil }

// entry is one slot of the local evaluation context.
type entry struct {
	kind  ast.OperandKind
	text  string
	node  *ast.OperandNode
	reg   int         // register index, -1 otherwise
	bind  Binding     // register binding at visit time
	value value.Value // literal value
	addr  int64       // memory address
	label *labelBlock
}

type labelBlock struct {
	name   string
	block  *ir.Block
	placed bool
	in     *typing // register and memory types on entry, nil until first reached
}

// typing is the static type of every register and memory cell at one point
// of the program. A nil register type was never assigned on the paths seen
// so far; a memory cell without an entry holds i32.
type typing struct {
	regs [NumRegisters]types.Type
	mem  map[int64]types.Type
}

// state is the generation context of one Generate call.
type state struct {
	mod     *lir.Module
	regs    [NumRegisters]Binding
	cells   [NumRegisters]*ir.InstAlloca
	local   []entry
	proceed bool
	errs    []*Error

	labels     map[string]*labelBlock
	labelOrder []*labelBlock
	memTypes   map[int64]types.Type
	flags      *ir.InstAlloca

	data, ret *lir.Stack
	callSites []*ir.Block
	returns   []*ir.TermSwitch
	badReturn *ir.Block
	retIn     *typing // types shared by every return and every call continuation
}

func newState(name string, numLines int) *state {
	return &state{
		mod:      lir.NewModule(name, numLines),
		local:    make([]entry, 0, 3),
		proceed:  true,
		labels:   make(map[string]*labelBlock),
		memTypes: make(map[int64]types.Type),
	}
}

func (s *state) fail(err *Error) {
	s.errs = append(s.errs, err)
	s.proceed = false
	s.local = s.local[:0]
}

// cell returns the storage slot of register reg.
func (s *state) cell(reg int) *ir.InstAlloca {
	if s.cells[reg] == nil {
		s.cells[reg] = s.mod.Alloca(fmt.Sprintf("r%d", reg), types.I32)
	}
	return s.cells[reg]
}

// memType returns the type memory cell addr holds at the current point.
func (s *state) memType(addr int64) types.Type {
	if t, ok := s.memTypes[addr]; ok {
		return t
	}
	return types.I32
}

func (s *state) snapshot() *typing {
	t := &typing{mem: make(map[int64]types.Type, len(s.memTypes))}
	for i := range s.regs {
		t.regs[i] = s.regs[i].Type
	}
	for addr, mt := range s.memTypes {
		t.mem[addr] = mt
	}
	return t
}

// join records that control flows from the current point into a block whose
// entry types are *in. A register or memory cell must hold the same type on
// every path into the block. On failure *in is left unchanged.
func (s *state) join(in **typing, target string, line int) *Error {
	if *in == nil {
		*in = s.snapshot()
		return nil
	}
	t := *in
	for i := range s.regs {
		have, want := s.regs[i].Type, t.regs[i]
		if have != nil && want != nil && !have.Equal(want) {
			reg := fmt.Sprintf("r%d", i)
			return typeMismatch(reg, line, "register %s holds %s on one path into %s and %s on another",
				reg, want, target, have)
		}
	}
	for _, addr := range memAddrs(t.mem, s.memTypes) {
		want, ok := t.mem[addr]
		if !ok {
			want = types.I32
		}
		if have := s.memType(addr); !have.Equal(want) {
			return typeMismatch("", line, "memory [%d] holds %s on one path into %s and %s on another",
				addr, want, target, have)
		}
	}

	for i := range s.regs {
		if t.regs[i] == nil {
			t.regs[i] = s.regs[i].Type
		}
	}
	return nil
}

func memAddrs(a, b map[int64]types.Type) []int64 {
	seen := make(map[int64]bool, len(a)+len(b))
	var out []int64
	for _, m := range []map[int64]types.Type{a, b} {
		for addr := range m {
			if !seen[addr] {
				seen[addr] = true
				out = append(out, addr)
			}
		}
	}
	slices.Sort(out)
	return out
}

// enter makes t the current typing at the start of a block. Register values
// are reloaded from their cells on first use.
func (s *state) enter(t *typing) {
	for i := range s.regs {
		s.regs[i] = Binding{Type: t.regs[i]}
		if t.regs[i] != nil {
			s.regs[i].Cell = s.cell(i)
		}
	}
	s.memTypes = make(map[int64]types.Type, len(t.mem))
	for addr, mt := range t.mem {
		s.memTypes[addr] = mt
	}
}

// invalidate forgets the in-block values of all registers so the next
// read loads from the register's cell.
func (s *state) invalidate() {
	for i := range s.regs {
		s.regs[i].Value = nil
	}
}

func (s *state) flagsCell() *ir.InstAlloca {
	if s.flags == nil {
		s.flags = s.mod.Alloca("flags", types.I32)
		s.mod.Entry.NewStore(lir.IntConst(types.I32, 0), s.flags)
	}
	return s.flags
}

func (s *state) dataStack() *lir.Stack {
	if s.data == nil {
		s.data = s.mod.Stack("stack", StackSize)
	}
	return s.data
}

func (s *state) retStack() *lir.Stack {
	if s.ret == nil {
		s.ret = s.mod.Stack("retstack", StackSize)
	}
	return s.ret
}

func (s *state) label(name string) *labelBlock {
	if l, ok := s.labels[name]; ok {
		return l
	}
	l := &labelBlock{name: name, block: s.mod.NewBlock("L_" + strings.TrimPrefix(name, "@"))}
	s.labels[name] = l
	s.labelOrder = append(s.labelOrder, l)
	return l
}

func typeSuffix(t types.Type) string {
	if lir.IsFloat(t) {
		return "f32"
	}
	return fmt.Sprintf("i%d", lir.IntBits(t))
}

// ===== Operand decoding =====

func parseRegister(text string) (int, bool) {
	if len(text) != 2 || (text[0] != 'r' && text[0] != 'R') {
		return 0, false
	}
	if text[1] < '0' || text[1] > '9' {
		return 0, false
	}
	return int(text[1] - '0'), true
}

func literalValue(kind ast.OperandKind, text string) (value.Value, error) {
	switch kind {
	case ast.OperandInteger:
		n, err := strconv.ParseInt(text, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("integer %q does not fit in 32 bits", text)
		}
		return lir.IntConst(types.I32, n), nil
	case ast.OperandFloat:
		f, err := strconv.ParseFloat(text, 32)
		if err != nil {
			return nil, fmt.Errorf("float %q is malformed", text)
		}
		return lir.FloatConst(float32(f)), nil
	case ast.OperandBoolean:
		switch strings.ToLower(text) {
		case "true":
			return lir.BoolConst(true), nil
		case "false":
			return lir.BoolConst(false), nil
		}
		return nil, fmt.Errorf("boolean %q is malformed", text)
	case ast.OperandCharacter:
		s, err := lexer.Unquote(text)
		if err != nil || len(s) != 1 {
			return nil, fmt.Errorf("character %s is malformed", text)
		}
		return lir.IntConst(types.I8, int64(s[0])), nil
	}
	return nil, fmt.Errorf("%s operand %q is not a literal", kind, text)
}

// conditionType maps a type-condition operand to its IR type.
func conditionType(text string) (types.Type, bool) {
	switch strings.ToLower(text) {
	case "int":
		return types.I32, true
	case "float":
		return types.Float, true
	case "bool":
		return types.I1, true
	case "char":
		return types.I8, true
	}
	return nil, false
}
