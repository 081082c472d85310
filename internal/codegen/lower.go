package codegen

import (
	"fmt"
	"strings"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"github.com/startasm-lang/startasm/internal/ast"
	"github.com/startasm-lang/startasm/internal/lexer"
	"github.com/startasm-lang/startasm/internal/lir"
)

// lowering holds one instruction's view of the generation state. Every
// lowering validates its operands before it emits anything.
type lowering struct {
	st *state
	in *ast.InstructionNode
	b  *lir.Builder
}

// arg returns the context entry at pos, checking its kind.
func (l *lowering) arg(pos int, kinds ...ast.OperandKind) (entry, *Error) {
	if pos >= len(l.st.local) {
		return entry{}, invalidOperand(l.in.Line, "%s expects an operand at position %d", l.in.Kind, pos)
	}
	e := l.st.local[pos]
	for _, k := range kinds {
		if e.kind == k {
			return e, nil
		}
	}
	return entry{}, invalidOperand(l.in.Line, "%s cannot take %s operand %q at position %d", l.in.Kind, e.kind, e.text, pos)
}

// readable checks that a value operand can be read.
func (l *lowering) readable(e entry) *Error {
	if e.kind != ast.OperandRegister {
		return nil
	}
	if !l.st.regs[e.reg].Bound() {
		return uninitialized(e.text, l.in.Line)
	}
	return nil
}

// typeOf returns the type a value operand will have once read.
func (l *lowering) typeOf(e entry) types.Type {
	if e.kind == ast.OperandRegister {
		return l.st.regs[e.reg].Type
	}
	return e.value.Type()
}

// value materializes a value operand, reloading a register from its cell
// when its in-block value was invalidated.
func (l *lowering) value(e entry) value.Value {
	if e.kind != ast.OperandRegister {
		return e.value
	}
	bind := &l.st.regs[e.reg]
	if bind.Value == nil {
		bind.Value = l.b.FromBits(l.b.Load(types.I32, bind.Cell), bind.Type)
	}
	return bind.Value
}

// assign stores the bit pattern of v into the register's cell and rebinds
// the register to v.
func (l *lowering) assign(reg int, v value.Value) {
	cell := l.st.cell(reg)
	l.b.Store(l.b.Bits(v), cell)
	l.st.regs[reg] = Binding{Value: v, Cell: cell, Type: v.Type()}
}

var valueKinds = []ast.OperandKind{
	ast.OperandRegister, ast.OperandInteger, ast.OperandFloat, ast.OperandBoolean, ast.OperandCharacter,
}

func (l *lowering) move() *Error {
	src, err := l.arg(0, ast.OperandRegister)
	if err != nil {
		return err
	}
	dst, err := l.arg(1, ast.OperandRegister)
	if err != nil {
		return err
	}
	if err := l.readable(src); err != nil {
		return err
	}
	l.assign(dst.reg, l.value(src))
	return nil
}

func (l *lowering) create() *Error {
	lit, err := l.arg(0, ast.OperandInteger, ast.OperandFloat, ast.OperandBoolean, ast.OperandCharacter)
	if err != nil {
		return err
	}
	dst, err := l.arg(1, ast.OperandRegister)
	if err != nil {
		return err
	}
	l.assign(dst.reg, lit.value)
	return nil
}

func arithmetic(op lir.BinOp) func(*lowering) *Error {
	return func(l *lowering) *Error {
		x, err := l.arg(0, ast.OperandRegister)
		if err != nil {
			return err
		}
		y, err := l.arg(1, ast.OperandRegister)
		if err != nil {
			return err
		}
		dst, err := l.arg(2, ast.OperandRegister)
		if err != nil {
			return err
		}
		if err := l.readable(x); err != nil {
			return err
		}
		if err := l.readable(y); err != nil {
			return err
		}
		if op == lir.BinOr || op == lir.BinAnd {
			for _, e := range []entry{x, y} {
				if lir.IsFloat(l.typeOf(e)) {
					return typeMismatch(e.text, l.in.Line, "%s is not defined on float register %s", l.in.Kind, e.text)
				}
			}
		}

		v, gerr := l.b.Binary(op, l.value(x), l.value(y))
		if gerr != nil {
			return typeMismatch("", l.in.Line, "%v", gerr)
		}
		l.assign(dst.reg, v)
		return nil
	}
}

func (l *lowering) not() *Error {
	src, err := l.arg(0, ast.OperandRegister)
	if err != nil {
		return err
	}
	dst, err := l.arg(1, ast.OperandRegister)
	if err != nil {
		return err
	}
	if err := l.readable(src); err != nil {
		return err
	}
	if lir.IsFloat(l.typeOf(src)) {
		return typeMismatch(src.text, l.in.Line, "not is not defined on float register %s", src.text)
	}

	v, gerr := l.b.Not(l.value(src))
	if gerr != nil {
		return typeMismatch(src.text, l.in.Line, "%v", gerr)
	}
	l.assign(dst.reg, v)
	return nil
}

func (l *lowering) shift() *Error {
	dir, err := l.arg(0, ast.OperandShiftCondition)
	if err != nil {
		return err
	}
	target, err := l.arg(1, ast.OperandRegister)
	if err != nil {
		return err
	}
	amount, err := l.arg(2, ast.OperandRegister, ast.OperandInteger)
	if err != nil {
		return err
	}

	var op lir.BinOp
	switch strings.ToLower(dir.text) {
	case "left":
		op = lir.BinShl
	case "right":
		op = lir.BinShr
	default:
		return invalidOperand(l.in.Line, "unknown shift direction %q", dir.text)
	}
	if err := l.readable(target); err != nil {
		return err
	}
	if err := l.readable(amount); err != nil {
		return err
	}
	for _, e := range []entry{target, amount} {
		if lir.IsFloat(l.typeOf(e)) {
			return typeMismatch(e.text, l.in.Line, "shift is not defined on float operand %s", e.text)
		}
	}

	tv := l.value(target)
	av := l.b.Convert(l.value(amount), tv.Type())
	v, gerr := l.b.Binary(op, tv, av)
	if gerr != nil {
		return typeMismatch(target.text, l.in.Line, "%v", gerr)
	}
	l.assign(target.reg, v)
	return nil
}

func (l *lowering) cast() *Error {
	cond, err := l.arg(0, ast.OperandTypeCondition)
	if err != nil {
		return err
	}
	reg, err := l.arg(1, ast.OperandRegister)
	if err != nil {
		return err
	}
	to, ok := conditionType(cond.text)
	if !ok {
		return invalidOperand(l.in.Line, "unknown type %q", cond.text)
	}
	if err := l.readable(reg); err != nil {
		return err
	}
	l.assign(reg.reg, l.b.Convert(l.value(reg), to))
	return nil
}

// memoryCell returns the i32 global backing memory address addr.
func (l *lowering) memoryCell(addr int64) *ir.Global {
	return l.st.mod.Global(fmt.Sprintf("mem.%d", addr), types.I32)
}

func (l *lowering) load() *Error {
	mem, err := l.arg(0, ast.OperandMemoryAddress)
	if err != nil {
		return err
	}
	dst, err := l.arg(1, ast.OperandRegister)
	if err != nil {
		return err
	}

	t := l.st.memType(mem.addr)
	l.assign(dst.reg, l.b.FromBits(l.b.Load(types.I32, l.memoryCell(mem.addr)), t))
	return nil
}

func (l *lowering) store() *Error {
	src, err := l.arg(0, ast.OperandRegister)
	if err != nil {
		return err
	}
	mem, err := l.arg(1, ast.OperandMemoryAddress)
	if err != nil {
		return err
	}
	if err := l.readable(src); err != nil {
		return err
	}

	v := l.value(src)
	l.b.Store(l.b.Bits(v), l.memoryCell(mem.addr))
	l.st.memTypes[mem.addr] = v.Type()
	return nil
}

func (l *lowering) compare() *Error {
	x, err := l.arg(0, ast.OperandRegister)
	if err != nil {
		return err
	}
	y, err := l.arg(1, ast.OperandRegister)
	if err != nil {
		return err
	}
	if err := l.readable(x); err != nil {
		return err
	}
	if err := l.readable(y); err != nil {
		return err
	}

	sign := l.b.Sign(l.value(x), l.value(y))
	l.b.StoreAs(lir.OpCompare, sign, l.st.flagsCell())
	return nil
}

var jumpPredicates = map[string]enum.IPred{
	"equal":        enum.IPredEQ,
	"unequal":      enum.IPredNE,
	"greater":      enum.IPredSGT,
	"less":         enum.IPredSLT,
	"greaterequal": enum.IPredSGE,
	"lessequal":    enum.IPredSLE,
}

func (l *lowering) jump() *Error {
	cond := "always"
	target, err := l.arg(0, ast.OperandInstructionAddress)
	if err != nil {
		c, cerr := l.arg(0, ast.OperandJumpCondition)
		if cerr != nil {
			return err
		}
		if target, err = l.arg(1, ast.OperandInstructionAddress); err != nil {
			return err
		}
		cond = strings.ToLower(c.text)
	}

	pred, ok := jumpPredicates[cond]
	if !ok && cond != "always" {
		return invalidOperand(l.in.Line, "unknown jump condition %q", cond)
	}
	if err := l.st.join(&target.label.in, target.label.name, l.in.Line); err != nil {
		return err
	}

	if cond == "always" {
		l.b.Br(target.label.block)
		l.st.invalidate()
		return nil
	}

	flags := l.b.Load(types.I32, l.st.flagsCell())
	taken := l.b.ICmp(pred, flags, lir.IntConst(types.I32, 0))
	next := l.st.mod.NewBlock("")
	l.b.CondBr(taken, target.label.block, next)
	l.st.mod.Place(next)
	l.st.invalidate()
	return nil
}

func (l *lowering) call() *Error {
	target, err := l.arg(0, ast.OperandInstructionAddress)
	if err != nil {
		return err
	}
	if err := l.st.join(&target.label.in, target.label.name, l.in.Line); err != nil {
		return err
	}
	if err := l.st.join(&l.st.retIn, "a return point", l.in.Line); err != nil {
		return err
	}

	id := len(l.st.callSites)
	cont := l.st.mod.NewBlock(fmt.Sprintf("call.%d.ret", id))
	l.st.callSites = append(l.st.callSites, cont)
	l.b.Push(l.st.retStack(), lir.IntConst(types.I32, int64(id)))
	l.b.BrAs(lir.OpCall, target.label.block)
	l.st.mod.Place(cont)
	l.st.invalidate()
	return nil
}

func (l *lowering) ret() *Error {
	if err := l.st.join(&l.st.retIn, "a return point", l.in.Line); err != nil {
		return err
	}
	if l.st.badReturn == nil {
		l.st.badReturn = l.st.mod.NewBlock("ret.invalid")
		l.st.badReturn.NewRet(lir.IntConst(types.I32, 1))
	}
	site := l.b.Pop(l.st.retStack())
	l.st.returns = append(l.st.returns, l.b.Switch(site, l.st.badReturn))
	l.st.invalidate()
	return nil
}

func newCase(id int, target *ir.Block) *ir.Case {
	return ir.NewCase(lir.IntConst(types.I32, int64(id)), target)
}

func (l *lowering) push() *Error {
	src, err := l.arg(0, ast.OperandRegister)
	if err != nil {
		return err
	}
	if err := l.readable(src); err != nil {
		return err
	}
	l.b.Push(l.st.dataStack(), l.b.Bits(l.value(src)))
	return nil
}

func (l *lowering) pop() *Error {
	dst, err := l.arg(0, ast.OperandRegister)
	if err != nil {
		return err
	}
	l.assign(dst.reg, l.b.Pop(l.st.dataStack()))
	return nil
}

func (l *lowering) stop() *Error {
	l.b.Halt()
	l.st.invalidate()
	return nil
}

func (l *lowering) input() *Error {
	cond, err := l.arg(0, ast.OperandTypeCondition)
	if err != nil {
		return err
	}
	dst, err := l.arg(1, ast.OperandRegister)
	if err != nil {
		return err
	}
	t, ok := conditionType(cond.text)
	if !ok {
		return invalidOperand(l.in.Line, "unknown type %q", cond.text)
	}

	fn := l.st.mod.Runtime("startasm_input_"+typeSuffix(t), t)
	l.assign(dst.reg, l.b.Call(lir.OpInput, fn))
	return nil
}

func (l *lowering) output() *Error {
	src, err := l.arg(0, ast.OperandRegister)
	if err != nil {
		return err
	}
	if err := l.readable(src); err != nil {
		return err
	}

	v := l.value(src)
	fn := l.st.mod.Runtime("startasm_output_"+typeSuffix(v.Type()), types.Void, v.Type())
	l.b.Call(lir.OpOutput, fn, v)
	return nil
}

func (l *lowering) print() *Error {
	e, err := l.arg(0, append([]ast.OperandKind{ast.OperandString, ast.OperandNewline}, valueKinds...)...)
	if err != nil {
		return err
	}

	mod := l.st.mod
	switch e.kind {
	case ast.OperandString:
		s, uerr := lexer.Unquote(e.text)
		if uerr != nil {
			return invalidOperand(l.in.Line, "%v", uerr)
		}
		fn := mod.Runtime("startasm_print_str", types.Void, types.I8Ptr)
		l.b.Call(lir.OpPrint, fn, mod.CString(s))
	case ast.OperandNewline:
		l.b.Call(lir.OpPrint, mod.Runtime("startasm_print_newline", types.Void))
	default:
		if err := l.readable(e); err != nil {
			return err
		}
		v := l.value(e)
		fn := mod.Runtime("startasm_print_"+typeSuffix(v.Type()), types.Void, v.Type())
		l.b.Call(lir.OpPrint, fn, v)
	}
	return nil
}

func (l *lowering) label() *Error {
	target, err := l.arg(0, ast.OperandInstructionAddress)
	if err != nil {
		return err
	}
	lb := target.label
	if lb.placed {
		return invalidOperand(l.in.Line, "label %s is defined more than once", lb.name)
	}

	if !l.st.mod.Terminated() {
		if err := l.st.join(&lb.in, lb.name, l.in.Line); err != nil {
			return err
		}
		l.b.Br(lb.block)
	}
	if lb.in == nil {
		lb.in = l.st.snapshot()
	}
	l.st.mod.Place(lb.block)
	lb.placed = true
	l.b.Label(lb.block)
	l.st.enter(lb.in)
	return nil
}

func (l *lowering) comment() *Error { return nil }
