package lir

import (
	"fmt"
	"math"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// BinOp names the arithmetic and bitwise operations the builder folds.
type BinOp int

const (
	BinAdd BinOp = iota
	BinSub
	BinMul
	BinDiv
	BinOr
	BinAnd
	BinXor
	BinShl
	BinShr
)

func (op BinOp) String() string {
	switch op {
	case BinAdd:
		return "add"
	case BinSub:
		return "sub"
	case BinMul:
		return "mul"
	case BinDiv:
		return "div"
	case BinOr:
		return "or"
	case BinAnd:
		return "and"
	case BinXor:
		return "xor"
	case BinShl:
		return "shl"
	case BinShr:
		return "shr"
	default:
		return fmt.Sprintf("BinOp(%d)", int(op))
	}
}

// Builder emits instructions for one source instruction into the module's
// current block. Operations on constants are folded instead of emitted.
type Builder struct {
	m        *Module
	line     int
	mnemonic string
}

// At returns a builder that tags recorded ops with line and mnemonic.
func (m *Module) At(line int, mnemonic string) *Builder {
	return &Builder{m: m, line: line, mnemonic: mnemonic}
}

// Module returns the module the builder emits into.
func (b *Builder) Module() *Module { return b.m }

// Store writes v into the cell at dst.
func (b *Builder) Store(v, dst value.Value) *ir.InstStore {
	return b.StoreAs(OpStore, v, dst)
}

// StoreAs writes v into the cell at dst and records the store under kind.
func (b *Builder) StoreAs(kind OpKind, v, dst value.Value) *ir.InstStore {
	inst := b.m.Current().NewStore(v, dst)
	b.m.record(kind, b.line, b.mnemonic, inst)
	return inst
}

// Load reads a value of type elem from src.
func (b *Builder) Load(elem types.Type, src value.Value) *ir.InstLoad {
	inst := b.m.Current().NewLoad(elem, src)
	b.m.record(OpLoad, b.line, b.mnemonic, inst)
	return inst
}

// Br ends the current block with an unconditional branch.
func (b *Builder) Br(target *ir.Block) *ir.TermBr {
	return b.BrAs(OpBranch, target)
}

// BrAs is Br recording the branch under kind.
func (b *Builder) BrAs(kind OpKind, target *ir.Block) *ir.TermBr {
	t := b.m.Current().NewBr(target)
	b.m.record(kind, b.line, b.mnemonic, t)
	return t
}

// CondBr ends the current block with a conditional branch.
func (b *Builder) CondBr(cond value.Value, then, otherwise *ir.Block) *ir.TermCondBr {
	t := b.m.Current().NewCondBr(cond, then, otherwise)
	b.m.record(OpCondBranch, b.line, b.mnemonic, t)
	return t
}

// Switch ends the current block with a switch on x. Cases may be appended
// to the returned terminator until the module is finalized.
func (b *Builder) Switch(x value.Value, otherwise *ir.Block) *ir.TermSwitch {
	t := b.m.Current().NewSwitch(x, otherwise)
	b.m.record(OpReturn, b.line, b.mnemonic, t)
	return t
}

// Halt ends the current block with ret i32 0.
func (b *Builder) Halt() *ir.TermRet {
	t := b.m.Current().NewRet(constant.NewInt(types.I32, 0))
	b.m.record(OpHalt, b.line, b.mnemonic, t)
	return t
}

// Call emits a call of a runtime function and records it under kind.
func (b *Builder) Call(kind OpKind, callee *ir.Func, args ...value.Value) *ir.InstCall {
	inst := b.m.Current().NewCall(callee, args...)
	b.m.record(kind, b.line, b.mnemonic, inst)
	return inst
}

// Label records the start of a labelled block.
func (b *Builder) Label(block *ir.Block) {
	b.m.record(OpLabel, b.line, b.mnemonic, labelInst{block})
}

type labelInst struct{ block *ir.Block }

func (l labelInst) LLString() string { return l.block.Ident() + ":" }

// ===== Folding arithmetic =====

// IsFloat reports whether t is a floating-point type.
func IsFloat(t types.Type) bool {
	_, ok := t.(*types.FloatType)
	return ok
}

// IntBits returns the width of an integer type, or 0.
func IntBits(t types.Type) uint64 {
	if it, ok := t.(*types.IntType); ok {
		return it.BitSize
	}
	return 0
}

// rank orders operand types for unification: float > i32 > i8 > i1.
func rank(t types.Type) int {
	if IsFloat(t) {
		return 4
	}
	switch IntBits(t) {
	case 32:
		return 3
	case 8:
		return 2
	case 1:
		return 1
	}
	return 0
}

// Unify converts x and y to the wider of their two types.
func (b *Builder) Unify(x, y value.Value) (value.Value, value.Value, types.Type) {
	t := x.Type()
	if rank(y.Type()) > rank(t) {
		t = y.Type()
	}
	return b.Convert(x, t), b.Convert(y, t), t
}

// Binary applies op to x and y after unification.
func (b *Builder) Binary(op BinOp, x, y value.Value) (value.Value, error) {
	x, y, t := b.Unify(x, y)
	if IsFloat(t) {
		return b.floatBinary(op, x, y)
	}
	return b.intBinary(op, x, y, t)
}

func (b *Builder) intBinary(op BinOp, x, y value.Value, t types.Type) (value.Value, error) {
	cx, okx := x.(*constant.Int)
	cy, oky := y.(*constant.Int)
	if okx && oky {
		a, c := cx.X.Int64(), cy.X.Int64()
		var r int64
		fold := true
		switch op {
		case BinAdd:
			r = a + c
		case BinSub:
			r = a - c
		case BinMul:
			r = a * c
		case BinDiv:
			if c == 0 {
				fold = false
			} else {
				r = a / c
			}
		case BinOr:
			r = a | c
		case BinAnd:
			r = a & c
		case BinXor:
			r = a ^ c
		case BinShl:
			r = a << uint64(c&63)
		case BinShr:
			r = a >> uint64(c&63)
		}
		if fold {
			return IntConst(t, r), nil
		}
	}

	blk := b.m.Current()
	switch op {
	case BinAdd:
		return blk.NewAdd(x, y), nil
	case BinSub:
		return blk.NewSub(x, y), nil
	case BinMul:
		return blk.NewMul(x, y), nil
	case BinDiv:
		return blk.NewSDiv(x, y), nil
	case BinOr:
		return blk.NewOr(x, y), nil
	case BinAnd:
		return blk.NewAnd(x, y), nil
	case BinXor:
		return blk.NewXor(x, y), nil
	case BinShl:
		return blk.NewShl(x, y), nil
	case BinShr:
		return blk.NewAShr(x, y), nil
	}
	return nil, fmt.Errorf("unsupported integer operation %s", op)
}

func (b *Builder) floatBinary(op BinOp, x, y value.Value) (value.Value, error) {
	cx, okx := x.(*constant.Float)
	cy, oky := y.(*constant.Float)
	if okx && oky {
		a, _ := cx.X.Float64()
		c, _ := cy.X.Float64()
		fa, fc := float32(a), float32(c)
		switch op {
		case BinAdd:
			return FloatConst(fa + fc), nil
		case BinSub:
			return FloatConst(fa - fc), nil
		case BinMul:
			return FloatConst(fa * fc), nil
		case BinDiv:
			if fc != 0 {
				return FloatConst(fa / fc), nil
			}
		}
	}

	blk := b.m.Current()
	switch op {
	case BinAdd:
		return blk.NewFAdd(x, y), nil
	case BinSub:
		return blk.NewFSub(x, y), nil
	case BinMul:
		return blk.NewFMul(x, y), nil
	case BinDiv:
		return blk.NewFDiv(x, y), nil
	}
	return nil, fmt.Errorf("operation %s is not defined on float", op)
}

// Not returns the bitwise complement of an integer value.
func (b *Builder) Not(x value.Value) (value.Value, error) {
	if IsFloat(x.Type()) {
		return nil, fmt.Errorf("operation not is not defined on float")
	}
	all := IntConst(x.Type(), -1)
	return b.intBinary(BinXor, x, all, x.Type())
}

// Sign returns the i32 value -1, 0 or 1 according to x <, == or > y.
func (b *Builder) Sign(x, y value.Value) value.Value {
	x, y, t := b.Unify(x, y)
	if IsFloat(t) {
		cx, okx := x.(*constant.Float)
		cy, oky := y.(*constant.Float)
		if okx && oky {
			a, _ := cx.X.Float64()
			c, _ := cy.X.Float64()
			return IntConst(types.I32, int64(cmpSign(a, c)))
		}
		blk := b.m.Current()
		lt := blk.NewFCmp(enum.FPredOLT, x, y)
		gt := blk.NewFCmp(enum.FPredOGT, x, y)
		return b.selectSign(lt, gt)
	}

	cx, okx := x.(*constant.Int)
	cy, oky := y.(*constant.Int)
	if okx && oky {
		return IntConst(types.I32, int64(cx.X.Cmp(cy.X)))
	}
	blk := b.m.Current()
	lt := blk.NewICmp(enum.IPredSLT, x, y)
	gt := blk.NewICmp(enum.IPredSGT, x, y)
	return b.selectSign(lt, gt)
}

func (b *Builder) selectSign(lt, gt value.Value) value.Value {
	blk := b.m.Current()
	pos := blk.NewSelect(gt, IntConst(types.I32, 1), IntConst(types.I32, 0))
	return blk.NewSelect(lt, IntConst(types.I32, -1), pos)
}

func cmpSign(a, c float64) int {
	switch {
	case a < c:
		return -1
	case a > c:
		return 1
	}
	return 0
}

// Bits reinterprets a value as i32 for storage in an i32 slot. Floats keep
// their bit pattern; i1 and i8 are zero-extended.
func (b *Builder) Bits(v value.Value) value.Value {
	t := v.Type()
	if IsFloat(t) {
		if f, ok := ConstFloat(v); ok {
			return IntConst(types.I32, int64(int32(math.Float32bits(float32(f)))))
		}
		return b.m.Current().NewBitCast(v, types.I32)
	}
	switch IntBits(t) {
	case 32:
		return v
	case 1, 8:
		if n, ok := ConstInt(v); ok {
			return IntConst(types.I32, n&(1<<IntBits(t)-1))
		}
		return b.m.Current().NewZExt(v, types.I32)
	}
	return v
}

// FromBits reads an i32 slot value back as type t, undoing Bits.
func (b *Builder) FromBits(v value.Value, t types.Type) value.Value {
	switch {
	case IsFloat(t):
		if n, ok := ConstInt(v); ok {
			return FloatConst(math.Float32frombits(uint32(n)))
		}
		return b.m.Current().NewBitCast(v, t)
	case IntBits(t) < 32:
		if n, ok := ConstInt(v); ok {
			return IntConst(t, n)
		}
		return b.m.Current().NewTrunc(v, t)
	}
	return v
}

// ICmp compares two i32 values.
func (b *Builder) ICmp(pred enum.IPred, x, y value.Value) value.Value {
	return b.m.Current().NewICmp(pred, x, y)
}

// Convert changes v to type to. Constants are converted at compile time.
// Conversions to i1 test against zero; i1 widens unsigned, i8 and i32 widen signed.
func (b *Builder) Convert(v value.Value, to types.Type) value.Value {
	from := v.Type()
	if from.Equal(to) {
		return v
	}
	if c, ok := v.(constant.Constant); ok {
		if folded, ok := convertConst(c, to); ok {
			return folded
		}
	}

	blk := b.m.Current()
	switch {
	case IsFloat(from) && IsFloat(to):
		return v
	case IsFloat(from) && IntBits(to) == 1:
		return blk.NewFCmp(enum.FPredONE, v, FloatConst(0))
	case IsFloat(from):
		return blk.NewFPToSI(v, to)
	case IsFloat(to) && IntBits(from) == 1:
		return blk.NewUIToFP(v, to)
	case IsFloat(to):
		return blk.NewSIToFP(v, to)
	case IntBits(to) == 1:
		return blk.NewICmp(enum.IPredNE, v, IntConst(from, 0))
	case IntBits(to) < IntBits(from):
		return blk.NewTrunc(v, to)
	case IntBits(from) == 1:
		return blk.NewZExt(v, to)
	default:
		return blk.NewSExt(v, to)
	}
}

func convertConst(c constant.Constant, to types.Type) (constant.Constant, bool) {
	switch c := c.(type) {
	case *constant.Int:
		n := c.X.Int64()
		if IntBits(c.Typ) == 1 {
			n &= 1
		}
		if IsFloat(to) {
			return FloatConst(float32(n)), true
		}
		if IntBits(to) == 1 {
			return BoolConst(n != 0), true
		}
		return IntConst(to, n), true
	case *constant.Float:
		f, _ := c.X.Float64()
		if IntBits(to) == 1 {
			return BoolConst(f != 0), true
		}
		if IntBits(to) > 0 {
			if math.IsNaN(f) || math.IsInf(f, 0) {
				return nil, false
			}
			return IntConst(to, int64(f)), true
		}
	}
	return nil, false
}

// IntConst builds an integer constant of type t, wrapping n to the type's width.
func IntConst(t types.Type, n int64) *constant.Int {
	switch IntBits(t) {
	case 1:
		return constant.NewBool(n&1 != 0)
	case 8:
		return constant.NewInt(types.I8, int64(int8(n)))
	case 64:
		return constant.NewInt(types.I64, n)
	default:
		return constant.NewInt(types.I32, int64(int32(n)))
	}
}

// FloatConst builds a single-precision float constant.
func FloatConst(f float32) *constant.Float {
	return constant.NewFloat(types.Float, float64(f))
}

// BoolConst builds an i1 constant.
func BoolConst(v bool) *constant.Int { return constant.NewBool(v) }

// ConstInt returns the integer value of a folded constant.
func ConstInt(v value.Value) (int64, bool) {
	c, ok := v.(*constant.Int)
	if !ok {
		return 0, false
	}
	return c.X.Int64(), true
}

// ConstFloat returns the value of a folded float constant.
func ConstFloat(v value.Value) (float64, bool) {
	c, ok := v.(*constant.Float)
	if !ok {
		return 0, false
	}
	f, _ := c.X.Float64()
	return f, true
}
