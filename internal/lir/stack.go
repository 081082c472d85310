package lir

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// Exit codes of main when a stack bound is violated at run time.
const (
	ExitStackOverflow  = 2
	ExitStackUnderflow = 3
)

// Stack is a fixed-size i32 stack held in two globals: the slot array and
// the index of the next free slot. Every push and pop checks the index
// before touching the array and leaves main through a trap block when the
// stack is full or empty.
type Stack struct {
	Name string
	Size uint64
	Data *ir.Global
	SP   *ir.Global

	arr                 *types.ArrayType
	overflow, underflow *ir.Block
}

// Stack returns the stack called name, defining its globals on first use.
func (m *Module) Stack(name string, size uint64) *Stack {
	if s, ok := m.stacks[name]; ok {
		return s
	}
	arr := types.NewArray(size, types.I32)
	s := &Stack{
		Name: name,
		Size: size,
		Data: m.Global(name, arr),
		SP:   m.Global(name+".sp", types.I32),
		arr:  arr,
	}
	m.stacks[name] = s
	return s
}

func (s *Stack) trap(m *Module, blk **ir.Block, name string, code int64) *ir.Block {
	if *blk == nil {
		*blk = m.NewBlock(s.Name + "." + name)
		(*blk).NewRet(IntConst(types.I32, code))
		m.traps = append(m.traps, *blk)
	}
	return *blk
}

func (s *Stack) slot(blk *ir.Block, idx value.Value) value.Value {
	return blk.NewGetElementPtr(s.arr, s.Data, constant.NewInt(types.I64, 0), idx)
}

// Push stores an i32 value in the next free slot and advances the index.
func (b *Builder) Push(s *Stack, v value.Value) *ir.InstStore {
	sp := b.m.Current().NewLoad(types.I32, s.SP)
	full := b.m.Current().NewICmp(enum.IPredSGE, sp, IntConst(types.I32, int64(s.Size)))
	b.guard(full, s.trap(b.m, &s.overflow, "overflow", ExitStackOverflow))

	blk := b.m.Current()
	inst := blk.NewStore(v, s.slot(blk, sp))
	blk.NewStore(blk.NewAdd(sp, IntConst(types.I32, 1)), s.SP)
	b.m.record(OpPush, b.line, b.mnemonic, inst)
	return inst
}

// Pop moves the index back one slot and returns the i32 value found there.
func (b *Builder) Pop(s *Stack) value.Value {
	sp := b.m.Current().NewLoad(types.I32, s.SP)
	empty := b.m.Current().NewICmp(enum.IPredSLT, sp, IntConst(types.I32, 1))
	b.guard(empty, s.trap(b.m, &s.underflow, "underflow", ExitStackUnderflow))

	blk := b.m.Current()
	top := blk.NewSub(sp, IntConst(types.I32, 1))
	blk.NewStore(top, s.SP)
	inst := blk.NewLoad(types.I32, s.slot(blk, top))
	b.m.record(OpPop, b.line, b.mnemonic, inst)
	return inst
}

// guard leaves the current block for trap when fail holds and continues in
// a fresh block otherwise.
func (b *Builder) guard(fail value.Value, trap *ir.Block) {
	ok := b.m.NewBlock("")
	b.m.Current().NewCondBr(fail, trap, ok)
	b.m.Place(ok)
}
