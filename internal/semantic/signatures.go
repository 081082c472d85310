package semantic

import (
	"strings"

	"github.com/startasm-lang/startasm/internal/ast"
)

type operandSet []ast.OperandKind

func (s operandSet) has(k ast.OperandKind) bool {
	for _, x := range s {
		if x == k {
			return true
		}
	}
	return false
}

func (s operandSet) String() string {
	names := make([]string, len(s))
	for i, k := range s {
		names[i] = k.String()
	}
	return strings.Join(names, " or ")
}

// form is one accepted operand list.
type form []operandSet

var (
	reg       = operandSet{ast.OperandRegister}
	mem       = operandSet{ast.OperandMemoryAddress}
	addr      = operandSet{ast.OperandInstructionAddress}
	literal   = operandSet{ast.OperandInteger, ast.OperandFloat, ast.OperandBoolean, ast.OperandCharacter}
	typeCond  = operandSet{ast.OperandTypeCondition}
	shiftCond = operandSet{ast.OperandShiftCondition}
	jumpCond  = operandSet{ast.OperandJumpCondition}
	regOrInt  = operandSet{ast.OperandRegister, ast.OperandInteger}
	text      = operandSet{ast.OperandString}
	printable = operandSet{
		ast.OperandString, ast.OperandNewline, ast.OperandRegister, ast.OperandInteger,
		ast.OperandFloat, ast.OperandBoolean, ast.OperandCharacter,
	}
)

// signatures lists the accepted forms of every instruction kind.
var signatures = map[ast.InstructionKind][]form{
	ast.InstructionMove:     {{reg, reg}},
	ast.InstructionLoad:     {{mem, reg}},
	ast.InstructionStore:    {{reg, mem}},
	ast.InstructionCreate:   {{literal, reg}},
	ast.InstructionCast:     {{typeCond, reg}},
	ast.InstructionAdd:      {{reg, reg, reg}},
	ast.InstructionSub:      {{reg, reg, reg}},
	ast.InstructionMultiply: {{reg, reg, reg}},
	ast.InstructionDivide:   {{reg, reg, reg}},
	ast.InstructionOr:       {{reg, reg, reg}},
	ast.InstructionAnd:      {{reg, reg, reg}},
	ast.InstructionNot:      {{reg, reg}},
	ast.InstructionShift:    {{shiftCond, reg, regOrInt}},
	ast.InstructionCompare:  {{reg, reg}},
	ast.InstructionJump:     {{addr}, {jumpCond, addr}},
	ast.InstructionCall:     {{addr}},
	ast.InstructionPush:     {{reg}},
	ast.InstructionPop:      {{reg}},
	ast.InstructionReturn:   {{}},
	ast.InstructionStop:     {{}},
	ast.InstructionInput:    {{typeCond, reg}},
	ast.InstructionOutput:   {{reg}},
	ast.InstructionPrint:    {{printable}},
	ast.InstructionLabel:    {{addr}},
	ast.InstructionComment:  {{}, {text}},
}
