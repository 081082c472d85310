package ast

import "fmt"

// NodeType tags the three node variants of the tree.
type NodeType int

const (
	NodeRoot NodeType = iota
	NodeInstruction
	NodeOperand
)

func (nt NodeType) String() string {
	switch nt {
	case NodeRoot:
		return "ROOT"
	case NodeInstruction:
		return "INSTRUCTION"
	case NodeOperand:
		return "OPERAND"
	default:
		return "UNKNOWN"
	}
}

// InstructionKind identifies the operation an instruction node performs.
// The numeric values are part of the structured form and must stay stable.
type InstructionKind int

const (
	InstructionMove InstructionKind = iota
	InstructionLoad
	InstructionStore
	InstructionCreate
	InstructionCast
	InstructionAdd
	InstructionSub
	InstructionMultiply
	InstructionDivide
	InstructionOr
	InstructionAnd
	InstructionNot
	InstructionShift
	InstructionCompare
	InstructionJump
	InstructionCall
	InstructionPush
	InstructionPop
	InstructionReturn
	InstructionStop
	InstructionInput
	InstructionOutput
	InstructionPrint
	InstructionLabel
	InstructionComment
	// InstructionNone is the sentinel for text that names no instruction.
	InstructionNone
)

// mnemonics lists the source spelling of every supported instruction,
// indexed by kind.
var mnemonics = [...]string{
	InstructionMove:     "move",
	InstructionLoad:     "load",
	InstructionStore:    "store",
	InstructionCreate:   "create",
	InstructionCast:     "cast",
	InstructionAdd:      "add",
	InstructionSub:      "sub",
	InstructionMultiply: "multiply",
	InstructionDivide:   "divide",
	InstructionOr:       "or",
	InstructionAnd:      "and",
	InstructionNot:      "not",
	InstructionShift:    "shift",
	InstructionCompare:  "compare",
	InstructionJump:     "jump",
	InstructionCall:     "call",
	InstructionPush:     "push",
	InstructionPop:      "pop",
	InstructionReturn:   "return",
	InstructionStop:     "stop",
	InstructionInput:    "input",
	InstructionOutput:   "output",
	InstructionPrint:    "print",
	InstructionLabel:    "label",
	InstructionComment:  "comment",
}

// NumInstructionKinds is the number of real instruction kinds (the sentinel excluded).
const NumInstructionKinds = int(InstructionNone)

func (k InstructionKind) String() string {
	if k >= 0 && k < InstructionNone {
		return mnemonics[k]
	}
	return "none"
}

// Mnemonics returns the supported mnemonics in kind order.
func Mnemonics() []string {
	out := make([]string, len(mnemonics))
	copy(out, mnemonics[:])
	return out
}

// Arity classifies an instruction by its operand count.
type Arity int

const (
	Nullary Arity = iota
	Unary
	Binary
	Ternary
	InvalidArity
)

func (a Arity) String() string {
	switch a {
	case Nullary:
		return "nullary"
	case Unary:
		return "unary"
	case Binary:
		return "binary"
	case Ternary:
		return "ternary"
	default:
		return "invalid"
	}
}

// Count returns the operand count of a valid arity, or -1.
func (a Arity) Count() int {
	if a >= Nullary && a < InvalidArity {
		return int(a)
	}
	return -1
}

// NumOperandsToArity maps 0..3 to the named arities and anything else to InvalidArity.
func NumOperandsToArity(n int) Arity {
	switch n {
	case 0:
		return Nullary
	case 1:
		return Unary
	case 2:
		return Binary
	case 3:
		return Ternary
	default:
		return InvalidArity
	}
}

// OperandKind identifies the lexical category of an operand.
type OperandKind int

const (
	OperandRegister OperandKind = iota
	OperandInstructionAddress
	OperandMemoryAddress
	OperandInteger
	OperandFloat
	OperandBoolean
	OperandCharacter
	OperandString
	OperandNewline
	OperandTypeCondition
	OperandShiftCondition
	OperandJumpCondition
	OperandUnknown
)

var operandNames = [...]string{
	OperandRegister:           "register",
	OperandInstructionAddress: "instruction-address",
	OperandMemoryAddress:      "memory-address",
	OperandInteger:            "integer",
	OperandFloat:              "float",
	OperandBoolean:            "boolean",
	OperandCharacter:          "character",
	OperandString:             "string",
	OperandNewline:            "newline",
	OperandTypeCondition:      "type-condition",
	OperandShiftCondition:     "shift-condition",
	OperandJumpCondition:      "jump-condition",
	OperandUnknown:            "unknown",
}

func (k OperandKind) String() string {
	if k >= 0 && int(k) < len(operandNames) {
		return operandNames[k]
	}
	return fmt.Sprintf("OperandKind(%d)", int(k))
}

// IsLiteral reports whether the operand carries an immediate value.
func (k OperandKind) IsLiteral() bool {
	switch k {
	case OperandInteger, OperandFloat, OperandBoolean, OperandCharacter:
		return true
	}
	return false
}
