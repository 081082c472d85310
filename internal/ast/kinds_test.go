package ast

import "testing"

func TestNumOperandsToArity(t *testing.T) {
	tests := []struct {
		n    int
		want Arity
	}{
		{0, Nullary},
		{1, Unary},
		{2, Binary},
		{3, Ternary},
		{4, InvalidArity},
		{-1, InvalidArity},
		{99, InvalidArity},
	}

	for _, tt := range tests {
		if got := NumOperandsToArity(tt.n); got != tt.want {
			t.Errorf("NumOperandsToArity(%d) = %v, want %v", tt.n, got, tt.want)
		}
	}

	if Ternary.Count() != 3 || InvalidArity.Count() != -1 {
		t.Error("Arity.Count returned unexpected values")
	}
}

func TestKindNumbering(t *testing.T) {
	if InstructionMove != 0 || InstructionAdd != 5 {
		t.Errorf("Unexpected instruction numbering: move=%d add=%d", InstructionMove, InstructionAdd)
	}
	if NumInstructionKinds != 25 {
		t.Errorf("Expected 25 instruction kinds, got %d", NumInstructionKinds)
	}
	if OperandRegister != 0 || OperandUnknown != 12 {
		t.Errorf("Unexpected operand numbering: register=%d unknown=%d", OperandRegister, OperandUnknown)
	}
	if InstructionNone.String() != "none" {
		t.Errorf("Expected sentinel to print 'none', got %q", InstructionNone.String())
	}
}

func TestOperandKindIsLiteral(t *testing.T) {
	literals := map[OperandKind]bool{
		OperandInteger:   true,
		OperandFloat:     true,
		OperandBoolean:   true,
		OperandCharacter: true,
	}
	for k := OperandRegister; k <= OperandUnknown; k++ {
		if k.IsLiteral() != literals[k] {
			t.Errorf("%s.IsLiteral() = %v", k, k.IsLiteral())
		}
	}
}
