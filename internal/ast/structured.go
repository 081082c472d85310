package ast

// Structured is the tree-shaped record produced by serialization. Instruction
// and operand nodes fill their kind-specific fields on top of the base ones.
type Structured struct {
	Type     string        `json:"type"`
	Value    string        `json:"value"`
	Children []*Structured `json:"children"`

	InstructionType *InstructionKind `json:"instruction_type,omitempty"`
	NumOperands     *Arity           `json:"num_operands,omitempty"`
	OperandType     *OperandKind     `json:"operand_type,omitempty"`
	Line            *int             `json:"line,omitempty"`
	Position        *int             `json:"position,omitempty"`
}

func (b *base) structured(nt NodeType) *Structured {
	children := b.Children()
	s := &Structured{
		Type:     nt.String(),
		Value:    b.value,
		Children: make([]*Structured, 0, len(children)),
	}
	for _, c := range children {
		if isNil(c) {
			continue
		}
		s.Children = append(s.Children, c.Structured())
	}
	return s
}

func (r *RootNode) Structured() *Structured {
	return r.structured(NodeRoot)
}

func (n *InstructionNode) Structured() *Structured {
	s := n.structured(NodeInstruction)
	kind, arity, line := n.Kind, n.Arity, n.Line
	s.InstructionType = &kind
	s.NumOperands = &arity
	s.Line = &line
	return s
}

func (n *OperandNode) Structured() *Structured {
	s := n.structured(NodeOperand)
	kind, line, pos := n.Kind, n.Line, n.Position
	s.OperandType = &kind
	s.Line = &line
	s.Position = &pos
	return s
}
