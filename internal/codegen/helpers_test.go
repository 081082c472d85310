package codegen_test

import (
	"strings"

	"github.com/startasm-lang/startasm/internal/ast"
	"github.com/startasm-lang/startasm/internal/lexer"
)

// program builds an AST with one instruction per line. Operands are
// whitespace separated and must not contain spaces.
func program(lines ...string) *ast.RootNode {
	tree := ast.NewTree()
	for i, line := range lines {
		fields := strings.Fields(line)
		in := ast.NewInstructionNode(fields[0], tree.InstructionKind(fields[0]),
			ast.NumOperandsToArity(len(fields)-1), i+1)
		for pos, f := range fields[1:] {
			in.InsertChild(ast.NewOperandNode(f, lexer.Classify(f), i+1, pos))
		}
		tree.Root().InsertChild(in)
	}
	return tree.Root()
}
