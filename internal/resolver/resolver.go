package resolver

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/startasm-lang/startasm/internal/ast"
	"github.com/startasm-lang/startasm/internal/parser"
)

// Resolver performs symbol resolution on parse trees.
type Resolver struct {
	logger *slog.Logger
}

// NewResolver creates a new resolver. A nil logger uses slog.Default.
func NewResolver(logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{logger: logger}
}

// ResolveSymbols declares every label of the tree and records every label
// reference made by jump and call. lines is the source text used for error
// context. Undeclared references are kept in the table for the scope checker.
func (r *Resolver) ResolveSymbols(root *parser.Node, lines []string) (*SymbolTable, error) {
	if root == nil {
		return nil, errors.New("Symbol resolution failed: empty parse tree")
	}
	st := NewSymbolTable()
	var errs []error

	for _, in := range root.Children {
		switch in.Value {
		case ast.InstructionLabel.String():
			name, ok := labelOperand(in)
			if !ok {
				errs = append(errs, fmt.Errorf("Symbol resolution failed at line %d: label needs an instruction address%s", in.Line, context(lines, in.Line)))
				continue
			}
			if err := st.DefineSymbol(&Symbol{Name: name, Kind: SymbolKindLabel, Line: in.Line}); err != nil {
				errs = append(errs, err)
			}
		case ast.InstructionJump.String(), ast.InstructionCall.String():
			for _, op := range in.Children {
				if op.Operand == ast.OperandInstructionAddress {
					st.Reference(op.Value, in.Line)
				}
			}
		}
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	r.logger.Debug("resolved symbols", "labels", st.Len(), "unresolved", len(st.Unresolved()))
	return st, nil
}

func labelOperand(in *parser.Node) (string, bool) {
	if len(in.Children) != 1 || in.Children[0].Operand != ast.OperandInstructionAddress {
		return "", false
	}
	return in.Children[0].Value, true
}

func context(lines []string, line int) string {
	if line < 1 || line > len(lines) {
		return ""
	}
	return fmt.Sprintf(": %q", lines[line-1])
}
