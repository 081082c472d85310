package lexer

import (
	"fmt"

	"github.com/startasm-lang/startasm/internal/ast"
)

// TokenType represents the type of a token.
type TokenType int

const (
	TokenMnemonic TokenType = iota
	TokenOperand
)

func (tt TokenType) String() string {
	switch tt {
	case TokenMnemonic:
		return "MNEMONIC"
	case TokenOperand:
		return "OPERAND"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", int(tt))
	}
}

// Token is one lexeme of a source line.
type Token struct {
	Type    TokenType
	Literal string
	// Kind classifies operand tokens. Mnemonic tokens carry OperandUnknown.
	Kind   ast.OperandKind
	Line   int // 1-based
	Column int // 1-based
}

func (t Token) String() string {
	if t.Type == TokenOperand {
		return fmt.Sprintf("%s(%s %q) at %d:%d", t.Type, t.Kind, t.Literal, t.Line, t.Column)
	}
	return fmt.Sprintf("%s(%q) at %d:%d", t.Type, t.Literal, t.Line, t.Column)
}

// Result is the output of lexing one file. Lines holds every source line,
// Tokens the tokens of each line at the same index. Blank lines have no tokens.
type Result struct {
	Path   string
	Lines  []string
	Tokens [][]Token
}

// NumLines returns the number of source lines.
func (r *Result) NumLines() int { return len(r.Lines) }
