package lexer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dlclark/regexp2"

	"github.com/startasm-lang/startasm/internal/ast"
)

// operandPatterns are tried in order; the first match wins.
var operandPatterns = []struct {
	re   *regexp2.Regexp
	kind ast.OperandKind
}{
	{regexp2.MustCompile(`^r[0-9]$`, regexp2.IgnoreCase), ast.OperandRegister},
	{regexp2.MustCompile(`^@(?=[A-Za-z_])\w+$`, regexp2.None), ast.OperandInstructionAddress},
	{regexp2.MustCompile(`^\[\s*(?:0x[0-9a-f]+|[0-9]+)\s*\]$`, regexp2.IgnoreCase), ast.OperandMemoryAddress},
	{regexp2.MustCompile(`^-?[0-9]+\.[0-9]+$`, regexp2.None), ast.OperandFloat},
	{regexp2.MustCompile(`^-?[0-9]+$`, regexp2.None), ast.OperandInteger},
	{regexp2.MustCompile(`^(?:true|false)$`, regexp2.IgnoreCase), ast.OperandBoolean},
	{regexp2.MustCompile(`^'(?:\\[ntr0\\'"]|[^\\'])'$`, regexp2.None), ast.OperandCharacter},
	{regexp2.MustCompile(`^"(?:\\.|[^\\"])*"$`, regexp2.None), ast.OperandString},
	{regexp2.MustCompile(`^newline$`, regexp2.IgnoreCase), ast.OperandNewline},
	{regexp2.MustCompile(`^(?:int|float|bool|char)$`, regexp2.IgnoreCase), ast.OperandTypeCondition},
	{regexp2.MustCompile(`^(?:left|right)$`, regexp2.IgnoreCase), ast.OperandShiftCondition},
	{regexp2.MustCompile(`^(?:always|equal|unequal|greater|less|greaterequal|lessequal)$`, regexp2.IgnoreCase), ast.OperandJumpCondition},
}

// Classify returns the operand kind of a single operand lexeme.
func Classify(text string) ast.OperandKind {
	for _, p := range operandPatterns {
		if ok, err := p.re.MatchString(text); err == nil && ok {
			return p.kind
		}
	}
	return ast.OperandUnknown
}

// ParseMemoryAddress returns the cell number of a bracketed memory address
// such as [12] or [0x0c].
func ParseMemoryAddress(text string) (int64, error) {
	if !strings.HasPrefix(text, "[") || !strings.HasSuffix(text, "]") {
		return 0, fmt.Errorf("memory address %q is not bracketed", text)
	}
	n, err := strconv.ParseInt(strings.TrimSpace(text[1:len(text)-1]), 0, 64)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("memory address %q is not a non-negative literal", text)
	}
	return n, nil
}
