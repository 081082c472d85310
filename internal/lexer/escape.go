package lexer

import (
	"fmt"
	"strings"
)

// Unquote strips the quotes of a character or string literal and resolves
// the escapes \n \t \r \0 \\ \' and \".
func Unquote(text string) (string, error) {
	if len(text) < 2 {
		return "", fmt.Errorf("literal %s is not quoted", text)
	}
	q := text[0]
	if (q != '"' && q != '\'') || text[len(text)-1] != q {
		return "", fmt.Errorf("literal %s is not quoted", text)
	}

	body := text[1 : len(text)-1]
	var b strings.Builder
	b.Grow(len(body))
	for i := 0; i < len(body); i++ {
		ch := body[i]
		if ch != '\\' {
			b.WriteByte(ch)
			continue
		}
		i++
		if i >= len(body) {
			return "", fmt.Errorf("literal %s ends in a lone backslash", text)
		}
		switch body[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case '0':
			b.WriteByte(0)
		case '\\', '\'', '"':
			b.WriteByte(body[i])
		default:
			return "", fmt.Errorf("unknown escape \\%c in %s", body[i], text)
		}
	}
	return b.String(), nil
}
