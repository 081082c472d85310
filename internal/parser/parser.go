// Package parser turns lexed StartASM lines into a parse tree.
//
// The parser checks line structure only: every non-blank line must open
// with a mnemonic word. Whether the mnemonic exists and whether its operands
// fit is decided later by semantic analysis.
package parser

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/startasm-lang/startasm/internal/lexer"
)

// Error is a syntax error on one line.
type Error struct {
	Line    int
	Column  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("Parsing failed at line %d, column %d: %s", e.Line, e.Column, e.Message)
}

// Parser builds parse trees. A Parser keeps the last tree it built until
// Close so it can be torn down off the critical path.
type Parser struct {
	logger *slog.Logger

	mu   sync.Mutex
	last *Tree

	// per-line state
	tokens    []lexer.Token
	pos       int
	curToken  lexer.Token
	peekToken lexer.Token
	errors    []error
}

// Option configures a Parser.
type Option func(*Parser)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Parser) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// New creates a parser.
func New(opts ...Option) *Parser {
	p := &Parser{logger: slog.Default()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ParseCode builds the parse tree of a lexed file. All syntax errors are
// collected and returned joined, in line order.
func (p *Parser) ParseCode(res *lexer.Result) (*Tree, error) {
	if res == nil {
		return nil, errors.New("parser: no lexer output")
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	p.errors = nil
	root := &Node{Kind: NodeRoot}
	for _, line := range res.Tokens {
		if len(line) == 0 {
			continue
		}
		if n := p.parseLine(line); n != nil {
			root.Children = append(root.Children, n)
		}
	}
	if len(p.errors) > 0 {
		return nil, errors.Join(p.errors...)
	}

	tree := &Tree{Path: res.Path, root: root}
	p.last = tree
	p.logger.Debug("parsed source", "path", res.Path, "instructions", len(root.Children))
	return tree, nil
}

// Close drops the last parse tree.
func (p *Parser) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.last != nil {
		p.last.root = nil
		p.last = nil
	}
	p.tokens = nil
	return nil
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	if p.pos < len(p.tokens) {
		p.peekToken = p.tokens[p.pos]
	} else {
		p.peekToken = lexer.Token{}
	}
	p.pos++
}

func (p *Parser) addError(tok lexer.Token, format string, args ...any) {
	p.errors = append(p.errors, &Error{Line: tok.Line, Column: tok.Column, Message: fmt.Sprintf(format, args...)})
}

func (p *Parser) parseLine(tokens []lexer.Token) *Node {
	p.tokens = tokens
	p.pos = 0
	p.nextToken()
	p.nextToken()

	if p.curToken.Type != lexer.TokenMnemonic || !isMnemonic(p.curToken.Literal) {
		p.addError(p.curToken, "expected an instruction mnemonic, found %q", p.curToken.Literal)
		return nil
	}
	n := &Node{Kind: NodeInstruction, Value: p.curToken.Literal, Line: p.curToken.Line, Column: p.curToken.Column}

	for p.pos <= len(p.tokens) {
		p.nextToken()
		if p.curToken.Type != lexer.TokenOperand {
			p.addError(p.curToken, "unexpected %s token %q", p.curToken.Type, p.curToken.Literal)
			return nil
		}
		n.Children = append(n.Children, &Node{
			Kind:    NodeOperand,
			Value:   p.curToken.Literal,
			Operand: p.curToken.Kind,
			Line:    p.curToken.Line,
			Column:  p.curToken.Column,
		})
	}
	return n
}

func isMnemonic(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') {
			return false
		}
	}
	return true
}
