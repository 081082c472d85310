// Package lexer splits StartASM source into lines and per-line tokens.
//
// A line is a mnemonic followed by operands separated by whitespace or
// commas. Quoted strings and characters, and bracketed memory addresses, are
// read as single operands. The operands of a comment are the rest of its line.
package lexer

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"sync"

	"golang.org/x/text/cases"

	"github.com/startasm-lang/startasm/internal/ast"
)

// ErrClosed is returned by a Lexer after Close.
var ErrClosed = errors.New("lexer closed")

// Lexer reads StartASM files. It is safe for concurrent use.
type Lexer struct {
	fsys   fs.FS
	logger *slog.Logger

	mu     sync.Mutex
	fold   cases.Caser
	last   *Result
	closed bool
}

// Option configures a Lexer.
type Option func(*Lexer)

// WithFS makes LexFile read paths from fsys instead of the operating system.
func WithFS(fsys fs.FS) Option {
	return func(l *Lexer) { l.fsys = fsys }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Lexer) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// New creates a lexer.
func New(opts ...Option) *Lexer {
	l := &Lexer{
		logger: slog.Default(),
		fold:   cases.Fold(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LexFile reads and tokenizes the file at path.
func (l *Lexer) LexFile(path string) (*Result, error) {
	var (
		data []byte
		err  error
	)
	if l.fsys != nil {
		data, err = fs.ReadFile(l.fsys, path)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return l.Lex(path, string(data))
}

// Lex tokenizes src. name is only recorded in the result.
func (l *Lexer) Lex(name, src string) (*Result, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return nil, ErrClosed
	}

	src = strings.ReplaceAll(src, "\r\n", "\n")
	lines := strings.Split(src, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}

	res := &Result{
		Path:   name,
		Lines:  lines,
		Tokens: make([][]Token, len(lines)),
	}
	for i, text := range lines {
		res.Tokens[i] = l.lexLine(text, i+1)
	}
	l.last = res
	l.logger.Debug("lexed source", "path", name, "lines", len(lines))
	return res, nil
}

// Close releases the buffers of the last result. Later calls fail with ErrClosed.
func (l *Lexer) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.last != nil {
		l.last.Tokens = nil
		l.last = nil
	}
	l.closed = true
	return nil
}

func (l *Lexer) lexLine(text string, line int) []Token {
	s := newScanner(text)
	s.skipSeparators()
	if s.ch == 0 {
		return nil
	}

	col := s.column
	word := s.readWord()
	mnemonic := l.fold.String(word)
	tokens := []Token{{Type: TokenMnemonic, Literal: mnemonic, Kind: ast.OperandUnknown, Line: line, Column: col}}

	if mnemonic == ast.InstructionComment.String() {
		s.skipSeparators()
		if rest := strings.TrimSpace(s.rest()); rest != "" {
			tokens = append(tokens, Token{Type: TokenOperand, Literal: rest, Kind: ast.OperandString, Line: line, Column: s.column})
		}
		return tokens
	}

	for {
		s.skipSeparators()
		if s.ch == 0 {
			return tokens
		}
		col := s.column
		var lit string
		switch s.ch {
		case '"':
			lit = s.readQuoted('"')
		case '\'':
			lit = s.readQuoted('\'')
		case '[':
			lit = s.readBracket()
		default:
			lit = s.readWord()
		}
		tokens = append(tokens, Token{Type: TokenOperand, Literal: lit, Kind: Classify(lit), Line: line, Column: col})
	}
}

// scanner walks a single line byte by byte.
type scanner struct {
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           byte // current char under examination
	column       int
}

func newScanner(input string) *scanner {
	s := &scanner{input: input}
	s.readChar()
	return s
}

func (s *scanner) readChar() {
	if s.readPosition >= len(s.input) {
		s.ch = 0
	} else {
		s.ch = s.input[s.readPosition]
	}
	s.position = s.readPosition
	s.readPosition++
	s.column++
}

func (s *scanner) skipSeparators() {
	for s.ch == ' ' || s.ch == '\t' || s.ch == '\r' || s.ch == ',' {
		s.readChar()
	}
}

func (s *scanner) readWord() string {
	position := s.position
	for s.ch != 0 && s.ch != ' ' && s.ch != '\t' && s.ch != '\r' && s.ch != ',' {
		s.readChar()
	}
	return s.input[position:s.position]
}

// readQuoted reads a quoted literal including its quotes. An unterminated
// literal runs to the end of the line and classifies as unknown.
func (s *scanner) readQuoted(quote byte) string {
	position := s.position
	for {
		s.readChar()
		if s.ch == quote || s.ch == 0 {
			break
		}
		if s.ch == '\\' {
			s.readChar()
			if s.ch == 0 {
				break
			}
		}
	}
	if s.ch == quote {
		s.readChar()
	}
	return s.input[position:min(s.position, len(s.input))]
}

func (s *scanner) readBracket() string {
	position := s.position
	for s.ch != ']' && s.ch != 0 {
		s.readChar()
	}
	if s.ch == ']' {
		s.readChar()
	}
	return s.input[position:min(s.position, len(s.input))]
}

func (s *scanner) rest() string {
	if s.position >= len(s.input) {
		return ""
	}
	return s.input[s.position:]
}
