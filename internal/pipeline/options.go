package pipeline

import (
	"io"
	"log/slog"
)

// Option configures a Compiler.
type Option func(*Compiler)

func WithLexer(l Lexer) Option                       { return func(c *Compiler) { c.lexer = l } }
func WithParser(p Parser) Option                     { return func(c *Compiler) { c.parser = p } }
func WithSymbolResolver(r SymbolResolver) Option     { return func(c *Compiler) { c.resolver = r } }
func WithASTBuilder(b ASTBuilder) Option             { return func(c *Compiler) { c.builder = b } }
func WithScopeChecker(s ScopeChecker) Option         { return func(c *Compiler) { c.scope = s } }
func WithSemanticAnalyzer(a SemanticAnalyzer) Option { return func(c *Compiler) { c.semantic = a } }
func WithCodeGenerator(g CodeGenerator) Option       { return func(c *Compiler) { c.codegen = g } }

// WithLogger sets the logger handed to the default collaborators.
func WithLogger(l *slog.Logger) Option {
	return func(c *Compiler) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithOutput sets where status text, the tree and the IR are written.
func WithOutput(w io.Writer) Option {
	return func(c *Compiler) {
		if w != nil {
			c.out = w
		}
	}
}

// WithSource compiles src instead of reading the file at the compiler's path.
func WithSource(src string) Option {
	return func(c *Compiler) { c.source = &src }
}

// WithSilent suppresses all output.
func WithSilent(silent bool) Option { return func(c *Compiler) { c.silent = silent } }

// WithTimings prints per-stage status and a timing table.
func WithTimings(on bool) Option { return func(c *Compiler) { c.timings = on } }

// WithTree prints the AST after it is built.
func WithTree(on bool) Option { return func(c *Compiler) { c.tree = on } }

// WithIR prints the generated IR.
func WithIR(on bool) Option { return func(c *Compiler) { c.ir = on } }

// WithOpTable prints the emitted operation listing after the IR.
func WithOpTable(on bool) Option { return func(c *Compiler) { c.opTable = on } }
