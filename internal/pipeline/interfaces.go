package pipeline

import (
	"context"

	"github.com/startasm-lang/startasm/internal/ast"
	"github.com/startasm-lang/startasm/internal/lexer"
	"github.com/startasm-lang/startasm/internal/lir"
	"github.com/startasm-lang/startasm/internal/parser"
	"github.com/startasm-lang/startasm/internal/resolver"
)

//go:generate mockgen -write_package_comment=false -package=$GOPACKAGE -destination=mock_collaborators_test.go github.com/startasm-lang/startasm/internal/pipeline Lexer,Parser,SymbolResolver,ASTBuilder,ScopeChecker,SemanticAnalyzer,CodeGenerator

// Lexer splits a source file into lines and tokens. Close is called in the
// background once the parse tree exists.
type Lexer interface {
	LexFile(path string) (*lexer.Result, error)
	Lex(name, src string) (*lexer.Result, error)
	Close() error
}

// Parser builds the parse tree. Close is called in the background once the
// AST exists.
type Parser interface {
	ParseCode(res *lexer.Result) (*parser.Tree, error)
	Close() error
}

// SymbolResolver collects the labels of the parse tree.
type SymbolResolver interface {
	ResolveSymbols(root *parser.Node, lines []string) (*resolver.SymbolTable, error)
}

// ASTBuilder populates tree from the parse tree.
type ASTBuilder interface {
	BuildAST(ctx context.Context, root *parser.Node, tree *ast.Tree) error
}

// ScopeChecker validates addresses. It runs concurrently with the
// SemanticAnalyzer and must only read the AST.
type ScopeChecker interface {
	CheckAddressScopes(root *ast.RootNode, lines []string) error
}

// SemanticAnalyzer validates instructions against their signatures. It
// must only read the AST.
type SemanticAnalyzer interface {
	AnalyzeSemantics(root *ast.RootNode, lines []string) error
}

// CodeGenerator lowers a validated AST.
type CodeGenerator interface {
	Generate(root *ast.RootNode, numLines int) (*lir.Module, error)
}
