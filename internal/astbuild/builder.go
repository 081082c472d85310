// Package astbuild converts a parse tree into an AST.
package astbuild

import (
	"context"
	"errors"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/startasm-lang/startasm/internal/ast"
	"github.com/startasm-lang/startasm/internal/parser"
)

// Builder builds AST subtrees concurrently and links them under the root in
// source order.
type Builder struct {
	logger  *slog.Logger
	workers int
}

// Option configures a Builder.
type Option func(*Builder)

// WithWorkers bounds the number of concurrent subtree builds.
func WithWorkers(n int) Option {
	return func(b *Builder) {
		if n > 0 {
			b.workers = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// New creates a Builder.
func New(opts ...Option) *Builder {
	b := &Builder{logger: slog.Default(), workers: runtime.GOMAXPROCS(0)}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// BuildAST populates tree from the parse tree rooted at pt. Mnemonics are
// looked up in the tree's dictionary; unknown ones become InstructionNone
// and are left for semantic analysis to reject.
func (b *Builder) BuildAST(ctx context.Context, pt *parser.Node, tree *ast.Tree) error {
	if pt == nil || tree == nil {
		return errors.New("AST build failed: missing parse tree or target tree")
	}

	subtrees := make([]*ast.InstructionNode, len(pt.Children))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers)
	for i, in := range pt.Children {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			subtrees[i] = buildInstruction(in, tree)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	root := tree.Root()
	root.ReserveChildren(len(subtrees))
	for _, n := range subtrees {
		root.InsertChild(n)
	}
	b.logger.Debug("built AST", "instructions", len(subtrees))
	return nil
}

func buildInstruction(in *parser.Node, tree *ast.Tree) *ast.InstructionNode {
	kind := tree.InstructionKind(in.Value)
	n := ast.NewInstructionNode(in.Value, kind, ast.NumOperandsToArity(len(in.Children)), in.Line)
	n.ReserveChildren(len(in.Children))
	for pos, op := range in.Children {
		n.InsertChild(ast.NewOperandNode(op.Value, op.Operand, op.Line, pos))
	}
	return n
}
