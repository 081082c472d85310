// Package pipeline drives a StartASM compilation through its stages.
//
// Lexing, parsing and symbol resolution run strictly in order. The AST is
// then built while the lexer is torn down in the background, and scope
// checking and semantic analysis run concurrently with each other and with
// the parser teardown. Code generation runs last, alone. The first failing
// stage ends the compilation; nothing is retried.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/sync/errgroup"

	"github.com/startasm-lang/startasm/internal/ast"
	"github.com/startasm-lang/startasm/internal/astbuild"
	"github.com/startasm-lang/startasm/internal/cli"
	"github.com/startasm-lang/startasm/internal/codegen"
	"github.com/startasm-lang/startasm/internal/errors"
	"github.com/startasm-lang/startasm/internal/lexer"
	"github.com/startasm-lang/startasm/internal/lir"
	"github.com/startasm-lang/startasm/internal/parser"
	"github.com/startasm-lang/startasm/internal/printer"
	"github.com/startasm-lang/startasm/internal/resolver"
	"github.com/startasm-lang/startasm/internal/scope"
	"github.com/startasm-lang/startasm/internal/semantic"
)

// Stage names, as they appear in timings and logs.
const (
	StageLex      = "lex"
	StageParse    = "parse"
	StageResolve  = "resolve"
	StageBuild    = "build"
	StageAnalyze  = "analyze"
	StageGenerate = "generate"
)

// Result is the outcome of one compilation. Fields are filled as far as
// the compilation got.
type Result struct {
	ID      ulid.ULID
	Path    string
	Lines   []string
	Symbols *resolver.SymbolTable
	Tree    *ast.Tree
	Module  *lir.Module
	Timings []StageTiming
}

// ErrUsed is returned by Compile on a Compiler that already ran.
var ErrUsed = errors.NewStandardError(errors.CategorySystem, "COMPILER_USED",
	"compiler already used; create a new one per compilation", nil)

// Compiler compiles one source file. A Compiler tears down its lexer and
// parser while it runs and is therefore used for a single Compile call.
type Compiler struct {
	path   string
	source *string

	lexer    Lexer
	parser   Parser
	resolver SymbolResolver
	builder  ASTBuilder
	scope    ScopeChecker
	semantic SemanticAnalyzer
	codegen  CodeGenerator

	logger  *slog.Logger
	out     io.Writer
	silent  bool
	timings bool
	tree    bool
	ir      bool
	opTable bool

	used bool
}

// New creates a compiler for the file at path. Collaborators not supplied
// through options are the in-repo implementations.
func New(path string, opts ...Option) *Compiler {
	c := &Compiler{
		path:   path,
		logger: cli.Discard(),
		out:    os.Stdout,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.lexer == nil {
		c.lexer = lexer.New(lexer.WithLogger(c.logger))
	}
	if c.parser == nil {
		c.parser = parser.New(parser.WithLogger(c.logger))
	}
	if c.resolver == nil {
		c.resolver = resolver.NewResolver(c.logger)
	}
	if c.builder == nil {
		c.builder = astbuild.New(astbuild.WithLogger(c.logger))
	}
	if c.scope == nil {
		c.scope = scope.NewChecker()
	}
	if c.semantic == nil {
		c.semantic = semantic.NewAnalyzer()
	}
	if c.codegen == nil {
		c.codegen = codegen.New(codegen.WithLogger(c.logger))
	}
	return c
}

func (c *Compiler) print(format string, args ...any) {
	if !c.silent {
		fmt.Fprintf(c.out, format, args...)
	}
}

func (c *Compiler) timingPrint(format string, args ...any) {
	if c.timings {
		c.print(format, args...)
	}
}

// stage times fn and records it in res. The context is only consulted
// before the stage starts.
func (c *Compiler) stage(ctx context.Context, res *Result, name, status string, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return errors.Canceled(name, err)
	}
	c.timingPrint("Compiler: %s\n", status)
	c.logger.Info("stage started", "run", res.ID.String(), "stage", name)

	start := time.Now()
	err := fn()
	elapsed := time.Since(start)

	res.Timings = append(res.Timings, StageTiming{Stage: name, Duration: elapsed, OK: err == nil})
	c.logger.Info("stage finished", "run", res.ID.String(), "stage", name, "elapsed", elapsed, "ok", err == nil)
	if err == nil {
		c.timingPrint("Time taken: %s\n\n", elapsed)
	}
	return err
}

// Compile runs the pipeline. On failure the error is an
// *errors.StandardError whose category names the failed stage, and the
// result holds everything produced before it.
func (c *Compiler) Compile(ctx context.Context) (*Result, error) {
	if c.used {
		return nil, ErrUsed
	}
	c.used = true
	res := &Result{ID: ulid.Make(), Path: c.path}
	if c.timings && !c.silent {
		defer func() { WriteTimings(c.out, fmt.Sprintf("Compilation %s", res.ID), res.Timings) }()
	}

	var lexed *lexer.Result
	err := c.stage(ctx, res, StageLex, "Lexing code", func() error {
		var err error
		if c.source != nil {
			lexed, err = c.lexer.Lex(c.path, *c.source)
		} else {
			lexed, err = c.lexer.LexFile(c.path)
		}
		if err != nil {
			return errors.LexFailed(c.path, err)
		}
		res.Lines = lexed.Lines
		return nil
	})
	if err != nil {
		return res, err
	}

	var pt *parser.Tree
	err = c.stage(ctx, res, StageParse, "Parsing code", func() error {
		var err error
		if pt, err = c.parser.ParseCode(lexed); err != nil {
			return errors.ParseFailed(err)
		}
		return nil
	})
	if err != nil {
		return res, err
	}

	err = c.stage(ctx, res, StageResolve, "Resolving symbols", func() error {
		st, err := c.resolver.ResolveSymbols(pt.Root(), res.Lines)
		if err != nil {
			return errors.ResolveFailed(err)
		}
		res.Symbols = st
		return nil
	})
	if err != nil {
		return res, err
	}

	// The lexer is no longer needed once the parse tree exists.
	err = c.stage(ctx, res, StageBuild, "Building AST", func() error {
		var teardown errgroup.Group
		teardown.Go(c.lexer.Close)

		tree := ast.NewTree()
		buildErr := c.builder.BuildAST(ctx, pt.Root(), tree)
		if err := teardown.Wait(); err != nil {
			c.logger.Warn("lexer teardown failed", "run", res.ID.String(), "error", err)
		}
		if buildErr != nil {
			return errors.BuildFailed(buildErr)
		}
		res.Tree = tree
		return nil
	})
	if err != nil {
		return res, err
	}
	if c.tree && !c.silent {
		c.print("\nAST for '%s':\n", c.path)
		if err := printer.PrintTree(c.out, res.Tree.Root()); err != nil {
			c.logger.Warn("printing tree failed", "error", err)
		}
		c.print("\n")
	}

	err = c.stage(ctx, res, StageAnalyze, "Analyzing semantics and checking address scopes", func() error {
		root := res.Tree.Root()
		var scopeErr, semanticErr error

		var g errgroup.Group
		g.Go(c.parser.Close)
		g.Go(func() error {
			scopeErr = c.scope.CheckAddressScopes(root, res.Lines)
			return nil
		})
		g.Go(func() error {
			semanticErr = c.semantic.AnalyzeSemantics(root, res.Lines)
			return nil
		})
		if err := g.Wait(); err != nil {
			c.logger.Warn("parser teardown failed", "run", res.ID.String(), "error", err)
		}

		switch {
		case scopeErr != nil:
			return errors.ScopeFailed(scopeErr)
		case semanticErr != nil:
			return errors.SemanticFailed(semanticErr)
		}
		return nil
	})
	if err != nil {
		return res, err
	}

	err = c.stage(ctx, res, StageGenerate, "Generating LLVM IR", func() error {
		mod, err := c.codegen.Generate(res.Tree.Root(), len(res.Lines))
		res.Module = mod
		if err != nil {
			return errors.CodegenFailed(err)
		}
		return nil
	})
	if err != nil {
		return res, err
	}

	if c.ir && !c.silent && res.Module != nil {
		c.print("\nLLVM IR for '%s':\n%s\n", c.path, res.Module.Text())
		if c.opTable {
			if err := res.Module.WriteTable(c.out); err != nil {
				c.logger.Warn("writing op table failed", "error", err)
			}
		}
	}
	return res, nil
}
