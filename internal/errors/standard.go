// Package errors provides standardized error messaging for the StartASM
// toolchain. Every pipeline stage reports failures as a *StandardError
// tagged with the stage's category.
package errors

import (
	"errors"
	"fmt"
	"runtime"
)

// ErrorCategory represents the stage an error originated in.
type ErrorCategory string

const (
	CategoryLex      ErrorCategory = "LEX"
	CategoryParse    ErrorCategory = "PARSE"
	CategoryResolve  ErrorCategory = "RESOLVE"
	CategoryBuild    ErrorCategory = "BUILD"
	CategoryScope    ErrorCategory = "SCOPE"
	CategorySemantic ErrorCategory = "SEMANTIC"
	CategoryCodegen  ErrorCategory = "CODEGEN"
	CategorySystem   ErrorCategory = "SYSTEM"
)

// StandardError provides a consistent error format.
type StandardError struct {
	Category ErrorCategory
	Code     string
	Message  string
	Context  map[string]interface{}
	Caller   string
	Cause    error
}

// Error implements the error interface.
func (e *StandardError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s:%s] %s: %v", e.Category, e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s:%s] %s", e.Category, e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *StandardError) Unwrap() error { return e.Cause }

// Is matches another *StandardError by category and code.
func (e *StandardError) Is(target error) bool {
	var t *StandardError
	if !errors.As(target, &t) {
		return false
	}
	return t.Category == e.Category && (t.Code == "" || t.Code == e.Code)
}

// NewStandardError creates a new standardized error.
func NewStandardError(category ErrorCategory, code, message string, context map[string]interface{}) *StandardError {
	return newError(2, category, code, message, context, nil)
}

// Wrap creates a standardized error around cause.
func Wrap(category ErrorCategory, code, message string, cause error) *StandardError {
	return newError(2, category, code, message, nil, cause)
}

func newError(skip int, category ErrorCategory, code, message string, context map[string]interface{}, cause error) *StandardError {
	pc, _, _, ok := runtime.Caller(skip)
	caller := "unknown"
	if ok {
		if fn := runtime.FuncForPC(pc); fn != nil {
			caller = fn.Name()
		}
	}

	return &StandardError{
		Category: category,
		Code:     code,
		Message:  message,
		Context:  context,
		Caller:   caller,
		Cause:    cause,
	}
}

// CategoryOf returns the category of the first StandardError in err's chain.
func CategoryOf(err error) (ErrorCategory, bool) {
	var se *StandardError
	if errors.As(err, &se) {
		return se.Category, true
	}
	return "", false
}

// Stage failure constructors. Messages match the compiler's status output.

func LexFailed(path string, cause error) *StandardError {
	e := newError(2, CategoryLex, "LEX_FAILED",
		"Lexing failed! Either the path was invalid or the file could not be found.",
		map[string]interface{}{"path": path}, cause)
	return e
}

func ParseFailed(cause error) *StandardError {
	return newError(2, CategoryParse, "PARSE_FAILED", "Parsing failed!", nil, cause)
}

func ResolveFailed(cause error) *StandardError {
	return newError(2, CategoryResolve, "RESOLVE_FAILED", "Symbol resolution failed!", nil, cause)
}

func BuildFailed(cause error) *StandardError {
	return newError(2, CategoryBuild, "BUILD_FAILED", "AST construction failed!", nil, cause)
}

func ScopeFailed(cause error) *StandardError {
	return newError(2, CategoryScope, "SCOPE_FAILED", "Address scope checking failed!", nil, cause)
}

func SemanticFailed(cause error) *StandardError {
	return newError(2, CategorySemantic, "SEMANTIC_FAILED", "Semantic analysis failed!", nil, cause)
}

func CodegenFailed(cause error) *StandardError {
	return newError(2, CategoryCodegen, "CODEGEN_FAILED", "Code generation failed!", nil, cause)
}

func Canceled(stage string, cause error) *StandardError {
	return newError(2, CategorySystem, "CANCELED",
		fmt.Sprintf("Compilation canceled before %s", stage),
		map[string]interface{}{"stage": stage}, cause)
}
