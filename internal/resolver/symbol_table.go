// Package resolver collects the labels of a parse tree into a symbol table.
package resolver

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// SymbolKind represents the kind of symbol.
type SymbolKind int

const (
	SymbolKindLabel SymbolKind = iota
)

// String returns the string representation of SymbolKind.
func (sk SymbolKind) String() string {
	switch sk {
	case SymbolKindLabel:
		return "label"
	default:
		return "unknown"
	}
}

// Symbol represents a named entity in the program.
type Symbol struct {
	Name string
	Kind SymbolKind
	// Line declares the symbol (1-based).
	Line int
	// Uses are the lines that reference the symbol, in source order.
	Uses []int
}

func (s *Symbol) String() string {
	return fmt.Sprintf("%s %s (line %d, %d uses)", s.Kind, s.Name, s.Line, len(s.Uses))
}

// SymbolTable maps label names to their declarations. It is safe for
// concurrent lookups once resolution has finished.
type SymbolTable struct {
	mu      sync.RWMutex
	symbols map[string]*Symbol
	// references to names that were never declared, by name
	unresolved map[string][]int
}

// NewSymbolTable creates an empty symbol table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		symbols:    make(map[string]*Symbol),
		unresolved: make(map[string][]int),
	}
}

// DefineSymbol adds a symbol. Defining a name twice is an error naming both lines.
func (st *SymbolTable) DefineSymbol(symbol *Symbol) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	if existing, ok := st.symbols[symbol.Name]; ok {
		return &DuplicateError{Name: symbol.Name, Line: symbol.Line, First: existing.Line}
	}
	if uses, ok := st.unresolved[symbol.Name]; ok {
		symbol.Uses = append(uses, symbol.Uses...)
		delete(st.unresolved, symbol.Name)
	}
	st.symbols[symbol.Name] = symbol
	return nil
}

// Reference records a use of name on line.
func (st *SymbolTable) Reference(name string, line int) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if s, ok := st.symbols[name]; ok {
		s.Uses = append(s.Uses, line)
		return
	}
	st.unresolved[name] = append(st.unresolved[name], line)
}

// LookupSymbol returns the symbol called name.
func (st *SymbolTable) LookupSymbol(name string) (*Symbol, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.symbols[name]
	return s, ok
}

// Unresolved returns the referenced names that have no declaration, sorted.
func (st *SymbolTable) Unresolved() []string {
	st.mu.RLock()
	defer st.mu.RUnlock()
	names := make([]string, 0, len(st.unresolved))
	for name := range st.unresolved {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of symbols.
func (st *SymbolTable) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.symbols)
}

// Symbols returns all symbols ordered by declaration line.
func (st *SymbolTable) Symbols() []*Symbol {
	st.mu.RLock()
	defer st.mu.RUnlock()
	out := make([]*Symbol, 0, len(st.symbols))
	for _, s := range st.symbols {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Line < out[j].Line })
	return out
}

func (st *SymbolTable) String() string {
	var b strings.Builder
	for _, s := range st.Symbols() {
		b.WriteString(s.String())
		b.WriteByte('\n')
	}
	return b.String()
}

// DuplicateError reports a label declared more than once.
type DuplicateError struct {
	Name  string
	Line  int
	First int
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("Symbol resolution failed at line %d: label %s was already declared at line %d", e.Line, e.Name, e.First)
}
