package checker

import (
	"sort"

	"github.com/veld-lang/veld/internal/ast"
)

// Symbol represents a variable binding in the symbol table
type Symbol struct {
	Name string
	Type ast.Type
}

// Scope represents a lexical scope with a symbol table. Scopes are
// function-local: a fresh root is created for each function check and
// discarded afterwards.
type Scope struct {
	parent  *Scope
	symbols map[string]*Symbol
}

// NewScope creates a new scope with an optional parent
func NewScope(parent *Scope) *Scope {
	return &Scope{
		parent:  parent,
		symbols: make(map[string]*Symbol),
	}
}

// Define adds a symbol to the current scope, shadowing any binding of
// the same name in outer scopes.
func (s *Scope) Define(name string, typ ast.Type) {
	s.symbols[name] = &Symbol{Name: name, Type: typ}
}

// Resolve looks up a symbol in the current scope and parent scopes.
// Returns nil if the symbol is not found.
func (s *Scope) Resolve(name string) *Symbol {
	if sym, ok := s.symbols[name]; ok {
		return sym
	}
	if s.parent != nil {
		return s.parent.Resolve(name)
	}
	return nil
}

// Names returns every name visible from this scope, sorted, for the
// suggestion engine.
func (s *Scope) Names() []string {
	seen := make(map[string]bool)
	for sc := s; sc != nil; sc = sc.parent {
		for name := range sc.symbols {
			seen[name] = true
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
