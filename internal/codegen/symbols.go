package codegen

import (
	"sort"

	"github.com/probexq/ASharpLang/internal/ast"
	"github.com/probexq/ASharpLang/internal/sink"
)

// Symbol is a declared variable and the slot holding it.
type Symbol struct {
	Name string
	Slot sink.Slot
	Kind ast.BindingKind
}

// SymbolTable is one flat namespace shared by the main file and every
// module it imports.
type SymbolTable struct {
	symbols map[string]*Symbol
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{symbols: make(map[string]*Symbol)}
}

func (st *SymbolTable) Find(name string) (*Symbol, bool) {
	sym, ok := st.symbols[name]
	return sym, ok
}

// Bind declares name, or re-binds it in place. Re-binding keeps the slot
// and takes the new kind. It returns false when either the existing or the
// new binding is a constant; the table is then unchanged.
func (st *SymbolTable) Bind(name string, kind ast.BindingKind, out sink.Sink) (*Symbol, bool) {
	if sym, ok := st.symbols[name]; ok {
		if sym.Kind == ast.Const || kind == ast.Const {
			return sym, false
		}
		sym.Kind = kind
		return sym, true
	}
	sym := &Symbol{Name: name, Slot: out.DeclareSlot(), Kind: kind}
	st.symbols[name] = sym
	return sym, true
}

// Names returns the declared names in sorted order.
func (st *SymbolTable) Names() []string {
	names := make([]string, 0, len(st.symbols))
	for name := range st.symbols {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (st *SymbolTable) Len() int { return len(st.symbols) }
