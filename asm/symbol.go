package asm

import (
	"sort"
)

// SymbolKind tags the variant stored in a Symbol.
type SymbolKind int

const (
	SymUndefined SymbolKind = iota // referenced, never defined
	SymTag                         // label, value is field<<12 | address
	SymEquate                      // name = expression
	SymOpcode                      // .MRI user opcode
	SymMacro                       // .DEFINE body
	SymMultiple                    // defined more than once (sticky)
	OpMRI                          // memory reference instruction
	OpOPR                          // operate micro-op
	OpIOT                          // I/O transfer
	OpPIE                          // 6101 parallel interface element
	OpPIO                          // 6103 parallel I/O
	OpCXF                          // change field
	SymPseudo                      // pseudo-op
)

// Ref is one cross reference: the line number and whether the use
// defined the symbol.
type Ref struct {
	Line       int
	Definition bool
}

// Symbol is one symbol table entry.
type Symbol struct {
	Name   string
	Kind   SymbolKind
	Value  uint16
	Macro  *MacroDef
	Pseudo pseudoOp
	Refs   []Ref
}

// hashSize is prime so the linear probe visits every slot.
const hashSize = 3079

type symbolTable struct {
	slots [hashSize]*Symbol
}

func hashName(name string) (slot int) {
	h := uint32(0)
	for i := 0; i < len(name); i++ {
		h = h*'_' + uint32(name[i]-' ')
	}
	return int(h % hashSize)
}

// lookup finds name in the symbol table, optionally entering it as a
// new undefined symbol. A full table is unrecoverable.
func (a *Assembler) lookup(name string, enter bool) (sym *Symbol) {
	slot := hashName(name)
	for probe := 0; probe < hashSize; probe++ {
		sym = a.symbols.slots[slot]
		if sym == nil {
			break
		}
		if sym.Name == name {
			return sym
		}
		slot = (slot + 1) % hashSize
	}

	if sym != nil {
		a.fatal(ErrSymbolTableFull)
	}
	if !enter {
		return nil
	}

	sym = &Symbol{Name: name, Kind: SymUndefined}
	a.symbols.slots[slot] = sym
	return sym
}

// addReference records a cross reference on pass 2. Repeated uses on
// the same line collapse into one entry.
func (a *Assembler) addReference(sym *Symbol, definition bool) {
	if a.pass != 2 || sym == nil {
		return
	}
	if n := len(sym.Refs); n > 0 && sym.Refs[n-1].Line == a.lineNo {
		return
	}
	sym.Refs = append(sym.Refs, Ref{Line: a.lineNo, Definition: definition})
}

// sorted returns the table contents alphabetized by name. The table
// itself is left alone.
func (st *symbolTable) sorted() (syms []*Symbol) {
	for _, sym := range st.slots {
		if sym != nil {
			syms = append(syms, sym)
		}
	}
	sort.Slice(syms, func(i, j int) bool { return syms[i].Name < syms[j].Name })
	return
}
