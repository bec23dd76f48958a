// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>
package asm

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ezrec/palx/listing"
	"github.com/ezrec/palx/tape"
)

const (
	Name    = "PALX"
	Title   = "IM6100/HD6120 Cross Assembler"
	Version = 423
)

// Assembler assembles PDP-8 source for the Intersil and Harris CMOS
// processors. The exported fields configure an assembly; everything
// else resets when Assemble runs.
type Assembler struct {
	OS8Sixbit  bool      // .SIXBIT packs OS/8 style (ch & 077)
	MarkASCII  bool      // ASCII generates mark parity (ch | 0200)
	Columns    int       // listing width, default 120
	Rows       int       // listing page length, default 60
	SourceFile string    // shown in the listing banner and messages
	Errlog     io.Writer // error echo, default os.Stderr

	symbols symbolTable
	bitmap  bitmap
	toc     []tocEntry
	lw      *listing.Writer
	punch   *tape.Punch

	source   []string
	nextLine int
	pass     int
	lineNo   int
	curLine  string

	pc      uint16
	field   uint16
	litBase uint16
	litData [0o200]uint16

	cpu       int // 0, 6100 or 6120
	errFlags  string
	ignored   string
	errCount  int
	expansion *macroExp
	genLabel  int

	pushOp, popOp, pushjOp, popjOp uint16

	optExpansions bool // MET
	optText       bool // TXB
	optTOC        bool // TOC
	optMap        bool // MAP
	optSymbols    bool // SYM
}

// Assemble runs both passes over src, writing the listing to list and
// the BIN format paper tape image to bin. Either writer may be nil.
// The returned count is the number of lines flagged with errors.
func (a *Assembler) Assemble(src io.Reader, list, bin io.Writer) (errs int, err error) {
	if list == nil {
		list = io.Discard
	}
	if bin == nil {
		bin = io.Discard
	}

	defer func() {
		if r := recover(); r != nil {
			fe, ok := r.(fatalError)
			if !ok {
				panic(r)
			}
			errs = a.errCount
			err = &ErrLine{LineNo: a.lineNo, Err: fe.err}
		}
	}()

	a.source = nil
	scanner := bufio.NewScanner(src)
	scanner.Buffer(make([]byte, maxLine), 16*maxLine)
	for scanner.Scan() {
		a.source = append(a.source, strings.TrimSuffix(scanner.Text(), "\r"))
	}
	if err = scanner.Err(); err != nil {
		return 0, err
	}

	columns, rows := a.Columns, a.Rows
	if columns <= 0 {
		columns = 120
	}
	if rows <= 0 {
		rows = 60
	}
	a.lw = &listing.Writer{
		Output:   list,
		Columns:  columns,
		Rows:     rows,
		Paginate: true,
		Title: fmt.Sprintf("%s - %s V%d.%02d RLA",
			Name, Title, Version/100, Version%100),
		Source: a.SourceFile,
	}
	a.punch = tape.New(bin)

	a.symbols = symbolTable{}
	a.bitmap.clear()
	a.toc = nil
	a.seedSymbols()

	a.punch.Leader()
	a.runPass(1)
	a.runPass(2)
	a.punch.Checksum()

	a.listSummary()
	if a.optMap {
		a.listMemoryMap()
	}
	if a.optSymbols {
		a.listSymbolTable()
	}
	if a.optTOC {
		a.listContents()
	}

	return a.errCount, a.punch.Err()
}

// runPass makes one complete pass over the source. Both passes start
// from the same state so they stay in phase; anything that could make
// pass 2 generate a different number of words than pass 1 is a bug.
func (a *Assembler) runPass(pass int) {
	a.pass = pass
	a.cpu = 0
	a.errCount = 0
	a.lineNo = 0
	a.nextLine = 0
	a.pc = 0o200
	a.field = 0
	a.litBase = a.pc + 0o200
	a.optExpansions = true
	a.optText = true
	a.optTOC = true
	a.optMap = true
	a.optSymbols = true
	a.lw.Paginate = true
	a.lw.Eject()
	a.errFlags = ""
	a.ignored = ""
	a.expansion = nil
	a.genLabel = 0
	a.pushOp, a.popOp, a.pushjOp, a.popjOp = 0, 0, 0, 0
	a.punch.Reset()

	a.message("%s, pass %d", a.SourceFile, pass)

	for a.getSourceLine() {
		t := newText(a.curLine)
		a.assemble(&t)
	}

	if pass == 2 {
		a.dumpLiterals()
	}
}

// getSourceLine fetches the next logical line, from the innermost
// macro expansion still producing text, or from the source file.
func (a *Assembler) getSourceLine() bool {
	for a.expansion != nil {
		if a.getMacroLine() {
			return true
		}
		a.expansion = a.expansion.prev
	}

	if a.nextLine >= len(a.source) {
		return false
	}
	line := a.source[a.nextLine]
	a.nextLine++
	a.lineNo++

	// A form feed in the source ejects the listing page.
	if strings.ContainsRune(line, '\f') {
		line = strings.ReplaceAll(line, "\f", "")
		a.lw.Eject()
	}

	a.curLine = line + "\n"
	return true
}

// getSourceChar returns the next character for a multi-line construct
// (macro bodies, conditional blocks), crossing line boundaries. Each
// finished line lists before the next is read.
func (a *Assembler) getSourceChar(t *text) (ch byte) {
	if t.i >= len(t.s) {
		if a.pass == 2 {
			a.list(nil, nil, nil, true)
		}
		if !a.getSourceLine() {
			a.fatal(ErrBlockEOF)
		}
		*t = newText(a.curLine)
	}
	ch = t.s[t.i]
	t.i++
	return
}

// assemble processes one logical line.
func (a *Assembler) assemble(t *text) {
	if a.checkDefinition(t) {
		return
	}
	labeled := a.checkLabel(t)

	ch := t.spanWhite()
	if isEOL(ch) {
		if a.pass == 2 {
			var addr *uint16
			if labeled {
				addr = &a.pc
			}
			a.list(&a.field, addr, nil, true)
		}
		return
	}

	if a.checkMacroPseudo(t) {
		return
	}

	// A plain statement: one word of code. Pass 1 only counts it, so
	// forward references don't pollute the symbol table.
	if a.pass == 1 {
		a.pc++
		return
	}

	code, ok := a.evalExpression(t)
	if !ok {
		a.flag(flagSyntax)
	}
	if t.spanWhite() == '>' {
		t.i++
	}
	if !isEOL(t.spanWhite()) {
		a.flag(flagSyntax)
	}
	a.outputCode(code, true, true)
}

// checkLabel handles any "name:" labels at the start of a statement.
func (a *Assembler) checkLabel(t *text) (labeled bool) {
	for {
		cur := *t
		name, ok := cur.scanName()
		if !ok || cur.spanWhite() != ':' {
			return
		}
		cur.i++
		*t = cur
		labeled = true

		sym := a.lookup(name, true)
		a.addReference(sym, true)
		if a.pass == 1 {
			if sym.Kind == SymUndefined {
				sym.Kind = SymTag
				sym.Value = a.field<<12 | a.pc
			} else {
				sym.Kind = SymMultiple
			}
		} else if sym.Kind != SymTag {
			a.flag(flagSymbol)
		}
	}
}

// checkDefinition handles "name=expression" direct assignments. The
// expression evaluates on both passes, so equates of equates work and
// pass 2 catches forward references.
func (a *Assembler) checkDefinition(t *text) bool {
	cur := *t
	name, ok := cur.scanName()
	if !ok || cur.spanWhite() != '=' {
		return false
	}
	cur.i++
	*t = cur

	value, ok := a.evalExpression(t)
	if ok && !isEOL(t.spanWhite()) {
		a.flag(flagSyntax)
	}

	sym := a.lookup(name, true)
	a.addReference(sym, true)
	if a.pass == 1 {
		if sym.Kind == SymUndefined {
			sym.Kind = SymEquate
			sym.Value = value
		} else {
			sym.Kind = SymMultiple
		}
	} else {
		//   The symbol keeps its pass 1 value; the expression is only
		// parsed again so errors show up in the listing. Changing the
		// value here would let a forward reference assemble different
		// code on the two passes.
		if sym.Kind != SymEquate {
			a.flag(flagSymbol)
		}
		a.list(nil, nil, &value, true)
	}
	return true
}

// checkMacroPseudo dispatches pseudo-ops and macro calls. Anything
// else falls through to expression assembly.
func (a *Assembler) checkMacroPseudo(t *text) bool {
	ch := t.peek()

	if ch == '.' {
		cur := *t
		cur.i++
		if name, ok := cur.scanName(); ok {
			*t = cur
			sym := a.lookup("."+name, true)
			a.addReference(sym, false)
			if sym.Kind == SymPseudo {
				pseudoHandlers[sym.Pseudo](a, t)
				return true
			}
		}
		a.flag(flagPseudo)
		if a.pass == 2 {
			a.list(nil, nil, nil, true)
		}
		return true
	}

	if isName1(ch) {
		cur := *t
		if name, ok := cur.scanName(); ok {
			sym := a.lookup(name, true)
			a.addReference(sym, false)
			if sym.Kind == SymMacro {
				*t = cur
				a.invokeMacro(sym, t)
				return true
			}
		}
	}
	return false
}

// flag records an error letter for the current line. Always returns
// false so evaluators can flag and fail in one statement.
func (a *Assembler) flag(ch byte) bool {
	if strings.IndexByte(a.ignored, ch) >= 0 {
		return false
	}
	if strings.IndexByte(a.errFlags, ch) >= 0 {
		return false
	}
	if a.errFlags == "" {
		a.errCount++
	}
	a.errFlags += string(ch)
	return false
}

// fatal abandons the assembly; Assemble recovers it.
func (a *Assembler) fatal(err error) {
	panic(fatalError{err: err})
}

func (a *Assembler) errlog() io.Writer {
	if a.Errlog != nil {
		return a.Errlog
	}
	return os.Stderr
}

func (a *Assembler) message(format string, args ...any) {
	fmt.Fprintf(a.errlog(), "%s - %s\n", Name, f(format, args...))
}
