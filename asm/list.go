package asm

import (
	"fmt"
	"strings"
)

// tocEntry is one table of contents line: a .TITLE string and the
// listing page it appears on.
type tocEntry struct {
	title string
	page  int
}

// addTOC records a table of contents entry for the page the current
// line will list on.
func (a *Assembler) addTOC(title string) {
	a.toc = append(a.toc, tocEntry{title: title, page: a.lw.Page()})
}

// list writes one line to the listing, echoing it to the error log
// when the line has error flags. The flags clear afterwards. The
// field, addr and code pointers are each optional; source selects
// whether the source text prints.
func (a *Assembler) list(field, addr, code *uint16, source bool) {
	s, show := a.formatLine(field, addr, code, source)
	if show {
		a.lw.Line(s)
	} else {
		// Suppressed expansion lines still count against the page.
		a.lw.Need(1)
	}
	if show && a.errFlags != "" {
		fmt.Fprintln(a.errlog(), s)
	}
	a.errFlags = ""
}

// formatLine builds one listing line: line number, error flags,
// address, generated code, source text. A "+" flag marks macro
// expansion text, which .NOLIST MET reduces to just the code words.
func (a *Assembler) formatLine(field, addr, code *uint16, source bool) (s string, show bool) {
	flags := a.errFlags
	if a.expansion != nil {
		flags += "+"
		if !a.optExpansions {
			if addr == nil && code == nil {
				return "", false
			}
			source = false
		}
	}

	var b strings.Builder
	if source && a.expansion == nil {
		fmt.Fprintf(&b, "%4d%-4s", a.lineNo, flags)
	} else {
		fmt.Fprintf(&b, "    %-4s", flags)
	}

	if field != nil && addr != nil {
		fmt.Fprintf(&b, "%01o%04o", *field, *addr)
	} else {
		b.WriteString("     ")
	}
	b.WriteString("    ")

	if code != nil {
		fmt.Fprintf(&b, "%04o", *code)
	} else {
		b.WriteString("    ")
	}

	if source {
		b.WriteString("   ")
		b.WriteString(strings.TrimSuffix(a.curLine, "\n"))
	}
	return b.String(), true
}

// listSummary reports the program break and error count, to both the
// listing and the error log.
func (a *Assembler) listSummary() {
	a.lw.Need(5)
	a.lw.Print("")
	a.lw.Print("")
	a.lw.Print("")

	a.lw.Print(f("Program break is %05o", a.field<<12|a.pc))
	a.message("Program break is %05o", a.field<<12|a.pc)

	if a.errCount > 0 {
		a.lw.Print(f("%d error(s) detected", a.errCount))
		a.message("%d error(s) detected", a.errCount)
	} else {
		a.lw.Print(f("No errors detected"))
		a.message("No errors detected")
	}
}

// listSymbolTable dumps the symbol table with cross references, one
// symbol per line. The defining line shows with an asterisk. Built in
// symbols list only when the source actually used them.
func (a *Assembler) listSymbolTable() {
	a.lw.Heading = f("Symbol Table")
	a.lw.NewPage()
	a.addTOC(a.lw.Heading)

	perLine := (a.lw.Columns - 20) / 7
	if perLine < 1 {
		perLine = 1
	}

	for _, sym := range a.symbols.sorted() {
		var b strings.Builder
		switch sym.Kind {
		case SymUndefined:
			fmt.Fprintf(&b, "%-10s -UDF-    ", sym.Name)
		case SymMultiple:
			fmt.Fprintf(&b, "%-10s -MDF-    ", sym.Name)
		case SymTag:
			fmt.Fprintf(&b, "%-10s %05o    ", sym.Name, sym.Value)
		case SymMacro:
			if len(sym.Refs) == 0 {
				continue
			}
			fmt.Fprintf(&b, "%-10s -MAC-    ", sym.Name)
		case SymEquate, SymOpcode, OpMRI, OpOPR, OpIOT, OpPIE, OpPIO, OpCXF:
			if len(sym.Refs) == 0 {
				continue
			}
			fmt.Fprintf(&b, "%-10s  %04o    ", sym.Name, sym.Value)
		case SymPseudo:
			if len(sym.Refs) == 0 {
				continue
			}
			fmt.Fprintf(&b, "%-10s -POP-    ", sym.Name)
		default:
			continue
		}

		count := 0
		for _, ref := range sym.Refs {
			if count == perLine {
				a.lw.Line(b.String())
				b.Reset()
				b.WriteString(strings.Repeat(" ", 20))
				count = 0
			}
			mark := byte(' ')
			if ref.Definition {
				mark = '*'
			}
			fmt.Fprintf(&b, "%6d%c", ref.Line, mark)
			count++
		}
		a.lw.Line(b.String())
	}
}

// listMemoryMap dumps the memory bitmap in the style of the OS/8
// BITMAP utility, skipping fields with no words used. Each memory
// page takes two 64 word rows; a field fills two listing pages.
func (a *Assembler) listMemoryMap() {
	a.lw.Heading = f("Memory Map")
	a.lw.Eject()
	a.addTOC(a.lw.Heading)

	for field := 0; field < 8; field++ {
		if a.bitmap.emptyFrom(field<<12) >= 4096 {
			continue
		}
		for page := 0; page < 32; page++ {
			if page == 0 || page == 16 {
				a.lw.NewPage()
			}
			a.lw.Print(a.bitmap.row(field<<12 | page<<7))
			a.lw.Print(a.bitmap.row(field<<12 | page<<7 | 64))
			a.lw.Print("")
		}
	}
}

// listContents dumps the table of contents, always starting on an odd
// page so it faces up when the listing prints double sided.
func (a *Assembler) listContents() {
	if a.lw.Pages()%2 == 1 {
		a.lw.Heading = ""
		a.lw.NewPage()
	}
	a.lw.Heading = f("Table of Contents")
	a.lw.NewPage()

	for _, entry := range a.toc {
		title := entry.title
		if len(title)%2 == 1 {
			title += " "
		}
		for len(title) < 64 {
			title += " ."
		}
		a.lw.Line(fmt.Sprintf("\t%s%4d", title, entry.page))
	}
}
