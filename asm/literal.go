package asm

// evalLiteral enters a "[expr]" value into the literal pool for the
// current page and returns its address. Equal values share one pool
// word. The pool grows downward from the top of the page.
func (a *Assembler) evalLiteral(t *text) (value uint16, ok bool) {
	t.i++
	lit, ok := a.evalExpression(t)
	if !ok {
		return 0, a.flag(flagSyntax)
	}
	if t.peek() != ']' {
		return 0, a.flag(flagSyntax)
	}
	t.i++

	for loc := a.litBase; loc&0o177 != 0; loc++ {
		if a.litData[loc&0o177] == lit {
			return loc, true
		}
	}

	// Don't let the pool overrun the code already on this page.
	if a.litBase <= a.pc+1 {
		return 0, a.flag(flagPageFull)
	}
	a.litBase--
	a.litData[a.litBase&0o177] = lit
	return a.litBase, true
}

// dumpLiterals writes out the accumulated literal pool. Called when
// the PC leaves the page and at the end of the source.
func (a *Assembler) dumpLiterals() {
	if a.pass != 2 {
		return
	}
	for loc := a.litBase; loc&0o177 != 0; loc++ {
		code := a.litData[loc&0o177]
		a.list(&a.field, &loc, &code, false)
		a.punch.Word(loc, code)
		a.markBitmap(loc)
	}
}

// setPC moves the location counter. Moving off the current page dumps
// the literal pool and starts a fresh one. The extra litBase test
// catches the case where the previous page was exactly full with no
// literals and the PC has already flowed onto the new page.
func (a *Assembler) setPC(pc uint16) bool {
	if pc > 0o7777 {
		return a.flag(flagRange)
	}
	if pc&0o7600 != a.pc&0o7600 || a.pc == a.litBase {
		a.dumpLiterals()
		a.litBase = (pc & 0o7600) + 0o200
	}
	a.pc = pc
	return true
}

// outputCode emits one word of code at the current PC and increments
// it. When there are no literals on the page the PC may flow freely
// onto the next page; otherwise hitting the pool is a page-full error.
func (a *Assembler) outputCode(code uint16, list, source bool) {
	if a.pc >= a.litBase {
		if a.litBase&0o177 == 0 {
			a.litBase = (a.pc & 0o7600) + 0o200
		} else {
			a.flag(flagPageFull)
		}
	}

	if a.pass == 2 {
		if list {
			a.list(&a.field, &a.pc, &code, source)
		}
		a.punch.Word(a.pc, code)
		a.markBitmap(a.pc)
	}
	a.pc++
}

// markBitmap records one assembled word, flagging a duplicate load.
func (a *Assembler) markBitmap(addr uint16) {
	if a.bitmap.mark(a.field, addr) {
		a.flag(flagDuplicate)
	}
}
