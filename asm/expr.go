package asm

// evalExpression scans a complete arithmetic expression, strictly
// left to right with no operator precedence, modulo 4096. It stops at
// the first character that is not an operator, which in a well formed
// expression is a ']', ')', or the end of the statement.
func (a *Assembler) evalExpression(t *text) (value uint16, ok bool) {
	value, ok = a.evalOperand(t)
	if !ok {
		return
	}

	for {
		op := t.spanWhite()
		switch op {
		case '+', '-', '&', '|', '*', '/', '%':
		default:
			return value, true
		}
		t.i++

		opnd, opok := a.evalOperand(t)
		if !opok {
			return value, false
		}
		switch op {
		case '+':
			value = (value + opnd) & 0o7777
		case '-':
			value = (value + (4096 - opnd)) & 0o7777
		case '&':
			value = value & opnd
		case '|':
			value = value | opnd
		case '*':
			value = (value * opnd) & 0o7777
		case '/':
			if opnd == 0 {
				value = 0
				a.flag(flagRange)
			} else {
				value = (value / opnd) & 0o7777
			}
		case '%':
			if opnd == 0 {
				value = 0
				a.flag(flagRange)
			} else {
				value = (value % opnd) & 0o7777
			}
		}
	}
}

// evalOperand scans a single operand: a number, a quoted character, a
// symbol, a literal, a nested expression, or the location counter,
// with an optional leading sign.
func (a *Assembler) evalOperand(t *text) (value uint16, ok bool) {
	negative, complement := false, false

	ch := t.spanWhite()
	if ch == '+' || ch == '-' || ch == '~' {
		negative = ch == '-'
		complement = ch == '~'
		t.i++
		ch = t.spanWhite()
	}

	switch {
	case ch == '(':
		t.i++
		value, ok = a.evalExpression(t)
		if !ok {
			return value, a.flag(flagSyntax)
		}
		if t.peek() != ')' {
			return value, a.flag(flagSyntax)
		}
		t.i++
	case ch == '*' || ch == '.':
		value = a.pc
		t.i++
	case ch == '[':
		value, ok = a.evalLiteral(t)
		if !ok {
			return
		}
	case ch == '"':
		value, ok = a.evalQuote(t)
		if !ok {
			return
		}
	case isDigit(ch):
		value, ok = a.scanNumber(t)
		if !ok {
			return
		}
	case isName1(ch):
		name, _ := t.scanName()
		value, ok = a.evalSymbol(t, name)
		if !ok {
			return
		}
	default:
		return 0, a.flag(flagSyntax)
	}

	if negative {
		value = (4096 - value) & 0o7777
	}
	if complement {
		value = ^value & 0o7777
	}
	return value, true
}

// evalQuote returns the ASCII value of a quoted character.
func (a *Assembler) evalQuote(t *text) (value uint16, ok bool) {
	t.i++
	value = uint16(t.next())
	if a.MarkASCII {
		value |= 0o200
	}
	if t.peek() != '"' {
		return value, a.flag(flagSyntax)
	}
	t.i++
	return value, true
}

// evalSymbol computes the value of a symbol found in an expression. A
// machine opcode goes on to parse its own operands and returns the
// complete instruction word.
func (a *Assembler) evalSymbol(t *text, name string) (value uint16, ok bool) {
	sym := a.lookup(name, true)
	a.addReference(sym, false)

	switch sym.Kind {
	case SymTag:
		// Labels carry their field; warn when it isn't ours.
		if (sym.Value>>12)&7 != a.field {
			a.flag(flagOffField)
		}
		return sym.Value & 0o7777, true

	case SymEquate:
		return sym.Value, true

	case SymOpcode, OpMRI, OpOPR, OpIOT, OpPIE, OpPIO, OpCXF:
		return a.evalOpcode(t, sym)

	case SymUndefined:
		return 0, a.flag(flagUndefined)
	case SymMultiple:
		return 0, a.flag(flagMultiple)
	default:
		return 0, a.flag(flagSymbol)
	}
}

// evalOpcode assembles the complete instruction word for a machine
// opcode, parsing any operands it takes.
func (a *Assembler) evalOpcode(t *text, sym *Symbol) (value uint16, ok bool) {
	switch sym.Kind {
	case OpMRI, SymOpcode:
		return a.evalMRI(t, sym)
	case OpOPR:
		return a.evalOPR(t, sym)
	case OpCXF:
		return a.evalCXF(t, sym)
	case OpPIE, OpPIO:
		return a.evalEIO(t, sym)
	case OpIOT:
		return sym.Value, true
	default:
		return 0, false
	}
}

// evalMRI assembles a memory reference instruction: an optional @ for
// indirect addressing, then the target address. Page zero targets
// encode directly; targets on the current page use the page bit;
// anything else is an off-page error.
func (a *Assembler) evalMRI(t *text, sym *Symbol) (value uint16, ok bool) {
	value = sym.Value

	if t.spanWhite() == '@' {
		value |= 0o400
		t.i++
	}

	addr, ok := a.evalExpression(t)
	if !ok {
		return value, false
	}
	switch {
	case addr&0o7600 == 0:
		value |= addr
	case addr&0o7600 == a.pc&0o7600:
		value |= 0o200 | (addr & 0o177)
	default:
		return value, a.flag(flagOffPage)
	}
	return value, true
}

// oprGroup returns the group (1, 2 or 3) of an operate micro-op.
func oprGroup(op uint16) int {
	switch {
	case op&0o7400 == 0o7000:
		return 1
	case op&0o7401 == 0o7400:
		return 2
	case op&0o7401 == 0o7401:
		return 3
	}
	return 0
}

// evalOPR combines operate micro-ops written with spaces in between,
// such as "CLA CLL CML". Micro-ops from different groups can't be
// combined, except CLA which exists in all three.
func (a *Assembler) evalOPR(t *text, sym *Symbol) (value uint16, ok bool) {
	value = sym.Value
	for {
		name, found := t.scanName()
		if !found {
			return value, true
		}
		op := a.lookup(name, true)
		a.addReference(op, false)
		if op.Kind != OpOPR {
			return value, a.flag(flagMicro)
		}
		if value != 0o7200 && op.Value != 0o7200 && oprGroup(value) != oprGroup(op.Value) {
			a.flag(flagMicro)
		}
		value |= op.Value
	}
}

// evalCXF assembles a change field instruction. The operand is the
// field number 0 to 7, positioned into the instruction (unlike PAL8,
// which just ORs the operand in).
func (a *Assembler) evalCXF(t *text, sym *Symbol) (value uint16, ok bool) {
	field, ok := a.evalExpression(t)
	if !ok {
		return 0, false
	}
	if field > 7 {
		return 0, a.flag(flagRange)
	}
	return sym.Value | field<<3, true
}

// evalEIO assembles the IM6101 (PIE) and IM6103 (PIO) instructions,
// whose operand is the chip select address.
func (a *Assembler) evalEIO(t *text, sym *Symbol) (value uint16, ok bool) {
	addr, ok := a.evalExpression(t)
	if !ok {
		return 0, false
	}
	if sym.Kind == OpPIE {
		if addr == 0 || addr > 31 {
			return 0, a.flag(flagRange)
		}
	} else {
		if addr == 0 || addr > 3 {
			return 0, a.flag(flagRange)
		}
	}
	return sym.Value | addr<<4, true
}
