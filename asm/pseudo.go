package asm

import (
	"strings"
)

type pseudoOp int

const (
	poEND pseudoOp = iota
	poORG
	poPAGE
	poFIELD
	poBLOCK
	poDATA
	poASCIZ
	poTEXT
	poSIXBIT
	poSIXBIZ
	poMRI
	poNLOAD
	poIM6100
	poHD6120
	poVECTOR
	poSTACK
	poPUSH
	poPOP
	poPUSHJ
	poPOPJ
	poDEFINE
	poIFDEF
	poIFNDEF
	poIFEQ
	poIFNE
	poIFGT
	poIFGE
	poIFLT
	poIFLE
	poTITLE
	poERROR
	poNOWARN
	poLIST
	poNOLIST
	poENABLE
	poDISABLE
	poEJECT
)

// pseudoNames maps source spellings to handlers. .HM6120 is accepted
// as a synonym for .HD6120 for old sources such as BTS6120.
var pseudoNames = map[string]pseudoOp{
	".END": poEND, ".ORG": poORG, ".PAGE": poPAGE, ".FIELD": poFIELD,
	".BLOCK": poBLOCK, ".DATA": poDATA, ".ASCIZ": poASCIZ, ".TEXT": poTEXT,
	".SIXBIT": poSIXBIT, ".SIXBIZ": poSIXBIZ, ".MRI": poMRI, ".NLOAD": poNLOAD,
	".IM6100": poIM6100, ".HD6120": poHD6120, ".HM6120": poHD6120,
	".VECTOR": poVECTOR, ".STACK": poSTACK, ".PUSH": poPUSH, ".POP": poPOP,
	".PUSHJ": poPUSHJ, ".POPJ": poPOPJ, ".DEFINE": poDEFINE,
	".IFDEF": poIFDEF, ".IFNDEF": poIFNDEF, ".IFEQ": poIFEQ, ".IFNE": poIFNE,
	".IFGT": poIFGT, ".IFGE": poIFGE, ".IFLT": poIFLT, ".IFLE": poIFLE,
	".TITLE": poTITLE, ".ERROR": poERROR, ".NOWARN": poNOWARN,
	".LIST": poLIST, ".NOLIST": poNOLIST, ".ENABLE": poENABLE,
	".DISABLE": poDISABLE, ".EJECT": poEJECT,
}

// Populated by init: the conditional handlers recurse through the
// statement assembler and back into this map, so a composite literal
// would be an initialization cycle.
var pseudoHandlers map[pseudoOp]func(*Assembler, *text)

func init() {
	pseudoHandlers = map[pseudoOp]func(*Assembler, *text){
		poEND:     (*Assembler).dotEnd,
		poORG:     (*Assembler).dotOrg,
		poPAGE:    (*Assembler).dotPage,
		poFIELD:   (*Assembler).dotField,
		poBLOCK:   (*Assembler).dotBlock,
		poDATA:    (*Assembler).dotData,
		poASCIZ:   (*Assembler).dotAsciz,
		poTEXT:    (*Assembler).dotText,
		poSIXBIT:  func(a *Assembler, t *text) { a.doSixbit(t, false) },
		poSIXBIZ:  func(a *Assembler, t *text) { a.doSixbit(t, true) },
		poMRI:     (*Assembler).dotMri,
		poNLOAD:   (*Assembler).dotNload,
		poIM6100:  func(a *Assembler, t *text) { a.changeCPU(t, 6100, intersilOps) },
		poHD6120:  func(a *Assembler, t *text) { a.changeCPU(t, 6120, harrisOps) },
		poVECTOR:  (*Assembler).dotVector,
		poSTACK:   (*Assembler).dotStack,
		poPUSH:    func(a *Assembler, t *text) { a.stackFunction(t, a.pushOp) },
		poPOP:     func(a *Assembler, t *text) { a.stackFunction(t, a.popOp) },
		poPUSHJ:   (*Assembler).dotPushj,
		poPOPJ:    func(a *Assembler, t *text) { a.stackFunction(t, a.popjOp) },
		poDEFINE:  (*Assembler).dotDefine,
		poIFDEF:   func(a *Assembler, t *text) { a.dotIfdef(t, true) },
		poIFNDEF:  func(a *Assembler, t *text) { a.dotIfdef(t, false) },
		poIFEQ:    func(a *Assembler, t *text) { a.dotIf(t, func(v uint16) bool { return v == 0 }) },
		poIFNE:    func(a *Assembler, t *text) { a.dotIf(t, func(v uint16) bool { return v != 0 }) },
		poIFGT:    func(a *Assembler, t *text) { a.dotIf(t, func(v uint16) bool { return v != 0 && v&0o4000 == 0 }) },
		poIFGE:    func(a *Assembler, t *text) { a.dotIf(t, func(v uint16) bool { return v&0o4000 == 0 }) },
		poIFLT:    func(a *Assembler, t *text) { a.dotIf(t, func(v uint16) bool { return v != 0 && v&0o4000 != 0 }) },
		poIFLE:    func(a *Assembler, t *text) { a.dotIf(t, func(v uint16) bool { return v == 0 || v&0o4000 != 0 }) },
		poTITLE:   (*Assembler).dotTitle,
		poERROR:   (*Assembler).dotError,
		poNOWARN:  (*Assembler).dotNowarn,
		poLIST:    func(a *Assembler, t *text) { a.listOptions(t, true) },
		poNOLIST:  func(a *Assembler, t *text) { a.listOptions(t, false) },
		poENABLE:  func(a *Assembler, t *text) { a.assemblyOptions(t, true) },
		poDISABLE: func(a *Assembler, t *text) { a.assemblyOptions(t, false) },
		poEJECT:   (*Assembler).dotEject,
	}
}

// .END does surprisingly little; assembly ends at the end of the
// source. Any literals on this page dump as if a .PAGE were here.
func (a *Assembler) dotEnd(t *text) {
	if !isEOL(t.spanWhite()) {
		a.flag(flagSyntax)
	}
	if a.litBase&0o177 != 0 {
		a.setPC((a.pc + 0o177) & 0o7600)
	}
	if a.pass == 2 {
		a.list(nil, nil, nil, true)
	}
}

func (a *Assembler) dotOrg(t *text) {
	loc, ok := a.evalExpression(t)
	if ok && isEOL(t.peek()) {
		a.setPC(loc)
	} else {
		a.flag(flagSyntax)
	}
	if a.pass == 2 {
		a.list(&a.field, &a.pc, nil, true)
	}
}

// .PAGE with no operand advances to the next code page; ".PAGE n"
// moves to the start of page n.
func (a *Assembler) dotPage(t *text) {
	if isEOL(t.spanWhite()) {
		a.setPC((a.pc + 0o177) & 0o7600)
	} else if page, ok := a.evalExpression(t); ok && isEOL(t.peek()) {
		a.setPC(page << 7)
	} else {
		a.flag(flagSyntax)
	}
	if a.pass == 2 {
		a.list(&a.field, &a.pc, nil, true)
	}
}

// .FIELD forces out the literal pool, punches a field frame, and
// resets the origin to 0200 of the new field.
func (a *Assembler) dotField(t *text) {
	if next, ok := a.evalExpression(t); ok && isEOL(t.peek()) {
		if next < 0o10 {
			a.setPC(0)
			a.field = next
			if a.pass == 2 {
				a.punch.Field(a.field)
			}
			a.setPC(0o200)
		} else {
			a.flag(flagRange)
		}
	} else {
		a.flag(flagSyntax)
	}
	if a.pass == 2 {
		a.list(&a.field, &a.pc, nil, true)
	}
}

// .BLOCK reserves words without initializing them. They still show as
// used in the memory map. .BLOCK 0 is a legal place holder.
func (a *Assembler) dotBlock(t *text) {
	length, ok := a.evalExpression(t)
	if !ok || !isEOL(t.peek()) {
		length = 0
	}

	if a.pc+length > a.litBase {
		a.flag(flagPageFull)
		if a.litBase > a.pc {
			length = a.litBase - a.pc
		} else {
			length = 0
		}
	}

	if a.pass == 2 {
		for i := uint16(0); i < length; i++ {
			a.markBitmap(a.pc + i)
		}
		a.list(&a.field, &a.pc, nil, true)
	}
	a.pc += length
}

// .DATA generates one word per comma separated expression. Pass 1
// only counts the words, by counting commas outside quoted strings;
// evaluating the expressions there would enter forward references
// into the symbol table as undefined.
func (a *Assembler) dotData(t *text) {
	rest := t.rest()
	words := uint16(1)
	for j := 0; j < len(rest) && !isEOL(rest[j]); {
		switch rest[j] {
		case ',':
			words++
			j++
		case '"':
			j++
			for j < len(rest) && rest[j] != '"' && rest[j] != '\n' {
				j++
			}
			if j < len(rest) && rest[j] == '"' {
				j++
			}
		default:
			j++
		}
	}

	if a.pass == 1 {
		a.pc += words
		return
	}

	//   Parse everything once without generating code, so any error
	// flags land on the line with the .DATA statement itself.
	cur := *t
	count := uint16(1)
	for {
		a.evalExpression(&cur)
		if isEOL(cur.spanWhite()) {
			break
		}
		if cur.peek() != ',' {
			a.flag(flagSyntax)
		}
		cur.i++
		count++
	}
	if count != words {
		a.flag(flagSyntax)
	}
	a.list(nil, nil, nil, true)

	//   Generate exactly as many words as pass 1 counted, or we'd
	// cause phase errors.
	cur = *t
	for i := uint16(0); i < words; i++ {
		code, ok := a.evalExpression(&cur)
		if !ok {
			code = 0
		}
		a.outputCode(code, a.optText, false)
		if isEOL(cur.spanWhite()) {
			break
		}
		cur.i++
	}
}

// .ASCIZ generates one word per character plus a null terminator.
func (a *Assembler) dotAsciz(t *text) {
	arg, _ := a.getArgumentString(t)
	data, _ := a.expandEscapes(arg)

	if a.pass == 2 {
		a.list(&a.field, &a.pc, nil, true)
	}

	for i := 0; i < len(data); i++ {
		ch := uint16(data[i])
		if a.MarkASCII {
			ch |= 0o200
		}
		a.outputCode(ch, a.optText, false)
	}
	a.outputCode(0, a.optText, false)
}

// .TEXT packs three characters into two words, OS/8 style, and
// guarantees a full word of zeros at the end.
func (a *Assembler) dotText(t *text) {
	arg, _ := a.getArgumentString(t)
	data, _ := a.expandEscapes(arg)
	if a.pass == 2 {
		a.list(&a.field, &a.pc, nil, true)
	}

	mark := uint16(0)
	if a.MarkASCII {
		mark = 0o200
	}

	for i := 0; i < len(data); i += 3 {
		left := len(data) - i
		if left >= 3 {
			c0 := uint16(data[i]) | mark
			c1 := uint16(data[i+1]) | mark
			c2 := uint16(data[i+2]) | mark
			a.outputCode(((c2>>4)&0o17)<<8|c0, a.optText, false)
			a.outputCode((c2&0o17)<<8|c1, a.optText, false)
		} else {
			if left > 0 {
				a.outputCode(uint16(data[i])|mark, a.optText, false)
			}
			if left > 1 {
				a.outputCode(uint16(data[i+1])|mark, a.optText, false)
			}
		}
	}
	a.outputCode(0, a.optText, false)
}

// doSixbit packs two SIXBIT characters per word. OS/8 coding ANDs the
// ASCII with 077; DECsystem-10 coding subtracts 040. With terminate
// set (.SIXBIZ) the string ends with a terminator byte or word: zero
// for OS/8, 077 for DEC-10.
func (a *Assembler) doSixbit(t *text, terminate bool) {
	arg, _ := a.getArgumentString(t)
	data, _ := a.expandEscapes(arg)

	first := true
	code := uint16(0)
	i := 0
	for ; i < len(data); i++ {
		ch := upper(data[i])
		if ch < ' ' || ch > '_' {
			a.flag(flagText)
		}
		var sixbit uint16
		if a.OS8Sixbit {
			sixbit = uint16(ch) & 0o77
		} else {
			sixbit = uint16(ch-' ') & 0o77
		}
		if i&1 != 0 {
			code |= sixbit
			a.outputCode(code, a.optText, first)
			first = false
		} else {
			code = sixbit << 6
		}
	}

	if i&1 != 0 {
		if terminate && !a.OS8Sixbit {
			code |= 0o77
		}
		a.outputCode(code, a.optText, first)
	} else if terminate {
		if a.OS8Sixbit {
			a.outputCode(0, a.optText, false)
		} else {
			a.outputCode(0o7777, a.optText, false)
		}
	}
}

// .MRI defines a user MRI style opcode, ".MRI NAME=value".
func (a *Assembler) dotMri(t *text) {
	var value uint16
	good := false

	if name, ok := t.scanName(); ok && t.spanWhite() == '=' {
		t.i++
		if !isEOL(t.peek()) {
			if v, vok := a.evalExpression(t); vok && isEOL(t.peek()) {
				value = v
				sym := a.lookup(name, true)
				a.addReference(sym, true)
				if a.pass == 1 {
					if sym.Kind == SymUndefined {
						sym.Kind = SymOpcode
						sym.Value = value
					} else {
						sym.Kind = SymMultiple
					}
				} else if sym.Kind != SymOpcode {
					a.flag(flagSymbol)
				}
				good = true
			}
		}
	}
	if !good {
		a.flag(flagSyntax)
	}

	if a.pass == 2 {
		a.list(nil, nil, &value, true)
	}
}

// nloadCodes maps the magic constants the ".NLOAD n" pseudo-op can
// load into the AC with a single group 1/2 OPR combination.
var nloadCodes = map[uint16]uint16{
	0o0000: 0o7200, // CLA
	0o0001: 0o7201, // CLA IAC
	0o0002: 0o7326, // CLA CLL CML RTL
	0o2000: 0o7332, // CLA CLL CML RTR
	0o3777: 0o7350, // CLA CLL CMA RAR
	0o4000: 0o7330, // CLA CLL CML RAR
	0o5777: 0o7352, // CLA CLL CMA RTR
	0o7775: 0o7346, // CLA CLL CMA RTL
	0o7776: 0o7344, // CLA CLL CMA RAL
	0o7777: 0o7240, // CLA CMA
	0o0003: 0o7325, // CLA CLL CML IAC RAL
	0o0004: 0o7307, // CLA CLL IAC RTL
	0o0006: 0o7327, // CLA CLL CML IAC RTL
	0o6000: 0o7333, // CLA CLL CML IAC RTR
	0o0100: 0o7203, // CLA IAC BSW
}

func (a *Assembler) dotNload(t *text) {
	if a.pass == 1 {
		a.pc++
		return
	}

	var value uint16
	value, _ = a.evalExpression(t)
	if !isEOL(t.spanWhite()) {
		a.flag(flagSyntax)
	}

	code, ok := nloadCodes[value]
	if !ok {
		// CLA CLL IAC R3L needs the 6120's R3L.
		if value == 0o0010 && a.cpu == 6120 {
			code = 0o7315
		} else {
			code = 0o7000
			a.flag(flagRange)
		}
	}
	a.outputCode(code, true, true)
}

// changeCPU selects the target processor and loads its extra
// mnemonics into the symbol table.
func (a *Assembler) changeCPU(t *text, cpu int, defs []opdef) {
	if isEOL(t.spanWhite()) {
		a.seedOps(defs)
		a.cpu = cpu
	} else {
		a.flag(flagSyntax)
	}
	if a.pass == 2 {
		a.list(nil, nil, nil, true)
	}
}

// .VECTOR plants the reset vector in the top words of the current
// page using the literal pool, so the rest of the pool stays usable.
// An on-page start address takes one word (a direct JMP); off-page
// takes two (JMP @ .-1 plus the address).
func (a *Assembler) dotVector(t *text) {
	var vector uint16
	page := a.pc & 0o7600

	if a.cpu == 0 {
		a.flag(flagPseudo)
	}
	// Any literals already on this page would be overwritten.
	if a.litBase != page+0o200 {
		a.flag(flagPageFull)
	}

	if a.pass == 2 {
		v, ok := a.evalExpression(t)
		vector = v
		if !ok || !isEOL(t.peek()) {
			a.flag(flagSyntax)
		}
	}

	if vector&0o7600 != page {
		a.litData[0o177] = 0o5776
		a.litData[0o176] = vector
		a.litBase = page + 0o176
	} else {
		a.litData[0o177] = 0o5200 | (vector & 0o177)
		a.litBase = page + 0o177
	}

	if a.pass == 2 {
		a.list(nil, nil, &vector, true)
	}
}

// .STACK records the opcodes emitted by .PUSH, .POP, .PUSHJ and
// .POPJ. The 6120 has two hardware stacks; the 6100 fakes one in
// software, usually with JMS/JMP sequences.
func (a *Assembler) dotStack(t *text) {
	if a.pass == 1 {
		return
	}
	if a.cpu == 0 {
		a.flag(flagPseudo)
	}

	scan := func(last bool) (value uint16) {
		value, ok := a.evalExpression(t)
		if last {
			if !ok || !isEOL(t.peek()) {
				a.flag(flagSyntax)
			}
		} else if !ok || t.next() != ',' {
			a.flag(flagSyntax)
		}
		return
	}
	a.pushOp = scan(false)
	a.popOp = scan(false)
	a.pushjOp = scan(false)
	a.popjOp = scan(true)

	a.list(nil, nil, nil, true)
	a.list(nil, nil, &a.pushOp, false)
	a.list(nil, nil, &a.popOp, false)
	a.list(nil, nil, &a.pushjOp, false)
	a.list(nil, nil, &a.popjOp, false)
}

// stackFunction emits the opcode recorded by .STACK for the .PUSH,
// .POP and .POPJ pseudo-ops.
func (a *Assembler) stackFunction(t *text, opcode uint16) {
	if a.cpu == 0 {
		a.flag(flagPseudo)
	}
	if !isEOL(t.spanWhite()) {
		a.flag(flagSyntax)
	}
	if opcode == 0 {
		a.flag(flagPseudo)
	}
	a.outputCode(opcode, true, true)
}

// .PUSHJ emits two words. On the 6120 the hardware push is followed
// by an inline JMP to the destination; on the 6100 the convention is
// the full 12 bit destination address in the second word.
func (a *Assembler) dotPushj(t *text) {
	if a.pass == 1 {
		a.pc += 2
		return
	}
	if a.cpu == 0 {
		a.flag(flagPseudo)
	}

	if a.pushjOp == 0 {
		a.flag(flagPseudo)
	}
	a.outputCode(a.pushjOp, true, true)

	switch a.cpu {
	case 6100:
		jmp, ok := a.evalExpression(t)
		if !ok || !isEOL(t.peek()) {
			a.flag(flagSyntax)
		}
		a.outputCode(jmp, true, false)
	case 6120:
		jmp, _ := a.evalMRI(t, a.lookup("JMP", false))
		if !isEOL(t.spanWhite()) {
			a.flag(flagSyntax)
		}
		a.outputCode(jmp, true, false)
	}
}

// dotDefine parses a ".DEFINE name (formals) <body>" macro
// definition. The body may span lines and nest more blocks.
func (a *Assembler) dotDefine(t *text) {
	name, ok := t.scanName()
	if !ok {
		a.flag(flagSyntax)
		return
	}

	sym := a.lookup(name, true)
	def := a.newMacro(sym)
	a.addReference(sym, true)

	parsed := def
	if parsed == nil {
		parsed = &MacroDef{}
	}
	a.parseFormals(parsed, t)

	body := a.readBlock(t, true, true)
	if !isEOL(t.spanWhite()) {
		a.flag(flagSyntax)
	}
	if def != nil {
		def.Body = body
	}

	if a.pass == 2 {
		a.list(nil, nil, nil, true)
	}
}

// doConditional assembles or skips a "<...>" text block. Either way
// the rest of the line after the block is assembled normally.
func (a *Assembler) doConditional(t *text, success bool) {
	if success {
		for {
			ch := a.getSourceChar(t)
			for isSpace(ch) {
				ch = a.getSourceChar(t)
			}
			if ch == '<' {
				break
			}
			a.flag(flagSyntax)
		}
		//   The matching '>' eventually shows up as an end of
		// statement and is ignored.
		a.assemble(t)
	} else {
		a.readBlock(t, false, false)
		a.assemble(t)
	}
}

func (a *Assembler) dotIfdef(t *text, wantDefined bool) {
	name, ok := t.scanName()
	if !ok {
		a.flag(flagSyntax)
		return
	}
	defined := a.lookup(name, false) != nil
	a.doConditional(t, defined == wantDefined)
}

// dotIf handles the arithmetic conditionals. Bit 04000 is the sign.
func (a *Assembler) dotIf(t *text, test func(uint16) bool) {
	value, ok := a.evalExpression(t)
	if !ok {
		if a.pass == 2 {
			a.list(nil, nil, nil, true)
		}
		return
	}
	a.doConditional(t, test(value))
}

// .TITLE sets the listing page title and records a table of contents
// entry. Pass 1 ignores it entirely.
func (a *Assembler) dotTitle(t *text) {
	if a.pass == 1 {
		return
	}
	if isEOL(t.spanWhite()) {
		a.flag(flagSyntax)
	} else {
		title := strings.TrimSuffix(t.rest(), "\n")
		a.lw.Heading = title
		a.addTOC(title)
	}
	a.list(nil, nil, nil, true)
}

// .ERROR always flags, which also echoes the line to stderr. Useful
// with the conditionals to catch bad assembly parameters.
func (a *Assembler) dotError(t *text) {
	if a.pass == 2 {
		a.flag(flagError)
		a.list(nil, nil, nil, true)
	}
}

// .NOWARN lists error letters to suppress. An empty list reports
// everything again.
func (a *Assembler) dotNowarn(t *text) {
	a.ignored = ""
	for ch := t.spanWhite(); !isEOL(ch); ch = t.spanWhite() {
		if !isAlpha(ch) {
			a.flag(flagSyntax)
		}
		a.ignored += string(upper(ch))
		t.i++
	}
	if a.pass == 2 {
		a.list(nil, nil, nil, true)
	}
}

// listOptions handles .LIST and .NOLIST.
func (a *Assembler) listOptions(t *text, enable bool) {
	for {
		name, ok := t.scanName()
		if !ok {
			a.flag(flagSyntax)
			break
		}
		switch name {
		case "MET":
			a.optExpansions = enable
		case "TXB":
			a.optText = enable
		case "TOC":
			a.optTOC = enable
		case "MAP":
			a.optMap = enable
		case "SYM":
			a.optSymbols = enable
		case "PAG":
			a.lw.Paginate = enable
		case "ALL":
			if enable {
				a.optExpansions = true
				a.optTOC = true
				a.optMap = true
				a.optSymbols = true
				a.optText = true
			} else {
				a.flag(flagListOpt)
			}
		default:
			a.flag(flagListOpt)
		}
		if t.spanWhite() != ',' {
			break
		}
		t.i++
	}
	if !isEOL(t.spanWhite()) {
		a.flag(flagSyntax)
	}
	if a.pass == 2 {
		a.list(nil, nil, nil, true)
	}
}

// assemblyOptions handles .ENABLE and .DISABLE. "OS8" matches the -8
// command line option and "ASR" matches -a.
func (a *Assembler) assemblyOptions(t *text, enable bool) {
	for {
		name, ok := t.scanName()
		if !ok {
			a.flag(flagSyntax)
			break
		}
		switch name {
		case "OS8":
			a.OS8Sixbit = enable
		case "ASR":
			a.MarkASCII = enable
		default:
			a.flag(flagListOpt)
		}
		if t.spanWhite() != ',' {
			break
		}
		t.i++
	}
	if !isEOL(t.spanWhite()) {
		a.flag(flagSyntax)
	}
	if a.pass == 2 {
		a.list(nil, nil, nil, true)
	}
}

// .EJECT ends the current listing page; the new page starts after
// this line, not with it.
func (a *Assembler) dotEject(t *text) {
	if !isEOL(t.spanWhite()) {
		a.flag(flagSyntax)
	}
	if a.pass == 2 {
		a.list(nil, nil, nil, true)
	}
	a.lw.Eject()
}
