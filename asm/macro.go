package asm

import (
	"fmt"
	"strings"
)

const (
	maxArgs = 10
	maxBody = 4096
)

// MacroDef is the stored body and formal argument list of a macro.
type MacroDef struct {
	Formals []string
	Body    string
}

// macroExp is one level of the macro expansion stack.
type macroExp struct {
	def     *MacroDef
	actuals []string
	next    int // offset of the next body line
	prev    *macroExp
}

// newMacro attaches a fresh definition to a symbol. Redefining an
// existing macro replaces its body; redefining anything else is a
// multiple definition error.
func (a *Assembler) newMacro(sym *Symbol) (def *MacroDef) {
	switch sym.Kind {
	case SymUndefined, SymMacro:
		def = &MacroDef{}
		sym.Kind = SymMacro
		sym.Macro = def
		return def
	default:
		a.flag(flagMultiple)
		return nil
	}
}

// parseFormals parses the formal argument list of a definition, a
// comma separated list of names with optional parenthesis.
func (a *Assembler) parseFormals(def *MacroDef, t *text) bool {
	if isEOL(t.spanWhite()) {
		return true
	}

	parenthesis := false
	if t.peek() == '(' {
		parenthesis = true
		t.i++
	}

	for len(def.Formals) < maxArgs {
		name, _ := t.scanName()
		def.Formals = append(def.Formals, name)
		if t.spanWhite() != ',' {
			break
		}
		t.i++
	}

	if parenthesis {
		if t.peek() != ')' {
			return a.flag(flagSyntax)
		}
		t.i++
	}
	return true
}

// searchFormals finds the actual argument bound to a formal name. A
// formal beginning with "$" is a generated label and the "$" is not
// part of the name.
func searchFormals(exp *macroExp, name string) (actual string, found bool) {
	for i, formal := range exp.def.Formals {
		formal = strings.TrimPrefix(formal, "$")
		if formal == name {
			if i < len(exp.actuals) {
				actual = exp.actuals[i]
			}
			return actual, true
		}
	}
	return
}

// getMacroLine copies the next line of the current macro body into
// the line buffer, substituting "$name" argument references as it
// goes. "$$" gives a literal dollar sign. Returns false when the body
// is exhausted.
func (a *Assembler) getMacroLine() bool {
	exp := a.expansion
	if exp.next >= len(exp.def.Body) {
		return false
	}

	bt := text{s: exp.def.Body, i: exp.next}
	var line []byte
	for bt.i < len(bt.s) {
		ch := bt.s[bt.i]
		bt.i++
		if ch == '$' {
			if bt.i < len(bt.s) && bt.s[bt.i] == '$' {
				line = append(line, '$')
				bt.i++
				continue
			}
			name, ok := bt.scanName()
			if !ok {
				a.flag(flagSyntax)
				continue
			}
			if actual, found := searchFormals(exp, name); found {
				line = append(line, actual...)
				if len(line) > maxLine-1 {
					a.fatal(ErrExpansionTooLong)
				}
			}
			continue
		}

		if len(line) >= maxLine-1 {
			a.fatal(ErrExpansionTooLong)
		}
		line = append(line, ch)
		if ch == '\n' {
			break
		}
	}

	exp.next = bt.i
	if len(line) == 0 || line[len(line)-1] != '\n' {
		line = append(line, '\n')
	}
	a.curLine = string(line)
	return true
}

// readBlock reads a "<...>" text block, which may span source lines.
// Nested blocks are balanced. When keep is false the text is simply
// discarded (failing conditionals); addNewline guarantees the body
// ends with a newline (macro definitions).
func (a *Assembler) readBlock(t *text, keep, addNewline bool) (body string) {
	var b []byte

	// Skip everything until the opening '<'.
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

	// A newline right after the '<' is not part of the body.
	ch := a.getSourceChar(t)
	if ch == '\n' {
		ch = a.getSourceChar(t)
	}

	level := 0
	for ch != '>' || level != 0 {
		if len(b) >= maxBody-2 {
			a.fatal(ErrBodyTooLong)
		}
		if keep {
			b = append(b, ch)
		}
		if ch == '<' {
			level++
		}
		if ch == '>' && level > 0 {
			level--
		}
		ch = a.getSourceChar(t)
	}

	if keep && addNewline {
		if len(b) == 0 || b[len(b)-1] != '\n' {
			b = append(b, '\n')
		}
	}
	return string(b)
}

// parseActual parses one actual macro argument. Commas inside quotes
// or balanced parenthesis don't separate arguments, and a "<...>"
// block actual may contain anything at all.
func (a *Assembler) parseActual(t *text) (actual string, ok bool) {
	ch := t.spanWhite()
	if ch == '<' {
		block := a.readBlock(t, true, false)
		if len(block) > maxLine-1 {
			return "", a.flag(flagMacro)
		}
		return block, true
	}

	var b []byte
	inQuotes := false
	parenthesis := 0
	for (ch != ',' || inQuotes || parenthesis > 0) && !isEOL(ch) {
		if ch == '"' {
			inQuotes = !inQuotes
		}
		if ch == '(' {
			parenthesis++
		}
		if ch == ')' && parenthesis == 0 {
			break
		}
		if len(b) >= maxLine {
			return "", a.flag(flagMacro)
		}
		if ch == ')' {
			parenthesis--
		}
		b = append(b, ch)
		t.i++
		ch = t.peek()
	}
	return strings.TrimRight(string(b), " \t\r\v\f"), true
}

// generatedActuals assigns a fresh "$nnnnn" label to every formal
// beginning with "$" whose actual argument is empty. These give
// macros unique local labels on every expansion.
func (a *Assembler) generatedActuals(exp *macroExp) {
	for len(exp.actuals) < len(exp.def.Formals) {
		exp.actuals = append(exp.actuals, "")
	}
	for i, formal := range exp.def.Formals {
		if !strings.HasPrefix(formal, "$") || exp.actuals[i] != "" {
			continue
		}
		a.genLabel++
		exp.actuals[i] = fmt.Sprintf("$%05d", a.genLabel)
	}
}

// invokeMacro parses the actual argument list of a macro call and
// pushes the expansion. The call line lists before the push so it
// shows with its own line number, not as expansion text.
func (a *Assembler) invokeMacro(sym *Symbol, t *text) {
	exp := &macroExp{def: sym.Macro}

	parenthesis := false
	empty := isEOL(t.spanWhite())
	if !empty && t.peek() == '(' {
		parenthesis = true
		t.i++
		if t.spanWhite() == ')' {
			empty = true
		}
	}

	if !empty {
		for len(exp.actuals) < maxArgs {
			actual, ok := a.parseActual(t)
			exp.actuals = append(exp.actuals, actual)
			if !ok || t.peek() != ',' {
				break
			}
			t.i++
		}
		if parenthesis {
			if t.peek() != ')' {
				a.flag(flagSyntax)
			}
			t.i++
		}
		if !isEOL(t.spanWhite()) {
			a.flag(flagSyntax)
		}
	}

	a.generatedActuals(exp)

	if a.pass == 2 {
		a.list(nil, nil, nil, true)
	}

	exp.prev = a.expansion
	a.expansion = exp
}
