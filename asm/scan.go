package asm

import (
	"github.com/ezrec/palx/listing"
)

// Identifiers longer than maxName scan fully but store truncated.
const (
	maxName = 11
	maxLine = 256
)

// text is a cursor over the current logical line. The line always
// ends with a newline, so end of line checks never run off the end.
type text struct {
	s string
	i int
}

func newText(s string) (t text) {
	if len(s) == 0 || s[len(s)-1] != '\n' {
		s += "\n"
	}
	return text{s: s}
}

func (t *text) peek() (ch byte) {
	if t.i < len(t.s) {
		return t.s[t.i]
	}
	return '\n'
}

func (t *text) next() (ch byte) {
	ch = t.peek()
	if t.i < len(t.s) {
		t.i++
	}
	return
}

func (t *text) rest() (s string) {
	if t.i < len(t.s) {
		return t.s[t.i:]
	}
	return ""
}

// spanWhite skips horizontal white space and returns the next byte.
func (t *text) spanWhite() (ch byte) {
	for isWhite(t.peek()) {
		t.i++
	}
	return t.peek()
}

// scanName scans an identifier, folding it to upper case. Characters
// beyond maxName are consumed but dropped.
func (t *text) scanName() (name string, ok bool) {
	if !isName1(t.spanWhite()) {
		return
	}

	var b []byte
	for isName2(t.peek()) {
		if len(b) < maxName {
			b = append(b, upper(t.peek()))
		}
		t.i++
	}
	return string(b), true
}

// scanNumber scans an unsigned number. Octal and decimal readings
// accumulate in parallel; the suffix (or a non-octal digit) picks one.
func (a *Assembler) scanNumber(t *text) (value uint16, ok bool) {
	t.spanWhite()

	var octal, decimal uint16
	decimalOnly, empty := false, true
	for isDigit(t.peek()) {
		digit := uint16(t.peek() - '0')
		decimal = decimal*10 + digit
		octal = octal<<3 | digit
		if t.peek() > '7' {
			decimalOnly = true
		}
		empty = false
		t.i++
	}
	if empty {
		return 0, a.flag(flagNumber)
	}

	switch {
	case upper(t.peek()) == 'B':
		if decimalOnly {
			return 0, a.flag(flagNumber)
		}
		t.i++
		value = octal
	case upper(t.peek()) == 'D' || t.peek() == '.':
		t.i++
		value = decimal
	case decimalOnly:
		value = decimal
	default:
		value = octal
	}
	return value, true
}

// getArgumentString scans a quoted string argument. Any printing
// character may serve as the quote; the same character closes it.
func (a *Assembler) getArgumentString(t *text) (s string, ok bool) {
	quote := t.spanWhite()
	if isEOL(quote) {
		return "", a.flag(flagSyntax)
	}
	t.i++

	var b []byte
	for t.i < len(t.s) && t.s[t.i] != quote {
		if len(b) >= maxLine-1 {
			return "", a.flag(flagSyntax)
		}
		b = append(b, t.s[t.i])
		t.i++
	}
	if t.i < len(t.s) {
		t.i++
	}

	if !isEOL(t.spanWhite()) {
		return "", a.flag(flagSyntax)
	}
	return string(b), true
}

// expandEscapes rewrites \r \n \t \\ and the \d (date) and \h (time)
// escapes in a string argument.
func (a *Assembler) expandEscapes(s string) (expanded string, ok bool) {
	var b []byte
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' {
			b = append(b, s[i])
			continue
		}
		i++
		if i >= len(s) {
			return string(b), a.flag(flagSyntax)
		}
		switch s[i] {
		case 'r':
			b = append(b, 0o15)
		case 'n':
			b = append(b, 0o12)
		case 't':
			b = append(b, 0o11)
		case 'd':
			b = append(b, listing.Date()...)
		case 'h':
			b = append(b, listing.Time()...)
		case '\\':
			b = append(b, '\\')
		default:
			return string(b), a.flag(flagSyntax)
		}
	}
	return string(b), true
}

// isEOL reports an end of statement: comment, conditional block
// close, or physical end of line.
func isEOL(ch byte) bool {
	return ch == ';' || ch == '>' || ch == '\n'
}

func isWhite(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\r' || ch == '\v' || ch == '\f'
}

func isSpace(ch byte) bool {
	return isWhite(ch) || ch == '\n'
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isAlpha(ch byte) bool {
	return (ch >= 'A' && ch <= 'Z') || (ch >= 'a' && ch <= 'z')
}

func isName1(ch byte) bool {
	return isAlpha(ch) || ch == '%' || ch == '$' || ch == '_'
}

func isName2(ch byte) bool {
	return isName1(ch) || isDigit(ch) || ch == '.'
}

func upper(ch byte) byte {
	if ch >= 'a' && ch <= 'z' {
		return ch - ('a' - 'A')
	}
	return ch
}
