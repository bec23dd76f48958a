package asm

import (
	"errors"

	"github.com/ezrec/palx/translate"
)

var f = translate.From

var (
	ErrSymbolTableFull  = errors.New(f("symbol table full"))
	ErrBodyTooLong      = errors.New(f("macro body too long"))
	ErrExpansionTooLong = errors.New(f("macro expansion too long"))
	ErrBlockEOF         = errors.New(f("end of file inside a text block"))
)

// Error letters shown next to an offending listing line.
const (
	flagRange     = 'A' // value out of range
	flagMacro     = 'C' // macro argument too long
	flagDuplicate = 'D' // memory location loaded twice
	flagError     = 'E' // programmed error
	flagOffField  = 'F' // off-field symbol reference
	flagListOpt   = 'L' // unknown listing option
	flagMultiple  = 'M' // multiply defined symbol
	flagNumber    = 'N' // malformed number
	flagMicro     = 'O' // incompatible micro-op combination
	flagPageFull  = 'P' // current page is full
	flagSymbol    = 'S' // symbol misuse
	flagText      = 'T' // character will not pack
	flagUndefined = 'U' // undefined symbol
	flagOffPage   = 'W' // off-page address
	flagSyntax    = 'X' // syntax error
	flagPseudo    = 'Z' // unknown or misused pseudo-op
)

// fatalError carries an unrecoverable condition up to Assemble.
type fatalError struct {
	err error
}

// ErrLine is a fatal assembly error tagged with the source line where
// it occurred.
type ErrLine struct {
	LineNo int
	Err    error
}

func (el *ErrLine) Error() string {
	return f("line %d: %v", el.LineNo, el.Err)
}

func (el *ErrLine) Unwrap() error {
	return el.Err
}
