package asm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScanNumber(t *testing.T) {
	assert := assert.New(t)

	table := []struct {
		In    string
		Value uint16
		Ok    bool
	}{
		{"123", 0o123, true},     // octal by default
		{"777B", 0o777, true},    // explicit octal
		{"123.", 123, true},      // trailing dot is decimal
		{"123D", 123, true},      // explicit decimal
		{"123d", 123, true},      // case insensitive
		{"89", 89, true},         // 8 and 9 force decimal
		{"108", 108, true},       // even after octal-looking digits
		{"789B", 0, false},       // decimal digits with an octal suffix
		{"X", 0, false},          // not a number at all
		{"4095.", 4095, true},
	}
	for _, testcase := range table {
		a := &Assembler{}
		tt := newText(testcase.In)
		value, ok := a.scanNumber(&tt)
		assert.Equal(testcase.Ok, ok, "%+v", testcase)
		assert.Equal(testcase.Value, value, "%+v", testcase)
	}
}

func TestScanName(t *testing.T) {
	assert := assert.New(t)

	table := []struct {
		In   string
		Name string
		Ok   bool
	}{
		{"foo", "FOO", true},
		{"  Label12:", "LABEL12", true},
		{"$00001", "$00001", true},
		{"%TEMP_1", "%TEMP_1", true},
		{"VERYLONGSYMBOLNAME", "VERYLONGSYM", true}, // truncates at 11
		{"123", "", false},
		{"", "", false},
	}
	for _, testcase := range table {
		tt := newText(testcase.In)
		name, ok := tt.scanName()
		assert.Equal(testcase.Ok, ok, "%+v", testcase)
		assert.Equal(testcase.Name, name, "%+v", testcase)
	}
}

func TestScanNameConsumesAll(t *testing.T) {
	assert := assert.New(t)

	// Characters past the stored length still come off the input.
	tt := newText("VERYLONGSYMBOLNAME:")
	_, ok := tt.scanName()
	assert.True(ok)
	assert.Equal(byte(':'), tt.peek())
}

func TestArgumentString(t *testing.T) {
	assert := assert.New(t)

	a := &Assembler{}
	tt := newText(" /Hello world!/")
	s, ok := a.getArgumentString(&tt)
	assert.True(ok)
	assert.Equal("Hello world!", s)

	// Any printing character works as the delimiter.
	a = &Assembler{}
	tt = newText(` "quoted" `)
	s, ok = a.getArgumentString(&tt)
	assert.True(ok)
	assert.Equal("quoted", s)

	// Junk after the closing delimiter is a syntax error.
	a = &Assembler{}
	tt = newText(" /text/ junk")
	_, ok = a.getArgumentString(&tt)
	assert.False(ok)
}

func TestExpandEscapes(t *testing.T) {
	assert := assert.New(t)

	a := &Assembler{}
	s, ok := a.expandEscapes(`A\tB\r\n`)
	assert.True(ok)
	assert.Equal("A\tB\r\n", s)

	s, ok = a.expandEscapes(`C:\\DIR`)
	assert.True(ok)
	assert.Equal(`C:\DIR`, s)

	// \d expands to the current date, DD-MMM-YY.
	s, ok = a.expandEscapes(`\d`)
	assert.True(ok)
	assert.Len(s, 9)

	_, ok = a.expandEscapes(`bad\q`)
	assert.False(ok)
}
