// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package asm

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// decodeTape reads a BIN format tape image back into a memory map
// keyed by field<<12 | address. The trailing checksum word is not
// part of the program and is dropped.
func decodeTape(data []byte) (words map[int]uint16) {
	words = map[int]uint16{}
	field, addr, lastKey := 0, -1, -1

	for i := 0; i < len(data); {
		b := data[i]
		switch {
		case b == 0o200:
			i++
		case b&0o300 == 0o300:
			field = int(b>>3) & 7
			i++
		case b&0o300 == 0o100:
			addr = int(b&0o77)<<6 | int(data[i+1]&0o77)
			addr--
			i += 2
		default:
			addr++
			lastKey = field<<12 | addr
			words[lastKey] = uint16(b&0o77)<<6 | uint16(data[i+1]&0o77)
			i += 2
		}
	}

	if lastKey >= 0 {
		delete(words, lastKey)
	}
	return
}

func runSource(t *testing.T, source string) (words map[int]uint16, errs int, list string) {
	var listBuf, binBuf bytes.Buffer
	a := &Assembler{Errlog: io.Discard, SourceFile: "test.plx"}
	errs, err := a.Assemble(strings.NewReader(source), &listBuf, &binBuf)
	assert.NoError(t, err)
	return decodeTape(binBuf.Bytes()), errs, listBuf.String()
}

func TestSimpleProgram(t *testing.T) {
	assert := assert.New(t)

	words, errs, list := runSource(t, `
START:	CLA
	TAD	[123]
	TAD	[123]
	JMP	START
	.END
`)
	assert.Equal(0, errs)
	assert.Equal(map[int]uint16{
		0o0200: 0o7200,
		0o0201: 0o1377, // both literals share one pool word
		0o0202: 0o1377,
		0o0203: 0o5200,
		0o0377: 0o0123,
	}, words)
	assert.Contains(list, "No errors detected")
}

func TestExpressions(t *testing.T) {
	assert := assert.New(t)

	// No operator precedence: strictly left to right, modulo 4096.
	words, errs, _ := runSource(t, `
	.DATA	2+3*4, 10-4*2, -1, ~0, 2000+2000*2
`)
	assert.Equal(0, errs)
	assert.Equal(map[int]uint16{
		0o0200: 0o24, // (2+3)*4 = 20.
		0o0201: 0o10, // octal 10; (8-4)*2 = 8.
		0o0202: 0o7777,
		0o0203: 0o7777,
		0o0204: 0o0000, // 4000*2 wraps
	}, words)
}

func TestNumbers(t *testing.T) {
	assert := assert.New(t)

	words, errs, _ := runSource(t, `
	.DATA	10, 10., 10D, 777B, 89
`)
	assert.Equal(0, errs)
	assert.Equal(map[int]uint16{
		0o0200: 0o10,
		0o0201: 0o12,
		0o0202: 0o12,
		0o0203: 0o777,
		0o0204: 0o131, // 89 decimal
	}, words)
}

func TestEquates(t *testing.T) {
	assert := assert.New(t)

	words, errs, _ := runSource(t, `
FIVE=2+3
TEN=FIVE+FIVE
	.DATA	FIVE, TEN
`)
	assert.Equal(0, errs)
	assert.Equal(map[int]uint16{
		0o0200: 0o5,
		0o0201: 0o12,
	}, words)
}

func TestEquateForwardReference(t *testing.T) {
	assert := assert.New(t)

	// A keeps its pass 1 value (zero, B was still undefined), so the
	// block consumes the same number of words on both passes and the
	// code after it stays in phase.
	words, errs, _ := runSource(t, `
A=B
B=3
	.BLOCK	A
X:	CLA
	JMP	X
`)
	assert.Equal(0, errs)
	assert.Equal(map[int]uint16{
		0o0200: 0o7200,
		0o0201: 0o5200,
	}, words)
}

func TestCurrentPageAddressing(t *testing.T) {
	assert := assert.New(t)

	words, errs, _ := runSource(t, `
	.ORG	210
HERE:	JMP	HERE
	JMP	@HERE
`)
	assert.Equal(0, errs)
	assert.Equal(map[int]uint16{
		0o0210: 0o5210,
		0o0211: 0o5610,
	}, words)
}

func TestOffPageReference(t *testing.T) {
	assert := assert.New(t)

	words, errs, list := runSource(t, `
	JMP	600
`)
	assert.Equal(1, errs)
	assert.Equal(uint16(0o5000), words[0o0200])
	assert.Contains(list, "W")
}

func TestUndefinedSymbol(t *testing.T) {
	assert := assert.New(t)

	_, errs, list := runSource(t, `
	JMP	NOWHERE
`)
	assert.Equal(1, errs)
	assert.Contains(list, "-UDF-")
}

func TestMicroOps(t *testing.T) {
	assert := assert.New(t)

	words, errs, _ := runSource(t, `
	CLA CLL CML
	CLA IAC
	CLA SZA
`)
	assert.Equal(0, errs)
	assert.Equal(map[int]uint16{
		0o0200: 0o7320,
		0o0201: 0o7201,
		0o0202: 0o7640, // CLA combines with any group
	}, words)
}

func TestMicroOpGroupClash(t *testing.T) {
	assert := assert.New(t)

	_, errs, _ := runSource(t, `
	IAC SKP
`)
	assert.Equal(1, errs)
}

func TestChangeField(t *testing.T) {
	assert := assert.New(t)

	words, errs, _ := runSource(t, `
	CDF	1
	CIF	2
	.FIELD	1
	CLA
`)
	assert.Equal(0, errs)
	assert.Equal(map[int]uint16{
		0o00200: 0o6211,
		0o00201: 0o6222,
		0o10200: 0o7200,
	}, words)
}

func TestLiteralsDumpOnPageChange(t *testing.T) {
	assert := assert.New(t)

	words, errs, _ := runSource(t, `
	TAD	[1234]
	.PAGE
	TAD	[4321]
`)
	assert.Equal(0, errs)
	assert.Equal(map[int]uint16{
		0o0200: 0o1377,
		0o0377: 0o1234,
		0o0400: 0o1377,
		0o0577: 0o4321,
	}, words)
}

func TestMacroExpansion(t *testing.T) {
	assert := assert.New(t)

	words, errs, _ := runSource(t, `
	.DEFINE	LOAD (WHAT) <
	CLA
	TAD	[$WHAT]
>
	LOAD	(55)
	LOAD	(66)
`)
	assert.Equal(0, errs)
	assert.Equal(map[int]uint16{
		0o0200: 0o7200,
		0o0201: 0o1377,
		0o0202: 0o7200,
		0o0203: 0o1376,
		0o0376: 0o66,
		0o0377: 0o55,
	}, words)
}

func TestMacroGeneratedLabels(t *testing.T) {
	assert := assert.New(t)

	words, errs, list := runSource(t, `
	.DEFINE	SPIN ($L) <
$L:	JMP	$L
>
	SPIN
	SPIN
`)
	assert.Equal(0, errs)
	assert.Equal(map[int]uint16{
		0o0200: 0o5200,
		0o0201: 0o5201,
	}, words)

	// Each expansion gets its own generated label.
	assert.Contains(list, "$00001")
	assert.Contains(list, "$00002")
}

func TestConditionals(t *testing.T) {
	assert := assert.New(t)

	words, errs, _ := runSource(t, `
FOO=1
	.IFDEF	FOO < .DATA 11 >
	.IFNDEF	FOO < .DATA 22 >
	.IFEQ	FOO-1 < .DATA 33 >
	.IFGT	-2 < .DATA 44 >
	.IFLE	-2 < .DATA 55 >
`)
	assert.Equal(0, errs)
	assert.Equal(map[int]uint16{
		0o0200: 0o11,
		0o0201: 0o33,
		0o0202: 0o55,
	}, words)
}

func TestNestedConditionals(t *testing.T) {
	assert := assert.New(t)

	// Conditional blocks recurse back through the statement
	// assembler and the pseudo-op dispatch.
	words, errs, _ := runSource(t, `
FOO=1
	.IFDEF	FOO < .IFEQ FOO-1 < .DATA 77 > >
	.IFNDEF	FOO < .IFEQ FOO-1 < .DATA 66 > >
`)
	assert.Equal(0, errs)
	assert.Equal(map[int]uint16{
		0o0200: 0o77,
	}, words)
}

func TestAsciz(t *testing.T) {
	assert := assert.New(t)

	words, errs, _ := runSource(t, `
	.ASCIZ	/AB/
`)
	assert.Equal(0, errs)
	assert.Equal(map[int]uint16{
		0o0200: 0o101,
		0o0201: 0o102,
		0o0202: 0,
	}, words)
}

func TestAscizMarkParity(t *testing.T) {
	assert := assert.New(t)

	words, errs, _ := runSource(t, `
	.ENABLE	ASR
	.ASCIZ	/AB/
`)
	assert.Equal(0, errs)
	assert.Equal(uint16(0o301), words[0o0200])
	assert.Equal(uint16(0o302), words[0o0201])
}

func TestText(t *testing.T) {
	assert := assert.New(t)

	// Three characters pack into two words, OS/8 style, with a full
	// zero word terminating the string.
	words, errs, _ := runSource(t, `
	.TEXT	/ABC/
`)
	assert.Equal(0, errs)
	assert.Equal(map[int]uint16{
		0o0200: 0o2101,
		0o0201: 0o1502,
		0o0202: 0,
	}, words)
}

func TestSixbit(t *testing.T) {
	assert := assert.New(t)

	// DECsystem-10 coding subtracts 040.
	words, errs, _ := runSource(t, `
	.SIXBIT	/AB/
`)
	assert.Equal(0, errs)
	assert.Equal(uint16(0o4142), words[0o0200])

	// OS/8 coding just masks to six bits.
	words, errs, _ = runSource(t, `
	.ENABLE	OS8
	.SIXBIT	/AB/
`)
	assert.Equal(0, errs)
	assert.Equal(uint16(0o0102), words[0o0200])
}

func TestBlock(t *testing.T) {
	assert := assert.New(t)

	words, errs, _ := runSource(t, `
	.BLOCK	3
	CLA
`)
	assert.Equal(0, errs)
	assert.Equal(map[int]uint16{
		0o0203: 0o7200,
	}, words)
}

func TestNload(t *testing.T) {
	assert := assert.New(t)

	words, errs, _ := runSource(t, `
	.NLOAD	3777
	.NLOAD	0
	.NLOAD	7777
`)
	assert.Equal(0, errs)
	assert.Equal(map[int]uint16{
		0o0200: 0o7350,
		0o0201: 0o7200,
		0o0202: 0o7240,
	}, words)
}

func TestVector(t *testing.T) {
	assert := assert.New(t)

	words, errs, _ := runSource(t, `
	.IM6100
START:	CLA
	JMP	START
	.ORG	7600
	.VECTOR	START
`)
	assert.Equal(0, errs)
	assert.Equal(uint16(0o5776), words[0o7777])
	assert.Equal(uint16(0o0200), words[0o7776])
}

func TestDuplicateLoad(t *testing.T) {
	assert := assert.New(t)

	_, errs, _ := runSource(t, `
	CLA
	.ORG	200
	CLA
`)
	assert.Equal(1, errs)
}

func TestUserMri(t *testing.T) {
	assert := assert.New(t)

	words, errs, _ := runSource(t, `
	.MRI	LDA=1000
HERE:	LDA	HERE
`)
	assert.Equal(0, errs)
	assert.Equal(uint16(0o1200), words[0o0200])
}

func TestChecksumClosure(t *testing.T) {
	assert := assert.New(t)

	var binBuf bytes.Buffer
	a := &Assembler{Errlog: io.Discard}
	errs, err := a.Assemble(strings.NewReader(`
	CLA
	TAD	[1234]
	JMP	200
`), nil, &binBuf)
	assert.NoError(err)
	assert.Equal(0, errs)

	// Sum the 12 bit data words, skipping the framing; the closing
	// checksum word brings the total to zero.
	data := binBuf.Bytes()
	sum := 0
	for i := 0; i < len(data); {
		b := data[i]
		switch {
		case b == 0o200 || b&0o300 == 0o300:
			i++
		case b&0o300 == 0o100:
			i += 2
		default:
			sum += int(b&0o77)<<6 | int(data[i+1]&0o77)
			i += 2
		}
	}
	assert.Equal(0, sum&0o7777)
}

func TestProgramBreak(t *testing.T) {
	assert := assert.New(t)

	_, _, list := runSource(t, `
	CLA
	CLA
`)
	assert.Contains(list, "Program break is 00202")
}

func TestNoWarn(t *testing.T) {
	assert := assert.New(t)

	// Suppressing the duplicate-load letter hides the error.
	_, errs, _ := runSource(t, `
	.NOWARN	D
	CLA
	.ORG	200
	CLA
`)
	assert.Equal(0, errs)
}

func TestDotError(t *testing.T) {
	assert := assert.New(t)

	_, errs, _ := runSource(t, `
	.IFNDEF	MISSING < .ERROR >
`)
	assert.Equal(1, errs)
}
