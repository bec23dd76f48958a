// Package asm assembles PDP-8 family source for the Intersil IM6100
// and Harris HD6120 microprocessors.
//
// The assembler makes two passes over the source. Pass 1 collects
// symbol definitions and tracks word counts; pass 2 re-reads the same
// lines, resolves every expression, punches the binary in the BIN
// loader format, and writes the listing. A construct must therefore
// occupy the same number of words on both passes.
//
// Expressions evaluate strictly left to right, modulo 4096, with no
// operator precedence. Numbers default to octal; a B suffix forces
// octal, a D or . suffix (or a digit 8 or 9) forces decimal.
package asm
