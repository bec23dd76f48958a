package asm

import (
	"fmt"
	"strings"
)

// bitmap tracks every word loaded across all eight fields, for
// duplicate-load detection and the memory map report.
type bitmap [8 * 4096 / 8]byte

func (bm *bitmap) clear() {
	*bm = bitmap{}
}

// mark sets the bit for one word and reports whether it was already
// set.
func (bm *bitmap) mark(field, addr uint16) (dup bool) {
	index := (int(field&7)<<12 | int(addr&0o7777)) >> 3
	mask := byte(1) << (addr & 7)

	dup = bm[index]&mask != 0
	bm[index] |= mask
	return
}

// emptyFrom counts unused words starting at the given absolute word
// address, in whole-byte granularity.
func (bm *bitmap) emptyFrom(start int) (count int) {
	for index := start >> 3; index < len(bm) && bm[index] == 0; index++ {
		count += 8
	}
	return
}

// row formats 64 words of the map as one report line, low addresses
// first within each byte.
func (bm *bitmap) row(start int) (line string) {
	var b strings.Builder
	fmt.Fprintf(&b, "%05o/", start)
	for index := start >> 3; index < start>>3+8; index++ {
		b.WriteByte(' ')
		bits := bm[index]
		for bit := 0; bit < 8; bit++ {
			b.WriteByte('0' + bits&1)
			bits >>= 1
		}
	}
	return b.String()
}
