// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package tape writes the PDP-8 BIN loader paper tape format.
package tape

import (
	"io"
)

const leaderFrames = 32

// Punch frames 12 bit words onto a byte stream in the BIN loader
// format: leader/trailer frames of 0200, field settings, origin
// frames when the load address is not sequential, and data words as
// pairs of 6 bit bytes, closed by a checksum word.
type Punch struct {
	Output io.Writer

	checksum uint16
	lastAddr uint16
	err      error
}

// New returns a Punch writing to output.
func New(output io.Writer) (p *Punch) {
	p = &Punch{Output: output}
	p.Reset()
	return
}

// Reset clears the checksum and the sequential-address tracking.
// The next Word always emits an origin frame.
func (p *Punch) Reset() {
	p.checksum = 0
	p.lastAddr = 0o10000
}

// Leader punches a block of leader/trailer frames.
func (p *Punch) Leader() {
	for i := 0; i < leaderFrames; i++ {
		p.put(0o200)
	}
}

// Field punches a field setting frame.
func (p *Punch) Field(field uint16) {
	p.put(0o300 | byte(field&7)<<3)
}

// Word punches one data word, preceded by an origin frame when addr
// does not follow the previous word. Only the data words enter the
// checksum; leader, field and origin frames are all framing.
func (p *Punch) Word(addr, code uint16) {
	if addr != p.lastAddr+1 {
		p.put(0o100 | byte(addr>>6)&0o77)
		p.put(byte(addr) & 0o77)
	}
	p.lastAddr = addr

	p.checksum = (p.checksum + code) & 0o7777
	p.put(byte(code>>6) & 0o77)
	p.put(byte(code) & 0o77)
}

// Checksum punches the closing checksum word and the trailer. The
// word is the two's complement of the running sum of the data words,
// so a loader summing every word on the tape, this one included,
// ends at zero.
func (p *Punch) Checksum() {
	sum := (-p.checksum) & 0o7777
	p.put(byte(sum>>6) & 0o77)
	p.put(byte(sum) & 0o77)
	p.Leader()
}

// Err reports the first write error, if any.
func (p *Punch) Err() (err error) {
	return p.err
}

// put writes a single frame, recording the first write error.
func (p *Punch) put(frame byte) {
	if p.err == nil {
		_, p.err = p.Output.Write([]byte{frame})
	}
}
