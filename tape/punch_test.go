// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package tape

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLeader(t *testing.T) {
	assert := assert.New(t)

	var buf bytes.Buffer
	p := New(&buf)
	p.Leader()

	assert.Equal(32, buf.Len())
	for _, b := range buf.Bytes() {
		assert.Equal(byte(0o200), b)
	}
	assert.NoError(p.Err())
}

func TestWordFrames(t *testing.T) {
	assert := assert.New(t)

	var buf bytes.Buffer
	p := New(&buf)

	// The first word always needs an origin frame.
	p.Word(0o0200, 0o1234)
	assert.Equal([]byte{0o102, 0o00, 0o12, 0o34}, buf.Bytes())

	// A sequential word goes out as a bare data pair.
	buf.Reset()
	p.Word(0o0201, 0o5670)
	assert.Equal([]byte{0o56, 0o70}, buf.Bytes())

	// Skipping ahead needs a new origin frame.
	buf.Reset()
	p.Word(0o0377, 0o0007)
	assert.Equal([]byte{0o103, 0o77, 0o00, 0o07}, buf.Bytes())
}

func TestFieldFrame(t *testing.T) {
	assert := assert.New(t)

	var buf bytes.Buffer
	p := New(&buf)

	p.Field(0)
	p.Field(1)
	p.Field(7)
	assert.Equal([]byte{0o300, 0o310, 0o370}, buf.Bytes())
}

// sumDataWords adds up the 12 bit data words on a tape image,
// skipping the leader, field and origin framing. The checksum word
// at the end counts like any other data word.
func sumDataWords(data []byte) (sum int) {
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
	return
}

// A loader that sums every data word on the tape, checksum word
// included, must end at zero.
func TestChecksumClosure(t *testing.T) {
	assert := assert.New(t)

	var buf bytes.Buffer
	p := New(&buf)

	p.Leader()
	p.Field(1)
	p.Word(0o0200, 0o7200)
	p.Word(0o0201, 0o1377)
	p.Word(0o0377, 0o0123)
	p.Checksum()
	assert.NoError(p.Err())

	assert.Equal(0, sumDataWords(buf.Bytes())&0o7777)
}

func TestReset(t *testing.T) {
	assert := assert.New(t)

	var buf bytes.Buffer
	p := New(&buf)

	p.Word(0o0200, 0o1234)
	p.Reset()

	// After a reset even the same address re-punches its origin.
	buf.Reset()
	p.Word(0o0201, 0o0001)
	assert.Equal([]byte{0o102, 0o01, 0o00, 0o01}, buf.Bytes())
}
