package listing

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPad(t *testing.T) {
	assert := assert.New(t)

	table := []struct {
		In    string
		Width int
		Out   string
	}{
		{"AB", 5, "AB   "},
		{"AB", -5, "   AB"},
		{"ABCDEF", 4, "ABCD"},
		{"ABCDEF", -4, "CDEF"},
		{"", 3, "   "},
		{"AB", 2, "AB"},
	}
	for _, testcase := range table {
		assert.Equal(testcase.Out, Pad(testcase.In, testcase.Width), "%+v", testcase)
	}
}

func TestPagination(t *testing.T) {
	assert := assert.New(t)

	var buf bytes.Buffer
	lw := &Writer{
		Output:   &buf,
		Columns:  80,
		Rows:     6,
		Paginate: true,
		Title:    "TITLE",
		Source:   "SOURCE",
	}

	assert.Equal(1, lw.Page())
	lw.Eject()
	for i := 0; i < 7; i++ {
		lw.Line("line")
	}
	assert.Equal(2, lw.Pages())

	out := buf.String()
	assert.Equal(1, strings.Count(out, "\f"))
	assert.Contains(out, "TITLE")
	assert.Contains(out, "SOURCE")
	assert.Contains(out, "Page   1")
	assert.Contains(out, "Page   2")
}

func TestEject(t *testing.T) {
	assert := assert.New(t)

	var buf bytes.Buffer
	lw := &Writer{Output: &buf, Columns: 80, Rows: 60, Paginate: true}

	lw.Eject()
	lw.Line("one")
	assert.Equal(1, lw.Pages())
	assert.Equal(1, lw.Page())

	lw.Eject()
	assert.Equal(2, lw.Page())
	lw.Line("two")
	assert.Equal(2, lw.Pages())
}

func TestNoPaginate(t *testing.T) {
	assert := assert.New(t)

	var buf bytes.Buffer
	lw := &Writer{Output: &buf, Columns: 80, Rows: 2, Paginate: false}

	for i := 0; i < 10; i++ {
		lw.Line("line")
	}
	assert.Equal(0, lw.Pages())
	assert.NotContains(buf.String(), "\f")
}
