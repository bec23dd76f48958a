// Package listing paginates assembler listing output.
package listing

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// Writer emits listing lines with page headers. Each page opens with
// a banner line (Title, date, time, page number) and a second line
// carrying the running Heading and the Source file name.
type Writer struct {
	Output   io.Writer
	Columns  int
	Rows     int
	Title    string
	Heading  string
	Source   string
	Paginate bool

	pages int
	lines int
	eject bool
}

// Eject forces a page break before the next line.
func (lw *Writer) Eject() {
	lw.eject = true
}

// Pages returns the number of pages started so far.
func (lw *Writer) Pages() (pages int) {
	return lw.pages
}

// Page returns the page number the next line will print on.
func (lw *Writer) Page() (page int) {
	if lw.eject || lw.pages == 0 {
		return lw.pages + 1
	}
	return lw.pages
}

// Line writes one listing line, starting a new page when the current
// one is full or an eject is pending.
func (lw *Writer) Line(s string) {
	lw.lines++
	if lw.lines > lw.Rows || lw.eject {
		lw.NewPage()
	}
	fmt.Fprintln(lw.Output, s)
}

// Need reserves n lines, starting a new page unless they fit.
func (lw *Writer) Need(n int) {
	lw.lines += n
	if lw.lines > lw.Rows {
		lw.NewPage()
	}
}

// Print writes a line without advancing the pagination counter;
// callers account for the space with Need.
func (lw *Writer) Print(s string) {
	fmt.Fprintln(lw.Output, s)
}

// NewPage starts a new page immediately. Does nothing when
// pagination is disabled.
func (lw *Writer) NewPage() {
	if !lw.Paginate {
		return
	}

	if lw.pages > 0 {
		fmt.Fprint(lw.Output, "\f")
	}
	lw.pages++

	fmt.Fprintf(lw.Output, "%s %s %8s    Page %3d\n",
		lw.Title, Pad(Date(), -(lw.Columns-68)), Time(), lw.pages)

	half := lw.Columns / 2
	fmt.Fprintf(lw.Output, "%s%s\n", Pad(lw.Heading, half), Pad(lw.Source, -half))
	fmt.Fprintln(lw.Output)

	lw.lines = 3
	lw.eject = false
}

// Pad fits s into a field of the given width. A positive width left
// justifies and truncates on the right; a negative width right
// justifies and truncates on the left.
func Pad(s string, width int) (padded string) {
	right := width < 0
	if right {
		width = -width
	}

	if len(s) > width {
		if right {
			return s[len(s)-width:]
		}
		return s[:width]
	}

	fill := strings.Repeat(" ", width-len(s))
	if right {
		return fill + s
	}
	return s + fill
}

// Date returns the current date as DD-MMM-YY with an upper case
// month, the way DEC listings show it.
func Date() (date string) {
	return strings.ToUpper(time.Now().Format("02-Jan-06"))
}

// Time returns the current time as HH:MM:SS.
func Time() (now string) {
	return time.Now().Format("15:04:05")
}
