package printer

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	ESC = 0x1B
	GS  = 0x1D
	LF  = 0x0A
)

const (
	AlignLeft   = 0
	AlignCenter = 1
	AlignRight  = 2
)

const (
	FontNormal = 0x00
	FontDouble = 0x11 // double width and height
	FontWide   = 0x10
	FontTall   = 0x01
)

// Paper widths in characters for the normal font.
const (
	Width58mm = 32
	Width80mm = 48
)

// Document builds an ESC/POS byte stream. Column math counts runes so that
// names outside ASCII still line up.
type Document struct {
	buf   bytes.Buffer
	width int
}

// NewDocument starts a document for the given character width.
func NewDocument(charWidth int) *Document {
	if charWidth <= 0 {
		charWidth = Width58mm
	}
	d := &Document{width: charWidth}
	d.buf.Write([]byte{ESC, '@'})
	return d
}

// Width returns the line width in characters.
func (d *Document) Width() int { return d.width }

func (d *Document) FeedLines(n int) *Document {
	for i := 0; i < n; i++ {
		d.buf.WriteByte(LF)
	}
	return d
}

func (d *Document) SetAlign(align int) *Document {
	d.buf.Write([]byte{ESC, 'a', byte(align)})
	return d
}

func (d *Document) SetBold(on bool) *Document {
	b := byte(0)
	if on {
		b = 1
	}
	d.buf.Write([]byte{ESC, 'E', b})
	return d
}

func (d *Document) SetFontSize(size byte) *Document {
	d.buf.Write([]byte{GS, '!', size})
	return d
}

// Text writes s, wrapping at the document width.
func (d *Document) Text(s string) *Document {
	for _, line := range wrap(s, d.width) {
		d.buf.WriteString(line)
		d.buf.WriteByte(LF)
	}
	return d
}

func (d *Document) TextF(format string, args ...interface{}) *Document {
	return d.Text(fmt.Sprintf(format, args...))
}

// Heading prints a centered bold line and restores left alignment.
func (d *Document) Heading(s string, size byte) *Document {
	d.SetAlign(AlignCenter).SetBold(true).SetFontSize(size)
	d.Text(s)
	return d.SetFontSize(FontNormal).SetBold(false).SetAlign(AlignLeft)
}

func (d *Document) Separator(char byte) *Document {
	d.buf.WriteString(strings.Repeat(string(char), d.width))
	d.buf.WriteByte(LF)
	return d
}

// KeyValue prints key on the left and value flush right. A key too long to
// share the line with value wraps onto the lines above it.
func (d *Document) KeyValue(key, value string) *Document {
	valueLen := utf8.RuneCountInString(value)
	room := d.width - valueLen - 1
	if room < 1 {
		d.Text(key)
		return d.SetAlign(AlignRight).Text(value).SetAlign(AlignLeft)
	}
	lines := wrap(key, room)
	for _, l := range lines[:len(lines)-1] {
		d.buf.WriteString(l)
		d.buf.WriteByte(LF)
	}
	last := lines[len(lines)-1]
	d.buf.WriteString(last)
	d.buf.WriteString(strings.Repeat(" ", d.width-utf8.RuneCountInString(last)-valueLen))
	d.buf.WriteString(value)
	d.buf.WriteByte(LF)
	return d
}

func (d *Document) Cut() *Document {
	d.buf.Write([]byte{GS, 'V', 0x00})
	return d
}

func (d *Document) PartialCut() *Document {
	d.buf.Write([]byte{GS, 'V', 0x01})
	return d
}

func (d *Document) Bytes() []byte {
	return d.buf.Bytes()
}

// wrap breaks s into lines of at most width runes, preferring word boundaries.
func wrap(s string, width int) []string {
	if width <= 0 || utf8.RuneCountInString(s) <= width {
		return []string{s}
	}
	var lines []string
	var cur []rune
	for _, word := range strings.Fields(s) {
		w := []rune(word)
		for len(w) > width {
			if len(cur) > 0 {
				lines = append(lines, string(cur))
				cur = nil
			}
			lines = append(lines, string(w[:width]))
			w = w[width:]
		}
		switch {
		case len(cur) == 0:
			cur = w
		case len(cur)+1+len(w) <= width:
			cur = append(append(cur, ' '), w...)
		default:
			lines = append(lines, string(cur))
			cur = w
		}
	}
	if len(cur) > 0 || len(lines) == 0 {
		lines = append(lines, string(cur))
	}
	return lines
}
