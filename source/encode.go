package source

import (
	"io"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/zsiec/line21/cea608"
)

// pacCodes gives the PAC byte pair addressing each row at column 0 in white.
var pacCodes = [cea608.Rows][2]byte{
	{0x11, 0x40}, {0x11, 0x60}, {0x12, 0x40}, {0x12, 0x60}, {0x15, 0x40},
	{0x15, 0x60}, {0x16, 0x40}, {0x16, 0x60}, {0x17, 0x40}, {0x17, 0x60},
	{0x10, 0x40}, {0x13, 0x40}, {0x13, 0x60}, {0x14, 0x40}, {0x14, 0x60},
}

// Encoder builds line-21 frames for one channel, following broadcast
// practice: every control code is sent twice on consecutive frames, and
// text goes two characters per frame. The other field carries null pairs.
type Encoder struct {
	ch     cea608.Channel
	frames [][4]byte
}

// NewEncoder returns an Encoder for ch.
func NewEncoder(ch cea608.Channel) *Encoder {
	return &Encoder{ch: ch}
}

func (e *Encoder) emit(b0, b1 byte) {
	f := [4]byte{Null, Null, Null, Null}
	i := 0
	if e.ch.Field() == 2 {
		i = 2
	}
	f[i], f[i+1] = WithParity(b0), WithParity(b1)
	e.frames = append(e.frames, f)
}

// Control sends the control pair b0 b1 twice, with the sub-channel bit set
// for CC2, CC4, TEXT2 and TEXT4.
func (e *Encoder) Control(b0, b1 byte) {
	if e.ch&0x01 != 0 {
		b0 |= 0x08
	}
	e.emit(b0, b1)
	e.emit(b0, b1)
}

// Command sends a miscellaneous control command. Field 2 channels use the
// 0x15 form.
func (e *Encoder) Command(c cea608.Command) {
	b0 := byte(0x14)
	if e.ch.Field() == 2 {
		b0 = 0x15
	}
	e.Control(b0, byte(c))
}

// PAC moves the cursor to row with an indent, rounded down to a multiple of
// four columns, in white.
func (e *Encoder) PAC(row, indent int) {
	if row < 0 {
		row = 0
	}
	if row >= cea608.Rows {
		row = cea608.Rows - 1
	}
	code := pacCodes[row]
	if indent >= 4 {
		if indent > 28 {
			indent = 28
		}
		code[1] |= 0x10 | byte(indent/4)<<1
	}
	e.Control(code[0], code[1])
}

// Text sends s two characters per frame. Characters in the special and
// extended sets go out as control pairs; an extended character follows a
// basic-set approximation that it replaces on capable decoders. Anything
// else is reduced to its base letter where possible, or sent as '?'.
func (e *Encoder) Text(s string) {
	var pending []byte
	flush := func() {
		for i := 0; i < len(pending); i += 2 {
			if i+1 < len(pending) {
				e.emit(pending[i], pending[i+1])
			} else {
				e.emit(pending[i], 0)
			}
		}
		pending = pending[:0]
	}

	for _, r := range normalize(s) {
		class, code := cea608.Lookup(r)
		switch class {
		case cea608.CharBasic:
			pending = append(pending, code[0])
		case cea608.CharSpecial:
			flush()
			e.Control(code[0], code[1])
		case cea608.CharExtended:
			pending = append(pending, fallback(r))
			flush()
			e.Control(code[0], code[1])
		}
	}
	flush()
}

// Pad sends n frames of null pairs.
func (e *Encoder) Pad(n int) {
	for i := 0; i < n; i++ {
		e.frames = append(e.frames, [4]byte{Null, Null, Null, Null})
	}
}

// PopOn composes lines off screen on the bottom rows and reveals them with
// end of caption.
func (e *Encoder) PopOn(lines ...string) {
	if len(lines) > 4 {
		lines = lines[:4]
	}
	e.Command(cea608.CmdRCL)
	e.Command(cea608.CmdENM)
	for i, line := range lines {
		e.PAC(cea608.Rows-len(lines)+i, 0)
		e.Text(line)
	}
	e.Command(cea608.CmdEOC)
}

// RollUp adds line at the bottom of a roll-up window of rows rows (2-4).
func (e *Encoder) RollUp(rows int, line string) {
	cmd := cea608.CmdRU2
	switch rows {
	case 3:
		cmd = cea608.CmdRU3
	case 4:
		cmd = cea608.CmdRU4
	}
	e.Command(cmd)
	e.Command(cea608.CmdCR)
	e.PAC(cea608.Rows-1, 0)
	e.Text(line)
}

// Clear erases displayed memory.
func (e *Encoder) Clear() {
	e.Command(cea608.CmdEDM)
}

// Len returns the number of frames built so far.
func (e *Encoder) Len() int { return len(e.frames) }

// Frames returns the frames built so far.
func (e *Encoder) Frames() [][4]byte {
	return e.frames
}

// Reader returns a FrameSource over the frames built so far.
func (e *Encoder) Reader() FrameSource {
	return &sliceSource{frames: e.frames}
}

// WriteTo writes the frames in the raw format read by RawReader.
func (e *Encoder) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for _, f := range e.frames {
		n, err := w.Write(f[:])
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

type sliceSource struct {
	frames [][4]byte
	pos    int
}

func (s *sliceSource) Next() ([4]byte, error) {
	if s.pos >= len(s.frames) {
		return [4]byte{}, io.EOF
	}
	f := s.frames[s.pos]
	s.pos++
	return f, nil
}

// normalize maps s onto runes the character sets can carry, one per
// screen column, and truncates it to a row.
func normalize(s string) []rune {
	var out []rune
	for _, r := range strings.ReplaceAll(s, "\n", " ") {
		if class, _ := cea608.Lookup(r); class == cea608.CharUnsupported {
			r = baseLetter(r, '?')
		}
		out = append(out, r)
	}
	if len(out) > cea608.Columns {
		out = out[:cea608.Columns]
	}
	return out
}

// fallback returns the basic-set byte that approximates r.
func fallback(r rune) byte {
	_, code := cea608.Lookup(baseLetter(r, ' '))
	if code[0] == 0 {
		return ' '
	}
	return code[0]
}

// baseLetter strips diacritics from r, returning def if what remains is
// not a basic-set character.
func baseLetter(r, def rune) rune {
	d := []rune(norm.NFD.String(string(r)))
	if class, _ := cea608.Lookup(d[0]); class == cea608.CharBasic {
		return d[0]
	}
	return def
}
