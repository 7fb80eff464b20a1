package cea608

import (
	"io"
	"log/slog"
	"math/bits"
)

// withParity sets the high bit where needed to give b odd parity.
func withParity(b byte) byte {
	b &= 0x7F
	if bits.OnesCount8(b)%2 == 0 {
		return b | 0x80
	}
	return b
}

// f1 builds a frame carrying b0, b1 on field 1 and null padding on field 2.
func f1(b0, b1 byte) [4]byte {
	return [4]byte{withParity(b0), withParity(b1), 0x80, 0x80}
}

// f2 builds a frame carrying b0, b1 on field 2 and null padding on field 1.
func f2(b0, b1 byte) [4]byte {
	return [4]byte{0x80, 0x80, withParity(b0), withParity(b1)}
}

// chars splits s into field-1 character frames, padding an odd tail with a
// null.
func chars(s string) [][4]byte {
	var out [][4]byte
	for i := 0; i < len(s); i += 2 {
		b1 := byte(0)
		if i+1 < len(s) {
			b1 = s[i+1]
		}
		out = append(out, f1(s[i], b1))
	}
	return out
}

func feed(d *Decoder, frames ...[4]byte) {
	for _, f := range frames {
		d.Input(f)
	}
}

func feedText(d *Decoder, s string) {
	feed(d, chars(s)...)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestDecoder(opts ...Option) *Decoder {
	return New(append([]Option{WithLogger(quietLogger())}, opts...)...)
}
