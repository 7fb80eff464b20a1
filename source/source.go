// Package source produces the four-byte line-21 frames that a
// [cea608.Decoder] consumes, either from a raw dump (one frame per four
// bytes) or from the A/53 caption data carried in H.264/H.265 SEI messages.
//
// Each frame holds the field 1 byte pair followed by the field 2 byte pair,
// both still parity-protected.
package source

import (
	"errors"
	"fmt"
	"io"
	"math/bits"
	"os"
)

// Sentinel errors for frame sources.
var (
	ErrShortFrame    = errors.New("source: short frame")
	ErrUnknownFormat = errors.New("source: unknown input format")
)

// FrameSource yields line-21 frames in order. Next returns io.EOF after the
// last frame.
type FrameSource interface {
	Next() ([4]byte, error)
}

// Input formats accepted by Open.
const (
	FormatRaw  = "raw"
	FormatH264 = "h264"
	FormatH265 = "h265"
)

// Open opens path as a frame source of the given format. The returned
// closer releases the file and must be called when done.
func Open(path, format string) (FrameSource, io.Closer, error) {
	switch format {
	case FormatRaw:
		f, err := os.Open(path)
		if err != nil {
			return nil, nil, fmt.Errorf("open %s: %w", path, err)
		}
		return NewRawReader(f), f, nil
	case FormatH264, FormatH265:
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, nil, fmt.Errorf("read %s: %w", path, err)
		}
		if format == FormatH265 {
			return NewHEVCSEIReader(data), nopCloser{}, nil
		}
		return NewSEIReader(data), nopCloser{}, nil
	}
	return nil, nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Null is the parity-valid padding pair (0x00 0x00 with the parity bit).
const Null byte = 0x80

// WithParity returns b's low seven bits with the high bit set as needed for
// odd parity.
func WithParity(b byte) byte {
	b &= 0x7F
	if bits.OnesCount8(b)%2 == 0 {
		return b | 0x80
	}
	return b
}

// Interleave combines the field 1 pairs of field1 with the field 2 pairs of
// field2, frame by frame. The shorter input is padded with null pairs.
func Interleave(field1, field2 [][4]byte) [][4]byte {
	n := len(field1)
	if len(field2) > n {
		n = len(field2)
	}
	out := make([][4]byte, n)
	for i := range out {
		out[i] = [4]byte{Null, Null, Null, Null}
		if i < len(field1) {
			out[i][0], out[i][1] = field1[i][0], field1[i][1]
		}
		if i < len(field2) {
			out[i][2], out[i][3] = field2[i][2], field2[i][3]
		}
	}
	return out
}
