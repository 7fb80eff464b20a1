package source

import (
	"bufio"
	"errors"
	"fmt"
	"io"
)

// RawReader reads consecutive four-byte frames, the layout written by DV
// auxiliary-data extractors and by Encoder.WriteTo.
type RawReader struct {
	r      *bufio.Reader
	offset int64
}

// NewRawReader returns a RawReader reading from r.
func NewRawReader(r io.Reader) *RawReader {
	return &RawReader{r: bufio.NewReader(r)}
}

// Next returns the next frame. A trailing partial frame is reported as
// ErrShortFrame.
func (rr *RawReader) Next() ([4]byte, error) {
	var frame [4]byte
	n, err := io.ReadFull(rr.r, frame[:])
	rr.offset += int64(n)
	switch {
	case err == nil:
		return frame, nil
	case errors.Is(err, io.ErrUnexpectedEOF):
		return frame, fmt.Errorf("%w: %d bytes at offset %d", ErrShortFrame, n, rr.offset-int64(n))
	default:
		return frame, err
	}
}
