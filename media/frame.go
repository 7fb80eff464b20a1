// Package media defines the frame type that flows from a frame source
// through the decode pipeline.
package media

// FrameBufferSize is the capacity of each per-channel frame queue between
// the source reader and a decoder goroutine: about two seconds of line-21
// data at 29.97 frames per second.
const FrameBufferSize = 60

// Frame is one video frame's line-21 data: the field 1 byte pair followed
// by the field 2 byte pair, parity bits intact. Index counts frames from
// the start of the source, beginning at zero.
type Frame struct {
	Index int64
	Data  [4]byte
}
