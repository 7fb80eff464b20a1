// Package timecode keeps a running SMPTE 12M hour:minute:second:frame count
// for labelling decoded captions. It has no connection to the decoder state.
package timecode

import (
	"errors"
	"fmt"
)

// ErrUnknownRate is returned by ForRate for frame rates it does not know.
var ErrUnknownRate = errors.New("timecode: unknown frame rate")

// Counter is a frame counter in SMPTE timecode form.
type Counter struct {
	Hours     int
	Minutes   int
	Seconds   int
	Frames    int
	DropFrame bool
	FPS       int
}

// New returns a counter at 00:00:00:00. A non-positive fps selects 30.
func New(dropFrame bool, fps int) *Counter {
	if fps <= 0 {
		fps = 30
	}
	return &Counter{DropFrame: dropFrame, FPS: fps}
}

// ForRate returns a counter for a nominal rate: "29.97" (drop frame), "30",
// "25" or "24".
func ForRate(rate string) (*Counter, error) {
	switch rate {
	case "29.97":
		return New(true, 30), nil
	case "30":
		return New(false, 30), nil
	case "25":
		return New(false, 25), nil
	case "24":
		return New(false, 24), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownRate, rate)
}

// Incr advances the counter by one frame. In drop-frame mode frame numbers
// 0 and 1 are skipped at the start of every minute except each tenth.
func (c *Counter) Incr() {
	c.Frames++
	if c.Frames < c.FPS {
		return
	}
	c.Frames = 0
	c.Seconds++
	if c.Seconds < 60 {
		return
	}
	c.Seconds = 0
	c.Minutes++
	if c.DropFrame && c.Minutes%10 != 0 {
		c.Frames = 2
	}
	if c.Minutes == 60 {
		c.Minutes = 0
		c.Hours++
	}
}

// String formats the counter as HH:MM:SS:FF, or HH:MM:SS;FF in drop-frame
// mode.
func (c *Counter) String() string {
	sep := ':'
	if c.DropFrame {
		sep = ';'
	}
	return fmt.Sprintf("%02d:%02d:%02d%c%02d", c.Hours, c.Minutes, c.Seconds, sep, c.Frames)
}
