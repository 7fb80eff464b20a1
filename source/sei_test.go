package source

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/zsiec/line21/cea608"
)

type ccTriplet struct {
	ccType byte // 0 = field 1, 1 = field 2
	data1  byte
	data2  byte
}

// buildCaptionSEI builds an H.264 SEI NAL unit, start code included,
// carrying A/53 GA94 cc_data.
func buildCaptionSEI(triplets []ccTriplet) []byte {
	payload := []byte{0xB5, 0x00, 0x31, 'G', 'A', '9', '4', 0x03}
	payload = append(payload, 0x40|byte(len(triplets))&0x1F, 0xFF)
	for _, tr := range triplets {
		payload = append(payload, 0xFC|tr.ccType&0x03, WithParity(tr.data1), WithParity(tr.data2))
	}
	payload = append(payload, 0xFF)

	msg := []byte{0x04, byte(len(payload))}
	msg = append(msg, payload...)
	msg = append(msg, 0x80)

	nal := []byte{0x00, 0x00, 0x00, 0x01, 0x06}
	return append(nal, addEPB(msg)...)
}

func readAll(t *testing.T, src FrameSource) [][4]byte {
	t.Helper()
	var frames [][4]byte
	for {
		f, err := src.Next()
		if errors.Is(err, io.EOF) {
			return frames
		}
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		frames = append(frames, f)
	}
}

func TestSEIReaderInterleavesFields(t *testing.T) {
	t.Parallel()
	slice := []byte{0x00, 0x00, 0x00, 0x01, 0x41, 0x9A, 0x02}
	var stream []byte
	stream = append(stream, buildCaptionSEI([]ccTriplet{
		{0, 0x14, 0x20},
		{1, 0x14, 0x2C},
		{0, 'H', 'I'},
	})...)
	stream = append(stream, slice...)

	frames := readAll(t, NewSEIReader(stream))
	want := [][4]byte{
		{WithParity(0x14), WithParity(0x20), WithParity(0x14), WithParity(0x2C)},
		{WithParity('H'), WithParity('I'), Null, Null},
	}
	if len(frames) != len(want) {
		t.Fatalf("got %d frames, want %d: % X", len(frames), len(want), frames)
	}
	for i := range want {
		if frames[i] != want[i] {
			t.Errorf("frame %d = % X, want % X", i, frames[i], want[i])
		}
	}
}

func TestSEIReaderDecodes(t *testing.T) {
	t.Parallel()
	cc1 := NewEncoder(cea608.CC1)
	cc1.PopOn("SEI TEXT")
	cc4 := NewEncoder(cea608.CC4)
	cc4.RollUp(2, "FIELD TWO")

	var buf bytes.Buffer
	if _, err := WriteH264(&buf, Interleave(cc1.Frames(), cc4.Frames())); err != nil {
		t.Fatalf("WriteH264: %v", err)
	}

	tests := []struct {
		ch   cea608.Channel
		want string
	}{
		{cea608.CC1, "SEI TEXT"},
		{cea608.CC4, "FIELD TWO"},
	}
	for _, tt := range tests {
		d := decodeAll(t, NewSEIReader(buf.Bytes()), tt.ch)
		scr := d.Screen()
		if got := scr.Row(14); got != tt.want {
			t.Errorf("%s row 14 = %q, want %q", tt.ch, got, tt.want)
		}
	}
}

func TestCaptionSEI(t *testing.T) {
	t.Parallel()
	frame := [4]byte{WithParity(0x14), WithParity(0x2F), Null, Null}
	got := CaptionSEI(frame)
	want := buildCaptionSEI([]ccTriplet{{0, 0x14, 0x2F}, {1, 0x00, 0x00}})
	if !bytes.Equal(got, want) {
		t.Errorf("CaptionSEI = % X, want % X", got, want)
	}
}

func TestAddEPB(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in, want []byte
	}{
		{[]byte{0x00, 0x00, 0x01}, []byte{0x00, 0x00, 0x03, 0x01}},
		{[]byte{0x00, 0x00, 0x00, 0x00}, []byte{0x00, 0x00, 0x03, 0x00, 0x00}},
		{[]byte{0x00, 0x00, 0x04}, []byte{0x00, 0x00, 0x04}},
		{[]byte{0x00, 0x01, 0x00}, []byte{0x00, 0x01, 0x00}},
	}
	for _, tt := range tests {
		if got := addEPB(tt.in); !bytes.Equal(got, tt.want) {
			t.Errorf("addEPB(% X) = % X, want % X", tt.in, got, tt.want)
		}
	}
}

func TestSEIMessageSize(t *testing.T) {
	t.Parallel()
	got := seiMessage(4, make([]byte, 300))
	if got[0] != 4 || got[1] != 0xFF || got[2] != 300-255 {
		t.Errorf("header = % X, want 04 FF 2D", got[:3])
	}
	if len(got) != 3+300 {
		t.Errorf("len = %d, want %d", len(got), 3+300)
	}
}

func TestSEIReaderNoCaptions(t *testing.T) {
	t.Parallel()
	stream := []byte{
		0x00, 0x00, 0x00, 0x01, 0x67, 0x42, 0xE0, 0x1E,
		0x00, 0x00, 0x00, 0x01, 0x65, 0x88, 0x84, 0x00, 0xFF,
	}
	if frames := readAll(t, NewSEIReader(stream)); len(frames) != 0 {
		t.Errorf("got %d frames from a stream without SEI", len(frames))
	}
}
