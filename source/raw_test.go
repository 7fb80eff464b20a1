package source

import (
	"bytes"
	"errors"
	"io"
	"math/bits"
	"os"
	"path/filepath"
	"testing"

	"github.com/zsiec/line21/cea608"
)

func TestWithParity(t *testing.T) {
	t.Parallel()
	for v := 0; v < 256; v++ {
		got := WithParity(byte(v))
		if bits.OnesCount8(got)%2 != 1 {
			t.Errorf("WithParity(0x%02X) = 0x%02X has even parity", v, got)
		}
		if got&0x7F != byte(v)&0x7F {
			t.Errorf("WithParity(0x%02X) = 0x%02X changed the data bits", v, got)
		}
	}
	if WithParity(0x00) != Null {
		t.Errorf("WithParity(0) = 0x%02X, want 0x%02X", WithParity(0), Null)
	}
}

func TestRawReader(t *testing.T) {
	t.Parallel()
	data := []byte{
		0x94, 0x20, 0x80, 0x80,
		0xC8, 0x49, 0x80, 0x80,
		0x94, 0x2F,
	}
	r := NewRawReader(bytes.NewReader(data))

	for i, want := range [][4]byte{{0x94, 0x20, 0x80, 0x80}, {0xC8, 0x49, 0x80, 0x80}} {
		got, err := r.Next()
		if err != nil {
			t.Fatalf("frame %d: %v", i, err)
		}
		if got != want {
			t.Errorf("frame %d = % X, want % X", i, got, want)
		}
	}

	if _, err := r.Next(); !errors.Is(err, ErrShortFrame) {
		t.Errorf("partial frame error = %v, want ErrShortFrame", err)
	}
}

func TestRawReaderEOF(t *testing.T) {
	t.Parallel()
	r := NewRawReader(bytes.NewReader(nil))
	if _, err := r.Next(); !errors.Is(err, io.EOF) {
		t.Errorf("empty input error = %v, want io.EOF", err)
	}
}

func TestOpen(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "cc.raw")

	enc := NewEncoder(cea608.CC1)
	enc.PopOn("HI")
	var buf bytes.Buffer
	if _, err := enc.WriteTo(&buf); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	src, closer, err := Open(path, FormatRaw)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer closer.Close()

	n := 0
	for {
		_, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		n++
	}
	if n != enc.Len() {
		t.Errorf("read %d frames, want %d", n, enc.Len())
	}

	if _, _, err := Open(path, "mpegts"); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("Open(mpegts) error = %v, want ErrUnknownFormat", err)
	}
	if _, _, err := Open(filepath.Join(dir, "missing.raw"), FormatRaw); err == nil {
		t.Error("Open(missing) succeeded")
	}
}
