package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/zsiec/line21/cea608"
	"github.com/zsiec/line21/source"
	"github.com/zsiec/line21/timecode"
)

type frameSlice struct {
	frames [][4]byte
	pos    int
	err    error // returned instead of io.EOF at the end
}

func (s *frameSlice) Next() ([4]byte, error) {
	if s.pos >= len(s.frames) {
		if s.err != nil {
			return [4]byte{}, s.err
		}
		return [4]byte{}, io.EOF
	}
	f := s.frames[s.pos]
	s.pos++
	return f, nil
}

// nullSource never ends.
type nullSource struct{}

func (nullSource) Next() ([4]byte, error) {
	return [4]byte{source.Null, source.Null, source.Null, source.Null}, nil
}

type recorder struct {
	mu      sync.Mutex
	updates map[cea608.Channel][]Update
}

func newRecorder() *recorder {
	return &recorder{updates: make(map[cea608.Channel][]Update)}
}

func (r *recorder) CaptionChanged(u Update) {
	r.mu.Lock()
	r.updates[u.Channel] = append(r.updates[u.Channel], u)
	r.mu.Unlock()
}

func (r *recorder) last(ch cea608.Channel) (Update, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	us := r.updates[ch]
	if len(us) == 0 {
		return Update{}, false
	}
	return us[len(us)-1], true
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRunDecodesChannelsConcurrently(t *testing.T) {
	t.Parallel()

	cc1 := source.NewEncoder(cea608.CC1)
	cc1.PopOn("FIRST FIELD")
	cc3 := source.NewEncoder(cea608.CC3)
	cc3.Pad(5)
	cc3.PopOn("SECOND FIELD")

	rec := newRecorder()
	src := &frameSlice{frames: source.Interleave(cc1.Frames(), cc3.Frames())}
	p := New(src, []cea608.Channel{cea608.CC1, cea608.CC3, cea608.CC2}, rec, Options{Log: quietLogger()})

	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	tests := []struct {
		ch   cea608.Channel
		want string
	}{
		{cea608.CC1, "FIRST FIELD"},
		{cea608.CC3, "SECOND FIELD"},
	}
	for _, tt := range tests {
		u, ok := rec.last(tt.ch)
		if !ok {
			t.Errorf("%s: no updates", tt.ch)
			continue
		}
		if got := u.Screen.Row(14); got != tt.want {
			t.Errorf("%s row 14 = %q, want %q", tt.ch, got, tt.want)
		}
	}
	if _, ok := rec.last(cea608.CC2); ok {
		t.Error("CC2 received updates from a stream that never addressed it")
	}

	stats := p.Stats()
	if len(stats) != 3 {
		t.Fatalf("Stats has %d channels, want 3", len(stats))
	}
	if got, want := stats[cea608.CC1].Frames, int64(len(src.frames)); got != want {
		t.Errorf("CC1 Frames = %d, want %d", got, want)
	}
	if got := p.FramesRead(); got != int64(len(src.frames)) {
		t.Errorf("FramesRead = %d, want %d", got, len(src.frames))
	}
}

func TestRunTimecodes(t *testing.T) {
	t.Parallel()

	enc := source.NewEncoder(cea608.CC1)
	enc.PopOn("A")

	rec := newRecorder()
	p := New(enc.Reader(), []cea608.Channel{cea608.CC1}, rec, Options{Rate: "25", Log: quietLogger()})
	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	u, ok := rec.last(cea608.CC1)
	if !ok {
		t.Fatal("no updates")
	}
	tc, _ := timecode.ForRate("25")
	for i := int64(0); i < u.Frame; i++ {
		tc.Incr()
	}
	if u.Timecode != tc.String() {
		t.Errorf("Timecode = %q, want %q for frame %d", u.Timecode, tc.String(), u.Frame)
	}
	if u.Frame != int64(enc.Len()-2) {
		t.Errorf("Frame = %d, want %d (first EOC)", u.Frame, enc.Len()-2)
	}
}

func TestRunDeduplicatesChannels(t *testing.T) {
	t.Parallel()

	p := New(&frameSlice{}, []cea608.Channel{cea608.CC1, cea608.CC1}, newRecorder(), Options{Log: quietLogger()})
	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := len(p.Stats()); got != 1 {
		t.Errorf("Stats has %d channels, want 1", got)
	}
}

func TestRunSourceError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	src := &frameSlice{frames: make([][4]byte, 3), err: boom}
	p := New(src, []cea608.Channel{cea608.CC1}, newRecorder(), Options{Log: quietLogger()})

	err := p.Run(context.Background())
	if !errors.Is(err, boom) {
		t.Errorf("Run = %v, want %v", err, boom)
	}
}

func TestRunConfigErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		channels []cea608.Channel
		rate     string
		want     error
	}{
		{"bad rate", []cea608.Channel{cea608.CC1}, "23.976", timecode.ErrUnknownRate},
		{"bad channel", []cea608.Channel{cea608.Channel(0x04)}, "", cea608.ErrInvalidChannel},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := New(&frameSlice{}, tt.channels, newRecorder(), Options{Rate: tt.rate, Log: quietLogger()})
			if err := p.Run(context.Background()); !errors.Is(err, tt.want) {
				t.Errorf("Run = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestRunCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Cancel from inside the sink once the first caption appears.
	enc := source.NewEncoder(cea608.CC1)
	enc.PopOn("STOP")
	frames := enc.Frames()
	src := &cancelAfter{frames: frames}

	var once sync.Once
	sink := SinkFunc(func(Update) { once.Do(cancel) })

	p := New(src, []cea608.Channel{cea608.CC1}, sink, Options{Log: quietLogger()})
	if err := p.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Run = %v, want %v", err, context.Canceled)
	}
}

// cancelAfter plays frames and then null frames forever.
type cancelAfter struct {
	frames [][4]byte
	pos    int
}

func (s *cancelAfter) Next() ([4]byte, error) {
	if s.pos < len(s.frames) {
		f := s.frames[s.pos]
		s.pos++
		return f, nil
	}
	return nullSource{}.Next()
}
