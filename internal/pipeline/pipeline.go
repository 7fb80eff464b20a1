// Package pipeline decodes one line-21 frame source into several caption
// channels at once. A single reader goroutine pulls frames from the source
// and fans each one out to a decoder goroutine per channel; every change to
// a channel's displayed memory is reported to a Sink.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/zsiec/line21/cea608"
	"github.com/zsiec/line21/media"
	"github.com/zsiec/line21/source"
	"github.com/zsiec/line21/timecode"
)

// DefaultRate is the frame rate used for timecodes when Options.Rate is empty.
const DefaultRate = "29.97"

// Update describes one change to a channel's displayed memory.
type Update struct {
	Channel    cea608.Channel
	Frame      int64 // index of the frame that caused the change
	Timecode   string
	Screen     cea608.Screen
	Attributes cea608.Attributes
}

// Sink receives caption updates. CaptionChanged is called from one
// goroutine per channel and must be safe for concurrent use; updates for a
// single channel arrive in frame order.
type Sink interface {
	CaptionChanged(u Update)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(Update)

// CaptionChanged calls f(u).
func (f SinkFunc) CaptionChanged(u Update) { f(u) }

// Options configures a Pipeline.
type Options struct {
	// Rate names the frame rate for timecodes: "29.97", "30", "25" or "24".
	Rate string
	// Log defaults to slog.Default().
	Log *slog.Logger
}

// Pipeline decodes a frame source into one or more caption channels.
type Pipeline struct {
	log      *slog.Logger
	src      source.FrameSource
	channels []cea608.Channel
	sink     Sink
	rate     string

	framesRead atomic.Int64

	mu    sync.Mutex
	stats map[cea608.Channel]cea608.Stats
}

// New creates a Pipeline that decodes channels from src and reports every
// displayed change to sink. Repeated channels are decoded once.
func New(src source.FrameSource, channels []cea608.Channel, sink Sink, opts Options) *Pipeline {
	log := opts.Log
	if log == nil {
		log = slog.Default()
	}
	rate := opts.Rate
	if rate == "" {
		rate = DefaultRate
	}

	seen := make(map[cea608.Channel]bool, len(channels))
	uniq := make([]cea608.Channel, 0, len(channels))
	for _, ch := range channels {
		if seen[ch] {
			continue
		}
		seen[ch] = true
		uniq = append(uniq, ch)
	}

	return &Pipeline{
		log:      log.With("component", "pipeline"),
		src:      src,
		channels: uniq,
		sink:     sink,
		rate:     rate,
		stats:    make(map[cea608.Channel]cea608.Stats, len(uniq)),
	}
}

// Run decodes until the source is exhausted, returning nil, or until ctx
// is cancelled or the source fails, returning that error.
func (p *Pipeline) Run(ctx context.Context) error {
	if _, err := timecode.ForRate(p.rate); err != nil {
		return err
	}
	for _, ch := range p.channels {
		if !ch.Valid() {
			return fmt.Errorf("pipeline: %w: %s", cea608.ErrInvalidChannel, ch)
		}
	}

	p.log.Info("decoding", "channels", len(p.channels), "rate", p.rate)

	g, ctx := errgroup.WithContext(ctx)

	queues := make([]chan media.Frame, len(p.channels))
	for i, ch := range p.channels {
		q := make(chan media.Frame, media.FrameBufferSize)
		queues[i] = q
		g.Go(func() error {
			return p.decode(ctx, ch, q)
		})
	}

	g.Go(func() error {
		defer func() {
			for _, q := range queues {
				close(q)
			}
		}()
		return p.read(ctx, queues)
	})

	err := g.Wait()
	p.log.Info("pipeline finished", "frames", p.framesRead.Load(), "error", err)
	return err
}

// Stats returns each channel's decoder counters. A channel appears once its
// decoder has stopped.
func (p *Pipeline) Stats() map[cea608.Channel]cea608.Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make(map[cea608.Channel]cea608.Stats, len(p.stats))
	for ch, s := range p.stats {
		out[ch] = s
	}
	return out
}

// FramesRead returns the number of frames taken from the source so far.
func (p *Pipeline) FramesRead() int64 {
	return p.framesRead.Load()
}

func (p *Pipeline) read(ctx context.Context, queues []chan media.Frame) error {
	for idx := int64(0); ; idx++ {
		data, err := p.src.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read frame %d: %w", idx, err)
		}
		p.framesRead.Add(1)

		frame := media.Frame{Index: idx, Data: data}
		for _, q := range queues {
			select {
			case q <- frame:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}

func (p *Pipeline) decode(ctx context.Context, ch cea608.Channel, frames <-chan media.Frame) error {
	log := p.log.With("channel", ch.String())
	d := cea608.New(cea608.WithLogger(log), cea608.WithChannel(ch))
	defer func() {
		p.mu.Lock()
		p.stats[ch] = d.Stats()
		p.mu.Unlock()
		d.Close()
	}()

	tc, err := timecode.ForRate(p.rate)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case frame, ok := <-frames:
			if !ok {
				log.Debug("channel drained", "stats", d.Stats())
				return nil
			}
			d.Input(frame.Data)
			if d.HasChanged() {
				p.sink.CaptionChanged(Update{
					Channel:    ch,
					Frame:      frame.Index,
					Timecode:   tc.String(),
					Screen:     d.Screen(),
					Attributes: d.Attributes(),
				})
			}
			tc.Incr()
		}
	}
}
