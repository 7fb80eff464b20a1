package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"strings"
	"sync"
	"syscall"

	"github.com/zsiec/line21/cea608"
	"github.com/zsiec/line21/internal/pipeline"
	"github.com/zsiec/line21/source"
)

var version = "dev"

func main() {
	level := slog.LevelInfo
	if os.Getenv("DEBUG") != "" {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: line21 <file>")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg := config{
		Path:     os.Args[1],
		Channels: envOr("CHANNELS", "CC1"),
		Format:   envOr("FORMAT", source.FormatRaw),
		Rate:     envOr("RATE", pipeline.DefaultRate),
	}

	slog.Info("line21 starting",
		"version", version,
		"file", cfg.Path,
		"channels", cfg.Channels,
		"format", cfg.Format,
		"rate", cfg.Rate,
	)

	out := bufio.NewWriter(os.Stdout)
	err := run(ctx, cfg, out)
	if ferr := out.Flush(); err == nil {
		err = ferr
	}
	if errors.Is(err, context.Canceled) {
		slog.Info("interrupted")
		return
	}
	if err != nil {
		slog.Error("decode failed", "error", err)
		os.Exit(1)
	}
}

type config struct {
	Path     string
	Channels string
	Format   string
	Rate     string
}

func run(ctx context.Context, cfg config, w io.Writer) error {
	channels, err := parseChannels(cfg.Channels)
	if err != nil {
		return err
	}

	src, closer, err := source.Open(cfg.Path, cfg.Format)
	if err != nil {
		return err
	}
	defer closer.Close()

	t := &transcript{w: w}
	p := pipeline.New(src, channels, t, pipeline.Options{Rate: cfg.Rate})

	if err := p.Run(ctx); err != nil {
		return err
	}
	if t.err != nil {
		return fmt.Errorf("write transcript: %w", t.err)
	}

	stats := p.Stats()
	keys := make([]cea608.Channel, 0, len(stats))
	for ch := range stats {
		keys = append(keys, ch)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	for _, ch := range keys {
		s := stats[ch]
		slog.Info("channel stats",
			"channel", ch.String(),
			"frames", s.Frames,
			"parity_errors", s.ParityErrors,
			"duplicates", s.Duplicates,
			"off_channel", s.OffChannel,
			"characters", s.Characters,
			"commands", s.Commands,
		)
	}
	return nil
}

// parseChannels accepts a comma-separated channel list or "all".
func parseChannels(s string) ([]cea608.Channel, error) {
	if strings.EqualFold(strings.TrimSpace(s), "all") {
		return cea608.Channels(), nil
	}
	var out []cea608.Channel
	for _, name := range strings.Split(s, ",") {
		if strings.TrimSpace(name) == "" {
			continue
		}
		ch, err := cea608.ParseChannel(name)
		if err != nil {
			return nil, err
		}
		out = append(out, ch)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: empty channel list", cea608.ErrInvalidChannel)
	}
	return out, nil
}

// transcript prints each displayed-memory change as a header line followed
// by the screen's non-blank rows.
type transcript struct {
	mu  sync.Mutex
	w   io.Writer
	err error
}

func (t *transcript) CaptionChanged(u pipeline.Update) {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s %s]\n", u.Channel, u.Timecode)
	for _, line := range u.Screen.Lines() {
		b.WriteString(line)
		b.WriteByte('\n')
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.err != nil {
		return
	}
	_, t.err = io.WriteString(t.w, b.String())
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
