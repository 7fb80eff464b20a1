package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/zsiec/line21/cea608"
	"github.com/zsiec/line21/source"
)

func main() {
	if len(os.Args) < 3 || len(os.Args) > 4 {
		fmt.Fprintf(os.Stderr, "Usage: gen-line21 <output> <cc1.srt> [cc3.srt]\n")
		fmt.Fprintf(os.Stderr, "Encodes SRT subtitles as CEA-608 line-21 frames.\n")
		fmt.Fprintf(os.Stderr, "The first SRT goes to CC1 (field 1), the second to CC3 (field 2).\n")
		fmt.Fprintf(os.Stderr, "Environment: FORMAT=raw|h264, MODE=popon|rollup, RATE=29.97|30|25|24,\n")
		fmt.Fprintf(os.Stderr, "             SRT_CHARSET=utf-8|windows-1252|latin1\n")
		os.Exit(1)
	}

	outputFile := os.Args[1]
	srtFiles := os.Args[2:]
	format := envOr("FORMAT", source.FormatRaw)
	mode := envOr("MODE", "popon")

	fps, ok := frameRates[envOr("RATE", "29.97")]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown RATE %q\n", os.Getenv("RATE"))
		os.Exit(1)
	}

	channels := []cea608.Channel{cea608.CC1, cea608.CC3}
	var tracks [2][][4]byte
	for i, sf := range srtFiles {
		entries, err := parseSRTFile(sf, os.Getenv("SRT_CHARSET"))
		if err != nil {
			fmt.Fprintf(os.Stderr, "parse SRT %s: %v\n", sf, err)
			os.Exit(1)
		}
		enc := source.NewEncoder(channels[i])
		schedule(enc, channels[i], entries, fps, mode)
		tracks[i] = enc.Frames()
		fmt.Fprintf(os.Stderr, "%s: %d entries, %d frames on %s\n", sf, len(entries), enc.Len(), channels[i])
	}

	frames := source.Interleave(tracks[0], tracks[1])

	f, err := os.Create(outputFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "create output: %v\n", err)
		os.Exit(1)
	}
	w := bufio.NewWriter(f)
	n, err := write(w, format, frames)
	if err == nil {
		err = w.Flush()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "write output: %v\n", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "Wrote %d frames (%d bytes, %s) to %s\n", len(frames), n, format, outputFile)
}

var frameRates = map[string]float64{
	"29.97": 30000.0 / 1001.0,
	"30":    30,
	"25":    25,
	"24":    24,
}

func write(w io.Writer, format string, frames [][4]byte) (int64, error) {
	switch format {
	case source.FormatRaw:
		var total int64
		for _, f := range frames {
			n, err := w.Write(f[:])
			total += int64(n)
			if err != nil {
				return total, err
			}
		}
		return total, nil
	case source.FormatH264:
		return source.WriteH264(w, frames)
	}
	return 0, fmt.Errorf("%w: %q", source.ErrUnknownFormat, format)
}

// schedule encodes entries onto enc, padding with null frames so every
// caption appears at its start time and is erased at its end time. Entries
// that would overlap the previous one are delayed.
func schedule(enc *source.Encoder, ch cea608.Channel, entries []srtEntry, fps float64, mode string) {
	for _, e := range entries {
		start := int(e.startSec * fps)
		end := int(e.endSec * fps)

		lines := strings.Split(e.text, "\n")
		switch mode {
		case "rollup":
			enc.Pad(start - enc.Len())
			for _, line := range lines {
				enc.RollUp(2, line)
			}
		default:
			// Compose ahead of the start time so the first EOC lands on
			// the start frame.
			scratch := source.NewEncoder(ch)
			scratch.PopOn(lines...)
			enc.Pad(start - scratch.Len() + 2 - enc.Len())
			enc.PopOn(lines...)
		}
		enc.Pad(end - enc.Len())
		enc.Clear()
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
