package cea608

import (
	"fmt"
	"log/slog"
)

// Target names the memory that receives new characters.
type Target uint8

const (
	// Displayed is written directly to the screen (roll-up, paint-on, text).
	Displayed Target = iota
	// NonDisplayed composes a pop-on caption off screen.
	NonDisplayed
)

func (t Target) String() string {
	if t == NonDisplayed {
		return "non-displayed"
	}
	return "displayed"
}

// Stats counts what the decoder did with its input. The counters are for
// telemetry only and never influence decoding.
type Stats struct {
	Frames       int64
	ParityErrors int64
	Duplicates   int64
	OffChannel   int64
	Ignored      int64
	Characters   int64
	PACs         int64
	MidRows      int64
	Commands     int64
}

// Option configures a Decoder.
type Option func(*Decoder)

// WithLogger sets the logger. A nil logger selects slog.Default().
func WithLogger(log *slog.Logger) Option {
	return func(d *Decoder) {
		if log != nil {
			d.log = log
		}
	}
}

// WithChannel sets the initial wanted channel. Invalid channels are logged
// and CC1 is kept.
func WithChannel(c Channel) Option {
	return func(d *Decoder) {
		d.initial = &c
	}
}

// Decoder holds the complete state of one line-21 decode session.
type Decoder struct {
	log *slog.Logger

	row, col int
	wanted   Channel
	active   Channel
	attr     Attribute
	target   Target
	rollUp   int
	lastCtrl [2]byte
	dirty    bool

	// mem holds both caption memories; mem[shown] is on screen.
	mem   *[2]memory
	shown int

	stats   Stats
	initial *Channel
}

// New creates a Decoder for CC1 with empty memories and the cursor at the
// top-left cell.
func New(opts ...Option) *Decoder {
	d := &Decoder{
		log:    slog.Default(),
		wanted: CC1,
		mem:    new([2]memory),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.log = d.log.With("component", "cea608")
	if d.initial != nil {
		if _, err := d.SetWanted(*d.initial); err != nil {
			d.log.Warn("ignoring initial channel", "error", err)
		}
		d.initial = nil
	}
	return d
}

// Close releases the caption memories. Input on a closed decoder is a no-op
// and Screen returns an empty grid.
func (d *Decoder) Close() {
	d.mem = nil
}

// SetWanted selects the channel to decode and returns it. A channel with
// bits outside the sub-channel, field and text positions is rejected: the
// wanted channel stays as it was and the active channel is reset to the
// wanted channel's field.
func (d *Decoder) SetWanted(c Channel) (Channel, error) {
	if c.Valid() {
		d.wanted = c
		return d.wanted, nil
	}
	d.active = d.wanted & chanFieldBit
	return d.wanted, fmt.Errorf("%w: 0x%02X", ErrInvalidChannel, uint8(c))
}

// HasChanged reports whether the displayed memory changed since the last
// call, and clears the flag.
func (d *Decoder) HasChanged() bool {
	changed := d.dirty
	d.dirty = false
	return changed
}

// Screen returns a copy of the displayed characters.
func (d *Decoder) Screen() Screen {
	if d.mem == nil {
		return Screen{}
	}
	return d.mem[d.shown].chars
}

// Attributes returns a copy of the displayed attributes.
func (d *Decoder) Attributes() Attributes {
	if d.mem == nil {
		return Attributes{}
	}
	return d.mem[d.shown].attrs
}

// Wanted returns the channel being decoded.
func (d *Decoder) Wanted() Channel { return d.wanted }

// Active returns the channel the stream is currently addressing.
func (d *Decoder) Active() Channel { return d.active }

// Cursor returns the zero-based cursor row and column.
func (d *Decoder) Cursor() (row, col int) { return d.row, d.col }

// Target returns the memory new characters are written to.
func (d *Decoder) Target() Target { return d.target }

// RollUp returns the number of rows in the roll-up window, or 0 before any
// roll-up or text restart command.
func (d *Decoder) RollUp() int { return d.rollUp }

// Stats returns a snapshot of the decoder's counters.
func (d *Decoder) Stats() Stats { return d.stats }

func (d *Decoder) displayed() *memory {
	return &d.mem[d.shown]
}

func (d *Decoder) hidden() *memory {
	return &d.mem[1-d.shown]
}

// targetMem returns the memory selected by target, and whether writing to
// it changes what is on screen.
func (d *Decoder) targetMem() (*memory, bool) {
	if d.target == NonDisplayed {
		return d.hidden(), false
	}
	return d.displayed(), true
}
