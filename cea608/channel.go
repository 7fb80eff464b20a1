package cea608

import (
	"fmt"
	"strings"
)

// Channel selects one of the eight logical line-21 streams. Bit 0 picks the
// sub-channel within a field, bit 1 the field, bit 4 text mode.
type Channel uint8

const (
	CC1   Channel = 0x00
	CC2   Channel = 0x01
	CC3   Channel = 0x02
	CC4   Channel = 0x03
	Text1 Channel = 0x10
	Text2 Channel = 0x11
	Text3 Channel = 0x12
	Text4 Channel = 0x13
)

const (
	chanSubBit   Channel = 0x01
	chanFieldBit Channel = 0x02
	chanTextBit  Channel = 0x10
	chanMask     Channel = chanSubBit | chanFieldBit | chanTextBit
)

// Channels returns all eight channels in CC1..CC4, TEXT1..TEXT4 order.
func Channels() []Channel {
	return []Channel{CC1, CC2, CC3, CC4, Text1, Text2, Text3, Text4}
}

// Valid reports whether c only uses the sub-channel, field and text bits.
func (c Channel) Valid() bool {
	return c&^chanMask == 0
}

// Field returns 1 or 2, the video field that carries the channel.
func (c Channel) Field() int {
	if c&chanFieldBit != 0 {
		return 2
	}
	return 1
}

// IsText reports whether c is one of the TEXT channels.
func (c Channel) IsText() bool {
	return c&chanTextBit != 0
}

func (c Channel) String() string {
	if !c.Valid() {
		return fmt.Sprintf("Channel(0x%02X)", uint8(c))
	}
	n := int(c&(chanSubBit|chanFieldBit)) + 1
	if c.IsText() {
		return fmt.Sprintf("TEXT%d", n)
	}
	return fmt.Sprintf("CC%d", n)
}

// ParseChannel parses names such as "CC1", "cc3" or "TEXT2".
func ParseChannel(s string) (Channel, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for _, c := range Channels() {
		if c.String() == name {
			return c, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidChannel, s)
}
