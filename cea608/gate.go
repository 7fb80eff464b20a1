package cea608

import "math/bits"

// oddParity[b] reports whether byte b carries odd parity over all 8 bits.
var oddParity = func() (t [256]bool) {
	for i := range t {
		t[i] = bits.OnesCount8(uint8(i))%2 == 1
	}
	return t
}()

// Input feeds one frame of line-21 data: bytes 0-1 are field 1, bytes 2-3
// field 2. Only the field carrying the wanted channel is looked at. Pairs
// with bad parity, duplicated control codes and traffic for other channels
// are dropped without touching the caption state.
func (d *Decoder) Input(b [4]byte) {
	if d.mem == nil {
		return
	}
	d.stats.Frames++

	field2 := d.wanted&chanFieldBit != 0
	b0, b1 := b[0], b[1]
	if field2 {
		b0, b1 = b[2], b[3]
	}

	if !oddParity[b0] || !oddParity[b1] {
		d.stats.ParityErrors++
		d.log.Debug("dropping pair with bad parity", "byte0", b0, "byte1", b1)
		return
	}
	b0 &= 0x7F
	b1 &= 0x7F

	switch {
	case b0 >= 0x20:
		if d.active != d.wanted {
			d.stats.OffChannel++
			return
		}
		d.appendChar(basicSet[b0-0x20])
		if b1 >= 0x20 {
			d.appendChar(basicSet[b1-0x20])
		}
		d.lastCtrl = [2]byte{}
	case b0 >= 0x10:
		d.control(b0, b1, field2)
	}
}

// control runs the channel arbitration for a control pair and hands it to
// the state machine when it addresses the wanted channel.
func (d *Decoder) control(b0, b1 byte, field2 bool) {
	// Control codes are transmitted twice; act on the first copy only.
	pair := [2]byte{b0, b1}
	if pair == d.lastCtrl {
		d.lastCtrl = [2]byte{}
		d.stats.Duplicates++
		return
	}
	d.lastCtrl = pair

	if field2 {
		d.active |= chanFieldBit
	} else {
		d.active &^= chanFieldBit
	}

	if b0&0x08 != 0 {
		d.active |= chanSubBit
		b0 &^= 0x08
	} else {
		d.active &^= chanSubBit
	}

	// Field 2 may carry miscellaneous commands as 0x15 instead of 0x14.
	if field2 && b0 == 0x15 && b1 >= 0x20 && b1 <= 0x2F {
		b0 = miscControl
	}

	if b0 == miscControl {
		switch Command(b1) {
		case CmdRCL, CmdRU2, CmdRU3, CmdRU4, CmdRDC:
			d.active &^= chanTextBit
		case CmdTR, CmdRTD:
			d.active |= chanTextBit
		}
	}

	if d.active != d.wanted {
		d.stats.OffChannel++
		return
	}
	d.interpret(b0, b1)
}
