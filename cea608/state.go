package cea608

// appendChar writes ch with the current attribute at the cursor in the
// target memory and advances the cursor, which stops at the last column.
func (d *Decoder) appendChar(ch rune) {
	m, visible := d.targetMem()
	m.chars[d.row][d.col] = ch
	m.attrs[d.row][d.col] = d.attr
	if visible {
		d.dirty = true
	}
	if d.col < Columns-1 {
		d.col++
	}
	d.stats.Characters++
}

func (d *Decoder) backspace() {
	if d.col > 0 {
		d.col--
	}
}

func (d *Decoder) tab(n int) {
	d.col += n
	if d.col > Columns-1 {
		d.col = Columns - 1
	}
}

// interpret dispatches an in-scope control pair. b0 has its sub-channel bit
// already cleared, so it lies in 0x10-0x17.
func (d *Decoder) interpret(b0, b1 byte) {
	switch {
	case b0 <= 0x17 && b1 >= 0x40:
		d.pac(b0, b1)
	case b0 == 0x11 && b1 >= 0x30 && b1 <= 0x3F:
		d.appendChar(specialSet[b1-0x30])
	case b0 == 0x12 && b1 >= 0x20 && b1 <= 0x3F:
		d.backspace()
		d.appendChar(extendedSetA[b1-0x20])
	case b0 == 0x13 && b1 >= 0x20 && b1 <= 0x3F:
		d.backspace()
		d.appendChar(extendedSetB[b1-0x20])
	case b0 == 0x11 && b1 >= 0x20 && b1 <= 0x2F:
		d.midRow(b1)
	case b0 == 0x17 && b1 >= 0x21 && b1 <= 0x23:
		d.tab(int(b1 & 0x03))
	case b0 == miscControl && b1 >= 0x20 && b1 <= 0x2F:
		d.command(Command(b1))
	default:
		d.stats.Ignored++
	}
}
