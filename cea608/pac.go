package cea608

// pacRows maps the low nibble of a PAC's first byte to a zero-based row.
// Codes with bit 5 of the second byte set address the row below.
var pacRows = [8]int{10, 0, 2, 11, 13, 4, 6, 8}

// pac interprets a preamble address code: it moves the cursor to a row, and
// either indents it (white text) or sets the colour and italics. Bit 0 of b1
// adds underline. A PAC never writes a character.
func (d *Decoder) pac(b0, b1 byte) {
	if b0 < 0x10 || b0 > 0x17 || b1 < 0x40 || b1 > 0x7F {
		d.invariant("PAC out of range", b0, b1)
		return
	}
	d.stats.PACs++

	d.row = pacRows[b0&0x0F]
	if b1&0x20 != 0 {
		d.row++
	}

	switch {
	case b1&0x10 != 0:
		d.col = int(b1&0x0E) << 1
		d.attr = withColor(White)
	case b1&0x0E == 0x0E:
		d.col = 0
		d.attr = withColor(White) | Italic
	default:
		d.col = 0
		d.attr = withColor(Color((b1 & 0x0E) >> 1))
	}

	if b1&0x01 != 0 {
		d.attr |= Underline
	}
}

// midRow applies a mid-row style code (0x11 0x20-0x2F). The cursor does not
// move and nothing is written.
func (d *Decoder) midRow(b1 byte) {
	d.stats.MidRows++

	if b1&0x0E == 0x0E {
		d.attr = withColor(d.attr.Color()) | Italic
	} else {
		d.attr = withColor(Color((b1 & 0x0E) >> 1))
	}

	if b1&0x01 != 0 {
		d.attr |= Underline
	} else {
		d.attr &^= Underline
	}
}
