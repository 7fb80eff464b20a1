package cea608

import "fmt"

// Command is the second byte of a miscellaneous control code (first byte
// 0x14, or 0x1C on the second sub-channel).
type Command uint8

const (
	CmdRCL Command = 0x20 // resume caption loading
	CmdBS  Command = 0x21 // backspace
	CmdAOF Command = 0x22 // alarm off, unused
	CmdAON Command = 0x23 // alarm on, unused
	CmdDER Command = 0x24 // delete to end of row
	CmdRU2 Command = 0x25 // roll-up, 2 rows
	CmdRU3 Command = 0x26 // roll-up, 3 rows
	CmdRU4 Command = 0x27 // roll-up, 4 rows
	CmdFON Command = 0x28 // flash on
	CmdRDC Command = 0x29 // resume direct captioning
	CmdTR  Command = 0x2A // text restart
	CmdRTD Command = 0x2B // resume text display
	CmdEDM Command = 0x2C // erase displayed memory
	CmdCR  Command = 0x2D // carriage return
	CmdENM Command = 0x2E // erase non-displayed memory
	CmdEOC Command = 0x2F // end of caption
)

const miscControl byte = 0x14

var commandNames = [...]string{
	"RCL", "BS", "AOF", "AON", "DER", "RU2", "RU3", "RU4",
	"FON", "RDC", "TR", "RTD", "EDM", "CR", "ENM", "EOC",
}

func (c Command) String() string {
	if c < CmdRCL || c > CmdEOC {
		return fmt.Sprintf("Command(0x%02X)", uint8(c))
	}
	return commandNames[c-CmdRCL]
}

// textRow is the PAC that text restart uses to home the cursor.
var textRow = [2]byte{0x14, 0x60}

func (d *Decoder) command(c Command) {
	d.stats.Commands++
	d.log.Debug("command", "cmd", c.String(), "row", d.row, "col", d.col)

	switch c {
	case CmdRCL:
		d.target = NonDisplayed

	case CmdBS:
		d.backspace()
		m, visible := d.targetMem()
		m.chars[d.row][d.col] = 0
		m.attrs[d.row][d.col] = 0
		if visible {
			d.dirty = true
		}

	case CmdAOF, CmdAON, CmdFON, CmdRTD:
		// legacy codes, nothing to do

	case CmdDER:
		m, visible := d.targetMem()
		m.clearRow(d.row, d.col)
		if visible {
			d.dirty = true
		}

	case CmdRU2, CmdRU3, CmdRU4:
		d.rollUp = int(c-CmdRU2) + 2
		d.target = Displayed
		if d.rollUp > d.row {
			d.row = Rows - 1
		}

	case CmdRDC:
		d.target = Displayed

	case CmdTR:
		d.target = Displayed
		d.rollUp = Rows
		d.pac(textRow[0], textRow[1])

	case CmdEDM:
		d.displayed().clear()
		d.dirty = true

	case CmdCR:
		d.carriageReturn()

	case CmdENM:
		d.hidden().clear()

	case CmdEOC:
		d.shown = 1 - d.shown
		d.dirty = true

	default:
		d.invariant("unknown command", miscControl, byte(c))
	}
}

// carriageReturn scrolls the roll-up window ending at the cursor row up by
// one row and clears the cursor row.
func (d *Decoder) carriageReturn() {
	m := d.displayed()
	top := d.row - (d.rollUp - 1)
	if top < 0 {
		top = 0
	}
	for r := top; r < d.row; r++ {
		m.copyRow(r, r+1)
	}
	m.clearRow(d.row, 0)
	d.col = 0
	d.dirty = true
}
