package cea608

import "fmt"

// invariant reports control flow that correct gating never produces. The
// input is dropped; builds tagged cea608debug panic instead.
func (d *Decoder) invariant(msg string, b0, b1 byte) {
	d.log.Error(msg, "byte0", fmt.Sprintf("0x%02X", b0), "byte1", fmt.Sprintf("0x%02X", b1))
	if debugInvariants {
		panic(fmt.Sprintf("cea608: %s (0x%02X 0x%02X)", msg, b0, b1))
	}
}
