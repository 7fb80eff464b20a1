package source

import "io"

// A/53 cc_data constants.
const (
	ccTypeField1 = 0x00
	ccTypeField2 = 0x01
	maxCCCount   = 31
)

// audNAL is an H.264 access unit delimiter (any slice type) with start code.
var audNAL = []byte{0x00, 0x00, 0x00, 0x01, 0x09, 0xF0}

// CaptionSEI returns an H.264 SEI NAL unit, start code included, carrying
// frame as two A/53 cc_data entries: the field 1 pair then the field 2 pair.
func CaptionSEI(frame [4]byte) []byte {
	cc := []ccEntry{
		{ccType: ccTypeField1, data: [2]byte{frame[0], frame[1]}},
		{ccType: ccTypeField2, data: [2]byte{frame[2], frame[3]}},
	}

	msg := seiMessage(4, a53Payload(cc)) // user_data_registered_itu_t_t35
	msg = append(msg, 0x80)              // rbsp trailing bits

	nal := []byte{0x00, 0x00, 0x00, 0x01, nalTypeSEI}
	return append(nal, addEPB(msg)...)
}

// WriteH264 writes frames as an H.264 Annex B stream holding one access
// unit delimiter and one caption SEI per frame, readable by SEIReader. The
// stream carries no picture data.
func WriteH264(w io.Writer, frames [][4]byte) (int64, error) {
	var total int64
	for _, f := range frames {
		n, err := w.Write(audNAL)
		total += int64(n)
		if err != nil {
			return total, err
		}
		n, err = w.Write(CaptionSEI(f))
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

type ccEntry struct {
	ccType byte
	data   [2]byte
}

// a53Payload builds ATSC A/53 Part 4 GA94 cc_data. The pairs are copied
// as given, parity included.
func a53Payload(cc []ccEntry) []byte {
	if len(cc) > maxCCCount {
		cc = cc[:maxCCCount]
	}
	p := []byte{
		0xB5,       // itu_t_t35_country_code: United States
		0x00, 0x31, // itu_t_t35_provider_code: ATSC
		'G', 'A', '9', '4',
		0x03,                 // user_data_type_code: cc_data
		0x40 | byte(len(cc)), // process_cc_data_flag, cc_count
		0xFF,                 // em_data
	}
	for _, e := range cc {
		// marker bits, cc_valid, cc_type
		p = append(p, 0xFC|e.ccType&0x03, e.data[0], e.data[1])
	}
	return append(p, 0xFF)
}

// seiMessage encodes payloadType and the payload size with the 0xFF
// extension bytes used for values of 255 and above.
func seiMessage(payloadType int, payload []byte) []byte {
	var out []byte
	for pt := payloadType; ; pt -= 255 {
		if pt < 255 {
			out = append(out, byte(pt))
			break
		}
		out = append(out, 0xFF)
	}
	for ps := len(payload); ; ps -= 255 {
		if ps < 255 {
			out = append(out, byte(ps))
			break
		}
		out = append(out, 0xFF)
	}
	return append(out, payload...)
}

// addEPB inserts an emulation prevention byte before any byte <= 0x03 that
// follows two zero bytes.
func addEPB(data []byte) []byte {
	out := make([]byte, 0, len(data)+len(data)/16)
	zeros := 0
	for _, b := range data {
		if zeros >= 2 && b <= 0x03 {
			out = append(out, 0x03)
			zeros = 0
		}
		out = append(out, b)
		if b == 0x00 {
			zeros++
		} else {
			zeros = 0
		}
	}
	return out
}
