package source

// NAL unit types that carry SEI messages.
const (
	nalTypeSEI       = 6  // H.264
	hevcNALSEIPrefix = 39 // H.265
)

// nalUnit is one NAL unit from an Annex B byte stream, header included and
// start code removed.
type nalUnit struct {
	Type byte
	Data []byte
}

func h264NALType(d []byte) byte { return d[0] & 0x1F }

func hevcNALType(d []byte) byte { return (d[0] >> 1) & 0x3F }

// splitAnnexB scans an Annex B byte stream for 3- and 4-byte start codes
// and returns the NAL units between them. minNALBytes is 1 for H.264 and 2
// for H.265.
func splitAnnexB(data []byte, minNALBytes int, nalType func([]byte) byte) []nalUnit {
	n := len(data)
	if n < 4 {
		return nil
	}

	type scPos struct {
		scStart   int
		dataStart int
	}

	var positions []scPos
	i := 0
	for i < n-2 {
		if data[i] == 0 && data[i+1] == 0 {
			if i < n-3 && data[i+2] == 0 && data[i+3] == 1 {
				positions = append(positions, scPos{scStart: i, dataStart: i + 4})
				i += 4
				continue
			}
			if data[i+2] == 1 {
				positions = append(positions, scPos{scStart: i, dataStart: i + 3})
				i += 3
				continue
			}
		}
		i++
	}

	var units []nalUnit
	for idx, pos := range positions {
		end := n
		if idx+1 < len(positions) {
			end = positions[idx+1].scStart
		}
		if pos.dataStart >= end {
			continue
		}
		nal := data[pos.dataStart:end]
		if len(nal) < minNALBytes {
			continue
		}
		units = append(units, nalUnit{Type: nalType(nal), Data: nal})
	}
	return units
}
