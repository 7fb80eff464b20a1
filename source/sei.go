package source

import (
	"io"

	"github.com/zsiec/ccx"
)

// SEIReader turns the CEA-608 byte pairs found in A/53 caption SEI messages
// into line-21 frames. Every SEI contributes as many frames as the larger of
// its field 1 and field 2 pair counts; a field with fewer pairs is padded
// with null pairs.
type SEIReader struct {
	nalus   []nalUnit
	isSEI   func(byte) bool
	pos     int
	pending [][4]byte
}

// NewSEIReader reads an H.264 Annex B elementary stream.
func NewSEIReader(data []byte) *SEIReader {
	return &SEIReader{
		nalus: splitAnnexB(data, 1, h264NALType),
		isSEI: func(t byte) bool { return t == nalTypeSEI },
	}
}

// NewHEVCSEIReader reads an H.265 Annex B elementary stream.
func NewHEVCSEIReader(data []byte) *SEIReader {
	return &SEIReader{
		nalus: splitAnnexB(data, 2, hevcNALType),
		isSEI: func(t byte) bool { return t == hevcNALSEIPrefix },
	}
}

// Next returns the next frame, or io.EOF once every SEI has been consumed.
func (s *SEIReader) Next() ([4]byte, error) {
	for len(s.pending) == 0 {
		if s.pos >= len(s.nalus) {
			return [4]byte{}, io.EOF
		}
		nal := s.nalus[s.pos]
		s.pos++
		if s.isSEI(nal.Type) {
			s.pending = framesFromSEI(nal.Data)
		}
	}
	frame := s.pending[0]
	s.pending = s.pending[1:]
	return frame, nil
}

func framesFromSEI(sei []byte) [][4]byte {
	cd := ccx.ExtractCaptions(sei)
	if cd == nil {
		return nil
	}

	var fields [2][][2]byte
	for _, pair := range cd.CC608Pairs {
		p := [2]byte{WithParity(pair.Data[0]), WithParity(pair.Data[1])}
		if pair.Field == 0 {
			fields[0] = append(fields[0], p)
		} else {
			fields[1] = append(fields[1], p)
		}
	}

	n := len(fields[0])
	if len(fields[1]) > n {
		n = len(fields[1])
	}
	frames := make([][4]byte, n)
	for i := range frames {
		frames[i] = [4]byte{Null, Null, Null, Null}
		if i < len(fields[0]) {
			frames[i][0], frames[i][1] = fields[0][i][0], fields[0][i][1]
		}
		if i < len(fields[1]) {
			frames[i][2], frames[i][3] = fields[1][i][0], fields[1][i][1]
		}
	}
	return frames
}
