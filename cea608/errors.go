package cea608

import "errors"

// ErrInvalidChannel is returned when a channel selector has bits set outside
// the sub-channel, field and text-mode positions.
var ErrInvalidChannel = errors.New("cea608: invalid channel")
