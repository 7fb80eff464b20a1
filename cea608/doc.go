// Package cea608 decodes EIA-608 (CEA-608) line-21 closed captions.
//
// A [Decoder] consumes one frame of line-21 data at a time: four bytes, two
// parity-protected bytes for each field. It keeps the caption display as two
// 15x32 memories of runes and [Attribute] values, one displayed and one
// non-displayed, and implements the pop-on, roll-up, paint-on and text modes
// on top of them. Only the [Channel] selected with [Decoder.SetWanted] is
// decoded; traffic for the other seven channels is absorbed.
//
// A Decoder is not safe for concurrent use. Decode several channels at once
// by creating one Decoder per channel.
package cea608
