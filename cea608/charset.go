package cea608

// Character sets, indexed from the first code of each range. Runes are
// fixed Unicode scalars so output never depends on the host locale.

// basicSet covers the printable range 0x20-0x7F.
var basicSet = [96]rune{
	' ', '!', '"', '#', '$', '%', '&', '\'', // 0x20
	'(', ')', 'á', '+', ',', '-', '.', '/', // 0x28
	'0', '1', '2', '3', '4', '5', '6', '7', // 0x30
	'8', '9', ':', ';', '<', '=', '>', '?', // 0x38
	'@', 'A', 'B', 'C', 'D', 'E', 'F', 'G', // 0x40
	'H', 'I', 'J', 'K', 'L', 'M', 'N', 'O', // 0x48
	'P', 'Q', 'R', 'S', 'T', 'U', 'V', 'W', // 0x50
	'X', 'Y', 'Z', '[', 'é', ']', 'í', 'ó', // 0x58
	'ú', 'a', 'b', 'c', 'd', 'e', 'f', 'g', // 0x60
	'h', 'i', 'j', 'k', 'l', 'm', 'n', 'o', // 0x68
	'p', 'q', 'r', 's', 't', 'u', 'v', 'w', // 0x70
	'x', 'y', 'z', 'ç', '÷', 'Ñ', 'ñ', '█', // 0x78
}

// specialSet covers 0x11 0x30-0x3F. 0x39 is the transparent space and
// leaves an empty cell.
var specialSet = [16]rune{
	'®', '°', '½', '¿', '™', '¢', '£', '♪', // 0x30
	'à', 0, 'è', 'â', 'ê', 'î', 'ô', 'û', // 0x38
}

// extendedSetA covers 0x12 0x20-0x3F (Spanish, French, miscellaneous).
var extendedSetA = [32]rune{
	'Á', 'É', 'Ó', 'Ú', 'Ü', 'ü', '‘', '¡', // 0x20
	'*', '’', '—', '©', '℠', '•', '“', '”', // 0x28
	'À', 'Â', 'Ç', 'È', 'Ê', 'Ë', 'ë', 'Î', // 0x30
	'Ï', 'ï', 'Ô', 'Ù', 'ù', 'Û', '«', '»', // 0x38
}

// extendedSetB covers 0x13 0x20-0x3F (Portuguese, German, Danish).
var extendedSetB = [32]rune{
	'Ã', 'ã', 'Í', 'Ì', 'ì', 'Ò', 'ò', 'Õ', // 0x20
	'õ', '{', '}', '\\', '^', '_', '|', '~', // 0x28
	'Ä', 'ä', 'Ö', 'ö', 'ß', '¥', '¤', '│', // 0x30
	'Å', 'å', 'Ø', 'ø', '┌', '┐', '└', '┘', // 0x38
}

// CharClass says how a character is transmitted.
type CharClass uint8

const (
	// CharUnsupported has no line-21 code.
	CharUnsupported CharClass = iota
	// CharBasic is one byte of a character pair.
	CharBasic
	// CharSpecial is a control pair that appends a character.
	CharSpecial
	// CharExtended is a control pair that replaces the preceding character.
	CharExtended
)

type charCode struct {
	class CharClass
	code  [2]byte
}

// charCodes maps each rune to its code, preferring the basic set, then the
// special set, then the extended sets.
var charCodes = func() map[rune]charCode {
	m := make(map[rune]charCode, len(basicSet)+len(specialSet)+len(extendedSetA)+len(extendedSetB))
	add := func(r rune, c charCode) {
		if _, ok := m[r]; !ok && r != 0 {
			m[r] = c
		}
	}
	for i, r := range basicSet {
		add(r, charCode{CharBasic, [2]byte{0x20 + byte(i), 0}})
	}
	for i, r := range specialSet {
		add(r, charCode{CharSpecial, [2]byte{0x11, 0x30 + byte(i)}})
	}
	for i, r := range extendedSetA {
		add(r, charCode{CharExtended, [2]byte{0x12, 0x20 + byte(i)}})
	}
	for i, r := range extendedSetB {
		add(r, charCode{CharExtended, [2]byte{0x13, 0x20 + byte(i)}})
	}
	return m
}()

// Lookup returns how r is transmitted. For CharBasic the character byte is
// code[0]; otherwise code is the channel 1 control pair, without parity.
func Lookup(r rune) (class CharClass, code [2]byte) {
	c, ok := charCodes[r]
	if !ok {
		return CharUnsupported, code
	}
	return c.class, c.code
}
