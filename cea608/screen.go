package cea608

import "strings"

// Screen dimensions fixed by EIA-608.
const (
	Rows    = 15
	Columns = 32
)

// Screen is a caption memory's characters. A zero rune is an empty cell.
type Screen [Rows][Columns]rune

// Attributes holds the style of every cell, index-aligned with a Screen.
type Attributes [Rows][Columns]Attribute

// Row returns row i as a string with empty cells as spaces and trailing
// spaces trimmed. Out-of-range rows return "".
func (s *Screen) Row(i int) string {
	if i < 0 || i >= Rows {
		return ""
	}
	var b strings.Builder
	for _, r := range s[i] {
		if r == 0 {
			r = ' '
		}
		b.WriteRune(r)
	}
	return strings.TrimRight(b.String(), " ")
}

// Lines returns the non-blank rows from top to bottom.
func (s *Screen) Lines() []string {
	var lines []string
	for i := 0; i < Rows; i++ {
		if row := s.Row(i); row != "" {
			lines = append(lines, row)
		}
	}
	return lines
}

// Text returns Lines joined with newlines.
func (s *Screen) Text() string {
	return strings.Join(s.Lines(), "\n")
}

// IsEmpty reports whether every cell is empty.
func (s *Screen) IsEmpty() bool {
	for i := range s {
		for _, r := range s[i] {
			if r != 0 {
				return false
			}
		}
	}
	return true
}

// memory is one caption memory: characters and their attributes.
type memory struct {
	chars Screen
	attrs Attributes
}

func (m *memory) clear() {
	m.chars = Screen{}
	m.attrs = Attributes{}
}

func (m *memory) clearRow(row, fromCol int) {
	for c := fromCol; c < Columns; c++ {
		m.chars[row][c] = 0
		m.attrs[row][c] = 0
	}
}

func (m *memory) copyRow(dst, src int) {
	m.chars[dst] = m.chars[src]
	m.attrs[dst] = m.attrs[src]
}
