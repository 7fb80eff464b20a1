//go:build !cea608debug

package cea608

const debugInvariants = false
