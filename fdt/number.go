package fdt

import "github.com/anemoneflower/fdtkit/internal/buf"

// ParseNumber decodes a property value in the tree's native cell encoding:
// one big-endian 32-bit cell, or two cells forming a 64-bit value with the
// high word first. Any other length is invalid.
func ParseNumber(b []byte) (uint64, bool) {
	switch len(b) {
	case 4:
		return uint64(buf.U32BE(b)), true
	case 8:
		return buf.U64BE(b), true
	default:
		return 0, false
	}
}
