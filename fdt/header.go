package fdt

import (
	"fmt"

	"github.com/anemoneflower/fdtkit/internal/buf"
)

// Header captures the fixed fields at the start of a flattened device tree
// blob. The diagram below shows the layout; every field is a big-endian
// 32-bit word.
//
//	Offset  Size  Description
//	------  ----  ----------------------------------------------------------
//	 0x00    4    Magic (0xd00dfeed)
//	 0x04    4    Total size of the blob
//	 0x08    4    Offset of the structure block
//	 0x0C    4    Offset of the strings block
//	 0x10    4    Offset of the memory reservation block
//	 0x14    4    Version
//	 0x18    4    Last compatible version
//	 0x1C    4    Boot CPU physical ID
//	 0x20    4    Size of the strings block
//	 0x24    4    Size of the structure block
type Header struct {
	TotalSize       uint32
	OffStruct       uint32
	OffStrings      uint32
	OffMemRsvMap    uint32
	Version         uint32
	LastCompVersion uint32
	BootCPUID       uint32
	SizeStrings     uint32
	SizeStruct      uint32
}

// ParseHeader validates and extracts the header from b. Beyond the fixed
// fields it checks that the declared total size fits the buffer and that
// both the structure and strings blocks lie inside the declared total size,
// so later navigation can trust the block slices.
func ParseHeader(b []byte) (Header, error) {
	if len(b) < HeaderSize {
		return Header{}, fmt.Errorf("fdt header: %w", ErrTruncated)
	}
	if buf.U32BE(b[magicOffset:]) != Magic {
		return Header{}, fmt.Errorf("fdt header: %w", ErrBadMagic)
	}
	h := Header{
		TotalSize:       buf.U32BE(b[totalSizeOffset:]),
		OffStruct:       buf.U32BE(b[offStructOffset:]),
		OffStrings:      buf.U32BE(b[offStringsOffset:]),
		OffMemRsvMap:    buf.U32BE(b[offMemRsvMapOffset:]),
		Version:         buf.U32BE(b[versionOffset:]),
		LastCompVersion: buf.U32BE(b[lastCompVersionOffset:]),
		BootCPUID:       buf.U32BE(b[bootCPUIDOffset:]),
		SizeStrings:     buf.U32BE(b[sizeStringsOffset:]),
		SizeStruct:      buf.U32BE(b[sizeStructOffset:]),
	}
	if h.LastCompVersion > MaxCompatibleVersion {
		return Header{}, fmt.Errorf("fdt header: %w (last compatible version %d)", ErrBadVersion, h.LastCompVersion)
	}
	if h.TotalSize < HeaderSize || uint64(h.TotalSize) > uint64(len(b)) {
		return Header{}, fmt.Errorf("fdt header: %w (total size %d, buffer %d)", ErrMalformedStructure, h.TotalSize, len(b))
	}
	if h.OffStruct&tokenAlignmentMask != 0 {
		return Header{}, fmt.Errorf("fdt header: %w (structure block misaligned)", ErrMalformedStructure)
	}
	if uint64(h.OffStruct)+uint64(h.SizeStruct) > uint64(h.TotalSize) {
		return Header{}, fmt.Errorf("fdt header: %w (structure block out of bounds)", ErrMalformedStructure)
	}
	if uint64(h.OffStrings)+uint64(h.SizeStrings) > uint64(h.TotalSize) {
		return Header{}, fmt.Errorf("fdt header: %w (strings block out of bounds)", ErrMalformedStructure)
	}
	return h, nil
}
