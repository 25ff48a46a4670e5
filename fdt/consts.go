package fdt

// Magic is the big-endian signature occupying the first header word of
// every flattened device tree blob.
const Magic = 0xd00dfeed

// HeaderSize is the size of the fixed header in bytes (version 17 layout).
const HeaderSize = 40

// MaxCompatibleVersion is the newest structure version this package
// understands. Blobs whose last-compatible-version exceeds it are rejected.
const MaxCompatibleVersion = 17

// Header field offsets. All fields are big-endian 32-bit words.
const (
	magicOffset           = 0x00
	totalSizeOffset       = 0x04
	offStructOffset       = 0x08
	offStringsOffset      = 0x0C
	offMemRsvMapOffset    = 0x10
	versionOffset         = 0x14
	lastCompVersionOffset = 0x18
	bootCPUIDOffset       = 0x1C
	sizeStringsOffset     = 0x20
	sizeStructOffset      = 0x24
)

// Structure block tokens. Every token starts on a 4-byte boundary.
const (
	tokenBeginNode uint32 = 0x01
	tokenEndNode   uint32 = 0x02
	tokenProp      uint32 = 0x03
	tokenNop       uint32 = 0x04
	tokenEnd       uint32 = 0x09
)

const (
	tokenAlignment     = 4
	tokenAlignmentMask = tokenAlignment - 1
)
