package fdt

import "errors"

var (
	// ErrTruncated indicates the buffer lacked the bytes required for a structure.
	ErrTruncated = errors.New("fdt: truncated buffer")
	// ErrBadMagic indicates the first header word was not the FDT signature.
	ErrBadMagic = errors.New("fdt: magic mismatch")
	// ErrBadVersion indicates the blob requires a newer structure version than supported.
	ErrBadVersion = errors.New("fdt: unsupported version")
	// ErrMalformedStructure indicates declared block offsets or sizes do not fit the buffer.
	ErrMalformedStructure = errors.New("fdt: malformed structure")
)
