// Package fdt provides read-only access to flattened device tree blobs.
//
// # Overview
//
// A flattened device tree (DTB) is the conventional wire format for
// describing a hierarchy of named nodes with typed byte-string properties:
// a fixed header, a memory reservation block, a structure block of tokens,
// and a strings block holding property names. This package validates the
// header and navigates the structure block without copying any of the
// untrusted input.
//
// # Key Types
//
//   - Header: the fixed fields at the start of every blob
//   - Node: a cheap, copyable cursor into the structure block
//
// # Opening a Blob
//
//	root, err := fdt.Root(blob)
//	if err != nil {
//	    return err
//	}
//	node, ok := root.FindChild("")
//	if !ok {
//	    return errors.New("no top-level node")
//	}
//
// The unnamed top-level node is a child of the Root cursor, mirroring the
// structure block's own layout: Root sits before the first BEGIN_NODE token
// and FindChild("") enters it.
//
// # Zero-Copy Design
//
// Node values are views over the original byte slice (block slices plus a
// token offset). Property values returned by Property alias the blob and
// stay valid for as long as the blob does. No allocation is performed while
// navigating.
//
// # Thread Safety
//
// The blob is never written. Any number of goroutines may navigate the same
// blob concurrently through their own Node values.
package fdt
