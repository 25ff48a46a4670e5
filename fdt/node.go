package fdt

import (
	"bytes"

	"github.com/anemoneflower/fdtkit/internal/buf"
)

// Node is a cursor into the structure block of a blob. The zero value is
// not useful; obtain one from Root. Nodes are cheap to copy and never own
// the bytes they point into.
type Node struct {
	strct   []byte // structure block of the blob
	strings []byte // strings block of the blob
	off     int    // offset of the next token inside this node's body
}

// Root validates the blob's header and returns a cursor positioned before
// the top-level BEGIN_NODE token. Use FindChild("") to enter the unnamed
// top-level node.
func Root(blob []byte) (Node, error) {
	h, err := ParseHeader(blob)
	if err != nil {
		return Node{}, err
	}
	return Node{
		strct:   blob[h.OffStruct : h.OffStruct+h.SizeStruct],
		strings: blob[h.OffStrings : h.OffStrings+h.SizeStrings],
	}, nil
}

// token reads the 32-bit token at off and the offset just past it.
func (n Node) token(off int) (tok uint32, next int, ok bool) {
	b, ok := buf.Slice(n.strct, off, 4)
	if !ok {
		return 0, 0, false
	}
	return buf.U32BE(b), off + 4, true
}

// nodeName reads the NUL-terminated name that follows a BEGIN_NODE token
// and returns the 4-byte-aligned offset of the node's first body token.
func (n Node) nodeName(off int) (name []byte, body int, ok bool) {
	if off < 0 || off > len(n.strct) {
		return nil, 0, false
	}
	rel := bytes.IndexByte(n.strct[off:], 0)
	if rel < 0 {
		return nil, 0, false
	}
	name = n.strct[off : off+rel]
	body = (off + rel + 1 + tokenAlignmentMask) &^ tokenAlignmentMask
	if body > len(n.strct) {
		return nil, 0, false
	}
	return name, body, true
}

// prop reads the length/name-offset words of a PROP token whose header
// starts at off, returning the value bytes and the offset of the next token.
func (n Node) prop(off int) (nameOff uint32, value []byte, next int, ok bool) {
	hdr, ok := buf.Slice(n.strct, off, 8)
	if !ok {
		return 0, nil, 0, false
	}
	length := int(buf.U32BE(hdr))
	nameOff = buf.U32BE(hdr[4:])
	value, ok = buf.Slice(n.strct, off+8, length)
	if !ok {
		return 0, nil, 0, false
	}
	next = (off + 8 + length + tokenAlignmentMask) &^ tokenAlignmentMask
	if next > len(n.strct) {
		return 0, nil, 0, false
	}
	return nameOff, value, next, true
}

// propName resolves a property name offset against the strings block.
func (n Node) propName(nameOff uint32) ([]byte, bool) {
	if uint64(nameOff) >= uint64(len(n.strings)) {
		return nil, false
	}
	rel := bytes.IndexByte(n.strings[nameOff:], 0)
	if rel < 0 {
		return nil, false
	}
	return n.strings[nameOff : int(nameOff)+rel], true
}

// FindChild descends into the direct child of n named name, skipping nested
// subtrees. The returned Node is an independent cursor; n is unchanged, so
// repeated lookups from the same parent always start fresh. Malformed
// structure reads report the child as absent.
func (n Node) FindChild(name string) (Node, bool) {
	off := n.off
	depth := 0
	for {
		tok, next, ok := n.token(off)
		if !ok {
			return Node{}, false
		}
		switch tok {
		case tokenBeginNode:
			childName, body, ok := n.nodeName(next)
			if !ok {
				return Node{}, false
			}
			if depth == 0 && string(childName) == name {
				return Node{strct: n.strct, strings: n.strings, off: body}, true
			}
			depth++
			off = body
		case tokenEndNode:
			if depth == 0 {
				return Node{}, false
			}
			depth--
			off = next
		case tokenProp:
			_, _, after, ok := n.prop(next)
			if !ok {
				return Node{}, false
			}
			off = after
		case tokenNop:
			off = next
		default:
			// tokenEnd, or a token value the format does not define.
			return Node{}, false
		}
	}
}

// Property returns the raw value of the named property defined directly on
// n. Properties precede child nodes in the structure block, so the scan
// stops at the first structural token.
func (n Node) Property(name string) ([]byte, bool) {
	off := n.off
	for {
		tok, next, ok := n.token(off)
		if !ok {
			return nil, false
		}
		switch tok {
		case tokenProp:
			nameOff, value, after, ok := n.prop(next)
			if !ok {
				return nil, false
			}
			pname, ok := n.propName(nameOff)
			if !ok {
				return nil, false
			}
			if string(pname) == name {
				return value, true
			}
			off = after
		case tokenNop:
			off = next
		default:
			return nil, false
		}
	}
}

// VisitProperties invokes fn for each property defined directly on n, in
// declaration order. Iteration stops early when fn returns false, or at the
// first malformed token.
func (n Node) VisitProperties(fn func(name string, value []byte) bool) {
	off := n.off
	for {
		tok, next, ok := n.token(off)
		if !ok {
			return
		}
		switch tok {
		case tokenProp:
			nameOff, value, after, ok := n.prop(next)
			if !ok {
				return
			}
			pname, ok := n.propName(nameOff)
			if !ok {
				return
			}
			if !fn(string(pname), value) {
				return
			}
			off = after
		case tokenNop:
			off = next
		default:
			return
		}
	}
}

// VisitChildren invokes fn for each direct child of n, in declaration
// order. Iteration stops early when fn returns false, or at the first
// malformed token.
func (n Node) VisitChildren(fn func(name string, child Node) bool) {
	off := n.off
	depth := 0
	for {
		tok, next, ok := n.token(off)
		if !ok {
			return
		}
		switch tok {
		case tokenBeginNode:
			childName, body, ok := n.nodeName(next)
			if !ok {
				return
			}
			if depth == 0 {
				if !fn(string(childName), Node{strct: n.strct, strings: n.strings, off: body}) {
					return
				}
			}
			depth++
			off = body
		case tokenEndNode:
			if depth == 0 {
				return
			}
			depth--
			off = next
		case tokenProp:
			_, _, after, ok := n.prop(next)
			if !ok {
				return
			}
			off = after
		case tokenNop:
			off = next
		default:
			return
		}
	}
}
