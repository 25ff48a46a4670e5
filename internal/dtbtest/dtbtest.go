// Package dtbtest serializes small device trees for tests. It emits the
// conventional wire layout (version 17 header, one terminating memory
// reservation entry, structure block, strings block) so decoder tests can
// construct inputs programmatically instead of shipping compiled blobs.
package dtbtest

import "encoding/binary"

// Prop is a named property attached to a Node.
type Prop struct {
	Name  string
	Value []byte
}

// Node is one element of the tree to serialize. The top-level node passed
// to Build keeps whatever Name it carries; real trees use "".
type Node struct {
	Name     string
	Props    []Prop
	Children []Node
}

// String returns a Prop holding s plus the trailing NUL that string
// properties carry on the wire.
func String(name, s string) Prop {
	return Prop{Name: name, Value: append([]byte(s), 0)}
}

// Cell returns a Prop holding a single big-endian 32-bit cell.
func Cell(name string, v uint32) Prop {
	return Prop{Name: name, Value: binary.BigEndian.AppendUint32(nil, v)}
}

// Cell64 returns a Prop holding two big-endian cells, high word first.
func Cell64(name string, v uint64) Prop {
	return Prop{Name: name, Value: binary.BigEndian.AppendUint64(nil, v)}
}

const (
	headerSize = 40
	memRsvSize = 16 // one all-zero terminating entry

	tokenBeginNode = 0x01
	tokenEndNode   = 0x02
	tokenProp      = 0x03
	tokenEnd       = 0x09
)

// Build serializes root into a complete blob.
func Build(root Node) []byte {
	var strct, strings []byte
	nameOffs := make(map[string]uint32)
	stringOff := func(name string) uint32 {
		if off, ok := nameOffs[name]; ok {
			return off
		}
		off := uint32(len(strings))
		nameOffs[name] = off
		strings = append(append(strings, name...), 0)
		return off
	}
	word := func(v uint32) {
		strct = binary.BigEndian.AppendUint32(strct, v)
	}
	pad := func() {
		for len(strct)%4 != 0 {
			strct = append(strct, 0)
		}
	}

	var emit func(n Node)
	emit = func(n Node) {
		word(tokenBeginNode)
		strct = append(append(strct, n.Name...), 0)
		pad()
		for _, p := range n.Props {
			word(tokenProp)
			word(uint32(len(p.Value)))
			word(stringOff(p.Name))
			strct = append(strct, p.Value...)
			pad()
		}
		for _, c := range n.Children {
			emit(c)
		}
		word(tokenEndNode)
	}
	emit(root)
	word(tokenEnd)

	offStruct := uint32(headerSize + memRsvSize)
	offStrings := offStruct + uint32(len(strct))
	total := offStrings + uint32(len(strings))

	blob := make([]byte, 0, total)
	hdr := func(v uint32) {
		blob = binary.BigEndian.AppendUint32(blob, v)
	}
	hdr(0xd00dfeed)           // magic
	hdr(total)                // totalsize
	hdr(offStruct)            // off_dt_struct
	hdr(offStrings)           // off_dt_strings
	hdr(headerSize)           // off_mem_rsvmap
	hdr(17)                   // version
	hdr(16)                   // last_comp_version
	hdr(0)                    // boot_cpuid_phys
	hdr(uint32(len(strings))) // size_dt_strings
	hdr(uint32(len(strct)))   // size_dt_struct
	blob = append(blob, make([]byte, memRsvSize)...)
	blob = append(blob, strct...)
	blob = append(blob, strings...)
	return blob
}
