// Package manifest decodes the boot manifest a hypervisor reads from a
// flattened device tree: the list of VMs to instantiate, found as numbered
// "vm<N>" children of the tree's "hypervisor" node.
//
// The decoder is the trust boundary between operator-supplied boot
// configuration and the hypervisor, so every failure maps to exactly one
// sentinel error and the first failure aborts the whole parse. It performs
// no I/O and no logging; callers hand it a fully resident blob.
package manifest

import (
	"fmt"
	"strconv"

	"github.com/anemoneflower/fdtkit/fdt"
)

const (
	// HypervisorVMID is the ID the hypervisor reserves for its own
	// bookkeeping. IDs below VMIDOffset must never appear as manifest nodes.
	HypervisorVMID = 0
	// VMIDOffset is the first ID assignable to a guest VM.
	VMIDOffset = 1
	// PrimaryVMID identifies the single privileged primary VM.
	PrimaryVMID = VMIDOffset
	// MaxVMs bounds how many VMs one manifest may define. It matches the
	// hypervisor's statically allocated VM table.
	MaxVMs = 16
)

// vmNameBufSize fits "vm" plus the decimal digits of any valid ID.
// VMIDOffset+MaxVMs must stay below 100000 for five digit slots to suffice.
const vmNameBufSize = 2 + 5

// Manifest is the decoded VM table. The zero value is ready for Parse.
// A Manifest must not be parsed into from more than one goroutine at a
// time; after a successful Parse it is read-only.
type Manifest struct {
	vms [MaxVMs]VM
	n   int
}

// Len returns the number of decoded VMs.
func (m *Manifest) Len() int { return m.n }

// VMs returns the decoded records in discovery order. The slice aliases the
// manifest's backing array and is valid until the next Parse.
func (m *Manifest) VMs() []VM { return m.vms[:m.n] }

// Parse decodes the manifest from blob, replacing any previous contents of
// m. VM nodes must form a contiguous run of IDs starting at VMIDOffset;
// enumeration stops at the first missing node, so a gap in the numbering
// truncates the table rather than failing.
func (m *Manifest) Parse(blob []byte) error {
	m.n = 0

	root, err := fdt.Root(blob)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCorruptedFdt, err)
	}
	top, ok := root.FindChild("")
	if !ok {
		return ErrNoRootFdtNode
	}
	hyp, ok := top.FindChild("hypervisor")
	if !ok {
		return ErrNoHypervisorFdtNode
	}

	var nameBuf [vmNameBufSize]byte

	// Reserved IDs are implicitly occupied by the hypervisor itself and must
	// not be shadowed by configuration nodes.
	for id := uint64(0); id < VMIDOffset; id++ {
		if _, ok := hyp.FindChild(vmNodeName(&nameBuf, id)); ok {
			return ErrReservedVMID
		}
	}

	foundPrimary := false
	// The MaxVMs-th probe exists only to detect overflow before anything
	// past capacity is committed.
	for i := 0; i <= MaxVMs; i++ {
		id := uint64(VMIDOffset + i)
		node, ok := hyp.FindChild(vmNodeName(&nameBuf, id))
		if !ok {
			break
		}
		if i == MaxVMs {
			return ErrTooManyVMs
		}
		if id == PrimaryVMID {
			foundPrimary = true
		}
		vm, err := decodeVM(node, id)
		if err != nil {
			return fmt.Errorf("vm%d: %w", id, err)
		}
		m.vms[m.n] = vm
		m.n++
	}

	if !foundPrimary {
		return ErrNoPrimaryVM
	}
	return nil
}

// vmNodeName formats "vm" followed by id in decimal, writing into the
// caller's fixed buffer.
func vmNodeName(buf *[vmNameBufSize]byte, id uint64) string {
	b := append(buf[:0], 'v', 'm')
	b = strconv.AppendUint(b, id, 10)
	return string(b)
}
