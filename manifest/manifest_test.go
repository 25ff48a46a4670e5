package manifest

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anemoneflower/fdtkit/fdt"
	"github.com/anemoneflower/fdtkit/internal/dtbtest"
)

// primaryNode builds a vm node carrying only the reduced primary field set.
func primaryNode(debugName string) dtbtest.Node {
	return dtbtest.Node{
		Name:  fmt.Sprintf("vm%d", PrimaryVMID),
		Props: []dtbtest.Prop{dtbtest.String("debug_name", debugName)},
	}
}

// secondaryNode builds a fully populated secondary vm node.
func secondaryNode(id uint64, debugName, kernel string, memSize uint64, vcpus uint32) dtbtest.Node {
	return dtbtest.Node{
		Name: fmt.Sprintf("vm%d", id),
		Props: []dtbtest.Prop{
			dtbtest.String("debug_name", debugName),
			dtbtest.Cell("vcpu_count", vcpus),
			dtbtest.Cell("mem_size", uint32(memSize)),
			dtbtest.String("kernel_filename", kernel),
		},
	}
}

func hypervisorTree(vms ...dtbtest.Node) []byte {
	return dtbtest.Build(dtbtest.Node{
		Children: []dtbtest.Node{{Name: "hypervisor", Children: vms}},
	})
}

func TestParseGarbage(t *testing.T) {
	var m Manifest
	require.ErrorIs(t, m.Parse(nil), ErrCorruptedFdt)
	require.ErrorIs(t, m.Parse([]byte("this is not a device tree blob")), ErrCorruptedFdt)
}

func TestParseNoRootNode(t *testing.T) {
	blob := dtbtest.Build(dtbtest.Node{})
	// Overwrite the top-level BEGIN_NODE token with END: the structure
	// block then contains no node at all.
	hdr, err := fdt.ParseHeader(blob)
	require.NoError(t, err)
	copy(blob[hdr.OffStruct:], []byte{0, 0, 0, 9})
	require.ErrorIs(t, new(Manifest).Parse(blob), ErrNoRootFdtNode)
}

func TestParseEmptyRoot(t *testing.T) {
	var m Manifest
	err := m.Parse(dtbtest.Build(dtbtest.Node{}))
	require.ErrorIs(t, err, ErrNoHypervisorFdtNode)
}

func TestParseNoVMs(t *testing.T) {
	var m Manifest
	err := m.Parse(hypervisorTree())
	require.ErrorIs(t, err, ErrNoPrimaryVM)
	assert.Zero(t, m.Len())
}

func TestParseReservedVMID(t *testing.T) {
	// The reserved vm0 must be rejected even though a valid primary exists.
	reserved := secondaryNode(HypervisorVMID, "reserved_vm", "kernel", 4096, 1)
	err := new(Manifest).Parse(hypervisorTree(primaryNode("primary_vm"), reserved))
	require.ErrorIs(t, err, ErrReservedVMID)
}

func TestParseValid(t *testing.T) {
	// Declaration order (vm1, vm3, vm2) differs from ID order on purpose;
	// enumeration probes IDs sequentially, so the result is ID-ordered.
	blob := hypervisorTree(
		primaryNode("primary_vm"),
		secondaryNode(3, "second_secondary_vm", "second_kernel", 0x12345, 43),
		secondaryNode(2, "first_secondary_vm", "first_kernel", 12345, 42),
	)

	var m Manifest
	require.NoError(t, m.Parse(blob))
	require.Equal(t, 3, m.Len())
	vms := m.VMs()

	assert.Equal(t, []byte("primary_vm"), vms[0].DebugName)
	assert.Empty(t, vms[0].KernelFilename)
	assert.Zero(t, vms[0].MemSize)
	assert.Zero(t, vms[0].VCPUCount)

	assert.Equal(t, []byte("first_secondary_vm"), vms[1].DebugName)
	assert.Equal(t, []byte("first_kernel"), vms[1].KernelFilename)
	assert.Equal(t, uint64(12345), vms[1].MemSize)
	assert.Equal(t, uint16(42), vms[1].VCPUCount)

	assert.Equal(t, []byte("second_secondary_vm"), vms[2].DebugName)
	assert.Equal(t, []byte("second_kernel"), vms[2].KernelFilename)
	assert.Equal(t, uint64(0x12345), vms[2].MemSize)
	assert.Equal(t, uint16(43), vms[2].VCPUCount)
}

func TestParseWideMemSize(t *testing.T) {
	wide := dtbtest.Node{
		Name: "vm2",
		Props: []dtbtest.Prop{
			dtbtest.String("debug_name", "big"),
			dtbtest.Cell("vcpu_count", 1),
			dtbtest.Cell64("mem_size", 1<<33),
			dtbtest.String("kernel_filename", "kernel"),
		},
	}
	var m Manifest
	require.NoError(t, m.Parse(hypervisorTree(primaryNode("primary"), wide)))
	assert.Equal(t, uint64(1)<<33, m.VMs()[1].MemSize)
}

func TestParseVCPUCountBoundary(t *testing.T) {
	build := func(vcpus uint32) []byte {
		return hypervisorTree(
			primaryNode(""),
			secondaryNode(2, "", "", 0, vcpus),
		)
	}

	// The same Manifest instance is reused across both parses.
	var m Manifest
	require.NoError(t, m.Parse(build(65535)))
	require.Equal(t, 2, m.Len())
	assert.Equal(t, uint16(65535), m.VMs()[1].VCPUCount)

	require.ErrorIs(t, m.Parse(build(65536)), ErrIntegerOverflow)
}

func TestParseCapacity(t *testing.T) {
	full := []dtbtest.Node{primaryNode("primary")}
	for i := 1; i < MaxVMs; i++ {
		id := uint64(VMIDOffset + i)
		full = append(full, secondaryNode(id, "vm", "kernel", 0x1000, 1))
	}

	var m Manifest
	require.NoError(t, m.Parse(hypervisorTree(full...)))
	assert.Equal(t, MaxVMs, m.Len())

	over := append(full, secondaryNode(VMIDOffset+MaxVMs, "vm", "kernel", 0x1000, 1))
	require.ErrorIs(t, m.Parse(hypervisorTree(over...)), ErrTooManyVMs)
}

func TestParseGapTruncates(t *testing.T) {
	// vm2 is missing: enumeration stops there and vm3 is silently dropped.
	blob := hypervisorTree(
		primaryNode("primary"),
		secondaryNode(3, "orphan", "kernel", 0x1000, 1),
	)
	var m Manifest
	require.NoError(t, m.Parse(blob))
	assert.Equal(t, 1, m.Len())
}

func TestParsePropertyErrors(t *testing.T) {
	withProps := func(props ...dtbtest.Prop) []byte {
		return hypervisorTree(
			primaryNode("primary"),
			dtbtest.Node{Name: "vm2", Props: props},
		)
	}
	debug := dtbtest.String("debug_name", "secondary")
	kernel := dtbtest.String("kernel_filename", "kernel")
	mem := dtbtest.Cell("mem_size", 0x1000)

	var m Manifest

	// Required property absent entirely.
	require.ErrorIs(t, m.Parse(withProps(debug)), ErrPropertyNotFound)

	// String without its NUL terminator.
	require.ErrorIs(t,
		m.Parse(withProps(debug, dtbtest.Prop{Name: "kernel_filename", Value: []byte("kernel")})),
		ErrMalformedString)

	// Zero-length value cannot hold a terminator.
	require.ErrorIs(t,
		m.Parse(withProps(debug, dtbtest.Prop{Name: "kernel_filename", Value: nil})),
		ErrMalformedString)

	// Integer cell of a length the format does not define.
	require.ErrorIs(t,
		m.Parse(withProps(debug, kernel, dtbtest.Prop{Name: "mem_size", Value: []byte{1, 2, 3}})),
		ErrMalformedInteger)

	// vcpu_count missing after everything else decoded.
	require.ErrorIs(t, m.Parse(withProps(debug, kernel, mem)), ErrPropertyNotFound)
}

func TestReparseLeavesNoResidue(t *testing.T) {
	var m Manifest
	require.NoError(t, m.Parse(hypervisorTree(
		primaryNode("primary"),
		secondaryNode(2, "a", "k", 1, 1),
		secondaryNode(3, "b", "k", 1, 1),
	)))
	require.Equal(t, 3, m.Len())

	require.NoError(t, m.Parse(hypervisorTree(primaryNode("only"))))
	require.Equal(t, 1, m.Len())
	assert.Equal(t, []byte("only"), m.VMs()[0].DebugName)

	require.ErrorIs(t, m.Parse(hypervisorTree()), ErrNoPrimaryVM)
	assert.Empty(t, m.VMs())
}

func TestVMNodeName(t *testing.T) {
	var buf [vmNameBufSize]byte
	assert.Equal(t, "vm0", vmNodeName(&buf, 0))
	assert.Equal(t, "vm1", vmNodeName(&buf, 1))
	assert.Equal(t, "vm17", vmNodeName(&buf, 17))
	// Largest ID the buffer is sized for.
	assert.Equal(t, "vm99999", vmNodeName(&buf, 99999))
	assert.Less(t, VMIDOffset+MaxVMs, 100000)
}
