package manifest

import (
	"fmt"
	"math"

	"github.com/anemoneflower/fdtkit/fdt"
)

// VM holds the configuration for one machine described in the manifest.
// Byte-slice fields alias the parsed blob and stay valid for as long as it
// does.
type VM struct {
	// DebugName labels the VM in diagnostics. Present for every VM.
	DebugName []byte

	// The fields below are defined only for secondary VMs. For the primary
	// VM they are deliberately left empty/zero and must not be read as
	// configured values.
	KernelFilename []byte
	MemSize        uint64
	VCPUCount      uint16
}

// decodeVM reads the properties of one vm<N> node. On any failure the
// returned VM is the zero value; output is never partially populated.
func decodeVM(node fdt.Node, id uint64) (VM, error) {
	var vm VM
	var err error
	if vm.DebugName, err = readString(node, "debug_name"); err != nil {
		return VM{}, err
	}
	if id == PrimaryVMID {
		return vm, nil
	}
	if vm.KernelFilename, err = readString(node, "kernel_filename"); err != nil {
		return VM{}, err
	}
	if vm.MemSize, err = readUint64(node, "mem_size"); err != nil {
		return VM{}, err
	}
	if vm.VCPUCount, err = readUint16(node, "vcpu_count"); err != nil {
		return VM{}, err
	}
	return vm, nil
}

// readString returns the property's bytes with the trailing NUL removed.
// The content is an opaque label; no charset validation happens here.
func readString(node fdt.Node, name string) ([]byte, error) {
	data, ok := node.Property(name)
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, ErrPropertyNotFound)
	}
	if len(data) == 0 || data[len(data)-1] != 0 {
		return nil, fmt.Errorf("%s: %w", name, ErrMalformedString)
	}
	return data[:len(data)-1], nil
}

func readUint64(node fdt.Node, name string) (uint64, error) {
	data, ok := node.Property(name)
	if !ok {
		return 0, fmt.Errorf("%s: %w", name, ErrPropertyNotFound)
	}
	v, ok := fdt.ParseNumber(data)
	if !ok {
		return 0, fmt.Errorf("%s: %w", name, ErrMalformedInteger)
	}
	return v, nil
}

// readUint16 narrows after parsing so "malformed" and "too large" stay
// distinct, diagnosable failures.
func readUint16(node fdt.Node, name string) (uint16, error) {
	v, err := readUint64(node, name)
	if err != nil {
		return 0, err
	}
	if v > math.MaxUint16 {
		return 0, fmt.Errorf("%s: %w", name, ErrIntegerOverflow)
	}
	return uint16(v), nil
}
