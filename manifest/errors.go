package manifest

import "errors"

// Parse failures form a closed set. Boot treats every one of them as fatal,
// so each variant names exactly one cause and carries its own message.
var (
	// ErrCorruptedFdt indicates the blob failed device tree validation.
	ErrCorruptedFdt = errors.New("manifest failed FDT validation")
	// ErrNoRootFdtNode indicates the tree has no top-level node.
	ErrNoRootFdtNode = errors.New("could not find root node of manifest")
	// ErrNoHypervisorFdtNode indicates the "hypervisor" node is missing.
	ErrNoHypervisorFdtNode = errors.New(`could not find "hypervisor" node in manifest`)
	// ErrReservedVMID indicates a VM node shadows a reserved identifier.
	ErrReservedVMID = errors.New("manifest defines a VM with a reserved ID")
	// ErrNoPrimaryVM indicates no primary VM entry was present.
	ErrNoPrimaryVM = errors.New("manifest does not contain a primary VM entry")
	// ErrTooManyVMs indicates more VM nodes than the static table can hold.
	ErrTooManyVMs = errors.New("manifest specifies more VMs than the statically allocated space allows")
	// ErrPropertyNotFound indicates a required property was absent.
	ErrPropertyNotFound = errors.New("property not found")
	// ErrMalformedString indicates a string property without its terminator.
	ErrMalformedString = errors.New("malformed string property")
	// ErrMalformedInteger indicates a property that is not a valid numeric cell.
	ErrMalformedInteger = errors.New("malformed integer property")
	// ErrIntegerOverflow indicates a numeric property too large for its field.
	ErrIntegerOverflow = errors.New("integer overflow")
)
