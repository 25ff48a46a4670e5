package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/anemoneflower/fdtkit/internal/mmfile"
	"github.com/anemoneflower/fdtkit/manifest"
)

var manifestYAML bool

func init() {
	cmd := newManifestCmd()
	cmd.Flags().BoolVar(&manifestYAML, "yaml", false, "Output in YAML format")
	rootCmd.AddCommand(cmd)
}

func newManifestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "manifest <dtb>",
		Short: "Decode the hypervisor VM manifest from a blob",
		Long: `The manifest command decodes the VM list under the blob's "hypervisor"
node and prints each VM's configuration.

Example:
  fdtctl manifest board.dtb
  fdtctl manifest board.dtb --json
  fdtctl manifest board.dtb --yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runManifest(args)
		},
	}
	return cmd
}

// vmReport is the render-friendly form of one decoded VM.
type vmReport struct {
	ID             int    `json:"id" yaml:"id"`
	Primary        bool   `json:"primary" yaml:"primary"`
	DebugName      string `json:"debug_name" yaml:"debug_name"`
	KernelFilename string `json:"kernel_filename,omitempty" yaml:"kernel_filename,omitempty"`
	MemSize        uint64 `json:"mem_size,omitempty" yaml:"mem_size,omitempty"`
	VCPUCount      uint16 `json:"vcpu_count,omitempty" yaml:"vcpu_count,omitempty"`
}

// buildReport flattens the manifest into reports. VM IDs are recovered from
// position: the decoder only accepts a contiguous run starting at VMIDOffset.
func buildReport(m *manifest.Manifest) []vmReport {
	out := make([]vmReport, 0, m.Len())
	for i, vm := range m.VMs() {
		id := manifest.VMIDOffset + i
		r := vmReport{
			ID:        id,
			Primary:   id == manifest.PrimaryVMID,
			DebugName: string(vm.DebugName),
		}
		if !r.Primary {
			r.KernelFilename = string(vm.KernelFilename)
			r.MemSize = vm.MemSize
			r.VCPUCount = vm.VCPUCount
		}
		out = append(out, r)
	}
	return out
}

func runManifest(args []string) error {
	path := args[0]

	printVerbose("Opening blob: %s\n", path)

	blob, cleanup, err := mmfile.Map(path)
	if err != nil {
		return fmt.Errorf("failed to open blob: %w", err)
	}
	defer cleanup()

	var m manifest.Manifest
	if err := m.Parse(blob); err != nil {
		return fmt.Errorf("failed to decode manifest: %w", err)
	}

	report := buildReport(&m)

	switch {
	case jsonOut:
		return printJSON(report)
	case manifestYAML:
		enc := yaml.NewEncoder(os.Stdout)
		defer enc.Close()
		return enc.Encode(report)
	}

	printInfo("\nVM Manifest (%d VMs):\n", m.Len())
	for _, r := range report {
		if r.Primary {
			printInfo("  vm%d (primary): debug_name=%q\n", r.ID, r.DebugName)
			continue
		}
		printInfo("  vm%d: debug_name=%q kernel=%q mem_size=%d vcpus=%d\n",
			r.ID, r.DebugName, r.KernelFilename, r.MemSize, r.VCPUCount)
	}
	return nil
}
