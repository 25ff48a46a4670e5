package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/anemoneflower/fdtkit/fdt"
	"github.com/anemoneflower/fdtkit/internal/mmfile"
	"github.com/anemoneflower/fdtkit/manifest"
)

func init() {
	rootCmd.AddCommand(newValidateCmd())
}

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <dtb>",
		Short: "Validate a blob and its hypervisor manifest",
		Long: `The validate command checks the blob header and decodes the VM
manifest, exiting non-zero with the specific failure reason on any
malformed input.

Example:
  fdtctl validate board.dtb`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(args)
		},
	}
	return cmd
}

func runValidate(args []string) error {
	path := args[0]

	printVerbose("Opening blob: %s\n", path)

	blob, cleanup, err := mmfile.Map(path)
	if err != nil {
		return fmt.Errorf("failed to open blob: %w", err)
	}
	defer cleanup()

	if _, err := fdt.ParseHeader(blob); err != nil {
		return fmt.Errorf("invalid blob: %w", err)
	}
	printVerbose("Header valid\n")

	var m manifest.Manifest
	if err := m.Parse(blob); err != nil {
		return fmt.Errorf("invalid manifest: %w", err)
	}

	printInfo("OK: manifest defines %d VMs\n", m.Len())
	return nil
}
