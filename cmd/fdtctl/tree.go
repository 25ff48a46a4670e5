package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/anemoneflower/fdtkit/fdt"
	"github.com/anemoneflower/fdtkit/internal/mmfile"
)

var (
	treeDepth int
	treeProps bool
)

var (
	nodeStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	propStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func init() {
	cmd := newTreeCmd()
	cmd.Flags().IntVar(&treeDepth, "depth", 0, "Maximum depth (0 = unlimited)")
	cmd.Flags().BoolVar(&treeProps, "props", false, "Show properties too")
	rootCmd.AddCommand(cmd)
}

func newTreeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tree <dtb>",
		Short: "Display the node structure of a blob",
		Long: `The tree command displays a hierarchical view of the blob's nodes,
optionally with their properties.

Example:
  fdtctl tree board.dtb
  fdtctl tree board.dtb --props --depth 2`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTree(args)
		},
	}
	return cmd
}

func runTree(args []string) error {
	path := args[0]

	printVerbose("Opening blob: %s\n", path)

	blob, cleanup, err := mmfile.Map(path)
	if err != nil {
		return fmt.Errorf("failed to open blob: %w", err)
	}
	defer cleanup()

	root, err := fdt.Root(blob)
	if err != nil {
		return err
	}
	top, ok := root.FindChild("")
	if !ok {
		return errors.New("blob has no top-level node")
	}

	printTreeNode("/", top, 0)
	return nil
}

func printTreeNode(name string, node fdt.Node, depth int) {
	indent := strings.Repeat("  ", depth)
	printInfo("%s%s\n", indent, styled(nodeStyle, name))
	if treeProps {
		node.VisitProperties(func(pname string, value []byte) bool {
			printInfo("%s  %s = %s\n", indent, styled(propStyle, pname), renderValue(value))
			return true
		})
	}
	if treeDepth > 0 && depth+1 >= treeDepth {
		return
	}
	node.VisitChildren(func(cname string, child fdt.Node) bool {
		printTreeNode(cname, child, depth+1)
		return true
	})
}

func styled(style lipgloss.Style, s string) string {
	if noColor {
		return s
	}
	return style.Render(s)
}

// renderValue formats a property value the way a dts source would write it:
// quoted for NUL-terminated printable strings, angle-bracketed for numeric
// cells, bracketed hex bytes otherwise.
func renderValue(v []byte) string {
	if len(v) == 0 {
		return "<empty>"
	}
	if v[len(v)-1] == 0 && isPrintable(v[:len(v)-1]) {
		return strconv.Quote(string(v[:len(v)-1]))
	}
	if n, ok := fdt.ParseNumber(v); ok {
		return fmt.Sprintf("<%#x>", n)
	}
	return fmt.Sprintf("[% x]", v)
}

func isPrintable(b []byte) bool {
	for _, c := range b {
		if c < 0x20 || c > 0x7e {
			return false
		}
	}
	return true
}
