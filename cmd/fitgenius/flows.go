package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/metalagman/fitgenius/internal/flow"
	"github.com/metalagman/fitgenius/internal/schema"
	"github.com/spf13/cobra"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	nameStyle    = lipgloss.NewStyle().Bold(true).Width(32)
	faintStyle   = lipgloss.NewStyle().Faint(true)
)

func flowsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "flows",
		Short: "List available flows",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cat, err := offlineCatalog()
			if err != nil {
				return err
			}
			for _, def := range cat.Definitions() {
				fmt.Fprintln(cmd.OutOrStdout(), nameStyle.Render(def.Name())+faintStyle.Render(def.Description()))
			}
			return nil
		},
	}
}

func describeCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "describe <flow>",
		Short: "Show a flow's input and output contracts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := offlineCatalog()
			if err != nil {
				return err
			}
			def, err := cat.Get(args[0])
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), map[string]any{
					"name":        def.Name(),
					"description": def.Description(),
					"input":       def.Input().JSONSchema(),
					"output":      def.Output().JSONSchema(),
				})
			}
			writeDescription(cmd.OutOrStdout(), def)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON schemas")
	return cmd
}

func writeDescription(w io.Writer, def *flow.Definition) {
	fmt.Fprintln(w, headingStyle.Render(def.Name()))
	fmt.Fprintln(w, def.Description())
	fmt.Fprintln(w)
	writeContract(w, "Input", def.Input())
	fmt.Fprintln(w)
	writeContract(w, "Output", def.Output())
}

func writeContract(w io.Writer, title string, c *schema.Contract) {
	fmt.Fprintln(w, headingStyle.Render(title))
	for _, f := range c.Fields() {
		var flags []string
		if !f.Required {
			flags = append(flags, "optional")
		}
		if f.NonEmpty {
			flags = append(flags, "non-empty")
		}
		if f.Format != "" {
			flags = append(flags, f.Format)
		}
		line := fmt.Sprintf("  %-22s %-9s", f.Name, f.Kind)
		if len(flags) > 0 {
			line += " [" + strings.Join(flags, ", ") + "]"
		}
		fmt.Fprintln(w, line)
		if f.Description != "" {
			fmt.Fprintln(w, faintStyle.Render("      "+f.Description))
		}
	}
}
