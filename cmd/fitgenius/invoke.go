package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/metalagman/fitgenius/internal/flow"
	"github.com/metalagman/fitgenius/internal/schema"
	"github.com/spf13/cobra"
)

func invokeCmd() *cobra.Command {
	var (
		input  string
		render bool
	)
	cmd := &cobra.Command{
		Use:   "invoke <flow>",
		Short: "Run one flow and print its output",
		Example: `  fitgenius invoke suggestMeals --input '{"dietaryPreferences":"vegetarian","caloricNeeds":2000,"macroGoals":"40/30/30"}'
  fitgenius invoke generateWorkoutPlan --input @profile.json --render`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := readInput(input, cmd.InOrStdin())
			if err != nil {
				return err
			}
			rt, err := newRuntime(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer func() { _ = rt.Close() }()

			def, err := rt.catalog.Get(args[0])
			if err != nil {
				return err
			}
			out, err := rt.catalog.Orchestrator().Execute(cmd.Context(), def, value)
			if err != nil {
				return err
			}
			if !render {
				return printJSON(cmd.OutOrStdout(), out)
			}
			text, err := renderOutput(def, out)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), text)
			return nil
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "input JSON object, @file or - for stdin")
	cmd.Flags().BoolVar(&render, "render", false, "render the output as markdown")
	return cmd
}

// outputMarkdown lays out an output value as a markdown document, one section
// per contract field.
func outputMarkdown(def *flow.Definition, out schema.Value) string {
	var b strings.Builder
	for _, f := range def.Output().Fields() {
		v, ok := out[f.Name]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "## %s\n\n", f.Name)
		switch val := v.(type) {
		case []string:
			for _, item := range val {
				fmt.Fprintf(&b, "- %s\n", item)
			}
		case []any:
			for _, item := range val {
				fmt.Fprintf(&b, "- %v\n", item)
			}
		default:
			fmt.Fprintf(&b, "%v\n", val)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func renderOutput(def *flow.Definition, out schema.Value) (string, error) {
	tr, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		return "", fmt.Errorf("init renderer: %w", err)
	}
	text, err := tr.Render(outputMarkdown(def, out))
	if err != nil {
		return "", fmt.Errorf("render output: %w", err)
	}
	return text, nil
}
