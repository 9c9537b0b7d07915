package main

import (
	"github.com/metalagman/fitgenius/internal/chat"
	"github.com/spf13/cobra"
)

func chatCmd() *cobra.Command {
	var (
		settings string
		turns    int
	)
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Talk to the fitness coach in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := newRuntime(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer func() { _ = rt.Close() }()
			return chat.Run(cmd.Context(), chat.NewSession(rt.catalog, settings, turns))
		},
	}
	cmd.Flags().StringVarP(&settings, "settings", "s", "", "personal settings sent with every question")
	cmd.Flags().IntVar(&turns, "turns", chat.DefaultHistoryTurns, "past turns replayed per question")
	return cmd
}
