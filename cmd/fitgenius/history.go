package main

import (
	"fmt"
	"io"
	"time"

	"github.com/metalagman/fitgenius/internal/db"
	"github.com/spf13/cobra"
)

func historyCmd() *cobra.Command {
	var (
		flowName string
		limit    int
		asJSON   bool
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent flow calls",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, closeFn, err := openStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer func() { _ = closeFn() }()

			calls, err := store.Recent(cmd.Context(), flowName, limit)
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), calls)
			}
			writeCalls(cmd.OutOrStdout(), calls)
			return nil
		},
	}
	cmd.Flags().StringVarP(&flowName, "flow", "f", "", "only show calls of this flow")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "max calls to show")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func writeCalls(w io.Writer, calls []db.Call) {
	if len(calls) == 0 {
		fmt.Fprintln(w, faintStyle.Render("no calls recorded"))
		return
	}
	for _, c := range calls {
		status := c.Status
		if c.ErrorKind != "" {
			status += " " + c.ErrorKind
		}
		detail := c.Reason
		if c.Field != "" {
			detail = c.Field + ": " + c.Reason
		}
		fmt.Fprintf(w, "%s  %s %-28s %-28s %8s  %s\n",
			faintStyle.Render(shortID(c.ID)),
			c.StartedAt.Local().Format(time.DateTime),
			c.Flow,
			status,
			c.Duration.Round(time.Millisecond),
			detail,
		)
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
