package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newRunsCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recent export runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.ensureStore()
			if err != nil {
				return err
			}

			runs, err := store.RecentRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if jsonOut {
				return writeJSON(cmd, runs)
			}

			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No export runs recorded yet.")
				return nil
			}

			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				detail := ""
				if !run.Success {
					detail = run.Error
				}
				rows = append(rows, []string{
					run.StartedAt.UTC().Format("2006-01-02 15:04:05"),
					string(run.Service),
					run.Duration.Round(summaryRounding).String(),
					strconv.Itoa(run.Processed),
					strconv.Itoa(run.Stored),
					strconv.Itoa(run.Failed),
					yesNo(run.Success),
					detail,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Started", "Service", "Duration", "Processed", "Stored", "Failed", "OK", "Error"},
				rows, 3, 4, 5,
			))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Show at most this many runs")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit runs as JSON")
	return cmd
}
