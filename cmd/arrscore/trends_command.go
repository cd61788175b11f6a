package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newTrendsCommand(ctx *commandContext) *cobra.Command {
	var serviceFlag string
	var days int
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "trends",
		Short: "Show daily score-change activity over a recent window",
		RunE: func(cmd *cobra.Command, args []string) error {
			service, err := ctx.resolveService(serviceFlag)
			if err != nil {
				return err
			}
			analyzer, err := ctx.ensureAnalyzer()
			if err != nil {
				return err
			}

			buckets, err := analyzer.Trends(cmd.Context(), service, days)
			if err != nil {
				return err
			}
			if jsonOut {
				return writeJSON(cmd, buckets)
			}

			out := cmd.OutOrStdout()
			if len(buckets) == 0 {
				fmt.Fprintf(out, "No score changes recorded for %s in the last %d days.\n", service, days)
				return nil
			}

			rows := make([][]string, 0, len(buckets))
			for _, b := range buckets {
				rows = append(rows, []string{
					b.Date.Format("2006-01-02"),
					strconv.Itoa(b.Changes),
					fmt.Sprintf("%.1f", b.AvgScore),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Date", "Changes", "Avg New Score"},
				rows, 1, 2,
			))
			return nil
		},
	}

	cmd.Flags().StringVarP(&serviceFlag, "service", "s", "", "Service partition to inspect (radarr or sonarr)")
	cmd.Flags().IntVarP(&days, "days", "d", 30, "Window size in days")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit trend buckets as JSON")
	return cmd
}
