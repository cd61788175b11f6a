package main

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"
)

func newStatsCommand(ctx *commandContext) *cobra.Command {
	var serviceFlag string
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize the stored scores for one service",
		RunE: func(cmd *cobra.Command, args []string) error {
			service, err := ctx.resolveService(serviceFlag)
			if err != nil {
				return err
			}
			store, err := ctx.ensureStore()
			if err != nil {
				return err
			}

			stats, err := store.Stats(cmd.Context(), service)
			if err != nil {
				return err
			}
			if jsonOut {
				return writeJSON(cmd, stats)
			}

			out := cmd.OutOrStdout()
			if stats.TotalFiles == 0 {
				fmt.Fprintf(out, "No files on record for %s. Run `arrscore export` first.\n", service)
				return nil
			}

			fmt.Fprintf(out, "Library statistics for %s\n", service)
			fmt.Fprintln(out, renderTable(
				[]string{"Files", "Positive", "Zero", "Negative", "Min", "Median", "Avg", "Max", "Size (GB)"},
				[][]string{{
					strconv.Itoa(stats.TotalFiles),
					strconv.Itoa(stats.PositiveScores),
					strconv.Itoa(stats.ZeroScores),
					strconv.Itoa(stats.NegativeScores),
					strconv.Itoa(stats.MinScore),
					fmt.Sprintf("%.1f", stats.MedianScore),
					fmt.Sprintf("%.1f", stats.AvgScore),
					strconv.Itoa(stats.MaxScore),
					fmt.Sprintf("%.1f", float64(stats.TotalSizeBytes)/(1<<30)),
				}},
				0, 1, 2, 3, 4, 5, 6, 7, 8,
			))

			if len(stats.QualityProfiles) > 0 {
				fmt.Fprintln(out, "By quality profile:")
				fmt.Fprintln(out, renderTable([]string{"Profile", "Files"}, countRows(stats.QualityProfiles), 1))
			}
			if len(stats.Resolutions) > 0 {
				fmt.Fprintln(out, "By resolution:")
				fmt.Fprintln(out, renderTable([]string{"Resolution", "Files"}, countRows(stats.Resolutions), 1))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&serviceFlag, "service", "s", "", "Service partition to summarize (radarr or sonarr)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit statistics as JSON")
	return cmd
}

// countRows renders a name-to-count map as table rows, largest first.
func countRows(counts map[string]int) [][]string {
	type entry struct {
		name  string
		count int
	}
	entries := make([]entry, 0, len(counts))
	for name, count := range counts {
		entries = append(entries, entry{name, count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].name < entries[j].name
	})

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{e.name, strconv.Itoa(e.count)})
	}
	return rows
}
