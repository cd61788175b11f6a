package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"arrscore/internal/analysis"
)

func newAnalyzeCommand(ctx *commandContext) *cobra.Command {
	var serviceFlag string
	var limit int
	var minScore int
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Rank files that would benefit most from an upgrade",
		RunE: func(cmd *cobra.Command, args []string) error {
			service, err := ctx.resolveService(serviceFlag)
			if err != nil {
				return err
			}
			analyzer, err := ctx.ensureAnalyzer()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("min-score") {
				cfg, err := ctx.ensureConfig()
				if err != nil {
					return err
				}
				store, err := ctx.ensureStore()
				if err != nil {
					return err
				}
				opts := cfg.AnalysisOptions()
				opts.MinScoreThreshold = minScore
				analyzer = analysis.New(store, opts)
			}

			candidates, err := analyzer.UpgradeCandidates(cmd.Context(), service)
			if err != nil {
				return err
			}
			if limit > 0 && len(candidates) > limit {
				candidates = candidates[:limit]
			}

			if jsonOut {
				return writeJSON(cmd, candidates)
			}

			out := cmd.OutOrStdout()
			if len(candidates) == 0 {
				fmt.Fprintf(out, "No upgrade candidates for %s. Library looks healthy.\n", service)
				return nil
			}

			rows := make([][]string, 0, len(candidates))
			for _, c := range candidates {
				rows = append(rows, []string{
					"P" + strconv.Itoa(c.Priority),
					c.File.DisplayName(),
					strconv.Itoa(c.File.TotalScore),
					"+" + strconv.Itoa(c.PotentialGain),
					c.Reason,
				})
			}
			fmt.Fprintf(out, "%d upgrade candidates for %s\n", len(candidates), service)
			fmt.Fprintln(out, renderTable(
				[]string{"Priority", "Title", "Score", "Gain", "Reason"},
				rows, 2, 3,
			))
			return nil
		},
	}

	cmd.Flags().StringVarP(&serviceFlag, "service", "s", "", "Service partition to analyze (radarr or sonarr)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Show at most this many candidates (0 shows all)")
	cmd.Flags().IntVar(&minScore, "min-score", 0, "Override the minimum-score threshold for this run")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit candidates as JSON")

	cmd.AddCommand(newAnalyzeFormatsCommand(ctx))
	cmd.AddCommand(newAnalyzeProfilesCommand(ctx))
	return cmd
}

func newAnalyzeFormatsCommand(ctx *commandContext) *cobra.Command {
	var serviceFlag string
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "formats",
		Short: "Measure how each custom format correlates with file quality",
		RunE: func(cmd *cobra.Command, args []string) error {
			service, err := ctx.resolveService(serviceFlag)
			if err != nil {
				return err
			}
			analyzer, err := ctx.ensureAnalyzer()
			if err != nil {
				return err
			}

			formats, err := analyzer.FormatEffectiveness(cmd.Context(), service)
			if err != nil {
				return err
			}
			if jsonOut {
				return writeJSON(cmd, formats)
			}

			out := cmd.OutOrStdout()
			if len(formats) == 0 {
				fmt.Fprintf(out, "No custom format data for %s.\n", service)
				return nil
			}
			rows := make([][]string, 0, len(formats))
			for _, f := range formats {
				rows = append(rows, []string{
					f.FormatName,
					strconv.Itoa(f.UsageCount),
					fmt.Sprintf("%+.1f", f.AvgScoreContribution),
					string(f.Impact),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Format", "Files", "Contribution", "Impact"},
				rows, 1, 2,
			))
			return nil
		},
	}

	cmd.Flags().StringVarP(&serviceFlag, "service", "s", "", "Service partition to analyze (radarr or sonarr)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit format effectiveness as JSON")
	return cmd
}

func newAnalyzeProfilesCommand(ctx *commandContext) *cobra.Command {
	var serviceFlag string
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "profiles",
		Short: "Compare quality profiles against the library average",
		RunE: func(cmd *cobra.Command, args []string) error {
			service, err := ctx.resolveService(serviceFlag)
			if err != nil {
				return err
			}
			analyzer, err := ctx.ensureAnalyzer()
			if err != nil {
				return err
			}

			profiles, err := analyzer.QualityProfiles(cmd.Context(), service)
			if err != nil {
				return err
			}
			if jsonOut {
				return writeJSON(cmd, profiles)
			}

			out := cmd.OutOrStdout()
			if len(profiles) == 0 {
				fmt.Fprintf(out, "No quality profile data for %s.\n", service)
				return nil
			}
			rows := make([][]string, 0, len(profiles))
			for _, p := range profiles {
				rows = append(rows, []string{
					p.ProfileName,
					strconv.Itoa(p.FileCount),
					fmt.Sprintf("%.1f", p.AvgScore),
					string(p.Rating),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Profile", "Files", "Avg Score", "Rating"},
				rows, 1, 2,
			))
			return nil
		},
	}

	cmd.Flags().StringVarP(&serviceFlag, "service", "s", "", "Service partition to analyze (radarr or sonarr)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit profile analysis as JSON")
	return cmd
}
