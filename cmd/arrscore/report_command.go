package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"arrscore/internal/config"
	"arrscore/internal/report"
)

func newReportCommand(ctx *commandContext) *cobra.Command {
	var serviceFlag string
	var outputDir string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Write the CSV exports and the HTML health report",
		RunE: func(cmd *cobra.Command, args []string) error {
			service, err := ctx.resolveService(serviceFlag)
			if err != nil {
				return err
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := ctx.ensureStore()
			if err != nil {
				return err
			}
			analyzer, err := ctx.ensureAnalyzer()
			if err != nil {
				return err
			}

			dir := strings.TrimSpace(outputDir)
			if dir == "" {
				dir = cfg.Paths.ReportDir
			} else if dir, err = config.ExpandPath(dir); err != nil {
				return fmt.Errorf("resolve output directory: %w", err)
			}
			writer, err := report.NewWriter(dir)
			if err != nil {
				return err
			}

			files, err := store.FilesByService(cmd.Context(), service)
			if err != nil {
				return err
			}
			stats, err := store.Stats(cmd.Context(), service)
			if err != nil {
				return err
			}
			health, err := analyzer.HealthReport(cmd.Context(), service)
			if err != nil {
				return err
			}
			candidates, err := analyzer.UpgradeCandidates(cmd.Context(), service)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			scoresPath, err := writer.WriteScoresCSV(service, files)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Scores CSV:     %s\n", scoresPath)

			candidatesPath, err := writer.WriteCandidatesCSV(service, candidates)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Candidates CSV: %s\n", candidatesPath)

			htmlPath, err := writer.WriteHealthHTML(&health, &stats)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Health report:  %s\n", htmlPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&serviceFlag, "service", "s", "", "Service partition to report on (radarr or sonarr)")
	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "Directory for report files (defaults to paths.report_dir)")
	return cmd
}
