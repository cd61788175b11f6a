package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"arrscore/internal/export"
	"arrscore/internal/media"
	"arrscore/internal/report"
)

const summaryRounding = 10 * time.Millisecond

func newExportCommand(ctx *commandContext) *cobra.Command {
	var serviceFlag string
	var writeCSV bool

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Fetch scores from enabled services and store them locally",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			var targets []media.ServiceType
			if trimmed := strings.TrimSpace(serviceFlag); trimmed != "" {
				service, err := media.ParseServiceType(trimmed)
				if err != nil {
					return err
				}
				targets = []media.ServiceType{service}
			} else {
				targets = cfg.EnabledServices()
			}
			if len(targets) == 0 {
				return errors.New("no services enabled; configure radarr or sonarr first")
			}

			store, err := ctx.ensureStore()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			var failures []string
			for _, service := range targets {
				source, err := ctx.sourceFor(service)
				if err != nil {
					return err
				}
				pipeline := export.NewPipeline(store, source, cfg.Export.Workers, logger)
				summary, err := pipeline.Run(cmd.Context())
				if err != nil {
					if errors.Is(err, export.ErrRunInProgress) {
						return fmt.Errorf("%s: another export is already running against this database", service)
					}
					failures = append(failures, fmt.Sprintf("%s: %v", service, err))
					continue
				}
				printSummary(out, summary)

				if writeCSV {
					path, err := writeScoresCSV(cmd, ctx, service)
					if err != nil {
						failures = append(failures, fmt.Sprintf("%s: %v", service, err))
						continue
					}
					fmt.Fprintf(out, "Scores CSV: %s\n", path)
				}
			}

			if len(failures) > 0 {
				return fmt.Errorf("export failed for %s", strings.Join(failures, "; "))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&serviceFlag, "service", "s", "", "Export a single service (radarr or sonarr)")
	cmd.Flags().BoolVar(&writeCSV, "csv", false, "Also write a scores CSV to the report directory")
	return cmd
}

func writeScoresCSV(cmd *cobra.Command, ctx *commandContext, service media.ServiceType) (string, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return "", err
	}
	store, err := ctx.ensureStore()
	if err != nil {
		return "", err
	}
	writer, err := report.NewWriter(cfg.Paths.ReportDir)
	if err != nil {
		return "", err
	}
	files, err := store.FilesByService(cmd.Context(), service)
	if err != nil {
		return "", err
	}
	return writer.WriteScoresCSV(service, files)
}

func printSummary(out io.Writer, summary export.Summary) {
	fmt.Fprintf(out, "%s export finished in %s\n", summary.Service, summary.Duration.Round(summaryRounding))
	fmt.Fprintln(out, renderTable(
		[]string{"Processed", "Stored", "Failed", "Score Changes", "Superseded"},
		[][]string{{
			fmt.Sprint(summary.Processed),
			fmt.Sprint(summary.Stored),
			fmt.Sprint(summary.Failed),
			fmt.Sprint(summary.ScoreChanges),
			fmt.Sprint(summary.Superseded),
		}},
		0, 1, 2, 3, 4,
	))
}
