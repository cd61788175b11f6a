package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"arrscore/internal/media"
	"arrscore/internal/services"
	"arrscore/internal/services/radarr"
	"arrscore/internal/services/sonarr"
)

const checkTimeout = 10 * time.Second

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify connectivity to configured services and the local database",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			failed := false

			enabled := cfg.EnabledServices()
			if len(enabled) == 0 {
				fmt.Fprintln(out, renderStatusLine("Services", statusWarn, "none enabled", colorize))
			}
			for _, service := range enabled {
				kind, message := pingService(cmd.Context(), ctx, service)
				if kind == statusError {
					failed = true
				}
				fmt.Fprintln(out, renderStatusLine(string(service), kind, message, colorize))
			}

			if store, err := ctx.ensureStore(); err != nil {
				failed = true
				fmt.Fprintln(out, renderStatusLine("Database", statusError, err.Error(), colorize))
			} else {
				fmt.Fprintln(out, renderStatusLine("Database", statusOK, store.Path(), colorize))
			}

			if failed {
				return errors.New("one or more checks failed")
			}
			return nil
		},
	}
}

func pingService(parent context.Context, cmdCtx *commandContext, service media.ServiceType) (statusKind, string) {
	cfg, err := cmdCtx.ensureConfig()
	if err != nil {
		return statusError, err.Error()
	}
	settings, _ := cfg.ServiceSettings(service)

	ctx, cancel := context.WithTimeout(parent, checkTimeout)
	defer cancel()

	opts := []services.Option{
		services.WithRequestRate(cfg.Export.RequestsPerSecond),
		services.WithRetry(1, 0),
	}
	switch service {
	case media.ServiceRadarr:
		client, err := radarr.New(settings.URL, settings.APIKey, opts...)
		if err != nil {
			return statusError, err.Error()
		}
		err = client.Ping(ctx)
		return pingStatus(settings.URL, err)
	case media.ServiceSonarr:
		client, err := sonarr.New(settings.URL, settings.APIKey, opts...)
		if err != nil {
			return statusError, err.Error()
		}
		err = client.Ping(ctx)
		return pingStatus(settings.URL, err)
	default:
		return statusError, fmt.Sprintf("unknown service %q", service)
	}
}

func pingStatus(url string, err error) (statusKind, string) {
	if err != nil {
		return statusError, err.Error()
	}
	return statusOK, url
}
