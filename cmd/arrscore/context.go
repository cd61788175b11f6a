package main

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"arrscore/internal/analysis"
	"arrscore/internal/config"
	"arrscore/internal/export"
	"arrscore/internal/library"
	"arrscore/internal/logging"
	"arrscore/internal/media"
	"arrscore/internal/services"
	"arrscore/internal/services/radarr"
	"arrscore/internal/services/sonarr"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error

	storeOnce sync.Once
	store     *library.Store
	storeErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.NewFromConfig(cfg)
	})
	return c.logger, c.loggerErr
}

func (c *commandContext) ensureStore() (*library.Store, error) {
	c.storeOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.storeErr = err
			return
		}
		c.store, c.storeErr = library.Open(cfg.Paths.DatabasePath)
	})
	return c.store, c.storeErr
}

func (c *commandContext) ensureAnalyzer() (*analysis.Analyzer, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	store, err := c.ensureStore()
	if err != nil {
		return nil, err
	}
	return analysis.New(store, cfg.AnalysisOptions()), nil
}

// sourceFor builds an export source for one enabled service.
func (c *commandContext) sourceFor(service media.ServiceType) (export.Source, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	settings, enabled := cfg.ServiceSettings(service)
	if !enabled {
		return nil, fmt.Errorf("service %s is not enabled in configuration", service)
	}

	opts := []services.Option{
		services.WithRequestRate(cfg.Export.RequestsPerSecond),
		services.WithRetry(cfg.Export.RetryAttempts, time.Duration(cfg.Export.RetryDelaySeconds)*time.Second),
	}
	switch service {
	case media.ServiceRadarr:
		client, err := radarr.New(settings.URL, settings.APIKey, opts...)
		if err != nil {
			return nil, err
		}
		return radarr.NewSource(client), nil
	case media.ServiceSonarr:
		client, err := sonarr.New(settings.URL, settings.APIKey, opts...)
		if err != nil {
			return nil, err
		}
		return sonarr.NewSource(client), nil
	default:
		return nil, fmt.Errorf("unknown service %q", service)
	}
}

func (c *commandContext) close() {
	if c.store != nil {
		if err := c.store.Close(); err != nil && c.logger != nil {
			c.logger.Warn("failed to close score database", "error", err)
		}
	}
}

// resolveService picks the partition a command operates on. An explicit
// flag wins; otherwise a single enabled service is used implicitly.
func (c *commandContext) resolveService(flagValue string) (media.ServiceType, error) {
	if trimmed := strings.TrimSpace(flagValue); trimmed != "" {
		return media.ParseServiceType(trimmed)
	}

	cfg, err := c.ensureConfig()
	if err != nil {
		return "", err
	}
	enabled := cfg.EnabledServices()
	switch len(enabled) {
	case 0:
		return "", fmt.Errorf("no services enabled; configure radarr or sonarr first")
	case 1:
		return enabled[0], nil
	default:
		return "", fmt.Errorf("multiple services enabled; pass --service radarr or --service sonarr")
	}
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
