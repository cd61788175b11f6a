package config

import (
	"errors"
	"fmt"
	"net/url"

	"arrscore/internal/analysis"
	"arrscore/internal/media"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateService("radarr", c.Radarr); err != nil {
		return err
	}
	if err := c.validateService("sonarr", c.Sonarr); err != nil {
		return err
	}
	if err := c.validateAnalysis(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateService(name string, svc Service) error {
	if !svc.Enabled {
		return nil
	}
	if svc.URL == "" {
		return fmt.Errorf("%s.url must be set when %s.enabled is true", name, name)
	}
	parsed, err := url.Parse(svc.URL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("%s.url %q is not a valid http(s) url", name, svc.URL)
	}
	if svc.APIKey == "" {
		return fmt.Errorf("%s.api_key must be set when %s.enabled is true", name, name)
	}
	return nil
}

func (c *Config) validateAnalysis() error {
	a := c.Analysis
	if a.HarmfulFormatScore >= 0 {
		return errors.New("analysis.harmful_format_score must be negative")
	}
	if a.CriticalGap <= 0 || a.ModerateGap <= 0 {
		return errors.New("analysis gap thresholds must be positive")
	}
	if a.CriticalGap <= a.ModerateGap {
		return errors.New("analysis.critical_gap must exceed analysis.moderate_gap")
	}
	if a.HighImpactCutoff <= a.MediumImpactCutoff || a.MediumImpactCutoff <= a.LowImpactCutoff {
		return errors.New("analysis impact cutoffs must be strictly descending")
	}
	if a.TrendWindowDays <= 0 {
		return errors.New("analysis.trend_window_days must be positive")
	}
	return nil
}

// EnabledServices lists the services an export run should process.
func (c *Config) EnabledServices() []media.ServiceType {
	var enabled []media.ServiceType
	if c.Radarr.Enabled {
		enabled = append(enabled, media.ServiceRadarr)
	}
	if c.Sonarr.Enabled {
		enabled = append(enabled, media.ServiceSonarr)
	}
	return enabled
}

// ServiceSettings returns the connection settings for one service.
func (c *Config) ServiceSettings(service media.ServiceType) (Service, bool) {
	switch service {
	case media.ServiceRadarr:
		return c.Radarr, c.Radarr.Enabled
	case media.ServiceSonarr:
		return c.Sonarr, c.Sonarr.Enabled
	default:
		return Service{}, false
	}
}

// AnalysisOptions converts the configured knobs into engine options.
func (c *Config) AnalysisOptions() analysis.Options {
	return analysis.Options{
		MinScoreThreshold:  c.Analysis.MinScoreThreshold,
		HarmfulFormatScore: c.Analysis.HarmfulFormatScore,
		CriticalGap:        c.Analysis.CriticalGap,
		ModerateGap:        c.Analysis.ModerateGap,
		HighImpactCutoff:   c.Analysis.HighImpactCutoff,
		MediumImpactCutoff: c.Analysis.MediumImpactCutoff,
		LowImpactCutoff:    c.Analysis.LowImpactCutoff,
		TrendWindowDays:    c.Analysis.TrendWindowDays,
	}
}
