package config

const (
	defaultDatabasePath = "~/.local/share/arrscore/arrscore.db"
	defaultReportDir    = "~/.local/share/arrscore/reports"
	defaultLogDir       = "~/.local/share/arrscore/logs"
	defaultLogFormat    = "console"
	defaultLogLevel     = "info"

	defaultExportWorkers     = 4
	defaultRequestsPerSecond = 10.0
	defaultRetryAttempts     = 3
	defaultRetryDelaySeconds = 1

	defaultMinScoreThreshold  = -50
	defaultHarmfulFormatScore = -1000
	defaultCriticalGap        = 50
	defaultModerateGap        = 15
	defaultHighImpactCutoff   = 50
	defaultMediumImpactCutoff = 10
	defaultLowImpactCutoff    = -10
	defaultTrendWindowDays    = 30
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Export: Export{
			Workers:           defaultExportWorkers,
			RequestsPerSecond: defaultRequestsPerSecond,
			RetryAttempts:     defaultRetryAttempts,
			RetryDelaySeconds: defaultRetryDelaySeconds,
		},
		Analysis: Analysis{
			MinScoreThreshold:  defaultMinScoreThreshold,
			HarmfulFormatScore: defaultHarmfulFormatScore,
			CriticalGap:        defaultCriticalGap,
			ModerateGap:        defaultModerateGap,
			HighImpactCutoff:   defaultHighImpactCutoff,
			MediumImpactCutoff: defaultMediumImpactCutoff,
			LowImpactCutoff:    defaultLowImpactCutoff,
			TrendWindowDays:    defaultTrendWindowDays,
		},
		Paths: Paths{
			DatabasePath: defaultDatabasePath,
			ReportDir:    defaultReportDir,
			LogDir:       defaultLogDir,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
