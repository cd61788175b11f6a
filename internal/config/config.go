package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

//go:embed sample_config.yaml
var sampleConfig string

// envPrefix namespaces the environment overrides, e.g.
// ARRSCORE_RADARR_API_KEY maps to radarr.api_key.
const envPrefix = "ARRSCORE_"

// Service holds the connection settings for one media manager.
type Service struct {
	Enabled bool   `koanf:"enabled"`
	URL     string `koanf:"url"`
	APIKey  string `koanf:"api_key"`
}

// Export tunes the export pipeline.
type Export struct {
	Workers           int     `koanf:"workers"`
	RequestsPerSecond float64 `koanf:"requests_per_second"`
	RetryAttempts     int     `koanf:"retry_attempts"`
	RetryDelaySeconds int     `koanf:"retry_delay_seconds"`
}

// Analysis carries the numeric knobs of the analysis engine.
type Analysis struct {
	MinScoreThreshold  int     `koanf:"min_score_threshold"`
	HarmfulFormatScore int     `koanf:"harmful_format_score"`
	CriticalGap        float64 `koanf:"critical_gap"`
	ModerateGap        float64 `koanf:"moderate_gap"`
	HighImpactCutoff   float64 `koanf:"high_impact_cutoff"`
	MediumImpactCutoff float64 `koanf:"medium_impact_cutoff"`
	LowImpactCutoff    float64 `koanf:"low_impact_cutoff"`
	TrendWindowDays    int     `koanf:"trend_window_days"`
}

// Paths contains file locations.
type Paths struct {
	DatabasePath string `koanf:"database_path"`
	ReportDir    string `koanf:"report_dir"`
	LogDir       string `koanf:"log_dir"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `koanf:"format"`
	Level  string `koanf:"level"`
}

// Config encapsulates all configuration values for arrscore.
type Config struct {
	Radarr   Service  `koanf:"radarr"`
	Sonarr   Service  `koanf:"sonarr"`
	Export   Export   `koanf:"export"`
	Analysis Analysis `koanf:"analysis"`
	Paths    Paths    `koanf:"paths"`
	Logging  Logging  `koanf:"logging"`
}

// DefaultConfigPath returns the absolute path to the default
// configuration file location.
func DefaultConfigPath() (string, error) {
	return ExpandPath("~/.config/arrscore/config.yaml")
}

// Load resolves configuration from defaults, the YAML file at path (or
// the default locations when path is empty), and ARRSCORE_* environment
// variables, in ascending precedence. It returns the resolved file path
// and whether a file was found.
func Load(path string) (*Config, string, bool, error) {
	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	k := koanf.New(".")
	defaults := Default()
	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, "", false, fmt.Errorf("load defaults: %w", err)
	}
	if exists {
		if err := k.Load(file.Provider(resolvedPath), yaml.Parser()); err != nil {
			return nil, "", false, fmt.Errorf("parse config %s: %w", resolvedPath, err)
		}
	}
	if err := k.Load(env.Provider(envPrefix, ".", envTransform), nil); err != nil {
		return nil, "", false, fmt.Errorf("load environment overrides: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, "", false, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return cfg, resolvedPath, exists, nil
}

// envTransform maps ARRSCORE_RADARR_API_KEY to radarr.api_key. The
// first underscore after the prefix separates section from key.
func envTransform(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, envPrefix))
	section, rest, found := strings.Cut(key, "_")
	if !found {
		return section
	}
	return section + "." + rest
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := ExpandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	projectPath, err := filepath.Abs("arrscore.yaml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	return defaultPath, false, nil
}

// EnsureDirectories creates the directories runs write into.
func (c *Config) EnsureDirectories() error {
	dirs := []string{
		filepath.Dir(c.Paths.DatabasePath),
		c.Paths.ReportDir,
		c.Paths.LogDir,
	}
	for _, dir := range dirs {
		if dir == "" || dir == "." {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// CreateSample writes a sample configuration file to the specified
// location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// ExpandPath resolves a leading tilde and returns an absolute path.
func ExpandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}
