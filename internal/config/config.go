// Package config loads countries configuration from defaults, an optional YAML
// file, and COUNTRIES_* environment variables. Command-line flags are applied
// on top by the cli package.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"sync"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/rshade/countries/internal/query"
	"github.com/rshade/countries/internal/restcountries"
)

// Environment variable names.
const (
	EnvConfig         = "COUNTRIES_CONFIG"
	EnvEndpoint       = "COUNTRIES_ENDPOINT"
	EnvTimeoutSeconds = "COUNTRIES_TIMEOUT_SECONDS"
	EnvCacheTTL       = "COUNTRIES_CACHE_TTL_SECONDS"
	EnvCacheDir       = "COUNTRIES_CACHE_DIR"
	EnvPageSize       = "COUNTRIES_PAGE_SIZE"
	EnvLocale         = "COUNTRIES_LOCALE"
	EnvSearchMode     = "COUNTRIES_SEARCH_MODE"
	EnvOutput         = "COUNTRIES_OUTPUT"
	EnvLogLevel       = "COUNTRIES_LOG_LEVEL"
	EnvLogFormat      = "COUNTRIES_LOG_FORMAT"
	EnvLogFile        = "COUNTRIES_LOG_FILE"
)

// Defaults.
const (
	DefaultTimeoutSeconds = 30
	DefaultCacheTTL       = 0
	DefaultLocale         = "en"
	DefaultSort           = "name:asc"
	DefaultOutputFormat   = "table"

	dirName        = ".countries"
	configFileName = "config.yaml"
	cacheDirName   = "cache"
)

// Output formats accepted by the list command.
const (
	OutputTable  = "table"
	OutputJSON   = "json"
	OutputNDJSON = "ndjson"
	OutputYAML   = "yaml"
)

// ErrInvalidConfig is wrapped by every Validate failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the full countries configuration.
type Config struct {
	API     APIConfig     `yaml:"api"`
	View    ViewConfig    `yaml:"view"`
	Search  SearchConfig  `yaml:"search"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`
}

// APIConfig controls the country data source.
type APIConfig struct {
	Endpoint string `yaml:"endpoint"`
	// TimeoutSeconds bounds the single fetch. 0 disables the timeout.
	TimeoutSeconds int `yaml:"timeout_seconds"`
	// CacheTTLSeconds is how long a fetched list is reused. 0, the default,
	// disables the cache so every start fetches.
	CacheTTLSeconds int `yaml:"cache_ttl_seconds"`
	// CacheDir defaults to ~/.countries/cache when empty.
	CacheDir string `yaml:"cache_dir,omitempty"`
}

// ViewConfig holds the initial table view.
type ViewConfig struct {
	PageSize int `yaml:"page_size"`
	// Sort is "column" or "column:order", e.g. "name:desc".
	Sort string `yaml:"sort"`
	// Locale is the BCP 47 tag used for collation.
	Locale string `yaml:"locale"`
}

// SearchConfig tunes the fuzzy matcher.
type SearchConfig struct {
	// Mode is "approximate" or "subsequence".
	Mode             string  `yaml:"mode"`
	Threshold        float64 `yaml:"threshold"`
	Distance         int     `yaml:"distance"`
	IgnoreLocation   bool    `yaml:"ignore_location"`
	IgnoreDiacritics bool    `yaml:"ignore_diacritics"`
	IgnoreFieldNorm  bool    `yaml:"ignore_field_norm"`
}

// OutputConfig holds defaults for non-interactive output.
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format"`
}

// New returns a Config populated with defaults.
func New() *Config {
	opts := query.DefaultMatchOptions()
	return &Config{
		API: APIConfig{
			Endpoint:        restcountries.DefaultEndpoint,
			TimeoutSeconds:  DefaultTimeoutSeconds,
			CacheTTLSeconds: DefaultCacheTTL,
		},
		View: ViewConfig{
			PageSize: query.DefaultRowsPerPage,
			Sort:     DefaultSort,
			Locale:   DefaultLocale,
		},
		Search: SearchConfig{
			Mode:      string(query.ModeApproximate),
			Threshold: opts.Threshold,
			Distance:  opts.Distance,
		},
		Output: OutputConfig{
			DefaultFormat: DefaultOutputFormat,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load builds a Config from defaults, the YAML file at path (if it exists) and the
// environment. An empty path resolves to COUNTRIES_CONFIG or ~/.countries/config.yaml.
// A missing file is not an error; an unreadable or invalid one is.
func Load(path string) (*Config, error) {
	return LoadWithEnv(path, os.LookupEnv)
}

// LoadWithEnv is Load with an injectable environment lookup for tests.
func LoadWithEnv(path string, lookupEnv func(string) (string, bool)) (*Config, error) {
	cfg := New()

	if path == "" {
		if envPath, ok := lookupEnv(EnvConfig); ok && envPath != "" {
			path = envPath
		} else {
			path = DefaultConfigPath()
		}
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if mergeErr := ShallowMergeYAML(cfg, path); mergeErr != nil {
				return nil, mergeErr
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("checking config file %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(lookupEnv); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookupEnv func(string) (string, bool)) error {
	str := func(name string, dst *string) {
		if v, ok := lookupEnv(name); ok && v != "" {
			*dst = v
		}
	}
	integer := func(name string, dst *int) error {
		v, ok := lookupEnv(name)
		if !ok || v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not an integer", ErrInvalidConfig, name, v)
		}
		*dst = n
		return nil
	}

	str(EnvEndpoint, &c.API.Endpoint)
	str(EnvLocale, &c.View.Locale)
	str(EnvSearchMode, &c.Search.Mode)
	str(EnvOutput, &c.Output.DefaultFormat)
	str(EnvLogLevel, &c.Logging.Level)
	str(EnvLogFormat, &c.Logging.Format)
	str(EnvLogFile, &c.Logging.File)
	str(EnvCacheDir, &c.API.CacheDir)

	if err := integer(EnvTimeoutSeconds, &c.API.TimeoutSeconds); err != nil {
		return err
	}
	if err := integer(EnvCacheTTL, &c.API.CacheTTLSeconds); err != nil {
		return err
	}
	return integer(EnvPageSize, &c.View.PageSize)
}

// Validate checks that every field holds a usable value.
func (c *Config) Validate() error {
	if c.API.Endpoint == "" {
		return fmt.Errorf("%w: api.endpoint must not be empty", ErrInvalidConfig)
	}
	if c.API.TimeoutSeconds < 0 {
		return fmt.Errorf("%w: api.timeout_seconds must be >= 0, got %d", ErrInvalidConfig, c.API.TimeoutSeconds)
	}
	if c.API.CacheTTLSeconds < 0 {
		return fmt.Errorf("%w: api.cache_ttl_seconds must be >= 0, got %d", ErrInvalidConfig, c.API.CacheTTLSeconds)
	}
	if !query.IsAllowedRowsPerPage(c.View.PageSize) {
		return fmt.Errorf("%w: view.page_size must be one of %v, got %d",
			ErrInvalidConfig, query.AllowedRowsPerPage, c.View.PageSize)
	}
	if _, _, err := query.ParseSort(c.View.Sort); err != nil {
		return fmt.Errorf("%w: view.sort: %w", ErrInvalidConfig, err)
	}
	if _, err := language.Parse(c.View.Locale); err != nil {
		return fmt.Errorf("%w: view.locale %q: %w", ErrInvalidConfig, c.View.Locale, err)
	}
	if _, err := query.ParseMode(c.Search.Mode); err != nil {
		return fmt.Errorf("%w: search.mode: %w", ErrInvalidConfig, err)
	}
	if c.Search.Threshold < 0 || c.Search.Threshold > 1 {
		return fmt.Errorf("%w: search.threshold must be within [0, 1], got %g", ErrInvalidConfig, c.Search.Threshold)
	}
	if c.Search.Distance < 0 {
		return fmt.Errorf("%w: search.distance must be >= 0, got %d", ErrInvalidConfig, c.Search.Distance)
	}
	if !slices.Contains([]string{OutputTable, OutputJSON, OutputNDJSON, OutputYAML}, c.Output.DefaultFormat) {
		return fmt.Errorf("%w: output.default_format %q is not supported", ErrInvalidConfig, c.Output.DefaultFormat)
	}
	return c.Logging.Validate()
}

// MatchOptions converts the search section into matcher options.
func (c *Config) MatchOptions() query.MatchOptions {
	opts := query.DefaultMatchOptions()
	opts.Threshold = c.Search.Threshold
	opts.Distance = c.Search.Distance
	opts.IgnoreLocation = c.Search.IgnoreLocation
	opts.IgnoreDiacritics = c.Search.IgnoreDiacritics
	opts.IgnoreFieldNorm = c.Search.IgnoreFieldNorm
	return opts
}

// LocaleTag returns the parsed collation locale, defaulting to English.
func (c *Config) LocaleTag() language.Tag {
	tag, err := language.Parse(c.View.Locale)
	if err != nil {
		return language.English
	}
	return tag
}

// BaseDir returns ~/.countries, or "" when the home directory is unknown.
func BaseDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ""
	}
	return filepath.Join(home, dirName)
}

// CacheDirectory returns api.cache_dir, falling back to ~/.countries/cache.
// It is "" when neither is available.
func (c *Config) CacheDirectory() string {
	if c.API.CacheDir != "" {
		return c.API.CacheDir
	}
	base := BaseDir()
	if base == "" {
		return ""
	}
	return filepath.Join(base, cacheDirName)
}

// DefaultConfigPath returns ~/.countries/config.yaml, or "" when the home directory is unknown.
func DefaultConfigPath() string {
	base := BaseDir()
	if base == "" {
		return ""
	}
	return filepath.Join(base, configFileName)
}

// ErrConfigExists is returned by WriteDefault when the file exists and force is false.
var ErrConfigExists = errors.New("config file already exists")

// WriteDefault writes the default configuration to path, creating parent directories.
func WriteDefault(path string, force bool) error {
	if path == "" {
		return errors.New("config path cannot be empty")
	}
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%w: %s (use --force to overwrite)", ErrConfigExists, path)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(New())
	if err != nil {
		return fmt.Errorf("marshalling default config: %w", err)
	}
	if err = os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

//nolint:gochecknoglobals // Process-wide config, set once per command invocation.
var (
	globalConfig   *Config
	globalConfigMu sync.RWMutex
)

// SetGlobalConfig installs cfg as the process-wide configuration.
func SetGlobalConfig(cfg *Config) {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
}

// GetGlobalConfig returns the process-wide configuration, or defaults if none was set.
func GetGlobalConfig() *Config {
	globalConfigMu.RLock()
	defer globalConfigMu.RUnlock()
	if globalConfig == nil {
		return New()
	}
	return globalConfig
}
