package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/piwi3910/SlabNest/internal/model"
)

// EnvPrefix is prepended to every environment override, e.g.
// SLABNEST_DEFAULTS_KERF_WIDTH=4.
const EnvPrefix = "SLABNEST"

// Config is the full application configuration.
type Config struct {
	Logger   LoggerConfig   `mapstructure:"logger" yaml:"logger"`
	Engine   EngineConfig   `mapstructure:"engine" yaml:"engine"`
	Nesting  NestingConfig  `mapstructure:"nesting" yaml:"nesting"`
	Defaults DefaultsConfig `mapstructure:"defaults" yaml:"defaults"`
	Export   ExportConfig   `mapstructure:"export" yaml:"export"`
	Store    StoreConfig    `mapstructure:"store" yaml:"store"`
}

// LoggerConfig holds the logging setup.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"` // console or json
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"` // empty disables the file sink
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"` // megabytes
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"` // days
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig defines the color names for different log levels.
type ColorConfig struct {
	Debug string `mapstructure:"debug" yaml:"debug"`
	Info  string `mapstructure:"info" yaml:"info"`
	Warn  string `mapstructure:"warn" yaml:"warn"`
	Error string `mapstructure:"error" yaml:"error"`
	Fatal string `mapstructure:"fatal" yaml:"fatal"`
}

// EngineConfig tunes how runs are executed.
type EngineConfig struct {
	Workers int `mapstructure:"workers" yaml:"workers"` // concurrent material groups
}

// NestingConfig is the shop-level nesting policy.
type NestingConfig struct {
	LaminationThreshold  int      `mapstructure:"lamination_threshold" yaml:"lamination_threshold"`
	LaminationStripWidth int      `mapstructure:"lamination_strip_width" yaml:"lamination_strip_width"`
	MitreStripWidth      int      `mapstructure:"mitre_strip_width" yaml:"mitre_strip_width"`
	MitreKeywords        []string `mapstructure:"mitre_keywords" yaml:"mitre_keywords"`
	LaminatedKeywords    []string `mapstructure:"laminated_keywords" yaml:"laminated_keywords"`
	GridSplit            string   `mapstructure:"grid_split" yaml:"grid_split"`
	MinOffcutDimension   int      `mapstructure:"min_offcut_dimension" yaml:"min_offcut_dimension"`
	MinOffcutArea        int      `mapstructure:"min_offcut_area" yaml:"min_offcut_area"`
}

// DefaultsConfig fills in request parameters a piece list does not carry.
type DefaultsConfig struct {
	SlabWidth      int    `mapstructure:"slab_width" yaml:"slab_width"`
	SlabHeight     int    `mapstructure:"slab_height" yaml:"slab_height"`
	KerfWidth      int    `mapstructure:"kerf_width" yaml:"kerf_width"`
	MitreKerfWidth int    `mapstructure:"mitre_kerf_width" yaml:"mitre_kerf_width"` // 0 means same as kerf_width
	EdgeAllowance  int    `mapstructure:"edge_allowance" yaml:"edge_allowance"`
	AllowRotation  bool   `mapstructure:"allow_rotation" yaml:"allow_rotation"`
	Thickness      int    `mapstructure:"thickness" yaml:"thickness"`
	Material       string `mapstructure:"material" yaml:"material"`
}

// ExportConfig controls the shop documents.
type ExportConfig struct {
	CompanyName string `mapstructure:"company_name" yaml:"company_name"`
	LabelQR     bool   `mapstructure:"label_qr" yaml:"label_qr"`
}

// StoreConfig locates the job store.
type StoreConfig struct {
	Dir string `mapstructure:"dir" yaml:"dir"` // empty means ~/.slabnest/jobs
}

// SetDefaults initializes default values for every configuration key.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "slabnest")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 20)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 28)
	v.SetDefault("logger.compress", true)
	v.SetDefault("logger.colors.debug", "cyan")
	v.SetDefault("logger.colors.info", "green")
	v.SetDefault("logger.colors.warn", "yellow")
	v.SetDefault("logger.colors.error", "red")
	v.SetDefault("logger.colors.fatal", "magenta")

	// -- Engine --
	v.SetDefault("engine.workers", 4)

	// -- Nesting --
	d := model.DefaultNestSettings()
	v.SetDefault("nesting.lamination_threshold", d.LaminationThreshold)
	v.SetDefault("nesting.lamination_strip_width", d.LaminationStripWidth)
	v.SetDefault("nesting.mitre_strip_width", d.MitreStripWidth)
	v.SetDefault("nesting.mitre_keywords", d.MitreKeywords)
	v.SetDefault("nesting.laminated_keywords", d.LaminatedKeywords)
	v.SetDefault("nesting.grid_split", string(d.GridSplit))
	v.SetDefault("nesting.min_offcut_dimension", d.MinOffcutDimension)
	v.SetDefault("nesting.min_offcut_area", d.MinOffcutArea)

	// -- Request defaults (a standard 3000 x 1400 engineered stone slab) --
	v.SetDefault("defaults.slab_width", 3000)
	v.SetDefault("defaults.slab_height", 1400)
	v.SetDefault("defaults.kerf_width", 3)
	v.SetDefault("defaults.mitre_kerf_width", 0)
	v.SetDefault("defaults.edge_allowance", 0)
	v.SetDefault("defaults.allow_rotation", true)
	v.SetDefault("defaults.thickness", 20)
	v.SetDefault("defaults.material", "")

	// -- Export --
	v.SetDefault("export.company_name", "")
	v.SetDefault("export.label_qr", true)

	// -- Store --
	v.SetDefault("store.dir", "")
}

// NewDefaultConfig returns the configuration with every default applied.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		// Defaults are static, so this only fires on a programming error.
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// NewConfigFromViper decodes and validates the configuration held by v.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// NewViper returns a viper instance wired with defaults, the config file and
// SLABNEST_ environment overrides. An empty path searches ./slabnest.yaml
// and ~/.slabnest/config.yaml; a missing file is not an error.
func NewViper(path string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("slabnest")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".slabnest"))
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}
	return v, nil
}

// Load reads and validates the configuration.
func Load(path string) (*Config, error) {
	v, err := NewViper(path)
	if err != nil {
		return nil, err
	}
	return NewConfigFromViper(v)
}

// Validate checks the configuration for sane values.
func (c *Config) Validate() error {
	if c.Engine.Workers <= 0 {
		return fmt.Errorf("engine.workers must be a positive integer")
	}
	if err := c.Nesting.Validate(); err != nil {
		return fmt.Errorf("nesting configuration invalid: %w", err)
	}
	if err := c.Defaults.Validate(); err != nil {
		return fmt.Errorf("defaults configuration invalid: %w", err)
	}
	switch c.Logger.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logger.format must be console or json, got %q", c.Logger.Format)
	}
	return nil
}

// Validate checks the nesting policy.
func (n *NestingConfig) Validate() error {
	if n.LaminationThreshold <= 0 {
		return fmt.Errorf("lamination_threshold must be positive")
	}
	if n.LaminationStripWidth <= 0 || n.MitreStripWidth <= 0 {
		return fmt.Errorf("strip widths must be positive")
	}
	if !model.GridSplitPolicy(n.GridSplit).Valid() {
		return fmt.Errorf("grid_split must be rotatable-only, always or never, got %q", n.GridSplit)
	}
	if n.MinOffcutDimension < 0 || n.MinOffcutArea < 0 {
		return fmt.Errorf("offcut thresholds must not be negative")
	}
	return nil
}

// Validate checks the request defaults.
func (d *DefaultsConfig) Validate() error {
	if d.SlabWidth <= 0 || d.SlabHeight <= 0 {
		return fmt.Errorf("slab_width and slab_height must be positive")
	}
	if d.KerfWidth < 0 || d.MitreKerfWidth < 0 || d.EdgeAllowance < 0 {
		return fmt.Errorf("kerf widths and edge_allowance must not be negative")
	}
	if 2*d.EdgeAllowance >= min(d.SlabWidth, d.SlabHeight) {
		return fmt.Errorf("edge_allowance %d leaves no usable slab", d.EdgeAllowance)
	}
	return nil
}

// NestSettings converts the nesting section into engine settings.
func (c *Config) NestSettings() model.NestSettings {
	return model.NestSettings{
		LaminationThreshold:  c.Nesting.LaminationThreshold,
		LaminationStripWidth: c.Nesting.LaminationStripWidth,
		MitreStripWidth:      c.Nesting.MitreStripWidth,
		MitreKeywords:        c.Nesting.MitreKeywords,
		LaminatedKeywords:    c.Nesting.LaminatedKeywords,
		GridSplit:            model.GridSplitPolicy(c.Nesting.GridSplit),
		MinOffcutDimension:   c.Nesting.MinOffcutDimension,
		MinOffcutArea:        c.Nesting.MinOffcutArea,
		Workers:              c.Engine.Workers,
	}
}

// BaseInput returns an empty request carrying the configured slab, kerf and
// rotation defaults.
func (c *Config) BaseInput() model.OptimizationInput {
	in := model.OptimizationInput{
		SlabWidth:       c.Defaults.SlabWidth,
		SlabHeight:      c.Defaults.SlabHeight,
		KerfWidth:       c.Defaults.KerfWidth,
		AllowRotation:   c.Defaults.AllowRotation,
		EdgeAllowanceMm: c.Defaults.EdgeAllowance,
	}
	if c.Defaults.MitreKerfWidth > 0 {
		mk := c.Defaults.MitreKerfWidth
		in.MitreKerfWidth = &mk
	}
	return in
}

// JobDir returns the job store directory, defaulting to ~/.slabnest/jobs.
func (c *Config) JobDir() (string, error) {
	if c.Store.Dir != "" {
		return c.Store.Dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".slabnest", "jobs"), nil
}
