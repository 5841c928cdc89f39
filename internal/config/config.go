package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	// Chart output
	ChartDir      string  `mapstructure:"chart_dir" yaml:"chart_dir"`
	ChartFormat   string  `mapstructure:"chart_format" yaml:"chart_format" validate:"oneof=png html"`
	ChartHeightIn float64 `mapstructure:"chart_height_in" yaml:"chart_height_in" validate:"gt=0,lte=50"`

	// Text output
	Precision int `mapstructure:"precision" yaml:"precision" validate:"gte=0,lte=12"`

	// Default view selection for analyze when flags are not passed
	GraphDefault    bool `mapstructure:"graph_default" yaml:"graph_default"`
	OnScreenDefault bool `mapstructure:"onscreen_default" yaml:"onscreen_default"`

	// Spreadsheet input
	XLSXSheet string `mapstructure:"xlsx_sheet" yaml:"xlsx_sheet"`

	// Patient roster location
	RosterDir string `mapstructure:"roster_dir" yaml:"roster_dir"`
}

var validate = validator.New()

// Defaults returns the built-in configuration used when no file or env
// override is present.
func Defaults() *Global {
	return &Global{
		ChartDir:      ".",
		ChartFormat:   "png",
		ChartHeightIn: 3.0,
		Precision:     4,
		GraphDefault:  true,
	}
}

// Validate checks field constraints declared in struct tags.
func (c *Global) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".inflammation"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.inflammation/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		dir, err := configDir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults. CLI flags are applied by the caller.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("INFLAMMATION")
	v.AutomaticEnv()

	d := Defaults()
	v.SetDefault("chart_dir", d.ChartDir)
	v.SetDefault("chart_format", d.ChartFormat)
	v.SetDefault("chart_height_in", d.ChartHeightIn)
	v.SetDefault("precision", d.Precision)
	v.SetDefault("graph_default", d.GraphDefault)
	v.SetDefault("onscreen_default", d.OnScreenDefault)
	v.SetDefault("xlsx_sheet", d.XLSXSheet)
	v.SetDefault("roster_dir", d.RosterDir)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := configDir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	// Resolve roster_dir default: ~/.inflammation/roster
	if c.RosterDir == "" {
		dir, err := configDir()
		if err != nil {
			return nil, err
		}
		c.RosterDir = filepath.Join(dir, "roster")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}
