package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cast"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/bpvar-cli/internal/classify"
	"github.com/KaramelBytes/bpvar-cli/internal/engine"
	"github.com/KaramelBytes/bpvar-cli/internal/headers"
	"github.com/KaramelBytes/bpvar-cli/internal/normalize"
	"github.com/KaramelBytes/bpvar-cli/internal/segment"
)

// Global configuration structure.
type Global struct {
	// Window hours, 0-24. A window whose start is after its end crosses midnight.
	DayStart     int `mapstructure:"day_start" yaml:"day_start"`
	DayEnd       int `mapstructure:"day_end" yaml:"day_end"`
	NightStart   int `mapstructure:"night_start" yaml:"night_start"`
	NightEnd     int `mapstructure:"night_end" yaml:"night_end"`
	MorningStart int `mapstructure:"morning_start" yaml:"morning_start"`
	MorningEnd   int `mapstructure:"morning_end" yaml:"morning_end"`

	// Dipping thresholds in percent.
	DippingNonDipper float64 `mapstructure:"dipping_non_dipper" yaml:"dipping_non_dipper"`
	DippingNormal    float64 `mapstructure:"dipping_normal" yaml:"dipping_normal"`
	DippingExtreme   float64 `mapstructure:"dipping_extreme" yaml:"dipping_extreme"`

	MinSampleSize int  `mapstructure:"min_sample_size" yaml:"min_sample_size"`
	Workers       int  `mapstructure:"workers" yaml:"workers"`
	DayFirst      bool `mapstructure:"day_first" yaml:"day_first"`

	// Header detection
	ConfidenceThreshold float64 `mapstructure:"confidence_threshold" yaml:"confidence_threshold"`
	VocabularyFile      string  `mapstructure:"vocabulary_file" yaml:"vocabulary_file"`

	LogFormat    string `mapstructure:"log_format" yaml:"log_format"`
	OutputFormat string `mapstructure:"output_format" yaml:"output_format"`
}

func defaults() map[string]any {
	ec := engine.DefaultConfig()
	return map[string]any{
		"day_start":            ec.Windows.Day.Start,
		"day_end":              ec.Windows.Day.End,
		"night_start":          ec.Windows.Night.Start,
		"night_end":            ec.Windows.Night.End,
		"morning_start":        ec.Windows.Morning.Start,
		"morning_end":          ec.Windows.Morning.End,
		"dipping_non_dipper":   ec.Thresholds.NonDipper,
		"dipping_normal":       ec.Thresholds.Normal,
		"dipping_extreme":      ec.Thresholds.Extreme,
		"min_sample_size":      ec.MinSampleSize,
		"workers":              ec.Workers,
		"day_first":            ec.Normalize.DayFirst,
		"confidence_threshold": headers.DefaultThreshold,
		"vocabulary_file":      "",
		"log_format":           "text",
		"output_format":        "markdown",
	}
}

// Keys lists every configuration key in sorted order.
func Keys() []string {
	d := defaults()
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Default returns the built-in configuration.
func Default() *Global {
	c, _ := load(viper.New(), "")
	return c
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.bpvar/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		dir, err := Dir()
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

// Dir is the default configuration directory, ~/.bpvar.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".bpvar"), nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("BPV")
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	return load(v, cfgFile)
}

func load(v *viper.Viper, cfgFile string) (*Global, error) {
	for k, val := range defaults() {
		v.SetDefault(k, val)
	}
	if err := v.ReadInConfig(); err != nil {
		// missing files fall back to defaults
		var nf viper.ConfigFileNotFoundError
		if !errors.As(err, &nf) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	}
	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}

// Set assigns one key from its string form.
func (c *Global) Set(key, val string) error {
	var err error
	asInt := func(dst *int) {
		var i int
		if i, err = strconv.Atoi(strings.TrimSpace(val)); err == nil {
			*dst = i
		}
	}
	asFloat := func(dst *float64) {
		var f float64
		if f, err = cast.ToFloat64E(strings.TrimSpace(val)); err == nil {
			*dst = f
		}
	}
	switch key {
	case "day_start":
		asInt(&c.DayStart)
	case "day_end":
		asInt(&c.DayEnd)
	case "night_start":
		asInt(&c.NightStart)
	case "night_end":
		asInt(&c.NightEnd)
	case "morning_start":
		asInt(&c.MorningStart)
	case "morning_end":
		asInt(&c.MorningEnd)
	case "dipping_non_dipper":
		asFloat(&c.DippingNonDipper)
	case "dipping_normal":
		asFloat(&c.DippingNormal)
	case "dipping_extreme":
		asFloat(&c.DippingExtreme)
	case "min_sample_size":
		asInt(&c.MinSampleSize)
	case "workers":
		asInt(&c.Workers)
	case "confidence_threshold":
		asFloat(&c.ConfidenceThreshold)
		if err == nil && (c.ConfidenceThreshold <= 0 || c.ConfidenceThreshold > 1) {
			return fmt.Errorf("invalid confidence_threshold: %s (use a value in (0,1])", val)
		}
	case "day_first":
		var b bool
		if b, err = cast.ToBoolE(val); err == nil {
			c.DayFirst = b
		}
	case "vocabulary_file":
		c.VocabularyFile = val
	case "log_format":
		switch val {
		case "text", "json":
			c.LogFormat = val
		default:
			return fmt.Errorf("invalid log_format: %s (use text or json)", val)
		}
	case "output_format":
		switch val {
		case "markdown", "json", "xlsx":
			c.OutputFormat = val
		default:
			return fmt.Errorf("invalid output_format: %s (use markdown, json or xlsx)", val)
		}
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	return nil
}

// Engine converts the configuration into analysis settings. The result is
// not validated; engine.Run does that.
func (c *Global) Engine() engine.Config {
	return engine.Config{
		Windows: segment.Windows{
			Day:     segment.Window{Start: c.DayStart, End: c.DayEnd},
			Night:   segment.Window{Start: c.NightStart, End: c.NightEnd},
			Morning: segment.Window{Start: c.MorningStart, End: c.MorningEnd},
		},
		Thresholds: classify.Thresholds{
			NonDipper: c.DippingNonDipper,
			Normal:    c.DippingNormal,
			Extreme:   c.DippingExtreme,
		},
		MinSampleSize: c.MinSampleSize,
		Workers:       c.Workers,
		Normalize:     normalize.Options{DayFirst: c.DayFirst},
	}
}

// Vocabulary returns the header vocabulary, merged with VocabularyFile when set.
func (c *Global) Vocabulary() (headers.Vocabulary, error) {
	if c.VocabularyFile == "" {
		return headers.DefaultVocabulary(), nil
	}
	return headers.LoadVocabulary(c.VocabularyFile)
}
