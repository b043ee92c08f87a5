package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/G3rze/edaprofile/internal/utils"
)

// Report modes accepted by report_mode.
const (
	ReportMinimal     = "minimal"
	ReportExplorative = "explorative"
)

// Global configuration structure.
type Global struct {
	// Loading
	NullTokens       []string `mapstructure:"null_tokens" yaml:"null_tokens"`
	CategoricalRatio float64  `mapstructure:"categorical_ratio" yaml:"categorical_ratio" validate:"gt=0,lte=1"`
	CSVDelimiter     string   `mapstructure:"csv_delimiter" yaml:"csv_delimiter" validate:"omitempty,max=2"`
	ExcelSheet       string   `mapstructure:"excel_sheet" yaml:"excel_sheet"`
	ParseDates       bool     `mapstructure:"parse_dates" yaml:"parse_dates"`

	// Column selection and charts
	DefaultNullThreshold float64 `mapstructure:"default_null_threshold" yaml:"default_null_threshold" validate:"gte=0,lte=100"`
	MaxBoxplotGroups     int     `mapstructure:"max_boxplot_groups" yaml:"max_boxplot_groups" validate:"gte=1"`
	TopN                 int     `mapstructure:"top_n" yaml:"top_n" validate:"gte=1"`
	HistogramBins        int     `mapstructure:"histogram_bins" yaml:"histogram_bins" validate:"gte=1"`
	Concurrency          int     `mapstructure:"concurrency" yaml:"concurrency" validate:"gte=1"`

	// Output locations
	ChartsDir  string `mapstructure:"charts_dir" yaml:"charts_dir" validate:"required"`
	ReportDir  string `mapstructure:"report_dir" yaml:"report_dir"`
	ReportMode string `mapstructure:"report_mode" yaml:"report_mode" validate:"oneof=minimal explorative"`
	OutputDir  string `mapstructure:"output_dir" yaml:"output_dir" validate:"required"`
}

// Keys lists every settable key, in display order.
var Keys = []string{
	"null_tokens", "categorical_ratio", "csv_delimiter", "excel_sheet", "parse_dates",
	"default_null_threshold", "max_boxplot_groups", "top_n", "histogram_bins", "concurrency",
	"charts_dir", "report_dir", "report_mode", "output_dir",
}

// DefaultPath returns ~/.edaprofile/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".edaprofile", "config.yaml"), nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("null_tokens", []string{"", "NA", "NULL", "NaN"})
	v.SetDefault("categorical_ratio", 0.5)
	v.SetDefault("csv_delimiter", "")
	v.SetDefault("excel_sheet", "")
	v.SetDefault("parse_dates", false)
	v.SetDefault("default_null_threshold", 50.0)
	v.SetDefault("max_boxplot_groups", 10)
	v.SetDefault("top_n", 10)
	v.SetDefault("histogram_bins", 30)
	v.SetDefault("concurrency", 1)
	v.SetDefault("charts_dir", "graficos")
	v.SetDefault("report_dir", "")
	v.SetDefault("report_mode", ReportMinimal)
	v.SetDefault("output_dir", "summaries")
}

// Default returns the built-in configuration without consulting file or env.
func Default() *Global {
	v := viper.New()
	setDefaults(v)
	var c Global
	_ = v.Unmarshal(&c)
	c.ReportDir = os.TempDir()
	return &c
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.edaprofile/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := utils.SafeWriteFile(path, b); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("EDAPROFILE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(filepath.Dir(p))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.ReportDir == "" {
		c.ReportDir = os.TempDir()
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks value ranges declared in struct tags.
func (c *Global) Validate() error {
	if err := validate.Struct(c); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid config: %s fails %q (value %v)", fe.Field(), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Delimiter returns the configured CSV delimiter rune, or 0 for the per-extension default.
func (c *Global) Delimiter() rune {
	if c.CSVDelimiter == "" {
		return 0
	}
	if c.CSVDelimiter == `\t` {
		return '\t'
	}
	return []rune(c.CSVDelimiter)[0]
}

// Set assigns a single key from its string form and re-validates.
func (c *Global) Set(key, val string) error {
	switch key {
	case "null_tokens":
		tokens := []string{}
		for _, t := range strings.Split(val, ",") {
			tokens = append(tokens, strings.TrimSpace(t))
		}
		c.NullTokens = tokens
	case "categorical_ratio":
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return fmt.Errorf("invalid float for categorical_ratio: %w", err)
		}
		c.CategoricalRatio = f
	case "csv_delimiter":
		c.CSVDelimiter = val
	case "excel_sheet":
		c.ExcelSheet = val
	case "parse_dates":
		b, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("invalid bool for parse_dates: %w", err)
		}
		c.ParseDates = b
	case "default_null_threshold":
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return fmt.Errorf("invalid float for default_null_threshold: %w", err)
		}
		c.DefaultNullThreshold = f
	case "max_boxplot_groups", "top_n", "histogram_bins", "concurrency":
		i, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("invalid int for %s: %w", key, err)
		}
		switch key {
		case "max_boxplot_groups":
			c.MaxBoxplotGroups = i
		case "top_n":
			c.TopN = i
		case "histogram_bins":
			c.HistogramBins = i
		default:
			c.Concurrency = i
		}
	case "charts_dir":
		c.ChartsDir = val
	case "report_dir":
		c.ReportDir = val
	case "report_mode":
		c.ReportMode = strings.ToLower(val)
	case "output_dir":
		c.OutputDir = val
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	return c.Validate()
}

// Get renders a key's current value for display.
func (c *Global) Get(key string) (string, error) {
	switch key {
	case "null_tokens":
		quoted := make([]string, len(c.NullTokens))
		for i, t := range c.NullTokens {
			quoted[i] = strconv.Quote(t)
		}
		return "[" + strings.Join(quoted, ", ") + "]", nil
	case "categorical_ratio":
		return strconv.FormatFloat(c.CategoricalRatio, 'f', -1, 64), nil
	case "csv_delimiter":
		return c.CSVDelimiter, nil
	case "excel_sheet":
		return c.ExcelSheet, nil
	case "parse_dates":
		return strconv.FormatBool(c.ParseDates), nil
	case "default_null_threshold":
		return strconv.FormatFloat(c.DefaultNullThreshold, 'f', -1, 64), nil
	case "max_boxplot_groups":
		return strconv.Itoa(c.MaxBoxplotGroups), nil
	case "top_n":
		return strconv.Itoa(c.TopN), nil
	case "histogram_bins":
		return strconv.Itoa(c.HistogramBins), nil
	case "concurrency":
		return strconv.Itoa(c.Concurrency), nil
	case "charts_dir":
		return c.ChartsDir, nil
	case "report_dir":
		return c.ReportDir, nil
	case "report_mode":
		return c.ReportMode, nil
	case "output_dir":
		return c.OutputDir, nil
	default:
		return "", fmt.Errorf("unknown key: %s", key)
	}
}
