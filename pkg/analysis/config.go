package analysis

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"gonum.org/v1/plot/vg"
)

// Config manages analysis configuration using Viper
type Config struct {
	v *viper.Viper
}

// NewConfig creates a new configuration with defaults
func NewConfig() *Config {
	v := viper.New()

	// Time study
	v.SetDefault("time.input", "time_research_res.csv")
	v.SetDefault("time.output", "time_heatmap.png")
	v.SetDefault("time.title", "Algorithm execution time for CAUCHY law, sec")
	v.SetDefault("time.width_in", 15.0)
	v.SetDefault("time.height_in", 15.0)
	v.SetDefault("time.palette", "kindlmann")
	v.SetDefault("time.annotation_format", "%.2g")
	v.SetDefault("time.x_label", "Works Number")
	v.SetDefault("time.y_label", "Processors Number")

	// Law study
	v.SetDefault("law.input", "law_research_res.csv")
	v.SetDefault("law.output", "law_heatmap.png")
	v.SetDefault("law.title", `Law comparison on "big" data`)
	v.SetDefault("law.width_in", 20.0)
	v.SetDefault("law.height_in", 8.0)
	v.SetDefault("law.labels", []string{"Boltzmann", "Cauchy", "Log"})
	v.SetDefault("law.time_title", "Execution time, sec")
	v.SetDefault("law.time_palette", "kindlmann")
	v.SetDefault("law.rel_title", "Relative result increase, %")
	v.SetDefault("law.rel_palette", "extended_black_body")
	v.SetDefault("law.annotation_format", "%.2f")
	v.SetDefault("law.x_label", "Law")
	v.SetDefault("law.y_label", "Processors-Works")

	// Summary tables
	v.SetDefault("summary.enabled", false)
	v.SetDefault("summary.float_format", "%.4f")

	// Logging parameters
	v.SetDefault("logging.level", "info")

	return &Config{v: v}
}

// LoadFromFile loads configuration from file
func (c *Config) LoadFromFile(path string) error {
	c.v.SetConfigFile(path)
	return c.v.ReadInConfig()
}

// Viper exposes the underlying store for flag binding.
func (c *Config) Viper() *viper.Viper { return c.v }

func (c *Config) TimeInput() string            { return c.v.GetString("time.input") }
func (c *Config) TimeOutput() string           { return c.v.GetString("time.output") }
func (c *Config) TimeTitle() string            { return c.v.GetString("time.title") }
func (c *Config) TimeWidth() vg.Length         { return inches(c.v.GetFloat64("time.width_in")) }
func (c *Config) TimeHeight() vg.Length        { return inches(c.v.GetFloat64("time.height_in")) }
func (c *Config) TimePalette() string          { return c.v.GetString("time.palette") }
func (c *Config) TimeAnnotationFormat() string { return c.v.GetString("time.annotation_format") }
func (c *Config) TimeXLabel() string           { return c.v.GetString("time.x_label") }
func (c *Config) TimeYLabel() string           { return c.v.GetString("time.y_label") }

func (c *Config) LawInput() string            { return c.v.GetString("law.input") }
func (c *Config) LawOutput() string           { return c.v.GetString("law.output") }
func (c *Config) LawTitle() string            { return c.v.GetString("law.title") }
func (c *Config) LawWidth() vg.Length         { return inches(c.v.GetFloat64("law.width_in")) }
func (c *Config) LawHeight() vg.Length        { return inches(c.v.GetFloat64("law.height_in")) }
func (c *Config) LawLabels() []string         { return c.v.GetStringSlice("law.labels") }
func (c *Config) LawTimeTitle() string        { return c.v.GetString("law.time_title") }
func (c *Config) LawTimePalette() string      { return c.v.GetString("law.time_palette") }
func (c *Config) LawRelTitle() string         { return c.v.GetString("law.rel_title") }
func (c *Config) LawRelPalette() string       { return c.v.GetString("law.rel_palette") }
func (c *Config) LawAnnotationFormat() string { return c.v.GetString("law.annotation_format") }
func (c *Config) LawXLabel() string           { return c.v.GetString("law.x_label") }
func (c *Config) LawYLabel() string           { return c.v.GetString("law.y_label") }

func (c *Config) SummaryEnabled() bool { return c.v.GetBool("summary.enabled") }
func (c *Config) FloatFormat() string  { return c.v.GetString("summary.float_format") }

func (c *Config) LogLevel() string { return c.v.GetString("logging.level") }

// Set allows dynamic configuration changes
func (c *Config) Set(key string, value interface{}) {
	c.v.Set(key, value)
}

// CreateLogger creates a zerolog logger based on config. Logs go to stderr so
// summary tables on stdout stay clean.
func (c *Config) CreateLogger() zerolog.Logger {
	return c.CreateLoggerTo(os.Stderr)
}

// CreateLoggerTo creates a console logger writing to w
func (c *Config) CreateLoggerTo(w io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(c.LogLevel())
	if err != nil {
		level = zerolog.InfoLevel
	}

	return zerolog.New(zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: "15:04:05",
	}).Level(level).With().Timestamp().Str("service", "heatmaps").Logger()
}

func inches(v float64) vg.Length { return vg.Length(v) * vg.Inch }
