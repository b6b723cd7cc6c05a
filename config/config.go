package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/ChristianF88/radixsort/ingestor"
	"github.com/ChristianF88/radixsort/iputils"
	"github.com/ChristianF88/radixsort/keygen"
)

// Defaults applied to missing values
const (
	DefaultFormat        = "dec"
	DefaultKind          = "lcg"
	DefaultCount         = 1000000
	DefaultIterations    = 5
	DefaultPort          = "5044"
	DefaultFlushInterval = 10 * time.Second
	DefaultWindowMaxTime = time.Hour
	DefaultWindowMaxSize = 100000
)

var DefaultBenchSizes = []int{1000, 10000, 100000, 1000000}

type GlobalConfig struct {
	Format  string `toml:"format"`
	Compact bool   `toml:"compact"`
}

type SortConfig struct {
	Input    string `toml:"input"`
	Output   string `toml:"output"`
	Verify   bool   `toml:"verify"`
	PlotPath string `toml:"plotPath"`
}

type GenerateConfig struct {
	Kind   string `toml:"kind"`
	Count  int    `toml:"count"`
	Seed   uint32 `toml:"seed"`
	CIDR   string `toml:"cidr"`
	Output string `toml:"output"`
}

type BenchConfig struct {
	Sizes      []int  `toml:"sizes"`
	Iterations int    `toml:"iterations"`
	Kind       string `toml:"kind"`
	Seed       uint32 `toml:"seed"`
	PlotPath   string `toml:"plotPath"`
}

type ListenConfig struct {
	Port          string `toml:"port"`
	Field         string `toml:"field"`
	WindowMaxSize int    `toml:"windowMaxSize"`

	// Raw values as written in the file, parsed into the fields below
	FlushIntervalRaw string `toml:"flushInterval"`
	WindowMaxTimeRaw string `toml:"windowMaxTime"`

	FlushInterval time.Duration `toml:"-"`
	WindowMaxTime time.Duration `toml:"-"`
}

type Config struct {
	Global   *GlobalConfig   `toml:"global"`
	Sort     *SortConfig     `toml:"sort"`
	Generate *GenerateConfig `toml:"generate"`
	Bench    *BenchConfig    `toml:"bench"`
	Listen   *ListenConfig   `toml:"listen"`

	// Warnings collects non-fatal problems such as unknown keys
	Warnings []string `toml:"-"`
}

func LoadConfig(configPath string) (*Config, error) {
	configData, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return ParseConfig(string(configData))
}

// ParseConfig decodes TOML content and fills in defaults.
func ParseConfig(data string) (*Config, error) {
	config := &Config{}
	md, err := toml.Decode(data, config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	for _, key := range md.Undecoded() {
		config.Warnings = append(config.Warnings, fmt.Sprintf("unknown config key %q", key.String()))
	}
	sort.Strings(config.Warnings)

	if err := config.applyDefaults(md); err != nil {
		return nil, err
	}
	return config, nil
}

// applyDefaults fills unset fields. Count is only defaulted when the key is
// absent, so an explicit count = 0 survives.
func (c *Config) applyDefaults(md toml.MetaData) error {
	if c.Global == nil {
		c.Global = &GlobalConfig{}
	}
	if c.Global.Format == "" {
		c.Global.Format = DefaultFormat
	}

	if c.Generate != nil {
		if c.Generate.Kind == "" {
			c.Generate.Kind = DefaultKind
		}
		if !md.IsDefined("generate", "count") {
			c.Generate.Count = DefaultCount
		}
	}

	if c.Bench != nil {
		if len(c.Bench.Sizes) == 0 {
			c.Bench.Sizes = append([]int(nil), DefaultBenchSizes...)
		}
		if c.Bench.Iterations == 0 {
			c.Bench.Iterations = DefaultIterations
		}
		if c.Bench.Kind == "" {
			c.Bench.Kind = DefaultKind
		}
	}

	if c.Listen != nil {
		if c.Listen.Port == "" {
			c.Listen.Port = DefaultPort
		}
		if c.Listen.Field == "" {
			c.Listen.Field = ingestor.DefaultField
		}
		if c.Listen.WindowMaxSize == 0 {
			c.Listen.WindowMaxSize = DefaultWindowMaxSize
		}

		var err error
		if c.Listen.FlushInterval, err = parseDurationOr(c.Listen.FlushIntervalRaw, DefaultFlushInterval); err != nil {
			return fmt.Errorf("invalid flushInterval: %w", err)
		}
		if c.Listen.WindowMaxTime, err = parseDurationOr(c.Listen.WindowMaxTimeRaw, DefaultWindowMaxTime); err != nil {
			return fmt.Errorf("invalid windowMaxTime: %w", err)
		}
	}

	return nil
}

func parseDurationOr(raw string, def time.Duration) (time.Duration, error) {
	if strings.TrimSpace(raw) == "" {
		return def, nil
	}
	return time.ParseDuration(raw)
}

// Format returns the parsed global key format.
func (c *Config) Format() (ingestor.Format, error) {
	if c.Global == nil {
		return ingestor.Decimal, nil
	}
	return ingestor.ParseFormat(c.Global.Format)
}

func (c *Config) ValidateSort() error {
	if c.Sort == nil {
		return fmt.Errorf("sort configuration section is required")
	}
	if _, err := c.Format(); err != nil {
		return err
	}

	if c.Sort.Input == "" {
		return fmt.Errorf("input is required in sort configuration")
	}
	if c.Sort.Input != "-" {
		if _, err := os.Stat(c.Sort.Input); os.IsNotExist(err) {
			return fmt.Errorf("input file does not exist: %s", c.Sort.Input)
		}
	}

	return ValidatePlotPath(c.Sort.PlotPath)
}

func (c *Config) ValidateGenerate() error {
	if c.Generate == nil {
		return fmt.Errorf("generate configuration section is required")
	}
	if _, err := c.Format(); err != nil {
		return err
	}
	if c.Generate.Count < 0 {
		return fmt.Errorf("count must not be negative, got %d", c.Generate.Count)
	}
	if c.Generate.CIDR != "" {
		if !strings.Contains(c.Generate.CIDR, "/") || !iputils.IsValidCidrOrIP(c.Generate.CIDR) {
			return fmt.Errorf("invalid CIDR range: %s", c.Generate.CIDR)
		}
		return nil
	}
	if _, err := keygen.ParseKind(c.Generate.Kind); err != nil {
		return err
	}
	return nil
}

func (c *Config) ValidateBench() error {
	if c.Bench == nil {
		return fmt.Errorf("bench configuration section is required")
	}
	for _, size := range c.Bench.Sizes {
		if size <= 0 {
			return fmt.Errorf("bench sizes must be positive, got %d", size)
		}
	}
	if c.Bench.Iterations <= 0 {
		return fmt.Errorf("iterations must be positive, got %d", c.Bench.Iterations)
	}
	if _, err := keygen.ParseKind(c.Bench.Kind); err != nil {
		return err
	}
	return ValidatePlotPath(c.Bench.PlotPath)
}

func (c *Config) ValidateListen() error {
	if c.Listen == nil {
		return fmt.Errorf("listen configuration section is required")
	}
	format, err := c.Format()
	if err != nil {
		return err
	}
	if format == ingestor.Binary {
		return fmt.Errorf("binary format is not supported in listen mode")
	}
	if c.Listen.Port == "" {
		return fmt.Errorf("port is required in listen configuration")
	}
	if c.Listen.FlushInterval <= 0 {
		return fmt.Errorf("flushInterval must be positive")
	}
	if c.Listen.WindowMaxSize < 0 {
		return fmt.Errorf("windowMaxSize must not be negative")
	}
	return nil
}

// ValidatePlotPath checks that the directory of a plot file exists. An empty
// path disables plotting and is valid.
func ValidatePlotPath(plotPath string) error {
	if plotPath != "" {
		plotDir := filepath.Dir(plotPath)
		if plotDir == "." {
			plotDir, _ = os.Getwd()
		}
		if _, err := os.Stat(plotDir); os.IsNotExist(err) {
			return fmt.Errorf("plot directory does not exist: %s", plotDir)
		}
	}
	return nil
}
