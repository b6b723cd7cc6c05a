package cli

import (
	"fmt"
	"time"

	"github.com/ChristianF88/radixsort/config"
	"github.com/ChristianF88/radixsort/ingestor"
	"github.com/ChristianF88/radixsort/keygen"
	"github.com/ChristianF88/radixsort/version"
	cli "github.com/urfave/cli/v2"
)

// parseDate attempts to parse the build date
func parseDate(d string) time.Time {
	t, err := time.Parse(time.RFC3339, d)
	if err != nil {
		return time.Now()
	}
	return t
}

// Shared flag definitions to eliminate duplication
var (
	// Configuration flags
	configFlag = &cli.StringFlag{
		Name:  "config",
		Usage: "Path to configuration file (mutually exclusive with other flags)",
	}

	// Key I/O flags
	inputFlag = &cli.StringFlag{
		Name:    "input",
		Aliases: []string{"i"},
		Usage:   "Path to the key file ('-' reads stdin)",
		Value:   "-",
	}
	outputFlag = &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "Path to write keys to (empty or '-' writes stdout)",
	}
	formatFlag = &cli.StringFlag{
		Name:  "format",
		Usage: "Key format: dec, hex, ipv4 or bin",
		Value: config.DefaultFormat,
	}
	verifyFlag = &cli.BoolFlag{
		Name:  "verify",
		Usage: "Check that the output is ordered and holds the same keys as the input",
	}

	// Output flags
	plotPathFlag = &cli.StringFlag{
		Name:  "plotPath",
		Usage: "Path where to save the chart file (e.g., '/path/to/chart.html'). If not provided, no plot will be generated.",
	}
	jsonFlag = &cli.BoolFlag{
		Name:  "json",
		Usage: "Print a JSON summary instead of the sorted keys",
	}
	compactFlag = &cli.BoolFlag{
		Name:  "compact",
		Usage: "Output compact JSON (no pretty printing)",
		Value: false,
	}
	plainFlag = &cli.BoolFlag{
		Name:  "plain",
		Usage: "Output plain text format for easy readability",
		Value: false,
	}
	tuiFlag = &cli.BoolFlag{
		Name:  "tui",
		Usage: "Launch TUI (Terminal User Interface) mode",
		Value: false,
	}

	// Generation flags
	kindFlag = &cli.StringFlag{
		Name:  "kind",
		Usage: fmt.Sprintf("Key distribution: %v", keygen.Kinds()),
		Value: config.DefaultKind,
	}
	countFlag = &cli.IntFlag{
		Name:  "count",
		Usage: "Number of keys to generate",
		Value: config.DefaultCount,
	}
	seedFlag = &cli.UintFlag{
		Name:  "seed",
		Usage: "Generator seed",
	}
	cidrFlag = &cli.StringFlag{
		Name:  "cidr",
		Usage: "Generate random IPv4 keys from this range instead (e.g., '10.0.0.0/8')",
	}

	// Bench flags
	sizesFlag = &cli.IntSliceFlag{
		Name:  "sizes",
		Usage: "Input sizes to benchmark",
		Value: cli.NewIntSlice(config.DefaultBenchSizes...),
	}
	iterationsFlag = &cli.IntFlag{
		Name:  "iterations",
		Usage: "Timed runs per algorithm and size",
		Value: config.DefaultIterations,
	}

	// Listen flags
	portFlag = &cli.StringFlag{
		Name:  "port",
		Usage: "Port to listen on for lumberjack connections",
		Value: config.DefaultPort,
	}
	fieldFlag = &cli.StringFlag{
		Name:  "field",
		Usage: "Event field holding the key",
		Value: ingestor.DefaultField,
	}
	flushIntervalFlag = &cli.DurationFlag{
		Name:  "flushInterval",
		Usage: "Time between two emissions of the sorted window",
		Value: config.DefaultFlushInterval,
	}
	windowMaxTimeFlag = &cli.DurationFlag{
		Name:  "windowMaxTime",
		Usage: "Maximum age of keys in the sliding window",
		Value: config.DefaultWindowMaxTime,
	}
	windowMaxSizeFlag = &cli.IntFlag{
		Name:  "windowMaxSize",
		Usage: "Maximum number of keys in the sliding window",
		Value: config.DefaultWindowMaxSize,
	}
)

// Every flag besides --config; checked by validateConfigModeFlags
var allFlagNames = []string{
	"input", "output", "format", "verify", "plotPath", "json", "compact", "plain", "tui",
	"kind", "count", "seed", "cidr", "sizes", "iterations",
	"port", "field", "flushInterval", "windowMaxTime", "windowMaxSize",
}

// Shared validation functions
func validateConfigModeFlags(c *cli.Context, allowedFlags []string) error {
	allowed := make(map[string]bool)
	for _, flag := range allowedFlags {
		allowed[flag] = true
	}

	for _, flag := range allFlagNames {
		if c.IsSet(flag) && !allowed[flag] {
			return fmt.Errorf("when using --config, only %v flags are allowed", allowedFlags)
		}
	}
	return nil
}

// loadConfig loads the config file and applies the output flags that may
// accompany --config.
func loadConfig(c *cli.Context, configPath string, allowedFlags []string) (*config.Config, OutputConfig, error) {
	if err := validateConfigModeFlags(c, allowedFlags); err != nil {
		return nil, OutputConfig{}, err
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, OutputConfig{}, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, outputConfigFrom(c, cfg), nil
}

func outputConfigFrom(c *cli.Context, cfg *config.Config) OutputConfig {
	compact := c.Bool("compact")
	if cfg != nil && cfg.Global != nil && cfg.Global.Compact {
		compact = true
	}
	return OutputConfig{
		Compact: compact,
		Plain:   c.Bool("plain"),
		JSON:    c.Bool("json"),
		TUI:     c.Bool("tui"),
	}
}

func globalFromFlags(c *cli.Context) *config.GlobalConfig {
	return &config.GlobalConfig{
		Format:  c.String("format"),
		Compact: c.Bool("compact"),
	}
}

// Command handler functions to reduce deep nesting

func handleSortCommand(c *cli.Context) error {
	var cfg *config.Config
	var out OutputConfig
	var err error

	if configPath := c.String("config"); configPath != "" {
		if cfg, out, err = loadConfig(c, configPath, []string{"json", "compact"}); err != nil {
			return err
		}
	} else {
		cfg = &config.Config{
			Global: globalFromFlags(c),
			Sort: &config.SortConfig{
				Input:    c.String("input"),
				Output:   c.String("output"),
				Verify:   c.Bool("verify"),
				PlotPath: c.String("plotPath"),
			},
		}
		out = outputConfigFrom(c, nil)
	}

	if err := cfg.ValidateSort(); err != nil {
		return fmt.Errorf("invalid sort configuration: %w", err)
	}
	return SortFromConfig(cfg, out)
}

func handleGenerateCommand(c *cli.Context) error {
	var cfg *config.Config
	var err error

	if configPath := c.String("config"); configPath != "" {
		if cfg, _, err = loadConfig(c, configPath, nil); err != nil {
			return err
		}
	} else {
		cfg = &config.Config{
			Global: globalFromFlags(c),
			Generate: &config.GenerateConfig{
				Kind:   c.String("kind"),
				Count:  c.Int("count"),
				Seed:   uint32(c.Uint("seed")),
				CIDR:   c.String("cidr"),
				Output: c.String("output"),
			},
		}
	}

	if err := cfg.ValidateGenerate(); err != nil {
		return fmt.Errorf("invalid generate configuration: %w", err)
	}
	return GenerateFromConfig(cfg)
}

func handleBenchCommand(c *cli.Context) error {
	var cfg *config.Config
	var out OutputConfig
	var err error

	if configPath := c.String("config"); configPath != "" {
		if cfg, out, err = loadConfig(c, configPath, []string{"compact", "plain"}); err != nil {
			return err
		}
	} else {
		cfg = &config.Config{
			Global: globalFromFlags(c),
			Bench: &config.BenchConfig{
				Sizes:      c.IntSlice("sizes"),
				Iterations: c.Int("iterations"),
				Kind:       c.String("kind"),
				Seed:       uint32(c.Uint("seed")),
				PlotPath:   c.String("plotPath"),
			},
		}
		out = outputConfigFrom(c, nil)
	}

	if err := cfg.ValidateBench(); err != nil {
		return fmt.Errorf("invalid bench configuration: %w", err)
	}
	return BenchFromConfig(cfg, out)
}

func handleInspectCommand(c *cli.Context) error {
	var cfg *config.Config
	var out OutputConfig
	var err error

	if configPath := c.String("config"); configPath != "" {
		if cfg, out, err = loadConfig(c, configPath, []string{"tui", "compact", "plain"}); err != nil {
			return err
		}
	} else {
		cfg = &config.Config{
			Global: globalFromFlags(c),
			Sort: &config.SortConfig{
				Input:    c.String("input"),
				Verify:   c.Bool("verify"),
				PlotPath: c.String("plotPath"),
			},
		}
		out = outputConfigFrom(c, nil)
	}

	if err := cfg.ValidateSort(); err != nil {
		return fmt.Errorf("invalid inspect configuration: %w", err)
	}
	if out.TUI && cfg.Sort.Input == "-" {
		return fmt.Errorf("--tui needs an input file, stdin is used by the terminal")
	}
	return InspectFromConfig(cfg, out)
}

func handleListenCommand(c *cli.Context) error {
	var cfg *config.Config
	var out OutputConfig
	var err error

	if configPath := c.String("config"); configPath != "" {
		if cfg, out, err = loadConfig(c, configPath, []string{"compact"}); err != nil {
			return err
		}
		fmt.Println("Running in listen mode from config file:")
	} else {
		cfg = &config.Config{
			Global: globalFromFlags(c),
			Listen: &config.ListenConfig{
				Port:          c.String("port"),
				Field:         c.String("field"),
				FlushInterval: c.Duration("flushInterval"),
				WindowMaxTime: c.Duration("windowMaxTime"),
				WindowMaxSize: c.Int("windowMaxSize"),
			},
		}
		out = outputConfigFrom(c, nil)
		fmt.Println("Running in listen mode with CLI flags:")
	}

	if err := cfg.ValidateListen(); err != nil {
		return fmt.Errorf("invalid listen configuration: %w", err)
	}
	ListenFromConfig(cfg, out)
	return nil
}

var App = &cli.App{
	Name:     "radixsort",
	Usage:    "Sort uint32 keys with an LSD radix sort, generate fixtures and benchmark",
	Version:  version.Version,
	Compiled: parseDate(version.Date),
	Commands: []*cli.Command{
		{
			Name:  "sort",
			Usage: "Sort keys from a file or stdin",
			Flags: []cli.Flag{
				configFlag,
				inputFlag,
				outputFlag,
				formatFlag,
				verifyFlag,
				plotPathFlag,
				jsonFlag,
				compactFlag,
			},
			Action: handleSortCommand,
		},
		{
			Name:  "generate",
			Usage: "Write deterministic test keys",
			Flags: []cli.Flag{
				configFlag,
				kindFlag,
				countFlag,
				seedFlag,
				cidrFlag,
				outputFlag,
				formatFlag,
			},
			Action: handleGenerateCommand,
		},
		{
			Name:  "bench",
			Usage: "Compare the radix sort with the standard library sorts",
			Flags: []cli.Flag{
				configFlag,
				sizesFlag,
				iterationsFlag,
				kindFlag,
				seedFlag,
				plotPathFlag,
				compactFlag,
				plainFlag,
			},
			Action: handleBenchCommand,
		},
		{
			Name:  "inspect",
			Usage: "Show the digit distribution of a key file",
			Flags: []cli.Flag{
				configFlag,
				inputFlag,
				formatFlag,
				verifyFlag,
				plotPathFlag,
				tuiFlag,
				compactFlag,
				plainFlag,
			},
			Action: handleInspectCommand,
		},
		{
			Name:  "listen",
			Usage: "Keep a sliding window of keys received over lumberjack and emit it sorted",
			Flags: []cli.Flag{
				configFlag,
				portFlag,
				fieldFlag,
				formatFlag,
				flushIntervalFlag,
				windowMaxTimeFlag,
				windowMaxSizeFlag,
				compactFlag,
			},
			Action: handleListenCommand,
		},
	},
}
