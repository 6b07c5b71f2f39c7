package xlog

import (
	"fmt"
	"strings"
	"time"

	"github.com/HorseArcher567/logsink/pkg/xlog/rotate"
)

// Config describes a sink in an application config file.
type Config struct {
	// Dir is the log directory (default "logs").
	Dir string `yaml:"dir" json:"dir" toml:"dir"`

	// File is the log file name inside Dir (default "app.log").
	File string `yaml:"file" json:"file" toml:"file"`

	// LevelsFile is the INI file holding the [file] and [console] levels
	// (default "logger.ini").
	LevelsFile string `yaml:"levels_file" json:"levels_file" toml:"levels_file"`

	// ConsoleLevel overrides the console level from LevelsFile when set.
	ConsoleLevel string `yaml:"console_level" json:"console_level" toml:"console_level"`

	// Truncate starts every run with an empty log file.
	Truncate bool `yaml:"truncate" json:"truncate" toml:"truncate"`

	// Timezone is an IANA name such as "America/Montreal" (default local).
	Timezone string `yaml:"timezone" json:"timezone" toml:"timezone"`

	// Rotate is "day" (compare day of month) or "date" (compare full date).
	Rotate string `yaml:"rotate" json:"rotate" toml:"rotate"`

	// MaxAge is the number of days archives are kept, 0 keeps them all.
	MaxAge int `yaml:"max_age" json:"max_age" toml:"max_age"`

	// Disabled selects the Nop sink.
	Disabled bool `yaml:"disabled" json:"disabled" toml:"disabled"`
}

func normalize(cfg Config) Config {
	if cfg.Dir == "" {
		cfg.Dir = "logs"
	}
	if cfg.File == "" {
		cfg.File = "app.log"
	}
	if cfg.LevelsFile == "" {
		cfg.LevelsFile = DefaultConfigFile
	}
	return cfg
}

// Options converts cfg into constructor options.
func (cfg Config) Options() ([]Option, error) {
	rcfg, err := cfg.RotateConfig()
	if err != nil {
		return nil, err
	}

	cfg = normalize(cfg)
	opts := []Option{
		WithConfigFile(cfg.LevelsFile),
		WithTruncate(cfg.Truncate),
		WithLocation(rcfg.Location),
		WithRotateMode(rcfg.Mode),
		WithArchiveMaxAge(rcfg.MaxAge),
	}

	if cfg.ConsoleLevel != "" {
		level, err := ParseLevel(cfg.ConsoleLevel)
		if err != nil {
			return nil, fmt.Errorf("console_level: %w", err)
		}
		opts = append(opts, WithConsoleLevel(level))
	}

	return opts, nil
}

// RotateConfig returns the rotation settings described by cfg.
func (cfg Config) RotateConfig() (rotate.Config, error) {
	cfg = normalize(cfg)
	rcfg := rotate.Config{
		Dir:      cfg.Dir,
		Filename: cfg.File,
		MaxAge:   cfg.MaxAge,
		Location: time.Local,
	}

	mode, err := resolveMode(cfg.Rotate)
	if err != nil {
		return rcfg, err
	}
	rcfg.Mode = mode

	if cfg.Timezone != "" {
		loc, err := time.LoadLocation(cfg.Timezone)
		if err != nil {
			return rcfg, fmt.Errorf("timezone: %w", err)
		}
		rcfg.Location = loc
	}
	return rcfg, nil
}

// Open builds the sink described by cfg: a Nop when Disabled, a Logger
// otherwise. extra options are applied after the ones derived from cfg.
func Open(cfg Config, extra ...Option) (Sink, error) {
	if cfg.Disabled {
		return NewNop(extra...), nil
	}

	opts, err := cfg.Options()
	if err != nil {
		return nil, err
	}
	cfg = normalize(cfg)
	return New(cfg.Dir, cfg.File, append(opts, extra...)...)
}

func resolveMode(mode string) (rotate.Mode, error) {
	switch strings.ToLower(mode) {
	case "", "day":
		return rotate.DayOfMonth, nil
	case "date":
		return rotate.FullDate, nil
	default:
		return rotate.DayOfMonth, fmt.Errorf("invalid rotate mode: %s", mode)
	}
}
