package xlog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/HorseArcher567/logsink/pkg/config"
)

// Sink names as they appear in the config source.
const (
	SinkFile    = "file"
	SinkConsole = "console"
)

// DefaultConfigFile is read when no config file is given.
const DefaultConfigFile = "logger.ini"

var (
	// ErrConfigLoad means the config source is missing or unparseable.
	ErrConfigLoad = errors.New("invalid config file and path, check it")
	// ErrEmptyConfig means the config source parsed but held no data.
	ErrEmptyConfig = errors.New("config is empty")
	// ErrNoLevels means neither [file] nor [console] carries a level key.
	ErrNoLevels = errors.New("no file or console level")
)

// Thresholds holds the minimum level each sink requires.
type Thresholds struct {
	File    Level
	Console Level
}

// LoadThresholds reads the [file] and [console] sections of a config file.
// On a partial failure the sinks that did parse are still returned.
func LoadThresholds(path string) (Thresholds, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return Thresholds{}, fmt.Errorf("%w: %w", ErrConfigLoad, err)
	}
	if cfg.Empty() {
		return Thresholds{}, fmt.Errorf("%w: %s: %w", ErrConfigLoad, path, ErrEmptyConfig)
	}
	return thresholdsFrom(cfg)
}

func thresholdsFrom(cfg *config.Config) (Thresholds, error) {
	if !cfg.Has(SinkFile+".level") && !cfg.Has(SinkConsole+".level") {
		found := "none"
		if sections := cfg.Sections(); len(sections) > 0 {
			found = strings.Join(sections, ", ")
		}
		return Thresholds{}, fmt.Errorf("%w: %w (sections found: %s)", ErrConfigLoad, ErrNoLevels, found)
	}

	var (
		t    Thresholds
		errs []error
	)
	for _, sink := range []struct {
		name  string
		level *Level
	}{
		{SinkFile, &t.File},
		{SinkConsole, &t.Console},
	} {
		key := sink.name + ".level"
		if !cfg.Has(key) {
			continue
		}
		level, err := ParseLevel(cfg.GetString(key))
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
			continue
		}
		*sink.level = level
	}
	if len(errs) > 0 {
		return t, fmt.Errorf("%w: %w", ErrConfigLoad, errors.Join(errs...))
	}
	return t, nil
}
