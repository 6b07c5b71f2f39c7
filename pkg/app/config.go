package app

import (
	"github.com/HorseArcher567/logsink/pkg/xlog"
)

// Framework holds framework-level configuration.
// It is intended to be embedded into the user's own application config struct.
//
// Example:
//
//	type AppConfig struct {
//	    app.Framework `yaml:",inline"`
//	    Jobs []string `yaml:"jobs"`
//	}
//
//	func main() {
//	    var cfg AppConfig
//	    config.MustUnmarshal("config.yaml", &cfg)
//	    a := app.MustNew(&cfg.Framework)
//	    a.Run(work)
//	}
type Framework struct {
	// LoggerCfg configures the application log sink.
	LoggerCfg xlog.Config `yaml:"logger" json:"logger" toml:"logger"`
}
