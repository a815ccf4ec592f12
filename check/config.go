package check

import (
	"github.com/eaburns/tsck/lib"
	"github.com/eaburns/tsck/loc"
	"go.uber.org/zap"
)

// Config are configuration parameters for the analyzer.
type Config struct {
	// Libs are the builtin libraries available to the analyzed code.
	// The default is lib.Default().
	Libs []lib.Lib
	// Loader is used to load imported modules.
	// If Loader is nil, import declarations are diagnosed.
	Loader Loader
	// Locs maps ranges of the analyzed files to locations.
	// It is typically the Locs of the ast.Parser that parsed the files.
	// If Locs is nil, diagnostics have no file locations.
	Locs *loc.Files
	// Logger receives debug logging and traces.
	// The default is a no-op logger.
	Logger *zap.Logger
	// Trace is whether to enable debug tracing.
	Trace bool
}

func setConfigDefaults(cfg *Config) {
	if len(cfg.Libs) == 0 {
		cfg.Libs = lib.Default()
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
}
