package config

import "flag"

var (
	flagConfig   = flag.String("config", "", "Path to config file")
	flagDebug    = flag.Bool("debug", false, "Enable debug logging")
	flagRegistry = flag.String("registry", "", "Path to the mesh registry database")
	flagFormat   = flag.String("format", "", "Export format (stl or obj)")
	flagOut      = flag.String("out", "", "Export output directory")
	flagWatch    = flag.Bool("watch", false, "Re-run the document when it changes")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagRegistry != "" {
		cfg.Registry.Path = *flagRegistry
	}
	if *flagFormat != "" {
		cfg.Export.Format = *flagFormat
	}
	if *flagOut != "" {
		cfg.Export.Dir = *flagOut
	}
	if *flagWatch {
		cfg.Watch.Enabled = true
	}
}
