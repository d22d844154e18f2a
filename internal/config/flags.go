package config

import "flag"

var (
	flagConfig   = flag.String("config", "", "Path to config file")
	flagDebug    = flag.Bool("debug", false, "Enable debug logging")
	flagLogFile  = flag.String("log-file", "", "Also write logs to this file")
	flagCache    = flag.Bool("cache", false, "Write binary cache files after parsing")
	flagNoVerify = flag.Bool("no-verify", false, "Skip cache verification after writing")
	flagPrefer   = flag.Bool("prefer-cache", false, "Load from an existing cache when present")
	flagScale    = flag.Float64("scale", 0, "Uniform vertex scale (0 = keep configured value)")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// Args returns the non-flag command-line arguments.
func Args() []string {
	return flag.Args()
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
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
	if *flagCache {
		cfg.Cache.Write = true
	}
	if *flagNoVerify {
		cfg.Cache.Verify = false
	}
	if *flagPrefer {
		cfg.Cache.Prefer = true
	}
	if *flagScale > 0 {
		cfg.Mesh.Scale = float32(*flagScale)
	}
}
