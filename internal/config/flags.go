package config

import "flag"

var (
	flagConfig          = flag.String("config", "", "Path to config file")
	flagDebug           = flag.Bool("debug", false, "Enable debug logging")
	flagWorkers         = flag.Int("workers", 0, "Number of concurrent tile builds")
	flagPadding         = flag.Int("padding", 0, "Halo width in samples")
	flagChunkPeriod     = flag.Int("chunk-period", 0, "Merge chunk period in samples")
	flagNoNormalize     = flag.Bool("no-normalize", false, "Leave vertex normals unnormalized")
	flagFallbackNormals = flag.Bool("fallback-normals", false, "Use plain triangle accumulation for all normals")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// Args returns the non-flag arguments left after ParseFlags.
func Args() []string {
	return flag.Args()
}

// ConfigPath returns the explicit config path if provided via -config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagWorkers > 0 {
		cfg.Build.Workers = *flagWorkers
	}
	if *flagPadding > 0 {
		cfg.Mesh.Padding = *flagPadding
	}
	if *flagChunkPeriod > 0 {
		cfg.Mesh.ChunkPeriod = *flagChunkPeriod
	}
	if *flagNoNormalize {
		cfg.Mesh.NormalizeNormals = false
	}
	if *flagFallbackNormals {
		cfg.Mesh.ComputeNormalsInline = false
	}
}
