// Package config provides the configuration schema and loader for kohitsu.
// Values come from a YAML file, then KOHITSU_* environment variables (which
// may be supplied by a .env file), then command-line flags.
package config

// LogLevel controls log verbosity.
type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

// IsValid reports whether l is a recognised log level.
func (l LogLevel) IsValid() bool {
	switch l {
	case LogDebug, LogInfo, LogWarn, LogError:
		return true
	}
	return false
}

// Config is the root configuration structure.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Lexicon  LexiconConfig  `yaml:"lexicon"`
	Analyzer AnalyzerConfig `yaml:"analyzer"`
	Variants VariantsConfig `yaml:"variants"`
	Presub   PresubConfig   `yaml:"presub"`
	Dump     DumpConfig     `yaml:"dump"`
	Convert  ConvertConfig  `yaml:"convert"`
	Trace    TraceConfig    `yaml:"trace"`
}

// ServerConfig holds network and logging settings.
type ServerConfig struct {
	// Addr is the HTTP listen address, e.g. ":8888".
	Addr      string   `yaml:"addr"`
	LogLevel  LogLevel `yaml:"log_level"`
	LogOutput string   `yaml:"log_output"`
	// Release switches gin to release mode.
	Release bool `yaml:"release"`
}

// LexiconConfig locates the classical-word CSV.
type LexiconConfig struct {
	Path     string `yaml:"path"`
	Encoding string `yaml:"encoding"`
}

// AnalyzerConfig configures the kagome analyzer.
type AnalyzerConfig struct {
	Dict     string `yaml:"dict"`
	UserDict string `yaml:"user_dict"`
	Mode     string `yaml:"mode"`
}

// VariantsConfig points at an optional YAML override for the hentaigana table.
type VariantsConfig struct {
	TablePath string `yaml:"table_path"`
}

// PresubConfig selects the lexicon substitution policy ("rescan" or "freeze").
type PresubConfig struct {
	Policy string `yaml:"policy"`
}

// DumpConfig enables per-conversion JSON dumps when Dir is set.
type DumpConfig struct {
	Dir string `yaml:"dir"`
}

// ConvertConfig holds defaults for conversion requests.
type ConvertConfig struct {
	DefaultRatio float64 `yaml:"default_ratio"`
	BatchLimit   int     `yaml:"batch_limit"`
}

// TraceConfig selects where conversion spans go: "none" or "stdout"
// (written to stderr).
type TraceConfig struct {
	Exporter string `yaml:"exporter"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:      ":8888",
			LogLevel:  LogInfo,
			LogOutput: "stdout",
		},
		Lexicon: LexiconConfig{
			Path:     "kogo-words.csv",
			Encoding: "utf-8",
		},
		Analyzer: AnalyzerConfig{
			Dict: "ipa",
			Mode: "normal",
		},
		Presub: PresubConfig{Policy: "rescan"},
		Convert: ConvertConfig{
			DefaultRatio: 0.5,
			BatchLimit:   4,
		},
		Trace: TraceConfig{Exporter: "none"},
	}
}
