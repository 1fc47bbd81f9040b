package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"strconv"

	"kohitsu/lookup"
	"kohitsu/observe"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "KOHITSU_"

// Load reads the YAML configuration file at path on top of [Default] and
// validates the result.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes a YAML config from r and validates it. An empty
// document yields the defaults.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDotenv loads KEY=VALUE pairs from path into the process environment.
// A missing file is not an error.
func LoadDotenv(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("config: load env file %q: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides cfg with KOHITSU_* variables found through lookup
// (usually os.LookupEnv) and re-validates it.
func ApplyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(EnvPrefix + name); ok && v != "" {
			*dst = v
		}
	}
	var errs []error

	str("ADDR", &cfg.Server.Addr)
	var level string
	str("LOG_LEVEL", &level)
	if level != "" {
		cfg.Server.LogLevel = LogLevel(level)
	}
	str("LOG_OUTPUT", &cfg.Server.LogOutput)
	if v, ok := lookup(EnvPrefix + "RELEASE"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sRELEASE: %w", EnvPrefix, err))
		}
		cfg.Server.Release = b
	}
	str("LEXICON_PATH", &cfg.Lexicon.Path)
	str("LEXICON_ENCODING", &cfg.Lexicon.Encoding)
	str("ANALYZER_DICT", &cfg.Analyzer.Dict)
	str("ANALYZER_USER_DICT", &cfg.Analyzer.UserDict)
	str("ANALYZER_MODE", &cfg.Analyzer.Mode)
	str("VARIANTS_TABLE_PATH", &cfg.Variants.TablePath)
	str("PRESUB_POLICY", &cfg.Presub.Policy)
	str("DUMP_DIR", &cfg.Dump.Dir)
	str("TRACE_EXPORTER", &cfg.Trace.Exporter)
	if v, ok := lookup(EnvPrefix + "DEFAULT_RATIO"); ok && v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sDEFAULT_RATIO: %w", EnvPrefix, err))
		}
		cfg.Convert.DefaultRatio = f
	}
	if v, ok := lookup(EnvPrefix + "BATCH_LIMIT"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sBATCH_LIMIT: %w", EnvPrefix, err))
		}
		cfg.Convert.BatchLimit = n
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: env: %w", err)
	}
	return Validate(cfg)
}

// Validate checks that cfg contains a coherent set of values. It returns a
// joined error listing all failures.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.Server.LogLevel != "" && !cfg.Server.LogLevel.IsValid() {
		errs = append(errs, fmt.Errorf("server.log_level %q is invalid; valid values: debug, info, warn, error", cfg.Server.LogLevel))
	}
	switch cfg.Lexicon.Encoding {
	case "", "utf-8", "utf8", "shift_jis", "sjis", "shift-jis":
	default:
		errs = append(errs, fmt.Errorf("lexicon.encoding %q is invalid; valid values: utf-8, shift_jis", cfg.Lexicon.Encoding))
	}
	switch cfg.Analyzer.Dict {
	case "", "ipa", "uni":
	default:
		errs = append(errs, fmt.Errorf("analyzer.dict %q is invalid; valid values: ipa, uni", cfg.Analyzer.Dict))
	}
	switch cfg.Analyzer.Mode {
	case "", "normal", "search", "extended":
	default:
		errs = append(errs, fmt.Errorf("analyzer.mode %q is invalid; valid values: normal, search, extended", cfg.Analyzer.Mode))
	}
	if _, err := lookup.ParsePolicy(cfg.Presub.Policy); err != nil {
		errs = append(errs, fmt.Errorf("presub.policy %q is invalid; valid values: rescan, freeze", cfg.Presub.Policy))
	}
	if r := cfg.Convert.DefaultRatio; math.IsNaN(r) || r < 0 || r > 1 {
		errs = append(errs, fmt.Errorf("convert.default_ratio %v must be within [0, 1]", r))
	}
	if !observe.ValidTraceExporter(cfg.Trace.Exporter) {
		errs = append(errs, fmt.Errorf("trace.exporter %q is invalid; valid values: none, stdout", cfg.Trace.Exporter))
	}
	if cfg.Convert.BatchLimit < 1 {
		errs = append(errs, fmt.Errorf("convert.batch_limit %d must be at least 1", cfg.Convert.BatchLimit))
	}

	return errors.Join(errs...)
}
