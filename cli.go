package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"kohitsu/ingest"
	"kohitsu/model"
)

const usage = `usage: kohitsu [-v] <command> [flags]

commands:
  serve    start the HTTP server
  convert  convert one poem (-t text [-r ratio] [-s seed])
  batch    convert one poem per line of a file (-f file [-r ratio] [-s seed])
`

var errUsage = errors.New("usage")

// cliOptions holds the flags of one subcommand. ratioSet and seedSet record
// whether -r and -s were given explicitly.
type cliOptions struct {
	cmd    string
	config string
	dotenv string
	level  string
	output string

	text     string
	file     string
	ratio    float64
	ratioSet bool
	seed     uint64
	seedSet  bool
}

func parseArgs(cmd string, args []string, stderr io.Writer) (*cliOptions, error) {
	switch cmd {
	case "serve", "convert", "batch":
	default:
		return nil, fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}

	o := &cliOptions{cmd: cmd}
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.config, "c", "", "path to the YAML config file")
	fs.StringVar(&o.dotenv, "d", ".env", "path to the dotenv file")
	fs.StringVar(&o.level, "l", "", "log level (debug, info, warn, error)")
	fs.StringVar(&o.output, "o", "", "log output (stdout, stderr or a file path)")
	switch cmd {
	case "convert":
		fs.StringVar(&o.text, "t", "", "poem text")
	case "batch":
		fs.StringVar(&o.file, "f", "", "file with one poem per line")
	}
	if cmd != "serve" {
		fs.Float64Var(&o.ratio, "r", 0, "variant ratio in [0, 1] (default from config)")
		fs.Uint64Var(&o.seed, "s", 0, "seed for variant selection (random when unset)")
	}
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("%w: unexpected arguments %v", errUsage, fs.Args())
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "r":
			o.ratioSet = true
		case "s":
			o.seedSet = true
		}
	})
	return o, nil
}

// resolveRatio returns the explicit -r value unchanged, or def when -r was
// not given. Range checks are left to ingest.NewRequest.
func (o *cliOptions) resolveRatio(def float64) float64 {
	if o.ratioSet {
		return o.ratio
	}
	return def
}

func (o *cliOptions) seedPtr() *uint64 {
	if !o.seedSet {
		return nil
	}
	s := o.seed
	return &s
}

// requests builds the conversion requests for convert and batch. Every
// request of a batch shares the ratio and seed.
func (o *cliOptions) requests(defaultRatio float64) ([]model.ConversionRequest, error) {
	var texts []string
	switch o.cmd {
	case "convert":
		texts = []string{o.text}
	case "batch":
		if o.file == "" {
			return nil, fmt.Errorf("%w: batch needs -f", errUsage)
		}
		b, err := os.ReadFile(o.file)
		if err != nil {
			return nil, err
		}
		texts = ingest.Lines(string(b))
		if len(texts) == 0 {
			return nil, fmt.Errorf("batch: %s holds no poems", o.file)
		}
	default:
		return nil, fmt.Errorf("%w: %s takes no poems", errUsage, o.cmd)
	}

	ratio := o.resolveRatio(defaultRatio)
	reqs := make([]model.ConversionRequest, 0, len(texts))
	for i, text := range texts {
		req, err := ingest.NewRequest(text, ratio, o.seedPtr())
		if err != nil {
			if o.cmd == "batch" {
				return nil, fmt.Errorf("batch: line %d: %w", i+1, err)
			}
			return nil, err
		}
		reqs = append(reqs, req)
	}
	return reqs, nil
}
