package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"kohitsu/config"
	"kohitsu/convert"
	"kohitsu/dictionary"
	"kohitsu/hentaigana"
	"kohitsu/logger"
	"kohitsu/lookup"
	"kohitsu/model"
	"kohitsu/observe"
	"kohitsu/server"
	"kohitsu/tokenize"

	"github.com/gin-gonic/gin"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	switch os.Args[1] {
	case "-v", "--version", "version":
		fmt.Println("kohitsu", version)
		return
	}

	o, err := parseArgs(os.Args[1], os.Args[2:], os.Stderr)
	if err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(os.Stderr, err)
		}
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := loadConfig(o)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	l, err := logger.Build(string(cfg.Server.LogLevel), cfg.Server.LogOutput)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}

	if err := run(o, cfg, l); err != nil {
		l.Error(o.cmd+" failed", zap.Error(err))
		_ = l.Sync()
		os.Exit(1)
	}
	_ = l.Sync()
}

func run(o *cliOptions, cfg *config.Config, l *zap.Logger) error {
	var reqs []model.ConversionRequest
	if o.cmd != "serve" {
		var err error
		if reqs, err = o.requests(cfg.Convert.DefaultRatio); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdown, err := observe.InitProvider(ctx, observe.ProviderConfig{
		ServiceVersion: version,
		TraceExporter:  cfg.Trace.Exporter,
	})
	if err != nil {
		return fmt.Errorf("init telemetry: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(sctx); err != nil {
			l.Warn("telemetry shutdown", zap.Error(err))
		}
	}()

	conv, err := buildConverter(cfg, l)
	if err != nil {
		return fmt.Errorf("build converter: %w", err)
	}

	switch o.cmd {
	case "serve":
		return serve(ctx, cfg, conv, l)
	case "convert":
		return printResults(ctx, conv, reqs, 1)
	default:
		return printResults(ctx, conv, reqs, cfg.Convert.BatchLimit)
	}
}

func loadConfig(o *cliOptions) (*config.Config, error) {
	if err := config.LoadDotenv(o.dotenv); err != nil {
		return nil, err
	}
	cfg := config.Default()
	if o.config != "" {
		c, err := config.Load(o.config)
		if err != nil {
			return nil, err
		}
		cfg = c
	}
	if err := config.ApplyEnv(cfg, os.LookupEnv); err != nil {
		return nil, err
	}
	if o.level != "" {
		cfg.Server.LogLevel = config.LogLevel(o.level)
	}
	if o.output != "" {
		cfg.Server.LogOutput = o.output
	}
	return cfg, config.Validate(cfg)
}

func buildConverter(cfg *config.Config, l *zap.Logger) (*convert.Converter, error) {
	store, err := dictionary.Load(cfg.Lexicon.Path,
		dictionary.WithEncoding(cfg.Lexicon.Encoding),
		dictionary.WithLogger(l),
	)
	if err != nil {
		l.Warn("lexicon unavailable, continuing without it", zap.String("path", cfg.Lexicon.Path), zap.Error(err))
		store = dictionary.Empty()
	}
	l.Info("lexicon loaded", zap.Int("entries", store.Len()))

	table := hentaigana.Default()
	if cfg.Variants.TablePath != "" {
		override, err := hentaigana.LoadTable(cfg.Variants.TablePath)
		if err != nil {
			return nil, err
		}
		table = table.Merge(override)
	}

	tk, err := tokenize.New(
		tokenize.WithDict(cfg.Analyzer.Dict),
		tokenize.WithUserDict(cfg.Analyzer.UserDict),
		tokenize.WithMode(cfg.Analyzer.Mode),
	)
	if err != nil {
		return nil, err
	}
	l.Info("analyzer ready", zap.String("dict", tk.DictName()))

	policy, err := lookup.ParsePolicy(cfg.Presub.Policy)
	if err != nil {
		return nil, err
	}
	metrics, err := observe.NewMetrics(otel.GetMeterProvider())
	if err != nil {
		return nil, err
	}

	opts := []convert.Option{
		convert.WithPolicy(policy),
		convert.WithLogger(l),
		convert.WithMetrics(metrics),
	}
	if cfg.Dump.Dir != "" {
		if err := logger.InitDumps(cfg.Dump.Dir); err != nil {
			return nil, err
		}
		opts = append(opts, convert.WithDumpDir(cfg.Dump.Dir))
	}
	return convert.New(store, tk, table, opts...), nil
}

func serve(ctx context.Context, cfg *config.Config, conv *convert.Converter, l *zap.Logger) error {
	if cfg.Server.Release {
		gin.SetMode(gin.ReleaseMode)
	}
	h := server.NewHandler(conv, l, cfg.Convert.DefaultRatio, cfg.Convert.BatchLimit)
	srv := &http.Server{Addr: cfg.Server.Addr, Handler: server.NewRouter(h, l)}

	errCh := make(chan error, 1)
	go func() {
		l.Info("listening", zap.String("addr", cfg.Server.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(sctx)
}

func printResults(ctx context.Context, conv *convert.Converter, reqs []model.ConversionRequest, limit int) error {
	results, err := conv.ConvertBatch(ctx, reqs, limit)
	if err != nil {
		return err
	}
	for i, res := range results {
		if i > 0 {
			fmt.Println()
			fmt.Println("----")
			fmt.Println()
		}
		fmt.Println(convert.Format(res))
	}
	return nil
}
