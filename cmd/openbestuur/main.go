package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Mohagames205/openbestuur/internal/app"
)

// Exit codes.
const (
	exitOK      = 0
	exitFailure = 1
	exitNoVotes = 2
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) > 0 && args[0] == "query" {
		return runQuery(args[1:], stdout, stderr)
	}

	cfg, err := parseConfig(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return exitOK
	}
	if errors.Is(err, errVersion) {
		fmt.Fprintf(stdout, "openbestuur %s (%s, %s)\n", app.BuildVersion, app.BuildCommit, app.BuildDate)
		return exitOK
	}
	if err != nil {
		log.Error().Err(err).Msg("invalid configuration")
		if errors.Is(err, app.ErrNoInputs) {
			return exitNoVotes
		}
		return exitFailure
	}
	setLogLevel(cfg.Verbose)

	a, err := app.New(cfg)
	if err != nil {
		log.Error().Err(err).Msg("init failed")
		return exitFailure
	}
	a.SetOutput(stdout)
	if err := a.Run(ctx); err != nil {
		log.Error().Err(err).Msg("run failed")
		if errors.Is(err, app.ErrNoVotes) {
			return exitNoVotes
		}
		return exitFailure
	}
	return exitOK
}

func setLogLevel(verbose bool) {
	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

var errVersion = errors.New("version requested")

// parseConfig builds the run configuration. Precedence is explicit flags,
// then OPENBESTUUR_* environment (after loading .env files), then the
// config file, then flag defaults.
func parseConfig(args []string, stderr io.Writer) (app.Config, error) {
	fs := flag.NewFlagSet("openbestuur", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: openbestuur [flags] <file|url|->...\n       openbestuur query [flags] <result.json>...\n\nFlags:\n")
		fs.PrintDefaults()
	}

	var (
		cfg         app.Config
		configPath  string
		envFiles    string
		boilerplate string
		sectionEnds string
		showVersion bool
	)
	fs.StringVar(&configPath, "config", "", "Path to a YAML or JSON config file")
	fs.StringVar(&envFiles, "env", ".env,.env.local", "Comma-separated dotenv files to load before reading the environment")
	fs.StringVar(&cfg.Kind, "kind", app.DefaultKind, "Input kind: auto, minutes or plenary")
	fs.StringVar(&cfg.Encoding, "encoding", "", "Encoding of text minutes, e.g. windows-1252 (default UTF-8 or the served charset)")
	fs.StringVar(&cfg.OutputPath, "o", "", "Output file for a single input; empty or - writes to stdout")
	fs.StringVar(&cfg.OutputDir, "out-dir", "", "Directory receiving one result file per input")
	fs.StringVar(&cfg.Format, "format", "", "Output format: json, markdown or pdf (default from -o extension, else json)")
	fs.IntVar(&cfg.Workers, "workers", app.DefaultWorkers, "Inputs processed concurrently")
	fs.BoolVar(&cfg.RequireVotes, "require-votes", false, "Exit with status 2 when no item carries votes")
	fs.StringVar(&cfg.UserAgent, "ua", app.DefaultUserAgent(), "User-Agent for HTTP fetches")
	fs.DurationVar(&cfg.Timeout, "timeout", app.DefaultTimeout, "Per-request timeout")
	fs.IntVar(&cfg.MaxAttempts, "retries", app.DefaultMaxAttempts, "Attempts per URL including the first")
	fs.StringVar(&cfg.CacheDir, "cache.dir", app.DefaultCacheDir, "HTTP cache directory")
	fs.DurationVar(&cfg.CacheMaxAge, "cache.maxAge", 0, "Purge cache entries older than this (e.g. 72h); 0 disables")
	fs.BoolVar(&cfg.CacheClear, "cache.clear", false, "Clear the cache before running")
	fs.BoolVar(&cfg.NoCache, "no-cache", false, "Disable the HTTP cache")
	fs.StringVar(&boilerplate, "boilerplate", "", "Comma-separated extra page-furniture markers")
	fs.StringVar(&sectionEnds, "section-ends", "", "Comma-separated extra section-end keywords")
	fs.BoolVar(&cfg.Verbose, "v", false, "Verbose logging")
	fs.BoolVar(&showVersion, "version", false, "Print version and exit")
	if err := fs.Parse(args); err != nil {
		return app.Config{}, err
	}
	if showVersion {
		return app.Config{}, errVersion
	}
	cfg.Inputs = fs.Args()
	cfg.ExtraBoilerplate = app.SplitList(boilerplate)
	cfg.ExtraSectionEnds = app.SplitList(sectionEnds)

	explicit := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { explicit[f.Name] = true })
	flagged := cfg

	if err := app.LoadEnvFiles(app.SplitList(envFiles)...); err != nil {
		return app.Config{}, err
	}
	if configPath != "" {
		fc, err := app.LoadConfigFile(configPath)
		if err != nil {
			return app.Config{}, fmt.Errorf("config file: %w", err)
		}
		app.ApplyFileConfig(&cfg, fc)
	}
	app.ApplyEnvOverrides(&cfg)
	reapplyFlags(&cfg, flagged, explicit)
	return cfg, app.ValidateConfig(cfg)
}

// reapplyFlags restores the values of flags given on the command line after
// the file and environment overlays ran.
func reapplyFlags(dst *app.Config, src app.Config, set map[string]bool) {
	if len(src.Inputs) > 0 {
		dst.Inputs = src.Inputs
	}
	apply := map[string]func(){
		"kind":          func() { dst.Kind = src.Kind },
		"encoding":      func() { dst.Encoding = src.Encoding },
		"o":             func() { dst.OutputPath = src.OutputPath },
		"out-dir":       func() { dst.OutputDir = src.OutputDir },
		"format":        func() { dst.Format = src.Format },
		"workers":       func() { dst.Workers = src.Workers },
		"require-votes": func() { dst.RequireVotes = src.RequireVotes },
		"ua":            func() { dst.UserAgent = src.UserAgent },
		"timeout":       func() { dst.Timeout = src.Timeout },
		"retries":       func() { dst.MaxAttempts = src.MaxAttempts },
		"cache.dir":     func() { dst.CacheDir = src.CacheDir },
		"cache.maxAge":  func() { dst.CacheMaxAge = src.CacheMaxAge },
		"cache.clear":   func() { dst.CacheClear = src.CacheClear },
		"no-cache":      func() { dst.NoCache = src.NoCache },
		"boilerplate":   func() { dst.ExtraBoilerplate = src.ExtraBoilerplate },
		"section-ends":  func() { dst.ExtraSectionEnds = src.ExtraSectionEnds },
		"v":             func() { dst.Verbose = src.Verbose },
	}
	for name := range set {
		if fn, ok := apply[name]; ok {
			fn()
		}
	}
}
