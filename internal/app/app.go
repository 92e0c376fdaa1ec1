// Package app wires configuration, input loading, the two extraction
// pipelines and report output into a single run.
package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/Mohagames205/openbestuur/internal/cache"
	"github.com/Mohagames205/openbestuur/internal/fetch"
	"github.com/Mohagames205/openbestuur/internal/minutes"
	"github.com/Mohagames205/openbestuur/internal/plenary"
	"github.com/Mohagames205/openbestuur/internal/report"
)

var (
	// ErrNoInputs is returned when a run has nothing to process.
	ErrNoInputs = errors.New("no inputs")
	// ErrNoVotes is returned by Run when RequireVotes is set and no item of
	// any input carries votes.
	ErrNoVotes = errors.New("no votes found")
)

type App struct {
	cfg     Config
	fetcher *fetch.Client
	minutes *minutes.Parser
	plenary *plenary.Parser

	stdin  io.Reader
	stdout io.Writer
}

// New validates cfg and prepares the cache, fetcher and parsers.
func New(cfg Config) (*App, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent()
	}

	var pc *cache.PageCache
	if !cfg.NoCache && cfg.CacheDir != "" {
		pc = &cache.PageCache{Dir: cfg.CacheDir}
		if cfg.CacheClear {
			if err := pc.Clear(); err != nil {
				log.Warn().Err(err).Str("dir", cfg.CacheDir).Msg("cache clear failed")
			}
		}
		if cfg.CacheMaxAge > 0 {
			if n, err := pc.PurgeOlderThan(cfg.CacheMaxAge); err != nil {
				log.Warn().Err(err).Msg("cache purge failed")
			} else if n > 0 {
				log.Debug().Int("removed", n).Msg("purged stale cache entries")
			}
		}
	}

	vocab := cfg.Vocabulary()
	a := &App{
		cfg: cfg,
		fetcher: &fetch.Client{
			HTTPClient:        newHTTPClient(),
			UserAgent:         cfg.UserAgent,
			MaxAttempts:       cfg.MaxAttempts,
			PerRequestTimeout: cfg.Timeout,
			Cache:             pc,
			MaxConcurrent:     cfg.Workers,
		},
		minutes: minutes.NewParser(vocab),
		plenary: plenary.NewParser(vocab),
		stdin:   os.Stdin,
		stdout:  os.Stdout,
	}
	return a, nil
}

// SetOutput redirects stdout-bound results, mainly for tests.
func (a *App) SetOutput(w io.Writer) { a.stdout = w }

// SetInput replaces standard input for the "-" source.
func (a *App) SetInput(r io.Reader) { a.stdin = r }

// Extract loads one source and runs the matching pipeline.
func (a *App) Extract(ctx context.Context, src string) (report.Result, error) {
	start := time.Now()
	doc, err := a.load(ctx, src)
	if err != nil {
		return report.Result{}, fmt.Errorf("load %s: %w", src, err)
	}
	kind, err := detectKind(a.cfg.Kind, doc)
	if err != nil {
		return report.Result{}, err
	}

	var res report.Result
	switch kind {
	case report.KindPlenary:
		items, err := a.plenary.ParseReader(bytes.NewReader(doc.Body), doc.ContentType)
		if err != nil {
			return report.Result{}, fmt.Errorf("%s: %w", src, err)
		}
		res = report.NewPlenary(src, items)
	default:
		r, err := minutes.DecodingReader(bytes.NewReader(doc.Body), textEncoding(a.cfg.Encoding, doc.ContentType))
		if err != nil {
			return report.Result{}, fmt.Errorf("%s: %w", src, err)
		}
		items, err := a.minutes.ParseReader(r)
		if err != nil {
			return report.Result{}, fmt.Errorf("%s: %w", src, err)
		}
		res = report.NewMinutes(src, items)
	}

	s := res.Summary()
	log.Info().
		Str("source", src).
		Str("kind", string(kind)).
		Str("size", humanize.Bytes(uint64(len(doc.Body)))).
		Bool("cached", doc.FromCache).
		Int("items", s.TotalItems).
		Int("with_votes", s.ItemsWithVotes).
		Dur("took", time.Since(start)).
		Msg("extracted")
	return res, nil
}

// ExtractAll processes every input with at most cfg.Workers in flight.
// ok[i] reports whether results[i] is valid; the returned error joins the
// failures of individual inputs.
func (a *App) ExtractAll(ctx context.Context) (results []report.Result, ok []bool, err error) {
	inputs := a.cfg.Inputs
	if len(inputs) == 0 {
		return nil, nil, ErrNoInputs
	}
	results = make([]report.Result, len(inputs))
	ok = make([]bool, len(inputs))
	errs := make([]error, len(inputs))

	var g errgroup.Group
	g.SetLimit(a.cfg.Workers)
	for i, src := range inputs {
		i, src := i, src
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return nil
			}
			r, err := a.Extract(ctx, src)
			if err != nil {
				errs[i] = err
				return nil
			}
			results[i], ok[i] = r, true
			return nil
		})
	}
	_ = g.Wait()
	return results, ok, errors.Join(errs...)
}

// Run extracts every input, writes the results in input order and applies
// the RequireVotes policy.
func (a *App) Run(ctx context.Context) error {
	results, ok, extractErr := a.ExtractAll(ctx)
	if errors.Is(extractErr, ErrNoInputs) {
		return extractErr
	}
	var done []report.Result
	withVotes := 0
	for i, r := range results {
		if !ok[i] {
			continue
		}
		done = append(done, r)
		withVotes += r.Summary().ItemsWithVotes
	}
	if len(done) > 0 {
		if err := a.write(done); err != nil {
			return errors.Join(extractErr, err)
		}
	}
	log.Info().Int("inputs", len(results)).Int("succeeded", len(done)).Int("items_with_votes", withVotes).Msg("run complete")
	if extractErr != nil {
		return extractErr
	}
	if a.cfg.RequireVotes && withVotes == 0 {
		return ErrNoVotes
	}
	return nil
}

func (a *App) write(results []report.Result) error {
	format, err := report.ParseFormat(a.cfg.Format)
	if err != nil {
		return err
	}
	switch {
	case a.cfg.OutputDir != "":
		if format == "" {
			format = report.FormatJSON
		}
		for _, r := range results {
			path := deriveOutputPath(a.cfg.OutputDir, r.Source, format)
			if err := report.Write(r, path, format); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
			log.Debug().Str("source", r.Source).Str("path", path).Msg("wrote result")
		}
	case !isStdout(a.cfg.OutputPath):
		if err := report.Write(results[0], a.cfg.OutputPath, format); err != nil {
			return fmt.Errorf("write %s: %w", a.cfg.OutputPath, err)
		}
	default:
		if format == "" {
			format = report.FormatJSON
		}
		for _, r := range results {
			data, err := report.Render(r, format)
			if err != nil {
				return err
			}
			if _, err := a.stdout.Write(data); err != nil {
				return fmt.Errorf("write stdout: %w", err)
			}
		}
	}
	return nil
}
