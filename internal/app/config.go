package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Mohagames205/openbestuur/internal/report"
	"github.com/Mohagames205/openbestuur/internal/votes"
)

// Input kinds accepted by Config.Kind.
const (
	KindAuto    = "auto"
	KindMinutes = "minutes"
	KindPlenary = "plenary"
)

// Defaults shared by flag parsing and the file/env overlays. An overlay may
// replace a field that still holds its default.
const (
	DefaultKind        = KindAuto
	DefaultWorkers     = 4
	DefaultTimeout     = 30 * time.Second
	DefaultMaxAttempts = 3
	DefaultCacheDir    = ".openbestuur-cache"
)

// Config holds runtime configuration for a run.
type Config struct {
	// Inputs are local paths or http(s) URLs, processed in order.
	Inputs []string
	// Kind is auto, minutes or plenary.
	Kind string
	// Encoding of text minutes, e.g. "windows-1252". Empty means UTF-8.
	Encoding string

	// OutputPath receives the single result; "" or "-" means stdout.
	OutputPath string
	// OutputDir receives one file per input and wins over OutputPath.
	OutputDir string
	// Format is json, markdown or pdf; empty infers from OutputPath.
	Format string

	Workers      int
	RequireVotes bool

	// Fetching
	UserAgent   string
	Timeout     time.Duration
	MaxAttempts int

	// Cache
	CacheDir    string
	CacheMaxAge time.Duration
	CacheClear  bool
	NoCache     bool

	// Vocabulary overrides
	ExtraBoilerplate []string
	ExtraSectionEnds []string

	Verbose bool
}

// Vocabulary returns the default vocabulary extended with the configured
// markers.
func (c Config) Vocabulary() votes.Vocabulary {
	return votes.DefaultVocabulary().With(c.ExtraBoilerplate, c.ExtraSectionEnds)
}

// ValidateConfig rejects configurations that cannot run.
func ValidateConfig(cfg Config) error {
	if len(cfg.Inputs) == 0 {
		return fmt.Errorf("config: %w", ErrNoInputs)
	}
	for _, in := range cfg.Inputs {
		if strings.TrimSpace(in) == "" {
			return errors.New("config: empty input")
		}
	}
	switch strings.ToLower(cfg.Kind) {
	case "", KindAuto, KindMinutes, KindPlenary:
	default:
		return fmt.Errorf("config: unknown kind %q (want auto, minutes or plenary)", cfg.Kind)
	}
	if _, err := report.ParseFormat(cfg.Format); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if cfg.Workers < 0 || cfg.MaxAttempts < 0 || cfg.Timeout < 0 || cfg.CacheMaxAge < 0 {
		return errors.New("config: negative limits are not allowed")
	}
	if cfg.OutputDir == "" && !isStdout(cfg.OutputPath) && len(cfg.Inputs) > 1 {
		return errors.New("config: several inputs need an output directory or stdout")
	}
	return nil
}

func isStdout(path string) bool {
	p := strings.TrimSpace(path)
	return p == "" || p == "-"
}

// SplitList parses a comma-separated list, dropping empty entries.
func SplitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}
