package app

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// EnvPrefix prefixes every environment variable read by ApplyEnvOverrides.
const EnvPrefix = "OPENBESTUUR_"

func getenv(key string) string {
	return strings.TrimSpace(os.Getenv(EnvPrefix + key))
}

// ApplyEnvOverrides overrides cfg fields with the OPENBESTUUR_* variables
// that are set. It runs after ApplyFileConfig and before explicit flags are
// re-applied, so precedence is flags, then env, then file.
func ApplyEnvOverrides(cfg *Config) {
	if cfg == nil {
		return
	}
	if v := getenv("INPUTS"); v != "" {
		cfg.Inputs = SplitList(v)
	}
	if v := getenv("KIND"); v != "" {
		cfg.Kind = v
	}
	if v := getenv("ENCODING"); v != "" {
		cfg.Encoding = v
	}
	if v := getenv("OUTPUT"); v != "" {
		cfg.OutputPath = v
	}
	if v := getenv("OUTPUT_DIR"); v != "" {
		cfg.OutputDir = v
	}
	if v := getenv("FORMAT"); v != "" {
		cfg.Format = v
	}
	if v := getenv("USER_AGENT"); v != "" {
		cfg.UserAgent = v
	}
	if v := getenv("CACHE_DIR"); v != "" {
		cfg.CacheDir = v
	}
	if v := getenv("BOILERPLATE"); v != "" {
		cfg.ExtraBoilerplate = SplitList(v)
	}
	if v := getenv("SECTION_ENDS"); v != "" {
		cfg.ExtraSectionEnds = SplitList(v)
	}

	setInt := func(dst *int, key string) {
		if n, err := strconv.Atoi(getenv(key)); err == nil && n >= 0 {
			*dst = n
		}
	}
	setInt(&cfg.Workers, "WORKERS")
	setInt(&cfg.MaxAttempts, "MAX_ATTEMPTS")

	setDuration := func(dst *time.Duration, key string) {
		if d, err := time.ParseDuration(getenv(key)); err == nil && d >= 0 {
			*dst = d
		}
	}
	setDuration(&cfg.Timeout, "TIMEOUT")
	setDuration(&cfg.CacheMaxAge, "CACHE_MAX_AGE")

	setBool := func(dst *bool, key string) {
		switch strings.ToLower(getenv(key)) {
		case "1", "true", "yes", "on":
			*dst = true
		case "0", "false", "no", "off":
			*dst = false
		}
	}
	setBool(&cfg.RequireVotes, "REQUIRE_VOTES")
	setBool(&cfg.CacheClear, "CACHE_CLEAR")
	setBool(&cfg.NoCache, "NO_CACHE")
	setBool(&cfg.Verbose, "VERBOSE")
}
