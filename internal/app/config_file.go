package app

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	yaml "gopkg.in/yaml.v3"
)

// FileConfig is the YAML/JSON configuration schema.
type FileConfig struct {
	Inputs   []string `yaml:"inputs" json:"inputs"`
	Kind     string   `yaml:"kind" json:"kind"`
	Encoding string   `yaml:"encoding" json:"encoding"`

	Output struct {
		Path   string `yaml:"path" json:"path"`
		Dir    string `yaml:"dir" json:"dir"`
		Format string `yaml:"format" json:"format"`
	} `yaml:"output" json:"output"`

	Workers      int  `yaml:"workers" json:"workers"`
	RequireVotes bool `yaml:"requireVotes" json:"requireVotes"`
	Verbose      bool `yaml:"verbose" json:"verbose"`

	Fetch struct {
		UserAgent   string   `yaml:"userAgent" json:"userAgent"`
		Timeout     Duration `yaml:"timeout" json:"timeout"`
		MaxAttempts int      `yaml:"maxAttempts" json:"maxAttempts"`
	} `yaml:"fetch" json:"fetch"`

	Cache struct {
		Dir      string   `yaml:"dir" json:"dir"`
		MaxAge   Duration `yaml:"maxAge" json:"maxAge"`
		Clear    bool     `yaml:"clear" json:"clear"`
		Disabled bool     `yaml:"disabled" json:"disabled"`
	} `yaml:"cache" json:"cache"`

	Vocabulary struct {
		Boilerplate []string `yaml:"boilerplate" json:"boilerplate"`
		SectionEnds []string `yaml:"sectionEnds" json:"sectionEnds"`
	} `yaml:"vocabulary" json:"vocabulary"`
}

// Duration accepts Go duration strings ("30s", "24h") in YAML and JSON.
type Duration time.Duration

func (d *Duration) set(s string) error {
	if s == "" {
		*d = 0
		return nil
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(n *yaml.Node) error {
	var s string
	if err := n.Decode(&s); err != nil {
		return err
	}
	return d.set(s)
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("duration must be a string: %w", err)
	}
	return d.set(s)
}

// LoadConfigFile reads YAML or JSON into FileConfig. Unknown extensions are
// tried as YAML, then JSON.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse json: %w", err)
		}
	default:
		if err := yaml.Unmarshal(b, &fc); err != nil {
			fc = FileConfig{}
			if jerr := json.Unmarshal(b, &fc); jerr != nil {
				return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
			}
		}
	}
	return fc, nil
}

// ApplyFileConfig fills fields of cfg that are unset or still at their flag
// default. Explicit flags therefore win over the file.
func ApplyFileConfig(cfg *Config, fc FileConfig) {
	if cfg == nil {
		return
	}
	if len(cfg.Inputs) == 0 && len(fc.Inputs) > 0 {
		cfg.Inputs = append([]string{}, fc.Inputs...)
	}
	if (cfg.Kind == "" || cfg.Kind == DefaultKind) && fc.Kind != "" {
		cfg.Kind = fc.Kind
	}
	if cfg.Encoding == "" && fc.Encoding != "" {
		cfg.Encoding = fc.Encoding
	}
	if cfg.OutputPath == "" && fc.Output.Path != "" {
		cfg.OutputPath = fc.Output.Path
	}
	if cfg.OutputDir == "" && fc.Output.Dir != "" {
		cfg.OutputDir = fc.Output.Dir
	}
	if cfg.Format == "" && fc.Output.Format != "" {
		cfg.Format = fc.Output.Format
	}
	if (cfg.Workers == 0 || cfg.Workers == DefaultWorkers) && fc.Workers > 0 {
		cfg.Workers = fc.Workers
	}
	if !cfg.RequireVotes && fc.RequireVotes {
		cfg.RequireVotes = true
	}
	if !cfg.Verbose && fc.Verbose {
		cfg.Verbose = true
	}

	if (cfg.UserAgent == "" || cfg.UserAgent == DefaultUserAgent()) && fc.Fetch.UserAgent != "" {
		cfg.UserAgent = fc.Fetch.UserAgent
	}
	if (cfg.Timeout == 0 || cfg.Timeout == DefaultTimeout) && fc.Fetch.Timeout > 0 {
		cfg.Timeout = time.Duration(fc.Fetch.Timeout)
	}
	if (cfg.MaxAttempts == 0 || cfg.MaxAttempts == DefaultMaxAttempts) && fc.Fetch.MaxAttempts > 0 {
		cfg.MaxAttempts = fc.Fetch.MaxAttempts
	}

	if (cfg.CacheDir == "" || cfg.CacheDir == DefaultCacheDir) && fc.Cache.Dir != "" {
		cfg.CacheDir = fc.Cache.Dir
	}
	if cfg.CacheMaxAge == 0 && fc.Cache.MaxAge > 0 {
		cfg.CacheMaxAge = time.Duration(fc.Cache.MaxAge)
	}
	if !cfg.CacheClear && fc.Cache.Clear {
		cfg.CacheClear = true
	}
	if !cfg.NoCache && fc.Cache.Disabled {
		cfg.NoCache = true
	}

	if len(cfg.ExtraBoilerplate) == 0 && len(fc.Vocabulary.Boilerplate) > 0 {
		cfg.ExtraBoilerplate = append([]string{}, fc.Vocabulary.Boilerplate...)
	}
	if len(cfg.ExtraSectionEnds) == 0 && len(fc.Vocabulary.SectionEnds) > 0 {
		cfg.ExtraSectionEnds = append([]string{}, fc.Vocabulary.SectionEnds...)
	}
}
