// Package config loads and validates the lictally scan configuration.
//
// Configuration is file-based (JSON, TOML, or YAML, decided by extension)
// and describes the whole run up front: where to search, which filename
// patterns map to which ecosystem, where the output artifacts go, and
// which external tool binaries to invoke. The loaded Config is passed
// explicitly into each component; no package reads configuration state
// globally.
package config

import (
	"github.com/spf13/viper"

	"github.com/fkoller/lictally/pkg/errors"
	"github.com/fkoller/lictally/pkg/manifest"
)

// DefaultFileName is the config file searched in the working directory
// when no explicit path is given.
const DefaultFileName = "lictally"

// FileRule is one manifest-matching rule as written in the config file.
type FileRule struct {
	Name string `mapstructure:"name"` // basename glob pattern
	Type string `mapstructure:"type"` // ecosystem tag (py-req, node-pkg, py-project)
}

// Outputs holds the artifact paths for one run.
type Outputs struct {
	Results      string `mapstructure:"results"`      // extraction results JSON array
	Summary      string `mapstructure:"summary"`      // license summary JSON object
	Dependencies string `mapstructure:"dependencies"` // dependency bundle JSON array
	CrawlerJSON  string `mapstructure:"crawler_json"` // license-checker --json output
	CrawlerText  string `mapstructure:"crawler_text"` // license-checker --summary output
	RunInfo      string `mapstructure:"run_info"`     // run metadata JSON
}

// Bins names the external tool binaries.
type Bins struct {
	NPM string `mapstructure:"npm"`
	NPX string `mapstructure:"npx"`
	Pip string `mapstructure:"pip"`
}

// Config is the complete configuration for one scan run.
type Config struct {
	Locations           map[string]string `mapstructure:"locations"`
	Files               []FileRule        `mapstructure:"files"`
	Outputs             Outputs           `mapstructure:"outputs"`
	Bins                Bins              `mapstructure:"bins"`
	SitePackages        []string          `mapstructure:"site_packages"`
	InstallRequirements bool              `mapstructure:"install_requirements"`
}

// Load reads the configuration from path, or from ./lictally.{json,toml,
// yaml} when path is empty, applies defaults, and validates the result.
// A config that names an unknown ecosystem tag fails here, before any
// filesystem traversal starts.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("outputs.results", "out/report.json")
	v.SetDefault("outputs.summary", "out/summary.json")
	v.SetDefault("outputs.dependencies", "out/dependencies.json")
	v.SetDefault("outputs.crawler_json", "out/licenses.json")
	v.SetDefault("outputs.crawler_text", "out/licenses.txt")
	v.SetDefault("outputs.run_info", "out/run.json")
	v.SetDefault("bins.npm", "npm")
	v.SetDefault("bins.npx", "npx")
	v.SetDefault("bins.pip", "pip")
	v.SetDefault("install_requirements", false)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(DefaultFileName)
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "could not parse config from path: %s", path)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "could not decode config")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks locations, rules, and output paths. Rule validation
// includes parsing every ecosystem tag so that an unknown tag aborts the
// run as a configuration defect.
func (c *Config) Validate() error {
	if len(c.Locations) == 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "no scan locations configured")
	}
	for name, path := range c.Locations {
		if err := errors.ValidateLocation(name, path); err != nil {
			return err
		}
	}

	if len(c.Files) == 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "no manifest rules configured")
	}
	for _, rule := range c.Files {
		if err := errors.ValidateFilenamePattern(rule.Name); err != nil {
			return err
		}
		if _, err := manifest.ParseEcosystem(rule.Type); err != nil {
			return err
		}
	}

	for _, out := range []string{
		c.Outputs.Results, c.Outputs.Summary, c.Outputs.Dependencies,
		c.Outputs.CrawlerJSON, c.Outputs.CrawlerText, c.Outputs.RunInfo,
	} {
		if err := errors.ValidateOutputPath(out); err != nil {
			return err
		}
	}

	return nil
}

// Rules converts the configured file rules into locator rules. Validate
// must have accepted the config first, so tag parsing cannot fail here for
// a loaded Config; the error return covers hand-built configs.
func (c *Config) Rules() ([]manifest.Rule, error) {
	rules := make([]manifest.Rule, 0, len(c.Files))
	for _, f := range c.Files {
		eco, err := manifest.ParseEcosystem(f.Type)
		if err != nil {
			return nil, err
		}
		rules = append(rules, manifest.Rule{Pattern: f.Name, Ecosystem: eco})
	}
	return rules, nil
}
