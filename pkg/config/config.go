// Package config loads modeldeps configuration from TOML, YAML or JSON.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/panbanda/modeldeps/pkg/corpus"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid configuration")

// Formats lists the accepted output formats.
var Formats = []string{"text", "json", "markdown", "toon"}

// Config holds all configuration options for modeldeps.
type Config struct {
	// Corpus designates the model files to analyze.
	Corpus CorpusConfig `koanf:"corpus" toml:"corpus"`

	Aliases AliasConfig `koanf:"aliases" toml:"aliases"`

	Output OutputConfig `koanf:"output" toml:"output"`

	Watch WatchConfig `koanf:"watch" toml:"watch"`
}

// CorpusConfig locates the primary and auxiliary files.
type CorpusConfig struct {
	// Dir is relative to the project root.
	Dir       string       `koanf:"dir" toml:"dir"`
	Primary   FileConfig   `koanf:"primary" toml:"primary"`
	Auxiliary []FileConfig `koanf:"auxiliary" toml:"auxiliary"`
}

// FileConfig designates one file.
type FileConfig struct {
	Name        string `koanf:"name" toml:"name"`
	Description string `koanf:"description" toml:"description"`
}

// AliasConfig controls alias recognition.
type AliasConfig struct {
	// Scalars are the underlying types that make `type X <scalar>` an alias.
	Scalars []string `koanf:"scalars" toml:"scalars"`
}

// OutputConfig controls output formatting.
type OutputConfig struct {
	Format   string `koanf:"format" toml:"format"` // text, json, markdown, toon
	Color    bool   `koanf:"color" toml:"color"`
	Verbose  bool   `koanf:"verbose" toml:"verbose"`
	Progress bool   `koanf:"progress" toml:"progress"`
}

// WatchConfig controls watch mode.
type WatchConfig struct {
	Debounce string `koanf:"debounce" toml:"debounce"`
}

// DefaultConfig returns the layout of the cloud model package.
func DefaultConfig() *Config {
	return &Config{
		Corpus: CorpusConfig{
			Dir: "infra/cloud-model",
			Primary: FileConfig{
				Name:        "copied-tb-model.go",
				Description: "CB-Tumblebug models",
			},
			Auxiliary: []FileConfig{
				{Name: "model.go", Description: "CM-Model types"},
				{Name: "vm-infra-info.go", Description: "VM infrastructure info"},
			},
		},
		Aliases: AliasConfig{
			Scalars: []string{"string"},
		},
		Output: OutputConfig{
			Format:   "text",
			Color:    true,
			Verbose:  false,
			Progress: true,
		},
		Watch: WatchConfig{
			Debounce: "500ms",
		},
	}
}

// Layout converts the corpus section into a corpus layout, primary first.
func (c *Config) Layout() corpus.Layout {
	files := []corpus.FileSpec{{
		Name:        c.Corpus.Primary.Name,
		Description: c.Corpus.Primary.Description,
		Role:        corpus.RolePrimary,
	}}
	for _, aux := range c.Corpus.Auxiliary {
		files = append(files, corpus.FileSpec{
			Name:        aux.Name,
			Description: aux.Description,
			Role:        corpus.RoleAuxiliary,
		})
	}
	return corpus.Layout{Dir: c.Corpus.Dir, Files: files}
}

// DebounceDuration parses Watch.Debounce.
func (c *Config) DebounceDuration() (time.Duration, error) {
	d, err := time.ParseDuration(c.Watch.Debounce)
	if err != nil {
		return 0, fmt.Errorf("%w: watch.debounce: %v", ErrInvalidConfig, err)
	}
	return d, nil
}

// Validate checks the configuration for values the analysis cannot use.
func (c *Config) Validate() error {
	var problems []string
	if c.Corpus.Dir == "" {
		problems = append(problems, "corpus.dir is empty")
	}
	if err := c.Layout().Validate(); err != nil {
		problems = append(problems, err.Error())
	}
	if len(c.Aliases.Scalars) == 0 {
		problems = append(problems, "aliases.scalars is empty")
	}
	if !slices.Contains(Formats, c.Output.Format) {
		problems = append(problems, fmt.Sprintf("output.format %q is not one of %s", c.Output.Format, strings.Join(Formats, ", ")))
	}
	if d, err := time.ParseDuration(c.Watch.Debounce); err != nil || d < 0 {
		problems = append(problems, fmt.Sprintf("watch.debounce %q is not a valid duration", c.Watch.Debounce))
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

// Load loads configuration from a file, on top of the defaults.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	// Determine parser based on extension
	var parser koanf.Parser
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".toml":
		parser = toml.Parser()
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		parser = toml.Parser()
	}

	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}

	// Lists replace the defaults rather than merging into them.
	if k.Exists("corpus.auxiliary") {
		cfg.Corpus.Auxiliary = nil
	}
	if k.Exists("aliases.scalars") {
		cfg.Aliases.Scalars = nil
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// configNames are searched in order in each search directory.
var configNames = []string{
	"modeldeps.toml",
	"modeldeps.yaml",
	"modeldeps.yml",
	"modeldeps.json",
	".modeldeps.toml",
	".modeldeps.yaml",
	".modeldeps.yml",
	".modeldeps.json",
}

// Find returns the first config file under root, then root/.modeldeps, or
// an empty string.
func Find(root string) string {
	for _, dir := range []string{root, filepath.Join(root, ".modeldeps")} {
		for _, name := range configNames {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path
			}
		}
	}
	return ""
}

// LoadResult is a loaded configuration and the file it came from.
type LoadResult struct {
	Config *Config
	// Source is empty when defaults were used.
	Source string
}

// LoadOption configures LoadConfig.
type LoadOption func(*loadOptions)

type loadOptions struct {
	path string
	root string
}

// WithPath loads an explicit file instead of searching.
func WithPath(path string) LoadOption {
	return func(o *loadOptions) {
		o.path = path
	}
}

// WithSearchRoot sets the directory searched for config files.
func WithSearchRoot(root string) LoadOption {
	return func(o *loadOptions) {
		o.root = root
	}
}

// LoadConfig loads an explicit file, or the first file found under the
// search root, or the defaults.
func LoadConfig(opts ...LoadOption) (*LoadResult, error) {
	o := &loadOptions{root: "."}
	for _, opt := range opts {
		opt(o)
	}

	path := o.path
	if path == "" {
		path = Find(o.root)
	}
	if path == "" {
		return &LoadResult{Config: DefaultConfig()}, nil
	}

	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	return &LoadResult{Config: cfg, Source: path}, nil
}

// LoadOrDefault loads the first config file under root, or returns the
// defaults when none is found or it fails to load.
func LoadOrDefault(root string) *Config {
	result, err := LoadConfig(WithSearchRoot(root))
	if err != nil {
		return DefaultConfig()
	}
	return result.Config
}
