package config

import (
	"fmt"
	"os"

	selection "github.com/hanpama/gqlshape/internal/selection"
	"gopkg.in/yaml.v3"
)

const (
	FormatTypeScript = "typescript"
	FormatProto      = "proto"
)

// Config is the generator configuration, usually read from gqlshape.yaml.
type Config struct {
	Schema            []string `yaml:"schema"`
	Documents         []string `yaml:"documents"`
	ExternalDocuments []string `yaml:"externalDocuments"`

	Typename     Typename `yaml:"typename"`
	FragmentMode string   `yaml:"fragmentMode"`
	Compact      bool     `yaml:"compact"`
	ChunkSize    int      `yaml:"chunkSize"`
	Naming       Naming   `yaml:"naming"`
	Output       Output   `yaml:"output"`

	// Scalars maps custom scalar names to target type names.
	Scalars map[string]string `yaml:"scalars"`
}

type Typename struct {
	Add         bool `yaml:"add"`
	NonOptional bool `yaml:"nonOptional"`
	SkipForRoot bool `yaml:"skipForRoot"`
}

type Naming struct {
	DedupeOperationSuffix bool   `yaml:"dedupeOperationSuffix"`
	FragmentSuffix        string `yaml:"fragmentSuffix"`
}

type Output struct {
	Path    string `yaml:"path"`
	Format  string `yaml:"format"`
	Package string `yaml:"package"`
}

func Default() *Config {
	return &Config{
		FragmentMode: string(selection.FragmentInline),
		ChunkSize:    selection.DefaultChunkSize,
		Naming: Naming{
			DedupeOperationSuffix: true,
			FragmentSuffix:        "Fragment",
		},
		Output: Output{
			Format:  FormatTypeScript,
			Package: "gqlshape",
		},
		Scalars: map[string]string{},
	}
}

// Load reads path over the defaults. Keys missing from the file keep their
// default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %q: %w", path, err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.Scalars == nil {
		cfg.Scalars = map[string]string{}
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if _, err := ParseFragmentMode(c.FragmentMode); err != nil {
		return err
	}
	if c.ChunkSize < 1 {
		return fmt.Errorf("chunkSize must be at least 1, got %d", c.ChunkSize)
	}
	switch c.Output.Format {
	case FormatTypeScript, FormatProto:
	default:
		return fmt.Errorf("unknown output format %q", c.Output.Format)
	}
	if c.Output.Format == FormatProto && c.Output.Package == "" {
		return fmt.Errorf("output.package is required for proto output")
	}
	return nil
}

// ParseFragmentMode accepts "mask" as another name for "reference".
func ParseFragmentMode(s string) (selection.FragmentMode, error) {
	switch s {
	case "", string(selection.FragmentInline):
		return selection.FragmentInline, nil
	case string(selection.FragmentReference), "mask":
		return selection.FragmentReference, nil
	case string(selection.FragmentCombine):
		return selection.FragmentCombine, nil
	}
	return "", fmt.Errorf("unknown fragment mode %q", s)
}

// SelectionOptions returns the engine options described by c. The branch
// namer is left for the caller to supply.
func (c *Config) SelectionOptions() selection.Options {
	mode, _ := ParseFragmentMode(c.FragmentMode)
	return selection.Options{
		Typename: selection.TypenameOptions{
			Add:         c.Typename.Add,
			NonOptional: c.Typename.NonOptional,
			SkipForRoot: c.Typename.SkipForRoot,
		},
		FragmentMode: mode,
		Compact:      c.Compact,
		ChunkSize:    c.ChunkSize,
	}
}
