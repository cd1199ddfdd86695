package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	selection "github.com/hanpama/gqlshape/internal/selection"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gqlshape.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
schema:
  - schema/
documents:
  - src/
typename:
  add: true
  skipForRoot: true
fragmentMode: mask
compact: true
naming:
  fragmentSuffix: Frag
output:
  format: proto
  package: acme.shapes
scalars:
  DateTime: string
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	want := &Config{
		Schema:       []string{"schema/"},
		Documents:    []string{"src/"},
		Typename:     Typename{Add: true, SkipForRoot: true},
		FragmentMode: "mask",
		Compact:      true,
		ChunkSize:    selection.DefaultChunkSize,
		Naming:       Naming{DedupeOperationSuffix: true, FragmentSuffix: "Frag"},
		Output:       Output{Format: FormatProto, Package: "acme.shapes"},
		Scalars:      map[string]string{"DateTime": "string"},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}

	opts := cfg.SelectionOptions()
	require.Equal(t, selection.FragmentReference, opts.FragmentMode)
	require.True(t, opts.Compact)
	require.Equal(t, selection.TypenameOptions{Add: true, SkipForRoot: true}, opts.Typename)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "combine", mutate: func(c *Config) { c.FragmentMode = "combine" }},
		{
			name:    "unknown fragment mode",
			mutate:  func(c *Config) { c.FragmentMode = "spread" },
			wantErr: `unknown fragment mode "spread"`,
		},
		{
			name:    "chunk size",
			mutate:  func(c *Config) { c.ChunkSize = 0 },
			wantErr: "chunkSize must be at least 1, got 0",
		},
		{
			name:    "format",
			mutate:  func(c *Config) { c.Output.Format = "flow" },
			wantErr: `unknown output format "flow"`,
		},
		{
			name: "proto package",
			mutate: func(c *Config) {
				c.Output.Format = FormatProto
				c.Output.Package = ""
			},
			wantErr: "output.package is required for proto output",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.EqualError(t, err, tt.wantErr)
		})
	}
}

func TestParseRejectsBadYAML(t *testing.T) {
	_, err := Parse([]byte("compact: [\n"))
	require.Error(t, err)
}
