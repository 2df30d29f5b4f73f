package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polisai/skillicons/pkg/catalog"
)

func TestParseCLIConfig(t *testing.T) {
	tests := []struct {
		name     string
		newCmd   func() *cobra.Command
		args     []string
		expected CLIConfig
		pretty   bool
	}{
		{
			name:     "serve defaults",
			newCmd:   newServeCmd,
			args:     []string{},
			expected: CLIConfig{},
		},
		{
			name:   "serve flags",
			newCmd: newServeCmd,
			args:   []string{"--listen", ":9000", "--catalog", "/srv/icons.json", "-l", "debug", "--pretty"},
			expected: CLIConfig{
				Listen:   ":9000",
				Catalog:  "/srv/icons.json",
				LogLevel: "debug",
				Pretty:   true,
			},
			pretty: true,
		},
		{
			name:   "build flags",
			newCmd: newBuildCmd,
			args:   []string{"--src", "assets", "--out", "public", "--watch", "-c", "skillicons.yaml"},
			expected: CLIConfig{
				Config: "skillicons.yaml",
				Src:    "assets",
				Out:    "public",
				Watch:  true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := tt.newCmd()
			require.NoError(t, cmd.ParseFlags(tt.args))

			cli, err := parseCLIConfig(cmd)
			require.NoError(t, err)

			assert.Equal(t, tt.expected.Config, cli.Config)
			assert.Equal(t, tt.expected.LogLevel, cli.LogLevel)
			assert.Equal(t, tt.expected.Pretty, cli.Pretty)
			assert.Equal(t, tt.expected.Listen, cli.Listen)
			assert.Equal(t, tt.expected.Catalog, cli.Catalog)
			assert.Equal(t, tt.expected.Src, cli.Src)
			assert.Equal(t, tt.expected.Out, cli.Out)
			assert.Equal(t, tt.expected.Watch, cli.Watch)
			assert.Equal(t, tt.pretty, cli.changed["pretty"])
		})
	}
}

func TestBuildConfig_FlagsOverrideConfig(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("SKILLICONS_LOG_LEVEL", "")

	path := filepath.Join(t.TempDir(), "skillicons.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  address: \":8080\"\nlogging:\n  pretty: true\n"), 0o644))

	cfg, err := buildConfig(&CLIConfig{
		Config:   path,
		Listen:   ":9000",
		Catalog:  "/srv/icons.json",
		LogLevel: "error",
		changed:  map[string]bool{"pretty": true},
	})
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Server.Address)
	assert.Equal(t, "/srv/icons.json", cfg.Catalog.Path)
	assert.Equal(t, "error", cfg.Logging.Level)
	assert.False(t, cfg.Logging.Pretty)
}

func TestBuildConfig_RejectsInvalidFlags(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("SKILLICONS_LOG_LEVEL", "")

	_, err := buildConfig(&CLIConfig{LogLevel: "loud", changed: map[string]bool{}})
	require.Error(t, err)
}

func TestBuildCommand_WritesCatalog(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("SKILLICONS_LOG_LEVEL", "")

	src := t.TempDir()
	out := filepath.Join(t.TempDir(), "dist")
	require.NoError(t, os.WriteFile(filepath.Join(src, "Go.svg"), []byte(`<svg id="go"/>`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "React-Dark.svg"), []byte(`<svg id="react"/>`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "README.md"), []byte("skip"), 0o644))

	var logs bytes.Buffer
	root := newRootCmd()
	root.SetOut(&logs)
	root.SetArgs([]string{"build", "--src", src, "--out", out})
	require.NoError(t, root.Execute())

	c, err := catalog.Load(afero.NewOsFs(), filepath.Join(out, catalog.FileName))
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "react-dark"}, c.Keys())
	assert.Contains(t, logs.String(), "Catalog written")
}

func TestBuildCommand_MissingSource(t *testing.T) {
	t.Setenv("PORT", "")

	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"build", "--src", filepath.Join(t.TempDir(), "missing"), "--out", t.TempDir()})
	require.Error(t, root.Execute())
}

func TestServeCommand_MissingCatalog(t *testing.T) {
	t.Setenv("PORT", "")

	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"serve", "--listen", "127.0.0.1:0", "--catalog", filepath.Join(t.TempDir(), "icons.json")})
	require.Error(t, root.Execute())
}
