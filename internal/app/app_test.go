package app

import (
	"context"
	"testing"

	"github.com/specialistvlad/eligo/internal/factory"
	"github.com/specialistvlad/eligo/internal/testutil"
	"github.com/specialistvlad/eligo/modules/simple"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const oldlibManifests = "../../modules/oldlib"

// Tests that build an App hold the process-wide factory, so they run
// serially.

func TestRun_DocumentsEveryLibrary(t *testing.T) {
	// --- Arrange ---
	a, out, _ := SetupAppTest(t, Config{SearchPaths: []string{oldlibManifests}})

	// --- Act ---
	err := a.Run(context.Background())

	// --- Assert ---
	require.NoError(t, err)
	text := out.String()
	for _, lib := range []string{"core", "oldhcl", "oldlib", "simple"} {
		assert.Contains(t, text, "ELI Library: "+lib)
	}
	assert.Contains(t, text, "  Components (2 total)")
	assert.Contains(t, text, "    counter: Counts up from start by step on every tick\n")
	assert.Contains(t, text, "    memctl: Fixed latency memory controller\n    Using ELI version UNKNOWN\n")
	assert.Contains(t, text, "        start: First value (0)")
	assert.Equal(t, []string{"core", "oldhcl", "oldlib", "simple"}, a.Factory().LoadedLibraryNames())
}

func TestRun_ElementTargetAsYAML(t *testing.T) {
	a, out, _ := SetupAppTest(t, Config{Format: FormatYAML, Targets: []string{"simple.counter"}})

	require.NoError(t, a.Run(context.Background()))

	var got struct {
		Library []struct {
			Name         string           `yaml:"name"`
			Component    []map[string]any `yaml:"component"`
			SubComponent []map[string]any `yaml:"sub_component"`
		} `yaml:"library"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(out.String()), &got))
	require.Len(t, got.Library, 1)
	assert.Equal(t, "simple", got.Library[0].Name)
	require.Len(t, got.Library[0].Component, 1)
	assert.Equal(t, "counter", got.Library[0].Component[0]["name"])
	assert.Empty(t, got.Library[0].SubComponent)
}

func TestRun_LibraryTargetAsHCL(t *testing.T) {
	a, out, _ := SetupAppTest(t, Config{Format: FormatHCL, Targets: []string{"core"}})

	require.NoError(t, a.Run(context.Background()))

	assert.Regexp(t, `library \{\n\s+name\s+= "core"`, out.String())
	assert.Regexp(t, `statistic_output \{\n\s+name\s+= "console"`, out.String())
	assert.NotContains(t, out.String(), `"simple"`)
}

func TestRun_UnknownTarget(t *testing.T) {
	a, _, _ := SetupAppTest(t, Config{Targets: []string{"nope.widget"}})

	err := a.Run(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), `library "nope" not found`)
}

func TestRun_BrokenManifest(t *testing.T) {
	dir := testutil.WriteFiles(t, map[string]string{"broken.eli.hcl": `library "broken" {`})
	a, _, _ := SetupAppTest(t, Config{SearchPaths: []string{dir}})

	err := a.Run(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load libraries")
	assert.Contains(t, err.Error(), "broken")
}

func TestRun_DumpsMetrics(t *testing.T) {
	a, _, logs := SetupAppTest(t, Config{Metrics: true})

	require.NoError(t, a.Run(context.Background()))

	assert.Contains(t, logs.String(), `eli_library_loads_total{outcome="modern"} 2`)
	assert.Contains(t, logs.String(), `eli_library_loads_total{outcome="legacy"} 1`)
}

func TestNewApp_CustomModules(t *testing.T) {
	a, out, _ := SetupAppTest(t, Config{}, &simple.Module{})

	require.NoError(t, a.Run(context.Background()))

	assert.NotContains(t, out.String(), "ELI Library: core")
	assert.Contains(t, out.String(), "ELI Library: simple")
}

func TestNewApp_OneFactoryAtATime(t *testing.T) {
	SetupAppTest(t, Config{})
	cfg, err := NewConfig(Config{})
	require.NoError(t, err)

	_, err = NewApp(&testutil.SafeBuffer{}, &testutil.SafeBuffer{}, cfg)

	require.ErrorIs(t, err, factory.ErrFactoryInitialized)
}

func TestNewConfig(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{name: "defaults", cfg: Config{}},
		{name: "yaml", cfg: Config{Format: FormatYAML, LogFormat: "json"}},
		{name: "bad format", cfg: Config{Format: "xml"}, wantErr: `invalid format "xml"`},
		{name: "bad level", cfg: Config{LogLevel: "loud"}, wantErr: `invalid log-level "loud"`},
		{name: "bad log format", cfg: Config{LogFormat: "xml"}, wantErr: "invalid log-format"},
		{name: "empty target", cfg: Config{Targets: []string{""}}, wantErr: "empty target"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			cfg, err := NewConfig(tc.cfg)

			if tc.wantErr != "" {
				require.ErrorContains(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, formats, cfg.Format)
			assert.Equal(t, "info", cfg.LogLevel)
		})
	}
}

func TestParseTarget(t *testing.T) {
	t.Parallel()

	assert.Equal(t, target{library: "simple", element: "counter"}, parseTarget("simple.counter"))
	assert.Equal(t, target{library: "core"}, parseTarget("core"))
}
