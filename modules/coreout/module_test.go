package coreout

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/specialistvlad/eligo/internal/element"
	"github.com/specialistvlad/eligo/internal/eli"
	"github.com/specialistvlad/eligo/internal/params"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOutput(t *testing.T, name string, kv map[string]string) element.StatisticOutput {
	t.Helper()
	reg := eli.NewRegistry()
	(&Module{}).Register(reg)
	out, err := element.StatisticOutputs.WithRegistry(reg).Create(Library, name, params.New(kv))
	require.NoError(t, err)
	return out
}

func writeFields(t *testing.T, out element.StatisticOutput) {
	t.Helper()
	require.NoError(t, out.StartOutput())
	require.NoError(t, out.OutputField("cpu0", "cycles", 1200))
	require.NoError(t, out.OutputField("cpu0", "ipc", 1.5))
	require.NoError(t, out.StopOutput())
}

func TestRegister_CoreLibrary(t *testing.T) {
	t.Parallel()

	var names []string
	for _, info := range element.StatisticOutputs.Elements(Library) {
		names = append(names, info.Name)
	}

	assert.Equal(t, []string{"console", "csv", "json"}, names)
}

func TestConsole_WritesLines(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "stats.txt")

	writeFields(t, newOutput(t, "console", map[string]string{"filepath": path}))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "cpu0.cycles = 1200\ncpu0.ipc = 1.5\n", string(got))
}

func TestCSV_Separator(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name      string
		separator string
		want      string
	}{
		{name: "default", want: "ComponentName,StatisticName,Value\ncpu0,cycles,1200\ncpu0,ipc,1.5\n"},
		{name: "semicolon", separator: ";", want: "ComponentName;StatisticName;Value\ncpu0;cycles;1200\ncpu0;ipc;1.5\n"},
		{name: "too long falls back", separator: "::", want: "ComponentName,StatisticName,Value\ncpu0,cycles,1200\ncpu0,ipc,1.5\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			path := filepath.Join(t.TempDir(), "stats.csv")
			kv := map[string]string{"filepath": path}
			if tt.separator != "" {
				kv["separator"] = tt.separator
			}

			writeFields(t, newOutput(t, "csv", kv))

			got, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestJSON_Document(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "stats.json")
	out := newOutput(t, "json", map[string]string{"filepath": path})

	writeFields(t, out)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc Document
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Equal(t, out.(*JSON).RunID(), doc.RunID)
	_, err = uuid.Parse(doc.RunID)
	assert.NoError(t, err)
	assert.Equal(t, []Field{
		{Component: "cpu0", Statistic: "cycles", Value: 1200},
		{Component: "cpu0", Statistic: "ipc", Value: 1.5},
	}, doc.Fields)
}

func TestJSON_GivenRunID(t *testing.T) {
	t.Parallel()

	out := newOutput(t, "json", map[string]string{"run_id": "nightly-42"})

	assert.Equal(t, "nightly-42", out.(*JSON).RunID())
}

func TestOutputs_RequireStart(t *testing.T) {
	t.Parallel()
	for _, name := range []string{"console", "csv", "json"} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			out := newOutput(t, name, nil)

			assert.ErrorIs(t, out.OutputField("c", "s", 1), ErrNotStarted)
		})
	}
}
