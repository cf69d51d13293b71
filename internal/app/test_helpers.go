package app

import (
	"os"
	"testing"

	"github.com/specialistvlad/eligo/internal/testutil"
	"github.com/stretchr/testify/require"
)

// SetupAppTest creates a new app instance for system testing. The app holds
// the process-wide factory until the test ends, so callers must not run in
// parallel with other factory users.
func SetupAppTest(t *testing.T, cfg Config, modules ...Module) (*App, *testutil.SafeBuffer, *testutil.SafeBuffer) {
	t.Helper()

	cfg.LogLevel = "debug"
	validated, err := NewConfig(cfg)
	require.NoError(t, err)

	out, logs := &testutil.SafeBuffer{}, &testutil.SafeBuffer{}
	testApp, err := NewApp(out, logs, validated, modules...)
	require.NoError(t, err)

	t.Cleanup(func() {
		testApp.Close()
		if os.Getenv("ELI_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logs.String())
		}
	})

	return testApp, out, logs
}
