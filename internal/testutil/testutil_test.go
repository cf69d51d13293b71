package testutil

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFiles(t *testing.T) {
	t.Parallel()

	root := WriteFiles(t, map[string]string{
		"a.eli.hcl":          `library "a" {}`,
		"nested/b/b.eli.hcl": `library "b" {}`,
	})

	got, err := os.ReadFile(filepath.Join(root, "nested", "b", "b.eli.hcl"))
	require.NoError(t, err)
	assert.Equal(t, `library "b" {}`, string(got))
	assert.FileExists(t, filepath.Join(root, "a.eli.hcl"))
}

func TestNewLogger_CapturesConcurrentWrites(t *testing.T) {
	t.Parallel()
	logger, buf := NewLogger(t)

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			logger.Debug("Writer done.", "writer", i)
		}()
	}
	wg.Wait()

	assert.Contains(t, buf.String(), "level=DEBUG")
	assert.Contains(t, buf.String(), "writer=7")
}
