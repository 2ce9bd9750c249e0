package scan

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_RescansAfterChange(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "docs", "a.pdf"), "a")

	lib := NewLibrary(NewLibraryScanner(root, LibraryBaseURL), discardLogger())
	require.NoError(t, lib.Rescan(context.Background()))
	require.Equal(t, 2, lib.Pool().Len())

	w, err := NewWatcher(lib, 20*time.Millisecond, discardLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Give the watcher time to register its folders
	time.Sleep(100 * time.Millisecond)

	writeFile(t, filepath.Join(root, "docs", "b.pdf"), "b")
	assert.Eventually(t, func() bool { return lib.Pool().Len() == 3 }, 5*time.Second, 20*time.Millisecond)

	writeFile(t, filepath.Join(root, "new", "c.pdf"), "c")
	assert.Eventually(t, func() bool { return lib.Pool().Len() == 5 }, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}
