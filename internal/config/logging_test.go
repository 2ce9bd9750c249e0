package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLogFile_PrunesOldest(t *testing.T) {
	dir := t.TempDir()
	unrelated := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(unrelated, nil, 0o644))

	start := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	for i := range 4 {
		f, err := setupLogFile(dir, 2, start.Add(time.Duration(i)*time.Minute))
		require.NoError(t, err)
		require.NoError(t, f.Close())
	}

	logs, err := filepath.Glob(filepath.Join(dir, logFilePrefix+"*.log"))
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "reportdesk-2025-03-01T09-02-00.log"),
		filepath.Join(dir, "reportdesk-2025-03-01T09-03-00.log"),
	}, logs)
	assert.FileExists(t, unrelated)
}

func TestSetupLogFile_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "logs")

	f, err := SetupLogFile(dir, 5)
	require.NoError(t, err)
	defer f.Close()

	_, err = f.WriteString("started\n")
	assert.NoError(t, err)
	assert.DirExists(t, dir)
}
