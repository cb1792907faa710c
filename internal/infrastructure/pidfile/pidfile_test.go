package pidfile_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/factorysim-go/internal/infrastructure/pidfile"
)

func TestPIDFile_AcquireAndRelease(t *testing.T) {
	// Arrange
	path := filepath.Join(t.TempDir(), "server.pid")
	p := pidfile.New(path)

	// Act
	require.NoError(t, p.Acquire())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, p.Release())

	// Assert
	assert.Equal(t, fmt.Sprintf("%d\n", os.Getpid()), string(data))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestPIDFile_RefusesLiveOwner(t *testing.T) {
	// Arrange
	path := filepath.Join(t.TempDir(), "server.pid")
	require.NoError(t, os.WriteFile(path, []byte(fmt.Sprintf("%d\n", os.Getpid())), 0o644))

	// Act
	err := pidfile.New(path).Acquire()

	// Assert
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already running")
}

func TestPIDFile_ReplacesGarbage(t *testing.T) {
	// Arrange
	path := filepath.Join(t.TempDir(), "server.pid")
	require.NoError(t, os.WriteFile(path, []byte("not a pid"), 0o644))

	// Act
	err := pidfile.New(path).Acquire()

	// Assert
	assert.NoError(t, err)
}
