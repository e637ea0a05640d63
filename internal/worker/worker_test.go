package worker

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeExecutable(t *testing.T, dir, name string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	err := os.WriteFile(path, []byte("#!/bin/sh\nexit 0\n"), 0o755)
	require.NoError(t, err)

	return path
}

func overrideExecutableDir(t *testing.T, dir string) {
	t.Helper()

	orig := executablePath
	executablePath = func() (string, error) {
		return filepath.Join(dir, "hsworker"), nil
	}

	t.Cleanup(func() { executablePath = orig })
}

func TestLocatePrefersColocated(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("posix executable layout")
	}

	installDir := t.TempDir()
	pathDir := t.TempDir()

	colocated := fakeExecutable(t, installDir, "fooworker")
	fakeExecutable(t, pathDir, "fooworker")

	overrideExecutableDir(t, installDir)
	t.Setenv("PATH", pathDir)

	found, err := Locate("fooworker")
	require.NoError(t, err)
	assert.Equal(t, colocated, found)
}

func TestLocateFallsBackToPath(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("posix executable layout")
	}

	installDir := t.TempDir()
	pathDir := t.TempDir()

	onPath := fakeExecutable(t, pathDir, "fooworker")

	overrideExecutableDir(t, installDir)
	t.Setenv("PATH", pathDir)

	found, err := Locate("fooworker")
	require.NoError(t, err)
	assert.Equal(t, onPath, found)
}

func TestStartMissingExecutable(t *testing.T) {
	overrideExecutableDir(t, t.TempDir())
	t.Setenv("PATH", t.TempDir())

	_, err := Start("fooworker", "/proj", []string{"-v"})
	require.Error(t, err)

	assert.True(t, IsCannotStartWorker(err))
	assert.Contains(t, err.Error(), "fooworker")

	var startErr *CannotStartWorkerError
	require.ErrorAs(t, err, &startErr)
	assert.Equal(t, "fooworker", startErr.Name)
}

func TestStartAndClose(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("relies on cat")
	}

	overrideExecutableDir(t, t.TempDir())

	// cat with a directory argument exits on its own almost at once
	h, err := Start("cat", t.TempDir(), nil)
	require.NoError(t, err)
	assert.Nil(t, h.Flags)

	require.NoError(t, h.Close())

	// Idempotent
	require.NoError(t, h.Close())
	assert.True(t, h.Exited())
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

func TestNewHandleCloseIdempotent(t *testing.T) {
	h := NewHandle(nopWriteCloser{io.Discard}, io.NopCloser(strings.NewReader("")), []string{"-O2"})

	done := make(chan error, 1)
	go func() { done <- h.Close() }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Close blocked without a process attached")
	}

	require.NoError(t, h.Close())
	assert.Equal(t, []string{"-O2"}, h.Flags)
	assert.True(t, h.Exited())
}

func TestErrWorkerCrashedIs(t *testing.T) {
	err := crashed("read response", io.ErrUnexpectedEOF)
	assert.True(t, errors.Is(err, ErrWorkerCrashed))
}
