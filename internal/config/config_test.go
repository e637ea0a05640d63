package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/croftbox/hsworker/internal/hs"
	"github.com/croftbox/hsworker/internal/stamp"
)

func writeWithMtime(t *testing.T, path string, mtime time.Time) {
	t.Helper()

	require.NoError(t, os.WriteFile(path, []byte("content"), 0o644))
	require.NoError(t, os.Chtimes(path, mtime, mtime))
}

func TestWorkerFlags(t *testing.T) {
	flags := []string{"-O2", "-Wall"}

	assert.Equal(t, flags, WorkerFlags(File{FileName: "Main.hs", Flags: flags}))
	assert.Equal(t, flags, WorkerFlags(Empty{Flags: flags}))
	assert.Equal(t, flags, WorkerFlags(Cabal{CabalFile: "p.cabal", ConfigFlags: flags}))
}

func TestStalenessPath(t *testing.T) {
	path, ok := StalenessPath(File{FileName: "Main.hs"})
	assert.True(t, ok)
	assert.Equal(t, "Main.hs", path)

	path, ok = StalenessPath(Cabal{CabalFile: "proj.cabal"})
	assert.True(t, ok)
	assert.Equal(t, "proj.cabal", path)

	_, ok = StalenessPath(Empty{})
	assert.False(t, ok)
}

func TestStale(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "Main.hs")

	mtime := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	writeWithMtime(t, source, mtime)

	cfg := File{FileName: source}

	// Timestamp equal to the file mtime: not stale
	assert.False(t, Stale(cfg, stamp.FromTime(mtime)))

	// Timestamp older than the file mtime: stale
	assert.True(t, Stale(cfg, stamp.FromTime(mtime.Add(-time.Minute))))

	// Timestamp newer than the file mtime: not stale
	assert.False(t, Stale(cfg, stamp.FromTime(mtime.Add(time.Minute))))
}

func TestStaleCabalUsesDescriptor(t *testing.T) {
	dir := t.TempDir()
	descriptor := filepath.Join(dir, "proj.cabal")

	mtime := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	writeWithMtime(t, descriptor, mtime)

	cfg := Cabal{Name: "proj", CabalFile: descriptor, Component: hs.LibraryComponent()}

	assert.False(t, Stale(cfg, stamp.FromTime(mtime)))
	assert.True(t, Stale(cfg, stamp.FromTime(mtime.Add(-time.Second))))
}

func TestStaleEmptyNeverStale(t *testing.T) {
	assert.False(t, Stale(Empty{Flags: []string{"-O0"}}, stamp.FromEpochSeconds(0)))
}

func TestStaleMissingFile(t *testing.T) {
	cfg := File{FileName: filepath.Join(t.TempDir(), "gone.hs")}
	assert.True(t, Stale(cfg, stamp.Now()))
}

func TestModStamp(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "Main.hs")

	mtime := time.Date(2024, 2, 1, 8, 30, 0, 0, time.UTC)
	writeWithMtime(t, source, mtime)

	ts, err := ModStamp(File{FileName: source})
	require.NoError(t, err)
	assert.True(t, ts.Equal(stamp.FromTime(mtime)))

	// No governing file: timestamp is "now", close enough to the call
	before := stamp.Now()
	ts, err = ModStamp(Empty{})
	require.NoError(t, err)
	assert.False(t, ts.Before(before))
}
