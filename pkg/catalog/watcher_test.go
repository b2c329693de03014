package catalog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startTestWatcher(t *testing.T, pattern string, src *Source) chan error {
	t.Helper()
	w, err := NewWatcher(pattern, src, 20*time.Millisecond, nil)
	require.NoError(t, err)

	reloads := make(chan error, 16)
	w.OnReload = func(err error) { reloads <- err }

	require.NoError(t, w.Start())
	t.Cleanup(func() { _ = w.Stop() })
	return reloads
}

func waitReload(t *testing.T, reloads chan error) error {
	t.Helper()
	select {
	case err := <-reloads:
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for catalog reload")
		return nil
	}
}

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := writeTempCatalog(t, dir, "apps.yaml", minimalValidCatalog())

	qs, err := LoadAndQuery(path)
	require.NoError(t, err)
	src := NewSource(qs)
	reloads := startTestWatcher(t, path, src)

	updated := minimalValidCatalog()
	updated.Title = "updated"
	writeTempCatalog(t, dir, "apps.yaml", updated)

	// A truncating write can surface as several events; wait for the final state.
	require.Eventually(t, func() bool {
		select {
		case <-reloads:
		default:
		}
		return src.Current().Title() == "updated"
	}, 5*time.Second, 10*time.Millisecond)
}

func TestWatcher_KeepsPreviousOnInvalid(t *testing.T) {
	dir := t.TempDir()
	path := writeTempCatalog(t, dir, "apps.yaml", minimalValidCatalog())

	qs, err := LoadAndQuery(path)
	require.NoError(t, err)
	src := NewSource(qs)
	reloads := startTestWatcher(t, path, src)

	require.NoError(t, os.WriteFile(path, []byte("apps: []\n"), 0644))

	require.Error(t, waitReload(t, reloads))
	assert.Same(t, qs, src.Current())
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := writeTempCatalog(t, dir, "apps.yaml", minimalValidCatalog())

	qs, err := LoadAndQuery(path)
	require.NoError(t, err)
	w, err := NewWatcher(path, NewSource(qs), 0, nil)
	require.NoError(t, err)
	defer func() { _ = w.Stop() }()

	assert.True(t, w.matches(path))
	assert.False(t, w.matches(filepath.Join(dir, "notes.txt")))
}

func TestWatcher_StopIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := writeTempCatalog(t, dir, "apps.yaml", minimalValidCatalog())
	qs, err := LoadAndQuery(path)
	require.NoError(t, err)

	w, err := NewWatcher(path, NewSource(qs), 0, nil)
	require.NoError(t, err)
	require.NoError(t, w.Start())
	require.NoError(t, w.Stop())
	require.NoError(t, w.Stop())
	assert.Error(t, w.Start())
}
