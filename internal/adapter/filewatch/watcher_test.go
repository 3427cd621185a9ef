package filewatch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

const testDebounce = 50 * time.Millisecond

func TestWatcher_ReplaceTriggersOnce(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "epea_data.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"config":{}}`), 0o644))

	changed := make(chan struct{}, 10)
	w, err := NewWatcher(path, testDebounce, func() { changed <- struct{}{} }, slog.Default())
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))

	tmp := filepath.Join(dir, ".epea_data.json.123.tmp")
	require.NoError(t, os.WriteFile(tmp, []byte(`{"config":{"v":2}}`), 0o644))
	require.NoError(t, os.Rename(tmp, path))
	require.NoError(t, os.WriteFile(path, []byte(`{"config":{"v":3}}`), 0o644))

	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatal("onChange not called after document was replaced")
	}
	time.Sleep(4 * testDebounce)
	assert.Empty(t, changed, "burst of events must collapse into one call")

	w.Stop()
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "epea_data.json")

	var calls atomic.Int32
	w, err := NewWatcher(path, testDebounce, func() { calls.Add(1) }, slog.Default())
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "tablita_V2.csv"), []byte("Year\n2020\n"), 0o644))
	time.Sleep(5 * testDebounce)

	w.Stop()
	assert.Zero(t, calls.Load())
}

func TestWatcher_StopsOnContextCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	w, err := NewWatcher(filepath.Join(t.TempDir(), "epea_data.json"), testDebounce, func() {}, slog.Default())
	require.NoError(t, err)
	require.NoError(t, w.Start(ctx))

	cancel()
	w.Stop()
}

func TestWatcher_StartMissingDir(t *testing.T) {
	w, err := NewWatcher(filepath.Join(t.TempDir(), "nope", "epea_data.json"), testDebounce, func() {}, slog.Default())
	require.NoError(t, err)
	defer w.Stop()

	require.Error(t, w.Start(context.Background()))
}
