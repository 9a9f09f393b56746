package config

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/vyrodovalexey/routem/internal/observability"
)

const validTableYAML = `
paramTypes:
  - name: color
    values: [red, green]
routes:
  - name: user
    pattern: /user/<id:int>/
  - name: swatch
    pattern: /swatch/<c:color>
`

const invalidTableYAML = `
routes:
  - name: broken
    pattern: /x/<id:nope>/
`

func writeTable(t *testing.T, content string) string {
	t.Helper()
	return writeFile(t, t.TempDir(), "routes.yaml", content)
}

func TestNewWatcher(t *testing.T) {
	t.Parallel()

	path := writeTable(t, validTableYAML)

	watcher, err := NewWatcher(path, func(*RouteTable) {})
	require.NoError(t, err)
	require.NotNil(t, watcher)
	defer func() { _ = watcher.Stop() }()

	assert.Equal(t, path, watcher.Path())
	assert.NotNil(t, watcher.callback)
	assert.Equal(t, 100*time.Millisecond, watcher.debounceDelay)
}

func TestNewWatcher_WithOptions(t *testing.T) {
	t.Parallel()

	path := writeTable(t, validTableYAML)
	logger := observability.NopLogger()

	watcher, err := NewWatcher(path, func(*RouteTable) {},
		WithDebounceDelay(200*time.Millisecond),
		WithLogger(logger),
		WithErrorCallback(func(error) {}),
	)
	require.NoError(t, err)
	defer func() { _ = watcher.Stop() }()

	assert.Equal(t, 200*time.Millisecond, watcher.debounceDelay)
	assert.Equal(t, logger, watcher.logger)
	assert.NotNil(t, watcher.errorCallback)
}

func TestWatcher_Start(t *testing.T) {
	// Not parallel due to file system operations

	path := writeTable(t, validTableYAML)

	watcher, err := NewWatcher(path, func(*RouteTable) {}, WithDebounceDelay(10*time.Millisecond))
	require.NoError(t, err)

	assert.Nil(t, watcher.LastTable())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, watcher.Start(ctx))
	assert.NoError(t, watcher.Start(ctx), "second start is a no-op")

	table := watcher.LastTable()
	require.NotNil(t, table)
	assert.Len(t, table.Routes, 2)

	require.NoError(t, watcher.Stop())
}

func TestWatcher_Start_InvalidTable(t *testing.T) {
	// Not parallel due to file system operations

	path := writeTable(t, invalidTableYAML)

	watcher, err := NewWatcher(path, func(*RouteTable) {})
	require.NoError(t, err)

	err = watcher.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown parameter type "nope"`)
	assert.Nil(t, watcher.LastTable())

	assert.NoError(t, watcher.Stop())
}

func TestWatcher_Start_FileNotFound(t *testing.T) {
	// Not parallel due to file system operations

	watcher, err := NewWatcher(filepath.Join(t.TempDir(), "missing.yaml"), func(*RouteTable) {})
	require.NoError(t, err)

	assert.Error(t, watcher.Start(context.Background()))
	assert.NoError(t, watcher.Stop())
}

func TestWatcher_FileChange(t *testing.T) {
	// Not parallel due to file system operations and timing

	path := writeTable(t, validTableYAML)

	var mu sync.Mutex
	var received *RouteTable
	called := make(chan struct{}, 1)

	watcher, err := NewWatcher(path, func(table *RouteTable) {
		mu.Lock()
		received = table
		mu.Unlock()
		select {
		case called <- struct{}{}:
		default:
		}
	}, WithDebounceDelay(50*time.Millisecond))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, watcher.Start(ctx))
	defer func() { _ = watcher.Stop() }()

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte(`
routes:
  - name: only
    pattern: /only
`), 0o644))

	select {
	case <-called:
	case <-time.After(5 * time.Second):
		t.Fatal("callback was not invoked")
	}

	mu.Lock()
	defer mu.Unlock()
	require.NotNil(t, received)
	require.Len(t, received.Routes, 1)
	assert.Equal(t, "only", received.Routes[0].Name)
	assert.Equal(t, received, watcher.LastTable())
}

func TestWatcher_IncludedFileChange(t *testing.T) {
	// Not parallel due to file system operations and timing

	dir := t.TempDir()
	sharedDir := filepath.Join(dir, "shared")
	require.NoError(t, os.Mkdir(sharedDir, 0o755))

	shared := writeFile(t, sharedDir, "types.yaml", `
paramTypes:
  - name: color
    values: [red, green]
routes:
  - name: swatch
    pattern: /swatch/<c:color>
`)
	path := writeFile(t, dir, "routes.yaml", `
includes: [shared/types.yaml]
routes:
  - name: user
    pattern: /user/<id:int>/
`)

	called := make(chan *RouteTable, 1)
	watcher, err := NewWatcher(path, func(table *RouteTable) {
		select {
		case called <- table:
		default:
		}
	}, WithDebounceDelay(20*time.Millisecond))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, watcher.Start(ctx))
	defer func() { _ = watcher.Stop() }()

	require.Len(t, watcher.LastTable().Routes, 2)
	assert.True(t, watcher.isWatched(shared))

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(shared, []byte(`
paramTypes:
  - name: color
    values: [red, green, blue]
routes:
  - name: swatch
    pattern: /swatch/<c:color>
  - name: palette
    pattern: /palette/<c:color>
`), 0o644))

	select {
	case table := <-called:
		require.Len(t, table.Routes, 3)
		assert.Equal(t, "palette", table.Routes[1].Name)
		assert.Equal(t, []string{"red", "green", "blue"}, table.ParamTypes[0].Values)
	case <-time.After(5 * time.Second):
		t.Fatal("callback was not invoked after editing an included file")
	}
}

func TestWatcher_ReloadTracksNewIncludes(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFile(t, dir, "routes.yaml", validTableYAML)
	extra := writeFile(t, dir, "extra.yaml", "routes:\n  - name: extra\n    pattern: /extra\n")

	watcher, err := NewWatcher(path, nil)
	require.NoError(t, err)
	defer func() { _ = watcher.Stop() }()

	require.NoError(t, watcher.ForceReload())
	assert.False(t, watcher.isWatched(extra))

	writeFile(t, dir, "routes.yaml", "includes: [extra.yaml]\n"+validTableYAML)
	require.NoError(t, watcher.ForceReload())
	assert.True(t, watcher.isWatched(extra))
	assert.True(t, watcher.isWatched(path))

	writeFile(t, dir, "routes.yaml", validTableYAML)
	require.NoError(t, watcher.ForceReload())
	assert.False(t, watcher.isWatched(extra), "dropped includes stop triggering reloads")
}

func TestWatcher_FileChange_InvalidKeepsPrevious(t *testing.T) {
	// Not parallel due to file system operations and timing

	path := writeTable(t, validTableYAML)

	var callbacks atomic.Int32
	errCh := make(chan error, 1)

	watcher, err := NewWatcher(path, func(*RouteTable) { callbacks.Add(1) },
		WithDebounceDelay(50*time.Millisecond),
		WithErrorCallback(func(err error) {
			select {
			case errCh <- err:
			default:
			}
		}),
	)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, watcher.Start(ctx))
	defer func() { _ = watcher.Stop() }()

	previous := watcher.LastTable()

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte(invalidTableYAML), 0o644))

	select {
	case err := <-errCh:
		assert.Contains(t, err.Error(), "nope")
	case <-time.After(5 * time.Second):
		t.Fatal("error callback was not invoked")
	}

	assert.Equal(t, int32(0), callbacks.Load())
	assert.Same(t, previous, watcher.LastTable())
}

func TestWatcher_ForceReload(t *testing.T) {
	t.Parallel()

	path := writeTable(t, validTableYAML)

	var calls atomic.Int32
	watcher, err := NewWatcher(path, func(*RouteTable) { calls.Add(1) })
	require.NoError(t, err)
	defer func() { _ = watcher.Stop() }()

	require.NoError(t, watcher.ForceReload())
	assert.Equal(t, int32(1), calls.Load())
	require.NotNil(t, watcher.LastTable())

	require.NoError(t, os.WriteFile(path, []byte(invalidTableYAML), 0o644))
	assert.Error(t, watcher.ForceReload())
	assert.Equal(t, int32(1), calls.Load())
}

func TestWatcher_HandleFileEvent(t *testing.T) {
	t.Parallel()

	path := writeTable(t, validTableYAML)
	watcher, err := NewWatcher(path, nil, WithDebounceDelay(time.Hour))
	require.NoError(t, err)
	defer func() { _ = watcher.Stop() }()

	tests := []struct {
		name      string
		event     fsnotify.Event
		wantTimer bool
	}{
		{
			name:  "other file",
			event: fsnotify.Event{Name: filepath.Join(filepath.Dir(path), "other.yaml"), Op: fsnotify.Write},
		},
		{
			name:  "chmod on table",
			event: fsnotify.Event{Name: path, Op: fsnotify.Chmod},
		},
		{
			name:      "write on table",
			event:     fsnotify.Event{Name: path, Op: fsnotify.Write},
			wantTimer: true,
		},
		{
			name:      "create on table",
			event:     fsnotify.Event{Name: path, Op: fsnotify.Create},
			wantTimer: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			timer, ch := watcher.handleFileEvent(tt.event, nil, nil)
			if tt.wantTimer {
				require.NotNil(t, timer)
				assert.NotNil(t, ch)
				timer.Stop()
			} else {
				assert.Nil(t, timer)
				assert.Nil(t, ch)
			}
		})
	}
}

func TestWatcher_DefaultsToGlobalLogger(t *testing.T) {
	// Not parallel: mutates the global logger.
	original := observability.L()
	defer observability.SetGlobalLogger(original)

	core, logs := observer.New(zapcore.ErrorLevel)
	observability.SetGlobalLogger(observability.NewLoggerFromZap(zap.New(core)))

	path := writeTable(t, validTableYAML)
	watcher, err := NewWatcher(path, nil)
	require.NoError(t, err)
	defer func() { _ = watcher.Stop() }()

	watcher.handleWatchError(assert.AnError)
	assert.Equal(t, 1, logs.FilterMessage("route table watcher error").Len())
}

func TestWatcher_HandleWatchError(t *testing.T) {
	t.Parallel()

	path := writeTable(t, validTableYAML)

	var got error
	watcher, err := NewWatcher(path, nil, WithErrorCallback(func(err error) { got = err }))
	require.NoError(t, err)
	defer func() { _ = watcher.Stop() }()

	watcher.handleWatchError(assert.AnError)
	assert.Equal(t, assert.AnError, got)
}
