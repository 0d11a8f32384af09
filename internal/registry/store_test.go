package registry

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zapcore"

	"github.com/fyrsmithlabs/chatops/internal/logging"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestNewStore(t *testing.T) {
	path := writeFile(t, "commands.yaml", yamlRegistry)

	s, err := NewStore(path)
	require.NoError(t, err)
	assert.Equal(t, path, s.Path())
	assert.Equal(t, 3, s.Registry().Len())
	assert.Equal(t, int64(1), s.Reloads())
}

func TestNewStore_FailsClosed(t *testing.T) {
	s, err := NewStore(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRegistryUnavailable)
	assert.Nil(t, s)
}

func TestStore_ReloadKeepsPreviousOnFailure(t *testing.T) {
	path := writeFile(t, "commands.yaml", yamlRegistry)
	s, err := NewStore(path)
	require.NoError(t, err)
	before := s.Registry()

	require.NoError(t, os.WriteFile(path, []byte("commands: [broken"), 0600))
	require.Error(t, s.Reload())
	assert.Same(t, before, s.Registry())
	assert.Equal(t, int64(1), s.Reloads())
}

func TestStore_Watch(t *testing.T) {
	path := writeFile(t, "commands.yaml", yamlRegistry)
	s, err := NewStore(path)
	require.NoError(t, err)

	tl := logging.NewTestLogger()
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.Watch(ctx, tl.Logger) }()

	require.Eventually(t, func() bool {
		return len(tl.FilterMessage("watching command registry").All()) > 0
	}, 2*time.Second, 10*time.Millisecond)

	updated := "commands:\n  /only:\n    usage: \"Usage: `/only`\"\n"
	require.NoError(t, os.WriteFile(path, []byte(updated), 0600))

	require.Eventually(t, func() bool {
		_, ok := s.Registry().Lookup("/only")
		return ok
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, 1, s.Registry().Len())

	// a broken write is logged and the last good registry survives
	require.NoError(t, os.WriteFile(path, []byte("commands: [broken"), 0600))
	require.Eventually(t, func() bool {
		return len(tl.FilterMessage("registry reload failed, keeping previous commands").All()) > 0
	}, 2*time.Second, 10*time.Millisecond)
	_, ok := s.Registry().Lookup("/only")
	assert.True(t, ok)
	tl.AssertLogged(t, zapcore.ErrorLevel, "registry reload failed")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}
