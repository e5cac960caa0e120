package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionStoreRoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	InvalidateSessionCache()

	assert.Equal(t, "", SessionFor("https://tenant1.oae.example"), "empty store yields no session")

	require.NoError(t, SaveSession("https://tenant1.oae.example", "sess-one"))
	require.NoError(t, SaveSession("https://tenant2.oae.example", "sess-two"))

	assert.Equal(t, "sess-one", SessionFor("https://tenant1.oae.example"))
	assert.Equal(t, "sess-two", SessionFor("https://tenant2.oae.example"))

	info, err := os.Stat(SessionsFilePath())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm(), "session tokens are owner-only")

	require.NoError(t, ClearSession("https://tenant1.oae.example"))
	InvalidateSessionCache()
	assert.Equal(t, "", SessionFor("https://tenant1.oae.example"))
	assert.Equal(t, "sess-two", SessionFor("https://tenant2.oae.example"), "other hosts survive a clear")
}

func TestSessionStoreSurvivesProcessRestart(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	InvalidateSessionCache()

	require.NoError(t, SaveSession("https://tenant1.oae.example", "sess-one"))

	// A fresh process has no cache; the file alone must carry the state.
	InvalidateSessionCache()
	assert.Equal(t, "sess-one", SessionFor("https://tenant1.oae.example"))
}

func TestSaveSessionRejectsEmptyValues(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	InvalidateSessionCache()

	assert.Error(t, SaveSession("", "sess"))
	assert.Error(t, SaveSession("https://tenant1.oae.example", ""))
	assert.NoFileExists(t, filepath.Join(os.Getenv("HOME"), ".oae", SessionsFileName))
}

func TestClearSessionOnMissingStoreIsANoop(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	InvalidateSessionCache()

	require.NoError(t, ClearSession("https://tenant1.oae.example"))
}
