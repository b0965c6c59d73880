package disk

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/learnbuddy/learnbuddy/cache"
)

func TestStore_RoundTrip(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)

	key := cache.Fingerprint("chunk text", "mcq", "5")
	value := []byte(`{"questions":[]}`)

	_, ok, err := store.Get(t.Context(), key)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(t.Context(), key, value))

	got, ok, err := store.Get(t.Context(), key)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, value, got)
}

func TestStore_FansOutByPrefix(t *testing.T) {
	dir := t.TempDir()
	store, err := New(dir)
	require.NoError(t, err)

	key := cache.Fingerprint("content")
	require.NoError(t, store.Set(t.Context(), key, []byte("v")))

	_, err = os.Stat(filepath.Join(dir, key[:2], key+".json"))
	assert.NoError(t, err)
}

func TestStore_Delete(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)

	key := cache.Fingerprint("content")
	require.NoError(t, store.Set(t.Context(), key, []byte("v")))
	require.NoError(t, store.Delete(t.Context(), key))

	_, ok, err := store.Get(t.Context(), key)
	require.NoError(t, err)
	assert.False(t, ok)

	// Deleting again is not an error.
	assert.NoError(t, store.Delete(t.Context(), key))
}

func TestStore_Clear(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)

	for _, s := range []string{"a", "b", "c"} {
		require.NoError(t, store.Set(t.Context(), cache.Fingerprint(s), []byte(s)))
	}
	require.NoError(t, store.Clear())

	_, ok, err := store.Get(t.Context(), cache.Fingerprint("a"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_RejectsUnsafeKeys(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)

	for _, key := range []string{"", "../../etc/passwd", "short", "UPPERCASEHEX00aabbccddeeff"} {
		_, _, err := store.Get(t.Context(), key)
		assert.ErrorContains(t, err, "invalid cache key", "key %q", key)
	}
}

func TestNew_RequiresDirectory(t *testing.T) {
	_, err := New("  ")
	assert.ErrorContains(t, err, "cache directory")
}
