package ldb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommitStoreRoundTrip(t *testing.T) {
	s, err := NewCommitStore(t.TempDir())
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Set([]byte("k"), []byte("v")))

	got, err := s.Get([]byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)

	got, err = s.Get([]byte("missing"))
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, s.Delete([]byte("k")))
	has, err := s.Has([]byte("k"))
	require.NoError(t, err)
	assert.False(t, has)
}

func TestCacheWrapCommitsAtomically(t *testing.T) {
	s, err := NewCommitStore(t.TempDir())
	require.NoError(t, err)
	defer s.Close()

	cache := s.CacheWrap()
	require.NoError(t, cache.Set([]byte("a"), []byte("1")))
	require.NoError(t, cache.Set([]byte("b"), []byte("2")))

	// Nothing on disk before Write.
	got, err := s.Get([]byte("a"))
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, cache.Write())

	got, err = s.Get([]byte("a"))
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), got)
	got, err = s.Get([]byte("b"))
	require.NoError(t, err)
	assert.Equal(t, []byte("2"), got)
}

func TestCacheWrapDiscard(t *testing.T) {
	s, err := NewCommitStore(t.TempDir())
	require.NoError(t, err)
	defer s.Close()

	cache := s.CacheWrap()
	require.NoError(t, cache.Set([]byte("a"), []byte("1")))
	cache.Discard()

	got, err := s.Get([]byte("a"))
	require.NoError(t, err)
	assert.Nil(t, got)
}
