package orm

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgernet/ledger/errors"
	"github.com/ledgernet/ledger/store"
)

// counter is a minimal model for bucket tests.
type counter struct {
	Count uint64
}

func (c *counter) Marshal() ([]byte, error) {
	raw := make([]byte, 8)
	binary.LittleEndian.PutUint64(raw, c.Count)
	return raw, nil
}

func (c *counter) Unmarshal(raw []byte) error {
	if len(raw) != 8 {
		return errors.Wrap(errors.ErrInput, "invalid length")
	}
	c.Count = binary.LittleEndian.Uint64(raw)
	return nil
}

func (c *counter) Validate() error {
	if c.Count == 0 {
		return errors.Wrap(errors.ErrAmount, "zero count")
	}
	return nil
}

func TestBucketPrefixesAreIsolated(t *testing.T) {
	db := store.MemStore()
	ab := NewBucket("alpha")
	bb := NewBucket("betabucket")

	require.NoError(t, ab.Save(db, []byte("k"), []byte("a")))
	require.NoError(t, bb.Save(db, []byte("k"), []byte("b")))

	got, err := ab.Get(db, []byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("a"), got)

	got, err = bb.Get(db, []byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("b"), got)
}

func TestBucketNameValidation(t *testing.T) {
	assert.Panics(t, func() { NewBucket("UPPER") })
	assert.Panics(t, func() { NewBucket("ab") })
	assert.Panics(t, func() { NewBucket("waytoolongname") })
}

func TestModelBucketRoundTrip(t *testing.T) {
	db := store.MemStore()
	mb := NewModelBucket("cnt")

	err := mb.One(db, []byte("k"), &counter{})
	assert.True(t, errors.ErrNotFound.Is(err))

	require.NoError(t, mb.Put(db, []byte("k"), &counter{Count: 5}))

	var c counter
	require.NoError(t, mb.One(db, []byte("k"), &c))
	assert.Equal(t, uint64(5), c.Count)

	ok, err := mb.Has(db, []byte("k"))
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, mb.Delete(db, []byte("k")))
	err = mb.Delete(db, []byte("k"))
	assert.True(t, errors.ErrNotFound.Is(err))
}

func TestModelBucketPutValidates(t *testing.T) {
	db := store.MemStore()
	mb := NewModelBucket("cnt")

	err := mb.Put(db, []byte("k"), &counter{Count: 0})
	assert.True(t, errors.ErrAmount.Is(err))

	err = mb.Put(db, nil, &counter{Count: 1})
	assert.True(t, errors.ErrEmpty.Is(err))
}
