// Package ldb provides a leveldb backed CommitKVStore. A cache-wrap taken
// from the store collects all writes of one operation and lands them as a
// single leveldb batch, so a half-applied operation can never hit disk.
package ldb

import (
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	ldbErrors "github.com/syndtr/goleveldb/leveldb/errors"

	"github.com/ledgernet/ledger"
	"github.com/ledgernet/ledger/store"
)

// CommitStore defines a thin wrapper around leveldb.
type CommitStore struct {
	ldb *leveldb.DB
}

var _ ledger.CommitKVStore = (*CommitStore)(nil)
var _ ledger.CacheableKVStore = (*CommitStore)(nil)

// NewCommitStore opens a leveldb instance defined by the given path. If it
// doesn't exist, it is created.
func NewCommitStore(path string) (*CommitStore, error) {
	db, err := leveldb.OpenFile(path, nil)

	// If the database is corrupted, attempt to recover.
	if _, corrupted := err.(*ldbErrors.ErrCorrupted); corrupted {
		db, err = leveldb.RecoverFile(path, nil)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "cannot open leveldb under %q", path)
	}

	return &CommitStore{ldb: db}, nil
}

// Close closes the leveldb instance.
func (s *CommitStore) Close() error {
	return s.ldb.Close()
}

// Get gets the value for the given key. It returns nil if the given key
// does not exist.
func (s *CommitStore) Get(key []byte) ([]byte, error) {
	data, err := s.ldb.Get(key, nil)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "leveldb get")
	}
	return data, nil
}

// Has returns true if the database contains the given key.
func (s *CommitStore) Has(key []byte) (bool, error) {
	ok, err := s.ldb.Has(key, nil)
	if err != nil {
		return false, errors.Wrap(err, "leveldb has")
	}
	return ok, nil
}

// Set sets the value for the given key, overwriting any previous value.
// Prefer batched writes through CacheWrap for anything transactional.
func (s *CommitStore) Set(key, value []byte) error {
	return errors.Wrap(s.ldb.Put(key, value, nil), "leveldb put")
}

// Delete deletes the key.
func (s *CommitStore) Delete(key []byte) error {
	return errors.Wrap(s.ldb.Delete(key, nil), "leveldb delete")
}

// NewBatch returns a batch that commits atomically via a single leveldb
// write.
func (s *CommitStore) NewBatch() ledger.Batch {
	return &batch{
		db: s.ldb,
		b:  new(leveldb.Batch),
	}
}

// CacheWrap returns a scratch-pad over this store. Write lands as one
// atomic leveldb batch; Discard drops everything.
func (s *CommitStore) CacheWrap() ledger.KVCacheWrap {
	return store.NewBTreeCacheWrap(s, s.NewBatch(), nil)
}

// batch adapts a leveldb batch to the ledger.Batch interface.
type batch struct {
	db *leveldb.DB
	b  *leveldb.Batch
}

var _ ledger.Batch = (*batch)(nil)

func (b *batch) Set(key, value []byte) error {
	b.b.Put(key, value)
	return nil
}

func (b *batch) Delete(key []byte) error {
	b.b.Delete(key)
	return nil
}

// Write commits all staged operations in one atomic leveldb write and
// resets the batch.
func (b *batch) Write() error {
	if err := b.db.Write(b.b, nil); err != nil {
		return errors.Wrap(err, "leveldb batch write")
	}
	b.b.Reset()
	return nil
}
