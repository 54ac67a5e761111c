package orm

import (
	"github.com/ledgernet/ledger"
	"github.com/ledgernet/ledger/errors"
)

// ModelBucket is implemented by buckets that operate on Models rather
// than raw bytes.
type ModelBucket interface {
	// One queries the database for a single model instance. Lookup is
	// done by the primary key. The result is loaded into the given
	// destination model.
	// This method returns ErrNotFound if the entity does not exist in
	// the database.
	One(db ledger.ReadOnlyKVStore, key []byte, dest Model) error

	// Has checks for existence without decoding the model.
	Has(db ledger.ReadOnlyKVStore, key []byte) (bool, error)

	// Put saves the given model in the database. The model is validated
	// before it is written.
	Put(db ledger.KVStore, key []byte, m Model) error

	// Delete removes an entity with the given primary key from the
	// database. It returns ErrNotFound if an entity with the given key
	// does not exist.
	Delete(db ledger.KVStore, key []byte) error
}

// NewModelBucket returns a ModelBucket instance over the named prefix.
func NewModelBucket(name string) ModelBucket {
	return &modelBucket{
		b: NewBucket(name),
	}
}

type modelBucket struct {
	b Bucket
}

var _ ModelBucket = (*modelBucket)(nil)

func (mb *modelBucket) One(db ledger.ReadOnlyKVStore, key []byte, dest Model) error {
	raw, err := mb.b.Get(db, key)
	if err != nil {
		return err
	}
	if raw == nil {
		return errors.Wrapf(errors.ErrNotFound, "%T not in the store", dest)
	}
	if err := dest.Unmarshal(raw); err != nil {
		return errors.Wrapf(errors.ErrModel, "%T: %s", dest, err)
	}
	return nil
}

func (mb *modelBucket) Has(db ledger.ReadOnlyKVStore, key []byte) (bool, error) {
	return mb.b.Has(db, key)
}

func (mb *modelBucket) Put(db ledger.KVStore, key []byte, m Model) error {
	if len(key) == 0 {
		return errors.Wrap(errors.ErrEmpty, "missing key")
	}
	if err := m.Validate(); err != nil {
		return errors.Wrap(err, "invalid model")
	}
	raw, err := m.Marshal()
	if err != nil {
		return errors.Wrapf(err, "cannot marshal %T", m)
	}
	return mb.b.Save(db, key, raw)
}

func (mb *modelBucket) Delete(db ledger.KVStore, key []byte) error {
	ok, err := mb.b.Has(db, key)
	if err != nil {
		return err
	}
	if !ok {
		return errors.Wrap(errors.ErrNotFound, "cannot delete")
	}
	return mb.b.Delete(db, key)
}
