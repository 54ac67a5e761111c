/*
Package orm breaks the state space into prefixed sections called Buckets.
Each bucket contains only one type of model, addressed by a primary key.
Models are stored in their explicit binary encoding; nothing here relies
on in-memory struct layout.
*/
package orm

import (
	"fmt"
	"regexp"

	"github.com/ledgernet/ledger"
	"github.com/ledgernet/ledger/errors"
)

var isBucketName = regexp.MustCompile(`^[a-z_]{3,10}$`).MatchString

// Model is implemented by any entity that can be stored in a ModelBucket.
type Model interface {
	ledger.Persistent
	Validate() error
}

// Bucket is a prefixed subspace of the DB.
//
// This is a generic building block that should generally be wrapped by
// ModelBucket to ensure all data is of the same type.
type Bucket struct {
	name   string
	prefix []byte
}

// NewBucket creates a bucket to store data under the given name prefix.
func NewBucket(name string) Bucket {
	if !isBucketName(name) {
		panic(fmt.Sprintf("illegal bucket: %s", name))
	}

	return Bucket{
		name:   name,
		prefix: append([]byte(name), ':'),
	}
}

// Name returns the name of the bucket.
func (b Bucket) Name() string {
	return b.name
}

// DBKey is the full key we store in the db, including prefix. We copy
// into a new array rather than use append, as we don't want consecutive
// calls to overwrite the same byte array.
func (b Bucket) DBKey(key []byte) []byte {
	l := len(b.prefix)
	out := make([]byte, l+len(key))
	copy(out, b.prefix)
	copy(out[l:], key)
	return out
}

// Get fetches the raw value stored under the key, nil if absent.
func (b Bucket) Get(db ledger.ReadOnlyKVStore, key []byte) ([]byte, error) {
	raw, err := db.Get(b.DBKey(key))
	if err != nil {
		return nil, errors.Wrap(err, "bucket get")
	}
	return raw, nil
}

// Has checks for existence of the key without loading it.
func (b Bucket) Has(db ledger.ReadOnlyKVStore, key []byte) (bool, error) {
	ok, err := db.Has(b.DBKey(key))
	if err != nil {
		return false, errors.Wrap(err, "bucket has")
	}
	return ok, nil
}

// Save writes the raw value under the key.
func (b Bucket) Save(db ledger.KVStore, key, value []byte) error {
	return errors.Wrap(db.Set(b.DBKey(key), value), "bucket save")
}

// Delete removes the key. Deleting an absent key is a noop.
func (b Bucket) Delete(db ledger.KVStore, key []byte) error {
	return errors.Wrap(db.Delete(b.DBKey(key)), "bucket delete")
}
