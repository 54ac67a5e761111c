package token

import (
	"encoding/binary"

	"github.com/ledgernet/ledger"
	"github.com/ledgernet/ledger/errors"
)

// configKey is the singleton key of the token configuration.
var configKey = []byte("_c:token")

// Configuration is the package wide setup persisted in the store.
type Configuration struct {
	// MinimumBalance is the native balance an account must hold to be
	// exempt from reclamation by the host.
	MinimumBalance uint64
}

// Validate ensures the configuration can be used.
func (c *Configuration) Validate() error {
	if c.MinimumBalance == 0 {
		return errors.Wrap(errors.ErrAmount, "minimum balance")
	}
	return nil
}

// Marshal serializes the configuration.
func (c *Configuration) Marshal() ([]byte, error) {
	raw := make([]byte, 8)
	binary.LittleEndian.PutUint64(raw, c.MinimumBalance)
	return raw, nil
}

// Unmarshal loads the configuration.
func (c *Configuration) Unmarshal(raw []byte) error {
	if len(raw) != 8 {
		return errors.ErrInput.Newf("configuration data: %d bytes", len(raw))
	}
	c.MinimumBalance = binary.LittleEndian.Uint64(raw)
	return nil
}

// SaveConfiguration validates and persists the configuration singleton.
func SaveConfiguration(db ledger.KVStore, c *Configuration) error {
	if err := c.Validate(); err != nil {
		return errors.Wrap(err, "configuration")
	}
	raw, err := c.Marshal()
	if err != nil {
		return errors.Wrap(err, "marshal configuration")
	}
	return db.Set(configKey, raw)
}

// LoadConfiguration returns the configuration stored in the database.
func LoadConfiguration(db ledger.ReadOnlyKVStore) (*Configuration, error) {
	raw, err := db.Get(configKey)
	if err != nil {
		return nil, errors.Wrap(err, "load configuration")
	}
	if raw == nil {
		return nil, errors.Wrap(errors.ErrNotFound, "token configuration")
	}
	var c Configuration
	if err := c.Unmarshal(raw); err != nil {
		return nil, err
	}
	return &c, nil
}
