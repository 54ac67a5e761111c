package ledger

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"regexp"

	"github.com/ledgernet/ledger/errors"
)

// it must have (?s) flags, otherwise it errors when the last section
// contains 0x20 (newline)
var perm = regexp.MustCompile(`(?s)^([a-zA-Z0-9_\-]{3,8})/([a-zA-Z0-9_\-]{3,8})/(.+)$`)

// Condition is a specially formatted array, containing information on who
// can authorize an action. It is of the format:
//
//   sprintf("%s/%s/%s", extension, type, data)
//
// A condition has no private key. Its address is derived by hashing, so
// any observer can recompute it and verify that a given account is
// condition-controlled.
type Condition []byte

// NewCondition composes a condition out of an extension name, a type
// within that extension, and arbitrary binary data.
func NewCondition(ext, typ string, data []byte) Condition {
	pre := fmt.Sprintf("%s/%s/", ext, typ)
	return append([]byte(pre), data...)
}

// Parse will extract the sections from the Condition bytes and verify it
// is properly formatted.
func (c Condition) Parse() (string, string, []byte, error) {
	chunks := perm.FindSubmatch(c)
	if len(chunks) == 0 {
		return "", "", nil, errors.ErrInput.Newf("condition: %X", []byte(c))
	}
	// returns [all, match1, match2, match3]
	return string(chunks[1]), string(chunks[2]), chunks[3], nil
}

// Address will convert a Condition into an Address.
func (c Condition) Address() Address {
	return NewAddress(c)
}

// Equals checks if two conditions are the same.
func (a Condition) Equals(b Condition) bool {
	return bytes.Equal(a, b)
}

// String returns a human readable string. We keep the extension and type
// in ascii and hex-encode the binary data.
func (c Condition) String() string {
	ext, typ, data, err := c.Parse()
	if err != nil {
		return fmt.Sprintf("Invalid Condition: %X", []byte(c))
	}
	return fmt.Sprintf("%s/%s/%X", ext, typ, data)
}

// Validate returns an error if the Condition is not the proper format.
func (c Condition) Validate() error {
	if !perm.Match(c) {
		return errors.ErrInput.Newf("condition: %X", []byte(c))
	}
	return nil
}

func (c Condition) MarshalJSON() ([]byte, error) {
	var serialized string
	if c != nil {
		serialized = c.String()
	}
	raw := fmt.Sprintf("%q", serialized)
	return []byte(raw), nil
}

func (c *Condition) UnmarshalJSON(raw []byte) error {
	if len(raw) < 2 || raw[0] != '"' || raw[len(raw)-1] != '"' {
		return errors.ErrInput.New("invalid condition format")
	}
	source := string(raw[1 : len(raw)-1])
	if len(source) == 0 {
		*c = nil
		return nil
	}
	chunks := perm.FindStringSubmatch(source)
	if len(chunks) == 0 {
		return errors.ErrInput.New("invalid condition format")
	}
	data, err := hex.DecodeString(chunks[3])
	if err != nil {
		return errors.ErrInput.Newf("malformed condition data: %s", err)
	}
	*c = NewCondition(chunks[1], chunks[2], data)
	return nil
}
