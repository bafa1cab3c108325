package facts

import (
	"encoding/hex"
	"encoding/json"

	"golang.org/x/crypto/sha3"
)

// Fingerprint returns a hex SHA3-256 digest of the store's facts.
// Keys are encoded in lexical order, so equal stores always produce the
// same fingerprint.
func (s *Store) Fingerprint() string {
	values := map[Key]any{}
	if s != nil {
		values = s.values
	}
	data, err := json.Marshal(values)
	if err != nil {
		return ""
	}
	sum := sha3.Sum256(data)
	return hex.EncodeToString(sum[:])
}
