package storage

import (
	"bytes"
	"encoding/binary"
	"math"

	"github.com/cockroachdb/errors"
)

// Keys are pref/<set>/<view>. Set ids may not contain the separator, view
// names are taken verbatim after it.
const (
	keyPrefix = "pref/"
	separator = '/'
)

// ErrInvalidSetID is returned for set ids that cannot be encoded in a key
var ErrInvalidSetID = errors.New("invalid preference set id")

func checkSetID(id string) error {
	if id == "" || bytes.IndexByte([]byte(id), separator) >= 0 {
		return errors.Wrapf(ErrInvalidSetID, "%q", id)
	}
	return nil
}

// encodeKey builds the key of one view rank
func encodeKey(set, view string) []byte {
	key := make([]byte, 0, len(keyPrefix)+len(set)+1+len(view))
	key = append(key, keyPrefix...)
	key = append(key, set...)
	key = append(key, separator)
	return append(key, view...)
}

// setPrefix returns the prefix shared by all keys of set
func setPrefix(set string) []byte {
	key := make([]byte, 0, len(keyPrefix)+len(set)+1)
	key = append(key, keyPrefix...)
	key = append(key, set...)
	return append(key, separator)
}

// decodeKey splits a key into set id and view name
func decodeKey(key []byte) (set, view string, err error) {
	if !bytes.HasPrefix(key, []byte(keyPrefix)) {
		return "", "", errors.Newf("key %q outside the preference namespace", key)
	}
	rest := key[len(keyPrefix):]
	i := bytes.IndexByte(rest, separator)
	if i <= 0 {
		return "", "", errors.Newf("malformed preference key %q", key)
	}
	return string(rest[:i]), string(rest[i+1:]), nil
}

// encodeRank stores a rank as its IEEE-754 bits, big-endian
func encodeRank(rank float64) []byte {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], math.Float64bits(rank))
	return buf[:]
}

func decodeRank(val []byte) (float64, error) {
	if len(val) != 8 {
		return 0, errors.Newf("rank value has %d bytes, want 8", len(val))
	}
	return math.Float64frombits(binary.BigEndian.Uint64(val)), nil
}
