package cache

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"hash"
	"io"
)

// hashKey builds "prefix:sha256(json(parts))".
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	sum := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(sum[:]))
}

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// SequenceHasher hashes an ordered sequence of byte streams.
//
// Each stream is length-prefixed so that moving bytes from one stream to
// the next, or reordering streams, changes the digest.
type SequenceHasher struct {
	h     hash.Hash
	count int
}

// NewSequenceHasher returns an empty hasher.
func NewSequenceHasher() *SequenceHasher {
	return &SequenceHasher{h: sha256.New()}
}

// Add reads r to EOF and folds it into the digest.
func (s *SequenceHasher) Add(r io.Reader) error {
	item := sha256.New()
	n, err := io.Copy(item, r)
	if err != nil {
		return err
	}
	var size [8]byte
	binary.BigEndian.PutUint64(size[:], uint64(n))
	s.h.Write(size[:])
	s.h.Write(item.Sum(nil))
	s.count++
	return nil
}

// Len returns the number of streams added.
func (s *SequenceHasher) Len() int { return s.count }

// Sum returns the hex digest of all streams added so far.
func (s *SequenceHasher) Sum() string {
	return hex.EncodeToString(s.h.Sum(nil))
}
