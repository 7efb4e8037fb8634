package experiment

import (
	"crypto/sha256"
	"encoding/hex"
	"hash"
	"strconv"
)

// Identity derives the stable, content-addressed identifier of an
// (assignment, query) pair. The assignment is canonicalized into sorted
// (section, variable, value) triples and every field is length-prefixed, so
// the hash is independent of map iteration and discovery order and two
// distinct pairs cannot collide by field concatenation.
func Identity(a Assignment, q Query) string {
	h := sha256.New()

	triples := a.Canonical()
	writeField(h, strconv.Itoa(len(triples)))
	for _, b := range triples {
		writeField(h, b.Section)
		writeField(h, b.Variable)
		writeField(h, b.Value)
	}
	writeField(h, strconv.Itoa(q.ID))
	writeField(h, q.Text)

	return hex.EncodeToString(h.Sum(nil))
}

func writeField(h hash.Hash, s string) {
	n := uint64(len(s))
	h.Write([]byte{
		byte(n >> 56),
		byte(n >> 48),
		byte(n >> 40),
		byte(n >> 32),
		byte(n >> 24),
		byte(n >> 16),
		byte(n >> 8),
		byte(n),
	})
	h.Write([]byte(s))
}
