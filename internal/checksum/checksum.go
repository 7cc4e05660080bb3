// Package checksum fingerprints content so unchanged items can be skipped during indexing.
package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/starford/folio/internal/models"
)

// Sum returns the hex-encoded SHA-256 digest of data.
func Sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// Post returns the digest of every indexed field of p.
func Post(p models.BlogPost) string {
	data, err := json.Marshal(p)
	if err != nil {
		// BlogPost contains only strings, ints and a date; Marshal cannot fail.
		panic(err)
	}
	return Sum(data)
}
