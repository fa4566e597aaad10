// Package ids generates prefixed, time-sortable identifiers for parse
// runs and stored files.
package ids

import (
	crypto_rand "crypto/rand"
	"strings"
	"time"
)

const base62Alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

const randomLength = 18

// NewRunID returns an identifier for a parse run, e.g.
// "run_0CL2KwaB3cD5eF7gH9iJ1k".
func NewRunID() string {
	return newPrefixedID("run")
}

// NewFileID returns an identifier for a processed file.
func NewFileID() string {
	return newPrefixedID("file")
}

// newPrefixedID builds "<prefix>_<timestamp><random>". The 6-char
// base62 timestamp keeps IDs sortable for B-tree index locality.
func newPrefixedID(prefix string) string {
	return prefix + "_" + encodeTimestamp(time.Now().Unix()) + randomBase62(randomLength)
}

func encodeTimestamp(seconds int64) string {
	n := seconds
	out := make([]byte, 6)
	for i := 5; i >= 0; i-- {
		out[i] = base62Alphabet[n%62]
		n /= 62
	}
	return string(out)
}

// randomBase62 draws 6-bit samples from crypto/rand and rejects values
// outside the alphabet to keep the distribution uniform.
func randomBase62(length int) string {
	buf := make([]byte, length*2)
	var result strings.Builder
	result.Grow(length)

	for result.Len() < length {
		if _, err := crypto_rand.Read(buf); err != nil {
			panic("failed to read random bytes: " + err.Error())
		}
		for _, b := range buf {
			v := b & 0x3f
			if v < 62 {
				result.WriteByte(base62Alphabet[v])
				if result.Len() == length {
					break
				}
			}
		}
	}
	return result.String()
}
