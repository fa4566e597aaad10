package ids

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestNewRunID tests shape and uniqueness of run identifiers
func TestNewRunID(t *testing.T) {
	id := NewRunID()

	assert.True(t, strings.HasPrefix(id, "run_"))
	assert.Len(t, id, len("run_")+6+randomLength)

	for _, c := range id[len("run_"):] {
		assert.Contains(t, base62Alphabet, string(c))
	}

	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := NewRunID()
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

// TestNewFileID tests the file prefix
func TestNewFileID(t *testing.T) {
	assert.True(t, strings.HasPrefix(NewFileID(), "file_"))
}

// TestEncodeTimestamp tests that encoded timestamps sort with time
func TestEncodeTimestamp(t *testing.T) {
	a := encodeTimestamp(1700000000)
	b := encodeTimestamp(1700000001)
	c := encodeTimestamp(1800000000)

	assert.Len(t, a, 6)
	assert.Less(t, a, b)
	assert.Less(t, b, c)
}
