package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLocalStorageRoundTrip tests put, get, stat, exists and delete
func TestLocalStorageRoundTrip(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	content := []byte("SKU,Name\nAB-1,Widget\n")
	meta := &Metadata{
		ContentType:  "text/csv",
		OriginalName: "catalog.csv",
		Supplier:     "Acme",
	}
	require.NoError(t, s.Put(ctx, "uploads/2026-08-31/abc/catalog.csv", content, meta))

	got, err := s.Get(ctx, "uploads/2026-08-31/abc/catalog.csv")
	require.NoError(t, err)
	assert.Equal(t, content, got)

	info, err := s.Stat(ctx, "uploads/2026-08-31/abc/catalog.csv")
	require.NoError(t, err)
	assert.Equal(t, int64(len(content)), info.Size)
	assert.Equal(t, ComputeChecksum(content), info.Checksum)
	require.NotNil(t, info.Metadata)
	assert.Equal(t, "Acme", info.Metadata.Supplier)
	assert.Equal(t, "text/csv", info.ContentType)

	exists, err := s.Exists(ctx, "uploads/2026-08-31/abc/catalog.csv")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, s.Delete(ctx, "uploads/2026-08-31/abc/catalog.csv"))
	exists, err = s.Exists(ctx, "uploads/2026-08-31/abc/catalog.csv")
	require.NoError(t, err)
	assert.False(t, exists)
}

// TestLocalStorageList tests prefix listing and sidecar exclusion
func TestLocalStorageList(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "uploads/2026-08-30/a/one.csv", []byte("1"), &Metadata{}))
	require.NoError(t, s.Put(ctx, "uploads/2026-08-31/b/two.csv", []byte("2"), nil))
	require.NoError(t, s.Put(ctx, "other/three.csv", []byte("3"), nil))

	keys, err := s.List(ctx, "uploads/")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		"uploads/2026-08-30/a/one.csv",
		"uploads/2026-08-31/b/two.csv",
	}, keys)

	keys, err = s.List(ctx, "missing/")
	require.NoError(t, err)
	assert.Empty(t, keys)
}

// TestLocalStorageTraversal tests that keys cannot escape the base path
func TestLocalStorageTraversal(t *testing.T) {
	base := t.TempDir()
	s, err := NewLocalStorage(base)
	require.NoError(t, err)

	require.NoError(t, s.Put(context.Background(), "../escape.txt", []byte("x"), nil))
	assert.NoFileExists(t, base+"/../escape.txt")
}

// TestBuildUploadKey tests the content-addressed key layout
func TestBuildUploadKey(t *testing.T) {
	date := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	checksum := "0123456789abcdef0123456789abcdef"

	key := BuildUploadKey(date, "/tmp/incoming/catalog.csv", checksum)
	assert.Equal(t, "uploads/2026-08-31/0123456789ab/catalog.csv", key)
}

// TestComputeChecksum tests checksum stability
func TestComputeChecksum(t *testing.T) {
	a := ComputeChecksum([]byte("hello"))
	b := ComputeChecksum([]byte("hello"))
	c := ComputeChecksum([]byte("world"))

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 64)
}
