package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// metaSuffix marks the sidecar file holding a key's Metadata.
const metaSuffix = ".meta"

// LocalStorage keeps archived uploads under a base directory, one file
// per key plus an optional metadata sidecar.
type LocalStorage struct {
	basePath string
}

func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	return &LocalStorage{basePath: basePath}, nil
}

func (s *LocalStorage) Put(ctx context.Context, key string, content []byte, metadata *Metadata) error {
	path := s.resolve(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", key, err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	if metadata == nil {
		return nil
	}
	raw, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata for %s: %w", key, err)
	}
	if err := os.WriteFile(path+metaSuffix, raw, 0o644); err != nil {
		return fmt.Errorf("failed to write metadata for %s: %w", key, err)
	}
	return nil
}

func (s *LocalStorage) Get(ctx context.Context, key string) ([]byte, error) {
	content, err := os.ReadFile(s.resolve(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file not found: %s", key)
		}
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return content, nil
}

func (s *LocalStorage) Stat(ctx context.Context, key string) (*FileInfo, error) {
	path := s.resolve(key)
	stat, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file not found: %s", key)
		}
		return nil, fmt.Errorf("failed to stat %s: %w", key, err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}

	info := &FileInfo{
		Key:        key,
		Size:       stat.Size(),
		Checksum:   ComputeChecksum(content),
		ModifiedAt: stat.ModTime(),
	}
	if raw, err := os.ReadFile(path + metaSuffix); err == nil {
		var meta Metadata
		if json.Unmarshal(raw, &meta) == nil {
			info.Metadata = &meta
			info.ContentType = meta.ContentType
		}
	}
	return info, nil
}

func (s *LocalStorage) Exists(ctx context.Context, key string) (bool, error) {
	_, err := os.Stat(s.resolve(key))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("failed to stat %s: %w", key, err)
}

func (s *LocalStorage) Delete(ctx context.Context, key string) error {
	path := s.resolve(key)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	// Sidecar removal is best effort.
	_ = os.Remove(path + metaSuffix)
	return nil
}

func (s *LocalStorage) List(ctx context.Context, prefix string) ([]string, error) {
	root := s.resolve(prefix)
	if stat, err := os.Stat(root); err != nil || !stat.IsDir() {
		root = filepath.Dir(root)
		if _, err := os.Stat(root); os.IsNotExist(err) {
			return []string{}, nil
		}
	}

	var keys []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || strings.HasSuffix(path, metaSuffix) {
			return nil
		}
		key := s.keyFor(path)
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list uploads: %w", err)
	}
	return keys, nil
}

// resolve maps a key to a path under the base directory. Rooting the key
// before cleaning strips any ".." traversal it tries to smuggle in.
func (s *LocalStorage) resolve(key string) string {
	clean := filepath.Clean("/" + filepath.FromSlash(key))
	return filepath.Join(s.basePath, clean)
}

func (s *LocalStorage) keyFor(path string) string {
	rel, err := filepath.Rel(s.basePath, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}

// ComputeChecksum returns the hex SHA-256 of content.
func ComputeChecksum(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// BuildUploadKey builds a content-addressed storage key for a raw
// upload. The checksum prefix deduplicates identical re-uploads under
// the same date.
func BuildUploadKey(date time.Time, filename string, checksum string) string {
	short := checksum
	if len(short) > 12 {
		short = short[:12]
	}
	return fmt.Sprintf("uploads/%s/%s/%s", date.Format("2006-01-02"), short, filepath.Base(filename))
}
