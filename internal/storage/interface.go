// Package storage archives raw catalog uploads so parses can be
// replayed and audited.
package storage

import (
	"context"
	"time"
)

// Metadata rides alongside an archived upload. Custom carries anything a
// caller wants to remember about the file beyond the fixed fields.
type Metadata struct {
	ContentType  string            `json:"contentType,omitempty"`
	OriginalName string            `json:"originalName,omitempty"`
	Supplier     string            `json:"supplier,omitempty"`
	UploadedAt   time.Time         `json:"uploadedAt,omitempty"`
	Custom       map[string]string `json:"custom,omitempty"`
}

// FileInfo describes an archived upload without its content.
type FileInfo struct {
	Key         string    `json:"key"`
	Size        int64     `json:"size"`
	Checksum    string    `json:"checksum"`
	ContentType string    `json:"contentType,omitempty"`
	ModifiedAt  time.Time `json:"modifiedAt"`
	Metadata    *Metadata `json:"metadata,omitempty"`
}

// Storage is the upload archive. The local filesystem backend is the only
// one shipped; the interface keeps an object-store backend possible.
type Storage interface {
	Put(ctx context.Context, key string, content []byte, metadata *Metadata) error
	Get(ctx context.Context, key string) ([]byte, error)
	Stat(ctx context.Context, key string) (*FileInfo, error)
	Exists(ctx context.Context, key string) (bool, error)
	Delete(ctx context.Context, key string) error
	List(ctx context.Context, prefix string) ([]string, error)
}
