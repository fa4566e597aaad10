package database

import (
	"time"
)

// ParseRun is one invocation of the parse pipeline over a batch of
// files.
type ParseRun struct {
	ID         string     `json:"id"`
	StartedAt  time.Time  `json:"startedAt"`
	FinishedAt *time.Time `json:"finishedAt,omitempty"`
	TotalFiles int        `json:"totalFiles"`
	Succeeded  int        `json:"succeeded"`
	Failed     int        `json:"failed"`
	Status     string     `json:"status"`
	Error      string     `json:"error,omitempty"`
}

// Run statuses.
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// ParseFileRecord is the persisted outcome of parsing one file,
// including the column mapping for later audit of detection quality.
type ParseFileRecord struct {
	ID           string            `json:"id"`
	RunID        string            `json:"runId"`
	Filename     string            `json:"filename"`
	FileKind     string            `json:"fileKind"`
	Success      bool              `json:"success"`
	TotalRows    int               `json:"totalRows"`
	ValidRows    int               `json:"validRows"`
	Manufacturer string            `json:"manufacturer,omitempty"`
	Mapping      map[string]string `json:"mapping,omitempty"`
	Error        string            `json:"error,omitempty"`
	DurationMS   int64             `json:"durationMs"`
	StorageKey   string            `json:"storageKey,omitempty"`
	Checksum     string            `json:"checksum,omitempty"`
	CreatedAt    time.Time         `json:"createdAt"`
}
