package tramit

import (
	"context"
	"time"
)

// Snapshot is a stored record of one scrape.
type Snapshot struct {
	ID         string        `json:"id"`
	URL        string        `json:"url"`
	Success    bool          `json:"success"`
	StatusCode int           `json:"status_code"`
	Error      string        `json:"error,omitempty"`
	Info       *DocumentInfo `json:"document_info,omitempty"`

	// ContentHash is a hash of Info.RawText, empty for failures.
	ContentHash string    `json:"content_hash"`
	FetchedAt   time.Time `json:"fetched_at"`
}

// NewSnapshot builds an unsaved snapshot from an outcome.
func NewSnapshot(o *Outcome) *Snapshot {
	return &Snapshot{
		URL:        o.URL,
		Success:    o.Success,
		StatusCode: o.StatusCode,
		Error:      o.Error,
		Info:       o.DocumentInfo,
	}
}

// Validate returns an error if the snapshot contains invalid fields.
func (s *Snapshot) Validate() error {
	if s.URL == "" {
		return Errorf(EINVALID, "snapshot URL required")
	}
	if s.Success && s.Info == nil {
		return Errorf(EINVALID, "successful snapshot requires document info")
	}
	if s.Info != nil {
		return s.Info.Validate()
	}
	return nil
}

// SnapshotService represents a service for storing scrape history.
type SnapshotService interface {
	// CreateSnapshot stores a snapshot and sets its ID, hash and fetch time.
	CreateSnapshot(ctx context.Context, snap *Snapshot) error

	// FindSnapshotByID retrieves a snapshot by ID.
	// Returns ENOTFOUND if snapshot does not exist.
	FindSnapshotByID(ctx context.Context, id string) (*Snapshot, error)

	// FindSnapshots retrieves snapshots matching the filter, newest first.
	FindSnapshots(ctx context.Context, filter SnapshotFilter) ([]*Snapshot, error)
}

// SnapshotFilter represents a filter for FindSnapshots.
type SnapshotFilter struct {
	URL *string `json:"url"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
