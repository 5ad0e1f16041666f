package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/tramit"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ tramit.SnapshotService = (*SnapshotService)(nil)

const snapshotColumns = "id, url, success, status_code, error, info, content_hash, fetched_at"

// SnapshotService implements tramit.SnapshotService using SQLite.
type SnapshotService struct {
	db *DB
}

// NewSnapshotService creates a new SnapshotService.
func NewSnapshotService(db *DB) *SnapshotService {
	return &SnapshotService{db: db}
}

// CreateSnapshot stores a snapshot. The ID, content hash and fetch time are
// assigned here.
func (s *SnapshotService) CreateSnapshot(ctx context.Context, snap *tramit.Snapshot) error {
	if err := snap.Validate(); err != nil {
		return err
	}

	var info sql.NullString
	snap.ContentHash = ""
	if snap.Info != nil {
		b, err := json.Marshal(snap.Info)
		if err != nil {
			return fmt.Errorf("failed to encode document info: %w", err)
		}
		info = sql.NullString{String: string(b), Valid: true}
		snap.ContentHash = hashContent(snap.Info.RawText)
	}

	snap.ID = uuid.New().String()
	snap.FetchedAt = time.Now().UTC().Truncate(time.Second)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO snapshots (`+snapshotColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, snap.ID, snap.URL, snap.Success, snap.StatusCode, snap.Error, info,
		snap.ContentHash, snap.FetchedAt.Format(time.RFC3339))

	return err
}

// FindSnapshotByID retrieves a snapshot by ID.
func (s *SnapshotService) FindSnapshotByID(ctx context.Context, id string) (*tramit.Snapshot, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+snapshotColumns+` FROM snapshots WHERE id = ?`, id)

	snap, err := scanSnapshot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, tramit.Errorf(tramit.ENOTFOUND, "snapshot not found")
	}
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// FindSnapshots retrieves snapshots matching the filter, newest first.
func (s *SnapshotService) FindSnapshots(ctx context.Context, filter tramit.SnapshotFilter) ([]*tramit.Snapshot, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + snapshotColumns + " FROM snapshots WHERE 1=1")

	if filter.URL != nil {
		query.WriteString(" AND url = ?")
		args = append(args, *filter.URL)
	}

	// rowid breaks ties between snapshots taken in the same second.
	query.WriteString(" ORDER BY fetched_at DESC, rowid DESC")

	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	snaps := []*tramit.Snapshot{}
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		snaps = append(snaps, snap)
	}

	return snaps, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(row scanner) (*tramit.Snapshot, error) {
	var snap tramit.Snapshot
	var info sql.NullString
	var fetchedAt string

	if err := row.Scan(&snap.ID, &snap.URL, &snap.Success, &snap.StatusCode, &snap.Error,
		&info, &snap.ContentHash, &fetchedAt); err != nil {
		return nil, err
	}

	if info.Valid {
		snap.Info = tramit.NewDocumentInfo()
		if err := json.Unmarshal([]byte(info.String), snap.Info); err != nil {
			return nil, fmt.Errorf("failed to decode document info: %w", err)
		}
	}

	var err error
	snap.FetchedAt, err = parseRFC3339(fetchedAt, "fetched_at")
	if err != nil {
		return nil, err
	}

	return &snap, nil
}
