package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/tramit"
)

var _ tramit.SnapshotService = (*LoggingSnapshotService)(nil)

// LoggingSnapshotService wraps a SnapshotService with debug logging.
type LoggingSnapshotService struct {
	next   tramit.SnapshotService
	logger *slog.Logger
}

// NewLoggingSnapshotService creates a new LoggingSnapshotService.
func NewLoggingSnapshotService(next tramit.SnapshotService, logger *slog.Logger) *LoggingSnapshotService {
	return &LoggingSnapshotService{next: next, logger: logger}
}

func (s *LoggingSnapshotService) CreateSnapshot(ctx context.Context, snap *tramit.Snapshot) (err error) {
	defer func(begin time.Time) {
		s.logger.Debug("create snapshot",
			"url", snap.URL,
			"id", snap.ID,
			"hash", snap.ContentHash,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.CreateSnapshot(ctx, snap)
}

func (s *LoggingSnapshotService) FindSnapshotByID(ctx context.Context, id string) (snap *tramit.Snapshot, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("find snapshot",
			"id", id,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindSnapshotByID(ctx, id)
}

func (s *LoggingSnapshotService) FindSnapshots(ctx context.Context, filter tramit.SnapshotFilter) (snaps []*tramit.Snapshot, err error) {
	defer func(begin time.Time) {
		var url string
		if filter.URL != nil {
			url = *filter.URL
		}
		s.logger.Debug("find snapshots",
			"url", url,
			"count", len(snaps),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindSnapshots(ctx, filter)
}
