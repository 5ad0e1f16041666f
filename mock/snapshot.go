package mock

import (
	"context"

	"github.com/fwojciec/tramit"
)

var _ tramit.SnapshotService = (*SnapshotService)(nil)

// SnapshotService is a mock implementation of tramit.SnapshotService.
type SnapshotService struct {
	CreateSnapshotFn   func(ctx context.Context, snap *tramit.Snapshot) error
	FindSnapshotByIDFn func(ctx context.Context, id string) (*tramit.Snapshot, error)
	FindSnapshotsFn    func(ctx context.Context, filter tramit.SnapshotFilter) ([]*tramit.Snapshot, error)
}

func (s *SnapshotService) CreateSnapshot(ctx context.Context, snap *tramit.Snapshot) error {
	return s.CreateSnapshotFn(ctx, snap)
}

func (s *SnapshotService) FindSnapshotByID(ctx context.Context, id string) (*tramit.Snapshot, error) {
	return s.FindSnapshotByIDFn(ctx, id)
}

func (s *SnapshotService) FindSnapshots(ctx context.Context, filter tramit.SnapshotFilter) ([]*tramit.Snapshot, error) {
	return s.FindSnapshotsFn(ctx, filter)
}
