package export

import (
	"context"
	"fmt"
	"io"

	"ledger/internal/core"
)

// Restorer replaces the whole ledger.
type Restorer interface {
	Restore(ctx context.Context, snap core.Snapshot) error
}

// ImportSnapshot reads a backup envelope or bare snapshot from r and
// restores it into l. Nothing changes unless the whole document is valid.
func ImportSnapshot(ctx context.Context, r io.Reader, l Restorer) (core.Snapshot, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return core.Snapshot{}, fmt.Errorf("read snapshot: %w", err)
	}
	snap, err := core.DecodeBackup(data)
	if err != nil {
		return core.Snapshot{}, err
	}
	if err := l.Restore(ctx, snap); err != nil {
		return core.Snapshot{}, err
	}
	return snap, nil
}
