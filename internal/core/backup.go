package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// BackupFormat identifies ledger backups uploaded to a remote store or exported to a file.
const BackupFormat = "ledger-backup"

const backupVersion = 1

// ErrUnsupportedBackup is returned for backups written by a newer version.
var ErrUnsupportedBackup = errors.New("unsupported backup version")

// Backup is the envelope around a full snapshot.
type Backup struct {
	Format    string    `json:"format"`
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"createdAt"`
	Snapshot
}

// EncodeBackup serialises snap for transfer.
func EncodeBackup(snap Snapshot, now time.Time) ([]byte, error) {
	b := Backup{
		Format:    BackupFormat,
		Version:   backupVersion,
		CreatedAt: now.UTC(),
		Snapshot:  snap.Normalize(),
	}
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode backup: %w", err)
	}
	return data, nil
}

// DecodeBackup parses and validates a backup. A bare snapshot without the
// envelope fields is accepted as well.
func DecodeBackup(data []byte) (Snapshot, error) {
	var b Backup
	if err := json.Unmarshal(data, &b); err != nil {
		return Snapshot{}, fmt.Errorf("decode backup: %w", err)
	}
	if b.Format != "" && b.Format != BackupFormat {
		return Snapshot{}, fmt.Errorf("decode backup: unknown format %q", b.Format)
	}
	if b.Version > backupVersion {
		return Snapshot{}, fmt.Errorf("decode backup: version %d: %w", b.Version, ErrUnsupportedBackup)
	}
	snap := b.Snapshot.Normalize()
	if err := snap.Validate(); err != nil {
		return Snapshot{}, fmt.Errorf("decode backup: %w", err)
	}
	return snap, nil
}
