package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ActionBackup asks the worker to upload the current ledger.
const ActionBackup = "backup"

// BackupRequest is a lightweight message asking the worker to push a
// snapshot to the remote store. The worker reads the ledger itself.
type BackupRequest struct {
	ID        string    `json:"id"`
	Action    string    `json:"action"`
	Source    string    `json:"source,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewBackupRequest creates a backup request tagged with where it came from.
func NewBackupRequest(source string) *BackupRequest {
	return &BackupRequest{
		ID:        uuid.NewString(),
		Action:    ActionBackup,
		Source:    source,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *BackupRequest) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// BackupRequestFromJSON parses a message and rejects unknown actions.
func BackupRequestFromJSON(data []byte) (*BackupRequest, error) {
	var msg BackupRequest
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.Action != ActionBackup {
		return nil, fmt.Errorf("unknown action %q", msg.Action)
	}
	return &msg, nil
}
