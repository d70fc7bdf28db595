package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskLedgerIntegrity verifies that posted entries still balance.
	TaskLedgerIntegrity = "ledger:integrity"
	// TaskDocumentResync rebuilds a document-owned journal entry.
	TaskDocumentResync = "document:resync"
)

// IntegrityPayload selects which companies to verify. CompanyID zero
// means every company.
type IntegrityPayload struct {
	CompanyID int64 `json:"company_id"`
}

// ResyncPayload names the journal entry to rebuild.
type ResyncPayload struct {
	EntryID int64 `json:"entry_id"`
}

// NewIntegrityTask constructs a ledger integrity task.
func NewIntegrityTask(payload IntegrityPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskLedgerIntegrity, data), nil
}

// NewResyncTask constructs a document resync task.
func NewResyncTask(payload ResyncPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskDocumentResync, data), nil
}
