package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/andino-erp/andino-erp/internal/documents"
	"github.com/andino-erp/andino-erp/internal/ledger/shared"
)

// ResyncJob rebuilds document-owned journal entries in the background.
type ResyncJob struct {
	service *documents.Service
	logger  *slog.Logger
}

// NewResyncJob constructs the resync job.
func NewResyncJob(service *documents.Service, logger *slog.Logger) *ResyncJob {
	return &ResyncJob{service: service, logger: logger}
}

// Handle processes TaskDocumentResync tasks. Entries without a
// deterministic source are dropped without retrying.
func (j *ResyncJob) Handle(ctx context.Context, t *asynq.Task) error {
	var payload ResyncPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	entry, err := j.service.Resync(ctx, payload.EntryID)
	if err != nil {
		if errors.Is(err, shared.ErrNotResyncable) || errors.Is(err, shared.ErrJournalNotFound) {
			j.logger.Warn("resync skipped", slog.Int64("entry_id", payload.EntryID), slog.Any("error", err))
			return asynq.SkipRetry
		}
		return err
	}
	j.logger.Info("entry resynced", slog.Int64("entry_id", entry.ID), slog.Int64("company_id", entry.CompanyID))
	return nil
}
