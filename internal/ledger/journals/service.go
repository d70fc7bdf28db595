package journals

import (
	"context"
	"time"

	"github.com/andino-erp/andino-erp/internal/ledger/shared"
)

// Service coordinates posting, replacing, and deleting journal entries.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService constructs the ledger store service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// WithNow overrides the clock for testing.
func (s *Service) WithNow(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// List retrieves the company's journal entries.
func (s *Service) List(ctx context.Context, companyID int64) ([]JournalEntry, error) {
	return s.repo.List(ctx, companyID)
}

// Get retrieves one entry with its lines.
func (s *Service) Get(ctx context.Context, entryID int64) (JournalEntry, error) {
	var entry JournalEntry
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		found, lines, err := tx.GetEntryWithLines(ctx, entryID)
		if err != nil {
			return err
		}
		found.Lines = lines
		entry = found
		return nil
	})
	return entry, err
}

// Post validates and persists a new journal entry with its lines as a
// single atomic unit.
func (s *Service) Post(ctx context.Context, input PostingInput) (JournalEntry, error) {
	if err := input.Validate(); err != nil {
		return JournalEntry{}, err
	}
	var entry JournalEntry
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		if err := ensurePostable(ctx, tx, input.CompanyID, input.Lines); err != nil {
			return err
		}
		inserted, err := tx.InsertEntry(ctx, input)
		if err != nil {
			return err
		}
		if err := tx.InsertLines(ctx, inserted.ID, input.Lines); err != nil {
			return err
		}
		inserted.Lines = toJournalLines(inserted.ID, input.Lines, s.now())
		entry = inserted
		return nil
	})
	if err != nil {
		return JournalEntry{}, err
	}
	return entry, nil
}

// Update replaces all lines of an existing entry in one transaction,
// re-validating postability and balance exactly as Post does.
func (s *Service) Update(ctx context.Context, input UpdateInput) (JournalEntry, error) {
	if err := input.Validate(); err != nil {
		return JournalEntry{}, err
	}
	var entry JournalEntry
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		current, _, err := tx.GetEntryWithLines(ctx, input.EntryID)
		if err != nil {
			return err
		}
		if err := ensurePostable(ctx, tx, current.CompanyID, input.Lines); err != nil {
			return err
		}
		if err := tx.DeleteLines(ctx, current.ID); err != nil {
			return err
		}
		if err := tx.UpdateEntryHeader(ctx, current.ID, input.Date, input.Memo); err != nil {
			return err
		}
		if err := tx.InsertLines(ctx, current.ID, input.Lines); err != nil {
			return err
		}
		current.Date = input.Date
		current.Memo = input.Memo
		current.Lines = toJournalLines(current.ID, input.Lines, s.now())
		entry = current
		return nil
	})
	if err != nil {
		return JournalEntry{}, err
	}
	return entry, nil
}

// Delete removes an entry and cascades its lines. Entries still linked to
// a document are refused; the document flow owns their lifecycle.
func (s *Service) Delete(ctx context.Context, entryID int64) error {
	return s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		if _, _, err := tx.GetEntryWithLines(ctx, entryID); err != nil {
			return err
		}
		owners, err := tx.CountOwningDocuments(ctx, entryID)
		if err != nil {
			return err
		}
		if owners > 0 {
			return shared.ErrEntryOwnedByDocument
		}
		if err := tx.DeleteLines(ctx, entryID); err != nil {
			return err
		}
		return tx.DeleteEntry(ctx, entryID)
	})
}

// ensurePostable rejects lines against parent accounts or accounts
// outside the entry's company.
func ensurePostable(ctx context.Context, tx TxRepository, companyID int64, lines []PostingLineInput) error {
	for _, line := range lines {
		accountCompany, err := tx.GetAccountCompany(ctx, line.AccountID)
		if err != nil {
			return err
		}
		if accountCompany != companyID {
			return shared.ErrAccountNotFound
		}
		children, err := tx.CountAccountChildren(ctx, line.AccountID)
		if err != nil {
			return err
		}
		if children > 0 {
			return shared.ErrPostingToParent
		}
	}
	return nil
}

func toJournalLines(entryID int64, lines []PostingLineInput, ts time.Time) []JournalLine {
	out := make([]JournalLine, 0, len(lines))
	for _, line := range lines {
		out = append(out, JournalLine{
			EntryID:   entryID,
			AccountID: line.AccountID,
			Debit:     line.Debit,
			Credit:    line.Credit,
			Memo:      line.Memo,
			CreatedAt: ts,
			UpdatedAt: ts,
		})
	}
	return out
}
