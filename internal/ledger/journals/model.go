package journals

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryStatus enumerates journal lifecycle values.
type EntryStatus string

const (
	EntryStatusDraft  EntryStatus = "DRAFT"
	EntryStatusPosted EntryStatus = "POSTED"
)

// JournalEntry captures posting metadata. Lines belong to the entry
// exclusively and are replaced or removed only together with it.
type JournalEntry struct {
	ID        int64
	CompanyID int64
	Number    int64
	Date      time.Time
	Memo      string
	Status    EntryStatus
	CreatedAt time.Time
	UpdatedAt time.Time
	Lines     []JournalLine
}

// JournalLine stores a debit or credit amount for a leaf account.
type JournalLine struct {
	ID        int64
	EntryID   int64
	AccountID int64
	Debit     decimal.Decimal
	Credit    decimal.Decimal
	Memo      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
