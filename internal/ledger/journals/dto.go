package journals

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/andino-erp/andino-erp/internal/ledger/shared"
)

// PostingLineInput describes a journal line for a posting request.
type PostingLineInput struct {
	AccountID int64
	Debit     decimal.Decimal
	Credit    decimal.Decimal
	Memo      string
}

// PostingInput groups fields required to create a journal entry.
type PostingInput struct {
	CompanyID int64
	Date      time.Time
	Memo      string
	Lines     []PostingLineInput
}

// UpdateInput replaces an entry's header fields and all of its lines.
type UpdateInput struct {
	EntryID int64
	Date    time.Time
	Memo    string
	Lines   []PostingLineInput
}

// Validate ensures posting input meets minimum criteria. Amounts are
// compared as decimals with zero tolerance.
func (in PostingInput) Validate() error {
	if in.CompanyID == 0 {
		return errors.New("ledger: company required")
	}
	return validateLines(in.Lines)
}

// Validate checks update input the same way as a fresh posting.
func (in UpdateInput) Validate() error {
	if in.EntryID == 0 {
		return errors.New("ledger: entry id required")
	}
	return validateLines(in.Lines)
}

func validateLines(lines []PostingLineInput) error {
	if len(lines) < 2 {
		return shared.ErrTooFewLines
	}
	debit := decimal.Zero
	credit := decimal.Zero
	for idx, line := range lines {
		if line.AccountID == 0 {
			return fmt.Errorf("ledger: line %d missing account", idx)
		}
		if line.Debit.IsNegative() || line.Credit.IsNegative() {
			return fmt.Errorf("ledger: line %d negative amount", idx)
		}
		if line.Debit.IsPositive() && line.Credit.IsPositive() {
			return fmt.Errorf("ledger: line %d cannot be both debit and credit", idx)
		}
		debit = debit.Add(line.Debit)
		credit = credit.Add(line.Credit)
	}
	if !debit.Equal(credit) {
		return shared.ErrUnbalanced
	}
	return nil
}
