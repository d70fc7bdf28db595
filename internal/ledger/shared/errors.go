package shared

import "errors"

var (
	// ErrInvalidCodeFormat indicates a malformed account code.
	ErrInvalidCodeFormat = errors.New("ledger: invalid account code format")
	// ErrCodeTooLong indicates more digits or segments than the code scheme allows.
	ErrCodeTooLong = errors.New("ledger: account code too long")
	// ErrDuplicateCode indicates the code is already taken within the company.
	ErrDuplicateCode = errors.New("ledger: duplicate account code")
	// ErrAccountNotFound indicates a missing account.
	ErrAccountNotFound = errors.New("ledger: account not found")
	// ErrParentNotFound indicates the code prefix resolves to no existing account.
	ErrParentNotFound = errors.New("ledger: parent account not found")
	// ErrHasMovements blocks deleting an account referenced by journal lines.
	ErrHasMovements = errors.New("ledger: account has movements")
	// ErrHasChildren blocks deleting an account with child accounts.
	ErrHasChildren = errors.New("ledger: account has children")
	// ErrPostingToParent blocks lines against non-leaf accounts.
	ErrPostingToParent = errors.New("ledger: posting to parent account")
	// ErrUnbalanced indicates debit != credit.
	ErrUnbalanced = errors.New("ledger: journal lines must balance")
	// ErrTooFewLines indicates less than two lines.
	ErrTooFewLines = errors.New("ledger: journal requires at least two lines")
	// ErrJournalNotFound indicates a missing entry.
	ErrJournalNotFound = errors.New("ledger: journal entry not found")
	// ErrEntryOwnedByDocument blocks deleting an entry still linked to a document.
	ErrEntryOwnedByDocument = errors.New("ledger: entry owned by a document")
	// ErrMissingTaxConfig indicates the active tax lacks required ledger accounts.
	ErrMissingTaxConfig = errors.New("ledger: missing tax configuration")
	// ErrNotResyncable indicates the entry has no deterministic source document.
	ErrNotResyncable = errors.New("ledger: entry not resyncable")
	// ErrDocumentNotFound indicates a missing document.
	ErrDocumentNotFound = errors.New("ledger: document not found")
	// ErrThirdPartyNotFound indicates a missing client or supplier.
	ErrThirdPartyNotFound = errors.New("ledger: third party not found")
	// ErrDuplicateDocument indicates the document number is already taken.
	ErrDuplicateDocument = errors.New("ledger: duplicate document number")
	// ErrWrongThirdPartyRole indicates a third party used on the wrong side.
	ErrWrongThirdPartyRole = errors.New("ledger: third party role does not allow this document")
	// ErrAllocationExceedsBalance indicates an allocation larger than the open balance.
	ErrAllocationExceedsBalance = errors.New("ledger: allocation exceeds document balance")
	// ErrAllocationWrongThirdParty indicates an allocation against another party's document.
	ErrAllocationWrongThirdParty = errors.New("ledger: allocation targets another third party's document")
	// ErrDocumentNotSettleable indicates the target document cannot receive settlements.
	ErrDocumentNotSettleable = errors.New("ledger: document cannot be settled")
)
