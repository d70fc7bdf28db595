package httpx

import (
	"errors"
	"net/http"

	"github.com/andino-erp/andino-erp/internal/ledger/shared"
)

// RespondError maps ledger errors to HTTP responses using RFC7807.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrAccountNotFound),
		errors.Is(err, shared.ErrParentNotFound),
		errors.Is(err, shared.ErrJournalNotFound),
		errors.Is(err, shared.ErrDocumentNotFound),
		errors.Is(err, shared.ErrThirdPartyNotFound):
		Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, shared.ErrDuplicateCode),
		errors.Is(err, shared.ErrDuplicateDocument):
		Problem(w, http.StatusConflict, "Duplicate", err.Error())
	case errors.Is(err, shared.ErrInvalidCodeFormat),
		errors.Is(err, shared.ErrCodeTooLong),
		errors.Is(err, shared.ErrTooFewLines):
		Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	case errors.Is(err, shared.ErrHasMovements),
		errors.Is(err, shared.ErrHasChildren),
		errors.Is(err, shared.ErrPostingToParent),
		errors.Is(err, shared.ErrUnbalanced),
		errors.Is(err, shared.ErrEntryOwnedByDocument),
		errors.Is(err, shared.ErrMissingTaxConfig),
		errors.Is(err, shared.ErrNotResyncable),
		errors.Is(err, shared.ErrAllocationExceedsBalance),
		errors.Is(err, shared.ErrAllocationWrongThirdParty),
		errors.Is(err, shared.ErrDocumentNotSettleable),
		errors.Is(err, shared.ErrWrongThirdPartyRole):
		Problem(w, http.StatusUnprocessableEntity, "Business Rule Violation", err.Error())
	default:
		Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
