package reports

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/text/language"

	"github.com/andino-erp/andino-erp/internal/platform/httpx"
)

// Handler exposes financial reports over HTTP. Every report supports
// JSON and, with format=csv or format=pdf, a localized download. PDF
// rendering requires a configured renderer.
type Handler struct {
	service  *Service
	renderer PDFRenderer
	logger   *slog.Logger
}

// NewHandler constructs the reports handler. The renderer may be nil, in
// which case PDF downloads respond with 501.
func NewHandler(logger *slog.Logger, service *Service, renderer PDFRenderer) *Handler {
	return &Handler{logger: logger, service: service, renderer: renderer}
}

func (h *Handler) TrialBalance(w http.ResponseWriter, r *http.Request) {
	companyID, from, to, ok := h.periodParams(w, r)
	if !ok {
		return
	}
	rows, err := h.service.TrialBalance(r.Context(), companyID, from, to)
	if err != nil {
		h.logger.Error("trial balance", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	h.respond(w, r, "trial-balance", "Balance de comprobación", rows)
}

func (h *Handler) IncomeStatement(w http.ResponseWriter, r *http.Request) {
	companyID, from, to, ok := h.periodParams(w, r)
	if !ok {
		return
	}
	rows, err := h.service.IncomeStatement(r.Context(), companyID, from, to)
	if err != nil {
		h.logger.Error("income statement", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	h.respond(w, r, "income-statement", "Estado de resultados", rows)
}

func (h *Handler) BalanceSheet(w http.ResponseWriter, r *http.Request) {
	companyID, err := strconv.ParseInt(r.URL.Query().Get("company_id"), 10, 64)
	if err != nil || companyID <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "company_id is required")
		return
	}
	asOf, err := time.Parse("2006-01-02", r.URL.Query().Get("as_of"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "as_of must be YYYY-MM-DD")
		return
	}
	rows, err := h.service.BalanceSheet(r.Context(), companyID, asOf)
	if err != nil {
		h.logger.Error("balance sheet", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	h.respond(w, r, "balance-sheet", "Balance general", rows)
}

func (h *Handler) periodParams(w http.ResponseWriter, r *http.Request) (int64, time.Time, time.Time, bool) {
	companyID, err := strconv.ParseInt(r.URL.Query().Get("company_id"), 10, 64)
	if err != nil || companyID <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "company_id is required")
		return 0, time.Time{}, time.Time{}, false
	}
	from, err := time.Parse("2006-01-02", r.URL.Query().Get("from"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "from must be YYYY-MM-DD")
		return 0, time.Time{}, time.Time{}, false
	}
	to, err := time.Parse("2006-01-02", r.URL.Query().Get("to"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "to must be YYYY-MM-DD")
		return 0, time.Time{}, time.Time{}, false
	}
	return companyID, from, to, true
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request, name, title string, rows []Row) {
	format := r.URL.Query().Get("format")
	if format != "csv" && format != "pdf" {
		httpx.JSON(w, http.StatusOK, rows)
		return
	}
	tag := language.LatinAmericanSpanish
	if lang := r.URL.Query().Get("lang"); lang != "" {
		if parsed, err := language.Parse(lang); err == nil {
			tag = parsed
		}
	}
	if format == "pdf" {
		h.respondPDF(w, r, name, title, rows, tag)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`.csv"`)
	if err := WriteCSV(w, rows, tag); err != nil {
		h.logger.Error("write csv", slog.Any("error", err))
	}
}

func (h *Handler) respondPDF(w http.ResponseWriter, r *http.Request, name, title string, rows []Row, tag language.Tag) {
	if h.renderer == nil {
		httpx.Problem(w, http.StatusNotImplemented, "PDF Unavailable", "no PDF renderer is configured")
		return
	}
	html, err := RenderReportHTML(title, rows, tag)
	if err != nil {
		h.logger.Error("render report html", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	pdf, err := h.renderer.RenderHTML(r.Context(), html)
	if err != nil {
		h.logger.Error("render report pdf", slog.Any("error", err))
		httpx.Problem(w, http.StatusBadGateway, "PDF Rendering Failed", "the PDF renderer did not produce a document")
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`.pdf"`)
	_, _ = w.Write(pdf)
}
