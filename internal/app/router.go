package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/andino-erp/andino-erp/internal/documents"
	"github.com/andino-erp/andino-erp/internal/inventory"
	"github.com/andino-erp/andino-erp/internal/ledger/accounts"
	"github.com/andino-erp/andino-erp/internal/ledger/journals"
	"github.com/andino-erp/andino-erp/internal/ledger/reports"
	"github.com/andino-erp/andino-erp/internal/masterdata/taxes"
	"github.com/andino-erp/andino-erp/internal/masterdata/thirdparties"
	"github.com/andino-erp/andino-erp/internal/observability"
	"github.com/andino-erp/andino-erp/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger  *slog.Logger
	Config  *Config
	Metrics *observability.Metrics

	AccountsHandler     *accounts.Handler
	JournalsHandler     *journals.Handler
	DocumentsHandler    *documents.Handler
	ReportsHandler      *reports.Handler
	TaxesHandler        *taxes.Handler
	ThirdPartiesHandler *thirdparties.Handler
	InventoryHandler    *inventory.Handler
	JobHandler          *jobs.Handler
}

// NewRouter constructs the chi.Router with the application defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger: params.Logger,
		Config: params.Config,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	if params.Metrics != nil {
		r.Use(params.Metrics.Middleware)
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/accounts", params.AccountsHandler.MountRoutes)
	r.Route("/journals", params.JournalsHandler.MountRoutes)
	r.Route("/documents", params.DocumentsHandler.MountRoutes)
	r.Route("/reports", params.ReportsHandler.MountRoutes)
	if params.TaxesHandler != nil {
		r.Route("/taxes", params.TaxesHandler.MountRoutes)
	}
	if params.ThirdPartiesHandler != nil {
		r.Route("/third-parties", params.ThirdPartiesHandler.MountRoutes)
	}
	if params.InventoryHandler != nil {
		r.Route("/products", params.InventoryHandler.MountRoutes)
	}
	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}

	return r
}
