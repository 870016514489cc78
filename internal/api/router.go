package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/traceid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"sahakari-ledger/internal/api/handler"
	mw "sahakari-ledger/internal/api/middleware"
	"sahakari-ledger/internal/config"
	"sahakari-ledger/internal/domain/bank"
	"sahakari-ledger/internal/domain/ledger"
	"sahakari-ledger/internal/domain/member"
	"sahakari-ledger/internal/domain/summary"
)

// Services bundles everything the router exposes.
type Services struct {
	Member    member.Service
	Loan      ledger.LoanService
	Repayment ledger.RepaymentService
	Settings  ledger.SettingsService
	Bank      bank.Service
	Summary   summary.Service
}

func SetupRouter(rateLimiter *mw.RateLimiterMiddleware, svc Services, cfg *config.Config, logger *slog.Logger) *chi.Mux {
	router := chi.NewRouter()

	setupMiddleware(router, rateLimiter, logger)
	setupMetricsEndpoint(router, cfg, logger)
	setupMemberRoutes(router, svc, logger)
	setupLedgerRoutes(router, svc, logger)
	setupBankRoutes(router, svc, logger)
	setupSummaryRoutes(router, svc, logger)
	setupSettingsRoutes(router, svc, logger)
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	return router
}

func setupMiddleware(router *chi.Mux, rateLimiter *mw.RateLimiterMiddleware, logger *slog.Logger) {
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(traceid.Middleware)
	router.Use(mw.StructuredLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(middleware.Timeout(60 * time.Second))
	router.Use(rateLimiter.Middleware)
	router.Use(mw.MetricsMiddleware())
}

func setupMetricsEndpoint(router *chi.Mux, cfg *config.Config, logger *slog.Logger) {
	metricsPath := cfg.Metrics.Path
	if metricsPath == "" {
		metricsPath = "/metrics"
	}
	logger.Info("Setting up Prometheus metrics endpoint", "path", metricsPath)
	router.Handle(metricsPath, promhttp.Handler())
}

func setupMemberRoutes(router *chi.Mux, svc Services, logger *slog.Logger) {
	memberHandler := handler.NewMemberHandler(svc.Member, logger)
	loanHandler := handler.NewLoanHandler(svc.Loan, logger)
	repaymentHandler := handler.NewRepaymentHandler(svc.Repayment, logger)
	summaryHandler := handler.NewSummaryHandler(svc.Summary, logger)

	router.Route("/members", func(r chi.Router) {
		r.Post("/", memberHandler.CreateMember)
		r.Get("/", memberHandler.ListMembers)
		r.Route("/{memberID}", func(r chi.Router) {
			r.Get("/", memberHandler.GetMember)
			r.Put("/", memberHandler.UpdateMember)
			r.Delete("/", memberHandler.DeleteMember)
			r.Get("/loans", loanHandler.ListMemberLoans)
			r.Get("/repayments", repaymentHandler.ListMemberRepayments)
			r.Get("/repayments/suggestion", repaymentHandler.SuggestRepayment)
			r.Get("/statement", summaryHandler.MemberStatement)
		})
	})
}

func setupLedgerRoutes(router *chi.Mux, svc Services, logger *slog.Logger) {
	loanHandler := handler.NewLoanHandler(svc.Loan, logger)
	repaymentHandler := handler.NewRepaymentHandler(svc.Repayment, logger)

	router.Route("/loans", func(r chi.Router) {
		r.Post("/", loanHandler.CreateLoan)
		r.Route("/{loanID}", func(r chi.Router) {
			r.Get("/", loanHandler.GetLoan)
			r.Put("/", loanHandler.UpdateLoan)
			r.Delete("/", loanHandler.DeleteLoan)
			r.Get("/outstanding", loanHandler.GetOutstanding)
		})
	})

	router.Route("/repayments", func(r chi.Router) {
		r.Post("/", repaymentHandler.CreateRepayment)
		r.Route("/{repaymentID}", func(r chi.Router) {
			r.Get("/", repaymentHandler.GetRepayment)
			r.Put("/", repaymentHandler.UpdateRepayment)
			r.Delete("/", repaymentHandler.DeleteRepayment)
		})
	})
}

func setupBankRoutes(router *chi.Mux, svc Services, logger *slog.Logger) {
	h := handler.NewBankHandler(svc.Bank, logger)

	router.Route("/bank-transactions", func(r chi.Router) {
		r.Post("/", h.CreateTransaction)
		r.Get("/", h.ListTransactions)
		r.Route("/{transactionID}", func(r chi.Router) {
			r.Get("/", h.GetTransaction)
			r.Put("/", h.UpdateTransaction)
			r.Delete("/", h.DeleteTransaction)
		})
	})
}

func setupSummaryRoutes(router *chi.Mux, svc Services, logger *slog.Logger) {
	h := handler.NewSummaryHandler(svc.Summary, logger)

	router.Route("/summaries", func(r chi.Router) {
		r.Get("/member-wise", h.MemberWise)
		r.Get("/date-range", h.DateRange)
		r.Get("/monthly", h.Monthly)
		r.Get("/bank-book", h.BankBook)
	})
}

func setupSettingsRoutes(router *chi.Mux, svc Services, logger *slog.Logger) {
	h := handler.NewSettingsHandler(svc.Settings, logger)

	router.Route("/settings", func(r chi.Router) {
		r.Get("/", h.GetSettings)
		r.Put("/", h.UpdateSettings)
	})
}
