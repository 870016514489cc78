package batch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"sahakari-ledger/internal/domain/ledger"
	"sahakari-ledger/internal/domain/summary"
	"sahakari-ledger/internal/infrastructure/monitoring"
	"sahakari-ledger/internal/pkg/bsdate"
)

// ReconcileDepositsJob recomputes the deposit deficit for the month of the
// most recent ledger activity and publishes it as a gauge. The deficit is
// the repayment cash collected that has not yet shown up as bank deposits;
// it drifts during the month and should return to zero once the collection
// round is deposited.
type ReconcileDepositsJob struct {
	ledgerRepo ledger.Repository
	summarySvc summary.Service
	logger     *slog.Logger
}

func NewReconcileDepositsJob(ledgerRepo ledger.Repository, summarySvc summary.Service, logger *slog.Logger) *ReconcileDepositsJob {
	if ledgerRepo == nil || summarySvc == nil || logger == nil {
		panic("ReconcileDepositsJob dependencies cannot be nil")
	}
	return &ReconcileDepositsJob{
		ledgerRepo: ledgerRepo,
		summarySvc: summarySvc,
		logger:     logger.With("job", "ReconcileDeposits"),
	}
}

func (j *ReconcileDepositsJob) Run(ctx context.Context) error {
	startTime := time.Now()
	j.logger.InfoContext(ctx, "Starting deposit reconciliation job.")

	latest, ok, err := j.latestActivityDate(ctx)
	if err != nil {
		j.logger.ErrorContext(ctx, "Failed to determine latest ledger activity, aborting job.", slog.Any("error", err))
		return fmt.Errorf("cannot run job, failed to read ledger: %w", err)
	}
	if !ok {
		j.logger.InfoContext(ctx, "Ledger is empty, nothing to reconcile.")
		monitoring.Ledger.DepositDeficit.Set(0)
		return nil
	}

	monthly, err := j.summarySvc.Monthly(ctx, latest.String())
	if err != nil {
		j.logger.ErrorContext(ctx, "Failed to build monthly summary, aborting job.", slog.Any("error", err))
		return fmt.Errorf("cannot run job, failed to summarize month: %w", err)
	}

	deficit, _ := monthly.Totals.DepositDeficit.Float64()
	monitoring.Ledger.DepositDeficit.Set(deficit)

	j.logger.InfoContext(ctx, "Deposit reconciliation job finished.",
		slog.String("month_of", latest.String()),
		slog.String("repayment_total", monthly.Totals.Repayment.StringFixed(2)),
		slog.String("deposit_total", monthly.Totals.Deposit.StringFixed(2)),
		slog.String("deficit", monthly.Totals.DepositDeficit.StringFixed(2)),
		slog.Duration("duration", time.Since(startTime)))
	return nil
}

// latestActivityDate scans both ledgers for the most recent record date.
func (j *ReconcileDepositsJob) latestActivityDate(ctx context.Context) (bsdate.Date, bool, error) {
	loans, err := j.ledgerRepo.ListAllLoans(ctx, nil)
	if err != nil {
		return bsdate.Date{}, false, err
	}
	repayments, err := j.ledgerRepo.ListAllRepayments(ctx, nil)
	if err != nil {
		return bsdate.Date{}, false, err
	}

	var latest bsdate.Date
	found := false
	for _, l := range loans {
		if !found || l.Date.After(latest) {
			latest, found = l.Date, true
		}
	}
	for _, r := range repayments {
		if !found || r.Date.After(latest) {
			latest, found = r.Date, true
		}
	}
	return latest, found, nil
}
