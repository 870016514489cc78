package ledger

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"sahakari-ledger/internal/event"
	"sahakari-ledger/internal/infrastructure/monitoring"
	"sahakari-ledger/internal/pkg/apperrors"
	"sahakari-ledger/internal/pkg/bsdate"
)

// RepaymentInput carries the caller-supplied fields of a repayment. The
// interest field is stored as given; the engine only ever suggests a value.
type RepaymentInput struct {
	Date     string
	Amount   decimal.Decimal
	Interest decimal.Decimal
	Penalty  decimal.Decimal
	Savings  decimal.Decimal
	LoanID   *int64
	Remarks  string
}

type RepaymentService interface {
	CreateRepayment(ctx context.Context, memberID int64, in RepaymentInput) (*Repayment, error)

	EditRepayment(ctx context.Context, repaymentID int64, in RepaymentInput) (*Repayment, error)

	DeleteRepayment(ctx context.Context, repaymentID int64) error

	GetRepayment(ctx context.Context, repaymentID int64) (*Repayment, error)

	ListRepaymentsByMember(ctx context.Context, memberID int64) ([]Repayment, error)

	// Suggest computes the advisory interest pre-fill for a repayment
	// collected on endDate. It never overrides what the caller later stores.
	Suggest(ctx context.Context, memberID int64, endDate string) (*Suggestion, error)
}

var _ RepaymentService = (*repaymentService)(nil)

type repaymentService struct {
	repo       Repository
	pub        event.Publisher
	annualRate decimal.Decimal
	logger     *slog.Logger
}

func NewRepaymentService(repo Repository, pub event.Publisher, annualRate decimal.Decimal, logger *slog.Logger) RepaymentService {
	if repo == nil {
		panic("ledger repository cannot be nil")
	}
	if pub == nil {
		pub = event.NoopPublisher{}
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	if annualRate.LessThanOrEqual(decimal.Zero) {
		annualRate = decimal.NewFromFloat(0.12)
	}
	return &repaymentService{
		repo:       repo,
		pub:        pub,
		annualRate: annualRate,
		logger:     logger.With(slog.String("component", "repaymentService")),
	}
}

func validateRepaymentFields(in RepaymentInput) (bsdate.Date, apperrors.FieldErrors) {
	errs := apperrors.FieldErrors{}
	for field, v := range map[string]decimal.Decimal{
		"amount":   in.Amount,
		"interest": in.Interest,
		"penalty":  in.Penalty,
		"savings":  in.Savings,
	} {
		if v.IsNegative() {
			errs.Add(field, "Value cannot be negative.")
		}
	}
	date, err := bsdate.Parse(in.Date)
	if err != nil {
		errs.Add("date", "Invalid date.")
	}
	return date, errs
}

func (s *repaymentService) CreateRepayment(ctx context.Context, memberID int64, in RepaymentInput) (created *Repayment, err error) {
	defer func() { monitoring.ObserveMutation("repayment", "create", err) }()

	date, errs := validateRepaymentFields(in)
	if verr := errs.AsError(); verr != nil {
		return nil, verr
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer s.repo.RollbackTx(ctx, tx)

	if err = s.repo.LockMember(ctx, tx, memberID); err != nil {
		return nil, err
	}

	loans, repayments, err := s.memberRecords(ctx, tx, memberID)
	if err != nil {
		return nil, err
	}
	if latest, ok := Latest(loans, repayments); ok && !date.After(latest.Date()) {
		return nil, fmt.Errorf("%w: date %s is not after the latest transaction on %s", apperrors.ErrOrdering, date, latest.Date())
	}

	if err = s.checkLoanRules(ctx, tx, memberID, in, nil); err != nil {
		return nil, err
	}

	repayment := &Repayment{
		Date:     date,
		Amount:   in.Amount,
		Interest: in.Interest,
		Penalty:  in.Penalty,
		Savings:  in.Savings,
		Remarks:  in.Remarks,
		LoanID:   in.LoanID,
		MemberID: memberID,
	}
	created, err = s.repo.SaveRepayment(ctx, tx, repayment)
	if err != nil {
		return nil, err
	}
	if err = s.repo.CommitTx(ctx, tx); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "Repayment created", slog.Int64("repaymentID", created.ID), slog.Int64("memberID", memberID))
	s.publish(ctx, "created", created.ID, memberID, date)
	return created, nil
}

func (s *repaymentService) EditRepayment(ctx context.Context, repaymentID int64, in RepaymentInput) (updated *Repayment, err error) {
	defer func() { monitoring.ObserveMutation("repayment", "edit", err) }()

	date, errs := validateRepaymentFields(in)
	if verr := errs.AsError(); verr != nil {
		return nil, verr
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer s.repo.RollbackTx(ctx, tx)

	repayment, err := s.repo.GetRepayment(ctx, tx, repaymentID)
	if err != nil {
		return nil, err
	}
	if err = s.repo.LockMember(ctx, tx, repayment.MemberID); err != nil {
		return nil, err
	}

	loans, repayments, err := s.memberRecords(ctx, tx, repayment.MemberID)
	if err != nil {
		return nil, err
	}
	latest, ok := Latest(loans, repayments)
	if !ok || !latest.Is(KindRepayment, repaymentID) {
		return nil, fmt.Errorf("%w: only the member's latest transaction may be edited", apperrors.ErrOrdering)
	}
	if second, ok := SecondLatest(loans, repayments); ok && !date.After(second.Date()) {
		return nil, fmt.Errorf("%w: date %s is not after the preceding transaction on %s", apperrors.ErrOrdering, date, second.Date())
	}

	if err = s.checkLoanRules(ctx, tx, repayment.MemberID, in, &repaymentID); err != nil {
		return nil, err
	}

	repayment.Date = date
	repayment.Amount = in.Amount
	repayment.Interest = in.Interest
	repayment.Penalty = in.Penalty
	repayment.Savings = in.Savings
	repayment.Remarks = in.Remarks
	repayment.LoanID = in.LoanID

	updated, err = s.repo.SaveRepayment(ctx, tx, repayment)
	if err != nil {
		return nil, err
	}
	if err = s.repo.CommitTx(ctx, tx); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "Repayment edited", slog.Int64("repaymentID", repaymentID))
	s.publish(ctx, "edited", repaymentID, repayment.MemberID, date)
	return updated, nil
}

func (s *repaymentService) DeleteRepayment(ctx context.Context, repaymentID int64) (err error) {
	defer func() { monitoring.ObserveMutation("repayment", "delete", err) }()

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer s.repo.RollbackTx(ctx, tx)

	repayment, err := s.repo.GetRepayment(ctx, tx, repaymentID)
	if err != nil {
		return err
	}
	if err = s.repo.LockMember(ctx, tx, repayment.MemberID); err != nil {
		return err
	}

	loans, repayments, err := s.memberRecords(ctx, tx, repayment.MemberID)
	if err != nil {
		return err
	}
	if latest, ok := Latest(loans, repayments); !ok || !latest.Is(KindRepayment, repaymentID) {
		return fmt.Errorf("%w: only the member's latest transaction may be deleted", apperrors.ErrOrdering)
	}

	if err = s.repo.DeleteRepayment(ctx, tx, repaymentID); err != nil {
		return err
	}
	if err = s.repo.CommitTx(ctx, tx); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "Repayment deleted", slog.Int64("repaymentID", repaymentID))
	s.publish(ctx, "deleted", repaymentID, repayment.MemberID, repayment.Date)
	return nil
}

func (s *repaymentService) GetRepayment(ctx context.Context, repaymentID int64) (*Repayment, error) {
	return s.repo.GetRepayment(ctx, nil, repaymentID)
}

func (s *repaymentService) ListRepaymentsByMember(ctx context.Context, memberID int64) ([]Repayment, error) {
	return s.repo.ListRepaymentsByMember(ctx, nil, memberID)
}

func (s *repaymentService) Suggest(ctx context.Context, memberID int64, endDateStr string) (*Suggestion, error) {
	endDate, err := bsdate.Parse(endDateStr)
	if err != nil {
		return nil, apperrors.NewValidationError("date", "Invalid date.")
	}

	loans, repayments, err := s.memberRecords(ctx, nil, memberID)
	if err != nil {
		return nil, err
	}

	loan, ok := LatestLoan(loans)
	if !ok {
		return &Suggestion{SavingsOnly: true, EndDate: endDate}, nil
	}
	linked, err := s.repo.ListRepaymentsByLoan(ctx, nil, loan.ID)
	if err != nil {
		return nil, err
	}
	outstanding := OutstandingBalance(loan, linked)
	if !outstanding.GreaterThan(decimal.Zero) {
		return &Suggestion{SavingsOnly: true, EndDate: endDate}, nil
	}

	// The interest period opens the day after the last repayment, or on the
	// loan date itself when the loan is the member's latest record.
	latest, _ := Latest(loans, repayments)
	startDate := latest.Date()
	if latest.Kind() == KindRepayment {
		startDate, err = latest.Date().AddDays(1)
		if err != nil {
			return nil, apperrors.NewValidationError("date", "Repayment period start is outside the supported calendar range.")
		}
	}
	if endDate.Before(startDate) {
		return nil, apperrors.NewValidationError("date", "End date is before the repayment period start.")
	}

	gap, err := startDate.DaysUntil(endDate)
	if err != nil {
		return nil, apperrors.NewValidationError("date", "Invalid repayment period.")
	}
	days := gap + 1 // inclusive day count

	return &Suggestion{
		LoanID:         loan.ID,
		Outstanding:    outstanding,
		Installment:    loan.Installment,
		StartDate:      startDate,
		EndDate:        endDate,
		Days:           days,
		InterestPerDay: InterestPerDay(outstanding, s.annualRate),
		Interest:       SuggestInterest(outstanding, s.annualRate, days),
	}, nil
}

// checkLoanRules validates the loan-linkage rules: a savings-only repayment
// carries nothing but savings; a loan-linked one must reference an uncleared
// loan of the same member and may not overpay it. exclude is the id of the
// repayment under edit so its own amount is left out of the balance.
func (s *repaymentService) checkLoanRules(ctx context.Context, tx pgx.Tx, memberID int64, in RepaymentInput, exclude *int64) error {
	if in.LoanID == nil {
		if in.Amount.IsPositive() || in.Interest.IsPositive() || in.Penalty.IsPositive() {
			return fmt.Errorf("%w: a savings-only repayment may carry nothing but savings", apperrors.ErrBusinessRule)
		}
		return nil
	}

	loan, err := s.repo.GetLoan(ctx, tx, *in.LoanID)
	if err != nil {
		return err
	}
	if loan.MemberID != memberID {
		return apperrors.NewValidationError("loan_id", "Loan does not belong to this member.")
	}

	linked, err := s.repo.ListRepaymentsByLoan(ctx, tx, loan.ID)
	if err != nil {
		return err
	}
	if exclude != nil {
		kept := linked[:0]
		for _, r := range linked {
			if r.ID != *exclude {
				kept = append(kept, r)
			}
		}
		linked = kept
	}
	outstanding := OutstandingBalance(loan, linked)
	if !outstanding.GreaterThan(decimal.Zero) {
		return fmt.Errorf("%w: loan %d is already cleared", apperrors.ErrBusinessRule, loan.ID)
	}
	if in.Amount.GreaterThan(outstanding) {
		return fmt.Errorf("%w: repayment amount %s exceeds outstanding balance %s", apperrors.ErrBusinessRule, in.Amount, outstanding)
	}
	return nil
}

func (s *repaymentService) memberRecords(ctx context.Context, tx pgx.Tx, memberID int64) ([]Loan, []Repayment, error) {
	loans, err := s.repo.ListLoansByMember(ctx, tx, memberID)
	if err != nil {
		return nil, nil, err
	}
	repayments, err := s.repo.ListRepaymentsByMember(ctx, tx, memberID)
	if err != nil {
		return nil, nil, err
	}
	return loans, repayments, nil
}

func (s *repaymentService) publish(ctx context.Context, op string, recordID, memberID int64, date bsdate.Date) {
	e := event.NewLedgerMutationEvent("repayment", op, recordID, memberID, date.String())
	if err := s.pub.PublishLedgerMutation(ctx, e); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish ledger mutation event", slog.Any("error", err))
	}
}
