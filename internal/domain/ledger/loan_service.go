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

type LoanService interface {
	CreateLoan(ctx context.Context, memberID int64, date string, amount decimal.Decimal, isSpecial bool, remarks string) (*Loan, error)

	EditLoan(ctx context.Context, loanID int64, date string, amount decimal.Decimal, isSpecial bool, remarks string) (*Loan, error)

	DeleteLoan(ctx context.Context, loanID int64) error

	GetLoan(ctx context.Context, loanID int64) (*Loan, error)

	ListLoansByMember(ctx context.Context, memberID int64) ([]Loan, error)

	// OutstandingBalance recomputes the unpaid principal of the loan.
	OutstandingBalance(ctx context.Context, loanID int64) (decimal.Decimal, error)
}

var _ LoanService = (*loanService)(nil)

type loanService struct {
	repo   Repository
	pub    event.Publisher
	logger *slog.Logger
}

func NewLoanService(repo Repository, pub event.Publisher, logger *slog.Logger) LoanService {
	if repo == nil {
		panic("ledger repository cannot be nil")
	}
	if pub == nil {
		pub = event.NoopPublisher{}
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &loanService{
		repo:   repo,
		pub:    pub,
		logger: logger.With(slog.String("component", "loanService")),
	}
}

// validateLoanFields runs the pure field checks shared by create and edit.
func validateLoanFields(dateStr string, amount decimal.Decimal) (bsdate.Date, apperrors.FieldErrors) {
	errs := apperrors.FieldErrors{}
	if amount.LessThanOrEqual(decimal.Zero) {
		errs.Add("amount", "Loan amount must be positive.")
	}
	date, err := bsdate.Parse(dateStr)
	if err != nil {
		errs.Add("date", "Invalid date.")
	}
	return date, errs
}

func (s *loanService) CreateLoan(ctx context.Context, memberID int64, dateStr string, amount decimal.Decimal, isSpecial bool, remarks string) (created *Loan, err error) {
	defer func() { monitoring.ObserveMutation("loan", "create", err) }()

	date, errs := validateLoanFields(dateStr, amount)
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

	if err = s.checkPriorLoanCleared(ctx, tx, loans, nil); err != nil {
		return nil, err
	}

	settings, err := s.repo.GetSettings(ctx, tx)
	if err != nil {
		return nil, err
	}

	loan := &Loan{
		Date:        date,
		Amount:      amount,
		IsSpecial:   isSpecial,
		Installment: ComputeInstallment(amount, settings.InstallmentMonths),
		Remarks:     remarks,
		MemberID:    memberID,
	}
	created, err = s.repo.SaveLoan(ctx, tx, loan)
	if err != nil {
		return nil, err
	}
	if err = s.repo.CommitTx(ctx, tx); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "Loan created", slog.Int64("loanID", created.ID), slog.Int64("memberID", memberID), slog.String("date", date.String()))
	s.publish(ctx, "loan", "created", created.ID, memberID, date)
	return created, nil
}

func (s *loanService) EditLoan(ctx context.Context, loanID int64, dateStr string, amount decimal.Decimal, isSpecial bool, remarks string) (updated *Loan, err error) {
	defer func() { monitoring.ObserveMutation("loan", "edit", err) }()

	date, errs := validateLoanFields(dateStr, amount)
	if verr := errs.AsError(); verr != nil {
		return nil, verr
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer s.repo.RollbackTx(ctx, tx)

	loan, err := s.repo.GetLoan(ctx, tx, loanID)
	if err != nil {
		return nil, err
	}
	if err = s.repo.LockMember(ctx, tx, loan.MemberID); err != nil {
		return nil, err
	}

	loans, repayments, err := s.memberRecords(ctx, tx, loan.MemberID)
	if err != nil {
		return nil, err
	}

	latest, ok := Latest(loans, repayments)
	if !ok || !latest.Is(KindLoan, loanID) {
		return nil, fmt.Errorf("%w: only the member's latest transaction may be edited", apperrors.ErrOrdering)
	}
	if second, ok := SecondLatest(loans, repayments); ok && !date.After(second.Date()) {
		return nil, fmt.Errorf("%w: date %s is not after the preceding transaction on %s", apperrors.ErrOrdering, date, second.Date())
	}

	if err = s.checkPriorLoanCleared(ctx, tx, loans, &loanID); err != nil {
		return nil, err
	}

	// Installment follows the settings in force at save time.
	settings, err := s.repo.GetSettings(ctx, tx)
	if err != nil {
		return nil, err
	}

	loan.Date = date
	loan.Amount = amount
	loan.IsSpecial = isSpecial
	loan.Installment = ComputeInstallment(amount, settings.InstallmentMonths)
	loan.Remarks = remarks

	updated, err = s.repo.SaveLoan(ctx, tx, loan)
	if err != nil {
		return nil, err
	}
	if err = s.repo.CommitTx(ctx, tx); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "Loan edited", slog.Int64("loanID", loanID))
	s.publish(ctx, "loan", "edited", loanID, loan.MemberID, date)
	return updated, nil
}

func (s *loanService) DeleteLoan(ctx context.Context, loanID int64) (err error) {
	defer func() { monitoring.ObserveMutation("loan", "delete", err) }()

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer s.repo.RollbackTx(ctx, tx)

	loan, err := s.repo.GetLoan(ctx, tx, loanID)
	if err != nil {
		return err
	}
	if err = s.repo.LockMember(ctx, tx, loan.MemberID); err != nil {
		return err
	}

	loans, repayments, err := s.memberRecords(ctx, tx, loan.MemberID)
	if err != nil {
		return err
	}
	if latest, ok := Latest(loans, repayments); !ok || !latest.Is(KindLoan, loanID) {
		return fmt.Errorf("%w: only the member's latest transaction may be deleted", apperrors.ErrOrdering)
	}

	// Explicit cascade: linked repayments go in the same transaction.
	if err = s.repo.DeleteRepaymentsByLoan(ctx, tx, loanID); err != nil {
		return err
	}
	if err = s.repo.DeleteLoan(ctx, tx, loanID); err != nil {
		return err
	}
	if err = s.repo.CommitTx(ctx, tx); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "Loan deleted", slog.Int64("loanID", loanID), slog.Int64("memberID", loan.MemberID))
	s.publish(ctx, "loan", "deleted", loanID, loan.MemberID, loan.Date)
	return nil
}

func (s *loanService) GetLoan(ctx context.Context, loanID int64) (*Loan, error) {
	return s.repo.GetLoan(ctx, nil, loanID)
}

func (s *loanService) ListLoansByMember(ctx context.Context, memberID int64) ([]Loan, error) {
	return s.repo.ListLoansByMember(ctx, nil, memberID)
}

func (s *loanService) OutstandingBalance(ctx context.Context, loanID int64) (decimal.Decimal, error) {
	loan, err := s.repo.GetLoan(ctx, nil, loanID)
	if err != nil {
		return decimal.Zero, err
	}
	linked, err := s.repo.ListRepaymentsByLoan(ctx, nil, loanID)
	if err != nil {
		return decimal.Zero, err
	}
	return OutstandingBalance(loan, linked), nil
}

// checkPriorLoanCleared enforces that the member's most recent loan, other
// than the one being edited, carries no outstanding balance. exclude is the
// id of the loan under edit, nil on create.
func (s *loanService) checkPriorLoanCleared(ctx context.Context, tx pgx.Tx, loans []Loan, exclude *int64) error {
	candidates := loans
	if exclude != nil {
		candidates = make([]Loan, 0, len(loans))
		for _, l := range loans {
			if l.ID != *exclude {
				candidates = append(candidates, l)
			}
		}
	}
	prior, ok := LatestLoan(candidates)
	if !ok {
		return nil
	}
	linked, err := s.repo.ListRepaymentsByLoan(ctx, tx, prior.ID)
	if err != nil {
		return err
	}
	if OutstandingBalance(prior, linked).GreaterThan(decimal.Zero) {
		return fmt.Errorf("%w: previous loan %d is not cleared", apperrors.ErrBusinessRule, prior.ID)
	}
	return nil
}

func (s *loanService) memberRecords(ctx context.Context, tx pgx.Tx, memberID int64) ([]Loan, []Repayment, error) {
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

func (s *loanService) publish(ctx context.Context, entity, op string, recordID, memberID int64, date bsdate.Date) {
	e := event.NewLedgerMutationEvent(entity, op, recordID, memberID, date.String())
	if err := s.pub.PublishLedgerMutation(ctx, e); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish ledger mutation event", slog.Any("error", err))
	}
}
