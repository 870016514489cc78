package ledger

import (
	"context"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
)

var logger = slog.New(slog.NewTextHandler(os.Stdout, nil))

type TxMock struct {
	pgx.Tx
}

var tx pgx.Tx = &TxMock{}

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockRepository) BeginSnapshotTx(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockRepository) CommitTx(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockRepository) RollbackTx(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockRepository) LockMember(ctx context.Context, tx pgx.Tx, memberID int64) error {
	args := m.Called(ctx, tx, memberID)
	return args.Error(0)
}

func (m *MockRepository) GetLoan(ctx context.Context, tx pgx.Tx, loanID int64) (*Loan, error) {
	args := m.Called(ctx, tx, loanID)
	var l *Loan
	if v := args.Get(0); v != nil {
		l = v.(*Loan)
	}
	return l, args.Error(1)
}

func (m *MockRepository) ListLoansByMember(ctx context.Context, tx pgx.Tx, memberID int64) ([]Loan, error) {
	args := m.Called(ctx, tx, memberID)
	var loans []Loan
	if v := args.Get(0); v != nil {
		loans = v.([]Loan)
	}
	return loans, args.Error(1)
}

func (m *MockRepository) ListAllLoans(ctx context.Context, tx pgx.Tx) ([]Loan, error) {
	args := m.Called(ctx, tx)
	var loans []Loan
	if v := args.Get(0); v != nil {
		loans = v.([]Loan)
	}
	return loans, args.Error(1)
}

func (m *MockRepository) SaveLoan(ctx context.Context, tx pgx.Tx, l *Loan) (*Loan, error) {
	args := m.Called(ctx, tx, l)
	var saved *Loan
	if v := args.Get(0); v != nil {
		saved = v.(*Loan)
	}
	return saved, args.Error(1)
}

func (m *MockRepository) DeleteLoan(ctx context.Context, tx pgx.Tx, loanID int64) error {
	args := m.Called(ctx, tx, loanID)
	return args.Error(0)
}

func (m *MockRepository) GetRepayment(ctx context.Context, tx pgx.Tx, repaymentID int64) (*Repayment, error) {
	args := m.Called(ctx, tx, repaymentID)
	var r *Repayment
	if v := args.Get(0); v != nil {
		r = v.(*Repayment)
	}
	return r, args.Error(1)
}

func (m *MockRepository) ListRepaymentsByMember(ctx context.Context, tx pgx.Tx, memberID int64) ([]Repayment, error) {
	args := m.Called(ctx, tx, memberID)
	var repayments []Repayment
	if v := args.Get(0); v != nil {
		repayments = v.([]Repayment)
	}
	return repayments, args.Error(1)
}

func (m *MockRepository) ListRepaymentsByLoan(ctx context.Context, tx pgx.Tx, loanID int64) ([]Repayment, error) {
	args := m.Called(ctx, tx, loanID)
	var repayments []Repayment
	if v := args.Get(0); v != nil {
		repayments = v.([]Repayment)
	}
	return repayments, args.Error(1)
}

func (m *MockRepository) ListAllRepayments(ctx context.Context, tx pgx.Tx) ([]Repayment, error) {
	args := m.Called(ctx, tx)
	var repayments []Repayment
	if v := args.Get(0); v != nil {
		repayments = v.([]Repayment)
	}
	return repayments, args.Error(1)
}

func (m *MockRepository) SaveRepayment(ctx context.Context, tx pgx.Tx, r *Repayment) (*Repayment, error) {
	args := m.Called(ctx, tx, r)
	var saved *Repayment
	if v := args.Get(0); v != nil {
		saved = v.(*Repayment)
	}
	return saved, args.Error(1)
}

func (m *MockRepository) DeleteRepayment(ctx context.Context, tx pgx.Tx, repaymentID int64) error {
	args := m.Called(ctx, tx, repaymentID)
	return args.Error(0)
}

func (m *MockRepository) DeleteRepaymentsByLoan(ctx context.Context, tx pgx.Tx, loanID int64) error {
	args := m.Called(ctx, tx, loanID)
	return args.Error(0)
}

func (m *MockRepository) GetSettings(ctx context.Context, tx pgx.Tx) (*Settings, error) {
	args := m.Called(ctx, tx)
	var s *Settings
	if v := args.Get(0); v != nil {
		s = v.(*Settings)
	}
	return s, args.Error(1)
}

func (m *MockRepository) SaveSettings(ctx context.Context, tx pgx.Tx, s *Settings) error {
	args := m.Called(ctx, tx, s)
	return args.Error(0)
}
