package ledger

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// Repository is the persistence contract for the loan and repayment ledgers.
// Every method accepts the transaction it should run in; a nil tx runs
// against the pool. Mutation services pass the same tx through the
// latest/second-latest reads and the write so both are isolated together.
type Repository interface {
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// BeginSnapshotTx starts a repeatable-read, read-only transaction for
	// aggregation queries so totals never mix partially committed state.
	BeginSnapshotTx(ctx context.Context) (pgx.Tx, error)

	CommitTx(ctx context.Context, tx pgx.Tx) error

	RollbackTx(ctx context.Context, tx pgx.Tx) error

	// LockMember serializes mutations for one member via a row lock.
	// Returns apperrors.ErrNotFound when the member does not exist.
	LockMember(ctx context.Context, tx pgx.Tx, memberID int64) error

	GetLoan(ctx context.Context, tx pgx.Tx, loanID int64) (*Loan, error)

	ListLoansByMember(ctx context.Context, tx pgx.Tx, memberID int64) ([]Loan, error)

	ListAllLoans(ctx context.Context, tx pgx.Tx) ([]Loan, error)

	// SaveLoan inserts when ID is zero, updates otherwise.
	SaveLoan(ctx context.Context, tx pgx.Tx, l *Loan) (*Loan, error)

	DeleteLoan(ctx context.Context, tx pgx.Tx, loanID int64) error

	GetRepayment(ctx context.Context, tx pgx.Tx, repaymentID int64) (*Repayment, error)

	ListRepaymentsByMember(ctx context.Context, tx pgx.Tx, memberID int64) ([]Repayment, error)

	ListRepaymentsByLoan(ctx context.Context, tx pgx.Tx, loanID int64) ([]Repayment, error)

	ListAllRepayments(ctx context.Context, tx pgx.Tx) ([]Repayment, error)

	SaveRepayment(ctx context.Context, tx pgx.Tx, r *Repayment) (*Repayment, error)

	DeleteRepayment(ctx context.Context, tx pgx.Tx, repaymentID int64) error

	DeleteRepaymentsByLoan(ctx context.Context, tx pgx.Tx, loanID int64) error

	GetSettings(ctx context.Context, tx pgx.Tx) (*Settings, error)

	SaveSettings(ctx context.Context, tx pgx.Tx, s *Settings) error
}
