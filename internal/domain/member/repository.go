package member

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// Repository is the persistence contract for members. Methods accept the
// transaction they should run in; a nil tx runs against the pool.
type Repository interface {
	BeginTx(ctx context.Context) (pgx.Tx, error)

	CommitTx(ctx context.Context, tx pgx.Tx) error

	RollbackTx(ctx context.Context, tx pgx.Tx) error

	// LockMember takes a row lock on the member, serializing concurrent
	// mutations for the same member. Returns apperrors.ErrNotFound when the
	// member does not exist.
	LockMember(ctx context.Context, tx pgx.Tx, memberID int64) error

	GetMember(ctx context.Context, tx pgx.Tx, memberID int64) (*Member, error)

	ListMembers(ctx context.Context, tx pgx.Tx) ([]Member, error)

	// SaveMember inserts the member when ID is zero, updates it otherwise.
	// A duplicate account number surfaces as a field-keyed validation error.
	SaveMember(ctx context.Context, tx pgx.Tx, m *Member) (*Member, error)

	// DeleteMemberCascade removes the member together with all of its loans
	// and repayments in the supplied transaction.
	DeleteMemberCascade(ctx context.Context, tx pgx.Tx, memberID int64) error
}
