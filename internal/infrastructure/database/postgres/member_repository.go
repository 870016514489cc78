package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"sahakari-ledger/internal/domain/member"
	"sahakari-ledger/internal/pkg/apperrors"
)

type MemberRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ member.Repository = (*MemberRepository)(nil)

func NewMemberRepository(db DBPool, logger *slog.Logger) *MemberRepository {
	return &MemberRepository{db: db, logger: logger.With("component", "MemberRepository")}
}

func (r *MemberRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to begin transaction", "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return tx, nil
}

func (r *MemberRepository) CommitTx(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Commit(ctx); err != nil {
		r.logger.ErrorContext(ctx, "Failed to commit transaction", "error", err)
		return fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return nil
}

func (r *MemberRepository) RollbackTx(ctx context.Context, tx pgx.Tx) error {
	err := tx.Rollback(ctx)
	if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		r.logger.ErrorContext(ctx, "Failed to rollback transaction", "error", err)
		return fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return nil
}

func (r *MemberRepository) LockMember(ctx context.Context, tx pgx.Tx, memberID int64) (err error) {
	start := time.Now()
	defer func() { observe("lock_member", start, err) }()

	var id int64
	err = pick(r.db, tx).QueryRow(ctx, `SELECT id FROM members WHERE id = $1 FOR UPDATE`, memberID).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: member %d", apperrors.ErrNotFound, memberID)
		}
		return fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return nil
}

func (r *MemberRepository) GetMember(ctx context.Context, tx pgx.Tx, memberID int64) (m *member.Member, err error) {
	start := time.Now()
	defer func() { observe("get_member", start, err) }()

	var out member.Member
	err = pick(r.db, tx).QueryRow(ctx,
		`SELECT id, account_no, name FROM members WHERE id = $1`, memberID,
	).Scan(&out.ID, &out.AccountNo, &out.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: member %d", apperrors.ErrNotFound, memberID)
		}
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return &out, nil
}

func (r *MemberRepository) ListMembers(ctx context.Context, tx pgx.Tx) (members []member.Member, err error) {
	start := time.Now()
	defer func() { observe("list_members", start, err) }()

	rows, err := pick(r.db, tx).Query(ctx,
		`SELECT id, account_no, name FROM members ORDER BY account_no`)
	if err != nil {
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	for rows.Next() {
		var m member.Member
		if err = rows.Scan(&m.ID, &m.AccountNo, &m.Name); err != nil {
			return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
		}
		members = append(members, m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return members, nil
}

func (r *MemberRepository) SaveMember(ctx context.Context, tx pgx.Tx, m *member.Member) (saved *member.Member, err error) {
	start := time.Now()
	defer func() { observe("save_member", start, err) }()

	out := *m
	if m.ID == 0 {
		err = pick(r.db, tx).QueryRow(ctx,
			`INSERT INTO members (account_no, name) VALUES ($1, $2) RETURNING id`,
			m.AccountNo, m.Name,
		).Scan(&out.ID)
	} else {
		_, err = pick(r.db, tx).Exec(ctx,
			`UPDATE members SET account_no = $1, name = $2 WHERE id = $3`,
			m.AccountNo, m.Name, m.ID)
	}
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.NewValidationError("account_no", "Account number has already been taken.")
		}
		r.logger.ErrorContext(ctx, "Failed to save member", "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return &out, nil
}

// DeleteMemberCascade removes the member and everything it owns. The
// cascade is explicit rather than relying on referential actions so the
// deletion order is visible and runs inside the caller's transaction.
func (r *MemberRepository) DeleteMemberCascade(ctx context.Context, tx pgx.Tx, memberID int64) (err error) {
	start := time.Now()
	defer func() { observe("delete_member_cascade", start, err) }()

	q := pick(r.db, tx)
	if _, err = q.Exec(ctx, `DELETE FROM repayments WHERE member_id = $1`, memberID); err != nil {
		return fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	if _, err = q.Exec(ctx, `DELETE FROM loans WHERE member_id = $1`, memberID); err != nil {
		return fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	tag, err := q.Exec(ctx, `DELETE FROM members WHERE id = $1`, memberID)
	if err != nil {
		return fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: member %d", apperrors.ErrNotFound, memberID)
	}
	return nil
}
