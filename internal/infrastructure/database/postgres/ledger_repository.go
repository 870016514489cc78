package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"sahakari-ledger/internal/domain/ledger"
	"sahakari-ledger/internal/pkg/apperrors"
)

// LedgerRepository persists loans, repayments and the settings singleton.
// Dates are stored as their canonical "YYYY-MM-DD" text form; money columns
// are NUMERIC and scan straight into decimals.
type LedgerRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ ledger.Repository = (*LedgerRepository)(nil)

func NewLedgerRepository(db DBPool, logger *slog.Logger) *LedgerRepository {
	return &LedgerRepository{db: db, logger: logger.With("component", "LedgerRepository")}
}

func (r *LedgerRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to begin transaction", "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return tx, nil
}

func (r *LedgerRepository) BeginSnapshotTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to begin snapshot transaction", "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return tx, nil
}

func (r *LedgerRepository) CommitTx(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Commit(ctx); err != nil {
		r.logger.ErrorContext(ctx, "Failed to commit transaction", "error", err)
		return fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return nil
}

func (r *LedgerRepository) RollbackTx(ctx context.Context, tx pgx.Tx) error {
	err := tx.Rollback(ctx)
	if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		r.logger.ErrorContext(ctx, "Failed to rollback transaction", "error", err)
		return fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return nil
}

func (r *LedgerRepository) LockMember(ctx context.Context, tx pgx.Tx, memberID int64) (err error) {
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

const loanColumns = `id, date, amount, is_special, installment, remarks, member_id`

func scanLoan(row pgx.Row) (*ledger.Loan, error) {
	var l ledger.Loan
	var rawDate string
	if err := row.Scan(&l.ID, &rawDate, &l.Amount, &l.IsSpecial, &l.Installment, &l.Remarks, &l.MemberID); err != nil {
		return nil, err
	}
	date, err := scanDate(rawDate)
	if err != nil {
		return nil, err
	}
	l.Date = date
	return &l, nil
}

func (r *LedgerRepository) GetLoan(ctx context.Context, tx pgx.Tx, loanID int64) (l *ledger.Loan, err error) {
	start := time.Now()
	defer func() { observe("get_loan", start, err) }()

	l, err = scanLoan(pick(r.db, tx).QueryRow(ctx,
		`SELECT `+loanColumns+` FROM loans WHERE id = $1`, loanID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: loan %d", apperrors.ErrNotFound, loanID)
		}
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return l, nil
}

func (r *LedgerRepository) listLoans(ctx context.Context, tx pgx.Tx, query string, args ...any) ([]ledger.Loan, error) {
	rows, err := pick(r.db, tx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	var loans []ledger.Loan
	for rows.Next() {
		l, err := scanLoan(rows)
		if err != nil {
			return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
		}
		loans = append(loans, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return loans, nil
}

func (r *LedgerRepository) ListLoansByMember(ctx context.Context, tx pgx.Tx, memberID int64) (loans []ledger.Loan, err error) {
	start := time.Now()
	defer func() { observe("list_loans_by_member", start, err) }()

	loans, err = r.listLoans(ctx, tx,
		`SELECT `+loanColumns+` FROM loans WHERE member_id = $1 ORDER BY date, id`, memberID)
	return loans, err
}

func (r *LedgerRepository) ListAllLoans(ctx context.Context, tx pgx.Tx) (loans []ledger.Loan, err error) {
	start := time.Now()
	defer func() { observe("list_all_loans", start, err) }()

	loans, err = r.listLoans(ctx, tx,
		`SELECT `+loanColumns+` FROM loans ORDER BY date, id`)
	return loans, err
}

func (r *LedgerRepository) SaveLoan(ctx context.Context, tx pgx.Tx, l *ledger.Loan) (saved *ledger.Loan, err error) {
	start := time.Now()
	defer func() { observe("save_loan", start, err) }()

	out := *l
	if l.ID == 0 {
		err = pick(r.db, tx).QueryRow(ctx,
			`INSERT INTO loans (date, amount, is_special, installment, remarks, member_id)
			 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
			l.Date.String(), l.Amount, l.IsSpecial, l.Installment, l.Remarks, l.MemberID,
		).Scan(&out.ID)
	} else {
		res, execErr := pick(r.db, tx).Exec(ctx,
			`UPDATE loans SET date = $1, amount = $2, is_special = $3, installment = $4, remarks = $5
			 WHERE id = $6`,
			l.Date.String(), l.Amount, l.IsSpecial, l.Installment, l.Remarks, l.ID)
		err = execErr
		if err == nil && res.RowsAffected() == 0 {
			err = pgx.ErrNoRows
		}
	}
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: loan %d", apperrors.ErrNotFound, l.ID)
		}
		r.logger.ErrorContext(ctx, "Failed to save loan", "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return &out, nil
}

func (r *LedgerRepository) DeleteLoan(ctx context.Context, tx pgx.Tx, loanID int64) (err error) {
	start := time.Now()
	defer func() { observe("delete_loan", start, err) }()

	tag, err := pick(r.db, tx).Exec(ctx, `DELETE FROM loans WHERE id = $1`, loanID)
	if err != nil {
		return fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: loan %d", apperrors.ErrNotFound, loanID)
	}
	return nil
}

const repaymentColumns = `id, date, amount, interest, penalty, savings, remarks, loan_id, member_id`

func scanRepayment(row pgx.Row) (*ledger.Repayment, error) {
	var p ledger.Repayment
	var rawDate string
	if err := row.Scan(&p.ID, &rawDate, &p.Amount, &p.Interest, &p.Penalty, &p.Savings, &p.Remarks, &p.LoanID, &p.MemberID); err != nil {
		return nil, err
	}
	date, err := scanDate(rawDate)
	if err != nil {
		return nil, err
	}
	p.Date = date
	return &p, nil
}

func (r *LedgerRepository) GetRepayment(ctx context.Context, tx pgx.Tx, repaymentID int64) (p *ledger.Repayment, err error) {
	start := time.Now()
	defer func() { observe("get_repayment", start, err) }()

	p, err = scanRepayment(pick(r.db, tx).QueryRow(ctx,
		`SELECT `+repaymentColumns+` FROM repayments WHERE id = $1`, repaymentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: repayment %d", apperrors.ErrNotFound, repaymentID)
		}
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return p, nil
}

func (r *LedgerRepository) listRepayments(ctx context.Context, tx pgx.Tx, query string, args ...any) ([]ledger.Repayment, error) {
	rows, err := pick(r.db, tx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	var repayments []ledger.Repayment
	for rows.Next() {
		p, err := scanRepayment(rows)
		if err != nil {
			return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
		}
		repayments = append(repayments, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return repayments, nil
}

func (r *LedgerRepository) ListRepaymentsByMember(ctx context.Context, tx pgx.Tx, memberID int64) (repayments []ledger.Repayment, err error) {
	start := time.Now()
	defer func() { observe("list_repayments_by_member", start, err) }()

	repayments, err = r.listRepayments(ctx, tx,
		`SELECT `+repaymentColumns+` FROM repayments WHERE member_id = $1 ORDER BY date, id`, memberID)
	return repayments, err
}

func (r *LedgerRepository) ListRepaymentsByLoan(ctx context.Context, tx pgx.Tx, loanID int64) (repayments []ledger.Repayment, err error) {
	start := time.Now()
	defer func() { observe("list_repayments_by_loan", start, err) }()

	repayments, err = r.listRepayments(ctx, tx,
		`SELECT `+repaymentColumns+` FROM repayments WHERE loan_id = $1 ORDER BY date, id`, loanID)
	return repayments, err
}

func (r *LedgerRepository) ListAllRepayments(ctx context.Context, tx pgx.Tx) (repayments []ledger.Repayment, err error) {
	start := time.Now()
	defer func() { observe("list_all_repayments", start, err) }()

	repayments, err = r.listRepayments(ctx, tx,
		`SELECT `+repaymentColumns+` FROM repayments ORDER BY date, id`)
	return repayments, err
}

func (r *LedgerRepository) SaveRepayment(ctx context.Context, tx pgx.Tx, p *ledger.Repayment) (saved *ledger.Repayment, err error) {
	start := time.Now()
	defer func() { observe("save_repayment", start, err) }()

	out := *p
	if p.ID == 0 {
		err = pick(r.db, tx).QueryRow(ctx,
			`INSERT INTO repayments (date, amount, interest, penalty, savings, remarks, loan_id, member_id)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`,
			p.Date.String(), p.Amount, p.Interest, p.Penalty, p.Savings, p.Remarks, p.LoanID, p.MemberID,
		).Scan(&out.ID)
	} else {
		res, execErr := pick(r.db, tx).Exec(ctx,
			`UPDATE repayments SET date = $1, amount = $2, interest = $3, penalty = $4, savings = $5,
			 remarks = $6, loan_id = $7 WHERE id = $8`,
			p.Date.String(), p.Amount, p.Interest, p.Penalty, p.Savings, p.Remarks, p.LoanID, p.ID)
		err = execErr
		if err == nil && res.RowsAffected() == 0 {
			err = pgx.ErrNoRows
		}
	}
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: repayment %d", apperrors.ErrNotFound, p.ID)
		}
		r.logger.ErrorContext(ctx, "Failed to save repayment", "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return &out, nil
}

func (r *LedgerRepository) DeleteRepayment(ctx context.Context, tx pgx.Tx, repaymentID int64) (err error) {
	start := time.Now()
	defer func() { observe("delete_repayment", start, err) }()

	tag, err := pick(r.db, tx).Exec(ctx, `DELETE FROM repayments WHERE id = $1`, repaymentID)
	if err != nil {
		return fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: repayment %d", apperrors.ErrNotFound, repaymentID)
	}
	return nil
}

func (r *LedgerRepository) DeleteRepaymentsByLoan(ctx context.Context, tx pgx.Tx, loanID int64) (err error) {
	start := time.Now()
	defer func() { observe("delete_repayments_by_loan", start, err) }()

	if _, err = pick(r.db, tx).Exec(ctx, `DELETE FROM repayments WHERE loan_id = $1`, loanID); err != nil {
		return fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return nil
}

// GetSettings reads the singleton settings row. ErrNotFound signals the
// caller to seed defaults.
func (r *LedgerRepository) GetSettings(ctx context.Context, tx pgx.Tx) (s *ledger.Settings, err error) {
	start := time.Now()
	defer func() { observe("get_settings", start, err) }()

	var out ledger.Settings
	err = pick(r.db, tx).QueryRow(ctx,
		`SELECT installment_months, account_no FROM settings WHERE id = 1`,
	).Scan(&out.InstallmentMonths, &out.AccountNo)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: settings", apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return &out, nil
}

func (r *LedgerRepository) SaveSettings(ctx context.Context, tx pgx.Tx, s *ledger.Settings) (err error) {
	start := time.Now()
	defer func() { observe("save_settings", start, err) }()

	_, err = pick(r.db, tx).Exec(ctx,
		`INSERT INTO settings (id, installment_months, account_no) VALUES (1, $1, $2)
		 ON CONFLICT (id) DO UPDATE SET installment_months = EXCLUDED.installment_months,
		 account_no = EXCLUDED.account_no`,
		s.InstallmentMonths, s.AccountNo)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to save settings", "error", err)
		return fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return nil
}
