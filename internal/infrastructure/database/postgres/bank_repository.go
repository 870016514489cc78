package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"sahakari-ledger/internal/domain/bank"
	"sahakari-ledger/internal/pkg/apperrors"
)

type BankRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ bank.Repository = (*BankRepository)(nil)

func NewBankRepository(db DBPool, logger *slog.Logger) *BankRepository {
	return &BankRepository{db: db, logger: logger.With("component", "BankRepository")}
}

const bankColumns = `id, date, amount, type, remarks`

func scanTransaction(row pgx.Row) (*bank.Transaction, error) {
	var t bank.Transaction
	var rawDate, rawType string
	if err := row.Scan(&t.ID, &rawDate, &t.Amount, &rawType, &t.Remarks); err != nil {
		return nil, err
	}
	date, err := scanDate(rawDate)
	if err != nil {
		return nil, err
	}
	t.Date = date
	txType, ok := bank.ParseTransactionType(rawType)
	if !ok {
		return nil, fmt.Errorf("%w: corrupt type column %q", apperrors.ErrDatabase, rawType)
	}
	t.Type = txType
	return &t, nil
}

func (r *BankRepository) GetTransaction(ctx context.Context, tx pgx.Tx, id int64) (t *bank.Transaction, err error) {
	start := time.Now()
	defer func() { observe("get_bank_transaction", start, err) }()

	t, err = scanTransaction(pick(r.db, tx).QueryRow(ctx,
		`SELECT `+bankColumns+` FROM bank_transactions WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: bank transaction %d", apperrors.ErrNotFound, id)
		}
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return t, nil
}

func (r *BankRepository) ListTransactions(ctx context.Context, tx pgx.Tx) (transactions []bank.Transaction, err error) {
	start := time.Now()
	defer func() { observe("list_bank_transactions", start, err) }()

	rows, err := pick(r.db, tx).Query(ctx,
		`SELECT `+bankColumns+` FROM bank_transactions ORDER BY date, id`)
	if err != nil {
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	for rows.Next() {
		t, scanErr := scanTransaction(rows)
		if scanErr != nil {
			err = scanErr
			return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
		}
		transactions = append(transactions, *t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return transactions, nil
}

func (r *BankRepository) SaveTransaction(ctx context.Context, tx pgx.Tx, t *bank.Transaction) (saved *bank.Transaction, err error) {
	start := time.Now()
	defer func() { observe("save_bank_transaction", start, err) }()

	out := *t
	if t.ID == 0 {
		err = pick(r.db, tx).QueryRow(ctx,
			`INSERT INTO bank_transactions (date, amount, type, remarks) VALUES ($1, $2, $3, $4) RETURNING id`,
			t.Date.String(), t.Amount, string(t.Type), t.Remarks,
		).Scan(&out.ID)
	} else {
		res, execErr := pick(r.db, tx).Exec(ctx,
			`UPDATE bank_transactions SET date = $1, amount = $2, type = $3, remarks = $4 WHERE id = $5`,
			t.Date.String(), t.Amount, string(t.Type), t.Remarks, t.ID)
		err = execErr
		if err == nil && res.RowsAffected() == 0 {
			err = pgx.ErrNoRows
		}
	}
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: bank transaction %d", apperrors.ErrNotFound, t.ID)
		}
		r.logger.ErrorContext(ctx, "Failed to save bank transaction", "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return &out, nil
}

func (r *BankRepository) DeleteTransaction(ctx context.Context, tx pgx.Tx, id int64) (err error) {
	start := time.Now()
	defer func() { observe("delete_bank_transaction", start, err) }()

	tag, err := pick(r.db, tx).Exec(ctx, `DELETE FROM bank_transactions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: bank transaction %d", apperrors.ErrNotFound, id)
	}
	return nil
}
