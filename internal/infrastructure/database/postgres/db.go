package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"sahakari-ledger/internal/infrastructure/monitoring"
	"sahakari-ledger/internal/pkg/apperrors"
	"sahakari-ledger/internal/pkg/bsdate"
)

// DBPool is the subset of pgxpool.Pool the repositories use; pgxmock
// satisfies it for tests.
type DBPool interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Close()
}

var _ DBPool = (*pgxpool.Pool)(nil)

var errMsgFormat = "%w: %w"

// querier is satisfied by both the pool and a pgx.Tx, so every repository
// method can run inside the transaction it is handed, or on the pool when
// handed none.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func pick(db DBPool, tx pgx.Tx) querier {
	if tx != nil {
		return tx
	}
	return db
}

// observe records the duration and outcome of a named query.
func observe(queryName string, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	monitoring.DB.QueryDuration.WithLabelValues(queryName, status).Observe(time.Since(start).Seconds())
}

const uniqueViolationCode = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

// scanDate converts a stored date column back into a calendar date. Stored
// dates were validated on the way in, so a failure here is a data error.
func scanDate(raw string) (bsdate.Date, error) {
	d, err := bsdate.Parse(raw)
	if err != nil {
		return bsdate.Date{}, fmt.Errorf("%w: corrupt date column %q: %w", apperrors.ErrDatabase, raw, err)
	}
	return d, nil
}
