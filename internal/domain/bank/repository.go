package bank

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// Repository is the persistence contract for bank transactions. A nil tx
// runs against the pool.
type Repository interface {
	GetTransaction(ctx context.Context, tx pgx.Tx, id int64) (*Transaction, error)

	ListTransactions(ctx context.Context, tx pgx.Tx) ([]Transaction, error)

	// SaveTransaction inserts when ID is zero, updates otherwise.
	SaveTransaction(ctx context.Context, tx pgx.Tx, t *Transaction) (*Transaction, error)

	DeleteTransaction(ctx context.Context, tx pgx.Tx, id int64) error
}
