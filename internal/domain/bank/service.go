package bank

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	"sahakari-ledger/internal/event"
	"sahakari-ledger/internal/infrastructure/monitoring"
)

// TransactionInput carries the caller-supplied fields of a bank transaction.
type TransactionInput struct {
	Date    string
	Amount  decimal.Decimal
	Type    string
	Remarks string
}

type Service interface {
	CreateTransaction(ctx context.Context, in TransactionInput) (*Transaction, error)

	EditTransaction(ctx context.Context, id int64, in TransactionInput) (*Transaction, error)

	DeleteTransaction(ctx context.Context, id int64) error

	GetTransaction(ctx context.Context, id int64) (*Transaction, error)

	ListTransactions(ctx context.Context) ([]Transaction, error)
}

var _ Service = (*service)(nil)

type service struct {
	repo   Repository
	pub    event.Publisher
	logger *slog.Logger
}

func NewService(repo Repository, pub event.Publisher, logger *slog.Logger) Service {
	if repo == nil {
		panic("bank repository cannot be nil")
	}
	if pub == nil {
		pub = event.NoopPublisher{}
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &service{
		repo:   repo,
		pub:    pub,
		logger: logger.With(slog.String("component", "bankService")),
	}
}

func (s *service) CreateTransaction(ctx context.Context, in TransactionInput) (created *Transaction, err error) {
	defer func() { monitoring.ObserveMutation("bank_transaction", "create", err) }()

	date, txType, errs := validate(in.Date, in.Amount, in.Type)
	if verr := errs.AsError(); verr != nil {
		return nil, verr
	}

	created, err = s.repo.SaveTransaction(ctx, nil, &Transaction{
		Date:    date,
		Amount:  in.Amount,
		Type:    txType,
		Remarks: in.Remarks,
	})
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "Bank transaction created", slog.Int64("id", created.ID), slog.String("type", string(txType)))
	s.publish(ctx, "created", created.ID, date.String())
	return created, nil
}

func (s *service) EditTransaction(ctx context.Context, id int64, in TransactionInput) (updated *Transaction, err error) {
	defer func() { monitoring.ObserveMutation("bank_transaction", "edit", err) }()

	date, txType, errs := validate(in.Date, in.Amount, in.Type)
	if verr := errs.AsError(); verr != nil {
		return nil, verr
	}

	existing, err := s.repo.GetTransaction(ctx, nil, id)
	if err != nil {
		return nil, err
	}

	existing.Date = date
	existing.Amount = in.Amount
	existing.Type = txType
	existing.Remarks = in.Remarks

	updated, err = s.repo.SaveTransaction(ctx, nil, existing)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "Bank transaction edited", slog.Int64("id", id))
	s.publish(ctx, "edited", id, date.String())
	return updated, nil
}

func (s *service) DeleteTransaction(ctx context.Context, id int64) (err error) {
	defer func() { monitoring.ObserveMutation("bank_transaction", "delete", err) }()

	existing, err := s.repo.GetTransaction(ctx, nil, id)
	if err != nil {
		return err
	}
	if err = s.repo.DeleteTransaction(ctx, nil, id); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "Bank transaction deleted", slog.Int64("id", id))
	s.publish(ctx, "deleted", id, existing.Date.String())
	return nil
}

func (s *service) GetTransaction(ctx context.Context, id int64) (*Transaction, error) {
	return s.repo.GetTransaction(ctx, nil, id)
}

func (s *service) ListTransactions(ctx context.Context) ([]Transaction, error) {
	return s.repo.ListTransactions(ctx, nil)
}

func (s *service) publish(ctx context.Context, op string, id int64, date string) {
	e := event.NewLedgerMutationEvent("bank_transaction", op, id, 0, date)
	if err := s.pub.PublishLedgerMutation(ctx, e); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish ledger mutation event", slog.Any("error", err))
	}
}
