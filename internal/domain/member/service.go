package member

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"sahakari-ledger/internal/infrastructure/monitoring"
	"sahakari-ledger/internal/pkg/apperrors"
)

type Service interface {
	CreateMember(ctx context.Context, accountNo int64, name string) (*Member, error)

	UpdateMember(ctx context.Context, memberID, accountNo int64, name string) (*Member, error)

	GetMember(ctx context.Context, memberID int64) (*Member, error)

	ListMembers(ctx context.Context) ([]Member, error)

	// DeleteMember removes the member and cascades to every loan and
	// repayment the member owns, in one transaction.
	DeleteMember(ctx context.Context, memberID int64) error
}

var _ Service = (*service)(nil)

type service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) Service {
	if repo == nil {
		panic("member repository cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &service{
		repo:   repo,
		logger: logger.With(slog.String("component", "memberService")),
	}
}

func (s *service) CreateMember(ctx context.Context, accountNo int64, name string) (m *Member, err error) {
	defer func() { monitoring.ObserveMutation("member", "create", err) }()

	candidate := &Member{AccountNo: accountNo, Name: name}
	if verr := candidate.Validate().AsError(); verr != nil {
		return nil, verr
	}

	created, err := s.repo.SaveMember(ctx, nil, candidate)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to save member", slog.Any("error", err))
		return nil, err
	}
	s.logger.InfoContext(ctx, "Member created", slog.Int64("memberID", created.ID))
	return created, nil
}

func (s *service) UpdateMember(ctx context.Context, memberID, accountNo int64, name string) (m *Member, err error) {
	defer func() { monitoring.ObserveMutation("member", "update", err) }()

	if _, err := s.repo.GetMember(ctx, nil, memberID); err != nil {
		return nil, err
	}

	candidate := &Member{ID: memberID, AccountNo: accountNo, Name: name}
	if verr := candidate.Validate().AsError(); verr != nil {
		return nil, verr
	}

	updated, err := s.repo.SaveMember(ctx, nil, candidate)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to update member", slog.Int64("memberID", memberID), slog.Any("error", err))
		return nil, err
	}
	return updated, nil
}

func (s *service) GetMember(ctx context.Context, memberID int64) (*Member, error) {
	return s.repo.GetMember(ctx, nil, memberID)
}

func (s *service) ListMembers(ctx context.Context) ([]Member, error) {
	return s.repo.ListMembers(ctx, nil)
}

func (s *service) DeleteMember(ctx context.Context, memberID int64) (err error) {
	defer func() { monitoring.ObserveMutation("member", "delete", err) }()

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer s.repo.RollbackTx(ctx, tx)

	if err = s.repo.LockMember(ctx, tx, memberID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: member %d", apperrors.ErrNotFound, memberID)
		}
		return err
	}
	if err = s.repo.DeleteMemberCascade(ctx, tx, memberID); err != nil {
		s.logger.ErrorContext(ctx, "Failed to cascade delete member", slog.Int64("memberID", memberID), slog.Any("error", err))
		return err
	}
	if err = s.repo.CommitTx(ctx, tx); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "Member deleted with loans and repayments", slog.Int64("memberID", memberID))
	return nil
}
