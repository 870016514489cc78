package member

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"sahakari-ledger/internal/pkg/apperrors"
)

var logger = slog.New(slog.NewTextHandler(io.Discard, nil))

type TxMock struct {
	pgx.Tx
}

var tx pgx.Tx = &TxMock{}

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	var t pgx.Tx
	if v := args.Get(0); v != nil {
		t = v.(pgx.Tx)
	}
	return t, args.Error(1)
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

func (m *MockRepository) GetMember(ctx context.Context, tx pgx.Tx, memberID int64) (*Member, error) {
	args := m.Called(ctx, tx, memberID)
	var mem *Member
	if v := args.Get(0); v != nil {
		mem = v.(*Member)
	}
	return mem, args.Error(1)
}

func (m *MockRepository) ListMembers(ctx context.Context, tx pgx.Tx) ([]Member, error) {
	args := m.Called(ctx, tx)
	var members []Member
	if v := args.Get(0); v != nil {
		members = v.([]Member)
	}
	return members, args.Error(1)
}

func (m *MockRepository) SaveMember(ctx context.Context, tx pgx.Tx, mem *Member) (*Member, error) {
	args := m.Called(ctx, tx, mem)
	var saved *Member
	if v := args.Get(0); v != nil {
		saved = v.(*Member)
	}
	return saved, args.Error(1)
}

func (m *MockRepository) DeleteMemberCascade(ctx context.Context, tx pgx.Tx, memberID int64) error {
	args := m.Called(ctx, tx, memberID)
	return args.Error(0)
}

func TestCreateMember(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	svc := NewService(repo, logger)

	repo.On("SaveMember", ctx, nil, mock.AnythingOfType("*member.Member")).Return(
		&Member{ID: 1, AccountNo: 101, Name: "Ram Bahadur"}, nil)

	created, err := svc.CreateMember(ctx, 101, "Ram Bahadur")
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
	repo.AssertExpectations(t)
}

func TestCreateMemberRejectsBlankName(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	svc := NewService(repo, logger)

	_, err := svc.CreateMember(ctx, 101, "   ")
	require.Error(t, err)

	var fields apperrors.FieldErrors
	require.ErrorAs(t, err, &fields)
	assert.Contains(t, fields, "name")
	repo.AssertNotCalled(t, "SaveMember", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateMemberRejectsNonPositiveAccountNo(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	svc := NewService(repo, logger)

	_, err := svc.CreateMember(ctx, 0, "Ram Bahadur")
	require.Error(t, err)

	var fields apperrors.FieldErrors
	require.ErrorAs(t, err, &fields)
	assert.Contains(t, fields, "account_no")
}

func TestCreateMemberDuplicateAccountNo(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	svc := NewService(repo, logger)

	repo.On("SaveMember", ctx, nil, mock.AnythingOfType("*member.Member")).Return(
		nil, apperrors.NewValidationError("account_no", "Account number has already been taken."))

	_, err := svc.CreateMember(ctx, 101, "Ram Bahadur")
	require.Error(t, err)

	var verr *apperrors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "account_no", verr.Field)
}

func TestUpdateMemberNotFound(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	svc := NewService(repo, logger)

	repo.On("GetMember", ctx, nil, int64(7)).Return(nil, apperrors.ErrNotFound)

	_, err := svc.UpdateMember(ctx, 7, 101, "Ram Bahadur")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	repo.AssertNotCalled(t, "SaveMember", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateMember(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	svc := NewService(repo, logger)

	repo.On("GetMember", ctx, nil, int64(1)).Return(&Member{ID: 1, AccountNo: 101, Name: "Ram Bahadur"}, nil)
	repo.On("SaveMember", ctx, nil, mock.AnythingOfType("*member.Member")).Return(
		&Member{ID: 1, AccountNo: 102, Name: "Ram B. Thapa"}, nil)

	updated, err := svc.UpdateMember(ctx, 1, 102, "Ram B. Thapa")
	require.NoError(t, err)
	assert.Equal(t, int64(102), updated.AccountNo)
}

func TestDeleteMemberCascades(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	svc := NewService(repo, logger)

	repo.On("BeginTx", ctx).Return(tx, nil)
	repo.On("RollbackTx", ctx, tx).Return(nil)
	repo.On("LockMember", ctx, tx, int64(1)).Return(nil)
	repo.On("DeleteMemberCascade", ctx, tx, int64(1)).Return(nil)
	repo.On("CommitTx", ctx, tx).Return(nil)

	err := svc.DeleteMember(ctx, 1)
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestDeleteMemberNotFound(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	svc := NewService(repo, logger)

	repo.On("BeginTx", ctx).Return(tx, nil)
	repo.On("RollbackTx", ctx, tx).Return(nil)
	repo.On("LockMember", ctx, tx, int64(42)).Return(apperrors.ErrNotFound)

	err := svc.DeleteMember(ctx, 42)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	repo.AssertNotCalled(t, "DeleteMemberCascade", mock.Anything, mock.Anything, mock.Anything)
}
