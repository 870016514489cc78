package ledger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"sahakari-ledger/internal/pkg/apperrors"
)

func TestEnsureSettingsSeedsDefaults(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	svc := NewSettingsService(repo, logger)

	repo.On("GetSettings", ctx, nil).Return(nil, apperrors.ErrNotFound)
	repo.On("SaveSettings", ctx, nil, mock.AnythingOfType("*ledger.Settings")).Return(nil)

	err := svc.EnsureSettings(ctx, Settings{InstallmentMonths: 40, AccountNo: "9001"})
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestEnsureSettingsKeepsExistingRow(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	svc := NewSettingsService(repo, logger)

	repo.On("GetSettings", ctx, nil).Return(&Settings{InstallmentMonths: 36, AccountNo: "9001"}, nil)

	err := svc.EnsureSettings(ctx, Settings{InstallmentMonths: 40, AccountNo: "9001"})
	require.NoError(t, err)
	repo.AssertNotCalled(t, "SaveSettings", mock.Anything, mock.Anything, mock.Anything)
}

func TestEnsureSettingsRejectsInvalidDefaults(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	svc := NewSettingsService(repo, logger)

	repo.On("GetSettings", ctx, nil).Return(nil, apperrors.ErrNotFound)

	err := svc.EnsureSettings(ctx, Settings{InstallmentMonths: 0, AccountNo: ""})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	repo.AssertNotCalled(t, "SaveSettings", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateSettings(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	svc := NewSettingsService(repo, logger)

	repo.On("SaveSettings", ctx, nil, mock.AnythingOfType("*ledger.Settings")).Return(nil)

	updated, err := svc.UpdateSettings(ctx, Settings{InstallmentMonths: 36, AccountNo: "9001"})
	require.NoError(t, err)
	assert.Equal(t, 36, updated.InstallmentMonths)
}

func TestUpdateSettingsRejectsNonPositiveMonths(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	svc := NewSettingsService(repo, logger)

	_, err := svc.UpdateSettings(ctx, Settings{InstallmentMonths: -1, AccountNo: "9001"})
	require.Error(t, err)

	var fields apperrors.FieldErrors
	require.ErrorAs(t, err, &fields)
	assert.Contains(t, fields, "installment_months")
	repo.AssertNotCalled(t, "SaveSettings", mock.Anything, mock.Anything, mock.Anything)
}
