package ledger

import (
	"context"
	"errors"
	"log/slog"

	"sahakari-ledger/internal/infrastructure/monitoring"
	"sahakari-ledger/internal/pkg/apperrors"
)

type SettingsService interface {
	GetSettings(ctx context.Context) (*Settings, error)

	// UpdateSettings replaces the singleton settings. Existing loans keep
	// the installment computed when they were created.
	UpdateSettings(ctx context.Context, s Settings) (*Settings, error)

	// EnsureSettings seeds the singleton with defaults when no row exists
	// yet. Called once at startup.
	EnsureSettings(ctx context.Context, defaults Settings) error
}

var _ SettingsService = (*settingsService)(nil)

type settingsService struct {
	repo   Repository
	logger *slog.Logger
}

func NewSettingsService(repo Repository, logger *slog.Logger) SettingsService {
	if repo == nil {
		panic("ledger repository cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &settingsService{
		repo:   repo,
		logger: logger.With(slog.String("component", "settingsService")),
	}
}

func (s *settingsService) GetSettings(ctx context.Context) (*Settings, error) {
	return s.repo.GetSettings(ctx, nil)
}

func (s *settingsService) EnsureSettings(ctx context.Context, defaults Settings) error {
	_, err := s.repo.GetSettings(ctx, nil)
	if err == nil {
		return nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return err
	}
	if verr := defaults.Validate().AsError(); verr != nil {
		return verr
	}
	if err := s.repo.SaveSettings(ctx, nil, &defaults); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "Settings seeded with defaults",
		slog.Int("installmentMonths", defaults.InstallmentMonths))
	return nil
}

func (s *settingsService) UpdateSettings(ctx context.Context, settings Settings) (updated *Settings, err error) {
	defer func() { monitoring.ObserveMutation("settings", "update", err) }()

	if verr := settings.Validate().AsError(); verr != nil {
		return nil, verr
	}
	if err = s.repo.SaveSettings(ctx, nil, &settings); err != nil {
		s.logger.ErrorContext(ctx, "Failed to save settings", slog.Any("error", err))
		return nil, err
	}
	s.logger.InfoContext(ctx, "Settings updated", slog.Int("installmentMonths", settings.InstallmentMonths))
	return &settings, nil
}
