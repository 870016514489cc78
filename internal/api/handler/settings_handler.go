package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	"sahakari-ledger/internal/api/handler/dto"
	"sahakari-ledger/internal/domain/ledger"
	"sahakari-ledger/internal/pkg/apperrors"
)

type SettingsHandler struct {
	service ledger.SettingsService
	logger  *slog.Logger
}

func NewSettingsHandler(s ledger.SettingsService, l *slog.Logger) *SettingsHandler {
	if s == nil {
		panic("settings service cannot be nil")
	}
	if l == nil {
		panic("logger cannot be nil")
	}
	return &SettingsHandler{
		service: s,
		logger:  l.With("component", "SettingsHandler"),
	}
}

// GetSettings handles GET /settings
func (h *SettingsHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	s, err := h.service.GetSettings(r.Context())
	if err != nil {
		h.logger.Log(r.Context(), expectedLevel(err), "Service failed to get settings", slog.Any("error", err))
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewSettingsResponse(s))
}

// UpdateSettings handles PUT /settings
func (h *SettingsHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateSettingsRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	updated, err := h.service.UpdateSettings(r.Context(), ledger.Settings{
		InstallmentMonths: req.InstallmentMonths,
		AccountNo:         req.AccountNo,
	})
	if err != nil {
		h.logger.Log(r.Context(), expectedLevel(err), "Service failed to update settings", slog.Any("error", err))
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Settings updated successfully",
		slog.Int("installmentMonths", updated.InstallmentMonths))
	respondJSON(w, http.StatusOK, dto.NewSettingsResponse(updated))
}
