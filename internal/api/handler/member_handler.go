package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"sahakari-ledger/internal/api/handler/dto"
	"sahakari-ledger/internal/domain/member"
	"sahakari-ledger/internal/pkg/apperrors"
)

type MemberHandler struct {
	service member.Service
	logger  *slog.Logger
}

func NewMemberHandler(s member.Service, l *slog.Logger) *MemberHandler {
	if s == nil {
		panic("member service cannot be nil")
	}
	if l == nil {
		panic("logger cannot be nil")
	}
	return &MemberHandler{
		service: s,
		logger:  l.With("component", "MemberHandler"),
	}
}

// CreateMember handles POST /members
func (h *MemberHandler) CreateMember(w http.ResponseWriter, r *http.Request) {
	h.logger.DebugContext(r.Context(), "Received create member request")

	var req dto.CreateMemberRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		h.logger.WarnContext(r.Context(), "Request validation failed", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	created, err := h.service.CreateMember(r.Context(), req.AccountNo, req.Name)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Service failed to create member", slog.Any("error", err))
		respondError(w, err)
		return
	}

	resp := dto.NewMemberResponse(created)
	h.logger.InfoContext(r.Context(), "Member created successfully", slog.String("memberID", resp.MemberID))
	respondJSON(w, http.StatusCreated, resp)
}

// GetMember handles GET /members/{memberID}
func (h *MemberHandler) GetMember(w http.ResponseWriter, r *http.Request) {
	memberID, err := idFromURL(r, "memberID")
	if err != nil {
		respondError(w, err)
		return
	}

	m, err := h.service.GetMember(r.Context(), memberID)
	if err != nil {
		level := slog.LevelWarn
		if !errors.Is(err, apperrors.ErrNotFound) {
			level = slog.LevelError
		}
		h.logger.Log(r.Context(), level, "Service failed to get member", slog.Any("error", err))
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewMemberResponse(m))
}

// ListMembers handles GET /members
func (h *MemberHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	members, err := h.service.ListMembers(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Service failed to list members", slog.Any("error", err))
		respondError(w, err)
		return
	}

	resp := make([]dto.MemberResponse, len(members))
	for i := range members {
		resp[i] = dto.NewMemberResponse(&members[i])
	}
	respondJSON(w, http.StatusOK, resp)
}

// UpdateMember handles PUT /members/{memberID}
func (h *MemberHandler) UpdateMember(w http.ResponseWriter, r *http.Request) {
	memberID, err := idFromURL(r, "memberID")
	if err != nil {
		respondError(w, err)
		return
	}

	var req dto.UpdateMemberRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	updated, err := h.service.UpdateMember(r.Context(), memberID, req.AccountNo, req.Name)
	if err != nil {
		level := slog.LevelWarn
		if !errors.Is(err, apperrors.ErrNotFound) && !errors.Is(err, apperrors.ErrValidation) {
			level = slog.LevelError
		}
		h.logger.Log(r.Context(), level, "Service failed to update member", slog.Any("error", err))
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Member updated successfully", slog.Int64("memberID", memberID))
	respondJSON(w, http.StatusOK, dto.NewMemberResponse(updated))
}

// DeleteMember handles DELETE /members/{memberID}
func (h *MemberHandler) DeleteMember(w http.ResponseWriter, r *http.Request) {
	memberID, err := idFromURL(r, "memberID")
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.service.DeleteMember(r.Context(), memberID); err != nil {
		level := slog.LevelWarn
		if !errors.Is(err, apperrors.ErrNotFound) {
			level = slog.LevelError
		}
		h.logger.Log(r.Context(), level, "Service failed to delete member", slog.Any("error", err))
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Member deleted successfully", slog.Int64("memberID", memberID))
	respondJSON(w, http.StatusNoContent, nil)
}
