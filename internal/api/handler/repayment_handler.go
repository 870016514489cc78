package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	"sahakari-ledger/internal/api/handler/dto"
	"sahakari-ledger/internal/domain/ledger"
	"sahakari-ledger/internal/pkg/apperrors"
	"sahakari-ledger/internal/pkg/bsdate"
)

type RepaymentHandler struct {
	service ledger.RepaymentService
	logger  *slog.Logger
}

func NewRepaymentHandler(s ledger.RepaymentService, l *slog.Logger) *RepaymentHandler {
	if s == nil {
		panic("repayment service cannot be nil")
	}
	if l == nil {
		panic("logger cannot be nil")
	}
	return &RepaymentHandler{
		service: s,
		logger:  l.With("component", "RepaymentHandler"),
	}
}

// CreateRepayment handles POST /repayments
func (h *RepaymentHandler) CreateRepayment(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateRepaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	created, err := h.service.CreateRepayment(r.Context(), req.MemberID, req.Input())
	if err != nil {
		h.logger.Log(r.Context(), expectedLevel(err), "Service failed to create repayment", slog.Any("error", err))
		respondError(w, err)
		return
	}

	resp := dto.NewRepaymentResponse(created)
	h.logger.InfoContext(r.Context(), "Repayment created successfully", slog.String("repaymentID", resp.RepaymentID))
	respondJSON(w, http.StatusCreated, resp)
}

// GetRepayment handles GET /repayments/{repaymentID}
func (h *RepaymentHandler) GetRepayment(w http.ResponseWriter, r *http.Request) {
	repaymentID, err := idFromURL(r, "repaymentID")
	if err != nil {
		respondError(w, err)
		return
	}

	p, err := h.service.GetRepayment(r.Context(), repaymentID)
	if err != nil {
		h.logger.Log(r.Context(), expectedLevel(err), "Service failed to get repayment", slog.Any("error", err))
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewRepaymentResponse(p))
}

// UpdateRepayment handles PUT /repayments/{repaymentID}
func (h *RepaymentHandler) UpdateRepayment(w http.ResponseWriter, r *http.Request) {
	repaymentID, err := idFromURL(r, "repaymentID")
	if err != nil {
		respondError(w, err)
		return
	}

	var req dto.UpdateRepaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	updated, err := h.service.EditRepayment(r.Context(), repaymentID, req.Input())
	if err != nil {
		h.logger.Log(r.Context(), expectedLevel(err), "Service failed to update repayment", slog.Any("error", err))
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Repayment updated successfully", slog.Int64("repaymentID", repaymentID))
	respondJSON(w, http.StatusOK, dto.NewRepaymentResponse(updated))
}

// DeleteRepayment handles DELETE /repayments/{repaymentID}
func (h *RepaymentHandler) DeleteRepayment(w http.ResponseWriter, r *http.Request) {
	repaymentID, err := idFromURL(r, "repaymentID")
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.service.DeleteRepayment(r.Context(), repaymentID); err != nil {
		h.logger.Log(r.Context(), expectedLevel(err), "Service failed to delete repayment", slog.Any("error", err))
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Repayment deleted successfully", slog.Int64("repaymentID", repaymentID))
	respondJSON(w, http.StatusNoContent, nil)
}

// ListMemberRepayments handles GET /members/{memberID}/repayments
func (h *RepaymentHandler) ListMemberRepayments(w http.ResponseWriter, r *http.Request) {
	memberID, err := idFromURL(r, "memberID")
	if err != nil {
		respondError(w, err)
		return
	}

	repayments, err := h.service.ListRepaymentsByMember(r.Context(), memberID)
	if err != nil {
		h.logger.Log(r.Context(), expectedLevel(err), "Service failed to list member repayments", slog.Any("error", err))
		respondError(w, err)
		return
	}

	resp := make([]dto.RepaymentResponse, len(repayments))
	for i := range repayments {
		resp[i] = dto.NewRepaymentResponse(&repayments[i])
	}
	respondJSON(w, http.StatusOK, resp)
}

// SuggestRepayment handles GET /members/{memberID}/repayments/suggestion?date=YYYY-MM-DD
func (h *RepaymentHandler) SuggestRepayment(w http.ResponseWriter, r *http.Request) {
	memberID, err := idFromURL(r, "memberID")
	if err != nil {
		respondError(w, err)
		return
	}

	date := r.URL.Query().Get("date")
	if _, perr := bsdate.Parse(date); perr != nil {
		respondError(w, fmt.Errorf("%w: invalid or missing date query parameter: %s", apperrors.ErrInvalidArgument, date))
		return
	}

	suggestion, err := h.service.Suggest(r.Context(), memberID, date)
	if err != nil {
		h.logger.Log(r.Context(), expectedLevel(err), "Service failed to compute repayment suggestion", slog.Any("error", err))
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewSuggestionResponse(suggestion))
}
