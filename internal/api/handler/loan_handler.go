package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"sahakari-ledger/internal/api/handler/dto"
	"sahakari-ledger/internal/domain/ledger"
	"sahakari-ledger/internal/pkg/apperrors"
)

type LoanHandler struct {
	service ledger.LoanService
	logger  *slog.Logger
}

func NewLoanHandler(s ledger.LoanService, l *slog.Logger) *LoanHandler {
	if s == nil {
		panic("loan service cannot be nil")
	}
	if l == nil {
		panic("logger cannot be nil")
	}
	return &LoanHandler{
		service: s,
		logger:  l.With("component", "LoanHandler"),
	}
}

// expectedLevel keeps ordering and business rule rejections at warn; they
// are routine outcomes, not failures of the service.
func expectedLevel(err error) slog.Level {
	switch {
	case errors.Is(err, apperrors.ErrNotFound),
		errors.Is(err, apperrors.ErrValidation),
		errors.Is(err, apperrors.ErrOrdering),
		errors.Is(err, apperrors.ErrBusinessRule):
		return slog.LevelWarn
	}
	return slog.LevelError
}

// CreateLoan handles POST /loans
func (h *LoanHandler) CreateLoan(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateLoanRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	amount, _ := decimal.NewFromString(req.Amount)
	created, err := h.service.CreateLoan(r.Context(), req.MemberID, req.Date, amount, req.IsSpecial, req.Remarks)
	if err != nil {
		h.logger.Log(r.Context(), expectedLevel(err), "Service failed to create loan", slog.Any("error", err))
		respondError(w, err)
		return
	}

	resp := dto.NewLoanResponse(created)
	h.logger.InfoContext(r.Context(), "Loan created successfully", slog.String("loanID", resp.LoanID))
	respondJSON(w, http.StatusCreated, resp)
}

// GetLoan handles GET /loans/{loanID}
func (h *LoanHandler) GetLoan(w http.ResponseWriter, r *http.Request) {
	loanID, err := idFromURL(r, "loanID")
	if err != nil {
		respondError(w, err)
		return
	}

	l, err := h.service.GetLoan(r.Context(), loanID)
	if err != nil {
		h.logger.Log(r.Context(), expectedLevel(err), "Service failed to get loan", slog.Any("error", err))
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewLoanResponse(l))
}

// UpdateLoan handles PUT /loans/{loanID}
func (h *LoanHandler) UpdateLoan(w http.ResponseWriter, r *http.Request) {
	loanID, err := idFromURL(r, "loanID")
	if err != nil {
		respondError(w, err)
		return
	}

	var req dto.UpdateLoanRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	amount, _ := decimal.NewFromString(req.Amount)
	updated, err := h.service.EditLoan(r.Context(), loanID, req.Date, amount, req.IsSpecial, req.Remarks)
	if err != nil {
		h.logger.Log(r.Context(), expectedLevel(err), "Service failed to update loan", slog.Any("error", err))
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Loan updated successfully", slog.Int64("loanID", loanID))
	respondJSON(w, http.StatusOK, dto.NewLoanResponse(updated))
}

// DeleteLoan handles DELETE /loans/{loanID}
func (h *LoanHandler) DeleteLoan(w http.ResponseWriter, r *http.Request) {
	loanID, err := idFromURL(r, "loanID")
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.service.DeleteLoan(r.Context(), loanID); err != nil {
		h.logger.Log(r.Context(), expectedLevel(err), "Service failed to delete loan", slog.Any("error", err))
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Loan deleted successfully", slog.Int64("loanID", loanID))
	respondJSON(w, http.StatusNoContent, nil)
}

// GetOutstanding handles GET /loans/{loanID}/outstanding
func (h *LoanHandler) GetOutstanding(w http.ResponseWriter, r *http.Request) {
	loanID, err := idFromURL(r, "loanID")
	if err != nil {
		respondError(w, err)
		return
	}

	outstanding, err := h.service.OutstandingBalance(r.Context(), loanID)
	if err != nil {
		h.logger.Log(r.Context(), expectedLevel(err), "Service failed to compute outstanding balance", slog.Any("error", err))
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.OutstandingResponse{
		LoanID:      strconv.FormatInt(loanID, 10),
		Outstanding: outstanding.StringFixed(2),
	})
}

// ListMemberLoans handles GET /members/{memberID}/loans
func (h *LoanHandler) ListMemberLoans(w http.ResponseWriter, r *http.Request) {
	memberID, err := idFromURL(r, "memberID")
	if err != nil {
		respondError(w, err)
		return
	}

	loans, err := h.service.ListLoansByMember(r.Context(), memberID)
	if err != nil {
		h.logger.Log(r.Context(), expectedLevel(err), "Service failed to list member loans", slog.Any("error", err))
		respondError(w, err)
		return
	}

	resp := make([]dto.LoanResponse, len(loans))
	for i := range loans {
		resp[i] = dto.NewLoanResponse(&loans[i])
	}
	respondJSON(w, http.StatusOK, resp)
}
