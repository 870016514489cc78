package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	"sahakari-ledger/internal/api/handler/dto"
	"sahakari-ledger/internal/domain/bank"
	"sahakari-ledger/internal/pkg/apperrors"
)

type BankHandler struct {
	service bank.Service
	logger  *slog.Logger
}

func NewBankHandler(s bank.Service, l *slog.Logger) *BankHandler {
	if s == nil {
		panic("bank service cannot be nil")
	}
	if l == nil {
		panic("logger cannot be nil")
	}
	return &BankHandler{
		service: s,
		logger:  l.With("component", "BankHandler"),
	}
}

// CreateTransaction handles POST /bank-transactions
func (h *BankHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateBankTransactionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	created, err := h.service.CreateTransaction(r.Context(), req.Input())
	if err != nil {
		h.logger.Log(r.Context(), expectedLevel(err), "Service failed to create bank transaction", slog.Any("error", err))
		respondError(w, err)
		return
	}

	resp := dto.NewBankTransactionResponse(created)
	h.logger.InfoContext(r.Context(), "Bank transaction created successfully", slog.String("transactionID", resp.TransactionID))
	respondJSON(w, http.StatusCreated, resp)
}

// GetTransaction handles GET /bank-transactions/{transactionID}
func (h *BankHandler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "transactionID")
	if err != nil {
		respondError(w, err)
		return
	}

	t, err := h.service.GetTransaction(r.Context(), id)
	if err != nil {
		h.logger.Log(r.Context(), expectedLevel(err), "Service failed to get bank transaction", slog.Any("error", err))
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewBankTransactionResponse(t))
}

// ListTransactions handles GET /bank-transactions
func (h *BankHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	transactions, err := h.service.ListTransactions(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Service failed to list bank transactions", slog.Any("error", err))
		respondError(w, err)
		return
	}

	resp := make([]dto.BankTransactionResponse, len(transactions))
	for i := range transactions {
		resp[i] = dto.NewBankTransactionResponse(&transactions[i])
	}
	respondJSON(w, http.StatusOK, resp)
}

// UpdateTransaction handles PUT /bank-transactions/{transactionID}
func (h *BankHandler) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "transactionID")
	if err != nil {
		respondError(w, err)
		return
	}

	var req dto.CreateBankTransactionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	updated, err := h.service.EditTransaction(r.Context(), id, req.Input())
	if err != nil {
		h.logger.Log(r.Context(), expectedLevel(err), "Service failed to update bank transaction", slog.Any("error", err))
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Bank transaction updated successfully", slog.Int64("transactionID", id))
	respondJSON(w, http.StatusOK, dto.NewBankTransactionResponse(updated))
}

// DeleteTransaction handles DELETE /bank-transactions/{transactionID}
func (h *BankHandler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "transactionID")
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.service.DeleteTransaction(r.Context(), id); err != nil {
		h.logger.Log(r.Context(), expectedLevel(err), "Service failed to delete bank transaction", slog.Any("error", err))
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Bank transaction deleted successfully", slog.Int64("transactionID", id))
	respondJSON(w, http.StatusNoContent, nil)
}
