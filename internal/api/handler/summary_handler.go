package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	"sahakari-ledger/internal/api/handler/dto"
	"sahakari-ledger/internal/domain/summary"
	"sahakari-ledger/internal/pkg/apperrors"
	"sahakari-ledger/internal/pkg/bsdate"
)

type SummaryHandler struct {
	service summary.Service
	logger  *slog.Logger
}

func NewSummaryHandler(s summary.Service, l *slog.Logger) *SummaryHandler {
	if s == nil {
		panic("summary service cannot be nil")
	}
	if l == nil {
		panic("logger cannot be nil")
	}
	return &SummaryHandler{
		service: s,
		logger:  l.With("component", "SummaryHandler"),
	}
}

// MemberWise handles GET /summaries/member-wise
func (h *SummaryHandler) MemberWise(w http.ResponseWriter, r *http.Request) {
	s, err := h.service.MemberWise(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Service failed to build member-wise summary", slog.Any("error", err))
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewMemberWiseSummaryResponse(s))
}

// DateRange handles GET /summaries/date-range?start=YYYY-MM-DD&end=YYYY-MM-DD
func (h *SummaryHandler) DateRange(w http.ResponseWriter, r *http.Request) {
	start := r.URL.Query().Get("start")
	end := r.URL.Query().Get("end")
	if _, err := bsdate.Parse(start); err != nil {
		respondError(w, fmt.Errorf("%w: invalid or missing start query parameter: %s", apperrors.ErrInvalidArgument, start))
		return
	}
	if _, err := bsdate.Parse(end); err != nil {
		respondError(w, fmt.Errorf("%w: invalid or missing end query parameter: %s", apperrors.ErrInvalidArgument, end))
		return
	}

	s, err := h.service.DateRange(r.Context(), start, end)
	if err != nil {
		h.logger.Log(r.Context(), expectedLevel(err), "Service failed to build date range summary", slog.Any("error", err))
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewDateRangeSummaryResponse(s))
}

// Monthly handles GET /summaries/monthly?date=YYYY-MM-DD
func (h *SummaryHandler) Monthly(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if _, err := bsdate.Parse(date); err != nil {
		respondError(w, fmt.Errorf("%w: invalid or missing date query parameter: %s", apperrors.ErrInvalidArgument, date))
		return
	}

	s, err := h.service.Monthly(r.Context(), date)
	if err != nil {
		h.logger.Log(r.Context(), expectedLevel(err), "Service failed to build monthly summary", slog.Any("error", err))
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewDateRangeSummaryResponse(s))
}

// MemberStatement handles GET /members/{memberID}/statement
func (h *SummaryHandler) MemberStatement(w http.ResponseWriter, r *http.Request) {
	memberID, err := idFromURL(r, "memberID")
	if err != nil {
		respondError(w, err)
		return
	}

	s, err := h.service.MemberStatement(r.Context(), memberID)
	if err != nil {
		h.logger.Log(r.Context(), expectedLevel(err), "Service failed to build member statement", slog.Any("error", err))
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewMemberStatementResponse(s))
}

// BankBook handles GET /summaries/bank-book
func (h *SummaryHandler) BankBook(w http.ResponseWriter, r *http.Request) {
	b, err := h.service.BankBook(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Service failed to build bank book", slog.Any("error", err))
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewBankBookResponse(b))
}
