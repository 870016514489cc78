package dto

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"

	"sahakari-ledger/internal/domain/ledger"
	"sahakari-ledger/internal/pkg/bsdate"
)

func formatMoney(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// parseMoney accepts a decimal string; the empty string reads as zero so
// optional money fields can be omitted.
func parseMoney(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

func validDate(s string) error {
	if _, err := bsdate.Parse(s); err != nil {
		return fmt.Errorf("invalid date format (use YYYY-MM-DD): %w", err)
	}
	return nil
}

type CreateLoanRequest struct {
	MemberID  int64  `json:"memberId"`
	Date      string `json:"date"`
	Amount    string `json:"amount"`
	IsSpecial bool   `json:"isSpecial"`
	Remarks   string `json:"remarks"`
}

func (r *CreateLoanRequest) Validate() error {
	if r.MemberID <= 0 {
		return fmt.Errorf("memberId must be positive")
	}
	if err := validDate(r.Date); err != nil {
		return err
	}
	if _, err := decimal.NewFromString(r.Amount); err != nil || r.Amount == "" {
		return fmt.Errorf("invalid amount: %v", err)
	}
	return nil
}

type UpdateLoanRequest struct {
	Date      string `json:"date"`
	Amount    string `json:"amount"`
	IsSpecial bool   `json:"isSpecial"`
	Remarks   string `json:"remarks"`
}

func (r *UpdateLoanRequest) Validate() error {
	if err := validDate(r.Date); err != nil {
		return err
	}
	if _, err := decimal.NewFromString(r.Amount); err != nil || r.Amount == "" {
		return fmt.Errorf("invalid amount: %v", err)
	}
	return nil
}

type LoanResponse struct {
	LoanID      string `json:"loanId"`
	MemberID    string `json:"memberId"`
	Date        string `json:"date"`
	Amount      string `json:"amount"`
	IsSpecial   bool   `json:"isSpecial"`
	Installment string `json:"installment"`
	Remarks     string `json:"remarks,omitempty"`
}

func NewLoanResponse(l *ledger.Loan) LoanResponse {
	if l == nil {
		return LoanResponse{}
	}
	return LoanResponse{
		LoanID:      strconv.FormatInt(l.ID, 10),
		MemberID:    strconv.FormatInt(l.MemberID, 10),
		Date:        l.Date.String(),
		Amount:      formatMoney(l.Amount),
		IsSpecial:   l.IsSpecial,
		Installment: formatMoney(l.Installment),
		Remarks:     l.Remarks,
	}
}

type OutstandingResponse struct {
	LoanID      string `json:"loanId"`
	Outstanding string `json:"outstanding"`
}

type CreateRepaymentRequest struct {
	MemberID int64  `json:"memberId"`
	Date     string `json:"date"`
	Amount   string `json:"amount"`
	Interest string `json:"interest"`
	Penalty  string `json:"penalty"`
	Savings  string `json:"savings"`
	LoanID   *int64 `json:"loanId"`
	Remarks  string `json:"remarks"`
}

func (r *CreateRepaymentRequest) Validate() error {
	if r.MemberID <= 0 {
		return fmt.Errorf("memberId must be positive")
	}
	if err := validDate(r.Date); err != nil {
		return err
	}
	for field, value := range map[string]string{
		"amount": r.Amount, "interest": r.Interest, "penalty": r.Penalty, "savings": r.Savings,
	} {
		if _, err := parseMoney(value); err != nil {
			return fmt.Errorf("invalid %s: %v", field, err)
		}
	}
	if r.LoanID != nil && *r.LoanID <= 0 {
		return fmt.Errorf("loanId must be positive when given")
	}
	return nil
}

// Input converts the parsed request into service inputs. Call Validate
// first; parse failures read as zero here.
func (r *CreateRepaymentRequest) Input() ledger.RepaymentInput {
	amount, _ := parseMoney(r.Amount)
	interest, _ := parseMoney(r.Interest)
	penalty, _ := parseMoney(r.Penalty)
	savings, _ := parseMoney(r.Savings)
	return ledger.RepaymentInput{
		Date:     r.Date,
		Amount:   amount,
		Interest: interest,
		Penalty:  penalty,
		Savings:  savings,
		LoanID:   r.LoanID,
		Remarks:  r.Remarks,
	}
}

type UpdateRepaymentRequest struct {
	Date     string `json:"date"`
	Amount   string `json:"amount"`
	Interest string `json:"interest"`
	Penalty  string `json:"penalty"`
	Savings  string `json:"savings"`
	LoanID   *int64 `json:"loanId"`
	Remarks  string `json:"remarks"`
}

func (r *UpdateRepaymentRequest) Validate() error {
	req := CreateRepaymentRequest{
		MemberID: 1, Date: r.Date, Amount: r.Amount, Interest: r.Interest,
		Penalty: r.Penalty, Savings: r.Savings, LoanID: r.LoanID,
	}
	return req.Validate()
}

func (r *UpdateRepaymentRequest) Input() ledger.RepaymentInput {
	req := CreateRepaymentRequest{
		Date: r.Date, Amount: r.Amount, Interest: r.Interest,
		Penalty: r.Penalty, Savings: r.Savings, LoanID: r.LoanID, Remarks: r.Remarks,
	}
	return req.Input()
}

type RepaymentResponse struct {
	RepaymentID string  `json:"repaymentId"`
	MemberID    string  `json:"memberId"`
	Date        string  `json:"date"`
	Amount      string  `json:"amount"`
	Interest    string  `json:"interest"`
	Penalty     string  `json:"penalty"`
	Savings     string  `json:"savings"`
	GrandTotal  string  `json:"grandTotal"`
	LoanID      *string `json:"loanId,omitempty"`
	Remarks     string  `json:"remarks,omitempty"`
}

func NewRepaymentResponse(p *ledger.Repayment) RepaymentResponse {
	if p == nil {
		return RepaymentResponse{}
	}
	var loanIDStr *string
	if p.LoanID != nil {
		s := strconv.FormatInt(*p.LoanID, 10)
		loanIDStr = &s
	}
	return RepaymentResponse{
		RepaymentID: strconv.FormatInt(p.ID, 10),
		MemberID:    strconv.FormatInt(p.MemberID, 10),
		Date:        p.Date.String(),
		Amount:      formatMoney(p.Amount),
		Interest:    formatMoney(p.Interest),
		Penalty:     formatMoney(p.Penalty),
		Savings:     formatMoney(p.Savings),
		GrandTotal:  formatMoney(p.GrandTotal()),
		LoanID:      loanIDStr,
		Remarks:     p.Remarks,
	}
}

type SuggestionResponse struct {
	SavingsOnly    bool   `json:"savingsOnly"`
	LoanID         string `json:"loanId,omitempty"`
	Outstanding    string `json:"outstanding,omitempty"`
	Installment    string `json:"installment,omitempty"`
	StartDate      string `json:"startDate,omitempty"`
	EndDate        string `json:"endDate,omitempty"`
	Days           int    `json:"days,omitempty"`
	InterestPerDay string `json:"interestPerDay,omitempty"`
	Interest       string `json:"interest,omitempty"`
}

func NewSuggestionResponse(s *ledger.Suggestion) SuggestionResponse {
	if s == nil {
		return SuggestionResponse{}
	}
	if s.SavingsOnly {
		return SuggestionResponse{SavingsOnly: true}
	}
	return SuggestionResponse{
		LoanID:         strconv.FormatInt(s.LoanID, 10),
		Outstanding:    formatMoney(s.Outstanding),
		Installment:    formatMoney(s.Installment),
		StartDate:      s.StartDate.String(),
		EndDate:        s.EndDate.String(),
		Days:           s.Days,
		InterestPerDay: s.InterestPerDay.StringFixed(4),
		Interest:       formatMoney(s.Interest),
	}
}

type UpdateSettingsRequest struct {
	InstallmentMonths int    `json:"installmentMonths"`
	AccountNo         string `json:"accountNo"`
}

func (r *UpdateSettingsRequest) Validate() error {
	if r.InstallmentMonths <= 0 {
		return fmt.Errorf("installmentMonths must be positive")
	}
	return nil
}

type SettingsResponse struct {
	InstallmentMonths int    `json:"installmentMonths"`
	AccountNo         string `json:"accountNo"`
}

func NewSettingsResponse(s *ledger.Settings) SettingsResponse {
	if s == nil {
		return SettingsResponse{}
	}
	return SettingsResponse{InstallmentMonths: s.InstallmentMonths, AccountNo: s.AccountNo}
}

type ErrorDetail struct {
	Code    string            `json:"code,omitempty"`
	Message string            `json:"message"`
	Field   string            `json:"field,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}
