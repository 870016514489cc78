package dto

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"

	"sahakari-ledger/internal/domain/bank"
)

type CreateBankTransactionRequest struct {
	Date    string `json:"date"`
	Amount  string `json:"amount"`
	Type    string `json:"type"`
	Remarks string `json:"remarks"`
}

func (r *CreateBankTransactionRequest) Validate() error {
	if err := validDate(r.Date); err != nil {
		return err
	}
	if _, err := decimal.NewFromString(r.Amount); err != nil || r.Amount == "" {
		return fmt.Errorf("invalid amount: %v", err)
	}
	if _, ok := bank.ParseTransactionType(r.Type); !ok {
		return fmt.Errorf("type must be DEBIT, CREDIT or DEPOSIT")
	}
	return nil
}

func (r *CreateBankTransactionRequest) Input() bank.TransactionInput {
	amount, _ := decimal.NewFromString(r.Amount)
	return bank.TransactionInput{
		Date:    r.Date,
		Amount:  amount,
		Type:    r.Type,
		Remarks: r.Remarks,
	}
}

type BankTransactionResponse struct {
	TransactionID string `json:"transactionId"`
	Date          string `json:"date"`
	Amount        string `json:"amount"`
	Type          string `json:"type"`
	Remarks       string `json:"remarks,omitempty"`
}

func NewBankTransactionResponse(t *bank.Transaction) BankTransactionResponse {
	if t == nil {
		return BankTransactionResponse{}
	}
	return BankTransactionResponse{
		TransactionID: strconv.FormatInt(t.ID, 10),
		Date:          t.Date.String(),
		Amount:        formatMoney(t.Amount),
		Type:          string(t.Type),
		Remarks:       t.Remarks,
	}
}
