// Package bank holds the cooperative's independent cash ledger. Bank
// transactions are not tied to members and carry no cross-record ordering
// constraint; they are reconciled against loan disbursements in the
// consolidated views.
package bank

import (
	"github.com/shopspring/decimal"

	"sahakari-ledger/internal/pkg/apperrors"
	"sahakari-ledger/internal/pkg/bsdate"
)

type TransactionType string

const (
	TypeDebit   TransactionType = "DEBIT"
	TypeCredit  TransactionType = "CREDIT"
	TypeDeposit TransactionType = "DEPOSIT"
)

// ParseTransactionType validates a wire-level type string.
func ParseTransactionType(s string) (TransactionType, bool) {
	switch TransactionType(s) {
	case TypeDebit, TypeCredit, TypeDeposit:
		return TransactionType(s), true
	}
	return "", false
}

type Transaction struct {
	ID      int64
	Date    bsdate.Date
	Amount  decimal.Decimal
	Type    TransactionType
	Remarks string
}

// validate checks field rules against the raw inputs; date parsing happens
// in the service so the raw string can be reported back per field.
func validate(dateStr string, amount decimal.Decimal, typeStr string) (bsdate.Date, TransactionType, apperrors.FieldErrors) {
	errs := apperrors.FieldErrors{}
	date, err := bsdate.Parse(dateStr)
	if err != nil {
		errs.Add("date", "Invalid date.")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		errs.Add("amount", "Amount cannot be zero or negative.")
	}
	txType, ok := ParseTransactionType(typeStr)
	if !ok {
		errs.Add("type", "Type must be DEBIT, CREDIT or DEPOSIT.")
	}
	return date, txType, errs
}
