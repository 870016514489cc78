package ledger

import (
	"github.com/shopspring/decimal"

	"sahakari-ledger/internal/pkg/bsdate"
)

// Loan is principal disbursed to a member ("rin lagani"), repaid over time
// through linked repayments. The monthly installment is fixed at creation
// time from the then-current settings.
type Loan struct {
	ID          int64
	Date        bsdate.Date
	Amount      decimal.Decimal
	IsSpecial   bool
	Installment decimal.Decimal
	Remarks     string
	MemberID    int64
}

// ComputeInstallment divides the principal across the configured number of
// months using exact decimal division, rounded to 2 currency places at this
// boundary.
func ComputeInstallment(amount decimal.Decimal, installmentMonths int) decimal.Decimal {
	return amount.Div(decimal.NewFromInt(int64(installmentMonths))).Round(2)
}

// OutstandingBalance is the principal remaining unpaid ("banki sawa"):
// the loan amount minus the sum of linked repayment amounts. Derived on
// demand, never stored.
func OutstandingBalance(loan *Loan, linked []Repayment) decimal.Decimal {
	if loan == nil {
		return decimal.Zero
	}
	balance := loan.Amount
	for _, r := range linked {
		balance = balance.Sub(r.Amount)
	}
	return balance
}
