package ledger

import (
	"github.com/shopspring/decimal"

	"sahakari-ledger/internal/pkg/bsdate"
)

// Repayment is a payment collected from a member ("sawa asuli"), split into
// a loan principal portion, interest ("byaj"), penalty ("harjana") and
// savings ("bachat"). A repayment without a loan reference is savings-only
// and may carry nothing but savings.
type Repayment struct {
	ID       int64
	Date     bsdate.Date
	Amount   decimal.Decimal
	Interest decimal.Decimal
	Penalty  decimal.Decimal
	Savings  decimal.Decimal
	Remarks  string
	LoanID   *int64
	MemberID int64
}

// SavingsOnly reports whether the repayment is unlinked to any loan.
func (r *Repayment) SavingsOnly() bool { return r.LoanID == nil }

// GrandTotal is the full sum collected in this repayment. Derived, not
// persisted.
func (r *Repayment) GrandTotal() decimal.Decimal {
	return r.Amount.Add(r.Interest).Add(r.Penalty).Add(r.Savings)
}

var daysPerYear = decimal.NewFromInt(365)

// SuggestInterest computes the advisory interest for an outstanding balance
// held over the given inclusive day count: outstanding x annualRate / 365
// per day. The result is rounded to 2 currency places; callers remain free
// to store a different figure.
func SuggestInterest(outstanding, annualRate decimal.Decimal, days int) decimal.Decimal {
	return InterestPerDay(outstanding, annualRate).Mul(decimal.NewFromInt(int64(days))).Round(2)
}

// InterestPerDay returns the unrounded daily interest on an outstanding
// balance.
func InterestPerDay(outstanding, annualRate decimal.Decimal) decimal.Decimal {
	return outstanding.Mul(annualRate).Div(daysPerYear)
}

// Suggestion is the advisory pre-fill for a new repayment: the repayment
// period, the outstanding balance it accrues interest on, and the suggested
// interest. For a member with no uncleared loan only savings may be
// collected and SavingsOnly is set.
type Suggestion struct {
	SavingsOnly    bool
	LoanID         int64
	Outstanding    decimal.Decimal
	Installment    decimal.Decimal
	StartDate      bsdate.Date
	EndDate        bsdate.Date
	Days           int
	InterestPerDay decimal.Decimal
	Interest       decimal.Decimal
}
