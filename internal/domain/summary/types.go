package summary

import (
	"github.com/shopspring/decimal"

	"sahakari-ledger/internal/domain/bank"
	"sahakari-ledger/internal/domain/ledger"
	"sahakari-ledger/internal/pkg/bsdate"
)

// MemberSummary totals one member's ledgers. Unlinked savings-only
// repayments are tracked apart from the loan-linked components.
type MemberSummary struct {
	MemberID        int64
	AccountNo       int64
	Name            string
	SpecialLoan     decimal.Decimal
	RegularLoan     decimal.Decimal
	RepaymentAmount decimal.Decimal
	Interest        decimal.Decimal
	Penalty         decimal.Decimal
	Savings         decimal.Decimal
	UnlinkedSavings decimal.Decimal
	Outstanding     decimal.Decimal
}

func (m *MemberSummary) add(x MemberSummary) {
	m.SpecialLoan = m.SpecialLoan.Add(x.SpecialLoan)
	m.RegularLoan = m.RegularLoan.Add(x.RegularLoan)
	m.RepaymentAmount = m.RepaymentAmount.Add(x.RepaymentAmount)
	m.Interest = m.Interest.Add(x.Interest)
	m.Penalty = m.Penalty.Add(x.Penalty)
	m.Savings = m.Savings.Add(x.Savings)
	m.UnlinkedSavings = m.UnlinkedSavings.Add(x.UnlinkedSavings)
	m.Outstanding = m.Outstanding.Add(x.Outstanding)
}

type MemberWiseSummary struct {
	Members []MemberSummary
	Totals  MemberSummary
}

// LoanLine and RepaymentLine attach the owning member's name to ledger rows
// in the date-range views.
type LoanLine struct {
	MemberName string
	Loan       ledger.Loan
}

type RepaymentLine struct {
	MemberName string
	Repayment  ledger.Repayment
	GrandTotal decimal.Decimal
}

type RangeTotals struct {
	Loan           decimal.Decimal
	Repayment      decimal.Decimal
	Interest       decimal.Decimal
	Penalty        decimal.Decimal
	Savings        decimal.Decimal
	GrandTotal     decimal.Decimal
	Deposit        decimal.Decimal
	DepositDeficit decimal.Decimal
}

// DateRangeSummary lists the activity inside an inclusive date window,
// chronologically sorted per category. DepositDeficit is the repayment
// amount collected minus the bank deposits recorded in the window; it is a
// reconciliation signal, not an error.
type DateRangeSummary struct {
	Start      bsdate.Date
	End        bsdate.Date
	Loans      []LoanLine
	Repayments []RepaymentLine
	Deposits   []bank.Transaction
	Totals     RangeTotals
}

// StatementLine is one row of a member's chronological statement with the
// running outstanding balance after the row.
type StatementLine struct {
	Kind        ledger.RecordKind
	RecordID    int64
	Date        bsdate.Date
	Loan        decimal.Decimal
	Repayment   decimal.Decimal
	Interest    decimal.Decimal
	Penalty     decimal.Decimal
	Savings     decimal.Decimal
	Total       decimal.Decimal
	Outstanding decimal.Decimal
	IsSpecial   bool
	Remarks     string
}

type StatementTotals struct {
	Loan        decimal.Decimal
	Repayment   decimal.Decimal
	Interest    decimal.Decimal
	Penalty     decimal.Decimal
	Savings     decimal.Decimal
	Outstanding decimal.Decimal
}

type MemberStatement struct {
	MemberID   int64
	MemberName string
	Lines      []StatementLine
	Totals     StatementTotals
}

// BankBookLine is one row of the consolidated cash view: bank transactions
// plus every loan disbursement as an implicit debit.
type BankBookLine struct {
	Date    bsdate.Date
	Amount  decimal.Decimal
	Type    string
	Remarks string
}

// TypeLoanDebit marks loan disbursements in the bank book.
const TypeLoanDebit = "LOAN_DEBIT"

type BankBook struct {
	Lines       []BankBookLine
	DebitTotal  decimal.Decimal
	CreditTotal decimal.Decimal
}
