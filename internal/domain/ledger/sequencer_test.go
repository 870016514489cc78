package ledger

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sahakari-ledger/internal/pkg/bsdate"
)

func loanOn(id int64, date string) Loan {
	return Loan{ID: id, Date: bsdate.MustParse(date), Amount: decimal.NewFromInt(1000), MemberID: 1}
}

func repaymentOn(id int64, date string) Repayment {
	return Repayment{ID: id, Date: bsdate.MustParse(date), Amount: decimal.NewFromInt(100), MemberID: 1}
}

func TestLatestEmptyLedger(t *testing.T) {
	_, ok := Latest(nil, nil)
	assert.False(t, ok)
}

func TestLatestPicksMostRecentAcrossKinds(t *testing.T) {
	loans := []Loan{loanOn(1, "2077-01-01")}
	repayments := []Repayment{repaymentOn(1, "2077-02-01"), repaymentOn(2, "2077-01-15")}

	latest, ok := Latest(loans, repayments)
	require.True(t, ok)
	assert.Equal(t, KindRepayment, latest.Kind())
	assert.Equal(t, int64(1), latest.RecordID())
	assert.Equal(t, "2077-02-01", latest.Date().String())
}

func TestLatestSameDateHigherIDWins(t *testing.T) {
	repayments := []Repayment{repaymentOn(3, "2077-01-10"), repaymentOn(7, "2077-01-10")}

	latest, ok := Latest(nil, repayments)
	require.True(t, ok)
	assert.Equal(t, int64(7), latest.RecordID())
}

func TestLatestSameDateSameIDRepaymentWins(t *testing.T) {
	// Loans and repayments draw ids from separate sequences, so a full
	// (date, id) collision across kinds must still order deterministically.
	loans := []Loan{loanOn(3, "2077-01-10")}
	repayments := []Repayment{repaymentOn(3, "2077-01-10")}

	latest, ok := Latest(loans, repayments)
	require.True(t, ok)
	assert.Equal(t, KindRepayment, latest.Kind())

	// The order must not depend on which slice is scanned first.
	lr := LoanRecord(&loans[0])
	rr := RepaymentRecord(&repayments[0])
	assert.True(t, rr.after(lr))
	assert.False(t, lr.after(rr))

	second, ok := SecondLatest(loans, repayments)
	require.True(t, ok)
	assert.Equal(t, KindLoan, second.Kind())
}

func TestSecondLatestSkipsTheLatest(t *testing.T) {
	loans := []Loan{loanOn(1, "2077-01-01"), loanOn(2, "2077-03-01")}
	repayments := []Repayment{repaymentOn(1, "2077-02-01")}

	second, ok := SecondLatest(loans, repayments)
	require.True(t, ok)
	assert.Equal(t, KindRepayment, second.Kind())
	assert.Equal(t, "2077-02-01", second.Date().String())
}

func TestSecondLatestSingleRecord(t *testing.T) {
	loans := []Loan{loanOn(1, "2077-01-01")}

	_, ok := SecondLatest(loans, nil)
	assert.False(t, ok)
}

func TestLatestLoanIgnoresRepayments(t *testing.T) {
	loans := []Loan{loanOn(1, "2077-01-01"), loanOn(2, "2077-02-01")}

	l, ok := LatestLoan(loans)
	require.True(t, ok)
	assert.Equal(t, int64(2), l.ID)
}

func TestSecondLatestLoan(t *testing.T) {
	loans := []Loan{loanOn(1, "2077-01-01"), loanOn(2, "2077-02-01")}

	l, ok := SecondLatestLoan(loans)
	require.True(t, ok)
	assert.Equal(t, int64(1), l.ID)
}

func TestComputeInstallmentExactDivision(t *testing.T) {
	got := ComputeInstallment(decimal.NewFromInt(1000), 40)
	assert.Equal(t, "25.00", got.StringFixed(2))
}

func TestComputeInstallmentRoundsToCurrency(t *testing.T) {
	got := ComputeInstallment(decimal.NewFromInt(1000), 3)
	assert.Equal(t, "333.33", got.StringFixed(2))
}

func TestOutstandingBalanceSubtractsLinkedAmounts(t *testing.T) {
	loan := loanOn(1, "2077-01-01")
	linked := []Repayment{
		{ID: 1, Amount: decimal.NewFromInt(300)},
		{ID: 2, Amount: decimal.NewFromInt(250), Interest: decimal.NewFromInt(12)},
	}

	got := OutstandingBalance(&loan, linked)
	// Interest, penalty and savings never reduce principal.
	assert.Equal(t, "450.00", got.StringFixed(2))
}
