package ledger

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"sahakari-ledger/internal/pkg/apperrors"
	"sahakari-ledger/internal/pkg/bsdate"
)

var testAnnualRate = decimal.NewFromFloat(0.12)

func newRepaymentService(repo *MockRepository) RepaymentService {
	return NewRepaymentService(repo, nil, testAnnualRate, logger)
}

func linkedInput(loanID int64, date, amount string) RepaymentInput {
	a, _ := decimal.NewFromString(amount)
	return RepaymentInput{Date: date, Amount: a, LoanID: &loanID}
}

func TestCreateRepaymentSuccess(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	svc := newRepaymentService(repo)

	loan := Loan{ID: 1, Date: bsdate.MustParse("2077-01-01"), Amount: decimal.NewFromInt(1000), MemberID: 1}

	expectTx(repo, ctx)
	repo.On("LockMember", ctx, tx, int64(1)).Return(nil)
	repo.On("ListLoansByMember", ctx, tx, int64(1)).Return([]Loan{loan}, nil)
	repo.On("ListRepaymentsByMember", ctx, tx, int64(1)).Return(nil, nil)
	repo.On("GetLoan", ctx, tx, int64(1)).Return(&loan, nil)
	repo.On("ListRepaymentsByLoan", ctx, tx, int64(1)).Return(nil, nil)
	repo.On("SaveRepayment", ctx, tx, mock.AnythingOfType("*ledger.Repayment")).Return(
		&Repayment{ID: 20, Date: bsdate.MustParse("2077-02-01"), Amount: decimal.NewFromInt(300), LoanID: &loan.ID, MemberID: 1}, nil)
	repo.On("CommitTx", ctx, tx).Return(nil)

	created, err := svc.CreateRepayment(ctx, 1, linkedInput(1, "2077-02-01", "300"))
	require.NoError(t, err)
	assert.Equal(t, int64(20), created.ID)
	repo.AssertExpectations(t)
}

func TestCreateRepaymentRejectsNegativeFields(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	svc := newRepaymentService(repo)

	in := RepaymentInput{Date: "2077-02-01", Amount: decimal.NewFromInt(-5)}
	_, err := svc.CreateRepayment(ctx, 1, in)
	require.Error(t, err)

	var fields apperrors.FieldErrors
	require.ErrorAs(t, err, &fields)
	assert.Contains(t, fields, "amount")
	repo.AssertNotCalled(t, "BeginTx")
}

func TestCreateRepaymentRejectsDateNotAfterLatest(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	svc := newRepaymentService(repo)

	loan := Loan{ID: 1, Date: bsdate.MustParse("2077-02-01"), Amount: decimal.NewFromInt(1000), MemberID: 1}

	expectTx(repo, ctx)
	repo.On("LockMember", ctx, tx, int64(1)).Return(nil)
	repo.On("ListLoansByMember", ctx, tx, int64(1)).Return([]Loan{loan}, nil)
	repo.On("ListRepaymentsByMember", ctx, tx, int64(1)).Return(nil, nil)

	_, err := svc.CreateRepayment(ctx, 1, linkedInput(1, "2077-01-15", "300"))
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrOrdering)
}

func TestCreateRepaymentRejectsOverpayment(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	svc := newRepaymentService(repo)

	loan := Loan{ID: 1, Date: bsdate.MustParse("2077-01-01"), Amount: decimal.NewFromInt(1000), MemberID: 1}
	prior := Repayment{ID: 5, Date: bsdate.MustParse("2077-02-01"), Amount: decimal.NewFromInt(800), LoanID: &loan.ID, MemberID: 1}

	expectTx(repo, ctx)
	repo.On("LockMember", ctx, tx, int64(1)).Return(nil)
	repo.On("ListLoansByMember", ctx, tx, int64(1)).Return([]Loan{loan}, nil)
	repo.On("ListRepaymentsByMember", ctx, tx, int64(1)).Return([]Repayment{prior}, nil)
	repo.On("GetLoan", ctx, tx, int64(1)).Return(&loan, nil)
	repo.On("ListRepaymentsByLoan", ctx, tx, int64(1)).Return([]Repayment{prior}, nil)

	// Outstanding is 200; paying 300 would flip the balance negative.
	_, err := svc.CreateRepayment(ctx, 1, linkedInput(1, "2077-03-01", "300"))
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrBusinessRule)
	repo.AssertNotCalled(t, "SaveRepayment", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateRepaymentRejectsClearedLoan(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	svc := newRepaymentService(repo)

	loan := Loan{ID: 1, Date: bsdate.MustParse("2077-01-01"), Amount: decimal.NewFromInt(1000), MemberID: 1}
	prior := Repayment{ID: 5, Date: bsdate.MustParse("2077-02-01"), Amount: decimal.NewFromInt(1000), LoanID: &loan.ID, MemberID: 1}

	expectTx(repo, ctx)
	repo.On("LockMember", ctx, tx, int64(1)).Return(nil)
	repo.On("ListLoansByMember", ctx, tx, int64(1)).Return([]Loan{loan}, nil)
	repo.On("ListRepaymentsByMember", ctx, tx, int64(1)).Return([]Repayment{prior}, nil)
	repo.On("GetLoan", ctx, tx, int64(1)).Return(&loan, nil)
	repo.On("ListRepaymentsByLoan", ctx, tx, int64(1)).Return([]Repayment{prior}, nil)

	_, err := svc.CreateRepayment(ctx, 1, linkedInput(1, "2077-03-01", "50"))
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrBusinessRule)
}

func TestCreateRepaymentRejectsLoanOfAnotherMember(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	svc := newRepaymentService(repo)

	foreign := Loan{ID: 9, Date: bsdate.MustParse("2077-01-01"), Amount: decimal.NewFromInt(1000), MemberID: 2}

	expectTx(repo, ctx)
	repo.On("LockMember", ctx, tx, int64(1)).Return(nil)
	repo.On("ListLoansByMember", ctx, tx, int64(1)).Return(nil, nil)
	repo.On("ListRepaymentsByMember", ctx, tx, int64(1)).Return(nil, nil)
	repo.On("GetLoan", ctx, tx, int64(9)).Return(&foreign, nil)

	_, err := svc.CreateRepayment(ctx, 1, linkedInput(9, "2077-02-01", "100"))
	require.Error(t, err)

	var verr *apperrors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "loan_id", verr.Field)
}

func TestCreateSavingsOnlyRepayment(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	svc := newRepaymentService(repo)

	expectTx(repo, ctx)
	repo.On("LockMember", ctx, tx, int64(1)).Return(nil)
	repo.On("ListLoansByMember", ctx, tx, int64(1)).Return(nil, nil)
	repo.On("ListRepaymentsByMember", ctx, tx, int64(1)).Return(nil, nil)
	repo.On("SaveRepayment", ctx, tx, mock.AnythingOfType("*ledger.Repayment")).Return(
		&Repayment{ID: 30, Date: bsdate.MustParse("2077-02-01"), Savings: decimal.NewFromInt(50), MemberID: 1}, nil)
	repo.On("CommitTx", ctx, tx).Return(nil)

	in := RepaymentInput{Date: "2077-02-01", Savings: decimal.NewFromInt(50)}
	created, err := svc.CreateRepayment(ctx, 1, in)
	require.NoError(t, err)
	assert.True(t, created.SavingsOnly())
}

func TestCreateSavingsOnlyRepaymentRejectsLoanComponents(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	svc := newRepaymentService(repo)

	expectTx(repo, ctx)
	repo.On("LockMember", ctx, tx, int64(1)).Return(nil)
	repo.On("ListLoansByMember", ctx, tx, int64(1)).Return(nil, nil)
	repo.On("ListRepaymentsByMember", ctx, tx, int64(1)).Return(nil, nil)

	in := RepaymentInput{Date: "2077-02-01", Amount: decimal.NewFromInt(100), Savings: decimal.NewFromInt(50)}
	_, err := svc.CreateRepayment(ctx, 1, in)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrBusinessRule)
}

func TestEditRepaymentOnlyLatestRecord(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	svc := newRepaymentService(repo)

	loanID := int64(1)
	target := Repayment{ID: 5, Date: bsdate.MustParse("2077-02-01"), Amount: decimal.NewFromInt(100), LoanID: &loanID, MemberID: 1}
	later := Repayment{ID: 6, Date: bsdate.MustParse("2077-03-01"), Amount: decimal.NewFromInt(100), LoanID: &loanID, MemberID: 1}

	expectTx(repo, ctx)
	repo.On("GetRepayment", ctx, tx, int64(5)).Return(&target, nil)
	repo.On("LockMember", ctx, tx, int64(1)).Return(nil)
	repo.On("ListLoansByMember", ctx, tx, int64(1)).Return(nil, nil)
	repo.On("ListRepaymentsByMember", ctx, tx, int64(1)).Return([]Repayment{target, later}, nil)

	_, err := svc.EditRepayment(ctx, 5, linkedInput(1, "2077-02-15", "150"))
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrOrdering)
}

func TestEditRepaymentExcludesOwnAmountFromBalance(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	svc := newRepaymentService(repo)

	loan := Loan{ID: 1, Date: bsdate.MustParse("2077-01-01"), Amount: decimal.NewFromInt(1000), MemberID: 1}
	target := Repayment{ID: 5, Date: bsdate.MustParse("2077-02-01"), Amount: decimal.NewFromInt(400), LoanID: &loan.ID, MemberID: 1}

	expectTx(repo, ctx)
	repo.On("GetRepayment", ctx, tx, int64(5)).Return(&target, nil)
	repo.On("LockMember", ctx, tx, int64(1)).Return(nil)
	repo.On("ListLoansByMember", ctx, tx, int64(1)).Return([]Loan{loan}, nil)
	repo.On("ListRepaymentsByMember", ctx, tx, int64(1)).Return([]Repayment{target}, nil)
	repo.On("GetLoan", ctx, tx, int64(1)).Return(&loan, nil)
	repo.On("ListRepaymentsByLoan", ctx, tx, int64(1)).Return([]Repayment{target}, nil)
	repo.On("SaveRepayment", ctx, tx, mock.AnythingOfType("*ledger.Repayment")).Return(&target, nil)
	repo.On("CommitTx", ctx, tx).Return(nil)

	// Raising the amount to the full principal is fine once the old 400 is
	// excluded from the linked total.
	_, err := svc.EditRepayment(ctx, 5, linkedInput(1, "2077-02-05", "1000"))
	require.NoError(t, err)
}

func TestDeleteRepaymentOnlyLatestRecord(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	svc := newRepaymentService(repo)

	target := Repayment{ID: 5, Date: bsdate.MustParse("2077-02-01"), Amount: decimal.NewFromInt(100), MemberID: 1}
	later := Repayment{ID: 6, Date: bsdate.MustParse("2077-03-01"), Amount: decimal.NewFromInt(100), MemberID: 1}

	expectTx(repo, ctx)
	repo.On("GetRepayment", ctx, tx, int64(5)).Return(&target, nil)
	repo.On("LockMember", ctx, tx, int64(1)).Return(nil)
	repo.On("ListLoansByMember", ctx, tx, int64(1)).Return(nil, nil)
	repo.On("ListRepaymentsByMember", ctx, tx, int64(1)).Return([]Repayment{target, later}, nil)

	err := svc.DeleteRepayment(ctx, 5)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrOrdering)
	repo.AssertNotCalled(t, "DeleteRepayment", mock.Anything, mock.Anything, mock.Anything)
}

func TestSuggestInterestAfterPartialRepayment(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	svc := newRepaymentService(repo)

	loan := Loan{ID: 1, Date: bsdate.MustParse("2077-01-01"), Amount: decimal.NewFromInt(1000), Installment: decimal.NewFromInt(25), MemberID: 1}
	prior := Repayment{ID: 5, Date: bsdate.MustParse("2077-02-01"), Amount: decimal.NewFromInt(300), LoanID: &loan.ID, MemberID: 1}

	repo.On("ListLoansByMember", ctx, nil, int64(1)).Return([]Loan{loan}, nil)
	repo.On("ListRepaymentsByMember", ctx, nil, int64(1)).Return([]Repayment{prior}, nil)
	repo.On("ListRepaymentsByLoan", ctx, nil, int64(1)).Return([]Repayment{prior}, nil)

	s, err := svc.Suggest(ctx, 1, "2077-03-01")
	require.NoError(t, err)

	assert.False(t, s.SavingsOnly)
	assert.Equal(t, int64(1), s.LoanID)
	assert.Equal(t, "700.00", s.Outstanding.StringFixed(2))
	// Period opens the day after the last repayment and both ends count.
	assert.Equal(t, "2077-02-02", s.StartDate.String())
	assert.Equal(t, 32, s.Days)
	// 700 x 0.12 / 365 x 32
	assert.Equal(t, "7.36", s.Interest.StringFixed(2))
}

func TestSuggestInterestFromLoanDateWhenLoanIsLatest(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	svc := newRepaymentService(repo)

	loan := Loan{ID: 1, Date: bsdate.MustParse("2077-01-01"), Amount: decimal.NewFromInt(1000), Installment: decimal.NewFromInt(25), MemberID: 1}

	repo.On("ListLoansByMember", ctx, nil, int64(1)).Return([]Loan{loan}, nil)
	repo.On("ListRepaymentsByMember", ctx, nil, int64(1)).Return(nil, nil)
	repo.On("ListRepaymentsByLoan", ctx, nil, int64(1)).Return(nil, nil)

	s, err := svc.Suggest(ctx, 1, "2077-01-10")
	require.NoError(t, err)

	assert.Equal(t, "2077-01-01", s.StartDate.String())
	assert.Equal(t, 10, s.Days)
	assert.Equal(t, "1000.00", s.Outstanding.StringFixed(2))
	// 1000 x 0.12 / 365 x 10
	assert.Equal(t, "3.29", s.Interest.StringFixed(2))
}

func TestSuggestSavingsOnlyWhenNoUnclearedLoan(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	svc := newRepaymentService(repo)

	repo.On("ListLoansByMember", ctx, nil, int64(1)).Return(nil, nil)
	repo.On("ListRepaymentsByMember", ctx, nil, int64(1)).Return(nil, nil)

	s, err := svc.Suggest(ctx, 1, "2077-01-10")
	require.NoError(t, err)
	assert.True(t, s.SavingsOnly)
}

func TestSuggestRejectsEndBeforePeriodStart(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	svc := newRepaymentService(repo)

	loan := Loan{ID: 1, Date: bsdate.MustParse("2077-02-01"), Amount: decimal.NewFromInt(1000), MemberID: 1}

	repo.On("ListLoansByMember", ctx, nil, int64(1)).Return([]Loan{loan}, nil)
	repo.On("ListRepaymentsByMember", ctx, nil, int64(1)).Return(nil, nil)
	repo.On("ListRepaymentsByLoan", ctx, nil, int64(1)).Return(nil, nil)

	_, err := svc.Suggest(ctx, 1, "2077-01-15")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}
