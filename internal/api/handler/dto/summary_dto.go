package dto

import (
	"strconv"

	"sahakari-ledger/internal/domain/summary"
)

type MemberSummaryResponse struct {
	MemberID        string `json:"memberId"`
	AccountNo       int64  `json:"accountNo"`
	Name            string `json:"name"`
	SpecialLoan     string `json:"specialLoan"`
	RegularLoan     string `json:"regularLoan"`
	RepaymentAmount string `json:"repaymentAmount"`
	Interest        string `json:"interest"`
	Penalty         string `json:"penalty"`
	Savings         string `json:"savings"`
	UnlinkedSavings string `json:"unlinkedSavings"`
	Outstanding     string `json:"outstanding"`
}

func newMemberSummaryResponse(m summary.MemberSummary) MemberSummaryResponse {
	return MemberSummaryResponse{
		MemberID:        strconv.FormatInt(m.MemberID, 10),
		AccountNo:       m.AccountNo,
		Name:            m.Name,
		SpecialLoan:     formatMoney(m.SpecialLoan),
		RegularLoan:     formatMoney(m.RegularLoan),
		RepaymentAmount: formatMoney(m.RepaymentAmount),
		Interest:        formatMoney(m.Interest),
		Penalty:         formatMoney(m.Penalty),
		Savings:         formatMoney(m.Savings),
		UnlinkedSavings: formatMoney(m.UnlinkedSavings),
		Outstanding:     formatMoney(m.Outstanding),
	}
}

type MemberWiseSummaryResponse struct {
	Members []MemberSummaryResponse `json:"members"`
	Totals  MemberSummaryResponse   `json:"totals"`
}

func NewMemberWiseSummaryResponse(s *summary.MemberWiseSummary) MemberWiseSummaryResponse {
	if s == nil {
		return MemberWiseSummaryResponse{}
	}
	members := make([]MemberSummaryResponse, len(s.Members))
	for i, m := range s.Members {
		members[i] = newMemberSummaryResponse(m)
	}
	totals := newMemberSummaryResponse(s.Totals)
	totals.MemberID, totals.Name = "", ""
	return MemberWiseSummaryResponse{Members: members, Totals: totals}
}

type LoanLineResponse struct {
	MemberName string       `json:"memberName"`
	Loan       LoanResponse `json:"loan"`
}

type RepaymentLineResponse struct {
	MemberName string            `json:"memberName"`
	Repayment  RepaymentResponse `json:"repayment"`
}

type RangeTotalsResponse struct {
	Loan           string `json:"loan"`
	Repayment      string `json:"repayment"`
	Interest       string `json:"interest"`
	Penalty        string `json:"penalty"`
	Savings        string `json:"savings"`
	GrandTotal     string `json:"grandTotal"`
	Deposit        string `json:"deposit"`
	DepositDeficit string `json:"depositDeficit"`
}

type DateRangeSummaryResponse struct {
	Start      string                    `json:"start"`
	End        string                    `json:"end"`
	Loans      []LoanLineResponse        `json:"loans"`
	Repayments []RepaymentLineResponse   `json:"repayments"`
	Deposits   []BankTransactionResponse `json:"deposits"`
	Totals     RangeTotalsResponse       `json:"totals"`
}

func NewDateRangeSummaryResponse(s *summary.DateRangeSummary) DateRangeSummaryResponse {
	if s == nil {
		return DateRangeSummaryResponse{}
	}
	loans := make([]LoanLineResponse, len(s.Loans))
	for i, l := range s.Loans {
		loan := l.Loan
		loans[i] = LoanLineResponse{MemberName: l.MemberName, Loan: NewLoanResponse(&loan)}
	}
	repayments := make([]RepaymentLineResponse, len(s.Repayments))
	for i, r := range s.Repayments {
		repayment := r.Repayment
		repayments[i] = RepaymentLineResponse{MemberName: r.MemberName, Repayment: NewRepaymentResponse(&repayment)}
	}
	deposits := make([]BankTransactionResponse, len(s.Deposits))
	for i, d := range s.Deposits {
		deposit := d
		deposits[i] = NewBankTransactionResponse(&deposit)
	}
	return DateRangeSummaryResponse{
		Start:      s.Start.String(),
		End:        s.End.String(),
		Loans:      loans,
		Repayments: repayments,
		Deposits:   deposits,
		Totals: RangeTotalsResponse{
			Loan:           formatMoney(s.Totals.Loan),
			Repayment:      formatMoney(s.Totals.Repayment),
			Interest:       formatMoney(s.Totals.Interest),
			Penalty:        formatMoney(s.Totals.Penalty),
			Savings:        formatMoney(s.Totals.Savings),
			GrandTotal:     formatMoney(s.Totals.GrandTotal),
			Deposit:        formatMoney(s.Totals.Deposit),
			DepositDeficit: formatMoney(s.Totals.DepositDeficit),
		},
	}
}

type StatementLineResponse struct {
	Kind        string `json:"kind"`
	RecordID    string `json:"recordId"`
	Date        string `json:"date"`
	Loan        string `json:"loan"`
	Repayment   string `json:"repayment"`
	Interest    string `json:"interest"`
	Penalty     string `json:"penalty"`
	Savings     string `json:"savings"`
	Total       string `json:"total"`
	Outstanding string `json:"outstanding"`
	IsSpecial   bool   `json:"isSpecial,omitempty"`
	Remarks     string `json:"remarks,omitempty"`
}

type StatementTotalsResponse struct {
	Loan        string `json:"loan"`
	Repayment   string `json:"repayment"`
	Interest    string `json:"interest"`
	Penalty     string `json:"penalty"`
	Savings     string `json:"savings"`
	Outstanding string `json:"outstanding"`
}

type MemberStatementResponse struct {
	MemberID   string                  `json:"memberId"`
	MemberName string                  `json:"memberName"`
	Lines      []StatementLineResponse `json:"lines"`
	Totals     StatementTotalsResponse `json:"totals"`
}

func NewMemberStatementResponse(s *summary.MemberStatement) MemberStatementResponse {
	if s == nil {
		return MemberStatementResponse{}
	}
	lines := make([]StatementLineResponse, len(s.Lines))
	for i, l := range s.Lines {
		lines[i] = StatementLineResponse{
			Kind:        string(l.Kind),
			RecordID:    strconv.FormatInt(l.RecordID, 10),
			Date:        l.Date.String(),
			Loan:        formatMoney(l.Loan),
			Repayment:   formatMoney(l.Repayment),
			Interest:    formatMoney(l.Interest),
			Penalty:     formatMoney(l.Penalty),
			Savings:     formatMoney(l.Savings),
			Total:       formatMoney(l.Total),
			Outstanding: formatMoney(l.Outstanding),
			IsSpecial:   l.IsSpecial,
			Remarks:     l.Remarks,
		}
	}
	return MemberStatementResponse{
		MemberID:   strconv.FormatInt(s.MemberID, 10),
		MemberName: s.MemberName,
		Lines:      lines,
		Totals: StatementTotalsResponse{
			Loan:        formatMoney(s.Totals.Loan),
			Repayment:   formatMoney(s.Totals.Repayment),
			Interest:    formatMoney(s.Totals.Interest),
			Penalty:     formatMoney(s.Totals.Penalty),
			Savings:     formatMoney(s.Totals.Savings),
			Outstanding: formatMoney(s.Totals.Outstanding),
		},
	}
}

type BankBookLineResponse struct {
	Date    string `json:"date"`
	Amount  string `json:"amount"`
	Type    string `json:"type"`
	Remarks string `json:"remarks,omitempty"`
}

type BankBookResponse struct {
	Lines       []BankBookLineResponse `json:"lines"`
	DebitTotal  string                 `json:"debitTotal"`
	CreditTotal string                 `json:"creditTotal"`
}

func NewBankBookResponse(b *summary.BankBook) BankBookResponse {
	if b == nil {
		return BankBookResponse{}
	}
	lines := make([]BankBookLineResponse, len(b.Lines))
	for i, l := range b.Lines {
		lines[i] = BankBookLineResponse{
			Date:    l.Date.String(),
			Amount:  formatMoney(l.Amount),
			Type:    l.Type,
			Remarks: l.Remarks,
		}
	}
	return BankBookResponse{
		Lines:       lines,
		DebitTotal:  formatMoney(b.DebitTotal),
		CreditTotal: formatMoney(b.CreditTotal),
	}
}
