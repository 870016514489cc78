// Package summary is the read-only aggregation engine: member-wise,
// date-range and consolidated cash views derived from the ledgers. All
// queries run on a repeatable-read snapshot so totals never mix partially
// committed state, and re-running with unchanged ledgers yields identical
// results.
package summary

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"sahakari-ledger/internal/domain/bank"
	"sahakari-ledger/internal/domain/ledger"
	"sahakari-ledger/internal/domain/member"
	"sahakari-ledger/internal/pkg/apperrors"
	"sahakari-ledger/internal/pkg/bsdate"
)

type Service interface {
	MemberWise(ctx context.Context) (*MemberWiseSummary, error)

	DateRange(ctx context.Context, start, end string) (*DateRangeSummary, error)

	// Monthly is DateRange over the month containing the given date.
	Monthly(ctx context.Context, date string) (*DateRangeSummary, error)

	MemberStatement(ctx context.Context, memberID int64) (*MemberStatement, error)

	BankBook(ctx context.Context) (*BankBook, error)
}

var _ Service = (*service)(nil)

type service struct {
	ledgerRepo ledger.Repository
	bankRepo   bank.Repository
	memberRepo member.Repository
	logger     *slog.Logger
}

func NewService(ledgerRepo ledger.Repository, bankRepo bank.Repository, memberRepo member.Repository, logger *slog.Logger) Service {
	if ledgerRepo == nil || bankRepo == nil || memberRepo == nil {
		panic("summary service repositories cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &service{
		ledgerRepo: ledgerRepo,
		bankRepo:   bankRepo,
		memberRepo: memberRepo,
		logger:     logger.With(slog.String("component", "summaryService")),
	}
}

func (s *service) MemberWise(ctx context.Context) (*MemberWiseSummary, error) {
	var out *MemberWiseSummary
	err := s.withSnapshot(ctx, func(tx pgx.Tx) error {
		members, err := s.memberRepo.ListMembers(ctx, tx)
		if err != nil {
			return err
		}

		result := &MemberWiseSummary{Members: make([]MemberSummary, 0, len(members))}
		for _, m := range members {
			loans, err := s.ledgerRepo.ListLoansByMember(ctx, tx, m.ID)
			if err != nil {
				return err
			}
			repayments, err := s.ledgerRepo.ListRepaymentsByMember(ctx, tx, m.ID)
			if err != nil {
				return err
			}

			ms := MemberSummary{MemberID: m.ID, AccountNo: m.AccountNo, Name: m.Name}
			for _, l := range loans {
				if l.IsSpecial {
					ms.SpecialLoan = ms.SpecialLoan.Add(l.Amount)
				} else {
					ms.RegularLoan = ms.RegularLoan.Add(l.Amount)
				}
				ms.Outstanding = ms.Outstanding.Add(l.Amount)
			}
			for _, r := range repayments {
				if r.SavingsOnly() {
					ms.UnlinkedSavings = ms.UnlinkedSavings.Add(r.Savings)
					continue
				}
				ms.RepaymentAmount = ms.RepaymentAmount.Add(r.Amount)
				ms.Interest = ms.Interest.Add(r.Interest)
				ms.Penalty = ms.Penalty.Add(r.Penalty)
				ms.Savings = ms.Savings.Add(r.Savings)
				ms.Outstanding = ms.Outstanding.Sub(r.Amount)
			}

			result.Totals.add(ms)
			result.Members = append(result.Members, ms)
		}
		out = result
		return nil
	})
	return out, err
}

func (s *service) DateRange(ctx context.Context, startStr, endStr string) (*DateRangeSummary, error) {
	start, err := bsdate.Parse(startStr)
	if err != nil {
		return nil, apperrors.NewValidationError("start", "Invalid date.")
	}
	end, err := bsdate.Parse(endStr)
	if err != nil {
		return nil, apperrors.NewValidationError("end", "Invalid date.")
	}
	if end.Before(start) {
		return nil, apperrors.NewValidationError("end", "End date is before start date.")
	}
	return s.dateRange(ctx, start, end)
}

func (s *service) Monthly(ctx context.Context, dateStr string) (*DateRangeSummary, error) {
	date, err := bsdate.Parse(dateStr)
	if err != nil {
		return nil, apperrors.NewValidationError("date", "Invalid date.")
	}
	return s.dateRange(ctx, date.MonthStart(), date.MonthEnd())
}

func inWindow(d, start, end bsdate.Date) bool {
	return !d.Before(start) && !d.After(end)
}

func (s *service) dateRange(ctx context.Context, start, end bsdate.Date) (*DateRangeSummary, error) {
	var out *DateRangeSummary
	err := s.withSnapshot(ctx, func(tx pgx.Tx) error {
		names, err := s.memberNames(ctx, tx)
		if err != nil {
			return err
		}
		loans, err := s.ledgerRepo.ListAllLoans(ctx, tx)
		if err != nil {
			return err
		}
		repayments, err := s.ledgerRepo.ListAllRepayments(ctx, tx)
		if err != nil {
			return err
		}
		bankTxns, err := s.bankRepo.ListTransactions(ctx, tx)
		if err != nil {
			return err
		}

		result := &DateRangeSummary{Start: start, End: end}
		for _, l := range loans {
			if !inWindow(l.Date, start, end) {
				continue
			}
			result.Loans = append(result.Loans, LoanLine{MemberName: names[l.MemberID], Loan: l})
			result.Totals.Loan = result.Totals.Loan.Add(l.Amount)
		}
		for _, r := range repayments {
			if !inWindow(r.Date, start, end) {
				continue
			}
			line := RepaymentLine{MemberName: names[r.MemberID], Repayment: r, GrandTotal: r.GrandTotal()}
			result.Repayments = append(result.Repayments, line)
			result.Totals.Repayment = result.Totals.Repayment.Add(r.Amount)
			result.Totals.Interest = result.Totals.Interest.Add(r.Interest)
			result.Totals.Penalty = result.Totals.Penalty.Add(r.Penalty)
			result.Totals.Savings = result.Totals.Savings.Add(r.Savings)
			result.Totals.GrandTotal = result.Totals.GrandTotal.Add(line.GrandTotal)
		}
		for _, t := range bankTxns {
			if t.Type != bank.TypeDeposit || !inWindow(t.Date, start, end) {
				continue
			}
			result.Deposits = append(result.Deposits, t)
			result.Totals.Deposit = result.Totals.Deposit.Add(t.Amount)
		}
		result.Totals.DepositDeficit = result.Totals.Repayment.Sub(result.Totals.Deposit)

		sort.SliceStable(result.Loans, func(i, j int) bool {
			return recordBefore(result.Loans[i].Loan.Date, result.Loans[i].Loan.ID, result.Loans[j].Loan.Date, result.Loans[j].Loan.ID)
		})
		sort.SliceStable(result.Repayments, func(i, j int) bool {
			return recordBefore(result.Repayments[i].Repayment.Date, result.Repayments[i].Repayment.ID, result.Repayments[j].Repayment.Date, result.Repayments[j].Repayment.ID)
		})
		sort.SliceStable(result.Deposits, func(i, j int) bool {
			return recordBefore(result.Deposits[i].Date, result.Deposits[i].ID, result.Deposits[j].Date, result.Deposits[j].ID)
		})

		out = result
		return nil
	})
	return out, err
}

func (s *service) MemberStatement(ctx context.Context, memberID int64) (*MemberStatement, error) {
	var out *MemberStatement
	err := s.withSnapshot(ctx, func(tx pgx.Tx) error {
		m, err := s.memberRepo.GetMember(ctx, tx, memberID)
		if err != nil {
			return err
		}
		loans, err := s.ledgerRepo.ListLoansByMember(ctx, tx, memberID)
		if err != nil {
			return err
		}
		repayments, err := s.ledgerRepo.ListRepaymentsByMember(ctx, tx, memberID)
		if err != nil {
			return err
		}

		lines := make([]StatementLine, 0, len(loans)+len(repayments))
		for _, l := range loans {
			lines = append(lines, StatementLine{
				Kind:      ledger.KindLoan,
				RecordID:  l.ID,
				Date:      l.Date,
				Loan:      l.Amount,
				Total:     l.Amount,
				IsSpecial: l.IsSpecial,
				Remarks:   l.Remarks,
			})
		}
		for _, r := range repayments {
			lines = append(lines, StatementLine{
				Kind:      ledger.KindRepayment,
				RecordID:  r.ID,
				Date:      r.Date,
				Repayment: r.Amount,
				Interest:  r.Interest,
				Penalty:   r.Penalty,
				Savings:   r.Savings,
				Total:     r.GrandTotal(),
				Remarks:   r.Remarks,
			})
		}
		sort.SliceStable(lines, func(i, j int) bool {
			return recordBefore(lines[i].Date, lines[i].RecordID, lines[j].Date, lines[j].RecordID)
		})

		// Running outstanding: a loan row restarts the balance (a new loan
		// requires the previous one cleared), a repayment row reduces it.
		statement := &MemberStatement{MemberID: m.ID, MemberName: m.Name}
		running := decimal.Zero
		for i := range lines {
			switch lines[i].Kind {
			case ledger.KindLoan:
				running = lines[i].Loan
				statement.Totals.Loan = statement.Totals.Loan.Add(lines[i].Loan)
			case ledger.KindRepayment:
				running = running.Sub(lines[i].Repayment)
				statement.Totals.Repayment = statement.Totals.Repayment.Add(lines[i].Repayment)
				statement.Totals.Interest = statement.Totals.Interest.Add(lines[i].Interest)
				statement.Totals.Penalty = statement.Totals.Penalty.Add(lines[i].Penalty)
				statement.Totals.Savings = statement.Totals.Savings.Add(lines[i].Savings)
			}
			lines[i].Outstanding = running
		}
		statement.Totals.Outstanding = running
		statement.Lines = lines
		out = statement
		return nil
	})
	return out, err
}

func (s *service) BankBook(ctx context.Context) (*BankBook, error) {
	var out *BankBook
	err := s.withSnapshot(ctx, func(tx pgx.Tx) error {
		names, err := s.memberNames(ctx, tx)
		if err != nil {
			return err
		}
		bankTxns, err := s.bankRepo.ListTransactions(ctx, tx)
		if err != nil {
			return err
		}
		loans, err := s.ledgerRepo.ListAllLoans(ctx, tx)
		if err != nil {
			return err
		}

		book := &BankBook{}
		type keyed struct {
			line BankBookLine
			id   int64
		}
		rows := make([]keyed, 0, len(bankTxns)+len(loans))
		for _, t := range bankTxns {
			rows = append(rows, keyed{
				line: BankBookLine{Date: t.Date, Amount: t.Amount, Type: string(t.Type), Remarks: t.Remarks},
				id:   t.ID,
			})
			if t.Type == bank.TypeDebit {
				book.DebitTotal = book.DebitTotal.Add(t.Amount)
			} else {
				book.CreditTotal = book.CreditTotal.Add(t.Amount)
			}
		}
		for _, l := range loans {
			rows = append(rows, keyed{
				line: BankBookLine{
					Date:    l.Date,
					Amount:  l.Amount,
					Type:    TypeLoanDebit,
					Remarks: fmt.Sprintf("Loan disbursed to %s", names[l.MemberID]),
				},
				id: l.ID,
			})
			book.DebitTotal = book.DebitTotal.Add(l.Amount)
		}
		sort.SliceStable(rows, func(i, j int) bool {
			return recordBefore(rows[i].line.Date, rows[i].id, rows[j].line.Date, rows[j].id)
		})
		book.Lines = make([]BankBookLine, len(rows))
		for i, r := range rows {
			book.Lines[i] = r.line
		}

		out = book
		return nil
	})
	return out, err
}

func (s *service) memberNames(ctx context.Context, tx pgx.Tx) (map[int64]string, error) {
	members, err := s.memberRepo.ListMembers(ctx, tx)
	if err != nil {
		return nil, err
	}
	names := make(map[int64]string, len(members))
	for _, m := range members {
		names[m.ID] = m.Name
	}
	return names, nil
}

func (s *service) withSnapshot(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := s.ledgerRepo.BeginSnapshotTx(ctx)
	if err != nil {
		return err
	}
	defer s.ledgerRepo.RollbackTx(ctx, tx)

	if err := fn(tx); err != nil {
		return err
	}
	return s.ledgerRepo.CommitTx(ctx, tx)
}

func recordBefore(d1 bsdate.Date, id1 int64, d2 bsdate.Date, id2 int64) bool {
	if c := d1.Compare(d2); c != 0 {
		return c < 0
	}
	return id1 < id2
}
