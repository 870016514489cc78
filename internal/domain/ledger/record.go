package ledger

import (
	"sahakari-ledger/internal/pkg/bsdate"
)

type RecordKind string

const (
	KindLoan      RecordKind = "LOAN"
	KindRepayment RecordKind = "REPAYMENT"
)

// Record is the tagged union over a member's loans and repayments, giving
// the sequencer a uniform view of the combined ledger.
type Record struct {
	kind      RecordKind
	loan      *Loan
	repayment *Repayment
}

func LoanRecord(l *Loan) Record           { return Record{kind: KindLoan, loan: l} }
func RepaymentRecord(r *Repayment) Record { return Record{kind: KindRepayment, repayment: r} }

func (r Record) Kind() RecordKind { return r.kind }

// Date returns the record's transaction date regardless of kind.
func (r Record) Date() bsdate.Date {
	switch r.kind {
	case KindLoan:
		return r.loan.Date
	case KindRepayment:
		return r.repayment.Date
	}
	return bsdate.Date{}
}

// RecordID returns the persisted id of the underlying record.
func (r Record) RecordID() int64 {
	switch r.kind {
	case KindLoan:
		return r.loan.ID
	case KindRepayment:
		return r.repayment.ID
	}
	return 0
}

// Loan returns the underlying loan when the record is one.
func (r Record) Loan() (*Loan, bool) { return r.loan, r.kind == KindLoan }

// Repayment returns the underlying repayment when the record is one.
func (r Record) Repayment() (*Repayment, bool) { return r.repayment, r.kind == KindRepayment }

// Is reports whether the record refers to the given kind and id.
func (r Record) Is(kind RecordKind, id int64) bool {
	return r.kind == kind && r.RecordID() == id
}

// after orders records chronologically. Records sharing a date are ordered
// by id, the higher id being the later record; ids are assigned in insertion
// order so the rule is deterministic and stable under edits. Loans and
// repayments draw ids from separate sequences, so a full (date, id) tie
// across kinds is possible; the repayment counts as later, since a same-day
// repayment follows the disbursement it repays.
func (r Record) after(x Record) bool {
	if c := r.Date().Compare(x.Date()); c != 0 {
		return c > 0
	}
	if r.RecordID() != x.RecordID() {
		return r.RecordID() > x.RecordID()
	}
	return r.kind == KindRepayment && x.kind == KindLoan
}
