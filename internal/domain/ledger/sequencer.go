package ledger

// Latest returns the chronologically last record among a member's loans and
// repayments combined, or false when the member has none. Every mutation is
// gated on it: creates must post-date it, edits and deletes may only target
// it.
func Latest(loans []Loan, repayments []Repayment) (Record, bool) {
	var latest Record
	found := false
	forEachRecord(loans, repayments, func(r Record) {
		if !found || r.after(latest) {
			latest = r
			found = true
		}
	})
	return latest, found
}

// SecondLatest returns the record that would become latest if the current
// latest were removed. Editing or deleting the latest record validates its
// date against this one.
func SecondLatest(loans []Loan, repayments []Repayment) (Record, bool) {
	latest, ok := Latest(loans, repayments)
	if !ok {
		return Record{}, false
	}
	var second Record
	found := false
	forEachRecord(loans, repayments, func(r Record) {
		if r.Is(latest.Kind(), latest.RecordID()) {
			return
		}
		if !found || r.after(second) {
			second = r
			found = true
		}
	})
	return second, found
}

// LatestLoan returns the member's chronologically last loan, ignoring
// repayments.
func LatestLoan(loans []Loan) (*Loan, bool) {
	rec, ok := Latest(loans, nil)
	if !ok {
		return nil, false
	}
	l, _ := rec.Loan()
	return l, true
}

// SecondLatestLoan returns the loan before the latest one.
func SecondLatestLoan(loans []Loan) (*Loan, bool) {
	rec, ok := SecondLatest(loans, nil)
	if !ok {
		return nil, false
	}
	l, _ := rec.Loan()
	return l, true
}

func forEachRecord(loans []Loan, repayments []Repayment, fn func(Record)) {
	for i := range loans {
		fn(LoanRecord(&loans[i]))
	}
	for i := range repayments {
		fn(RepaymentRecord(&repayments[i]))
	}
}
