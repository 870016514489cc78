package ledger

import (
	"strings"

	"sahakari-ledger/internal/pkg/apperrors"
)

// Settings is the cooperative's singleton configuration: the number of
// months a loan is split into and the cooperative's own account number
// label. Read at loan-creation time; changing it never recomputes existing
// loans.
type Settings struct {
	InstallmentMonths int
	AccountNo         string
}

func (s *Settings) Validate() apperrors.FieldErrors {
	errs := apperrors.FieldErrors{}
	if s.InstallmentMonths <= 0 {
		errs.Add("installment_months", "Installment months must be positive.")
	}
	if strings.TrimSpace(s.AccountNo) == "" {
		errs.Add("account_no", "Account number cannot be blank.")
	}
	return errs
}
