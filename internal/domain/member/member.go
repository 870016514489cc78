package member

import (
	"strings"

	"sahakari-ledger/internal/pkg/apperrors"
)

// Member is a cooperative member identified by a unique positive account
// number. Members own loans and repayments; deleting a member removes both.
type Member struct {
	ID        int64
	AccountNo int64
	Name      string
}

// Validate checks the field-level rules and returns field-keyed messages.
// Account number uniqueness is enforced by the repository.
func (m *Member) Validate() apperrors.FieldErrors {
	errs := apperrors.FieldErrors{}
	if strings.TrimSpace(m.Name) == "" {
		errs.Add("name", "Name cannot be blank.")
	}
	if m.AccountNo <= 0 {
		errs.Add("account_no", "Account number must be positive.")
	}
	return errs
}
