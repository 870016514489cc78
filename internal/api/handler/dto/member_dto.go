package dto

import (
	"fmt"
	"strconv"
	"strings"

	"sahakari-ledger/internal/domain/member"
)

type CreateMemberRequest struct {
	AccountNo int64  `json:"accountNo"`
	Name      string `json:"name"`
}

func (r *CreateMemberRequest) Validate() error {
	if r.AccountNo <= 0 {
		return fmt.Errorf("accountNo must be positive")
	}
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("name cannot be empty")
	}
	return nil
}

type UpdateMemberRequest struct {
	AccountNo int64  `json:"accountNo"`
	Name      string `json:"name"`
}

func (r *UpdateMemberRequest) Validate() error {
	if r.AccountNo <= 0 {
		return fmt.Errorf("accountNo must be positive")
	}
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("name cannot be empty")
	}
	return nil
}

type MemberResponse struct {
	MemberID  string `json:"memberId"`
	AccountNo int64  `json:"accountNo"`
	Name      string `json:"name"`
}

func NewMemberResponse(m *member.Member) MemberResponse {
	if m == nil {
		return MemberResponse{}
	}
	return MemberResponse{
		MemberID:  strconv.FormatInt(m.ID, 10),
		AccountNo: m.AccountNo,
		Name:      m.Name,
	}
}
