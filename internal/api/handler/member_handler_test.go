package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"sahakari-ledger/internal/api/handler"
	"sahakari-ledger/internal/api/handler/dto"
	"sahakari-ledger/internal/domain/member"
	"sahakari-ledger/internal/pkg/apperrors"
)

type MockMemberService struct {
	mock.Mock
}

func (_m *MockMemberService) CreateMember(ctx context.Context, accountNo int64, name string) (*member.Member, error) {
	ret := _m.Called(ctx, accountNo, name)

	var r0 *member.Member
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*member.Member)
	}
	return r0, ret.Error(1)
}

func (_m *MockMemberService) UpdateMember(ctx context.Context, memberID, accountNo int64, name string) (*member.Member, error) {
	ret := _m.Called(ctx, memberID, accountNo, name)

	var r0 *member.Member
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*member.Member)
	}
	return r0, ret.Error(1)
}

func (_m *MockMemberService) GetMember(ctx context.Context, memberID int64) (*member.Member, error) {
	ret := _m.Called(ctx, memberID)

	var r0 *member.Member
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*member.Member)
	}
	return r0, ret.Error(1)
}

func (_m *MockMemberService) ListMembers(ctx context.Context) ([]member.Member, error) {
	ret := _m.Called(ctx)

	var r0 []member.Member
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]member.Member)
	}
	return r0, ret.Error(1)
}

func (_m *MockMemberService) DeleteMember(ctx context.Context, memberID int64) error {
	ret := _m.Called(ctx, memberID)
	return ret.Error(0)
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestCreateMember(t *testing.T) {
	mockService := new(MockMemberService)
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	h := handler.NewMemberHandler(mockService, logger)

	t.Run("success", func(t *testing.T) {
		reqBody := dto.CreateMemberRequest{AccountNo: 101, Name: "Ram Bahadur"}
		reqBodyBytes, _ := json.Marshal(reqBody)
		req := httptest.NewRequest(http.MethodPost, "/members", bytes.NewReader(reqBodyBytes))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()

		mockService.On("CreateMember", mock.Anything, int64(101), "Ram Bahadur").Return(
			&member.Member{ID: 1, AccountNo: 101, Name: "Ram Bahadur"}, nil)

		h.CreateMember(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
		var resp dto.MemberResponse
		err := json.Unmarshal(rec.Body.Bytes(), &resp)
		assert.NoError(t, err)
		assert.Equal(t, "1", resp.MemberID)
		mockService.AssertExpectations(t)
	})

	t.Run("invalid payload", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/members", bytes.NewReader([]byte(`{}`)))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()

		h.CreateMember(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		mockService.AssertNotCalled(t, "CreateMember")
	})

	t.Run("duplicate account number", func(t *testing.T) {
		mockService := new(MockMemberService)
		h := handler.NewMemberHandler(mockService, logger)
		mockService.On("CreateMember", mock.Anything, int64(101), "Ram Bahadur").Return(
			nil, apperrors.NewValidationError("account_no", "Account number has already been taken."))

		reqBody := dto.CreateMemberRequest{AccountNo: 101, Name: "Ram Bahadur"}
		reqBodyBytes, _ := json.Marshal(reqBody)
		req := httptest.NewRequest(http.MethodPost, "/members", bytes.NewReader(reqBodyBytes))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()

		h.CreateMember(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		var resp dto.ErrorResponse
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "account_no", resp.Error.Field)
	})
}

func TestGetMember(t *testing.T) {
	mockService := new(MockMemberService)
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	h := handler.NewMemberHandler(mockService, logger)

	t.Run("success", func(t *testing.T) {
		mockService.On("GetMember", mock.Anything, int64(1)).Return(
			&member.Member{ID: 1, AccountNo: 101, Name: "Ram Bahadur"}, nil)

		req := withURLParam(httptest.NewRequest(http.MethodGet, "/members/1", nil), "memberID", "1")
		rec := httptest.NewRecorder()

		h.GetMember(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp dto.MemberResponse
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, int64(101), resp.AccountNo)
		mockService.AssertExpectations(t)
	})

	t.Run("invalid member ID", func(t *testing.T) {
		req := withURLParam(httptest.NewRequest(http.MethodGet, "/members/abc", nil), "memberID", "abc")
		rec := httptest.NewRecorder()

		h.GetMember(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		mockService.AssertNotCalled(t, "GetMember")
	})

	t.Run("member not found", func(t *testing.T) {
		mockService.On("GetMember", mock.Anything, int64(2)).Return(nil, apperrors.ErrNotFound)

		req := withURLParam(httptest.NewRequest(http.MethodGet, "/members/2", nil), "memberID", "2")
		rec := httptest.NewRecorder()

		h.GetMember(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		mockService.AssertExpectations(t)
	})
}

func TestListMembers(t *testing.T) {
	mockService := new(MockMemberService)
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	h := handler.NewMemberHandler(mockService, logger)

	mockService.On("ListMembers", mock.Anything).Return([]member.Member{
		{ID: 1, AccountNo: 101, Name: "Ram Bahadur"},
		{ID: 2, AccountNo: 102, Name: "Sita Kumari"},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/members", nil)
	rec := httptest.NewRecorder()

	h.ListMembers(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp []dto.MemberResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp, 2)
	mockService.AssertExpectations(t)
}

func TestDeleteMember(t *testing.T) {
	mockService := new(MockMemberService)
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	h := handler.NewMemberHandler(mockService, logger)

	t.Run("success", func(t *testing.T) {
		mockService.On("DeleteMember", mock.Anything, int64(1)).Return(nil)

		req := withURLParam(httptest.NewRequest(http.MethodDelete, "/members/1", nil), "memberID", "1")
		rec := httptest.NewRecorder()

		h.DeleteMember(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		mockService.On("DeleteMember", mock.Anything, int64(9)).Return(apperrors.ErrNotFound)

		req := withURLParam(httptest.NewRequest(http.MethodDelete, "/members/9", nil), "memberID", "9")
		rec := httptest.NewRecorder()

		h.DeleteMember(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
