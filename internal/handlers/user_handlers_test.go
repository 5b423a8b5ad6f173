package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/omnilingu/backend/internal/constants"
	"github.com/omnilingu/backend/internal/models"
	"github.com/omnilingu/backend/internal/utils"
)

func TestRegister(t *testing.T) {
	users := &fakeUserService{
		RegisterFunc: func(ctx context.Context, reg *models.UserRegistration) (string, error) {
			assert.Equal(t, "Ada", reg.Name)
			assert.Equal(t, "ada@example.com", reg.Email)
			return "fresh-token", nil
		},
	}
	h := NewUserHandler(users)

	req := httptest.NewRequest(http.MethodPost, "/api/users",
		strings.NewReader(`{"name":"Ada","email":"ada@example.com","password":"secret123"}`))
	rec := doRequest(h.Register, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	body := decodeBody(t, rec)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "fresh-token", data["token"])
}

func TestRegister_DuplicateEmail(t *testing.T) {
	users := &fakeUserService{
		RegisterFunc: func(ctx context.Context, reg *models.UserRegistration) (string, error) {
			return "", utils.NewDuplicateError("User", "email", reg.Email)
		},
	}
	h := NewUserHandler(users)

	req := httptest.NewRequest(http.MethodPost, "/api/users",
		strings.NewReader(`{"name":"Ada","email":"taken@example.com","password":"secret123"}`))
	rec := doRequest(h.Register, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	errInfo := body["error"].(map[string]interface{})
	assert.Equal(t, constants.CodeConflict, errInfo["code"])
}

func TestRegister_InvalidEmail(t *testing.T) {
	h := NewUserHandler(&fakeUserService{})

	req := httptest.NewRequest(http.MethodPost, "/api/users",
		strings.NewReader(`{"name":"Ada","email":"not-an-email","password":"secret123"}`))
	rec := doRequest(h.Register, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteAccount(t *testing.T) {
	called := false
	users := &fakeUserService{
		DeleteAccountFunc: func(ctx context.Context, requesterID, targetID int64) error {
			called = true
			assert.Equal(t, int64(42), requesterID)
			assert.Equal(t, int64(42), targetID)
			return nil
		},
	}
	h := NewUserHandler(users)

	req := withAuth(httptest.NewRequest(http.MethodDelete, "/api/users/42", nil), 42)
	req = withURLParam(req, constants.ParamID, "42")
	rec := doRequest(h.DeleteAccount, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, called)
	body := decodeBody(t, rec)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, constants.MsgUserRemoved, data["message"])
}

func TestDeleteAccount_OtherAccount(t *testing.T) {
	users := &fakeUserService{
		DeleteAccountFunc: func(ctx context.Context, requesterID, targetID int64) error {
			return utils.NewForbiddenError(constants.MsgNotAuthorised)
		},
	}
	h := NewUserHandler(users)

	req := withAuth(httptest.NewRequest(http.MethodDelete, "/api/users/43", nil), 42)
	req = withURLParam(req, constants.ParamID, "43")
	rec := doRequest(h.DeleteAccount, req)

	// Ownership failures surface as 401, matching the established API contract
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	body := decodeBody(t, rec)
	errInfo := body["error"].(map[string]interface{})
	assert.Equal(t, constants.MsgNotAuthorised, errInfo["message"])
}

func TestDeleteAccount_BadID(t *testing.T) {
	h := NewUserHandler(&fakeUserService{})

	req := withAuth(httptest.NewRequest(http.MethodDelete, "/api/users/abc", nil), 42)
	req = withURLParam(req, constants.ParamID, "abc")
	rec := doRequest(h.DeleteAccount, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
