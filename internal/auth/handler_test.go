package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLoginService struct {
	loginToken string
	loginErr   error
	loggedOut  bool
}

func (f *fakeLoginService) Login(_ context.Context, _, _ string) (string, error) {
	return f.loginToken, f.loginErr
}

func (f *fakeLoginService) Logout(_ context.Context, _ string) (bool, error) {
	return f.loggedOut, nil
}

func TestHandler_HandleLogin(t *testing.T) {
	h := NewHandler(&fakeLoginService{loginToken: "tok-123"})

	reqJson, err := json.Marshal(LoginRequest{Username: "mila", Password: "pass"})
	require.NoError(t, err)

	req, err := http.NewRequest("POST", "/a/login", bytes.NewBuffer(reqJson))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	h.HandleLogin(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var resp LoginResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "tok-123", resp.Token)
}

func TestHandler_HandleLogin_InvalidCredentials(t *testing.T) {
	h := NewHandler(&fakeLoginService{loginErr: ErrInvalidCredentials})

	reqJson, err := json.Marshal(LoginRequest{Username: "mila", Password: "wrong"})
	require.NoError(t, err)

	req, err := http.NewRequest("POST", "/a/login", bytes.NewBuffer(reqJson))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	h.HandleLogin(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestHandler_HandleLogin_EmptyParams(t *testing.T) {
	h := NewHandler(&fakeLoginService{})

	reqJson, err := json.Marshal(LoginRequest{Username: "mila"})
	require.NoError(t, err)

	req, err := http.NewRequest("POST", "/a/login", bytes.NewBuffer(reqJson))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	h.HandleLogin(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandler_HandleLogout(t *testing.T) {
	h := NewHandler(&fakeLoginService{loggedOut: true})

	req, err := http.NewRequest("POST", "/a/logout", nil)
	require.NoError(t, err)
	req.Header.Set("X-LIFTLOG-TOKEN", "tok-123")

	rr := httptest.NewRecorder()
	h.HandleLogout(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "logged-out", rr.Body.String())
}

func TestHandler_HandleLogout_NoToken(t *testing.T) {
	h := NewHandler(&fakeLoginService{loggedOut: true})

	req, err := http.NewRequest("POST", "/a/logout", nil)
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	h.HandleLogout(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
