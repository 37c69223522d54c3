package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-office-api/internal/application/session"
	"github.com/go-office-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestLogin_HappyPath(t *testing.T) {
	svc := &mockSessionSvc{}
	svc.On("Login", mock.Anything, session.LoginRequest{Email: "ayse@example.com", Password: "secret123"}).
		Return(&session.LoginResult{Bearer: "jwt", RefreshToken: "rt", Session: &domain.Session{SessionID: "s1"}}, nil)
	h := NewSessionHandler(svc)

	body, _ := json.Marshal(session.LoginRequest{Email: "ayse@example.com", Password: "secret123"})
	rr := httptest.NewRecorder()
	h.Login(rr, httptest.NewRequest(http.MethodPost, "/v1/sessions/login", bytes.NewReader(body)))

	require.Equal(t, http.StatusOK, rr.Code)
	var resp AuthEnvelope
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "jwt", resp.Bearer)
	assert.Equal(t, "rt", resp.RefreshToken)
}

func TestLogin_BadCredentials(t *testing.T) {
	svc := &mockSessionSvc{}
	svc.On("Login", mock.Anything, mock.Anything).Return(nil, fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized))
	h := NewSessionHandler(svc)

	body, _ := json.Marshal(session.LoginRequest{Email: "ayse@example.com", Password: "wrong"})
	rr := httptest.NewRecorder()
	h.Login(rr, httptest.NewRequest(http.MethodPost, "/v1/sessions/login", bytes.NewReader(body)))

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestLogin_MissingFields(t *testing.T) {
	svc := &mockSessionSvc{}
	h := NewSessionHandler(svc)

	rr := httptest.NewRecorder()
	h.Login(rr, httptest.NewRequest(http.MethodPost, "/v1/sessions/login", bytes.NewBufferString(`{"email":"ayse@example.com"}`)))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	svc.AssertNotCalled(t, "Login", mock.Anything, mock.Anything)
}

func TestRefresh_RequiresToken(t *testing.T) {
	h := NewSessionHandler(&mockSessionSvc{})

	rr := httptest.NewRecorder()
	h.Refresh(rr, httptest.NewRequest(http.MethodPost, "/v1/sessions/refresh", bytes.NewBufferString(`{}`)))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRefresh_HappyPath(t *testing.T) {
	svc := &mockSessionSvc{}
	svc.On("Refresh", mock.Anything, "old").Return("jwt2", "new", nil)
	h := NewSessionHandler(svc)

	rr := httptest.NewRecorder()
	h.Refresh(rr, httptest.NewRequest(http.MethodPost, "/v1/sessions/refresh", bytes.NewBufferString(`{"refresh_token":"old"}`)))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"Bearer":"jwt2","refresh_token":"new"}`, rr.Body.String())
}

func TestLogout_UsesSessionFromToken(t *testing.T) {
	p := newTestJWTProvider(t)
	svc := &mockSessionSvc{}
	svc.On("Logout", mock.Anything, "sess1").Return(nil)
	h := NewSessionHandler(svc)

	rr := serveAuthed(p, h.Logout, bearerReq(t, p, http.MethodPost, "/v1/sessions/logout", "emp", domain.RoleEmployee, nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	svc.AssertExpectations(t)
}

func TestHealth_Ping(t *testing.T) {
	h := NewHealthHandler()

	rr := httptest.NewRecorder()
	h.Ping(rr, withAction(httptest.NewRequest(http.MethodGet, "/v1/health-check/ping", nil), "ping"))
	assert.JSONEq(t, `{"message":"pong"}`, rr.Body.String())

	rr = httptest.NewRecorder()
	h.Ping(rr, withAction(httptest.NewRequest(http.MethodGet, "/v1/health-check/nope", nil), "nope"))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
