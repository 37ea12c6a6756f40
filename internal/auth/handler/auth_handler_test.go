package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/deweycatalog/catalog/shared/apperr"
	"github.com/deweycatalog/catalog/shared/cqrs"
	"github.com/deweycatalog/catalog/shared/models"
	"github.com/gin-gonic/gin"
)

// ---- mock implementation ----

type mockAuthCommander struct {
	registerFn func(cqrs.RegisterCommand) (*models.User, string, error)
}

func (m *mockAuthCommander) Register(_ context.Context, cmd cqrs.RegisterCommand) (*models.User, string, error) {
	if m.registerFn != nil {
		return m.registerFn(cmd)
	}
	return nil, "", fmt.Errorf("not configured")
}

type mockAuthQuerier struct {
	loginFn   func(cqrs.LoginCommand) (string, error)
	refreshFn func(cqrs.RefreshTokenCommand) (string, error)
}

func (m *mockAuthQuerier) Login(_ context.Context, cmd cqrs.LoginCommand) (string, error) {
	if m.loginFn != nil {
		return m.loginFn(cmd)
	}
	return "", fmt.Errorf("not configured")
}
func (m *mockAuthQuerier) RefreshToken(_ context.Context, cmd cqrs.RefreshTokenCommand) (string, error) {
	if m.refreshFn != nil {
		return m.refreshFn(cmd)
	}
	return "", fmt.Errorf("not configured")
}

// ---- helper ----

func newAuthTestRouter(cmds AuthCommander, qrys AuthQuerier) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewAuthHandler(cmds, qrys)
	api := r.Group("/api")
	api.POST("/register", h.Register)
	api.POST("/login", h.Login)
	api.POST("/refresh", h.RefreshToken)
	return r
}

func authDoRequest(router *gin.Engine, method, url string, body interface{}) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, url, nil)
	if body != nil {
		b, _ := json.Marshal(body)
		req, _ = http.NewRequest(method, url, strings.NewReader(string(b)))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// ---- tests ----

func TestRegister(t *testing.T) {
	tests := []struct {
		name           string
		body           interface{}
		registerFn     func(cqrs.RegisterCommand) (*models.User, string, error)
		expectedStatus int
	}{
		{
			name: "success - new user gets a token",
			body: map[string]string{"username": "alice", "password": "securepass123"},
			registerFn: func(cmd cqrs.RegisterCommand) (*models.User, string, error) {
				return &models.User{ID: "usr-0123456789", Username: cmd.Username}, "mock.jwt.token", nil
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "conflict - username taken",
			body: map[string]string{"username": "alice", "password": "securepass123"},
			registerFn: func(cmd cqrs.RegisterCommand) (*models.User, string, error) {
				return nil, "", apperr.Conflict("Username %s is already taken", cmd.Username)
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "bad request - username too short",
			body:           map[string]string{"username": "al", "password": "securepass123"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "bad request - username not alphanumeric",
			body:           map[string]string{"username": "alice!", "password": "securepass123"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "bad request - password too short",
			body:           map[string]string{"username": "alice", "password": "short"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "bad request - missing body",
			body:           nil,
			expectedStatus: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newAuthTestRouter(&mockAuthCommander{registerFn: tt.registerFn}, &mockAuthQuerier{})
			w := authDoRequest(router, http.MethodPost, "/api/register", tt.body)
			if w.Code != tt.expectedStatus {
				t.Errorf("[%s] expected %d got %d; body: %s", tt.name, tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestRegisterConflictIssuesNoToken(t *testing.T) {
	router := newAuthTestRouter(&mockAuthCommander{registerFn: func(cmd cqrs.RegisterCommand) (*models.User, string, error) {
		return nil, "", apperr.Conflict("Username %s is already taken", cmd.Username)
	}}, &mockAuthQuerier{})
	w := authDoRequest(router, http.MethodPost, "/api/register", map[string]string{"username": "alice", "password": "securepass123"})

	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if _, ok := body["token"]; ok {
		t.Errorf("conflict response must not carry a token: %s", w.Body.String())
	}
}

func TestLogin(t *testing.T) {
	tests := []struct {
		name           string
		body           interface{}
		loginFn        func(cqrs.LoginCommand) (string, error)
		expectedStatus int
	}{
		{
			name:           "success - valid credentials return JWT",
			body:           map[string]string{"username": "alice", "password": "securepass123"},
			loginFn:        func(cmd cqrs.LoginCommand) (string, error) { return "mock.jwt.token", nil },
			expectedStatus: http.StatusOK,
		},
		{
			name:           "unauthorised - invalid credentials",
			body:           map[string]string{"username": "alice", "password": "wrongpass"},
			loginFn:        func(cmd cqrs.LoginCommand) (string, error) { return "", apperr.Unauthorized("Invalid credentials") },
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "internal error - user store unavailable",
			body: map[string]string{"username": "alice", "password": "securepass123"},
			loginFn: func(cmd cqrs.LoginCommand) (string, error) {
				return "", apperr.Store("failed to get user", errors.New("connection refused"))
			},
			expectedStatus: http.StatusInternalServerError,
		},
		{
			name:           "bad request - missing password",
			body:           map[string]string{"username": "alice"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "bad request - missing username",
			body:           map[string]string{"password": "securepass123"},
			expectedStatus: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newAuthTestRouter(&mockAuthCommander{}, &mockAuthQuerier{loginFn: tt.loginFn})
			w := authDoRequest(router, http.MethodPost, "/api/login", tt.body)
			if w.Code != tt.expectedStatus {
				t.Errorf("[%s] expected %d got %d; body: %s", tt.name, tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestRefreshToken(t *testing.T) {
	tests := []struct {
		name           string
		body           interface{}
		refreshFn      func(cqrs.RefreshTokenCommand) (string, error)
		expectedStatus int
	}{
		{
			name:           "success - valid token returns new JWT",
			body:           map[string]string{"token": "valid.jwt.token"},
			refreshFn:      func(cmd cqrs.RefreshTokenCommand) (string, error) { return "new.jwt.token", nil },
			expectedStatus: http.StatusOK,
		},
		{
			name:           "unauthorised - invalid token",
			body:           map[string]string{"token": "invalid.jwt.token"},
			refreshFn:      func(cmd cqrs.RefreshTokenCommand) (string, error) { return "", apperr.Unauthorized("Invalid token") },
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "bad request - missing token field",
			body:           map[string]string{},
			expectedStatus: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newAuthTestRouter(&mockAuthCommander{}, &mockAuthQuerier{refreshFn: tt.refreshFn})
			w := authDoRequest(router, http.MethodPost, "/api/refresh", tt.body)
			if w.Code != tt.expectedStatus {
				t.Errorf("[%s] expected %d got %d; body: %s", tt.name, tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}
