// auth_controller_test.go
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"file-storage-api/internal/application/ports"
	"file-storage-api/internal/domain/access"
	"file-storage-api/internal/domain/apperr"
	domain "file-storage-api/internal/domain/user"
	"file-storage-api/internal/interface/api/rest/dto/auth"
)

var (
	testAlice = &domain.User{ID: 1, Username: "alice", FullName: "Alice A", Email: "a@x.com", IsActive: true, PasswordHash: "$2a$hash", StoragePath: "ns-alice", CreatedAt: time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)}
	testAdmin = &domain.User{ID: 9, Username: "root", FullName: "Root R", Email: "r@x.com", IsActive: true, IsAdmin: true}
)

type FakeAuthService struct {
	LoginFunc        func(ctx context.Context, username, password string) (string, *domain.User, error)
	IssueTokenFunc   func(u *domain.User) (string, error)
	AuthenticateFunc func(ctx context.Context, bearer string) (*domain.User, error)
	LogoutFunc       func(ctx context.Context, bearer string) error
}

func (f *FakeAuthService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	if f.LoginFunc == nil {
		return "", nil, errors.New("not used")
	}
	return f.LoginFunc(ctx, username, password)
}
func (f *FakeAuthService) IssueToken(u *domain.User) (string, error) {
	if f.IssueTokenFunc == nil {
		return "", errors.New("not used")
	}
	return f.IssueTokenFunc(u)
}

// Authenticate defaults to the two well known test tokens.
func (f *FakeAuthService) Authenticate(ctx context.Context, bearer string) (*domain.User, error) {
	if f.AuthenticateFunc != nil {
		return f.AuthenticateFunc(ctx, bearer)
	}
	switch bearer {
	case "alice-token":
		return testAlice, nil
	case "admin-token":
		return testAdmin, nil
	}
	return nil, apperr.Unauthenticated("invalid token")
}
func (f *FakeAuthService) Logout(ctx context.Context, bearer string) error {
	if f.LogoutFunc == nil {
		return errors.New("not used")
	}
	return f.LogoutFunc(ctx, bearer)
}

type FakeUserService struct {
	RegisterFunc        func(ctx context.Context, in ports.RegisterInput) (*domain.User, error)
	ProfileFunc         func(ctx context.Context, actor *access.Actor) (*domain.User, error)
	ListUsersFunc       func(ctx context.Context, actor *access.Actor) (domain.Usages, error)
	ToggleAdminRoleFunc func(ctx context.Context, actor *access.Actor, targetID domain.ID) (*domain.User, error)
	DeleteUserFunc      func(ctx context.Context, actor *access.Actor, targetID domain.ID) error
}

func (f *FakeUserService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	if f.RegisterFunc == nil {
		return nil, errors.New("not used")
	}
	return f.RegisterFunc(ctx, in)
}
func (f *FakeUserService) Profile(ctx context.Context, actor *access.Actor) (*domain.User, error) {
	if f.ProfileFunc == nil {
		return nil, errors.New("not used")
	}
	return f.ProfileFunc(ctx, actor)
}
func (f *FakeUserService) ListUsers(ctx context.Context, actor *access.Actor) (domain.Usages, error) {
	if f.ListUsersFunc == nil {
		return nil, errors.New("not used")
	}
	return f.ListUsersFunc(ctx, actor)
}
func (f *FakeUserService) ToggleAdminRole(ctx context.Context, actor *access.Actor, targetID domain.ID) (*domain.User, error) {
	if f.ToggleAdminRoleFunc == nil {
		return nil, errors.New("not used")
	}
	return f.ToggleAdminRoleFunc(ctx, actor, targetID)
}
func (f *FakeUserService) DeleteUser(ctx context.Context, actor *access.Actor, targetID domain.ID) error {
	if f.DeleteUserFunc == nil {
		return errors.New("not used")
	}
	return f.DeleteUserFunc(ctx, actor, targetID)
}

func newAuthRouter(t *testing.T, us ports.UserService, as ports.Auth) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	NewAuthController(r, zap.NewNop(), us, as)
	return r
}

// doReq sends body as JSON unless it is a string or nil.
func doReq(t *testing.T, r *gin.Engine, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch v := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(v))
	default:
		b, err := json.Marshal(v)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func bearer(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

func decodeErr(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp
}

func validRegister() auth.RegisterRequest {
	return auth.RegisterRequest{
		Username: "alice",
		FullName: "Alice A",
		Email:    "A@X.com",
		Password: "secret1",
	}
}

func TestAuthController_RegisterHandler(t *testing.T) {
	tests := []struct {
		name       string
		body       any
		register   func(ctx context.Context, in ports.RegisterInput) (*domain.User, error)
		issue      func(u *domain.User) (string, error)
		wantStatus int
		wantErr    string
		wantCode   string
	}{
		{
			name:       "400 invalid json",
			body:       "{",
			wantStatus: http.StatusBadRequest,
			wantErr:    "invalid json",
			wantCode:   "invalid_input",
		},
		{
			name:       "400 validation",
			body:       auth.RegisterRequest{Username: "a b", FullName: "A", Email: "nope", Password: "1"},
			wantStatus: http.StatusBadRequest,
			wantErr:    "invalid request body",
			wantCode:   "invalid_input",
		},
		{
			name: "409 duplicate username",
			body: validRegister(),
			register: func(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
				return nil, apperr.Conflict("username already taken")
			},
			wantStatus: http.StatusConflict,
			wantErr:    "username already taken",
			wantCode:   "conflict",
		},
		{
			name: "500 token failure",
			body: validRegister(),
			register: func(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
				return testAlice, nil
			},
			issue: func(u *domain.User) (string, error) {
				return "", apperr.Internal(errors.New("signing failed"))
			},
			wantStatus: http.StatusInternalServerError,
			wantErr:    "internal error",
			wantCode:   "internal",
		},
		{
			name: "201 registered and logged in",
			body: validRegister(),
			register: func(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
				assert.Equal(t, "alice", in.Username)
				assert.Equal(t, "secret1", in.Password)
				return testAlice, nil
			},
			issue: func(u *domain.User) (string, error) {
				assert.Equal(t, int64(1), u.ID)
				return "tok", nil
			},
			wantStatus: http.StatusCreated,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			r := newAuthRouter(t,
				&FakeUserService{RegisterFunc: tt.register},
				&FakeAuthService{IssueTokenFunc: tt.issue},
			)
			rr := doReq(t, r, http.MethodPost, RouteRegister, tt.body, nil)
			require.Equal(t, tt.wantStatus, rr.Code)

			if tt.wantErr != "" {
				resp := decodeErr(t, rr)
				assert.Equal(t, tt.wantErr, resp["error"])
				assert.Equal(t, tt.wantCode, resp["code"])
				return
			}

			var out auth.TokenResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
			assert.Equal(t, "tok", out.AccessToken)
			assert.Equal(t, "Bearer", out.TokenType)
			assert.Equal(t, "alice", out.User.Username)
			assert.NotContains(t, rr.Body.String(), "password")
			assert.NotContains(t, rr.Body.String(), "ns-alice")
		})
	}
}

func TestAuthController_RegisterHandler_ValidationDetails(t *testing.T) {
	r := newAuthRouter(t, &FakeUserService{}, &FakeAuthService{})
	rr := doReq(t, r, http.MethodPost, RouteRegister, auth.RegisterRequest{Username: "ok_name", FullName: "Ok", Email: "ok@x.com", Password: "123"}, nil)
	require.Equal(t, http.StatusBadRequest, rr.Code)

	var resp struct {
		Details map[string]string `json:"details"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, map[string]string{"password": "password length must be 6-72 characters"}, resp.Details)
}

func TestAuthController_LoginHandler(t *testing.T) {
	tests := []struct {
		name       string
		body       any
		login      func(ctx context.Context, username, password string) (string, *domain.User, error)
		wantStatus int
		wantErr    string
	}{
		{
			name:       "400 invalid json",
			body:       "not json",
			wantStatus: http.StatusBadRequest,
			wantErr:    "invalid json",
		},
		{
			name:       "400 missing fields",
			body:       auth.LoginRequest{},
			wantStatus: http.StatusBadRequest,
			wantErr:    "invalid request body",
		},
		{
			name: "401 invalid credentials",
			body: auth.LoginRequest{Username: "alice", Password: "wrong"},
			login: func(ctx context.Context, username, password string) (string, *domain.User, error) {
				return "", nil, apperr.Unauthenticated("invalid credentials")
			},
			wantStatus: http.StatusUnauthorized,
			wantErr:    "invalid credentials",
		},
		{
			name: "401 disabled",
			body: auth.LoginRequest{Username: "alice", Password: "secret1"},
			login: func(ctx context.Context, username, password string) (string, *domain.User, error) {
				return "", nil, apperr.Unauthenticated("account is disabled")
			},
			wantStatus: http.StatusUnauthorized,
			wantErr:    "account is disabled",
		},
		{
			name: "200 ok, username trimmed",
			body: auth.LoginRequest{Username: " alice ", Password: " secret1 "},
			login: func(ctx context.Context, username, password string) (string, *domain.User, error) {
				assert.Equal(t, "alice", username)
				assert.Equal(t, " secret1 ", password)
				return "tok", testAlice, nil
			},
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			r := newAuthRouter(t, &FakeUserService{}, &FakeAuthService{LoginFunc: tt.login})
			rr := doReq(t, r, http.MethodPost, RouteLogin, tt.body, nil)
			require.Equal(t, tt.wantStatus, rr.Code)

			if tt.wantErr != "" {
				assert.Equal(t, tt.wantErr, decodeErr(t, rr)["error"])
				return
			}
			var out auth.TokenResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
			assert.Equal(t, "tok", out.AccessToken)
			assert.Equal(t, int64(1), out.User.ID)
		})
	}
}

func TestAuthController_LogoutHandler(t *testing.T) {
	var revoked string
	as := &FakeAuthService{
		LogoutFunc: func(ctx context.Context, token string) error {
			revoked = token
			return nil
		},
	}
	r := newAuthRouter(t, &FakeUserService{}, as)

	rr := doReq(t, r, http.MethodPost, RouteLogout, nil, nil)
	require.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Empty(t, revoked)

	rr = doReq(t, r, http.MethodPost, RouteLogout, nil, bearer("alice-token"))
	require.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "alice-token", revoked)
}

func TestAuthController_ProfileHandler(t *testing.T) {
	us := &FakeUserService{
		ProfileFunc: func(ctx context.Context, actor *access.Actor) (*domain.User, error) {
			require.NotNil(t, actor)
			assert.Equal(t, int64(1), actor.ID)
			assert.False(t, actor.IsAdmin)
			return testAlice, nil
		},
	}
	r := newAuthRouter(t, us, &FakeAuthService{})

	rr := doReq(t, r, http.MethodGet, RouteProfile, nil, bearer("bogus"))
	require.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = doReq(t, r, http.MethodGet, RouteProfile, nil, bearer("alice-token"))
	require.Equal(t, http.StatusOK, rr.Code)

	var out map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	assert.Equal(t, "alice", out["username"])
	assert.Equal(t, "a@x.com", out["email"])
	assert.NotContains(t, out, "password_hash")
	assert.NotContains(t, out, "storage_path")
}
