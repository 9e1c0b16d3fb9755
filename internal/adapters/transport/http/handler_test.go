package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/astralume/chirp/auth-service/internal/adapters/transport/http/dto"
	"github.com/astralume/chirp/auth-service/internal/app/auth/service"
	"github.com/astralume/chirp/auth-service/internal/app/auth/token"
	"github.com/astralume/chirp/auth-service/internal/domain/user"
	autherrors "github.com/astralume/chirp/auth-service/internal/domain/user/errors"
	"github.com/astralume/chirp/auth-service/internal/infra/config"
)

type svcStub struct {
	registerFn func(context.Context, dto.RegisterDTO) (service.AuthResult, error)
	loginFn    func(context.Context, dto.LoginDTO) (user.TokenPair, error)
	logoutFn   func(context.Context, dto.LogoutDTO) error
	getMeFn    func(context.Context, string) (user.Profile, error)
	updateMeFn func(context.Context, string, dto.UpdateMeDTO) (user.Profile, error)
	followFn   func(context.Context, string, dto.FollowDTO) error
	unfollowFn func(context.Context, string, string) error
}

func (s *svcStub) Register(ctx context.Context, in dto.RegisterDTO) (service.AuthResult, error) {
	return s.registerFn(ctx, in)
}

func (s *svcStub) Login(ctx context.Context, in dto.LoginDTO) (user.TokenPair, error) {
	return s.loginFn(ctx, in)
}

func (s *svcStub) Logout(ctx context.Context, in dto.LogoutDTO) error {
	return s.logoutFn(ctx, in)
}

func (s *svcStub) Refresh(context.Context, dto.RefreshDTO) (user.TokenPair, error) {
	return user.TokenPair{}, nil
}

func (s *svcStub) VerifyEmail(context.Context, dto.VerifyEmailDTO) (service.VerifyEmailResult, error) {
	return service.VerifyEmailResult{}, nil
}

func (s *svcStub) ResendVerifyEmail(context.Context, string) (string, error) {
	return "", nil
}

func (s *svcStub) ForgotPassword(context.Context, dto.ForgotPasswordDTO) (string, error) {
	return "", nil
}

func (s *svcStub) VerifyForgotPasswordToken(context.Context, dto.VerifyForgotPasswordDTO) error {
	return nil
}

func (s *svcStub) ResetPassword(context.Context, dto.ResetPasswordDTO) (user.Profile, error) {
	return user.Profile{}, nil
}

func (s *svcStub) GetMe(ctx context.Context, userID string) (user.Profile, error) {
	return s.getMeFn(ctx, userID)
}

func (s *svcStub) UpdateMe(ctx context.Context, userID string, in dto.UpdateMeDTO) (user.Profile, error) {
	return s.updateMeFn(ctx, userID, in)
}

func (s *svcStub) Follow(ctx context.Context, userID string, in dto.FollowDTO) error {
	return s.followFn(ctx, userID, in)
}

func (s *svcStub) Unfollow(ctx context.Context, userID, followedUserID string) error {
	return s.unfollowFn(ctx, userID, followedUserID)
}

func testCodec() *token.Codec {
	return token.NewCodec(&config.Config{
		JWTSecretAccess:         "access-secret",
		JWTSecretRefresh:        "refresh-secret",
		JWTSecretEmailVerify:    "email-verify-secret",
		JWTSecretForgotPassword: "forgot-password-secret",
		JWTIssuer:               "test",
		AccessTokenTTL:          time.Minute,
		RefreshTokenTTL:         time.Hour,
		EmailVerifyTokenTTL:     time.Hour,
		ForgotPasswordTokenTTL:  time.Hour,
	})
}

func newRouter(t *testing.T, svc service.Service) (*gin.Engine, *token.Codec) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	codec := testCodec()
	r := gin.New()
	NewHandler(svc, codec, zap.NewNop()).RegisterRoutes(r)
	return r, codec
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body, bearer string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return w, env
}

func TestRegisterEndpoint(t *testing.T) {
	svc := &svcStub{
		registerFn: func(_ context.Context, in dto.RegisterDTO) (service.AuthResult, error) {
			require.Equal(t, "alice", in.Username)
			return service.AuthResult{
				User: user.Profile{Username: in.Username, Email: in.Email},
				Pair: user.TokenPair{AccessToken: "at", RefreshToken: "rt"},
			}, nil
		},
	}
	r, _ := newRouter(t, svc)

	w, env := doJSON(t, r, http.MethodPost, "/users/register", `{
		"username": "alice",
		"email": "alice@example.com",
		"password": "Sup3r!secret",
		"confirm_password": "Sup3r!secret",
		"date_of_birth": "2000-01-02"
	}`, "")
	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, 0, env.Code)
	require.Contains(t, string(env.Data), `"access_token":"at"`)
}

func TestRegisterEndpoint_MalformedJSON(t *testing.T) {
	r, _ := newRouter(t, &svcStub{})

	w, env := doJSON(t, r, http.MethodPost, "/users/register", `{"username":`, "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, 1006, env.Code)
}

func TestLoginEndpoint_InvalidCredentials(t *testing.T) {
	svc := &svcStub{
		loginFn: func(context.Context, dto.LoginDTO) (user.TokenPair, error) {
			return user.TokenPair{}, autherrors.ErrInvalidCredentials
		},
	}
	r, _ := newRouter(t, svc)

	w, env := doJSON(t, r, http.MethodPost, "/users/login",
		`{"email": "alice@example.com", "password": "wrong"}`, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, 1002, env.Code)
	require.Equal(t, "wrong email or password", env.Message)
}

func TestLoginEndpoint_InternalErrorIsOpaque(t *testing.T) {
	svc := &svcStub{
		loginFn: func(context.Context, dto.LoginDTO) (user.TokenPair, error) {
			return user.TokenPair{}, autherrors.WrapInternal(context.DeadlineExceeded, "query users")
		},
	}
	r, _ := newRouter(t, svc)

	w, env := doJSON(t, r, http.MethodPost, "/users/login",
		`{"email": "alice@example.com", "password": "pw"}`, "")
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.Equal(t, 1000, env.Code)
	require.Equal(t, "internal server error", env.Message)
	require.NotContains(t, env.Message, "query users")
}

func TestGetMe_RequiresToken(t *testing.T) {
	r, _ := newRouter(t, &svcStub{})

	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetMe(t *testing.T) {
	svc := &svcStub{
		getMeFn: func(_ context.Context, userID string) (user.Profile, error) {
			return user.Profile{ID: userID, Username: "alice"}, nil
		},
	}
	r, codec := newRouter(t, svc)

	at, _, err := codec.Sign("64f000000000000000000001", user.Verified, token.Access)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+at)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"username":"alice"`)
}

func TestGetMe_RefreshTokenRejected(t *testing.T) {
	r, codec := newRouter(t, &svcStub{})

	rt, _, err := codec.Sign("64f000000000000000000001", user.Verified, token.Refresh)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+rt)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUpdateMe_RequiresVerified(t *testing.T) {
	r, codec := newRouter(t, &svcStub{})

	at, _, err := codec.Sign("64f000000000000000000001", user.Unverified, token.Access)
	require.NoError(t, err)

	w, env := doJSON(t, r, http.MethodPatch, "/users/me", `{"bio": "hello"}`, at)
	require.Equal(t, http.StatusForbidden, w.Code)
	require.Equal(t, 1003, env.Code)
}

func TestLogoutEndpoint_PairsHeaderWithBody(t *testing.T) {
	var got dto.LogoutDTO
	svc := &svcStub{
		logoutFn: func(_ context.Context, in dto.LogoutDTO) error {
			got = in
			return nil
		},
	}
	r, _ := newRouter(t, svc)

	w, _ := doJSON(t, r, http.MethodPost, "/users/logout", `{"refresh_token": "rt"}`, "at")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "at", got.AccessToken)
	require.Equal(t, "rt", got.RefreshToken)
}

func TestUnfollowEndpoint_PassesRouteParam(t *testing.T) {
	var gotUser, gotTarget string
	svc := &svcStub{
		unfollowFn: func(_ context.Context, userID, followedUserID string) error {
			gotUser, gotTarget = userID, followedUserID
			return nil
		},
	}
	r, codec := newRouter(t, svc)

	at, _, err := codec.Sign("64f000000000000000000001", user.Verified, token.Access)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodDelete, "/users/follow/64f000000000000000000002", nil)
	req.Header.Set("Authorization", "Bearer "+at)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "64f000000000000000000001", gotUser)
	require.Equal(t, "64f000000000000000000002", gotTarget)
}
