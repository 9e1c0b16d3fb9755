package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestError_CodesAndStatuses(t *testing.T) {
	cases := []struct {
		err    *Error
		kind   Kind
		code   int
		status int
	}{
		{ErrInternal, KindInternal, 1000, http.StatusInternalServerError},
		{New(KindValidation, "bad input"), KindValidation, 1001, http.StatusUnprocessableEntity},
		{ErrInvalidCredentials, KindAuthentication, 1002, http.StatusUnauthorized},
		{ErrNotVerified, KindAuthorization, 1003, http.StatusForbidden},
		{ErrUserNotFound, KindNotFound, 1004, http.StatusNotFound},
		{ErrAlreadyExists, KindConflict, 1005, http.StatusConflict},
	}
	for _, tc := range cases {
		require.Equal(t, tc.kind, tc.err.Kind(), tc.err.Error())
		require.Equal(t, tc.code, tc.err.Code(), tc.err.Error())
		require.Equal(t, tc.status, tc.err.Status(), tc.err.Error())
	}
}

func TestKindOf_SurvivesWrapping(t *testing.T) {
	wrapped := fmt.Errorf("login: %w", ErrInvalidCredentials)
	require.Equal(t, KindAuthentication, KindOf(wrapped))
	require.True(t, IsAuthentication(wrapped))
	require.True(t, stderrors.Is(wrapped, ErrInvalidCredentials))
}

func TestKindOf_ForeignErrorIsInternal(t *testing.T) {
	require.Equal(t, KindInternal, KindOf(stderrors.New("driver: connection reset")))
	require.True(t, IsInternal(stderrors.New("boom")))
}

func TestWrapInternal_PreservesCause(t *testing.T) {
	cause := stderrors.New("dial tcp: refused")
	err := WrapInternal(cause, "save user")

	require.True(t, IsInternal(err))
	require.ErrorIs(t, err, cause)
	require.Contains(t, err.Error(), "save user")
	require.Contains(t, err.Error(), "dial tcp: refused")
}

func TestSentinels_AreDistinct(t *testing.T) {
	require.False(t, stderrors.Is(ErrInvalidToken, ErrExpiredToken))
	require.False(t, stderrors.Is(ErrRefreshTokenMissing, ErrRefreshTokenNotFound))
}

func TestIsHelpers(t *testing.T) {
	require.True(t, IsInvalidArgument(NewInvalidArgument("date of birth is malformed")))
	require.True(t, IsAuthorization(ErrBanned))
	require.True(t, IsNotFound(ErrNotFollowing))
	require.True(t, IsConflict(ErrResendCooldown))
}
