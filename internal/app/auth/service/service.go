package service

import (
	"context"

	"github.com/astralume/chirp/auth-service/internal/adapters/transport/http/dto"
	"github.com/astralume/chirp/auth-service/internal/domain/user"
)

// AuthResult is returned by flows that create or re-authenticate a user.
type AuthResult struct {
	User user.Profile
	Pair user.TokenPair
}

// VerifyEmailResult distinguishes a fresh verification from a repeat of an
// already-consumed token: the latter is an idempotent success, not an error.
type VerifyEmailResult struct {
	AlreadyVerified bool
	Pair            user.TokenPair
}

type Service interface {
	Register(ctx context.Context, in dto.RegisterDTO) (AuthResult, error)
	Login(ctx context.Context, in dto.LoginDTO) (user.TokenPair, error)
	Logout(ctx context.Context, in dto.LogoutDTO) error
	Refresh(ctx context.Context, in dto.RefreshDTO) (user.TokenPair, error)

	VerifyEmail(ctx context.Context, in dto.VerifyEmailDTO) (VerifyEmailResult, error)
	ResendVerifyEmail(ctx context.Context, userID string) (string, error)

	ForgotPassword(ctx context.Context, in dto.ForgotPasswordDTO) (string, error)
	VerifyForgotPasswordToken(ctx context.Context, in dto.VerifyForgotPasswordDTO) error
	ResetPassword(ctx context.Context, in dto.ResetPasswordDTO) (user.Profile, error)

	GetMe(ctx context.Context, userID string) (user.Profile, error)
	UpdateMe(ctx context.Context, userID string, in dto.UpdateMeDTO) (user.Profile, error)

	Follow(ctx context.Context, userID string, in dto.FollowDTO) error
	Unfollow(ctx context.Context, userID, followedUserID string) error
}
