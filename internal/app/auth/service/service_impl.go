package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/astralume/chirp/auth-service/internal/adapters/transport/http/dto"
	"github.com/astralume/chirp/auth-service/internal/app/auth/password"
	"github.com/astralume/chirp/auth-service/internal/app/auth/token"
	"github.com/astralume/chirp/auth-service/internal/domain/user"
	autherrors "github.com/astralume/chirp/auth-service/internal/domain/user/errors"
	"github.com/astralume/chirp/auth-service/internal/domain/user/repo"
	"github.com/astralume/chirp/auth-service/internal/infra/config"
)

type authService struct {
	users     repo.UserRepo
	tokens    repo.RefreshTokenRepo
	followers repo.FollowerRepo
	cooldown  repo.CooldownStore
	codec     *token.Codec
	hasher    *password.Hasher
	cfg       *config.Config
	v         *validator.Validate
}

func New(
	ur repo.UserRepo,
	tr repo.RefreshTokenRepo,
	fr repo.FollowerRepo,
	cs repo.CooldownStore,
	codec *token.Codec,
	hasher *password.Hasher,
	cfg *config.Config,
	v *validator.Validate,
) Service {
	return &authService{
		users: ur, tokens: tr, followers: fr, cooldown: cs,
		codec: codec, hasher: hasher, cfg: cfg, v: v,
	}
}

func (a *authService) Register(ctx context.Context, in dto.RegisterDTO) (AuthResult, error) {
	if err := a.v.Struct(in); err != nil {
		return AuthResult{}, autherrors.NewInvalidArgument(err.Error())
	}

	email := normalizeEmail(in.Email)
	dob, err := parseDate(in.DateOfBirth)
	if err != nil {
		return AuthResult{}, err
	}

	// Pre-checks only; the unique indexes are the authoritative guard.
	if _, err := a.users.GetByEmail(ctx, email); err == nil {
		return AuthResult{}, autherrors.New(autherrors.KindConflict, "email already exists")
	} else if !autherrors.IsNotFound(err) {
		return AuthResult{}, err
	}
	if _, err := a.users.GetByUsername(ctx, in.Username); err == nil {
		return AuthResult{}, autherrors.New(autherrors.KindConflict, "username already exists")
	} else if !autherrors.IsNotFound(err) {
		return AuthResult{}, err
	}

	hash, err := a.hasher.Hash(in.Password)
	if err != nil {
		return AuthResult{}, err
	}

	id := bson.NewObjectID()
	verifyToken, _, err := a.codec.Sign(id.Hex(), user.Unverified, token.EmailVerify)
	if err != nil {
		return AuthResult{}, err
	}

	now := time.Now().UTC()
	u := user.User{
		ID:               id,
		Username:         in.Username,
		Email:            email,
		Password:         hash,
		DateOfBirth:      dob,
		Verify:           user.Unverified,
		EmailVerifyToken: verifyToken,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if _, err := a.users.Create(ctx, u); err != nil {
		return AuthResult{}, err
	}

	pair, err := a.issueTokens(ctx, id, user.Unverified)
	if err != nil {
		return AuthResult{}, err
	}
	return AuthResult{User: u.Profile(), Pair: pair}, nil
}

func (a *authService) Login(ctx context.Context, in dto.LoginDTO) (user.TokenPair, error) {
	if err := a.v.Struct(in); err != nil {
		return user.TokenPair{}, autherrors.NewInvalidArgument(err.Error())
	}

	u, err := a.users.GetByEmail(ctx, normalizeEmail(in.Email))
	switch {
	case autherrors.IsNotFound(err):
		return user.TokenPair{}, autherrors.ErrInvalidCredentials
	case err != nil:
		return user.TokenPair{}, err
	}

	ok, err := a.hasher.Verify(in.Password, u.Password)
	if err != nil {
		return user.TokenPair{}, err
	}
	if !ok {
		return user.TokenPair{}, autherrors.ErrInvalidCredentials
	}

	// Status is embedded as-is, Banned included. Gating on status is the
	// caller's job, not the credential check's.
	return a.issueTokens(ctx, u.ID, u.Verify)
}

func (a *authService) Logout(ctx context.Context, in dto.LogoutDTO) error {
	if err := a.v.Struct(in); err != nil {
		return autherrors.NewInvalidArgument(err.Error())
	}

	acc, err := a.codec.Verify(in.AccessToken, token.Access)
	if err != nil {
		return err
	}
	ref, err := a.codec.Verify(in.RefreshToken, token.Refresh)
	if err != nil {
		return err
	}
	// An access token from one account paired with a refresh token from
	// another must not revoke anything.
	if acc.UserID == "" || ref.UserID == "" || acc.UserID != ref.UserID {
		return autherrors.ErrTokenUserMismatch
	}

	uid, err := bson.ObjectIDFromHex(acc.UserID)
	if err != nil {
		return autherrors.ErrInvalidToken
	}

	removed, err := a.tokens.Delete(ctx, uid, in.RefreshToken)
	if err != nil {
		return err
	}
	if !removed {
		return autherrors.ErrRefreshTokenNotFound
	}
	return nil
}

func (a *authService) Refresh(ctx context.Context, in dto.RefreshDTO) (user.TokenPair, error) {
	if err := a.v.Struct(in); err != nil {
		return user.TokenPair{}, autherrors.NewInvalidArgument(err.Error())
	}

	claims, err := a.codec.Verify(in.RefreshToken, token.Refresh)
	if err != nil {
		return user.TokenPair{}, err
	}
	uid, err := bson.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return user.TokenPair{}, autherrors.ErrInvalidToken
	}

	// Signature alone is not enough: the ledger entry must still exist.
	rec, err := a.tokens.GetByToken(ctx, in.RefreshToken)
	switch {
	case autherrors.IsNotFound(err):
		return user.TokenPair{}, autherrors.ErrRefreshTokenMissing
	case err != nil:
		return user.TokenPair{}, err
	}
	if rec.UserID != uid {
		return user.TokenPair{}, autherrors.ErrTokenUserMismatch
	}

	u, err := a.users.GetByID(ctx, uid)
	switch {
	case autherrors.IsNotFound(err):
		return user.TokenPair{}, autherrors.ErrInvalidToken
	case err != nil:
		return user.TokenPair{}, err
	}

	// Rotate: the presented token is spent before the new pair is issued.
	removed, err := a.tokens.Delete(ctx, uid, in.RefreshToken)
	if err != nil {
		return user.TokenPair{}, err
	}
	if !removed {
		return user.TokenPair{}, autherrors.ErrRefreshTokenMissing
	}

	return a.issueTokens(ctx, uid, u.Verify)
}

func (a *authService) VerifyEmail(ctx context.Context, in dto.VerifyEmailDTO) (VerifyEmailResult, error) {
	if err := a.v.Struct(in); err != nil {
		return VerifyEmailResult{}, autherrors.NewInvalidArgument(err.Error())
	}

	claims, err := a.codec.Verify(in.EmailVerifyToken, token.EmailVerify)
	if err != nil {
		return VerifyEmailResult{}, err
	}
	uid, err := bson.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return VerifyEmailResult{}, autherrors.ErrInvalidToken
	}

	u, err := a.users.GetByID(ctx, uid)
	switch {
	case autherrors.IsNotFound(err):
		return VerifyEmailResult{}, autherrors.ErrUserNotFound
	case err != nil:
		return VerifyEmailResult{}, err
	}

	// An empty stored token means verification already happened; resubmitting
	// the consumed token is an idempotent success, not an invalid token.
	if u.EmailVerifyToken == "" {
		return VerifyEmailResult{AlreadyVerified: true}, nil
	}
	if u.EmailVerifyToken != in.EmailVerifyToken {
		return VerifyEmailResult{}, autherrors.ErrInvalidToken
	}

	consumed, err := a.users.ConsumeEmailVerifyToken(ctx, uid, in.EmailVerifyToken)
	if err != nil {
		return VerifyEmailResult{}, err
	}
	if !consumed {
		// Lost a race. Tell "already verified" from "token replaced".
		current, err := a.users.GetByID(ctx, uid)
		if err == nil && current.EmailVerifyToken == "" {
			return VerifyEmailResult{AlreadyVerified: true}, nil
		}
		return VerifyEmailResult{}, autherrors.ErrInvalidToken
	}

	pair, err := a.issueTokens(ctx, uid, user.Verified)
	if err != nil {
		return VerifyEmailResult{}, err
	}
	return VerifyEmailResult{Pair: pair}, nil
}

func (a *authService) ResendVerifyEmail(ctx context.Context, userID string) (string, error) {
	uid, err := bson.ObjectIDFromHex(userID)
	if err != nil {
		return "", autherrors.ErrUserNotFound
	}

	u, err := a.users.GetByID(ctx, uid)
	switch {
	case autherrors.IsNotFound(err):
		return "", autherrors.ErrUserNotFound
	case err != nil:
		return "", err
	}

	switch u.Verify {
	case user.Verified:
		return "", autherrors.ErrAlreadyVerified
	case user.Banned:
		return "", autherrors.ErrBanned
	}

	if a.cooldown != nil {
		ok, err := a.cooldown.Acquire(ctx, "verify-resend:"+userID, a.cfg.VerifyResendCooldown)
		if err != nil {
			return "", err
		}
		if !ok {
			return "", autherrors.ErrResendCooldown
		}
	}

	verifyToken, _, err := a.codec.Sign(userID, user.Unverified, token.EmailVerify)
	if err != nil {
		return "", err
	}

	// Overwrites any prior token; only one verify token is live per user.
	set, err := a.users.SetEmailVerifyToken(ctx, uid, verifyToken)
	if err != nil {
		return "", err
	}
	if !set {
		return "", autherrors.ErrAlreadyVerified
	}
	return verifyToken, nil
}

func (a *authService) ForgotPassword(ctx context.Context, in dto.ForgotPasswordDTO) (string, error) {
	if err := a.v.Struct(in); err != nil {
		return "", autherrors.NewInvalidArgument(err.Error())
	}

	u, err := a.users.GetByEmail(ctx, normalizeEmail(in.Email))
	switch {
	case autherrors.IsNotFound(err):
		return "", autherrors.ErrUserNotFound
	case err != nil:
		return "", err
	}

	// Any verify state may reset a password, Unverified included.
	forgotToken, _, err := a.codec.Sign(u.ID.Hex(), u.Verify, token.ForgotPassword)
	if err != nil {
		return "", err
	}
	if err := a.users.SetForgotPasswordToken(ctx, u.ID, forgotToken); err != nil {
		return "", err
	}
	return forgotToken, nil
}

func (a *authService) VerifyForgotPasswordToken(ctx context.Context, in dto.VerifyForgotPasswordDTO) error {
	if err := a.v.Struct(in); err != nil {
		return autherrors.NewInvalidArgument(err.Error())
	}

	u, err := a.userForForgotToken(ctx, in.ForgotPasswordToken)
	if err != nil {
		return err
	}
	// Checked, not consumed: the user may come back later to reset.
	_ = u
	return nil
}

func (a *authService) ResetPassword(ctx context.Context, in dto.ResetPasswordDTO) (user.Profile, error) {
	if err := a.v.Struct(in); err != nil {
		return user.Profile{}, autherrors.NewInvalidArgument(err.Error())
	}

	u, err := a.userForForgotToken(ctx, in.ForgotPasswordToken)
	if err != nil {
		return user.Profile{}, err
	}

	hash, err := a.hasher.Hash(in.Password)
	if err != nil {
		return user.Profile{}, err
	}

	updated, err := a.users.ResetPassword(ctx, u.ID, in.ForgotPasswordToken, hash)
	switch {
	case autherrors.IsNotFound(err):
		// Token consumed by a concurrent reset.
		return user.Profile{}, autherrors.ErrInvalidToken
	case err != nil:
		return user.Profile{}, err
	}
	return updated.Profile(), nil
}

func (a *authService) GetMe(ctx context.Context, userID string) (user.Profile, error) {
	uid, err := bson.ObjectIDFromHex(userID)
	if err != nil {
		return user.Profile{}, autherrors.ErrUserNotFound
	}
	u, err := a.users.GetByID(ctx, uid)
	switch {
	case autherrors.IsNotFound(err):
		return user.Profile{}, autherrors.ErrUserNotFound
	case err != nil:
		return user.Profile{}, err
	}
	return u.Profile(), nil
}

func (a *authService) UpdateMe(ctx context.Context, userID string, in dto.UpdateMeDTO) (user.Profile, error) {
	if err := a.v.Struct(in); err != nil {
		return user.Profile{}, autherrors.NewInvalidArgument(err.Error())
	}
	uid, err := bson.ObjectIDFromHex(userID)
	if err != nil {
		return user.Profile{}, autherrors.ErrUserNotFound
	}

	patch := map[string]any{}
	if in.Username != nil {
		existing, err := a.users.GetByUsername(ctx, *in.Username)
		switch {
		case err == nil && existing.ID != uid:
			return user.Profile{}, autherrors.New(autherrors.KindConflict, "username already exists")
		case err != nil && !autherrors.IsNotFound(err):
			return user.Profile{}, err
		}
		patch["username"] = *in.Username
	}
	if in.DateOfBirth != nil {
		dob, err := parseDate(*in.DateOfBirth)
		if err != nil {
			return user.Profile{}, err
		}
		patch["date_of_birth"] = dob
	}
	if in.Bio != nil {
		patch["bio"] = *in.Bio
	}
	if in.Location != nil {
		patch["location"] = *in.Location
	}
	if in.Website != nil {
		patch["website"] = *in.Website
	}
	if in.Avatar != nil {
		patch["avatar"] = *in.Avatar
	}
	if in.CoverPhoto != nil {
		patch["cover_photo"] = *in.CoverPhoto
	}

	if len(patch) == 0 {
		return a.GetMe(ctx, userID)
	}

	updated, err := a.users.UpdateByID(ctx, uid, patch)
	switch {
	case autherrors.IsNotFound(err):
		return user.Profile{}, autherrors.ErrUserNotFound
	case err != nil:
		return user.Profile{}, err
	}
	return updated.Profile(), nil
}

func (a *authService) Follow(ctx context.Context, userID string, in dto.FollowDTO) error {
	if err := a.v.Struct(in); err != nil {
		return autherrors.NewInvalidArgument(err.Error())
	}
	uid, err := bson.ObjectIDFromHex(userID)
	if err != nil {
		return autherrors.ErrInvalidToken
	}
	fid, err := bson.ObjectIDFromHex(in.FollowedUserID)
	if err != nil {
		return autherrors.ErrUserNotFound
	}
	if fid == uid {
		return autherrors.NewInvalidArgument("cannot follow yourself")
	}

	if _, err := a.users.GetByID(ctx, fid); err != nil {
		if autherrors.IsNotFound(err) {
			return autherrors.ErrUserNotFound
		}
		return err
	}

	created, err := a.followers.Create(ctx, user.Follower{
		UserID:         uid,
		FollowedUserID: fid,
		CreatedAt:      time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	if !created {
		return autherrors.ErrAlreadyFollowing
	}
	return nil
}

func (a *authService) Unfollow(ctx context.Context, userID, followedUserID string) error {
	uid, err := bson.ObjectIDFromHex(userID)
	if err != nil {
		return autherrors.ErrInvalidToken
	}
	fid, err := bson.ObjectIDFromHex(followedUserID)
	if err != nil {
		return autherrors.ErrUserNotFound
	}

	removed, err := a.followers.Delete(ctx, uid, fid)
	if err != nil {
		return err
	}
	if !removed {
		return autherrors.ErrNotFollowing
	}
	return nil
}

func (a *authService) issueTokens(ctx context.Context, uid bson.ObjectID, verify user.VerifyStatus) (user.TokenPair, error) {
	at, atExp, err := a.codec.Sign(uid.Hex(), verify, token.Access)
	if err != nil {
		return user.TokenPair{}, err
	}
	rt, rtExp, err := a.codec.Sign(uid.Hex(), verify, token.Refresh)
	if err != nil {
		return user.TokenPair{}, err
	}

	if err := a.tokens.Create(ctx, user.RefreshToken{
		Token:     rt,
		UserID:    uid,
		CreatedAt: time.Now().UTC(),
	}); err != nil {
		return user.TokenPair{}, err
	}

	now := time.Now()
	return user.TokenPair{
		AccessToken:  at,
		RefreshToken: rt,
		AccessTTL:    atExp.Sub(now),
		RefreshTTL:   rtExp.Sub(now),
		UserID:       uid.Hex(),
	}, nil
}

// userForForgotToken verifies a forgot-password token cryptographically and
// against the value currently stored on the user.
func (a *authService) userForForgotToken(ctx context.Context, raw string) (user.User, error) {
	claims, err := a.codec.Verify(raw, token.ForgotPassword)
	if err != nil {
		return user.User{}, err
	}
	uid, err := bson.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return user.User{}, autherrors.ErrInvalidToken
	}

	u, err := a.users.GetByID(ctx, uid)
	switch {
	case autherrors.IsNotFound(err):
		return user.User{}, autherrors.ErrUserNotFound
	case err != nil:
		return user.User{}, err
	}
	if u.ForgotPasswordToken == "" || u.ForgotPasswordToken != raw {
		return user.User{}, autherrors.ErrInvalidToken
	}
	return u, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, autherrors.NewInvalidArgument("date_of_birth must be an ISO 8601 date")
}
