package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/astralume/chirp/auth-service/internal/domain/user"
	autherrors "github.com/astralume/chirp/auth-service/internal/domain/user/errors"
	"github.com/astralume/chirp/auth-service/internal/infra/config"
)

// Type discriminates the four token flavours. Each flavour is signed with
// its own secret, so compromising one secret cannot forge another flavour.
type Type int

const (
	Access Type = iota
	Refresh
	ForgotPassword
	EmailVerify
)

func (t Type) String() string {
	switch t {
	case Access:
		return "access"
	case Refresh:
		return "refresh"
	case ForgotPassword:
		return "forgot_password"
	case EmailVerify:
		return "email_verify"
	}
	return "unknown"
}

// Claims carries the signed payload. Verify is the user's verification
// status at issue time; it goes stale if the status changes before expiry.
type Claims struct {
	UserID    string            `json:"user_id"`
	TokenType Type              `json:"token_type"`
	Verify    user.VerifyStatus `json:"verify"`
	jwt.RegisteredClaims
}

type Codec struct {
	secrets map[Type][]byte
	ttls    map[Type]time.Duration
	issuer  string
}

func NewCodec(cfg *config.Config) *Codec {
	return &Codec{
		secrets: map[Type][]byte{
			Access:         []byte(cfg.JWTSecretAccess),
			Refresh:        []byte(cfg.JWTSecretRefresh),
			ForgotPassword: []byte(cfg.JWTSecretForgotPassword),
			EmailVerify:    []byte(cfg.JWTSecretEmailVerify),
		},
		ttls: map[Type]time.Duration{
			Access:         cfg.AccessTokenTTL,
			Refresh:        cfg.RefreshTokenTTL,
			ForgotPassword: cfg.ForgotPasswordTokenTTL,
			EmailVerify:    cfg.EmailVerifyTokenTTL,
		},
		issuer: cfg.JWTIssuer,
	}
}

// Sign mints a token of the given type for userID, embedding the
// verification status current at issue time.
func (c *Codec) Sign(userID string, verify user.VerifyStatus, typ Type) (signed string, exp time.Time, err error) {
	now := time.Now()
	exp = now.Add(c.ttls[typ])

	claims := Claims{
		UserID:    userID,
		TokenType: typ,
		Verify:    verify,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    c.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
			ID:        uuid.NewString(),
		},
	}

	signed, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secrets[typ])
	if err != nil {
		return "", time.Time{}, autherrors.WrapInternal(err, "sign "+typ.String()+" token")
	}
	return signed, exp, nil
}

// Verify checks signature and expiry against the secret for the expected
// type and rejects any token whose embedded type differs, even when the
// signature happens to validate.
func (c *Codec) Verify(raw string, typ Type) (Claims, error) {
	parsed, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, autherrors.ErrInvalidToken
		}
		return c.secrets[typ], nil
	}, jwt.WithIssuedAt())

	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return Claims{}, autherrors.ErrExpiredToken
	case err != nil, parsed == nil, !parsed.Valid:
		return Claims{}, autherrors.ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok {
		return Claims{}, autherrors.ErrInvalidToken
	}
	if claims.TokenType != typ {
		return Claims{}, autherrors.ErrInvalidToken
	}
	if c.issuer != "" && claims.Issuer != c.issuer {
		return Claims{}, autherrors.ErrInvalidToken
	}
	return *claims, nil
}
