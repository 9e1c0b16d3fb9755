package token

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/astralume/chirp/auth-service/internal/domain/user"
	autherrors "github.com/astralume/chirp/auth-service/internal/domain/user/errors"
	"github.com/astralume/chirp/auth-service/internal/infra/config"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecretAccess:         "access-secret",
		JWTSecretRefresh:        "refresh-secret",
		JWTSecretEmailVerify:    "email-verify-secret",
		JWTSecretForgotPassword: "forgot-password-secret",
		JWTIssuer:               "test",
		AccessTokenTTL:          time.Minute,
		RefreshTokenTTL:         time.Hour,
		EmailVerifyTokenTTL:     time.Hour,
		ForgotPasswordTokenTTL:  time.Hour,
	}
}

func TestCodec_SignVerifyAllTypes(t *testing.T) {
	codec := NewCodec(testConfig())

	for _, typ := range []Type{Access, Refresh, ForgotPassword, EmailVerify} {
		signed, exp, err := codec.Sign("64f000000000000000000001", user.Unverified, typ)
		if err != nil || signed == "" || exp.IsZero() {
			t.Fatalf("%v: bad sign: %v", typ, err)
		}
		claims, err := codec.Verify(signed, typ)
		if err != nil {
			t.Fatalf("%v: verify: %v", typ, err)
		}
		if claims.UserID != "64f000000000000000000001" {
			t.Fatalf("%v: want user id, got %s", typ, claims.UserID)
		}
		if claims.TokenType != typ {
			t.Fatalf("%v: wrong token type %v", typ, claims.TokenType)
		}
		if claims.ID == "" {
			t.Fatalf("%v: missing jti", typ)
		}
	}
}

func TestCodec_EmbedsVerifyStatus(t *testing.T) {
	codec := NewCodec(testConfig())

	signed, _, err := codec.Sign("u1", user.Banned, Access)
	if err != nil {
		t.Fatal(err)
	}
	claims, err := codec.Verify(signed, Access)
	if err != nil {
		t.Fatal(err)
	}
	if claims.Verify != user.Banned {
		t.Fatalf("want banned, got %v", claims.Verify)
	}
}

func TestCodec_CrossSecretRejected(t *testing.T) {
	codec := NewCodec(testConfig())

	other := testConfig()
	other.JWTSecretAccess = "another-secret"
	otherCodec := NewCodec(other)

	signed, _, _ := otherCodec.Sign("u1", user.Unverified, Access)
	if _, err := codec.Verify(signed, Access); !errors.Is(err, autherrors.ErrInvalidToken) {
		t.Fatalf("want invalid token, got %v", err)
	}
}

func TestCodec_CrossTypeRejected(t *testing.T) {
	// Same secret for every type so the type check itself is exercised,
	// not just the per-type secrets.
	cfg := testConfig()
	cfg.JWTSecretAccess = "shared"
	cfg.JWTSecretRefresh = "shared"
	cfg.JWTSecretEmailVerify = "shared"
	cfg.JWTSecretForgotPassword = "shared"
	codec := NewCodec(cfg)

	signed, _, err := codec.Sign("u1", user.Unverified, Access)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := codec.Verify(signed, Refresh); !errors.Is(err, autherrors.ErrInvalidToken) {
		t.Fatalf("want invalid token on type mismatch, got %v", err)
	}
}

func TestCodec_Expired(t *testing.T) {
	cfg := testConfig()
	cfg.AccessTokenTTL = -time.Minute
	codec := NewCodec(cfg)

	signed, _, err := codec.Sign("u1", user.Unverified, Access)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := codec.Verify(signed, Access); !errors.Is(err, autherrors.ErrExpiredToken) {
		t.Fatalf("want expired token, got %v", err)
	}
}

func TestCodec_InvalidAlg(t *testing.T) {
	codec := NewCodec(testConfig())

	signed, _ := jwt.NewWithClaims(jwt.SigningMethodHS384, jwt.MapClaims{"sub": "u1"}).
		SignedString([]byte("access-secret"))
	if _, err := codec.Verify(signed, Access); !errors.Is(err, autherrors.ErrInvalidToken) {
		t.Fatalf("want invalid token on alg mismatch, got %v", err)
	}
}

func TestCodec_Garbage(t *testing.T) {
	codec := NewCodec(testConfig())
	if _, err := codec.Verify("not-a-token", Access); !errors.Is(err, autherrors.ErrInvalidToken) {
		t.Fatalf("want invalid token, got %v", err)
	}
}
