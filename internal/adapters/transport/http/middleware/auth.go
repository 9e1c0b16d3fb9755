package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/astralume/chirp/auth-service/internal/app/auth/token"
	"github.com/astralume/chirp/auth-service/internal/domain/user"
	autherrors "github.com/astralume/chirp/auth-service/internal/domain/user/errors"
)

const claimsKey = "auth_claims"

// Auth requires a Bearer access token and stashes its claims in the context.
// Any other token flavour presented here is rejected by the codec.
func Auth(codec *token.Codec) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		scheme, raw, ok := strings.Cut(header, " ")
		if !ok || scheme != "Bearer" || raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code":    autherrors.ErrInvalidToken.Code(),
				"message": "access token is required",
			})
			return
		}

		claims, err := codec.Verify(raw, token.Access)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// ClaimsFrom returns the access-token claims set by Auth.
func ClaimsFrom(c *gin.Context) (token.Claims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return token.Claims{}, false
	}
	claims, ok := v.(token.Claims)
	return claims, ok
}

// RequireVerified gates endpoints on the verify status embedded in the
// access token. The status is the one current at issue time; a token minted
// before verification keeps reading Unverified until it expires.
func RequireVerified() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := ClaimsFrom(c)
		if !ok {
			AbortWithError(c, autherrors.ErrInvalidToken)
			return
		}
		if claims.Verify != user.Verified {
			AbortWithError(c, autherrors.ErrNotVerified)
			return
		}
		c.Next()
	}
}

// AbortWithError translates a service error into the JSON error envelope.
func AbortWithError(c *gin.Context, err error) {
	var e *autherrors.Error
	if !errors.As(err, &e) {
		e = autherrors.ErrInternal
	}
	msg := e.Error()
	if e.Kind() == autherrors.KindInternal {
		msg = "internal server error"
	}
	c.AbortWithStatusJSON(e.Status(), gin.H{"code": e.Code(), "message": msg})
}
