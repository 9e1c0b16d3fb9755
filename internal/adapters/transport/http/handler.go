package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/astralume/chirp/auth-service/internal/adapters/transport/http/dto"
	"github.com/astralume/chirp/auth-service/internal/adapters/transport/http/middleware"
	"github.com/astralume/chirp/auth-service/internal/app/auth/service"
	"github.com/astralume/chirp/auth-service/internal/app/auth/token"
)

// Handler maps HTTP requests onto the session service. It owns no business
// logic: binding, claims extraction and error translation only.
type Handler struct {
	svc   service.Service
	codec *token.Codec
	log   *zap.Logger
}

func NewHandler(svc service.Service, codec *token.Codec, log *zap.Logger) *Handler {
	return &Handler{svc: svc, codec: codec, log: log}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	auth := middleware.Auth(h.codec)
	verified := middleware.RequireVerified()

	users := r.Group("/users")
	users.POST("/register", h.register)
	users.POST("/login", h.login)
	users.POST("/logout", h.logout)
	users.POST("/refresh", h.refresh)
	users.POST("/verify-email", h.verifyEmail)
	users.POST("/resend-verify-email", auth, h.resendVerifyEmail)
	users.POST("/forgot-password", h.forgotPassword)
	users.POST("/verify-forgot-password", h.verifyForgotPassword)
	users.POST("/reset-password", h.resetPassword)
	users.GET("/me", auth, h.getMe)
	users.PATCH("/me", auth, verified, h.updateMe)
	users.POST("/follow", auth, verified, h.follow)
	users.DELETE("/follow/:user_id", auth, verified, h.unfollow)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().Unix()})
	})
}

func (h *Handler) register(c *gin.Context) {
	var body dto.RegisterDTO
	if !bind(c, &body) {
		return
	}
	res, err := h.svc.Register(c.Request.Context(), body)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	ok(c, http.StatusCreated, "register success", gin.H{
		"user":          res.User,
		"access_token":  res.Pair.AccessToken,
		"refresh_token": res.Pair.RefreshToken,
	})
}

func (h *Handler) login(c *gin.Context) {
	var body dto.LoginDTO
	if !bind(c, &body) {
		return
	}
	pair, err := h.svc.Login(c.Request.Context(), body)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	ok(c, http.StatusOK, "login success", pair)
}

func (h *Handler) logout(c *gin.Context) {
	var body dto.RefreshDTO
	if !bind(c, &body) {
		return
	}
	err := h.svc.Logout(c.Request.Context(), dto.LogoutDTO{
		AccessToken:  bearerToken(c),
		RefreshToken: body.RefreshToken,
	})
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	ok(c, http.StatusOK, "logout success", nil)
}

func (h *Handler) refresh(c *gin.Context) {
	var body dto.RefreshDTO
	if !bind(c, &body) {
		return
	}
	pair, err := h.svc.Refresh(c.Request.Context(), body)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	ok(c, http.StatusOK, "refresh success", pair)
}

func (h *Handler) verifyEmail(c *gin.Context) {
	var body dto.VerifyEmailDTO
	if !bind(c, &body) {
		return
	}
	res, err := h.svc.VerifyEmail(c.Request.Context(), body)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	if res.AlreadyVerified {
		ok(c, http.StatusOK, "email already verified", nil)
		return
	}
	ok(c, http.StatusOK, "email verify success", res.Pair)
}

func (h *Handler) resendVerifyEmail(c *gin.Context) {
	claims, _ := middleware.ClaimsFrom(c)
	verifyToken, err := h.svc.ResendVerifyEmail(c.Request.Context(), claims.UserID)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	// Delivery is a mailer concern; the token is surfaced for it to pick up.
	ok(c, http.StatusOK, "resend verify email success", gin.H{"email_verify_token": verifyToken})
}

func (h *Handler) forgotPassword(c *gin.Context) {
	var body dto.ForgotPasswordDTO
	if !bind(c, &body) {
		return
	}
	forgotToken, err := h.svc.ForgotPassword(c.Request.Context(), body)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	ok(c, http.StatusOK, "forgot password success", gin.H{"forgot_password_token": forgotToken})
}

func (h *Handler) verifyForgotPassword(c *gin.Context) {
	var body dto.VerifyForgotPasswordDTO
	if !bind(c, &body) {
		return
	}
	if err := h.svc.VerifyForgotPasswordToken(c.Request.Context(), body); err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	ok(c, http.StatusOK, "verify forgot password success", nil)
}

func (h *Handler) resetPassword(c *gin.Context) {
	var body dto.ResetPasswordDTO
	if !bind(c, &body) {
		return
	}
	profile, err := h.svc.ResetPassword(c.Request.Context(), body)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	ok(c, http.StatusOK, "reset password success", profile)
}

func (h *Handler) getMe(c *gin.Context) {
	claims, _ := middleware.ClaimsFrom(c)
	profile, err := h.svc.GetMe(c.Request.Context(), claims.UserID)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	ok(c, http.StatusOK, "get me success", profile)
}

func (h *Handler) updateMe(c *gin.Context) {
	claims, _ := middleware.ClaimsFrom(c)
	var body dto.UpdateMeDTO
	if !bind(c, &body) {
		return
	}
	profile, err := h.svc.UpdateMe(c.Request.Context(), claims.UserID, body)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	ok(c, http.StatusOK, "update me success", profile)
}

func (h *Handler) follow(c *gin.Context) {
	claims, _ := middleware.ClaimsFrom(c)
	var body dto.FollowDTO
	if !bind(c, &body) {
		return
	}
	if err := h.svc.Follow(c.Request.Context(), claims.UserID, body); err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	ok(c, http.StatusOK, "follow success", nil)
}

func (h *Handler) unfollow(c *gin.Context) {
	claims, _ := middleware.ClaimsFrom(c)
	if err := h.svc.Unfollow(c.Request.Context(), claims.UserID, c.Param("user_id")); err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	ok(c, http.StatusOK, "unfollow success", nil)
}

func bind(c *gin.Context, body any) bool {
	if err := c.ShouldBindJSON(body); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"code": 1006, "message": err.Error()})
		return false
	}
	return true
}

func bearerToken(c *gin.Context) string {
	scheme, raw, found := strings.Cut(c.GetHeader("Authorization"), " ")
	if !found || scheme != "Bearer" {
		return ""
	}
	return raw
}

func ok(c *gin.Context, status int, message string, data any) {
	c.JSON(status, gin.H{"code": 0, "message": message, "data": data})
}
