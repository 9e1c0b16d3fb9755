package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	HTTPAddress   string
	MongoURI      string
	MongoDatabase string

	RedisAddress  string
	RedisPassword string
	RedisDB       int

	JWTSecretAccess         string
	JWTSecretRefresh        string
	JWTSecretEmailVerify    string
	JWTSecretForgotPassword string
	JWTIssuer               string

	AccessTokenTTL         time.Duration
	RefreshTokenTTL        time.Duration
	EmailVerifyTokenTTL    time.Duration
	ForgotPasswordTokenTTL time.Duration

	PasswordPepper       string
	VerifyResendCooldown time.Duration

	AllowedOrigins   []string
	AllowCredentials bool
}

var envKeys = []string{
	"HTTP_ADDRESS",
	"MONGODB_URI",
	"DATABASE_NAME",
	"REDIS_ADDRESS",
	"REDIS_PASSWORD",
	"REDIS_DB",
	"JWT_SECRET_ACCESS_TOKEN",
	"JWT_SECRET_REFRESH_TOKEN",
	"JWT_SECRET_EMAIL_VERIFY_TOKEN",
	"JWT_SECRET_FORGOT_PASSWORD_TOKEN",
	"JWT_ISSUER",
	"ACCESS_TOKEN_TTL",
	"REFRESH_TOKEN_TTL",
	"EMAIL_VERIFY_TOKEN_TTL",
	"FORGOT_PASSWORD_TOKEN_TTL",
	"PASSWORD_PEPPER",
	"VERIFY_RESEND_COOLDOWN",
	"ALLOWED_ORIGINS",
	"ALLOW_CREDENTIALS",
}

var requiredKeys = []string{
	"MONGODB_URI",
	"DATABASE_NAME",
	"JWT_SECRET_ACCESS_TOKEN",
	"JWT_SECRET_REFRESH_TOKEN",
	"JWT_SECRET_EMAIL_VERIFY_TOKEN",
	"JWT_SECRET_FORGOT_PASSWORD_TOKEN",
	"JWT_ISSUER",
}

func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	for _, key := range envKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, err
		}
	}

	v.SetDefault("HTTP_ADDRESS", ":8080")
	v.SetDefault("REDIS_ADDRESS", "localhost:6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("ACCESS_TOKEN_TTL", "15m")
	v.SetDefault("REFRESH_TOKEN_TTL", "720h")
	v.SetDefault("EMAIL_VERIFY_TOKEN_TTL", "24h")
	v.SetDefault("FORGOT_PASSWORD_TOKEN_TTL", "2h")
	v.SetDefault("VERIFY_RESEND_COOLDOWN", "1m")

	for _, key := range requiredKeys {
		if v.GetString(key) == "" {
			return nil, fmt.Errorf("config: %s is not set", key)
		}
	}

	cfg := &Config{
		HTTPAddress:   v.GetString("HTTP_ADDRESS"),
		MongoURI:      v.GetString("MONGODB_URI"),
		MongoDatabase: v.GetString("DATABASE_NAME"),

		RedisAddress:  v.GetString("REDIS_ADDRESS"),
		RedisPassword: v.GetString("REDIS_PASSWORD"),
		RedisDB:       v.GetInt("REDIS_DB"),

		JWTSecretAccess:         v.GetString("JWT_SECRET_ACCESS_TOKEN"),
		JWTSecretRefresh:        v.GetString("JWT_SECRET_REFRESH_TOKEN"),
		JWTSecretEmailVerify:    v.GetString("JWT_SECRET_EMAIL_VERIFY_TOKEN"),
		JWTSecretForgotPassword: v.GetString("JWT_SECRET_FORGOT_PASSWORD_TOKEN"),
		JWTIssuer:               v.GetString("JWT_ISSUER"),

		AccessTokenTTL:         v.GetDuration("ACCESS_TOKEN_TTL"),
		RefreshTokenTTL:        v.GetDuration("REFRESH_TOKEN_TTL"),
		EmailVerifyTokenTTL:    v.GetDuration("EMAIL_VERIFY_TOKEN_TTL"),
		ForgotPasswordTokenTTL: v.GetDuration("FORGOT_PASSWORD_TOKEN_TTL"),

		PasswordPepper:       v.GetString("PASSWORD_PEPPER"),
		VerifyResendCooldown: v.GetDuration("VERIFY_RESEND_COOLDOWN"),

		AllowedOrigins:   v.GetStringSlice("ALLOWED_ORIGINS"),
		AllowCredentials: v.GetBool("ALLOW_CREDENTIALS"),
	}

	for key, ttl := range map[string]time.Duration{
		"ACCESS_TOKEN_TTL":          cfg.AccessTokenTTL,
		"REFRESH_TOKEN_TTL":         cfg.RefreshTokenTTL,
		"EMAIL_VERIFY_TOKEN_TTL":    cfg.EmailVerifyTokenTTL,
		"FORGOT_PASSWORD_TOKEN_TTL": cfg.ForgotPasswordTokenTTL,
	} {
		if ttl <= 0 {
			return nil, fmt.Errorf("config: %s must be a positive duration", key)
		}
	}

	return cfg, nil
}
