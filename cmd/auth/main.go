package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	mongoRepo "github.com/astralume/chirp/auth-service/internal/adapters/db/mongo"
	redisRepo "github.com/astralume/chirp/auth-service/internal/adapters/db/redis"
	httpTransport "github.com/astralume/chirp/auth-service/internal/adapters/transport/http"
	"github.com/astralume/chirp/auth-service/internal/adapters/transport/http/dto"
	"github.com/astralume/chirp/auth-service/internal/adapters/transport/http/middleware"
	"github.com/astralume/chirp/auth-service/internal/app/auth/password"
	appsvc "github.com/astralume/chirp/auth-service/internal/app/auth/service"
	"github.com/astralume/chirp/auth-service/internal/app/auth/token"
	"github.com/astralume/chirp/auth-service/internal/infra/config"
	lg "github.com/astralume/chirp/auth-service/internal/infra/log"
	mongoInfra "github.com/astralume/chirp/auth-service/internal/infra/mongo"
)

func main() {
	// .env is a dev convenience; production uses real env vars
	_ = godotenv.Load()

	zapLog := lg.Must(os.Getenv("LOG_LEVEL"))
	defer zapLog.Sync()

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("failed to load config", zap.Error(err))
	}

	rootCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	connectCtx, connectCancel := context.WithTimeout(rootCtx, 10*time.Second)
	mongoClient, err := mongoInfra.Open(connectCtx, cfg.MongoURI)
	connectCancel()
	if err != nil {
		zapLog.Fatal("failed to connect to mongo", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := mongoClient.Disconnect(ctx); err != nil {
			zapLog.Error("mongo disconnect", zap.Error(err))
		}
	}()

	db := mongoClient.Database(cfg.MongoDatabase)
	if err := mongoInfra.EnsureIndexes(rootCtx, db); err != nil {
		zapLog.Fatal("failed to ensure indexes", zap.Error(err))
	}

	redisCli := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddress,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer redisCli.Close()

	validate := dto.NewValidator()

	userRepo := mongoRepo.NewUserRepo(db)
	tokenRepo := mongoRepo.NewRefreshTokenRepo(db)
	followerRepo := mongoRepo.NewFollowerRepo(db)
	cooldownStore := redisRepo.NewCooldownStore(redisCli)
	codec := token.NewCodec(cfg)
	hasher := password.New(cfg.PasswordPepper)

	svc := appsvc.New(userRepo, tokenRepo, followerRepo, cooldownStore, codec, hasher, cfg, validate)
	handler := httpTransport.NewHandler(svc, codec, zapLog)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(zapLog))
	router.Use(middleware.RateLimitPerIP(50, 100, 10_000, time.Hour))

	if len(cfg.AllowedOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: cfg.AllowCredentials,
			MaxAge:           12 * time.Hour,
		}))
	}

	handler.RegisterRoutes(router)

	srv := &http.Server{Addr: cfg.HTTPAddress, Handler: router}
	g, gCtx := errgroup.WithContext(rootCtx)

	g.Go(func() error {
		zapLog.Info("http server listening", zap.String("addr", cfg.HTTPAddress))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		return srv.Shutdown(shutdownCtx)
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLog.Info("shutdown signal received")
	cancel()

	if err := g.Wait(); err != nil {
		zapLog.Error("server terminated", zap.Error(err))
	}
}
