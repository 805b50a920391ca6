package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	"github.com/aashutosh585/LinkdinClone-assignment/internal/auth"
	"github.com/aashutosh585/LinkdinClone-assignment/internal/config"
	apphttp "github.com/aashutosh585/LinkdinClone-assignment/internal/http"
	"github.com/aashutosh585/LinkdinClone-assignment/internal/ratelimit"
	"github.com/aashutosh585/LinkdinClone-assignment/internal/repository/sqlite"
	"github.com/aashutosh585/LinkdinClone-assignment/internal/service"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}
	if !cfg.Development() {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		logger.Fatalf("open database: %v", err)
	}
	defer db.Close()

	userRepo := sqlite.NewUserRepository(db)
	postRepo := sqlite.NewPostRepository(db)

	if err := userRepo.Init(ctx); err != nil {
		logger.Fatalf("init user repository: %v", err)
	}
	if err := postRepo.Init(ctx); err != nil {
		logger.Fatalf("init post repository: %v", err)
	}

	tokens, err := auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		logger.Fatalf("setup tokens: %v", err)
	}

	store, closeStore, err := buildRateLimitStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("setup rate limit store: %v", err)
	}
	defer closeStore()

	limiters, err := buildLimiters(cfg, store)
	if err != nil {
		logger.Fatalf("setup rate limiters: %v", err)
	}

	if cfg.Development() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	if err := router.SetTrustedProxies(cfg.Server.TrustedProxies); err != nil {
		logger.Fatalf("trusted proxies: %v", err)
	}
	handler := apphttp.NewHandler(apphttp.Options{
		Users:       service.NewUserService(userRepo, cfg.Auth.BcryptCost),
		Posts:       service.NewPostService(postRepo, userRepo),
		Tokens:      tokens,
		Limiters:    limiters,
		Logger:      logger,
		CORSOrigins: cfg.Server.CORSOrigins,
		Development: cfg.Development(),
	})
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Infof("listening on %s (%s mode)", cfg.Server.Addr, cfg.Server.Mode)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("http shutdown: %v", err)
	}

	logger.Info("bye")
}

// buildRateLimitStore returns the configured counter store and a func releasing it.
// The memory store is swept in the background until ctx is done.
func buildRateLimitStore(ctx context.Context, cfg config.Config, logger *logrus.Logger) (ratelimit.Store, func(), error) {
	switch cfg.RateLimit.Backend {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("ping redis %s: %w", cfg.Redis.Addr, err)
		}
		logger.Infof("using redis rate limit store at %s", cfg.Redis.Addr)
		return ratelimit.NewRedisStore(client, "ratelimit:"), func() { _ = client.Close() }, nil
	default:
		store := ratelimit.NewMemoryStore()
		go store.Run(ctx, cfg.RateLimit.SweepInterval)
		logger.Info("using in-memory rate limit store")
		return store, func() {}, nil
	}
}

func buildLimiters(cfg config.Config, store ratelimit.Store) (apphttp.Limiters, error) {
	var (
		limiters apphttp.Limiters
		err      error
	)
	build := func(name string, l config.Limit) *ratelimit.Limiter {
		if err != nil {
			return nil
		}
		var limiter *ratelimit.Limiter
		limiter, err = ratelimit.New(name, ratelimit.Policy{Max: l.Max, Window: l.Window}, store)
		return limiter
	}

	limiters.Signup = build("signup", cfg.RateLimit.Signup)
	limiters.Login = build("login", cfg.RateLimit.Login)
	limiters.Post = build("post", cfg.RateLimit.Post)
	limiters.Like = build("like", cfg.RateLimit.Like)
	limiters.Comment = build("comment", cfg.RateLimit.Comment)
	return limiters, err
}
