package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	authmw "questrack/internal/auth/middleware"
	authrepo "questrack/internal/auth/repository"
	authsvc "questrack/internal/auth/service"
	"questrack/internal/common/cache"
	"questrack/internal/common/db"
	commonmw "questrack/internal/common/http/middleware"
	"questrack/internal/common/ratelimit"
	"questrack/internal/question/controller"
	"questrack/internal/question/repository"
	"questrack/internal/question/service"
	pkgerrors "questrack/pkg/errors"
	"questrack/pkg/utils/logger"
	"questrack/pkg/utils/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const defaultConfigPath = "configs/question_service.yaml"

func main() {
	configPath := flag.String("config", defaultConfigPath, "Path to config file")
	flag.Parse()

	appCfg, err := loadAppConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load app config failed: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(appCfg.Logger); err != nil {
		fmt.Fprintf(os.Stderr, "init logger failed: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	mysqlDB, err := db.NewMySQLWithConfig(&appCfg.Database)
	if err != nil {
		logger.Error(context.Background(), "init database failed", zap.Error(err))
		return
	}
	defer func() {
		_ = mysqlDB.Close()
	}()

	redisCache, err := cache.NewRedisCacheWithConfig(&appCfg.Redis)
	if err != nil {
		logger.Error(context.Background(), "init redis failed", zap.Error(err))
		return
	}
	defer func() {
		_ = redisCache.Close()
	}()

	revocation, err := authrepo.NewRevocationRepository(redisCache, appCfg.Auth.Revocation)
	if err != nil {
		logger.Error(context.Background(), "init revocation store failed", zap.Error(err))
		return
	}
	authService := authsvc.NewAuthService(appCfg.Auth.JWTSecret, appCfg.Auth.JWTIssuer, revocation)

	questionRepo := repository.NewQuestionRepository(mysqlDB)
	savedRepo := repository.NewSavedQuestionRepositoryWithTTL(mysqlDB, redisCache, appCfg.Saved.CacheTTL, appCfg.Saved.EmptyCacheTTL)
	questionService := service.NewQuestionService(questionRepo, savedRepo)

	limiter := ratelimit.NewLimiter(redisCache, appCfg.RateLimit.Window, appCfg.Auth.Revocation.RedisTimeout)

	httpServer := buildHTTPServer(appCfg, authService, limiter, questionService, mysqlDB, redisCache)

	errCh := make(chan error, 1)
	go func() {
		logger.Info(context.Background(), "question http server started", zap.String("addr", appCfg.Server.Addr))
		errCh <- httpServer.ListenAndServe()
	}()

	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error(context.Background(), "server stopped", zap.Error(err))
		}
	case <-shutdownCtx.Done():
		logger.Info(context.Background(), "shutdown signal received")
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error(context.Background(), "http server shutdown failed", zap.Error(err))
	}
}

type pinger interface {
	Ping(ctx context.Context) error
}

func buildHTTPServer(appCfg *AppConfig, authService *authsvc.AuthService, limiter *ratelimit.Limiter, questionService *service.QuestionService, deps ...pinger) *http.Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(commonmw.TraceContextMiddleware())
	router.Use(commonmw.RequestLogger())

	router.GET("/healthz", healthHandler(deps...))

	api := router.Group("/api/v1",
		authmw.BearerAuth(authService),
		commonmw.RateLimit(limiter, "api", appCfg.RateLimit),
	)
	controller.NewQuestionController(questionService).RegisterRoutes(api)

	return &http.Server{
		Addr:         appCfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  appCfg.Server.ReadTimeout,
		WriteTimeout: appCfg.Server.WriteTimeout,
		IdleTimeout:  appCfg.Server.IdleTimeout,
	}
}

func healthHandler(deps ...pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		for _, dep := range deps {
			if err := dep.Ping(ctx); err != nil {
				response.ErrorWithCode(c, pkgerrors.ServiceUnavailable, "dependency unavailable")
				return
			}
		}
		response.Success(c, gin.H{"status": "ok"})
	}
}
