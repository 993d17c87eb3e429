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

	authrepo "questrack/internal/auth/repository"
	authsvc "questrack/internal/auth/service"
	"questrack/internal/common/cache"
	commonmw "questrack/internal/common/http/middleware"
	"questrack/internal/web/apiclient"
	"questrack/internal/web/fetch"
	"questrack/internal/web/handler"
	"questrack/internal/web/query"
	"questrack/internal/web/session"
	"questrack/pkg/utils/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const defaultConfigPath = "configs/web.yaml"

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

	redisCache, err := cache.NewRedisCacheWithConfig(&appCfg.Redis)
	if err != nil {
		logger.Error(context.Background(), "init redis failed", zap.Error(err))
		return
	}
	defer func() {
		_ = redisCache.Close()
	}()

	revocation, err := authrepo.NewRevocationRepository(redisCache, appCfg.Session.Revocation)
	if err != nil {
		logger.Error(context.Background(), "init revocation store failed", zap.Error(err))
		return
	}
	authService := authsvc.NewAuthService(appCfg.Session.JWTSecret, appCfg.Session.JWTIssuer, revocation)
	provider := session.NewProvider(authService, appCfg.Session.CookieName)

	queryClient, err := query.NewClient(appCfg.Query)
	if err != nil {
		logger.Error(context.Background(), "init query cache failed", zap.Error(err))
		return
	}
	api := apiclient.New(appCfg.API)
	pages := handler.NewPages(fetch.NewAdapter(queryClient, api), api)

	httpServer := buildHTTPServer(appCfg.Server, pages, provider, session.GateConfig{SignInPath: appCfg.Session.SignInPath})

	errCh := make(chan error, 1)
	go func() {
		logger.Info(context.Background(), "web http server started",
			zap.String("addr", appCfg.Server.Addr),
			zap.String("api", appCfg.API.BaseURL),
		)
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

func buildHTTPServer(cfg ServerConfig, pages *handler.Pages, provider *session.Provider, gate session.GateConfig) *http.Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(commonmw.TraceContextMiddleware())
	router.Use(commonmw.RequestLogger())
	router.SetHTMLTemplate(handler.Templates())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	pages.Register(router, provider, gate)

	return &http.Server{
		Addr:         cfg.Addr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
}
