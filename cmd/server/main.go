package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lalajet/backend/internal/application/quoting"
	"github.com/lalajet/backend/internal/infrastructure/auth"
	"github.com/lalajet/backend/internal/infrastructure/config"
	"github.com/lalajet/backend/internal/infrastructure/localcache"
	applogger "github.com/lalajet/backend/internal/infrastructure/logger"
	"github.com/lalajet/backend/internal/infrastructure/remote"
	"github.com/lalajet/backend/internal/infrastructure/storage"
	"github.com/lalajet/backend/internal/interfaces/http/handler"
	"github.com/lalajet/backend/internal/interfaces/http/middleware"
	"github.com/lalajet/backend/internal/interfaces/http/router"
	"github.com/lalajet/backend/internal/store"
	"github.com/lalajet/backend/internal/sync"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := applogger.New(&applogger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = applogger.Sync(log)
	}()

	log.Info("Starting LalaJet backend",
		zap.String("env", cfg.App.Env),
		zap.String("version", version))

	// Remote store connection
	gormLog := applogger.NewGormLogger(log, applogger.MapGormLogLevel(cfg.Log.Level))
	db, err := remote.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to remote store", zap.Error(err))
	}
	defer db.Close()

	// Session identity shared by the engine and the event feed
	sessionID := sync.NewKey("session-")

	// Change-notification feed (optional)
	var feed *remote.Feed
	if cfg.Redis.Enabled {
		feed, err = remote.NewFeed(&cfg.Redis, remote.WithFeedLogger(log.Named("feed")))
		if err != nil {
			log.Warn("Feed unavailable, engine will poll", zap.Error(err))
			feed = nil
		} else {
			defer feed.Close()
		}
	}

	adapterOpts := []remote.AdapterOption{remote.WithAdapterLogger(log.Named("remote"))}
	if feed != nil {
		adapterOpts = append(adapterOpts, remote.WithAdapterFeed(feed))
	}
	adapter := remote.NewAdapter(db, sessionID, adapterOpts...)

	// Entity store and convergence engine
	st := store.New()
	engineOpts := []sync.Option{
		sync.WithLogger(log.Named("sync")),
		sync.WithSessionID(sessionID),
		sync.WithQuietPeriod(cfg.Sync.QuietPeriod),
		sync.WithPollInterval(cfg.Sync.PollInterval),
	}
	if cfg.Cache.Enabled {
		cache, err := localcache.Open(cfg.Cache.Path, log.Named("cache"))
		if err != nil {
			log.Warn("Local snapshot cache unavailable", zap.Error(err))
		} else {
			defer cache.Close()
			engineOpts = append(engineOpts, sync.WithCache(cache))
		}
	}
	engine := sync.NewEngine(adapter, st, engineOpts...)
	st.SetOnChange(engine.NotifyChange)

	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()

	if err := engine.Bootstrap(rootCtx); err != nil {
		log.Fatal("Bootstrap failed with no usable cache", zap.Error(err))
	}
	if err := engine.Start(rootCtx); err != nil {
		log.Fatal("Failed to start sync engine", zap.Error(err))
	}
	defer engine.Stop()

	// Image object storage
	var objects quoting.ObjectStorage
	switch cfg.Storage.Provider {
	case "s3":
		s3store, err := storage.NewS3ObjectStorage(&cfg.Storage, storage.WithLogger(log.Named("storage")))
		if err != nil {
			log.Fatal("Failed to initialize object storage", zap.Error(err))
		}
		if err := s3store.EnsureBucket(rootCtx); err != nil {
			log.Warn("Could not ensure storage bucket", zap.Error(err))
		}
		objects = s3store
	default:
		log.Info("Using stub object storage")
		objects = storage.NewStubObjectStorage()
	}

	// Access gate and sessions
	var gate *auth.Gate
	if cfg.Auth.AccessCodeHash != "" {
		gate, err = auth.NewGate(cfg.Auth.AccessCodeHash)
	} else {
		gate, err = auth.NewGateFromPlaintext(cfg.Auth.AccessCode)
	}
	if err != nil {
		log.Fatal("Failed to initialize access gate", zap.Error(err))
	}
	sessions := auth.NewSessionService(cfg.Auth)

	// Application services
	clientService := quoting.NewClientService(st)
	catalogService := quoting.NewCatalogService(st, objects)
	quoteService := quoting.NewQuoteService(st)
	settingsService := quoting.NewSettingsService(st)
	syncService := quoting.NewSyncService(engine)

	// Handlers
	authHandler := handler.NewAuthHandler(gate, sessions)
	clientHandler := handler.NewClientHandler(clientService)
	catalogHandler := handler.NewCatalogHandler(catalogService, cfg.HTTP.MaxBodySize)
	quoteHandler := handler.NewQuoteHandler(quoteService)
	settingsHandler := handler.NewSettingsHandler(settingsService)
	systemHandler := handler.NewSystemHandler(syncService, cfg.App.Name, version)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := middleware.RegisterValidators(); err != nil {
		log.Fatal("Failed to register validators", zap.Error(err))
	}

	ginEngine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := ginEngine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	ginEngine.Use(middleware.RequestID())
	ginEngine.Use(applogger.Recovery(log))
	ginEngine.Use(applogger.GinMiddleware(log))
	ginEngine.Use(middleware.CORS(&cfg.HTTP))
	ginEngine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	ginEngine.GET("/health", systemHandler.Health)

	r := router.NewRouter(ginEngine,
		router.WithAPIVersion("v1"),
		router.WithProtection(middleware.Session(sessions)),
	)
	r.RegisterPublic(authHandler)
	r.Register(clientHandler)
	r.Register(catalogHandler)
	r.Register(quoteHandler)
	r.Register(settingsHandler)
	r.Register(systemHandler)
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        ginEngine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
