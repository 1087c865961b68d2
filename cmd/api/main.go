package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	httpadp "kamikaya-backend/internal/adapter/http"
	mw "kamikaya-backend/internal/adapter/middleware"
	"kamikaya-backend/internal/adapter/repository/mongodb"
	"kamikaya-backend/internal/adapter/repository/mysql"
	"kamikaya-backend/internal/adapter/storage/local"
	"kamikaya-backend/internal/adapter/storage/minio"
	"kamikaya-backend/internal/config"
	domain "kamikaya-backend/internal/domain/application"
	"kamikaya-backend/internal/domain/upload"
	"kamikaya-backend/internal/infrastructure/cache"
	"kamikaya-backend/internal/infrastructure/db"
	uc "kamikaya-backend/internal/usecase/application"
	"kamikaya-backend/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	lg, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = lg.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, closeRepo, err := openRepository(ctx, cfg, lg)
	if err != nil {
		lg.Fatal("open repository", zap.String("driver", cfg.StoreDriver), zap.Error(err))
	}
	defer closeRepo()

	files, err := openFileStore(ctx, cfg)
	if err != nil {
		lg.Fatal("open file store", zap.String("kind", cfg.FileStore), zap.Error(err))
	}

	usecase := uc.NewUsecase(repo, files,
		uc.WithPolicy(domain.PolicyByName(cfg.StatusPolicy)),
		uc.WithLogger(lg),
	)

	renderer, err := httpadp.NewRenderer()
	if err != nil {
		lg.Fatal("parse templates", zap.Error(err))
	}
	metrics := mw.NewMetrics()

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = httpadp.NewValidator()
	e.Renderer = renderer
	e.Use(
		mw.RequestLogger(lg),
		echomw.Recover(),
		echomw.CORSWithConfig(echomw.CORSConfig{AllowOrigins: cfg.CORSAllowOrigins}),
		echomw.BodyLimit(cfg.BodyLimit()),
		metrics.Middleware(),
	)

	var applyMW []echo.MiddlewareFunc
	if cfg.RedisAddr != "" {
		rdb, err := cache.OpenRedis(ctx, cfg.RedisAddr, cfg.RedisDB)
		if err != nil {
			lg.Fatal("connect redis", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		}
		defer rdb.Close()
		ttl := time.Duration(cfg.IdempTTLSecs) * time.Second
		applyMW = append(applyMW, mw.Idempotency(rdb, ttl, lg))
		lg.Info("idempotency enabled", zap.String("redis", cfg.RedisAddr), zap.Duration("ttl", ttl))
	}

	httpadp.RegisterRoutes(e, httpadp.Handlers{
		Base:         httpadp.NewHandler(),
		Applications: httpadp.NewApplicationHandler(usecase, metrics),
		Admin:        httpadp.NewAdminHandler(usecase, metrics),
	}, applyMW...)
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))

	addr := ":" + cfg.AppPort
	go func() {
		lg.Info("listening",
			zap.String("addr", addr),
			zap.String("store", cfg.StoreDriver),
			zap.String("file_store", cfg.FileStore),
			zap.String("status_policy", cfg.StatusPolicy))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Fatal("server stopped", zap.Error(err))
		}
	}()

	<-ctx.Done()
	lg.Info("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(sctx); err != nil {
		lg.Error("graceful shutdown", zap.Error(err))
	}
}

func openRepository(ctx context.Context, cfg *config.Config, lg *zap.Logger) (domain.Repository, func(), error) {
	switch cfg.StoreDriver {
	case config.StoreMongo:
		m, err := db.OpenMongo(ctx, cfg.MongoURL, cfg.MongoDB)
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			cctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := m.Close(cctx); err != nil {
				lg.Warn("mongo disconnect", zap.Error(err))
			}
		}
		repo := mongodb.NewApplicationRepository(m.Database)
		if err := repo.EnsureIndexes(ctx); err != nil {
			closeFn()
			return nil, nil, fmt.Errorf("ensure indexes: %w", err)
		}
		return repo, closeFn, nil

	case config.StoreMySQL, config.StoreSQLite:
		driver, dsn := db.DriverMySQL, cfg.MySQLDSN()
		if cfg.StoreDriver == config.StoreSQLite {
			driver, dsn = db.DriverSQLite, cfg.SQLitePath
		}
		gdb, err := db.OpenGorm(driver, dsn, db.WithLogger(lg, cfg.LogLevel))
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			if sqlDB, err := gdb.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		repo := mysql.NewApplicationRepository(gdb)
		if err := repo.Migrate(ctx); err != nil {
			closeFn()
			return nil, nil, fmt.Errorf("migrate: %w", err)
		}
		return repo, closeFn, nil
	}
	return nil, nil, fmt.Errorf("unsupported store driver %q", cfg.StoreDriver)
}

func openFileStore(ctx context.Context, cfg *config.Config) (upload.Store, error) {
	if cfg.FileStore != config.FileStoreMinio {
		return local.NewStore(cfg.UploadDir), nil
	}
	s, err := minio.NewStore(minio.Config{
		Endpoint:  cfg.MinioEndpoint,
		AccessKey: cfg.MinioAccessKey,
		SecretKey: cfg.MinioSecretKey,
		Bucket:    cfg.MinioBucket,
		UseSSL:    cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, err
	}
	if err := s.EnsureBucket(ctx); err != nil {
		return nil, err
	}
	return s, nil
}
