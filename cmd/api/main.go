package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/bryanwahyu/cancer-predict/internal/application"
	apppred "github.com/bryanwahyu/cancer-predict/internal/application/predictions"
	"github.com/bryanwahyu/cancer-predict/internal/config"
	domain "github.com/bryanwahyu/cancer-predict/internal/domain/predictions"
	fsledger "github.com/bryanwahyu/cancer-predict/internal/infra/db/firestore"
	mysqlp "github.com/bryanwahyu/cancer-predict/internal/infra/db/mysql"
	pgp "github.com/bryanwahyu/cancer-predict/internal/infra/db/postgres"
	sqlitep "github.com/bryanwahyu/cancer-predict/internal/infra/db/sqlite"
	"github.com/bryanwahyu/cancer-predict/internal/infra/httpserver"
	"github.com/bryanwahyu/cancer-predict/internal/infra/imaging"
	"github.com/bryanwahyu/cancer-predict/internal/infra/model"
	"github.com/bryanwahyu/cancer-predict/internal/infra/model/onnx"
	"github.com/bryanwahyu/cancer-predict/internal/infra/storage"
	"github.com/bryanwahyu/cancer-predict/internal/middleware"
	"github.com/bryanwahyu/cancer-predict/internal/zlog"
)

func main() {
	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	// load config
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load error: %v\n", err)
		os.Exit(1)
	}

	if err := zlog.Init(zlog.Options{
		Level:      cfg.Log.Level,
		Path:       cfg.Log.Path,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "logger init error: %v\n", err)
		os.Exit(1)
	}
	defer zlog.Sync()

	ctx := context.Background()

	// ledger
	ledger, closeLedger, err := openLedger(ctx, cfg)
	if err != nil {
		zlog.Fatal("ledger init error", zap.String("driver", cfg.Ledger.Driver), zap.Error(err))
	}
	defer closeLedger()

	checks := map[string]middleware.HealthChecker{
		"ledger": middleware.PingChecker{Pinger: ledger},
	}

	// upload staging (opsional)
	var uploads domain.UploadStore
	switch cfg.Uploads.Driver {
	case "local":
		s, err := storage.NewLocal(cfg.Uploads.Dir)
		if err != nil {
			zlog.Fatal("local upload store init error", zap.Error(err))
		}
		uploads = s
		checks["uploads"] = s
	case "minio":
		s, err := storage.NewMinio(ctx,
			cfg.Minio.Endpoint,
			cfg.Minio.Region,
			cfg.Minio.BucketName,
			cfg.Minio.AccessKey,
			cfg.Minio.SecretKey,
			cfg.Minio.UseSSL,
		)
		if err != nil {
			zlog.Fatal("minio init error", zap.Error(err))
		}
		uploads = s
		checks["uploads"] = s
	}

	// model
	httpClient := &http.Client{Timeout: 2 * time.Minute}
	var loader model.Loader
	switch cfg.Model.Backend {
	case "serving":
		loader = model.ServingLoader(httpClient, cfg.Model.URL)
	default:
		loader = model.ONNXLoader(httpClient, cfg.Model.URL, onnx.Options{
			SharedLibraryPath: cfg.Model.SharedLibraryPath,
			InputName:         cfg.Model.InputName,
			OutputName:        cfg.Model.OutputName,
			OutputShape:       cfg.Model.OutputShape,
		})
	}
	cached := model.NewCached(loader)
	defer cached.Close()

	if cfg.Model.Warmup {
		wctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
		if err := cached.Warm(wctx); err != nil {
			// tidak fatal, request pertama akan coba load lagi
			zlog.Warn("model warmup failed", zap.Error(err))
		}
		cancel()
	}

	// init service
	svc := &apppred.Service{
		Preprocessor: imaging.NewPreprocessor(),
		Model:        cached,
		Ledger:       ledger,
		Uploads:      uploads,
		Clock:        application.SystemClock{},
		StepTimeout:  cfg.Pipeline.StepTimeout,
	}

	// init router
	handler := httpserver.NewRouter(svc, httpserver.Options{
		Health: checks,
		Ready: map[string]middleware.HealthChecker{
			"ledger": checks["ledger"],
			"model":  cached,
		},
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	// run server
	go func() {
		zlog.Info("server listening", zap.String("addr", addr),
			zap.String("model_backend", cfg.Model.Backend),
			zap.String("ledger", cfg.Ledger.Driver),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zlog.Fatal("server error", zap.Error(err))
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	zlog.Info("shutting down server...")

	ctx2, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		zlog.Error("shutdown error", zap.Error(err))
	}
}

// openLedger connects the configured store and returns it with its closer.
func openLedger(ctx context.Context, cfg *config.Config) (domain.Ledger, func(), error) {
	switch cfg.Ledger.Driver {
	case "mysql":
		db, err := mysqlp.Connect(ctx, cfg.MySQLDSN())
		if err != nil {
			return nil, nil, err
		}
		if err := mysqlp.EnsureSchema(ctx, db); err != nil {
			db.Close()
			return nil, nil, err
		}
		return mysqlp.NewPredictionRepository(db), closer(db), nil
	case "postgres":
		db, err := pgp.Connect(ctx, cfg.PostgresDSN())
		if err != nil {
			return nil, nil, err
		}
		if err := pgp.EnsureSchema(ctx, db); err != nil {
			db.Close()
			return nil, nil, err
		}
		return pgp.NewPredictionRepository(db), closer(db), nil
	case "firestore":
		client, err := fsledger.Connect(ctx, cfg.Ledger.Firestore.ProjectID, cfg.Ledger.Firestore.CredentialsFile)
		if err != nil {
			return nil, nil, err
		}
		repo := fsledger.NewPredictionRepository(client, cfg.Ledger.Firestore.Collection)
		return repo, closer(repo), nil
	default:
		db, err := sqlitep.Open(ctx, cfg.Ledger.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		if err := sqlitep.EnsureSchema(ctx, db); err != nil {
			db.Close()
			return nil, nil, err
		}
		return sqlitep.NewPredictionRepository(db), closer(db), nil
	}
}

func closer(c io.Closer) func() {
	return func() {
		if err := c.Close(); err != nil {
			zlog.Warn("close error", zap.Error(err))
		}
	}
}
