package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kvbuilders/site/internal/config"
	"github.com/kvbuilders/site/internal/handler"
	"github.com/kvbuilders/site/internal/logging"
	"github.com/kvbuilders/site/internal/notify"
	"github.com/kvbuilders/site/internal/repository"
	"github.com/kvbuilders/site/internal/service"
	"github.com/kvbuilders/site/internal/site"
	"github.com/kvbuilders/site/internal/storage"
	"github.com/kvbuilders/site/internal/web"
	"github.com/kvbuilders/site/pkg/auth"
)

const mediaURLPrefix = "/media"

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Logging is not configured yet; use the default handler.
		logging.Fatal("load config failed", "error", err)
	}
	logging.Setup(cfg.LogLevel)

	ctx := context.Background()

	inquiryRepo, closeRepo := openInquiryStore(ctx, cfg)
	defer closeRepo()

	var notifier service.Notifier
	if cfg.SMTP.Host != "" {
		mailer, err := notify.NewMailer(cfg.SMTP)
		if err != nil {
			logging.Fatal("create mailer failed", "error", err)
		}
		notifier = mailer
	} else {
		slog.Info("SMTP_HOST not set; e-mail notifications disabled")
	}
	inquiryService := service.NewInquiryService(inquiryRepo, notifier)

	limiter, closeLimiter := newLimiter(ctx, cfg)
	defer closeLimiter()

	media := openMediaStore(ctx, cfg)
	page, err := site.NewPage(media, site.DefaultContent)
	if err != nil {
		logging.Fatal("load page templates failed", "error", err)
	}
	adminView, err := handler.NewAdminViewHandler(cfg.AdminAPIURL(), &http.Client{Timeout: 15 * time.Second})
	if err != nil {
		logging.Fatal("load admin templates failed", "error", err)
	}

	h := handler.New(inquiryRepo, cfg.CORSOrigins)
	inquiryHandler := handler.NewInquiryHandler(inquiryService)
	siteHandler := handler.NewSiteHandler(page)
	mediaHandler := handler.NewMediaHandler(media)
	requireAdmin := auth.RequireAdmin(auth.NewPasswordVerifier(cfg.AdminPassword, cfg.AdminPasswordHash))
	rateLimit := handler.RateLimit(limiter, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", h.Health)
	mux.Handle("POST /api/contact", rateLimit(http.HandlerFunc(inquiryHandler.Submit)))

	// Admin API: every request carries the Basic credential
	mux.Handle("GET /api/admin/inquiries", requireAdmin(http.HandlerFunc(inquiryHandler.AdminList)))
	mux.Handle("PATCH /api/admin/inquiries/{id}", requireAdmin(http.HandlerFunc(inquiryHandler.UpdateStatus)))

	// Pages
	mux.HandleFunc("GET /{$}", siteHandler.Home)
	mux.HandleFunc("GET /admin", adminView.Show)
	mux.HandleFunc("POST /admin", adminView.Action)
	mux.HandleFunc("GET "+mediaURLPrefix+"/{key...}", mediaHandler.Serve)
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(web.Static()))))

	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler.RequestLogger(handler.SecurityHeaders(h.CORS(mux))),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		slog.Info("server listening", "addr", server.Addr, "store", cfg.InquiryStore)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}

// openInquiryStore connects the configured backend and returns a func that
// releases it.
func openInquiryStore(ctx context.Context, cfg config.Config) (repository.InquiryRepository, func()) {
	switch cfg.InquiryStore {
	case config.StoreMongo:
		client, err := repository.NewMongoClient(ctx, cfg.MongoURL)
		if err != nil {
			logging.Fatal("failed to connect to mongodb", "error", err)
		}
		repo := repository.NewMongoInquiryRepository(client, cfg.MongoDatabase)
		if err := repo.EnsureIndexes(ctx); err != nil {
			slog.Warn("ensure mongodb indexes failed", "error", err)
		}
		return repo, func() {
			dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = client.Disconnect(dctx)
		}
	default:
		pool, err := repository.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			logging.Fatal("failed to connect to database", "error", err)
		}
		return repository.NewPgInquiryRepository(pool), pool.Close
	}
}

// newLimiter returns the Redis limiter when REDIS_URL is set and reachable,
// otherwise the in-process one.
func newLimiter(ctx context.Context, cfg config.Config) (handler.Limiter, func()) {
	if cfg.RedisURL != "" {
		client, err := handler.NewRedisClient(ctx, cfg.RedisURL)
		if err == nil {
			return handler.NewRedisLimiter(client, "kvbuilders:contact:", cfg.ContactRateLimit, time.Minute),
				func() { _ = client.Close() }
		}
		slog.Warn("redis unavailable; using in-memory rate limiter", "error", err)
	}
	rl := handler.NewMemoryLimiter(cfg.ContactRateLimit)
	return rl, rl.Close
}

func openMediaStore(ctx context.Context, cfg config.Config) storage.Storage {
	if cfg.S3.Bucket != "" {
		client, err := storage.NewS3Client(ctx, cfg.S3.Region, cfg.S3.AccessKey, cfg.S3.SecretKey)
		if err != nil {
			logging.Fatal("create s3 client failed", "error", err)
		}
		return storage.NewS3Storage(client, cfg.S3.Bucket, mediaURLPrefix)
	}
	if _, err := os.Stat(cfg.MediaDir); errors.Is(err, fs.ErrNotExist) {
		slog.Info("media dir not found; gallery shows default images", "dir", cfg.MediaDir)
	}
	return storage.NewLocalStorage(cfg.MediaDir, mediaURLPrefix)
}
