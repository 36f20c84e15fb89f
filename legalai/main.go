package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"legalai/legalai/auth"
	"legalai/legalai/config"
	"legalai/legalai/controllers"
	"legalai/legalai/middlewares"
	"legalai/legalai/routes"
	"legalai/legalai/services/backend"
	"legalai/legalai/services/chat"
	"legalai/legalai/services/ingest"
	"legalai/legalai/sources/psql"
	"legalai/legalai/sources/psql/dao"
	"legalai/legalai/sources/storage"
	"legalai/legalai/utils/logging"
	"legalai/legalai/web"

	"github.com/rs/cors"
	"go.uber.org/zap"
)

func main() {
	cfg := config.LoadConfig()
	logging.InitLogger(cfg.LogDir)
	defer logging.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	keys, err := identityKeys(ctx, cfg.Identity)
	if err != nil {
		logging.ErrorLogger.Error("identity provider config error", zap.Error(err))
		os.Exit(1)
	}
	provider := auth.NewJWTProvider(keys, auth.ProviderOptions{
		SessionCookie: cfg.Identity.SessionCookie,
		Issuer:        cfg.Identity.Issuer,
		Audience:      cfg.Identity.Audience,
		Leeway:        30 * time.Second,
	})

	content, err := web.LoadContent(cfg.ContentFile)
	if err != nil {
		logging.ErrorLogger.Error("content load error", zap.Error(err))
		os.Exit(1)
	}
	renderer, err := web.NewRenderer(content)
	if err != nil {
		logging.ErrorLogger.Error("template parse error", zap.Error(err))
		os.Exit(1)
	}

	api := backend.NewClient(cfg.BackendURL, &http.Client{Timeout: cfg.BackendTimeout})

	initCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var recorder ingest.Recorder
	var lister controllers.IngestionLister
	if cfg.DatabaseEnabled() {
		db, err := psql.NewDatabase(initCtx, cfg)
		if err != nil {
			logging.ErrorLogger.Error("database connection error", zap.Error(err))
			os.Exit(1)
		}
		defer db.Close()
		ingestionDAO := dao.NewIngestionDAO(db.DB)
		recorder, lister = ingestionDAO, ingestionDAO
	}

	var archiver ingest.Archiver
	if cfg.StorageEnabled() {
		minioClient, err := storage.NewMinIOClient(initCtx, cfg)
		if err != nil {
			logging.ErrorLogger.Error("minio connection error", zap.Error(err))
			os.Exit(1)
		}
		archiver = minioClient
	}

	registry := chat.NewRegistry(cfg.ChatViewTTL)
	defer registry.Shutdown()

	guard := middlewares.NewGuard(provider, renderer.Handler("loading", "Loading"))
	router := routes.NewRouter(routes.Controllers{
		Pages:  controllers.NewPagesController(renderer),
		Auth:   controllers.NewAuthController(renderer, cfg.Identity),
		Client: controllers.NewClientController(renderer, registry, api),
		Admin:  controllers.NewAdminController(renderer, ingest.NewService(api, recorder, archiver), lister, cfg.IngestMaxMiB),
		Health: controllers.NewHealthController(keys.Ready, api),
	}, guard, cfg)

	var handler http.Handler = router
	// rs/cors treats an empty origin list as "allow all", so only wrap when
	// origins are configured
	if len(cfg.CORSOrigins) > 0 {
		handler = cors.New(cors.Options{
			AllowedOrigins:   cfg.CORSOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost},
			AllowedHeaders:   []string{"Authorization", "Content-Type"},
			AllowCredentials: true,
		}).Handler(router)
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logging.AppLogger.Info("server listening", zap.String("addr", cfg.Addr), zap.String("backend", cfg.BackendURL))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.ErrorLogger.Error("server listen error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.ErrorLogger.Error("server shutdown error", zap.Error(err))
	}
	logging.AppLogger.Info("server shutdown complete")
}

// identityKeys picks the verification keys for session tokens. A JWKS URL
// wins over a shared secret.
func identityKeys(ctx context.Context, cfg config.IdentityConfig) (auth.KeySource, error) {
	switch {
	case cfg.JWKSURL != "":
		cache := auth.NewJWKSCache(cfg.JWKSURL, nil, cfg.JWKSRefresh)
		go cache.Run(ctx)
		return cache, nil
	case cfg.HMACSecret != "":
		return auth.HMACKey(cfg.HMACSecret), nil
	}
	return nil, errors.New("set IDP_JWKS_URL or IDP_HMAC_SECRET")
}
