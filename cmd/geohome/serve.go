package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/geohome/geohome/internal/cep"
	"github.com/geohome/geohome/internal/config"
	"github.com/geohome/geohome/internal/db"
	"github.com/geohome/geohome/internal/identity"
	"github.com/geohome/geohome/internal/identity/local"
	"github.com/geohome/geohome/internal/identity/supabase"
	"github.com/geohome/geohome/internal/logging"
	"github.com/geohome/geohome/internal/opinion"
	"github.com/geohome/geohome/internal/opinion/claude"
	"github.com/geohome/geohome/internal/photostore"
	photolocal "github.com/geohome/geohome/internal/photostore/local"
	photos3 "github.com/geohome/geohome/internal/photostore/s3"
	"github.com/geohome/geohome/internal/report/remote"
	"github.com/geohome/geohome/internal/service"
	"github.com/geohome/geohome/internal/store"
	"github.com/geohome/geohome/internal/web"
)

var listenAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if listenAddr != "" {
			cfg.ListenAddr = listenAddr
		}

		logger, cleanup, err := logging.New(cfg.LogLevel, cfg.LogFile)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		defer cleanup()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return serve(ctx, cfg, logger)
	},
}

func init() {
	serveCmd.Flags().StringVar(&listenAddr, "addr", "", "listen address (overrides LISTEN_ADDR)")
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func serve(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	database, err := db.Open(cfg.DBDriver, cfg.DSN())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()
	logger.Info("database ready", "driver", cfg.DBDriver)

	inspStore := store.NewInspectionStore(database)
	roomStore := store.NewAreaStore(database, store.RoomsTable)
	extStore := store.NewAreaStore(database, store.ExternalAreasTable)
	keyStore := store.NewKeyStore(database)
	meterStore := store.NewMeterStore(database)
	checklistStore := store.NewChecklistStore(database)
	templateStore := store.NewTemplateStore(database)

	provider := newIdentityProvider(cfg, database, logger)

	photos, err := newPhotoStore(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize photo store: %w", err)
	}

	inspections := service.NewInspectionService(inspStore, roomStore, extStore, keyStore, meterStore,
		checklistStore, templateStore, logger)

	svc := web.Services{
		Auth:          service.NewAuthService(provider, logger),
		Inspections:   inspections,
		Rooms:         service.NewAreaService(inspStore, roomStore, "room", logger),
		ExternalAreas: service.NewAreaService(inspStore, extStore, "external area", logger),
		KeysMeters:    service.NewKeysMetersService(inspStore, keyStore, meterStore, checklistStore, logger),
		Templates:     service.NewTemplateService(templateStore, logger),
		Reports:       service.NewReportService(inspections, remote.New(cfg.PDFServiceURL, cfg.PDFServiceTimeout), logger),
		Opinions:      service.NewOpinionService(inspections, newDrafter(cfg, logger), logger),
		Uploads:       service.NewUploadService(photos, logger),
		CEP:           cep.New(cfg.CEPServiceURL),
	}

	server := web.NewServer(svc, web.Options{
		Production:  cfg.IsProduction(),
		CORSOrigins: cfg.CORSOrigins,
		HealthCheck: database.PingContext,
	}, logger)
	return server.ListenAndServe(ctx, cfg.ListenAddr)
}

func newIdentityProvider(cfg *config.Config, database *db.DB, logger *slog.Logger) identity.Provider {
	if cfg.AuthProvider == "supabase" {
		logger.Info("using supabase auth", "url", cfg.SupabaseURL)
		return supabase.New(cfg.SupabaseURL, cfg.SupabaseAnonKey, nil)
	}
	logger.Info("using local auth", "token_ttl", cfg.JWTTTL.String())
	return local.New(store.NewUserStore(database), store.NewRevokedTokenStore(database), cfg.JWTSecret, cfg.JWTTTL)
}

func newPhotoStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (photostore.PhotoStore, error) {
	if cfg.PhotoBackend == "s3" {
		logger.Info("using s3 photo store", "bucket", cfg.S3Bucket, "endpoint", cfg.S3Endpoint)
		return photos3.New(ctx, photos3.Options{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Prefix:    cfg.S3Prefix,
		}, logger)
	}
	logger.Info("using local photo store", "path", cfg.PhotoPath)
	return photolocal.New(cfg.PhotoPath, logger)
}

// newDrafter returns nil when no API key is configured; the opinion
// endpoint then answers 503.
func newDrafter(cfg *config.Config, logger *slog.Logger) opinion.Drafter {
	if cfg.ClaudeAPIKey == "" {
		logger.Info("technical opinions disabled: CLAUDE_API_KEY not set")
		return nil
	}
	logger.Info("using claude for technical opinions", "model", cfg.ClaudeModel)
	return claude.New(cfg.ClaudeAPIKey, cfg.ClaudeModel)
}
