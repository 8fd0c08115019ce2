package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logger"
	"github.com/xxxsen/common/logutil"
	"github.com/xxxsen/common/webapi"
	"go.uber.org/zap"

	"github.com/xxxsen/sportmate/internal/config"
	"github.com/xxxsen/sportmate/internal/db"
	"github.com/xxxsen/sportmate/internal/handler"
	"github.com/xxxsen/sportmate/internal/job"
	"github.com/xxxsen/sportmate/internal/mailer"
	"github.com/xxxsen/sportmate/internal/middleware"
	"github.com/xxxsen/sportmate/internal/otp"
	"github.com/xxxsen/sportmate/internal/repo"
	"github.com/xxxsen/sportmate/internal/schedule"
	"github.com/xxxsen/sportmate/internal/service"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "sportmate",
		Short: "sportmate teammate finder backend",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run sportmate server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, conn, err := bootstrap(configPath)
			if err != nil {
				return err
			}
			defer conn.Close()
			return runServer(cfg, conn)
		},
	}

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "apply database migrations and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, conn, err := bootstrap(configPath)
			if err != nil {
				return err
			}
			defer conn.Close()
			logutil.GetLogger(context.Background()).Info("migrations applied")
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config.json")
	rootCmd.AddCommand(runCmd, migrateCmd)

	if err := rootCmd.Execute(); err != nil {
		logutil.GetLogger(context.Background()).Fatal("startup error", zap.Error(err))
	}
}

func bootstrap(configPath string) (*config.Config, *sql.DB, error) {
	if configPath == "" {
		return nil, nil, fmt.Errorf("--config is required")
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	logger.Init(
		cfg.LogConfig.File,
		cfg.LogConfig.Level,
		int(cfg.LogConfig.FileCount),
		int(cfg.LogConfig.FileSize),
		int(cfg.LogConfig.KeepDays),
		cfg.LogConfig.Console,
	)
	logutil.GetLogger(context.Background()).Info("config loaded", zap.String("config", configPath))

	conn, err := db.Open(cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.ApplyMigrations(context.Background(), conn); err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("migrations: %w", err)
	}
	return cfg, conn, nil
}

func runServer(cfg *config.Config, conn *sql.DB) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logutil.GetLogger(ctx).Info(
		"starting server",
		zap.Int("port", cfg.Port),
		zap.String("mail", cfg.Mail.Type),
		zap.Bool("redis", cfg.Redis.URL != ""),
	)

	userRepo := repo.NewUserRepo(conn)
	otpRepo := repo.NewOTPRepo(conn)
	adminRepo := repo.NewAdminRepo(conn)

	otpTTL := time.Duration(cfg.OTP.TTLSeconds) * time.Second
	sender, err := mailer.New(cfg.Mail, otpTTL)
	if err != nil {
		return fmt.Errorf("init mailer: %w", err)
	}
	codes := otp.NewManager(otpRepo, sender, otp.Config{
		TTL:         otpTTL,
		MaxAttempts: cfg.OTP.MaxAttempts,
		CodeLength:  cfg.OTP.CodeLength,
	})

	jwtSecret := []byte(cfg.JWTSecret)
	jwtTTL := time.Hour * time.Duration(cfg.JWTTTLHours)
	authService := service.NewAuthService(userRepo, codes, jwtSecret, jwtTTL)
	discoveryService := service.NewDiscoveryService(userRepo, service.DiscoveryConfig{
		DiscoverLimit: cfg.Discovery.DiscoverLimit,
		NearbyLimit:   cfg.Discovery.NearbyLimit,
		ActiveLimit:   cfg.Discovery.ActiveLimit,
		ScanLimit:     cfg.Discovery.ScanLimit,
	})
	adminService := service.NewAdminService(adminRepo, userRepo, jwtSecret, jwtTTL)
	presenceService := service.NewPresenceService(
		userRepo,
		time.Duration(cfg.Presence.TouchIntervalSeconds)*time.Second,
		cfg.Presence.TouchCacheSize,
	)

	if err := adminService.EnsureSeedAdmin(ctx, cfg.Admin.Email, cfg.Admin.Password, cfg.Admin.Name); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}

	limiter, closeLimiter, err := newLimiter(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeLimiter()

	scheduler := schedule.NewCronScheduler(time.Minute)
	if err := scheduler.AddJob(job.NewOTPCleanupJob(codes), cfg.Jobs.OTPCleanupSpec); err != nil {
		return fmt.Errorf("schedule otp cleanup: %w", err)
	}
	idle := time.Duration(cfg.Presence.IdleHours) * time.Hour
	if err := scheduler.AddJob(job.NewIdleUserJob(presenceService, idle), cfg.Jobs.IdleUserSpec); err != nil {
		return fmt.Errorf("schedule idle users: %w", err)
	}
	scheduler.Start(ctx)
	defer scheduler.Stop()

	deps := handler.RouterDeps{
		Auth:      handler.NewAuthHandler(authService, presenceService),
		Users:     handler.NewUserHandler(discoveryService),
		Admin:     handler.NewAdminHandler(adminService),
		Presence:  presenceService,
		Admins:    adminService,
		Limiter:   limiter,
		JWTSecret: jwtSecret,
	}

	addr := fmt.Sprintf("0.0.0.0:%d", cfg.Port)
	engine, err := webapi.NewEngine(
		"/api",
		addr,
		webapi.WithRegister(func(group *gin.RouterGroup) {
			handler.RegisterRoutes(group, deps)
		}),
		webapi.WithExtraMiddlewares(
			middleware.RequestID(),
			middleware.CORS(cfg.CORSAllowlist),
			gzip.Gzip(gzip.DefaultCompression),
		),
	)
	if err != nil {
		return fmt.Errorf("init web engine: %w", err)
	}
	logutil.GetLogger(ctx).Info("http server listening", zap.String("addr", addr))

	go func() {
		if err := engine.Run(); err != nil && err != http.ErrServerClosed {
			logutil.GetLogger(context.Background()).Error("server error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logutil.GetLogger(context.Background()).Info("server stopping...")
	return nil
}

// newLimiter uses redis when a url is configured and process memory otherwise.
func newLimiter(ctx context.Context, cfg *config.Config) (middleware.Limiter, func(), error) {
	window := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
	if cfg.Redis.URL == "" {
		return middleware.NewMemoryLimiter(cfg.RateLimit.MaxRequests, window), func() {}, nil
	}
	opts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		logutil.GetLogger(ctx).Warn("redis unreachable, rate limit fails open until it recovers", zap.Error(err))
	}
	return middleware.NewRedisLimiter(client, cfg.RateLimit.MaxRequests, window), func() { _ = client.Close() }, nil
}
