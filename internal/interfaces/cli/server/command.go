package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"campus/internal/domain/student"
	"campus/internal/domain/tenant"
	"campus/internal/domain/user"
	"campus/internal/infrastructure/config"
	"campus/internal/infrastructure/database"
	"campus/internal/infrastructure/permission"
	"campus/internal/infrastructure/ratelimit"
	httpRouter "campus/internal/interfaces/http"
	"campus/internal/shared/logger"
)

var (
	env         string
	autoMigrate bool
	rbacModel   string
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Start the HTTP server",
		Long:  `Start the Campus HTTP server with the specified configuration.`,
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.Flags().BoolVar(&autoMigrate, "auto-migrate", false, "Create or update database tables on startup (not recommended for production)")
	cmd.Flags().StringVar(&rbacModel, "rbac-model", "configs/rbac_model.conf", "Path to the casbin RBAC model")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	if envVar := os.Getenv("ENV"); envVar != "" {
		env = envVar
	}

	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	cfg.Server.Mode = mapEnvToGinMode(env)

	if err := logger.Init(&cfg.Logger); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	log := logger.NewLogger()
	log.Infow("starting server", "environment", env)

	gin.SetMode(cfg.Server.Mode)
	gin.DefaultWriter = io.Discard
	gin.DebugPrintRouteFunc = func(httpMethod, absolutePath, handlerName string, nuHandlers int) {
	}

	if err := database.Init(&cfg.Database); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	if autoMigrate {
		if env == "production" {
			log.Warnw("auto-migration is enabled in production environment - this is not recommended!")
		}
		if err := database.Get().AutoMigrate(&tenant.University{}, &user.User{}, &student.Student{}); err != nil {
			return fmt.Errorf("auto-migration failed: %w", err)
		}
		log.Infow("auto-migration completed")
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.GetAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		// Redis is an accelerator, not a dependency: the limiter falls back
		// to memory and the dashboard cache is skipped.
		log.Warnw("redis unreachable, continuing without it", "error", err, "addr", cfg.Redis.GetAddr())
		redisClient.Close()
		redisClient = nil
	} else {
		defer redisClient.Close()
	}
	pingCancel()

	limiter := buildLimiter(cfg, redisClient, log)

	enforcer, err := permission.NewEnforcer(database.Get(), rbacModel, log)
	if err != nil {
		return fmt.Errorf("failed to initialize permission enforcer: %w", err)
	}

	router := httpRouter.NewRouter(database.Get(), redisClient, limiter, enforcer, cfg, log)
	router.SetupRoutes(log)

	srv := &http.Server{
		Addr:         cfg.Server.GetAddr(),
		Handler:      router.GetEngine(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "address", cfg.Server.GetAddr(), "mode", cfg.Server.Mode)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
		return err
	}

	log.Info("server exited gracefully")
	return nil
}

func buildLimiter(cfg *config.Config, redisClient *redis.Client, log logger.Interface) ratelimit.Limiter {
	limiterCfg := ratelimit.Config{
		PerTenantPerWindow: int64(cfg.RateLimit.PerTenantPerMin),
		GlobalPerWindow:    int64(cfg.RateLimit.GlobalPerMin),
		WindowSeconds:      cfg.RateLimit.WindowSeconds,
	}

	if cfg.RateLimit.Backend == "redis" && redisClient != nil {
		log.Infow("using redis rate limiter backend")
		return ratelimit.NewRedisLimiter(redisClient, limiterCfg, log)
	}
	return ratelimit.NewWindowLimiter(limiterCfg)
}

func mapEnvToGinMode(environment string) string {
	switch environment {
	case "production", "prod":
		return "release"
	case "test", "testing":
		return "test"
	default:
		return "debug"
	}
}
