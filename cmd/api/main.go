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

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/joefazee/settle/app"
	"github.com/joefazee/settle/app/admin"
	"github.com/joefazee/settle/app/api"
	"github.com/joefazee/settle/app/database"
	apiDoc "github.com/joefazee/settle/app/doc"
	"github.com/joefazee/settle/app/ledger"
	"github.com/joefazee/settle/app/liquidity"
	"github.com/joefazee/settle/app/markets"
	"github.com/joefazee/settle/app/payout"
	"github.com/joefazee/settle/app/prediction"
	"github.com/joefazee/settle/app/resolution"
	_ "github.com/joefazee/settle/docs"
	"github.com/joefazee/settle/internal/authority"
	"github.com/joefazee/settle/internal/cache"
	"github.com/joefazee/settle/internal/deps"
	"github.com/joefazee/settle/internal/events"
	"github.com/joefazee/settle/internal/gate"
	"github.com/joefazee/settle/internal/logger"
	"github.com/joefazee/settle/internal/router"
	"github.com/joefazee/settle/internal/security"
)

const shutdownTimeout = 15 * time.Second

// @title Settle API
// @version 1.0
// @description Settlement engine for binary prediction markets: market lifecycle, liquidity, bets, oracle resolution and claims.
// @x-logo {"url": "https://go.dev/images/go-logo-white.svg", "altText": "Go API Logo"}

// @contact.name API Support Team
// @contact.email support@settle.dev

// @license.name MIT License
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and a PASETO token.
func main() {
	cfg, err := app.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	appLogger := logger.NewZeroLogger(os.Stdout, logger.ParseLevel(cfg.LogLevel), logger.Fields{
		"service": "settle",
		"env":     cfg.Env,
	})

	db, err := database.New(&cfg.DB)
	if err != nil {
		appLogger.Fatal(err, logger.Fields{"stage": "database"})
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var rdb *redis.Client
	if cfg.Cache.Backend == cache.RedisBackend {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Cache.RedisAddr,
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			appLogger.Fatal(err, logger.Fields{"stage": "redis", "addr": cfg.Cache.RedisAddr})
		}
		defer rdb.Close()
	}

	tokenMaker, err := security.NewPasetoMaker(cfg.Auth.SymmetricKey)
	if err != nil {
		appLogger.Fatal(err, logger.Fields{"stage": "token maker"})
	}

	container, err := buildContainer(cfg, db, rdb, tokenMaker, appLogger)
	if err != nil {
		appLogger.Fatal(err, logger.Fields{"stage": "container"})
	}

	if err := initModules(container, cfg); err != nil {
		appLogger.Fatal(err, logger.Fields{"stage": "modules"})
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%s", cfg.AppHost, cfg.AppPort),
		Handler:           newEngine(container, cfg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		appLogger.Info("Starting Settle API server", logger.Fields{"addr": srv.Addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			appLogger.Fatal(err, logger.Fields{"stage": "listen"})
		}
	}

	appLogger.Info("Shutting down Settle API server", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error(err, logger.Fields{"stage": "shutdown"})
	}
}

func buildContainer(
	cfg *app.Config,
	db *gorm.DB,
	rdb *redis.Client,
	maker security.Maker,
	log logger.Logger,
) (*deps.Container, error) {
	container := deps.NewContainer(db, maker, log)
	container.Redis = rdb
	container.CacheBackend = cfg.Cache.Backend

	signer, err := authority.NewSigner([]byte(cfg.Auth.AuthorityKey))
	if err != nil {
		return nil, err
	}
	container.Signer = signer

	flags, err := cache.New[bool](cfg.Cache.Backend, rdb, "settle")
	if err != nil {
		return nil, err
	}
	container.Gate = gate.New(flags, cfg.Cache.StartPaused)

	container.Events.Subscribe(events.NewLogSink(log))
	if rdb != nil && cfg.Cache.EventStream != "" {
		container.Events.Subscribe(events.NewStreamSink(rdb, cfg.Cache.EventStream, log))
	}
	return container, nil
}

// initModules builds services in dependency order; every module reads the
// ledger registered first.
func initModules(container *deps.Container, cfg *app.Config) error {
	ledger.Init(container, &cfg.Ledger)

	if _, err := markets.Init(container, &cfg.Markets); err != nil {
		return fmt.Errorf("markets: %w", err)
	}
	if _, err := liquidity.Init(container, &cfg.Liquidity); err != nil {
		return fmt.Errorf("liquidity: %w", err)
	}
	if _, err := prediction.Init(container, &cfg.Prediction); err != nil {
		return fmt.Errorf("prediction: %w", err)
	}
	if _, err := resolution.Init(container, &cfg.Resolution); err != nil {
		return fmt.Errorf("resolution: %w", err)
	}
	if _, err := payout.Init(container, &cfg.Payout); err != nil {
		return fmt.Errorf("payout: %w", err)
	}
	admin.Init(container)
	return nil
}

func healthProbes(c *deps.Container) []api.Probe {
	probes := []api.Probe{
		{Name: "database", Check: func(ctx context.Context) (string, error) {
			sqlDB, err := c.DB.DB()
			if err != nil {
				return "", err
			}
			return "ok", sqlDB.PingContext(ctx)
		}},
		{Name: "gate", Check: func(ctx context.Context) (string, error) {
			paused, err := c.Gate.Paused(ctx)
			if paused {
				return "paused", err
			}
			return "open", err
		}},
	}
	if c.Redis != nil {
		probes = append(probes, api.Probe{Name: "redis", Check: func(ctx context.Context) (string, error) {
			return "ok", c.Redis.Ping(ctx).Err()
		}})
	}
	return probes
}

func newEngine(container *deps.Container, cfg *app.Config) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery(), api.CorsMiddleware())

	mounter := router.NewMounter(container)

	mounter.Public(r).Mount(func(rg *gin.RouterGroup, c *deps.Container) {
		rg.GET("/healthz", api.HealthCheck(cfg.Env, healthProbes(c)...))
	})

	mounter.Authenticated(r).
		Use(api.RateLimit(cfg.RateLimit, cfg.RateBurst)).
		Mount(markets.MountAuthenticated).
		Mount(liquidity.MountAuthenticated).
		Mount(prediction.MountAuthenticated).
		Mount(resolution.MountAuthenticated).
		Mount(payout.MountAuthenticated).
		Mount(ledger.MountAuthenticated)

	mounter.Authorized(r, security.RoleAdmin).
		Mount(ledger.MountAdmin).
		Mount(admin.MountAdmin)

	apiDoc.Init(r, cfg.Env)
	return r
}
