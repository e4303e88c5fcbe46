// main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ariebrainware/alert-board/config"
	_ "github.com/ariebrainware/alert-board/docs"
	"github.com/ariebrainware/alert-board/endpoint"
	"github.com/ariebrainware/alert-board/feed"
	"github.com/ariebrainware/alert-board/jobs"
	"github.com/ariebrainware/alert-board/middleware"
	"github.com/ariebrainware/alert-board/model"
	"github.com/ariebrainware/alert-board/observability"
	"github.com/ariebrainware/alert-board/realtime"
	"github.com/ariebrainware/alert-board/util"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// @title           Alert Board API
// @version         1.0
// @description     Alerts linked to locations, with per-user location profiles.
// @BasePath        /
// @securityDefinitions.apikey SessionToken
// @in header
// @name session-token
func main() {
	cfg := config.LoadConfig()
	gin.SetMode(cfg.GinMode)

	db, err := config.ConnectDatabase()
	if err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}
	if err := migrate(db); err != nil {
		log.Fatalf("Error migrating database: %v", err)
	}

	if _, err := config.ConnectRedis(); err != nil {
		log.Printf("Redis unavailable, continuing without session cache: %v", err)
	}
	if err := util.InitGeoIP(cfg.GeoIPDBPath); err != nil {
		log.Printf("GeoIP disabled: %v", err)
	}
	defer util.CloseGeoIP()
	util.InitUsernameCacheFromEnv()
	util.SetSecurityLoggerDB(db)
	util.SetJWTSecret(cfg.JWTSecret)

	metrics := observability.NewMetrics()
	hub := realtime.NewHub(metrics)
	router, err := endpoint.NewRouter(db, endpoint.RouterOptions{
		Hub:             hub,
		Metrics:         metrics,
		LoginRateLimit:  middleware.RateLimitConfig{Limit: 10, Window: time.Minute},
		MetricsTokenEnv: "METRICS_TOKEN",
	})
	if err != nil {
		log.Fatalf("Error building router: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.FeedURL != "" {
		startFeedRunner(ctx, cfg, metrics)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.AppPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("error starting server: %v", err)
		}
	}()
	log.Printf("%s listening on %s", cfg.AppName, srv.Addr)

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Session{},
		&model.Location{},
		&model.Alert{},
		&model.Profile{},
		&model.SecurityLog{},
	)
}

// startFeedRunner polls the external feed in the background until ctx ends.
func startFeedRunner(ctx context.Context, cfg *config.Config, metrics *observability.Metrics) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil)).With("component", "feed")
	runner, err := jobs.NewRunner(
		feed.NewClient(cfg.FeedTimeout, metrics),
		cfg.FeedURL,
		cfg.FeedInterval,
		logger,
		metrics,
	)
	if err != nil {
		log.Printf("feed runner disabled: %v", err)
		return
	}
	go runner.Run(ctx)
}
