package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/sanosuguru/go-ticket-booking/internal/api"
	"github.com/sanosuguru/go-ticket-booking/internal/api/handler"
	"github.com/sanosuguru/go-ticket-booking/internal/api/middleware"
	"github.com/sanosuguru/go-ticket-booking/internal/application"
	"github.com/sanosuguru/go-ticket-booking/internal/config"
	redisinfra "github.com/sanosuguru/go-ticket-booking/internal/infrastructure/redis"
	"github.com/sanosuguru/go-ticket-booking/internal/pkg/logger"
	"github.com/sanosuguru/go-ticket-booking/internal/pkg/metrics"
	"github.com/sanosuguru/go-ticket-booking/internal/worker"
)

func main() {
	// ロガー初期化
	logger.Set(logger.NewLogger(os.Getenv("APP_ENV")))
	defer logger.Sync()

	cfg := config.Load()

	// メトリクス初期化
	m := metrics.Init()

	// Redis接続（任意。未設定時はキャッシュなしで動作）
	var cache application.AvailabilityCache
	if cfg.Redis.Enabled {
		client := redisinfra.NewClient(&cfg.Redis)
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := redisinfra.Ping(ctx, client); err != nil {
			logger.Warn("Redis接続に失敗したためキャッシュなしで起動します", zap.Error(err))
		} else {
			cache = redisinfra.NewOccupancyCache(client)
			logger.Info("Redisキャッシュを有効化", zap.String("addr", cfg.Redis.Addr()))
		}
		cancel()
	}

	// サービス初期化
	service := application.NewTicketingService(application.NewUUIDGenerator(), cache, m)

	eventHandler := handler.NewEventHandler(service)
	bookingHandler := handler.NewBookingHandler(service)
	summaryHandler := handler.NewSummaryHandler(service)
	healthHandler := handler.NewHealthHandler()

	// Echo セットアップ
	e := echo.New()
	e.HideBanner = true
	e.Validator = api.NewValidator()
	e.HTTPErrorHandler = api.CustomHTTPErrorHandler
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	middleware.SetupMiddleware(e)
	e.Use(middleware.PrometheusMiddleware(m))

	e.GET("/health", healthHandler.Check)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()), middleware.MetricsBasicAuth(&cfg.Metrics))

	v1 := e.Group("/api/v1")
	v1.POST("/events", eventHandler.Create)
	v1.GET("/events", eventHandler.List)
	v1.GET("/events/:id", eventHandler.GetByID)
	v1.GET("/events/:id/seats", eventHandler.GetSeats)
	v1.POST("/events/:id/seats", eventHandler.AddSeat)
	v1.POST("/events/:id/seats/block", eventHandler.AddSeatBlock)
	v1.GET("/events/:id/seats/available", eventHandler.CountAvailable)

	v1.POST("/bookings", bookingHandler.Create)
	v1.GET("/bookings/:id", bookingHandler.GetByID)
	v1.GET("/bookings/:id/receipt", bookingHandler.GetReceipt)
	v1.POST("/bookings/:id/cancel", bookingHandler.Cancel)

	v1.GET("/summary", summaryHandler.Get)

	// キャッシュウォーマー起動（キャッシュ有効時のみ）
	warmerCtx, warmerCancel := context.WithCancel(context.Background())
	defer warmerCancel()
	var warmer *worker.OccupancyWarmer
	if cache != nil {
		warmer = worker.NewOccupancyWarmer(service, cfg.Cache.WarmInterval)
		go warmer.Start(warmerCtx)
	}

	// サーバー起動
	go func() {
		if err := e.Start(":" + cfg.Server.Port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("サーバー起動エラー", zap.Error(err))
		}
	}()
	logger.Info("サーバー起動", zap.String("port", cfg.Server.Port))

	// シグナル待機
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("サーバーをシャットダウンしています...")

	if warmer != nil {
		warmer.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Fatal("サーバーシャットダウンエラー", zap.Error(err))
	}

	logger.Info("サーバーが正常にシャットダウンしました")
}
