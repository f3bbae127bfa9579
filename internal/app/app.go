package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/studyroom/server/internal/controller"
	playbackRedis "github.com/studyroom/server/internal/repository/playback/redis"
	"github.com/studyroom/server/internal/repository/registry/inmemory"
	"github.com/studyroom/server/internal/repository/store/postgres"
	"github.com/studyroom/server/internal/service/account"
	"github.com/studyroom/server/internal/service/assistant"
	"github.com/studyroom/server/internal/service/board"
	"github.com/studyroom/server/internal/service/room"
	"github.com/studyroom/server/internal/service/rtc"
	"github.com/studyroom/server/internal/service/sync"
	"github.com/studyroom/server/pkg/ctxlogger"
	"github.com/studyroom/server/pkg/postgresclient"
	"github.com/studyroom/server/pkg/redisclient"
)

const (
	playbackTTL  = 24 * 14 * time.Hour
	rtcTokenTTL  = 6 * time.Hour
	shutdownWait = 30 * time.Second
)

type AppConfig struct {
	Secret   string `json:"-"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	LogLevel string `json:"log_level"`

	RedisHost     string `json:"redis_host"`
	RedisPort     int    `json:"redis_port"`
	RedisPassword string `json:"-"`

	PostgresDSN string `json:"-"`

	AIBaseURL       string `json:"ai_base_url"`
	AIKey           string `json:"-"`
	AIModel         string `json:"ai_model"`
	AIRatePerMinute int    `json:"ai_rate_per_minute"`

	RTCURL    string `json:"rtc_url"`
	RTCKey    string `json:"rtc_key"`
	RTCSecret string `json:"-"`
}

func (cfg *AppConfig) Validate() error {
	if cfg.Secret == "" {
		return fmt.Errorf("secret must not be empty")
	}
	if cfg.PostgresDSN == "" {
		return fmt.Errorf("postgres dsn must not be empty")
	}
	return nil
}

func Run(ctx context.Context, cfg *AppConfig) error {
	logLevel := slog.LevelInfo
	if err := logLevel.UnmarshalText([]byte(strings.ToUpper(cfg.LogLevel))); err != nil {
		log.Fatal(err)
	}

	h := ctxlogger.ContextHandler{
		Handler: slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level:     logLevel,
			AddSource: true,
		}),
	}

	logger := slog.New(&h)

	rc, err := redisclient.NewRedisClient(ctx, &redisclient.Config{
		Host:     cfg.RedisHost,
		Port:     cfg.RedisPort,
		Password: cfg.RedisPassword,
	})
	if err != nil {
		return fmt.Errorf("failed to create redis client: %w", err)
	}
	defer rc.Close()

	pool, err := postgresclient.NewPool(ctx, cfg.PostgresDSN)
	if err != nil {
		return fmt.Errorf("failed to connect to postgres: %w", err)
	}
	defer pool.Close()

	storeRepo := postgres.NewRepo(pool)
	if err := storeRepo.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}

	playbackRepo := playbackRedis.NewRepo(rc, playbackTTL)
	sessions := inmemory.NewRegistry(logger)

	services := &controller.Services{
		Sync:    sync.NewService(sessions, logger),
		Account: account.NewService(storeRepo, cfg.Secret, logger),
		Room:    room.NewService(storeRepo, playbackRepo, logger),
		Board:   board.NewService(storeRepo, logger),
		Assistant: assistant.NewService(storeRepo, &assistant.Config{
			BaseURL:           cfg.AIBaseURL,
			APIKey:            cfg.AIKey,
			Model:             cfg.AIModel,
			RoomRatePerMinute: cfg.AIRatePerMinute,
		}, logger),
		RTC: rtc.NewService(&rtc.Config{
			URL:       cfg.RTCURL,
			APIKey:    cfg.RTCKey,
			APISecret: cfg.RTCSecret,
			TokenTTL:  rtcTokenTTL,
		}),
	}

	controller := controller.NewController(services, sessions, logger)
	server := &http.Server{Addr: fmt.Sprintf("%s:%d", cfg.Host, cfg.Port), Handler: controller.GetMux()}

	// graceful shutdown
	serverCtx, serverStopCtx := context.WithCancel(ctx)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		<-sig

		shutdownCtx, c := context.WithTimeout(serverCtx, shutdownWait)
		defer c()

		go func() {
			<-shutdownCtx.Done()
			if shutdownCtx.Err() == context.DeadlineExceeded {
				log.Fatal("graceful shutdown timed out.. forcing exit.")
			}
		}()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Fatal(err)
		}
		serverStopCtx()
	}()

	logger.InfoContext(serverCtx, "starting server", "address", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	<-serverCtx.Done()

	return nil
}
