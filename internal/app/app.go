package app

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/watchparty/server/internal/controller"
	connInmemory "github.com/watchparty/server/internal/repository/connection/inmemory"
	roomInmemory "github.com/watchparty/server/internal/repository/room/inmemory"
	"github.com/watchparty/server/internal/service/room"
	"github.com/watchparty/server/pkg/ctxlogger"
	"github.com/watchparty/server/pkg/token"
)

type AppConfig struct {
	Secret       string        `json:"-"`
	Host         string        `json:"host"`
	Port         int           `json:"port"`
	LogLevel     string        `json:"log_level"`
	MembersLimit int           `json:"members_limit"`
	PingInterval time.Duration `json:"ping_interval"`
	PongTimeout  time.Duration `json:"pong_timeout"`
}

func (cfg *AppConfig) Validate() error {
	if cfg.Secret == "" {
		return fmt.Errorf("secret must be set")
	}
	if cfg.MembersLimit < 1 {
		return fmt.Errorf("members limit must be greater than 0")
	}
	if cfg.PingInterval >= cfg.PongTimeout {
		return fmt.Errorf("ping interval must be less than pong timeout")
	}
	return nil
}

func Run(ctx context.Context, cfg *AppConfig) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

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

	roomRepo := roomInmemory.NewRepo(logger)
	connRepo := connInmemory.NewRepo(logger)
	roomService := room.NewService(roomRepo, connRepo, cfg.MembersLimit, logger)
	tokens := token.NewVerifier(cfg.Secret)
	controller := controller.NewController(roomService, tokens, &controller.Config{
		PingInterval: cfg.PingInterval,
		PongTimeout:  cfg.PongTimeout,
	}, logger)
	server := &http.Server{Addr: fmt.Sprintf("%s:%d", cfg.Host, cfg.Port), Handler: controller.Mux()}

	// graceful shutdown
	serverCtx, serverStopCtx := context.WithCancel(ctx)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		<-sig

		shutdownCtx, c := context.WithTimeout(serverCtx, 30*time.Second)
		defer c()

		go func() {
			<-shutdownCtx.Done()
			if shutdownCtx.Err() == context.DeadlineExceeded {
				log.Fatal("graceful shutdown timed out.. forcing exit.")
			}
		}()

		err := server.Shutdown(shutdownCtx)
		if err != nil {
			log.Fatal(err)
		}
		serverStopCtx()
	}()

	logger.InfoContext(serverCtx, "starting server", "address", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	<-serverCtx.Done()

	return nil
}
