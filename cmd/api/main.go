package main

import (
	"context"
	"errors"
	"flag"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/eventgrove/eventgrove/internal/auth"
	"github.com/eventgrove/eventgrove/internal/config"
	"github.com/eventgrove/eventgrove/internal/httpserver"
	"github.com/eventgrove/eventgrove/internal/logger"
	"github.com/eventgrove/eventgrove/internal/store/storebuilder"
)

var configFile string

func init() {
	flag.StringVar(&configFile, "config", "", "Path to configuration file (optional)")
	log.SetFormatter(&log.TextFormatter{})
	log.SetOutput(os.Stdout)
}

// main boots the service: env → config → logger → store → HTTP server.
func main() {
	flag.Parse()

	// A missing .env is fine; environment variables still apply.
	_ = godotenv.Load()

	cfg, err := config.Load(configFile)
	if err != nil {
		log.Errorf("failed to start: %v", err)
		os.Exit(1)
	}
	if err := logger.Prepare(cfg.Logger); err != nil {
		log.Errorf("failed to start: %v", err)
		os.Exit(1)
	}

	st, err := storebuilder.New(cfg.Store)
	if err != nil {
		log.Errorf("failed to start: %v", err)
		os.Exit(1)
	}

	tm := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	router := httpserver.NewRouter(cfg, st, tm)

	srv := &http.Server{
		Addr:    net.JoinHostPort(cfg.HTTP.Host, strconv.Itoa(cfg.HTTP.Port)),
		Handler: router,
	}

	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer cancel()

	go func() {
		<-ctx.Done()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Errorf("failed to stop http server: %v", err)
		}
	}()

	log.Infof("eventgrove is running on %s", srv.Addr)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Errorf("http server failed: %v", err)
	}

	closeCtx, closeCancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer closeCancel()
	if err := st.Close(closeCtx); err != nil {
		log.Errorf("failed to close store: %v", err)
	}
}
