package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/kwami-ai/agent-go/internal/agent"
	"github.com/kwami-ai/agent-go/internal/tools"
	"github.com/kwami-ai/agent-go/internal/transport"
)

const shutdownTimeout = 10 * time.Second

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  65536,
	WriteBufferSize: 65536,
	CheckOrigin: func(r *http.Request) bool {
		// Allow any origin; restrict behind a gateway in production
		return true
	},
}

func handleServe(ctx context.Context, c *cli.Command) error {
	// API keys and addresses may live in a local .env
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("No .env file loaded")
	}

	addr := c.String("addr")
	if !c.IsSet("addr") {
		if env := os.Getenv("KWAMI_ADDR"); env != "" {
			addr = env
		}
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/agent", serveAgent)

	server := &http.Server{
		Addr:              addr,
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("Agent server listening")
		serverErrors <- server.ListenAndServe()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	case sig := <-sigChan:
		log.Info().Str("signal", sig.String()).Msg("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("Graceful shutdown failed, closing")
		_ = server.Close()
	}
	return nil
}

// serveAgent upgrades the connection and serves one session for its
// lifetime. Every connection starts from the default configuration; the
// frontend pushes its own over the data channel.
func serveAgent(c echo.Context) error {
	conn, err := wsUpgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return fmt.Errorf("failed to upgrade connection: %w", err)
	}

	room := transport.NewWSRoom(conn, c.QueryParam("room"), "frontend")

	registry := tools.NewRegistry()
	sess := agent.NewSession(room.Name(), nil, agent.Hooks{
		Tools: agent.RegistrySink{Registry: registry},
	})

	ctx := c.Request().Context()
	room.OnData(sess.HandleData)

	go func() {
		if err := sess.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Str("session", sess.Name()).Msg("Session loop failed")
		}
	}()

	// Resolve the initial engine set before the first message arrives.
	sess.RebuildPipeline()

	err = room.ReadLoop(ctx)
	_ = sess.Close()
	if err != nil {
		log.Warn().Err(err).Str("session", sess.Name()).Msg("Connection ended with error")
	}
	return nil
}
