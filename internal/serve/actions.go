package serve

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/urfave/cli/v2"
	"github.com/valyala/fasthttp"

	"github.com/dtnitsch/money-is-time/internal/common"
)

func ServeAction(c *cli.Context) error {
	logger := common.NewLogger(c)

	svc, err := common.Setup(c, logger)
	if err != nil {
		logger.Error("failed to initialize", "error", err)
		os.Exit(2)
	}
	defer svc.Close()

	handler := NewHandler(svc, c.Duration("request-timeout"))
	server := &fasthttp.Server{
		Handler:            handler.Handle,
		Name:               "money-is-time",
		ReadTimeout:        30 * time.Second,
		WriteTimeout:       30 * time.Second,
		MaxRequestBodySize: 16 << 20,
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting", "addr", c.String("addr"))
		errCh <- server.ListenAndServe(c.String("addr"))
	}()

	select {
	case err := <-errCh:
		logger.Error("server failed", "error", err)
		os.Exit(2)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Warn("server shutdown incomplete", "error", err)
	}
	logger.Info("Server stopped")
	return nil
}
