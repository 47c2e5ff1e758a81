package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kitbuilder587/multisearch/internal/httpapi"
	"github.com/kitbuilder587/multisearch/internal/ratelimit"
	"github.com/kitbuilder587/multisearch/internal/telegram"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the optional Telegram bot",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides HTTP_ADDR)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	addr := cfg.HTTP.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize", zap.Error(err))
		return err
	}
	defer a.Close()

	var limiter *ratelimit.Limiter
	if cfg.RateLimit.RequestsPerMinute > 0 {
		limiter = ratelimit.NewWithContext(ctx, ratelimit.Config{RequestsPerMinute: cfg.RateLimit.RequestsPerMinute})
	}

	srv := httpapi.New(httpapi.Deps{
		Search:   a.search,
		Trending: a.trending,
		Content:  a.content,
		Limiter:  limiter,
		Metrics:  a.metrics,
		Logger:   logger,
	})

	var bot *telegram.Bot
	if cfg.Telegram.Token != "" {
		bot, err = telegram.New(telegram.BotConfig{
			Token:             cfg.Telegram.Token,
			RequestsPerMinute: cfg.RateLimit.RequestsPerMinute,
		}, a.search, a.trending, logger, a.metrics)
		if err != nil {
			logger.Error("failed to start telegram bot", zap.Error(err))
			return err
		}
	} else {
		logger.Info("TELEGRAM_BOT_TOKEN not set, telegram bot disabled")
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("shutting down http server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if bot != nil {
		g.Go(func() error {
			if err := bot.Run(gCtx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error("shutdown error", zap.Error(err))
		return err
	}

	logger.Info("server exited properly")
	return nil
}
