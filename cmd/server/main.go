// Package main boots the product service HTTP server.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/small-engineer/go-product-serv/internal/adapter/httpadapter"
	"github.com/small-engineer/go-product-serv/internal/config"
	"github.com/small-engineer/go-product-serv/internal/infra/db"
	"github.com/small-engineer/go-product-serv/internal/usecase/auth"
	"github.com/small-engineer/go-product-serv/internal/usecase/product"
)

const (
	devEnvFile      = ".env.dev"
	shutdownTimeout = 10 * time.Second
)

func main() {
	config.LoadEnvFile(devEnvFile)

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("config_error", "error", err.Error())
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := db.Connect(ctx, cfg.MongoURI)
	if err != nil {
		logger.Error("mongo_connect_error", "error", err.Error())
		os.Exit(1)
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Disconnect(dctx); err != nil {
			logger.Error("mongo_disconnect_error", "error", err.Error())
		}
	}()
	logger.Info("mongo_connected", "uri", cfg.MongoURI, "db", cfg.MongoDB)

	database := client.Database(cfg.MongoDB)
	if err := db.EnsureIndexes(ctx, database); err != nil {
		logger.Error("mongo_index_error", "error", err.Error())
		os.Exit(1)
	}

	ur := db.NewUserRepo(database)
	pr := db.NewProductRepo(database)
	authSvc := auth.NewService(ur)
	prodSvc := product.NewService(pr)
	s := httpadapter.NewServer(logger, authSvc, prodSvc, cfg.JWTSecret, cfg.CORSOrigin)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	grp, ctx := errgroup.WithContext(ctx)

	grp.Go(func() error {
		logger.Info("http_listen", "addr", cfg.HTTPAddr)
		err := srv.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})

	grp.Go(func() error {
		<-ctx.Done()
		logger.Info("shutdown_begin")
		sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(sctx)
	})

	if err := grp.Wait(); err != nil {
		logger.Error("server_error", "error", err.Error())
		os.Exit(1)
	}
	logger.Info("server_stopped")
}
