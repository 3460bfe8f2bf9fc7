// Copyright 2025 The HospitalFinder Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/jcodagnone/hospitalfinder/finder"
	"github.com/jcodagnone/hospitalfinder/web"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the search form and the JSON API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		return serve(ctx)
	},
}

func serve(ctx context.Context) error {
	store, closeStore, err := openStore(cfg, cfg.Cache.Enabled)
	if err != nil {
		return err
	}
	defer closeStore()

	gin.SetMode(gin.ReleaseMode)

	logger := slog.Default()
	metrics := web.NewMetrics()
	service := finder.NewService(store,
		finder.WithEngine(cfg.SpatialEngine()),
		finder.WithObserver(metrics),
		finder.WithLogger(logger),
	)

	logger.Info("reference data",
		slog.String("store", cfg.Store),
		slog.String("engine", string(cfg.SpatialEngine())),
		slog.Bool("cache", cfg.Cache.Enabled),
	)

	return web.NewServer(service, metrics, logger).Run(ctx, cfg.Server.Addr)
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "0.0.0.0:5000", "address to listen on")
	serveCmd.Flags().Bool("cache", true, "keep parsed CSV tables in memory until the files change")

	cobra.CheckErr(settings.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr")))
	cobra.CheckErr(settings.BindPFlag("cache.enabled", serveCmd.Flags().Lookup("cache")))
}
