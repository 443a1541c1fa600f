package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/netfabric/capacity-planner/internal/analysis"
	apiserver "github.com/netfabric/capacity-planner/internal/api_server"
	"github.com/netfabric/capacity-planner/internal/config"
	"github.com/netfabric/capacity-planner/internal/store"
	"github.com/netfabric/capacity-planner/internal/sweep"
	"github.com/netfabric/capacity-planner/pkg/log"
	"github.com/netfabric/capacity-planner/pkg/metrics"
)

var runOpts = defaultRunOptions()

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the capacity planner api",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.New()
		if err != nil {
			return err
		}
		runOpts.Apply(cfg)

		logLvl, err := zap.ParseAtomicLevel(cfg.Service.LogLevel)
		if err != nil {
			logLvl = zap.NewAtomicLevelAt(zapcore.InfoLevel)
		}

		logger := log.InitLog(logLvl)
		defer func() { _ = logger.Sync() }()

		undo := zap.ReplaceGlobals(logger)
		defer undo()

		zap.S().Info("Starting API service")
		defer zap.S().Info("API service stopped")

		zap.S().Info("Initializing data store")
		db, err := store.InitDB(cfg)
		if err != nil {
			zap.S().Fatalw("initializing data store", "error", err)
		}

		s := store.NewStore(db)
		defer s.Close()

		if err := s.InitialMigration(); err != nil {
			zap.S().Fatalw("running initial migration", "error", err)
		}

		engine, err := analysis.NewEngine(cfg.Service.UplinksPerLeafDefault)
		if err != nil {
			zap.S().Fatalw("loading scalability catalogs", "error", err)
		}
		manager := analysis.NewManager(s.Cache())

		metrics.RegisterFabricStatsCollector(s)

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGHUP, syscall.SIGTERM, syscall.SIGQUIT)
		defer cancel()

		sweeper := sweep.NewSweeper(s, manager, cfg.Service.CacheSweepSchedule)
		if err := sweeper.Start(ctx); err != nil {
			zap.S().Fatalw("starting cache sweep", "error", err)
		}

		go func() {
			defer cancel()
			listener, err := newListener(cfg.Service.Address)
			if err != nil {
				zap.S().Fatalw("creating listener", "error", err)
			}

			server := apiserver.New(cfg, s, manager, engine, listener)
			if err := server.Run(ctx); err != nil {
				zap.S().Fatalw("running api server", "error", err)
			}
		}()

		go func() {
			defer cancel()
			listener, err := newListener(cfg.Service.MetricsAddress)
			if err != nil {
				zap.S().Fatalw("creating metrics listener", "error", err)
			}

			metricsServer := apiserver.NewMetricServer(cfg.Service.MetricsAddress, listener)
			if err := metricsServer.Run(ctx); err != nil {
				zap.S().Fatalw("running metrics server", "error", err)
			}
		}()

		<-ctx.Done()
		return nil
	},
}

func newListener(address string) (net.Listener, error) {
	if address == "" {
		address = "localhost:0"
	}
	return net.Listen("tcp", address)
}
