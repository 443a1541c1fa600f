// Package sweep runs the periodic cache consistency check. Corrupt records
// are dropped so the next ingestion rebuilds them from scratch.
package sweep

import (
	"context"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/netfabric/capacity-planner/internal/analysis"
	"github.com/netfabric/capacity-planner/internal/store"
)

type Sweeper struct {
	store    store.Store
	manager  *analysis.Manager
	schedule string
	cron     *cron.Cron
}

func NewSweeper(store store.Store, manager *analysis.Manager, schedule string) *Sweeper {
	return &Sweeper{
		store:    store,
		manager:  manager,
		schedule: schedule,
		cron:     cron.New(),
	}
}

// Start schedules the sweep and runs until ctx is cancelled.
func (s *Sweeper) Start(ctx context.Context) error {
	logger := zap.S().Named("sweep")

	_, err := s.cron.AddFunc(s.schedule, func() {
		if err := s.sweep(ctx); err != nil {
			logger.Errorw("cache sweep failed", "error", err)
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	logger.Infof("cache consistency sweep scheduled: %s", s.schedule)

	go func() {
		<-ctx.Done()
		stopCtx := s.cron.Stop()
		<-stopCtx.Done()
		logger.Info("cache consistency sweep stopped")
	}()
	return nil
}

func (s *Sweeper) sweep(ctx context.Context) error {
	logger := zap.S().Named("sweep")

	fabrics, err := s.store.Fabric().List(ctx, nil)
	if err != nil {
		return err
	}

	checked, dropped := 0, 0
	for _, fabric := range fabrics {
		ok, err := s.manager.CheckConsistency(ctx, fabric.ID)
		if err != nil {
			logger.Errorw("consistency check failed", "fabric_id", fabric.ID, "error", err)
			continue
		}
		checked++
		if ok {
			continue
		}

		logger.Warnw("dropping corrupt cache record", "fabric_id", fabric.ID, "fabric_name", fabric.Name)
		if err := s.manager.Drop(ctx, fabric.ID); err != nil {
			logger.Errorw("failed to drop corrupt cache record", "fabric_id", fabric.ID, "error", err)
			continue
		}
		dropped++
	}

	logger.Infow("cache sweep completed", "checked", checked, "dropped", dropped)
	return nil
}
