package worker

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"memeshare/internal/app/service"
	"memeshare/internal/domain/repository"
	"memeshare/internal/platform/metrics"
)

// StatsWorker drains stat events from a redis list and applies each one
// through UploadStatService on its own Store. Failed events are logged and
// counted, never retried.
type StatsWorker struct {
	rdb          redis.Cmdable
	queue        string
	stores       repository.StoreFactory
	pollInterval time.Duration
	log          logrus.FieldLogger
}

func NewStatsWorker(rdb redis.Cmdable, queue string, stores repository.StoreFactory) *StatsWorker {
	return &StatsWorker{
		rdb:          rdb,
		queue:        queue,
		stores:       stores,
		pollInterval: 5 * time.Second,
		log:          logrus.WithField("component", "stats_worker"),
	}
}

func (w *StatsWorker) Start(ctx context.Context) {
	w.log.WithField("queue", w.queue).Info("Stats worker started")
	for {
		select {
		case <-ctx.Done():
			w.log.Info("Stats worker stopping")
			return
		default:
		}

		// BRPop returns [queue, value]; a timeout yields redis.Nil
		res, err := w.rdb.BRPop(ctx, w.pollInterval, w.queue).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) || ctx.Err() != nil {
				continue
			}
			w.log.WithError(err).Error("Failed to BRPop from stats queue")
			select {
			case <-ctx.Done():
			case <-time.After(w.pollInterval):
			}
			continue
		}
		if len(res) < 2 || res[1] == "" {
			w.log.Warn("BRPop returned an empty stat event")
			continue
		}
		_ = w.Handle(ctx, res[1])
	}
}

// Handle applies one encoded stat event.
func (w *StatsWorker) Handle(ctx context.Context, payload string) error {
	ev, err := service.DecodeStatEvent(payload)
	if err != nil {
		metrics.RecordStatEvent("unknown", "failed")
		w.log.WithError(err).WithField("payload", payload).Warn("Dropping malformed stat event")
		return err
	}

	stats := service.NewUploadStatService(w.stores())
	if _, err := stats.Increment(ctx, ev.MemeID, ev.Kind); err != nil {
		metrics.RecordStatEvent(string(ev.Kind), "failed")
		w.log.WithError(err).WithFields(logrus.Fields{
			"meme_id": ev.MemeID,
			"kind":    ev.Kind,
		}).Error("Failed to apply stat event")
		return err
	}
	metrics.RecordStatEvent(string(ev.Kind), "applied")
	w.log.WithFields(logrus.Fields{"meme_id": ev.MemeID, "kind": ev.Kind}).Debug("Applied stat event")
	return nil
}
