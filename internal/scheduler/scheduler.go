package scheduler

import (
	"context"
	"time"

	"github.com/crucial707/listing-admin/internal/metrics"
	"github.com/crucial707/listing-admin/internal/models"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// StatusCounter reports how many listings are in each moderation status.
type StatusCounter interface {
	CountByStatus(ctx context.Context) (map[models.ListingStatus]int, error)
}

// RefreshBacklog reads the current counts and publishes them to the listings_by_status gauge.
func RefreshBacklog(ctx context.Context, counter StatusCounter) error {
	counts, err := counter.CountByStatus(ctx)
	if err != nil {
		return err
	}
	metrics.SetListingsByStatus(counts)
	return nil
}

// StartBacklog refreshes the backlog gauge once, then on every tick of spec
// (standard cron syntax or descriptors such as "@every 1m"). The caller stops
// the returned cron on shutdown.
func StartBacklog(spec string, counter StatusCounter, lg *zap.SugaredLogger) (*cron.Cron, error) {
	refresh := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := RefreshBacklog(ctx, counter); err != nil {
			lg.Warnw("scheduler: refresh listing backlog", "error", err)
		}
	}

	c := cron.New()
	if _, err := c.AddFunc(spec, refresh); err != nil {
		return nil, err
	}

	refresh()
	c.Start()
	lg.Infow("scheduler: listing backlog refresher started", "cron", spec)
	return c, nil
}
