package service

import (
	"fmt"
	"log/slog"

	"carrental/internal/querycache"

	"github.com/robfig/cron/v3"
)

// WatchService periodically invalidates cached queries so that subscribed
// views pick up changes made by other clients.
type WatchService struct {
	cache  *querycache.Cache
	cron   *cron.Cron
	logger *slog.Logger
}

func NewWatchService(deps Deps) *WatchService {
	return &WatchService{
		cache:  deps.Cache,
		cron:   cron.New(),
		logger: deps.logger(),
	}
}

// Watch invalidates keys on every tick of schedule, a cron spec such as
// "@every 30s" or "*/5 * * * *".
func (s *WatchService) Watch(schedule string, keys ...querycache.Key) (cron.EntryID, error) {
	id, err := s.cron.AddFunc(schedule, func() {
		s.logger.Debug("watch tick", "keys", len(keys))
		s.cache.Invalidate(keys...)
	})
	if err != nil {
		return 0, fmt.Errorf("watch schedule %q: %w", schedule, err)
	}
	return id, nil
}

func (s *WatchService) Start() {
	s.cron.Start()
}

// Stop halts the schedule and waits for a running tick to finish.
func (s *WatchService) Stop() {
	<-s.cron.Stop().Done()
}
