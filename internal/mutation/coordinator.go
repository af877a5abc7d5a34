package mutation

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"carrental/internal/querycache"

	"github.com/google/uuid"
)

// Invalidator is the part of the query cache a coordinator needs.
type Invalidator interface {
	Invalidate(keys ...querycache.Key)
}

// Options binds a coordinator to one write.
type Options[In, Out any] struct {
	// Name identifies the mutation in logs.
	Name string
	Do   func(ctx context.Context, in In) (Out, error)
	// Target returns the optimistic marker of a run, for example the id of
	// the car being deleted, so views can flag the row while it is pending.
	Target func(in In) string
	// Invalidates lists the keys to refetch after a successful run.
	Invalidates func(in In, out Out) []querycache.Key

	SuccessTitle string
	ErrorTitle   string

	// OnSuccess runs after the keys are invalidated and before the success
	// notification.
	OnSuccess    func(in In, out Out)
	OnTransition func(from, to Status)
}

// Snapshot is a point in time view of a coordinator.
type Snapshot struct {
	Name   string
	Status Status
	Marker string
	Err    error
}

// Coordinator performs one kind of write at a time per caller and keeps the
// status of the most recent run. It is safe for concurrent use.
type Coordinator[In, Out any] struct {
	cache    Invalidator
	notifier Notifier
	logger   *slog.Logger
	opts     Options[In, Out]

	mu     sync.Mutex
	status Status
	marker string
	err    error
	// seq numbers runs; only the latest run may update status and marker.
	seq uint64
}

func New[In, Out any](cache Invalidator, notifier Notifier, logger *slog.Logger, opts Options[In, Out]) *Coordinator[In, Out] {
	if logger == nil {
		logger = slog.Default()
	}
	if notifier == nil {
		notifier = NotifierFunc(func(Notification) {})
	}
	return &Coordinator[In, Out]{
		cache:    cache,
		notifier: notifier,
		logger:   logger.With("mutation", opts.Name),
		opts:     opts,
		status:   StatusIdle,
	}
}

// Run performs the write. On success the configured keys are invalidated
// before the status becomes success; on failure the cache is left alone.
// Either way a notification is emitted and the marker is cleared.
func (c *Coordinator[In, Out]) Run(ctx context.Context, in In) (Out, error) {
	if c.opts.Do == nil {
		var zero Out
		return zero, fmt.Errorf("%s: no request bound", c.opts.Name)
	}
	target := ""
	if c.opts.Target != nil {
		target = c.opts.Target(in)
	}
	runID := uuid.NewString()

	c.mu.Lock()
	c.seq++
	seq := c.seq
	var moves [][2]Status
	if c.status.Done() {
		moves = append(moves, c.moveLocked(StatusIdle))
	}
	if c.status == StatusIdle {
		moves = append(moves, c.moveLocked(StatusPending))
	}
	c.marker = target
	c.err = nil
	c.mu.Unlock()
	c.emit(moves)

	c.logger.Debug("mutation started", "run", runID, "target", target)
	out, err := c.opts.Do(ctx, in)
	if err != nil {
		c.logger.Info("mutation failed", "run", runID, "target", target, "err", err)
		c.finish(seq, StatusError, err)
		c.notifier.Notify(ErrorNotification(c.opts.ErrorTitle, err))
		return out, err
	}

	if c.cache != nil && c.opts.Invalidates != nil {
		if keys := c.opts.Invalidates(in, out); len(keys) > 0 {
			c.cache.Invalidate(keys...)
		}
	}
	c.finish(seq, StatusSuccess, nil)
	if c.opts.OnSuccess != nil {
		c.opts.OnSuccess(in, out)
	}
	c.logger.Debug("mutation succeeded", "run", runID, "target", target)
	c.notifier.Notify(Notification{Level: LevelSuccess, Title: c.opts.SuccessTitle})
	return out, nil
}

func (c *Coordinator[In, Out]) finish(seq uint64, to Status, err error) {
	c.mu.Lock()
	if seq != c.seq {
		c.mu.Unlock()
		return
	}
	c.marker = ""
	c.err = err
	move := c.moveLocked(to)
	c.mu.Unlock()
	c.emit([][2]Status{move})
}

// moveLocked changes the status and returns the move for OnTransition.
// Moves the table does not allow are a programming error.
func (c *Coordinator[In, Out]) moveLocked(to Status) [2]Status {
	from := c.status
	if !CanTransition(from, to) {
		panic(fmt.Sprintf("mutation %s: invalid transition %s -> %s", c.opts.Name, from, to))
	}
	c.status = to
	return [2]Status{from, to}
}

func (c *Coordinator[In, Out]) emit(moves [][2]Status) {
	if c.opts.OnTransition == nil {
		return
	}
	for _, m := range moves {
		c.opts.OnTransition(m[0], m[1])
	}
}

func (c *Coordinator[In, Out]) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Marker returns the target of the pending run, or "".
func (c *Coordinator[In, Out]) Marker() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.marker
}

// IsPending reports whether a run for target is in flight.
func (c *Coordinator[In, Out]) IsPending(target string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status == StatusPending && c.marker == target
}

func (c *Coordinator[In, Out]) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{Name: c.opts.Name, Status: c.status, Marker: c.marker, Err: c.err}
}

// Reset returns a finished coordinator to idle. It does nothing while a run
// is pending.
func (c *Coordinator[In, Out]) Reset() {
	c.mu.Lock()
	if !c.status.Done() {
		c.mu.Unlock()
		return
	}
	c.err = nil
	move := c.moveLocked(StatusIdle)
	c.mu.Unlock()
	c.emit([][2]Status{move})
}
