// Package querycache keeps the last known server response per query key and
// notifies subscribers when a key's value or loading state changes.
//
// Fetches run on goroutines bound to the cache's context. They are not
// ordered: when two fetches of the same key overlap, whichever resolves last
// wins, even if it was dispatched first.
package querycache

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// ErrClosed is returned by Load when the cache is closed while waiting.
var ErrClosed = errors.New("querycache: closed")

// Fetcher loads the current value of a key from the server.
type Fetcher func(ctx context.Context) (any, error)

// State is a snapshot of one entry.
type State struct {
	Data any
	// Err is the error of the last fetch. Data from an earlier successful
	// fetch is kept next to it.
	Err error
	// Loading is set while the first fetch of the entry is in flight.
	Loading bool
	// Fetching is set while any fetch of the entry is in flight.
	Fetching bool
	// Stale is set between an invalidation and the fetch that follows it.
	Stale     bool
	UpdatedAt time.Time
}

// Settled reports whether the entry has a result and nothing in flight.
func (s State) Settled() bool {
	return !s.UpdatedAt.IsZero() && !s.Fetching
}

// Data returns the entry's data as T.
func Data[T any](s State) (T, bool) {
	v, ok := s.Data.(T)
	return v, ok
}

type entry struct {
	key       Key
	fetch     Fetcher
	data      any
	err       error
	updatedAt time.Time
	hasResult bool
	inflight  int
	// gen counts invalidations; a fetch dispatched at an older gen leaves
	// the entry stale.
	gen   uint64
	stale bool

	fetches       int
	invalidations int
	subs          map[*Subscription]struct{}
}

func (e *entry) state() State {
	return State{
		Data:      e.data,
		Err:       e.err,
		Loading:   !e.hasResult && e.inflight > 0,
		Fetching:  e.inflight > 0,
		Stale:     e.stale,
		UpdatedAt: e.updatedAt,
	}
}

func (e *entry) publish() {
	s := e.state()
	for sub := range e.subs {
		sub.push(s)
	}
}

// Cache is safe for concurrent use. The zero value is not usable; use New.
type Cache struct {
	mu      sync.Mutex
	entries map[Key]*entry
	closed  bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	logger *slog.Logger
	now    func() time.Time
}

func New(logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Cache{
		entries: make(map[Key]*entry),
		ctx:     ctx,
		cancel:  cancel,
		logger:  logger,
		now:     time.Now,
	}
}

func (c *Cache) entryLocked(key Key) *entry {
	e, ok := c.entries[key]
	if !ok {
		e = &entry{key: key, subs: make(map[*Subscription]struct{})}
		c.entries[key] = e
	}
	return e
}

// Subscribe registers interest in key. The newest fetch function replaces
// any earlier one. A fetch starts when the entry has no result yet, or is
// stale with nothing in flight.
func (c *Cache) Subscribe(key Key, fetch Fetcher) *Subscription {
	sub := &Subscription{cache: c, key: key, updates: make(chan State, 1)}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		sub.closed = true
		close(sub.updates)
		return sub
	}
	e := c.entryLocked(key)
	if fetch != nil {
		e.fetch = fetch
	}
	e.subs[sub] = struct{}{}
	sub.current = e.state()

	if e.inflight == 0 && (!e.hasResult || e.stale) {
		c.startFetchLocked(e)
	} else {
		sub.push(e.state())
	}
	return sub
}

// Get returns the current state of key, or false when it was never used.
func (c *Cache) Get(key Key) (State, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return State{}, false
	}
	return e.state(), true
}

// Load subscribes to key and blocks until the entry is settled. The returned
// error is the entry's fetch error or ctx's.
func (c *Cache) Load(ctx context.Context, key Key, fetch Fetcher) (State, error) {
	sub := c.Subscribe(key, fetch)
	defer sub.Close()

	s := sub.Current()
	for !s.Settled() {
		select {
		case next, ok := <-sub.Updates():
			if !ok {
				return s, ErrClosed
			}
			s = next
		case <-ctx.Done():
			return s, ctx.Err()
		}
	}
	return s, s.Err
}

// Invalidate marks keys stale. Keys with subscribers refetch in the
// background; the others refetch on their next Subscribe or Load. Until the
// refetch resolves, subscribers keep the previous value.
func (c *Cache) Invalidate(keys ...Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		e := c.entryLocked(key)
		e.invalidations++
		e.gen++
		e.stale = true
		c.logger.Debug("query invalidated", "key", key.String(), "subscribers", len(e.subs))
		if len(e.subs) > 0 && e.fetch != nil && !c.closed {
			c.startFetchLocked(e)
		} else {
			e.publish()
		}
	}
}

// Invalidations reports how many times key was invalidated.
func (c *Cache) Invalidations(key Key) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[key]; ok {
		return e.invalidations
	}
	return 0
}

// Fetches reports how many fetches of key were dispatched.
func (c *Cache) Fetches(key Key) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[key]; ok {
		return e.fetches
	}
	return 0
}

// Close cancels in-flight fetches, waits for them and closes every
// subscription channel.
func (c *Cache) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.mu.Unlock()

	c.cancel()
	c.wg.Wait()

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range c.entries {
		for sub := range e.subs {
			sub.closeLocked()
		}
	}
}

func (c *Cache) startFetchLocked(e *entry) {
	if e.fetch == nil {
		e.publish()
		return
	}
	e.inflight++
	e.fetches++
	gen := e.gen
	fetch := e.fetch
	e.publish()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		data, err := fetch(c.ctx)

		c.mu.Lock()
		defer c.mu.Unlock()
		e.inflight--
		e.hasResult = true
		e.updatedAt = c.now()
		if err != nil {
			c.logger.Debug("query fetch failed", "key", e.key.String(), "err", err)
			e.err = err
		} else {
			e.data = data
			e.err = nil
		}
		e.stale = gen < e.gen
		if e.stale && e.inflight == 0 && len(e.subs) > 0 && !c.closed {
			c.startFetchLocked(e)
			return
		}
		e.publish()
	}()
}

// Subscription delivers the states of one key.
type Subscription struct {
	cache   *Cache
	key     Key
	updates chan State
	current State
	closed  bool
}

// push replaces any undelivered state with s. Callers hold the cache lock.
func (s *Subscription) push(st State) {
	if s.closed {
		return
	}
	s.current = st
	select {
	case <-s.updates:
	default:
	}
	s.updates <- st
}

// Updates yields the newest state after each change. Only the latest
// undelivered state is kept. The channel is closed by Close.
func (s *Subscription) Updates() <-chan State {
	return s.updates
}

// Current returns the latest state pushed to the subscription.
func (s *Subscription) Current() State {
	s.cache.mu.Lock()
	defer s.cache.mu.Unlock()
	return s.current
}

func (s *Subscription) Key() Key {
	return s.key
}

func (s *Subscription) Close() {
	s.cache.mu.Lock()
	defer s.cache.mu.Unlock()
	if e, ok := s.cache.entries[s.key]; ok {
		delete(e.subs, s)
	}
	s.closeLocked()
}

func (s *Subscription) closeLocked() {
	if s.closed {
		return
	}
	s.closed = true
	close(s.updates)
}
