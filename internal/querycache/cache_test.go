package querycache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var carsKey = NewKey("cars")

// counter returns successive integers from 1, one per fetch.
func counter() (Fetcher, *atomic.Int64) {
	var n atomic.Int64
	return func(ctx context.Context) (any, error) {
		return int(n.Add(1)), nil
	}, &n
}

// waitFor reads sub until a state matches or the deadline passes.
func waitFor(t *testing.T, sub *Subscription, match func(State) bool) State {
	t.Helper()
	if s := sub.Current(); match(s) {
		return s
	}
	timeout := time.After(2 * time.Second)
	for {
		select {
		case s, ok := <-sub.Updates():
			require.True(t, ok, "subscription closed")
			if match(s) {
				return s
			}
		case <-timeout:
			t.Fatalf("no matching state; last %+v", sub.Current())
		}
	}
}

func TestKeyString(t *testing.T) {
	assert.Equal(t, "cars", NewKey("cars").String())
	assert.Equal(t, "rentedCars/u1", NewKey("rentedCars", "u1").String())
	assert.Equal(t, Key{Resource: "rentedCars", Param: "u1"}, NewKey("rentedCars", "u1"))
}

func TestLoadFetchesOnceAndCaches(t *testing.T) {
	c := New(nil)
	defer c.Close()
	fetch, n := counter()

	s, err := c.Load(context.Background(), carsKey, fetch)
	require.NoError(t, err)
	assert.Equal(t, 1, s.Data)
	assert.False(t, s.Loading)
	assert.False(t, s.Stale)

	s, err = c.Load(context.Background(), carsKey, fetch)
	require.NoError(t, err)
	assert.Equal(t, 1, s.Data)
	assert.Equal(t, int64(1), n.Load())
	assert.Equal(t, 1, c.Fetches(carsKey))
}

func TestSubscribeReportsLoadingThenData(t *testing.T) {
	c := New(nil)
	defer c.Close()
	release := make(chan struct{})

	sub := c.Subscribe(carsKey, func(ctx context.Context) (any, error) {
		<-release
		return []string{"a"}, nil
	})
	defer sub.Close()

	loading := waitFor(t, sub, func(s State) bool { return s.Loading })
	assert.True(t, loading.Fetching)
	assert.Nil(t, loading.Data)

	close(release)
	done := waitFor(t, sub, State.Settled)
	got, ok := Data[[]string](done)
	require.True(t, ok)
	assert.Equal(t, []string{"a"}, got)
}

func TestInvalidateRefetchesSubscribedKey(t *testing.T) {
	c := New(nil)
	defer c.Close()
	fetch, _ := counter()

	sub := c.Subscribe(carsKey, fetch)
	defer sub.Close()
	waitFor(t, sub, func(s State) bool { return s.Data == 1 && s.Settled() })

	c.Invalidate(carsKey)
	s := waitFor(t, sub, func(s State) bool { return s.Data == 2 && s.Settled() })
	assert.False(t, s.Stale)
	assert.Equal(t, 1, c.Invalidations(carsKey))
	assert.Equal(t, 2, c.Fetches(carsKey))
}

func TestInvalidateKeepsPreviousValueUntilResolved(t *testing.T) {
	c := New(nil)
	defer c.Close()
	var calls atomic.Int64
	release := make(chan struct{})
	fetch := func(ctx context.Context) (any, error) {
		if calls.Add(1) == 1 {
			return "old", nil
		}
		<-release
		return "new", nil
	}

	sub := c.Subscribe(carsKey, fetch)
	defer sub.Close()
	waitFor(t, sub, func(s State) bool { return s.Data == "old" && s.Settled() })

	c.Invalidate(carsKey)
	during := waitFor(t, sub, func(s State) bool { return s.Fetching })
	assert.Equal(t, "old", during.Data)
	assert.True(t, during.Stale)
	assert.False(t, during.Loading)

	close(release)
	waitFor(t, sub, func(s State) bool { return s.Data == "new" && s.Settled() })
}

func TestInvalidateWithoutSubscribersDefersFetch(t *testing.T) {
	c := New(nil)
	defer c.Close()
	fetch, n := counter()

	_, err := c.Load(context.Background(), carsKey, fetch)
	require.NoError(t, err)

	c.Invalidate(carsKey)
	s, ok := c.Get(carsKey)
	require.True(t, ok)
	assert.True(t, s.Stale)
	assert.Equal(t, 1, s.Data)
	assert.Equal(t, int64(1), n.Load())

	s, err = c.Load(context.Background(), carsKey, fetch)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Data)
	assert.False(t, s.Stale)
}

func TestFetchErrorRetainsData(t *testing.T) {
	c := New(nil)
	defer c.Close()
	boom := errors.New("boom")
	var fail atomic.Bool
	fetch := func(ctx context.Context) (any, error) {
		if fail.Load() {
			return nil, boom
		}
		return "cars", nil
	}

	_, err := c.Load(context.Background(), carsKey, fetch)
	require.NoError(t, err)

	fail.Store(true)
	c.Invalidate(carsKey)
	s, err := c.Load(context.Background(), carsKey, fetch)
	require.ErrorIs(t, err, boom)
	assert.ErrorIs(t, s.Err, boom)
	assert.Equal(t, "cars", s.Data)
}

func TestGetUnknownKey(t *testing.T) {
	c := New(nil)
	defer c.Close()
	_, ok := c.Get(NewKey("nope"))
	assert.False(t, ok)
	assert.Zero(t, c.Invalidations(NewKey("nope")))
}

func TestLoadHonoursContext(t *testing.T) {
	c := New(nil)
	defer c.Close()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Load(ctx, carsKey, func(fctx context.Context) (any, error) {
		<-fctx.Done()
		return nil, fctx.Err()
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCloseCancelsInFlightFetches(t *testing.T) {
	c := New(nil)
	started := make(chan struct{})
	sub := c.Subscribe(carsKey, func(ctx context.Context) (any, error) {
		close(started)
		<-ctx.Done()
		return nil, ctx.Err()
	})
	<-started

	c.Close()
	for range sub.Updates() {
	}
	sub.Close()

	s, ok := c.Get(carsKey)
	require.True(t, ok)
	assert.ErrorIs(t, s.Err, context.Canceled)
}

func TestConcurrentSubscribers(t *testing.T) {
	c := New(nil)
	defer c.Close()
	fetch, _ := counter()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.Load(context.Background(), carsKey, fetch)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	s, _ := c.Get(carsKey)
	assert.NotNil(t, s.Data)
	assert.False(t, s.Fetching)
}
