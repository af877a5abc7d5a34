package mutation

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	apperrors "carrental/internal/errors"
	"carrental/internal/querycache"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var carsKey = querycache.NewKey("cars")

type recordingNotifier struct {
	mu   sync.Mutex
	sent []Notification
}

func (r *recordingNotifier) Notify(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, n)
}

func (r *recordingNotifier) all() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.sent...)
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to Status
		want     bool
	}{
		{StatusIdle, StatusPending, true},
		{StatusPending, StatusSuccess, true},
		{StatusPending, StatusError, true},
		{StatusSuccess, StatusIdle, true},
		{StatusError, StatusIdle, true},
		{StatusIdle, StatusSuccess, false},
		{StatusIdle, StatusError, false},
		{StatusSuccess, StatusPending, false},
		{StatusError, StatusSuccess, false},
		{Status("bogus"), StatusIdle, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}

func TestRunSuccessInvalidatesAndNotifies(t *testing.T) {
	cache := querycache.New(nil)
	defer cache.Close()
	notes := &recordingNotifier{}
	var moves []string
	var markerDuringDo string

	var co *Coordinator[string, string]
	co = New(cache, notes, nil, Options[string, string]{
		Name: "deleteCar",
		Do: func(ctx context.Context, id string) (string, error) {
			markerDuringDo = co.Marker()
			assert.True(t, co.IsPending(id))
			return id, nil
		},
		Target:       func(id string) string { return id },
		Invalidates:  func(string, string) []querycache.Key { return []querycache.Key{carsKey} },
		SuccessTitle: "Car deleted successfully",
		ErrorTitle:   "Failed to delete car",
		OnTransition: func(from, to Status) { moves = append(moves, string(from)+">"+string(to)) },
	})

	out, err := co.Run(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, "c1", out)
	assert.Equal(t, "c1", markerDuringDo)
	assert.Equal(t, StatusSuccess, co.Status())
	assert.Empty(t, co.Marker())
	assert.Equal(t, 1, cache.Invalidations(carsKey))
	assert.Equal(t, []Notification{{Level: LevelSuccess, Title: "Car deleted successfully"}}, notes.all())

	_, err = co.Run(context.Background(), "c2")
	require.NoError(t, err)
	want := []string{"idle>pending", "pending>success", "success>idle", "idle>pending", "pending>success"}
	if diff := cmp.Diff(want, moves); diff != "" {
		t.Errorf("transitions mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 2, cache.Invalidations(carsKey))
}

func TestRunFailureLeavesCacheUnchanged(t *testing.T) {
	cache := querycache.New(nil)
	defer cache.Close()
	_, err := cache.Load(context.Background(), carsKey, func(context.Context) (any, error) {
		return []string{"c1"}, nil
	})
	require.NoError(t, err)

	notes := &recordingNotifier{}
	co := New(cache, notes, nil, Options[string, struct{}]{
		Name: "rentCar",
		Do: func(context.Context, string) (struct{}, error) {
			return struct{}{}, apperrors.NewAPIError(http.MethodPost, "rentals/create", http.StatusConflict, "Car is not available")
		},
		Target:      func(id string) string { return id },
		Invalidates: func(string, struct{}) []querycache.Key { return []querycache.Key{carsKey} },
		ErrorTitle:  "Failed to rent car",
	})

	_, err = co.Run(context.Background(), "c1")
	require.Error(t, err)

	snap := co.Snapshot()
	assert.Equal(t, StatusError, snap.Status)
	assert.Empty(t, snap.Marker)
	assert.Equal(t, err, snap.Err)

	assert.Zero(t, cache.Invalidations(carsKey))
	s, _ := cache.Get(carsKey)
	assert.Equal(t, []string{"c1"}, s.Data)
	assert.False(t, s.Stale)

	assert.Equal(t, []Notification{{Level: LevelError, Title: "Failed to rent car", Description: "Car is not available"}}, notes.all())
}

func TestErrorNotificationWithoutServerMessage(t *testing.T) {
	cases := []error{
		errors.New("boom"),
		apperrors.NewNetworkError(http.MethodGet, "cars", errors.New("connection refused")),
		apperrors.NewAPIError(http.MethodGet, "cars", http.StatusInternalServerError, ""),
	}
	for _, err := range cases {
		n := ErrorNotification("Failed to add car", err)
		assert.Equal(t, LevelError, n.Level)
		assert.Equal(t, UnknownErrorDescription, n.Description, err.Error())
	}
}

func TestLatestRunOwnsMarker(t *testing.T) {
	started := map[string]chan struct{}{"first": make(chan struct{}), "second": make(chan struct{})}
	release := map[string]chan struct{}{"first": make(chan struct{}), "second": make(chan struct{})}
	inv := &countingInvalidator{}

	co := New(inv, nil, nil, Options[string, string]{
		Name: "deleteCar",
		Do: func(ctx context.Context, id string) (string, error) {
			close(started[id])
			<-release[id]
			return id, nil
		},
		Target:      func(id string) string { return id },
		Invalidates: func(string, string) []querycache.Key { return []querycache.Key{carsKey} },
	})

	run := func(id string) <-chan struct{} {
		done := make(chan struct{})
		go func() {
			defer close(done)
			_, _ = co.Run(context.Background(), id)
		}()
		return done
	}

	firstDone := run("first")
	<-started["first"]
	secondDone := run("second")
	<-started["second"]
	assert.Equal(t, "second", co.Marker())

	close(release["first"])
	<-firstDone
	assert.Equal(t, "second", co.Marker(), "earlier completion must not clear the newer marker")
	assert.Equal(t, StatusPending, co.Status())
	assert.Equal(t, 1, inv.count())

	close(release["second"])
	<-secondDone
	assert.Empty(t, co.Marker())
	assert.Equal(t, StatusSuccess, co.Status())
	assert.Equal(t, 2, inv.count())
}

func TestReset(t *testing.T) {
	co := New(nil, nil, nil, Options[int, int]{
		Do: func(_ context.Context, n int) (int, error) { return n, nil },
	})
	co.Reset()
	assert.Equal(t, StatusIdle, co.Status())

	_, err := co.Run(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, co.Status())
	co.Reset()
	assert.Equal(t, StatusIdle, co.Status())
}

type countingInvalidator struct {
	mu sync.Mutex
	n  int
}

func (c *countingInvalidator) Invalidate(keys ...querycache.Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.n += len(keys)
}

func (c *countingInvalidator) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.n
}
