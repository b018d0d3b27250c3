package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wolfman30/autocare-booking/internal/booking"
	"github.com/wolfman30/autocare-booking/internal/catalog"
	"github.com/wolfman30/autocare-booking/internal/observability/metrics"
	"github.com/wolfman30/autocare-booking/internal/schedule"
)

type recordingPublisher struct {
	mu        sync.Mutex
	published []string
}

func (p *recordingPublisher) Publish(id string, _ any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published = append(p.published, id)
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.published)
}

type recordingNotifier struct {
	confirmed []booking.Confirmation
	err       error
}

func (n *recordingNotifier) BookingConfirmed(_ context.Context, conf booking.Confirmation) error {
	n.confirmed = append(n.confirmed, conf)
	return n.err
}

func newTestManager(t *testing.T, store Store) (*Manager, *schedule.ManualClock, *recordingPublisher, *recordingNotifier) {
	t.Helper()
	clock := schedule.NewManualClock(t0)
	pub := &recordingPublisher{}
	notifier := &recordingNotifier{}
	m := NewManager(ManagerConfig{
		Catalog:   catalog.Default(),
		Options:   Options{Clock: clock},
		IdleTTL:   time.Hour,
		Store:     store,
		Publisher: pub,
		Notifier:  notifier,
		Metrics:   metrics.NewWidgetMetrics(prometheus.NewRegistry()),
	})
	t.Cleanup(m.Shutdown)
	return m, clock, pub, notifier
}

func TestManagerCreateAndGet(t *testing.T) {
	m, _, _, _ := newTestManager(t, nil)
	ctx := context.Background()

	s, err := m.Create(ctx)
	require.NoError(t, err)
	got, err := m.Get(ctx, s.ID())
	require.NoError(t, err)
	assert.Same(t, s, got)
	assert.Equal(t, 1, m.Len())

	_, err = m.Get(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestManagerRestoresFromSharedStore(t *testing.T) {
	client, _ := setupTestRedis(t)
	store := NewRedisStore(client, time.Hour)
	ctx := context.Background()

	a, _, _, _ := newTestManager(t, store)
	s, err := a.Create(ctx)
	require.NoError(t, err)
	require.NoError(t, s.OpenCategory("ac"))
	_, err = s.AddToCart("ac-regular")
	require.NoError(t, err)
	require.NoError(t, a.Save(ctx, s))

	b, _, _, _ := newTestManager(t, store)
	restored, err := b.Get(ctx, s.ID())
	require.NoError(t, err)
	assert.Equal(t, 1499, restored.Snapshot().Cart.Subtotal)
	assert.Equal(t, 1, b.Len())
}

func TestManagerPublishesTimerChanges(t *testing.T) {
	m, clock, pub, _ := newTestManager(t, nil)
	s, err := m.Create(context.Background())
	require.NoError(t, err)

	require.NoError(t, s.OpenCategory("ac"))
	require.NoError(t, s.CloseCategory())
	assert.Zero(t, pub.count())

	clock.Advance(time.Second)
	assert.Equal(t, 1, pub.count())
}

func TestManagerSubmitBookingNotifies(t *testing.T) {
	m, _, _, notifier := newTestManager(t, nil)
	ctx := context.Background()
	s, err := m.Create(ctx)
	require.NoError(t, err)

	_, err = m.SubmitBooking(ctx, s)
	var verr *booking.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Empty(t, notifier.confirmed)

	require.NoError(t, s.UpdateBooking(BookingPatch{
		ServiceType:  str("battery"),
		Date:         str("2026-03-10"),
		Slot:         str("05:00 PM"),
		ContactPatch: booking.ContactPatch{Name: str("Dev"), Phone: str("555"), Email: str("dev@example.com")},
	}))
	notifier.err = errors.New("mail down")
	conf, err := m.SubmitBooking(ctx, s)
	require.NoError(t, err, "notification failures never fail the booking")
	require.Len(t, notifier.confirmed, 1)
	assert.Equal(t, conf.ID, notifier.confirmed[0].ID)
	assert.Equal(t, "Battery Service", conf.ServiceName)
}

func TestManagerSweepAndEnd(t *testing.T) {
	m, clock, _, _ := newTestManager(t, nil)
	ctx := context.Background()
	idle, err := m.Create(ctx)
	require.NoError(t, err)
	clock.Advance(30 * time.Minute)
	active, err := m.Create(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, m.Sweep(t0.Add(time.Hour)))
	assert.True(t, idle.Closed())
	assert.False(t, active.Closed())

	require.NoError(t, m.End(ctx, active.ID()))
	assert.True(t, active.Closed())
	assert.Zero(t, m.Len())
	_, err = m.Get(ctx, active.ID())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestManagerRunStopsOnCancel(t *testing.T) {
	m, _, _, _ := newTestManager(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.Run(ctx, time.Millisecond)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop")
	}
}
