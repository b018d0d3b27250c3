package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/wolfman30/autocare-booking/internal/booking"
	"github.com/wolfman30/autocare-booking/internal/catalog"
	"github.com/wolfman30/autocare-booking/internal/observability/metrics"
	"github.com/wolfman30/autocare-booking/pkg/logging"
)

var sessionTracer = otel.Tracer("autocare.internal.session")

// Publisher receives every saved snapshot, e.g. to push it to websockets.
type Publisher interface {
	Publish(sessionID string, payload any)
}

// Notifier is told about confirmed bookings.
type Notifier interface {
	BookingConfirmed(ctx context.Context, conf booking.Confirmation) error
}

// ManagerConfig wires a Manager.
type ManagerConfig struct {
	Catalog   *catalog.Catalog
	Options   Options
	IdleTTL   time.Duration
	Store     Store
	Publisher Publisher
	Notifier  Notifier
	Metrics   *metrics.WidgetMetrics
	Logger    *logging.Logger
}

// Manager owns the live sessions of this process.
type Manager struct {
	ref       *catalog.Catalog
	opts      Options
	idleTTL   time.Duration
	store     Store
	publisher Publisher
	notifier  Notifier
	metrics   *metrics.WidgetMetrics
	logger    *logging.Logger

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewManager creates a manager. Without a store, snapshots are kept in
// memory only.
func NewManager(cfg ManagerConfig) *Manager {
	if cfg.Catalog == nil {
		panic("session: catalog required")
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = 2 * time.Hour
	}
	m := &Manager{
		ref:       cfg.Catalog,
		idleTTL:   cfg.IdleTTL,
		store:     cfg.Store,
		publisher: cfg.Publisher,
		notifier:  cfg.Notifier,
		metrics:   cfg.Metrics,
		logger:    cfg.Logger,
		sessions:  make(map[string]*Session),
	}
	m.opts = cfg.Options
	m.opts.OnChange = m.timerFired
	if m.store == nil {
		m.store = NewMemoryStore(cfg.IdleTTL, m.now)
	}
	return m
}

func (m *Manager) now() time.Time {
	if m.opts.Clock != nil {
		return m.opts.Clock.Now()
	}
	return time.Now()
}

// Create starts a new session.
func (m *Manager) Create(ctx context.Context) (*Session, error) {
	ctx, span := sessionTracer.Start(ctx, "session.create")
	defer span.End()

	s := New(uuid.NewString(), m.ref, m.opts)
	span.SetAttributes(attribute.String("autocare.session_id", s.ID()))
	if err := m.store.Save(ctx, s.Snapshot()); err != nil {
		span.RecordError(err)
		s.Close()
		return nil, err
	}

	m.mu.Lock()
	m.sessions[s.ID()] = s
	m.mu.Unlock()

	m.metrics.SessionStarted("created")
	m.logger.Info("session created", "session_id", s.ID())
	return s, nil
}

// Get returns a live session, restoring it from the store when this process
// does not hold it.
func (m *Manager) Get(ctx context.Context, id string) (*Session, error) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	m.mu.Unlock()
	if ok {
		return s, nil
	}

	ctx, span := sessionTracer.Start(ctx, "session.restore")
	defer span.End()
	span.SetAttributes(attribute.String("autocare.session_id", id))

	snap, err := m.store.Load(ctx, id)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			span.RecordError(err)
			m.logger.Error("session: load snapshot failed", "session_id", id, "error", err)
		}
		return nil, err
	}
	restored := Restore(snap, m.ref, m.opts)

	m.mu.Lock()
	if existing, ok := m.sessions[id]; ok {
		// Lost a race with a concurrent restore.
		m.mu.Unlock()
		restored.Close()
		return existing, nil
	}
	m.sessions[id] = restored
	m.mu.Unlock()

	m.metrics.SessionStarted("restored")
	m.logger.Info("session restored", "session_id", id)
	return restored, nil
}

// Save mirrors the session to the store and publishes its snapshot.
func (m *Manager) Save(ctx context.Context, s *Session) error {
	snap := s.Snapshot()
	if m.publisher != nil {
		m.publisher.Publish(s.ID(), snap)
	}
	if err := m.store.Save(ctx, snap); err != nil {
		m.logger.Error("session: save snapshot failed", "session_id", s.ID(), "error", err)
		return err
	}
	return nil
}

// SubmitBooking submits the session's booking form and notifies the
// workshop and customer. Notification failures are logged only.
func (m *Manager) SubmitBooking(ctx context.Context, s *Session) (booking.Confirmation, error) {
	ctx, span := sessionTracer.Start(ctx, "session.submit_booking")
	defer span.End()
	span.SetAttributes(attribute.String("autocare.session_id", s.ID()))

	conf, err := s.SubmitBooking()
	if err != nil {
		m.metrics.ObserveBooking(s.Snapshot().Booking.ServiceType, bookingStatus(err))
		return booking.Confirmation{}, err
	}
	span.SetAttributes(attribute.String("autocare.booking_id", conf.ID))
	m.metrics.ObserveBooking(conf.ServiceType, "booked")
	m.logger.Info("booking confirmed",
		"session_id", s.ID(),
		"booking_id", conf.ID,
		"service_type", conf.ServiceType,
		"date", conf.Date,
		"slot", conf.Slot,
	)

	if m.notifier != nil {
		if err := m.notifier.BookingConfirmed(ctx, conf); err != nil {
			span.RecordError(err)
			m.logger.Warn("booking notification failed", "session_id", s.ID(), "booking_id", conf.ID, "error", err)
		}
	}
	return conf, nil
}

func bookingStatus(err error) string {
	var verr *booking.ValidationError
	switch {
	case errors.As(err, &verr):
		return "incomplete"
	case errors.Is(err, booking.ErrNotCollecting):
		return "locked"
	}
	return "error"
}

// End closes a session and removes it from memory and the store.
func (m *Manager) End(ctx context.Context, id string) error {
	ctx, span := sessionTracer.Start(ctx, "session.end")
	defer span.End()
	span.SetAttributes(attribute.String("autocare.session_id", id))

	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if ok {
		s.Close()
		m.metrics.SessionEnded("ended")
	}
	if err := m.store.Delete(ctx, id); err != nil {
		span.RecordError(err)
		return err
	}
	m.logger.Info("session ended", "session_id", id)
	return nil
}

// Len returns the number of sessions held in memory.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Sweep closes sessions idle for longer than the TTL and returns how many
// were dropped. Their store entries expire on their own.
func (m *Manager) Sweep(now time.Time) int {
	var expired []*Session
	m.mu.Lock()
	for id, s := range m.sessions {
		if now.Sub(s.LastActive()) >= m.idleTTL {
			expired = append(expired, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, s := range expired {
		s.Close()
		m.metrics.SessionEnded("expired")
		m.logger.Debug("session expired", "session_id", s.ID())
	}
	return len(expired)
}

// Run sweeps idle sessions until ctx is cancelled.
func (m *Manager) Run(ctx context.Context, every time.Duration) {
	if every <= 0 {
		every = time.Minute
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.Sweep(m.now()); n > 0 {
				m.logger.Info("expired idle sessions", "count", n, "remaining", m.Len())
			}
		}
	}
}

// Shutdown closes every session held in memory.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()
	for _, s := range sessions {
		s.Close()
		m.metrics.SessionEnded("ended")
	}
}

func (m *Manager) timerFired(s *Session) {
	if s.Closed() {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = m.Save(ctx, s)
}
