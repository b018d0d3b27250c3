package metrics

import "github.com/prometheus/client_golang/prometheus"

// WidgetMetrics exposes counters and gauges for the booking widget flows.
type WidgetMetrics struct {
	sessionsActive  prometheus.Gauge
	sessionsTotal   *prometheus.CounterVec
	cartAdds        *prometheus.CounterVec
	bookings        *prometheus.CounterVec
	vehicleResolved *prometheus.CounterVec
	requestLatency  *prometheus.HistogramVec
}

func NewWidgetMetrics(reg prometheus.Registerer) *WidgetMetrics {
	m := &WidgetMetrics{
		sessionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "autocare",
			Subsystem: "widget",
			Name:      "sessions_active",
			Help:      "Visitor sessions currently held in memory",
		}),
		sessionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "autocare",
			Subsystem: "widget",
			Name:      "sessions_total",
			Help:      "Session lifecycle events",
		}, []string{"event"}),
		cartAdds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "autocare",
			Subsystem: "widget",
			Name:      "cart_adds_total",
			Help:      "Cart add attempts by category and outcome",
		}, []string{"category", "status"}),
		bookings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "autocare",
			Subsystem: "widget",
			Name:      "booking_submits_total",
			Help:      "Booking form submissions by service type and outcome",
		}, []string{"service_type", "status"}),
		vehicleResolved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "autocare",
			Subsystem: "widget",
			Name:      "vehicles_resolved_total",
			Help:      "Resolved vehicles by selection mode",
		}, []string{"mode"}),
		requestLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "autocare",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Latency of API requests",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "status"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.sessionsActive, m.sessionsTotal, m.cartAdds, m.bookings, m.vehicleResolved, m.requestLatency)
	return m
}

// SessionStarted records a created or restored session.
func (m *WidgetMetrics) SessionStarted(event string) {
	if m == nil {
		return
	}
	m.sessionsActive.Inc()
	m.sessionsTotal.WithLabelValues(event).Inc()
}

// SessionEnded records a session leaving memory ("ended" or "expired").
func (m *WidgetMetrics) SessionEnded(event string) {
	if m == nil {
		return
	}
	m.sessionsActive.Dec()
	m.sessionsTotal.WithLabelValues(event).Inc()
}

func (m *WidgetMetrics) ObserveCartAdd(category, status string) {
	if m == nil {
		return
	}
	m.cartAdds.WithLabelValues(category, status).Inc()
}

func (m *WidgetMetrics) ObserveBooking(serviceType, status string) {
	if m == nil {
		return
	}
	if serviceType == "" {
		serviceType = "none"
	}
	m.bookings.WithLabelValues(serviceType, status).Inc()
}

func (m *WidgetMetrics) ObserveVehicleResolved(manual bool) {
	if m == nil {
		return
	}
	mode := "guided"
	if manual {
		mode = "manual"
	}
	m.vehicleResolved.WithLabelValues(mode).Inc()
}

func (m *WidgetMetrics) ObserveRequest(method, status string, seconds float64) {
	if m == nil {
		return
	}
	m.requestLatency.WithLabelValues(method, status).Observe(seconds)
}
