package observability

import (
	"fmt"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// Metrics groups the collectors for one feed. Each instance registers on its
// own registry so several feeds (and tests) can coexist.
type Metrics struct {
	Registry *prometheus.Registry

	// ReactionTransitions counts reaction transitions by kind and outcome.
	ReactionTransitions *prometheus.CounterVec
	// FeedbackEmitted counts feedback events by kind.
	FeedbackEmitted *prometheus.CounterVec
	// FeedbackExpired counts feedback events removed by expiry.
	FeedbackExpired prometheus.Counter
	// FeedbackLive is the number of feedback events pending expiry.
	FeedbackLive prometheus.Gauge
	// CommentsAdded counts locally added comments.
	CommentsAdded prometheus.Counter
	// PostsPublished counts posts created by the viewer.
	PostsPublished prometheus.Counter
	// DispatchLatency records session event handling time by event type.
	DispatchLatency *prometheus.HistogramVec
}

// NewMetrics creates and registers the collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Registry: reg,
		ReactionTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vibefeed_reaction_transitions_total",
			Help: "Total reaction transitions by kind and outcome",
		}, []string{"kind", "outcome"}),
		FeedbackEmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vibefeed_feedback_emitted_total",
			Help: "Total feedback events emitted by reaction kind",
		}, []string{"kind"}),
		FeedbackExpired: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vibefeed_feedback_expired_total",
			Help: "Total feedback events removed after their lifetime",
		}),
		FeedbackLive: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "vibefeed_feedback_live",
			Help: "Feedback events waiting to expire",
		}),
		CommentsAdded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vibefeed_comments_added_total",
			Help: "Total comments added by the viewer",
		}),
		PostsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vibefeed_posts_published_total",
			Help: "Total posts published by the viewer",
		}),
		DispatchLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "vibefeed_session_dispatch_seconds",
			Help:    "Session event handling latency in seconds",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 8),
		}, []string{"event"}),
	}
	reg.MustRegister(
		m.ReactionTransitions,
		m.FeedbackEmitted,
		m.FeedbackExpired,
		m.FeedbackLive,
		m.CommentsAdded,
		m.PostsPublished,
		m.DispatchLatency,
	)
	return m
}

// TrackDispatch returns a function that records dispatch latency when called (e.g. defer).
func (m *Metrics) TrackDispatch(event string) func() {
	start := time.Now()
	return func() {
		m.DispatchLatency.WithLabelValues(event).Observe(time.Since(start).Seconds())
	}
}

// WriteText writes everything collected so far in the Prometheus text format.
func (m *Metrics) WriteText(w io.Writer) error {
	families, err := m.Registry.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}
	return nil
}
