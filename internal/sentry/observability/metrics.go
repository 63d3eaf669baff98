package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Pipeline metrics. Registered once on the default registerer so any
// component can increment them without wiring.
var (
	EventsIngested = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "token_sentry_events_ingested_total",
		Help: "Candidate events produced by ingestion adapters.",
	}, []string{"source"})

	EventsMalformed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "token_sentry_events_malformed_total",
		Help: "Inbound payloads dropped during normalization.",
	}, []string{"source"})

	EventsDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "token_sentry_events_dropped_total",
		Help: "Normalized events dropped because the intake stayed full.",
	}, []string{"source"})

	Admissions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "token_sentry_admissions_total",
		Help: "Admission gate results.",
	}, []string{"result"})

	Rejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "token_sentry_rejections_total",
		Help: "Candidates rejected by scoring.",
	}, []string{"reason"})

	SignalsPublished = promauto.NewCounter(prometheus.CounterOpts{
		Name: "token_sentry_signals_published_total",
		Help: "Signals published to the channel.",
	})

	HourlyCapHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "token_sentry_hourly_cap_hits_total",
		Help: "Publishes refused by the hourly cap.",
	})

	AdjusterFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "token_sentry_adjuster_failures_total",
		Help: "Score adjuster errors, timeouts and panics.",
	}, []string{"adjuster"})

	MarketDataErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "token_sentry_market_data_errors_total",
		Help: "Market data fetch failures by kind.",
	}, []string{"kind"})

	AlertsFired = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "token_sentry_alerts_fired_total",
		Help: "Lifecycle alerts posted.",
	}, []string{"kind"})

	MilestonesPosted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "token_sentry_milestones_posted_total",
		Help: "Milestone messages posted.",
	})

	Outcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "token_sentry_outcomes_total",
		Help: "Terminal outcomes assigned to signals.",
	}, []string{"outcome"})

	IntakeDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "token_sentry_intake_depth",
		Help: "Events currently buffered in the intake channel.",
	})

	TrackedSignals = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "token_sentry_tracked_signals",
		Help: "Signals currently under lifecycle tracking.",
	})

	DecisionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "token_sentry_decision_duration_seconds",
		Help:    "Wall time from dequeue to decision.",
		Buckets: prometheus.DefBuckets,
	})

	SweepDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "token_sentry_sweep_duration_seconds",
		Help:    "Wall time of one lifecycle sweep.",
		Buckets: prometheus.DefBuckets,
	})
)
