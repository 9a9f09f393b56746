package router

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vyrodovalexey/routem/internal/route"
)

// Lookup and reload outcomes used as label values.
const (
	resultHit     = "hit"
	resultMiss    = "miss"
	resultSuccess = "success"
	resultFailure = "failure"
)

// Metrics holds Prometheus metrics for a route set.
type Metrics struct {
	lookupsTotal       *prometheus.CounterVec
	routeMatchesTotal  *prometheus.CounterVec
	compileErrorsTotal *prometheus.CounterVec
	reloadsTotal       *prometheus.CounterVec
	routes             prometheus.Gauge
}

var (
	metricsInstance *Metrics
	metricsOnce     sync.Once
)

// GetMetrics returns the singleton metrics instance registered with the
// default Prometheus registerer.
func GetMetrics() *Metrics {
	metricsOnce.Do(func() {
		metricsInstance = NewMetrics(prometheus.DefaultRegisterer)
	})
	return metricsInstance
}

// NewMetrics creates route set metrics registered with reg. A nil reg
// creates unregistered collectors.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		lookupsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "routem",
				Subsystem: "router",
				Name:      "lookups_total",
				Help:      "Total number of path lookups by result",
			},
			[]string{"result"},
		),
		routeMatchesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "routem",
				Subsystem: "router",
				Name:      "route_matches_total",
				Help:      "Total number of lookups answered by each route",
			},
			[]string{"route"},
		),
		compileErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "routem",
				Subsystem: "router",
				Name:      "compile_errors_total",
				Help:      "Total number of rejected route templates by error kind",
			},
			[]string{"kind"},
		),
		reloadsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "routem",
				Subsystem: "router",
				Name:      "reloads_total",
				Help:      "Total number of route table loads by result",
			},
			[]string{"result"},
		),
		routes: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "routem",
				Subsystem: "router",
				Name:      "routes",
				Help:      "Current number of routes in the route set",
			},
		),
	}
}

// Init pre-initializes label combinations with zero values so that series
// appear before the first lookup.
func (m *Metrics) Init() {
	for _, result := range []string{resultHit, resultMiss} {
		m.lookupsTotal.WithLabelValues(result)
	}
	for _, result := range []string{resultSuccess, resultFailure} {
		m.reloadsTotal.WithLabelValues(result)
	}
	for _, kind := range []route.ErrorKind{
		route.ErrorKindSyntax,
		route.ErrorKindUnknownType,
		route.ErrorKindTrailingInput,
	} {
		m.compileErrorsTotal.WithLabelValues(kind.String())
	}
}

func (m *Metrics) recordLookup(r *route.Route) {
	if m == nil {
		return
	}
	if r == nil {
		m.lookupsTotal.WithLabelValues(resultMiss).Inc()
		return
	}
	m.lookupsTotal.WithLabelValues(resultHit).Inc()
	m.routeMatchesTotal.WithLabelValues(r.Name()).Inc()
}

func (m *Metrics) recordCompileError(kind route.ErrorKind) {
	if m == nil {
		return
	}
	m.compileErrorsTotal.WithLabelValues(kind.String()).Inc()
}

// RecordReload counts a route table load as a success or a failure.
func (m *Metrics) RecordReload(err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.reloadsTotal.WithLabelValues(resultFailure).Inc()
		return
	}
	m.reloadsTotal.WithLabelValues(resultSuccess).Inc()
}

func (m *Metrics) setRoutes(n int) {
	if m == nil {
		return
	}
	m.routes.Set(float64(n))
}
