// Package metrics owns the Prometheus collectors exported at /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector groups the application's metrics under one registry. A nil
// *Collector is valid and records nothing.
type Collector struct {
	registry *prometheus.Registry

	productActions       *prometheus.CounterVec
	achievementsUnlocked *prometheus.CounterVec
	remindersSent        *prometheus.CounterVec
	requestDuration      *prometheus.HistogramVec
}

// NewCollector creates a collector with its own registry, including the Go
// runtime and process collectors.
func NewCollector() *Collector {
	registry := prometheus.NewRegistry()

	productActions := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodtracker_product_actions_total",
			Help: "Use and waste actions applied to products",
		},
		[]string{"action"},
	)

	achievementsUnlocked := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodtracker_achievements_unlocked_total",
			Help: "Achievements unlocked by product actions",
		},
		[]string{"achievement"},
	)

	remindersSent := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodtracker_expiration_reminders_total",
			Help: "Expiration reminder e-mails by delivery outcome",
		},
		[]string{"outcome"},
	)

	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "foodtracker_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		productActions,
		achievementsUnlocked,
		remindersSent,
		requestDuration,
	)

	return &Collector{
		registry:             registry,
		productActions:       productActions,
		achievementsUnlocked: achievementsUnlocked,
		remindersSent:        remindersSent,
		requestDuration:      requestDuration,
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// Registry exposes the underlying registry, mainly for tests.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// ProductAction counts one applied use or waste action.
func (c *Collector) ProductAction(action string) {
	if c == nil {
		return
	}
	c.productActions.WithLabelValues(action).Inc()
}

// AchievementsUnlocked counts each newly unlocked achievement.
func (c *Collector) AchievementsUnlocked(ids ...string) {
	if c == nil {
		return
	}
	for _, id := range ids {
		c.achievementsUnlocked.WithLabelValues(id).Inc()
	}
}

// ReminderSent counts one reminder delivery attempt.
func (c *Collector) ReminderSent(ok bool) {
	if c == nil {
		return
	}
	outcome := "sent"
	if !ok {
		outcome = "failed"
	}
	c.remindersSent.WithLabelValues(outcome).Inc()
}

// ObserveRequest records the latency of one HTTP request.
func (c *Collector) ObserveRequest(method, route string, status int, latency time.Duration) {
	if c == nil {
		return
	}
	c.requestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(latency.Seconds())
}
