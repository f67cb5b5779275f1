// Package metrics exposes Prometheus collectors for HTTP traffic and story activity.
//
// All recording methods are safe to call on a nil *Metrics, so services can be
// built without instrumentation in tests.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mcoot/onewordstory/internal/middleware"
)

const namespace = "ows"

// Metrics owns a registry and the service's collectors
type Metrics struct {
	Registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	storiesCreated      prometheus.Counter
	wordsAdded          prometheus.Counter
	storiesEnded        prometheus.Counter
	invitationsCreated  prometheus.Counter
	invitationsAccepted prometheus.Counter
	emailFailures       *prometheus.CounterVec
}

// New creates a registry with the runtime collectors and all service metrics
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route template, and status code.",
		}, []string{"method", "route", "status"}),
		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route template.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		storiesCreated: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stories_created_total",
			Help:      "Stories created.",
		}),
		wordsAdded: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "words_added_total",
			Help:      "Words appended to stories, including initial words.",
		}),
		storiesEnded: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stories_ended_total",
			Help:      "Stories ended by a participant.",
		}),
		invitationsCreated: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invitations_created_total",
			Help:      "Invitation records created.",
		}),
		invitationsAccepted: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invitations_accepted_total",
			Help:      "Invitations redeemed.",
		}),
		emailFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "email_failures_total",
			Help:      "Email deliveries that failed, by template.",
		}, []string{"template"}),
	}
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

// Middleware records request counts and latency labelled by mux route template.
// It must be installed with Router.Use so the matched route is known.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := middleware.NewResponseWriter(w)

		next.ServeHTTP(wrapped, r)

		route := "unmatched"
		if cr := mux.CurrentRoute(r); cr != nil {
			if tpl, err := cr.GetPathTemplate(); err == nil {
				route = tpl
			}
		}

		m.httpRequests.WithLabelValues(r.Method, route, strconv.Itoa(wrapped.Status())).Inc()
		m.httpDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// StoryCreated counts a new story
func (m *Metrics) StoryCreated() {
	if m != nil {
		m.storiesCreated.Inc()
	}
}

// WordAdded counts an appended word
func (m *Metrics) WordAdded() {
	if m != nil {
		m.wordsAdded.Inc()
	}
}

// StoryEnded counts a story reaching the ended state
func (m *Metrics) StoryEnded() {
	if m != nil {
		m.storiesEnded.Inc()
	}
}

// InvitationsCreated counts n new invitation records
func (m *Metrics) InvitationsCreated(n int) {
	if m != nil && n > 0 {
		m.invitationsCreated.Add(float64(n))
	}
}

// InvitationAccepted counts a redeemed invitation
func (m *Metrics) InvitationAccepted() {
	if m != nil {
		m.invitationsAccepted.Inc()
	}
}

// EmailFailed counts a failed delivery of the named template
func (m *Metrics) EmailFailed(template string) {
	if m != nil {
		m.emailFailures.WithLabelValues(template).Inc()
	}
}
