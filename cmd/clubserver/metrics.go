package main

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type metrics struct {
	registry      *prometheus.Registry
	requests      *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	subscriptions *prometheus.CounterVec
	contacts      *prometheus.CounterVec
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clubcms",
			Name:      "http_requests_total",
			Help:      "HTTP requests by status code and method",
		}, []string{"code", "method"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "clubcms",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		subscriptions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clubcms",
			Name:      "newsletter_subscriptions_total",
			Help:      "Newsletter subscription attempts by result",
		}, []string{"result"}),
		contacts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clubcms",
			Name:      "contact_messages_total",
			Help:      "Contact form submissions by result",
		}, []string{"result"}),
	}

	bootTime := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "clubcms",
		Name:      "boot_time",
		Help:      "Server startup time",
	})
	bootTime.Set(float64(time.Now().UnixMilli()))

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		bootTime,
		m.requests,
		m.duration,
		m.subscriptions,
		m.contacts,
	)
	return m
}

func (m *metrics) instrument(h http.Handler) http.Handler {
	return promhttp.InstrumentHandlerDuration(m.duration, promhttp.InstrumentHandlerCounter(m.requests, h))
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
