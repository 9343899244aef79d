package ws

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	wsEventsPublished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stream_events_published_total",
			Help: "Events fanned out to stream subscribers",
		},
		[]string{"event"},
	)
	wsSubscribers = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "stream_subscribers",
			Help: "Currently connected stream subscribers",
		},
	)
	wsDroppedClients = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "stream_subscribers_dropped_total",
			Help: "Subscribers dropped for not keeping up",
		},
	)
)

func init() {
	prometheus.MustRegister(wsEventsPublished)
	prometheus.MustRegister(wsSubscribers)
	prometheus.MustRegister(wsDroppedClients)
}
