// Package metrics регистрирует Prometheus-метрики сервиса.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	FeedFetches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "watch_feed_fetches_total",
		Help: "Feed fetch attempts by source and result",
	}, []string{"source", "result"})

	FeedItems = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "watch_feed_items",
		Help: "Items returned by the last fetch of each source",
	}, []string{"source"})

	AggregationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "watch_aggregation_duration_seconds",
		Help:    "Duration of a full aggregation run over all sources",
		Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
	})

	CacheRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "watch_news_cache_requests_total",
		Help: "News cache lookups by result (hit, miss, stale)",
	}, []string{"result"})

	Notifications = promauto.NewCounter(prometheus.CounterOpts{
		Name: "watch_notifications_total",
		Help: "Newest-headline notifications triggered",
	})

	PushDeliveries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "watch_push_deliveries_total",
		Help: "Push deliveries by result (sent, rejected)",
	}, []string{"result"})

	Subscriptions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "watch_push_subscriptions",
		Help: "Currently registered push subscriptions",
	})
)
