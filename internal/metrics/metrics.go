// Package metrics exposes Prometheus counters for HTTP traffic and domain
// events.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Collector struct {
	requests     *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	authEvents   *prometheus.CounterVec
	ordersPlaced prometheus.Counter
	orderAmount  prometheus.Histogram
}

// NewCollector creates the collector and registers it with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "foodapi_http_requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "foodapi_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		authEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "foodapi_auth_events_total",
			Help: "Authentication events by kind.",
		}, []string{"event"}),
		ordersPlaced: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "foodapi_orders_placed_total",
			Help: "Orders placed.",
		}),
		orderAmount: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "foodapi_order_amount",
			Help:    "Order totals.",
			Buckets: []float64{5, 10, 20, 50, 100, 200, 500},
		}),
	}

	reg.MustRegister(
		c.requests,
		c.duration,
		c.authEvents,
		c.ordersPlaced,
		c.orderAmount,
	)

	return c
}

func (c *Collector) AuthEvent(event string) {
	c.authEvents.WithLabelValues(event).Inc()
}

func (c *Collector) OrderPlaced(amount float64) {
	c.ordersPlaced.Inc()
	c.orderAmount.Observe(amount)
}

func (c *Collector) RecordRequest(method, route string, status int, elapsed time.Duration) {
	c.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.duration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Middleware records every request under its route pattern. Unmatched
// paths share one label so scanners cannot blow up cardinality.
func (c *Collector) Middleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()

		route := ctx.FullPath()
		if route == "" {
			route = "unmatched"
		}
		c.RecordRequest(ctx.Request.Method, route, ctx.Writer.Status(), time.Since(start))
	}
}

// Handler serves the scrape endpoint for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
