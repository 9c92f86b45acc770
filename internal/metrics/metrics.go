// Package metrics exposes Prometheus instruments for the HTTP surface, the
// transition engine and the notification pipeline.
package metrics

import (
	"errors"
	"strconv"
	"time"

	"storefront/internal/core/application/notifications"
	"storefront/internal/core/domain/model/notification"
	"storefront/internal/core/domain/model/order"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
)

// Collector owns every instrument of the service. It implements
// notifications.Metrics and the transition engine's metrics hook.
type Collector struct {
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	OrdersCreatedTotal   prometheus.Counter
	TransitionsTotal     *prometheus.CounterVec
	TransitionRejections *prometheus.CounterVec
	EventsPublishedTotal *prometheus.CounterVec
	ReplayGapsTotal      prometheus.Counter
	DeliveriesTotal      *prometheus.CounterVec
	ActiveSessions       *prometheus.GaugeVec
	SessionsClosedTotal  *prometheus.CounterVec
}

// New creates the instruments and registers them with reg.
func New(reg prometheus.Registerer) *Collector {
	c := &Collector{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		OrdersCreatedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "orders_created_total",
				Help: "Total number of orders placed",
			},
		),
		TransitionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "order_transitions_total",
				Help: "Total number of committed order status transitions",
			},
			[]string{"from", "to"},
		),
		TransitionRejections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "order_transition_rejections_total",
				Help: "Total number of rejected order status transitions",
			},
			[]string{"reason"},
		),
		EventsPublishedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "order_events_published_total",
				Help: "Total number of order events published",
			},
			[]string{"kind"},
		),
		ReplayGapsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "notification_replay_gaps_total",
				Help: "Total number of catch-up requests that fell outside retention",
			},
		),
		DeliveriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "notification_deliveries_total",
				Help: "Total number of push delivery attempts",
			},
			[]string{"result"},
		),
		ActiveSessions: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "notification_sessions_active",
				Help: "Number of registered notification sessions",
			},
			[]string{"transport"},
		),
		SessionsClosedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "notification_sessions_closed_total",
				Help: "Total number of notification sessions removed",
			},
			[]string{"transport", "reason"},
		),
	}

	reg.MustRegister(
		c.HTTPRequestsTotal,
		c.HTTPRequestDuration,
		c.OrdersCreatedTotal,
		c.TransitionsTotal,
		c.TransitionRejections,
		c.EventsPublishedTotal,
		c.ReplayGapsTotal,
		c.DeliveriesTotal,
		c.ActiveSessions,
		c.SessionsClosedTotal,
	)
	return c
}

func (c *Collector) OrderCreated() {
	c.OrdersCreatedTotal.Inc()
}

func (c *Collector) TransitionCommitted(from, to order.Status) {
	c.TransitionsTotal.WithLabelValues(from.String(), to.String()).Inc()
}

func (c *Collector) TransitionRejected(reason string) {
	c.TransitionRejections.WithLabelValues(reason).Inc()
}

func (c *Collector) EventPublished(kind notification.Kind) {
	c.EventsPublishedTotal.WithLabelValues(string(kind)).Inc()
}

func (c *Collector) ReplayGap() {
	c.ReplayGapsTotal.Inc()
}

func (c *Collector) DeliverySucceeded() {
	c.DeliveriesTotal.WithLabelValues("success").Inc()
}

func (c *Collector) DeliveryFailed() {
	c.DeliveriesTotal.WithLabelValues("failure").Inc()
}

func (c *Collector) SessionOpened(transport notifications.TransportKind) {
	c.ActiveSessions.WithLabelValues(string(transport)).Inc()
}

func (c *Collector) SessionClosed(transport notifications.TransportKind, reason string) {
	c.ActiveSessions.WithLabelValues(string(transport)).Dec()
	c.SessionsClosedTotal.WithLabelValues(string(transport), reason).Inc()
}

// Middleware records request counts and latency per route template.
func (c *Collector) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			start := time.Now()
			err := next(ctx)

			status := ctx.Response().Status
			if err != nil {
				var he *echo.HTTPError
				if errors.As(err, &he) {
					status = he.Code
				}
			}

			route := ctx.Path()
			if route == "" {
				route = "unmatched"
			}
			method := ctx.Request().Method
			c.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
			c.HTTPRequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
			return err
		}
	}
}
