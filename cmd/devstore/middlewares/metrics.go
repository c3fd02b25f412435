package middlewares

import (
	"strconv"
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "devstore"

var requestLabels = []string{"method", "path", "status"}

// routeLabel is the matched route template, so /inbox/notes/42 and
// /inbox/notes/43 share a series. Unmatched requests keep their raw path.
func routeLabel(c *fiber.Ctx) string {
	if r := c.Route(); r != nil {
		return r.Path
	}
	return c.Path()
}

// statusClass folds 2xx, 4xx and 5xx codes into their class; other codes
// are reported as is.
func statusClass(code int) string {
	switch code / 100 {
	case 2, 4, 5:
		return strconv.Itoa(code/100) + "xx"
	}
	return strconv.Itoa(code)
}

type requestMetrics struct {
	duration *prometheus.HistogramVec
	total    *prometheus.CounterVec
}

func newRequestMetrics(reg prometheus.Registerer) *requestMetrics {
	m := &requestMetrics{
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Latency of note store requests",
			Buckets:   prometheus.DefBuckets,
		}, requestLabels),
		total: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Note store requests served",
		}, requestLabels),
	}
	reg.MustRegister(m.duration, m.total)
	return m
}

func (m *requestMetrics) handler(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()

	labels := prometheus.Labels{
		"method": c.Method(),
		"path":   routeLabel(c),
		"status": statusClass(c.Response().StatusCode()),
	}
	m.duration.With(labels).Observe(time.Since(start).Seconds())
	m.total.With(labels).Inc()
	return err
}

// AttachMetrics times every request on a private registry and serves it on
// /metrics together with any extra collectors.
func AttachMetrics(app *fiber.App, extra ...prometheus.Collector) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(extra...)

	app.Use(newRequestMetrics(reg).handler)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
}

// StreamCollectors reports the watchers connected to the change stream and
// the events they missed because their outbox was full.
func StreamCollectors(stats func() (int, uint64)) []prometheus.Collector {
	watchers := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "stream_subscribers",
		Help:      "Watchers connected to the change stream",
	}, func() float64 {
		n, _ := stats()
		return float64(n)
	})
	dropped := prometheus.NewCounterFunc(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stream_dropped_events_total",
		Help:      "Change events dropped on a full watcher outbox",
	}, func() float64 {
		_, n := stats()
		return float64(n)
	})
	return []prometheus.Collector{watchers, dropped}
}
