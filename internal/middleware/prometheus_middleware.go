package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// unmatchedRoute метка для запросов мимо маршрутов
const unmatchedRoute = "unmatched"

// PrometheusMiddleware HTTP-метрики API с префиксом service:
//   - http_requests_total{method,route,code}
//   - http_request_duration_seconds{route}
//   - http_response_size_bytes{route}
//   - http_requests_inflight
//
// Маршруты из skip (например websocket) не измеряются.
type PrometheusMiddleware struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	size     *prometheus.HistogramVec
	inflight prometheus.Gauge
	skip     map[string]bool
}

// NewPrometheusMiddleware регистрирует метрики в reg (nil - глобальный реестр)
func NewPrometheusMiddleware(service string, reg prometheus.Registerer, skipRoutes ...string) *PrometheusMiddleware {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	pm := &PrometheusMiddleware{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: service,
			Name:      "http_requests_total",
			Help:      "Число HTTP-запросов по маршруту и коду ответа.",
		}, []string{"method", "route", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: service,
			Name:      "http_request_duration_seconds",
			Help:      "Длительность HTTP-запросов.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 1},
		}, []string{"route"}),
		size: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: service,
			Name:      "http_response_size_bytes",
			Help:      "Размер тела ответа.",
			Buckets:   prometheus.ExponentialBuckets(128, 4, 7),
		}, []string{"route"}),
		inflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: service,
			Name:      "http_requests_inflight",
			Help:      "Текущее количество обрабатываемых HTTP-запросов.",
		}),
		skip: make(map[string]bool, len(skipRoutes)),
	}
	for _, r := range skipRoutes {
		pm.skip[r] = true
	}

	reg.MustRegister(pm.requests, pm.duration, pm.size, pm.inflight)
	return pm
}

// Handler подключается через router.Use()
func (pm *PrometheusMiddleware) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if pm.skip[route] {
			c.Next()
			return
		}
		if route == "" {
			route = unmatchedRoute
		}

		start := time.Now()
		pm.inflight.Inc()
		c.Next()
		pm.inflight.Dec()

		code := strconv.Itoa(c.Writer.Status())
		pm.requests.WithLabelValues(c.Request.Method, route, code).Inc()
		pm.duration.WithLabelValues(route).Observe(time.Since(start).Seconds())
		if n := c.Writer.Size(); n > 0 {
			pm.size.WithLabelValues(route).Observe(float64(n))
		}
	}
}

// RegisterMetricsEndpoint добавляет GET /metrics; nil gatherer - глобальный реестр
func RegisterMetricsEndpoint(r *gin.Engine, gatherer prometheus.Gatherer) {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
}
