package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "sos_shield"

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by route, method and status code",
	}, []string{"route", "method", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method"})

	dispatchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "dispatch_total",
		Help:      "SOS dispatch attempts by result",
	}, []string{"result"})

	pushTicketsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "push_tickets_total",
		Help:      "Expo push tickets by status",
	}, []string{"status"})

	inboxWritesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "inbox_writes_total",
		Help:      "Per-recipient inbox writes by result",
	}, []string{"result"})

	deliveryTasksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "delivery_tasks_total",
		Help:      "Delivery queue tasks processed by kind and result",
	}, []string{"kind", "result"})

	statusUpdatesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "status_updates_total",
		Help:      "SOS event status transitions by target status",
	}, []string{"status"})

	deliveryQueueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "delivery_queue_depth",
		Help:      "Tasks waiting in the delivery queue",
	})
)

// Результаты рассылки
const (
	DispatchSent         = "sent"
	DispatchNoRecipients = "no_recipients"
	DispatchPushFailed   = "push_failed"
	DispatchError        = "error"
)

func ObserveDispatch(result string) { dispatchTotal.WithLabelValues(result).Inc() }

func ObservePushTicket(ok bool) {
	if ok {
		pushTicketsTotal.WithLabelValues("ok").Inc()
		return
	}
	pushTicketsTotal.WithLabelValues("error").Inc()
}

func ObserveInboxWrite(result string) { inboxWritesTotal.WithLabelValues(result).Inc() }

func ObserveDeliveryTask(kind, result string) {
	deliveryTasksTotal.WithLabelValues(kind, result).Inc()
}

func ObserveStatusUpdate(status string) { statusUpdatesTotal.WithLabelValues(status).Inc() }

func SetDeliveryQueueDepth(n int64) { deliveryQueueDepth.Set(float64(n)) }

// Middleware собирает метрики HTTP запросов
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpRequestsTotal.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		httpRequestDuration.WithLabelValues(route, c.Request.Method).Observe(time.Since(start).Seconds())
	}
}
