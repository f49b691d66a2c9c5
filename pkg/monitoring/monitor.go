package monitoring

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lxp_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// 包含 AI 调用的接口耗时较长，桶上限放宽到 30s
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lxp_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5, 15, 30},
		},
		[]string{"method", "route"},
	)

	// MentorResponses outcome: ok, refusal, invalid, timeout, auth, rate_limit, other, empty_query
	MentorResponses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lxp_mentor_responses_total",
			Help: "AI mentor responses by variant and outcome",
		},
		[]string{"variant", "outcome"},
	)

	LLMRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lxp_llm_request_duration_seconds",
			Help:    "Duration of external LLM calls",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 15},
		},
		[]string{"variant"},
	)

	AssessmentSubmissions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lxp_assessment_submissions_total",
			Help: "Graded assessment submissions",
		},
		[]string{"passed"},
	)

	ProgressTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lxp_progress_transitions_total",
			Help: "Progress status transitions",
		},
		[]string{"from", "to", "trigger"},
	)
)

var registerOnce sync.Once

// Init 注册全部指标，可重复调用
func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			RequestCounter,
			RequestDuration,
			MentorResponses,
			LLMRequestDuration,
			AssessmentSubmissions,
			ProgressTransitions,
		)
	})
}

// route 未匹配路由时 FullPath 为空，统一归到一个标签避免基数膨胀
func route(c *gin.Context) string {
	if p := c.FullPath(); p != "" {
		return p
	}
	return "unmatched"
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		r := route(c)
		RequestCounter.WithLabelValues(c.Request.Method, r, strconv.Itoa(c.Writer.Status())).Inc()
		RequestDuration.WithLabelValues(c.Request.Method, r).Observe(time.Since(start).Seconds())
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
