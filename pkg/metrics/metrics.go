// Package metrics 提供基于Prometheus的指标收集
//
// # 指标类型
//
//   - Counter：只增不减的累计值（请求总数、图书操作总数）
//   - Gauge：可增可减的瞬时值（正在处理的请求数）
//   - Histogram：观测值的分布（请求耗时，可算P50/P90/P99）
//
// # 使用示例
//
//	metrics.InitMetrics()
//	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
//
//	metrics.IncCounterVec(metrics.BookOperationsTotal, map[string]string{
//	    "operation": "create",
//	    "result":    metrics.ResultSuccess,
//	})
//
// # 命名规范
//
//  1. Counter以`_total`结尾
//  2. Histogram以单位结尾（`_seconds`）
//  3. 标签只用有限取值的维度（operation、result、status），不要用图书ID
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 结果标签取值
const (
	ResultSuccess  = "success"
	ResultNotFound = "not_found"
	ResultConflict = "conflict"
	ResultInvalid  = "invalid"
	ResultError    = "error"

	CacheHit    = "hit"
	CacheMiss   = "miss"
	CacheError  = "error"
	CacheBypass = "bypass" // 熔断器打开,未访问Redis
)

var (
	// initOnce 防止重复注册
	initOnce sync.Once

	// HTTP请求相关指标

	// HTTPRequestsTotal HTTP请求总数（Counter）
	// 标签：method（GET/POST）、path（/books/:id）、status（200/404）
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration HTTP请求耗时（Histogram）
	// 桶设置：1ms、10ms、100ms、500ms、1s、5s、10s
	HTTPRequestDuration *prometheus.HistogramVec

	// HTTPRequestsInProgress 正在处理的HTTP请求数（Gauge）
	HTTPRequestsInProgress prometheus.Gauge

	// 业务指标

	// BookOperationsTotal 图书目录操作总数（Counter）
	// 标签：operation（list/get/create/replace/patch/delete）、result
	BookOperationsTotal *prometheus.CounterVec

	// BookOperationDuration 图书目录操作耗时（Histogram）
	BookOperationDuration *prometheus.HistogramVec

	// 缓存指标

	// CacheLookupsTotal 图书详情缓存查询总数（Counter）
	// 标签：result（hit/miss/error）
	CacheLookupsTotal *prometheus.CounterVec

	// CircuitBreakerState 熔断器状态（Gauge）
	// 0=CLOSED 1=OPEN 2=HALF_OPEN，标签：name
	CircuitBreakerState *prometheus.GaugeVec

	// 消息队列指标

	// MessagesPublishedTotal 消息发布总数（Counter）
	// 标签：exchange（交换机）、routing_key（路由键）
	MessagesPublishedTotal *prometheus.CounterVec

	// MessagesConsumedTotal 消息消费总数（Counter）
	// 标签：queue（队列名称）、result（success/failure）
	MessagesConsumedTotal *prometheus.CounterVec
)

// InitMetrics 初始化所有Prometheus指标
//
// 使用promauto注册到默认Registry，可以多次调用，只有第一次生效
func InitMetrics() {
	initOnce.Do(func() {
		HTTPRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "HTTP请求总数",
			},
			[]string{"method", "path", "status"},
		)

		HTTPRequestDuration = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP请求耗时（秒）",
				Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10},
			},
			[]string{"method", "path"},
		)

		HTTPRequestsInProgress = promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_progress",
				Help: "正在处理的HTTP请求数",
			},
		)

		BookOperationsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "book_operations_total",
				Help: "图书目录操作总数",
			},
			[]string{"operation", "result"},
		)

		BookOperationDuration = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "book_operation_duration_seconds",
				Help: "图书目录操作耗时（秒）",
				// 内存存储在微秒级，数据库在毫秒级
				Buckets: []float64{0.0001, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
			},
			[]string{"operation"},
		)

		CacheLookupsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "book_cache_lookups_total",
				Help: "图书详情缓存查询总数",
			},
			[]string{"result"},
		)

		CircuitBreakerState = promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "circuit_breaker_state",
				Help: "熔断器状态（0=CLOSED 1=OPEN 2=HALF_OPEN）",
			},
			[]string{"name"},
		)

		MessagesPublishedTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "messages_published_total",
				Help: "消息发布总数",
			},
			[]string{"exchange", "routing_key"},
		)

		MessagesConsumedTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "messages_consumed_total",
				Help: "消息消费总数",
			},
			[]string{"queue", "result"},
		)
	})
}

// IncCounterVec 递增CounterVec（带标签）
func IncCounterVec(counter *prometheus.CounterVec, labels map[string]string) {
	counter.With(labels).Inc()
}

// IncGauge 递增Gauge
func IncGauge(gauge prometheus.Gauge) {
	gauge.Inc()
}

// DecGauge 递减Gauge
func DecGauge(gauge prometheus.Gauge) {
	gauge.Dec()
}

// ObserveHistogramVec 记录HistogramVec观测值（带标签）
func ObserveHistogramVec(histogram *prometheus.HistogramVec, labels map[string]string, value float64) {
	histogram.With(labels).Observe(value)
}

// ObserveBookOperation 记录一次图书目录操作的结果和耗时
func ObserveBookOperation(operation, result string, seconds float64) {
	InitMetrics()
	BookOperationsTotal.With(prometheus.Labels{"operation": operation, "result": result}).Inc()
	BookOperationDuration.With(prometheus.Labels{"operation": operation}).Observe(seconds)
}

// ObserveCacheLookup 记录一次缓存查询
func ObserveCacheLookup(result string) {
	InitMetrics()
	CacheLookupsTotal.With(prometheus.Labels{"result": result}).Inc()
}

// SetCircuitBreakerState 记录熔断器当前状态
func SetCircuitBreakerState(name string, state int) {
	InitMetrics()
	CircuitBreakerState.With(prometheus.Labels{"name": name}).Set(float64(state))
}

// ObserveMessagePublished 记录一次消息发布
func ObserveMessagePublished(exchange, routingKey string) {
	InitMetrics()
	MessagesPublishedTotal.With(prometheus.Labels{"exchange": exchange, "routing_key": routingKey}).Inc()
}

// ObserveMessageConsumed 记录一次消息消费
func ObserveMessageConsumed(queue, result string) {
	InitMetrics()
	MessagesConsumedTotal.With(prometheus.Labels{"queue": queue, "result": result}).Inc()
}
