// Package metrics 提供基于Prometheus的指标收集
//
// 指标分组：
//   - HTTP：请求总数、耗时分布、处理中的请求数
//   - 借阅：借书/还书的结果（按失败原因区分）与事务耗时
//   - 缓存：图书详情缓存命中率
//   - 熔断器：客户端熔断器状态与请求结果
//   - 消息队列：借阅事件的发布与消费
//
// 命名规范：Counter以_total结尾，Histogram以单位结尾（_seconds），
// 标签只用有限取值（method、status、reason），不要用user_id、book_id做标签。
//
// 使用示例：
//
//	metrics.InitMetrics()
//	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
//
//	start := time.Now()
//	err := borrow(ctx)
//	metrics.ObserveLoanOperation("borrow", err, time.Since(start))
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	apperrors "github.com/xiebiao/library/pkg/errors"
)

var (
	initOnce sync.Once

	// HTTPRequestsTotal HTTP请求总数
	// 标签：method、path（路由模板，不是原始URL）、status
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration HTTP请求耗时
	HTTPRequestDuration *prometheus.HistogramVec

	// HTTPRequestsInProgress 正在处理的HTTP请求数
	HTTPRequestsInProgress prometheus.Gauge

	// LoanOperationsTotal 借还书操作总数
	// 标签：operation（borrow/return）、result（success或失败原因）
	LoanOperationsTotal *prometheus.CounterVec

	// LoanOperationDuration 借还书事务耗时（含行锁等待）
	LoanOperationDuration *prometheus.HistogramVec

	// CacheRequestsTotal 缓存访问总数
	// 标签：cache（book）、result（hit/miss/error）
	CacheRequestsTotal *prometheus.CounterVec

	// CircuitBreakerState 熔断器状态（0=CLOSED, 1=OPEN, 2=HALF_OPEN）
	CircuitBreakerState *prometheus.GaugeVec

	// CircuitBreakerRequests 熔断器请求总数
	// 标签：name、result（success/failure/rejected）
	CircuitBreakerRequests *prometheus.CounterVec

	// MessagesPublishedTotal 消息发布总数
	// 标签：routing_key、result（success/failure）
	MessagesPublishedTotal *prometheus.CounterVec

	// MessagesConsumedTotal 消息消费总数
	// 标签：queue、result（success/requeue/discard）
	MessagesConsumedTotal *prometheus.CounterVec

	// MessageProcessingDuration 消息处理耗时
	MessageProcessingDuration prometheus.Histogram
)

// InitMetrics 注册所有指标到默认Registry
// 可以重复调用，只有第一次生效
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

		LoanOperationsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "library_loan_operations_total",
				Help: "借还书操作总数",
			},
			[]string{"operation", "result"},
		)

		// 借还书事务持有行锁，桶从1ms开始
		LoanOperationDuration = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "library_loan_operation_duration_seconds",
				Help:    "借还书事务耗时（秒）",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
			},
			[]string{"operation"},
		)

		CacheRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "library_cache_requests_total",
				Help: "缓存访问总数",
			},
			[]string{"cache", "result"},
		)

		CircuitBreakerState = promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "circuit_breaker_state",
				Help: "熔断器状态（0=CLOSED, 1=OPEN, 2=HALF_OPEN）",
			},
			[]string{"name"},
		)

		CircuitBreakerRequests = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "circuit_breaker_requests_total",
				Help: "熔断器请求总数",
			},
			[]string{"name", "result"},
		)

		MessagesPublishedTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "messages_published_total",
				Help: "消息发布总数",
			},
			[]string{"routing_key", "result"},
		)

		MessagesConsumedTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "messages_consumed_total",
				Help: "消息消费总数",
			},
			[]string{"queue", "result"},
		)

		MessageProcessingDuration = promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "message_processing_duration_seconds",
				Help:    "消息处理耗时（秒）",
				Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5},
			},
		)
	})
}

// ObserveLoanOperation 记录一次借书/还书的结果与耗时
// 成功记为success，失败按失败原因记录（OUT_OF_STOCK、LOAN_LIMIT_REACHED等）
func ObserveLoanOperation(operation string, err error, elapsed time.Duration) {
	InitMetrics()

	result := "success"
	if err != nil {
		result = string(apperrors.ReasonOf(err))
	}
	LoanOperationsTotal.WithLabelValues(operation, result).Inc()
	LoanOperationDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// ObserveCache 记录缓存命中情况
func ObserveCache(cache, result string) {
	InitMetrics()
	CacheRequestsTotal.WithLabelValues(cache, result).Inc()
}

// ObserveHTTPRequest 记录一次HTTP请求
func ObserveHTTPRequest(method, path, status string, elapsed time.Duration) {
	InitMetrics()
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

// SetCircuitBreakerState 更新熔断器状态
func SetCircuitBreakerState(name string, state int) {
	InitMetrics()
	CircuitBreakerState.WithLabelValues(name).Set(float64(state))
}

// IncCircuitBreakerRequest 记录熔断器请求结果
func IncCircuitBreakerRequest(name, result string) {
	InitMetrics()
	CircuitBreakerRequests.WithLabelValues(name, result).Inc()
}

// IncMessagePublished 记录消息发布结果
func IncMessagePublished(routingKey string, err error) {
	InitMetrics()
	result := "success"
	if err != nil {
		result = "failure"
	}
	MessagesPublishedTotal.WithLabelValues(routingKey, result).Inc()
}

// ObserveMessageConsumed 记录一次消息消费
func ObserveMessageConsumed(queue, result string, elapsed time.Duration) {
	InitMetrics()
	MessagesConsumedTotal.WithLabelValues(queue, result).Inc()
	MessageProcessingDuration.Observe(elapsed.Seconds())
}
