package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	apperrors "github.com/xiebiao/library/pkg/errors"
)

// TestInitMetrics 重复初始化不会panic（promauto重复注册会panic）
func TestInitMetrics(t *testing.T) {
	InitMetrics()
	InitMetrics()

	if HTTPRequestsTotal == nil || LoanOperationsTotal == nil || CacheRequestsTotal == nil {
		t.Fatal("指标未初始化")
	}
}

// TestObserveLoanOperation 失败按原因计数
func TestObserveLoanOperation(t *testing.T) {
	InitMetrics()

	success := LoanOperationsTotal.WithLabelValues("borrow", "success")
	outOfStock := LoanOperationsTotal.WithLabelValues("borrow", "OUT_OF_STOCK")
	unknown := LoanOperationsTotal.WithLabelValues("borrow", "UNKNOWN")
	beforeSuccess := testutil.ToFloat64(success)
	beforeOOS := testutil.ToFloat64(outOfStock)
	beforeUnknown := testutil.ToFloat64(unknown)

	ObserveLoanOperation("borrow", nil, 5*time.Millisecond)
	ObserveLoanOperation("borrow", apperrors.New(apperrors.ErrCodeOutOfStock, "无可借副本").
		WithReason(apperrors.ReasonOutOfStock), time.Millisecond)
	ObserveLoanOperation("borrow", errors.New("db down"), time.Millisecond)

	if got := testutil.ToFloat64(success) - beforeSuccess; got != 1 {
		t.Errorf("success计数错误: expected=1, got=%f", got)
	}
	if got := testutil.ToFloat64(outOfStock) - beforeOOS; got != 1 {
		t.Errorf("OUT_OF_STOCK计数错误: expected=1, got=%f", got)
	}
	if got := testutil.ToFloat64(unknown) - beforeUnknown; got != 1 {
		t.Errorf("UNKNOWN计数错误: expected=1, got=%f", got)
	}
}

// TestObserveCache 缓存命中计数
func TestObserveCache(t *testing.T) {
	InitMetrics()
	hit := CacheRequestsTotal.WithLabelValues("book", "hit")
	before := testutil.ToFloat64(hit)

	ObserveCache("book", "hit")
	ObserveCache("book", "hit")

	if got := testutil.ToFloat64(hit) - before; got != 2 {
		t.Errorf("命中计数错误: expected=2, got=%f", got)
	}
}

// TestCircuitBreakerMetrics 熔断器状态Gauge
func TestCircuitBreakerMetrics(t *testing.T) {
	SetCircuitBreakerState("library-api", 1)
	if got := testutil.ToFloat64(CircuitBreakerState.WithLabelValues("library-api")); got != 1 {
		t.Errorf("熔断器状态错误: expected=1, got=%f", got)
	}

	IncCircuitBreakerRequest("library-api", "rejected")
	if got := testutil.ToFloat64(CircuitBreakerRequests.WithLabelValues("library-api", "rejected")); got < 1 {
		t.Errorf("rejected计数错误: got=%f", got)
	}
}
