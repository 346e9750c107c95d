// Package metrics 提供 Prometheus 监控指标
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics 服务监控指标集合
type Metrics struct {
	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
	optimizations *prometheus.CounterVec
	solveDuration *prometheus.HistogramVec
	coverage      prometheus.Gauge
	fairness      prometheus.Gauge
	activeTasks   prometheus.Gauge
}

// New 在给定注册表上注册服务指标
//
// reg 为 nil 时使用默认注册表；重复注册时复用已有收集器。
func New(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lunban_http_requests_total",
			Help: "HTTP 请求总数",
		}, []string{"method", "path", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "lunban_http_request_duration_seconds",
			Help:    "HTTP 请求延迟",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		optimizations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lunban_optimizations_total",
			Help: "排班优化次数",
		}, []string{"solver", "status"}),
		solveDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "lunban_solve_duration_seconds",
			Help:    "排班求解耗时",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 180},
		}, []string{"solver"}),
		coverage: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "lunban_coverage_rate",
			Help: "最近一次排班的班次覆盖率",
		}),
		fairness: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "lunban_fairness_score",
			Help: "最近一次排班的公平性评分",
		}),
		activeTasks: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "lunban_active_batch_tasks",
			Help: "在途批量优化任务数",
		}),
	}

	collectors := []prometheus.Collector{
		m.httpRequests, m.httpDuration, m.optimizations,
		m.solveDuration, m.coverage, m.fairness, m.activeTasks,
	}
	for i, c := range collectors {
		if err := reg.Register(c); err != nil {
			are, ok := err.(prometheus.AlreadyRegisteredError)
			if !ok {
				return nil, err
			}
			collectors[i] = are.ExistingCollector
		}
	}
	m.httpRequests = collectors[0].(*prometheus.CounterVec)
	m.httpDuration = collectors[1].(*prometheus.HistogramVec)
	m.optimizations = collectors[2].(*prometheus.CounterVec)
	m.solveDuration = collectors[3].(*prometheus.HistogramVec)
	m.coverage = collectors[4].(prometheus.Gauge)
	m.fairness = collectors[5].(prometheus.Gauge)
	m.activeTasks = collectors[6].(prometheus.Gauge)

	return m, nil
}

// RecordHTTPRequest 记录一次 HTTP 请求
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	m.httpRequests.WithLabelValues(method, path, status).Inc()
	m.httpDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordOptimization 记录一次排班优化
func (m *Metrics) RecordOptimization(solver, status string, duration time.Duration, coverage, fairness float64) {
	m.optimizations.WithLabelValues(solver, status).Inc()
	m.solveDuration.WithLabelValues(solver).Observe(duration.Seconds())
	m.coverage.Set(coverage)
	m.fairness.Set(fairness)
}

// BatchTaskStarted 批量任务开始
func (m *Metrics) BatchTaskStarted() {
	m.activeTasks.Inc()
}

// BatchTaskFinished 批量任务结束
func (m *Metrics) BatchTaskFinished() {
	m.activeTasks.Dec()
}
