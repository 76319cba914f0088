// Package metrics 提供Prometheus监控指标
package metrics

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry 服务专用注册表，与默认注册表隔离
	Registry = prometheus.NewRegistry()

	// HTTPRequests HTTP请求计数
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "luxian_http_requests_total", Help: "HTTP请求总数"},
		[]string{"method", "path", "status"},
	)
	// HTTPDuration HTTP请求延迟
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "luxian_http_request_duration_seconds",
			Help:    "HTTP请求延迟",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// SolveTotal 求解请求计数
	SolveTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "luxian_solve_total", Help: "路线求解次数"},
		[]string{"strategy", "status"},
	)
	// SolveDuration 求解耗时
	SolveDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "luxian_solve_duration_seconds",
			Help:    "路线求解耗时",
			Buckets: []float64{0.1, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0, 60.0},
		},
		[]string{"strategy"},
	)
	// SolveStops 单次求解的站点规模
	SolveStops = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "luxian_solve_stops",
			Help:    "单次求解的站点数",
			Buckets: []float64{5, 10, 25, 50, 100, 250, 500},
		},
		[]string{"strategy"},
	)
	// DroppedStops 被放弃的站点计数
	DroppedStops = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "luxian_dropped_stops_total", Help: "被放弃的站点总数"},
	)
	// ActiveSolves 进行中的求解数
	ActiveSolves = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "luxian_active_solves", Help: "当前进行中的求解数"},
	)
	// SolutionDistance 最近一次成功求解的总距离（米）
	SolutionDistance = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "luxian_solution_distance_meters", Help: "最近一次成功求解的总距离"},
	)
)

var regOnce sync.Once

// Register 向专用注册表注册全部指标
// 进程/运行时指标一并注册，可重复调用
func Register() {
	regOnce.Do(func() {
		Registry.MustRegister(HTTPRequests)
		Registry.MustRegister(HTTPDuration)
		Registry.MustRegister(SolveTotal)
		Registry.MustRegister(SolveDuration)
		Registry.MustRegister(SolveStops)
		Registry.MustRegister(DroppedStops)
		Registry.MustRegister(ActiveSolves)
		Registry.MustRegister(SolutionDistance)
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}

// Handler 返回指标HTTP处理器
func Handler() http.Handler {
	Register()
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// RecordRequest 记录HTTP请求指标
func RecordRequest(method, path string, status int, duration time.Duration) {
	HTTPRequests.WithLabelValues(method, path, fmt.Sprintf("%d", status)).Inc()
	HTTPDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordSolve 记录一次路线求解
func RecordSolve(strategy string, success bool, stops, dropped int, duration time.Duration) {
	status := "success"
	if !success {
		status = "failure"
	}
	SolveTotal.WithLabelValues(strategy, status).Inc()
	SolveDuration.WithLabelValues(strategy).Observe(duration.Seconds())
	SolveStops.WithLabelValues(strategy).Observe(float64(stops))
	if dropped > 0 {
		DroppedStops.Add(float64(dropped))
	}
}
