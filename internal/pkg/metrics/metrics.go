package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics はアプリケーションのメトリクスを管理する
type Metrics struct {
	// HTTPリクエストの総数（method, path, status_code）
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPリクエストのレイテンシ（method, path）
	HTTPRequestDuration *prometheus.HistogramVec

	// 参加登録の試行数（status: success, already_registered, capacity_exceeded, not_found, lock_failed, error）
	RSVPRegistrationsTotal *prometheus.CounterVec

	// リアクション操作数（target: event/comment, outcome: liked/unliked/disliked/undisliked）
	ReactionsTotal *prometheus.CounterVec

	// 閲覧トラッキング数（result: counted, duplicate）
	EventViewsTotal *prometheus.CounterVec

	// 認可ゲートでの拒否数（reason: missing_token, invalid_token, expired_token, internal, inactive, admin_required）
	AuthRejectionsTotal *prometheus.CounterVec

	// 分散ロックの操作時間（operation: acquire/release, status: success/failed）
	DistributedLockDuration *prometheus.HistogramVec
}

// New はデフォルトレジストリに登録する。プロセスで1回だけ呼ぶ
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry は指定したレジストリにメトリクスを登録する
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		RSVPRegistrationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rsvp_registrations_total",
				Help: "Total number of RSVP registration attempts",
			},
			[]string{"status"},
		),
		ReactionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reactions_total",
				Help: "Total number of like/dislike toggles",
			},
			[]string{"target", "outcome"},
		),
		EventViewsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "event_views_total",
				Help: "Total number of view tracking calls",
			},
			[]string{"result"},
		),
		AuthRejectionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "auth_rejections_total",
				Help: "Total number of requests rejected by the authorization gate",
			},
			[]string{"reason"},
		),
		DistributedLockDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "distributed_lock_duration_seconds",
				Help:    "Time spent on distributed lock operations",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"operation", "status"},
		),
	}

	// レジストリに登録
	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.RSVPRegistrationsTotal,
		m.ReactionsTotal,
		m.EventViewsTotal,
		m.AuthRejectionsTotal,
		m.DistributedLockDuration,
	)

	return m
}

// RecordRSVP は参加登録の結果を記録する（nil 安全）
func (m *Metrics) RecordRSVP(status string) {
	if m == nil {
		return
	}
	m.RSVPRegistrationsTotal.WithLabelValues(status).Inc()
}

// RecordReaction はリアクション操作を記録する（nil 安全）
func (m *Metrics) RecordReaction(target, outcome string) {
	if m == nil {
		return
	}
	m.ReactionsTotal.WithLabelValues(target, outcome).Inc()
}

// RecordView は閲覧トラッキングを記録する（nil 安全）
func (m *Metrics) RecordView(counted bool) {
	if m == nil {
		return
	}
	result := "duplicate"
	if counted {
		result = "counted"
	}
	m.EventViewsTotal.WithLabelValues(result).Inc()
}

// RecordAuthRejection は認可ゲートでの拒否を記録する（nil 安全）
func (m *Metrics) RecordAuthRejection(reason string) {
	if m == nil {
		return
	}
	m.AuthRejectionsTotal.WithLabelValues(reason).Inc()
}

// ObserveLock はロック操作の所要時間を記録する（nil 安全）
func (m *Metrics) ObserveLock(operation, status string, seconds float64) {
	if m == nil {
		return
	}
	m.DistributedLockDuration.WithLabelValues(operation, status).Observe(seconds)
}
