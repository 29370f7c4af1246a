package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics mengumpulkan metrik Prometheus untuk dashboard.
type Metrics struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	reloadsTotal    *prometheus.CounterVec
	reloadDuration  *prometheus.HistogramVec
	backendTotal    *prometheus.CounterVec
	backendDuration *prometheus.HistogramVec
	jobsTotal       *prometheus.CounterVec
}

// NewMetrics menginisialisasi registry dan metrik dasar.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "halocare_http_requests_total",
		Help: "Jumlah permintaan HTTP berdasarkan route dan status.",
	}, []string{"route", "code"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "halocare_http_request_duration_seconds",
		Help:    "Durasi permintaan HTTP per route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})
	reloads := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "halocare_list_reloads_total",
		Help: "Jumlah reload koleksi per halaman dan hasil.",
	}, []string{"page", "result"})
	reloadDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "halocare_list_reload_duration_seconds",
		Help:    "Durasi reload koleksi per halaman.",
		Buckets: prometheus.DefBuckets,
	}, []string{"page"})
	backend := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "halocare_backend_requests_total",
		Help: "Jumlah panggilan ke API backend per resource, method dan status.",
	}, []string{"resource", "method", "code"})
	backendDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "halocare_backend_request_duration_seconds",
		Help:    "Durasi panggilan ke API backend per resource.",
		Buckets: prometheus.DefBuckets,
	}, []string{"resource", "method"})
	jobs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "halocare_jobs_total",
		Help: "Jumlah eksekusi job latar belakang per tipe dan hasil.",
	}, []string{"task", "result"})
	registry.MustRegister(requests, duration, reloads, reloadDuration, backend, backendDuration, jobs)
	return &Metrics{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestsTotal:   requests,
		requestDuration: duration,
		reloadsTotal:    reloads,
		reloadDuration:  reloadDuration,
		backendTotal:    backend,
		backendDuration: backendDuration,
		jobsTotal:       jobs,
	}
}

// Handler mengembalikan http.Handler untuk endpoint /metrics.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Middleware mencatat metrik untuk setiap permintaan HTTP.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(&recorder, r)
		route := routePattern(r)
		m.requestsTotal.WithLabelValues(route, strconv.Itoa(recorder.status)).Inc()
		m.requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

// ObserveReload mencatat hasil reload koleksi sebuah halaman daftar.
func (m *Metrics) ObserveReload(page, result string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.reloadsTotal.WithLabelValues(page, result).Inc()
	m.reloadDuration.WithLabelValues(page).Observe(elapsed.Seconds())
}

// ObserveBackend mencatat panggilan ke API backend. Status 0 berarti gagal transport.
func (m *Metrics) ObserveBackend(resource, method string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	code := "transport_error"
	if status > 0 {
		code = strconv.Itoa(status)
	}
	m.backendTotal.WithLabelValues(resource, method, code).Inc()
	m.backendDuration.WithLabelValues(resource, method).Observe(elapsed.Seconds())
}

// ObserveJob mencatat eksekusi job asynq.
func (m *Metrics) ObserveJob(task string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.jobsTotal.WithLabelValues(task, result).Inc()
}

// Registerer mengekspos registry untuk pendaftaran metrik khusus.
func (m *Metrics) Registerer() prometheus.Registerer {
	if m == nil {
		return prometheus.DefaultRegisterer
	}
	return m.registry
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func routePattern(r *http.Request) string {
	if routeCtx := chi.RouteContext(r.Context()); routeCtx != nil {
		if pattern := routeCtx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unknown"
}
