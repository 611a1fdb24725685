package metrics

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "wr"

var (
	// Registry holds every collector exported by the process.
	Registry = prometheus.NewRegistry()

	pollRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "poller",
			Name:      "runs_total",
			Help:      "Total number of poll attempts by target and result.",
		},
		[]string{"target", "result"},
	)

	pollDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "poller",
			Name:      "run_duration_seconds",
			Help:      "Duration of poll fetches.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		},
		[]string{"target"},
	)

	snapshotAge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "poller",
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last published snapshot.",
		},
		[]string{"target"},
	)

	cacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "account_cache",
			Name:      "lookups_total",
			Help:      "Account cache lookups by outcome (hit, stale, miss).",
		},
		[]string{"outcome"},
	)

	cacheFetches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "account_cache",
			Name:      "fetches_total",
			Help:      "Chain fetches issued by the account cache.",
		},
		[]string{"result", "shared"},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12),
		},
		[]string{"method", "path"},
	)
)

func init() {
	Registry.MustRegister(
		pollRuns,
		pollDuration,
		snapshotAge,
		cacheLookups,
		cacheFetches,
		httpRequests,
		httpDuration,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// RecordPoll records one poll attempt for target.
func RecordPoll(target string, duration time.Duration, err error, at time.Time) {
	result := "success"
	if err != nil {
		result = "error"
	}
	pollRuns.WithLabelValues(target, result).Inc()
	pollDuration.WithLabelValues(target).Observe(duration.Seconds())
	if err == nil {
		snapshotAge.WithLabelValues(target).Set(float64(at.Unix()))
	}
}

func RecordCacheLookup(outcome string) {
	cacheLookups.WithLabelValues(outcome).Inc()
}

func RecordCacheFetch(err error, shared bool) {
	result := "success"
	if err != nil {
		result = "error"
	}
	cacheFetches.WithLabelValues(result, strconv.FormatBool(shared)).Inc()
}

// InstrumentHandler wraps next with request counters and latency
// histograms. Paths are reduced to their first two segments.
func InstrumentHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/metrics" {
			next.ServeHTTP(w, r)
			return
		}

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(rec, r)

		path := canonicalPath(r.URL.Path)
		method := strings.ToUpper(r.Method)
		httpRequests.WithLabelValues(method, path, strconv.Itoa(rec.status)).Inc()
		httpDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// Hijack hands the connection to websocket upgrades.
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer %T does not support hijacking", r.ResponseWriter)
	}
	r.status = http.StatusSwitchingProtocols
	return hijacker.Hijack()
}

func canonicalPath(raw string) string {
	trimmed := strings.Trim(raw, "/")
	if trimmed == "" {
		return "/"
	}

	parts := strings.Split(trimmed, "/")
	if len(parts) > 2 {
		parts = parts[:2]
	}

	return "/" + strings.Join(parts, "/")
}
