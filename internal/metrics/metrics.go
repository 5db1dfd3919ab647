package metrics

import (
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	Reactions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tutorly_reactions_total",
		Help: "Reaction activations by entity, action and outcome",
	}, []string{"entity", "action", "outcome"})
	CommentSubmissions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tutorly_comment_submissions_total",
		Help: "Comment submissions by outcome",
	}, []string{"outcome"})
	GatewayDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tutorly_gateway_request_duration_seconds",
		Help:    "Site request duration seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint"})
	CommandRuns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tutorly_command_runs_total",
		Help: "CLI command runs",
	}, []string{"cmd"})
	CommandErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tutorly_command_errors_total",
		Help: "CLI command errors",
	}, []string{"cmd"})
)

func init() {
	prometheus.MustRegister(Reactions, CommentSubmissions, GatewayDuration, CommandRuns, CommandErrors)
}

// StartServer starts a metrics HTTP server on addr (e.g., ":9090").
func StartServer(addr string) {
	if addr == "" {
		addr = os.Getenv("TUTORLY_METRICS_ADDR")
	}
	if addr == "" {
		return
	}
	go func() { _ = http.ListenAndServe(addr, handler()) }()
}

func handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	return mux
}

// ObserveGateway records how long one site request took.
func ObserveGateway(endpoint string, start time.Time) {
	GatewayDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
}

func IncReaction(entity, action, outcome string) {
	Reactions.WithLabelValues(entity, action, outcome).Inc()
}

func IncComment(outcome string) { CommentSubmissions.WithLabelValues(outcome).Inc() }

func IncCommandRun(cmd string) { CommandRuns.WithLabelValues(cmd).Inc() }

func IncCommandError(cmd string) { CommandErrors.WithLabelValues(cmd).Inc() }
