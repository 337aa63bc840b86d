package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "hackathon_http_requests_total", Help: "Total HTTP requests by route and status"},
		[]string{"method", "route", "status"},
	)
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "hackathon_http_request_duration_seconds", Help: "HTTP request latency", Buckets: prometheus.DefBuckets},
		[]string{"method", "route"},
	)
	VotesCast = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "hackathon_votes_cast_total", Help: "Total category votes stored, by category"},
		[]string{"category"},
	)
	RatingsSubmitted = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "hackathon_ratings_submitted_total", Help: "Total ratings stored"},
	)
	LikeChanges = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "hackathon_like_changes_total", Help: "Total likes and unlikes"},
		[]string{"action"},
	)
	WinnerSweeps = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "hackathon_winner_sweeps_total", Help: "Total winner computations by outcome"},
		[]string{"outcome"},
	)
	ScoreSweeps = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "hackathon_score_sweeps_total", Help: "Total average score recomputations by outcome"},
		[]string{"outcome"},
	)
)

var registerOnce sync.Once

// Register adds every collector to the default registry. Safe to call more than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(HTTPRequests, HTTPDuration, VotesCast, RatingsSubmitted, LikeChanges, WinnerSweeps, ScoreSweeps)
	})
}

// Handler serves the default registry
func Handler() http.Handler {
	return promhttp.Handler()
}

// Outcome labels a sweep counter
func Outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
