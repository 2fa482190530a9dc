package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	Transitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nexus_transitions_total",
			Help: "State machine operations by name and whether they were applied",
		},
		[]string{"op", "applied"},
	)
	ChallengeResults = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nexus_challenge_results_total",
			Help: "Finished challenge attempts by category and result",
		},
		[]string{"category", "result"},
	)
	SessionsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "nexus_sessions_active",
			Help: "Sessions currently held in memory",
		},
	)
	WSClients = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "nexus_ws_clients",
			Help: "Connected websocket clients",
		},
	)
)

func init() {
	prometheus.MustRegister(Transitions)
	prometheus.MustRegister(ChallengeResults)
	prometheus.MustRegister(SessionsActive)
	prometheus.MustRegister(WSClients)
}

// Transition counts one state machine operation.
func Transition(op string, applied bool) {
	Transitions.WithLabelValues(op, strconv.FormatBool(applied)).Inc()
}

// Result counts one finished attempt: passed, failed, expired or abandoned.
func Result(category, result string) {
	ChallengeResults.WithLabelValues(category, result).Inc()
}
