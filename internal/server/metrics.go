package server

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// dialogueStarted counts conversations started, per dialogue.
	dialogueStarted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hearthvale_dialogue_started_total",
			Help: "Conversations started",
		},
		[]string{"dialogue_id"},
	)

	// dialogueEnded counts conversations ended, split by natural completion
	// versus abrupt termination.
	dialogueEnded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hearthvale_dialogue_ended_total",
			Help: "Conversations ended",
		},
		[]string{"dialogue_id", "natural"},
	)

	// choicesSelected counts player choice selections.
	choicesSelected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hearthvale_dialogue_choices_total",
			Help: "Dialogue choices selected",
		},
		[]string{"dialogue_id"},
	)

	// activeSessions tracks connected websocket sessions.
	activeSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "hearthvale_sessions_active",
			Help: "Connected dialogue sessions",
		},
	)
)

func init() {
	prometheus.MustRegister(dialogueStarted)
	prometheus.MustRegister(dialogueEnded)
	prometheus.MustRegister(choicesSelected)
	prometheus.MustRegister(activeSessions)
}
