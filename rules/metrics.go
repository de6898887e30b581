package rules

import "github.com/prometheus/client_golang/prometheus"

var (
	decisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "autopilot",
			Subsystem: "rules",
			Name:      "decisions_total",
			Help:      "Moves applied, by decision mode and rule.",
		},
		[]string{"mode", "rule"},
	)
	foodEaten = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "autopilot",
			Subsystem: "rules",
			Name:      "food_eaten_total",
			Help:      "Food eaten across all games.",
		},
	)
	episodes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "autopilot",
			Subsystem: "rules",
			Name:      "episodes_total",
			Help:      "Finished episodes, by how they ended.",
		},
		[]string{"cause"},
	)
	episodeScore = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "autopilot",
			Subsystem: "rules",
			Name:      "episode_score",
			Help:      "Score reached by finished episodes.",
			Buckets:   prometheus.LinearBuckets(0, 10, 17),
		},
	)
)

func init() {
	prometheus.MustRegister(decisions, foodEaten, episodes, episodeScore)
}
