// Package metrics expone la instrumentación Prometheus del servicio de matching:
// latencia del ranking, candidatos evaluados y descartados, distribución de puntajes,
// envíos de quiz y efectividad de la caché de perfiles.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RankDuration mide cuánto tarda un ranking completo, incluido el fan-out de perfiles.
	RankDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "friender_rank_duration_seconds",
		Help:    "Time to build a ranked match list",
		Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
	})

	// CandidatesTotal cuenta candidatos por resultado: "ranked" o "dropped".
	CandidatesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "friender_match_candidates_total",
		Help: "Candidates processed while ranking matches",
	}, []string{"result"})

	// CompatibilityScores registra la distribución de puntajes calculados.
	CompatibilityScores = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "friender_compatibility_score",
		Help:    "Distribution of computed compatibility scores",
		Buckets: []float64{35, 40, 50, 60, 70, 80, 90, 98},
	})

	// QuizSubmissionsTotal cuenta envíos de quiz: "accepted", "invalid" o "rate_limited".
	QuizSubmissionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "friender_quiz_submissions_total",
		Help: "Quiz submissions by outcome",
	}, []string{"result"})

	// DisplayCacheTotal cuenta accesos a la caché de perfiles: "hit", "miss" o "error".
	DisplayCacheTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "friender_display_cache_total",
		Help: "Display metadata cache lookups by outcome",
	}, []string{"result"})
)

func init() {
	prometheus.MustRegister(
		RankDuration,
		CandidatesTotal,
		CompatibilityScores,
		QuizSubmissionsTotal,
		DisplayCacheTotal,
	)
}

// Handler devuelve el handler HTTP de métricas.
func Handler() http.Handler {
	return promhttp.Handler()
}
