package metrics

import (
	"runtime"
	"runtime/debug"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registry = prometheus.NewRegistry()

	roleOutcomes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "stackdown",
		Name:      "role_outcomes_total",
		Help:      "Terminal outcomes per role, labelled by outcome kind.",
	}, []string{"role", "outcome"})

	escalations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "stackdown",
		Name:      "escalations_total",
		Help:      "Forceful-signal escalations attempted per role.",
	}, []string{"role"})

	terminateDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "stackdown",
		Name:      "terminate_duration_seconds",
		Help:      "Wall-clock duration of the termination protocol per role.",
	}, []string{"role"})

	buildInfo = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "stackdown",
		Name:      "build_info",
		Help:      "Build metadata for the running stackdown binary.",
	}, []string{"go_version", "vcs", "vcs_revision", "vcs_time", "vcs_modified"})

	buildInfoOnce sync.Once
)

func init() {
	registry.MustRegister(roleOutcomes, escalations, terminateDuration, buildInfo)
}

// Registry returns the Prometheus registry containing all stackdown metrics.
func Registry() *prometheus.Registry {
	return registry
}

// RecordOutcome counts a terminal outcome for a role.
func RecordOutcome(role, outcome string) {
	if role == "" || outcome == "" {
		return
	}
	roleOutcomes.WithLabelValues(role, outcome).Inc()
}

// RecordEscalation counts one forceful-signal escalation for a role.
func RecordEscalation(role string) {
	if role == "" {
		return
	}
	escalations.WithLabelValues(role).Inc()
}

// ObserveTermination records how long one role's termination protocol took.
func ObserveTermination(role string, d time.Duration) {
	label := role
	if label == "" {
		label = "unknown"
	}
	terminateDuration.WithLabelValues(label).Observe(d.Seconds())
}

// EmitBuildInfo publishes build metadata about the running binary.
func EmitBuildInfo() {
	buildInfoOnce.Do(func() {
		labels := prometheus.Labels{
			"go_version":   runtime.Version(),
			"vcs":          "",
			"vcs_revision": "",
			"vcs_time":     "",
			"vcs_modified": "",
		}
		if info, ok := debug.ReadBuildInfo(); ok {
			if info.GoVersion != "" {
				labels["go_version"] = info.GoVersion
			}
			for _, setting := range info.Settings {
				switch setting.Key {
				case "vcs":
					labels["vcs"] = setting.Value
				case "vcs.revision":
					labels["vcs_revision"] = setting.Value
				case "vcs.time":
					labels["vcs_time"] = setting.Value
				case "vcs.modified":
					labels["vcs_modified"] = setting.Value
				}
			}
		}
		buildInfo.With(labels).Set(1)
	})
}
