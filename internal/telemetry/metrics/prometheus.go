package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// SetupPrometheus creates the service registry: go runtime and process collectors, a
// kinniku_build_info gauge labelled with the running commit, plus any extra collectors (db pool).
func SetupPrometheus(versionInfo string, extraCollectors ...prometheus.Collector) *prometheus.Registry {
	promRegistry := prometheus.NewRegistry()

	version := strings.TrimSpace(versionInfo)
	if version == "" {
		version = "unknown"
	}
	buildInfo := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace:   "kinniku",
		Name:        "build_info",
		Help:        "Always 1, labelled with the commit the service was built from",
		ConstLabels: prometheus.Labels{"version": version},
	})
	buildInfo.Set(1)

	promRegistry.MustRegister(
		buildInfo,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	for _, c := range extraCollectors {
		if c != nil {
			promRegistry.MustRegister(c)
		}
	}

	return promRegistry
}
