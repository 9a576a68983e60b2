package metrics

import "github.com/prometheus/client_golang/prometheus"

type Observer interface {
	Observe(val float64, labels ...string)

	// for now we will tightly couple to the prometheus collector type
	// the go otel metrics sdk also has a prometheus adapter that implements this interface.
	prometheus.Collector
}

type Metrics struct {
	// TMIMsgsCount counts every chat line received, commands or not.
	TMIMsgsCount Observer
	// CommandCount counts executed commands, labeled by command name.
	CommandCount Observer
	// DeniedCount counts commands refused for insufficient rank.
	DeniedCount Observer
	// VoteCount counts accepted poll votes.
	VoteCount Observer
	// PersistErrCount counts failed store flushes.
	PersistErrCount Observer
	// FlushLatency observes how long a store flush takes in seconds.
	FlushLatency Observer
}

func (m Metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.TMIMsgsCount,
		m.CommandCount,
		m.DeniedCount,
		m.VoteCount,
		m.PersistErrCount,
		m.FlushLatency,
	}
}
