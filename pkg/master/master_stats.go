package master

import "github.com/cuemby/rosmaster/pkg/metrics"

// Stats implements metrics.StatsProvider: a point-in-time snapshot of the
// four registries' sizes for the periodic metrics collector.
func (m *Master) Stats() metrics.Stats {
	topicCount, pubCount, subCount := m.topics.Counts()
	return metrics.Stats{
		Topics:      topicCount,
		Publishers:  pubCount,
		Subscribers: subCount,
		Services:    m.services.Count(),
		ParamNodes:  m.params.ParamCount(),
	}
}
