package metrics

import "time"

// Stats is a point-in-time snapshot of the registries' sizes.
type Stats struct {
	Topics      int
	Publishers  int
	Subscribers int
	Services    int
	ParamNodes  int
}

// StatsProvider is implemented by pkg/master so the collector doesn't need
// to know about registries directly.
type StatsProvider interface {
	Stats() Stats
}

// Collector periodically samples a StatsProvider into the package's
// registry-size gauges.
type Collector struct {
	source StatsProvider
	stopCh chan struct{}
}

func NewCollector(source StatsProvider) *Collector {
	return &Collector{
		source: source,
		stopCh: make(chan struct{}),
	}
}

// Start begins collecting on a fixed interval, collecting once immediately.
func (c *Collector) Start() {
	ticker := time.NewTicker(15 * time.Second)
	go func() {
		c.collect()
		for {
			select {
			case <-ticker.C:
				c.collect()
			case <-c.stopCh:
				ticker.Stop()
				return
			}
		}
	}()
}

func (c *Collector) Stop() {
	close(c.stopCh)
}

func (c *Collector) collect() {
	s := c.source.Stats()
	TopicsTotal.Set(float64(s.Topics))
	PublishersTotal.Set(float64(s.Publishers))
	SubscribersTotal.Set(float64(s.Subscribers))
	ServicesTotal.Set(float64(s.Services))
	ParamNodesTotal.Set(float64(s.ParamNodes))
}
