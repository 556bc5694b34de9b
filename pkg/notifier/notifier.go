// Package notifier delivers publisherUpdate and paramUpdate callbacks to
// subscriber caller-APIs without blocking the inbound RPC that triggered
// them (spec §4.4). It keeps one serial delivery queue per subscriber
// endpoint — a channel-fed queue drained by its own goroutine, fanned out
// per destination instead of broadcast to everyone, since ordering only
// needs to hold within a (subscriber, topic) pair, never across
// subscribers.
package notifier

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/cuemby/rosmaster/pkg/log"
	"github.com/cuemby/rosmaster/pkg/metrics"
	"github.com/cuemby/rosmaster/pkg/xmlrpc"
)

// masterCallerID identifies the master itself as the caller in outbound
// publisherUpdate/paramUpdate calls, matching the caller_id slot those
// callbacks carry (spec §6).
const masterCallerID = "/rosmaster"

type task struct {
	endpoint string
	method   string
	params   []xmlrpc.Value
}

// queue is one subscriber's serial delivery line: idle when empty, draining
// while a goroutine is working through it (spec §4.2's notifier state
// machine).
type queue struct {
	mu       sync.Mutex
	pending  []task
	draining bool
}

type Notifier struct {
	client  *http.Client
	timeout time.Duration

	mu      sync.Mutex
	queues  map[string]*queue
}

func New() *Notifier {
	return &Notifier{
		client:  &http.Client{},
		timeout: xmlrpc.DefaultTimeout,
		queues:  make(map[string]*queue),
	}
}

// PublisherUpdate enqueues a publisherUpdate(caller_id, topic, publishers)
// call to every caller-api in subscriberAPIs, carrying the full current
// publisher URI list for topic.
func (n *Notifier) PublisherUpdate(topic string, publisherURIs, subscriberAPIs []string) {
	uris := make([]xmlrpc.Value, len(publisherURIs))
	for i, u := range publisherURIs {
		uris[i] = xmlrpc.String(u)
	}
	params := []xmlrpc.Value{xmlrpc.String(masterCallerID), xmlrpc.String(topic), xmlrpc.Array(uris)}

	for _, api := range subscriberAPIs {
		n.enqueue(api, "publisherUpdate", params)
	}
}

// ParamUpdate enqueues a paramUpdate(caller_id, key, value) call to a
// single subscriber caller-api.
func (n *Notifier) ParamUpdate(callerAPI, key string, value xmlrpc.Value) {
	params := []xmlrpc.Value{xmlrpc.String(masterCallerID), xmlrpc.String(key), value}
	n.enqueue(callerAPI, "paramUpdate", params)
}

func (n *Notifier) enqueue(endpoint, method string, params []xmlrpc.Value) {
	n.mu.Lock()
	q, ok := n.queues[endpoint]
	if !ok {
		q = &queue{}
		n.queues[endpoint] = q
	}
	n.mu.Unlock()

	q.mu.Lock()
	q.pending = append(q.pending, task{endpoint: endpoint, method: method, params: params})
	start := !q.draining
	q.draining = true
	q.mu.Unlock()

	metrics.NotifierQueueDepth.Inc()
	if start {
		go n.drain(q)
	}
}

// drain delivers q's pending tasks in order, one at a time, until it runs
// dry. A failed delivery is logged and dropped — at-least-once is not
// guaranteed, and there is no retry (spec §4.4).
func (n *Notifier) drain(q *queue) {
	for {
		q.mu.Lock()
		if len(q.pending) == 0 {
			q.draining = false
			q.mu.Unlock()
			return
		}
		t := q.pending[0]
		q.pending = q.pending[1:]
		q.mu.Unlock()
		metrics.NotifierQueueDepth.Dec()

		ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
		_, err := xmlrpc.Call(ctx, n.client, t.endpoint, t.method, t.params)
		cancel()
		if err != nil {
			metrics.NotifierDeliveriesTotal.WithLabelValues(t.method, "dropped").Inc()
			log.WithComponent("notifier").Warn().
				Err(err).
				Str("endpoint", t.endpoint).
				Str("method", t.method).
				Msg("subscriber notification failed, dropping")
			continue
		}
		metrics.NotifierDeliveriesTotal.WithLabelValues(t.method, "delivered").Inc()
	}
}
