// Package services implements the service registry (spec §4.2): one
// provider slot per service name, last write wins, guarded by a single
// mutex per the same discipline pkg/topics uses for its registry (spec §5).
package services

import (
	"sort"
	"sync"
)

// Provider is the (caller_id, caller_api, service_api) triple recorded for
// a service name — unlike a topic's caller-api, a service registration also
// carries the RPC endpoint other nodes connect to directly (spec §3).
type Provider struct {
	CallerID   string
	CallerAPI  string
	ServiceAPI string
}

// Entry is one row of a getSystemState services listing.
type Entry struct {
	Name     string
	CallerID string
}

type Registry struct {
	mu       sync.Mutex
	services map[string]Provider
}

func New() *Registry {
	return &Registry{services: make(map[string]Provider)}
}

// Register records callerID as the provider of service, replacing whatever
// provider was previously registered (spec §4.2 rule 1: last write wins,
// no error on displacing an existing provider).
func (r *Registry) Register(service, callerID, callerAPI, serviceAPI string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.services[service] = Provider{CallerID: callerID, CallerAPI: callerAPI, ServiceAPI: serviceAPI}
}

// Unregister removes the provider of service only if it is an exact match
// on both caller id and service api — a stale unregister from a node that
// has since been displaced as provider must not evict the current one
// (spec §4.2 rule 2).
func (r *Registry) Unregister(service, callerID, serviceAPI string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.services[service]
	if !ok || cur.CallerID != callerID || cur.ServiceAPI != serviceAPI {
		return false
	}
	delete(r.services, service)
	return true
}

// Lookup returns the current provider's service api, if any.
func (r *Registry) Lookup(service string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.services[service]
	if !ok {
		return "", false
	}
	return p.ServiceAPI, true
}

// SystemState lists every registered service and its provider's caller id,
// sorted by service name, for getSystemState's third section.
func (r *Registry) SystemState() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, 0, len(r.services))
	for name := range r.services {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]Entry, 0, len(names))
	for _, name := range names {
		out = append(out, Entry{Name: name, CallerID: r.services[name].CallerID})
	}
	return out
}

// FindCallerURI reports the caller-api of the provider registered under
// callerID, for lookupNode.
func (r *Registry) FindCallerURI(callerID string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.services {
		if p.CallerID == callerID {
			return p.CallerAPI, true
		}
	}
	return "", false
}

// Count reports the number of registered services, for the metrics
// collector.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.services)
}
