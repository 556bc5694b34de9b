// Package topics implements the topic registry (spec §4.1): the publisher
// and subscriber sets for every topic name, plus the sticky first-writer-wins
// type table. A single mutex guards all three maps together, matching the
// "each registry owns one mutex guarding its entire state" rule (spec §5);
// notification snapshots are read out under that same lock so the caller
// never has to re-lock to learn who to push to.
package topics

import (
	"sort"
	"sync"
)

// Update carries everything the notifier needs to push a publisherUpdate
// for one topic: the full, de-duplicated publisher URI list, and the
// subscriber URIs to deliver it to. It is computed inside the registry's
// critical section and handed to the caller for dispatch outside it
// (spec §4.4, §5).
type Update struct {
	Topic          string
	PublisherURIs  []string
	SubscriberURIs []string
}

// TopicCallers is one row of a getSystemState topic listing: a topic name
// and the caller ids participating in it.
type TopicCallers struct {
	Name      string
	CallerIDs []string
}

// TopicType is one row of getTopicTypes / getPublishedTopics.
type TopicType struct {
	Name string
	Type string
}

type Registry struct {
	mu    sync.Mutex
	pubs  *registry
	subs  *registry
	types map[string]string // topic -> type, sticky: first non-empty wins
}

func New() *Registry {
	return &Registry{
		pubs:  newRegistry(),
		subs:  newRegistry(),
		types: make(map[string]string),
	}
}

// RegisterPublisher adds callerID as a publisher of topic and returns the
// topic's current subscriber URIs (the direct RPC reply), along with an
// Update describing the publisherUpdate notification the caller must push
// to those subscribers. topicType is recorded only if no type has been
// recorded for this topic yet (spec §4.1 rule 2).
func (t *Registry) RegisterPublisher(topic, topicType, callerID, callerAPI string) ([]string, Update) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.pubs.add(topic, callerID, callerAPI)
	t.stickyType(topic, topicType)

	subURIs := t.subs.list(topic)
	return subURIs, Update{
		Topic:          topic,
		PublisherURIs:  t.pubs.list(topic),
		SubscriberURIs: subURIs,
	}
}

// UnregisterPublisher removes callerID's publisher registration for topic.
// callerAPI is accepted for wire compatibility but isn't needed to resolve
// the removal: invariant 1 guarantees a caller id holds at most one
// registration per topic, so caller_id alone identifies it.
func (t *Registry) UnregisterPublisher(topic, callerID, _ string) (bool, Update) {
	t.mu.Lock()
	defer t.mu.Unlock()

	removed := t.pubs.remove(topic, callerID)
	return removed, Update{
		Topic:          topic,
		PublisherURIs:  t.pubs.list(topic),
		SubscriberURIs: t.subs.list(topic),
	}
}

// RegisterSubscriber adds callerID as a subscriber of topic and returns the
// topic's current publisher URIs as an initial snapshot. No notification is
// triggered: the caller receives the list directly as the RPC's return
// value (spec §4.1 rule 3).
func (t *Registry) RegisterSubscriber(topic, topicType, callerID, callerAPI string) []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.subs.add(topic, callerID, callerAPI)
	t.stickyType(topic, topicType)

	return t.pubs.list(topic)
}

// UnregisterSubscriber removes callerID's subscriber registration for topic.
// No notification follows (spec §4.1 rule 3).
func (t *Registry) UnregisterSubscriber(topic, callerID, _ string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.subs.remove(topic, callerID)
}

func (t *Registry) stickyType(topic, topicType string) {
	if topicType == "" || topicType == "*" {
		return
	}
	if _, ok := t.types[topic]; !ok {
		t.types[topic] = topicType
	}
}

// GetPublishedTopics lists [name, type] pairs for every topic with at least
// one publisher, restricted to those under subgraph when non-empty
// (spec §4.1).
func (t *Registry) GetPublishedTopics(subgraph string) []TopicType {
	t.mu.Lock()
	defer t.mu.Unlock()

	var out []TopicType
	for _, name := range t.pubs.names() {
		if subgraph != "" && !underSubgraph(subgraph, name) {
			continue
		}
		out = append(out, TopicType{Name: name, Type: t.types[name]})
	}
	return out
}

// GetTopicTypes lists [name, type] for every topic that has ever had a type
// recorded, whether or not it currently has publishers or subscribers.
func (t *Registry) GetTopicTypes() []TopicType {
	t.mu.Lock()
	defer t.mu.Unlock()

	names := make([]string, 0, len(t.types))
	for name := range t.types {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]TopicType, 0, len(names))
	for _, name := range names {
		out = append(out, TopicType{Name: name, Type: t.types[name]})
	}
	return out
}

// SystemStatePublishers and SystemStateSubscribers feed getSystemState's
// topic section: one row per topic name currently holding registrations,
// with the participating caller ids.
func (t *Registry) SystemStatePublishers() []TopicCallers {
	t.mu.Lock()
	defer t.mu.Unlock()
	return snapshot(t.pubs)
}

func (t *Registry) SystemStateSubscribers() []TopicCallers {
	t.mu.Lock()
	defer t.mu.Unlock()
	return snapshot(t.subs)
}

func snapshot(r *registry) []TopicCallers {
	names := r.names()
	out := make([]TopicCallers, 0, len(names))
	for _, name := range names {
		out = append(out, TopicCallers{Name: name, CallerIDs: r.callerIDs(name)})
	}
	return out
}

// Counts reports the total number of distinct topic names with at least
// one publisher or subscriber, and the total number of publisher and
// subscriber registrations across all topics, for the metrics collector.
func (t *Registry) Counts() (topicCount, publisherCount, subscriberCount int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	seen := make(map[string]struct{})
	for _, name := range t.pubs.names() {
		seen[name] = struct{}{}
		publisherCount += len(t.pubs.bindings[name])
	}
	for _, name := range t.subs.names() {
		seen[name] = struct{}{}
		subscriberCount += len(t.subs.bindings[name])
	}
	return len(seen), publisherCount, subscriberCount
}

// FindCallerURI reports the URI callerID is registered under as either a
// publisher or a subscriber of any topic, for lookupNode.
func (t *Registry) FindCallerURI(callerID string) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if uri, ok := t.pubs.findCaller(callerID); ok {
		return uri, true
	}
	return t.subs.findCaller(callerID)
}

func underSubgraph(subgraph, name string) bool {
	if subgraph == "/" || subgraph == name {
		return true
	}
	return len(name) > len(subgraph) && name[len(subgraph)] == '/' && name[:len(subgraph)] == subgraph
}
