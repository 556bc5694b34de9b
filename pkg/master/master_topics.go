package master

import (
	"github.com/cuemby/rosmaster/pkg/names"
	"github.com/cuemby/rosmaster/pkg/roserr"
	"github.com/cuemby/rosmaster/pkg/types"
	"github.com/cuemby/rosmaster/pkg/xmlrpc"
)

// registerPublisher(caller_id, topic, topic_type, caller_api) -> current
// subscriber URIs for topic, and triggers a publisherUpdate to those
// subscribers once the registration is visible (spec §4.1, §8 S1).
func (m *Master) registerPublisher(callerID string, args []xmlrpc.Value) (xmlrpc.Value, error) {
	fields, ok := argStrings(args, 3)
	if !ok {
		return xmlrpc.Value{}, roserr.Invalidf("registerPublisher expects (topic, topic_type, caller_api)")
	}
	topic, topicType, callerAPI := fields[0], fields[1], fields[2]

	if !types.ValidName(topic) {
		return xmlrpc.Value{}, roserr.Invalidf("topic name must not be empty")
	}
	if err := types.ValidateRegistration(callerID, callerAPI); err != nil {
		return xmlrpc.Value{}, roserr.Invalidf("%s", err)
	}

	resolved := names.Resolve(callerID, topic)
	subscriberURIs, update := m.topics.RegisterPublisher(resolved, topicType, callerID, callerAPI)
	if len(update.SubscriberURIs) > 0 {
		m.notify.PublisherUpdate(update.Topic, update.PublisherURIs, update.SubscriberURIs)
	}
	return stringsToValue(subscriberURIs), nil
}

// unregisterPublisher(caller_id, topic, caller_api) -> 1 if a registration
// was removed, 0 otherwise; always succeeds (spec §8 S2).
func (m *Master) unregisterPublisher(callerID string, args []xmlrpc.Value) (xmlrpc.Value, error) {
	fields, ok := argStrings(args, 2)
	if !ok {
		return xmlrpc.Value{}, roserr.Invalidf("unregisterPublisher expects (topic, caller_api)")
	}
	topic, callerAPI := fields[0], fields[1]
	if !types.ValidName(topic) {
		return xmlrpc.Value{}, roserr.Invalidf("topic name must not be empty")
	}

	resolved := names.Resolve(callerID, topic)
	removed, update := m.topics.UnregisterPublisher(resolved, callerID, callerAPI)
	if removed && len(update.SubscriberURIs) > 0 {
		m.notify.PublisherUpdate(update.Topic, update.PublisherURIs, update.SubscriberURIs)
	}
	return boolToValue(removed), nil
}

// registerSubscriber(caller_id, topic, topic_type, caller_api) -> the
// topic's current publisher URIs, delivered directly as the return value
// with no push notification (spec §4.1 rule 3).
func (m *Master) registerSubscriber(callerID string, args []xmlrpc.Value) (xmlrpc.Value, error) {
	fields, ok := argStrings(args, 3)
	if !ok {
		return xmlrpc.Value{}, roserr.Invalidf("registerSubscriber expects (topic, topic_type, caller_api)")
	}
	topic, topicType, callerAPI := fields[0], fields[1], fields[2]

	if !types.ValidName(topic) {
		return xmlrpc.Value{}, roserr.Invalidf("topic name must not be empty")
	}
	if err := types.ValidateRegistration(callerID, callerAPI); err != nil {
		return xmlrpc.Value{}, roserr.Invalidf("%s", err)
	}

	resolved := names.Resolve(callerID, topic)
	pubURIs := m.topics.RegisterSubscriber(resolved, topicType, callerID, callerAPI)
	return stringsToValue(pubURIs), nil
}

// unregisterSubscriber(caller_id, topic, caller_api) -> 1 if a registration
// was removed, 0 otherwise.
func (m *Master) unregisterSubscriber(callerID string, args []xmlrpc.Value) (xmlrpc.Value, error) {
	fields, ok := argStrings(args, 2)
	if !ok {
		return xmlrpc.Value{}, roserr.Invalidf("unregisterSubscriber expects (topic, caller_api)")
	}
	topic, callerAPI := fields[0], fields[1]
	if !types.ValidName(topic) {
		return xmlrpc.Value{}, roserr.Invalidf("topic name must not be empty")
	}

	resolved := names.Resolve(callerID, topic)
	removed := m.topics.UnregisterSubscriber(resolved, callerID, callerAPI)
	return boolToValue(removed), nil
}

// getPublishedTopics(caller_id, subgraph) -> [[topic, type], ...].
func (m *Master) getPublishedTopics(_ string, args []xmlrpc.Value) (xmlrpc.Value, error) {
	fields, ok := argStrings(args, 1)
	if !ok {
		return xmlrpc.Value{}, roserr.Invalidf("getPublishedTopics expects (subgraph)")
	}
	subgraph := names.Canonicalize(fields[0])
	if fields[0] == "" {
		subgraph = ""
	}

	rows := m.topics.GetPublishedTopics(subgraph)
	out := make([]xmlrpc.Value, len(rows))
	for i, row := range rows {
		out[i] = xmlrpc.Array([]xmlrpc.Value{xmlrpc.String(row.Name), xmlrpc.String(row.Type)})
	}
	return xmlrpc.Array(out), nil
}

// getTopicTypes(caller_id) -> [[topic, type], ...] for every topic that has
// ever had a type recorded.
func (m *Master) getTopicTypes(_ string, args []xmlrpc.Value) (xmlrpc.Value, error) {
	if len(args) != 0 {
		return xmlrpc.Value{}, roserr.Invalidf("getTopicTypes expects no arguments")
	}
	rows := m.topics.GetTopicTypes()
	out := make([]xmlrpc.Value, len(rows))
	for i, row := range rows {
		out[i] = xmlrpc.Array([]xmlrpc.Value{xmlrpc.String(row.Name), xmlrpc.String(row.Type)})
	}
	return xmlrpc.Array(out), nil
}
