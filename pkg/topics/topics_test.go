package topics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegisterPublisherReturnsSubscribersAndUpdate(t *testing.T) {
	reg := New()
	reg.RegisterSubscriber("/chatter", "std_msgs/String", "/listener", "http://h:2")

	subs, upd := reg.RegisterPublisher("/chatter", "std_msgs/String", "/talker", "http://h:1")

	assert.Equal(t, []string{"http://h:2"}, subs)
	assert.Equal(t, "/chatter", upd.Topic)
	assert.Equal(t, []string{"http://h:1"}, upd.PublisherURIs)
	assert.Equal(t, []string{"http://h:2"}, upd.SubscriberURIs)
}

func TestRegisterSubscriberReturnsPublisherSnapshot(t *testing.T) {
	reg := New()
	reg.RegisterPublisher("/chatter", "std_msgs/String", "/talker", "http://h:1")

	pubs := reg.RegisterSubscriber("/chatter", "std_msgs/String", "/listener", "http://h:2")

	assert.Equal(t, []string{"http://h:1"}, pubs)
}

func TestTopicTypeIsStickyFirstWriterWins(t *testing.T) {
	reg := New()
	reg.RegisterPublisher("/chatter", "std_msgs/String", "/talker1", "http://h:1")
	reg.RegisterPublisher("/chatter", "some_msgs/Other", "/talker2", "http://h:2")

	types := reg.GetTopicTypes()
	assert.Equal(t, []TopicType{{Name: "/chatter", Type: "std_msgs/String"}}, types)
}

func TestWildcardTypeNeverSticks(t *testing.T) {
	reg := New()
	reg.RegisterPublisher("/chatter", "*", "/talker1", "http://h:1")
	reg.RegisterPublisher("/chatter", "std_msgs/String", "/talker2", "http://h:2")

	types := reg.GetTopicTypes()
	assert.Equal(t, []TopicType{{Name: "/chatter", Type: "std_msgs/String"}}, types)
}

func TestUnregisterPublisherReportsWhetherAnythingWasRemoved(t *testing.T) {
	reg := New()
	reg.RegisterPublisher("/chatter", "std_msgs/String", "/talker", "http://h:1")

	removed, upd := reg.UnregisterPublisher("/chatter", "/talker", "http://h:1")
	assert.True(t, removed)
	assert.Empty(t, upd.PublisherURIs)

	removedAgain, _ := reg.UnregisterPublisher("/chatter", "/talker", "http://h:1")
	assert.False(t, removedAgain)
}

func TestEmptyTopicDropsFromPublishedTopicsButKeepsType(t *testing.T) {
	reg := New()
	reg.RegisterPublisher("/chatter", "std_msgs/String", "/talker", "http://h:1")
	reg.UnregisterPublisher("/chatter", "/talker", "http://h:1")

	assert.Empty(t, reg.GetPublishedTopics(""))
	assert.Equal(t, []TopicType{{Name: "/chatter", Type: "std_msgs/String"}}, reg.GetTopicTypes())
}

func TestGetPublishedTopicsFiltersBySubgraph(t *testing.T) {
	reg := New()
	reg.RegisterPublisher("/a/chatter", "std_msgs/String", "/talker1", "http://h:1")
	reg.RegisterPublisher("/b/chatter", "std_msgs/String", "/talker2", "http://h:2")

	got := reg.GetPublishedTopics("/a")
	assert.Equal(t, []TopicType{{Name: "/a/chatter", Type: "std_msgs/String"}}, got)
}

func TestSystemStateListsParticipatingCallerIDs(t *testing.T) {
	reg := New()
	reg.RegisterPublisher("/chatter", "std_msgs/String", "/talker", "http://h:1")
	reg.RegisterSubscriber("/chatter", "std_msgs/String", "/listener", "http://h:2")

	pubs := reg.SystemStatePublishers()
	assert.Equal(t, []TopicCallers{{Name: "/chatter", CallerIDs: []string{"/talker"}}}, pubs)

	subs := reg.SystemStateSubscribers()
	assert.Equal(t, []TopicCallers{{Name: "/chatter", CallerIDs: []string{"/listener"}}}, subs)
}

func TestFindCallerURISearchesBothSides(t *testing.T) {
	reg := New()
	reg.RegisterPublisher("/chatter", "std_msgs/String", "/talker", "http://h:1")
	reg.RegisterSubscriber("/chatter", "std_msgs/String", "/listener", "http://h:2")

	uri, ok := reg.FindCallerURI("/talker")
	assert.True(t, ok)
	assert.Equal(t, "http://h:1", uri)

	uri, ok = reg.FindCallerURI("/listener")
	assert.True(t, ok)
	assert.Equal(t, "http://h:2", uri)

	_, ok = reg.FindCallerURI("/nobody")
	assert.False(t, ok)
}

func TestRegisterPublisherReplacesSameCallerBinding(t *testing.T) {
	reg := New()
	reg.RegisterPublisher("/chatter", "std_msgs/String", "/talker", "http://h:1")
	reg.RegisterPublisher("/chatter", "std_msgs/String", "/talker", "http://h:2")

	pubs := reg.SystemStatePublishers()
	assert.Equal(t, []TopicCallers{{Name: "/chatter", CallerIDs: []string{"/talker"}}}, pubs)

	got := reg.GetPublishedTopics("")
	assert.Len(t, got, 1)

	uri, ok := reg.FindCallerURI("/talker")
	assert.True(t, ok)
	assert.Equal(t, "http://h:2", uri)
}
