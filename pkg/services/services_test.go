package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegisterIsLastWriteWins(t *testing.T) {
	reg := New()
	reg.Register("/add_two_ints", "/server1", "http://h:1", "rosrpc://h:2001")
	reg.Register("/add_two_ints", "/server2", "http://h:2", "rosrpc://h:2002")

	api, ok := reg.Lookup("/add_two_ints")
	assert.True(t, ok)
	assert.Equal(t, "rosrpc://h:2002", api)
}

func TestUnregisterRequiresExactProviderMatch(t *testing.T) {
	reg := New()
	reg.Register("/add_two_ints", "/server1", "http://h:1", "rosrpc://h:2001")
	reg.Register("/add_two_ints", "/server2", "http://h:2", "rosrpc://h:2002")

	removed := reg.Unregister("/add_two_ints", "/server1", "rosrpc://h:2001")
	assert.False(t, removed, "a displaced provider must not evict the current one")

	api, ok := reg.Lookup("/add_two_ints")
	assert.True(t, ok)
	assert.Equal(t, "rosrpc://h:2002", api)

	removed = reg.Unregister("/add_two_ints", "/server2", "rosrpc://h:2002")
	assert.True(t, removed)

	_, ok = reg.Lookup("/add_two_ints")
	assert.False(t, ok)
}

func TestLookupUnknownService(t *testing.T) {
	reg := New()
	_, ok := reg.Lookup("/nope")
	assert.False(t, ok)
}

func TestSystemStateListsProviders(t *testing.T) {
	reg := New()
	reg.Register("/b", "/server-b", "http://h:1", "rosrpc://h:1")
	reg.Register("/a", "/server-a", "http://h:2", "rosrpc://h:2")

	assert.Equal(t, []Entry{
		{Name: "/a", CallerID: "/server-a"},
		{Name: "/b", CallerID: "/server-b"},
	}, reg.SystemState())
}

func TestFindCallerURI(t *testing.T) {
	reg := New()
	reg.Register("/add_two_ints", "/server1", "http://h:1", "rosrpc://h:2001")

	uri, ok := reg.FindCallerURI("/server1")
	assert.True(t, ok)
	assert.Equal(t, "http://h:1", uri)

	_, ok = reg.FindCallerURI("/nobody")
	assert.False(t, ok)
}
