package params

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuemby/rosmaster/pkg/xmlrpc"
)

func TestSetAndGetLeaf(t *testing.T) {
	reg := New()
	reg.SetParam("/robot/speed", xmlrpc.Double(1.5))

	v, ok := reg.GetParam("/robot/speed")
	require.True(t, ok)
	got, ok := v.AsDouble()
	require.True(t, ok)
	assert.Equal(t, 1.5, got)
}

func TestGetInnerNodeReturnsSubtreeStruct(t *testing.T) {
	reg := New()
	reg.SetParam("/robot/speed", xmlrpc.Double(1.5))
	reg.SetParam("/robot/name", xmlrpc.String("r2"))

	v, ok := reg.GetParam("/robot")
	require.True(t, ok)
	fields, ok := v.AsStruct()
	require.True(t, ok)
	require.Len(t, fields, 2)

	name, _ := fields["name"].AsString()
	assert.Equal(t, "r2", name)
}

func TestGetMissingParam(t *testing.T) {
	reg := New()
	_, ok := reg.GetParam("/nope")
	assert.False(t, ok)
}

func TestSetOverwritesLeafWithInnerWhenIntermediate(t *testing.T) {
	reg := New()
	reg.SetParam("/robot", xmlrpc.String("leaf"))
	reg.SetParam("/robot/speed", xmlrpc.Double(2.0))

	v, ok := reg.GetParam("/robot/speed")
	require.True(t, ok)
	got, _ := v.AsDouble()
	assert.Equal(t, 2.0, got)
}

func TestSetStructValueBuildsSubtree(t *testing.T) {
	reg := New()
	reg.SetParam("/robot", xmlrpc.Struct(map[string]xmlrpc.Value{
		"speed": xmlrpc.Double(3.0),
		"name":  xmlrpc.String("r3"),
	}))

	v, ok := reg.GetParam("/robot/speed")
	require.True(t, ok)
	got, _ := v.AsDouble()
	assert.Equal(t, 3.0, got)
}

func TestHasParam(t *testing.T) {
	reg := New()
	assert.False(t, reg.HasParam("/robot/speed"))
	reg.SetParam("/robot/speed", xmlrpc.Double(1.0))
	assert.True(t, reg.HasParam("/robot/speed"))
	assert.True(t, reg.HasParam("/robot"))
}

func TestDeleteParamPrunesEmptyAncestors(t *testing.T) {
	reg := New()
	reg.SetParam("/robot/speed", xmlrpc.Double(1.0))

	reg.DeleteParam("/robot/speed")

	assert.False(t, reg.HasParam("/robot/speed"))
	assert.False(t, reg.HasParam("/robot"))
}

func TestDeleteParamKeepsSiblingAncestor(t *testing.T) {
	reg := New()
	reg.SetParam("/robot/speed", xmlrpc.Double(1.0))
	reg.SetParam("/robot/name", xmlrpc.String("r2"))

	reg.DeleteParam("/robot/speed")

	assert.False(t, reg.HasParam("/robot/speed"))
	assert.True(t, reg.HasParam("/robot/name"))
	assert.True(t, reg.HasParam("/robot"))
}

func TestGetParamNamesDepthFirst(t *testing.T) {
	reg := New()
	reg.SetParam("/a/x", xmlrpc.Int(1))
	reg.SetParam("/a/y", xmlrpc.Int(2))
	reg.SetParam("/b", xmlrpc.Int(3))

	assert.Equal(t, []string{"/a/x", "/a/y", "/b"}, reg.GetParamNames())
}

func TestSearchParamWalksUpNamespace(t *testing.T) {
	reg := New()
	reg.SetParam("/ns/speed", xmlrpc.Double(9.0))

	resolved, ok := reg.SearchParam("/ns/node", "speed")
	require.True(t, ok)
	assert.Equal(t, "/ns/speed", resolved)
}

func TestSearchParamFindsNoMatch(t *testing.T) {
	reg := New()
	_, ok := reg.SearchParam("/ns/node", "missing")
	assert.False(t, ok)
}

func TestSubscribeParamReturnsCurrentValue(t *testing.T) {
	reg := New()
	reg.SetParam("/robot/speed", xmlrpc.Double(1.0))

	v := reg.SubscribeParam("/watcher", "http://h:1", "/robot/speed")
	got, ok := v.AsDouble()
	require.True(t, ok)
	assert.Equal(t, 1.0, got)
}

func TestSubscribeParamAbsentReturnsEmptyStruct(t *testing.T) {
	reg := New()
	v := reg.SubscribeParam("/watcher", "http://h:1", "/robot/speed")
	assert.True(t, v.IsEmptyStruct())
}

func TestSetParamNotifiesExactAncestorAndDescendantSubscribers(t *testing.T) {
	reg := New()
	reg.SubscribeParam("/watcher-exact", "http://h:1", "/robot/speed")
	reg.SubscribeParam("/watcher-ancestor", "http://h:2", "/robot")
	reg.SubscribeParam("/watcher-unrelated", "http://h:3", "/other")
	reg.SubscribeParam("/watcher-descendant", "http://h:4", "/robot/speed/unit")

	notes := reg.SetParam("/robot/speed", xmlrpc.Double(4.0))

	byAPI := map[string]Notification{}
	for _, n := range notes {
		byAPI[n.CallerAPI] = n
	}
	require.Contains(t, byAPI, "http://h:1")
	require.Contains(t, byAPI, "http://h:2")
	assert.NotContains(t, byAPI, "http://h:3")
	require.Contains(t, byAPI, "http://h:4")

	exact, _ := byAPI["http://h:1"].Value.AsDouble()
	assert.Equal(t, 4.0, exact)
	assert.True(t, byAPI["http://h:4"].Value.IsEmptyStruct())
}

func TestDeleteParamNotifiesEmptyStructAtDeletedKey(t *testing.T) {
	reg := New()
	reg.SetParam("/robot/speed", xmlrpc.Double(1.0))
	reg.SubscribeParam("/watcher", "http://h:1", "/robot/speed")

	notes := reg.DeleteParam("/robot/speed")
	require.Len(t, notes, 1)
	assert.True(t, notes[0].Value.IsEmptyStruct())
}

func TestUnsubscribeParam(t *testing.T) {
	reg := New()
	reg.SubscribeParam("/watcher", "http://h:1", "/robot/speed")

	assert.True(t, reg.UnsubscribeParam("/watcher", "/robot/speed"))
	assert.False(t, reg.UnsubscribeParam("/watcher", "/robot/speed"))
}
