package params

import (
	"sort"

	"github.com/elliotchance/orderedmap"

	"github.com/cuemby/rosmaster/pkg/xmlrpc"
)

// node is one entry in the parameter tree: either a leaf holding a value,
// or an inner node holding an ordered set of named children. The ordering
// is the insertion order of each child's first write, which is what the
// teacher's convention of using orderedmap for anything the caller might
// reasonably expect to enumerate predictably buys us here (spec's data
// model calls this out explicitly as "ordered_map<segment, Node>").
type node struct {
	isInner bool
	value   xmlrpc.Value
	inner   *orderedmap.OrderedMap
}

func newLeaf(v xmlrpc.Value) *node {
	return &node{value: v}
}

func newInner() *node {
	return &node{isInner: true, inner: orderedmap.NewOrderedMap()}
}

func (n *node) child(seg string) (*node, bool) {
	if !n.isInner {
		return nil, false
	}
	v, ok := n.inner.Get(seg)
	if !ok {
		return nil, false
	}
	return v.(*node), true
}

func (n *node) setChild(seg string, c *node) {
	n.inner.Set(seg, c)
}

func (n *node) deleteChild(seg string) {
	n.inner.Delete(seg)
}

func (n *node) childSegments() []string {
	keys := n.inner.Keys()
	segs := make([]string, len(keys))
	for i, k := range keys {
		segs[i] = k.(string)
	}
	return segs
}

func (n *node) childCount() int {
	return n.inner.Len()
}

// buildNode converts an XML-RPC value into a subtree: a struct becomes an
// inner node with one child per field (fields are inserted in sorted
// order, since an incoming struct carries no ordering of its own), anything
// else becomes a leaf holding that value verbatim.
func buildNode(v xmlrpc.Value) *node {
	fields, ok := v.AsStruct()
	if !ok {
		return newLeaf(v)
	}

	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	n := newInner()
	for _, name := range names {
		n.setChild(name, buildNode(fields[name]))
	}
	return n
}

// toValue converts a subtree back into the XML-RPC value getParam and
// paramUpdate deliver: a leaf returns its value, an inner node returns a
// struct of its children (recursively), matching the dictionary shape a
// ROS client expects when it reads an entire namespace.
func toValue(n *node) xmlrpc.Value {
	if !n.isInner {
		return n.value
	}
	fields := make(map[string]xmlrpc.Value, n.childCount())
	for _, seg := range n.childSegments() {
		child, _ := n.child(seg)
		fields[seg] = toValue(child)
	}
	return xmlrpc.Struct(fields)
}
