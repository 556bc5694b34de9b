// Package params implements the parameter tree (spec §4.3): a namespace of
// leaf values and inner nodes addressed by slash-delimited keys, plus the
// per-key subscription set that drives paramUpdate notifications. One
// mutex guards the whole tree and the subscription set together, matching
// the single-mutex-per-registry rule (spec §5).
package params

import (
	"sort"
	"strings"
	"sync"

	"github.com/cuemby/rosmaster/pkg/names"
	"github.com/cuemby/rosmaster/pkg/xmlrpc"
)

// Notification carries one paramUpdate push: the subscriber's caller-api,
// the key it subscribed under, and the value currently at that key (an
// empty struct if the write or delete made it disappear). Computed inside
// the registry's critical section, dispatched by the caller afterward
// (spec §4.4, §5).
type Notification struct {
	CallerAPI string
	Key       string
	Value     xmlrpc.Value
}

type Registry struct {
	mu   sync.Mutex
	root *node
	subs map[string]map[string]string // key -> callerID -> callerAPI
}

func New() *Registry {
	return &Registry{
		root: newInner(),
		subs: make(map[string]map[string]string),
	}
}

// SetParam writes value at key, creating any missing inner nodes along the
// way and discarding whatever was there before — a leaf standing where an
// inner node is needed is replaced, a subtree standing where a leaf is
// written is replaced (spec §4.3). It returns the paramUpdate notifications
// the write triggers.
func (r *Registry) SetParam(key string, value xmlrpc.Value) []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()

	segs := names.Segments(key)
	if len(segs) == 0 {
		if replacement := buildNode(value); replacement.isInner {
			r.root = replacement
		}
		return r.notificationsForLocked(key)
	}

	parent := r.ensureParentLocked(segs[:len(segs)-1])
	parent.setChild(segs[len(segs)-1], buildNode(value))
	return r.notificationsForLocked(key)
}

// ensureParentLocked walks segs from the root, materializing inner nodes as
// needed (and overwriting a leaf found where an inner node must be), and
// returns the node at the end of the path.
func (r *Registry) ensureParentLocked(segs []string) *node {
	cur := r.root
	for _, seg := range segs {
		child, ok := cur.child(seg)
		if !ok || !child.isInner {
			child = newInner()
			cur.setChild(seg, child)
		}
		cur = child
	}
	return cur
}

// GetParam returns the value at key: a leaf's value, or a struct of an
// inner node's entire subtree. ok is false if key resolves to nothing.
func (r *Registry) GetParam(key string) (xmlrpc.Value, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := r.walkLocked(names.Segments(key))
	if n == nil {
		return xmlrpc.Value{}, false
	}
	return toValue(n), true
}

func (r *Registry) walkLocked(segs []string) *node {
	cur := r.root
	for _, seg := range segs {
		child, ok := cur.child(seg)
		if !ok {
			return nil
		}
		cur = child
	}
	return cur
}

// HasParam reports whether key resolves to anything, leaf or inner.
func (r *Registry) HasParam(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.walkLocked(names.Segments(key)) != nil
}

// DeleteParam removes key and prunes any inner ancestor left empty by the
// removal, returning the resulting paramUpdate notifications.
func (r *Registry) DeleteParam(key string) []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()

	segs := names.Segments(key)
	if len(segs) == 0 {
		r.root = newInner()
		return r.notificationsForLocked(key)
	}

	path := make([]*node, 1, len(segs))
	path[0] = r.root
	cur := r.root
	for _, seg := range segs[:len(segs)-1] {
		child, ok := cur.child(seg)
		if !ok {
			return r.notificationsForLocked(key)
		}
		path = append(path, child)
		cur = child
	}

	last := segs[len(segs)-1]
	if _, ok := cur.child(last); !ok {
		return r.notificationsForLocked(key)
	}
	cur.deleteChild(last)

	for i := len(path) - 1; i >= 1 && path[i].childCount() == 0; i-- {
		path[i-1].deleteChild(segs[i-1])
	}

	return r.notificationsForLocked(key)
}

// GetParamNames lists every leaf key in the tree, depth-first, sorted for
// deterministic output.
func (r *Registry) GetParamNames() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []string
	var walk func(prefix []string, n *node)
	walk = func(prefix []string, n *node) {
		if !n.isInner {
			out = append(out, "/"+strings.Join(prefix, "/"))
			return
		}
		for _, seg := range n.childSegments() {
			child, _ := n.child(seg)
			next := make([]string, len(prefix)+1)
			copy(next, prefix)
			next[len(prefix)] = seg
			walk(next, child)
		}
	}
	walk(nil, r.root)
	sort.Strings(out)
	return out
}

// SearchParam walks the namespace hierarchy outward, starting with callerID
// itself treated as a namespace and then each enclosing namespace up to the
// root, returning the fully-qualified name of the first scope in which key
// exists (spec §4.3, §8 S6).
func (r *Registry) SearchParam(callerID, key string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, scope := range names.Ancestors(callerID) {
		candidate := names.Join(scope, key)
		if r.walkLocked(names.Segments(candidate)) != nil {
			return candidate, true
		}
	}
	return "", false
}

// SubscribeParam records (callerID, callerAPI) as subscribed to key and
// returns the value currently there (an empty struct if absent).
func (r *Registry) SubscribeParam(callerID, callerAPI, key string) xmlrpc.Value {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.subs[key]
	if !ok {
		set = make(map[string]string)
		r.subs[key] = set
	}
	set[callerID] = callerAPI

	return r.valueAtOrEmptyLocked(key)
}

// UnsubscribeParam removes callerID's subscription at key, reporting
// whether one existed.
func (r *Registry) UnsubscribeParam(callerID, key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.subs[key]
	if !ok {
		return false
	}
	if _, ok := set[callerID]; !ok {
		return false
	}
	delete(set, callerID)
	if len(set) == 0 {
		delete(r.subs, key)
	}
	return true
}

func (r *Registry) valueAtOrEmptyLocked(key string) xmlrpc.Value {
	n := r.walkLocked(names.Segments(key))
	if n == nil {
		return xmlrpc.EmptyStruct()
	}
	return toValue(n)
}

// ParamCount reports the total number of leaf parameter nodes in the tree,
// for the metrics collector.
func (r *Registry) ParamCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0
	var walk func(n *node)
	walk = func(n *node) {
		if !n.isInner {
			count++
			return
		}
		for _, seg := range n.childSegments() {
			child, _ := n.child(seg)
			walk(child)
		}
	}
	walk(r.root)
	return count
}

// notificationsForLocked computes every paramUpdate a write at key
// triggers: a subscription is affected if its key equals, is an ancestor
// of, or is a descendant of key (spec §4.3's affected-subscriber rule).
func (r *Registry) notificationsForLocked(key string) []Notification {
	var out []Notification
	for subKey, subscribers := range r.subs {
		if subKey != key && !names.IsPrefix(subKey, key) && !names.IsPrefix(key, subKey) {
			continue
		}
		value := r.valueAtOrEmptyLocked(subKey)
		for _, callerAPI := range subscribers {
			out = append(out, Notification{CallerAPI: callerAPI, Key: subKey, Value: value})
		}
	}
	return out
}
