// Package names resolves and canonicalizes the slash-delimited hierarchical
// names used throughout the graph (topics, services, and parameter keys).
//
// Spec §4.5 calls for this to be "implement[ed] once in the facade and never
// again" — every registry receives only canonical absolute names, and this
// package is that one implementation: a single small, dependency-free
// helper package per concern (alongside pkg/types, pkg/log) rather than
// scattering string handling across call sites.
package names

import "strings"

// Canonicalize reduces a name to its canonical form: "/"-collapsed,
// with no trailing slash except at the root (spec §3 invariant 5).
func Canonicalize(name string) string {
	if name == "" {
		return ""
	}
	segs := Segments(name)
	if len(segs) == 0 {
		return "/"
	}
	return "/" + strings.Join(segs, "/")
}

// Segments splits a name into its non-empty path segments, collapsing
// repeated slashes and ignoring a leading/trailing slash.
func Segments(name string) []string {
	parts := strings.Split(name, "/")
	segs := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			segs = append(segs, p)
		}
	}
	return segs
}

// Namespace returns the namespace a caller id lives in: everything but its
// last segment, canonicalized, defaulting to the root namespace.
func Namespace(callerID string) string {
	segs := Segments(callerID)
	if len(segs) <= 1 {
		return "/"
	}
	return "/" + strings.Join(segs[:len(segs)-1], "/")
}

// Resolve qualifies name against the namespace of callerID: an absolute
// name (leading "/") is returned canonicalized as-is; a relative name is
// joined under the caller's own namespace.
func Resolve(callerID, name string) string {
	if name == "" {
		return ""
	}
	if strings.HasPrefix(name, "/") {
		return Canonicalize(name)
	}
	ns := Namespace(callerID)
	if ns == "/" {
		return Canonicalize("/" + name)
	}
	return Canonicalize(ns + "/" + name)
}

// Ancestors lists the scopes search_param walks, nearest first: the caller's
// own qualified name treated as a namespace, then each enclosing namespace up
// to and including the root (spec §4.3, §8 S6).
func Ancestors(callerID string) []string {
	segs := Segments(Canonicalize(callerID))
	scopes := make([]string, 0, len(segs)+1)
	for i := len(segs); i >= 0; i-- {
		if i == 0 {
			scopes = append(scopes, "/")
			continue
		}
		scopes = append(scopes, "/"+strings.Join(segs[:i], "/"))
	}
	return scopes
}

// Join canonicalizes the concatenation of a namespace scope and a relative
// key, used by searchParam to build each candidate key.
func Join(scope, key string) string {
	if scope == "/" {
		return Canonicalize("/" + key)
	}
	return Canonicalize(scope + "/" + key)
}

// IsPrefix reports whether a is a segment-wise prefix of b (a == b counts),
// i.e. b is a itself or a descendant of a. Prefix comparison is segment-wise,
// not string-wise: "/foo" is not a prefix of "/foobar" (spec §4.3).
func IsPrefix(a, b string) bool {
	as, bs := Segments(a), Segments(b)
	if len(as) > len(bs) {
		return false
	}
	for i, s := range as {
		if bs[i] != s {
			return false
		}
	}
	return true
}
