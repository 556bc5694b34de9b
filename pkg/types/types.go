// Package types defines the handful of data structures shared across the
// registries: the caller-id/URI pair every registration is built from, and
// the validation helpers the facade applies before any registry sees a
// request (spec §3, §4.5).
package types

import (
	"fmt"
	"strings"
)

// Registration is a single (CallerId -> URI) binding: one entry in a
// topic's publisher or subscriber set, or a service's provider slot
// (spec §3).
type Registration struct {
	CallerID string
	URI      string
}

// ValidCallerID reports whether a caller id is usable: non-empty (§4.5).
func ValidCallerID(callerID string) bool {
	return callerID != ""
}

// ValidName reports whether a topic, service, or parameter name is
// usable: non-empty (§4.5). Canonicalization and absolute-name
// resolution happen in pkg/names before a name ever reaches a registry.
func ValidName(name string) bool {
	return name != ""
}

// ValidURI reports whether a caller-api or service URI is a reachable
// absolute URI (§3): some scheme://host[:port].
func ValidURI(uri string) bool {
	if uri == "" {
		return false
	}
	scheme, rest, ok := strings.Cut(uri, "://")
	return ok && scheme != "" && rest != ""
}

// ValidateRegistration checks the (caller_id, uri) pair a register* RPC
// always carries, returning a descriptive error for the facade to surface
// as an invalid-argument failure.
func ValidateRegistration(callerID, uri string) error {
	if !ValidCallerID(callerID) {
		return fmt.Errorf("caller_id must not be empty")
	}
	if !ValidURI(uri) {
		return fmt.Errorf("invalid URI %q", uri)
	}
	return nil
}
