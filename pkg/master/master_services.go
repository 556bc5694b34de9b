package master

import (
	"github.com/cuemby/rosmaster/pkg/names"
	"github.com/cuemby/rosmaster/pkg/roserr"
	"github.com/cuemby/rosmaster/pkg/types"
	"github.com/cuemby/rosmaster/pkg/xmlrpc"
)

// registerService(caller_id, service, service_api, caller_api) -> 1.
// Replaces whatever provider the service previously had (spec §4.2 rule 1,
// §8 S5).
func (m *Master) registerService(callerID string, args []xmlrpc.Value) (xmlrpc.Value, error) {
	fields, ok := argStrings(args, 3)
	if !ok {
		return xmlrpc.Value{}, roserr.Invalidf("registerService expects (service, service_api, caller_api)")
	}
	service, serviceAPI, callerAPI := fields[0], fields[1], fields[2]

	if !types.ValidName(service) {
		return xmlrpc.Value{}, roserr.Invalidf("service name must not be empty")
	}
	if err := types.ValidateRegistration(callerID, callerAPI); err != nil {
		return xmlrpc.Value{}, roserr.Invalidf("%s", err)
	}
	if !types.ValidURI(serviceAPI) {
		return xmlrpc.Value{}, roserr.Invalidf("invalid service URI %q", serviceAPI)
	}

	resolved := names.Resolve(callerID, service)
	m.services.Register(resolved, callerID, callerAPI, serviceAPI)
	return xmlrpc.Int(1), nil
}

// unregisterService(caller_id, service, service_api) -> 1 if the exact
// (caller_id, service_api) provider was removed, 0 otherwise; a stale
// unregister from a displaced provider never evicts the current one
// (spec §4.2 rule 2, §8 S5).
func (m *Master) unregisterService(callerID string, args []xmlrpc.Value) (xmlrpc.Value, error) {
	fields, ok := argStrings(args, 2)
	if !ok {
		return xmlrpc.Value{}, roserr.Invalidf("unregisterService expects (service, service_api)")
	}
	service, serviceAPI := fields[0], fields[1]
	if !types.ValidName(service) {
		return xmlrpc.Value{}, roserr.Invalidf("service name must not be empty")
	}

	resolved := names.Resolve(callerID, service)
	removed := m.services.Unregister(resolved, callerID, serviceAPI)
	return boolToValue(removed), nil
}

// lookupService(caller_id, service) -> the provider's service api, or a
// not-found failure (spec §7 Not-found row, §8 S5).
func (m *Master) lookupService(callerID string, args []xmlrpc.Value) (xmlrpc.Value, error) {
	fields, ok := argStrings(args, 1)
	if !ok {
		return xmlrpc.Value{}, roserr.Invalidf("lookupService expects (service)")
	}
	resolved := names.Resolve(callerID, fields[0])

	api, ok := m.services.Lookup(resolved)
	if !ok {
		return xmlrpc.Value{}, roserr.Invalidf("no provider for service %q", resolved)
	}
	return xmlrpc.String(api), nil
}

// getSystemState(caller_id) -> [publishers, subscribers, services], each a
// list of [name, [caller_id, ...]] (spec §4.5, testable property 2).
func (m *Master) getSystemState(_ string, args []xmlrpc.Value) (xmlrpc.Value, error) {
	if len(args) != 0 {
		return xmlrpc.Value{}, roserr.Invalidf("getSystemState expects no arguments")
	}

	pubs := m.topics.SystemStatePublishers()
	subs := m.topics.SystemStateSubscribers()
	svcs := m.services.SystemState()

	pubRows := make([]xmlrpc.Value, len(pubs))
	for i, row := range pubs {
		pubRows[i] = xmlrpc.Array([]xmlrpc.Value{xmlrpc.String(row.Name), stringsToValue(row.CallerIDs)})
	}
	subRows := make([]xmlrpc.Value, len(subs))
	for i, row := range subs {
		subRows[i] = xmlrpc.Array([]xmlrpc.Value{xmlrpc.String(row.Name), stringsToValue(row.CallerIDs)})
	}
	svcRows := make([]xmlrpc.Value, len(svcs))
	for i, row := range svcs {
		svcRows[i] = xmlrpc.Array([]xmlrpc.Value{xmlrpc.String(row.Name), stringsToValue([]string{row.CallerID})})
	}

	return xmlrpc.Array([]xmlrpc.Value{
		xmlrpc.Array(pubRows),
		xmlrpc.Array(subRows),
		xmlrpc.Array(svcRows),
	}), nil
}

// getUri(caller_id) -> the master's own advertised URI.
func (m *Master) getUri(_ string, args []xmlrpc.Value) (xmlrpc.Value, error) {
	if len(args) != 0 {
		return xmlrpc.Value{}, roserr.Invalidf("getUri expects no arguments")
	}
	return xmlrpc.String(m.uri), nil
}

// getPid(caller_id) -> the master process id.
func (m *Master) getPid(_ string, args []xmlrpc.Value) (xmlrpc.Value, error) {
	if len(args) != 0 {
		return xmlrpc.Value{}, roserr.Invalidf("getPid expects no arguments")
	}
	return xmlrpc.Int(m.pid), nil
}

// lookupNode(caller_id, node_name) -> the URI node_name is registered
// under, searched across every registry (spec §4.5).
func (m *Master) lookupNode(_ string, args []xmlrpc.Value) (xmlrpc.Value, error) {
	fields, ok := argStrings(args, 1)
	if !ok {
		return xmlrpc.Value{}, roserr.Invalidf("lookupNode expects (node_name)")
	}
	node := fields[0]
	if !types.ValidName(node) {
		return xmlrpc.Value{}, roserr.Invalidf("node name must not be empty")
	}

	if uri, ok := m.topics.FindCallerURI(node); ok {
		return xmlrpc.String(uri), nil
	}
	if uri, ok := m.services.FindCallerURI(node); ok {
		return xmlrpc.String(uri), nil
	}
	return xmlrpc.Value{}, roserr.Invalidf("unknown node %q", node)
}
