package master

import (
	"github.com/cuemby/rosmaster/pkg/names"
	"github.com/cuemby/rosmaster/pkg/roserr"
	"github.com/cuemby/rosmaster/pkg/types"
	"github.com/cuemby/rosmaster/pkg/xmlrpc"
)

// setParam(caller_id, key, value) -> 0, and delivers paramUpdate to every
// affected subscriber (spec §4.3, §8 properties 4-6).
func (m *Master) setParam(callerID string, args []xmlrpc.Value) (xmlrpc.Value, error) {
	if len(args) != 2 {
		return xmlrpc.Value{}, roserr.Invalidf("setParam expects (key, value)")
	}
	key, ok := args[0].AsString()
	if !ok || !types.ValidName(key) {
		return xmlrpc.Value{}, roserr.Invalidf("param key must be a non-empty string")
	}

	resolved := names.Resolve(callerID, key)
	notifications := m.params.SetParam(resolved, args[1])
	for _, n := range notifications {
		m.notify.ParamUpdate(n.CallerAPI, n.Key, n.Value)
	}
	return xmlrpc.Int(0), nil
}

// getParam(caller_id, key) -> the value at key, or a not-found failure
// (spec §4.3, §7 Not-found row).
func (m *Master) getParam(callerID string, args []xmlrpc.Value) (xmlrpc.Value, error) {
	fields, ok := argStrings(args, 1)
	if !ok {
		return xmlrpc.Value{}, roserr.Invalidf("getParam expects (key)")
	}
	resolved := names.Resolve(callerID, fields[0])

	v, ok := m.params.GetParam(resolved)
	if !ok {
		return xmlrpc.Value{}, roserr.Invalidf("no such param %q", resolved)
	}
	return v, nil
}

// deleteParam(caller_id, key) -> 0, pruning empty ancestors and delivering
// {} to every affected subscriber (spec §4.3, §8 property 7).
func (m *Master) deleteParam(callerID string, args []xmlrpc.Value) (xmlrpc.Value, error) {
	fields, ok := argStrings(args, 1)
	if !ok {
		return xmlrpc.Value{}, roserr.Invalidf("deleteParam expects (key)")
	}
	key := fields[0]
	if !types.ValidName(key) {
		return xmlrpc.Value{}, roserr.Invalidf("param key must not be empty")
	}

	resolved := names.Resolve(callerID, key)
	notifications := m.params.DeleteParam(resolved)
	for _, n := range notifications {
		m.notify.ParamUpdate(n.CallerAPI, n.Key, n.Value)
	}
	return xmlrpc.Int(0), nil
}

// hasParam(caller_id, key) -> bool.
func (m *Master) hasParam(callerID string, args []xmlrpc.Value) (xmlrpc.Value, error) {
	fields, ok := argStrings(args, 1)
	if !ok {
		return xmlrpc.Value{}, roserr.Invalidf("hasParam expects (key)")
	}
	resolved := names.Resolve(callerID, fields[0])
	return xmlrpc.Bool(m.params.HasParam(resolved)), nil
}

// getParamNames(caller_id) -> every leaf key in the tree, depth-first.
func (m *Master) getParamNames(_ string, args []xmlrpc.Value) (xmlrpc.Value, error) {
	if len(args) != 0 {
		return xmlrpc.Value{}, roserr.Invalidf("getParamNames expects no arguments")
	}
	return stringsToValue(m.params.GetParamNames()), nil
}

// searchParam(caller_id, key) -> the fully-qualified name of the nearest
// enclosing namespace in which key exists (spec §4.3, §8 S6).
func (m *Master) searchParam(callerID string, args []xmlrpc.Value) (xmlrpc.Value, error) {
	fields, ok := argStrings(args, 1)
	if !ok {
		return xmlrpc.Value{}, roserr.Invalidf("searchParam expects (key)")
	}

	resolved, ok := m.params.SearchParam(callerID, fields[0])
	if !ok {
		return xmlrpc.Value{}, roserr.Invalidf("no such param %q", fields[0])
	}
	return xmlrpc.String(resolved), nil
}

// subscribeParam(caller_id, caller_api, key) -> the current value at key,
// or {} if absent (spec §4.3).
func (m *Master) subscribeParam(callerID string, args []xmlrpc.Value) (xmlrpc.Value, error) {
	fields, ok := argStrings(args, 2)
	if !ok {
		return xmlrpc.Value{}, roserr.Invalidf("subscribeParam expects (caller_api, key)")
	}
	callerAPI, key := fields[0], fields[1]
	if err := types.ValidateRegistration(callerID, callerAPI); err != nil {
		return xmlrpc.Value{}, roserr.Invalidf("%s", err)
	}

	resolved := names.Resolve(callerID, key)
	return m.params.SubscribeParam(callerID, callerAPI, resolved), nil
}

// unsubscribeParam(caller_id, caller_api, key) -> 1 if a subscription was
// removed, 0 otherwise.
func (m *Master) unsubscribeParam(callerID string, args []xmlrpc.Value) (xmlrpc.Value, error) {
	fields, ok := argStrings(args, 2)
	if !ok {
		return xmlrpc.Value{}, roserr.Invalidf("unsubscribeParam expects (caller_api, key)")
	}
	key := fields[1]

	resolved := names.Resolve(callerID, key)
	removed := m.params.UnsubscribeParam(callerID, resolved)
	return boolToValue(removed), nil
}
