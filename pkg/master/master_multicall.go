package master

import (
	"context"
	"fmt"

	"github.com/cuemby/rosmaster/pkg/roserr"
	"github.com/cuemby/rosmaster/pkg/xmlrpc"
)

// multicall implements system.multicall: a batch of {methodName, params}
// structs executed in order, each yielding one entry in the result array —
// a one-element array wrapping the call's own triple on success, or a
// fault struct if the batch entry itself is malformed. One bad entry never
// aborts the rest of the batch (spec §6, §8 property 8).
func (m *Master) multicall(ctx context.Context, args []xmlrpc.Value, remoteAddr string) xmlrpc.Value {
	if len(args) != 1 {
		return triple(roserr.Success, "", xmlrpc.Array(nil))
	}
	calls, ok := args[0].AsArray()
	if !ok {
		return triple(roserr.Success, "", xmlrpc.Array(nil))
	}

	results := make([]xmlrpc.Value, len(calls))
	for i, call := range calls {
		results[i] = m.multicallOne(ctx, call, remoteAddr)
	}
	return triple(roserr.Success, "", xmlrpc.Array(results))
}

func (m *Master) multicallOne(ctx context.Context, call xmlrpc.Value, remoteAddr string) xmlrpc.Value {
	fields, ok := call.AsStruct()
	if !ok {
		return xmlrpc.MulticallFault(-1, "multicall entry must be a struct")
	}
	methodField, ok := fields["methodName"]
	if !ok {
		return xmlrpc.MulticallFault(-1, "multicall entry missing methodName")
	}
	method, ok := methodField.AsString()
	if !ok {
		return xmlrpc.MulticallFault(-1, fmt.Sprintf("methodName must be a string, got %s", methodField.String_()))
	}
	paramsField, ok := fields["params"]
	if !ok {
		return xmlrpc.MulticallFault(-1, "multicall entry missing params")
	}
	params, ok := paramsField.AsArray()
	if !ok {
		return xmlrpc.MulticallFault(-1, fmt.Sprintf("params must be an array, got %s", paramsField.String_()))
	}

	return xmlrpc.MulticallSuccess(m.Dispatch(ctx, method, params, remoteAddr))
}
