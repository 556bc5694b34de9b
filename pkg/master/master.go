// Package master implements the master facade (spec §4.5): it owns the
// four registries, resolves every name against the caller's namespace
// before a registry ever sees it, and translates registry results into the
// [code, message, value] triple every ROS master-API and parameter-API
// method returns (spec §6, §7).
package master

import (
	"context"
	"fmt"
	"os"

	"github.com/cuemby/rosmaster/pkg/log"
	"github.com/cuemby/rosmaster/pkg/metrics"
	"github.com/cuemby/rosmaster/pkg/names"
	"github.com/cuemby/rosmaster/pkg/notifier"
	"github.com/cuemby/rosmaster/pkg/params"
	"github.com/cuemby/rosmaster/pkg/roserr"
	"github.com/cuemby/rosmaster/pkg/services"
	"github.com/cuemby/rosmaster/pkg/topics"
	"github.com/cuemby/rosmaster/pkg/types"
	"github.com/cuemby/rosmaster/pkg/xmlrpc"
)

// handler serves one ROS method once caller_id has been validated and
// stripped off; it receives the validated caller_id and the remaining args.
type handler func(callerID string, args []xmlrpc.Value) (xmlrpc.Value, error)

type Master struct {
	uri string
	pid int

	topics   *topics.Registry
	services *services.Registry
	params   *params.Registry
	notify   *notifier.Notifier

	handlers map[string]handler
}

// New constructs a master advertising uri as its own master-API endpoint
// (spec §5: "the master URI ... constructed once at startup").
func New(uri string) *Master {
	m := &Master{
		uri:      uri,
		pid:      os.Getpid(),
		topics:   topics.New(),
		services: services.New(),
		params:   params.New(),
		notify:   notifier.New(),
	}
	m.handlers = map[string]handler{
		"registerService":       m.registerService,
		"unregisterService":     m.unregisterService,
		"registerSubscriber":    m.registerSubscriber,
		"unregisterSubscriber":  m.unregisterSubscriber,
		"registerPublisher":     m.registerPublisher,
		"unregisterPublisher":   m.unregisterPublisher,
		"lookupNode":            m.lookupNode,
		"getPublishedTopics":    m.getPublishedTopics,
		"getTopicTypes":         m.getTopicTypes,
		"getSystemState":        m.getSystemState,
		"getUri":                m.getUri,
		"lookupService":         m.lookupService,
		"getPid":                m.getPid,
		"deleteParam":           m.deleteParam,
		"setParam":              m.setParam,
		"getParam":              m.getParam,
		"searchParam":           m.searchParam,
		"subscribeParam":        m.subscribeParam,
		"unsubscribeParam":      m.unsubscribeParam,
		"hasParam":              m.hasParam,
		"getParamNames":         m.getParamNames,
	}
	return m
}

// Dispatch implements xmlrpc.Dispatcher: it resolves the method, validates
// the universal caller_id argument, and packages whatever the handler
// returns as the master-API triple.
func (m *Master) Dispatch(ctx context.Context, method string, args []xmlrpc.Value, remoteAddr string) xmlrpc.Value {
	if method == "system.multicall" {
		return m.multicall(ctx, args, remoteAddr)
	}

	timer := metrics.NewTimer()
	result := triple(roserr.Invalid, "", xmlrpc.EmptyStruct())
	defer func() {
		timer.ObserveDurationVec(metrics.RPCRequestDuration, method)
		var code int64
		if elems, ok := result.AsArray(); ok && len(elems) > 0 {
			code, _ = elems[0].AsInt()
		}
		metrics.RPCRequestsTotal.WithLabelValues(method, fmt.Sprintf("%d", code)).Inc()
	}()

	h, ok := m.handlers[method]
	if !ok {
		log.WithMethod(method).Warn().Str("remote_addr", remoteAddr).Msg("unknown method")
		result = triple(roserr.Invalid, fmt.Sprintf("unknown method %q", method), xmlrpc.EmptyStruct())
		return result
	}

	if len(args) == 0 {
		result = triple(roserr.Invalid, "missing caller_id", xmlrpc.EmptyStruct())
		return result
	}
	callerID, ok := args[0].AsString()
	if !ok || !types.ValidCallerID(callerID) {
		result = triple(roserr.Invalid, "caller_id must be a non-empty string", xmlrpc.EmptyStruct())
		return result
	}

	logger := log.WithMethod(method)
	value, err := h(callerID, args[1:])
	if err != nil {
		logger.Debug().Str("caller_id", callerID).Err(err).Msg("call failed")
		result = triple(roserr.CodeOf(err), err.Error(), xmlrpc.EmptyStruct())
		return result
	}
	result = triple(roserr.Success, "", value)
	return result
}

func triple(code roserr.Code, msg string, value xmlrpc.Value) xmlrpc.Value {
	return xmlrpc.Array([]xmlrpc.Value{xmlrpc.Int(int(code)), xmlrpc.String(msg), value})
}

func boolToValue(b bool) xmlrpc.Value {
	if b {
		return xmlrpc.Int(1)
	}
	return xmlrpc.Int(0)
}

func stringsToValue(ss []string) xmlrpc.Value {
	vs := make([]xmlrpc.Value, len(ss))
	for i, s := range ss {
		vs[i] = xmlrpc.String(s)
	}
	return xmlrpc.Array(vs)
}

func argStrings(args []xmlrpc.Value, n int) ([]string, bool) {
	if len(args) != n {
		return nil, false
	}
	out := make([]string, n)
	for i, a := range args {
		s, ok := a.AsString()
		if !ok {
			return nil, false
		}
		out[i] = s
	}
	return out, true
}
