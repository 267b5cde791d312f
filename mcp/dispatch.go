package mcp

import (
	"encoding/json"
	"strings"
)

// Dispatcher turns one inbound message unit into at most one outbound unit.
// It holds only the shared registry and immutable negotiation constants, so a
// single instance serves concurrent sessions; all mutable state lives in the
// session that owns the transport.
type Dispatcher struct {
	registry        *Registry
	protocolVersion string
	capabilities    Capabilities
	info            ServerInfo
}

// NewDispatcher builds a dispatcher over the given registry and negotiation
// constants. None of the fields change after construction.
func NewDispatcher(registry *Registry, protocolVersion string, capabilities Capabilities, info ServerInfo) *Dispatcher {
	return &Dispatcher{
		registry:        registry,
		protocolVersion: protocolVersion,
		capabilities:    capabilities,
		info:            info,
	}
}

// Dispatch handles one raw message unit. The boolean reports whether a
// response unit must be written back; notifications and id-less requests
// never produce output, whatever their outcome. Input that cannot be parsed
// into an envelope is answered with a ParseError response carrying id null.
func (d *Dispatcher) Dispatch(raw []byte) ([]byte, bool) {
	var req Request
	if err := json.Unmarshal(raw, &req); err != nil {
		return marshalResponse(errParse(err))
	}

	resp := d.handle(&req)
	if resp == nil || req.IsNotification() {
		return nil, false
	}
	return marshalResponse(resp)
}

func (d *Dispatcher) handle(req *Request) *Response {
	switch {
	case req.Method == "initialize":
		return ok(req.ID, InitializeResult{
			ProtocolVersion: d.protocolVersion,
			Capabilities:    d.capabilities,
			ServerInfo:      d.info,
		})
	case req.Method == "tools/list":
		return ok(req.ID, ListToolsResult{Tools: d.registry.List()})
	case req.Method == "tools/call":
		return d.callTool(req)
	case strings.HasPrefix(req.Method, "notifications/"):
		// Never answered, with or without an id.
		return nil
	default:
		return errMethodNotFound(req.ID, req.Method)
	}
}

func (d *Dispatcher) callTool(req *Request) *Response {
	var params CallToolParams
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return errInvalidParams(req.ID, "Invalid parameters: params must be a JSON object")
		}
	}

	// A present arguments member must be an object; null decodes into a nil
	// map and is rejected like any other non-object value.
	var args map[string]any
	if len(params.Arguments) > 0 {
		if err := json.Unmarshal(params.Arguments, &args); err != nil || args == nil {
			return errInvalidParams(req.ID, "Invalid parameters: arguments must be a JSON object")
		}
	}

	blocks, terr := d.registry.Invoke(params.Name, args)
	if terr != nil {
		switch terr.Kind {
		case ToolNotFound:
			return rpcErr(req.ID, CodeMethodNotFound, terr.Message, nil)
		case ToolInvalidParams:
			return errInvalidParams(req.ID, terr.Message)
		default:
			return errToolExecution(req.ID, terr.Message)
		}
	}
	return ok(req.ID, CallToolResult{Content: blocks})
}

func marshalResponse(resp *Response) ([]byte, bool) {
	out, err := json.Marshal(resp)
	if err != nil {
		out, _ = json.Marshal(rpcErr(resp.ID, CodeInternalError, "Internal error: "+err.Error(), nil))
	}
	return out, true
}
