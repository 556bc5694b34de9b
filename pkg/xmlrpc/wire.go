package xmlrpc

import (
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"io"
	"time"
)

// xmlValue mirrors the XML-RPC <value> element. Only one field is set at a
// time except Raw, which is the legacy bare-string form <value>foo</value>
// with no type wrapper.
type xmlValue struct {
	Int      *string    `xml:"int"`
	I4       *string    `xml:"i4"`
	Double   *string    `xml:"double"`
	Boolean  *string    `xml:"boolean"`
	String   *string    `xml:"string"`
	DateTime *string    `xml:"dateTime.iso8601"`
	Base64   *string    `xml:"base64"`
	Array    *xmlArray  `xml:"array"`
	Struct   *xmlStruct `xml:"struct"`
	Raw      string     `xml:",chardata"`
}

type xmlArray struct {
	Data []xmlValue `xml:"data>value"`
}

type xmlStruct struct {
	Members []xmlMember `xml:"member"`
}

type xmlMember struct {
	Name  string   `xml:"name"`
	Value xmlValue `xml:"value"`
}

type xmlMethodCall struct {
	XMLName    xml.Name   `xml:"methodCall"`
	MethodName string     `xml:"methodName"`
	Params     []xmlValue `xml:"params>param>value"`
}

type xmlMethodResponse struct {
	XMLName xml.Name    `xml:"methodResponse"`
	Params  []xmlValue  `xml:"params>param>value"`
	Fault   *xmlValue   `xml:"fault>value"`
}

func toXML(v Value) xmlValue {
	switch v.kind {
	case KindInt:
		s := fmt.Sprintf("%d", v.i)
		return xmlValue{Int: &s}
	case KindDouble:
		s := fmt.Sprintf("%g", v.f)
		return xmlValue{Double: &s}
	case KindBool:
		s := "0"
		if v.b {
			s = "1"
		}
		return xmlValue{Boolean: &s}
	case KindString:
		return xmlValue{String: &v.s}
	case KindDateTime:
		s := v.t.Format(iso8601Layout)
		return xmlValue{DateTime: &s}
	case KindBase64:
		s := base64.StdEncoding.EncodeToString(v.bin)
		return xmlValue{Base64: &s}
	case KindArray:
		data := make([]xmlValue, len(v.arr))
		for i, e := range v.arr {
			data[i] = toXML(e)
		}
		return xmlValue{Array: &xmlArray{Data: data}}
	case KindStruct:
		members := make([]xmlMember, 0, len(v.fields))
		for name, fv := range v.fields {
			members = append(members, xmlMember{Name: name, Value: toXML(fv)})
		}
		return xmlValue{Struct: &xmlStruct{Members: members}}
	default:
		s := ""
		return xmlValue{String: &s}
	}
}

func fromXML(x xmlValue) (Value, error) {
	switch {
	case x.Int != nil:
		return parseInt(*x.Int)
	case x.I4 != nil:
		return parseInt(*x.I4)
	case x.Double != nil:
		var f float64
		if _, err := fmt.Sscanf(*x.Double, "%g", &f); err != nil {
			return Value{}, fmt.Errorf("xmlrpc: invalid double %q: %w", *x.Double, err)
		}
		return Double(f), nil
	case x.Boolean != nil:
		return Bool(*x.Boolean == "1" || *x.Boolean == "true"), nil
	case x.String != nil:
		return String(*x.String), nil
	case x.DateTime != nil:
		t, err := time.Parse(iso8601Layout, *x.DateTime)
		if err != nil {
			return Value{}, fmt.Errorf("xmlrpc: invalid dateTime.iso8601 %q: %w", *x.DateTime, err)
		}
		return DateTime(t), nil
	case x.Base64 != nil:
		b, err := base64.StdEncoding.DecodeString(*x.Base64)
		if err != nil {
			return Value{}, fmt.Errorf("xmlrpc: invalid base64: %w", err)
		}
		return Base64(b), nil
	case x.Array != nil:
		vs := make([]Value, len(x.Array.Data))
		for i, d := range x.Array.Data {
			v, err := fromXML(d)
			if err != nil {
				return Value{}, err
			}
			vs[i] = v
		}
		return Array(vs), nil
	case x.Struct != nil:
		fields := make(map[string]Value, len(x.Struct.Members))
		for _, m := range x.Struct.Members {
			v, err := fromXML(m.Value)
			if err != nil {
				return Value{}, err
			}
			fields[m.Name] = v
		}
		return Struct(fields), nil
	default:
		// Bare <value>text</value>, XML-RPC's implicit string form.
		return String(x.Raw), nil
	}
}

func parseInt(s string) (Value, error) {
	var n int64
	if _, err := fmt.Sscanf(s, "%d", &n); err != nil {
		return Value{}, fmt.Errorf("xmlrpc: invalid int %q: %w", s, err)
	}
	return Int64(n), nil
}

// DecodeCall parses an XML-RPC methodCall body.
func DecodeCall(r io.Reader) (method string, params []Value, err error) {
	var call xmlMethodCall
	if err = xml.NewDecoder(r).Decode(&call); err != nil {
		return "", nil, fmt.Errorf("xmlrpc: decode methodCall: %w", err)
	}
	params = make([]Value, len(call.Params))
	for i, p := range call.Params {
		v, err := fromXML(p)
		if err != nil {
			return "", nil, err
		}
		params[i] = v
	}
	return call.MethodName, params, nil
}

// EncodeCall renders an XML-RPC methodCall body, used by the notifier to
// push publisherUpdate/paramUpdate to a subscriber's caller-API.
func EncodeCall(method string, params []Value) ([]byte, error) {
	call := xmlMethodCall{MethodName: method}
	call.Params = make([]xmlValue, len(params))
	for i, p := range params {
		call.Params[i] = toXML(p)
	}
	out, err := xml.Marshal(call)
	if err != nil {
		return nil, fmt.Errorf("xmlrpc: encode methodCall: %w", err)
	}
	return append([]byte(xml.Header), out...), nil
}

// EncodeResponse renders a successful XML-RPC methodResponse with a single
// param — the master API always replies with exactly one param: the
// [code, message, value] triple packaged as an array (spec §6).
func EncodeResponse(value Value) ([]byte, error) {
	resp := xmlMethodResponse{Params: []xmlValue{toXML(value)}}
	out, err := xml.Marshal(resp)
	if err != nil {
		return nil, fmt.Errorf("xmlrpc: encode methodResponse: %w", err)
	}
	return append([]byte(xml.Header), out...), nil
}

// EncodeFault renders a genuine XML-RPC <fault>, reserved for requests the
// dispatcher never gets to see or whose result cannot be sent (unreadable
// body, XML parse failure, unencodable response) — every application-level
// failure is instead reported through the normal [code, message, value]
// triple.
func EncodeFault(code int, message string) ([]byte, error) {
	faultVal := Struct(map[string]Value{
		"faultCode":   Int(code),
		"faultString": String(message),
	})
	x := toXML(faultVal)
	resp := xmlMethodResponse{Fault: &x}
	out, err := xml.Marshal(resp)
	if err != nil {
		return nil, fmt.Errorf("xmlrpc: encode fault: %w", err)
	}
	return append([]byte(xml.Header), out...), nil
}

// DecodeResponse parses an XML-RPC methodResponse, returning the single
// result value or an error built from the fault struct.
func DecodeResponse(r io.Reader) (Value, error) {
	var resp xmlMethodResponse
	if err := xml.NewDecoder(r).Decode(&resp); err != nil {
		return Value{}, fmt.Errorf("xmlrpc: decode methodResponse: %w", err)
	}
	if resp.Fault != nil {
		fv, err := fromXML(*resp.Fault)
		if err != nil {
			return Value{}, err
		}
		fields, _ := fv.AsStruct()
		msg := "xmlrpc fault"
		if s, ok := fields["faultString"]; ok {
			if str, ok := s.AsString(); ok {
				msg = str
			}
		}
		return Value{}, fmt.Errorf("xmlrpc: %s", msg)
	}
	if len(resp.Params) == 0 {
		return Value{}, fmt.Errorf("xmlrpc: methodResponse has no params")
	}
	return fromXML(resp.Params[0])
}

// MulticallSuccess wraps a call's triple result the way system.multicall
// requires: an array containing exactly the one return value.
func MulticallSuccess(triple Value) Value {
	return Array([]Value{triple})
}

// MulticallFault builds the struct system.multicall uses to report that one
// call in the batch failed, without aborting the rest (spec §6, §8 S8).
func MulticallFault(code int, message string) Value {
	return Struct(map[string]Value{
		"faultCode":   Int(code),
		"faultString": String(message),
	})
}
