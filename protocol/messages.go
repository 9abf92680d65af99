package protocol

import (
	"encoding/json"
	"fmt"
)

// JSONRPCVersion is the JSON-RPC protocol version.
const JSONRPCVersion = "2.0"

// RequestID is a JSON-RPC request identifier. The wire format allows
// either a number or a string; both serialize as a bare scalar.
// RequestID is comparable and can be used as a map key, which is how
// the client correlates responses with outstanding requests.
type RequestID struct {
	num      int64
	str      string
	isString bool
	valid    bool
}

// NumberID returns a numeric request ID.
func NumberID(n int64) RequestID {
	return RequestID{num: n, valid: true}
}

// StringID returns a string request ID.
func StringID(s string) RequestID {
	return RequestID{str: s, isString: true, valid: true}
}

// IsValid reports whether the ID carries a value. The zero RequestID
// is invalid and marshals as JSON null.
func (id RequestID) IsValid() bool {
	return id.valid
}

// String returns the ID formatted for logging.
func (id RequestID) String() string {
	switch {
	case !id.valid:
		return "<none>"
	case id.isString:
		return id.str
	default:
		return fmt.Sprintf("%d", id.num)
	}
}

// MarshalJSON serializes the ID as a bare scalar, never wrapped.
func (id RequestID) MarshalJSON() ([]byte, error) {
	switch {
	case !id.valid:
		return []byte("null"), nil
	case id.isString:
		return json.Marshal(id.str)
	default:
		return json.Marshal(id.num)
	}
}

// UnmarshalJSON accepts a JSON number, string, or null.
func (id *RequestID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*id = RequestID{}
		return nil
	}

	var n int64
	if err := json.Unmarshal(data, &n); err == nil {
		*id = NumberID(n)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*id = StringID(s)
		return nil
	}

	return fmt.Errorf("request id must be a number or string, got %s", data)
}

// Message is a JSON-RPC message: a Request, Response, or Notification.
// Use DecodeMessage to discriminate inbound wire data by shape.
type Message interface {
	message()
}

func (*Request) message()      {}
func (*Response) message()     {}
func (*Notification) message() {}

// Request is a JSON-RPC 2.0 request. It carries an ID and expects
// exactly one Response in return.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      RequestID       `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// NewRequest creates a request with the given ID, method, and params.
// A nil params produces a request without a params member.
func NewRequest(id RequestID, method string, params any) (*Request, error) {
	var raw json.RawMessage
	if params != nil {
		var err error
		raw, err = json.Marshal(params)
		if err != nil {
			return nil, fmt.Errorf("marshal params for %s: %w", method, err)
		}
	}
	return &Request{
		JSONRPC: JSONRPCVersion,
		ID:      id,
		Method:  method,
		Params:  raw,
	}, nil
}

// Response is a JSON-RPC 2.0 response. Exactly one of Result or Error
// is set.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      RequestID       `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
}

// NewResponse creates a successful response carrying the given result.
func NewResponse(id RequestID, result any) (*Response, error) {
	raw, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return &Response{
		JSONRPC: JSONRPCVersion,
		ID:      id,
		Result:  raw,
	}, nil
}

// NewErrorResponse creates an error response.
func NewErrorResponse(id RequestID, err *Error) *Response {
	return &Response{
		JSONRPC: JSONRPCVersion,
		ID:      id,
		Error:   err,
	}
}

// DecodeResult unmarshals the result payload into v. Returns the
// response error if one is present.
func (r *Response) DecodeResult(v any) error {
	if r.Error != nil {
		return r.Error
	}
	if len(r.Result) == 0 {
		return fmt.Errorf("response %s has no result", r.ID)
	}
	if err := json.Unmarshal(r.Result, v); err != nil {
		return fmt.Errorf("decode result: %w", err)
	}
	return nil
}

// Notification is a JSON-RPC 2.0 notification. It has no ID and no
// response is expected.
type Notification struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// NewNotification creates a notification with the given method and params.
func NewNotification(method string, params any) (*Notification, error) {
	var raw json.RawMessage
	if params != nil {
		var err error
		raw, err = json.Marshal(params)
		if err != nil {
			return nil, fmt.Errorf("marshal params for %s: %w", method, err)
		}
	}
	return &Notification{
		JSONRPC: JSONRPCVersion,
		Method:  method,
		Params:  raw,
	}, nil
}

// EncodeMessage serializes a message to its JSON wire form.
func EncodeMessage(m Message) ([]byte, error) {
	return json.Marshal(m)
}

// DecodeMessage parses one wire message, discriminating by shape:
// id+method is a Request, id+result/error is a Response, and method
// without id is a Notification.
func DecodeMessage(data []byte) (Message, error) {
	var probe struct {
		JSONRPC string          `json:"jsonrpc"`
		ID      json.RawMessage `json:"id"`
		Method  string          `json:"method"`
		Params  json.RawMessage `json:"params"`
		Result  json.RawMessage `json:"result"`
		Error   *Error          `json:"error"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, NewParseError(err.Error())
	}

	hasID := len(probe.ID) > 0 && string(probe.ID) != "null"

	var id RequestID
	if hasID {
		if err := id.UnmarshalJSON(probe.ID); err != nil {
			return nil, NewInvalidRequest(err.Error())
		}
	}

	switch {
	case hasID && probe.Method != "":
		return &Request{
			JSONRPC: probe.JSONRPC,
			ID:      id,
			Method:  probe.Method,
			Params:  probe.Params,
		}, nil
	case hasID && (len(probe.Result) > 0 || probe.Error != nil):
		return &Response{
			JSONRPC: probe.JSONRPC,
			ID:      id,
			Result:  probe.Result,
			Error:   probe.Error,
		}, nil
	case !hasID && probe.Method != "":
		return &Notification{
			JSONRPC: probe.JSONRPC,
			Method:  probe.Method,
			Params:  probe.Params,
		}, nil
	default:
		return nil, NewInvalidRequest("message is neither request, response, nor notification")
	}
}
