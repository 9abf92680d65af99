package protocol

import (
	"encoding/json"
	"testing"
)

func TestRequestID_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		id   RequestID
		wire string
	}{
		{
			name: "numeric id",
			id:   NumberID(42),
			wire: `42`,
		},
		{
			name: "string id",
			id:   StringID("req-abc"),
			wire: `"req-abc"`,
		},
		{
			name: "zero id is null",
			id:   RequestID{},
			wire: `null`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.id)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			if string(data) != tt.wire {
				t.Errorf("marshal = %s, want %s", data, tt.wire)
			}

			var got RequestID
			if err := json.Unmarshal(data, &got); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if got != tt.id {
				t.Errorf("round trip = %v, want %v", got, tt.id)
			}
		})
	}
}

func TestRequestID_UnmarshalInvalid(t *testing.T) {
	var id RequestID
	if err := json.Unmarshal([]byte(`{"nested":1}`), &id); err == nil {
		t.Error("expected error for object id, got nil")
	}
	if err := json.Unmarshal([]byte(`[1]`), &id); err == nil {
		t.Error("expected error for array id, got nil")
	}
}

func TestRequestID_MapKey(t *testing.T) {
	m := map[RequestID]string{
		NumberID(1):    "one",
		StringID("1"):  "string one",
		StringID("xy"): "xy",
	}

	if m[NumberID(1)] != "one" {
		t.Error("numeric key lookup failed")
	}
	if m[StringID("1")] != "string one" {
		t.Error("string key lookup failed")
	}
	// Number 1 and string "1" are distinct variants.
	if len(m) != 3 {
		t.Errorf("map has %d entries, want 3", len(m))
	}
}

func TestDecodeMessage(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string // "request", "response", "notification"
		wantErr bool
	}{
		{
			name:  "request with numeric id",
			input: `{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"search"}}`,
			want:  "request",
		},
		{
			name:  "request with string id",
			input: `{"jsonrpc":"2.0","id":"abc-123","method":"tools/list"}`,
			want:  "request",
		},
		{
			name:  "response with result",
			input: `{"jsonrpc":"2.0","id":1,"result":{"tools":[]}}`,
			want:  "response",
		},
		{
			name:  "response with error",
			input: `{"jsonrpc":"2.0","id":7,"error":{"code":-32601,"message":"method not found: x"}}`,
			want:  "response",
		},
		{
			name:  "notification",
			input: `{"jsonrpc":"2.0","method":"notifications/initialized","params":{}}`,
			want:  "notification",
		},
		{
			name:    "invalid json",
			input:   `{invalid}`,
			wantErr: true,
		},
		{
			name:    "no method no result",
			input:   `{"jsonrpc":"2.0","id":1}`,
			wantErr: true,
		},
		{
			name:    "empty object",
			input:   `{}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := DecodeMessage([]byte(tt.input))

			if tt.wantErr {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			var got string
			switch msg.(type) {
			case *Request:
				got = "request"
			case *Response:
				got = "response"
			case *Notification:
				got = "notification"
			}
			if got != tt.want {
				t.Errorf("decoded %s, want %s", got, tt.want)
			}
		})
	}
}

func TestMessage_EncodeDecodeRoundTrip(t *testing.T) {
	req, err := NewRequest(NumberID(5), "tools/call", map[string]any{"name": "echo"})
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	resp, err := NewResponse(StringID("s-1"), map[string]any{"ok": true})
	if err != nil {
		t.Fatalf("NewResponse: %v", err)
	}
	notif, err := NewNotification("notifications/initialized", map[string]any{})
	if err != nil {
		t.Fatalf("NewNotification: %v", err)
	}

	tests := []struct {
		name string
		msg  Message
	}{
		{name: "request", msg: req},
		{name: "response", msg: resp},
		{name: "notification", msg: notif},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := EncodeMessage(tt.msg)
			if err != nil {
				t.Fatalf("encode: %v", err)
			}

			got, err := DecodeMessage(data)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}

			reencoded, err := EncodeMessage(got)
			if err != nil {
				t.Fatalf("re-encode: %v", err)
			}
			if string(reencoded) != string(data) {
				t.Errorf("round trip = %s, want %s", reencoded, data)
			}
		})
	}
}

func TestResponse_ResultErrorExclusive(t *testing.T) {
	ok, err := NewResponse(NumberID(1), map[string]string{"status": "ok"})
	if err != nil {
		t.Fatalf("NewResponse: %v", err)
	}
	if ok.Error != nil {
		t.Error("success response has error set")
	}
	if len(ok.Result) == 0 {
		t.Error("success response has no result")
	}

	fail := NewErrorResponse(NumberID(1), NewInternalError("boom"))
	if fail.Error == nil {
		t.Error("error response has no error")
	}
	if len(fail.Result) != 0 {
		t.Error("error response has result set")
	}
}

func TestResponse_DecodeResult(t *testing.T) {
	resp, err := NewResponse(NumberID(1), ListToolsResult{
		Tools: []ToolDescriptor{{Name: "Echo", Description: "echoes"}},
	})
	if err != nil {
		t.Fatalf("NewResponse: %v", err)
	}

	var got ListToolsResult
	if err := resp.DecodeResult(&got); err != nil {
		t.Fatalf("DecodeResult: %v", err)
	}
	if len(got.Tools) != 1 || got.Tools[0].Name != "Echo" {
		t.Errorf("decoded tools = %+v", got.Tools)
	}

	fail := NewErrorResponse(NumberID(2), NewInvalidParams("bad"))
	var out map[string]any
	if err := fail.DecodeResult(&out); err == nil {
		t.Error("DecodeResult on error response should fail")
	}
}

func TestToolContent_Variants(t *testing.T) {
	tests := []struct {
		name    string
		content ToolContent
		wire    string
	}{
		{
			name:    "text",
			content: TextContent("hello"),
			wire:    `{"type":"text","text":"hello"}`,
		},
		{
			name:    "image",
			content: ImageContent("aGk=", "image/png"),
			wire:    `{"type":"image","data":"aGk=","mimeType":"image/png"}`,
		},
		{
			name:    "resource",
			content: ResourceContent("file:///tmp/x"),
			wire:    `{"type":"resource","uri":"file:///tmp/x"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.content)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			if string(data) != tt.wire {
				t.Errorf("marshal = %s, want %s", data, tt.wire)
			}

			var got ToolContent
			if err := json.Unmarshal(data, &got); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if got != tt.content {
				t.Errorf("round trip = %+v, want %+v", got, tt.content)
			}
		})
	}
}
