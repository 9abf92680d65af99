package schema

import (
	"encoding/json"
	"testing"
)

func TestGenerate_Scalars(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"string", "", "string"},
		{"int", 0, "integer"},
		{"int64", int64(0), "integer"},
		{"float", 0.0, "number"},
		{"bool", false, "boolean"},
		{"map", map[string]any{}, "object"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Generate(tt.value)
			if err != nil {
				t.Fatalf("Generate() error = %v", err)
			}
			if s.Type != tt.want {
				t.Errorf("Type = %q, want %q", s.Type, tt.want)
			}
		})
	}
}

func TestGenerate_Struct(t *testing.T) {
	type input struct {
		Message string `json:"message" jsonschema:"required,description=Text to echo"`
		Repeat  int    `json:"repeat,omitempty" jsonschema:"minimum=1,maximum=10"`
		Mode    string `json:"mode" jsonschema:"enum=plain|loud"`
		Skip    string `json:"-"`
		hidden  int
	}
	_ = input{hidden: 0}

	s, err := Generate(input{})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if s.Type != "object" {
		t.Fatalf("Type = %q, want object", s.Type)
	}
	if len(s.Properties) != 3 {
		t.Errorf("got %d properties, want 3: %v", len(s.Properties), s.Properties)
	}
	if _, ok := s.Properties["Skip"]; ok {
		t.Error("json:\"-\" field was included")
	}

	msg := s.Properties["message"]
	if msg == nil || msg.Type != "string" || msg.Description != "Text to echo" {
		t.Errorf("message schema = %+v", msg)
	}
	if len(s.Required) != 1 || s.Required[0] != "message" {
		t.Errorf("Required = %v, want [message]", s.Required)
	}

	repeat := s.Properties["repeat"]
	if repeat == nil || repeat.Minimum == nil || *repeat.Minimum != 1 {
		t.Errorf("repeat minimum = %+v, want 1", repeat)
	}
	if repeat.Maximum == nil || *repeat.Maximum != 10 {
		t.Errorf("repeat maximum = %+v, want 10", repeat)
	}

	mode := s.Properties["mode"]
	if mode == nil || len(mode.Enum) != 2 {
		t.Fatalf("mode enum = %+v, want 2 values", mode)
	}
	if mode.Enum[0] != "plain" || mode.Enum[1] != "loud" {
		t.Errorf("mode enum = %v, want [plain loud]", mode.Enum)
	}
}

func TestGenerate_NestedAndArrays(t *testing.T) {
	type inner struct {
		Name string `json:"name"`
	}
	type outer struct {
		Items []inner  `json:"items"`
		Tags  []string `json:"tags"`
	}

	s, err := Generate(outer{})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	items := s.Properties["items"]
	if items == nil || items.Type != "array" || items.Items == nil || items.Items.Type != "object" {
		t.Errorf("items schema = %+v", items)
	}
	tags := s.Properties["tags"]
	if tags == nil || tags.Type != "array" || tags.Items == nil || tags.Items.Type != "string" {
		t.Errorf("tags schema = %+v", tags)
	}
}

func TestSchema_MarshalsDeterministically(t *testing.T) {
	type input struct {
		Name string `json:"name" jsonschema:"required"`
	}

	s, err := Generate(input{})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	want := `{"type":"object","properties":{"name":{"type":"string"}},"required":["name"]}`
	if string(data) != want {
		t.Errorf("schema JSON = %s, want %s", data, want)
	}
}
