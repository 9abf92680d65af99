package server

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/toolwire/mcp-go/protocol"
	"github.com/toolwire/mcp-go/schema"
)

// Tool is a callable function exposed over the protocol. Implement it
// directly for full control, or use the builder on Server for typed
// handlers with generated schemas.
type Tool interface {
	Name() string
	Description() string
	InputSchema() any
	// Execute runs the tool. A returned error marks the request itself
	// as bad (it becomes a JSON-RPC error); a tool that ran and failed
	// reports that through the result instead.
	Execute(ctx context.Context, input ToolInput) (ToolResult, error)
}

// ToolInput wraps the raw JSON arguments of a tool call.
type ToolInput struct {
	raw json.RawMessage
}

// NewToolInput wraps raw JSON arguments.
func NewToolInput(raw json.RawMessage) ToolInput {
	return ToolInput{raw: raw}
}

// Raw returns the arguments as received. Absent arguments decode as an
// empty object.
func (in ToolInput) Raw() json.RawMessage {
	if len(in.raw) == 0 {
		return json.RawMessage("{}")
	}
	return in.raw
}

// Decode unmarshals the arguments into v.
func (in ToolInput) Decode(v any) error {
	return json.Unmarshal(in.Raw(), v)
}

// ToolResult is the outcome of a tool execution. A failed execution is
// still a successful RPC exchange; Err carries the failure message
// reported to the model.
type ToolResult struct {
	Success bool
	Output  any
	Err     string
}

// SuccessResult returns a successful result carrying output.
func SuccessResult(output any) ToolResult {
	return ToolResult{Success: true, Output: output}
}

// FailureResult returns a failed result with the given message.
func FailureResult(msg string) ToolResult {
	return ToolResult{Err: msg}
}

// typedTool adapts a reflect-validated handler function to the Tool
// interface. Its input schema is generated from the handler's
// parameter type.
type typedTool struct {
	name          string
	description   string
	inputType     reflect.Type
	inputSchema   *schema.Schema
	validateInput bool
	handler       any
	hasContext    bool
}

func (t *typedTool) Name() string        { return t.name }
func (t *typedTool) Description() string { return t.description }
func (t *typedTool) InputSchema() any    { return t.inputSchema }

func (t *typedTool) Execute(ctx context.Context, input ToolInput) (ToolResult, error) {
	raw := input.Raw()

	if t.validateInput && t.inputSchema != nil {
		if err := t.inputSchema.Validate(raw); err != nil {
			return ToolResult{}, protocol.NewInvalidParams(fmt.Sprintf("input validation failed: %v", err))
		}
	}

	inputPtr := reflect.New(t.inputType)
	if err := json.Unmarshal(raw, inputPtr.Interface()); err != nil {
		return ToolResult{}, protocol.NewInvalidParams(fmt.Sprintf("failed to parse input: %v", err))
	}

	fnVal := reflect.ValueOf(t.handler)
	var args []reflect.Value
	if t.hasContext {
		args = append(args, reflect.ValueOf(ctx))
	}
	args = append(args, inputPtr.Elem())

	results := fnVal.Call(args)

	if errVal := results[1].Interface(); errVal != nil {
		return FailureResult(errVal.(error).Error()), nil
	}
	return SuccessResult(results[0].Interface()), nil
}

// ToolBuilder provides a fluent API for building typed tools.
type ToolBuilder struct {
	tool   *typedTool
	server *Server
	err    error
}

// Description sets the tool description.
func (b *ToolBuilder) Description(desc string) *ToolBuilder {
	if b.err != nil {
		return b
	}
	b.tool.description = desc
	return b
}

// ValidateInput enables schema validation of tool arguments before the
// handler runs. Invalid input fails the call with InvalidParams.
func (b *ToolBuilder) ValidateInput() *ToolBuilder {
	if b.err != nil {
		return b
	}
	b.tool.validateInput = true
	return b
}

// Handler sets the tool handler and registers the tool.
// Handler signature must be one of:
//   - func(input T) (R, error)
//   - func(ctx context.Context, input T) (R, error)
func (b *ToolBuilder) Handler(fn any) *ToolBuilder {
	if b.err != nil {
		return b
	}

	if err := b.validateHandler(fn); err != nil {
		b.err = err
		return b
	}

	b.tool.handler = fn
	b.server.RegisterTool(b.tool)
	return b
}

// Err returns the first error encountered while building, if any.
func (b *ToolBuilder) Err() error {
	return b.err
}

func (b *ToolBuilder) validateHandler(fn any) error {
	fnType := reflect.TypeOf(fn)

	if fnType == nil || fnType.Kind() != reflect.Func {
		return fmt.Errorf("handler must be a function, got %v", fnType)
	}

	numIn := fnType.NumIn()
	if numIn < 1 || numIn > 2 {
		return fmt.Errorf("handler must have 1 or 2 parameters, got %d", numIn)
	}

	var inputParamIdx int
	if numIn == 2 {
		if !fnType.In(0).Implements(reflect.TypeOf((*context.Context)(nil)).Elem()) {
			return fmt.Errorf("first parameter must be context.Context when using 2 parameters")
		}
		b.tool.hasContext = true
		inputParamIdx = 1
	}

	inputType := fnType.In(inputParamIdx)
	if inputType.Kind() == reflect.Ptr {
		inputType = inputType.Elem()
	}
	b.tool.inputType = inputType

	inputSchema, err := schema.GenerateFromType(inputType)
	if err != nil {
		return fmt.Errorf("failed to generate input schema: %w", err)
	}
	b.tool.inputSchema = inputSchema

	if fnType.NumOut() != 2 {
		return fmt.Errorf("handler must return (result, error), got %d return values", fnType.NumOut())
	}
	errType := reflect.TypeOf((*error)(nil)).Elem()
	if !fnType.Out(1).Implements(errType) {
		return fmt.Errorf("second return value must be error")
	}

	return nil
}
