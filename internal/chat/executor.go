package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
)

// ToolInvoker resolves and runs a named tool. *tools.Registry satisfies it.
type ToolInvoker interface {
	Invoke(ctx context.Context, name string, args map[string]any) (any, error)
}

// Executor turns finalized tool calls into serialized results. Every failure
// mode, including unknown tools and unparseable arguments, is folded into an
// error-shaped result so the model always receives feedback for each call
// it made.
type Executor struct {
	invoker ToolInvoker
}

// NewExecutor wraps an invoker (usually the tool registry).
func NewExecutor(invoker ToolInvoker) *Executor {
	return &Executor{invoker: invoker}
}

// Execute runs one call and never returns a Go error: the outcome, success
// or failure, is the result payload itself.
func (e *Executor) Execute(ctx context.Context, call *PendingToolCall) ToolResult {
	args, err := parseArguments(call.Arguments())
	if err != nil {
		log.Printf("chat: invalid arguments for %s: %v", call.Name, err)
		return errorResult(call, fmt.Sprintf("invalid arguments for %s: %v", call.Name, err))
	}

	out, err := e.invoker.Invoke(ctx, call.Name, args)
	if err != nil {
		log.Printf("chat: tool %s failed: %v", call.Name, err)
		return errorResult(call, err.Error())
	}

	payload, err := json.Marshal(out)
	if err != nil {
		log.Printf("chat: tool %s returned unserializable output: %v", call.Name, err)
		return errorResult(call, fmt.Sprintf("unserializable result from %s: %v", call.Name, err))
	}

	return ToolResult{CallID: call.CallID, Name: call.Name, Output: string(payload)}
}

// parseArguments decodes the model's argument text. An empty buffer means a
// zero-argument call, not a malformed one.
func parseArguments(text string) (map[string]any, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return map[string]any{}, nil
	}
	var args map[string]any
	if err := json.Unmarshal([]byte(trimmed), &args); err != nil {
		return nil, fmt.Errorf("decoding argument JSON: %w", err)
	}
	if args == nil {
		args = map[string]any{}
	}
	return args, nil
}

func errorResult(call *PendingToolCall, msg string) ToolResult {
	payload, err := json.Marshal(map[string]string{"error": msg})
	if err != nil {
		payload = []byte(`{"error": "tool execution failed"}`)
	}
	return ToolResult{CallID: call.CallID, Name: call.Name, Output: string(payload), IsError: true}
}
