package tools

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrUnknownTool is returned when a tool name is not present in the
// registry. Callers use it to tell a protocol violation by the model apart
// from a tool that ran and failed.
var ErrUnknownTool = errors.New("unknown tool")

// Tool is one entry of the catalog offered to the model.
type Tool interface {
	Name() string
	Description() string
	// Parameters returns the JSON schema of the tool's arguments, or nil
	// for tools that take none.
	Parameters() map[string]any
	Execute(ctx context.Context, args map[string]any) (any, error)
}

// Registry holds the fixed tool catalog. It is populated once at startup
// and read-only afterwards; List preserves registration order because the
// catalog is sent to the model verbatim.
type Registry struct {
	mu    sync.RWMutex
	order []string
	tools map[string]Tool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		tools: make(map[string]Tool),
	}
}

// Register adds a tool. Empty and duplicate names are rejected so a typo
// between catalog and execution map fails at startup, not mid-turn.
func (r *Registry) Register(tool Tool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := tool.Name()
	if name == "" {
		return fmt.Errorf("tool has empty name")
	}
	if _, exists := r.tools[name]; exists {
		return fmt.Errorf("tool %q already registered", name)
	}

	r.tools[name] = tool
	r.order = append(r.order, name)
	return nil
}

// Get retrieves a tool by name.
func (r *Registry) Get(name string) (Tool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tool, exists := r.tools[name]
	if !exists {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTool, name)
	}
	return tool, nil
}

// List returns all tools in registration order.
func (r *Registry) List() []Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Tool, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tools[name])
	}
	return out
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}

// Invoke executes the named tool with the given arguments. An unknown name
// returns ErrUnknownTool; any other error comes from the tool itself.
func (r *Registry) Invoke(ctx context.Context, name string, args map[string]any) (any, error) {
	tool, err := r.Get(name)
	if err != nil {
		return nil, err
	}

	out, err := tool.Execute(ctx, args)
	if err != nil {
		return nil, fmt.Errorf("tool %q failed: %w", name, err)
	}
	return out, nil
}
