package chat

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ShayonX/LLM-Playground/internal/responses"
	"github.com/ShayonX/LLM-Playground/internal/tools"
)

// DefaultFallbackAnswer replaces an empty final answer so the client never
// receives a silent stream.
const DefaultFallbackAnswer = "(no answer generated)"

// ModelStream is the event side of an open model turn.
type ModelStream interface {
	Events() <-chan *responses.Event
	Close() error
}

// ModelStreamer opens streaming turns against the hosted model.
type ModelStreamer interface {
	Stream(ctx context.Context, req responses.Request) (ModelStream, error)
}

type clientStreamer struct {
	client *responses.Client
}

func (s clientStreamer) Stream(ctx context.Context, req responses.Request) (ModelStream, error) {
	return s.client.Stream(ctx, req)
}

// NewClientStreamer adapts the wire client to the ModelStreamer interface.
func NewClientStreamer(client *responses.Client) ModelStreamer {
	return clientStreamer{client: client}
}

// RunOptions configures one orchestrated exchange.
type RunOptions struct {
	Reasoning responses.ReasoningParam
	// Framing turns on the kind-switch markers for chain-of-thought
	// endpoints.
	Framing bool
	// Fallback overrides DefaultFallbackAnswer when set.
	Fallback string
}

// Result is the aggregate outcome of one exchange.
type Result struct {
	Answer          string
	Reasoning       string
	ToolResults     []ToolResult
	FirstResponseID string
	SecondTurn      bool
}

// Orchestrator drives the two-turn tool protocol: a first turn carrying the
// tool catalog, then, when the model called tools, a feedback turn chained
// to the first via its response id and carrying every tool output.
type Orchestrator struct {
	model    string
	streamer ModelStreamer
	registry *tools.Registry
	executor *Executor
	pacing   time.Duration
}

// NewOrchestrator wires an orchestrator. pacing spaces out forwarded text
// deltas; pass zero to disable (tests do).
func NewOrchestrator(model string, streamer ModelStreamer, registry *tools.Registry, pacing time.Duration) *Orchestrator {
	return &Orchestrator{
		model:    model,
		streamer: streamer,
		registry: registry,
		executor: NewExecutor(registry),
		pacing:   pacing,
	}
}

// Run executes one full exchange for the given conversation input, emitting
// frames as the turns progress. On success the terminal done frame is the
// caller's responsibility; Run itself closes any open content section.
func (o *Orchestrator) Run(ctx context.Context, input []responses.InputItem, opts RunOptions, emit EmitFunc) (*Result, error) {
	first := newDecoder(o.executor, emit, decoderConfig{
		framing: opts.Framing,
		pacing:  o.pacing,
	})
	outcome, err := o.runTurn(ctx, responses.Request{
		Model:     o.model,
		Input:     input,
		Tools:     o.toolParams(),
		Reasoning: &opts.Reasoning,
		Stream:    true,
	}, first)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Answer:          outcome.AnswerText,
		Reasoning:       outcome.ReasoningText,
		ToolResults:     outcome.ToolResults,
		FirstResponseID: outcome.ResponseID,
	}
	contentStarted := first.ContentStarted()

	if len(outcome.ToolResults) > 0 && outcome.ResponseID != "" {
		if err := emit(Frame{Type: FrameStatus, Message: "Processing function results..."}); err != nil {
			return nil, err
		}

		feedback := make([]responses.InputItem, 0, len(outcome.ToolResults))
		for _, r := range outcome.ToolResults {
			feedback = append(feedback, responses.FunctionOutput(r.CallID, r.Output))
		}

		if err := emit(Frame{Type: FrameStatus, Message: "Generating final answer..."}); err != nil {
			return nil, err
		}

		// The feedback turn runs with a nil executor: parsing stray
		// function calls is fine, re-running side effects is not.
		second := newDecoder(nil, emit, decoderConfig{
			framing:       opts.Framing,
			pacing:        o.pacing,
			reasoningSeen: true,
			contentSeen:   contentStarted,
			createdSeen:   true,
		})
		finalOutcome, err := o.runTurn(ctx, responses.Request{
			Model:              o.model,
			Input:              feedback,
			PreviousResponseID: outcome.ResponseID,
			Reasoning:          &opts.Reasoning,
			Stream:             true,
		}, second)
		if err != nil {
			return nil, err
		}

		result.SecondTurn = true
		result.Answer = finalOutcome.AnswerText
		result.Reasoning += finalOutcome.ReasoningText
		contentStarted = second.ContentStarted()
	}

	if result.Answer == "" {
		fallback := opts.Fallback
		if fallback == "" {
			fallback = DefaultFallbackAnswer
		}
		if opts.Framing && !contentStarted {
			if err := emit(Frame{Type: FrameContentStart}); err != nil {
				return nil, err
			}
		}
		if err := emit(Frame{Type: FrameContent, Content: fallback}); err != nil {
			return nil, err
		}
		result.Answer = fallback
		contentStarted = true
	}

	if opts.Framing && contentStarted {
		if err := emit(Frame{Type: FrameContentEnd}); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (o *Orchestrator) runTurn(ctx context.Context, req responses.Request, dec *Decoder) (*TurnOutcome, error) {
	stream, err := o.streamer.Stream(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("opening model turn: %w", err)
	}
	outcome, runErr := dec.Run(ctx, stream.Events())
	closeErr := stream.Close()
	if runErr != nil {
		return nil, runErr
	}
	// Close cancels the reader, so its own cancellation is not a failure.
	if closeErr != nil && !errors.Is(closeErr, context.Canceled) {
		return nil, fmt.Errorf("model stream failed: %w", closeErr)
	}
	return outcome, nil
}

func (o *Orchestrator) toolParams() []responses.ToolParam {
	list := o.registry.List()
	params := make([]responses.ToolParam, 0, len(list))
	for _, t := range list {
		params = append(params, responses.ToolParam{
			Type:        "function",
			Name:        t.Name(),
			Description: t.Description(),
			Parameters:  t.Parameters(),
		})
	}
	return params
}
