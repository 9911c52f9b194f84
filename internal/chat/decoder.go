package chat

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/ShayonX/LLM-Playground/internal/responses"
)

// decoderState tracks where a turn is in its lifecycle.
type decoderState int

const (
	stateAwaitingStart decoderState = iota
	stateStreaming
	stateCompleted
)

// PendingToolCall accumulates a function call announced by the model while
// its argument deltas are still arriving. CallID is the stable key the model
// expects back with the tool's output; ItemID only identifies the output
// item within one turn.
type PendingToolCall struct {
	ItemID string
	CallID string
	Name   string

	args      strings.Builder
	finalized bool
}

// Arguments returns the argument text collected so far.
func (c *PendingToolCall) Arguments() string { return c.args.String() }

// setArguments replaces the accumulated text with the authoritative value
// from an arguments-done event.
func (c *PendingToolCall) setArguments(full string) {
	c.args.Reset()
	c.args.WriteString(full)
}

// ToolResult is the outcome of executing one finalized tool call.
type ToolResult struct {
	CallID  string
	Name    string
	Output  string
	IsError bool
}

// TurnOutcome is everything a completed turn produced.
type TurnOutcome struct {
	ResponseID    string
	ReasoningText string
	AnswerText    string
	ToolResults   []ToolResult
}

// CallExecutor runs a finalized tool call. A nil executor tells the decoder
// to parse calls without running them (used on the feedback turn, which must
// never trigger side effects a second time).
type CallExecutor interface {
	Execute(ctx context.Context, call *PendingToolCall) ToolResult
}

// decoderConfig tunes one Decoder instance.
type decoderConfig struct {
	// framing enables the reasoning_start/reasoning_end/content_start
	// kind-switch markers. The plain stream endpoint leaves it off.
	framing bool
	// pacing inserts a small delay after each forwarded text delta so the
	// client renders smoothly. Zero disables it.
	pacing time.Duration
	// reasoningSeen and contentSeen pre-arm the marker flags, letting the
	// feedback turn continue the first turn's framing instead of
	// re-announcing sections already opened.
	reasoningSeen bool
	contentSeen   bool
	// createdSeen suppresses the stream_created frame. The feedback turn
	// continues an exchange the client already saw start, so only its
	// response id is recorded.
	createdSeen bool
}

// Decoder consumes one turn's worth of model events, forwards client frames,
// executes tool calls as their arguments finalize, and accumulates the
// turn's outcome. A Decoder is single-use.
type Decoder struct {
	exec CallExecutor
	emit EmitFunc
	cfg  decoderConfig

	state            decoderState
	pending          map[string]*PendingToolCall
	executed         map[string]bool
	reasoningStarted bool
	reasoningEnded   bool
	contentStarted   bool

	outcome TurnOutcome
}

// NewDecoder builds a decoder for one turn.
func newDecoder(exec CallExecutor, emit EmitFunc, cfg decoderConfig) *Decoder {
	return &Decoder{
		exec:             exec,
		emit:             emit,
		cfg:              cfg,
		state:            stateAwaitingStart,
		pending:          make(map[string]*PendingToolCall),
		executed:         make(map[string]bool),
		reasoningStarted: cfg.reasoningSeen,
		reasoningEnded:   cfg.reasoningSeen,
		contentStarted:   cfg.contentSeen,
	}
}

// ContentStarted reports whether any answer text was forwarded, so a later
// turn or the fallback path knows if content_start already went out.
func (d *Decoder) ContentStarted() bool { return d.contentStarted }

// Run drains the event channel until a terminal event, channel close, or
// context cancellation, and returns the accumulated outcome.
func (d *Decoder) Run(ctx context.Context, events <-chan *responses.Event) (*TurnOutcome, error) {
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case ev, ok := <-events:
			if !ok {
				d.state = stateCompleted
				return &d.outcome, nil
			}
			terminal, err := d.consume(ctx, ev)
			if err != nil {
				return nil, err
			}
			if terminal {
				d.state = stateCompleted
				return &d.outcome, nil
			}
		}
	}
}

func (d *Decoder) consume(ctx context.Context, ev *responses.Event) (bool, error) {
	if d.state == stateAwaitingStart {
		d.state = stateStreaming
	}

	switch ev.Kind {
	case responses.EventCreated:
		if ev.Response != nil {
			d.outcome.ResponseID = ev.Response.ID
		}
		if d.cfg.createdSeen {
			return false, nil
		}
		return false, d.emit(Frame{Type: FrameStreamCreated})

	case responses.EventInProgress:
		return false, d.emit(Frame{Type: FrameStreamProgress})

	case responses.EventOutputItemAdded:
		if item := ev.FunctionCallItem(); item != nil {
			d.openCall(item)
			return false, nil
		}
		return false, d.emit(Frame{Type: FrameStreamProgress})

	case responses.EventOutputItemDone:
		return false, d.emit(Frame{Type: FrameStreamProgress})

	case responses.EventReasoningTextDelta:
		return false, d.onReasoningDelta(ctx, ev.Delta)

	case responses.EventOutputTextDelta:
		return false, d.onTextDelta(ctx, ev.Delta)

	case responses.EventFunctionArgsDelta:
		return false, d.onArgsDelta(ev)

	case responses.EventFunctionArgsDone:
		return false, d.onArgsDone(ctx, ev)

	case responses.EventCompleted, responses.EventDone:
		return true, nil

	default:
		log.Printf("chat: ignoring unhandled event type %q", ev.Kind)
		return false, nil
	}
}

func (d *Decoder) openCall(item *responses.OutputItem) {
	if _, exists := d.pending[item.ID]; exists {
		log.Printf("chat: duplicate function call item %q, keeping first", item.ID)
		return
	}
	d.pending[item.ID] = &PendingToolCall{
		ItemID: item.ID,
		CallID: item.CallID,
		Name:   item.Name,
	}
}

func (d *Decoder) onReasoningDelta(ctx context.Context, delta string) error {
	if !d.reasoningStarted {
		d.reasoningStarted = true
		if d.cfg.framing {
			if err := d.emit(Frame{Type: FrameReasoningStart}); err != nil {
				return err
			}
		}
	}
	d.outcome.ReasoningText += delta
	if err := d.emit(Frame{Type: FrameReasoning, Content: delta}); err != nil {
		return err
	}
	return d.pace(ctx)
}

func (d *Decoder) onTextDelta(ctx context.Context, delta string) error {
	if !d.contentStarted {
		if d.reasoningStarted && !d.reasoningEnded {
			d.reasoningEnded = true
			if d.cfg.framing {
				if err := d.emit(Frame{Type: FrameReasoningEnd}); err != nil {
					return err
				}
			}
		}
		d.contentStarted = true
		if d.cfg.framing {
			if err := d.emit(Frame{Type: FrameContentStart}); err != nil {
				return err
			}
		}
	}
	d.outcome.AnswerText += delta
	if err := d.emit(Frame{Type: FrameContent, Content: delta}); err != nil {
		return err
	}
	return d.pace(ctx)
}

func (d *Decoder) onArgsDelta(ev *responses.Event) error {
	call := d.callFor(ev.ItemID)
	if call.finalized {
		log.Printf("chat: argument delta after finalize for item %q, ignoring", ev.ItemID)
		return nil
	}
	call.args.WriteString(ev.Delta)
	return d.emit(Frame{
		Type:     FrameFunctionArgsDelta,
		Function: call.Name,
		CallID:   call.CallID,
		Delta:    ev.Delta,
	})
}

func (d *Decoder) onArgsDone(ctx context.Context, ev *responses.Event) error {
	call := d.callFor(ev.ItemID)
	if call.finalized {
		log.Printf("chat: duplicate arguments-done for item %q, ignoring", ev.ItemID)
		return nil
	}
	if ev.Arguments != "" {
		call.setArguments(ev.Arguments)
	}
	call.finalized = true

	if err := d.emit(Frame{
		Type:     FrameFunctionArgsDone,
		Function: call.Name,
		CallID:   call.CallID,
	}); err != nil {
		return err
	}

	if d.exec == nil {
		log.Printf("chat: skipping execution of %q on feedback turn", call.Name)
		return nil
	}
	if d.executed[call.CallID] {
		log.Printf("chat: call %q already executed, skipping", call.CallID)
		return nil
	}
	d.executed[call.CallID] = true

	result := d.exec.Execute(ctx, call)
	d.outcome.ToolResults = append(d.outcome.ToolResults, result)

	frame := Frame{
		Type:     FrameFunctionResult,
		Function: call.Name,
		CallID:   call.CallID,
		Status:   StatusCompleted,
	}
	if result.IsError {
		frame.Status = StatusError
		frame.Error = result.Output
	}
	return d.emit(frame)
}

// callFor returns the pending call for an item, creating a defensive
// placeholder when argument events arrive for an item the model never
// announced. The placeholder keeps the turn alive instead of aborting on a
// malformed upstream sequence.
func (d *Decoder) callFor(itemID string) *PendingToolCall {
	if call, ok := d.pending[itemID]; ok {
		return call
	}
	log.Printf("chat: argument event for unannounced item %q, creating placeholder call", itemID)
	call := &PendingToolCall{ItemID: itemID, CallID: "unknown", Name: "unknown_function"}
	d.pending[itemID] = call
	return call
}

func (d *Decoder) pace(ctx context.Context) error {
	if d.cfg.pacing <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d.cfg.pacing):
		return nil
	}
}
