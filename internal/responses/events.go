package responses

import "encoding/json"

// EventType identifies one kind of lifecycle, content, or tool event on a
// model turn's stream. The set is closed: anything the service sends that we
// do not recognize decodes as EventOther and is carried through untouched.
type EventType string

const (
	EventCreated            EventType = "response.created"
	EventInProgress         EventType = "response.in_progress"
	EventOutputItemAdded    EventType = "response.output_item.added"
	EventOutputItemDone     EventType = "response.output_item.done"
	EventOutputTextDelta    EventType = "response.output_text.delta"
	EventReasoningTextDelta EventType = "response.reasoning_summary_text.delta"
	EventFunctionArgsDelta  EventType = "response.function_call_arguments.delta"
	EventFunctionArgsDone   EventType = "response.function_call_arguments.done"
	EventCompleted          EventType = "response.completed"
	EventDone               EventType = "response.done"
	EventOther              EventType = "other"
)

// ItemTypeFunctionCall marks an output item that requests a local tool run.
const ItemTypeFunctionCall = "function_call"

// ResponseMeta is the envelope of the turn a stream belongs to.
type ResponseMeta struct {
	ID string `json:"id"`
}

// OutputItem is one item of a turn's output as it appears inside item
// lifecycle events. Name and CallID are only set for function-call items.
type OutputItem struct {
	ID     string `json:"id"`
	Type   string `json:"type"`
	Name   string `json:"name,omitempty"`
	CallID string `json:"call_id,omitempty"`
}

// Event is one decoded frame of a Responses API stream. It is a tagged
// union flattened into a single struct: Kind selects which fields are
// meaningful. Raw always holds the original JSON payload.
type Event struct {
	Kind      EventType
	Response  *ResponseMeta
	Item      *OutputItem
	ItemID    string
	Delta     string
	Arguments string
	Raw       json.RawMessage
}

// wireEvent is the JSON shape the service actually sends.
type wireEvent struct {
	Type      string        `json:"type"`
	Response  *ResponseMeta `json:"response,omitempty"`
	Item      *OutputItem   `json:"item,omitempty"`
	ItemID    string        `json:"item_id,omitempty"`
	Delta     string        `json:"delta,omitempty"`
	Arguments string        `json:"arguments,omitempty"`
}

// ParseEvent decodes one SSE data payload into an Event. Unknown event
// types are returned as EventOther rather than an error so a stream with
// vendor additions keeps flowing.
func ParseEvent(data []byte) (*Event, error) {
	var w wireEvent
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, err
	}

	ev := &Event{
		Kind:      classify(w.Type),
		Response:  w.Response,
		Item:      w.Item,
		ItemID:    w.ItemID,
		Delta:     w.Delta,
		Arguments: w.Arguments,
		Raw:       append(json.RawMessage(nil), data...),
	}
	return ev, nil
}

func classify(wireType string) EventType {
	switch EventType(wireType) {
	case EventCreated, EventInProgress,
		EventOutputItemAdded, EventOutputItemDone,
		EventOutputTextDelta, EventReasoningTextDelta,
		EventFunctionArgsDelta, EventFunctionArgsDone,
		EventCompleted, EventDone:
		return EventType(wireType)
	default:
		return EventOther
	}
}

// Terminal reports whether this event ends its turn.
func (e *Event) Terminal() bool {
	return e.Kind == EventCompleted || e.Kind == EventDone
}

// FunctionCallItem returns the contained output item if it is a
// function-call item, nil otherwise.
func (e *Event) FunctionCallItem() *OutputItem {
	if e.Item != nil && e.Item.Type == ItemTypeFunctionCall {
		return e.Item
	}
	return nil
}
