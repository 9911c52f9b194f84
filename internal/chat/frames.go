package chat

// Frame is one client-visible streaming notification. Frames are what the
// HTTP layer serializes into SSE data lines; their Type vocabulary is a
// stable contract with the frontend.
type Frame struct {
	Type          string `json:"type"`
	Content       string `json:"content,omitempty"`
	Delta         string `json:"delta,omitempty"`
	Function      string `json:"function,omitempty"`
	CallID        string `json:"call_id,omitempty"`
	Status        string `json:"status,omitempty"`
	Message       string `json:"message,omitempty"`
	Error         string `json:"error,omitempty"`
	Filename      string `json:"filename,omitempty"`
	ContentLength int    `json:"content_length,omitempty"`
	Effort        string `json:"effort,omitempty"`
	Summary       string `json:"summary,omitempty"`
	Done          bool   `json:"done,omitempty"`
}

// Frame type vocabulary.
const (
	FrameReasoningConfig     = "reasoning_config"
	FrameStreamCreated       = "stream_created"
	FrameStreamProgress      = "stream_progress"
	FrameReasoningStart      = "reasoning_start"
	FrameReasoning           = "reasoning"
	FrameReasoningEnd        = "reasoning_end"
	FrameContentStart        = "content_start"
	FrameContent             = "content"
	FrameContentEnd          = "content_end"
	FrameFunctionArgsDelta   = "function_args_delta"
	FrameFunctionArgsDone    = "function_args_complete"
	FrameFunctionResult      = "function_result"
	FrameStatus              = "status"
	FrameFileProcessed       = "file_processed"
	FrameDone                = "done"
	FrameError               = "error"
)

// Function result statuses.
const (
	StatusCompleted = "completed"
	StatusError     = "error"
)

// EmitFunc delivers one frame to the client. Returning an error aborts the
// stream (typically the client disconnected).
type EmitFunc func(Frame) error

// DiscardFrames is an EmitFunc for the non-streaming path: the protocol
// still runs in full, only the incremental notifications are dropped.
func DiscardFrames(Frame) error { return nil }

// DoneFrame is the terminal frame of every successful stream.
func DoneFrame() Frame {
	return Frame{Type: FrameDone, Done: true}
}

// ErrorFrame is the terminal frame of every failed stream.
func ErrorFrame(msg string) Frame {
	return Frame{Type: FrameError, Error: msg}
}
