package api

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/ShayonX/LLM-Playground/internal/chat"
	"github.com/ShayonX/LLM-Playground/internal/pdfext"
	"github.com/ShayonX/LLM-Playground/internal/prompt"
	"github.com/ShayonX/LLM-Playground/internal/responses"
	"github.com/ShayonX/LLM-Playground/internal/tools"
)

// ReasoningConfig mirrors the client's reasoning knobs.
type ReasoningConfig struct {
	Effort  string `json:"effort"`
	Summary string `json:"summary"`
}

// ChatMessage is one prior conversation turn sent by the client.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the body of the chat endpoints.
type ChatRequest struct {
	Message   string           `json:"message"`
	Scenario  string           `json:"scenario,omitempty"`
	Messages  []ChatMessage    `json:"messages,omitempty"`
	Reasoning *ReasoningConfig `json:"reasoning,omitempty"`
}

// ChatResponse is the non-streaming reply shape.
type ChatResponse struct {
	Response string `json:"response"`
	Success  bool   `json:"success"`
	Error    string `json:"error,omitempty"`
}

// reasoningParam resolves the request's reasoning config against the
// service defaults.
func (s *Server) reasoningParam(rc *ReasoningConfig) responses.ReasoningParam {
	param := responses.ReasoningParam{
		Effort:  s.cfg.Reasoning.Effort,
		Summary: s.cfg.Reasoning.Summary,
	}
	if rc != nil {
		if rc.Effort != "" {
			param.Effort = rc.Effort
		}
		if rc.Summary != "" {
			param.Summary = rc.Summary
		}
	}
	return param
}

// buildInput assembles the model input: system prompt, prior turns, then the
// new user message.
func buildInput(systemPrompt string, history []ChatMessage, userMessage string) []responses.InputItem {
	input := make([]responses.InputItem, 0, len(history)+2)
	input = append(input, responses.Message("system", systemPrompt))
	for _, m := range history {
		if m.Role == "" || m.Content == "" {
			continue
		}
		input = append(input, responses.Message(m.Role, m.Content))
	}
	input = append(input, responses.Message("user", userMessage))
	return input
}

func decodeChatRequest(r *http.Request) (*ChatRequest, error) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, fmt.Errorf("decoding request body: %w", err)
	}
	if req.Message == "" {
		return nil, fmt.Errorf("message is required")
	}
	return &req, nil
}

// handleRoot answers the basic liveness probe.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Compliance Communications API is running",
		"status":  "healthy",
	})
}

// handleHealth reports whether the model connection is configured.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":            "healthy",
		"openai_configured": s.cfg.OpenAI.Configured(),
		"model":             s.cfg.OpenAI.Deployment,
		"tools_registered":  s.registry.Len(),
	})
}

// handleChat is the non-streaming chat endpoint. It runs the full tool
// protocol internally and returns only the final answer.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	req, err := decodeChatRequest(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ChatResponse{Success: false, Error: err.Error()})
		return
	}

	input := buildInput(prompt.ForScenario(req.Scenario), req.Messages, req.Message)
	result, err := s.runner.Run(r.Context(), input, chat.RunOptions{
		Reasoning: s.reasoningParam(req.Reasoning),
	}, chat.DiscardFrames)
	if err != nil {
		log.Printf("api: chat request failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, ChatResponse{
			Success: false,
			Error:   fmt.Sprintf("Error processing chat request: %v", err),
		})
		return
	}
	writeJSON(w, http.StatusOK, ChatResponse{Response: result.Answer, Success: true})
}

// handleChatStream streams a chat exchange without kind-switch markers.
func (s *Server) handleChatStream(w http.ResponseWriter, r *http.Request) {
	s.streamChat(w, r, false)
}

// handleCotStream streams a chat exchange with full chain-of-thought
// framing markers.
func (s *Server) handleCotStream(w http.ResponseWriter, r *http.Request) {
	s.streamChat(w, r, true)
}

func (s *Server) streamChat(w http.ResponseWriter, r *http.Request, framing bool) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	req, err := decodeChatRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	sse, err := newSSEWriter(w)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	reasoning := s.reasoningParam(req.Reasoning)
	if framing {
		// Chain-of-thought streams open by echoing the effective reasoning
		// settings so the frontend can label the sections that follow.
		if err := sse.Send(chat.Frame{
			Type:    chat.FrameReasoningConfig,
			Effort:  reasoning.Effort,
			Summary: reasoning.Summary,
		}); err != nil {
			log.Printf("api: client gone before stream start: %v", err)
			return
		}
	}

	input := buildInput(prompt.ForScenario(req.Scenario), req.Messages, req.Message)
	_, runErr := s.runner.Run(r.Context(), input, chat.RunOptions{
		Reasoning: reasoning,
		Framing:   framing,
	}, sse.Send)
	s.finishStream(sse, runErr)
}

// finishStream emits the terminal frame: done on success, error on failure.
func (s *Server) finishStream(sse *sseWriter, runErr error) {
	if runErr != nil {
		log.Printf("api: stream failed: %v", runErr)
		if err := sse.Send(chat.ErrorFrame(runErr.Error())); err != nil {
			log.Printf("api: could not deliver error frame: %v", err)
		}
		return
	}
	if err := sse.Send(chat.DoneFrame()); err != nil {
		log.Printf("api: could not deliver done frame: %v", err)
	}
}

// uploadForm is the parsed multipart payload of the upload endpoints.
type uploadForm struct {
	filename string
	data     []byte
	message  string
	scenario string
	history  []ChatMessage
}

// parseUploadForm reads the multipart body shared by both upload endpoints.
// It rejects non-PDF uploads.
func parseUploadForm(r *http.Request) (*uploadForm, error) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		return nil, fmt.Errorf("parsing multipart form: %w", err)
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, fmt.Errorf("file is required: %w", err)
	}
	defer file.Close()

	if header.Header.Get("Content-Type") != "application/pdf" {
		return nil, errNotPDF
	}
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("reading upload: %w", err)
	}

	form := &uploadForm{
		filename: header.Filename,
		data:     data,
		message:  r.FormValue("message"),
		scenario: r.FormValue("scenario"),
	}
	if form.message == "" {
		return nil, fmt.Errorf("message is required")
	}
	if raw := r.FormValue("messages"); raw != "" {
		// Malformed history is dropped rather than failing the upload.
		if err := json.Unmarshal([]byte(raw), &form.history); err != nil {
			form.history = nil
		}
	}
	return form, nil
}

var errNotPDF = fmt.Errorf("Only PDF files are supported")

// handleUpload answers a chat request grounded in an uploaded PDF without
// streaming.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	form, err := parseUploadForm(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ChatResponse{Success: false, Error: err.Error()})
		return
	}

	text, err := pdfext.ExtractText(form.data)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ChatResponse{
			Success: false,
			Error:   fmt.Sprintf("Error processing PDF file: %v", err),
		})
		return
	}

	sysPrompt := prompt.WithDocumentContext(prompt.ForScenario(form.scenario))
	enhanced := prompt.EnhancedUserMessage(form.message, pdfext.ExcerptWithNote(text))
	input := buildInput(sysPrompt, form.history, enhanced)

	result, err := s.runner.Run(r.Context(), input, chat.RunOptions{
		Reasoning: s.reasoningParam(nil),
		Fallback:  uploadFallback(form.filename),
	}, chat.DiscardFrames)
	if err != nil {
		log.Printf("api: upload chat failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, ChatResponse{
			Success: false,
			Error:   fmt.Sprintf("Error processing chat request with file: %v", err),
		})
		return
	}
	writeJSON(w, http.StatusOK, ChatResponse{Response: result.Answer, Success: true})
}

// handleUploadCotStream streams a PDF-grounded exchange with framing
// markers. Validation failures surface as an error frame before any model
// traffic starts.
func (s *Server) handleUploadCotStream(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	sse, err := newSSEWriter(w)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	form, err := parseUploadForm(r)
	if err != nil {
		if sendErr := sse.Send(chat.ErrorFrame(err.Error())); sendErr != nil {
			log.Printf("api: could not deliver error frame: %v", sendErr)
		}
		return
	}

	text, err := pdfext.ExtractText(form.data)
	if err != nil {
		if sendErr := sse.Send(chat.ErrorFrame(fmt.Sprintf("Error processing PDF file: %v", err))); sendErr != nil {
			log.Printf("api: could not deliver error frame: %v", sendErr)
		}
		return
	}

	if err := sse.Send(chat.Frame{
		Type:          chat.FrameFileProcessed,
		Filename:      form.filename,
		ContentLength: len(text),
	}); err != nil {
		log.Printf("api: client gone before stream start: %v", err)
		return
	}

	sysPrompt := prompt.WithDocumentContext(prompt.ForScenario(form.scenario))
	enhanced := prompt.EnhancedUserMessage(form.message, pdfext.ExcerptWithNote(text))
	input := buildInput(sysPrompt, form.history, enhanced)

	_, runErr := s.runner.Run(r.Context(), input, chat.RunOptions{
		Reasoning: s.reasoningParam(nil),
		Framing:   true,
		Fallback:  uploadFallback(form.filename),
	}, sse.Send)
	s.finishStream(sse, runErr)
}

func uploadFallback(filename string) string {
	return fmt.Sprintf("I have analysed the document '%s' but need a more specific question.", filename)
}

// handleUserInfo returns the signed-in user's profile.
func (s *Server) handleUserInfo(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"user_info": tools.UserInfo(),
		"success":   true,
	})
}

// handleCotInfo describes the chain-of-thought capabilities for the
// frontend's settings screen.
func (s *Server) handleCotInfo(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"chain_of_thought": map[string]any{
			"description": "Chain of Thought reasoning allows the AI to show its thinking process",
			"endpoints": map[string]any{
				"/api/chat/stream": map[string]any{
					"description":       "Standard streaming with optional CoT reasoning",
					"reasoning_support": "Optional via reasoning parameter in request body",
				},
				"/chat/cot-stream": map[string]any{
					"description":       "Enhanced streaming specifically designed for CoT",
					"reasoning_support": "Enhanced with detailed reasoning by default",
				},
			},
			"reasoning_config": map[string]any{
				"effort": map[string]any{
					"options":     []string{"low", "medium", "high"},
					"default":     "medium",
					"description": "Controls the depth of reasoning",
				},
				"summary": map[string]any{
					"options":     []string{"auto", "concise", "detailed"},
					"default":     "auto",
					"description": "Controls the verbosity of reasoning summary",
				},
			},
			"event_types": map[string]string{
				"reasoning":       "Contains reasoning text as it's generated",
				"content":         "Contains the final response text",
				"function_result": "Indicates when functions have been executed",
				"status":          "Status updates during processing",
				"done":            "Indicates completion of the response",
			},
		},
	})
}
