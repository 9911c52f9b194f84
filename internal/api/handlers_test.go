package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ShayonX/LLM-Playground/config"
	"github.com/ShayonX/LLM-Playground/internal/chat"
	"github.com/ShayonX/LLM-Playground/internal/responses"
	"github.com/ShayonX/LLM-Playground/internal/tools"
)

// stubRunner scripts the orchestrator: it replays canned frames, records
// what it was asked to run, and returns a fixed result.
type stubRunner struct {
	frames   []chat.Frame
	result   *chat.Result
	err      error
	calls    int
	gotInput []responses.InputItem
	gotOpts  chat.RunOptions
}

func (r *stubRunner) Run(ctx context.Context, input []responses.InputItem, opts chat.RunOptions, emit chat.EmitFunc) (*chat.Result, error) {
	r.calls++
	r.gotInput = input
	r.gotOpts = opts
	for _, f := range r.frames {
		if err := emit(f); err != nil {
			return nil, err
		}
	}
	if r.err != nil {
		return nil, r.err
	}
	if r.result != nil {
		return r.result, nil
	}
	return &chat.Result{Answer: "stub answer"}, nil
}

func testServer(t *testing.T, runner ChatRunner) *Server {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.OpenAI.Endpoint = "https://example.openai.azure.com/openai/v1"
	cfg.OpenAI.APIKey = "test-key"
	return NewServer(cfg, runner, tools.NewRegistry())
}

// decodeFrames splits an SSE body into its frames.
func decodeFrames(t *testing.T, body string) []chat.Frame {
	t.Helper()
	var frames []chat.Frame
	for _, block := range strings.Split(body, "\n\n") {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		payload, ok := strings.CutPrefix(block, "data: ")
		require.True(t, ok, "unexpected SSE block: %q", block)
		var f chat.Frame
		require.NoError(t, json.Unmarshal([]byte(payload), &f))
		frames = append(frames, f)
	}
	return frames
}

func postJSON(t *testing.T, handler http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

// multipartBody builds an upload request body with an explicit file part
// content type.
func multipartBody(t *testing.T, filename, contentType string, fileData []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, filename))
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(fileData)
	require.NoError(t, err)

	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	require.NoError(t, w.Close())
	return buf, w.FormDataContentType()
}

// TestServer_HandleRoot tests the liveness probe
func TestServer_HandleRoot(t *testing.T) {
	server := testServer(t, &stubRunner{})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Contains(t, body["message"], "running")
}

// TestServer_HandleRoot_UnknownPath404s tests path scoping on the root handler
func TestServer_HandleRoot_UnknownPath404s(t *testing.T) {
	server := testServer(t, &stubRunner{})
	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// TestServer_HandleHealth_ReportsModelConfiguration tests the health surface
func TestServer_HandleHealth_ReportsModelConfiguration(t *testing.T) {
	server := testServer(t, &stubRunner{})
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, true, body["openai_configured"])
	assert.Equal(t, "gpt-5", body["model"])
	assert.Equal(t, float64(0), body["tools_registered"])
}

// TestServer_HandleHealth_UnconfiguredModel tests the degraded report
func TestServer_HandleHealth_UnconfiguredModel(t *testing.T) {
	cfg := config.DefaultConfig()
	server := NewServer(cfg, &stubRunner{}, tools.NewRegistry())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["openai_configured"])
}

// TestServer_HandleChat_ReturnsFinalAnswer tests the non-streaming endpoint
func TestServer_HandleChat_ReturnsFinalAnswer(t *testing.T) {
	runner := &stubRunner{result: &chat.Result{Answer: "All vendors look healthy."}}
	server := testServer(t, runner)

	rec := postJSON(t, server.Handler(), "/chat", ChatRequest{Message: "vendor status?"})
	require.Equal(t, http.StatusOK, rec.Code)

	var body ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "All vendors look healthy.", body.Response)

	// input: system directive first, user message last
	require.GreaterOrEqual(t, len(runner.gotInput), 2)
	assert.Equal(t, "system", runner.gotInput[0].Role)
	assert.Contains(t, runner.gotInput[0].Content, "MORGAN")
	last := runner.gotInput[len(runner.gotInput)-1]
	assert.Equal(t, "user", last.Role)
	assert.Equal(t, "vendor status?", last.Content)
	assert.False(t, runner.gotOpts.Framing)
}

// TestServer_HandleChat_IncludesHistory tests conversation carry-over
func TestServer_HandleChat_IncludesHistory(t *testing.T) {
	runner := &stubRunner{}
	server := testServer(t, runner)

	postJSON(t, server.Handler(), "/chat", ChatRequest{
		Message: "and now?",
		Messages: []ChatMessage{
			{Role: "user", Content: "first question"},
			{Role: "assistant", Content: "first answer"},
		},
	})

	require.Len(t, runner.gotInput, 4)
	assert.Equal(t, "user", runner.gotInput[1].Role)
	assert.Equal(t, "first question", runner.gotInput[1].Content)
	assert.Equal(t, "assistant", runner.gotInput[2].Role)
}

// TestServer_HandleChat_MissingMessage_Returns400 tests validation
func TestServer_HandleChat_MissingMessage_Returns400(t *testing.T) {
	runner := &stubRunner{}
	server := testServer(t, runner)

	rec := postJSON(t, server.Handler(), "/chat", ChatRequest{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, runner.calls)
}

// TestServer_HandleChat_RunnerFailure_Returns500 tests error mapping
func TestServer_HandleChat_RunnerFailure_Returns500(t *testing.T) {
	runner := &stubRunner{err: fmt.Errorf("model unreachable")}
	server := testServer(t, runner)

	rec := postJSON(t, server.Handler(), "/chat", ChatRequest{Message: "hi"})
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var body ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Contains(t, body.Error, "model unreachable")
}

// TestServer_HandleChat_RejectsGet tests method filtering
func TestServer_HandleChat_RejectsGet(t *testing.T) {
	server := testServer(t, &stubRunner{})
	req := httptest.NewRequest(http.MethodGet, "/chat", nil)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

// TestServer_HandleChatStream_EndsWithDoneFrame tests stream termination
func TestServer_HandleChatStream_EndsWithDoneFrame(t *testing.T) {
	runner := &stubRunner{frames: []chat.Frame{
		{Type: chat.FrameStreamCreated},
		{Type: chat.FrameContent, Content: "partial"},
	}}
	server := testServer(t, runner)

	rec := postJSON(t, server.Handler(), "/api/chat/stream", ChatRequest{Message: "hi"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))

	frames := decodeFrames(t, rec.Body.String())
	require.NotEmpty(t, frames)
	last := frames[len(frames)-1]
	assert.Equal(t, chat.FrameDone, last.Type)
	assert.True(t, last.Done)
	assert.False(t, runner.gotOpts.Framing)
}

// TestServer_HandleChatStream_ErrorFrameIsTerminal tests failure termination
func TestServer_HandleChatStream_ErrorFrameIsTerminal(t *testing.T) {
	runner := &stubRunner{
		frames: []chat.Frame{{Type: chat.FrameStreamCreated}},
		err:    fmt.Errorf("turn collapsed"),
	}
	server := testServer(t, runner)

	rec := postJSON(t, server.Handler(), "/api/chat/stream", ChatRequest{Message: "hi"})
	frames := decodeFrames(t, rec.Body.String())
	require.NotEmpty(t, frames)
	last := frames[len(frames)-1]
	assert.Equal(t, chat.FrameError, last.Type)
	assert.Contains(t, last.Error, "turn collapsed")
	for _, f := range frames {
		assert.NotEqual(t, chat.FrameDone, f.Type)
	}
}

// TestServer_HandleCotStream_EnablesFraming tests the chain-of-thought mode
func TestServer_HandleCotStream_EnablesFraming(t *testing.T) {
	runner := &stubRunner{}
	server := testServer(t, runner)

	rec := postJSON(t, server.Handler(), "/chat/cot-stream", ChatRequest{
		Message:   "think it through",
		Reasoning: &ReasoningConfig{Effort: "high"},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	assert.True(t, runner.gotOpts.Framing)
	assert.Equal(t, "high", runner.gotOpts.Reasoning.Effort)
	assert.Equal(t, "auto", runner.gotOpts.Reasoning.Summary)
}

// TestServer_HandleCotStream_OpensWithReasoningConfig tests that the stream
// starts by echoing the effective reasoning settings
func TestServer_HandleCotStream_OpensWithReasoningConfig(t *testing.T) {
	runner := &stubRunner{}
	server := testServer(t, runner)

	rec := postJSON(t, server.Handler(), "/chat/cot-stream", ChatRequest{
		Message:   "think it through",
		Reasoning: &ReasoningConfig{Effort: "high"},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	frames := decodeFrames(t, rec.Body.String())
	require.NotEmpty(t, frames)
	assert.Equal(t, chat.FrameReasoningConfig, frames[0].Type)
	assert.Equal(t, "high", frames[0].Effort)
	assert.Equal(t, "auto", frames[0].Summary)
}

// TestServer_HandleChatStream_NoReasoningConfigFrame tests that the plain
// stream endpoint does not emit the chain-of-thought opener
func TestServer_HandleChatStream_NoReasoningConfigFrame(t *testing.T) {
	runner := &stubRunner{}
	server := testServer(t, runner)

	rec := postJSON(t, server.Handler(), "/api/chat/stream", ChatRequest{Message: "hi"})
	for _, f := range decodeFrames(t, rec.Body.String()) {
		assert.NotEqual(t, chat.FrameReasoningConfig, f.Type)
	}
}

// TestServer_HandleChatStream_DefaultReasoning tests reasoning defaults
func TestServer_HandleChatStream_DefaultReasoning(t *testing.T) {
	runner := &stubRunner{}
	server := testServer(t, runner)

	postJSON(t, server.Handler(), "/api/chat/stream", ChatRequest{Message: "hi"})
	assert.Equal(t, "medium", runner.gotOpts.Reasoning.Effort)
	assert.Equal(t, "auto", runner.gotOpts.Reasoning.Summary)
}

// TestServer_HandleUpload_RejectsNonPDF tests the upload content-type gate
func TestServer_HandleUpload_RejectsNonPDF(t *testing.T) {
	runner := &stubRunner{}
	server := testServer(t, runner)

	body, contentType := multipartBody(t, "notes.txt", "text/plain", []byte("plain text"), map[string]string{
		"message": "summarize",
	})
	req := httptest.NewRequest(http.MethodPost, "/chat/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var resp ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, "Only PDF files are supported")
	assert.Equal(t, 0, runner.calls)
}

// TestServer_HandleUploadCotStream_RejectsNonPDFBeforeStreaming tests that a
// bad upload yields only a terminal error frame, never a started stream
func TestServer_HandleUploadCotStream_RejectsNonPDFBeforeStreaming(t *testing.T) {
	runner := &stubRunner{}
	server := testServer(t, runner)

	body, contentType := multipartBody(t, "notes.txt", "text/plain", []byte("plain text"), map[string]string{
		"message": "summarize",
	})
	req := httptest.NewRequest(http.MethodPost, "/chat/upload-cot-stream", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	frames := decodeFrames(t, rec.Body.String())
	require.Len(t, frames, 1)
	assert.Equal(t, chat.FrameError, frames[0].Type)
	assert.Contains(t, frames[0].Error, "Only PDF files are supported")
	assert.Equal(t, 0, runner.calls)
}

// TestServer_HandleUploadCotStream_MissingMessage tests form validation
func TestServer_HandleUploadCotStream_MissingMessage(t *testing.T) {
	runner := &stubRunner{}
	server := testServer(t, runner)

	body, contentType := multipartBody(t, "doc.pdf", "application/pdf", []byte("%PDF-1.4"), nil)
	req := httptest.NewRequest(http.MethodPost, "/chat/upload-cot-stream", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	frames := decodeFrames(t, rec.Body.String())
	require.Len(t, frames, 1)
	assert.Equal(t, chat.FrameError, frames[0].Type)
	assert.Equal(t, 0, runner.calls)
}

// TestServer_HandleUserInfo tests the profile endpoint
func TestServer_HandleUserInfo(t *testing.T) {
	server := testServer(t, &stubRunner{})
	req := httptest.NewRequest(http.MethodGet, "/api/user/jdoe", nil)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	info, ok := body["user_info"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "John Doe", info["name"])
}

// TestServer_HandleCotInfo tests the capability description endpoint
func TestServer_HandleCotInfo(t *testing.T) {
	server := testServer(t, &stubRunner{})
	req := httptest.NewRequest(http.MethodGet, "/api/cot/info", nil)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	cot, ok := body["chain_of_thought"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, cot, "endpoints")
	assert.Contains(t, cot, "reasoning_config")
}

// TestServer_Handler_CORSPreflight tests the preflight answer
func TestServer_Handler_CORSPreflight(t *testing.T) {
	server := testServer(t, &stubRunner{})
	req := httptest.NewRequest(http.MethodOptions, "/chat", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "POST")
}

// TestServer_RequestsServed_Counts tests the request counter
func TestServer_RequestsServed_Counts(t *testing.T) {
	server := testServer(t, &stubRunner{})
	handler := server.Handler()

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}
	assert.Equal(t, int64(3), server.RequestsServed())
}
