package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/conduitllm/conduit"
	"github.com/conduitllm/conduit/client"
	"github.com/conduitllm/conduit/retry"
)

// GatewayHandler serves chat, embedding, and metrics endpoints backed by a
// resilient client.
type GatewayHandler struct {
	client *client.Client
	config *Config
}

// NewGatewayHandler creates a handler for the given client.
func NewGatewayHandler(c *client.Client, cfg *Config) *GatewayHandler {
	return &GatewayHandler{client: c, config: cfg}
}

// ChatRequest is the request body for POST /v1/chat.
type ChatRequest struct {
	Messages []conduit.Message `json:"messages"`
	Model    string            `json:"model,omitempty"`
	System   string            `json:"system,omitempty"`
	Tools    []conduit.Tool    `json:"tools,omitempty"`
	Stream   bool              `json:"stream,omitempty"`
}

// ChatResponse is the response body for non-streaming chat.
type ChatResponse struct {
	Content      string             `json:"content"`
	FinishReason string             `json:"finishReason,omitempty"`
	ToolCalls    []conduit.ToolCall `json:"toolCalls,omitempty"`
	Usage        conduit.Usage      `json:"usage"`
	CostUSD      float64            `json:"costUsd"`
}

// Chat handles POST /v1/chat. With "stream": true the response is sent as
// Server-Sent Events, one data frame per delta.
func (h *GatewayHandler) Chat(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if r.Method != http.MethodPost {
		slog.Warn("method not allowed", "method", r.Method, "path", r.URL.Path)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Warn("invalid request body", "error", err)
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if len(req.Messages) == 0 {
		http.Error(w, "messages must not be empty", http.StatusBadRequest)
		return
	}

	log := slog.With("path", r.URL.Path, "stream", req.Stream)

	var opts []conduit.Option
	if req.Model != "" {
		opts = append(opts, conduit.WithModel(req.Model))
	}
	if req.System != "" {
		opts = append(opts, conduit.WithSystem(req.System))
	}
	if len(req.Tools) > 0 {
		opts = append(opts, conduit.WithTools(req.Tools...))
	}

	if req.Stream {
		h.streamChat(w, r, req.Messages, opts, log, start)
		return
	}

	resp, err := h.client.Chat(r.Context(), req.Messages, opts...)
	if err != nil {
		writeClientError(w, log, err)
		return
	}

	log.Info("chat complete",
		"duration", time.Since(start),
		"input_tokens", resp.Usage.InputTokens,
		"output_tokens", resp.Usage.OutputTokens,
	)
	writeJSON(w, http.StatusOK, ChatResponse{
		Content:      resp.Content,
		FinishReason: resp.FinishReason,
		ToolCalls:    resp.ToolCalls,
		Usage:        resp.Usage,
		CostUSD:      h.client.Cost(resp.Usage),
	})
}

func (h *GatewayHandler) streamChat(w http.ResponseWriter, r *http.Request, messages []conduit.Message, opts []conduit.Option, log *slog.Logger, start time.Time) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	stream, err := h.client.ChatStream(r.Context(), messages, opts...)
	if err != nil {
		writeClientError(w, log, err)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	for event := range stream {
		if event.Err != nil {
			log.Warn("stream error", "error", event.Err)
			fmt.Fprintf(w, "event: error\ndata: %s\n\n", jsonString(map[string]string{"error": event.Err.Error()}))
			flusher.Flush()
			return
		}
		if event.Delta != "" {
			fmt.Fprintf(w, "data: %s\n\n", jsonString(map[string]string{"delta": event.Delta}))
			flusher.Flush()
		}
		if event.Done && event.Response != nil {
			fmt.Fprintf(w, "event: done\ndata: %s\n\n", jsonString(ChatResponse{
				Content:      event.Response.Content,
				FinishReason: event.Response.FinishReason,
				Usage:        event.Response.Usage,
				CostUSD:      h.client.Cost(event.Response.Usage),
			}))
			flusher.Flush()
		}
	}
	log.Info("stream complete", "duration", time.Since(start))
}

// EmbeddingsRequest is the request body for POST /v1/embeddings.
type EmbeddingsRequest struct {
	Texts      []string `json:"texts"`
	Model      string   `json:"model,omitempty"`
	Dimensions int      `json:"dimensions,omitempty"`
}

// Embeddings handles POST /v1/embeddings.
func (h *GatewayHandler) Embeddings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req EmbeddingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	var opts []conduit.EmbeddingOption
	if req.Model != "" {
		opts = append(opts, conduit.WithEmbeddingModel(req.Model))
	}
	if req.Dimensions > 0 {
		opts = append(opts, conduit.WithEmbeddingDimensions(req.Dimensions))
	}

	resp, err := h.client.Embed(r.Context(), req.Texts, opts...)
	if err != nil {
		writeClientError(w, slog.With("path", r.URL.Path), err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"embeddings": resp.Embeddings,
		"usage":      resp.Usage,
	})
}

// Metrics handles GET /v1/metrics.
func (h *GatewayHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	snap := h.client.Metrics()
	writeJSON(w, http.StatusOK, map[string]any{
		"totalRequests":      snap.TotalRequests,
		"successfulRequests": snap.SuccessfulRequests,
		"failedRequests":     snap.FailedRequests,
		"retriedRequests":    snap.RetriedRequests,
		"circuitTrips":       snap.CircuitTrips,
		"successRate":        snap.SuccessRate(),
		"circuitState":       h.client.CircuitState(),
	})
}

// Health handles GET /healthz.
func (h *GatewayHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeClientError maps client errors onto HTTP status codes.
func writeClientError(w http.ResponseWriter, log *slog.Logger, err error) {
	status := http.StatusBadGateway

	var coe *retry.CircuitOpenError
	var unsupported *client.ErrFeatureNotSupported
	switch {
	case conduit.IsUserInput(err):
		status = http.StatusBadRequest
	case conduit.IsPermanent(err):
		status = http.StatusBadGateway
	case conduit.IsTransient(err):
		status = http.StatusServiceUnavailable
	}
	if errors.As(err, &coe) {
		status = http.StatusServiceUnavailable
		w.Header().Set("Retry-After", fmt.Sprintf("%d", int(coe.RetryAfter.Seconds())+1))
	}
	if errors.As(err, &unsupported) {
		status = http.StatusNotImplemented
	}

	log.Warn("request failed", "status", status, "error", err)
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func jsonString(v any) string {
	b, _ := json.Marshal(v)
	return string(b)
}
