// Package main implements a mock LLM server for end-to-end testing.
// It serves OpenAI-compatible /v1/chat/completions responses with
// deterministic question and review fixtures, routing by markers in the
// prompt text. This removes the need for a real model during CLI and
// pipeline testing, keeping runs fast, deterministic and offline.
//
// Usage:
//
//	mock-llm -port 11434
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"sync/atomic"
	"time"
)

// --- OpenAI-compatible types ---

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature *float64      `json:"temperature,omitempty"`
	MaxTokens   *int          `json:"max_tokens,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	ID      string       `json:"id"`
	Object  string       `json:"object"`
	Created int64        `json:"created"`
	Model   string       `json:"model"`
	Choices []chatChoice `json:"choices"`
	Usage   chatUsage    `json:"usage"`
}

type chatChoice struct {
	Index        int         `json:"index"`
	Message      chatMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

type chatUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// countPattern pulls the requested question count out of a generation prompt.
var countPattern = regexp.MustCompile(`Generate (\d+)`)

type server struct {
	calls atomic.Int64
}

func main() {
	port := flag.Int("port", 11434, "port to listen on")
	flag.Parse()

	s := &server{}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/v1/chat/completions", s.handleChatCompletions)
	mux.HandleFunc("/stats", s.handleStats)

	addr := fmt.Sprintf(":%d", *port)
	log.Printf("Mock LLM server listening on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func (s *server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *server) handleChatCompletions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if len(req.Messages) == 0 {
		http.Error(w, "no messages in request", http.StatusBadRequest)
		return
	}

	callNum := s.calls.Add(1)
	prompt := req.Messages[len(req.Messages)-1].Content
	content := respond(prompt, callNum)

	log.Printf("[call %d] model=%s responded with %d bytes", callNum, req.Model, len(content))

	resp := chatResponse{
		ID:      fmt.Sprintf("mock-%d", time.Now().UnixNano()),
		Object:  "chat.completion",
		Created: time.Now().Unix(),
		Model:   req.Model,
		Choices: []chatChoice{
			{
				Index: 0,
				Message: chatMessage{
					Role:    "assistant",
					Content: content,
				},
				FinishReason: "stop",
			},
		},
		Usage: chatUsage{
			PromptTokens:     len(prompt) / 4,
			CompletionTokens: len(content) / 4,
			TotalTokens:      (len(prompt) + len(content)) / 4,
		},
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func (s *server) handleStats(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"total_calls": s.calls.Load(),
	})
}

// respond picks a fixture by prompt markers. The call number is baked into
// question text so parallel batches produce distinct questions, matching how
// a real model answers different chunks differently.
func respond(prompt string, callNum int64) string {
	switch {
	case strings.Contains(prompt, "multiple-choice"):
		return mcqFixture(requestedCount(prompt), callNum)
	case strings.Contains(prompt, "written answer"):
		return writtenFixture(requestedCount(prompt), callNum)
	case strings.Contains(prompt, "content quality"):
		return "Score: 78\nStrengths:\n- Clear argument\nWeaknesses:\n- Limited evidence\nSuggestions:\n- Add citations"
	case strings.Contains(prompt, "structure and organization"):
		return "Score: 70\nFeedback:\n- Sections flow logically\nOrganization:\n- Standard essay layout\nFlow:\n- Good transitions"
	case strings.Contains(prompt, "grammatical errors"):
		return "their are → there are\nNo other corrections."
	case strings.Contains(prompt, "Grade the student"):
		return "Score: 60\nStrengths:\n- Core idea understood\nWeaknesses:\n- Missing terminology\nSuggestions:\n- Use precise terms"
	}
	return "Q: What does the passage describe?\nSolution: See the passage."
}

func requestedCount(prompt string) int {
	if m := countPattern.FindStringSubmatch(prompt); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			return n
		}
	}
	return 1
}

func mcqFixture(count int, callNum int64) string {
	var b strings.Builder
	for i := 1; i <= count; i++ {
		fmt.Fprintf(&b, "Q: Mock batch %d question %d: which option is correct?\n", callNum, i)
		b.WriteString("A) First option\nB) Second option\nC) Third option\nD) Fourth option\n")
		b.WriteString("Answer: B\n")
		b.WriteString("Explanation: The second option matches the passage.\n\n")
	}
	return b.String()
}

func writtenFixture(count int, callNum int64) string {
	var b strings.Builder
	for i := 1; i <= count; i++ {
		fmt.Fprintf(&b, "Q: Mock batch %d question %d: explain the key concept.\n", callNum, i)
		b.WriteString("Solution: A model answer covering the key concept.\n\n")
	}
	return b.String()
}
