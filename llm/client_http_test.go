package llm_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/learnbuddy/learnbuddy/llm"
	_ "github.com/learnbuddy/learnbuddy/llm/providers"
	"github.com/learnbuddy/learnbuddy/model"
)

func completionBody(content string) string {
	return fmt.Sprintf(`{
		"model": "test-model",
		"choices": [{"index": 0, "message": {"role": "assistant", "content": %q}, "finish_reason": "stop"}],
		"usage": {"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15}
	}`, content)
}

func registryFor(url string) *model.Registry {
	return model.NewSingleEndpointRegistry("test", &model.EndpointConfig{
		Provider: "ollama",
		URL:      url,
		Model:    "test-model",
	})
}

func TestClient_Complete_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		fmt.Fprint(w, completionBody("Q: What is water?"))
	}))
	defer server.Close()

	client := llm.NewClient(registryFor(server.URL))

	resp, err := client.Complete(t.Context(), llm.Request{
		Capability: "generation",
		Messages:   []llm.Message{{Role: "user", Content: "generate"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Q: What is water?", resp.Content)
	assert.Equal(t, 15, resp.Usage.TotalTokens)
	assert.NotEmpty(t, resp.RequestID)
}

func TestClient_Complete_RetriesTransient(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, completionBody("recovered"))
	}))
	defer server.Close()

	client := llm.NewClient(registryFor(server.URL), llm.WithRetryConfig(llm.RetryConfig{
		MaxAttempts:       2,
		BackoffBase:       time.Millisecond,
		BackoffMultiplier: 1.0,
		MaxBackoff:        time.Millisecond,
	}))

	resp, err := client.Complete(t.Context(), llm.Request{
		Capability: "generation",
		Messages:   []llm.Message{{Role: "user", Content: "generate"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "recovered", resp.Content)
	assert.Equal(t, int32(2), calls.Load())
}

func TestClient_Complete_FatalNotRetried(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := llm.NewClient(registryFor(server.URL), llm.WithRetryConfig(llm.RetryConfig{
		MaxAttempts:       3,
		BackoffBase:       time.Millisecond,
		BackoffMultiplier: 1.0,
		MaxBackoff:        time.Millisecond,
	}))

	_, err := client.Complete(t.Context(), llm.Request{
		Capability: "generation",
		Messages:   []llm.Message{{Role: "user", Content: "generate"}},
	})
	require.Error(t, err)
	assert.True(t, llm.IsFatal(err))
	assert.Equal(t, int32(1), calls.Load(), "fatal errors must not be retried")
}

func TestClient_Complete_NoUsableEndpoints(t *testing.T) {
	// A chain can name a model with no registered endpoint; every entry
	// then gets skipped without a request being attempted.
	reg := model.NewRegistry(
		map[model.Capability]*model.CapabilityConfig{
			model.CapabilityGeneration: {Preferred: []string{"ghost"}},
		},
		map[string]*model.EndpointConfig{},
	)
	client := llm.NewClient(reg)

	_, err := client.Complete(t.Context(), llm.Request{
		Capability: "generation",
		Messages:   []llm.Message{{Role: "user", Content: "generate"}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no usable endpoints")
	assert.NotContains(t, err.Error(), "(<nil>)")
}
