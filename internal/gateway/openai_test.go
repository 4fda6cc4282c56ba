package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/avisser/redline/internal/config"
)

// fakeCompletionServer returns an OpenAI-compatible chat completion whose
// message content is the given envelope body.
func fakeCompletionServer(t *testing.T, envelope string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]any{
			"id":     "chatcmpl-test",
			"object": "chat.completion",
			"model":  "test-model",
			"choices": []map[string]any{
				{
					"index":         0,
					"finish_reason": "stop",
					"message": map[string]any{
						"role":    "assistant",
						"content": envelope,
					},
				},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func newTestClient(t *testing.T, baseURL string) *OpenAIClient {
	t.Helper()
	t.Setenv("REDLINE_API_KEY", "test-key")

	cfg := config.DefaultConfig()
	cfg.BaseURL = baseURL
	cfg.Model = "test-model"

	client, err := NewOpenAIClient(cfg, nil)
	if err != nil {
		t.Fatalf("NewOpenAIClient failed: %v", err)
	}
	return client
}

func TestTransform_EditResult(t *testing.T) {
	srv := fakeCompletionServer(t, `{"type": "edit", "result": "The feline sat."}`)
	defer srv.Close()

	client := newTestClient(t, srv.URL+"/v1")

	result, err := client.Transform(context.Background(), Request{
		Kind: ActionImprove,
		Text: "The cat sat.",
	})
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}
	if result.Type != ResultEdit {
		t.Errorf("Type = %q, want edit", result.Type)
	}
	if result.Text != "The feline sat." {
		t.Errorf("Text = %q", result.Text)
	}
}

func TestTransform_ReplyResult(t *testing.T) {
	srv := fakeCompletionServer(t, `{"type": "reply", "result": "It is about a cat."}`)
	defer srv.Close()

	client := newTestClient(t, srv.URL+"/v1")

	result, err := client.Transform(context.Background(), Request{
		Kind:        ActionCustom,
		Text:        "The cat sat.",
		Instruction: "What is this passage about?",
	})
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}
	if result.Type != ResultReply {
		t.Errorf("Type = %q, want reply", result.Type)
	}
}

func TestTransform_MalformedResponse(t *testing.T) {
	srv := fakeCompletionServer(t, "Sure, here is the improved text!")
	defer srv.Close()

	client := newTestClient(t, srv.URL+"/v1")

	if _, err := client.Transform(context.Background(), Request{
		Kind: ActionImprove,
		Text: "The cat sat.",
	}); err == nil {
		t.Fatal("untagged response must fail, not guess a classification")
	}
}

func TestTransform_ValidatesInput(t *testing.T) {
	srv := fakeCompletionServer(t, `{"type": "reply", "result": "x"}`)
	defer srv.Close()

	client := newTestClient(t, srv.URL+"/v1")
	ctx := context.Background()

	if _, err := client.Transform(ctx, Request{Kind: ActionImprove, Text: "  "}); err == nil {
		t.Error("empty text should be rejected")
	}
	if _, err := client.Transform(ctx, Request{Kind: "translate", Text: "x"}); err == nil {
		t.Error("unknown kind should be rejected")
	}
	if _, err := client.Transform(ctx, Request{Kind: ActionCustom, Text: "x"}); err == nil {
		t.Error("custom without instruction should be rejected")
	}
}

func TestNewOpenAIClient_RequiresKey(t *testing.T) {
	t.Setenv("REDLINE_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")

	if _, err := NewOpenAIClient(config.DefaultConfig(), nil); err == nil {
		t.Error("missing API key should be an error")
	}
}
