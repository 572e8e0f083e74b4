package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

// fakeAPI is a minimal chat completion endpoint that records requests and
// returns scripted content.
type fakeAPI struct {
	t        *testing.T
	content  func(req chatRequest) string
	requests []chatRequest
}

func (f *fakeAPI) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			http.NotFound(w, r)
			return
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			f.t.Errorf("authorization header = %q", got)
		}

		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			f.t.Errorf("decode request: %v", err)
		}
		f.requests = append(f.requests, req)

		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": f.content(req)}},
			},
			"usage": map[string]int{"total_tokens": 10},
		}
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			f.t.Errorf("encode response: %v", err)
		}
	}
}

func newTestClient(t *testing.T, api *fakeAPI) *Client {
	t.Helper()
	server := httptest.NewServer(api.handler())
	t.Cleanup(server.Close)

	client, err := New(Config{APIKey: "test-key", BaseURL: server.URL, Model: "test-model"})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

func TestNewRequiresAPIKey(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Fatalf("expected error without API key")
	}
}

func TestExtractParsesJSONWithCodeFence(t *testing.T) {
	api := &fakeAPI{t: t, content: func(chatRequest) string {
		return "```json\n{\"company_name\": \"ООО Ромашка\", \"inn\": \"7701234567\"}\n```"
	}}
	client := newTestClient(t, api)

	record, err := client.Extract(context.Background(), "карточка предприятия ...")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if record["company_name"] != "ООО Ромашка" || record["inn"] != "7701234567" {
		t.Fatalf("record = %v", record)
	}

	if len(api.requests) != 1 {
		t.Fatalf("requests = %d", len(api.requests))
	}
	req := api.requests[0]
	if req.Model != "test-model" || len(req.Messages) != 2 || req.Messages[0].Role != "system" {
		t.Fatalf("request = %+v", req)
	}
}

func TestExtractRejectsMalformedJSON(t *testing.T) {
	api := &fakeAPI{t: t, content: func(chatRequest) string { return "не json" }}
	client := newTestClient(t, api)

	if _, err := client.Extract(context.Background(), "текст"); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestChatKeepsTrimmedHistory(t *testing.T) {
	api := &fakeAPI{t: t, content: func(chatRequest) string { return "ответ" }}
	client := newTestClient(t, api)
	ctx := context.Background()

	for i := 0; i < maxHistoryMessages; i++ {
		if _, err := client.Chat(ctx, 1, "вопрос"); err != nil {
			t.Fatalf("chat: %v", err)
		}
	}

	last := api.requests[len(api.requests)-1]
	// System prompt plus at most maxHistoryMessages of history.
	if len(last.Messages) > maxHistoryMessages+1 {
		t.Fatalf("messages = %d", len(last.Messages))
	}
	if last.Messages[0].Role != "system" {
		t.Fatalf("first message role = %q", last.Messages[0].Role)
	}

	client.ClearHistory(1)
	if _, err := client.Chat(ctx, 1, "новый вопрос"); err != nil {
		t.Fatalf("chat after clear: %v", err)
	}
	fresh := api.requests[len(api.requests)-1]
	if len(fresh.Messages) != 2 {
		t.Fatalf("history survived clear: %d messages", len(fresh.Messages))
	}
}

func TestChatIsolatesUsers(t *testing.T) {
	api := &fakeAPI{t: t, content: func(chatRequest) string { return "ответ" }}
	client := newTestClient(t, api)
	ctx := context.Background()

	if _, err := client.Chat(ctx, 1, "вопрос от первого"); err != nil {
		t.Fatalf("chat: %v", err)
	}
	if _, err := client.Chat(ctx, 2, "вопрос от второго"); err != nil {
		t.Fatalf("chat: %v", err)
	}

	last := api.requests[len(api.requests)-1]
	if len(last.Messages) != 2 {
		t.Fatalf("user 2 sees foreign history: %d messages", len(last.Messages))
	}
}

func TestGenerateFieldLabels(t *testing.T) {
	api := &fakeAPI{t: t, content: func(chatRequest) string {
		return `{"client_inn": {"label": "ИНН клиента", "prompt_ru": "Введите ИНН:", "type": "string"}}`
	}}
	client := newTestClient(t, api)

	labels, err := client.GenerateFieldLabels(context.Background(), []string{"client_inn"})
	if err != nil {
		t.Fatalf("labels: %v", err)
	}
	got := labels["client_inn"]
	if got.Label != "ИНН клиента" || got.Prompt != "Введите ИНН:" || got.Type != "string" {
		t.Fatalf("label = %+v", got)
	}
}

func TestGenerateUsesBusinessType(t *testing.T) {
	api := &fakeAPI{t: t, content: func(chatRequest) string { return "1. стоматология\n2. стоматолог" }}
	client := newTestClient(t, api)

	text, err := client.Generate(context.Background(), "стоматология")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if text != "1. стоматология\n2. стоматолог" {
		t.Fatalf("text = %q", text)
	}
	req := api.requests[0]
	if req.Messages[1].Content != "стоматология" {
		t.Fatalf("user message = %q", req.Messages[1].Content)
	}
}

func TestAPIErrorSurfaces(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	t.Cleanup(server.Close)

	client, err := New(Config{APIKey: "test-key", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if _, err := client.ConvertGenitive(context.Background(), "автосервис"); err == nil {
		t.Fatalf("expected API error")
	}
}

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `{"a": 1}`, `{"a": 1}`},
		{"fenced", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"fenced with language", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"fence without newline", "```{}", "{}"},
		{"padded", "  {\"a\": 1}  ", `{"a": 1}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := stripCodeFence(tc.in); got != tc.want {
				t.Fatalf("stripCodeFence(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
