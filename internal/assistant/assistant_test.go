package assistant

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/Umair-Ahm3d/Club-Lit/internal/cache"
	"github.com/Umair-Ahm3d/Club-Lit/internal/fault"
	"github.com/Umair-Ahm3d/Club-Lit/internal/models"
)

type fakeCompleter struct {
	calls   int
	prompts []string
	reply   string
	err     error
}

func (f *fakeCompleter) Complete(_ context.Context, prompt string) (string, error) {
	f.calls++
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

type fakeBooks struct{ books []models.Book }

func (f *fakeBooks) List(context.Context, string, string) ([]models.Book, error) {
	return f.books, nil
}

type memCache struct{ data map[string]string }

func newMemCache() *memCache { return &memCache{data: make(map[string]string)} }

func (m *memCache) Get(_ context.Context, key string) (string, error) {
	val, ok := m.data[key]
	if !ok {
		return "", cache.ErrMiss
	}
	return val, nil
}

func (m *memCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	m.data[key] = value
	return nil
}

func (m *memCache) Delete(_ context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func TestDetectIntent(t *testing.T) {
	cases := []struct {
		question string
		want     string
	}{
		{"Can you recommend a fantasy novel?", IntentRecommend},
		{"suggest something similar to Dune", IntentRecommend},
		{"What should I read next?", IntentRecommend},
		{"Give me a summary of Hamlet", IntentSummary},
		{"what is The Hobbit about?", IntentSummary},
		{"How long is War and Peace?", IntentGeneral},
	}
	for _, tc := range cases {
		if got := DetectIntent(tc.question); got != tc.want {
			t.Errorf("DetectIntent(%q) = %s, want %s", tc.question, got, tc.want)
		}
	}
}

func TestAskGroundsRecommendationsInCatalog(t *testing.T) {
	completer := &fakeCompleter{reply: "Try Dune."}
	books := &fakeBooks{books: []models.Book{
		{Title: "Dune", Author: "Frank Herbert", Genre: "sci-fi"},
		{Title: "Middlemarch", Author: "George Eliot"},
	}}
	svc := NewService(completer, books, newMemCache(), zap.NewNop())

	ans, err := svc.Ask(context.Background(), "recommend me something epic")
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if ans.Intent != IntentRecommend {
		t.Errorf("Intent = %s, want %s", ans.Intent, IntentRecommend)
	}
	if ans.Reply != "Try Dune." {
		t.Errorf("Reply = %q, want completer reply", ans.Reply)
	}

	prompt := completer.prompts[0]
	if !strings.Contains(prompt, "Dune by Frank Herbert (sci-fi)") {
		t.Errorf("prompt missing catalog entry:\n%s", prompt)
	}
	if !strings.Contains(prompt, "recommend me something epic") {
		t.Errorf("prompt missing the question:\n%s", prompt)
	}
}

func TestAskServesRepeatsFromCache(t *testing.T) {
	completer := &fakeCompleter{reply: "A tragedy of indecision."}
	svc := NewService(completer, &fakeBooks{}, newMemCache(), zap.NewNop())
	ctx := context.Background()

	first, err := svc.Ask(ctx, "summary of Hamlet")
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if first.Cached {
		t.Error("first answer claims to be cached")
	}

	second, err := svc.Ask(ctx, "  Summary   of HAMLET ")
	if err != nil {
		t.Fatalf("Ask (repeat): %v", err)
	}
	if !second.Cached {
		t.Error("rephrased repeat missed the cache")
	}
	if second.Reply != first.Reply {
		t.Errorf("cached reply %q differs from original %q", second.Reply, first.Reply)
	}
	if completer.calls != 1 {
		t.Errorf("completer called %d times, want 1", completer.calls)
	}
}

func TestAskValidatesQuestion(t *testing.T) {
	svc := NewService(&fakeCompleter{}, &fakeBooks{}, newMemCache(), zap.NewNop())
	ctx := context.Background()

	if _, err := svc.Ask(ctx, "   "); !fault.IsValidation(err) {
		t.Errorf("blank question: err = %v, want validation fault", err)
	}
	if _, err := svc.Ask(ctx, strings.Repeat("x", maxQuestionLen+1)); !fault.IsValidation(err) {
		t.Errorf("oversized question: err = %v, want validation fault", err)
	}
}

func TestAskModelFailureIsTransient(t *testing.T) {
	completer := &fakeCompleter{err: context.DeadlineExceeded}
	svc := NewService(completer, &fakeBooks{}, newMemCache(), zap.NewNop())

	_, err := svc.Ask(context.Background(), "anything good?")
	if !fault.IsTransient(err) {
		t.Errorf("err = %v, want transient fault", err)
	}
}

func TestOpenAIClientComplete(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %s, want /chat/completions", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")

		var req completionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Model != "test-model" || len(req.Messages) != 1 {
			t.Errorf("request = %+v, want one message for test-model", req)
		}

		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": "  hello reader  "}},
			},
		})
	}))
	t.Cleanup(srv.Close)

	client := NewOpenAIClient(srv.URL, "sk-test", "test-model")
	reply, err := client.Complete(context.Background(), "hi")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if reply != "hello reader" {
		t.Errorf("reply = %q, want trimmed content", reply)
	}
	if gotAuth != "Bearer sk-test" {
		t.Errorf("Authorization = %q, want bearer key", gotAuth)
	}
}

func TestOpenAIClientErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]string{"message": "rate limited"},
		})
	}))
	t.Cleanup(srv.Close)

	client := NewOpenAIClient(srv.URL, "", "test-model")
	_, err := client.Complete(context.Background(), "hi")
	if err == nil || !strings.Contains(err.Error(), "rate limited") {
		t.Errorf("err = %v, want the server's error message", err)
	}
}
