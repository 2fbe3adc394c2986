// Package assistant answers reader questions with a language model,
// grounding recommendations in the platform's own catalog.
package assistant

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"text/template"
	"time"

	"go.uber.org/zap"

	"github.com/Umair-Ahm3d/Club-Lit/internal/cache"
	"github.com/Umair-Ahm3d/Club-Lit/internal/fault"
	"github.com/Umair-Ahm3d/Club-Lit/internal/models"
)

// Completer turns a prompt into a model reply.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// BookSource is the slice of the catalog the assistant reads.
type BookSource interface {
	List(ctx context.Context, genre, search string) ([]models.Book, error)
}

// Intents the assistant distinguishes. The intent picks the prompt
// template; recommend and summary get catalog context, general does not.
const (
	IntentRecommend = "recommend"
	IntentSummary   = "summary"
	IntentGeneral   = "general"
)

const (
	maxQuestionLen = 500
	replyTTL       = time.Hour
	catalogLimit   = 30
)

// DetectIntent classifies a question by keyword. Crude on purpose; the
// model handles nuance, this only picks how much catalog to show it.
func DetectIntent(question string) string {
	q := strings.ToLower(question)
	switch {
	case strings.Contains(q, "recommend") || strings.Contains(q, "suggest") ||
		strings.Contains(q, "what should i read") || strings.Contains(q, "similar to"):
		return IntentRecommend
	case strings.Contains(q, "summar") || strings.Contains(q, "synopsis") ||
		strings.Contains(q, "what is") && strings.Contains(q, "about"):
		return IntentSummary
	default:
		return IntentGeneral
	}
}

var prompts = template.Must(template.New("prompts").Parse(`
{{- define "recommend" -}}
You are the reading assistant of a book club platform. Recommend titles
from the catalog below when they fit; otherwise recommend well-known books
and say they are not on the platform yet.

Catalog:
{{range .Books}}- {{.Title}} by {{.Author}}{{if .Genre}} ({{.Genre}}){{end}}
{{end}}
Reader question: {{.Question}}
{{- end}}

{{- define "summary" -}}
You are the reading assistant of a book club platform. Give a short,
spoiler-light answer.

Reader question: {{.Question}}
{{- end}}

{{- define "general" -}}
You are the reading assistant of a book club platform. Answer briefly and
stay on the topic of books and reading.

Reader question: {{.Question}}
{{- end}}`))

type promptData struct {
	Question string
	Books    []models.Book
}

// Answer is what Ask returns to the API layer.
type Answer struct {
	Reply  string `json:"reply"`
	Intent string `json:"intent"`
	Cached bool   `json:"cached"`
}

type Service struct {
	completer Completer
	books     BookSource
	cache     cache.Cache
	logger    *zap.Logger
}

func NewService(completer Completer, books BookSource, c cache.Cache, logger *zap.Logger) *Service {
	return &Service{
		completer: completer,
		books:     books,
		cache:     c,
		logger:    logger,
	}
}

// Ask answers a question, serving repeats from the cache. Cache failures
// are logged and ignored; the model call is the only hard dependency.
func (s *Service) Ask(ctx context.Context, question string) (*Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fault.Validation("question must not be blank")
	}
	if len(question) > maxQuestionLen {
		return nil, fault.Validation("question exceeds %d characters", maxQuestionLen)
	}

	intent := DetectIntent(question)
	key := replyKey(question)

	if cached, err := s.cache.Get(ctx, key); err == nil {
		return &Answer{Reply: cached, Intent: intent, Cached: true}, nil
	} else if !errors.Is(err, cache.ErrMiss) {
		s.logger.Warn("assistant cache read failed", zap.Error(err))
	}

	prompt, err := s.buildPrompt(ctx, intent, question)
	if err != nil {
		return nil, err
	}

	reply, err := s.completer.Complete(ctx, prompt)
	if err != nil {
		return nil, fault.Transient(err, "assistant completion")
	}

	if err := s.cache.Set(ctx, key, reply, replyTTL); err != nil {
		s.logger.Warn("assistant cache write failed", zap.Error(err))
	}
	return &Answer{Reply: reply, Intent: intent}, nil
}

func (s *Service) buildPrompt(ctx context.Context, intent, question string) (string, error) {
	data := promptData{Question: question}

	if intent == IntentRecommend {
		books, err := s.books.List(ctx, "", "")
		if err != nil {
			return "", fault.Transient(err, "load catalog")
		}
		if len(books) > catalogLimit {
			books = books[:catalogLimit]
		}
		data.Books = books
	}

	var b strings.Builder
	if err := prompts.ExecuteTemplate(&b, intent, data); err != nil {
		return "", fault.Transient(err, "render prompt")
	}
	return b.String(), nil
}

// replyKey is stable across whitespace and casing so trivially rephrased
// questions share a cache entry.
func replyKey(question string) string {
	norm := strings.ToLower(strings.Join(strings.Fields(question), " "))
	sum := sha256.Sum256([]byte(norm))
	return "assistant:reply:" + hex.EncodeToString(sum[:])
}
