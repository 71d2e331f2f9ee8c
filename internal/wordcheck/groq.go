package wordcheck

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/bimantaraz/game-kata/internal/obslog"
)

const degradedReason = "Pemeriksaan AI gagal, memakai cek huruf dasar."

// GroqValidator calls a Groq-compatible chat-completions endpoint and asks
// it to referee the word. Any failure on the way falls back to the local
// letter check with a degraded-mode reason so the client can tell the two
// apart.
type GroqValidator struct {
	baseURL string
	apiKey  string
	model   string
	http    *fasthttp.Client
	timeout time.Duration
}

type GroqOption func(*GroqValidator)

func WithTimeout(d time.Duration) GroqOption {
	return func(v *GroqValidator) { v.timeout = d }
}

func WithModel(model string) GroqOption {
	return func(v *GroqValidator) { v.model = model }
}

func NewGroqValidator(baseURL, apiKey string, opts ...GroqOption) *GroqValidator {
	v := &GroqValidator{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   "openai/gpt-oss-120b",
		http:    &fasthttp.Client{ReadTimeout: 10 * time.Second, WriteTimeout: 10 * time.Second, MaxConnsPerHost: 16},
		timeout: 8 * time.Second,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	ResponseFormat *respFormat   `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type respFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (v *GroqValidator) Validate(ctx context.Context, word, startLetter, endLetter, category string) Verdict {
	verdict, err := v.ask(ctx, word, startLetter, endLetter, category)
	if err != nil {
		obslog.L().Warn("oracle_fallback",
			zap.String("word", word),
			zap.Error(err),
		)
		return letterCheck(word, startLetter, endLetter, degradedReason)
	}
	return verdict
}

func (v *GroqValidator) ask(ctx context.Context, word, startLetter, endLetter, category string) (Verdict, error) {
	body, err := json.Marshal(chatRequest{
		Model: v.model,
		Messages: []chatMessage{
			{Role: "user", Content: buildPrompt(word, startLetter, endLetter, category)},
		},
		ResponseFormat: &respFormat{Type: "json_object"},
	})
	if err != nil {
		return Verdict{}, fmt.Errorf("marshal request: %w", err)
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer func() {
		fasthttp.ReleaseRequest(req)
		fasthttp.ReleaseResponse(resp)
	}()

	req.Header.SetMethod(fasthttp.MethodPost)
	req.SetRequestURI(v.baseURL + "/openai/v1/chat/completions")
	req.Header.SetContentType("application/json")
	req.Header.Set("Authorization", "Bearer "+v.apiKey)
	req.SetBody(body)

	deadline := time.Now().Add(v.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := v.http.DoDeadline(req, resp, deadline); err != nil {
		return Verdict{}, fmt.Errorf("oracle request: %w", err)
	}
	if code := resp.StatusCode(); code != fasthttp.StatusOK {
		return Verdict{}, fmt.Errorf("oracle status %d", code)
	}

	var parsed chatResponse
	if err := json.Unmarshal(resp.Body(), &parsed); err != nil {
		return Verdict{}, fmt.Errorf("decode response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return Verdict{}, fmt.Errorf("oracle returned no choices")
	}

	content := stripFences(parsed.Choices[0].Message.Content)
	var verdict Verdict
	if err := json.Unmarshal([]byte(content), &verdict); err != nil {
		return Verdict{}, fmt.Errorf("parse verdict: %w", err)
	}
	if strings.TrimSpace(verdict.Reason) == "" {
		verdict.Reason = "Kata valid!"
	}
	return verdict, nil
}

func buildPrompt(word, startLetter, endLetter, category string) string {
	var b strings.Builder
	b.WriteString("You are a strict word referee for a game.\n")
	fmt.Fprintf(&b, "Check if the word %q is valid in INDONESIAN or ENGLISH.\n\nConstraints:\n", word)
	n := 1
	if startLetter != "" {
		fmt.Fprintf(&b, "%d. MUST start with letter '%s' (case insensitive).\n", n, startLetter)
		n++
	}
	if endLetter != "" {
		fmt.Fprintf(&b, "%d. MUST end with letter '%s' (case insensitive).\n", n, endLetter)
		n++
	}
	fmt.Fprintf(&b, "%d. MUST be a meaningful word found in a standard dictionary. REJECT gibberish or made-up strings.\n", n)
	fmt.Fprintf(&b, "%d. MUST fit the category: %q (General means any valid word).\n", n+1, category)
	b.WriteString("\nRespond ONLY with this exact JSON structure:\n")
	b.WriteString(`{"isValid": boolean, "reason": "Short explanation IN INDONESIAN (Contoh: 'Kata APEL adalah buah yang valid')"}`)
	return b.String()
}

// Some models wrap JSON in markdown fences despite response_format.
func stripFences(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}
