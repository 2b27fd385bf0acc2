package ai

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	anthropicopt "github.com/anthropics/anthropic-sdk-go/option"
	"github.com/openai/openai-go/v3"
	openaiopt "github.com/openai/openai-go/v3/option"

	"github.com/matheuskafuri/marketpulse/internal/config"
)

// Brief is a short market read generated from the current headlines.
type Brief struct {
	Summary string
	Themes  []string
}

// Input is what the model sees: recent headlines and the fear/greed reading.
type Input struct {
	Headlines []string
	Label     string
	Index     int
}

// Briefer produces a market brief.
type Briefer interface {
	Brief(ctx context.Context, in Input) (Brief, error)
}

// Options tweaks the provider clients. Zero value talks to the public APIs.
type Options struct {
	BaseURL    string
	HTTPClient *http.Client
}

const maxHeadlines = 40

// New creates a Briefer from the given AI config.
func New(cfg *config.AIConfig, apiKey string, opts Options) (Briefer, error) {
	if cfg == nil || apiKey == "" {
		return nil, fmt.Errorf("AI not configured")
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}

	switch cfg.Provider {
	case "claude":
		model := cfg.Model
		if model == "" {
			model = "claude-haiku-4-5-20251001"
		}
		return newClaude(apiKey, model, opts), nil
	case "openai":
		model := cfg.Model
		if model == "" {
			model = "gpt-4o-mini"
		}
		return newOpenAI(apiKey, model, opts), nil
	default:
		return nil, fmt.Errorf("unknown AI provider: %q (valid: claude, openai)", cfg.Provider)
	}
}

const briefPrompt = `You are a markets analyst. Market mood is %s (fear/greed index %d on a -100..100 scale).
Given these %d financial headlines, write a one-sentence market brief (max 160 chars) and identify 2-4 themes driving the market. Each theme should be under 60 characters. No hype or exclamation marks.

Format your response EXACTLY like this:
SUMMARY: <one sentence>
THEMES:
<theme>
<theme>

Headlines:
%s`

func buildPrompt(in Input) string {
	headlines := in.Headlines
	if len(headlines) > maxHeadlines {
		headlines = headlines[:maxHeadlines]
	}
	var sb strings.Builder
	for _, h := range headlines {
		sb.WriteString("- ")
		sb.WriteString(h)
		sb.WriteString("\n")
	}
	label := in.Label
	if label == "" {
		label = "Neutral"
	}
	return fmt.Sprintf(briefPrompt, label, in.Index, len(headlines), sb.String())
}

// parseBrief reads the SUMMARY/THEMES layout. Anything after THEMES: is
// handed to parseThemes.
func parseBrief(text string) Brief {
	var b Brief
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "SUMMARY:"):
			b.Summary = strings.TrimSpace(strings.TrimPrefix(line, "SUMMARY:"))
		case strings.HasPrefix(line, "THEMES:"):
			rest := strings.TrimSpace(strings.TrimPrefix(line, "THEMES:"))
			body := strings.Join(lines[i+1:], "\n")
			if rest != "" {
				body = strings.Join(strings.Split(rest, ","), "\n") + "\n" + body
			}
			b.Themes = parseThemes(body)
			return b
		}
	}
	return b
}

func parseThemes(text string) []string {
	var themes []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, "•-*")
		line = strings.TrimSpace(line)
		if len(line) > 2 && line[0] >= '0' && line[0] <= '9' {
			// "1. " or "1) "
			for i, c := range line {
				if c == '.' || c == ')' {
					line = strings.TrimSpace(line[i+1:])
					break
				}
				if c < '0' || c > '9' {
					break
				}
			}
		}
		if line == "" || strings.HasPrefix(line, "SUMMARY:") {
			continue
		}
		if len(line) > 60 {
			line = line[:60]
		}
		themes = append(themes, line)
		if len(themes) >= 4 {
			break
		}
	}
	return themes
}

type completer func(ctx context.Context, prompt string) (string, error)

func brief(ctx context.Context, call completer, in Input) (Brief, error) {
	if len(in.Headlines) == 0 {
		return Brief{}, nil
	}
	text, err := call(ctx, buildPrompt(in))
	if err != nil {
		return Brief{}, err
	}
	b := parseBrief(text)
	if b.Summary == "" {
		return Brief{}, fmt.Errorf("unexpected model response: %.80q", text)
	}
	return b, nil
}

// --- Claude provider ---

type claudeProvider struct {
	client anthropic.Client
	model  string
}

func newClaude(apiKey, model string, opts Options) *claudeProvider {
	reqOpts := []anthropicopt.RequestOption{
		anthropicopt.WithAPIKey(apiKey),
		anthropicopt.WithHTTPClient(opts.HTTPClient),
		anthropicopt.WithMaxRetries(1),
	}
	if opts.BaseURL != "" {
		reqOpts = append(reqOpts, anthropicopt.WithBaseURL(opts.BaseURL))
	}
	return &claudeProvider{client: anthropic.NewClient(reqOpts...), model: model}
}

func (c *claudeProvider) Brief(ctx context.Context, in Input) (Brief, error) {
	return brief(ctx, c.call, in)
}

func (c *claudeProvider) call(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: 256,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("claude API error: %w", err)
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("empty claude response")
	}
	return sb.String(), nil
}

// --- OpenAI provider ---

type openaiProvider struct {
	client openai.Client
	model  string
}

func newOpenAI(apiKey, model string, opts Options) *openaiProvider {
	reqOpts := []openaiopt.RequestOption{
		openaiopt.WithAPIKey(apiKey),
		openaiopt.WithHTTPClient(opts.HTTPClient),
		openaiopt.WithMaxRetries(1),
	}
	if opts.BaseURL != "" {
		reqOpts = append(reqOpts, openaiopt.WithBaseURL(opts.BaseURL))
	}
	return &openaiProvider{client: openai.NewClient(reqOpts...), model: model}
}

func (o *openaiProvider) Brief(ctx context.Context, in Input) (Brief, error) {
	return brief(ctx, o.call, in)
}

func (o *openaiProvider) call(ctx context.Context, prompt string) (string, error) {
	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty openai response")
	}
	return resp.Choices[0].Message.Content, nil
}
