// Package eve implements the health assistant: it answers questions about
// the user's lab reports and wearable data by grounding an LLM chat
// completion in the stored data.
package eve

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/pmcorreia/vitals/internal/report"
	"github.com/pmcorreia/vitals/internal/whoop"
)

const (
	defaultModel   = "gpt-4o-mini"
	defaultTimeout = 60 * time.Second

	// contextRecords caps how many recent wearable records go into the
	// prompt per collection.
	contextRecords = 7

	systemPrompt = `You are Eve, a personal health data assistant. You answer
questions about the user's gut microbiome lab reports and WHOOP wearable data.
Ground every answer in the data provided in the context. When the data does not
support an answer, say so plainly. You are not a doctor and do not give medical
advice; suggest consulting a professional for clinical decisions.`
)

// Config holds settings for the assistant.
type Config struct {
	APIKey     string
	BaseURL    string
	Model      string
	Timeout    time.Duration
	MaxRetries int
	HTTPClient *http.Client
}

// Assistant answers questions over the stored health data.
type Assistant struct {
	client     openai.Client
	model      string
	reports    *report.Store
	whoopStore *whoop.FileStore
	logger     *slog.Logger
}

// New creates an Assistant. Zero-valued config fields fall back to defaults.
func New(cfg Config, reports *report.Store, whoopStore *whoop.FileStore, logger *slog.Logger) *Assistant {
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 2
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}
	if logger == nil {
		logger = slog.Default()
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(cfg.HTTPClient),
		option.WithMaxRetries(cfg.MaxRetries),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &Assistant{
		client:     openai.NewClient(opts...),
		model:      cfg.Model,
		reports:    reports,
		whoopStore: whoopStore,
		logger:     logger,
	}
}

// Ask answers one question, grounding the completion in the newest report and
// the most recent wearable records.
func (a *Assistant) Ask(ctx context.Context, question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", fmt.Errorf("empty question")
	}

	dataContext, err := a.buildContext()
	if err != nil {
		return "", err
	}

	resp, err := a.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(a.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.SystemMessage("Health data context:\n" + dataContext),
			openai.UserMessage(question),
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}

	a.logger.Info("eve answered", "model", a.model,
		"prompt_tokens", resp.Usage.PromptTokens,
		"completion_tokens", resp.Usage.CompletionTokens)
	return resp.Choices[0].Message.Content, nil
}

// buildContext serializes the newest report and recent wearable records into
// the prompt context. Missing data sources are noted, not fatal: Eve can
// still answer about whatever is available.
func (a *Assistant) buildContext() (string, error) {
	var b strings.Builder

	summaries, err := a.reports.List()
	if err != nil || len(summaries) == 0 {
		b.WriteString("No lab reports stored.\n")
	} else {
		stored, err := a.reports.Get(summaries[0].ID)
		if err != nil {
			return "", fmt.Errorf("failed to load latest report: %w", err)
		}
		data, err := json.Marshal(stored.Report)
		if err != nil {
			return "", fmt.Errorf("failed to serialize report: %w", err)
		}
		fmt.Fprintf(&b, "Latest lab report (%s, %s):\n%s\n",
			stored.SourceFile, stored.CreatedAt.Format("2006-01-02"), data)
	}

	for _, t := range whoop.AllDataTypes {
		tf := a.whoopStore.Load(t)
		if len(tf.Records) == 0 {
			fmt.Fprintf(&b, "No %s data synced.\n", t)
			continue
		}

		recent := tf.Records
		if len(recent) > contextRecords {
			recent = recent[:contextRecords]
		}
		data, err := json.Marshal(recent)
		if err != nil {
			return "", fmt.Errorf("failed to serialize %s data: %w", t, err)
		}
		fmt.Fprintf(&b, "Recent %s records (%d of %d total):\n%s\n",
			t, len(recent), tf.TotalCount, data)
	}

	return b.String(), nil
}
