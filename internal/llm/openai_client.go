package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mvilar/glucose-tracker/internal/domain"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

var (
	// ErrOpenAIUnavailable indicates the OpenAI service is not configured or unavailable.
	ErrOpenAIUnavailable = errors.New("OpenAI service unavailable")
	// ErrOpenAIRequest indicates an error during the OpenAI API request.
	ErrOpenAIRequest = errors.New("OpenAI request failed")
	// ErrOpenAIResponse indicates an error parsing the OpenAI response.
	ErrOpenAIResponse = errors.New("failed to parse OpenAI response")
)

const systemPrompt = `You are a non-medical glucose tracking assistant.

You receive the summary statistics, headline cards and safety alerts computed from one uploaded continuous-glucose-monitoring session. You must base your conclusions only on the provided data.

Your goals:
- Describe the session in clear, neutral language.
- Explain time-in-range, above-range and below-range percentages in plain words.
- Relate the short-term trend and the forecast-derived alerts to what the user saw on the chart.
- Give practical, behavioral suggestions around logging and routine.

Rules:
- Do NOT provide medical advice, dosing guidance, or diagnoses.
- Do NOT contradict or re-estimate any number you were given.
- Treat the estimated HbA1c as an estimate, never as a lab result.
- If alerts are present, acknowledge them and recommend discussing them with a care team.
- Be concise and concrete.

You must respond as strict JSON with exactly this shape:

{
  "summary": "2-3 sentences summarizing the session.",
  "observations": [
    "3-6 bullet points about time in range, average, trend, and any alerts."
  ],
  "guidance": [
    "2-4 concrete, non-medical suggestions tied to these numbers."
  ]
}

No extra fields. No comments. No backticks.`

const userPromptTemplate = `Here is JSON describing one glucose session dashboard.

- "glucose_stats" holds time-in-range (tir), above-range (tar) and below-range (tbr) percentages, the average in mg/dL, and the reading count.
- "cards" holds the value at the forecast anchor, the average, an estimated HbA1c, and the short-term trend.
- "alerts" lists the safety alerts raised over observed and predicted values.

JSON:

%s

Based on this data, respond in the required JSON format.`

// InsightsLLM is the interface for generating session narratives using an LLM.
type InsightsLLM interface {
	// GenerateInsights takes a session context and returns LLM-generated insights.
	GenerateInsights(ctx context.Context, insightsCtx *domain.InsightsContext) (*domain.SessionInsights, error)
}

// OpenAIClient implements InsightsLLM using the OpenAI API.
type OpenAIClient struct {
	client openai.Client
	model  string
}

// NewOpenAIClient creates a new OpenAI client for generating insights.
// Returns nil if apiKey is empty.
func NewOpenAIClient(apiKey, model string) *OpenAIClient {
	if apiKey == "" {
		return nil
	}

	if model == "" {
		model = "gpt-4o-mini"
	}

	client := openai.NewClient(option.WithAPIKey(apiKey))

	return &OpenAIClient{
		client: client,
		model:  model,
	}
}

// GenerateInsights calls OpenAI to generate a session narrative.
func (c *OpenAIClient) GenerateInsights(ctx context.Context, insightsCtx *domain.InsightsContext) (*domain.SessionInsights, error) {
	if c == nil {
		return nil, ErrOpenAIUnavailable
	}

	contextJSON, err := json.MarshalIndent(insightsCtx, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: failed to serialize context: %v", ErrOpenAIRequest, err)
	}

	userPrompt := fmt.Sprintf(userPromptTemplate, string(contextJSON))

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userPrompt),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOpenAIRequest, err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: no choices in response", ErrOpenAIResponse)
	}

	content := resp.Choices[0].Message.Content

	var output domain.SessionInsights
	if err := json.Unmarshal([]byte(content), &output); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOpenAIResponse, err)
	}

	return &output, nil
}
