package openai

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"
	"github.com/verifyit/verifyit/internal/analysis"
	"github.com/verifyit/verifyit/internal/core"
	"github.com/verifyit/verifyit/internal/utils"
	"go.uber.org/zap"
)

// OpenAIClient is an implementation of the AIClient interface using OpenAI
type OpenAIClient struct {
	client        *openai.Client
	modelName     string
	maxTokens     int
	temperature   float32
	topP          float32
	maxBodySize   int
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
	promptFormat  string
}

// NewOpenAIClient creates a new OpenAI client
func NewOpenAIClient(
	apiKey string,
	modelName string,
	maxTokens int,
	temperature float32,
	topP float32,
	maxBodySize int,
	logger *zap.Logger,
	textProcessor *utils.TextProcessor,
) *OpenAIClient {
	client := openai.NewClient(apiKey)

	return &OpenAIClient{
		client:        client,
		modelName:     modelName,
		maxTokens:     maxTokens,
		temperature:   temperature,
		topP:          topP,
		maxBodySize:   maxBodySize,
		logger:        logger,
		textProcessor: textProcessor,
		promptFormat: `Analyze the following content for fraud, scam, and misinformation risk.
Respond with a JSON object containing:
- score: integer 0-100 (higher means more trustworthy)
- verdict: one of "HIGHLY SUSPICIOUS", "PROCEED WITH CAUTION", "LIKELY LEGITIMATE"
- analysis: string (detailed explanation of your assessment)
- credibilityScore, suspiciousScore, emotionalScore, structureScore, sourceScore: integers 0-100
- indicators: array of short labeled findings
- contentType: "text" or "phone"

Content:
%s

Respond only with the JSON object and nothing else.`,
	}
}

// AnalyzeText analyzes content for scam/misinformation risk
func (c *OpenAIClient) AnalyzeText(ctx context.Context, text string) (*core.AnalysisResult, error) {
	processed := c.textProcessor.ProcessText(text, c.maxBodySize)
	prompt := fmt.Sprintf(c.promptFormat, processed)

	req := openai.ChatCompletionRequest{
		Model: c.modelName,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are a scam and misinformation detection system. Respond only with JSON.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
		TopP:        c.topP,
	}
	req.ResponseFormat = &openai.ChatCompletionResponseFormat{
		Type: openai.ChatCompletionResponseFormatTypeJSONObject,
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat completion with OpenAI: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("empty response from OpenAI")
	}

	raw, err := analysis.ExtractResult(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse OpenAI response: %w", err)
	}

	return analysis.Normalize(raw, analysis.DetectMode(text), core.ProviderOpenAI, c.modelName), nil
}
