package gemini

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"github.com/verifyit/verifyit/internal/analysis"
	"github.com/verifyit/verifyit/internal/core"
	"github.com/verifyit/verifyit/internal/utils"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// GeminiClient is an implementation of the AIClient interface using Google Gemini
type GeminiClient struct {
	client        *genai.Client
	model         *genai.GenerativeModel
	modelName     string
	maxBodySize   int
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
	promptFormat  string
}

// NewGeminiClient creates a new Gemini client
func NewGeminiClient(
	apiKey string,
	modelName string,
	maxTokens int,
	temperature float32,
	topP float32,
	maxBodySize int,
	logger *zap.Logger,
	textProcessor *utils.TextProcessor,
) (*GeminiClient, error) {
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(temperature)
	model.SetTopP(topP)
	model.SetMaxOutputTokens(int32(maxTokens))

	return &GeminiClient{
		client:        client,
		model:         model,
		modelName:     modelName,
		maxBodySize:   maxBodySize,
		logger:        logger,
		textProcessor: textProcessor,
		promptFormat:  analysisPrompt,
	}, nil
}

const analysisPrompt = `You are a scam and misinformation detection system. Analyze the following content for fraud, scam, and misinformation risk.
Respond with a JSON object containing:
- score: integer 0-100 (higher means more trustworthy)
- verdict: one of "HIGHLY SUSPICIOUS", "PROCEED WITH CAUTION", "LIKELY LEGITIMATE"
- analysis: string (detailed explanation of your assessment)
- credibilityScore: integer 0-100
- suspiciousScore: integer 0-100 (higher means more suspicious)
- emotionalScore: integer 0-100 (degree of emotional manipulation)
- structureScore: integer 0-100
- sourceScore: integer 0-100
- indicators: array of short labeled findings
- contentType: "text" or "phone"

Content:
%s

Respond only with the JSON object and nothing else.`

// Close closes the Gemini client
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// AnalyzeText analyzes content for scam/misinformation risk
func (c *GeminiClient) AnalyzeText(ctx context.Context, text string) (*core.AnalysisResult, error) {
	processed := c.textProcessor.ProcessText(text, c.maxBodySize)
	prompt := fmt.Sprintf(c.promptFormat, processed)

	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("failed to generate content with Gemini: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("empty response from Gemini")
	}

	responseText := fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0])

	raw, err := analysis.ExtractResult(responseText)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Gemini response: %w", err)
	}

	return analysis.Normalize(raw, analysis.DetectMode(text), core.ProviderGemini, c.modelName), nil
}
