package factory

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/verifyit/verifyit/internal/adapters/bedrock"
	"github.com/verifyit/verifyit/internal/adapters/gemini"
	"github.com/verifyit/verifyit/internal/adapters/openai"
	"github.com/verifyit/verifyit/internal/config"
	"github.com/verifyit/verifyit/internal/core"
	"github.com/verifyit/verifyit/internal/utils"
	"go.uber.org/zap"
)

// AIFactory creates external AI analysis clients
type AIFactory struct {
	cfg           *config.Config
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewAIFactory creates a new AI factory
func NewAIFactory(cfg *config.Config, logger *zap.Logger, textProcessor *utils.TextProcessor) *AIFactory {
	return &AIFactory{
		cfg:           cfg,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// CreateAIClient creates an AI client based on the configuration. Provider
// "none" disables the AI path and returns a nil client.
func (f *AIFactory) CreateAIClient() (core.AIClient, string, string, error) {
	aiConfig := f.cfg.GetAI()

	switch aiConfig.Provider {
	case "none", "":
		return nil, "", "", nil
	case "gemini":
		cfg := f.cfg.GetGemini()
		if cfg.APIKey == "" {
			return nil, "", "", fmt.Errorf("gemini API key is required")
		}
		client, err := gemini.NewGeminiClient(
			cfg.APIKey,
			cfg.ModelName,
			cfg.MaxTokens,
			cfg.Temperature,
			cfg.TopP,
			cfg.MaxBodySize,
			f.logger,
			f.textProcessor,
		)
		if err != nil {
			return nil, "", "", err
		}
		return client, core.ProviderGemini, cfg.ModelName, nil
	case "openai":
		cfg := f.cfg.GetOpenAI()
		if cfg.APIKey == "" {
			return nil, "", "", fmt.Errorf("openai API key is required")
		}
		client := openai.NewOpenAIClient(
			cfg.APIKey,
			cfg.ModelName,
			cfg.MaxTokens,
			cfg.Temperature,
			cfg.TopP,
			cfg.MaxBodySize,
			f.logger,
			f.textProcessor,
		)
		return client, core.ProviderOpenAI, cfg.ModelName, nil
	case "bedrock":
		cfg := f.cfg.GetBedrock()
		awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
			awsconfig.WithRegion(cfg.Region))
		if err != nil {
			return nil, "", "", fmt.Errorf("failed to load AWS config: %w", err)
		}
		client := bedrock.NewBedrockClient(
			bedrockruntime.NewFromConfig(awsCfg),
			cfg.ModelID,
			cfg.MaxTokens,
			cfg.Temperature,
			cfg.TopP,
			cfg.MaxBodySize,
			f.logger,
			f.textProcessor,
		)
		return client, core.ProviderBedrock, cfg.ModelID, nil
	default:
		return nil, "", "", fmt.Errorf("unsupported AI provider: %s", aiConfig.Provider)
	}
}
