package di

import (
	"time"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/verifyit/verifyit/internal/adapters/httpserver"
	"github.com/verifyit/verifyit/internal/alert"
	"github.com/verifyit/verifyit/internal/analysis"
	"github.com/verifyit/verifyit/internal/config"
	"github.com/verifyit/verifyit/internal/core"
	"github.com/verifyit/verifyit/internal/factory"
	"github.com/verifyit/verifyit/internal/logging"
	"github.com/verifyit/verifyit/internal/utils"
)

// aiClientBundle carries the AI client with its provenance identifiers.
type aiClientBundle struct {
	client   core.AIClient
	provider string
	model    string
}

// BuildContainer creates and configures a dependency injection container
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(config.New); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	// Register factories
	if err := container.Provide(factory.NewAIFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewCacheFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewStoreFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewMailerFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewTextProcessorFactory); err != nil {
		return nil, err
	}

	// Register text processor
	if err := container.Provide(func(f *factory.TextProcessorFactory) *utils.TextProcessor {
		return f.CreateTextProcessor()
	}); err != nil {
		return nil, err
	}

	// Register AI client with its provenance
	if err := container.Provide(func(f *factory.AIFactory) (*aiClientBundle, error) {
		client, provider, model, err := f.CreateAIClient()
		if err != nil {
			return nil, err
		}
		return &aiClientBundle{client: client, provider: provider, model: model}, nil
	}); err != nil {
		return nil, err
	}

	// Expose the bare client for shutdown handling
	if err := container.Provide(func(b *aiClientBundle) core.AIClient {
		return b.client
	}); err != nil {
		return nil, err
	}

	// Register cache repository
	if err := container.Provide(func(f *factory.CacheFactory) (core.CacheRepository, error) {
		return f.CreateCacheRepository()
	}); err != nil {
		return nil, err
	}

	// Register subscriber repository
	if err := container.Provide(func(f *factory.StoreFactory) (core.SubscriberRepository, error) {
		return f.CreateSubscriberRepository()
	}); err != nil {
		return nil, err
	}

	// Register alert mailer
	if err := container.Provide(func(f *factory.MailerFactory) (core.AlertMailer, error) {
		return f.CreateAlertMailer()
	}); err != nil {
		return nil, err
	}

	// Register analysis service
	if err := container.Provide(func(
		cfg *config.Config,
		bundle *aiClientBundle,
		cacheRepo core.CacheRepository,
		cacheFactory *factory.CacheFactory,
		logger *zap.Logger,
	) (*core.AnalysisService, error) {
		ttl, err := cacheFactory.GetCacheTTL()
		if err != nil {
			ttl = 24 * time.Hour
		}
		return core.NewAnalysisService(
			analysis.Analyze,
			analysis.Merge,
			analysis.IsUsable,
			bundle.client,
			bundle.provider,
			bundle.model,
			cacheRepo,
			cacheFactory.IsCacheEnabled(),
			ttl,
			cfg.GetInt("analysis.max_input_length"),
			logger,
		), nil
	}); err != nil {
		return nil, err
	}

	// Register alert service
	if err := container.Provide(func(
		cfg *config.Config,
		subscribers core.SubscriberRepository,
		alertMailer core.AlertMailer,
		textProcessor *utils.TextProcessor,
		logger *zap.Logger,
	) *alert.Service {
		alertCfg := cfg.GetAlerts()
		return alert.NewService(
			alertCfg.Enabled,
			alertCfg.HighRiskThreshold,
			alertCfg.Cooldown,
			alertCfg.FromName,
			alertCfg.FromAddress,
			subscribers,
			alertMailer,
			textProcessor,
			logger,
		)
	}); err != nil {
		return nil, err
	}

	// Register HTTP server
	if err := container.Provide(func(
		cfg *config.Config,
		analysisSvc *core.AnalysisService,
		alertSvc *alert.Service,
		subscribers core.SubscriberRepository,
		bundle *aiClientBundle,
		logger *zap.Logger,
	) *httpserver.Server {
		return httpserver.NewServer(
			analysisSvc,
			alertSvc,
			subscribers,
			bundle.provider,
			bundle.model,
			cfg.GetString("server.listen_address"),
			cfg.GetStringSlice("server.cors_allowed_origins"),
			logger,
		)
	}); err != nil {
		return nil, err
	}

	return container, nil
}
