package app

import (
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/indago/internal/common"
	"github.com/ternarybob/indago/internal/handlers"
	"github.com/ternarybob/indago/internal/interfaces"
	"github.com/ternarybob/indago/internal/services/analysis"
	"github.com/ternarybob/indago/internal/services/crawler"
	"github.com/ternarybob/indago/internal/services/digest"
	"github.com/ternarybob/indago/internal/services/document"
	"github.com/ternarybob/indago/internal/services/export"
	"github.com/ternarybob/indago/internal/services/financial"
	"github.com/ternarybob/indago/internal/services/leadership"
	"github.com/ternarybob/indago/internal/services/llm"
	"github.com/ternarybob/indago/internal/services/news"
	"github.com/ternarybob/indago/internal/services/research"
	"github.com/ternarybob/indago/internal/services/resolver"
	slackclient "github.com/ternarybob/indago/internal/services/slack"
	"github.com/ternarybob/indago/internal/services/wiki"
	badgerstore "github.com/ternarybob/indago/internal/storage/badger"
)

// App holds all application components and dependencies.
type App struct {
	Config *common.Config
	Logger arbor.ILogger

	// Storage
	db      *badgerstore.BadgerDB
	KVStore interfaces.KeyValueStorage

	// Domain services
	LLMService        interfaces.LLMService
	ResolverService   interfaces.ResolverService
	CrawlerService    interfaces.CrawlerService
	WikiService       interfaces.WikiService
	FinancialService  interfaces.FinancialService
	NewsService       interfaces.NewsService
	LeadershipService interfaces.LeadershipService
	AnalysisService   interfaces.AnalysisService
	ExportService     interfaces.ExportService
	ResearchService   interfaces.ResearchService
	SlackClient       interfaces.SlackClient
	Conversations     interfaces.ConversationStore
	DigestService     *digest.Service

	// HTTP handlers
	Bot                 *handlers.Bot
	EventsHandler       *handlers.SlackEventsHandler
	InteractionsHandler *handlers.SlackInteractionsHandler
	CommandHandler      *handlers.SlackCommandHandler
	DownloadsHandler    *handlers.DownloadsHandler
	StatusHandler       *handlers.StatusHandler
}

// New wires the full service graph from configuration.
func New(config *common.Config, logger arbor.ILogger) (*App, error) {
	a := &App{
		Config: config,
		Logger: logger,
	}

	db, err := badgerstore.NewBadgerDB(logger, &config.Storage.Badger)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}
	a.db = db
	a.KVStore = badgerstore.NewKVStorage(db, logger)

	llmService, err := llm.NewLLMService(config.LLM, logger)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to initialize LLM service: %w", err)
	}
	a.LLMService = llmService

	extractor := document.NewExtractor(config.Crawler, logger)
	a.ResolverService = resolver.NewService(config.Resolver, logger)
	a.CrawlerService = crawler.NewService(config.Crawler, extractor, logger)
	a.WikiService = wiki.NewService(config.Wiki, logger)
	a.FinancialService = financial.NewService(config.Financial, logger)
	a.NewsService = news.NewService(config.News, logger)
	a.LeadershipService = leadership.NewService(config.Research, a.WikiService, llmService, logger)
	a.AnalysisService = analysis.NewService(llmService, logger)
	a.ExportService = export.NewService(config.Export, logger)

	a.ResearchService = research.NewService(
		config.Research,
		a.ResolverService,
		a.CrawlerService,
		a.WikiService,
		a.FinancialService,
		a.NewsService,
		a.LeadershipService,
		a.AnalysisService,
		a.ExportService,
		a.KVStore,
		logger,
	)

	a.SlackClient = slackclient.NewClient(config.Slack, logger)
	a.Conversations = slackclient.NewConversationStore(config.Slack.ConversationCap)

	a.Bot = handlers.NewBot(
		config.Research,
		a.ResearchService,
		a.AnalysisService,
		a.ResolverService,
		a.FinancialService,
		a.LeadershipService,
		a.SlackClient,
		a.ExportService,
		a.Conversations,
		logger,
	)

	deduper := slackclient.NewEventDeduper(a.KVStore, config.Slack.EventTTL)
	a.EventsHandler = handlers.NewSlackEventsHandler(config.Slack, a.Bot, deduper, logger)
	a.InteractionsHandler = handlers.NewSlackInteractionsHandler(a.Bot, logger)
	a.CommandHandler = handlers.NewSlackCommandHandler(a.Bot, logger)
	a.DownloadsHandler = handlers.NewDownloadsHandler(config.Export.DownloadsDir, logger)
	a.StatusHandler = handlers.NewStatusHandler(logger)

	a.DigestService = digest.NewService(config.Digest, config.Slack.DigestChannel,
		a.NewsService, a.AnalysisService, a.SlackClient, logger)
	if err := a.DigestService.Start(); err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to start digest scheduler: %w", err)
	}

	logger.Info().Str("environment", config.Environment).Msg("Application initialized")
	return a, nil
}

// Close releases background schedulers and storage in reverse order.
func (a *App) Close() {
	if a.DigestService != nil {
		a.DigestService.Stop()
	}
	if a.LLMService != nil {
		if err := a.LLMService.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("LLM service close failed")
		}
	}
	// KVStore.Close closes the underlying database.
	switch {
	case a.KVStore != nil:
		if err := a.KVStore.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Storage close failed")
		}
	case a.db != nil:
		if err := a.db.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Storage close failed")
		}
	}
}
