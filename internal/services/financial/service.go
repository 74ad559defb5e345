package financial

import (
	"context"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/indago/internal/common"
	"github.com/ternarybob/indago/internal/models"
)

// providerStrategy is one rung of the financial data cascade.
type providerStrategy struct {
	name     string
	supports func(models.CompanyIdentity) bool
	fetch    func(ctx context.Context, identity models.CompanyIdentity) (models.TrendSet, error)
}

// Service aggregates trend data by walking an ordered provider cascade and
// falling back to regex extraction over crawled text when every provider
// comes up empty.
type Service struct {
	config    common.FinancialConfig
	providers []providerStrategy
	logger    arbor.ILogger
}

func NewService(config common.FinancialConfig, logger arbor.ILogger) *Service {
	s := &Service{
		config: config,
		logger: logger.WithPrefix("financial"),
	}

	premium := newPremiumProvider(config, s.logger)
	timeseries := newTimeseriesProvider(config, s.logger)
	snapshot := newSnapshotProvider(config, s.logger)

	s.providers = []providerStrategy{
		{
			name:     "premium",
			supports: func(id models.CompanyIdentity) bool { return id.Market == models.MarketUS && config.MarketDataAPIKey != "" },
			fetch:    premium.fetch,
		},
		{
			name:     "timeseries",
			supports: func(id models.CompanyIdentity) bool { return id.Market == models.MarketIndia && config.TimeseriesAPIKey != "" },
			fetch:    timeseries.fetch,
		},
		{
			name:     "snapshot",
			supports: func(id models.CompanyIdentity) bool { return id.Ticker != "" },
			fetch:    snapshot.fetch,
		},
	}
	return s
}

// GetTrends walks the cascade to the first provider producing non-empty
// statements. When the cascade fails entirely, financial lines are recovered
// from crawled page and PDF text. A fully dry result is an empty set, never
// an error.
func (s *Service) GetTrends(ctx context.Context, identity models.CompanyIdentity, pages []models.PageRecord, pdfTexts []string) models.TrendSet {
	for _, provider := range s.providers {
		if !provider.supports(identity) {
			continue
		}

		set, err := provider.fetch(ctx, identity)
		if err != nil {
			s.logger.Warn().Str("provider", provider.name).Str("ticker", identity.Ticker).Err(err).Msg("Provider failed, trying next")
			continue
		}

		set.Statements = models.FilterPlaceholders(set.Statements)
		if set.Empty() {
			s.logger.Debug().Str("provider", provider.name).Msg("Provider returned no usable data")
			continue
		}

		set.Source = provider.name
		s.logger.Info().
			Str("provider", provider.name).
			Int("statements", len(set.Statements)).
			Int("charts", len(set.Charts)).
			Msg("Financial data resolved")
		return set
	}

	var texts []string
	for _, p := range pages {
		texts = append(texts, p.Text)
	}
	texts = append(texts, pdfTexts...)

	set := extractFromText(texts, s.config.FundamentalYears)
	if !set.Empty() {
		set.Source = "text-extraction"
		s.logger.Info().Int("statements", len(set.Statements)).Msg("Financial data recovered from crawled text")
	}
	return set
}
