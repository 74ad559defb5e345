package digest

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/indago/internal/common"
	"github.com/ternarybob/indago/internal/interfaces"
	"github.com/ternarybob/indago/internal/models"
)

const runTimeout = 10 * time.Minute

// Service posts a scheduled news digest for every watchlist company: bulk
// and regional feed items, filtered per company, grouped into themes by the
// model, delivered as one Block Kit message per company.
type Service struct {
	config   common.DigestConfig
	channel  string
	news     interfaces.NewsService
	analysis interfaces.AnalysisService
	slack    interfaces.SlackClient
	cron     *cron.Cron
	entryID  cron.EntryID
	logger   arbor.ILogger
}

func NewService(config common.DigestConfig, channel string, news interfaces.NewsService, analysis interfaces.AnalysisService, slack interfaces.SlackClient, logger arbor.ILogger) *Service {
	return &Service{
		config:   config,
		channel:  channel,
		news:     news,
		analysis: analysis,
		slack:    slack,
		cron:     cron.New(),
		logger:   logger.WithPrefix("digest"),
	}
}

// Start registers the cron entry and begins the schedule. Disabled digests
// start nothing and return nil.
func (s *Service) Start() error {
	if !s.config.Enabled {
		s.logger.Info().Msg("Digest disabled")
		return nil
	}
	if s.channel == "" {
		return fmt.Errorf("digest enabled but no channel configured")
	}

	id, err := s.cron.AddFunc(s.config.Schedule, s.runScheduled)
	if err != nil {
		return fmt.Errorf("invalid digest schedule %q: %w", s.config.Schedule, err)
	}
	s.entryID = id
	s.cron.Start()
	s.logger.Info().Str("schedule", s.config.Schedule).Str("channel", s.channel).Msg("Digest scheduled")
	return nil
}

// Stop halts the schedule and waits for a running digest to finish.
func (s *Service) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *Service) runScheduled() {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()
	if err := s.Run(ctx); err != nil {
		s.logger.Error().Err(err).Msg("Digest run failed")
	}
}

// Run executes one digest pass over the watchlist. A company whose
// collection or delivery fails is logged and skipped; the pass continues.
func (s *Service) Run(ctx context.Context) error {
	companies, err := LoadWatchlist(s.config.WatchlistFile)
	if err != nil {
		return err
	}
	if len(companies) == 0 {
		s.logger.Warn().Str("file", s.config.WatchlistFile).Msg("Watchlist is empty")
		return nil
	}

	start := time.Now()
	for _, company := range companies {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.digestCompany(ctx, company)
	}
	s.logger.Info().Int("companies", len(companies)).Dur("elapsed", time.Since(start)).Msg("Digest pass complete")
	return nil
}

func (s *Service) digestCompany(ctx context.Context, company string) {
	items := s.news.CollectDigestNews(ctx, company)
	if len(items) == 0 {
		s.logger.Debug().Str("company", company).Msg("No digest items found")
		return
	}

	themes := s.analysis.GroupThemes(ctx, items)
	blocks := digestBlocks(company, themes)
	if err := s.slack.PostBlocks(ctx, s.channel, blocks, ""); err != nil {
		s.logger.Warn().Str("company", company).Err(err).Msg("Digest delivery failed")
		return
	}
	s.logger.Info().Str("company", company).Int("items", len(items)).Int("themes", len(themes)).Msg("Digest posted")
}

// digestBlocks renders one company's themed items. Themes are ordered by
// size descending, then name, with "General" always last.
func digestBlocks(company string, themes map[string][]models.NewsItem) []map[string]any {
	blocks := []map[string]any{
		{
			"type": "header",
			"text": map[string]any{"type": "plain_text", "text": fmt.Sprintf("News Digest: %s", company)},
		},
	}

	for _, theme := range orderedThemes(themes) {
		var sb strings.Builder
		fmt.Fprintf(&sb, "*%s*\n", theme)
		for _, item := range themes[theme] {
			if item.URL != "" {
				fmt.Fprintf(&sb, "• <%s|%s> (%s)\n", item.URL, item.Title, item.Source)
			} else {
				fmt.Fprintf(&sb, "• %s (%s)\n", item.Title, item.Source)
			}
		}
		blocks = append(blocks, map[string]any{
			"type": "section",
			"text": map[string]any{"type": "mrkdwn", "text": common.Truncate(sb.String(), 3000)},
		})
	}
	return blocks
}

func orderedThemes(themes map[string][]models.NewsItem) []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if names[i] == "General" {
			return false
		}
		if names[j] == "General" {
			return true
		}
		if len(themes[names[i]]) != len(themes[names[j]]) {
			return len(themes[names[i]]) > len(themes[names[j]])
		}
		return names[i] < names[j]
	})
	return names
}
