package leadership

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/indago/internal/common"
	"github.com/ternarybob/indago/internal/httpclient"
	"github.com/ternarybob/indago/internal/interfaces"
	"github.com/ternarybob/indago/internal/models"
)

// Service resolves a company's executive team through a two-stage pipeline:
// deterministic strategies first (site scrape, then infobox), with a model
// backfill only when those produce too few entries.
type Service struct {
	minEntries int
	pageLimit  int
	client     *http.Client
	wiki       interfaces.WikiService
	llm        interfaces.LLMService
	logger     arbor.ILogger
}

func NewService(config common.ResearchConfig, wiki interfaces.WikiService, llm interfaces.LLMService, logger arbor.ILogger) *Service {
	minEntries := config.MinLeadershipEntries
	if minEntries <= 0 {
		minEntries = 3
	}
	pageLimit := config.LeadershipPageLimit
	if pageLimit <= 0 {
		pageLimit = 3
	}
	return &Service{
		minEntries: minEntries,
		pageLimit:  pageLimit,
		client:     httpclient.NewDefaultHTTPClient(config.RequestTimeout),
		wiki:       wiki,
		llm:        llm,
		logger:     logger.WithPrefix("leadership"),
	}
}

// GetLeadership runs the strategy pipeline and returns entries deduplicated
// by lowercase (name, role).
func (s *Service) GetLeadership(ctx context.Context, name, website, researchContext string) []models.LeadershipEntry {
	var entries []models.LeadershipEntry

	if website != "" {
		entries = append(entries, s.scrapeSite(ctx, website)...)
	}
	entries = append(entries, s.fromInfobox(ctx, name)...)
	entries = models.DedupeLeadership(entries)

	if len(entries) < s.minEntries {
		entries = append(entries, s.modelBackfill(ctx, name, researchContext)...)
		entries = models.DedupeLeadership(entries)
	}

	s.logger.Info().Str("company", name).Int("entries", len(entries)).Msg("Leadership resolved")
	return entries
}

const backfillPrompt = `Extract the executive leadership team of %s from the material below.
Respond with ONLY a JSON array, no prose and no code fences, where each element is {"name": "...", "role": "..."}.
List only people you can actually see in the material.

Material:
%s`

// modelBackfill asks the model for a strict JSON listing. Unparseable output
// yields no entries.
func (s *Service) modelBackfill(ctx context.Context, name, researchContext string) []models.LeadershipEntry {
	if s.llm == nil || strings.TrimSpace(researchContext) == "" {
		return nil
	}

	response, err := s.llm.Generate(ctx, []interfaces.Message{
		{Role: "user", Content: fmt.Sprintf(backfillPrompt, name, researchContext)},
	})
	if err != nil {
		s.logger.Warn().Str("company", name).Err(err).Msg("Model backfill failed")
		return nil
	}

	var entries []models.LeadershipEntry
	if err := json.Unmarshal([]byte(stripCodeFences(response)), &entries); err != nil {
		s.logger.Debug().Str("company", name).Err(err).Msg("Model backfill output unparseable")
		return nil
	}

	out := entries[:0]
	for _, entry := range entries {
		if strings.TrimSpace(entry.Name) == "" {
			continue
		}
		out = append(out, entry)
	}
	return models.DedupeLeadership(out)
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx >= 0 {
			s = s[idx+1:]
		}
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}
