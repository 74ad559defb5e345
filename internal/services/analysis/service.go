package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/indago/internal/interfaces"
	"github.com/ternarybob/indago/internal/models"
)

// minItems is the output floor for risks, opportunities, and timeline.
const minItems = 3

// Service turns aggregated company context into structured analysis through
// the language model. Model output that cannot be parsed degrades to empty
// or floor-filled results, never to an error surfaced to chat.
type Service struct {
	llm    interfaces.LLMService
	logger arbor.ILogger
}

func NewService(llm interfaces.LLMService, logger arbor.ILogger) *Service {
	return &Service{
		llm:    llm,
		logger: logger.WithPrefix("analysis"),
	}
}

func (s *Service) generate(ctx context.Context, prompt string) (string, error) {
	return s.llm.Generate(ctx, []interfaces.Message{{Role: "user", Content: prompt}})
}

// Summarize produces the executive briefing markdown.
func (s *Service) Summarize(ctx context.Context, companyContext string) (string, error) {
	response, err := s.generate(ctx, fmt.Sprintf(summaryPrompt, companyContext))
	if err != nil {
		return "", fmt.Errorf("summary generation failed: %w", err)
	}
	return strings.TrimSpace(response), nil
}

// SWOT returns all four categories. Missing sections stay empty.
func (s *Service) SWOT(ctx context.Context, companyContext, companyName string) map[string][]string {
	swot := models.NewSWOT()

	response, err := s.generate(ctx, fmt.Sprintf(swotPrompt, companyName, companyContext))
	if err != nil {
		s.logger.Warn().Str("company", companyName).Err(err).Msg("SWOT generation failed")
		return swot
	}

	sections := parseSections(response, []string{
		models.SWOTStrengths, models.SWOTWeaknesses, models.SWOTOpportunities, models.SWOTThreats,
	})
	for category, items := range sections {
		swot[category] = items
	}
	return swot
}

// Trends returns qualitative trend statements.
func (s *Service) Trends(ctx context.Context, companyContext string) []string {
	response, err := s.generate(ctx, fmt.Sprintf(trendsPrompt, companyContext))
	if err != nil {
		s.logger.Warn().Err(err).Msg("Trend generation failed")
		return nil
	}

	if sections := parseSections(response, []string{"Trends"}); len(sections["Trends"]) > 0 {
		return sections["Trends"]
	}
	// Some responses skip the heading and go straight to bullets.
	return allBullets(response)
}

// Risks returns red flags and opportunities floor-filled to the minimum.
func (s *Service) Risks(ctx context.Context, companyContext, companyName string) map[string][]models.AnalysisItem {
	risks := models.NewRisks()

	response, err := s.generate(ctx, fmt.Sprintf(risksPrompt, companyName, companyContext))
	if err != nil {
		s.logger.Warn().Str("company", companyName).Err(err).Msg("Risk generation failed")
	} else {
		sections := parseSections(response, []string{models.CategoryRedFlags, models.CategoryOpportunities})
		for category, items := range sections {
			for _, item := range items {
				risks[category] = append(risks[category], models.AnalysisItem{
					Text:       item,
					Provenance: models.ProvenanceExtracted,
				})
			}
		}
	}

	floorFillRisks(risks, companyName)
	return risks
}

// Timeline returns milestones sorted ascending by year, floor-filled.
func (s *Service) Timeline(ctx context.Context, companyContext, companyName string) []models.TimelineEvent {
	var events []models.TimelineEvent

	response, err := s.generate(ctx, fmt.Sprintf(timelinePrompt, companyName, companyContext))
	if err != nil {
		s.logger.Warn().Str("company", companyName).Err(err).Msg("Timeline generation failed")
	} else {
		lines := parseSections(response, []string{"Timeline"})["Timeline"]
		if len(lines) == 0 {
			lines = allBullets(response)
		}
		events = timelineFromLines(lines)
	}

	models.SortTimeline(events)
	return floorFillTimeline(events, companyName)
}

// Analyze runs the combined analysis in a single model call.
func (s *Service) Analyze(ctx context.Context, companyContext string) models.AnalysisResult {
	result := models.AnalysisResult{
		SWOT:  models.NewSWOT(),
		Risks: models.NewRisks(),
	}

	response, err := s.generate(ctx, fmt.Sprintf(combinedPrompt, companyContext))
	if err != nil {
		s.logger.Warn().Err(err).Msg("Combined analysis failed")
		floorFillRisks(result.Risks, "")
		result.Timeline = floorFillTimeline(nil, "")
		return result
	}

	sections := parseSections(response, []string{
		"Summary",
		models.SWOTStrengths, models.SWOTWeaknesses, models.SWOTOpportunities, models.SWOTThreats,
		"Trends", models.CategoryRedFlags, "Risk Opportunities", "Timeline",
	})

	result.Summary = strings.Join(sections["Summary"], "\n")
	for _, category := range []string{models.SWOTStrengths, models.SWOTWeaknesses, models.SWOTOpportunities, models.SWOTThreats} {
		result.SWOT[category] = sections[category]
		if result.SWOT[category] == nil {
			result.SWOT[category] = []string{}
		}
	}
	result.Trends = sections["Trends"]

	for _, item := range sections[models.CategoryRedFlags] {
		result.Risks[models.CategoryRedFlags] = append(result.Risks[models.CategoryRedFlags],
			models.AnalysisItem{Text: item, Provenance: models.ProvenanceExtracted})
	}
	for _, item := range sections["Risk Opportunities"] {
		result.Risks[models.CategoryOpportunities] = append(result.Risks[models.CategoryOpportunities],
			models.AnalysisItem{Text: item, Provenance: models.ProvenanceExtracted})
	}
	floorFillRisks(result.Risks, "")

	events := timelineFromLines(sections["Timeline"])
	models.SortTimeline(events)
	result.Timeline = floorFillTimeline(events, "")

	return result
}

// ExtractLeadership asks the model for a strict JSON executive list.
func (s *Service) ExtractLeadership(ctx context.Context, companyContext, companyName string) []models.LeadershipEntry {
	response, err := s.generate(ctx, fmt.Sprintf(leadershipPrompt, companyName, companyContext))
	if err != nil {
		s.logger.Warn().Str("company", companyName).Err(err).Msg("Leadership extraction failed")
		return nil
	}

	var entries []models.LeadershipEntry
	if err := json.Unmarshal([]byte(stripCodeFences(response)), &entries); err != nil {
		s.logger.Debug().Str("company", companyName).Err(err).Msg("Leadership output unparseable")
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

// Answer responds to a follow-up question over company context.
func (s *Service) Answer(ctx context.Context, companyContext, question string) (string, error) {
	response, err := s.generate(ctx, fmt.Sprintf(answerPrompt, companyContext, question))
	if err != nil {
		return "", fmt.Errorf("answer generation failed: %w", err)
	}
	return strings.TrimSpace(response), nil
}

// Compare contrasts two companies' aggregated contexts.
func (s *Service) Compare(ctx context.Context, contextA, contextB string) (string, error) {
	response, err := s.generate(ctx, fmt.Sprintf(comparePrompt, contextA, contextB))
	if err != nil {
		return "", fmt.Errorf("comparison generation failed: %w", err)
	}
	return strings.TrimSpace(response), nil
}

// GroupThemes buckets news items under model-chosen headings. When the model
// output cannot be read, everything lands under "General".
func (s *Service) GroupThemes(ctx context.Context, items []models.NewsItem) map[string][]models.NewsItem {
	if len(items) == 0 {
		return map[string][]models.NewsItem{}
	}

	var sb strings.Builder
	for i, item := range items {
		fmt.Fprintf(&sb, "%d. %s (%s)\n", i+1, item.Title, item.Source)
	}

	response, err := s.generate(ctx, fmt.Sprintf(themesPrompt, sb.String()))
	if err != nil {
		s.logger.Warn().Err(err).Msg("Theme grouping failed")
		return map[string][]models.NewsItem{"General": items}
	}

	grouped := map[string][]models.NewsItem{}
	assigned := map[int]bool{}
	for _, line := range strings.Split(response, "\n") {
		line = cleanBullet(strings.TrimSpace(line))
		idx := strings.LastIndex(line, ":")
		if idx <= 0 {
			continue
		}
		theme := strings.TrimSpace(line[:idx])
		for _, ref := range strings.Split(line[idx+1:], ",") {
			n, err := strconv.Atoi(strings.TrimSpace(ref))
			if err != nil || n < 1 || n > len(items) || assigned[n] {
				continue
			}
			assigned[n] = true
			grouped[theme] = append(grouped[theme], items[n-1])
		}
	}

	if len(grouped) == 0 {
		return map[string][]models.NewsItem{"General": items}
	}
	// Items the model skipped still reach the digest.
	for i, item := range items {
		if !assigned[i+1] {
			grouped["General"] = append(grouped["General"], item)
		}
	}
	return grouped
}

// timelineFromLines keeps only lines carrying a 4-digit year.
func timelineFromLines(lines []string) []models.TimelineEvent {
	var events []models.TimelineEvent
	for _, line := range lines {
		year := extractYear(line)
		if year == 0 {
			continue
		}
		events = append(events, models.TimelineEvent{
			Year:        year,
			Description: line,
			Provenance:  models.ProvenanceExtracted,
		})
	}
	return events
}

func floorFillRisks(risks map[string][]models.AnalysisItem, companyName string) {
	subject := companyName
	if subject == "" {
		subject = "the company"
	}
	fillers := map[string]string{
		models.CategoryRedFlags:      "No further red flags were identified for %s in the available sources.",
		models.CategoryOpportunities: "No further opportunities were identified for %s in the available sources.",
	}
	for category, filler := range fillers {
		for len(risks[category]) < minItems {
			risks[category] = append(risks[category], models.AnalysisItem{
				Text:       fmt.Sprintf(filler, subject),
				Provenance: models.ProvenanceGenerated,
			})
		}
	}
}

// floorFillTimeline pads to the minimum with generated placeholders appended
// after the extracted events.
func floorFillTimeline(events []models.TimelineEvent, companyName string) []models.TimelineEvent {
	subject := companyName
	if subject == "" {
		subject = "the company"
	}

	year := 0
	if len(events) > 0 {
		year = events[len(events)-1].Year
	}
	for len(events) < minItems {
		events = append(events, models.TimelineEvent{
			Year:        year,
			Description: fmt.Sprintf("No further dated milestones were found for %s in the available sources.", subject),
			Provenance:  models.ProvenanceGenerated,
		})
	}
	return events
}
