package interfaces

import (
	"context"

	"github.com/ternarybob/indago/internal/models"
)

// AnalysisService dispatches aggregated context to the language model and
// parses the structured response. Unparseable output degrades to empty
// results; callers never see a raw parse failure.
type AnalysisService interface {
	// Summarize produces the executive briefing markdown.
	Summarize(ctx context.Context, context string) (string, error)

	// Analyze runs the combined analysis (summary, SWOT, trends, risks,
	// timeline) in a single model call.
	Analyze(ctx context.Context, context string) models.AnalysisResult

	// SWOT returns a four-category SWOT map; all keys are always present.
	SWOT(ctx context.Context, context, companyName string) map[string][]string

	// Trends returns qualitative trend statements from the model.
	Trends(ctx context.Context, context string) []string

	// Risks returns red flags and opportunities, floor-filled to the
	// minimum count with generated items.
	Risks(ctx context.Context, context, companyName string) map[string][]models.AnalysisItem

	// Timeline returns dated milestones sorted ascending, floor-filled.
	Timeline(ctx context.Context, context, companyName string) []models.TimelineEvent

	// ExtractLeadership asks the model for a structured executive list.
	ExtractLeadership(ctx context.Context, context, companyName string) []models.LeadershipEntry

	// Answer responds to a follow-up question over company context.
	Answer(ctx context.Context, context, question string) (string, error)

	// Compare contrasts two companies' aggregated contexts.
	Compare(ctx context.Context, contextA, contextB string) (string, error)

	// GroupThemes buckets news items into themes for the digest.
	GroupThemes(ctx context.Context, items []models.NewsItem) map[string][]models.NewsItem
}
