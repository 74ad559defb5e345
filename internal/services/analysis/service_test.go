package analysis

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/indago/internal/common"
	"github.com/ternarybob/indago/internal/interfaces"
	"github.com/ternarybob/indago/internal/models"
)

type fakeLLM struct {
	response string
	err      error
}

func (f *fakeLLM) Generate(ctx context.Context, messages []interfaces.Message) (string, error) {
	return f.response, f.err
}
func (f *fakeLLM) Close() error { return nil }

func newService(response string) *Service {
	return NewService(&fakeLLM{response: response}, common.GetLogger())
}

func TestSWOT_AlwaysCarriesAllFourKeys(t *testing.T) {
	svc := newService(`Strengths
- Strong brand

Threats
- New entrants`)

	swot := svc.SWOT(context.Background(), "ctx", "Acme")

	require.Len(t, swot, 4)
	assert.Equal(t, []string{"Strong brand"}, swot[models.SWOTStrengths])
	assert.Empty(t, swot[models.SWOTWeaknesses])
	assert.Empty(t, swot[models.SWOTOpportunities])
	assert.Equal(t, []string{"New entrants"}, swot[models.SWOTThreats])
}

func TestSWOT_ModelFailureYieldsEmptyCategories(t *testing.T) {
	svc := NewService(&fakeLLM{err: errors.New("boom")}, common.GetLogger())
	swot := svc.SWOT(context.Background(), "ctx", "Acme")

	require.Len(t, swot, 4)
	for _, items := range swot {
		assert.Empty(t, items)
	}
}

func TestRisks_FloorFilledWithGeneratedProvenance(t *testing.T) {
	svc := newService(`Red Flags
- Customer concentration

Opportunities
- Emerging markets
- Services expansion
- Platform pricing
- Adjacent verticals`)

	risks := svc.Risks(context.Background(), "ctx", "Acme")

	require.Len(t, risks[models.CategoryRedFlags], 3)
	assert.Equal(t, models.ProvenanceExtracted, risks[models.CategoryRedFlags][0].Provenance)
	assert.Equal(t, models.ProvenanceGenerated, risks[models.CategoryRedFlags][1].Provenance)
	assert.Equal(t, models.ProvenanceGenerated, risks[models.CategoryRedFlags][2].Provenance)

	// Above-floor categories are untouched.
	require.Len(t, risks[models.CategoryOpportunities], 4)
	for _, item := range risks[models.CategoryOpportunities] {
		assert.Equal(t, models.ProvenanceExtracted, item.Provenance)
	}
}

func TestTimeline_DropsYearlessLinesSortsAscendingAndFloorFills(t *testing.T) {
	svc := newService(`Timeline
- 2016: Acquired Example Corp
- Sometime later: expanded abroad
- 2009: Founded`)

	events := svc.Timeline(context.Background(), "ctx", "Acme")

	require.Len(t, events, 3)
	assert.Equal(t, 2009, events[0].Year)
	assert.Equal(t, models.ProvenanceExtracted, events[0].Provenance)
	assert.Equal(t, 2016, events[1].Year)
	assert.Equal(t, models.ProvenanceGenerated, events[2].Provenance)
}

func TestAnalyze_CombinedSectionsLand(t *testing.T) {
	svc := newService(`Summary
Acme builds widgets for industrial clients.

Strengths
- Strong brand
Weaknesses
- Debt
Opportunities
- New markets
Threats
- Entrants
Trends
- Cloud revenue accelerating
Red Flags
- Customer concentration
Risk Opportunities
- Pricing power
Timeline
- 2009: Founded
- 2016: Acquired Example Corp
- 2021: IPO`)

	result := svc.Analyze(context.Background(), "ctx")

	assert.Equal(t, "Acme builds widgets for industrial clients.", result.Summary)
	assert.Equal(t, []string{"Strong brand"}, result.SWOT[models.SWOTStrengths])
	assert.Equal(t, []string{"New markets"}, result.SWOT[models.SWOTOpportunities])
	assert.Equal(t, []string{"Cloud revenue accelerating"}, result.Trends)
	assert.Equal(t, "Customer concentration", result.Risks[models.CategoryRedFlags][0].Text)
	assert.Equal(t, "Pricing power", result.Risks[models.CategoryOpportunities][0].Text)
	require.Len(t, result.Timeline, 3)
	assert.Equal(t, 2009, result.Timeline[0].Year)
}

func TestExtractLeadership_ParsesFencedJSON(t *testing.T) {
	svc := newService("```json\n[{\"name\": \"Jane Doe\", \"role\": \"CEO\"}, {\"name\": \"\", \"role\": \"CFO\"}]\n```")

	entries := svc.ExtractLeadership(context.Background(), "ctx", "Acme")
	assert.Equal(t, []models.LeadershipEntry{{Name: "Jane Doe", Role: "CEO"}}, entries)
}

func TestExtractLeadership_UnparseableOutputIsNil(t *testing.T) {
	svc := newService("I could not find any executives.")
	assert.Nil(t, svc.ExtractLeadership(context.Background(), "ctx", "Acme"))
}

func TestGroupThemes_AssignsByIndexAndSweepsLeftovers(t *testing.T) {
	items := []models.NewsItem{
		{Title: "Acme posts record Q3"},
		{Title: "Acme opens Berlin office"},
		{Title: "Regulator clears Acme merger"},
	}
	svc := newService(`Earnings: 1
Expansion: 2`)

	grouped := svc.GroupThemes(context.Background(), items)

	assert.Equal(t, []models.NewsItem{items[0]}, grouped["Earnings"])
	assert.Equal(t, []models.NewsItem{items[1]}, grouped["Expansion"])
	assert.Equal(t, []models.NewsItem{items[2]}, grouped["General"])
}

func TestGroupThemes_UnparseableOutputFallsBackToGeneral(t *testing.T) {
	items := []models.NewsItem{{Title: "Acme posts record Q3"}}
	svc := newService("no structure at all")

	grouped := svc.GroupThemes(context.Background(), items)
	assert.Equal(t, map[string][]models.NewsItem{"General": items}, grouped)
}

func TestSummarizeAndAnswerPropagateModelErrors(t *testing.T) {
	svc := NewService(&fakeLLM{err: errors.New("boom")}, common.GetLogger())

	_, err := svc.Summarize(context.Background(), "ctx")
	assert.Error(t, err)

	_, err = svc.Answer(context.Background(), "ctx", "What does Acme do?")
	assert.Error(t, err)
}
