package leadership

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/indago/internal/common"
	"github.com/ternarybob/indago/internal/interfaces"
	"github.com/ternarybob/indago/internal/models"
)

type fakeWiki struct {
	rows []interfaces.InfoboxRow
}

func (f *fakeWiki) Summary(ctx context.Context, name string) string { return "" }
func (f *fakeWiki) InfoboxRows(ctx context.Context, name string) []interfaces.InfoboxRow {
	return f.rows
}

type fakeLLM struct {
	response string
	calls    int
}

func (f *fakeLLM) Generate(ctx context.Context, messages []interfaces.Message) (string, error) {
	f.calls++
	return f.response, nil
}
func (f *fakeLLM) Close() error { return nil }

func testResearchConfig() common.ResearchConfig {
	return common.ResearchConfig{
		MinLeadershipEntries: 3,
		LeadershipPageLimit:  3,
		RequestTimeout:       5 * time.Second,
	}
}

func TestExtractFromText_BothLineShapes(t *testing.T) {
	text := `Our Team

Jane Doe, Chief Executive Officer
John Roe, Chief Financial Officer
Chief Technology Officer: Maya Patel

Contact us for more.`

	entries := extractFromText(text)
	assert.ElementsMatch(t, []models.LeadershipEntry{
		{Name: "Jane Doe", Role: "Chief Executive Officer"},
		{Name: "John Roe", Role: "Chief Financial Officer"},
		{Name: "Maya Patel", Role: "Chief Technology Officer"},
	}, entries)
}

func TestExtractFromText_RejectsSingleWordNamesAndShortRoles(t *testing.T) {
	text := `Jane, Chief Executive Officer
Jane Doe, CE
CEO: Madonna`

	entries := extractFromText(text)
	// "Jane" is one word, "CE" is too short a role, "Madonna" one word.
	assert.Empty(t, entries)
}

func TestGetLeadership_InfoboxColonAndDashSplitting(t *testing.T) {
	wiki := &fakeWiki{rows: []interfaces.InfoboxRow{
		{Header: "Key people", Values: []string{
			"CEO: Jane Doe",
			"Chairman - John Roe",
			"Maya Patel",
		}},
		{Header: "Industry", Values: []string{"Manufacturing"}},
	}}

	svc := NewService(testResearchConfig(), wiki, &fakeLLM{response: "[]"}, common.GetLogger())
	entries := svc.GetLeadership(context.Background(), "Acme", "", "")

	assert.ElementsMatch(t, []models.LeadershipEntry{
		{Name: "Jane Doe", Role: "CEO"},
		{Name: "John Roe", Role: "Chairman"},
		{Name: "Maya Patel", Role: "Key people"},
	}, entries)
}

func TestGetLeadership_BackfillSkippedWhenEnoughDeterministicEntries(t *testing.T) {
	wiki := &fakeWiki{rows: []interfaces.InfoboxRow{
		{Header: "Key people", Values: []string{"CEO: Jane Doe", "CFO: John Roe", "CTO: Maya Patel"}},
	}}
	llm := &fakeLLM{response: `[{"name": "Ghost Entry", "role": "CEO"}]`}

	svc := NewService(testResearchConfig(), wiki, llm, common.GetLogger())
	entries := svc.GetLeadership(context.Background(), "Acme", "", "some context")

	assert.Len(t, entries, 3)
	assert.Zero(t, llm.calls)
}

func TestGetLeadership_BackfillRunsWhenTooFewEntries(t *testing.T) {
	wiki := &fakeWiki{rows: []interfaces.InfoboxRow{
		{Header: "Key people", Values: []string{"CEO: Jane Doe"}},
	}}
	llm := &fakeLLM{response: "```json\n[{\"name\": \"John Roe\", \"role\": \"CFO\"}, {\"name\": \"\", \"role\": \"CTO\"}]\n```"}

	svc := NewService(testResearchConfig(), wiki, llm, common.GetLogger())
	entries := svc.GetLeadership(context.Background(), "Acme", "", "some context")

	assert.Equal(t, 1, llm.calls)
	assert.ElementsMatch(t, []models.LeadershipEntry{
		{Name: "Jane Doe", Role: "CEO"},
		{Name: "John Roe", Role: "CFO"},
	}, entries)
}

func TestGetLeadership_DuplicateAcrossStrategiesCollapses(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" {
			fmt.Fprint(w, `<html><body><a href="/leadership">Leadership</a></body></html>`)
			return
		}
		fmt.Fprint(w, `<html><body><p>Jane Doe, CEO</p><p>John Roe, CFO</p></body></html>`)
	}))
	defer server.Close()

	wiki := &fakeWiki{rows: []interfaces.InfoboxRow{
		{Header: "Key people", Values: []string{"CEO: Jane Doe", "CTO: Maya Patel"}},
	}}

	svc := NewService(testResearchConfig(), wiki, &fakeLLM{response: "[]"}, common.GetLogger())
	entries := svc.GetLeadership(context.Background(), "Acme", server.URL, "")

	require.Len(t, entries, 3)
	names := map[string]int{}
	for _, e := range entries {
		names[e.Name+"|"+e.Role]++
	}
	assert.Equal(t, 1, names["Jane Doe|CEO"])
}

func TestStripCodeFences(t *testing.T) {
	assert.Equal(t, `[{"name":"x"}]`, stripCodeFences("```json\n[{\"name\":\"x\"}]\n```"))
	assert.Equal(t, `[{"name":"x"}]`, stripCodeFences(`[{"name":"x"}]`))
}
