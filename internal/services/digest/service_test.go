package digest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/indago/internal/common"
	"github.com/ternarybob/indago/internal/models"
)

type fakeNews struct {
	itemsByCompany map[string][]models.NewsItem
	asked          []string
}

func (f *fakeNews) GetNews(ctx context.Context, name string) []models.NewsItem { return nil }
func (f *fakeNews) CollectDigestNews(ctx context.Context, name string) []models.NewsItem {
	f.asked = append(f.asked, name)
	return f.itemsByCompany[name]
}

type fakeAnalysis struct{}

func (f *fakeAnalysis) GroupThemes(ctx context.Context, items []models.NewsItem) map[string][]models.NewsItem {
	return map[string][]models.NewsItem{"General": items}
}

// Unused AnalysisService methods.
func (f *fakeAnalysis) Summarize(ctx context.Context, c string) (string, error) { return "", nil }
func (f *fakeAnalysis) Analyze(ctx context.Context, c string) models.AnalysisResult {
	return models.AnalysisResult{}
}
func (f *fakeAnalysis) SWOT(ctx context.Context, c, n string) map[string][]string { return nil }
func (f *fakeAnalysis) Trends(ctx context.Context, c string) []string             { return nil }
func (f *fakeAnalysis) Risks(ctx context.Context, c, n string) map[string][]models.AnalysisItem {
	return nil
}
func (f *fakeAnalysis) Timeline(ctx context.Context, c, n string) []models.TimelineEvent {
	return nil
}
func (f *fakeAnalysis) ExtractLeadership(ctx context.Context, c, n string) []models.LeadershipEntry {
	return nil
}
func (f *fakeAnalysis) Answer(ctx context.Context, c, q string) (string, error)  { return "", nil }
func (f *fakeAnalysis) Compare(ctx context.Context, a, b string) (string, error) { return "", nil }

type fakeSlack struct {
	posts []postedBlocks
	err   error
}

type postedBlocks struct {
	channel string
	blocks  []map[string]any
}

func (f *fakeSlack) PostMessage(ctx context.Context, channel, text, threadTS string) error {
	return f.err
}
func (f *fakeSlack) PostBlocks(ctx context.Context, channel string, blocks []map[string]any, threadTS string) error {
	if f.err != nil {
		return f.err
	}
	f.posts = append(f.posts, postedBlocks{channel: channel, blocks: blocks})
	return nil
}
func (f *fakeSlack) UploadFile(ctx context.Context, channel, filename, title string, data []byte) error {
	return f.err
}

func writeWatchlist(t *testing.T, companies string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "companies.yaml")
	require.NoError(t, os.WriteFile(path, []byte(companies), 0o644))
	return path
}

func TestLoadWatchlist(t *testing.T) {
	path := writeWatchlist(t, "companies:\n  - Acme Corp\n  - \"  \"\n  - Tata Motors\n")

	companies, err := LoadWatchlist(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Acme Corp", "Tata Motors"}, companies)
}

func TestLoadWatchlist_MissingFile(t *testing.T) {
	_, err := LoadWatchlist(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestRun_PostsOneMessagePerCompanyWithNews(t *testing.T) {
	path := writeWatchlist(t, "companies:\n  - Acme\n  - Quiet Co\n")
	news := &fakeNews{itemsByCompany: map[string][]models.NewsItem{
		"Acme": {{Title: "Acme wins deal", Source: "Wire", URL: "https://example.com/a"}},
	}}
	slack := &fakeSlack{}

	svc := NewService(
		common.DigestConfig{Enabled: true, Schedule: "0 9 * * MON", WatchlistFile: path},
		"C-digest", news, &fakeAnalysis{}, slack, common.GetLogger(),
	)

	require.NoError(t, svc.Run(context.Background()))

	assert.Equal(t, []string{"Acme", "Quiet Co"}, news.asked)
	require.Len(t, slack.posts, 1, "company with no items is skipped")
	assert.Equal(t, "C-digest", slack.posts[0].channel)

	header := slack.posts[0].blocks[0]["text"].(map[string]any)["text"].(string)
	assert.Equal(t, "News Digest: Acme", header)
	body := slack.posts[0].blocks[1]["text"].(map[string]any)["text"].(string)
	assert.Contains(t, body, "*General*")
	assert.Contains(t, body, "<https://example.com/a|Acme wins deal> (Wire)")
}

func TestRun_DeliveryFailureDoesNotAbortPass(t *testing.T) {
	path := writeWatchlist(t, "companies:\n  - Acme\n  - Beta\n")
	news := &fakeNews{itemsByCompany: map[string][]models.NewsItem{
		"Acme": {{Title: "a", Source: "s"}},
		"Beta": {{Title: "b", Source: "s"}},
	}}
	slack := &fakeSlack{err: assert.AnError}

	svc := NewService(
		common.DigestConfig{Enabled: true, Schedule: "@weekly", WatchlistFile: path},
		"C-digest", news, &fakeAnalysis{}, slack, common.GetLogger(),
	)

	require.NoError(t, svc.Run(context.Background()))
	assert.Equal(t, []string{"Acme", "Beta"}, news.asked)
}

func TestStart_DisabledIsNoop(t *testing.T) {
	svc := NewService(common.DigestConfig{Enabled: false}, "", &fakeNews{}, &fakeAnalysis{}, &fakeSlack{}, common.GetLogger())
	assert.NoError(t, svc.Start())
}

func TestStart_BadScheduleFails(t *testing.T) {
	svc := NewService(
		common.DigestConfig{Enabled: true, Schedule: "not a schedule", WatchlistFile: "x.yaml"},
		"C1", &fakeNews{}, &fakeAnalysis{}, &fakeSlack{}, common.GetLogger(),
	)
	assert.Error(t, svc.Start())
}

func TestOrderedThemes_GeneralLast(t *testing.T) {
	themes := map[string][]models.NewsItem{
		"General":    {{}, {}, {}},
		"Expansion":  {{}, {}},
		"Regulation": {{}, {}},
	}
	assert.Equal(t, []string{"Expansion", "Regulation", "General"}, orderedThemes(themes))
}
