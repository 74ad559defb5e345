package handlers

import (
	"context"
	"sync"
	"time"

	"github.com/ternarybob/indago/internal/common"
	"github.com/ternarybob/indago/internal/interfaces"
	"github.com/ternarybob/indago/internal/models"
	"github.com/ternarybob/indago/internal/services/slack"
)

type fakeResearch struct {
	report *models.ResearchReport
	err    error
	cached string
}

func (f *fakeResearch) Run(ctx context.Context, input string) (*models.ResearchReport, error) {
	return f.report, f.err
}
func (f *fakeResearch) BuildContext(identity models.CompanyIdentity, wikiSummary string, trends models.TrendSet, pages []models.PageRecord, pdfTexts []string, news []models.NewsItem, leadership []models.LeadershipEntry, limit int) string {
	return ""
}
func (f *fakeResearch) CachedContext(ctx context.Context, name string) string { return f.cached }

type fakeAnalysis struct {
	answer string
	swot   map[string][]string
}

func (f *fakeAnalysis) Summarize(ctx context.Context, c string) (string, error) { return "", nil }
func (f *fakeAnalysis) Analyze(ctx context.Context, c string) models.AnalysisResult {
	return models.AnalysisResult{}
}
func (f *fakeAnalysis) SWOT(ctx context.Context, c, n string) map[string][]string {
	if f.swot != nil {
		return f.swot
	}
	return models.NewSWOT()
}
func (f *fakeAnalysis) Trends(ctx context.Context, c string) []string { return nil }
func (f *fakeAnalysis) Risks(ctx context.Context, c, n string) map[string][]models.AnalysisItem {
	return models.NewRisks()
}
func (f *fakeAnalysis) Timeline(ctx context.Context, c, n string) []models.TimelineEvent {
	return nil
}
func (f *fakeAnalysis) ExtractLeadership(ctx context.Context, c, n string) []models.LeadershipEntry {
	return nil
}
func (f *fakeAnalysis) Answer(ctx context.Context, c, q string) (string, error) {
	return f.answer, nil
}
func (f *fakeAnalysis) Compare(ctx context.Context, a, b string) (string, error) {
	return "comparison", nil
}
func (f *fakeAnalysis) GroupThemes(ctx context.Context, items []models.NewsItem) map[string][]models.NewsItem {
	return nil
}

type fakeResolver struct{}

func (f *fakeResolver) Resolve(ctx context.Context, input string) (models.CompanyIdentity, error) {
	return models.CompanyIdentity{Name: input}, nil
}
func (f *fakeResolver) ResolveWebsite(ctx context.Context, name string) string      { return "" }
func (f *fakeResolver) ResolveTicker(ctx context.Context, nameOrURL string) string  { return "" }

type fakeFinancial struct{}

func (f *fakeFinancial) GetTrends(ctx context.Context, identity models.CompanyIdentity, pages []models.PageRecord, pdfTexts []string) models.TrendSet {
	return models.TrendSet{}
}

type fakeLeadership struct{}

func (f *fakeLeadership) GetLeadership(ctx context.Context, name, website, context string) []models.LeadershipEntry {
	return nil
}

type recordingSlack struct {
	mu    sync.Mutex
	posts []string
}

func (r *recordingSlack) PostMessage(ctx context.Context, channel, text, threadTS string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.posts = append(r.posts, text)
	return nil
}
func (r *recordingSlack) PostBlocks(ctx context.Context, channel string, blocks []map[string]any, threadTS string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.posts = append(r.posts, "blocks")
	return nil
}
func (r *recordingSlack) UploadFile(ctx context.Context, channel, filename, title string, data []byte) error {
	return nil
}

func (r *recordingSlack) all() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.posts...)
}

type fakeExport struct{}

func (f *fakeExport) WritePDF(name, summary string) (string, error) { return "", nil }
func (f *fakeExport) WriteDeck(name string, a models.AnalysisResult) (string, error) {
	return "", nil
}
func (f *fakeExport) WriteCharts(name string, charts []models.Chart) []string { return nil }
func (f *fakeExport) PublicURL(path string) string                            { return "" }

type memoryKV struct {
	mu   sync.Mutex
	data map[string]string
}

func newMemoryKV() *memoryKV { return &memoryKV{data: map[string]string{}} }

func (m *memoryKV) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return "", interfaces.ErrKeyNotFound
	}
	return v, nil
}
func (m *memoryKV) Set(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}
func (m *memoryKV) SetWithTTL(ctx context.Context, key, value string, ttl time.Duration) error {
	return m.Set(ctx, key, value)
}
func (m *memoryKV) Has(ctx context.Context, key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[key]
	return ok
}
func (m *memoryKV) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}
func (m *memoryKV) Close() error { return nil }

func newTestBot(research interfaces.ResearchService, recorder *recordingSlack) (*Bot, *slack.ConversationStore) {
	store := slack.NewConversationStore(10)
	bot := NewBot(
		common.NewDefaultConfig().Research,
		research,
		&fakeAnalysis{answer: "the answer"},
		&fakeResolver{},
		&fakeFinancial{},
		&fakeLeadership{},
		recorder,
		&fakeExport{},
		store,
		common.GetLogger(),
	)
	return bot, store
}
