package handlers

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/indago/internal/common"
	"github.com/ternarybob/indago/internal/interfaces"
	"github.com/ternarybob/indago/internal/models"
)

const taskTimeout = 5 * time.Minute

// Bot coordinates the chat-facing workflows: the summarize command, the
// follow-up button actions, and the Q&A loop. Long-running work runs on its
// own goroutine so the HTTP handlers can acknowledge within Slack's window.
type Bot struct {
	researchConfig common.ResearchConfig
	research       interfaces.ResearchService
	analysis       interfaces.AnalysisService
	resolver       interfaces.ResolverService
	financial      interfaces.FinancialService
	leadership     interfaces.LeadershipService
	slack          interfaces.SlackClient
	export         interfaces.ExportService
	conversations  interfaces.ConversationStore
	logger         arbor.ILogger
}

func NewBot(
	researchConfig common.ResearchConfig,
	research interfaces.ResearchService,
	analysis interfaces.AnalysisService,
	resolver interfaces.ResolverService,
	financial interfaces.FinancialService,
	leadership interfaces.LeadershipService,
	slack interfaces.SlackClient,
	export interfaces.ExportService,
	conversations interfaces.ConversationStore,
	logger arbor.ILogger,
) *Bot {
	return &Bot{
		researchConfig: researchConfig,
		research:       research,
		analysis:       analysis,
		resolver:       resolver,
		financial:      financial,
		leadership:     leadership,
		slack:          slack,
		export:         export,
		conversations:  conversations,
		logger:         logger.WithPrefix("bot"),
	}
}

// conversationKey scopes state to the thread when one exists, otherwise to
// the channel.
func conversationKey(channel, threadTS string) string {
	if threadTS == "" {
		threadTS = channel
	}
	return channel + ":" + threadTS
}

// StartSummary acknowledges immediately and runs the research pipeline in
// the background, delivering the briefing, artifacts, and action buttons.
func (b *Bot) StartSummary(input, channel, threadTS string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), taskTimeout)
		defer cancel()

		report, err := b.research.Run(ctx, input)
		if err != nil {
			if errors.Is(err, interfaces.ErrNoIdentity) {
				b.post(ctx, channel, fmt.Sprintf("Could not identify a company for %q. Try a website URL.", input), threadTS)
			} else {
				b.logger.Error().Str("input", input).Err(err).Msg("Research run failed")
				b.post(ctx, channel, "Something went wrong while researching. Please try again.", threadTS)
			}
			return
		}

		key := conversationKey(channel, threadTS)
		b.conversations.Put(key, interfaces.ConversationState{
			CompanyName: report.Identity.Name,
			Summary:     report.Summary,
			FullContext: report.Context,
			OriginalURL: report.Identity.URL,
		})

		blocks := summaryBlocks(report.Identity.Name, report.Summary,
			b.export.PublicURL(report.PDFPath), b.export.PublicURL(report.DeckPath), report.Identity.URL)
		if err := b.slack.PostBlocks(ctx, channel, blocks, threadTS); err != nil {
			b.logger.Warn().Err(err).Msg("Summary delivery failed")
			return
		}
		b.uploadCharts(ctx, channel, report.Identity.Name, report.ChartPaths)
	}()
}

// EnableCompare flags the conversation so the next free-text message is
// treated as the competitor to compare against.
func (b *Bot) EnableCompare(channel, threadTS string) {
	key := conversationKey(channel, threadTS)
	state, ok := b.conversations.Get(key)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if !ok || state.CompanyName == "" {
		b.post(ctx, channel, "No company is loaded in this conversation. Run a summary first.", threadTS)
		return
	}
	b.conversations.Update(key, func(state *interfaces.ConversationState) {
		state.ComparePending = true
	})
	b.post(ctx, channel, "Reply with the competitor's name or website URL.", threadTS)
}

// ComparePending reports whether the conversation is waiting for a
// competitor reply.
func (b *Bot) ComparePending(channel, threadTS string) bool {
	state, ok := b.conversations.Get(conversationKey(channel, threadTS))
	return ok && state.ComparePending
}

// StartComparison researches the competitor and posts the side-by-side
// analysis against the stored company context.
func (b *Bot) StartComparison(competitorInput, channel, threadTS string) {
	key := conversationKey(channel, threadTS)
	state, ok := b.conversations.Get(key)
	if !ok || state.FullContext == "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		b.post(ctx, channel, "No company is loaded in this conversation. Run a summary first.", threadTS)
		return
	}
	b.conversations.Update(key, func(state *interfaces.ConversationState) {
		state.ComparePending = false
	})

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), taskTimeout)
		defer cancel()

		report, err := b.research.Run(ctx, competitorInput)
		if err != nil {
			b.post(ctx, channel, fmt.Sprintf("Could not research competitor %q.", competitorInput), threadTS)
			return
		}

		comparison, err := b.analysis.Compare(ctx, state.FullContext, report.Context)
		if err != nil {
			b.logger.Warn().Err(err).Msg("Comparison generation failed")
			b.post(ctx, channel, "Comparison generation failed. Please try again.", threadTS)
			return
		}
		title := fmt.Sprintf("%s vs %s", state.CompanyName, report.Identity.Name)
		b.postBlocks(ctx, channel, textBlocks(title, comparison), threadTS)
	}()
}

// RunSWOT generates and posts the SWOT analysis for the stored company.
func (b *Bot) RunSWOT(channel, threadTS string) {
	b.withContext(channel, threadTS, "SWOT analysis", func(ctx context.Context, company, companyContext string) {
		swot := b.analysis.SWOT(ctx, companyContext, company)
		b.postBlocks(ctx, channel, swotBlocks(company, swot), threadTS)
	})
}

// RunTrends regenerates financial trends through the provider cascade and
// falls back to the qualitative model trends when no provider has data.
func (b *Bot) RunTrends(channel, threadTS string) {
	b.withContext(channel, threadTS, "financial trends", func(ctx context.Context, company, companyContext string) {
		var trends models.TrendSet
		if identity, err := b.resolver.Resolve(ctx, company); err == nil {
			trends = b.financial.GetTrends(ctx, identity, nil, nil)
		}
		if trends.Empty() {
			trends.Statements = b.analysis.Trends(ctx, companyContext)
		}
		if trends.Empty() {
			b.post(ctx, channel, fmt.Sprintf("No reliable financial data was found for %s in public sources.", company), threadTS)
			return
		}

		b.postBlocks(ctx, channel, listBlocks(fmt.Sprintf("%s: Financial Trends", company), trends.Statements), threadTS)
		for _, chartPath := range b.export.WriteCharts(company, trends.Charts) {
			b.uploadFile(ctx, channel, chartPath, fmt.Sprintf("%s Financial Chart", company))
		}
	})
}

// RunRisks posts red flags and opportunities.
func (b *Bot) RunRisks(channel, threadTS string) {
	b.withContext(channel, threadTS, "risks and opportunities", func(ctx context.Context, company, companyContext string) {
		risks := b.analysis.Risks(ctx, companyContext, company)
		b.postBlocks(ctx, channel, risksBlocks(company, risks), threadTS)
	})
}

// RunTimeline posts the company milestone timeline.
func (b *Bot) RunTimeline(channel, threadTS string) {
	b.withContext(channel, threadTS, "timeline", func(ctx context.Context, company, companyContext string) {
		timeline := b.analysis.Timeline(ctx, companyContext, company)
		b.postBlocks(ctx, channel, timelineBlocks(company, timeline), threadTS)
	})
}

// RunLeadership posts the executive list for the stored company.
func (b *Bot) RunLeadership(channel, threadTS string) {
	b.withContext(channel, threadTS, "leadership", func(ctx context.Context, company, companyContext string) {
		state, _ := b.conversations.Get(conversationKey(channel, threadTS))
		entries := b.leadership.GetLeadership(ctx, company, state.OriginalURL, companyContext)
		if len(entries) == 0 {
			b.post(ctx, channel, fmt.Sprintf("No leadership information found for %s.", company), threadTS)
			return
		}
		lines := make([]string, 0, len(entries))
		for _, entry := range entries {
			lines = append(lines, fmt.Sprintf("%s: %s", entry.Name, entry.Role))
		}
		b.postBlocks(ctx, channel, listBlocks(fmt.Sprintf("%s: Leadership", company), lines), threadTS)
	})
}

// EnableQA turns on the Q&A gate for the conversation and prompts the user.
func (b *Bot) EnableQA(channel, threadTS string) {
	key := conversationKey(channel, threadTS)
	b.conversations.Update(key, func(state *interfaces.ConversationState) {
		state.QAEnabled = true
	})

	state, _ := b.conversations.Get(key)
	company := state.CompanyName
	if company == "" {
		company = "the company"
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	b.post(ctx, channel, fmt.Sprintf("Type your question about %s as a message in this channel.", company), threadTS)
}

// QAEnabled reports whether the conversation accepts free-text questions.
func (b *Bot) QAEnabled(channel, threadTS string) bool {
	state, ok := b.conversations.Get(conversationKey(channel, threadTS))
	return ok && state.QAEnabled
}

// AnswerQuestion runs the Q&A path over the tighter interactive context cap.
func (b *Bot) AnswerQuestion(question, channel, threadTS, userID string) {
	key := conversationKey(channel, threadTS)
	state, ok := b.conversations.Get(key)
	if !ok || !state.QAEnabled {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		b.post(ctx, channel, "Use the Custom Question button before asking a question.", threadTS)
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), taskTimeout)
		defer cancel()

		mention := ""
		if userID != "" {
			mention = fmt.Sprintf("<@%s> ", userID)
		}
		b.post(ctx, channel, fmt.Sprintf("%sAnswering: *%s*", mention, question), threadTS)

		qaContext := common.Truncate(b.contextFor(ctx, state), b.researchConfig.QAContextLimit)
		answer, err := b.analysis.Answer(ctx, qaContext, question)
		if err != nil {
			b.logger.Warn().Err(err).Msg("Question answering failed")
			b.post(ctx, channel, "Could not answer that question. Please try again.", threadTS)
			return
		}
		b.postBlocks(ctx, channel, answerBlocks(state.CompanyName, answer), threadTS)
	}()
}

// withContext posts a progress note, resolves the stored context, and runs
// task in the background. Conversations without context are rejected.
func (b *Bot) withContext(channel, threadTS, label string, task func(ctx context.Context, company, companyContext string)) {
	key := conversationKey(channel, threadTS)
	state, ok := b.conversations.Get(key)
	if !ok || state.CompanyName == "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		b.post(ctx, channel, "No company is loaded in this conversation. Run a summary first.", threadTS)
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), taskTimeout)
		defer cancel()

		b.post(ctx, channel, fmt.Sprintf("Generating %s for %s...", label, state.CompanyName), threadTS)
		task(ctx, state.CompanyName, b.contextFor(ctx, state))
	}()
}

// contextFor prefers the conversation's stored context, then the cache,
// then a bare identity line so model tasks still have a subject.
func (b *Bot) contextFor(ctx context.Context, state interfaces.ConversationState) string {
	if state.FullContext != "" {
		return state.FullContext
	}
	if cached := b.research.CachedContext(ctx, state.CompanyName); cached != "" {
		return cached
	}
	return fmt.Sprintf("Company: %s\n", state.CompanyName)
}

func (b *Bot) uploadCharts(ctx context.Context, channel, company string, paths []string) {
	for _, path := range paths {
		b.uploadFile(ctx, channel, path, fmt.Sprintf("%s Financial Chart", company))
	}
}

func (b *Bot) uploadFile(ctx context.Context, channel, path, title string) {
	data, err := os.ReadFile(path)
	if err != nil {
		b.logger.Warn().Str("path", path).Err(err).Msg("Artifact read failed")
		return
	}
	if err := b.slack.UploadFile(ctx, channel, filepath.Base(path), title, data); err != nil {
		b.logger.Warn().Str("path", path).Err(err).Msg("Artifact upload failed")
	}
}

func (b *Bot) post(ctx context.Context, channel, text, threadTS string) {
	if err := b.slack.PostMessage(ctx, channel, text, threadTS); err != nil {
		b.logger.Warn().Str("channel", channel).Err(err).Msg("Message delivery failed")
	}
}

func (b *Bot) postBlocks(ctx context.Context, channel string, blocks []map[string]any, threadTS string) {
	if err := b.slack.PostBlocks(ctx, channel, blocks, threadTS); err != nil {
		b.logger.Warn().Str("channel", channel).Err(err).Msg("Block delivery failed")
	}
}
