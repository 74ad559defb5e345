package handlers

import (
	"fmt"
	"strings"

	"github.com/ternarybob/indago/internal/common"
	"github.com/ternarybob/indago/internal/models"
)

// Slack caps a section block's text at 3000 characters.
const blockTextLimit = 2900

func headerBlock(text string) map[string]any {
	return map[string]any{
		"type": "header",
		"text": map[string]any{"type": "plain_text", "text": common.Truncate(text, 150)},
	}
}

func sectionBlock(markdown string) map[string]any {
	return map[string]any{
		"type": "section",
		"text": map[string]any{"type": "mrkdwn", "text": common.Truncate(markdown, blockTextLimit)},
	}
}

func buttonElement(label, actionID, value string) map[string]any {
	return map[string]any{
		"type":      "button",
		"text":      map[string]any{"type": "plain_text", "text": label},
		"action_id": actionID,
		"value":     value,
	}
}

func linkButtonElement(label, url string) map[string]any {
	return map[string]any{
		"type": "button",
		"text": map[string]any{"type": "plain_text", "text": label},
		"url":  url,
	}
}

// summaryBlocks renders the briefing with download links and the follow-up
// action row. The action value carries the original input so a button press
// can rebuild state after an eviction.
func summaryBlocks(company, summary, pdfURL, deckURL, originalURL string) []map[string]any {
	text := summary
	if text == "" {
		text = "No summary generated."
	}
	blocks := []map[string]any{
		headerBlock(fmt.Sprintf("%s: Strategic Summary", company)),
		sectionBlock(fmt.Sprintf("```%s```", common.Truncate(text, blockTextLimit-10))),
		{"type": "divider"},
	}

	var downloads []map[string]any
	if pdfURL != "" {
		downloads = append(downloads, linkButtonElement("Download PDF", pdfURL))
	}
	if deckURL != "" {
		downloads = append(downloads, linkButtonElement("Download Deck", deckURL))
	}
	downloads = append(downloads, buttonElement("Regenerate", "regenerate_summary", originalURL))
	blocks = append(blocks, map[string]any{"type": "actions", "elements": downloads})

	blocks = append(blocks, map[string]any{"type": "actions", "elements": []map[string]any{
		buttonElement("SWOT", "swot_analysis", originalURL),
		buttonElement("Financial Trends", "financial_trends", originalURL),
		buttonElement("Risks & Opportunities", "risks_opps", originalURL),
		buttonElement("Timeline", "timeline_events", originalURL),
		buttonElement("Leadership", "leadership", originalURL),
		buttonElement("Custom Question", "ask_custom_question", originalURL),
		buttonElement("Compare Competitor", "competitor_comparison", originalURL),
	}})
	return blocks
}

func textBlocks(title, body string) []map[string]any {
	return []map[string]any{
		headerBlock(title),
		sectionBlock(body),
	}
}

func listBlocks(title string, lines []string) []map[string]any {
	var sb strings.Builder
	for _, line := range lines {
		fmt.Fprintf(&sb, "• %s\n", line)
	}
	return []map[string]any{
		headerBlock(title),
		sectionBlock(sb.String()),
	}
}

func swotBlocks(company string, swot map[string][]string) []map[string]any {
	blocks := []map[string]any{headerBlock(fmt.Sprintf("%s: SWOT Analysis", company))}
	for _, category := range []string{models.SWOTStrengths, models.SWOTWeaknesses, models.SWOTOpportunities, models.SWOTThreats} {
		items := swot[category]
		var sb strings.Builder
		fmt.Fprintf(&sb, "*%s*\n", category)
		if len(items) == 0 {
			sb.WriteString("_Nothing notable found._\n")
		}
		for _, item := range items {
			fmt.Fprintf(&sb, "• %s\n", item)
		}
		blocks = append(blocks, sectionBlock(sb.String()))
	}
	return blocks
}

func risksBlocks(company string, risks map[string][]models.AnalysisItem) []map[string]any {
	blocks := []map[string]any{headerBlock(fmt.Sprintf("%s: Risks & Opportunities", company))}
	for _, category := range []string{models.CategoryRedFlags, models.CategoryOpportunities} {
		var sb strings.Builder
		fmt.Fprintf(&sb, "*%s*\n", category)
		for _, item := range risks[category] {
			fmt.Fprintf(&sb, "• %s\n", item.Text)
		}
		blocks = append(blocks, sectionBlock(sb.String()))
	}
	return blocks
}

func timelineBlocks(company string, timeline []models.TimelineEvent) []map[string]any {
	var sb strings.Builder
	for _, event := range timeline {
		if event.Year > 0 {
			fmt.Fprintf(&sb, "• *%d*: %s\n", event.Year, event.Description)
		} else {
			fmt.Fprintf(&sb, "• %s\n", event.Description)
		}
	}
	return []map[string]any{
		headerBlock(fmt.Sprintf("%s: Timeline", company)),
		sectionBlock(sb.String()),
	}
}

func answerBlocks(company, answer string) []map[string]any {
	return []map[string]any{
		sectionBlock(answer),
		{"type": "actions", "elements": []map[string]any{
			buttonElement("Ask Another Question", "ask_another_question", company),
		}},
	}
}
