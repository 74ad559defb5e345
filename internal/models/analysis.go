package models

import "sort"

// SWOT category keys. A SWOT result always carries all four, possibly empty.
const (
	SWOTStrengths     = "Strengths"
	SWOTWeaknesses    = "Weaknesses"
	SWOTOpportunities = "Opportunities"
	SWOTThreats       = "Threats"
)

// Risk/opportunity category keys.
const (
	CategoryRedFlags      = "Red Flags"
	CategoryOpportunities = "Opportunities"
)

// Provenance marks whether an analysis item was extracted from model output
// or synthesized to satisfy a minimum-output floor.
type Provenance string

const (
	ProvenanceExtracted Provenance = "extracted"
	ProvenanceGenerated Provenance = "generated"
)

// AnalysisItem is one bullet of model output with its provenance.
type AnalysisItem struct {
	Text       string     `json:"text"`
	Provenance Provenance `json:"provenance"`
}

// TimelineEvent is one dated company milestone.
type TimelineEvent struct {
	Year        int        `json:"year"`
	Description string     `json:"description"`
	Provenance  Provenance `json:"provenance"`
}

// AnalysisResult is the structured briefing parsed from model output.
type AnalysisResult struct {
	Summary  string                    `json:"summary"`
	SWOT     map[string][]string       `json:"swot"`
	Trends   []string                  `json:"trends"`
	Risks    map[string][]AnalysisItem `json:"risks"`
	Timeline []TimelineEvent           `json:"timeline"`
}

// NewSWOT returns a SWOT map with all four categories present.
func NewSWOT() map[string][]string {
	return map[string][]string{
		SWOTStrengths:     {},
		SWOTWeaknesses:    {},
		SWOTOpportunities: {},
		SWOTThreats:       {},
	}
}

// NewRisks returns a risk map with both categories present.
func NewRisks() map[string][]AnalysisItem {
	return map[string][]AnalysisItem{
		CategoryRedFlags:      {},
		CategoryOpportunities: {},
	}
}

// SortTimeline orders events ascending by year in place.
func SortTimeline(events []TimelineEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Year < events[j].Year
	})
}

// ResearchReport bundles everything produced for one research request.
type ResearchReport struct {
	RunID       string          `json:"run_id"`
	Identity    CompanyIdentity `json:"identity"`
	Summary     string          `json:"summary"`
	Context     string          `json:"context"`
	Leadership  []LeadershipEntry `json:"leadership,omitempty"`
	News        []NewsItem      `json:"news,omitempty"`
	Trends      TrendSet        `json:"trends"`
	PDFPath     string          `json:"pdf_path,omitempty"`
	DeckPath    string          `json:"deck_path,omitempty"`
	ChartPaths  []string        `json:"chart_paths,omitempty"`
}
