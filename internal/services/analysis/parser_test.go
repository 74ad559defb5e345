package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSections_CaseInsensitiveHeadersAndBoldMarkers(t *testing.T) {
	text := `Intro chatter the model added.

**STRENGTHS:**
- Strong brand
* Large install base

## weaknesses
1. Heavy debt load

Threats
- New entrants`

	sections := parseSections(text, []string{"Strengths", "Weaknesses", "Opportunities", "Threats"})

	assert.Equal(t, []string{"Strong brand", "Large install base"}, sections["Strengths"])
	assert.Equal(t, []string{"Heavy debt load"}, sections["Weaknesses"])
	assert.Equal(t, []string{"New entrants"}, sections["Threats"])
	_, hasOpportunities := sections["Opportunities"]
	assert.False(t, hasOpportunities)
}

func TestParseSections_BulletsBeforeAnyHeaderAreDiscarded(t *testing.T) {
	text := `- orphan bullet
Strengths
- kept bullet`

	sections := parseSections(text, []string{"Strengths"})
	assert.Equal(t, []string{"kept bullet"}, sections["Strengths"])
}

func TestParseSections_UnrecognizedHeaderTextBecomesContent(t *testing.T) {
	text := `Strengths
Some plain sentence the model wrote.
- A bullet too`

	sections := parseSections(text, []string{"Strengths"})
	assert.Equal(t, []string{"Some plain sentence the model wrote.", "A bullet too"}, sections["Strengths"])
}

func TestAllBullets(t *testing.T) {
	text := `Here are the trends:
- Cloud revenue accelerating
2) Margin compression
Plain line without a marker`

	assert.Equal(t, []string{"Cloud revenue accelerating", "Margin compression"}, allBullets(text))
}

func TestExtractYear(t *testing.T) {
	assert.Equal(t, 2016, extractYear("2016: Acquired Example Corp"))
	assert.Equal(t, 1998, extractYear("Founded in 1998 in a garage"))
	assert.Zero(t, extractYear("Early 90s expansion"))
}
