package leadership

import (
	"context"
	"strings"

	"github.com/ternarybob/indago/internal/models"
)

// leadershipHeaders marks infobox rows that carry executive names.
var leadershipHeaders = []string{
	"key people", "ceo", "chairman", "founder", "president", "cfo", "cto", "coo",
}

// fromInfobox extracts entries from the encyclopedia infobox of the
// company's article. Each cell line is split into role and name on a colon
// or dash; lines without either become a name under the row header.
func (s *Service) fromInfobox(ctx context.Context, name string) []models.LeadershipEntry {
	rows := s.wiki.InfoboxRows(ctx, name)

	var entries []models.LeadershipEntry
	for _, row := range rows {
		header := strings.ToLower(row.Header)
		relevant := false
		for _, marker := range leadershipHeaders {
			if strings.Contains(header, marker) {
				relevant = true
				break
			}
		}
		if !relevant {
			continue
		}

		for _, value := range row.Values {
			value = strings.TrimSpace(value)
			if value == "" {
				continue
			}
			switch {
			case strings.Contains(value, ":"):
				parts := strings.SplitN(value, ":", 2)
				entries = append(entries, models.LeadershipEntry{
					Name: strings.TrimSpace(parts[1]),
					Role: strings.TrimSpace(parts[0]),
				})
			case strings.Contains(value, " - "):
				parts := strings.SplitN(value, " - ", 2)
				entries = append(entries, models.LeadershipEntry{
					Name: strings.TrimSpace(parts[1]),
					Role: strings.TrimSpace(parts[0]),
				})
			default:
				entries = append(entries, models.LeadershipEntry{
					Name: value,
					Role: row.Header,
				})
			}
		}
	}
	return models.DedupeLeadership(entries)
}
