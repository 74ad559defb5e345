package analysis

import (
	"regexp"
	"strconv"
	"strings"
)

// parserState is the section parser's mode.
type parserState int

const (
	stateSeeking parserState = iota
	stateInSection
)

var (
	bulletPrefix = regexp.MustCompile(`^\s*(?:[-*•]|\d+[.)])\s+`)
	boldMarkers  = regexp.MustCompile(`\*\*|__`)
	yearLine     = regexp.MustCompile(`\b(\d{4})\b`)
)

// normalizeHeader strips markdown heading and bold markers, trailing colons,
// and whitespace, then lowercases for comparison.
func normalizeHeader(line string) string {
	line = strings.TrimSpace(line)
	line = strings.TrimLeft(line, "#")
	line = boldMarkers.ReplaceAllString(line, "")
	line = strings.TrimSuffix(strings.TrimSpace(line), ":")
	return strings.ToLower(strings.TrimSpace(line))
}

// cleanBullet strips the bullet marker and bold markers from a line.
func cleanBullet(line string) string {
	line = bulletPrefix.ReplaceAllString(line, "")
	line = boldMarkers.ReplaceAllString(line, "")
	return strings.TrimSpace(line)
}

// parseSections walks model output line by line, collecting bullet and text
// lines under each recognized header. The parser is a two-state machine:
// seeking a header, then inside a section until the next recognized header.
// Content before the first recognized header is discarded.
func parseSections(text string, recognized []string) map[string][]string {
	lookup := make(map[string]string, len(recognized))
	for _, name := range recognized {
		lookup[strings.ToLower(name)] = name
	}

	out := map[string][]string{}
	state := stateSeeking
	current := ""

	for _, line := range strings.Split(text, "\n") {
		if section, ok := lookup[normalizeHeader(line)]; ok {
			current = section
			state = stateInSection
			if _, exists := out[current]; !exists {
				out[current] = []string{}
			}
			continue
		}

		if state != stateInSection {
			continue
		}
		item := cleanBullet(line)
		if item == "" {
			continue
		}
		out[current] = append(out[current], item)
	}
	return out
}

// allBullets collects every bullet line regardless of sections, for prompts
// that request a flat list.
func allBullets(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if !bulletPrefix.MatchString(line) {
			continue
		}
		if item := cleanBullet(line); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// extractYear pulls the first 4-digit year from a line, or 0.
func extractYear(line string) int {
	m := yearLine.FindString(line)
	if m == "" {
		return 0
	}
	year, err := strconv.Atoi(m)
	if err != nil {
		return 0
	}
	return year
}

// stripCodeFences removes a surrounding markdown code fence if present.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx >= 0 {
			s = s[idx+1:]
		}
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}
