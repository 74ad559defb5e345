package crawler

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/publicsuffix"
)

// relevantSegments flags subpages worth prioritizing for leadership and
// document discovery.
var relevantSegments = []string{
	"/about", "/leadership", "/investor", "/product", "/news", "/team", "/management",
}

// IsRelevantSubpage reports whether a URL path looks like an about,
// leadership, investor, product, news, team, or management page.
func IsRelevantSubpage(rawURL string) bool {
	lower := strings.ToLower(rawURL)
	for _, seg := range relevantSegments {
		if strings.Contains(lower, seg) {
			return true
		}
	}
	return false
}

// registrableDomain returns the eTLD+1 for a host, falling back to the host
// itself when the public suffix list has no answer.
func registrableDomain(host string) string {
	host = strings.ToLower(host)
	if domain, err := publicsuffix.EffectiveTLDPlusOne(host); err == nil {
		return domain
	}
	return host
}

// sameSite reports whether link shares base's registrable domain.
func sameSite(link *url.URL, baseDomain string) bool {
	if link.Host == "" {
		return true
	}
	return registrableDomain(link.Hostname()) == baseDomain
}

// extractLinks collects absolute same-site http(s) links from a parsed page,
// with fragments stripped and duplicates removed.
func extractLinks(doc *goquery.Document, pageURL *url.URL, baseDomain string) []string {
	seen := make(map[string]struct{})
	var links []string

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(href, "mailto:") || strings.HasPrefix(href, "javascript:") {
			return
		}

		parsed, err := url.Parse(href)
		if err != nil {
			return
		}
		resolved := pageURL.ResolveReference(parsed)
		if resolved.Scheme != "http" && resolved.Scheme != "https" {
			return
		}
		if !sameSite(resolved, baseDomain) {
			return
		}

		resolved.Fragment = ""
		abs := resolved.String()
		if _, ok := seen[abs]; ok {
			return
		}
		seen[abs] = struct{}{}
		links = append(links, abs)
	})

	return links
}

// isPDFLink reports whether a URL points at a PDF document.
func isPDFLink(rawURL string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return strings.HasSuffix(strings.ToLower(rawURL), ".pdf")
	}
	return strings.HasSuffix(strings.ToLower(parsed.Path), ".pdf")
}
