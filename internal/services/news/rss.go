package news

import (
	"context"
	"encoding/xml"
	"net/http"
	"strings"

	"github.com/ternarybob/indago/internal/httpclient"
)

// rssFeed mirrors the subset of RSS 2.0 the news sources emit.
type rssFeed struct {
	Channel struct {
		Title string    `xml:"title"`
		Items []rssItem `xml:"item"`
	} `xml:"channel"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	Source      string `xml:"source"`
}

// fetchFeed downloads and parses one RSS feed.
func fetchFeed(ctx context.Context, client *http.Client, feedURL string) (*rssFeed, error) {
	body, err := httpclient.Get(ctx, client, feedURL, "")
	if err != nil {
		return nil, err
	}

	var feed rssFeed
	if err := xml.Unmarshal(body, &feed); err != nil {
		return nil, err
	}
	return &feed, nil
}

// stripTags removes markup the feeds embed in descriptions.
func stripTags(s string) string {
	var sb strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			sb.WriteRune(r)
		}
	}
	return strings.TrimSpace(sb.String())
}
