package news

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/indago/internal/common"
)

func testNewsConfig() common.NewsConfig {
	return common.NewsConfig{
		RequestTimeout: 5 * time.Second,
		MaxItems:       5,
		BulkMaxItems:   20,
	}
}

const sampleRSS = `<?xml version="1.0"?>
<rss version="2.0"><channel><title>Search results</title>
<item><title>Acme posts record Q3</title><link>https://example.com/a</link><description>Acme beat estimates.</description></item>
<item><title>Acme expands into Europe</title><link>https://example.com/b</link><description>&lt;b&gt;Acme&lt;/b&gt; opens Berlin office.</description></item>
</channel></rss>`

func TestGetNews_PrefersSearchAPI(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Acme", r.URL.Query().Get("q"))
		fmt.Fprint(w, `{"articles": [
			{"title": "Acme posts record Q3", "description": "Beat estimates.", "url": "https://example.com/a", "source": {"name": "Wire"}},
			{"title": "Acme CFO steps down", "description": "", "url": "https://example.com/b", "source": {"name": "Wire"}}
		]}`)
	}))
	defer api.Close()

	config := testNewsConfig()
	config.APIURL = api.URL
	config.APIKey = "key"

	svc := NewService(config, common.GetLogger())
	items := svc.GetNews(context.Background(), "Acme")

	require.Len(t, items, 2)
	assert.Equal(t, "Acme posts record Q3", items[0].Title)
	assert.Equal(t, "Wire", items[0].Source)
}

func TestGetNews_FallsBackToRSSWhenAPIFails(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer api.Close()

	rss := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, sampleRSS)
	}))
	defer rss.Close()

	config := testNewsConfig()
	config.APIURL = api.URL
	config.APIKey = "key"
	config.RSSSearchURL = rss.URL

	svc := NewService(config, common.GetLogger())
	items := svc.GetNews(context.Background(), "Acme")

	require.Len(t, items, 2)
	assert.Equal(t, "Acme posts record Q3", items[0].Title)
	assert.Equal(t, "Google News", items[0].Source)
	// Markup in descriptions is stripped.
	assert.Equal(t, "Acme opens Berlin office.", items[1].Summary)
}

func TestGetNews_DedupesByExactTitle(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"articles": [
			{"title": "Acme posts record Q3", "url": "https://example.com/a", "source": {"name": "Wire"}},
			{"title": "Acme posts record Q3", "url": "https://example.com/mirror", "source": {"name": "Mirror"}}
		]}`)
	}))
	defer api.Close()

	config := testNewsConfig()
	config.APIURL = api.URL
	config.APIKey = "key"

	svc := NewService(config, common.GetLogger())
	items := svc.GetNews(context.Background(), "Acme")

	require.Len(t, items, 1)
	assert.Equal(t, "https://example.com/a", items[0].URL)
}

func TestGetNews_NoSourcesConfiguredIsEmpty(t *testing.T) {
	svc := NewService(testNewsConfig(), common.GetLogger())
	assert.Empty(t, svc.GetNews(context.Background(), "Acme"))
}

func TestCollectDigestNews_FiltersToCompanyNameAndDedupes(t *testing.T) {
	bulk := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"articles": [
			{"title": "Acme posts record Q3", "description": "Strong quarter.", "url": "https://example.com/a", "source": {"name": "Wire"}},
			{"title": "Markets rally on rate cut", "description": "Broad gains.", "url": "https://example.com/x", "source": {"name": "Wire"}}
		]}`)
	}))
	defer bulk.Close()

	feed := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<?xml version="1.0"?>
<rss version="2.0"><channel><title>Regional</title>
<item><title>Acme posts record Q3</title><link>https://regional.example.com/dup</link><description>Same story.</description></item>
<item><title>Regulator clears Acme merger</title><link>https://regional.example.com/m</link><description>Deal approved.</description></item>
<item><title>Monsoon forecast revised</title><link>https://regional.example.com/w</link><description>Weather update.</description></item>
</channel></rss>`)
	}))
	defer feed.Close()

	config := testNewsConfig()
	config.BulkAPIURL = bulk.URL
	config.BulkAPIKey = "key"

	svc := NewService(config, common.GetLogger())
	svc.digestFeeds = []regionalFeed{{Name: "Regional", URL: feed.URL}}

	items := svc.CollectDigestNews(context.Background(), "Acme")

	titles := make([]string, len(items))
	for i, item := range items {
		titles[i] = item.Title
	}
	// Off-topic items are filtered, the duplicate title collapses to the
	// bulk API's copy.
	assert.ElementsMatch(t, []string{"Acme posts record Q3", "Regulator clears Acme merger"}, titles)
	for _, item := range items {
		if item.Title == "Acme posts record Q3" {
			assert.Equal(t, "https://example.com/a", item.URL)
		}
	}
}

func TestCollectDigestNews_ToleratesDeadFeeds(t *testing.T) {
	config := testNewsConfig()
	svc := NewService(config, common.GetLogger())
	svc.digestFeeds = []regionalFeed{{Name: "Dead", URL: "http://dead-feed-host.invalid/rss"}}

	assert.Empty(t, svc.CollectDigestNews(context.Background(), "Acme"))
}
