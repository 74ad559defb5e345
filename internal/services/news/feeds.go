package news

// regionalFeed is one always-polled feed for the scheduled digest.
type regionalFeed struct {
	Name string
	URL  string
}

// regionalFeeds covers the Indian and global business press the digest
// watches in addition to the bulk API.
var regionalFeeds = []regionalFeed{
	{Name: "Times of India", URL: "https://timesofindia.indiatimes.com/rssfeeds/-2128936835.cms"},
	{Name: "The Hindu", URL: "https://www.thehindu.com/news/national/feeder/default.rss"},
	{Name: "Mint", URL: "https://www.livemint.com/rss/news"},
	{Name: "Business Standard", URL: "https://www.business-standard.com/rss/latest.rss"},
	{Name: "Hindu BusinessLine", URL: "https://www.thehindubusinessline.com/news/national/feeder/default.rss"},
	{Name: "Economic Times", URL: "https://economictimes.indiatimes.com/rssfeedstopstories.cms"},
	{Name: "Financial Express", URL: "https://www.financialexpress.com/feed/"},
	{Name: "NDTV Business", URL: "https://feeds.feedburner.com/ndtvprofit-latest"},
	{Name: "Reuters India", URL: "https://www.reuters.com/rssFeed/businessNews"},
	{Name: "Moneycontrol", URL: "https://www.moneycontrol.com/rss/latestnews.xml"},
	{Name: "CNBC TV18", URL: "https://www.cnbctv18.com/rss/business-news.xml"},
	{Name: "Zee Business", URL: "https://zeenews.india.com/rss/business-news.xml"},
	{Name: "Bloomberg Quint", URL: "https://www.bqprime.com/feed"},
}
