package resolver

// companyTickerMap maps lowercase company names and bare domains to ticker
// symbols. NSE listings carry the .NS suffix used for market classification.
var companyTickerMap = map[string]string{
	// US companies
	"microsoft":           "MSFT",
	"apple":               "AAPL",
	"amazon":              "AMZN",
	"google":              "GOOGL",
	"alphabet":            "GOOGL",
	"nike":                "NKE",
	"coca-cola":           "KO",
	"coca cola":           "KO",
	"walmart":             "WMT",
	"procter & gamble":    "PG",
	"procter and gamble":  "PG",
	"p&g":                 "PG",
	"accenture":           "ACN",
	"siemens":             "SIEGY",
	"toyota":              "TM",
	"hsbc":                "HSBC",
	"zoom":                "ZM",
	"datadog":             "DDOG",
	"snowflake":           "SNOW",
	"palantir":            "PLTR",
	"crowdstrike":         "CRWD",
	"atlassian":           "TEAM",
	"twilio":              "TWLO",
	"zendesk":             "ZEN",
	"okta":                "OKTA",
	"hubspot":             "HUBS",
	"service now":         "NOW",
	"workday":             "WDAY",
	"splunk":              "SPLK",
	"dropbox":             "DBX",
	"box":                 "BOX",

	// Indian companies (NSE)
	"infosys":             "INFY.NS",
	"tcs":                 "TCS.NS",
	"wipro":               "WIPRO.NS",
	"hdfc":                "HDFCBANK.NS",
	"hdfc bank":           "HDFCBANK.NS",
	"reliance":            "RELIANCE.NS",
	"reliance industries": "RELIANCE.NS",
	"ltimindtree":         "LTIM.NS",
	"persistent":          "PERSISTENT.NS",
	"mindtree":            "MINDTREE.NS",
	"bajaj finance":       "BAJFINANCE.NS",
	"bajajfinserv":        "BAJAJFINSV.NS",
	"godrej":              "GODREJCP.NS",
	"titan":               "TITAN.NS",
	"asian paints":        "ASIANPAINT.NS",
	"berger paints":       "BERGEPAINT.NS",
	"apollo hospitals":    "APOLLOHOSP.NS",
	"page industries":     "PAGEIND.NS",

	// Website domains
	"microsoft.com":         "MSFT",
	"apple.com":             "AAPL",
	"amazon.com":            "AMZN",
	"nike.com":              "NKE",
	"coca-cola.com":         "KO",
	"walmart.com":           "WMT",
	"pg.com":                "PG",
	"accenture.com":         "ACN",
	"siemens.com":           "SIEGY",
	"toyota.com":            "TM",
	"hsbc.com":              "HSBC",
	"zoom.us":               "ZM",
	"datadoghq.com":         "DDOG",
	"snowflake.com":         "SNOW",
	"palantir.com":          "PLTR",
	"crowdstrike.com":       "CRWD",
	"atlassian.com":         "TEAM",
	"twilio.com":            "TWLO",
	"zendesk.com":           "ZEN",
	"okta.com":              "OKTA",
	"hubspot.com":           "HUBS",
	"servicenow.com":        "NOW",
	"workday.com":           "WDAY",
	"splunk.com":            "SPLK",
	"dropbox.com":           "DBX",
	"box.com":               "BOX",
	"infosys.com":           "INFY.NS",
	"tcs.com":               "TCS.NS",
	"wipro.com":             "WIPRO.NS",
	"hdfcbank.com":          "HDFCBANK.NS",
	"relianceindustries.com": "RELIANCE.NS",
	"ltimindtree.com":       "LTIM.NS",
	"persistent.com":        "PERSISTENT.NS",
	"mindtree.com":          "MINDTREE.NS",
	"bajajfinserv.in":       "BAJAJFINSV.NS",
	"godrej.com":            "GODREJCP.NS",
	"titan.co.in":           "TITAN.NS",
	"asianpaints.com":       "ASIANPAINT.NS",
	"bergerpaints.com":      "BERGEPAINT.NS",
	"apollohospitals.com":   "APOLLOHOSP.NS",
	"pageind.com":           "PAGEIND.NS",
}
