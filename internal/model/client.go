package model

type DocumentRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Date string `json:"date"`
	URL  string `json:"url"`
}

// ClientRecord is the portal view for one client identity. Read-only from the
// portal's perspective; mutated only through full-state replacement.
type ClientRecord struct {
	ClientID         string        `json:"clientId"`
	PortfolioValue   string        `json:"portfolioValue"`
	QuarterlyReturn  string        `json:"quarterlyReturn"`
	LatestReportDate string        `json:"latestReportDate"`
	Documents        []DocumentRef `json:"documents"`
}

func DefaultClients() map[string]ClientRecord {
	return map[string]ClientRecord{
		"client_1": {
			ClientID:         "client_1",
			PortfolioValue:   "$450,000,000",
			QuarterlyReturn:  "+4.2%",
			LatestReportDate: "2024-Q3",
			Documents: []DocumentRef{
				{ID: "1", Name: "Q3 2024 Performance Report", Date: "2024-10-15", URL: "#"},
				{ID: "2", Name: "Annual Strategy Outlook", Date: "2024-01-20", URL: "#"},
			},
		},
	}
}
