package models

// Role tags who authored a chat message
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Message is one role-tagged entry of a conversation
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// SearchResult is a single page found on one of the allowed retailer sites.
// ScrapedContent stays empty when the page could not be scraped.
type SearchResult struct {
	URL            string `json:"url"`
	Title          string `json:"title"`
	Content        string `json:"content"`
	ScrapedContent string `json:"scraped_content"`
}

// ResultSet holds the deduplicated results of one turn, keyed by URL
type ResultSet struct {
	Results []SearchResult `json:"results"`
}

// Contains reports whether a result with exactly this url is already present.
func (rs *ResultSet) Contains(url string) bool {
	for _, r := range rs.Results {
		if r.URL == url {
			return true
		}
	}
	return false
}

// Add appends r unless its url is already present. First seen wins.
func (rs *ResultSet) Add(r SearchResult) bool {
	if rs.Contains(r.URL) {
		return false
	}
	rs.Results = append(rs.Results, r)
	return true
}

func (rs *ResultSet) Len() int { return len(rs.Results) }

// URLs returns the result urls in order
func (rs *ResultSet) URLs() []string {
	out := make([]string, 0, len(rs.Results))
	for _, r := range rs.Results {
		out = append(out, r.URL)
	}
	return out
}
