package assistant

import (
	"strings"

	"github.com/mohammad-safakhou/grocer/config"
	"github.com/mohammad-safakhou/grocer/internal/prompts"
	"github.com/mohammad-safakhou/grocer/models"
)

// Retailer is one allowed shop. URL is used verbatim as the site filter.
type Retailer struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Host returns the bare domain used for presence detection
func (r Retailer) Host() string {
	return config.NormalizeHost(r.URL)
}

func RetailersFromConfig(in []config.RetailerConfig) []Retailer {
	out := make([]Retailer, 0, len(in))
	for _, rc := range in {
		out = append(out, Retailer{Name: rc.Name, URL: rc.URL})
	}
	return out
}

func promptRetailers(in []Retailer) []prompts.Retailer {
	out := make([]prompts.Retailer, 0, len(in))
	for _, r := range in {
		out = append(out, prompts.Retailer{Name: r.Name, URL: r.URL, Host: r.Host()})
	}
	return out
}

// RetailerPresence records whether a retailer contributed any result
type RetailerPresence struct {
	Retailer Retailer `json:"retailer"`
	HasData  bool     `json:"has_data"`
}

// Presence holds one flag per configured retailer, in configured order
type Presence []RetailerPresence

// DetectPresence flags a retailer when any result url contains its host
func DetectPresence(retailers []Retailer, results models.ResultSet) Presence {
	out := make(Presence, 0, len(retailers))
	for _, r := range retailers {
		host := r.Host()
		found := false
		if host != "" {
			for _, res := range results.Results {
				if strings.Contains(res.URL, host) {
					found = true
					break
				}
			}
		}
		out = append(out, RetailerPresence{Retailer: r, HasData: found})
	}
	return out
}

// Names returns the names of retailers with data
func (p Presence) Names() []string {
	var out []string
	for _, rp := range p {
		if rp.HasData {
			out = append(out, rp.Retailer.Name)
		}
	}
	return out
}

func (p Presence) Has(name string) bool {
	for _, rp := range p {
		if rp.Retailer.Name == name {
			return rp.HasData
		}
	}
	return false
}

func (p Presence) String() string { return strings.Join(p.Names(), ", ") }
