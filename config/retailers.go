package config

import (
	"fmt"
	"net/url"
	"strings"
)

// RetailerConfig is one allowed retailer site. URL is used verbatim as the
// site restriction, Name is what the answer calls the retailer.
type RetailerConfig struct {
	Name string `mapstructure:"name" json:"name"`
	URL  string `mapstructure:"url" json:"url"`
}

// DefaultRetailers is the stock set of Vietnamese grocery chains
func DefaultRetailers() []RetailerConfig {
	return []RetailerConfig{
		{Name: "Kingfoodmart", URL: "https://kingfoodmart.com"},
		{Name: "Bách Hóa Xanh", URL: "https://bachhoaxanh.com"},
		{Name: "Winmart", URL: "https://winmart.vn"},
	}
}

// NormalizeRetailers trims entries, drops blanks and repeated hosts, keeping
// configured order. An empty list yields DefaultRetailers.
func NormalizeRetailers(in []RetailerConfig) []RetailerConfig {
	seen := make(map[string]struct{}, len(in))
	out := make([]RetailerConfig, 0, len(in))
	for _, r := range in {
		r.Name = strings.TrimSpace(r.Name)
		r.URL = strings.TrimRight(strings.TrimSpace(r.URL), "/")
		host := NormalizeHost(r.URL)
		if host == "" {
			continue
		}
		if _, ok := seen[host]; ok {
			continue
		}
		seen[host] = struct{}{}
		if r.Name == "" {
			r.Name = host
		}
		out = append(out, r)
	}
	if len(out) == 0 {
		return DefaultRetailers()
	}
	return out
}

// ValidateRetailers ensures every retailer has a usable host.
func ValidateRetailers(in []RetailerConfig) error {
	if len(in) == 0 {
		return fmt.Errorf("retailers: at least one retailer is required")
	}
	for i, r := range in {
		if NormalizeHost(r.URL) == "" {
			return fmt.Errorf("retailers[%d]: url is required", i)
		}
		if strings.TrimSpace(r.Name) == "" {
			return fmt.Errorf("retailers[%d]: name is required", i)
		}
	}
	return nil
}

// NormalizeHost lowercases a url or bare domain and strips scheme, path and "www.".
func NormalizeHost(value string) string {
	value = strings.TrimSpace(strings.ToLower(value))
	if value == "" {
		return ""
	}
	if strings.HasPrefix(value, "http://") || strings.HasPrefix(value, "https://") {
		if u, err := url.Parse(value); err == nil && u.Host != "" {
			return strings.TrimPrefix(u.Host, "www.")
		}
		return ""
	}
	if i := strings.IndexByte(value, '/'); i >= 0 {
		value = value[:i]
	}
	return strings.TrimPrefix(value, "www.")
}
