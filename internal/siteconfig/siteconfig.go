package siteconfig

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strings"
)

// DefaultKey is the pattern that marks a config as the fallback for
// hosts no other entry matches.
const DefaultKey = "default"

// SiteConfig holds the extraction rules for one site. All slices are
// ordered: the first selector that locates an element wins, and
// indicator phrases are tested in the order given.
type SiteConfig struct {
	AvailabilitySelectors []string `json:"availability_selectors"`
	InStockTexts          []string `json:"in_stock_texts"`
	OutOfStockTexts       []string `json:"out_of_stock_texts"`
	PriceSelectors        []string `json:"price_selectors"`
}

// Entry pairs a host pattern with its config. Patterns are matched as
// substrings of the URL host, in insertion order, so an earlier broad
// pattern like "shop.com" shadows a later "myshop.com" on purpose.
type Entry struct {
	Pattern string     `json:"pattern"`
	Config  SiteConfig `json:"config"`
}

// Resolver maps product URLs to site configs.
type Resolver struct {
	entries []Entry
}

func NewResolver(entries []Entry) *Resolver {
	return &Resolver{entries: entries}
}

// LoadFile reads site config entries from a JSON array file.
// A missing file yields an empty resolver rather than an error.
func LoadFile(path string) (*Resolver, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewResolver(nil), nil
		}
		return nil, fmt.Errorf("failed to read site configs: %w", err)
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse site configs: %w", err)
	}

	return NewResolver(entries), nil
}

// Resolve returns the config for the first entry whose pattern is a
// substring of the URL's lower-cased host. Falls back to the entry
// keyed "default", then to a zero config. Never fails: an unparsable
// URL simply has no host to match.
func (r *Resolver) Resolve(rawURL string) SiteConfig {
	host := ""
	if u, err := url.Parse(rawURL); err == nil {
		host = strings.ToLower(u.Hostname())
	}

	for _, e := range r.entries {
		if e.Pattern == DefaultKey {
			continue
		}
		if host != "" && strings.Contains(host, strings.ToLower(e.Pattern)) {
			return e.Config
		}
	}

	for _, e := range r.entries {
		if e.Pattern == DefaultKey {
			return e.Config
		}
	}

	return SiteConfig{}
}
