package models

import (
	"fmt"
	"net/url"
	"time"
)

// Product is one monitored URL with its last known state.
// Available stays nil until a first successful check has been recorded.
type Product struct {
	URL         string     `json:"url"`
	Available   *bool      `json:"available,omitempty"`
	Price       string     `json:"price,omitempty"`
	LastChecked *time.Time `json:"last_checked,omitempty"`
}

// CheckResult is the outcome of a single extraction run against a page.
// Available is never unknown: an inconclusive page resolves to true.
type CheckResult struct {
	Available   bool      `json:"available"`
	Price       string    `json:"price,omitempty"`
	LastChecked time.Time `json:"last_checked"`
}

func NewProduct(rawURL string) *Product {
	return &Product{URL: rawURL}
}

// Apply records a check result on the product.
func (p *Product) Apply(result *CheckResult) {
	available := result.Available
	checked := result.LastChecked
	p.Available = &available
	p.Price = result.Price
	p.LastChecked = &checked
}

// Validate checks that the product URL is an absolute URL with a host.
func (p *Product) Validate() error {
	if p.URL == "" {
		return fmt.Errorf("url is required")
	}
	u, err := url.Parse(p.URL)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if !u.IsAbs() || u.Hostname() == "" {
		return fmt.Errorf("url must be absolute with a host: %s", p.URL)
	}
	return nil
}
