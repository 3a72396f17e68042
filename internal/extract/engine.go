package extract

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/restockd/restockd/internal/cache"
	"github.com/restockd/restockd/internal/fetch"
	"github.com/restockd/restockd/internal/models"
	"github.com/restockd/restockd/internal/price"
	"github.com/restockd/restockd/internal/siteconfig"
)

// CheckError reports a check that could not be completed. The only hard
// failure inside a check is the page fetch; extraction ambiguity always
// resolves by policy instead of erroring.
type CheckError struct {
	URL string
	Err error
}

func (e *CheckError) Error() string {
	return fmt.Sprintf("check %s: %v", e.URL, e.Err)
}

func (e *CheckError) Unwrap() error {
	return e.Err
}

// currencyFragment locates symbol-adjacent digits anywhere in page text,
// the last resort of the price cascade.
var currencyFragment = regexp.MustCompile(`€\s*\d+[.,]?\d*|\d+[.,]?\d*\s*€`)

// Engine derives an availability verdict and an optional price from a
// product page, using the extraction rules resolved for the page's
// host. It owns the result cache; nothing else reads or writes it.
type Engine struct {
	resolver *siteconfig.Resolver
	fetcher  fetch.Fetcher
	cache    *cache.ResultCache
	logger   *slog.Logger
}

func NewEngine(resolver *siteconfig.Resolver, fetcher fetch.Fetcher, cacheTTL time.Duration, logger *slog.Logger) *Engine {
	return &Engine{
		resolver: resolver,
		fetcher:  fetcher,
		cache:    cache.New(cacheTTL),
		logger:   logger.With("component", "extract_engine"),
	}
}

// Check fetches the product page and extracts availability and price.
// A cached result within the TTL is returned as-is without a fetch.
// A fetch failure aborts the whole check: no partial result, no cache
// write. Everything past the fetch degrades instead of failing: no
// verdict means available, no price stays empty.
func (e *Engine) Check(ctx context.Context, url string) (*models.CheckResult, error) {
	now := time.Now()

	if cached, ok := e.cache.Get(url, now); ok {
		e.logger.Debug("serving cached result", "url", url)
		return cached, nil
	}

	cfg := e.resolver.Resolve(url)

	body, err := e.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, &CheckError{URL: url, Err: err}
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, &CheckError{URL: url, Err: fmt.Errorf("parse page: %w", err)}
	}

	result := &models.CheckResult{
		Available:   e.extractAvailability(doc, cfg, url),
		LastChecked: now,
	}
	if p, ok := e.extractPrice(doc, cfg); ok {
		result.Price = p
	}

	e.cache.Put(url, result, now)

	e.logger.Info("check complete", "url", url, "available", result.Available, "price", result.Price)
	return result, nil
}

// extractAvailability walks the availability cascade: configured
// selectors in priority order, then the whole visible page text, then
// the optimistic default. A selector whose element yields no verdict
// does not short-circuit the scan; the next selector is tried.
func (e *Engine) extractAvailability(doc *goquery.Document, cfg siteconfig.SiteConfig, url string) bool {
	for _, selector := range cfg.AvailabilitySelectors {
		selection := doc.Find(selector)
		if selection.Length() == 0 {
			continue
		}

		text := Normalize(selection.First().Text())
		e.logger.Debug("found availability text", "url", url, "selector", selector, "text", text)

		if verdict, ok := matchIndicators(text, cfg); ok {
			return verdict
		}
	}

	if verdict, ok := matchIndicators(Normalize(visibleText(doc)), cfg); ok {
		return verdict
	}

	// Inconclusive pages are treated optimistically: there is no
	// tri-state availability downstream.
	e.logger.Info("no availability indicators found, defaulting to available", "url", url)
	return true
}

// matchIndicators tests normalized text against both indicator lists.
// Out-of-stock phrases are evaluated second and win when both lists
// match the same text.
func matchIndicators(text string, cfg siteconfig.SiteConfig) (verdict, ok bool) {
	for _, indicator := range cfg.InStockTexts {
		if strings.Contains(text, Normalize(indicator)) {
			verdict, ok = true, true
			break
		}
	}

	for _, indicator := range cfg.OutOfStockTexts {
		if strings.Contains(text, Normalize(indicator)) {
			verdict, ok = false, true
			break
		}
	}

	return verdict, ok
}

// extractPrice walks the price cascade: configured selectors first,
// then any currency-adjacent fragment in the page text. An absent
// price is a valid outcome, not an error.
func (e *Engine) extractPrice(doc *goquery.Document, cfg siteconfig.SiteConfig) (string, bool) {
	for _, selector := range cfg.PriceSelectors {
		selection := doc.Find(selector)
		if selection.Length() == 0 {
			continue
		}

		if p, ok := price.Extract(strings.TrimSpace(selection.First().Text())); ok {
			return p, true
		}
	}

	if fragment := currencyFragment.FindString(visibleText(doc)); fragment != "" {
		if p, ok := price.Extract(fragment); ok {
			return p, true
		}
	}

	return "", false
}

// visibleText returns the page's text content with script, style and
// noscript contents stripped out.
func visibleText(doc *goquery.Document) string {
	body := doc.Find("body")
	if body.Length() == 0 {
		return doc.Text()
	}

	clone := body.Clone()
	clone.Find("script, style, noscript").Remove()
	return clone.Text()
}
