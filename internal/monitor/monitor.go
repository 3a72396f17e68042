package monitor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/restockd/restockd/internal/detect"
	"github.com/restockd/restockd/internal/models"
	"github.com/restockd/restockd/internal/notify"
	"github.com/restockd/restockd/internal/store"
)

// Checker runs one availability/price check against a product URL.
type Checker interface {
	Check(ctx context.Context, url string) (*models.CheckResult, error)
}

// Report is the per-product outcome of a batch check. Err is set when
// the product could not be checked this round; its stored record is
// left untouched in that case.
type Report struct {
	URL     string
	Result  *models.CheckResult
	Outcome detect.Outcome
	Err     error
}

// Monitor owns the monitored product set: it adds and removes products
// and runs batch checks over all of them.
type Monitor struct {
	store    store.Store
	checker  Checker
	notifier notify.Notifier
	logger   *slog.Logger

	concurrentLimit int
	pacingDelay     time.Duration
}

type Options struct {
	// ConcurrentLimit caps how many checks run at once. Values below 1
	// are treated as 1.
	ConcurrentLimit int
	// PacingDelay is an optional delay between task launches.
	PacingDelay time.Duration
}

func New(s store.Store, checker Checker, notifier notify.Notifier, logger *slog.Logger, opts Options) *Monitor {
	if opts.ConcurrentLimit < 1 {
		opts.ConcurrentLimit = 1
	}
	return &Monitor{
		store:           s,
		checker:         checker,
		notifier:        notifier,
		logger:          logger.With("component", "monitor"),
		concurrentLimit: opts.ConcurrentLimit,
		pacingDelay:     opts.PacingDelay,
	}
}

// Add starts monitoring a URL. The initial check must succeed before
// the record is created, so the list never contains a URL that was
// unreachable when added.
func (m *Monitor) Add(ctx context.Context, url string) (*models.Product, error) {
	p := models.NewProduct(url)
	if err := p.Validate(); err != nil {
		return nil, err
	}

	if _, err := m.store.Get(ctx, url); err == nil {
		return nil, store.ErrExists
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	result, err := m.checker.Check(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("initial check failed: %w", err)
	}

	p.Apply(result)
	if err := m.store.Add(ctx, p); err != nil {
		return nil, err
	}

	m.logger.Info("product added", "url", url, "available", result.Available, "price", result.Price)
	return p, nil
}

// Remove stops monitoring a URL.
func (m *Monitor) Remove(ctx context.Context, url string) error {
	if err := m.store.Remove(ctx, url); err != nil {
		return err
	}
	m.logger.Info("product removed", "url", url)
	return nil
}

// List returns the monitored products in the order they were added.
func (m *Monitor) List(ctx context.Context) ([]*models.Product, error) {
	return m.store.List(ctx)
}

// CheckAll checks every monitored product, classifies each result
// against its stored record, persists updates and publishes
// notification-worthy outcomes. Checks run concurrently up to the
// configured limit; a failure in one check never cancels the others.
// Reports, stored updates and published outcomes all follow the input
// product order, not completion order.
func (m *Monitor) CheckAll(ctx context.Context) ([]Report, error) {
	products, err := m.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}

	if len(products) == 0 {
		return nil, nil
	}

	type slot struct {
		result *models.CheckResult
		err    error
	}
	slots := make([]slot, len(products))

	var wg sync.WaitGroup
	sem := make(chan struct{}, m.concurrentLimit)

	for i, p := range products {
		if m.pacingDelay > 0 && i > 0 {
			select {
			case <-ctx.Done():
			case <-time.After(m.pacingDelay):
			}
		}

		wg.Add(1)
		sem <- struct{}{}
		go func(i int, url string) {
			defer wg.Done()
			defer func() { <-sem }()
			result, err := m.checker.Check(ctx, url)
			slots[i] = slot{result: result, err: err}
		}(i, p.URL)
	}
	wg.Wait()

	reports := make([]Report, len(products))
	for i, p := range products {
		reports[i] = Report{URL: p.URL}

		if slots[i].err != nil {
			m.logger.Error("check failed", "url", p.URL, "error", slots[i].err)
			reports[i].Err = slots[i].err
			continue
		}

		result := slots[i].result
		outcome := detect.Classify(p, result)
		reports[i].Result = result
		reports[i].Outcome = outcome

		p.Apply(result)
		if err := m.store.Update(ctx, p); err != nil {
			m.logger.Error("failed to persist product", "url", p.URL, "error", err)
			reports[i].Err = err
			continue
		}

		if outcome.Kind != detect.Unchanged {
			if err := m.notifier.Publish(ctx, p.URL, outcome); err != nil {
				m.logger.Error("failed to publish outcome", "url", p.URL, "error", err)
			}
		}
	}

	m.logger.Info("batch check complete", "products", len(products))
	return reports, nil
}
