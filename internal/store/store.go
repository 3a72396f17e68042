package store

import (
	"context"
	"errors"

	"github.com/restockd/restockd/internal/models"
)

var (
	ErrNotFound = errors.New("product not found")
	ErrExists   = errors.New("product already monitored")
)

// Store persists the monitored product set. List returns products in
// the order they were added, which is also the order batch reports
// follow.
type Store interface {
	Add(ctx context.Context, p *models.Product) error
	Get(ctx context.Context, url string) (*models.Product, error)
	List(ctx context.Context) ([]*models.Product, error)
	Update(ctx context.Context, p *models.Product) error
	Remove(ctx context.Context, url string) error
}
