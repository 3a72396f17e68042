package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/restockd/restockd/internal/models"
)

const schema = `
	CREATE TABLE IF NOT EXISTS products (
		url          TEXT PRIMARY KEY,
		available    BOOLEAN,
		price        TEXT NOT NULL DEFAULT '',
		last_checked TIMESTAMPTZ,
		created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`

// PostgresStore persists products in a Postgres table, one row per
// monitored URL. List orders by created_at so batch reports follow the
// order products were added.
type PostgresStore struct {
	pool *pgxpool.Pool
}

type PostgresConfig struct {
	DatabaseURL string
	MaxConns    int32
}

func NewPostgresStore(ctx context.Context, cfg PostgresConfig) (*PostgresStore, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database url: %w", err)
	}

	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ensure schema: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() {
	s.pool.Close()
}

func (s *PostgresStore) Add(ctx context.Context, p *models.Product) error {
	query := `
		INSERT INTO products (url, available, price, last_checked)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (url) DO NOTHING`

	tag, err := s.pool.Exec(ctx, query, p.URL, p.Available, p.Price, p.LastChecked)
	if err != nil {
		return fmt.Errorf("failed to insert product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrExists
	}

	return nil
}

func (s *PostgresStore) Get(ctx context.Context, url string) (*models.Product, error) {
	query := `
		SELECT url, available, price, last_checked
		FROM products
		WHERE url = $1`

	p, err := scanProduct(s.pool.QueryRow(ctx, query, url))
	if err == pgx.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	return p, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]*models.Product, error) {
	query := `
		SELECT url, available, price, last_checked
		FROM products
		ORDER BY created_at ASC`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}

	return products, rows.Err()
}

func (s *PostgresStore) Update(ctx context.Context, p *models.Product) error {
	query := `
		UPDATE products SET
			available = $2,
			price = $3,
			last_checked = $4,
			updated_at = NOW()
		WHERE url = $1`

	tag, err := s.pool.Exec(ctx, query, p.URL, p.Available, p.Price, p.LastChecked)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (s *PostgresStore) Remove(ctx context.Context, url string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM products WHERE url = $1`, url)
	if err != nil {
		return fmt.Errorf("failed to remove product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func scanProduct(row pgx.Row) (*models.Product, error) {
	p := &models.Product{}
	var lastChecked *time.Time

	if err := row.Scan(&p.URL, &p.Available, &p.Price, &lastChecked); err != nil {
		return nil, err
	}

	p.LastChecked = lastChecked
	return p, nil
}
