package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rogerio-castellano/inventory-cli/internal/models"
)

// sqliteDateLayout is how update dates are stored in the TEXT column.
const sqliteDateLayout = time.DateOnly

// SQLiteProductRepository stores products in a SQLite database file.
type SQLiteProductRepository struct {
	db *sql.DB
}

func NewSQLiteProductRepository(db *sql.DB) *SQLiteProductRepository {
	return &SQLiteProductRepository{db: db}
}

func (r *SQLiteProductRepository) Insert(ctx context.Context, p models.Product) (models.Product, bool, error) {
	query := `INSERT INTO products (name, quantity, price, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT (name) DO NOTHING RETURNING id`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	err := r.db.QueryRowContext(ctx, query, p.Name, p.Quantity, p.Price, p.UpdatedAt.Format(sqliteDateLayout)).Scan(&p.ID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Product{}, false, nil
	}
	if err != nil {
		return models.Product{}, false, err
	}
	return normalizeDate(p), true, nil
}

func (r *SQLiteProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	query := `SELECT id, name, quantity, price, updated_at FROM products ORDER BY id`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		p, err := scanSQLiteProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *SQLiteProductRepository) GetByID(ctx context.Context, id int) (models.Product, error) {
	query := `SELECT id, name, quantity, price, updated_at FROM products WHERE id = ?`
	return r.getOne(ctx, query, id)
}

func (r *SQLiteProductRepository) GetByName(ctx context.Context, name string) (models.Product, error) {
	query := `SELECT id, name, quantity, price, updated_at FROM products WHERE name = ?`
	return r.getOne(ctx, query, name)
}

func (r *SQLiteProductRepository) Update(ctx context.Context, p models.Product) (models.Product, error) {
	query := `UPDATE products SET quantity = ?, price = ?, updated_at = ? WHERE id = ?
		RETURNING id, name, quantity, price, updated_at`
	return r.getOne(ctx, query, p.Quantity, p.Price, p.UpdatedAt.Format(sqliteDateLayout), p.ID)
}

func (r *SQLiteProductRepository) getOne(ctx context.Context, query string, args ...any) (models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	p, err := scanSQLiteProduct(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Product{}, ErrProductNotFound
	}
	return p, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteProduct(row rowScanner) (models.Product, error) {
	var (
		p       models.Product
		updated string
	)
	if err := row.Scan(&p.ID, &p.Name, &p.Quantity, &p.Price, &updated); err != nil {
		return models.Product{}, err
	}
	d, err := time.Parse(sqliteDateLayout, updated)
	if err != nil {
		return models.Product{}, fmt.Errorf("product %d has invalid updated_at %q: %w", p.ID, updated, err)
	}
	p.UpdatedAt = d
	return p, nil
}

func normalizeDate(p models.Product) models.Product {
	y, m, d := p.UpdatedAt.Date()
	p.UpdatedAt = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return p
}
