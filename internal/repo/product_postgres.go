package repo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rogerio-castellano/inventory-cli/internal/models"
)

type PostgresProductRepository struct {
	db *sql.DB
}

func NewPostgresProductRepository(db *sql.DB) *PostgresProductRepository {
	return &PostgresProductRepository{db: db}
}

func (r *PostgresProductRepository) Insert(ctx context.Context, p models.Product) (models.Product, bool, error) {
	query := `INSERT INTO products (name, quantity, price, updated_at) VALUES ($1, $2, $3, $4)
		ON CONFLICT (name) DO NOTHING RETURNING id`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	err := r.db.QueryRowContext(ctx, query, p.Name, p.Quantity, p.Price, p.UpdatedAt).Scan(&p.ID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Product{}, false, nil
	}
	if err != nil {
		return models.Product{}, false, err
	}
	return p, true, nil
}

func (r *PostgresProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
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
		var p models.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Quantity, &p.Price, &p.UpdatedAt); err != nil {
			return nil, err
		}
		products = append(products, normalizeDate(p))
	}
	return products, rows.Err()
}

func (r *PostgresProductRepository) GetByID(ctx context.Context, id int) (models.Product, error) {
	query := `SELECT id, name, quantity, price, updated_at FROM products WHERE id = $1`
	return r.getOne(ctx, query, id)
}

func (r *PostgresProductRepository) GetByName(ctx context.Context, name string) (models.Product, error) {
	query := `SELECT id, name, quantity, price, updated_at FROM products WHERE name = $1`
	return r.getOne(ctx, query, name)
}

func (r *PostgresProductRepository) Update(ctx context.Context, p models.Product) (models.Product, error) {
	query := `UPDATE products SET quantity = $1, price = $2, updated_at = $3 WHERE id = $4
		RETURNING id, name, quantity, price, updated_at`
	return r.getOne(ctx, query, p.Quantity, p.Price, p.UpdatedAt, p.ID)
}

func (r *PostgresProductRepository) getOne(ctx context.Context, query string, args ...any) (models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var p models.Product
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&p.ID, &p.Name, &p.Quantity, &p.Price, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Product{}, ErrProductNotFound
	}
	if err != nil {
		return models.Product{}, err
	}
	return normalizeDate(p), nil
}
