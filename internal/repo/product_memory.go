package repo

import (
	"context"

	"github.com/rogerio-castellano/inventory-cli/internal/models"
)

// InMemoryProductRepository is an in-memory implementation of ProductRepository.
type InMemoryProductRepository struct {
	products []models.Product
	nextID   int
}

// NewInMemoryProductRepository creates a new instance of InMemoryProductRepository.
func NewInMemoryProductRepository() *InMemoryProductRepository {
	return &InMemoryProductRepository{
		products: []models.Product{},
		nextID:   1,
	}
}

// Insert adds a new product unless one with the same name already exists.
func (r *InMemoryProductRepository) Insert(_ context.Context, product models.Product) (models.Product, bool, error) {
	if _, ok := r.indexOfName(product.Name); ok {
		return models.Product{}, false, nil
	}
	product.ID = r.nextID
	r.nextID++
	r.products = append(r.products, product)
	return product, true, nil
}

// GetAll retrieves all products in insertion order.
func (r *InMemoryProductRepository) GetAll(_ context.Context) ([]models.Product, error) {
	out := make([]models.Product, len(r.products))
	copy(out, r.products)
	return out, nil
}

// GetByID retrieves a product by its ID.
func (r *InMemoryProductRepository) GetByID(_ context.Context, id int) (models.Product, error) {
	for _, p := range r.products {
		if p.ID == id {
			return p, nil
		}
	}
	return models.Product{}, ErrProductNotFound
}

func (r *InMemoryProductRepository) GetByName(_ context.Context, name string) (models.Product, error) {
	if i, ok := r.indexOfName(name); ok {
		return r.products[i], nil
	}
	return models.Product{}, ErrProductNotFound
}

// Update overwrites quantity, price and update date of an existing product.
func (r *InMemoryProductRepository) Update(_ context.Context, product models.Product) (models.Product, error) {
	for i, p := range r.products {
		if p.ID == product.ID {
			p.Quantity = product.Quantity
			p.Price = product.Price
			p.UpdatedAt = product.UpdatedAt
			r.products[i] = p
			return p, nil
		}
	}
	return models.Product{}, ErrProductNotFound
}

// Clear drops every product and restarts ids at 1. Tests use it to reset state.
func (r *InMemoryProductRepository) Clear() {
	r.products = []models.Product{}
	r.nextID = 1
}

func (r *InMemoryProductRepository) indexOfName(name string) (int, bool) {
	for i, p := range r.products {
		if p.Name == name {
			return i, true
		}
	}
	return 0, false
}
