package repo

import (
	"context"
	"errors"
	"time"

	"github.com/rogerio-castellano/inventory-cli/internal/models"
)

// queryTimeout bounds every single repository call.
const queryTimeout = 3 * time.Second

// ProductRepository defines the interface for product data operations.
//
// Insert never treats a duplicate name as an error: it returns inserted=false
// and leaves the stored record untouched so the caller can reconcile.
type ProductRepository interface {
	Insert(ctx context.Context, product models.Product) (stored models.Product, inserted bool, err error)
	GetAll(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id int) (models.Product, error)
	GetByName(ctx context.Context, name string) (models.Product, error)
	Update(ctx context.Context, product models.Product) (models.Product, error)
}

// ErrProductNotFound is returned when a product is not found in the repository.
var ErrProductNotFound = errors.New("product not found")
