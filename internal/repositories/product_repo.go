package repositories

import (
	"context"
	"errors"

	"catalog/internal/models"
)

// ErrProductNotFound is returned when no row has the requested id.
var ErrProductNotFound = errors.New("product not found")

// ProductRepository defines the persistence operations for products.
type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, product *models.Product) error
	All(ctx context.Context) ([]models.Product, error)
	Find(ctx context.Context, id uint) (*models.Product, error)
	FindByName(name string) ProductQuery
	FindByAvailability(available bool) ProductQuery
	FindByCategory(category models.Category) ProductQuery
	FindByPrice(price any) (ProductQuery, error)
}

// ProductQuery is a filtered product query that runs only when one of its
// methods is called. It can be evaluated any number of times.
type ProductQuery interface {
	Count(ctx context.Context) (int64, error)
	All(ctx context.Context) ([]models.Product, error)
	// Each streams matching rows to fn without loading the whole result.
	// Iteration stops at the first error returned by fn.
	Each(ctx context.Context, fn func(*models.Product) error) error
}
