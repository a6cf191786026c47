package repositories

import (
	"context"
	"errors"
	"fmt"

	"catalog/internal/models"

	"gorm.io/gorm"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// Create inserts the product and back-fills its ID.
func (r *GORMProductRepository) Create(ctx context.Context, product *models.Product) error {
	if product.Persisted() {
		return &models.DataValidationError{
			Message: fmt.Sprintf("Create called on %s which already has an id", product),
		}
	}
	if err := product.Validate(); err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update overwrites every column of the row matching product.ID.
func (r *GORMProductRepository) Update(ctx context.Context, product *models.Product) error {
	if !product.Persisted() {
		return &models.DataValidationError{Message: "Update called with empty ID field"}
	}
	if err := product.Validate(); err != nil {
		return err
	}
	// Select("*") writes every column, zero values included. Save is avoided
	// because it falls back to an insert when the row is gone.
	res := r.db.WithContext(ctx).Model(product).Select("*").Updates(product)
	if res.Error != nil {
		return fmt.Errorf("failed to update product %d: %w", product.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product %d not found for update: %w", product.ID, ErrProductNotFound)
	}
	return nil
}

// Delete removes the row matching product.ID. Deleting a row that is
// already gone is not an error.
func (r *GORMProductRepository) Delete(ctx context.Context, product *models.Product) error {
	if !product.Persisted() {
		return &models.DataValidationError{Message: "Delete called with empty ID field"}
	}
	if err := r.db.WithContext(ctx).Delete(&models.Product{}, product.ID).Error; err != nil {
		return fmt.Errorf("failed to delete product %d: %w", product.ID, err)
	}
	return nil
}

// All returns every product ordered by ID.
func (r *GORMProductRepository) All(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := r.db.WithContext(ctx).Order("id").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to get all products: %w", err)
	}
	return products, nil
}

// Find returns the product with the given id, or ErrProductNotFound.
func (r *GORMProductRepository) Find(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product by ID %d: %w", id, err)
	}
	return &product, nil
}

// FindByName matches the name exactly, case included.
func (r *GORMProductRepository) FindByName(name string) ProductQuery {
	return r.where("name = ?", name)
}

func (r *GORMProductRepository) FindByAvailability(available bool) ProductQuery {
	return r.where("available = ?", available)
}

func (r *GORMProductRepository) FindByCategory(category models.Category) ProductQuery {
	return r.where("category = ?", category)
}

// FindByPrice accepts a decimal, a number or a numeric string (optionally
// quoted) and matches it with decimal equality.
func (r *GORMProductRepository) FindByPrice(price any) (ProductQuery, error) {
	value, err := models.ParsePrice(price)
	if err != nil {
		return nil, err
	}
	return r.where("price = ?", value), nil
}

func (r *GORMProductRepository) where(query string, args ...any) *gormProductQuery {
	// A new session makes the chain safe to reuse across Count, All and Each.
	return &gormProductQuery{
		db: r.db.Model(&models.Product{}).Where(query, args...).Session(&gorm.Session{}),
	}
}

type gormProductQuery struct {
	db *gorm.DB
}

func (q *gormProductQuery) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := q.db.WithContext(ctx).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return n, nil
}

func (q *gormProductQuery) All(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := q.db.WithContext(ctx).Order("id").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	return products, nil
}

func (q *gormProductQuery) Each(ctx context.Context, fn func(*models.Product) error) error {
	db := q.db.WithContext(ctx).Order("id")
	rows, err := db.Rows()
	if err != nil {
		return fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var product models.Product
		if err := db.ScanRows(rows, &product); err != nil {
			return fmt.Errorf("failed to scan product: %w", err)
		}
		if err := fn(&product); err != nil {
			return err
		}
	}
	return rows.Err()
}
