package services

import (
	"context"
	"errors"

	"catalog/internal/metrics"
	"catalog/internal/models"
	"catalog/internal/repositories"

	"github.com/sirupsen/logrus"
)

// Product event names published after successful writes.
const (
	EventProductCreated = "product.created"
	EventProductUpdated = "product.updated"
	EventProductDeleted = "product.deleted"
)

// EventPublisher receives product change notifications.
type EventPublisher interface {
	PublishProductEvent(ctx context.Context, event string, product map[string]any) error
}

// ProductFilter selects which finder ListProducts uses. The first non-empty
// field wins, in the order Name, Category, Available, Price.
type ProductFilter struct {
	Name      string
	Category  *models.Category
	Available *bool
	Price     string
}

// ProductService handles business logic related to products.
type ProductService struct {
	repo      repositories.ProductRepository
	publisher EventPublisher
	metrics   *metrics.Metrics
	log       *logrus.Logger
}

// NewProductService creates a new ProductService. publisher and m may be nil.
func NewProductService(repo repositories.ProductRepository, publisher EventPublisher, m *metrics.Metrics, log *logrus.Logger) *ProductService {
	return &ProductService{
		repo:      repo,
		publisher: publisher,
		metrics:   m,
		log:       log,
	}
}

// ListProducts returns the products matching filter, or all of them.
func (s *ProductService) ListProducts(ctx context.Context, filter ProductFilter) ([]models.Product, error) {
	var (
		query repositories.ProductQuery
		err   error
	)
	switch {
	case filter.Name != "":
		query = s.repo.FindByName(filter.Name)
	case filter.Category != nil:
		query = s.repo.FindByCategory(*filter.Category)
	case filter.Available != nil:
		query = s.repo.FindByAvailability(*filter.Available)
	case filter.Price != "":
		query, err = s.repo.FindByPrice(filter.Price)
		if err != nil {
			s.observe("list", err)
			return nil, err
		}
	default:
		products, err := s.repo.All(ctx)
		s.observe("list", err)
		return products, err
	}

	products, err := query.All(ctx)
	s.observe("list", err)
	return products, err
}

// GetProduct returns a single product or repositories.ErrProductNotFound.
func (s *ProductService) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	product, err := s.repo.Find(ctx, id)
	s.observe("get", err)
	return product, err
}

// CreateProduct deserializes data into a new product and stores it.
func (s *ProductService) CreateProduct(ctx context.Context, data any) (*models.Product, error) {
	product, err := (&models.Product{}).Deserialize(data)
	if err == nil {
		err = s.repo.Create(ctx, product)
	}
	s.observe("create", err)
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"product_id": product.ID, "name": product.Name}).Info("product created")
	s.publish(ctx, EventProductCreated, product)
	return product, nil
}

// UpdateProduct replaces every field of product id with the values in data.
func (s *ProductService) UpdateProduct(ctx context.Context, id uint, data any) (*models.Product, error) {
	product, err := s.repo.Find(ctx, id)
	if err == nil {
		_, err = product.Deserialize(data)
	}
	if err == nil {
		err = s.repo.Update(ctx, product)
	}
	s.observe("update", err)
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"product_id": product.ID, "name": product.Name}).Info("product updated")
	s.publish(ctx, EventProductUpdated, product)
	return product, nil
}

// DeleteProduct removes product id. A missing product is not an error.
func (s *ProductService) DeleteProduct(ctx context.Context, id uint) error {
	product, err := s.repo.Find(ctx, id)
	if errors.Is(err, repositories.ErrProductNotFound) {
		s.observe("delete", nil)
		return nil
	}
	if err == nil {
		err = s.repo.Delete(ctx, product)
	}
	s.observe("delete", err)
	if err != nil {
		return err
	}

	s.log.WithField("product_id", id).Info("product deleted")
	s.publish(ctx, EventProductDeleted, product)
	return nil
}

func (s *ProductService) publish(ctx context.Context, event string, product *models.Product) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishProductEvent(ctx, event, product.Serialize()); err != nil {
		// The write already succeeded; a lost notification is only logged.
		s.log.WithError(err).WithFields(logrus.Fields{
			"event":      event,
			"product_id": product.ID,
		}).Warn("failed to publish product event")
	}
}

func (s *ProductService) observe(operation string, err error) {
	switch {
	case err == nil, errors.Is(err, repositories.ErrProductNotFound):
		s.metrics.Observe(operation, metrics.OutcomeSuccess)
	case models.IsDataValidation(err):
		s.metrics.Observe(operation, metrics.OutcomeInvalid)
	default:
		s.metrics.Observe(operation, metrics.OutcomeError)
	}
}
