package services

import (
	"context"
	"log/slog"
	"time"

	"mercearia/internal/models"
	"mercearia/internal/repositories"
	"mercearia/internal/validation"
)

// EventPublisher receives product events after a mutation has been committed.
type EventPublisher interface {
	PublishProductEvent(ctx context.Context, event models.ProductEvent) error
}

// ProductService handles business logic related to products.
type ProductService struct {
	repo      repositories.ProductRepository
	validator *validation.Validator
	events    EventPublisher
	logger    *slog.Logger
	now       func() time.Time
}

// Option configures a ProductService.
type Option func(*ProductService)

// WithEventPublisher publishes product events to p. A nil p disables events.
func WithEventPublisher(p EventPublisher) Option {
	return func(s *ProductService) {
		s.events = p
	}
}

// WithLogger sets the logger used for warnings.
func WithLogger(l *slog.Logger) Option {
	return func(s *ProductService) {
		s.logger = l
	}
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository, opts ...Option) *ProductService {
	s := &ProductService{
		repo:      repo,
		validator: validation.New(),
		logger:    slog.Default(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateProduct validates req and stores a new product.
func (s *ProductService) CreateProduct(ctx context.Context, req models.CreateProductRequest) (*models.ProductResponse, error) {
	if err := s.validator.ValidateCreate(&req); err != nil {
		return nil, err
	}

	// Business rules such as duplicate names or a minimum price go here.

	product := &models.Product{
		Name:          req.Name,
		SalePrice:     *req.SalePrice,
		StockQuantity: *req.StockQuantity,
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, err
	}

	resp := models.NewProductResponse(product)
	s.publish(ctx, models.ProductCreated, product.ID, resp)
	return resp, nil
}

// ListProducts returns a page of products ordered by id.
func (s *ProductService) ListProducts(ctx context.Context, skip, limit int) ([]*models.ProductResponse, error) {
	products, err := s.repo.List(ctx, skip, limit)
	if err != nil {
		return nil, err
	}
	return models.NewProductResponseList(products), nil
}

// GetProduct retrieves a single product by its ID.
func (s *ProductService) GetProduct(ctx context.Context, id int64) (*models.ProductResponse, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return models.NewProductResponse(product), nil
}

// UpdateProduct validates req and applies the fields it carries.
func (s *ProductService) UpdateProduct(ctx context.Context, id int64, req models.UpdateProductRequest) (*models.ProductResponse, error) {
	if err := s.validator.ValidateUpdate(&req); err != nil {
		return nil, err
	}

	product, err := s.repo.Update(ctx, id, req.Changes())
	if err != nil {
		return nil, err
	}

	resp := models.NewProductResponse(product)
	s.publish(ctx, models.ProductUpdated, id, resp)
	return resp, nil
}

// DeleteProduct removes a product and confirms the deletion.
func (s *ProductService) DeleteProduct(ctx context.Context, id int64) (*models.DeleteProductResponse, error) {
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, models.ProductDeleted, id, nil)
	return &models.DeleteProductResponse{
		Message: "product deleted successfully",
		ID:      id,
		Success: ok,
	}, nil
}

// SearchProducts returns products whose name contains name, ignoring case.
func (s *ProductService) SearchProducts(ctx context.Context, name string) ([]*models.ProductResponse, error) {
	products, err := s.repo.SearchByName(ctx, name)
	if err != nil {
		return nil, err
	}
	return models.NewProductResponseList(products), nil
}

// publish is best effort: the mutation is already committed.
func (s *ProductService) publish(ctx context.Context, eventType string, id int64, product *models.ProductResponse) {
	if s.events == nil {
		return
	}
	event := models.ProductEvent{
		Type:       eventType,
		ProductID:  id,
		Product:    product,
		OccurredAt: s.now().UTC(),
	}
	if err := s.events.PublishProductEvent(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to publish product event",
			slog.String("type", eventType),
			slog.Int64("produto_id", id),
			slog.String("error", err.Error()),
		)
	}
}
