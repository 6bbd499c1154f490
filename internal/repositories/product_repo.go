package repositories

import (
	"context"

	"mercearia/internal/models"
)

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id int64) (*models.Product, error)
	List(ctx context.Context, skip, limit int) ([]models.Product, error)
	Update(ctx context.Context, id int64, changes models.ProductChanges) (*models.Product, error)
	Delete(ctx context.Context, id int64) (bool, error)
	SearchByName(ctx context.Context, name string) ([]models.Product, error)
}

const productResource = "produto"
