package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"mercearia/internal/apperrors"
	"mercearia/internal/models"

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

// Create inserts a new product and refreshes the store generated id and
// creation time into it.
func (r *GORMProductRepository) Create(ctx context.Context, product *models.Product) error {
	product.ID = 0
	return r.inTx(ctx, "create product", func(tx *gorm.DB) error {
		if err := tx.Omit("data_cadastro").Create(product).Error; err != nil {
			return err
		}
		return tx.First(product, product.ID).Error
	})
}

// GetByID retrieves a single product by its ID.
func (r *GORMProductRepository) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound(productResource, id)
		}
		return nil, apperrors.Store(fmt.Sprintf("get product by ID %d", id), err)
	}
	return &product, nil
}

// List returns products ordered by ascending id. The caller bounds limit.
func (r *GORMProductRepository) List(ctx context.Context, skip, limit int) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).
		Order("id ASC").
		Offset(skip).
		Limit(limit).
		Find(&products).Error
	if err != nil {
		return nil, apperrors.Store("list products", err)
	}
	return products, nil
}

// Update applies the present fields of changes to the product with the given id.
func (r *GORMProductRepository) Update(ctx context.Context, id int64, changes models.ProductChanges) (*models.Product, error) {
	var product models.Product
	err := r.inTx(ctx, fmt.Sprintf("update product %d", id), func(tx *gorm.DB) error {
		if err := tx.First(&product, id).Error; err != nil {
			return err
		}
		if changes.Empty() {
			return nil
		}
		if err := tx.Model(&product).Updates(changes.Columns()).Error; err != nil {
			return err
		}
		return tx.First(&product, id).Error
	})
	if err != nil {
		return nil, r.notFoundOr(err, id)
	}
	return &product, nil
}

// Delete removes the product with the given id.
func (r *GORMProductRepository) Delete(ctx context.Context, id int64) (bool, error) {
	err := r.inTx(ctx, fmt.Sprintf("delete product %d", id), func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.First(&product, id).Error; err != nil {
			return err
		}
		return tx.Delete(&product).Error
	})
	if err != nil {
		return false, r.notFoundOr(err, id)
	}
	return true, nil
}

// SearchByName returns products whose name contains name, ignoring case.
func (r *GORMProductRepository) SearchByName(ctx context.Context, name string) ([]models.Product, error) {
	var products []models.Product
	pattern := "%" + escapeLike(strings.ToLower(name)) + "%"
	err := r.db.WithContext(ctx).
		Where(`LOWER(nome) LIKE ? ESCAPE '\'`, pattern).
		Find(&products).Error
	if err != nil {
		return nil, apperrors.Store("search products by name", err)
	}
	return products, nil
}

// inTx runs fn in a transaction. Any error from fn rolls the transaction back;
// store failures are returned as apperrors.StoreError, a missing row keeps
// gorm.ErrRecordNotFound in the chain.
func (r *GORMProductRepository) inTx(ctx context.Context, op string, fn func(tx *gorm.DB) error) error {
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return apperrors.Store(op, tx.Error)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback().Error; rbErr != nil {
			err = errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return apperrors.Store(op, err)
	}

	if err := tx.Commit().Error; err != nil {
		return apperrors.Store(op, err)
	}
	return nil
}

func (r *GORMProductRepository) notFoundOr(err error, id int64) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.NotFound(productResource, id)
	}
	return err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
