package repositories

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"mercearia/internal/apperrors"
	"mercearia/internal/models"
)

// MemoryProductRepository is an in-memory implementation of ProductRepository.
type MemoryProductRepository struct {
	products map[int64]models.Product
	nextID   int64
	now      func() time.Time
	mu       sync.RWMutex
}

// NewMemoryProductRepository creates a new instance of MemoryProductRepository.
func NewMemoryProductRepository() *MemoryProductRepository {
	return &MemoryProductRepository{
		products: make(map[int64]models.Product),
		now:      time.Now,
	}
}

// Create adds a new product with the next sequential id.
func (r *MemoryProductRepository) Create(_ context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	product.ID = r.nextID
	product.CreatedAt = r.now().UTC()
	r.products[product.ID] = *product
	return nil
}

// GetByID returns a product by its ID.
func (r *MemoryProductRepository) GetByID(_ context.Context, id int64) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, apperrors.NotFound(productResource, id)
	}
	return &product, nil
}

// List returns products ordered by ascending id.
func (r *MemoryProductRepository) List(_ context.Context, skip, limit int) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := r.sorted()
	if skip >= len(all) {
		return []models.Product{}, nil
	}
	all = all[skip:]
	if limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

// Update modifies the present fields of an existing product.
func (r *MemoryProductRepository) Update(_ context.Context, id int64, changes models.ProductChanges) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[id]
	if !ok {
		return nil, apperrors.NotFound(productResource, id)
	}
	changes.Apply(&product)
	r.products[id] = product
	return &product, nil
}

// Delete removes a product by its ID.
func (r *MemoryProductRepository) Delete(_ context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return false, apperrors.NotFound(productResource, id)
	}
	delete(r.products, id)
	return true, nil
}

// SearchByName returns products whose name contains name, ignoring case.
func (r *MemoryProductRepository) SearchByName(_ context.Context, name string) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	term := strings.ToLower(name)
	matches := []models.Product{}
	for _, p := range r.sorted() {
		if strings.Contains(strings.ToLower(p.Name), term) {
			matches = append(matches, p)
		}
	}
	return matches, nil
}

func (r *MemoryProductRepository) sorted() []models.Product {
	list := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		list = append(list, p)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}
