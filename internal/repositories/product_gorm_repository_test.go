package repositories_test

import (
	"context"
	"errors"
	"testing"

	"mercearia/internal/apperrors"
	"mercearia/internal/database"
	"mercearia/internal/models"
	"mercearia/internal/repositories"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.OpenMemorySQLite()
	require.NoError(t, err)
	t.Cleanup(func() { database.Close(db) })
	return db
}

func newProduct(name, price string, stock int) *models.Product {
	return &models.Product{Name: name, SalePrice: decimal.RequireFromString(price), StockQuantity: stock}
}

func countProducts(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&models.Product{}).Count(&n).Error)
	return n
}

func TestGORMProductRepository_CreateAssignsIDAndTimestamp(t *testing.T) {
	repo := repositories.NewGORMProductRepository(setupDB(t))
	ctx := context.Background()

	first := newProduct("Arroz 5kg", "22.90", 50)
	second := newProduct("Feijão Carioca 1kg", "8.50", 30)
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	assert.NotZero(t, first.ID)
	assert.NotEqual(t, first.ID, second.ID)
	assert.False(t, first.CreatedAt.IsZero())
	assert.True(t, first.SalePrice.Equal(decimal.RequireFromString("22.9")))
}

func TestGORMProductRepository_CreateIgnoresCallerIDAndTimestamp(t *testing.T) {
	repo := repositories.NewGORMProductRepository(setupDB(t))
	ctx := context.Background()

	existing := newProduct("Açúcar", "4.99", 10)
	require.NoError(t, repo.Create(ctx, existing))

	p := newProduct("Sal", "2.00", 5)
	p.ID = existing.ID
	require.NoError(t, repo.Create(ctx, p))
	assert.NotEqual(t, existing.ID, p.ID)
}

func TestGORMProductRepository_GetByIDRoundTrip(t *testing.T) {
	repo := repositories.NewGORMProductRepository(setupDB(t))
	ctx := context.Background()

	created := newProduct("Café 500g", "15.75", 12)
	require.NoError(t, repo.Create(ctx, created))

	fetched, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.NewProductResponse(created), models.NewProductResponse(fetched))
}

func TestGORMProductRepository_NotFound(t *testing.T) {
	db := setupDB(t)
	repo := repositories.NewGORMProductRepository(db)
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, newProduct("Leite", "5.49", 40)))

	_, err := repo.GetByID(ctx, 999)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = repo.Update(ctx, 999, models.ProductChanges{StockQuantity: models.Some(1)})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	ok, err := repo.Delete(ctx, 999)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.False(t, ok)

	assert.Equal(t, int64(1), countProducts(t, db))
}

func TestGORMProductRepository_ListPaginatesByID(t *testing.T) {
	repo := repositories.NewGORMProductRepository(setupDB(t))
	ctx := context.Background()

	var ids []int64
	for _, name := range []string{"A", "B", "C", "D", "E"} {
		p := newProduct(name, "1.00", 1)
		require.NoError(t, repo.Create(ctx, p))
		ids = append(ids, p.ID)
	}

	page, err := repo.List(ctx, 0, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, ids[0], page[0].ID)
	assert.Equal(t, ids[1], page[1].ID)

	page, err = repo.List(ctx, 3, 100)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, ids[3], page[0].ID)

	page, err = repo.List(ctx, 10, 100)
	require.NoError(t, err)
	assert.Empty(t, page)
}

func TestGORMProductRepository_PartialUpdate(t *testing.T) {
	repo := repositories.NewGORMProductRepository(setupDB(t))
	ctx := context.Background()

	p := newProduct("Óleo de soja", "7.99", 30)
	require.NoError(t, repo.Create(ctx, p))

	updated, err := repo.Update(ctx, p.ID, models.ProductChanges{SalePrice: models.Some(decimal.RequireFromString("8.49"))})
	require.NoError(t, err)
	assert.Equal(t, 30, updated.StockQuantity)
	assert.Equal(t, "Óleo de soja", updated.Name)
	assert.Equal(t, "8.49", updated.SalePrice.StringFixed(2))
	assert.Equal(t, p.CreatedAt, updated.CreatedAt)

	// zero is written when present
	updated, err = repo.Update(ctx, p.ID, models.ProductChanges{StockQuantity: models.Some(0)})
	require.NoError(t, err)
	assert.Equal(t, 0, updated.StockQuantity)

	unchanged, err := repo.Update(ctx, p.ID, models.ProductChanges{})
	require.NoError(t, err)
	assert.Equal(t, updated.SalePrice.String(), unchanged.SalePrice.String())
}

func TestGORMProductRepository_Delete(t *testing.T) {
	db := setupDB(t)
	repo := repositories.NewGORMProductRepository(db)
	ctx := context.Background()

	p := newProduct("Macarrão", "3.29", 8)
	require.NoError(t, repo.Create(ctx, p))

	ok, err := repo.Delete(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Zero(t, countProducts(t, db))

	_, err = repo.GetByID(ctx, p.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestGORMProductRepository_SearchByName(t *testing.T) {
	repo := repositories.NewGORMProductRepository(setupDB(t))
	ctx := context.Background()

	for _, p := range []*models.Product{
		newProduct("Arroz 5kg", "22.90", 50),
		newProduct("Arroz Integral 1kg", "7.20", 10),
		newProduct("Feijão 1kg", "8.50", 30),
		newProduct("Desconto 100% natural", "1.00", 1),
	} {
		require.NoError(t, repo.Create(ctx, p))
	}

	found, err := repo.SearchByName(ctx, "arroz")
	require.NoError(t, err)
	assert.Len(t, found, 2)

	found, err = repo.SearchByName(ctx, "INTEGRAL")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Arroz Integral 1kg", found[0].Name)

	// wildcards in the term are literal
	found, err = repo.SearchByName(ctx, "%")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Desconto 100% natural", found[0].Name)

	found, err = repo.SearchByName(ctx, "chocolate")
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestGORMProductRepository_RollsBackFailedMutations(t *testing.T) {
	db := setupDB(t)
	repo := repositories.NewGORMProductRepository(db)
	ctx := context.Background()

	kept := newProduct("Farinha", "6.00", 20)
	require.NoError(t, repo.Create(ctx, kept))

	boom := errors.New("disk full")
	fail := func(tx *gorm.DB) {
		if tx.Statement.Table == "produto" {
			tx.AddError(boom)
		}
	}

	t.Run("create", func(t *testing.T) {
		require.NoError(t, db.Callback().Create().After("gorm:create").Register("test:fail_create", fail))
		defer db.Callback().Create().Remove("test:fail_create")

		err := repo.Create(ctx, newProduct("Fubá", "3.00", 1))
		assert.ErrorIs(t, err, boom)
		assert.True(t, apperrors.IsStoreError(err))
		assert.Equal(t, int64(1), countProducts(t, db))
	})

	t.Run("update", func(t *testing.T) {
		require.NoError(t, db.Callback().Update().After("gorm:update").Register("test:fail_update", fail))
		defer db.Callback().Update().Remove("test:fail_update")

		_, err := repo.Update(ctx, kept.ID, models.ProductChanges{StockQuantity: models.Some(99)})
		assert.ErrorIs(t, err, boom)
		assert.True(t, apperrors.IsStoreError(err))

		stored, err := repo.GetByID(ctx, kept.ID)
		require.NoError(t, err)
		assert.Equal(t, 20, stored.StockQuantity)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, db.Callback().Delete().After("gorm:delete").Register("test:fail_delete", fail))
		defer db.Callback().Delete().Remove("test:fail_delete")

		ok, err := repo.Delete(ctx, kept.ID)
		assert.ErrorIs(t, err, boom)
		assert.False(t, ok)
		assert.Equal(t, int64(1), countProducts(t, db))
	})
}
