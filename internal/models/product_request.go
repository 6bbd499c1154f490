package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest is the body of POST /produtos/.
type CreateProductRequest struct {
	Name          string           `json:"nome"`
	SalePrice     *decimal.Decimal `json:"preco_venda"`
	StockQuantity *int             `json:"qtd_estoque"`
}

// Normalize trims the surrounding whitespace of the name.
func (r *CreateProductRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
}

// UpdateProductRequest is the body of PUT /produtos/:id. Omitted fields are
// left untouched by the update.
type UpdateProductRequest struct {
	Name          Optional[string]          `json:"nome"`
	SalePrice     Optional[decimal.Decimal] `json:"preco_venda"`
	StockQuantity Optional[int]             `json:"qtd_estoque"`
}

// Normalize trims the surrounding whitespace of the name when present.
func (r *UpdateProductRequest) Normalize() {
	if r.Name.Present() {
		r.Name.Value = strings.TrimSpace(r.Name.Value)
	}
}

// Changes converts a validated request to the repository representation.
func (r UpdateProductRequest) Changes() ProductChanges {
	return ProductChanges{
		Name:          r.Name,
		SalePrice:     r.SalePrice,
		StockQuantity: r.StockQuantity,
	}
}

// ProductChanges holds the fields a partial update applies. Only the present
// ones are written.
type ProductChanges struct {
	Name          Optional[string]
	SalePrice     Optional[decimal.Decimal]
	StockQuantity Optional[int]
}

// Empty reports whether no field would change.
func (c ProductChanges) Empty() bool {
	return !c.Name.Present() && !c.SalePrice.Present() && !c.StockQuantity.Present()
}

// Apply copies the present fields onto p.
func (c ProductChanges) Apply(p *Product) {
	if c.Name.Present() {
		p.Name = c.Name.Value
	}
	if c.SalePrice.Present() {
		p.SalePrice = c.SalePrice.Value
	}
	if c.StockQuantity.Present() {
		p.StockQuantity = c.StockQuantity.Value
	}
}

// Columns returns the present fields keyed by column name.
func (c ProductChanges) Columns() map[string]interface{} {
	cols := make(map[string]interface{}, 3)
	if c.Name.Present() {
		cols["nome"] = c.Name.Value
	}
	if c.SalePrice.Present() {
		cols["preco_venda"] = c.SalePrice.Value
	}
	if c.StockQuantity.Present() {
		cols["qtd_estoque"] = c.StockQuantity.Value
	}
	return cols
}

// ProductResponse is the wire representation of a product. The price is a
// string so clients never see a binary float.
type ProductResponse struct {
	ID            int64     `json:"id"`
	Name          string    `json:"nome"`
	SalePrice     string    `json:"preco_venda"`
	StockQuantity int       `json:"qtd_estoque"`
	CreatedAt     time.Time `json:"data_cadastro"`
}

// NewProductResponse converts a stored product to its response shape.
func NewProductResponse(p *Product) *ProductResponse {
	return &ProductResponse{
		ID:            p.ID,
		Name:          p.Name,
		SalePrice:     p.SalePrice.StringFixed(2),
		StockQuantity: p.StockQuantity,
		CreatedAt:     p.CreatedAt,
	}
}

// NewProductResponseList converts a slice of stored products.
func NewProductResponseList(products []Product) []*ProductResponse {
	responses := make([]*ProductResponse, len(products))
	for i := range products {
		responses[i] = NewProductResponse(&products[i])
	}
	return responses
}

// DeleteProductResponse confirms a deletion.
type DeleteProductResponse struct {
	Message string `json:"message"`
	ID      int64  `json:"id"`
	Success bool   `json:"success"`
}
