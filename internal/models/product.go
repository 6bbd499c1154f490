package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a product row in the store.
type Product struct {
	ID            int64           `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	Name          string          `json:"nome" gorm:"column:nome;type:varchar(100);not null;index"`
	SalePrice     decimal.Decimal `json:"preco_venda" gorm:"column:preco_venda;type:decimal(10,2);not null"`
	StockQuantity int             `json:"qtd_estoque" gorm:"column:qtd_estoque;type:integer;not null;default:0"`
	CreatedAt     time.Time       `json:"data_cadastro" gorm:"column:data_cadastro;not null;default:CURRENT_TIMESTAMP;autoCreateTime:false"`
}

// TableName maps Product to the produto table.
func (Product) TableName() string {
	return "produto"
}
