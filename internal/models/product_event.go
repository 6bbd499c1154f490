package models

import "time"

// Product event types, also used as routing keys.
const (
	ProductCreated = "produto.created"
	ProductUpdated = "produto.updated"
	ProductDeleted = "produto.deleted"
)

// ProductEvent is published after a product mutation has been committed.
// Product is nil for deletions.
type ProductEvent struct {
	Type       string           `json:"type"`
	ProductID  int64            `json:"produto_id"`
	Product    *ProductResponse `json:"produto,omitempty"`
	OccurredAt time.Time        `json:"occurred_at"`
}
