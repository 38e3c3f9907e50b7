package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecordStatus marks whether a row is visible to normal reads.
type RecordStatus string

const (
	StatusActive  RecordStatus = "active"
	StatusDeleted RecordStatus = "deleted"
)

// LowStockThreshold is the stock level at or below which an in-stock product counts as low.
const LowStockThreshold = 10

// Product represents a product entity in the catalog.
type Product struct {
	ID          int             `gorm:"primaryKey" json:"id"`
	Name        string          `gorm:"size:255;not null" json:"name"`
	CategoryID  int             `gorm:"not null;index" json:"category_id"`
	Category    *Category       `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Description string          `gorm:"type:text" json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(8,2);not null" json:"price"`
	Stock       int             `gorm:"not null" json:"stock"`
	Enabled     bool            `gorm:"not null" json:"enabled"`
	Status      RecordStatus    `gorm:"type:varchar(16);not null;index" json:"-"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   *time.Time      `json:"-"`
}

func (p *Product) TableName() string {
	return "products"
}

// IsLive reports whether the product has not been soft deleted.
func (p Product) IsLive() bool {
	return p.Status == StatusActive
}

// CategoryName returns the name of the linked category, or "" when it is not loaded.
func (p Product) CategoryName() string {
	if p.Category == nil {
		return ""
	}
	return p.Category.Name
}

func (p Product) IsLowStock() bool {
	return p.Stock > 0 && p.Stock <= LowStockThreshold
}
