package models

import "time"

// Category groups products. It is created explicitly and never updated or deleted through the API.
type Category struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Category) TableName() string {
	return "categories"
}
