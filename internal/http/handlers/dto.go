package handlers

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/rogerio-castellano/catalog-manager/internal/catalog"
	"github.com/rogerio-castellano/catalog-manager/internal/models"
)

type ErrorResponse struct {
	Message string            `json:"message"`
	Error   bool              `json:"error,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// AuthErrorResponse is the body of failed logins and duplicate registrations.
type AuthErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type CategoryResponse struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CategoryCreatedResponse struct {
	Message  string           `json:"message"`
	Category CategoryResponse `json:"category"`
}

type ProductResponse struct {
	ID           int               `json:"id"`
	Name         string            `json:"name"`
	CategoryID   int               `json:"category_id"`
	Category     *CategoryResponse `json:"category,omitempty"`
	CategoryName *string           `json:"category_name"` // null when the category is missing
	Description  string            `json:"description"`
	Price        string            `json:"price"`
	Stock        int               `json:"stock"`
	Enabled      bool              `json:"enabled"`
	LowStock     bool              `json:"low_stock"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

type ProductMessageResponse struct {
	Message string          `json:"message"`
	Data    ProductResponse `json:"data"`
}

type ProductsPage struct {
	Data        []ProductResponse `json:"data"`
	CurrentPage int               `json:"current_page"`
	PerPage     int               `json:"per_page"`
	Total       int               `json:"total"`
	LastPage    int               `json:"last_page"`
	From        *int              `json:"from"`
	To          *int              `json:"to"`
}

// DeleteProductsRequest accepts either {"ids": [1, 2]} or {"ids": 1}.
type DeleteProductsRequest struct {
	IDs json.RawMessage `json:"ids" swaggertype:"array,integer"`
}

type DeleteProductsResponse struct {
	Message string `json:"message"`
	Deleted int    `json:"deleted"`
}

type StockAdjustmentRequest struct {
	Delta *int `json:"delta"` // can be positive or negative
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func toCategoryResponse(c models.Category) CategoryResponse {
	return CategoryResponse{ID: c.ID, Name: c.Name, CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt}
}

func toProductResponse(p models.Product) ProductResponse {
	resp := ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		CategoryID:  p.CategoryID,
		Description: p.Description,
		Price:       p.Price.StringFixed(2),
		Stock:       p.Stock,
		Enabled:     p.Enabled,
		LowStock:    p.IsLowStock(),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if p.Category != nil {
		c := toCategoryResponse(*p.Category)
		resp.Category = &c
		resp.CategoryName = &c.Name
	}
	return resp
}

func toProductsPage(page catalog.Page) ProductsPage {
	resp := ProductsPage{
		Data:        make([]ProductResponse, len(page.Items)),
		CurrentPage: page.CurrentPage,
		PerPage:     page.PerPage,
		Total:       page.Total,
		LastPage:    page.LastPage,
		From:        page.From,
		To:          page.To,
	}
	for i, p := range page.Items {
		resp.Data[i] = toProductResponse(p)
	}
	return resp
}

var errInvalidIDs = errors.New("ids must be an integer or a list of integers")

// parseIDs decodes a scalar or array id payload.
func parseIDs(raw json.RawMessage) ([]int, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, errInvalidIDs
	}

	var many []int
	if err := json.Unmarshal(raw, &many); err == nil {
		return many, nil
	}

	var one int
	if err := json.Unmarshal(raw, &one); err == nil {
		return []int{one}, nil
	}
	return nil, errInvalidIDs
}

// parseIDList parses a comma separated id list such as "1,2,3". An empty string yields nil.
func parseIDList(raw string) ([]int, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]int, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, errInvalidIDs
		}
		ids = append(ids, id)
	}
	return ids, nil
}
