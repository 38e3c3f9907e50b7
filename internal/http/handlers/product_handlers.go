package handlers

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/rogerio-castellano/catalog-manager/internal/catalog"
	repo "github.com/rogerio-castellano/catalog-manager/internal/repo"
	"github.com/rogerio-castellano/catalog-manager/internal/validation"
)

// ListProductsHandler godoc
// @Summary List products
// @Description Paginated list of products ordered by id, optionally filtered by category and enabled flag
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param category_id query int false "Filter by category"
// @Param enabled query bool false "Filter by enabled flag"
// @Param page query int false "Page number (default 1)"
// @Param per_page query int false "Page size (default 10, max 100)"
// @Success 200 {object} ProductsPage
// @Failure 401 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /products [get]
func ListProductsHandler(w http.ResponseWriter, r *http.Request) {
	q, err := catalog.ParseListQuery(r.URL.Query())
	if err != nil {
		writeError(w, r, err)
		return
	}

	page, err := catalogService.ListProducts(r.Context(), q)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, toProductsPage(page))
}

// GetProductHandler godoc
// @Summary Get product by name
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param product path string true "Exact product name"
// @Success 200 {object} ProductResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /products/{product} [get]
func GetProductHandler(w http.ResponseWriter, r *http.Request) {
	product, err := catalogService.GetProductByName(r.Context(), productName(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, toProductResponse(product))
}

// productName returns the decoded {product} segment. chi routes on RawPath when
// the request carries one, and only then is the parameter still escaped.
func productName(r *http.Request) string {
	name := chi.URLParam(r, "product")
	if r.URL.RawPath == "" {
		return name
	}
	if unescaped, err := url.PathUnescape(name); err == nil {
		return unescaped
	}
	return name
}

// CreateProductHandler godoc
// @Summary Create a new product
// @Description Adds a product to the catalog. enabled defaults to true.
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param product body catalog.ProductInput true "Product to add"
// @Success 201 {object} ProductMessageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /products [post]
func CreateProductHandler(w http.ResponseWriter, r *http.Request) {
	var in catalog.ProductInput
	if err := readJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	created, err := catalogService.CreateProduct(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, r, http.StatusCreated, ProductMessageResponse{Message: "Product created successfully", Data: toProductResponse(created)})
}

// UpdateProductHandler godoc
// @Summary Update a product
// @Description Omitted fields keep their current value
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param product path int true "Product ID"
// @Param body body catalog.ProductInput true "Fields to change"
// @Success 200 {object} ProductMessageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /products/{product} [put]
func UpdateProductHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "product"))
	if err != nil {
		writeError(w, r, repo.ErrProductNotFound)
		return
	}

	var in catalog.ProductInput
	if err := readJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	updated, err := catalogService.UpdateProduct(r.Context(), id, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, ProductMessageResponse{Message: "Product updated successfully", Data: toProductResponse(updated)})
}

// DeleteProductsHandler godoc
// @Summary Soft delete one or more products
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body DeleteProductsRequest true "ids as an integer or a list of integers"
// @Success 200 {object} DeleteProductsResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /products [delete]
func DeleteProductsHandler(w http.ResponseWriter, r *http.Request) {
	var req DeleteProductsRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	ids, err := parseIDs(req.IDs)
	if err != nil {
		writeError(w, r, validation.Single("ids", "The ids field must be an integer or a list of integers."))
		return
	}

	deleted, err := catalogService.DeleteProducts(r.Context(), ids)
	if err != nil {
		if errors.Is(err, repo.ErrProductNotFound) {
			respond(w, r, http.StatusNotFound, ErrorResponse{Message: "Unable to delete, product not found", Error: true})
			return
		}
		writeError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, DeleteProductsResponse{Message: "Product deleted", Deleted: deleted})
}

// AdjustStockHandler godoc
// @Summary Adjust product stock
// @Description Adds delta (positive or negative) to the stock. The result must stay within 0..999999.
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param product path int true "Product ID"
// @Param body body StockAdjustmentRequest true "Stock delta"
// @Success 200 {object} ProductResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /products/{product}/stock [post]
func AdjustStockHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "product"))
	if err != nil {
		writeError(w, r, repo.ErrProductNotFound)
		return
	}

	var req StockAdjustmentRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.Delta == nil {
		writeError(w, r, validation.Single("delta", "The delta field is required."))
		return
	}

	product, err := catalogService.AdjustStock(r.Context(), id, *req.Delta)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, toProductResponse(product))
}
