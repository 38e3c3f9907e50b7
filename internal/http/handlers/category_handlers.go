package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/rogerio-castellano/catalog-manager/internal/catalog"
	repo "github.com/rogerio-castellano/catalog-manager/internal/repo"
)

// ListCategoriesHandler godoc
// @Summary List all categories
// @Tags categories
// @Produce json
// @Success 200 {array} CategoryResponse
// @Router /categories [get]
func ListCategoriesHandler(w http.ResponseWriter, r *http.Request) {
	categories, err := catalogService.ListCategories(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := make([]CategoryResponse, len(categories))
	for i, c := range categories {
		resp[i] = toCategoryResponse(c)
	}
	respond(w, r, http.StatusOK, resp)
}

// GetCategoryHandler godoc
// @Summary Get category by ID
// @Tags categories
// @Produce json
// @Param id path int true "Category ID"
// @Success 200 {object} CategoryResponse
// @Failure 404 {object} ErrorResponse
// @Router /categories/{id} [get]
func GetCategoryHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, repo.ErrCategoryNotFound)
		return
	}

	category, err := catalogService.GetCategory(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, toCategoryResponse(category))
}

// CreateCategoryHandler godoc
// @Summary Create a category
// @Tags categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param category body catalog.CategoryInput true "Category to add"
// @Success 201 {object} CategoryCreatedResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /categories [post]
func CreateCategoryHandler(w http.ResponseWriter, r *http.Request) {
	var in catalog.CategoryInput
	if err := readJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	created, err := catalogService.CreateCategory(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, r, http.StatusCreated, CategoryCreatedResponse{Message: "Category created successfully", Category: toCategoryResponse(created)})
}
