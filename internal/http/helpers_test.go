package http_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/rogerio-castellano/catalog-manager/internal/auth"
	"github.com/rogerio-castellano/catalog-manager/internal/catalog"
	api "github.com/rogerio-castellano/catalog-manager/internal/http"
	handler "github.com/rogerio-castellano/catalog-manager/internal/http/handlers"
	rl "github.com/rogerio-castellano/catalog-manager/internal/http/rate_limiter"
	"github.com/rogerio-castellano/catalog-manager/internal/repo"
)

var (
	token        string
	productRepo  *repo.InMemoryProductRepository
	categoryRepo *repo.InMemoryCategoryRepository
	testDeps     api.Dependencies
)

const (
	adminEmail    = "admin@example.com"
	adminPassword = "secret123"
)

func init() {
	setupTestRepos()
	r := api.NewRouter()

	if w := register(r, auth.RegisterInput{Name: "Admin", Email: adminEmail, Password: adminPassword}); w.Code != http.StatusCreated {
		panic(fmt.Sprintf("error registering admin: %d %s", w.Code, w.Body.String()))
	}

	var err error
	token, err = generateToken(r, adminEmail, adminPassword)
	if err != nil {
		panic(fmt.Sprintf("error generating token: %v", err))
	}
}

func setupTestRepos() {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	categoryRepo = repo.NewInMemoryCategoryRepository()
	productRepo = repo.NewInMemoryProductRepository(categoryRepo)

	metricsRepo := repo.NewInMemoryMetricsRepository()
	metricsRepo.SetRepositories(productRepo, categoryRepo)

	tokens := auth.NewTokenIssuer("test-secret", time.Hour)
	testDeps = api.Dependencies{
		Catalog: catalog.NewService(productRepo, categoryRepo, logger),
		Auth:    auth.NewService(repo.NewInMemoryUserRepository(), tokens, auth.NewMemoryDenylist(), logger),
		Metrics: metricsRepo,
		Logger:  logger,
	}
	api.Wire(testDeps)

	rl.Configure(1000, 1000)
}

func clearAll() {
	productRepo.Clear()
	categoryRepo.Clear()
	rl.CleanupAllVisitors()
}

func doJSON(r http.Handler, method, path string, body any, bearer string) *httptest.ResponseRecorder {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, _ := json.Marshal(b)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func register(r http.Handler, in auth.RegisterInput) *httptest.ResponseRecorder {
	return doJSON(r, http.MethodPost, "/register", in, "")
}

func generateToken(r http.Handler, email, password string) (string, error) {
	w := doJSON(r, http.MethodPost, "/login", handler.LoginRequest{Email: email, Password: password}, "")
	if w.Code != http.StatusOK {
		return "", fmt.Errorf("login returned %d: %s", w.Code, w.Body.String())
	}

	var resp handler.TokenResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		return "", fmt.Errorf("token decoding failed: %v", err)
	}
	return resp.Token, nil
}

func createCategory(r http.Handler, name string) handler.CategoryResponse {
	w := doJSON(r, http.MethodPost, "/categories", map[string]string{"name": name}, token)
	var resp handler.CategoryCreatedResponse
	json.NewDecoder(w.Body).Decode(&resp)
	return resp.Category
}

func createProduct(r http.Handler, body any) *httptest.ResponseRecorder {
	return doJSON(r, http.MethodPost, "/products", body, token)
}

func mustCreateProduct(r http.Handler, body any) handler.ProductResponse {
	w := createProduct(r, body)
	if w.Code != http.StatusCreated {
		panic(fmt.Sprintf("expected 201 creating product, got %d: %s", w.Code, w.Body.String()))
	}
	var resp handler.ProductMessageResponse
	json.NewDecoder(w.Body).Decode(&resp)
	return resp.Data
}

func product(name string, categoryID int, price float64, stock int) map[string]any {
	return map[string]any{"name": name, "category_id": categoryID, "price": price, "stock": stock}
}

func multipartCSV(csvContent string, filename string) (*bytes.Buffer, string) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, _ := writer.CreateFormFile("file", filename)
	part.Write([]byte(csvContent))

	writer.Close()
	return &buf, writer.FormDataContentType()
}
