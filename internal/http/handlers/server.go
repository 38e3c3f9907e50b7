package handlers

import (
	"github.com/sirupsen/logrus"

	"github.com/rogerio-castellano/catalog-manager/internal/auth"
	"github.com/rogerio-castellano/catalog-manager/internal/catalog"
	repo "github.com/rogerio-castellano/catalog-manager/internal/repo"
)

var (
	catalogService *catalog.Service
	authService    *auth.Service
	metricsRepo    repo.MetricsRepository

	logger logrus.FieldLogger = logrus.StandardLogger()
)

func SetCatalogService(s *catalog.Service) {
	catalogService = s
}

func SetAuthService(s *auth.Service) {
	authService = s
}

func SetMetricsRepo(r repo.MetricsRepository) {
	metricsRepo = r
}

func SetLogger(l logrus.FieldLogger) {
	logger = l
}
