package http

import (
	"github.com/sirupsen/logrus"

	"github.com/rogerio-castellano/catalog-manager/internal/auth"
	"github.com/rogerio-castellano/catalog-manager/internal/catalog"
	"github.com/rogerio-castellano/catalog-manager/internal/http/handlers"
	"github.com/rogerio-castellano/catalog-manager/internal/repo"
)

var (
	authService *auth.Service
	logger      logrus.FieldLogger = logrus.StandardLogger()
	trustProxy  bool
)

// Dependencies are the services behind the router.
type Dependencies struct {
	Catalog *catalog.Service
	Auth    *auth.Service
	Metrics repo.MetricsRepository
	Logger  logrus.FieldLogger

	// TrustProxy keys the rate limiter on X-Forwarded-For/X-Real-IP instead of the peer address.
	TrustProxy bool
}

// Wire installs deps for the middleware and the handlers. Call it before NewRouter.
func Wire(deps Dependencies) {
	if deps.Logger != nil {
		logger = deps.Logger
		handlers.SetLogger(deps.Logger)
	}
	authService = deps.Auth
	trustProxy = deps.TrustProxy
	handlers.SetAuthService(deps.Auth)
	handlers.SetCatalogService(deps.Catalog)
	handlers.SetMetricsRepo(deps.Metrics)
}
