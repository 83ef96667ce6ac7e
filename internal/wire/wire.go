package wire

import (
	"net/http"

	"local-market/internal/adaptor"
	"local-market/internal/data/entity"
	"local-market/internal/usecase"
	"local-market/pkg/middleware"
	"local-market/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type App struct {
	Router *chi.Mux
}

// Wiring builds the handlers on top of service and mounts every route.
func Wiring(
	service *usecase.Service,
	verifier middleware.TokenVerifier,
	geocoder adaptor.GeocodeProxy,
	config *utils.Config,
	logger *zap.Logger,
) *App {
	handler := adaptor.NewHandler(service, geocoder, config, logger)

	acc := access{
		verifier: verifier,
		guard:    service.Guard,
		log:      logger.With(zap.String("component", "access")),
	}

	return &App{
		Router: setupRouter(handler, acc, config, logger),
	}
}

func setupRouter(handler *adaptor.Handler, acc access, config *utils.Config, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS(config.App.CORSOrigins))
	if config.App.MetricsEnabled {
		r.Use(middleware.Metrics)
	}

	wireAuth(r, handler.Auth, acc)
	wireUser(r, handler.User, acc)
	wireParty(r, handler.Party, acc)
	wireFair(r, handler.Fair, acc)
	wireShop(r, handler.Shop, acc)
	wireProduct(r, handler.Product, acc)
	wireGeocode(r, handler.Geocode)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		utils.ResponseSuccess(w, "OK", nil)
	})
	if config.App.MetricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	return r
}

// access bundles what the per-route middleware needs.
type access struct {
	verifier middleware.TokenVerifier
	guard    middleware.RoleAuthorizer
	log      *zap.Logger
}

// require authenticates the caller and, when roles are given, checks the
// stored role against them.
func (a access) require(roles ...entity.UserRole) []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		middleware.AuthAccess(a.verifier, a.log),
		middleware.RequireRoles(a.guard, a.log, roles...),
	}
}

func (a access) refresh() func(http.Handler) http.Handler {
	return middleware.AuthRefresh(a.verifier, a.log)
}
