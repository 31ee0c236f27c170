package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"
	"github.com/sirupsen/logrus"

	"memeshare/internal/api/handler"
	"memeshare/internal/api/middleware"
	"memeshare/internal/app/service"
	"memeshare/internal/common/security"
	"memeshare/internal/domain/repository"
	"memeshare/internal/platform/metrics"
)

// NewRouter wires every handler onto one chi router. statEvents and limiter
// are optional: without a publisher stat hits are applied inline, without a
// limiter no rate limiting happens.
func NewRouter(
	stores repository.StoreFactory,
	statEvents service.StatEventPublisher,
	limiter *middleware.RateLimiter,
	log logrus.FieldLogger,
) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(middleware.AccessLog(log))
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))
	r.Use(metrics.Middleware)
	if limiter != nil {
		r.Use(limiter.Handler)
	}

	// Looks for "Authorization: Bearer T" and stores the verified token in the context.
	r.Use(jwtauth.Verifier(security.TokenAuth))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/api/v1", func(v1 chi.Router) {
		v1.Route("/auth", handler.NewAuthHandler(stores).RegisterRoutes)
		v1.Route("/users", handler.NewUserHandler(stores).RegisterRoutes)
		v1.Route("/memes", handler.NewMemeHandler(stores, statEvents).RegisterRoutes)
		v1.Route("/tags", handler.NewTagHandler(stores).RegisterRoutes)
		v1.Route("/comments", handler.NewCommentHandler(stores).RegisterRoutes)
		v1.Route("/reactions", handler.NewReactionHandler(stores).RegisterRoutes)
		v1.Route("/collections", handler.NewCollectionHandler(stores).RegisterRoutes)
		v1.Route("/stats", handler.NewStatsHandler(stores).RegisterRoutes)

		roles := handler.NewRoleHandler(stores)
		v1.Route("/roles", roles.RegisterRoutes)
		v1.Route("/user-roles", roles.RegisterUserRoleRoutes)
	})

	return r
}
