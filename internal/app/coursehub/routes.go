// Package coursehub собирает HTTP API сервиса курсов: маршруты, middleware и зависимости.
package coursehub

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/course-hub/internal/config"
	"github.com/magabrotheeeer/course-hub/internal/http/apidocs"
	"github.com/magabrotheeeer/course-hub/internal/http/cookie"
	"github.com/magabrotheeeer/course-hub/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/course-hub/internal/http/handlers/auth/logout"
	"github.com/magabrotheeeer/course-hub/internal/http/handlers/auth/me"
	"github.com/magabrotheeeer/course-hub/internal/http/handlers/auth/signup"
	"github.com/magabrotheeeer/course-hub/internal/http/handlers/auth/verify"
	courselist "github.com/magabrotheeeer/course-hub/internal/http/handlers/course/list"
	courseread "github.com/magabrotheeeer/course-hub/internal/http/handlers/course/read"
	"github.com/magabrotheeeer/course-hub/internal/http/handlers/enrollment/mycourses"
	"github.com/magabrotheeeer/course-hub/internal/http/handlers/enrollment/status"
	"github.com/magabrotheeeer/course-hub/internal/http/handlers/enrollment/subscribe"
	"github.com/magabrotheeeer/course-hub/internal/http/handlers/enrollment/validatepromo"
	"github.com/magabrotheeeer/course-hub/internal/http/handlers/health"
	"github.com/magabrotheeeer/course-hub/internal/http/middlewarectx"
	"github.com/magabrotheeeer/course-hub/internal/http/response"
	"github.com/magabrotheeeer/course-hub/internal/metrics"
)

// MaxBodyBytes предельный размер тела запроса.
const MaxBodyBytes = 10 << 10

// Сообщения при превышении лимита запросов.
const (
	MsgAuthRateLimited  = "Too many authentication attempts. Please try again in 15 minutes."
	MsgPromoRateLimited = "Too many promo code attempts. Please try again in an hour."
	MsgAPIRateLimited   = "Too many requests. Please try again later."
)

// AuthService бизнес-логика сессий, нужная обработчикам и middleware.
type AuthService interface {
	signup.Service
	login.Service
	me.Service
	middlewarectx.SessionResolver
}

// CourseService бизнес-логика каталога.
type CourseService interface {
	courselist.Service
	courseread.Service
}

// EnrollmentService бизнес-логика подписок.
type EnrollmentService interface {
	subscribe.Service
	mycourses.Service
	status.Service
	validatepromo.Service
}

// Services зависимости HTTP слоя.
type Services struct {
	Auth       AuthService
	Courses    CourseService
	Enrollment EnrollmentService
	Health     *health.Handler
	Metrics    *metrics.Metrics
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, cfg *config.Config, svc Services) {
	cookieOpts := cookie.Options{Secure: cfg.IsProduction(), MaxAge: cfg.TokenTTL}

	authLimiter := middlewarectx.NewIPRateLimiter(cfg.AuthRPS, cfg.AuthBurst)
	promoLimiter := middlewarectx.NewIPRateLimiter(cfg.PromoRPS, cfg.PromoBurst)
	apiLimiter := middlewarectx.NewIPRateLimiter(cfg.APIRPS, cfg.APIBurst)

	session := middlewarectx.SessionMiddleware(logger, svc.Auth)

	// Глобальные middleware
	r.Use(middleware.RequestID)
	if cfg.TrustProxy {
		r.Use(middleware.RealIP)
	}
	r.Use(
		middleware.Logger,
		middleware.Recoverer,
		middlewarectx.BodyLimit(MaxBodyBytes),
		cors.Handler(cors.Options{
			AllowedOrigins:   []string{cfg.ClientURL},
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		}),
	)
	if svc.Metrics != nil {
		r.Use(svc.Metrics.Middleware)
		r.Handle("/metrics", svc.Metrics.Handler())
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error(fmt.Sprintf("Route %s not found", r.URL.RequestURI())))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		render.Status(r, http.StatusMethodNotAllowed)
		render.JSON(w, r, response.Error(fmt.Sprintf("Method %s not allowed for %s", r.Method, r.URL.Path)))
	})

	r.Get("/healthz", svc.Health.Liveness)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", svc.Health.API)

		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.RateLimitMiddleware(logger, apiLimiter, MsgAPIRateLimited))

			r.Route("/auth", func(r chi.Router) {
				// Открытые конечные точки
				r.Group(func(r chi.Router) {
					r.Use(middlewarectx.RateLimitMiddleware(logger, authLimiter, MsgAuthRateLimited))
					r.Post("/signup", signup.New(logger, svc.Auth, cookieOpts).ServeHTTP)
					r.Post("/login", login.New(logger, svc.Auth, cookieOpts).ServeHTTP)
				})

				// Группа с сессией
				r.Group(func(r chi.Router) {
					r.Use(session)
					r.Post("/logout", logout.New(logger, cookieOpts).ServeHTTP)
					r.Get("/me", me.New(logger, svc.Auth).ServeHTTP)
					r.Get("/verify", verify.New(logger).ServeHTTP)
				})
			})

			r.Get("/courses", courselist.New(logger, svc.Courses).ServeHTTP)
			r.Get("/courses/{id}", courseread.New(logger, svc.Courses).ServeHTTP)

			r.With(
				middlewarectx.RateLimitMiddleware(logger, promoLimiter, MsgPromoRateLimited),
				middlewarectx.OptionalSessionMiddleware(logger, svc.Auth),
			).Post("/validate-promo", validatepromo.New(logger, svc.Enrollment).ServeHTTP)

			r.Group(func(r chi.Router) {
				r.Use(session)
				r.Post("/subscribe", subscribe.New(logger, svc.Enrollment).ServeHTTP)
				r.Get("/my-courses", mycourses.New(logger, svc.Enrollment).ServeHTTP)
				r.Get("/subscription-status/{courseId}", status.New(logger, svc.Enrollment).ServeHTTP)
			})
		})
	})

	// Swagger UI
	r.Get(apidocs.Path, apidocs.Handler)
	r.Get("/docs/*", httpSwagger.Handler(httpSwagger.URL(apidocs.Path)))
}
