package api

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/99minutos/backoffice-api/internal/api/handler"
	"github.com/99minutos/backoffice-api/internal/api/middleware"
	"github.com/99minutos/backoffice-api/internal/core/ports"

	_ "github.com/99minutos/backoffice-api/docs"
)

// Deps carries everything the HTTP layer needs.
type Deps struct {
	Auth     ports.AuthService
	Users    ports.UserService
	Clients  ports.ClientService
	Projects ports.ProjectService
	Vendors  ports.VendorService
	Log      zerolog.Logger

	// Readiness lists the dependencies pinged by /health/ready.
	Readiness map[string]handler.Pinger

	// Registerer and Gatherer default to the global Prometheus registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// route is one entry of the routing table. Every route names its policy.
type route struct {
	method string
	path   string
	h      echo.HandlerFunc
	policy middleware.Policy
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	if d.Registerer == nil {
		d.Registerer = prometheus.DefaultRegisterer
	}
	if d.Gatherer == nil {
		d.Gatherer = prometheus.DefaultGatherer
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.AccessLog(d.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "http",
		Registerer: d.Registerer,
	}))

	// --- Operational endpoints (no auth required) ---
	health := handler.NewHealthHandler(d.Readiness)
	e.GET("/health", health.Liveness)
	e.GET("/health/ready", health.Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: d.Gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	for _, r := range routes(d) {
		e.Add(r.method, r.path, r.h, middleware.Guard(d.Auth, r.policy)...)
	}
	return e
}

func routes(d Deps) []route {
	auth := handler.NewAuthHandler(d.Auth)
	users := handler.NewUserHandler(d.Users)
	clients := handler.NewClientHandler(d.Clients)
	projects := handler.NewProjectHandler(d.Projects)
	vendors := handler.NewVendorHandler(d.Vendors)

	return []route{
		{http.MethodPost, "/auth/register", auth.Register, middleware.PublicRoute},
		{http.MethodPost, "/auth/login", auth.Login, middleware.PublicRoute},
		{http.MethodGet, "/auth/profile", auth.Profile, middleware.Authenticated},
		{http.MethodPost, "/auth/logout", auth.Logout, middleware.Authenticated},

		{http.MethodGet, "/users", users.List, middleware.AdminOnly},
		{http.MethodPatch, "/users/me/password", users.ChangePassword, middleware.Authenticated},
		{http.MethodGet, "/users/:id", users.Get, middleware.AdminOnly},
		{http.MethodPatch, "/users/:id", users.Update, middleware.AdminOnly},
		{http.MethodDelete, "/users/:id", users.Deactivate, middleware.AdminOnly},

		{http.MethodPost, "/clients", clients.Create, middleware.AdminOnly},
		{http.MethodGet, "/clients", clients.List, middleware.AdminOnly},
		{http.MethodGet, "/clients/:id", clients.Get, middleware.Authenticated},

		{http.MethodPost, "/projects", projects.Create, middleware.Authenticated},
		{http.MethodGet, "/projects", projects.List, middleware.Authenticated},
		{http.MethodGet, "/projects/:id", projects.Get, middleware.Authenticated},
		{http.MethodPatch, "/projects/:id", projects.Update, middleware.Authenticated},
		{http.MethodDelete, "/projects/:id", projects.Cancel, middleware.Authenticated},
		{http.MethodGet, "/projects/:id/vendors", projects.Vendors, middleware.Authenticated},

		{http.MethodPost, "/vendors", vendors.Create, middleware.AdminOnly},
		{http.MethodGet, "/vendors", vendors.Search, middleware.Authenticated},
		{http.MethodGet, "/vendors/:id", vendors.Get, middleware.Authenticated},
		{http.MethodPatch, "/vendors/:id", vendors.Update, middleware.AdminOnly},
		{http.MethodDelete, "/vendors/:id", vendors.Delete, middleware.AdminOnly},
	}
}
