// Package server assembles the gin engine.
package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/ping-crm/dashboard/config"
	"github.com/ping-crm/dashboard/internal/auth"
	"github.com/ping-crm/dashboard/internal/contacts"
	"github.com/ping-crm/dashboard/internal/dashboard"
	"github.com/ping-crm/dashboard/internal/middleware"
	"github.com/ping-crm/dashboard/internal/organizations"
	"github.com/ping-crm/dashboard/internal/profile"
	"github.com/ping-crm/dashboard/internal/repository"
	"github.com/ping-crm/dashboard/internal/view"
	"github.com/ping-crm/dashboard/pkg/apiclient"
	"github.com/ping-crm/dashboard/pkg/cache"
)

// Deps are the collaborators of the router.
type Deps struct {
	Config *config.Config
	Logger *zap.Logger
	Cache  cache.Cache
}

// NewRouter wires handlers, middleware and templates.
func NewRouter(d Deps) *gin.Engine {
	cfg, logger := d.Config, d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	client := apiclient.New(cfg.API.BaseURL,
		apiclient.WithTimeout(time.Duration(cfg.API.TimeoutSeconds)*time.Second),
		apiclient.WithLogger(logger),
	)
	orgRepo := repository.NewOrganizations(client, d.Cache, logger)
	contactRepo := repository.NewContacts(client, d.Cache, logger)

	manager := auth.NewManager(
		auth.NewRepository(client),
		auth.NewSealer(cfg.Session.Secret, cfg.Session.ExpireHours),
		auth.CookieOptions{MaxAge: cfg.Session.ExpireHours * 3600, Secure: cfg.Session.Secure},
		logger,
	)

	authHandler := auth.NewHandler(logger)
	dashboardHandler := dashboard.NewHandler(orgRepo, contactRepo, logger)
	orgHandler := organizations.NewHandler(orgRepo, contactRepo, logger)
	contactHandler := contacts.NewHandler(contactRepo, orgRepo, logger)
	profileHandler := profile.NewHandler(logger)
	orgAPI := organizations.NewAPI(orgRepo, logger)
	contactAPI := contacts.NewAPI(contactRepo, logger)

	router := gin.New()
	router.SetHTMLTemplate(view.MustTemplates())
	router.Use(middleware.Recovery(logger))
	router.Use(otelgin.Middleware(cfg.OTel.ServiceName))
	router.Use(middleware.Logger(logger))
	router.Use(middleware.CORS(cfg.Server.SplitOrigins()))

	router.GET("/health", dashboard.Health)

	app := router.Group("", middleware.Session(manager))
	app.POST("/logout", authHandler.Logout)

	guest := app.Group("", middleware.RequireGuest())
	guest.GET("/login", authHandler.LoginPage)
	guest.POST("/login", authHandler.Login)
	guest.GET("/register", authHandler.RegisterPage)
	guest.POST("/register", authHandler.Register)

	private := app.Group("", middleware.RequireAuth())
	private.GET("/", dashboardHandler.Home)
	orgHandler.Register(private)
	contactHandler.Register(private)
	profileHandler.Register(private)
	orgAPI.Register(private)
	contactAPI.Register(private)

	router.NoRoute(func(c *gin.Context) {
		c.HTML(http.StatusNotFound, "error.html", view.Page{Title: "Not Found", Error: "Page not found."})
	})

	return router
}
