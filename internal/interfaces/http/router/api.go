package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ramenshop/backend/internal/domain/identity"
	"github.com/ramenshop/backend/internal/infrastructure/auth"
	"github.com/ramenshop/backend/internal/infrastructure/config"
	"github.com/ramenshop/backend/internal/infrastructure/logger"
	"github.com/ramenshop/backend/internal/interfaces/http/dto"
	"github.com/ramenshop/backend/internal/interfaces/http/handler"
	"github.com/ramenshop/backend/internal/interfaces/http/middleware"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// Handlers are the HTTP handlers the API is built from
type Handlers struct {
	Auth       *handler.AuthHandler
	User       *handler.UserHandler
	Product    *handler.ProductHandler
	Recipe     *handler.RecipeHandler
	Class      *handler.ClassHandler
	Cart       *handler.CartHandler
	Order      *handler.OrderHandler
	Fridge     *handler.FridgeHandler
	Production *handler.ProductionHandler
	Shift      *handler.ShiftHandler
	TimeClock  *handler.TimeClockHandler
	Employee   *handler.EmployeeHandler
	Report     *handler.ReportHandler
	Contact    *handler.ContactHandler
	Upload     *handler.UploadHandler
	Assistant  *handler.AssistantHandler
	System     *handler.SystemHandler
}

// Options wires the HTTP layer
type Options struct {
	Config    *config.Config
	Logger    *zap.Logger
	JWT       *auth.JWTService
	Blacklist auth.TokenBlacklist
	// Meter enables request metrics when set
	Meter    metric.Meter
	Handlers Handlers
}

// guards builds the middleware chains routes are protected with
type guards struct {
	auth     gin.HandlerFunc
	optional gin.HandlerFunc
	inject   gin.HandlerFunc
}

// public lets anyone through and identifies the caller when a token is sent
func (g guards) public(h ...gin.HandlerFunc) []gin.HandlerFunc {
	return append([]gin.HandlerFunc{g.optional, g.inject}, h...)
}

// user requires a signed in caller of any role
func (g guards) user(h ...gin.HandlerFunc) []gin.HandlerFunc {
	return append([]gin.HandlerFunc{g.auth, g.inject}, h...)
}

// perm requires a signed in caller holding permission
func (g guards) perm(permission string, h ...gin.HandlerFunc) []gin.HandlerFunc {
	return append([]gin.HandlerFunc{g.auth, g.inject, middleware.RequirePermission(permission)}, h...)
}

// New builds the gin engine with the global middleware stack and every
// route. stop releases the rate limiters and must be called on shutdown.
func New(opts Options) (engine *gin.Engine, stop func()) {
	cfg := opts.Config
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	h := opts.Handlers

	engine = gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Warn("Invalid trusted proxy list, trusting none", zap.Error(err))
		_ = engine.SetTrustedProxies(nil)
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(logger.Recovery(log))
	if cfg.Telemetry.Enabled {
		engine.Use(middleware.Tracing(cfg.Telemetry.ServiceName), middleware.SpanErrorMarker())
	}
	if opts.Meter != nil {
		engine.Use(middleware.HTTPMetrics(opts.Meter))
	}
	if cfg.Telemetry.ProfilingEnabled {
		engine.Use(middleware.Profiling(middleware.DefaultProfilingConfig()))
	}
	cors := middleware.DefaultCORSConfig()
	cors.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		cors.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		cors.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(cors))
	security := middleware.DefaultSecurityConfig()
	security.HSTSEnabled = cfg.App.IsProduction()
	engine.Use(middleware.SecureWithConfig(security))

	var limiters []*middleware.RateLimiter
	stop = func() {
		for _, l := range limiters {
			l.Stop()
		}
	}
	newLimiter := func(requests int, window time.Duration) gin.HandlerFunc {
		if requests <= 0 || window <= 0 {
			return func(c *gin.Context) { c.Next() }
		}
		l := middleware.NewRateLimiter(requests, window)
		limiters = append(limiters, l)
		return middleware.RateLimit(l)
	}
	if cfg.HTTP.RateLimitEnabled {
		engine.Use(newLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow))
	}
	// credentials and anonymous writes get a tighter budget of their own
	authLimit := newLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
	publicLimit := newLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.NewErrorResponseWithRequestID(dto.ErrCodeNotFound, "Route not found", c.GetString("request_id")))
	})

	jwt := middleware.JWTAuthMiddleware(opts.JWT, opts.Blacklist, log)
	g := guards{
		auth:     jwt,
		optional: middleware.OptionalJWTAuthMiddleware(opts.JWT, opts.Blacklist, log),
		inject:   middleware.TracingAttributeInjector(),
	}

	engine.GET("/health", h.System.Health)
	engine.GET("/ready", h.System.Ready)
	engine.GET("/swagger/*any", middleware.SwaggerProtection(cfg.Swagger, jwt), ginSwagger.WrapHandler(swaggerFiles.Handler))

	r := NewRouter(engine, WithAPIVersion("v1"))
	limit := middleware.BodyLimit(cfg.HTTP.MaxBodySize)
	r.Register(
		authRoutes(g, h, limit, authLimit),
		catalogRoutes(g, h, limit),
		commerceRoutes(g, h, limit),
		inventoryRoutes(g, h, limit),
		workforceRoutes(g, h, limit, publicLimit),
		backOfficeRoutes(g, h, limit, publicLimit),
		uploadRoutes(g, h, limit),
	)
	r.Setup()

	return engine, stop
}

func authRoutes(g guards, h Handlers, limit, rate gin.HandlerFunc) RouteRegistrar {
	routes := NewDomainGroup("auth", "/auth").Use(limit)
	routes.POST("/register", rate, h.Auth.Register)
	routes.POST("/login", rate, h.Auth.Login)
	routes.POST("/refresh", rate, h.Auth.Refresh)
	routes.POST("/logout", g.user(h.Auth.Logout)...)
	routes.GET("/me", g.user(h.Auth.Me)...)
	routes.PUT("/me", g.user(h.Auth.UpdateProfile)...)
	routes.PUT("/password", g.user(h.Auth.ChangePassword)...)

	return routes
}

// catalogRoutes are readable by anyone; editing needs catalog:write
func catalogRoutes(g guards, h Handlers, limit gin.HandlerFunc) RouteRegistrar {
	routes := NewDomainGroup("catalog", "").Use(limit)

	products := routes.Group("products", "/products")
	products.GET("", g.public(h.Product.List)...)
	products.GET("/:slug", g.public(h.Product.GetBySlug)...)
	products.POST("", g.perm(identity.PermCatalogWrite, h.Product.Create)...)
	products.PUT("/:id", g.perm(identity.PermCatalogWrite, h.Product.Update)...)
	products.PATCH("/:id/availability", g.perm(identity.PermCatalogWrite, h.Product.SetAvailability)...)
	products.DELETE("/:id", g.perm(identity.PermCatalogWrite, h.Product.Delete)...)

	recipes := routes.Group("recipes", "/recipes")
	recipes.GET("", g.public(h.Recipe.List)...)
	recipes.GET("/:slug", g.public(h.Recipe.GetBySlug)...)
	recipes.POST("", g.perm(identity.PermCatalogWrite, h.Recipe.Create)...)
	recipes.PUT("/:id", g.perm(identity.PermCatalogWrite, h.Recipe.Update)...)
	recipes.PATCH("/:id/publish", g.perm(identity.PermCatalogWrite, h.Recipe.SetPublished)...)
	recipes.DELETE("/:id", g.perm(identity.PermCatalogWrite, h.Recipe.Delete)...)

	classes := routes.Group("classes", "/classes")
	classes.GET("", g.public(h.Class.List)...)
	classes.GET("/:slug", g.public(h.Class.GetBySlug)...)
	classes.POST("", g.perm(identity.PermCatalogWrite, h.Class.Create)...)
	classes.PUT("/:id", g.perm(identity.PermCatalogWrite, h.Class.Update)...)
	classes.POST("/:id/cancel", g.perm(identity.PermCatalogWrite, h.Class.Cancel)...)
	classes.POST("/:id/bookings", g.user(h.Class.Book)...)

	bookings := routes.Group("bookings", "/bookings")
	bookings.GET("", g.user(h.Class.ListBookings)...)
	bookings.POST("/:id/cancel", g.user(h.Class.CancelBooking)...)

	return routes
}

// commerceRoutes need a signed in customer; services scope rows to the caller
func commerceRoutes(g guards, h Handlers, limit gin.HandlerFunc) RouteRegistrar {
	routes := NewDomainGroup("commerce", "").Use(limit)

	cart := routes.Group("cart", "/cart").Use(g.user()...)
	cart.GET("", h.Cart.Get)
	cart.DELETE("", h.Cart.Clear)
	cart.POST("/items", h.Cart.AddItem)
	cart.PUT("/items/:productId", h.Cart.UpdateItem)
	cart.DELETE("/items/:productId", h.Cart.RemoveItem)

	checkout := routes.Group("checkout", "/checkout").Use(g.user()...)
	checkout.GET("/quote", h.Cart.Quote)
	checkout.POST("", h.Cart.Checkout)

	orders := routes.Group("orders", "/orders").Use(g.user()...)
	orders.GET("", h.Order.List)
	orders.GET("/by-number/:number", h.Order.GetByNumber)
	orders.GET("/:id", h.Order.Get)
	orders.POST("/:id/cancel", h.Order.Cancel)
	orders.PATCH("/:id/status", middleware.RequirePermission(identity.PermOrdersManage), h.Order.Transition)

	return routes
}

// inventoryRoutes are staff only: inventory:read to look, inventory:write
// to change stock or labels
func inventoryRoutes(g guards, h Handlers, limit gin.HandlerFunc) RouteRegistrar {
	routes := NewDomainGroup("inventory", "").Use(limit).Use(g.perm(identity.PermInventoryRead)...)
	write := middleware.RequirePermission(identity.PermInventoryWrite)

	fridges := routes.Group("fridges", "/fridges")
	fridges.GET("", h.Fridge.List)
	fridges.POST("", write, h.Fridge.Create)
	fridges.GET("/:id", h.Fridge.Get)
	fridges.PUT("/:id", write, h.Fridge.Update)
	fridges.GET("/:id/inventory", h.Fridge.Inventory)
	fridges.POST("/:id/inventory", write, h.Fridge.AdjustStock)
	fridges.POST("/:id/transfer", write, h.Fridge.Transfer)
	fridges.GET("/:id/movements", h.Fridge.Movements)
	fridges.GET("/:id/qr.png", h.Fridge.QRCode)
	fridges.POST("/:id/qr/rotate", write, h.Fridge.RotateQR)

	items := routes.Group("production-items", "/production-items")
	items.GET("", h.Production.ListItems)
	items.POST("", write, h.Production.CreateItem)
	items.GET("/:id", h.Production.GetItem)
	items.PUT("/:id", write, h.Production.UpdateItem)
	items.GET("/:id/qr.png", h.Production.ItemQRCode)
	items.POST("/:id/qr/rotate", write, h.Production.RotateItemQR)

	logs := routes.Group("production-logs", "/production-logs")
	logs.GET("", h.Production.ListProduction)
	logs.POST("", write, h.Production.LogProduction)

	routes.GET("/qr/:token", h.Production.ResolveQR)

	return routes
}

func workforceRoutes(g guards, h Handlers, limit, publicRate gin.HandlerFunc) RouteRegistrar {
	routes := NewDomainGroup("workforce", "").Use(limit)

	shifts := routes.Group("shifts", "/shifts").Use(g.perm(identity.PermScheduleManage)...)
	shifts.GET("", h.Shift.List)
	shifts.POST("", h.Shift.Create)
	shifts.PUT("/:id", h.Shift.Update)
	shifts.POST("/:id/publish", h.Shift.Publish)
	shifts.DELETE("/:id", h.Shift.Delete)

	self := routes.Group("employee", "/employee")
	self.GET("/shifts", g.perm(identity.PermScheduleReadSelf, h.Shift.Mine)...)
	self.GET("/time-tracking", g.perm(identity.PermTimeclockUse, h.TimeClock.Status)...)
	self.POST("/time-tracking", g.perm(identity.PermTimeclockUse, h.TimeClock.Act)...)

	// the shop's badge scanner has no session; the badge token identifies
	// the employee
	routes.POST("/timeclock/qr", publicRate, h.TimeClock.BadgeAct)

	manage := routes.Group("timeclock-admin", "").Use(g.perm(identity.PermTimeclockManage)...)
	manage.GET("/time-entries", h.TimeClock.ListEntries)
	manage.PUT("/time-entries/:id", h.TimeClock.CorrectEntry)
	manage.GET("/payroll", h.TimeClock.Payroll)
	manage.GET("/employees", h.Employee.List)
	manage.PUT("/employees/:id/rate", h.Employee.SetRate)
	manage.POST("/employees/:id/badge/rotate", h.Employee.RotateBadge)
	manage.GET("/employees/:id/badge.png", h.Employee.BadgeQRCode)

	return routes
}

func backOfficeRoutes(g guards, h Handlers, limit, publicRate gin.HandlerFunc) RouteRegistrar {
	routes := NewDomainGroup("back-office", "").Use(limit)

	users := routes.Group("users", "/admin/users").Use(g.perm(identity.PermUsersManage)...)
	users.GET("", h.User.List)
	users.POST("", h.User.CreateStaff)
	users.GET("/:id", h.User.Get)
	users.PUT("/:id/role", h.User.SetRole)
	users.POST("/:id/disable", h.User.Disable)
	users.POST("/:id/enable", h.User.Enable)

	reports := routes.Group("reports", "/reports").Use(g.perm(identity.PermReportsRead)...)
	reports.GET("/sales", h.Report.Sales)
	reports.GET("/labor", h.Report.Labor)
	reports.GET("/production", h.Report.Production)
	reports.GET("/inventory", h.Report.Inventory)

	routes.POST("/contact", append([]gin.HandlerFunc{publicRate}, g.public(h.Contact.Submit)...)...)
	inbox := routes.Group("contact-messages", "/contact-messages").Use(g.perm(identity.PermContactRead)...)
	inbox.GET("", h.Contact.List)
	inbox.PATCH("/:id", h.Contact.SetStatus)

	assistant := routes.Group("assistant", "/assistant").Use(g.perm(identity.PermAssistantUse)...)
	assistant.GET("", h.Assistant.Status)
	assistant.POST("/chat", h.Assistant.Chat)
	assistant.POST("/draft", h.Assistant.Draft)

	routes.GET("/system/info", h.System.Info)

	return routes
}

// uploadRoutes skip the global body limit for multipart uploads; the
// upload handler enforces the image size itself
func uploadRoutes(g guards, h Handlers, limit gin.HandlerFunc) RouteRegistrar {
	routes := NewDomainGroup("uploads", "/uploads/images").Use(g.perm(identity.PermUploadsWrite)...)
	routes.POST("/presign", limit, h.Upload.Presign)
	routes.POST("", h.Upload.Upload)
	return routes
}
