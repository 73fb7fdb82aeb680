package router

import (
	"time"

	"lojalink/internal/config"
	"lojalink/internal/handler"
	"lojalink/internal/middleware"
	"lojalink/internal/model"
	"lojalink/internal/repository"
	"lojalink/internal/service"
	"lojalink/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	storeRepo := repository.NewStoreRepository(db)
	productRepo := repository.NewProductRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	paymentMethodRepo := repository.NewPaymentMethodRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	stockRepo := repository.NewStockMovementRepository(db)
	reportRepo := repository.NewReportRepository(db)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTExpirationHours, cfg.JWTRefreshHours)
	productSvc := service.NewProductService(productRepo, stockRepo)
	categorySvc := service.NewCategoryService(categoryRepo)
	paymentMethodSvc := service.NewPaymentMethodService(paymentMethodRepo)
	stockSvc := service.NewStockService(productRepo, stockRepo)
	reportSvc := service.NewReportService(reportRepo, orderRepo)
	orderSvc := service.NewOrderService(orderRepo, productRepo, userRepo, paymentMethodRepo, storeRepo, stockRepo, dispatcher, cfg.StoreName, cfg.Currency)
	importSvc := service.NewImportService(orderRepo, productRepo, userRepo, storeRepo, cfg.StoreName)

	// ── Handlers ─────────────────────────────────────────────────────────────
	healthH := handler.NewHealthHandler(db, rdb)
	authH := handler.NewAuthHandler(authSvc)
	usersH := handler.NewUsersHandler(authSvc)
	productsH := handler.NewProductsHandler(productSvc)
	categoriesH := handler.NewCategoriesHandler(categorySvc)
	paymentMethodsH := handler.NewPaymentMethodsHandler(paymentMethodSvc)
	ordersH := handler.NewOrdersHandler(orderSvc)
	importsH := handler.NewImportsHandler(importSvc)
	stockH := handler.NewStockHandler(stockSvc)
	reportsH := handler.NewReportsHandler(reportSvc)
	storefrontH := handler.NewStorefrontHandler(productSvc, reportSvc, rdb)

	// ── Routes ───────────────────────────────────────────────────────────────

	r.GET("/health", healthH.Health)

	// Auth (public)
	auth := r.Group("/api/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Storefront — anonymous
	public := r.Group("/api/public")
	{
		public.GET("/catalog", storefrontH.Catalog)
		public.GET("/kpis", storefrontH.KPIs)
		public.GET("/recent-orders", storefrontH.RecentOrders)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	api := r.Group("/api", jwtMW)
	{
		staff := middleware.RequireRole(model.RoleAdmin, model.RoleSupervisor, model.RoleSeller, model.RoleKitchen, model.RoleDelivery)
		sales := middleware.RequireRole(model.RoleAdmin, model.RoleSupervisor, model.RoleSeller)
		managers := middleware.RequireRole(model.RoleAdmin, model.RoleSupervisor)
		adminOnly := middleware.RequireRole(model.RoleAdmin)

		// Orders — status transitions are role-gated per edge inside the
		// service; the route only requires a staff identity.
		api.POST("/orders", sales, ordersH.Create)
		api.GET("/orders", staff, ordersH.List)
		api.GET("/orders/:id", staff, ordersH.Get)
		api.POST("/orders/:id/status", staff, ordersH.ChangeStatus)
		api.GET("/orders/:id/logs", managers, ordersH.Logs)

		// Products — reads for staff, writes for managers
		api.GET("/products", staff, productsH.List)
		api.GET("/products/:id", staff, productsH.Get)
		invalidate := storefrontH.InvalidateCatalogCache()
		prods := api.Group("/products", managers, invalidate)
		{
			prods.POST("", productsH.Create)
			prods.PUT("/:id", productsH.Update)
			prods.DELETE("/:id", productsH.Deactivate)
			prods.POST("/:id/reactivate", productsH.Reactivate)
		}

		// Stock movements
		api.POST("/stock/movements", adminOnly, stockH.CreateMovement)
		api.GET("/stock/movements", managers, stockH.ListMovements)

		// Historical sales importer
		api.POST("/imports", managers, importsH.ImportSales)

		// Back-office reports
		reports := api.Group("/reports", managers)
		{
			reports.GET("/kpis", reportsH.KPIs)
			reports.GET("/sellers", reportsH.TopSellers)
			reports.GET("/payment-methods", reportsH.ByPaymentMethod)
			reports.GET("/products", reportsH.ByProduct)
			reports.GET("/daily", reportsH.ByDay)
		}

		// Users — admin only
		users := api.Group("/users", adminOnly)
		{
			users.POST("", usersH.Create)
			users.GET("", usersH.List)
			users.PUT("/:id", usersH.Update)
			users.DELETE("/:id", usersH.Deactivate)
			users.POST("/:id/reactivate", usersH.Reactivate)
		}

		// Categories — managers write, staff read
		api.GET("/categories", staff, categoriesH.List)
		categories := api.Group("/categories", managers, invalidate)
		{
			categories.POST("", categoriesH.Create)
			categories.PUT("/:id", categoriesH.Update)
			categories.DELETE("/:id", categoriesH.Deactivate)
		}

		// Payment methods — managers write, staff read
		api.GET("/payment-methods", staff, paymentMethodsH.List)
		methods := api.Group("/payment-methods", managers)
		{
			methods.POST("", paymentMethodsH.Create)
			methods.DELETE("/:id", paymentMethodsH.Deactivate)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
