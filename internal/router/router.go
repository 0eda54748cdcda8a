package router

import (
	"time"

	"github.com/AzizSouissi/store-inventory-suite/internal/config"
	"github.com/AzizSouissi/store-inventory-suite/internal/handler"
	"github.com/AzizSouissi/store-inventory-suite/internal/infra"
	"github.com/AzizSouissi/store-inventory-suite/internal/middleware"
	"github.com/AzizSouissi/store-inventory-suite/internal/model"
	"github.com/AzizSouissi/store-inventory-suite/internal/repository"
	"github.com/AzizSouissi/store-inventory-suite/internal/service"
	"github.com/AzizSouissi/store-inventory-suite/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine together
// with the worker the pool should run.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) (*gin.Engine, *worker.AlertWorker) {
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

	// ── Infrastructure ───────────────────────────────────────────────────────
	mailer := infra.NewMailer(cfg)
	dispatcher := worker.NewDispatcher(rdb)

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	supplierRepo := repository.NewSupplierRepository(db)
	productRepo := repository.NewProductRepository(db)
	linkRepo := repository.NewProductSupplierRepository(db)
	batchRepo := repository.NewBatchRepository(db)
	movementRepo := repository.NewMovementRepository(db)
	saleRepo := repository.NewSaleRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTExpirationHours)
	categorySvc := service.NewCategoryService(categoryRepo, productRepo)
	supplierSvc := service.NewSupplierService(supplierRepo)
	linkSvc := service.NewProductSupplierService(linkRepo, productRepo, supplierRepo)
	productSvc := service.NewProductService(productRepo, categoryRepo, supplierRepo, linkRepo, batchRepo, movementRepo, saleRepo, linkSvc, rdb)
	importSvc := service.NewCatalogImportService(productRepo, categoryRepo, supplierRepo, movementRepo, linkSvc)
	stockSvc := service.NewStockService(productRepo, supplierRepo, batchRepo, movementRepo, linkSvc, dispatcher)
	saleSvc := service.NewSaleService(saleRepo, productRepo, movementRepo, dispatcher)
	alertSvc := service.NewAlertService(productRepo, categoryRepo)

	alertWorker := worker.NewAlertWorker(alertSvc, mailer, cfg.AlertEmail)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	categoriesH := handler.NewCategoriesHandler(categorySvc)
	suppliersH := handler.NewSuppliersHandler(supplierSvc, linkSvc)
	productsH := handler.NewProductsHandler(productSvc, importSvc)
	stockH := handler.NewStockHandler(stockSvc)
	linksH := handler.NewProductSuppliersHandler(linkSvc)
	salesH := handler.NewSalesHandler(saleSvc)
	alertsH := handler.NewAlertsHandler(alertSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	anyRole := middleware.RequireRole(model.RoleAdmin, model.RoleStaff)
	adminOnly := middleware.RequireRole(model.RoleAdmin)

	v1 := r.Group("/v1", jwtMW)
	{
		// Categories — admin writes, all authenticated read
		v1.GET("/categories", anyRole, categoriesH.List)
		v1.GET("/categories/:id", anyRole, categoriesH.GetByID)
		categories := v1.Group("/categories", adminOnly)
		{
			categories.POST("", categoriesH.Create)
			categories.PUT("/:id", categoriesH.Update)
			categories.DELETE("/:id", categoriesH.Delete)
		}

		// Suppliers
		v1.GET("/suppliers", anyRole, suppliersH.List)
		v1.GET("/suppliers/:id", anyRole, suppliersH.GetByID)
		v1.GET("/suppliers/:id/products", anyRole, suppliersH.Products)
		suppliers := v1.Group("/suppliers", adminOnly)
		{
			suppliers.POST("", suppliersH.Create)
			suppliers.PUT("/:id", suppliersH.Update)
			suppliers.DELETE("/:id", suppliersH.Delete)
		}

		// Products — catalog reads for everyone, writes admin-only
		v1.GET("/products", anyRole, productsH.List)
		v1.GET("/products/:id", anyRole, productsH.GetByID)
		v1.GET("/products/barcode/:barcode", anyRole, productsH.GetByBarcode)
		prods := v1.Group("/products", adminOnly)
		{
			prods.POST("", productsH.Create)
			prods.PUT("/:id", productsH.Update)
			prods.DELETE("/:id", productsH.Delete)
			prods.PATCH("/bulk/category", productsH.BulkCategory)
			prods.PATCH("/bulk/price", productsH.BulkPrice)
			prods.POST("/import-csv", productsH.ImportCSV)
		}

		// Stock — staff operate the floor, reconcile is admin-only
		stock := v1.Group("/products/:id/stock", anyRole)
		{
			stock.POST("/receive", stockH.Receive)
			stock.POST("/waste", stockH.Waste)
			stock.POST("/adjust", stockH.Adjust)
			stock.GET("/movements", stockH.Movements)
			stock.GET("/batches", stockH.Batches)
		}
		v1.POST("/products/:id/stock/reconcile", adminOnly, stockH.Reconcile)

		// Supplier links
		v1.GET("/products/:id/suppliers", anyRole, linksH.ListForProduct)
		v1.GET("/products/:id/suppliers/history", anyRole, linksH.History)
		v1.PUT("/products/:id/suppliers", adminOnly, linksH.Upsert)

		// Sales
		v1.POST("/sales", anyRole, salesH.Create)
		v1.GET("/sales", anyRole, salesH.List)

		// Alerts
		v1.GET("/products/alerts/low-stock", anyRole, alertsH.LowStock)
		v1.GET("/products/reorder-list", anyRole, alertsH.ReorderList)
		v1.GET("/products/reorder-list/pdf", anyRole, alertsH.ReorderListPDF)
		v1.POST("/products/:id/alerts/snooze", anyRole, alertsH.Snooze)
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r, alertWorker
}
