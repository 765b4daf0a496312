package router

import (
	"time"

	"pharmatrack/internal/config"
	"pharmatrack/internal/handler"
	"pharmatrack/internal/middleware"
	"pharmatrack/internal/repository"
	"pharmatrack/internal/service"
	"pharmatrack/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, dispatcher *worker.Dispatcher) *gin.Engine {
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
	medicineRepo := repository.NewMedicineRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	movementRepo := repository.NewStockMovementRepository(db)
	reportRepo := repository.NewReportRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	stockSvc := service.NewStockService(medicineRepo, movementRepo)
	medicineSvc := service.NewMedicineService(medicineRepo, categoryRepo, stockSvc, time.Now)
	categorySvc := service.NewCategoryService(categoryRepo)
	saleSvc := service.NewSaleService(saleRepo, medicineRepo, stockSvc, dispatcher, cfg.LowStockThreshold)
	reportSvc := service.NewReportService(medicineRepo, reportRepo, cfg.LowStockThreshold, time.Now)

	// ── Handlers ─────────────────────────────────────────────────────────────
	medicinesH := handler.NewMedicinesHandler(medicineSvc)
	categoriesH := handler.NewCategoriesHandler(categorySvc)
	salesH := handler.NewSalesHandler(saleSvc)
	reportsH := handler.NewReportsHandler(reportSvc)
	inventoryH := handler.NewInventoryHandler(stockSvc)
	availabilityH := handler.NewAvailabilityHandler(medicineRepo, rdb)
	receiptH := handler.NewReceiptHandler(saleRepo, cfg.PharmacyName, cfg.PDFStoragePath)

	// ── Routes ───────────────────────────────────────────────────────────────

	r.GET("/health", handler.Health(db, rdb))

	// Counter-side availability check (cached, read-only)
	r.GET("/v1/availability/:id", availabilityH.Check)

	v1 := r.Group("/v1")
	{
		meds := v1.Group("/medicines")
		{
			meds.POST("", medicinesH.Create)
			meds.GET("", medicinesH.List)
			meds.GET("/:id", medicinesH.GetByID)
			meds.PUT("/:id", medicinesH.Update)
			meds.DELETE("/:id", medicinesH.Delete)
			meds.PATCH("/:id/stock", medicinesH.AdjustStock)
		}

		cats := v1.Group("/categories")
		{
			cats.POST("", categoriesH.Create)
			cats.GET("", categoriesH.List)
			cats.PUT("/:id", categoriesH.Update)
			cats.DELETE("/:id", categoriesH.Delete)
		}

		sales := v1.Group("/sales")
		{
			sales.POST("", salesH.SettleSale)
			sales.GET("", salesH.List)
			sales.GET("/:id", salesH.GetByID)
			sales.DELETE("/:id", salesH.ReverseSale)
			sales.GET("/:id/receipt", receiptH.Download)
			sales.POST("/:id/items", salesH.AddItem)
			sales.PUT("/:id/items/:item_id", salesH.UpdateItem)
			sales.DELETE("/:id/items/:item_id", salesH.DeleteItem)
		}

		reports := v1.Group("/reports")
		{
			reports.GET("/alerts", reportsH.Alerts)
			reports.GET("/profit", reportsH.Profit)
			reports.GET("/daily", reportsH.Daily)
		}

		v1.GET("/inventory/movements", inventoryH.ListMovements)
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
