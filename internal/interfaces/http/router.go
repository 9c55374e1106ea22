package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tjautosupply/autoparts-api/internal/application/auth"
	"github.com/tjautosupply/autoparts-api/internal/application/ledger"
	"github.com/tjautosupply/autoparts-api/internal/application/reporting"
	"github.com/tjautosupply/autoparts-api/internal/application/usecase"
)

// RouterDeps dependencies for the router.
type RouterDeps struct {
	AuthUC     *auth.AuthUseCase
	ProductUC  *usecase.ProductUseCase
	SupplierUC *usecase.SupplierUseCase
	HistoryUC  *usecase.HistoryUseCase
	ReportUC   *reporting.ReportUseCase
	Ledger     *ledger.Ledger
	JWTSecret  string
}

// Router registers the API routes.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (login is the only public route)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Everything else requires a Bearer token
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	protected.Post("/auth/change-password", authHandler.ChangePassword)

	// Catalog
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)

	// Stock mutations and audit trail
	inv := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.Ledger, deps.ProductUC, deps.HistoryUC)
	inv.Get("/products", productHandler.List)
	inv.Put("/:id/stock", inventoryHandler.AdjustStock)
	inv.Post("/bulk-stock-in", inventoryHandler.BulkStockIn)
	inv.Post("/return-to-supplier", inventoryHandler.ReturnToSupplier)
	inv.Get("/:id/availability", inventoryHandler.Availability)
	inv.Get("/:id/movements", inventoryHandler.Movements)

	// Point of sale
	sales := protected.Group("/sales")
	salesHandler := NewSalesHandler(deps.Ledger, deps.HistoryUC)
	sales.Post("/", salesHandler.Create)
	sales.Get("/", salesHandler.List)
	sales.Get("/:id", salesHandler.GetByID)

	// Customer returns
	returns := protected.Group("/returns")
	returnsHandler := NewReturnsHandler(deps.Ledger, deps.HistoryUC)
	returns.Post("/process", returnsHandler.Process)
	returns.Get("/", returnsHandler.List)
	returns.Get("/sale/:id", returnsHandler.ListBySale)

	// Serial lookups
	serials := protected.Group("/serial-numbers")
	serialHandler := NewSerialHandler(deps.Ledger)
	serials.Get("/product/:id/available", serialHandler.ListAvailable)
	serials.Get("/product/:id", serialHandler.ListByProduct)
	serials.Get("/sale/:id", serialHandler.ListBySale)

	// Supplier registry
	suppliers := protected.Group("/suppliers")
	supplierHandler := NewSupplierHandler(deps.SupplierUC)
	suppliers.Post("/", supplierHandler.Create)
	suppliers.Get("/", supplierHandler.List)
	suppliers.Put("/:id", supplierHandler.Update)

	// Back-office reports (admin only)
	reports := protected.Group("/reports", RequireAdmin())
	reportHandler := NewReportHandler(deps.ReportUC)
	reports.Get("/inventory", reportHandler.Inventory)
	reports.Get("/sales", reportHandler.Sales)
	reports.Get("/dead-stock", reportHandler.DeadStock)
	reports.Get("/returns", reportHandler.Returns)
}
