package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Bodega-api/internal/application/inventory"
	"github.com/jhoicas/Bodega-api/internal/application/usecase"
	"github.com/jhoicas/Bodega-api/internal/domain/repository"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC    *usecase.ProductUseCase
	BranchUC     *usecase.BranchUseCase
	Engine       *inventory.MovementEngine
	TransferUC   *inventory.TransferUseCase
	PurchaseUC   *inventory.PurchaseUseCase
	ThresholdsUC *inventory.ThresholdsUseCase
	SettingsUC   *inventory.SettingsUseCase
	QueryUC      *inventory.QueryUseCase
	ReconcileUC  *inventory.ReconcileUseCase
	MovementRepo repository.MovementRepository
	JWTSecret    string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Products (protegido)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Patch("/:id/tracked", productHandler.SetTracked)

	// Branches (protegido)
	branches := protected.Group("/branches")
	branchHandler := NewBranchHandler(deps.BranchUC)
	branches.Post("/", branchHandler.Create)
	branches.Get("/", branchHandler.List)
	branches.Get("/:id", branchHandler.GetByID)
	branches.Put("/:id", branchHandler.Update)

	// Inventory: movimientos, traslados, compras (protegido)
	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.Engine, deps.TransferUC, deps.PurchaseUC, deps.ThresholdsUC, deps.MovementRepo)
	invGroup.Post("/movements", inventoryHandler.RegisterMovement)
	invGroup.Get("/movements", inventoryHandler.ListMovements)
	// "group" va antes que ":id" para que no lo capture el parámetro.
	invGroup.Get("/movements/group", inventoryHandler.ListMovementGroup)
	invGroup.Get("/movements/:id", inventoryHandler.GetMovement)
	invGroup.Post("/transfers", inventoryHandler.Transfer)
	invGroup.Post("/purchases", inventoryHandler.RegisterPurchase)
	invGroup.Put("/stock/thresholds", inventoryHandler.SetThresholds)

	// Reportes de inventario (protegido, solo lectura)
	reportsHandler := NewReportsHandler(deps.QueryUC, deps.ReconcileUC)
	invGroup.Get("/stock", reportsHandler.StockByBranch)
	invGroup.Get("/low-stock", reportsHandler.LowStock)
	invGroup.Get("/summary", reportsHandler.Summary)
	invGroup.Get("/reconciliation", reportsHandler.Reconcile)

	// Configuración de inventario (protegido)
	settingsHandler := NewSettingsHandler(deps.SettingsUC)
	invGroup.Get("/settings", settingsHandler.Get)
	invGroup.Put("/settings", settingsHandler.Update)
}
