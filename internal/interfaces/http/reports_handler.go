package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Bodega-api/internal/application/dto"
	"github.com/jhoicas/Bodega-api/internal/application/inventory"
)

// ReportsHandler consultas de solo lectura: stock por sucursal, quiebres,
// resumen y reconciliación (protegido).
type ReportsHandler struct {
	queryUC     *inventory.QueryUseCase
	reconcileUC *inventory.ReconcileUseCase
}

// NewReportsHandler construye el handler.
func NewReportsHandler(queryUC *inventory.QueryUseCase, reconcileUC *inventory.ReconcileUseCase) *ReportsHandler {
	return &ReportsHandler{queryUC: queryUC, reconcileUC: reconcileUC}
}

// StockByBranch godoc
// @Summary      Stock de una sucursal
// @Description  Lista las filas de stock de la sucursal con metadatos de producto, lo más bajo primero.
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        branch_id  query  string  true  "Sucursal (UUID)"
// @Success      200  {array}   dto.StockLevelResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/stock [get]
func (h *ReportsHandler) StockByBranch(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	branchID := c.Query("branch_id")
	if branchID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "branch_id requerido"})
	}
	items, err := h.queryUC.StockByBranch(c.Context(), companyID, branchID)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.StockLevelResponse, 0, len(items))
	for _, item := range items {
		out = append(out, dto.StockLevelResponse{
			ProductID:      item.Level.ProductID,
			SKU:            item.SKU,
			ProductName:    item.ProductName,
			BranchID:       item.Level.BranchID,
			Quantity:       item.Level.Quantity,
			MinStock:       item.Level.MinStock,
			MaxStock:       item.Level.MaxStock,
			CostPrice:      item.Level.CostPrice,
			UnitMeasure:    item.UnitMeasure,
			LastMovementAt: item.Level.LastMovementAt,
		})
	}
	return c.JSON(fiber.Map{"total": len(out), "stock": out})
}

// LowStock godoc
// @Summary      Productos en quiebre de stock
// @Description  Pares (producto, sucursal) en o por debajo de su umbral efectivo.
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.LowStockItemResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/inventory/low-stock [get]
func (h *ReportsHandler) LowStock(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	items, err := h.queryUC.LowStock(c.Context(), companyID)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.LowStockItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, dto.LowStockItemResponse{
			ProductID:    item.ProductID,
			SKU:          item.SKU,
			ProductName:  item.ProductName,
			BranchID:     item.BranchID,
			BranchName:   item.BranchName,
			CurrentStock: item.CurrentStock,
			MinStock:     item.MinStock,
		})
	}
	return c.JSON(fiber.Map{"total": len(out), "items": out})
}

// Summary godoc
// @Summary      Resumen de inventario por sucursal
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.BranchSummaryResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/inventory/summary [get]
func (h *ReportsHandler) Summary(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	summaries, err := h.queryUC.SummarizeByBranch(c.Context(), companyID)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.BranchSummaryResponse, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, dto.BranchSummaryResponse{
			BranchID:      s.BranchID,
			BranchName:    s.BranchName,
			TotalProducts: s.TotalProducts,
			TotalQuantity: s.TotalQuantity,
			LowStockCount: s.LowStockCount,
		})
	}
	return c.JSON(fiber.Map{"branches": out})
}

// Reconcile godoc
// @Summary      Reconciliar stock contra el libro
// @Description  Recalcula el stock de cada par desde su cadena de movimientos y reporta divergencias. Solo lectura: no corrige nada.
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  map[string]any
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/inventory/reconciliation [get]
func (h *ReportsHandler) Reconcile(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	divergences, err := h.reconcileUC.Run(c.Context(), companyID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"healthy":     len(divergences) == 0,
		"divergences": divergences,
	})
}
