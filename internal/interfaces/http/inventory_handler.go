package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Bodega-api/internal/application/dto"
	"github.com/jhoicas/Bodega-api/internal/application/inventory"
	"github.com/jhoicas/Bodega-api/internal/domain"
	"github.com/jhoicas/Bodega-api/internal/domain/entity"
	"github.com/jhoicas/Bodega-api/internal/domain/repository"
)

// InventoryHandler maneja movimientos, traslados y compras (protegido).
type InventoryHandler struct {
	engine       *inventory.MovementEngine
	transferUC   *inventory.TransferUseCase
	purchaseUC   *inventory.PurchaseUseCase
	thresholdsUC *inventory.ThresholdsUseCase
	movRepo      repository.MovementRepository
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(
	engine *inventory.MovementEngine,
	transferUC *inventory.TransferUseCase,
	purchaseUC *inventory.PurchaseUseCase,
	thresholdsUC *inventory.ThresholdsUseCase,
	movRepo repository.MovementRepository,
) *InventoryHandler {
	return &InventoryHandler{
		engine:       engine,
		transferUC:   transferUC,
		purchaseUC:   purchaseUC,
		thresholdsUC: thresholdsUC,
		movRepo:      movRepo,
	}
}

// RegisterMovement godoc
// @Summary      Registrar movimiento de inventario
// @Description  Aplica una entrada, salida o ajuste sobre un par (producto, sucursal).
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovementRequest  true  "product_id, branch_id, type, quantity con signo, cost_price (entradas)"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *InventoryHandler) RegisterMovement(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	userID := GetUserID(c)
	if companyID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.RegisterMovementRequest
	if err := parseAndValidate(c, &in); err != nil {
		return err
	}
	movement, level, err := h.engine.ApplyMovement(c.Context(), inventory.ApplyMovementInput{
		CompanyID: companyID,
		UserID:    userID,
		ProductID: in.ProductID,
		BranchID:  in.BranchID,
		Type:      in.Type,
		Quantity:  in.Quantity,
		CostPrice: in.CostPrice,
		Notes:     in.Notes,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"movement": toMovementResponse(movement),
		"stock":    toStockLevelResponse(level),
	})
}

// Transfer godoc
// @Summary      Trasladar stock entre sucursales
// @Description  Registra el par de movimientos transferencia_salida/transferencia_entrada de forma atómica.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TransferRequest  true  "product_id, from_branch_id, to_branch_id, quantity positiva"
// @Success      201   {object}  dto.TransferResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/transfers [post]
func (h *InventoryHandler) Transfer(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	userID := GetUserID(c)
	if companyID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.TransferRequest
	if err := parseAndValidate(c, &in); err != nil {
		return err
	}
	result, err := h.transferUC.Transfer(c.Context(), inventory.TransferInput{
		CompanyID:    companyID,
		UserID:       userID,
		ProductID:    in.ProductID,
		FromBranchID: in.FromBranchID,
		ToBranchID:   in.ToBranchID,
		Quantity:     in.Quantity,
		Notes:        in.Notes,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.TransferResponse{
		ReferenceID: result.ReferenceID,
		MovementOut: *toMovementResponse(result.MovementOut),
		MovementIn:  *toMovementResponse(result.MovementIn),
	})
}

// RegisterPurchase godoc
// @Summary      Registrar compra multi-producto
// @Description  Aplica una entrada por línea, todas en la misma transacción con el mismo grupo de referencia.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterPurchaseRequest  true  "branch_id y líneas con product_id, quantity y cost_price"
// @Success      201   {object}  dto.PurchaseResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/purchases [post]
func (h *InventoryHandler) RegisterPurchase(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	userID := GetUserID(c)
	if companyID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.RegisterPurchaseRequest
	if err := parseAndValidate(c, &in); err != nil {
		return err
	}
	lines := make([]inventory.PurchaseLine, 0, len(in.Lines))
	for _, l := range in.Lines {
		lines = append(lines, inventory.PurchaseLine{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			CostPrice: l.CostPrice,
		})
	}
	result, err := h.purchaseUC.RegisterPurchase(c.Context(), inventory.PurchaseInput{
		CompanyID: companyID,
		UserID:    userID,
		BranchID:  in.BranchID,
		Lines:     lines,
		Notes:     in.Notes,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.PurchaseResponse{
		ReferenceID:      result.ReferenceID,
		MovementsCreated: result.MovementsCreated,
		TotalCost:        result.TotalCost,
	})
}

// ListMovements godoc
// @Summary      Kardex de movimientos
// @Description  Lista movimientos por producto o por sucursal, del más reciente al más antiguo.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  string  false  "Filtrar por producto (exclusivo con branch_id)"
// @Param        branch_id   query  string  false  "Filtrar por sucursal"
// @Param        from        query  string  false  "Fecha inicial RFC3339"
// @Param        to          query  string  false  "Fecha final RFC3339"
// @Param        limit       query  int     false  "Máximo de filas (default 20)"
// @Param        offset      query  int     false  "Desplazamiento"
// @Success      200  {array}   dto.MovementResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	productID := c.Query("product_id")
	branchID := c.Query("branch_id")
	if (productID == "") == (branchID == "") {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "indicar product_id o branch_id (exactamente uno)"})
	}
	from, err := parseTimeQuery(c, "from")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from inválido (RFC3339)"})
	}
	to, err := parseTimeQuery(c, "to")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to inválido (RFC3339)"})
	}
	page := dto.PageRequest{Limit: c.QueryInt("limit"), Offset: c.QueryInt("offset")}
	page.DefaultPage()

	var list []*entity.Movement
	if productID != "" {
		list, err = h.movRepo.ListByProduct(c.Context(), productID, from, to, page.Limit, page.Offset)
	} else {
		list, err = h.movRepo.ListByBranch(c.Context(), branchID, from, to, page.Limit, page.Offset)
	}
	if err != nil {
		return respondError(c, err)
	}
	items := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		if m.CompanyID != companyID {
			continue
		}
		items = append(items, *toMovementResponse(m))
	}
	return c.JSON(fiber.Map{"total": len(items), "movements": items})
}

// GetMovement godoc
// @Summary      Detalle de un movimiento
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del movimiento"
// @Success      200  {object}  dto.MovementResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements/{id} [get]
func (h *InventoryHandler) GetMovement(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	m, err := h.movRepo.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	if m == nil {
		return respondError(c, domain.ErrNotFound)
	}
	if m.CompanyID != companyID {
		return respondError(c, domain.ErrForbidden)
	}
	return c.JSON(toMovementResponse(m))
}

// ListMovementGroup godoc
// @Summary      Movimientos de un grupo de referencia
// @Description  Devuelve los movimientos creados juntos por una compra, traslado o factura.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        reference_type  query  string  true  "compra, transferencia o invoice"
// @Param        reference_id    query  string  true  "ID del grupo"
// @Success      200  {array}   dto.MovementResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements/group [get]
func (h *InventoryHandler) ListMovementGroup(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	refType := c.Query("reference_type")
	refID := c.Query("reference_id")
	if refType == "" || refID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "reference_type y reference_id son requeridos"})
	}
	list, err := h.movRepo.ListByReference(c.Context(), refType, refID)
	if err != nil {
		return respondError(c, err)
	}
	items := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		if m.CompanyID != companyID {
			continue
		}
		items = append(items, *toMovementResponse(m))
	}
	return c.JSON(fiber.Map{"total": len(items), "movements": items})
}

// SetThresholds godoc
// @Summary      Fijar umbrales de stock
// @Description  Ajusta min_stock/max_stock de un par (producto, sucursal) sin tocar cantidades.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UpdateThresholdsRequest  true  "product_id, branch_id, min_stock, max_stock"
// @Success      200   {object}  dto.StockLevelResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/stock/thresholds [put]
func (h *InventoryHandler) SetThresholds(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.UpdateThresholdsRequest
	if err := parseAndValidate(c, &in); err != nil {
		return err
	}
	level, err := h.thresholdsUC.SetThresholds(c.Context(), inventory.SetThresholdsInput{
		CompanyID: companyID,
		ProductID: in.ProductID,
		BranchID:  in.BranchID,
		MinStock:  in.MinStock,
		MaxStock:  in.MaxStock,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toStockLevelResponse(level))
}

func parseTimeQuery(c *fiber.Ctx, key string) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func toMovementResponse(m *entity.Movement) *dto.MovementResponse {
	return &dto.MovementResponse{
		ID:               m.ID,
		ProductID:        m.ProductID,
		BranchID:         m.BranchID,
		Type:             m.Type,
		Quantity:         m.Quantity,
		PreviousQuantity: m.PreviousQuantity,
		NewQuantity:      m.NewQuantity,
		ReferenceType:    m.ReferenceType,
		ReferenceID:      m.ReferenceID,
		CostPrice:        m.CostPrice,
		Notes:            m.Notes,
		MovementDate:     m.MovementDate,
	}
}

func toStockLevelResponse(s *entity.StockLevel) *dto.StockLevelResponse {
	return &dto.StockLevelResponse{
		ProductID:      s.ProductID,
		BranchID:       s.BranchID,
		Quantity:       s.Quantity,
		MinStock:       s.MinStock,
		MaxStock:       s.MaxStock,
		CostPrice:      s.CostPrice,
		LastMovementAt: s.LastMovementAt,
	}
}
