package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Bodega-api/internal/application/dto"
	"github.com/jhoicas/Bodega-api/internal/application/inventory"
	"github.com/jhoicas/Bodega-api/internal/domain/entity"
)

// SettingsHandler configuración de inventario por empresa (protegido).
type SettingsHandler struct {
	uc *inventory.SettingsUseCase
}

// NewSettingsHandler construye el handler.
func NewSettingsHandler(uc *inventory.SettingsUseCase) *SettingsHandler {
	return &SettingsHandler{uc: uc}
}

// Get godoc
// @Summary      Configuración de inventario
// @Description  Devuelve la configuración efectiva de la empresa (defaults si nunca guardó).
// @Tags         settings
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SettingsResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/inventory/settings [get]
func (h *SettingsHandler) Get(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	settings, err := h.uc.Effective(c.Context(), companyID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toSettingsResponse(settings))
}

// Update godoc
// @Summary      Actualizar configuración de inventario
// @Description  Actualización parcial: solo los campos presentes cambian. Last-write-wins.
// @Tags         settings
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UpdateSettingsRequest  true  "campos a cambiar"
// @Success      200   {object}  dto.SettingsResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/inventory/settings [put]
func (h *SettingsHandler) Update(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.UpdateSettingsRequest
	if err := parseAndValidate(c, &in); err != nil {
		return err
	}
	settings, err := h.uc.Update(c.Context(), companyID, inventory.UpdateSettingsInput{
		InventoryEnabled:       in.InventoryEnabled,
		LowStockThreshold:      in.LowStockThreshold,
		AutoDeductOnInvoice:    in.AutoDeductOnInvoice,
		RequireStockValidation: in.RequireStockValidation,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toSettingsResponse(settings))
}

func toSettingsResponse(s *entity.InventorySettings) dto.SettingsResponse {
	return dto.SettingsResponse{
		CompanyID:              s.CompanyID,
		InventoryEnabled:       s.InventoryEnabled,
		LowStockThreshold:      s.LowStockThreshold,
		AutoDeductOnInvoice:    s.AutoDeductOnInvoice,
		RequireStockValidation: s.RequireStockValidation,
	}
}
