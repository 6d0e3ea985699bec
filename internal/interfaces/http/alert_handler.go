package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/gestion-stock/internal/application/alerting"
	"github.com/jhoicas/gestion-stock/internal/application/dto"
)

// AlertHandler consulta, resolución y exportación de alertas.
type AlertHandler struct {
	uc *alerting.AlertUseCase
}

// NewAlertHandler construye el handler.
func NewAlertHandler(uc *alerting.AlertUseCase) *AlertHandler {
	return &AlertHandler{uc: uc}
}

// List godoc
// @Summary      Listar alertas
// @Tags         alerts
// @Security     Bearer
// @Produce      json
// @Param        stockId  query  string  false  "Filtrar por stock"
// @Param        status   query  string  false  "Open | Closed"
// @Param        type     query  string  false  "Tipo de alerta (OUT_OF_STOCK, MIN_STOCK, ...)"
// @Param        limit    query  int     false  "Límite"  default(20)
// @Param        offset   query  int     false  "Offset"  default(0)
// @Success      200      {object}  dto.AlertListResponse
// @Failure      400      {object}  dto.ErrorResponse
// @Router       /api/Alerts/GetAlerts [get]
func (h *AlertHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), dto.AlertQuery{
		StockID:     c.Query("stockId"),
		Status:      c.Query("status"),
		Type:        c.Query("type"),
		PageRequest: pageFromQuery(c),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener alerta por ID
// @Tags         alerts
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la alerta"
// @Success      200  {object}  dto.AlertResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/Alerts/GetAlert/{id} [get]
func (h *AlertHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return missingID(c)
	}
	out, err := h.uc.GetByID(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	if out == nil {
		return notFound(c, "alerta")
	}
	return c.JSON(out)
}

// Resolve godoc
// @Summary      Resolver alerta
// @Description  Cierra la alerta. Sobre una alerta ya cerrada no hace nada.
// @Tags         alerts
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la alerta"
// @Success      200  {object}  dto.AlertResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/Alerts/ResolveAlert/{id} [put]
func (h *AlertHandler) Resolve(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return missingID(c)
	}
	out, err := h.uc.Resolve(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar alerta
// @Tags         alerts
// @Security     Bearer
// @Param        id   path  string  true  "ID de la alerta"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/Alerts/DeleteAlert/{id} [delete]
func (h *AlertHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return missingID(c)
	}
	if err := h.uc.Delete(c.UserContext(), id); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Export godoc
// @Summary      Exportar alertas abiertas en PDF
// @Tags         alerts
// @Security     Bearer
// @Produce      application/pdf
// @Param        stockId  query  string  false  "Solo las alertas de este stock"
// @Success      200      {file}  binary
// @Router       /api/Alerts/ExportAlerts [get]
func (h *AlertHandler) Export(c *fiber.Ctx) error {
	pdf, err := h.uc.ExportOpen(c.UserContext(), c.Query("stockId"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="alertes.pdf"`)
	return c.Send(pdf)
}
