package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/gestion-stock/internal/application/dto"
	"github.com/jhoicas/gestion-stock/internal/application/usecase"
)

// StockHandler expone los stocks por producto y sitio.
type StockHandler struct {
	uc *usecase.StockUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(uc *usecase.StockUseCase) *StockHandler {
	return &StockHandler{uc: uc}
}

// Create godoc
// @Summary      Crear stock de un producto en un sitio
// @Tags         stocks
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateStockRequest  true  "Stock y umbrales"
// @Success      201   {object}  dto.StockResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/Stocks/AddStock [post]
func (h *StockHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateStockRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener stock por ID
// @Tags         stocks
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del stock"
// @Success      200  {object}  dto.StockResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/Stocks/GetStock/{id} [get]
func (h *StockHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return missingID(c)
	}
	out, err := h.uc.GetByID(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	if out == nil {
		return notFound(c, "stock")
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar stocks
// @Tags         stocks
// @Security     Bearer
// @Produce      json
// @Param        productId  query  string  false  "Filtrar por producto"
// @Param        siteId     query  string  false  "Filtrar por sitio"
// @Param        limit      query  int     false  "Límite"  default(20)
// @Param        offset     query  int     false  "Offset"  default(0)
// @Success      200        {object}  dto.StockListResponse
// @Router       /api/Stocks/GetStocks [get]
func (h *StockHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), c.Query("productId"), c.Query("siteId"), pageFromQuery(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar umbrales de un stock
// @Description  La cantidad disponible solo cambia mediante movimientos.
// @Tags         stocks
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UpdateStockRequest  true  "Umbrales (id requerido)"
// @Success      200   {object}  dto.StockResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/Stocks/UpdateStock [put]
func (h *StockHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateStockRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if in.ID == "" {
		return missingID(c)
	}
	out, err := h.uc.UpdateThresholds(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	if out == nil {
		return notFound(c, "stock")
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar stock
// @Description  Elimina también sus alertas; los movimientos quedan huérfanos.
// @Tags         stocks
// @Security     Bearer
// @Param        id   path  string  true  "ID del stock"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/Stocks/DeleteStock/{id} [delete]
func (h *StockHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return missingID(c)
	}
	if err := h.uc.Delete(c.UserContext(), id); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
