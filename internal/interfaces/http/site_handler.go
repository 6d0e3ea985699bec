package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/gestion-stock/internal/application/dto"
	"github.com/jhoicas/gestion-stock/internal/application/usecase"
)

// SiteHandler maneja las peticiones HTTP para Site (protegido).
type SiteHandler struct {
	uc *usecase.SiteUseCase
}

// NewSiteHandler construye el handler.
func NewSiteHandler(uc *usecase.SiteUseCase) *SiteHandler {
	return &SiteHandler{uc: uc}
}

// Create godoc
// @Summary      Crear sitio
// @Tags         sites
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSiteRequest  true  "Datos del sitio"
// @Success      201   {object}  dto.SiteResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/Sites/AddSite [post]
func (h *SiteHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSiteRequest
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
// @Summary      Obtener sitio por ID
// @Tags         sites
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del sitio"
// @Success      200  {object}  dto.SiteResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/Sites/GetSite/{id} [get]
func (h *SiteHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return missingID(c)
	}
	out, err := h.uc.GetByID(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	if out == nil {
		return notFound(c, "sitio")
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar sitios
// @Tags         sites
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"   default(20)
// @Param        offset  query  int  false  "Offset"   default(0)
// @Success      200     {object}  dto.SiteListResponse
// @Router       /api/Sites/GetSites [get]
func (h *SiteHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), pageFromQuery(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar sitio
// @Tags         sites
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UpdateSiteRequest  true  "Datos a actualizar (id requerido)"
// @Success      200   {object}  dto.SiteResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/Sites/UpdateSite [put]
func (h *SiteHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateSiteRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if in.ID == "" {
		return missingID(c)
	}
	out, err := h.uc.Update(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	if out == nil {
		return notFound(c, "sitio")
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar sitio
// @Tags         sites
// @Security     Bearer
// @Param        id   path  string  true  "ID del sitio"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/Sites/DeleteSite/{id} [delete]
func (h *SiteHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return missingID(c)
	}
	if err := h.uc.Delete(c.UserContext(), id); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
