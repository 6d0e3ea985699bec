package http

import (
	nethttp "net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/jhoicas/gestion-stock/internal/application/alerting"
	"github.com/jhoicas/gestion-stock/internal/application/auth"
	"github.com/jhoicas/gestion-stock/internal/application/inventory"
	"github.com/jhoicas/gestion-stock/internal/application/usecase"
	"github.com/jhoicas/gestion-stock/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	MovementUC *inventory.MovementUseCase
	StockUC    *usecase.StockUseCase
	ProductUC  *usecase.ProductUseCase
	CategoryUC *usecase.CategoryUseCase
	SiteUC     *usecase.SiteUseCase
	UserUC     *usecase.UserUseCase
	RoleUC     *usecase.RoleUseCase
	AlertUC    *alerting.AlertUseCase
	AuthUC     *auth.AuthUseCase
	Metrics    nethttp.Handler // opcional: GET /metrics
	JWTSecret  string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	if deps.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics))
	}

	api := app.Group("/api")

	// Auth (público)
	if deps.AuthUC != nil {
		authHandler := NewAuthHandler(deps.AuthUC)
		api.Post("/Authentification/login", authHandler.Login)
	}

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	anyRole := RequireRole(entity.RoleAdmin, entity.RoleStockManager, entity.RoleOperator)
	managers := RequireRole(entity.RoleAdmin, entity.RoleStockManager)
	adminOnly := RequireRole(entity.RoleAdmin)

	// Movimientos: los tres roles
	if deps.MovementUC != nil {
		movements := protected.Group("/StockMovements", anyRole)
		h := NewMovementHandler(deps.MovementUC)
		movements.Get("/GetStockMovements", h.List)
		movements.Get("/GetStockMovement/:id", h.GetByID)
		movements.Post("/AddStockMovement", h.Add)
		movements.Put("/UpdateStockMovement", h.Update)
		movements.Delete("/DeleteStockMovement/:id", h.Delete)
	}

	if deps.StockUC != nil {
		stocks := protected.Group("/Stocks", anyRole)
		h := NewStockHandler(deps.StockUC)
		stocks.Get("/GetStocks", h.List)
		stocks.Get("/GetStock/:id", h.GetByID)
		stocks.Post("/AddStock", managers, h.Create)
		stocks.Put("/UpdateStock", managers, h.Update)
		stocks.Delete("/DeleteStock/:id", managers, h.Delete)
	}

	if deps.ProductUC != nil {
		products := protected.Group("/Products", anyRole)
		h := NewProductHandler(deps.ProductUC)
		products.Get("/GetProducts", h.List)
		products.Get("/GetProduct/:id", h.GetByID)
		products.Post("/AddProduct", managers, h.Create)
		products.Put("/UpdateProduct", managers, h.Update)
		products.Delete("/DeleteProduct/:id", managers, h.Delete)
	}

	if deps.CategoryUC != nil {
		categories := protected.Group("/Categories", anyRole)
		h := NewCategoryHandler(deps.CategoryUC)
		categories.Get("/GetCategories", h.List)
		categories.Get("/GetCategory/:id", h.GetByID)
		categories.Post("/AddCategory", managers, h.Create)
		categories.Put("/UpdateCategory", managers, h.Update)
		categories.Delete("/DeleteCategory/:id", managers, h.Delete)
	}

	if deps.SiteUC != nil {
		sites := protected.Group("/Sites", anyRole)
		h := NewSiteHandler(deps.SiteUC)
		sites.Get("/GetSites", h.List)
		sites.Get("/GetSite/:id", h.GetByID)
		sites.Post("/AddSite", managers, h.Create)
		sites.Put("/UpdateSite", managers, h.Update)
		sites.Delete("/DeleteSite/:id", managers, h.Delete)
	}

	if deps.AlertUC != nil {
		alerts := protected.Group("/Alerts", anyRole)
		h := NewAlertHandler(deps.AlertUC)
		alerts.Get("/GetAlerts", h.List)
		alerts.Get("/GetAlert/:id", h.GetByID)
		alerts.Get("/ExportAlerts", h.Export)
		alerts.Put("/ResolveAlert/:id", managers, h.Resolve)
		alerts.Delete("/DeleteAlert/:id", managers, h.Delete)
	}

	// Usuarios y roles: solo admin
	if deps.UserUC != nil {
		users := protected.Group("/Users", adminOnly)
		h := NewUserHandler(deps.UserUC)
		users.Get("/GetUsers", h.List)
		users.Get("/GetUser/:id", h.GetByID)
		users.Post("/AddUser", h.Create)
		users.Put("/UpdateUser", h.Update)
		users.Delete("/DeleteUser/:id", h.Delete)
	}

	if deps.RoleUC != nil {
		roles := protected.Group("/Roles", adminOnly)
		h := NewRoleHandler(deps.RoleUC)
		roles.Get("/GetRoles", h.List)
		roles.Get("/GetRole/:id", h.GetByID)
		roles.Post("/AddRole", h.Create)
		roles.Put("/UpdateRole", h.Update)
		roles.Delete("/DeleteRole/:id", h.Delete)
	}
}
