// Package admin provides the staff-facing HTTP handlers.
package admin

import (
	"github.com/gin-gonic/gin"

	catalogService "github.com/alexlitwinski/realiza-reservas-sub000/internal/service/catalog"
	reservationService "github.com/alexlitwinski/realiza-reservas-sub000/internal/service/reservation"
	scheduleService "github.com/alexlitwinski/realiza-reservas-sub000/internal/service/schedule"
)

// Handler bundles the admin endpoints.
type Handler struct {
	areaService        *catalogService.AreaService
	saloonService      *catalogService.SaloonService
	tableService       *catalogService.TableService
	availability       *scheduleService.AvailabilityService
	blockService       *scheduleService.BlockService
	reservationService *reservationService.Service
}

// NewHandler creates the admin handler.
func NewHandler(
	areaSvc *catalogService.AreaService,
	saloonSvc *catalogService.SaloonService,
	tableSvc *catalogService.TableService,
	availability *scheduleService.AvailabilityService,
	blockSvc *scheduleService.BlockService,
	reservationSvc *reservationService.Service,
) *Handler {
	return &Handler{
		areaService:        areaSvc,
		saloonService:      saloonSvc,
		tableService:       tableSvc,
		availability:       availability,
		blockService:       blockSvc,
		reservationService: reservationSvc,
	}
}

// RegisterRoutes mounts the admin API.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	areas := r.Group("/areas")
	{
		areas.POST("", h.CreateArea)
		areas.GET("", h.ListAreas)
		areas.GET("/:id", h.GetArea)
		areas.PUT("/:id", h.UpdateArea)
		areas.DELETE("/:id", h.DeleteArea)
	}

	saloons := r.Group("/saloons")
	{
		saloons.POST("", h.CreateSaloon)
		saloons.GET("", h.ListSaloons)
		saloons.GET("/:id", h.GetSaloon)
		saloons.PUT("/:id", h.UpdateSaloon)
		saloons.DELETE("/:id", h.DeleteSaloon)
	}

	tables := r.Group("/tables")
	{
		tables.POST("", h.CreateTable)
		tables.GET("", h.ListTables)
		tables.GET("/:id", h.GetTable)
		tables.PUT("/:id", h.UpdateTable)
		tables.DELETE("/:id", h.DeleteTable)
		tables.GET("/:id/windows", h.ListWindows)
		tables.GET("/:id/blocks", h.ListTableBlocks)
	}

	windows := r.Group("/windows")
	{
		windows.POST("", h.CreateWindow)
		windows.PUT("/:id", h.UpdateWindow)
		windows.DELETE("/:id", h.DeleteWindow)
		windows.POST("/copy-week", h.CopyWeek)
	}

	blocks := r.Group("/blocks")
	{
		blocks.POST("", h.CreateBlock)
		blocks.GET("", h.ListBlocks)
		blocks.GET("/:id", h.GetBlock)
		blocks.PUT("/:id", h.UpdateBlock)
		blocks.DELETE("/:id", h.DeleteBlock)
		blocks.POST("/conflicts", h.PreviewBlockConflicts)
	}

	reservations := r.Group("/reservations")
	{
		reservations.POST("", h.CreateReservation)
		reservations.GET("", h.ListReservations)
		reservations.GET("/available-tables", h.ListAvailableTables)
		reservations.GET("/:id", h.GetReservation)
		reservations.PUT("/:id", h.UpdateReservation)
		reservations.PUT("/:id/status", h.UpdateReservationStatus)
	}
}
