// Package public provides the customer-facing HTTP handlers. None of
// these endpoints require authentication; reservations are addressed by
// code plus customer email.
package public

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/alexlitwinski/realiza-reservas-sub000/internal/common/handler"
	"github.com/alexlitwinski/realiza-reservas-sub000/internal/common/response"
	"github.com/alexlitwinski/realiza-reservas-sub000/internal/common/utils"
	"github.com/alexlitwinski/realiza-reservas-sub000/internal/models"
	catalogService "github.com/alexlitwinski/realiza-reservas-sub000/internal/service/catalog"
	reservationService "github.com/alexlitwinski/realiza-reservas-sub000/internal/service/reservation"
)

// Handler bundles the portal endpoints.
type Handler struct {
	areaService        *catalogService.AreaService
	saloonService      *catalogService.SaloonService
	reservationService *reservationService.Service
}

// NewHandler creates the portal handler.
func NewHandler(
	areaSvc *catalogService.AreaService,
	saloonSvc *catalogService.SaloonService,
	reservationSvc *reservationService.Service,
) *Handler {
	return &Handler{
		areaService:        areaSvc,
		saloonService:      saloonSvc,
		reservationService: reservationSvc,
	}
}

// ListAreas lists active areas
// @Summary List areas
// @Tags public
// @Produce json
// @Success 200 {object} response.Response{data=[]models.Area}
// @Router /api/v1/public/areas [get]
func (h *Handler) ListAreas(c *gin.Context) {
	areas, err := h.areaService.ListActive(c.Request.Context())
	handler.MustSucceed(c, err, areas)
}

// ListSaloons lists active saloons
// @Summary List saloons
// @Tags public
// @Produce json
// @Param area_id query int false "area filter"
// @Success 200 {object} response.Response{data=[]models.Saloon}
// @Router /api/v1/public/saloons [get]
func (h *Handler) ListSaloons(c *gin.Context) {
	areaID, ok := handler.ParseQueryID(c, "area_id", "area")
	if !ok {
		return
	}

	saloons, err := h.saloonService.ListActive(c.Request.Context(), areaID)
	handler.MustSucceed(c, err, saloons)
}

// ListDaySlots builds the time picker for a day
// @Summary List day slots
// @Tags public
// @Produce json
// @Param date query string true "date (YYYY-MM-DD)"
// @Param guests query int true "party size"
// @Param table_id query int false "table filter"
// @Param saloon_id query int false "saloon filter"
// @Param area_id query int false "area filter"
// @Success 200 {object} response.Response{data=[]reservationService.DaySlot}
// @Router /api/v1/public/slots [get]
func (h *Handler) ListDaySlots(c *gin.Context) {
	date, ok := handler.ParseRequiredQueryDate(c, "date")
	if !ok {
		return
	}

	guests, err := strconv.Atoi(c.Query("guests"))
	if err != nil || guests <= 0 {
		response.BadRequest(c, "invalid guests count")
		return
	}

	tableID, ok := handler.ParseQueryID(c, "table_id", "table")
	if !ok {
		return
	}
	saloonID, ok := handler.ParseQueryID(c, "saloon_id", "saloon")
	if !ok {
		return
	}
	areaID, ok := handler.ParseQueryID(c, "area_id", "area")
	if !ok {
		return
	}

	slots, err := h.reservationService.ListDaySlots(c.Request.Context(), &reservationService.DaySlotsRequest{
		Date:     date,
		Guests:   guests,
		TableID:  tableID,
		SaloonID: saloonID,
		AreaID:   areaID,
	})
	handler.MustSucceed(c, err, slots)
}

// ListAvailableTables lists tables free for a slot
// @Summary List available tables
// @Tags public
// @Produce json
// @Param date query string true "date (YYYY-MM-DD)"
// @Param time query string true "start time (HH:MM)"
// @Param guests query int true "party size"
// @Param saloon_id query int false "saloon filter"
// @Param area_id query int false "area filter"
// @Success 200 {object} response.Response{data=[]models.DiningTable}
// @Router /api/v1/public/tables/available [get]
func (h *Handler) ListAvailableTables(c *gin.Context) {
	date, ok := handler.ParseRequiredQueryDate(c, "date")
	if !ok {
		return
	}

	startTime := c.Query("time")
	if !utils.ValidTimeOfDay(startTime) {
		response.BadRequest(c, "invalid time, expected HH:MM")
		return
	}

	guests, err := strconv.Atoi(c.Query("guests"))
	if err != nil || guests <= 0 {
		response.BadRequest(c, "invalid guests count")
		return
	}

	saloonID, ok := handler.ParseQueryID(c, "saloon_id", "saloon")
	if !ok {
		return
	}
	areaID, ok := handler.ParseQueryID(c, "area_id", "area")
	if !ok {
		return
	}

	tables, err := h.reservationService.GetAvailableTables(
		c.Request.Context(), date, startTime, 0, guests, saloonID, areaID, false)
	handler.MustSucceed(c, err, tables)
}

// CreateReservation books a table from the portal. The reservation
// starts pending; staff confirm it later.
// @Summary Create reservation
// @Tags public
// @Accept json
// @Produce json
// @Param request body reservationService.CreateRequest true "reservation fields"
// @Success 200 {object} response.Response{data=models.Reservation}
// @Router /api/v1/public/reservations [post]
func (h *Handler) CreateReservation(c *gin.Context) {
	var req reservationService.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	reservation, err := h.reservationService.Create(c.Request.Context(), &req, models.ReservationSourcePortal)
	handler.MustSucceed(c, err, reservation)
}

// ListMyReservations lists a customer's reservations by email
// @Summary List my reservations
// @Tags public
// @Produce json
// @Param email query string true "customer email"
// @Param page query int false "page" default(1)
// @Param page_size query int false "page size" default(10)
// @Success 200 {object} response.Response{data=response.PageData}
// @Router /api/v1/public/my-reservations [get]
func (h *Handler) ListMyReservations(c *gin.Context) {
	email := c.Query("email")
	if !utils.ValidateEmail(email) {
		response.BadRequest(c, "invalid email")
		return
	}

	p := handler.BindPagination(c)

	reservations, total, err := h.reservationService.ListByEmail(
		c.Request.Context(), email, p.GetOffset(), p.GetLimit())
	handler.MustSucceedPage(c, err, reservations, total, p.Page, p.PageSize)
}

// GetReservation looks up a reservation by code and email
// @Summary Get reservation
// @Tags public
// @Produce json
// @Param code path string true "reservation code"
// @Param email query string true "customer email"
// @Success 200 {object} response.Response{data=models.Reservation}
// @Router /api/v1/public/reservations/{code} [get]
func (h *Handler) GetReservation(c *gin.Context) {
	code := c.Param("code")
	email := c.Query("email")
	if !utils.ValidateEmail(email) {
		response.BadRequest(c, "invalid email")
		return
	}

	reservation, err := h.reservationService.LookupByCodeAndEmail(c.Request.Context(), code, email)
	handler.MustSucceed(c, err, reservation)
}

// CancelRequest carries a customer cancellation.
type CancelRequest struct {
	Email  string  `json:"email" binding:"required"`
	Reason *string `json:"reason"`
}

// CancelReservation cancels the customer's own reservation
// @Summary Cancel reservation
// @Tags public
// @Accept json
// @Produce json
// @Param code path string true "reservation code"
// @Param request body CancelRequest true "email and optional reason"
// @Success 200 {object} response.Response{data=models.Reservation}
// @Router /api/v1/public/reservations/{code}/cancel [post]
func (h *Handler) CancelReservation(c *gin.Context) {
	code := c.Param("code")

	var req CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if !utils.ValidateEmail(req.Email) {
		response.BadRequest(c, "invalid email")
		return
	}

	reservation, err := h.reservationService.CustomerCancel(c.Request.Context(), code, req.Email, req.Reason)
	handler.MustSucceed(c, err, reservation)
}

// RegisterRoutes mounts the portal API.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/areas", h.ListAreas)
	r.GET("/saloons", h.ListSaloons)
	r.GET("/slots", h.ListDaySlots)
	r.GET("/tables/available", h.ListAvailableTables)

	reservations := r.Group("/reservations")
	{
		reservations.POST("", h.CreateReservation)
		reservations.GET("/:code", h.GetReservation)
		reservations.POST("/:code/cancel", h.CancelReservation)
	}

	r.GET("/my-reservations", h.ListMyReservations)
}
