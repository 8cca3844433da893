package admin

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/alexlitwinski/realiza-reservas-sub000/internal/common/handler"
	"github.com/alexlitwinski/realiza-reservas-sub000/internal/common/response"
	"github.com/alexlitwinski/realiza-reservas-sub000/internal/common/utils"
	"github.com/alexlitwinski/realiza-reservas-sub000/internal/models"
	reservationService "github.com/alexlitwinski/realiza-reservas-sub000/internal/service/reservation"
)

// CreateReservation books a table on behalf of staff
// @Summary Create reservation
// @Tags admin/reservations
// @Accept json
// @Produce json
// @Param request body reservationService.CreateRequest true "reservation fields"
// @Success 200 {object} response.Response{data=models.Reservation}
// @Router /api/v1/admin/reservations [post]
func (h *Handler) CreateReservation(c *gin.Context) {
	var req reservationService.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	reservation, err := h.reservationService.Create(c.Request.Context(), &req, models.ReservationSourceAdmin)
	handler.MustSucceed(c, err, reservation)
}

// ListReservations lists reservations
// @Summary List reservations
// @Tags admin/reservations
// @Produce json
// @Param table_id query int false "table filter"
// @Param status query string false "status filter"
// @Param source query string false "admin or portal"
// @Param code query string false "code search"
// @Param customer_email query string false "customer email"
// @Param customer_name query string false "customer name search"
// @Param date query string false "exact date (YYYY-MM-DD)"
// @Param start_date query string false "range start"
// @Param end_date query string false "range end"
// @Param sort_by query string false "sort column" default(reservation_date)
// @Param sort_dir query string false "asc or desc" default(asc)
// @Param page query int false "page" default(1)
// @Param page_size query int false "page size" default(10)
// @Success 200 {object} response.Response{data=response.PageData}
// @Router /api/v1/admin/reservations [get]
func (h *Handler) ListReservations(c *gin.Context) {
	p := handler.BindPagination(c)

	tableID, ok := handler.ParseQueryID(c, "table_id", "table")
	if !ok {
		return
	}
	date, ok := handler.ParseQueryDate(c, "date", "invalid date format, expected YYYY-MM-DD")
	if !ok {
		return
	}
	start, end, ok := handler.ParseQueryDateRange(c)
	if !ok {
		return
	}

	filters := map[string]interface{}{}
	if tableID != nil {
		filters["table_id"] = *tableID
	}
	if status := c.Query("status"); status != "" {
		filters["status"] = status
	}
	if source := c.Query("source"); source != "" {
		filters["source"] = source
	}
	if code := c.Query("code"); code != "" {
		filters["code"] = code
	}
	if email := c.Query("customer_email"); email != "" {
		filters["customer_email"] = email
	}
	if name := c.Query("customer_name"); name != "" {
		filters["customer_name"] = name
	}
	if date != nil {
		filters["date"] = *date
	}
	if start != nil {
		filters["start_date"] = *start
	}
	if end != nil {
		filters["end_date"] = *end
	}

	sortBy := c.DefaultQuery("sort_by", "reservation_date")
	sortDir := c.DefaultQuery("sort_dir", "asc")

	reservations, total, err := h.reservationService.List(
		c.Request.Context(), p.GetOffset(), p.GetLimit(), filters, sortBy, sortDir)
	handler.MustSucceedPage(c, err, reservations, total, p.Page, p.PageSize)
}

// GetReservation fetches a reservation
// @Summary Get reservation
// @Tags admin/reservations
// @Produce json
// @Param id path int true "reservation id"
// @Success 200 {object} response.Response{data=models.Reservation}
// @Router /api/v1/admin/reservations/{id} [get]
func (h *Handler) GetReservation(c *gin.Context) {
	id, ok := handler.ParseID(c, "reservation")
	if !ok {
		return
	}

	reservation, err := h.reservationService.Get(c.Request.Context(), id)
	handler.MustSucceed(c, err, reservation)
}

// UpdateReservation edits a reservation, rechecking the slot
// @Summary Update reservation
// @Tags admin/reservations
// @Accept json
// @Produce json
// @Param id path int true "reservation id"
// @Param request body reservationService.UpdateRequest true "fields to change"
// @Success 200 {object} response.Response{data=models.Reservation}
// @Router /api/v1/admin/reservations/{id} [put]
func (h *Handler) UpdateReservation(c *gin.Context) {
	id, ok := handler.ParseID(c, "reservation")
	if !ok {
		return
	}

	var req reservationService.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	reservation, err := h.reservationService.Update(c.Request.Context(), id, &req)
	handler.MustSucceed(c, err, reservation)
}

// UpdateStatusRequest carries a status change.
type UpdateStatusRequest struct {
	Status string  `json:"status" binding:"required"`
	Reason *string `json:"reason"`
}

// UpdateReservationStatus moves a reservation through the status machine
// @Summary Update reservation status
// @Tags admin/reservations
// @Accept json
// @Produce json
// @Param id path int true "reservation id"
// @Param request body UpdateStatusRequest true "target status"
// @Success 200 {object} response.Response{data=models.Reservation}
// @Router /api/v1/admin/reservations/{id}/status [put]
func (h *Handler) UpdateReservationStatus(c *gin.Context) {
	id, ok := handler.ParseID(c, "reservation")
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	reservation, err := h.reservationService.UpdateStatus(
		c.Request.Context(), id, req.Status, models.ActorStaff, req.Reason)
	handler.MustSucceed(c, err, reservation)
}

// ListAvailableTables lists tables free for a slot
// @Summary List available tables
// @Tags admin/reservations
// @Produce json
// @Param date query string true "date (YYYY-MM-DD)"
// @Param time query string true "start time (HH:MM)"
// @Param guests query int true "party size"
// @Param duration_min query int false "duration, defaults to the configured one"
// @Param saloon_id query int false "saloon filter"
// @Param area_id query int false "area filter"
// @Param ignore_rules query bool false "skip schedule and block checks"
// @Success 200 {object} response.Response{data=[]models.DiningTable}
// @Router /api/v1/admin/reservations/available-tables [get]
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

	duration := 0
	if raw := c.Query("duration_min"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			duration = v
		}
	}

	saloonID, ok := handler.ParseQueryID(c, "saloon_id", "saloon")
	if !ok {
		return
	}
	areaID, ok := handler.ParseQueryID(c, "area_id", "area")
	if !ok {
		return
	}

	ignoreRules, _ := strconv.ParseBool(c.DefaultQuery("ignore_rules", "false"))

	tables, err := h.reservationService.GetAvailableTables(
		c.Request.Context(), date, startTime, duration, guests, saloonID, areaID, ignoreRules)
	handler.MustSucceed(c, err, tables)
}
