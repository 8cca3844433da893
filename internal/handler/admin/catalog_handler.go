package admin

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/alexlitwinski/realiza-reservas-sub000/internal/common/handler"
	"github.com/alexlitwinski/realiza-reservas-sub000/internal/common/response"
	catalogService "github.com/alexlitwinski/realiza-reservas-sub000/internal/service/catalog"
)

// parseIsActive reads an optional is_active query filter.
func parseIsActive(c *gin.Context) (bool, bool) {
	raw := c.Query("is_active")
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}

// CreateArea creates an area
// @Summary Create area
// @Tags admin/catalog
// @Accept json
// @Produce json
// @Param request body catalogService.CreateAreaRequest true "area fields"
// @Success 200 {object} response.Response{data=models.Area}
// @Router /api/v1/admin/areas [post]
func (h *Handler) CreateArea(c *gin.Context) {
	var req catalogService.CreateAreaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	area, err := h.areaService.Create(c.Request.Context(), &req)
	handler.MustSucceed(c, err, area)
}

// ListAreas lists areas
// @Summary List areas
// @Tags admin/catalog
// @Produce json
// @Param name query string false "name filter"
// @Param is_active query bool false "active filter"
// @Param page query int false "page" default(1)
// @Param page_size query int false "page size" default(10)
// @Success 200 {object} response.Response{data=response.PageData}
// @Router /api/v1/admin/areas [get]
func (h *Handler) ListAreas(c *gin.Context) {
	p := handler.BindPagination(c)

	filters := map[string]interface{}{}
	if name := c.Query("name"); name != "" {
		filters["name"] = name
	}
	if v, ok := parseIsActive(c); ok {
		filters["is_active"] = v
	}

	areas, total, err := h.areaService.List(c.Request.Context(), p.GetOffset(), p.GetLimit(), filters)
	handler.MustSucceedPage(c, err, areas, total, p.Page, p.PageSize)
}

// GetArea fetches an area
// @Summary Get area
// @Tags admin/catalog
// @Produce json
// @Param id path int true "area id"
// @Success 200 {object} response.Response{data=models.Area}
// @Router /api/v1/admin/areas/{id} [get]
func (h *Handler) GetArea(c *gin.Context) {
	id, ok := handler.ParseID(c, "area")
	if !ok {
		return
	}

	area, err := h.areaService.Get(c.Request.Context(), id)
	handler.MustSucceed(c, err, area)
}

// UpdateArea updates an area
// @Summary Update area
// @Tags admin/catalog
// @Accept json
// @Produce json
// @Param id path int true "area id"
// @Param request body catalogService.UpdateAreaRequest true "area fields"
// @Success 200 {object} response.Response{data=models.Area}
// @Router /api/v1/admin/areas/{id} [put]
func (h *Handler) UpdateArea(c *gin.Context) {
	id, ok := handler.ParseID(c, "area")
	if !ok {
		return
	}

	var req catalogService.UpdateAreaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	area, err := h.areaService.Update(c.Request.Context(), id, &req)
	handler.MustSucceed(c, err, area)
}

// DeleteArea removes an area
// @Summary Delete area
// @Tags admin/catalog
// @Produce json
// @Param id path int true "area id"
// @Success 200 {object} response.Response
// @Router /api/v1/admin/areas/{id} [delete]
func (h *Handler) DeleteArea(c *gin.Context) {
	id, ok := handler.ParseID(c, "area")
	if !ok {
		return
	}

	err := h.areaService.Delete(c.Request.Context(), id)
	handler.MustSucceed(c, err, nil)
}

// CreateSaloon creates a saloon
// @Summary Create saloon
// @Tags admin/catalog
// @Accept json
// @Produce json
// @Param request body catalogService.CreateSaloonRequest true "saloon fields"
// @Success 200 {object} response.Response{data=models.Saloon}
// @Router /api/v1/admin/saloons [post]
func (h *Handler) CreateSaloon(c *gin.Context) {
	var req catalogService.CreateSaloonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	saloon, err := h.saloonService.Create(c.Request.Context(), &req)
	handler.MustSucceed(c, err, saloon)
}

// ListSaloons lists saloons
// @Summary List saloons
// @Tags admin/catalog
// @Produce json
// @Param area_id query int false "area filter"
// @Param name query string false "name filter"
// @Param is_active query bool false "active filter"
// @Param page query int false "page" default(1)
// @Param page_size query int false "page size" default(10)
// @Success 200 {object} response.Response{data=response.PageData}
// @Router /api/v1/admin/saloons [get]
func (h *Handler) ListSaloons(c *gin.Context) {
	p := handler.BindPagination(c)

	areaID, ok := handler.ParseQueryID(c, "area_id", "area")
	if !ok {
		return
	}

	filters := map[string]interface{}{}
	if areaID != nil {
		filters["area_id"] = *areaID
	}
	if name := c.Query("name"); name != "" {
		filters["name"] = name
	}
	if v, ok := parseIsActive(c); ok {
		filters["is_active"] = v
	}

	saloons, total, err := h.saloonService.List(c.Request.Context(), p.GetOffset(), p.GetLimit(), filters)
	handler.MustSucceedPage(c, err, saloons, total, p.Page, p.PageSize)
}

// GetSaloon fetches a saloon
// @Summary Get saloon
// @Tags admin/catalog
// @Produce json
// @Param id path int true "saloon id"
// @Success 200 {object} response.Response{data=models.Saloon}
// @Router /api/v1/admin/saloons/{id} [get]
func (h *Handler) GetSaloon(c *gin.Context) {
	id, ok := handler.ParseID(c, "saloon")
	if !ok {
		return
	}

	saloon, err := h.saloonService.Get(c.Request.Context(), id)
	handler.MustSucceed(c, err, saloon)
}

// UpdateSaloon updates a saloon
// @Summary Update saloon
// @Tags admin/catalog
// @Accept json
// @Produce json
// @Param id path int true "saloon id"
// @Param request body catalogService.UpdateSaloonRequest true "saloon fields"
// @Success 200 {object} response.Response{data=models.Saloon}
// @Router /api/v1/admin/saloons/{id} [put]
func (h *Handler) UpdateSaloon(c *gin.Context) {
	id, ok := handler.ParseID(c, "saloon")
	if !ok {
		return
	}

	var req catalogService.UpdateSaloonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	saloon, err := h.saloonService.Update(c.Request.Context(), id, &req)
	handler.MustSucceed(c, err, saloon)
}

// DeleteSaloon removes a saloon
// @Summary Delete saloon
// @Tags admin/catalog
// @Produce json
// @Param id path int true "saloon id"
// @Success 200 {object} response.Response
// @Router /api/v1/admin/saloons/{id} [delete]
func (h *Handler) DeleteSaloon(c *gin.Context) {
	id, ok := handler.ParseID(c, "saloon")
	if !ok {
		return
	}

	err := h.saloonService.Delete(c.Request.Context(), id)
	handler.MustSucceed(c, err, nil)
}

// CreateTable creates a table
// @Summary Create table
// @Tags admin/catalog
// @Accept json
// @Produce json
// @Param request body catalogService.CreateTableRequest true "table fields"
// @Success 200 {object} response.Response{data=models.DiningTable}
// @Router /api/v1/admin/tables [post]
func (h *Handler) CreateTable(c *gin.Context) {
	var req catalogService.CreateTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	table, err := h.tableService.Create(c.Request.Context(), &req)
	handler.MustSucceed(c, err, table)
}

// ListTables lists tables
// @Summary List tables
// @Tags admin/catalog
// @Produce json
// @Param saloon_id query int false "saloon filter"
// @Param name query string false "name filter"
// @Param is_active query bool false "active filter"
// @Param min_capacity query int false "minimum capacity"
// @Param page query int false "page" default(1)
// @Param page_size query int false "page size" default(10)
// @Success 200 {object} response.Response{data=response.PageData}
// @Router /api/v1/admin/tables [get]
func (h *Handler) ListTables(c *gin.Context) {
	p := handler.BindPagination(c)

	saloonID, ok := handler.ParseQueryID(c, "saloon_id", "saloon")
	if !ok {
		return
	}

	filters := map[string]interface{}{}
	if saloonID != nil {
		filters["saloon_id"] = *saloonID
	}
	if name := c.Query("name"); name != "" {
		filters["name"] = name
	}
	if v, ok := parseIsActive(c); ok {
		filters["is_active"] = v
	}
	if raw := c.Query("min_capacity"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			filters["min_capacity"] = v
		}
	}

	tables, total, err := h.tableService.List(c.Request.Context(), p.GetOffset(), p.GetLimit(), filters)
	handler.MustSucceedPage(c, err, tables, total, p.Page, p.PageSize)
}

// GetTable fetches a table
// @Summary Get table
// @Tags admin/catalog
// @Produce json
// @Param id path int true "table id"
// @Success 200 {object} response.Response{data=models.DiningTable}
// @Router /api/v1/admin/tables/{id} [get]
func (h *Handler) GetTable(c *gin.Context) {
	id, ok := handler.ParseID(c, "table")
	if !ok {
		return
	}

	table, err := h.tableService.Get(c.Request.Context(), id)
	handler.MustSucceed(c, err, table)
}

// UpdateTable updates a table
// @Summary Update table
// @Tags admin/catalog
// @Accept json
// @Produce json
// @Param id path int true "table id"
// @Param request body catalogService.UpdateTableRequest true "table fields"
// @Success 200 {object} response.Response{data=models.DiningTable}
// @Router /api/v1/admin/tables/{id} [put]
func (h *Handler) UpdateTable(c *gin.Context) {
	id, ok := handler.ParseID(c, "table")
	if !ok {
		return
	}

	var req catalogService.UpdateTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	table, err := h.tableService.Update(c.Request.Context(), id, &req)
	handler.MustSucceed(c, err, table)
}

// DeleteTable removes a table and its windows
// @Summary Delete table
// @Tags admin/catalog
// @Produce json
// @Param id path int true "table id"
// @Success 200 {object} response.Response
// @Router /api/v1/admin/tables/{id} [delete]
func (h *Handler) DeleteTable(c *gin.Context) {
	id, ok := handler.ParseID(c, "table")
	if !ok {
		return
	}

	err := h.tableService.Delete(c.Request.Context(), id)
	handler.MustSucceed(c, err, nil)
}
