package admin

import (
	"github.com/gin-gonic/gin"

	"github.com/alexlitwinski/realiza-reservas-sub000/internal/common/handler"
	"github.com/alexlitwinski/realiza-reservas-sub000/internal/common/response"
	scheduleService "github.com/alexlitwinski/realiza-reservas-sub000/internal/service/schedule"
)

// CreateWindow creates an opening window
// @Summary Create availability window
// @Tags admin/schedule
// @Accept json
// @Produce json
// @Param request body scheduleService.CreateWindowRequest true "window fields"
// @Success 200 {object} response.Response{data=models.AvailabilityWindow}
// @Router /api/v1/admin/windows [post]
func (h *Handler) CreateWindow(c *gin.Context) {
	var req scheduleService.CreateWindowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	window, err := h.availability.CreateWindow(c.Request.Context(), &req)
	handler.MustSucceed(c, err, window)
}

// UpdateWindow updates an opening window
// @Summary Update availability window
// @Tags admin/schedule
// @Accept json
// @Produce json
// @Param id path int true "window id"
// @Param request body scheduleService.UpdateWindowRequest true "window fields"
// @Success 200 {object} response.Response{data=models.AvailabilityWindow}
// @Router /api/v1/admin/windows/{id} [put]
func (h *Handler) UpdateWindow(c *gin.Context) {
	id, ok := handler.ParseID(c, "window")
	if !ok {
		return
	}

	var req scheduleService.UpdateWindowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	window, err := h.availability.UpdateWindow(c.Request.Context(), id, &req)
	handler.MustSucceed(c, err, window)
}

// DeleteWindow removes an opening window
// @Summary Delete availability window
// @Tags admin/schedule
// @Produce json
// @Param id path int true "window id"
// @Success 200 {object} response.Response
// @Router /api/v1/admin/windows/{id} [delete]
func (h *Handler) DeleteWindow(c *gin.Context) {
	id, ok := handler.ParseID(c, "window")
	if !ok {
		return
	}

	err := h.availability.DeleteWindow(c.Request.Context(), id)
	handler.MustSucceed(c, err, nil)
}

// ListWindows lists a table's opening windows
// @Summary List availability windows
// @Tags admin/schedule
// @Produce json
// @Param id path int true "table id"
// @Success 200 {object} response.Response{data=[]models.AvailabilityWindow}
// @Router /api/v1/admin/tables/{id}/windows [get]
func (h *Handler) ListWindows(c *gin.Context) {
	tableID, ok := handler.ParseID(c, "table")
	if !ok {
		return
	}

	windows, err := h.availability.ListWindows(c.Request.Context(), tableID)
	handler.MustSucceed(c, err, windows)
}

// CopyWeek copies one table's week onto other tables
// @Summary Copy availability week
// @Tags admin/schedule
// @Accept json
// @Produce json
// @Param request body scheduleService.CopyWeekRequest true "copy request"
// @Success 200 {object} response.Response{data=[]scheduleService.CopyWeekResult}
// @Router /api/v1/admin/windows/copy-week [post]
func (h *Handler) CopyWeek(c *gin.Context) {
	var req scheduleService.CopyWeekRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	results, err := h.availability.CopyWeek(c.Request.Context(), &req)
	handler.MustSucceed(c, err, results)
}

// CreateBlock creates a block
// @Summary Create block
// @Tags admin/schedule
// @Accept json
// @Produce json
// @Param request body scheduleService.BlockRequest true "block fields"
// @Success 200 {object} response.Response{data=models.Block}
// @Router /api/v1/admin/blocks [post]
func (h *Handler) CreateBlock(c *gin.Context) {
	var req scheduleService.BlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	block, err := h.blockService.Create(c.Request.Context(), &req)
	handler.MustSucceed(c, err, block)
}

// ListBlocks lists blocks
// @Summary List blocks
// @Tags admin/schedule
// @Produce json
// @Param block_type query string false "table, saloon or restaurant"
// @Param reference_id query int false "target id"
// @Param is_active query bool false "active filter"
// @Param start_date query string false "overlap range start (YYYY-MM-DD)"
// @Param end_date query string false "overlap range end (YYYY-MM-DD)"
// @Param page query int false "page" default(1)
// @Param page_size query int false "page size" default(10)
// @Success 200 {object} response.Response{data=response.PageData}
// @Router /api/v1/admin/blocks [get]
func (h *Handler) ListBlocks(c *gin.Context) {
	p := handler.BindPagination(c)

	referenceID, ok := handler.ParseQueryID(c, "reference_id", "reference")
	if !ok {
		return
	}
	from, to, ok := handler.ParseQueryDateRange(c)
	if !ok {
		return
	}

	filters := map[string]interface{}{}
	if blockType := c.Query("block_type"); blockType != "" {
		filters["block_type"] = blockType
	}
	if referenceID != nil {
		filters["reference_id"] = *referenceID
	}
	if v, ok := parseIsActive(c); ok {
		filters["is_active"] = v
	}
	if from != nil {
		filters["from_date"] = *from
	}
	if to != nil {
		filters["to_date"] = *to
	}

	blocks, total, err := h.blockService.List(c.Request.Context(), p.GetOffset(), p.GetLimit(), filters)
	handler.MustSucceedPage(c, err, blocks, total, p.Page, p.PageSize)
}

// GetBlock fetches a block
// @Summary Get block
// @Tags admin/schedule
// @Produce json
// @Param id path int true "block id"
// @Success 200 {object} response.Response{data=models.Block}
// @Router /api/v1/admin/blocks/{id} [get]
func (h *Handler) GetBlock(c *gin.Context) {
	id, ok := handler.ParseID(c, "block")
	if !ok {
		return
	}

	block, err := h.blockService.Get(c.Request.Context(), id)
	handler.MustSucceed(c, err, block)
}

// UpdateBlock updates a block
// @Summary Update block
// @Tags admin/schedule
// @Accept json
// @Produce json
// @Param id path int true "block id"
// @Param request body scheduleService.BlockRequest true "block fields"
// @Success 200 {object} response.Response{data=models.Block}
// @Router /api/v1/admin/blocks/{id} [put]
func (h *Handler) UpdateBlock(c *gin.Context) {
	id, ok := handler.ParseID(c, "block")
	if !ok {
		return
	}

	var req scheduleService.BlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	block, err := h.blockService.Update(c.Request.Context(), id, &req)
	handler.MustSucceed(c, err, block)
}

// DeleteBlock removes a block
// @Summary Delete block
// @Tags admin/schedule
// @Produce json
// @Param id path int true "block id"
// @Success 200 {object} response.Response
// @Router /api/v1/admin/blocks/{id} [delete]
func (h *Handler) DeleteBlock(c *gin.Context) {
	id, ok := handler.ParseID(c, "block")
	if !ok {
		return
	}

	err := h.blockService.Delete(c.Request.Context(), id)
	handler.MustSucceed(c, err, nil)
}

// PreviewBlockConflicts previews overlapping blocks before saving.
// The list is advisory: saving proceeds regardless.
// @Summary Preview block conflicts
// @Tags admin/schedule
// @Accept json
// @Produce json
// @Param exclude_id query int false "block id to exclude (when editing)"
// @Param request body scheduleService.BlockRequest true "candidate block"
// @Success 200 {object} response.Response{data=[]models.Block}
// @Router /api/v1/admin/blocks/conflicts [post]
func (h *Handler) PreviewBlockConflicts(c *gin.Context) {
	var req scheduleService.BlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	excludeID, ok := handler.ParseQueryID(c, "exclude_id", "block")
	if !ok {
		return
	}
	var exclude int64
	if excludeID != nil {
		exclude = *excludeID
	}

	conflicts, err := h.blockService.FindConflicts(c.Request.Context(), &req, exclude)
	handler.MustSucceed(c, err, conflicts)
}

// ListTableBlocks lists the blocks reaching a table over a date range
// @Summary List blocks affecting a table
// @Tags admin/schedule
// @Produce json
// @Param id path int true "table id"
// @Param start_date query string true "range start (YYYY-MM-DD)"
// @Param end_date query string false "range end, defaults to start"
// @Success 200 {object} response.Response{data=[]models.Block}
// @Router /api/v1/admin/tables/{id}/blocks [get]
func (h *Handler) ListTableBlocks(c *gin.Context) {
	tableID, ok := handler.ParseID(c, "table")
	if !ok {
		return
	}

	start, ok := handler.ParseRequiredQueryDate(c, "start_date")
	if !ok {
		return
	}
	end := start
	if e, ok := handler.ParseQueryDate(c, "end_date", "invalid end_date format"); !ok {
		return
	} else if e != nil {
		end = *e
	}

	blocks, err := h.blockService.ListAffecting(c.Request.Context(), tableID, start, end)
	handler.MustSucceed(c, err, blocks)
}
