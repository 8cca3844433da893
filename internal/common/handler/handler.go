// Package handler provides shared helpers for API handlers.
// It removes repetition around error handling, parameter parsing and
// pagination binding.
package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/alexlitwinski/realiza-reservas-sub000/internal/common/errors"
	"github.com/alexlitwinski/realiza-reservas-sub000/internal/common/response"
	"github.com/alexlitwinski/realiza-reservas-sub000/internal/common/utils"
)

// HandleError sends an error response when err is non-nil.
// Returns true when a response was sent and the caller should return.
//
// Usage:
//
//	result, err := service.DoSomething()
//	if handler.HandleError(c, err) {
//	    return
//	}
func HandleError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}
	if appErr, ok := err.(*errors.AppError); ok {
		response.Error(c, appErr.Code, appErr.Message)
		return true
	}
	response.InternalError(c, err.Error())
	return true
}

// HandleErrorWithMessage handles an error, hiding non-AppError details
// behind a custom message.
func HandleErrorWithMessage(c *gin.Context, err error, message string) bool {
	if err == nil {
		return false
	}
	if appErr, ok := err.(*errors.AppError); ok {
		response.Error(c, appErr.Code, appErr.Message)
		return true
	}
	response.InternalError(c, message)
	return true
}

// MustSucceed sends either the error or a success response with data.
// The caller must return after calling it.
//
// Usage:
//
//	result, err := service.GetData()
//	handler.MustSucceed(c, err, result)
//	return
func MustSucceed(c *gin.Context, err error, data interface{}) {
	if HandleError(c, err) {
		return
	}
	response.Success(c, data)
}

// MustSucceedWithMessage is MustSucceed with a custom success message.
func MustSucceedWithMessage(c *gin.Context, err error, message string, data interface{}) {
	if HandleError(c, err) {
		return
	}
	response.SuccessWithMessage(c, message, data)
}

// MustSucceedPage is the paginated variant of MustSucceed.
//
// Usage:
//
//	list, total, err := service.GetList(offset, limit)
//	handler.MustSucceedPage(c, err, list, total, p.Page, p.PageSize)
//	return
func MustSucceedPage(c *gin.Context, err error, list interface{}, total int64, page, pageSize int) {
	if HandleError(c, err) {
		return
	}
	response.SuccessPage(c, list, total, page, pageSize)
}

// ParseID parses the "id" path parameter as int64.
// Returns (0, false) after sending a 400 response on failure.
//
// Usage:
//
//	id, ok := handler.ParseID(c, "reservation")
//	if !ok {
//	    return
//	}
func ParseID(c *gin.Context, resourceName string) (int64, bool) {
	return ParseParamID(c, "id", resourceName)
}

// ParseParamID parses a named path parameter as int64.
// resourceName is used in the error message ("table", "saloon").
func ParseParamID(c *gin.Context, paramName, resourceName string) (int64, bool) {
	idStr := c.Param(paramName)
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid "+resourceName+" id")
		return 0, false
	}
	return id, true
}

// ParseQueryID parses an optional ID query parameter.
// Returns (nil, true) when the parameter is absent,
// (nil, false) after a 400 response when it does not parse.
func ParseQueryID(c *gin.Context, paramName, resourceName string) (*int64, bool) {
	idStr := c.Query(paramName)
	if idStr == "" {
		return nil, true
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid "+resourceName+" id")
		return nil, false
	}
	return &id, true
}

// ParseRequiredQueryID parses a required ID query parameter.
func ParseRequiredQueryID(c *gin.Context, paramName, resourceName string) (int64, bool) {
	idStr := c.Query(paramName)
	if idStr == "" {
		response.BadRequest(c, resourceName+" id is required")
		return 0, false
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid "+resourceName+" id")
		return 0, false
	}
	return id, true
}

// ParseQueryDate parses an optional YYYY-MM-DD query parameter.
// Returns (nil, true) when absent, (nil, false) after a 400 response
// when it does not parse.
func ParseQueryDate(c *gin.Context, paramName, errorMsg string) (*time.Time, bool) {
	dateStr := c.Query(paramName)
	if dateStr == "" {
		return nil, true
	}
	t, err := utils.ParseDate(dateStr)
	if err != nil {
		response.BadRequest(c, errorMsg)
		return nil, false
	}
	return &t, true
}

// ParseRequiredQueryDate parses a required YYYY-MM-DD query parameter.
func ParseRequiredQueryDate(c *gin.Context, paramName string) (time.Time, bool) {
	dateStr := c.Query(paramName)
	if dateStr == "" {
		response.BadRequest(c, paramName+" is required")
		return time.Time{}, false
	}
	t, err := utils.ParseDate(dateStr)
	if err != nil {
		response.BadRequest(c, "invalid "+paramName+" format, expected YYYY-MM-DD")
		return time.Time{}, false
	}
	return t, true
}

// ParseQueryDateRange parses optional start_date and end_date parameters.
// Returns (nil, nil, true) when both are absent,
// (nil, nil, false) after a 400 response when either does not parse.
func ParseQueryDateRange(c *gin.Context) (*time.Time, *time.Time, bool) {
	var start, end *time.Time

	startStr := c.Query("start_date")
	if startStr != "" {
		t, err := utils.ParseDate(startStr)
		if err != nil {
			response.BadRequest(c, "invalid start_date format")
			return nil, nil, false
		}
		start = &t
	}

	endStr := c.Query("end_date")
	if endStr != "" {
		t, err := utils.ParseDate(endStr)
		if err != nil {
			response.BadRequest(c, "invalid end_date format")
			return nil, nil, false
		}
		end = &t
	}

	return start, end, true
}

// BindPagination binds and normalizes pagination query parameters.
// Defaults: page=1, page_size=10, capped at 100.
//
// Usage:
//
//	p := handler.BindPagination(c)
//	list, total, err := service.GetList(p.GetOffset(), p.GetLimit())
//	handler.MustSucceedPage(c, err, list, total, p.Page, p.PageSize)
func BindPagination(c *gin.Context) utils.Pagination {
	var p utils.Pagination
	p.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	p.PageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "10"))
	p.Normalize()
	return p
}
