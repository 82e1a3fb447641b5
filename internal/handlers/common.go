package handlers

import (
	"net/http"
	"strconv"

	"barberflow_backend/internal/middleware"
	"barberflow_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// parseIDParam reads a path parameter as int64 and writes the 400
// response itself on failure.
func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid "+name+" format.", err.Error()))
		return 0, false
	}
	return id, true
}

// tenantID reads the barbershop scope set by the auth middleware and
// writes the 403 response itself when it is missing.
func tenantID(c *gin.Context) (int64, bool) {
	id, ok := middleware.BarbershopIDFromContext(c)
	if !ok {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusForbidden, utils.ErrCodeForbidden, "Request is not scoped to a barbershop.", ""))
		return 0, false
	}
	return id, true
}

// parseInt64Query reads an optional int64 query parameter.
func parseInt64Query(c *gin.Context, name string) (*int64, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid "+name+" format.", err.Error()))
		return nil, false
	}
	return &value, true
}

// parsePagination reads page/page_size query parameters with defaults.
func parsePagination(c *gin.Context) (page, pageSize int, ok bool) {
	page, pageSize = 1, 20
	if raw := c.Query("page"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid page format.", "page must be a positive integer"))
			return 0, 0, false
		}
		page = parsed
	}
	if raw := c.Query("page_size"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid page_size format.", "page_size must be a positive integer"))
			return 0, 0, false
		}
		pageSize = parsed
	}
	return page, pageSize, true
}

// optionalStringQuery returns a pointer to the query value or nil.
func optionalStringQuery(c *gin.Context, name string) *string {
	if raw := c.Query(name); raw != "" {
		return &raw
	}
	return nil
}
