package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/schoolfees-api/pkg/pagination"
)

// GetPagination reads page and per_page from the query string
func GetPagination(c *gin.Context) *pagination.PaginationParams {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "15"))

	params := &pagination.PaginationParams{
		Page:    page,
		PerPage: perPage,
	}
	params.Validate()
	return params
}

// bindError turns a binding failure into a readable message
func bindError(err error) string {
	return "Invalid request body: " + err.Error()
}
