package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/schoolfees-api/internal/application/service"
	"github.com/sangkips/schoolfees-api/internal/presentation/http/dto/request"
	"github.com/sangkips/schoolfees-api/internal/presentation/http/dto/response"
)

// SettingsHandler handles the school profile and the operator role
type SettingsHandler struct {
	schoolService *service.SchoolService
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(schoolService *service.SchoolService) *SettingsHandler {
	return &SettingsHandler{schoolService: schoolService}
}

func (h *SettingsHandler) GetSchoolInfo(c *gin.Context) {
	info, err := h.schoolService.GetSchoolInfo(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "School info retrieved successfully", info)
}

func (h *SettingsHandler) UpdateSchoolInfo(c *gin.Context) {
	var req request.UpdateSchoolInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, bindError(err))
		return
	}

	info, err := h.schoolService.UpdateSchoolInfo(c.Request.Context(), req.ToInput())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "School info updated successfully", info)
}

func (h *SettingsHandler) GetRole(c *gin.Context) {
	role, err := h.schoolService.GetRole(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Role retrieved successfully", gin.H{"role": role})
}

func (h *SettingsHandler) SetRole(c *gin.Context) {
	var req request.SetRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, bindError(err))
		return
	}

	role, err := h.schoolService.SetRole(c.Request.Context(), req.Role)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Role updated successfully", gin.H{"role": role})
}
