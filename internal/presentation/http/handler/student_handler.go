package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/schoolfees-api/internal/application/service"
	"github.com/sangkips/schoolfees-api/internal/presentation/http/dto/request"
	"github.com/sangkips/schoolfees-api/internal/presentation/http/dto/response"
)

// StudentHandler handles student-related HTTP requests
type StudentHandler struct {
	studentService *service.StudentService
}

// NewStudentHandler creates a new student handler
func NewStudentHandler(studentService *service.StudentService) *StudentHandler {
	return &StudentHandler{studentService: studentService}
}

func (h *StudentHandler) List(c *gin.Context) {
	var q request.StudentListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "Invalid query: "+err.Error())
		return
	}

	result, err := h.studentService.ListStudents(c.Request.Context(), q.ToFilter(), GetPagination(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPagination(c, 200, "Students retrieved successfully", result)
}

func (h *StudentHandler) Get(c *gin.Context) {
	student, err := h.studentService.GetStudent(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Student retrieved successfully", student)
}

func (h *StudentHandler) Create(c *gin.Context) {
	var req request.CreateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, bindError(err))
		return
	}

	student, err := h.studentService.CreateStudent(c.Request.Context(), req.ToInput())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Student created successfully", student)
}

func (h *StudentHandler) Update(c *gin.Context) {
	var req request.UpdateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, bindError(err))
		return
	}

	student, err := h.studentService.UpdateStudent(c.Request.Context(), c.Param("id"), req.ToInput())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Student updated successfully", student)
}

func (h *StudentHandler) Delete(c *gin.Context) {
	if err := h.studentService.DeleteStudent(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Student deleted successfully", nil)
}
