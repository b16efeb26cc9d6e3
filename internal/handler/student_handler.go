package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/openlearn/lmd-api/internal/service"
	appErrors "github.com/openlearn/lmd-api/pkg/errors"
	"github.com/openlearn/lmd-api/pkg/response"
)

// StudentHandler exposes student endpoints.
type StudentHandler struct {
	students *service.StudentService
}

// NewStudentHandler constructs StudentHandler.
func NewStudentHandler(students *service.StudentService) *StudentHandler {
	return &StudentHandler{students: students}
}

// List godoc
// @Summary List students with their enrolled courses
// @Tags Students
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /students [get]
func (h *StudentHandler) List(c *gin.Context) {
	students, err := h.students.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Students retrieved successfully", students)
}

// Get godoc
// @Summary Get a student by ID
// @Tags Students
// @Produce json
// @Param id path int true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id} [get]
func (h *StudentHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	student, err := h.students.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Student retrieved successfully", student)
}

// Search godoc
// @Summary Search students by name or email
// @Tags Students
// @Produce json
// @Param searchTerm query string true "Case-insensitive substring"
// @Success 200 {object} response.Envelope
// @Router /students/search [get]
func (h *StudentHandler) Search(c *gin.Context) {
	term := strings.TrimSpace(c.Query("searchTerm"))
	if term == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "Search term is required"))
		return
	}
	students, err := h.students.Search(c.Request.Context(), term)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Students retrieved successfully", students)
}
