package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/openlearn/lmd-api/internal/models"
	"github.com/openlearn/lmd-api/internal/repository"
	"github.com/openlearn/lmd-api/internal/service"
	"github.com/openlearn/lmd-api/pkg/response"
)

type testAPI struct {
	router      *gin.Engine
	courses     *repository.MemoryCourseRepository
	students    *repository.MemoryStudentRepository
	enrollments *repository.MemoryEnrollmentRepository
}

// newTestAPI assembles the routes exactly as main does, over fresh memory
// repositories.
func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	courses := repository.NewMemoryCourseRepository()
	students := repository.NewMemoryStudentRepository()
	enrollments := repository.NewMemoryEnrollmentRepository()

	validate := validator.New()
	logger := zap.NewNop()
	courseSvc := service.NewCourseService(courses, enrollments, validate, logger)
	studentSvc := service.NewStudentService(students, enrollments, courses, logger)
	enrollmentSvc := service.NewEnrollmentService(enrollments, students, courses, validate, logger)

	courseHandler := NewCourseHandler(courseSvc)
	studentHandler := NewStudentHandler(studentSvc)
	enrollmentHandler := NewEnrollmentHandler(enrollmentSvc)

	router := gin.New()
	api := router.Group("/api")
	{
		api.GET("/courses", courseHandler.List)
		api.POST("/courses", courseHandler.Create)
		api.GET("/courses/:id", courseHandler.Get)
		api.PUT("/courses/:id", courseHandler.Update)
		api.DELETE("/courses/:id", courseHandler.Delete)

		api.GET("/enrollments", enrollmentHandler.List)
		api.POST("/enrollments", enrollmentHandler.Create)
		api.GET("/enrollments/report", enrollmentHandler.Report)
		api.GET("/enrollments/report/export", enrollmentHandler.ExportReport)
		api.GET("/enrollments/:id", enrollmentHandler.Get)
		api.PUT("/enrollments/:id/status", enrollmentHandler.UpdateStatus)
		api.DELETE("/enrollments/:id", enrollmentHandler.Delete)

		api.GET("/students", studentHandler.List)
		api.GET("/students/search", studentHandler.Search)
		api.GET("/students/:id", studentHandler.Get)
	}
	return &testAPI{router: router, courses: courses, students: students, enrollments: enrollments}
}

func (a *testAPI) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) response.Envelope {
	t.Helper()
	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return envelope
}

func TestCourseEndpointsLifecycle(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/api/courses", gin.H{
		"title":       "Intro to Programming",
		"description": "Variables, loops and functions from scratch",
		"code":        "CS101",
		"maxCapacity": 30,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	envelope := decodeEnvelope(t, rec)
	assert.True(t, envelope.Success)
	assert.Equal(t, "Course created successfully", envelope.Message)

	data := envelope.Data.(map[string]interface{})
	assert.Equal(t, "CS101", data["code"])
	assert.Equal(t, true, data["isActive"])
	assert.Equal(t, float64(0), data["enrolledStudents"])

	rec = api.do(t, http.MethodGet, "/api/courses/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(t, http.MethodDelete, "/api/courses/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(t, http.MethodGet, "/api/courses/1", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	envelope = decodeEnvelope(t, rec)
	assert.False(t, envelope.Success)
	assert.Equal(t, "Course with ID 1 not found", envelope.Message)
}

func TestCourseEndpointValidationDetails(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/api/courses", gin.H{
		"title":       "Go",
		"description": "short",
		"code":        "",
		"maxCapacity": 0,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	envelope := decodeEnvelope(t, rec)
	assert.False(t, envelope.Success)
	assert.NotEmpty(t, envelope.Errors)
}

func TestCourseEndpointInvalidID(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodGet, "/api/courses/abc", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	envelope := decodeEnvelope(t, rec)
	assert.Equal(t, "Invalid identifier", envelope.Message)
}

func seedStudent(t *testing.T, api *testAPI, first, last, email string) int64 {
	t.Helper()
	student := models.Student{FirstName: first, LastName: last, Email: email}
	require.NoError(t, api.students.Create(context.Background(), &student))
	return student.ID
}
